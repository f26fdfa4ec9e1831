// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import "fmt"

// Store is an ordered sequence of trees with a selected active index.
// Duplication, deletion, and activation preserve index semantics:
// the active index is always clamped into the valid range.
type Store struct {
	trees  []*Tree
	active int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Seed creates a one-node tree and appends it to the store,
// making it active.
func (s *Store) Seed(treeName, rootName string) *Tree {
	t := NewSeed(treeName, rootName)
	s.trees = append(s.trees, t)
	s.active = len(s.trees) - 1
	return t
}

// Len returns the number of trees in the store.
func (s *Store) Len() int { return len(s.trees) }

// Active returns the active tree, or nil if the store is empty.
func (s *Store) Active() *Tree {
	if len(s.trees) == 0 {
		return nil
	}
	return s.trees[s.active]
}

// ActiveIndex returns the current active index.
func (s *Store) ActiveIndex() int { return s.active }

// SetActive selects the tree at index i as active.
// The index is clamped into the valid range.
func (s *Store) SetActive(i int) {
	s.active = s.clamp(i)
}

// At returns the tree at index i, or an error if out of range.
func (s *Store) At(i int) (*Tree, error) {
	if i < 0 || i >= len(s.trees) {
		return nil, fmt.Errorf("tree store: index %d out of range [0,%d)", i, len(s.trees))
	}
	return s.trees[i], nil
}

// Append adds t to the store and returns its index.
// It does not change the active index.
func (s *Store) Append(t *Tree) int {
	s.trees = append(s.trees, t)
	return len(s.trees) - 1
}

// DuplicateActive appends a deep copy of the active tree
// and returns its index. It does not change the active index.
func (s *Store) DuplicateActive() (int, error) {
	a := s.Active()
	if a == nil {
		return 0, fmt.Errorf("tree store: no active tree to duplicate")
	}
	return s.Append(a.Clone()), nil
}

// Delete removes the tree at index i.
// The active index is clamped into the resulting range.
func (s *Store) Delete(i int) error {
	if i < 0 || i >= len(s.trees) {
		return fmt.Errorf("tree store: index %d out of range [0,%d)", i, len(s.trees))
	}
	s.trees = append(s.trees[:i], s.trees[i+1:]...)
	s.active = s.clamp(s.active)
	return nil
}

func (s *Store) clamp(i int) int {
	if len(s.trees) == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= len(s.trees) {
		return len(s.trees) - 1
	}
	return i
}

// All returns every tree in the store, in order.
func (s *Store) All() []*Tree {
	return s.trees
}

// Clone returns a deep copy of the entire store, used by snapshot/restore.
func (s *Store) Clone() *Store {
	ns := &Store{
		trees:  make([]*Tree, len(s.trees)),
		active: s.active,
	}
	for i, t := range s.trees {
		ns.trees[i] = t.Clone()
	}
	return ns
}
