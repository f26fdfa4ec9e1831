// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package traitmat

import "fmt"

// DiscMatrix is the discrete-state trait matrix. Each column
// maintains its own sorted set of observed states, excluding the
// missing-data tokens "?" and "-".
type DiscMatrix struct {
	*Matrix[string]
	states map[string]*StateSet // column name -> observed states
}

// NewDisc returns an empty discrete trait matrix.
func NewDisc() *DiscMatrix {
	return &DiscMatrix{
		Matrix: New[string](),
		states: make(map[string]*StateSet),
	}
}

// AddColumn appends a new discrete column, also registering its
// (initially empty) state set.
func (m *DiscMatrix) AddColumn(name string) error {
	if err := m.Matrix.AddColumn(name); err != nil {
		return err
	}
	m.states[name] = NewStateSet()
	return nil
}

// DeleteColumn removes the named column and its observed state set.
func (m *DiscMatrix) DeleteColumn(name string) error {
	if err := m.Matrix.DeleteColumn(name); err != nil {
		return err
	}
	delete(m.states, name)
	return nil
}

// Set writes a discrete state and records it in the column's observed
// state set (unless it is a missing-data token).
func (m *DiscMatrix) Set(row, col, val string) error {
	if err := m.Matrix.Set(row, col, val); err != nil {
		return err
	}
	if s, ok := m.states[col]; ok {
		s.Add(val)
	}
	return nil
}

// States returns the observed state set for a column, or nil if the
// column does not exist.
func (m *DiscMatrix) States(col string) *StateSet {
	return m.states[col]
}

// Clone returns a deep copy of the matrix, used by snapshot/restore.
func (m *DiscMatrix) Clone() *DiscMatrix {
	nm := &DiscMatrix{
		Matrix: m.Matrix.Clone(),
		states: make(map[string]*StateSet, len(m.states)),
	}
	for k, v := range m.states {
		nm.states[k] = v.Clone()
	}
	return nm
}

// Recompute rebuilds the observed state set for a column from its
// current cell values, used after a bulk edit that bypassed Set.
func (m *DiscMatrix) Recompute(col string) error {
	if !m.HasColumn(col) {
		return fmt.Errorf("recompute states %q: %w", col, ErrNoSuchCol)
	}
	s := NewStateSet()
	for _, row := range m.Rows() {
		v, _ := m.Get(row, col)
		s.Add(v)
	}
	m.states[col] = s
	return nil
}
