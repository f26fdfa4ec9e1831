// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package action implements the model-manipulation tree: a recursive,
// flattened-addressing container of actions that can be composed,
// inspected, and run once, N times, over every tree in a store, or
// with the model snapshotted and restored between iterations.
package action

import (
	"errors"

	"github.com/agapow-sim/mesasim/report"
	"github.com/agapow-sim/mesasim/tree"
)

// ErrCannotDeleteSelf is returned by DeleteElement(0): a container
// cannot delete itself from within its own addressing scheme.
var ErrCannotDeleteSelf = errors.New("action: cannot delete a container from itself")

// ErrIndexOutOfRange is returned when an index addresses no action.
var ErrIndexOutOfRange = errors.New("action: index out of range")

// Env is everything an Action needs from its caller to run: the tree
// store it operates against, a sink for progress reporting, and a
// snapshot/restore pair used by RunAndRestore. The engine package's
// Context satisfies this without action importing it.
type Env interface {
	Trees() *tree.Store
	Sink() report.Sink
	Snapshot() any
	Restore(snapshot any)
}

// Action is one node of the model-manipulation tree. Every action,
// leaf or container, addresses itself and its descendants through a
// single flattened index space: index 0 always refers to the action
// itself, and indices 1..DeepSize()-1 address its descendants in
// depth-first order.
type Action interface {
	// Execute runs the action against env.
	Execute(env Env) error

	// DeepSize is 1 (the action itself) plus the deep size of every
	// descendant; a leaf action always returns 1.
	DeepSize() int

	// Describe returns a human-readable description of the action
	// addressed by index.
	Describe(index int) string

	// Depth returns the nesting depth of the action addressed by
	// index, relative to this action (itself is depth 0).
	Depth(index int) int

	// DeleteElement removes the descendant addressed by index from
	// its parent container. Index 0 always fails with
	// ErrCannotDeleteSelf.
	DeleteElement(index int) error
}

// Analysis marks an action as an analysis (as opposed to a model
// manipulation), so that ContainsAnalyses can find it under any depth
// of container nesting.
type Analysis interface {
	Action
	analysisMarker()
}

// AnalysisLeaf is embedded by leaf actions that report results rather
// than mutate the model, giving them the Analysis marker for free.
type AnalysisLeaf struct{ Leaf }

func (AnalysisLeaf) analysisMarker() {}

// Leaf is embedded by non-container actions to supply the bookkeeping
// methods every Action needs beyond Execute: DeepSize is always 1,
// Describe/Depth only accept index 0, and a leaf can never be deleted
// from itself (only its parent container can drop it).
type Leaf struct {
	Desc string
}

// DeepSize implements Action.
func (Leaf) DeepSize() int { return 1 }

// Describe implements Action.
func (l Leaf) Describe(index int) string {
	if index != 0 {
		return ""
	}
	return l.Desc
}

// Depth implements Action.
func (Leaf) Depth(index int) int { return 0 }

// DeleteElement implements Action.
func (Leaf) DeleteElement(index int) error {
	if index == 0 {
		return ErrCannotDeleteSelf
	}
	return ErrIndexOutOfRange
}

// Container is the shared addressing and bookkeeping logic for every
// composite action (RunOnce, RunN, RunAndRestore, TreeMacro). Index 0
// refers to the container itself; recursion into children subtracts
// each child's DeepSize in turn until the owning child is found.
type Container struct {
	Desc     string
	children []Action
}

// Adopt appends a to the container's children.
func (c *Container) Adopt(a Action) { c.children = append(c.children, a) }

// Children returns the container's direct children, in order.
func (c *Container) Children() []Action { return c.children }

// Len returns the number of direct children.
func (c *Container) Len() int { return len(c.children) }

// Clear drops every child.
func (c *Container) Clear() { c.children = nil }

// Execute implements Action: it runs every child once, in order.
func (c *Container) Execute(env Env) error { return c.executeAll(env) }

// DeepSize implements Action: the container counts itself plus every
// descendant.
func (c *Container) DeepSize() int {
	n := 1
	for _, ch := range c.children {
		n += ch.DeepSize()
	}
	return n
}

// Describe implements Action.
func (c *Container) Describe(index int) string {
	if index == 0 {
		return "macro: " + c.Desc
	}
	idx := index - 1
	for _, ch := range c.children {
		sz := ch.DeepSize()
		if idx < sz {
			return ch.Describe(idx)
		}
		idx -= sz
	}
	return ""
}

// Depth implements Action.
func (c *Container) Depth(index int) int {
	if index == 0 {
		return 0
	}
	idx := index - 1
	for _, ch := range c.children {
		sz := ch.DeepSize()
		if idx < sz {
			return ch.Depth(idx) + 1
		}
		idx -= sz
	}
	return -1
}

// DeleteElement implements Action. Index 0 (the container itself)
// cannot be deleted; an index equal to a child's own flat position
// deletes that child outright, and an index inside a child's subtree
// recurses into that child.
func (c *Container) DeleteElement(index int) error {
	if index == 0 {
		return ErrCannotDeleteSelf
	}
	idx := index - 1
	for i, ch := range c.children {
		sz := ch.DeepSize()
		if idx == 0 {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return nil
		}
		if idx < sz {
			return ch.DeleteElement(idx)
		}
		idx -= sz
	}
	return ErrIndexOutOfRange
}

// ContainsAnalyses reports whether a, or any of its descendants, is
// an Analysis.
func ContainsAnalyses(a Action) bool {
	if c, ok := a.(interface{ Children() []Action }); ok {
		for _, ch := range c.Children() {
			if ContainsAnalyses(ch) {
				return true
			}
		}
		return false
	}
	_, ok := a.(Analysis)
	return ok
}

// executeAll runs every child in order, stopping at the first error.
func (c *Container) executeAll(env Env) error {
	for _, ch := range c.children {
		if err := ch.Execute(env); err != nil {
			return err
		}
	}
	return nil
}

// scoped runs fn with prefix pushed onto env's sink for the duration,
// popping it on every exit path including a panic unwind.
func scoped(env Env, prefix string, fn func() error) error {
	defer report.Scope(env.Sink(), prefix)()
	return fn()
}
