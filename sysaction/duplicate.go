// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sysaction

import "github.com/agapow-sim/mesasim/action"

// DuplicateTree appends a deep copy of the active tree to the store,
// leaving the original active.
type DuplicateTree struct {
	action.Leaf
}

// NewDuplicateTree returns a DuplicateTree action.
func NewDuplicateTree() DuplicateTree {
	return DuplicateTree{Leaf: action.Leaf{Desc: "duplicate active tree"}}
}

// Execute implements action.Action.
func (DuplicateTree) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, err = se.Trees().DuplicateActive()
	return err
}
