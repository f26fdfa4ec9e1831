// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sysaction

import (
	"errors"
	"fmt"

	"github.com/agapow-sim/mesasim/action"
)

// ErrConsolidatePrecondition is returned by ConsolidateTaxa when its
// preconditions aren't met: no trait data recorded, and every tree in
// the store having the same leaf count as the active tree.
var ErrConsolidatePrecondition = errors.New("sysaction: consolidate taxa: requires no trait data and matching leaf counts")

// ConsolidateTaxa copies leaf names from the active tree onto every
// other tree in the store, when there is no recorded trait data and
// every tree has the same leaf count. It is meant for post-hoc
// simulation batches where only topology, not taxon identity, varies
// between replicate trees.
type ConsolidateTaxa struct {
	action.Leaf
}

// NewConsolidateTaxa returns a ConsolidateTaxa action.
func NewConsolidateTaxa() ConsolidateTaxa {
	return ConsolidateTaxa{Leaf: action.Leaf{Desc: "consolidate taxa names"}}
}

// Execute implements action.Action.
func (ConsolidateTaxa) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	if len(se.ContData().Rows()) > 0 || len(se.DiscData().Rows()) > 0 {
		return ErrConsolidatePrecondition
	}

	store, active := activeTree(se)
	if active == nil {
		return fmt.Errorf("sysaction: consolidate taxa: no active tree")
	}
	names := make([]string, 0, len(active.Leaves()))
	for _, id := range active.Leaves() {
		names = append(names, active.Node(id).Name)
	}

	for _, t := range store.All() {
		if t == active {
			continue
		}
		leaves := t.Leaves()
		if len(leaves) != len(names) {
			return ErrConsolidatePrecondition
		}
		for i, id := range leaves {
			if err := t.SetNodeName(id, names[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteDeadTaxa iteratively prunes dead leaves from the active tree
// until none remain.
type DeleteDeadTaxa struct {
	action.Leaf
}

// NewDeleteDeadTaxa returns a DeleteDeadTaxa action.
func NewDeleteDeadTaxa() DeleteDeadTaxa {
	return DeleteDeadTaxa{Leaf: action.Leaf{Desc: "delete dead leaves"}}
}

// Execute implements action.Action.
func (DeleteDeadTaxa) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, t := activeTree(se)
	if t == nil {
		return fmt.Errorf("sysaction: delete dead taxa: no active tree")
	}
	t.DeleteDeadLeaves()
	return nil
}

// DeleteDeadTraits removes every trait-matrix row whose taxon is a
// dead leaf (or absent) in the active tree.
type DeleteDeadTraits struct {
	action.Leaf
}

// NewDeleteDeadTraits returns a DeleteDeadTraits action.
func NewDeleteDeadTraits() DeleteDeadTraits {
	return DeleteDeadTraits{Leaf: action.Leaf{Desc: "delete trait values for dead taxa"}}
}

// Execute implements action.Action.
func (DeleteDeadTraits) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, t := activeTree(se)
	if t == nil {
		return fmt.Errorf("sysaction: delete dead traits: no active tree")
	}

	isDead := func(name string) bool {
		id, ok := t.FindByName(name)
		return !ok || !t.IsAlive(id)
	}
	for _, name := range append([]string(nil), se.DiscData().Rows()...) {
		if isDead(name) {
			if err := se.DiscData().DeleteRow(name); err != nil {
				return err
			}
		}
	}
	for _, name := range append([]string(nil), se.ContData().Rows()...) {
		if isDead(name) {
			if err := se.ContData().DeleteRow(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// CollapseSingletons collapses every singleton node in the active
// tree until none remain.
type CollapseSingletons struct {
	action.Leaf
}

// NewCollapseSingletons returns a CollapseSingletons action.
func NewCollapseSingletons() CollapseSingletons {
	return CollapseSingletons{Leaf: action.Leaf{Desc: "collapse singletons nodes"}}
}

// Execute implements action.Action.
func (CollapseSingletons) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, t := activeTree(se)
	if t == nil {
		return fmt.Errorf("sysaction: collapse singletons: no active tree")
	}
	t.CollapseSingletons()
	return nil
}

// MakeNeontological reduces the active tree to its neontological
// core: delete dead taxa, then collapse the singletons that leaves.
type MakeNeontological struct {
	action.Leaf
}

// NewMakeNeontological returns a MakeNeontological action.
func NewMakeNeontological() MakeNeontological {
	return MakeNeontological{Leaf: action.Leaf{Desc: "reduce tree to neontological core"}}
}

// Execute implements action.Action.
func (MakeNeontological) Execute(env action.Env) error {
	if err := (DeleteDeadTaxa{}).Execute(env); err != nil {
		return err
	}
	return (CollapseSingletons{}).Execute(env)
}
