// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package engine

import (
	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/epoch"
)

// RunEpoch adapts an *epoch.Epoch, whose Execute takes a roller, the
// active tree, and a snapshotter directly, into an action.Action that
// a Queue can schedule alongside ordinary sysactions and analyses.
type RunEpoch struct {
	action.Leaf
	Epoch *epoch.Epoch
}

// NewRunEpoch returns a RunEpoch action wrapping e, described for
// queue listings by e's terminator.
func NewRunEpoch(e *epoch.Epoch) *RunEpoch {
	return &RunEpoch{
		Leaf:  action.Leaf{Desc: "run epoch: " + e.Term.Describe()},
		Epoch: e,
	}
}

// Execute implements action.Action. It runs the epoch against env's
// active tree, using env itself as the epoch's snapshotter so a
// RestartIfDead epoch rolls back every piece of mutable state env
// owns, not just the tree.
func (a *RunEpoch) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	t := se.Trees().Active()
	if t == nil {
		return ErrNoActiveTree
	}
	return a.Epoch.Execute(se.RNG(), t, env)
}
