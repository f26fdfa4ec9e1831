// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sysaction implements the actions that manipulate the shared
// model state — the tree store, the two trait matrices, and process
// preferences — rather than acting within a single tree the way a
// rule does. Each is a small leaf action (action.Leaf) that type-
// asserts its env to sysaction.Env to reach the collaborators it needs.
package sysaction

import (
	"errors"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/prefs"
	"github.com/agapow-sim/mesasim/rng"
	"github.com/agapow-sim/mesasim/tree"
	"github.com/agapow-sim/mesasim/traitmat"
)

// ErrWrongEnv is returned when an action.Env passed to a sysaction
// does not also implement Env.
var ErrWrongEnv = errors.New("sysaction: env does not implement sysaction.Env")

// Roller is the randomness an action needs: a normal draw for
// length-randomisation and a shuffle for trait permutation and
// random-target selection. It is an alias for rng.Roller, not a
// separately-declared interface, so that engine.Context's one RNG
// accessor method can satisfy this package's Env alongside
// analysis.Env (two independently-declared interface types are never
// identical in Go, even with the same method set).
type Roller = rng.Roller

// Env is everything a sysaction needs beyond action.Env: the two
// trait matrices, process preferences, and a source of randomness.
// The engine package's Context satisfies this.
type Env interface {
	action.Env
	ContData() *traitmat.ContMatrix
	DiscData() *traitmat.DiscMatrix
	Prefs() *prefs.Prefs
	RNG() Roller
}

// envOf narrows env to Env, or returns ErrWrongEnv.
func envOf(env action.Env) (Env, error) {
	se, ok := env.(Env)
	if !ok {
		return nil, ErrWrongEnv
	}
	return se, nil
}

// activeTree is a small convenience shared by every sysaction that
// operates on the active tree.
func activeTree(se Env) (*tree.Store, *tree.Tree) {
	s := se.Trees()
	return s, s.Active()
}
