// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package analysis implements the read-only measurements that can be
// run over the active tree and trait data: tree and node descriptive
// statistics, diversity indices, resampling estimators, imbalance
// statistics, and tree-shape statistics. Every analysis is a leaf
// action.Action that writes its results straight to the reporter sink
// under a push-prefix scope, and never mutates the tree or trait data
// it reads.
package analysis

import (
	"errors"
	"sort"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/report"
	"github.com/agapow-sim/mesasim/rng"
	"github.com/agapow-sim/mesasim/traitmat"
	"github.com/agapow-sim/mesasim/tree"
)

// ErrWrongEnv is returned by an analysis's Execute when the supplied
// action.Env does not also satisfy Env.
var ErrWrongEnv = errors.New("analysis: env does not provide trait data access")

// Roller is the source of randomness an analysis draws on to
// resample. It is an alias for rng.Roller, not a separately-declared
// interface, so that engine.Context's one RNG accessor method can
// satisfy this package's Env alongside sysaction.Env (two
// independently-declared interface types are never identical in Go,
// even with the same method set).
type Roller = rng.Roller

// Env is the context an analysis needs beyond the bare action.Env:
// access to the trait matrices it reads abundances and characters
// from, and a source of randomness for bootstrap resampling.
type Env interface {
	action.Env
	ContData() *traitmat.ContMatrix
	DiscData() *traitmat.DiscMatrix
	RNG() Roller
}

// envOf recovers the richer Env from a bare action.Env, or
// ErrWrongEnv if the caller did not supply one.
func envOf(env action.Env) (Env, error) {
	e, ok := env.(Env)
	if !ok {
		return nil, ErrWrongEnv
	}
	return e, nil
}

// activeTree returns the store and its active tree, or a nil tree if
// there is none.
func activeTree(env Env) (*tree.Store, *tree.Tree) {
	store := env.Trees()
	return store, store.Active()
}

// speciesAbundances sums every site column of cont for each row
// (taxon), returning the per-species totals and their grand total N.
// Rows with zero total abundance are dropped, since they contribute
// nothing to any diversity index.
func speciesAbundances(cont *traitmat.ContMatrix) (counts []float64, total float64) {
	for _, name := range cont.Rows() {
		a := cont.Abundance(name)
		if a <= 0 {
			continue
		}
		counts = append(counts, a)
		total += a
	}
	return counts, total
}

// scoped runs fn with prefix pushed onto the sink, guaranteeing the
// matching pop even if fn returns early.
func scoped(sink report.Sink, prefix string, fn func()) {
	defer report.Scope(sink, prefix)()
	fn()
}

// sortedFloats returns a sorted copy of vals, ascending.
func sortedFloats(vals []float64) []float64 {
	out := append([]float64(nil), vals...)
	sort.Float64s(out)
	return out
}
