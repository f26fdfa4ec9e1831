// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package engine bundles the handful of singletons every action,
// sysaction, and analysis draws on — the tree store, the two trait
// matrices, the RNG, process preferences, and a report sink — into
// one Context value passed explicitly to Action.Execute, and wraps
// that bundle in a Model façade offering the small set of operations
// a caller programs a run through: seed a tree, import trait data,
// select/duplicate/delete trees, add/drop trait columns, snapshot and
// restore, and drive a queued action.
package engine

import (
	"github.com/agapow-sim/mesasim/prefs"
	"github.com/agapow-sim/mesasim/report"
	"github.com/agapow-sim/mesasim/rng"
	"github.com/agapow-sim/mesasim/traitmat"
	"github.com/agapow-sim/mesasim/tree"
)

// Context is the concrete Env every action package's Env interface is
// written against: action.Env, sysaction.Env, and analysis.Env are
// all satisfied by a *Context at once, so a single value can be
// threaded through a queue mixing tree edits, system actions, and
// analyses without any caller-side adaptation.
type Context struct {
	trees *tree.Store
	cont  *traitmat.ContMatrix
	disc  *traitmat.DiscMatrix
	rng   *rng.Service
	pref  *prefs.Prefs
	sink  report.Sink
}

// NewContext returns a Context over an empty tree store and empty
// trait matrices, seeding its RNG from pr.RNGSeed. A nil sink is
// replaced with report.Discard so Sink() is always safe to call.
func NewContext(pr prefs.Prefs, sink report.Sink) *Context {
	if sink == nil {
		sink = report.Discard
	}
	return &Context{
		trees: tree.NewStore(),
		cont:  traitmat.NewCont(),
		disc:  traitmat.NewDisc(),
		rng:   rng.New(pr.RNGSeed),
		pref:  &pr,
		sink:  sink,
	}
}

// Trees implements action.Env.
func (c *Context) Trees() *tree.Store { return c.trees }

// Sink implements action.Env.
func (c *Context) Sink() report.Sink { return c.sink }

// ContData implements sysaction.Env and analysis.Env.
func (c *Context) ContData() *traitmat.ContMatrix { return c.cont }

// DiscData implements sysaction.Env and analysis.Env.
func (c *Context) DiscData() *traitmat.DiscMatrix { return c.disc }

// Prefs implements sysaction.Env.
func (c *Context) Prefs() *prefs.Prefs { return c.pref }

// RNG implements sysaction.Env and analysis.Env. Its return type is
// rng.Roller, and both of those packages' own Roller names are
// aliases of it, so this one method satisfies both interfaces' RNG
// requirement at once.
func (c *Context) RNG() rng.Roller { return c.rng }

// snapshot is the deep copy of every piece of mutable state an
// action.Env RunAndRestore pass, or an epoch's RestartIfDead, needs
// to roll back to.
type snapshot struct {
	trees *tree.Store
	cont  *traitmat.ContMatrix
	disc  *traitmat.DiscMatrix
}

// Snapshot implements action.Env and epoch.Snapshotter.
func (c *Context) Snapshot() any {
	return snapshot{
		trees: c.trees.Clone(),
		cont:  c.cont.Clone(),
		disc:  c.disc.Clone(),
	}
}

// Restore implements action.Env and epoch.Snapshotter. It installs
// fresh copies of the snapshot's state, so the same snapshot can be
// restored again after later changes. It panics if given a value
// Snapshot did not produce, which would itself be a programming error
// at the call site.
func (c *Context) Restore(snap any) {
	s := snap.(snapshot)
	c.trees = s.trees.Clone()
	c.cont = s.cont.Clone()
	c.disc = s.disc.Clone()
}
