// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package epoch implements the event-driven continuous-time
// scheduler: a container of global, local, and conditional rules that
// repeatedly picks the soonest-firing rule, advances the tree by its
// wait, commits it, and lets every conditional rule react.
package epoch

import (
	"errors"
	"fmt"

	"github.com/agapow-sim/mesasim/rule"
	"github.com/agapow-sim/mesasim/tree"
)

// ErrNoRules is returned at construction when an epoch has no rules
// at all.
var ErrNoRules = errors.New("no rules in epoch")

// ErrNoNonConditionalRules is returned when an epoch's rule set
// contains only conditionals: nothing can ever actually fire.
var ErrNoNonConditionalRules = errors.New("no non-conditional rules in epoch")

// ErrNoLivingTaxa is the execution-error raised mid-loop when the
// active tree runs out of living leaves.
var ErrNoLivingTaxa = errors.New("no living taxa")

// NodeCount selects which population count a PopLimit terminator
// tests against.
type NodeCount int

const (
	// CountAllNodes counts every node, internal and tip alike.
	CountAllNodes NodeCount = iota
	// CountAllLeaves counts every leaf, living or dead.
	CountAllLeaves
	// CountLivingLeaves counts only the living leaves.
	CountLivingLeaves
)

// Terminator decides when an epoch's loop should stop.
type Terminator interface {
	IsAtEnd(t *tree.Tree) bool
	Describe() string
}

// PopLimit terminates once a node count reaches Limit. When Advance
// is set, the scheduler keeps running past the limit, substituting an
// end-of-epoch marker for the next speciation or extinction so
// terminal/gradual conditionals can finalise without changing the tip
// count (§4.6 of the scheduler's "advance to next event" mode).
type PopLimit struct {
	Limit   int
	Count   NodeCount
	Advance bool
}

// IsAtEnd implements Terminator.
func (p PopLimit) IsAtEnd(t *tree.Tree) bool {
	var n int
	switch p.Count {
	case CountAllNodes:
		n = t.CountNodes()
	case CountAllLeaves:
		n = t.CountLeaves()
	case CountLivingLeaves:
		n = t.CountLivingLeaves()
	}
	return n >= p.Limit
}

// Describe implements Terminator.
func (p PopLimit) Describe() string {
	var which string
	switch p.Count {
	case CountAllNodes:
		which = "total nodes"
	case CountAllLeaves:
		which = "all leaves"
	default:
		which = "extant taxa"
	}
	return fmt.Sprintf("evolve while (%s < %d)", which, p.Limit)
}

// TimeLimit terminates once the active tree's age reaches Limit.
type TimeLimit struct {
	Limit float64
}

// IsAtEnd implements Terminator.
func (tl TimeLimit) IsAtEnd(t *tree.Tree) bool {
	return t.TreeAge() >= tl.Limit
}

// Describe implements Terminator.
func (tl TimeLimit) Describe() string {
	return fmt.Sprintf("evolve until (%g <= time)", tl.Limit)
}

// Epoch is a scheduled container of rules with a termination
// predicate. It partitions its rules once at construction and,
// against the currently active tree, repeatedly fires the
// soonest-waiting rule until the terminator is satisfied or every
// leaf has died.
type Epoch struct {
	Term          Terminator
	TimeGrain     float64
	RestartIfDead bool

	globals      []rule.Global
	locals       []rule.Local
	conditionals []rule.Conditional
}

// New partitions rules into their three families and returns an
// epoch, or an error if the rule set is empty or wholly conditional.
func New(term Terminator, timeGrain float64, restartIfDead bool, rules []rule.Rule) (*Epoch, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}
	e := &Epoch{Term: term, TimeGrain: timeGrain, RestartIfDead: restartIfDead}
	for _, r := range rules {
		switch r.Kind() {
		case rule.KindGlobal:
			e.globals = append(e.globals, r.(rule.Global))
		case rule.KindLocal:
			e.locals = append(e.locals, r.(rule.Local))
		case rule.KindConditional:
			e.conditionals = append(e.conditionals, r.(rule.Conditional))
		}
	}
	if len(e.globals)+len(e.locals) == 0 {
		return nil, ErrNoNonConditionalRules
	}
	return e, nil
}

// Snapshotter captures and restores whatever state an Execute caller
// wants protected by RestartIfDead (the tree store and both trait
// matrices, in the engine package's composition).
type Snapshotter interface {
	Snapshot() any
	Restore(snapshot any)
}

// Execute runs the epoch's loop against t until Term.IsAtEnd(t) or no
// living leaf remains. If RestartIfDead is set and the tree dies out
// mid-run (ErrNoLivingTaxa), snap is restored and the loop restarts
// from scratch; otherwise the error propagates.
func (e *Epoch) Execute(r rule.Roller, t *tree.Tree, snap Snapshotter) error {
	var saved any
	if e.RestartIfDead && snap != nil {
		saved = snap.Snapshot()
	}
	for {
		err := e.runLoop(r, t)
		if err == nil {
			return nil
		}
		if e.RestartIfDead && snap != nil {
			snap.Restore(saved)
			continue
		}
		return err
	}
}

func (e *Epoch) runLoop(r rule.Roller, t *tree.Tree) error {
	for !e.Term.IsAtEnd(t) && t.CountLivingLeaves() > 0 {
		if err := e.once(r, t); err != nil {
			return err
		}
	}
	if p, ok := e.Term.(PopLimit); ok && p.Advance && e.hasSpeciationOrKill() {
		return e.advanceToNextEvent(r, t)
	}
	return nil
}

func (e *Epoch) hasSpeciationOrKill() bool {
	for _, l := range e.locals {
		if rule.IsSpeciationOrExtinctionRule(l) {
			return true
		}
	}
	return false
}

// once runs a single scheduling step: find the soonest rule, age the
// tree to meet it, commit it, and fire any triggered conditionals.
func (e *Epoch) once(r rule.Roller, t *tree.Tree) error {
	if t.CountLivingLeaves() == 0 {
		return ErrNoLivingTaxa
	}
	firing, leaf, dt := e.findFirst(r, t)
	t.AgeAllLeaves(dt)
	var subjects []int
	if leaf >= 0 {
		subjects = firing.(rule.Local).Commit(t, leaf)
	} else {
		subjects = firing.(rule.Global).Commit(r, t)
	}
	e.fireConditionals(r, t, firing, subjects, dt)
	return nil
}

// findFirst shuffles the living leaves and the local/global rule
// sequences (so ties among candidates break uniformly), then returns
// the rule/leaf pair with the minimum computed wait. leaf is -1 when
// a global rule wins.
func (e *Epoch) findFirst(r rule.Roller, t *tree.Tree) (rule.Rule, int, float64) {
	const sentinel = 1e6

	leaves := t.LivingLeaves()
	r.Shuffle(len(leaves), func(i, j int) { leaves[i], leaves[j] = leaves[j], leaves[i] })

	locals := append([]rule.Local(nil), e.locals...)
	r.Shuffle(len(locals), func(i, j int) { locals[i], locals[j] = locals[j], locals[i] })

	best := sentinel
	var bestRule rule.Rule
	bestLeaf := -1

	for _, leaf := range leaves {
		for _, lr := range locals {
			wait := lr.NextWait(r, t, leaf, e.TimeGrain)
			if wait < best {
				best = wait
				bestRule = lr
				bestLeaf = leaf
			}
		}
	}

	globals := append([]rule.Global(nil), e.globals...)
	r.Shuffle(len(globals), func(i, j int) { globals[i], globals[j] = globals[j], globals[i] })
	for _, gr := range globals {
		wait := gr.NextWait(r, t, e.TimeGrain)
		if wait < best {
			best = wait
			bestRule = gr
			bestLeaf = -1
		}
	}

	return bestRule, bestLeaf, best
}

func (e *Epoch) fireConditionals(r rule.Roller, t *tree.Tree, firing rule.Rule, subjects []int, dt float64) {
	conds := append([]rule.Conditional(nil), e.conditionals...)
	r.Shuffle(len(conds), func(i, j int) { conds[i], conds[j] = conds[j], conds[i] })
	for _, c := range conds {
		if len(subjects) > 1 {
			r.Shuffle(len(subjects), func(i, j int) { subjects[i], subjects[j] = subjects[j], subjects[i] })
		}
		if c.IsTriggered(firing, subjects) {
			c.Commit(r, t, subjects, dt)
		}
	}
}

// advanceToNextEvent keeps scheduling past a reached population limit,
// substituting rule.EndOfEpoch{} for the firing rule the moment a
// speciation or extinction would otherwise fire, so that it never
// changes the tip count again.
func (e *Epoch) advanceToNextEvent(r rule.Roller, t *tree.Tree) error {
	for {
		if t.CountLivingLeaves() == 0 {
			return ErrNoLivingTaxa
		}
		firing, leaf, dt := e.findFirst(r, t)
		t.AgeAllLeaves(dt)

		if rule.IsSpeciationOrExtinctionRule(firing) {
			end := rule.EndOfEpoch{}
			e.fireConditionals(r, t, end, nil, dt)
			return nil
		}

		var subjects []int
		if leaf >= 0 {
			subjects = firing.(rule.Local).Commit(t, leaf)
		} else {
			subjects = firing.(rule.Global).Commit(r, t)
		}
		e.fireConditionals(r, t, firing, subjects, dt)
	}
}
