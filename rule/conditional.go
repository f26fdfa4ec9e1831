// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package rule

import "github.com/agapow-sim/mesasim/tree"

// Evolve applies a trait-evolution scheme at a single node over an
// elapsed dt. It is supplied by the caller wiring up rule to the
// traitmat/scheme packages, keeping rule free of a direct dependency
// on either.
type Evolve func(r Roller, node int, dt float64)

// SymmetricSpeciational triggers off a speciation and applies the
// same evolution to both of the newly-arisen children.
type SymmetricSpeciational struct {
	Evolve Evolve
}

// Kind implements Rule.
func (SymmetricSpeciational) Kind() Kind { return KindConditional }

// Describe implements Rule.
func (SymmetricSpeciational) Describe() string { return "trait change (symmetrical speciational)" }

// IsTriggered implements Conditional.
func (SymmetricSpeciational) IsTriggered(firing Rule, _ []int) bool {
	return IsSpeciationRule(firing)
}

// Commit implements Conditional. subjects holds the two children
// produced by the firing speciation.
func (s SymmetricSpeciational) Commit(r Roller, _ *tree.Tree, subjects []int, dt float64) {
	for _, n := range subjects {
		s.Evolve(r, n, dt)
	}
}

// AsymmetricSpeciational triggers off a speciation and applies one of
// two evolution schemes to the children, assigned to left/right at
// random so neither child is systematically favoured.
type AsymmetricSpeciational struct {
	Left, Right Evolve
}

// Kind implements Rule.
func (AsymmetricSpeciational) Kind() Kind { return KindConditional }

// Describe implements Rule.
func (AsymmetricSpeciational) Describe() string { return "trait evolution (asymmetrical speciational)" }

// IsTriggered implements Conditional.
func (AsymmetricSpeciational) IsTriggered(firing Rule, _ []int) bool {
	return IsSpeciationRule(firing)
}

// Commit implements Conditional.
func (a AsymmetricSpeciational) Commit(r Roller, _ *tree.Tree, subjects []int, dt float64) {
	if len(subjects) != 2 {
		return
	}
	n1, n2 := subjects[0], subjects[1]
	if r.IntN(2) == 1 {
		n1, n2 = n2, n1
	}
	a.Left(r, n1, dt)
	a.Right(r, n2, dt)
}

// Terminal fires when a node's edge can no longer change: at
// speciation, at extinction, and at the end of an epoch. It evolves
// using the elapsed time since the subject's own origin rather than
// the firing rule's dt, read via TimeToParent.
type Terminal struct {
	Evolve       Evolve
	TimeToParent func(node int) float64
}

// Kind implements Rule.
func (Terminal) Kind() Kind { return KindConditional }

// Describe implements Rule.
func (Terminal) Describe() string { return "trait evolution (parental speciational)" }

// IsTriggered implements Conditional.
func (Terminal) IsTriggered(firing Rule, _ []int) bool {
	if _, ok := firing.(EndOfEpoch); ok {
		return true
	}
	return IsSpeciationOrExtinctionRule(firing)
}

// Commit implements Conditional. dt is ignored in favour of each
// subject's own accumulated edge weight.
func (t Terminal) Commit(r Roller, _ *tree.Tree, subjects []int, _ float64) {
	for _, n := range subjects {
		t.Evolve(r, n, t.TimeToParent(n))
	}
}

// Gradual fires on every event, evolving every living leaf in the
// tree by the elapsed dt — a phyletic/transforming model of trait
// change, independent of which rule actually fired.
type Gradual struct {
	Evolve Evolve
}

// Kind implements Rule.
func (Gradual) Kind() Kind { return KindConditional }

// Describe implements Rule.
func (Gradual) Describe() string { return "trait evolution (gradual)" }

// IsTriggered implements Conditional: always.
func (Gradual) IsTriggered(_ Rule, _ []int) bool { return true }

// Commit implements Conditional; subjects is ignored, every living
// leaf in t evolves.
func (g Gradual) Commit(r Roller, t *tree.Tree, _ []int, dt float64) {
	for _, id := range t.Leaves() {
		if t.IsAlive(id) {
			g.Evolve(r, id, dt)
		}
	}
}
