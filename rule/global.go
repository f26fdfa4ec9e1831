// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package rule

import (
	"fmt"

	"github.com/agapow-sim/mesasim/tree"
)

// Null is the metronome global rule: it never acts, only marks time
// at a fixed rate.
type Null struct {
	Rate float64
}

// Kind implements Rule.
func (Null) Kind() Kind { return KindGlobal }

// Describe implements Rule.
func (n Null) Describe() string { return fmt.Sprintf("null rule (rate %g)", n.Rate) }

// NextWait implements Global.
func (n Null) NextWait(r Roller, _ *tree.Tree, timeGrain float64) float64 {
	return waitFromRate(r, n.Rate, timeGrain)
}

// Commit implements Global: a no-op with no subjects.
func (Null) Commit(_ Roller, _ *tree.Tree) []int { return nil }

// EndOfEpoch is a sentinel rule substituted for the firing rule once
// a population-limit epoch in "advance to next event" mode has met
// its condition, letting terminal/gradual conditionals finalise
// without changing the tip count.
type EndOfEpoch struct{}

// Kind implements Rule.
func (EndOfEpoch) Kind() Kind { return KindGlobal }

// Describe implements Rule.
func (EndOfEpoch) Describe() string { return "end of epoch" }

// NextWait implements Global; never consulted directly by the
// scheduler, which substitutes this rule in place of the one it picked.
func (EndOfEpoch) NextWait(_ Roller, _ *tree.Tree, _ float64) float64 { return 0 }

// Commit implements Global: a no-op with no subjects.
func (EndOfEpoch) Commit(_ Roller, _ *tree.Tree) []int { return nil }

// livingLeaves is a small local helper shared by the mass-kill
// variants below.
func livingLeaves(t *tree.Tree) []int {
	var out []int
	for _, id := range t.Leaves() {
		if t.IsAlive(id) {
			out = append(out, id)
		}
	}
	return out
}

func killAll(t *tree.Tree, targets []int) []int {
	for _, id := range targets {
		_ = t.KillLeaf(id)
	}
	return targets
}

// MassKillFixedNum kills a fixed number of living leaves, chosen by
// uniform random shuffle.
type MassKillFixedNum struct {
	Rate float64
	Num  int
}

// Kind implements Rule.
func (MassKillFixedNum) Kind() Kind { return KindGlobal }

// Describe implements Rule.
func (m MassKillFixedNum) Describe() string {
	return fmt.Sprintf("mass extinction (kill %d species)", m.Num)
}

// NextWait implements Global.
func (m MassKillFixedNum) NextWait(r Roller, _ *tree.Tree, timeGrain float64) float64 {
	return waitFromRate(r, m.Rate, timeGrain)
}

// Commit implements Global.
func (m MassKillFixedNum) Commit(r Roller, t *tree.Tree) []int {
	leaves := livingLeaves(t)
	r.Shuffle(len(leaves), func(i, j int) { leaves[i], leaves[j] = leaves[j], leaves[i] })
	if m.Num < len(leaves) {
		leaves = leaves[:m.Num]
	}
	return killAll(t, leaves)
}

// MassKillPercent kills a fixed fraction of living leaves.
type MassKillPercent struct {
	Rate    float64
	Percent float64
}

// Kind implements Rule.
func (MassKillPercent) Kind() Kind { return KindGlobal }

// Describe implements Rule.
func (m MassKillPercent) Describe() string {
	return fmt.Sprintf("mass extinction (kill %g%% of species)", m.Percent*100)
}

// NextWait implements Global.
func (m MassKillPercent) NextWait(r Roller, _ *tree.Tree, timeGrain float64) float64 {
	return waitFromRate(r, m.Rate, timeGrain)
}

// Commit implements Global.
func (m MassKillPercent) Commit(r Roller, t *tree.Tree) []int {
	leaves := livingLeaves(t)
	n := int(float64(len(leaves)) * m.Percent)
	r.Shuffle(len(leaves), func(i, j int) { leaves[i], leaves[j] = leaves[j], leaves[i] })
	if n < len(leaves) {
		leaves = leaves[:n]
	}
	return killAll(t, leaves)
}

// MassKillProb kills each living leaf independently with probability Prob.
type MassKillProb struct {
	Rate float64
	Prob float64
}

// Kind implements Rule.
func (MassKillProb) Kind() Kind { return KindGlobal }

// Describe implements Rule.
func (m MassKillProb) Describe() string {
	return fmt.Sprintf("mass extinction (%g%% chance of killing species)", m.Prob*100)
}

// NextWait implements Global.
func (m MassKillProb) NextWait(r Roller, _ *tree.Tree, timeGrain float64) float64 {
	return waitFromRate(r, m.Rate, timeGrain)
}

// Commit implements Global.
func (m MassKillProb) Commit(r Roller, t *tree.Tree) []int {
	var targets []int
	for _, id := range livingLeaves(t) {
		if r.Float64() <= m.Prob {
			targets = append(targets, id)
		}
	}
	return killAll(t, targets)
}

// Predicate decides whether a leaf should be culled in a
// predicate-selected mass kill.
type Predicate func(t *tree.Tree, leaf int) bool

// MassKillIf kills every living leaf satisfying Test.
type MassKillIf struct {
	Rate  float64
	Test  Predicate
	Label string
}

// Kind implements Rule.
func (MassKillIf) Kind() Kind { return KindGlobal }

// Describe implements Rule.
func (m MassKillIf) Describe() string {
	return fmt.Sprintf("mass extinction (kill %s)", m.Label)
}

// NextWait implements Global.
func (m MassKillIf) NextWait(r Roller, _ *tree.Tree, timeGrain float64) float64 {
	return waitFromRate(r, m.Rate, timeGrain)
}

// Commit implements Global.
func (m MassKillIf) Commit(_ Roller, t *tree.Tree) []int {
	var targets []int
	for _, id := range livingLeaves(t) {
		if m.Test(t, id) {
			targets = append(targets, id)
		}
	}
	return killAll(t, targets)
}

// TraitValue reads the dependent trait value for a leaf when a
// mass-kill or local rule is biased on a continuous trait, decoupling
// rule from traitmat (and from which matrix the trait lives in).
type TraitValue func(leaf int) float64

// MassKillTraitBiased kills each living leaf with a probability
// derived from a*x^b+c evaluated on a continuous trait value.
type MassKillTraitBiased struct {
	Rate      float64
	TraitName string
	A, B, C   float64
	Value     TraitValue
}

// Kind implements Rule.
func (MassKillTraitBiased) Kind() Kind { return KindGlobal }

// Describe implements Rule.
func (m MassKillTraitBiased) Describe() string {
	return fmt.Sprintf("mass extinction (biased by trait %s, params %g, %g, %g)", m.TraitName, m.A, m.B, m.C)
}

// NextWait implements Global.
func (m MassKillTraitBiased) NextWait(r Roller, _ *tree.Tree, timeGrain float64) float64 {
	return waitFromRate(r, m.Rate, timeGrain)
}

// Commit implements Global.
func (m MassKillTraitBiased) Commit(r Roller, t *tree.Tree) []int {
	var targets []int
	for _, id := range livingLeaves(t) {
		p := probFromTriParam(m.A, m.B, m.C, m.Value(id))
		if r.Float64() <= p {
			targets = append(targets, id)
		}
	}
	return killAll(t, targets)
}
