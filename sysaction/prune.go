// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sysaction

import (
	"fmt"
	"math"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/tree"
)

// probFromTriParam evaluates a*x^b + c as a probability, clamped to
// [0, 1], treating x == 1 as the special case a+c. Mirrors the rate
// family's tri-parameter formula (rule.probFromTriParam); duplicated
// here rather than exported across packages for three lines of pure
// arithmetic with no other shared state.
func probFromTriParam(a, b, c, x float64) float64 {
	var p float64
	if x == 1.0 {
		p = a + c
	} else {
		p = a*math.Pow(x, b) + c
	}
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// pruneTargets removes every id in targets from t via PruneBranch,
// then, unless leaveRootPath is set, collapses any singleton root
// chain the pruning left behind.
func pruneTargets(t *tree.Tree, targets []int, leaveRootPath bool) error {
	for _, id := range targets {
		if err := t.PruneBranch(id); err != nil {
			return err
		}
	}
	if !leaveRootPath {
		for t.IsSingleton(t.Root()) {
			if err := t.CollapseNode(t.Root()); err != nil {
				break
			}
		}
	}
	return nil
}

// livingLeaves returns every living leaf of t.
func livingLeaves(t *tree.Tree) []int {
	var out []int
	for _, id := range t.Leaves() {
		if t.IsAlive(id) {
			out = append(out, id)
		}
	}
	return out
}

// PruneN prunes a fixed number of randomly-selected living taxa.
type PruneN struct {
	action.Leaf
	Num           int
	LeaveRootPath bool
}

// NewPruneN returns a PruneN action.
func NewPruneN(num int, leaveRootPath bool) PruneN {
	return PruneN{
		Leaf:          action.Leaf{Desc: fmt.Sprintf("prune: kill %d randomly selected taxa", num)},
		Num:           num,
		LeaveRootPath: leaveRootPath,
	}
}

// Execute implements action.Action.
func (p PruneN) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, t := activeTree(se)
	if t == nil {
		return fmt.Errorf("sysaction: prune n: no active tree")
	}
	leaves := livingLeaves(t)
	se.RNG().Shuffle(len(leaves), func(i, j int) { leaves[i], leaves[j] = leaves[j], leaves[i] })
	if p.Num < len(leaves) {
		leaves = leaves[:p.Num]
	}
	return pruneTargets(t, leaves, p.LeaveRootPath)
}

// PruneFraction prunes a fraction of the living taxa, randomly
// selected.
type PruneFraction struct {
	action.Leaf
	Fraction      float64
	LeaveRootPath bool
}

// NewPruneFraction returns a PruneFraction action.
func NewPruneFraction(fraction float64, leaveRootPath bool) PruneFraction {
	return PruneFraction{
		Leaf:          action.Leaf{Desc: fmt.Sprintf("prune: kill %g%% of taxa", fraction*100)},
		Fraction:      fraction,
		LeaveRootPath: leaveRootPath,
	}
}

// Execute implements action.Action.
func (p PruneFraction) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, t := activeTree(se)
	if t == nil {
		return fmt.Errorf("sysaction: prune fraction: no active tree")
	}
	leaves := livingLeaves(t)
	n := int(float64(len(leaves)) * p.Fraction)
	se.RNG().Shuffle(len(leaves), func(i, j int) { leaves[i], leaves[j] = leaves[j], leaves[i] })
	if n < len(leaves) {
		leaves = leaves[:n]
	}
	return pruneTargets(t, leaves, p.LeaveRootPath)
}

// PruneChance prunes every living taxon independently with
// probability Chance.
type PruneChance struct {
	action.Leaf
	Chance        float64
	LeaveRootPath bool
}

// NewPruneChance returns a PruneChance action.
func NewPruneChance(chance float64, leaveRootPath bool) PruneChance {
	return PruneChance{
		Leaf:          action.Leaf{Desc: fmt.Sprintf("prune: %g%% chance of killing any taxa", chance*100)},
		Chance:        chance,
		LeaveRootPath: leaveRootPath,
	}
}

// Execute implements action.Action.
func (p PruneChance) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, t := activeTree(se)
	if t == nil {
		return fmt.Errorf("sysaction: prune chance: no active tree")
	}
	var targets []int
	for _, id := range livingLeaves(t) {
		if se.RNG().Float64() <= p.Chance {
			targets = append(targets, id)
		}
	}
	return pruneTargets(t, targets, p.LeaveRootPath)
}

// PruneCharacter prunes each living taxon independently with a
// probability derived from a*x^b+c evaluated on a continuous trait
// value.
type PruneCharacter struct {
	action.Leaf
	Column        string
	A, B, C       float64
	LeaveRootPath bool
}

// NewPruneCharacter returns a PruneCharacter action.
func NewPruneCharacter(column string, a, b, c float64, leaveRootPath bool) PruneCharacter {
	return PruneCharacter{
		Leaf:          action.Leaf{Desc: fmt.Sprintf("prune: by trait %s, params %g, %g, %g", column, a, b, c)},
		Column:        column,
		A:             a,
		B:             b,
		C:             c,
		LeaveRootPath: leaveRootPath,
	}
}

// Execute implements action.Action.
func (p PruneCharacter) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, t := activeTree(se)
	if t == nil {
		return fmt.Errorf("sysaction: prune character: no active tree")
	}
	var targets []int
	for _, id := range livingLeaves(t) {
		name := t.Node(id).Name
		x, ok := se.ContData().Get(name, p.Column)
		if !ok {
			continue
		}
		prob := probFromTriParam(p.A, p.B, p.C, x)
		if se.RNG().Float64() <= prob {
			targets = append(targets, id)
		}
	}
	return pruneTargets(t, targets, p.LeaveRootPath)
}

// PruneByNames prunes a named list of taxa outright.
type PruneByNames struct {
	action.Leaf
	Names         []string
	LeaveRootPath bool
}

// NewPruneByNames returns a PruneByNames action.
func NewPruneByNames(names []string, leaveRootPath bool) PruneByNames {
	return PruneByNames{
		Leaf:          action.Leaf{Desc: fmt.Sprintf("prune: %d named taxa", len(names))},
		Names:         names,
		LeaveRootPath: leaveRootPath,
	}
}

// Execute implements action.Action.
func (p PruneByNames) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, t := activeTree(se)
	if t == nil {
		return fmt.Errorf("sysaction: prune by names: no active tree")
	}
	var targets []int
	for _, name := range p.Names {
		id, ok := t.FindByName(name)
		if !ok {
			return fmt.Errorf("sysaction: prune by names: no such taxon %q", name)
		}
		targets = append(targets, id)
	}
	return pruneTargets(t, targets, p.LeaveRootPath)
}

// PruneByZeroAbundance prunes every living taxon whose summed
// abundance across all site columns is zero.
type PruneByZeroAbundance struct {
	action.Leaf
	LeaveRootPath bool
}

// NewPruneByZeroAbundance returns a PruneByZeroAbundance action.
func NewPruneByZeroAbundance(leaveRootPath bool) PruneByZeroAbundance {
	return PruneByZeroAbundance{
		Leaf:          action.Leaf{Desc: "prune: taxa with zero abundance at all sites"},
		LeaveRootPath: leaveRootPath,
	}
}

// Execute implements action.Action.
func (p PruneByZeroAbundance) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, t := activeTree(se)
	if t == nil {
		return fmt.Errorf("sysaction: prune by zero abundance: no active tree")
	}
	var targets []int
	for _, id := range livingLeaves(t) {
		name := t.Node(id).Name
		if se.ContData().Abundance(name) == 0 {
			targets = append(targets, id)
		}
	}
	return pruneTargets(t, targets, p.LeaveRootPath)
}
