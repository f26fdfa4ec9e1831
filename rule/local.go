// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package rule

import (
	"fmt"

	"github.com/agapow-sim/mesasim/rate"
	"github.com/agapow-sim/mesasim/tree"
)

// PopulationCount reports the living-leaf count a logistic rule
// throttles against, decoupling rule from tree so both speciation and
// extinction variants share one signature.
type PopulationCount func(t *tree.Tree) int

func livingLeafCount(t *tree.Tree) int { return t.CountLivingLeaves() }

// MarkovSp speciates the firing leaf at a constant rate.
type MarkovSp struct {
	Rate float64
}

// Kind implements Rule.
func (MarkovSp) Kind() Kind { return KindLocal }

// Describe implements Rule.
func (m MarkovSp) Describe() string { return fmt.Sprintf("markovian speciation (rate %g)", m.Rate) }

// NextWait implements Local.
func (m MarkovSp) NextWait(r Roller, _ *tree.Tree, _ int, timeGrain float64) float64 {
	return waitFromRate(r, m.Rate, timeGrain)
}

// Commit implements Local.
func (m MarkovSp) Commit(t *tree.Tree, leaf int) []int {
	c1, c2, err := t.Speciate(leaf)
	if err != nil {
		return nil
	}
	return []int{c1, c2}
}

// LogisticSp speciates at rate*(1 - N/K), floored at zero, where N is
// the current living-leaf count and K a fixed carrying capacity.
type LogisticSp struct {
	Rate     float64
	Capacity int
}

// Kind implements Rule.
func (LogisticSp) Kind() Kind { return KindLocal }

// Describe implements Rule.
func (m LogisticSp) Describe() string {
	return fmt.Sprintf("logistic speciation (rate %g, carrying capacity %d)", m.Rate, m.Capacity)
}

// NextWait implements Local.
func (m LogisticSp) NextWait(r Roller, t *tree.Tree, _ int, timeGrain float64) float64 {
	n := livingLeafCount(t)
	actual := m.Rate * (1.0 - float64(n)/float64(m.Capacity))
	if actual < 0 {
		actual = 0
	}
	return waitFromRate(r, actual, timeGrain)
}

// Commit implements Local.
func (m LogisticSp) Commit(t *tree.Tree, leaf int) []int {
	c1, c2, err := t.Speciate(leaf)
	if err != nil {
		return nil
	}
	return []int{c1, c2}
}

// LatentSp speciates at a constant rate, but adds a latency period to
// the wait: a freshly-arisen leaf must first accumulate at least
// LatencyPeriod of edge weight before it can fire.
type LatentSp struct {
	Rate          float64
	LatencyPeriod float64
}

// Kind implements Rule.
func (LatentSp) Kind() Kind { return KindLocal }

// Describe implements Rule.
func (m LatentSp) Describe() string {
	return fmt.Sprintf("speciation with latency (rate %g, interval %g)", m.Rate, m.LatencyPeriod)
}

// NextWait implements Local.
func (m LatentSp) NextWait(r Roller, t *tree.Tree, leaf int, timeGrain float64) float64 {
	wait := waitFromRate(r, m.Rate, timeGrain)
	latency := m.LatencyPeriod - t.EdgeWeight(leaf)
	if latency < 0 {
		latency = 0
	}
	return wait + latency
}

// Commit implements Local.
func (m LatentSp) Commit(t *tree.Tree, leaf int) []int {
	c1, c2, err := t.Speciate(leaf)
	if err != nil {
		return nil
	}
	return []int{c1, c2}
}

// AgeBiasedSp speciates at rate a*age^b+c, where age is the firing
// leaf's edge weight (floored at timeGrain to avoid a zero base).
type AgeBiasedSp struct {
	A, B, C float64
}

// Kind implements Rule.
func (AgeBiasedSp) Kind() Kind { return KindLocal }

// Describe implements Rule.
func (m AgeBiasedSp) Describe() string {
	return fmt.Sprintf("age-biased speciation (params %g, %g, %g)", m.A, m.B, m.C)
}

// NextWait implements Local.
func (m AgeBiasedSp) NextWait(r Roller, t *tree.Tree, leaf int, timeGrain float64) float64 {
	age := t.EdgeWeight(leaf)
	if age < timeGrain {
		age = timeGrain
	}
	rate := rateFromTriParam(m.A, m.B, m.C, age, timeGrain)
	return waitFromRate(r, rate, timeGrain)
}

// Commit implements Local.
func (m AgeBiasedSp) Commit(t *tree.Tree, leaf int) []int {
	c1, c2, err := t.Speciate(leaf)
	if err != nil {
		return nil
	}
	return []int{c1, c2}
}

// TraitBiasedSp speciates at rate a*x^b+c, where x is a continuous
// trait value read from Value.
type TraitBiasedSp struct {
	TraitName string
	A, B, C   float64
	Value     TraitValue
}

// Kind implements Rule.
func (TraitBiasedSp) Kind() Kind { return KindLocal }

// Describe implements Rule.
func (m TraitBiasedSp) Describe() string {
	return fmt.Sprintf("cont. trait-biased speciation (trait %s, params %g, %g, %g)", m.TraitName, m.A, m.B, m.C)
}

// NextWait implements Local.
func (m TraitBiasedSp) NextWait(r Roller, _ *tree.Tree, leaf int, timeGrain float64) float64 {
	x := m.Value(leaf)
	rate := rateFromTriParam(m.A, m.B, m.C, x, timeGrain)
	return waitFromRate(r, rate, timeGrain)
}

// Commit implements Local.
func (m TraitBiasedSp) Commit(t *tree.Tree, leaf int) []int {
	c1, c2, err := t.Speciate(leaf)
	if err != nil {
		return nil
	}
	return []int{c1, c2}
}

// RateFuncSp speciates at a rate drawn from an arbitrary rate.Func,
// e.g. a normal or log-dependent rate keyed on age or a trait.
type RateFuncSp struct {
	Func    rate.Func
	Subject func(leaf int) rate.Subject
}

// Kind implements Rule.
func (RateFuncSp) Kind() Kind { return KindLocal }

// Describe implements Rule.
func (RateFuncSp) Describe() string { return "rate-function speciation" }

// NextWait implements Local.
func (m RateFuncSp) NextWait(r Roller, _ *tree.Tree, leaf int, timeGrain float64) float64 {
	return waitFromRate(r, m.Func.Rate(m.Subject(leaf)), timeGrain)
}

// Commit implements Local.
func (m RateFuncSp) Commit(t *tree.Tree, leaf int) []int {
	c1, c2, err := t.Speciate(leaf)
	if err != nil {
		return nil
	}
	return []int{c1, c2}
}

// MarkovKill kills the firing leaf at a constant rate. It never
// operates on the root.
type MarkovKill struct {
	Rate float64
}

// Kind implements Rule.
func (MarkovKill) Kind() Kind { return KindLocal }

// Describe implements Rule.
func (m MarkovKill) Describe() string { return fmt.Sprintf("markovian extinction (rate %g)", m.Rate) }

// NextWait implements Local.
func (m MarkovKill) NextWait(r Roller, _ *tree.Tree, _ int, timeGrain float64) float64 {
	return waitFromRate(r, m.Rate, timeGrain)
}

// Commit implements Local.
func (MarkovKill) Commit(t *tree.Tree, leaf int) []int {
	if t.IsRoot(leaf) {
		return nil
	}
	if err := t.KillLeaf(leaf); err != nil {
		return nil
	}
	return []int{leaf}
}

// LogisticKill kills at rate*N/K, clamped to rate, where N is the
// current living-leaf count and K a fixed carrying capacity. It never
// operates on the root.
type LogisticKill struct {
	Rate     float64
	Capacity int
}

// Kind implements Rule.
func (LogisticKill) Kind() Kind { return KindLocal }

// Describe implements Rule.
func (m LogisticKill) Describe() string {
	return fmt.Sprintf("logistic extinction (rate %g, capacity %d)", m.Rate, m.Capacity)
}

// NextWait implements Local.
func (m LogisticKill) NextWait(r Roller, t *tree.Tree, _ int, timeGrain float64) float64 {
	n := livingLeafCount(t)
	actual := m.Rate * (float64(n) / float64(m.Capacity))
	if actual < 0 {
		actual = 0
	}
	if m.Rate < actual {
		actual = m.Rate
	}
	return waitFromRate(r, actual, timeGrain)
}

// Commit implements Local.
func (LogisticKill) Commit(t *tree.Tree, leaf int) []int {
	if t.IsRoot(leaf) {
		return nil
	}
	if err := t.KillLeaf(leaf); err != nil {
		return nil
	}
	return []int{leaf}
}

// AgeBiasedKill kills at rate a*age^b+c, where age is the firing
// leaf's edge weight. It never operates on the root.
type AgeBiasedKill struct {
	A, B, C float64
}

// Kind implements Rule.
func (AgeBiasedKill) Kind() Kind { return KindLocal }

// Describe implements Rule.
func (m AgeBiasedKill) Describe() string {
	return fmt.Sprintf("age-biased extinction (params %g, %g, %g)", m.A, m.B, m.C)
}

// NextWait implements Local.
func (m AgeBiasedKill) NextWait(r Roller, t *tree.Tree, leaf int, timeGrain float64) float64 {
	age := t.EdgeWeight(leaf)
	rate := rateFromTriParam(m.A, m.B, m.C, age, timeGrain)
	return waitFromRate(r, rate, timeGrain)
}

// Commit implements Local.
func (AgeBiasedKill) Commit(t *tree.Tree, leaf int) []int {
	if t.IsRoot(leaf) {
		return nil
	}
	if err := t.KillLeaf(leaf); err != nil {
		return nil
	}
	return []int{leaf}
}

// TraitBiasedKill kills at rate a*x^b+c, where x is a continuous
// trait value read from Value. It never operates on the root.
type TraitBiasedKill struct {
	TraitName string
	A, B, C   float64
	Value     TraitValue
}

// Kind implements Rule.
func (TraitBiasedKill) Kind() Kind { return KindLocal }

// Describe implements Rule.
func (m TraitBiasedKill) Describe() string {
	return fmt.Sprintf("cont. trait-biased extinction (trait %s, params %g, %g, %g)", m.TraitName, m.A, m.B, m.C)
}

// NextWait implements Local.
func (m TraitBiasedKill) NextWait(r Roller, _ *tree.Tree, leaf int, timeGrain float64) float64 {
	x := m.Value(leaf)
	rate := rateFromTriParam(m.A, m.B, m.C, x, timeGrain)
	return waitFromRate(r, rate, timeGrain)
}

// Commit implements Local.
func (TraitBiasedKill) Commit(t *tree.Tree, leaf int) []int {
	if t.IsRoot(leaf) {
		return nil
	}
	if err := t.KillLeaf(leaf); err != nil {
		return nil
	}
	return []int{leaf}
}
