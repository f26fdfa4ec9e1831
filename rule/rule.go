// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package rule implements evolutionary rules: the global, local, and
// conditional actors an epoch schedules. Each non-conditional rule
// produces a waiting time until it next fires and a commit that
// applies its effect to the active tree; each conditional rule
// decides, after every commit, whether it also fires.
package rule

import (
	"math"

	"github.com/agapow-sim/mesasim/tree"
)

// Kind distinguishes the three disjoint rule families so an epoch can
// route a rule without a type switch over every concrete type.
type Kind int

const (
	// KindGlobal rules compute a wait with no dependence on a leaf.
	KindGlobal Kind = iota
	// KindLocal rules compute a wait per leaf.
	KindLocal
	// KindConditional rules never wait; they trigger off another
	// rule's commit.
	KindConditional
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindLocal:
		return "local"
	case KindConditional:
		return "conditional"
	default:
		return "unknown"
	}
}

// Roller is the random source rules draw on for waiting times and
// target selection.
type Roller interface {
	Float64() float64
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

// Rule is the common interface of every evolutionary rule.
type Rule interface {
	Kind() Kind
	Describe() string
}

// Global computes a wait independent of any particular leaf, and
// commits against the whole tree, producing the subject leaves it
// acted on (empty for a no-op).
type Global interface {
	Rule
	NextWait(r Roller, t *tree.Tree, timeGrain float64) float64
	Commit(r Roller, t *tree.Tree) []int
}

// Local computes a wait for one candidate leaf, and commits against
// that single leaf.
type Local interface {
	Rule
	NextWait(r Roller, t *tree.Tree, leaf int, timeGrain float64) float64
	Commit(t *tree.Tree, leaf int) []int
}

// Conditional fires after another rule's commit, given the firing
// rule and its subject leaves, and applies a dt-scaled effect.
type Conditional interface {
	Rule
	IsTriggered(firing Rule, subjects []int) bool
	Commit(r Roller, t *tree.Tree, subjects []int, dt float64)
}

// waitFromRate converts an instantaneous rate into a time-until-event
// via the inverse-CDF of an exponential distribution, floored at
// timeGrain. A rate of exactly zero yields a large sentinel wait so a
// stationary rule never blocks an epoch's termination check.
func waitFromRate(r Roller, rate, timeGrain float64) float64 {
	if rate <= 0 {
		return 1e4
	}
	u := r.Float64()
	t := -math.Log(u) / rate
	if t < timeGrain {
		t = timeGrain
	}
	return t
}

// rateFromTriParam evaluates a*x^b + c, clamped to [0, 1/timeGrain],
// treating x == 1 as the special case a+c (matching the rate family
// of §4.3: x^b is ill-defined at the boundary for some b).
func rateFromTriParam(a, b, c, x, timeGrain float64) float64 {
	var r float64
	if x == 1.0 {
		r = a + c
	} else {
		r = a*math.Pow(x, b) + c
	}
	if r <= 0 {
		return 0
	}
	max := 1 / timeGrain
	if r > max {
		return max
	}
	return r
}

// probFromTriParam evaluates a*x^b + c as a probability, clamped to
// [0, 1].
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
