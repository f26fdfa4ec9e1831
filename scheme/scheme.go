// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package scheme implements trait-evolution schemes: the rules that
// decide how a single trait column changes at a node over an elapsed
// dt. Each scheme targets exactly one trait column and is driven by
// an rng.Service for its stochastic draws.
package scheme

import (
	"math"

	"github.com/agapow-sim/mesasim/traitmat"
)

// Roller is the random source a scheme needs: uniform draws for
// Markov transitions, and Gaussian draws for Brownian motion.
type Roller interface {
	Float64() float64
	IntN(n int) int
	Normal(mean, stddev float64) float64
}

// DiscreteScheme evolves a single discrete trait cell over dt, given
// the current state, the trait's full observed state set, and the
// rate (events per unit time) governing the transition.
type DiscreteScheme interface {
	Evolve(r Roller, states *traitmat.StateSet, current string, rate, dt float64) string
}

// ContinuousScheme evolves a single continuous trait cell over dt,
// given the current value and the rate (drift/diffusion parameter).
type ContinuousScheme interface {
	Evolve(r Roller, current, rate, dt float64) float64
}

// NullDiscrete is a no-op DiscreteScheme: it returns its input unchanged.
type NullDiscrete struct{}

// Evolve implements DiscreteScheme.
func (NullDiscrete) Evolve(_ Roller, _ *traitmat.StateSet, current string, _, _ float64) string {
	return current
}

// NullContinuous is a no-op ContinuousScheme: it returns its input unchanged.
type NullContinuous struct{}

// Evolve implements ContinuousScheme.
func (NullContinuous) Evolve(_ Roller, current, _, _ float64) float64 {
	return current
}

// Markov transitions a discrete trait, with probability
// 1-exp(-rate*dt), to a state chosen uniformly from every other
// observed state.
type Markov struct{}

// Evolve implements DiscreteScheme.
func (Markov) Evolve(r Roller, states *traitmat.StateSet, current string, rate, dt float64) string {
	p := 1 - math.Exp(-rate*dt)
	if r.Float64() >= p {
		return current
	}
	others := make([]string, 0, states.Len())
	for _, s := range states.States() {
		if s != current {
			others = append(others, s)
		}
	}
	if len(others) == 0 {
		return current
	}
	return others[r.IntN(len(others))]
}

// RankedMarkov moves a discrete trait one step toward its successor
// or predecessor in the state set's sort order, with independent
// probabilities for each direction. At a boundary state the move off
// the scale is a no-op rather than an error.
type RankedMarkov struct {
	PRise, PFall float64
}

// Evolve implements DiscreteScheme.
func (m RankedMarkov) Evolve(r Roller, states *traitmat.StateSet, current string, _, _ float64) string {
	u := r.Float64()
	switch {
	case u < m.PRise:
		if next, ok := states.Successor(current); ok {
			return next
		}
		return current
	case u < m.PRise+m.PFall:
		if prev, ok := states.Predecessor(current); ok {
			return prev
		}
		return current
	default:
		return current
	}
}

// Brownian draws Δ ~ Normal(rate*dt, stddev*sqrt(dt)) and adds it to
// the current value, applying a bounds policy. Punctuational mode
// fixes dt=1 regardless of the elapsed epoch time.
type Brownian struct {
	StdDev        float64
	Bounds        Bounds
	Punctuational bool
}

// Evolve implements ContinuousScheme. rate is the drift mean per unit
// time (μ in the spec's Δ ~ Normal(μ·dt, σ·√dt)).
func (b Brownian) Evolve(r Roller, current, rate, dt float64) float64 {
	if b.Punctuational {
		dt = 1
	}
	draw := func() float64 {
		return r.Normal(rate*dt, b.StdDev*math.Sqrt(dt))
	}
	next := current + draw()
	return b.Bounds.apply(next, func() float64 { return current + draw() })
}

// LogNormal is Brownian motion performed in log-space:
// new = exp(log(old) + Δ).
type LogNormal struct {
	StdDev        float64
	Bounds        Bounds
	Punctuational bool
}

// Evolve implements ContinuousScheme.
func (l LogNormal) Evolve(r Roller, current, rate, dt float64) float64 {
	if l.Punctuational {
		dt = 1
	}
	logCurrent := math.Log(current)
	draw := func() float64 {
		return r.Normal(rate*dt, l.StdDev*math.Sqrt(dt))
	}
	next := math.Exp(logCurrent + draw())
	return l.Bounds.apply(next, func() float64 { return math.Exp(logCurrent + draw()) })
}
