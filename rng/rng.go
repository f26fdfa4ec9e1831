// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package rng is the sole source of stochasticity in the engine.
// Every draw made anywhere in the simulation — waits, trait changes,
// shuffles, resampling — goes through a Service built from a single
// seed, so that a fixed seed makes the whole run deterministic.
package rng

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Roller is the common surface of Service that every collaborator
// package (rule, scheme, sysaction, analysis) draws on. It is named
// here, rather than separately in each of those packages, so that a
// single accessor method can satisfy all of their Env interfaces at
// once: two independently-declared interface types are never
// identical in Go even when structurally equal, so engine.Context
// needs one canonical RNG accessor type to implement against.
type Roller interface {
	Float64() float64
	IntN(n int) int
	Normal(mean, stddev float64) float64
	Shuffle(n int, swap func(i, j int))
}

// Service wraps a seeded generator and the parametric distributions
// built on top of it.
type Service struct {
	rnd *rand.Rand

	normal distuv.Normal
}

// New returns a Service seeded with the given seed.
func New(seed uint64) *Service {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	rnd := rand.New(src)
	return &Service{
		rnd: rnd,
		normal: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rnd,
		},
	}
}

// Float64 returns a uniform draw in [0, 1).
func (s *Service) Float64() float64 {
	return s.rnd.Float64()
}

// IntN returns a uniform draw in [0, n).
// It panics if n <= 0.
func (s *Service) IntN(n int) int {
	return s.rnd.IntN(n)
}

// Normal returns a draw from Normal(mean, stddev).
// stddev <= 0 always returns mean.
func (s *Service) Normal(mean, stddev float64) float64 {
	if stddev <= 0 {
		return mean
	}
	s.normal.Mu = mean
	s.normal.Sigma = stddev
	return s.normal.Rand()
}

// Uniform returns a draw from the continuous uniform distribution on [lo, hi).
// If hi <= lo, lo is returned.
func (s *Service) Uniform(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + s.rnd.Float64()*(hi-lo)
}

// Bool returns true with probability p, clamped to [0, 1].
func (s *Service) Bool(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rnd.Float64() < p
}

// ShuffleInts permutes a slice of ints in place (Fisher-Yates).
func (s *Service) ShuffleInts(a []int) {
	s.rnd.Shuffle(len(a), func(i, j int) { a[i], a[j] = a[j], a[i] })
}

// Shuffle permutes n elements in place using the swap function,
// following the semantics of rand.Shuffle.
func (s *Service) Shuffle(n int, swap func(i, j int)) {
	s.rnd.Shuffle(n, swap)
}
