// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sysaction

import (
	"fmt"

	"github.com/agapow-sim/mesasim/action"
)

// TraitKind selects which trait matrix (or matrices) ShuffleTraits
// acts on.
type TraitKind int

// Valid trait kinds.
const (
	TraitDiscrete TraitKind = iota
	TraitContinuous
	TraitAll
)

// ShuffleTraits permutes a single trait column, or every column of
// every taxon, across all taxa.
type ShuffleTraits struct {
	action.Leaf
	Kind   TraitKind
	Column string
}

// NewShuffleTraits returns a ShuffleTraits action over a single
// column; use NewShuffleAllTraits for every column.
func NewShuffleTraits(kind TraitKind, column string) ShuffleTraits {
	var desc string
	switch kind {
	case TraitDiscrete:
		desc = fmt.Sprintf("shuffle discrete trait %s across all taxa", column)
	case TraitContinuous:
		desc = fmt.Sprintf("shuffle continuous trait %s across all taxa", column)
	}
	return ShuffleTraits{Leaf: action.Leaf{Desc: desc}, Kind: kind, Column: column}
}

// NewShuffleAllTraits returns a ShuffleTraits action over every
// column of both trait matrices.
func NewShuffleAllTraits() ShuffleTraits {
	return ShuffleTraits{Leaf: action.Leaf{Desc: "shuffle all traits across all taxa"}, Kind: TraitAll}
}

// Execute implements action.Action.
func (s ShuffleTraits) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	rng := se.RNG()
	switch s.Kind {
	case TraitDiscrete:
		return se.DiscData().ShuffleTrait(s.Column, rng)
	case TraitContinuous:
		return se.ContData().ShuffleTrait(s.Column, rng)
	case TraitAll:
		se.DiscData().ShuffleAllTraits(rng)
		se.ContData().ShuffleAllTraits(rng)
		return nil
	default:
		return fmt.Errorf("sysaction: shuffle traits: unknown trait kind %d", s.Kind)
	}
}
