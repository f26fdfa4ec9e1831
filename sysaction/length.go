// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sysaction

import (
	"fmt"

	"github.com/agapow-sim/mesasim/action"
)

// TreeLenMode selects how SetTreeLength changes a branch length.
type TreeLenMode int

// Valid length-change modes.
const (
	LenSet TreeLenMode = iota
	LenAdd
	LenMultiply
	LenRandomFixed
	LenRandomFraction
)

// SetTreeLength edits every non-root branch length in the active tree
// according to Mode. RandomFixed draws Normal(0, Factor); RandomFraction
// draws Normal(0, Factor*oldLength). Every result is floored at 0.
type SetTreeLength struct {
	action.Leaf
	Mode   TreeLenMode
	Factor float64
}

// NewSetTreeLength returns a SetTreeLength action.
func NewSetTreeLength(mode TreeLenMode, factor float64) SetTreeLength {
	var verb string
	switch mode {
	case LenSet:
		verb = "set all branchlengths to "
	case LenAdd:
		verb = "increase all branchlengths by "
	case LenMultiply:
		verb = "multiply all branchlengths by "
	case LenRandomFixed:
		verb = "randomize all branchlengths by "
	case LenRandomFraction:
		verb = "randomize all branchlengths by fraction "
	}
	return SetTreeLength{
		Leaf:   action.Leaf{Desc: fmt.Sprintf("%s%g", verb, factor)},
		Mode:   mode,
		Factor: factor,
	}
}

// Execute implements action.Action.
func (s SetTreeLength) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	_, t := activeTree(se)
	if t == nil {
		return fmt.Errorf("sysaction: set tree length: no active tree")
	}
	rng := se.RNG()

	for _, id := range t.Nodes() {
		if t.IsRoot(id) {
			continue
		}
		old := t.EdgeWeight(id)
		var next float64
		switch s.Mode {
		case LenSet:
			next = s.Factor
		case LenAdd:
			next = old + s.Factor
		case LenMultiply:
			next = old * s.Factor
		case LenRandomFixed:
			next = old + rng.Normal(0, s.Factor)
		case LenRandomFraction:
			next = old + rng.Normal(0, s.Factor*old)
		}
		if next < 0 {
			next = 0
		}
		if err := t.SetEdgeWeight(id, next); err != nil {
			return err
		}
	}
	return nil
}
