// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package analysis

import (
	"github.com/agapow-sim/mesasim/action"
)

// TreeInfo reports descriptive counts and the paleo/neo classification
// of the active tree. Each field toggles whether that statistic is
// computed and printed.
type TreeInfo struct {
	action.AnalysisLeaf
	CountNodes bool
	CountTips  bool
	CountAlive bool
	CalcAge    bool
	CalcPaleo  bool
}

// NewTreeInfo returns a TreeInfo analysis with every statistic
// enabled.
func NewTreeInfo() TreeInfo {
	return TreeInfo{
		AnalysisLeaf: action.AnalysisLeaf{Leaf: action.Leaf{Desc: "tree information"}},
		CountNodes:   true,
		CountTips:    true,
		CountAlive:   true,
		CalcAge:      true,
		CalcPaleo:    true,
	}
}

// Execute implements action.Action.
func (a TreeInfo) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "tree information", func() {
		if t == nil || t.CountNodes() == 0 {
			sink.Emit(notApplicableKind(), "N/A: tree is empty")
			return
		}
		if a.CountNodes {
			sink.EmitRow([]string{"total size", itoa(t.CountNodes())})
		}
		if a.CountTips {
			sink.EmitRow([]string{"terminal taxa", itoa(t.CountLeaves())})
		}
		if a.CountAlive {
			sink.EmitRow([]string{"extant taxa", itoa(t.CountLivingLeaves())})
		}
		// Tree age is the longest living-tip-to-root distance, not a
		// single (arbitrary) living tip's distance, so imported trees with no
		// living/dead status still get a sensible answer.
		if a.CalcAge {
			sink.EmitRow([]string{"phylogenetic age", ftoa(t.PhyloAge())})
		}
		if a.CalcPaleo {
			sink.EmitRow([]string{"paleo/neo", paleoClass(t)})
		}
	})
	return nil
}
