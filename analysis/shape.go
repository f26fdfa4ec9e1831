// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package analysis

import (
	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/tree"
)

// Stemminess reports the mean, over every non-root internal node, of
// edge_weight / parent_age_from_root. Parent age is derived from the
// tree's own age rather than a direct subtree age, so paleontological
// trees (with dead leaves) are handled the same way as neontological
// ones.
type Stemminess struct{ action.AnalysisLeaf }

// NewStemminess returns a Stemminess analysis.
func NewStemminess() Stemminess {
	return Stemminess{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "stemminess"}}}
}

// Execute implements action.Action.
func (Stemminess) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "Stemminess", func() {
		if t == nil {
			sink.Emit(notApplicableKind(), "N/A: tree is empty")
			return
		}
		rootAge := t.TreeAge()

		var answer float64
		var numInternal int
		for _, id := range t.Nodes() {
			if t.IsRoot(id) || !t.IsInternal(id) {
				continue
			}
			numInternal++
			branchLen := t.TimeFromNodeToParent(id)
			parent := t.Node(id).Parent
			parAge := rootAge - t.TimeFromNodeToRoot(parent)
			if parAge < 0 {
				parAge = 0
			}

			var stem float64
			if parAge != 0 && branchLen != 0 {
				stem = branchLen / parAge
			}
			answer += stem
		}

		switch {
		case answer == 0:
			sink.Emit(notApplicableKind(), "N/A: tree has no lengths")
		case numInternal == 0:
			sink.Emit(notApplicableKind(), "N/A: tree too small")
		default:
			sink.EmitRow([]string{"stemminess", ftoa(answer / float64(numInternal))})
		}
	})
	return nil
}

// Resolution reports internal branches / (leaves - 2), Colless'
// (1980) measure of how fully a rooted tree is resolved.
type Resolution struct{ action.AnalysisLeaf }

// NewResolution returns a Resolution analysis.
func NewResolution() Resolution {
	return Resolution{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "resolution"}}}
}

// Execute implements action.Action.
func (Resolution) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "resolution", func() {
		if t == nil {
			sink.Emit(notApplicableKind(), "N/A: tree is empty")
			return
		}
		numInternalBranches := float64(t.CountInternal() - 1)
		maxIntBranches := float64(t.CountLeaves() - 2)
		if maxIntBranches <= 0 {
			sink.Emit(notApplicableKind(), "N/A: tree too small")
			return
		}
		sink.EmitRow([]string{"resolution", ftoa(numInternalBranches / maxIntBranches)})
	})
	return nil
}

// Ultrametric reports whether the active tree is ultrametric within
// tolerance: (max tip-to-root - min tip-to-root) / max < 0.001.
type Ultrametric struct{ action.AnalysisLeaf }

// NewUltrametric returns an Ultrametric analysis.
func NewUltrametric() Ultrametric {
	return Ultrametric{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "ultrametricity"}}}
}

// Execute implements action.Action.
func (Ultrametric) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "ultrametric", func() {
		if t == nil || t.CountNodes() <= 1 {
			sink.Emit(notApplicableKind(), "N/A: tree too small")
			return
		}
		min, max := tipToRootExtrema(t)
		if max == 0 {
			sink.Emit(notApplicableKind(), "N/A: tree has no lengths")
			return
		}
		isUltrametric := (max-min)/max < 0.001
		sink.EmitRow([]string{"ultrametric", boolStr(isUltrametric)})
	})
	return nil
}

func tipToRootExtrema(t *tree.Tree) (min, max float64) {
	first := true
	for _, id := range t.Leaves() {
		d := t.TimeFromNodeToRoot(id)
		if first {
			min, max = d, d
			first = false
			continue
		}
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	return min, max
}
