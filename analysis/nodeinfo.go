// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package analysis

import (
	"sort"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/tree"
)

// NodeSelector picks the subset of nodes NodeInfo reports on.
type NodeSelector int

// Valid NodeSelector values.
const (
	// SelectAll selects every node.
	SelectAll NodeSelector = iota
	// SelectTips selects only leaves.
	SelectTips
	// SelectInternal selects only internal nodes.
	SelectInternal
	// SelectAlive selects only living leaves.
	SelectAlive
)

// selectNodes returns, in ascending ID order, the nodes of t chosen
// by sel. ID order stands in for the original's node-creation order
// and gives deterministic output.
func selectNodes(t *tree.Tree, sel NodeSelector) []int {
	ids := append([]int(nil), t.Nodes()...)
	sort.Ints(ids)
	var out []int
	for _, id := range ids {
		switch sel {
		case SelectTips:
			if !t.IsLeaf(id) {
				continue
			}
		case SelectInternal:
			if !t.IsInternal(id) {
				continue
			}
		case SelectAlive:
			if !t.IsLeaf(id) || !t.IsAlive(id) {
				continue
			}
		}
		out = append(out, id)
	}
	return out
}

// NodeInfo computes one or more per-node statistics over a selected
// subset of the active tree's nodes, reporting one row per node in
// ID order.
type NodeInfo struct {
	action.AnalysisLeaf
	Target         NodeSelector
	CalcAges       bool
	CalcChildren   bool
	CalcLeaves     bool
	CalcSubtree    bool
	CalcSiblings   bool
	CalcHeight     bool
	CalcTimeToRoot bool
}

// NewNodeInfo returns a NodeInfo analysis over sel with every
// statistic enabled.
func NewNodeInfo(sel NodeSelector) NodeInfo {
	return NodeInfo{
		AnalysisLeaf:   action.AnalysisLeaf{Leaf: action.Leaf{Desc: "node information"}},
		Target:         sel,
		CalcAges:       true,
		CalcChildren:   true,
		CalcLeaves:     true,
		CalcSubtree:    true,
		CalcSiblings:   true,
		CalcHeight:     true,
		CalcTimeToRoot: true,
	}
}

// Execute implements action.Action.
func (a NodeInfo) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "node information", func() {
		if t == nil || (a.Target == SelectInternal && t.CountInternal() == 0) || t.CountNodes() == 0 {
			sink.Emit(notApplicableKind(), "N/A: tree is too small")
			return
		}

		nodes := selectNodes(t, a.Target)

		// time-since-parent is always collected so we can decide
		// whether the tree carries any branch lengths at all.
		var timesToParent []float64
		for _, id := range nodes {
			timesToParent = append(timesToParent, t.EdgeWeight(id))
		}
		hasLengths := false
		for _, w := range timesToParent {
			if w != 0 {
				hasLengths = true
				break
			}
		}

		sink.EmitRow([]string{"nodes in selection", itoa(len(nodes))})

		if a.CalcAges {
			if hasLengths {
				for _, id := range nodes {
					sink.EmitRow([]string{"age of node", itoa(id), ftoa(t.TimeSinceNodeOrigin(id))})
				}
			} else {
				sink.Emit(notApplicableKind(), "N/A: no distances in tree (age of nodes)")
			}
		}
		if hasLengths {
			for i, id := range nodes {
				sink.EmitRow([]string{"time since parent", itoa(id), ftoa(timesToParent[i])})
			}
		} else {
			sink.Emit(notApplicableKind(), "N/A: no distances in tree (time since parent)")
		}
		if a.CalcChildren {
			for _, id := range nodes {
				sink.EmitRow([]string{"number of children", itoa(id), itoa(t.CountChildren(id))})
			}
		}
		if a.CalcLeaves {
			for _, id := range nodes {
				sink.EmitRow([]string{"number of leaves", itoa(id), itoa(subtreeLeafCount(t, id))})
			}
		}
		if a.CalcSubtree {
			for _, id := range nodes {
				sink.EmitRow([]string{"subtree size", itoa(id), itoa(subtreeSize(t, id))})
			}
		}
		if a.CalcSiblings {
			for _, id := range nodes {
				sink.EmitRow([]string{"number of siblings", itoa(id), itoa(t.CountSiblings(id))})
			}
		}
		if a.CalcHeight {
			for _, id := range nodes {
				sink.EmitRow([]string{"height of node", itoa(id), itoa(t.Height(id))})
			}
		}
		if a.CalcTimeToRoot {
			for _, id := range nodes {
				sink.EmitRow([]string{"time to root", itoa(id), ftoa(t.TimeFromNodeToRoot(id))})
			}
		}
	})
	return nil
}

// subtreeSize returns the number of nodes (including id) in the
// subtree rooted at id.
func subtreeSize(t *tree.Tree, id int) int {
	n := 1
	for _, c := range t.Node(id).Children {
		n += subtreeSize(t, c)
	}
	return n
}

// subtreeLeafCount returns the number of leaves in the subtree rooted
// at id.
func subtreeLeafCount(t *tree.Tree, id int) int {
	if t.IsLeaf(id) {
		return 1
	}
	n := 0
	for _, c := range t.Node(id).Children {
		n += subtreeLeafCount(t, c)
	}
	return n
}
