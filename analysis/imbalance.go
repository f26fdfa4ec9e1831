// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package analysis

import (
	"math"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/traitmat"
	"github.com/agapow-sim/mesasim/tree"
)

// nodeDepth returns the number of edges from the root down to id.
func nodeDepth(t *tree.Tree, id int) int {
	n := 0
	for !t.IsRoot(id) {
		id = t.Node(id).Parent
		n++
	}
	return n
}

// subtendedTips returns the subtree tip count below id, using a
// species-richness column to weight each tip when richCol != "", else
// counting tips 1-for-1.
func subtendedTips(t *tree.Tree, cont *traitmat.ContMatrix, id int, richCol string) float64 {
	if t.IsLeaf(id) {
		if richCol == "" {
			return 1
		}
		if v, ok := cont.Get(t.Node(id).Name, richCol); ok {
			return v
		}
		return 1
	}
	var sum float64
	for _, c := range t.Node(id).Children {
		sum += subtendedTips(t, cont, c, richCol)
	}
	return sum
}

// Fusco computes the Fusco I (or, with Corrected set, I') imbalance
// score over every bifurcating internal node subtending at least 4
// tips, along with per-node weights.
type Fusco struct {
	action.AnalysisLeaf
	RichCol   string
	Corrected bool
	ListSizes bool
}

// NewFusco returns a Fusco analysis. richCol, if non-empty, names a
// species-richness column used to weight tip counts.
func NewFusco(richCol string, corrected, listSizes bool) Fusco {
	desc := "Fusco imbalance"
	if corrected {
		desc = "Fusco imbalance (I')"
	}
	return Fusco{
		AnalysisLeaf: action.AnalysisLeaf{Leaf: action.Leaf{Desc: desc}},
		RichCol:      richCol,
		Corrected:    corrected,
		ListSizes:    listSizes,
	}
}

// Execute implements action.Action.
func (a Fusco) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)
	cont := ae.ContData()

	scoped(sink, "fusco imbalance", func() {
		if t == nil || t.CountNodes() == 0 {
			sink.Emit(notApplicableKind(), "N/A: empty tree")
			return
		}
		var found bool
		for _, id := range t.Nodes() {
			ch := t.Node(id).Children
			if len(ch) != 2 {
				continue
			}
			big := subtendedTips(t, cont, ch[0], a.RichCol)
			small := subtendedTips(t, cont, ch[1], a.RichCol)
			total := big + small
			if total < 4 {
				continue
			}
			found = true

			var imbalance float64
			if big == small {
				imbalance = 0
			} else {
				if big < small {
					big, small = small, big
				}
				min := math.Ceil(total / 2.0)
				max := total - 1
				imbalance = (big - min) / (max - min)
				evenTotal := math.Mod(total, 2) == 0
				if a.Corrected && evenTotal {
					imbalance *= (total - 1) / total
				}
			}

			sink.EmitRow([]string{"node", itoa(id), "imbalance", ftoa(imbalance)})
			if !a.Corrected {
				weight := 1.0
				if math.Mod(total, 2) == 0 {
					weight = (total - 1) / total
					if imbalance == 0 {
						weight *= 2
					}
				}
				sink.EmitRow([]string{"node", itoa(id), "weight", ftoa(weight)})
			}
			if a.ListSizes {
				sink.EmitRow([]string{"node", itoa(id), "size", ftoa(total)})
			}
		}
		if !found {
			sink.Emit(notApplicableKind(), "N/A: analysis not possible at any node")
		}
	})
	return nil
}

// SlowinskiGuyer flags, for every bifurcating node, whether one side
// holds at least 90% of the subtended tips, and whether that split is
// statistically significant at p <= 0.05 under the null of random
// splitting.
type SlowinskiGuyer struct {
	action.AnalysisLeaf
	ListSizes bool
}

// NewSlowinskiGuyer returns a SlowinskiGuyer analysis.
func NewSlowinskiGuyer(listSizes bool) SlowinskiGuyer {
	return SlowinskiGuyer{
		AnalysisLeaf: action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Slowinski-Guyer imbalance"}},
		ListSizes:    listSizes,
	}
}

// Execute implements action.Action.
func (a SlowinskiGuyer) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "Slowinski-Guyer imbalance", func() {
		var found bool
		for _, id := range t.Nodes() {
			ch := t.Node(id).Children
			if len(ch) != 2 {
				continue
			}
			found = true
			small := float64(subtreeLeafCount(t, ch[0]))
			big := float64(subtreeLeafCount(t, ch[1]))
			if big < small {
				big, small = small, big
			}
			total := big + small

			imbalanced := big/total >= 0.9
			significant := 2*small/(total-1) <= 0.05

			sink.EmitRow([]string{"node", itoa(id), "imbalanced?", boolStr(imbalanced)})
			sink.EmitRow([]string{"node", itoa(id), "significant?", boolStr(significant)})
			if a.ListSizes {
				sink.EmitRow([]string{"node", itoa(id), "size", ftoa(total)})
			}
		}
		if !found {
			sink.Emit(notApplicableKind(), "N/A: analysis not possible at any node")
		}
	})
	return nil
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// ShaoNbar reports Shao & Sokal's N-bar imbalance: mean tip depth,
// against its expectation under a Yule process.
type ShaoNbar struct{ action.AnalysisLeaf }

// NewShaoNbar returns a ShaoNbar analysis.
func NewShaoNbar() ShaoNbar {
	return ShaoNbar{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Shao & Sokal's N-bar imbalance"}}}
}

// Execute implements action.Action.
func (ShaoNbar) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "Shao & Sokal's Nbar imbalance", func() {
		if t == nil || t.CountNodes() <= 1 {
			sink.Emit(notApplicableKind(), "N/A: tree is too small")
			return
		}
		var sumDepth, numLeaves float64
		for _, id := range t.Leaves() {
			sumDepth += float64(nodeDepth(t, id))
			numLeaves++
		}
		observed := sumDepth / numLeaves

		var expected float64
		for i := 2; i <= int(numLeaves); i++ {
			expected += 1 / float64(i)
		}
		expected *= 2.0

		sink.EmitRow([]string{"observed", ftoa(observed)})
		sink.EmitRow([]string{"expected", ftoa(expected)})
	})
	return nil
}

// ShaoSigmaSq reports Shao & Sokal's sigma-squared imbalance: the
// variance of the number of nodes intervening between the root and
// each tip.
type ShaoSigmaSq struct{ action.AnalysisLeaf }

// NewShaoSigmaSq returns a ShaoSigmaSq analysis.
func NewShaoSigmaSq() ShaoSigmaSq {
	return ShaoSigmaSq{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Shao & Sokal's sigma-squared imbalance"}}}
}

// Execute implements action.Action.
func (ShaoSigmaSq) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "sigma squared imbalance", func() {
		if t == nil || t.CountNodes() <= 1 {
			sink.Emit(notApplicableKind(), "N/A: tree is too small")
			return
		}
		var ns []float64
		for _, id := range t.Leaves() {
			ns = append(ns, float64(nodeDepth(t, id)-1))
		}
		var nbar float64
		for _, n := range ns {
			nbar += n
		}
		nbar /= float64(len(ns))

		var sumSq float64
		for _, n := range ns {
			d := n - nbar
			sumSq += d * d
		}
		sink.EmitRow([]string{"sigma squared", ftoa(sumSq / float64(len(ns)))})
	})
	return nil
}

// CollessC reports Colless' C imbalance index. It is N/A on any tree
// with a polytomy, since the statistic is only defined for fully
// bifurcating trees.
type CollessC struct{ action.AnalysisLeaf }

// NewCollessC returns a CollessC analysis.
func NewCollessC() CollessC {
	return CollessC{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Colless' C imbalance"}}}
}

// Execute implements action.Action.
func (CollessC) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "Colless' C imbalance", func() {
		if t == nil {
			sink.Emit(notApplicableKind(), "N/A: tree is empty")
			return
		}
		var total float64
		for _, id := range t.Nodes() {
			if t.IsLeaf(id) {
				continue
			}
			ch := t.Node(id).Children
			if len(ch) != 2 {
				sink.Emit(notApplicableKind(), "N/A: tree contains polytomies")
				return
			}
			big := subtreeLeafCount(t, ch[0])
			small := subtreeLeafCount(t, ch[1])
			d := big - small
			if d < 0 {
				d = -d
			}
			total += float64(d)
		}
		n := t.CountLeaves()
		if n <= 2 {
			sink.Emit(notApplicableKind(), "N/A: tree is too small")
			return
		}
		answer := (2.0 / float64((n-1)*(n-2))) * total
		sink.EmitRow([]string{"Colless' C", ftoa(answer)})
	})
	return nil
}

// B1 reports Shao & Sokal's B1 balance statistic: the sum, over every
// non-root internal node, of the reciprocal of its subtree height.
type B1 struct{ action.AnalysisLeaf }

// NewB1 returns a B1 analysis.
func NewB1() B1 {
	return B1{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Shao & Sokal's B1 balance"}}}
}

// Execute implements action.Action.
func (B1) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "B1 balance", func() {
		var answer float64
		for _, id := range t.Nodes() {
			if t.IsRoot(id) || t.IsLeaf(id) {
				continue
			}
			h := t.Height(id)
			if h > 0 {
				answer += 1.0 / float64(h)
			}
		}
		sink.EmitRow([]string{"B1", ftoa(answer)})
	})
	return nil
}

// B2 reports Shao & Sokal's B2 balance statistic: the sum, over every
// tip, of depth/2^depth.
type B2 struct{ action.AnalysisLeaf }

// NewB2 returns a B2 analysis.
func NewB2() B2 {
	return B2{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Shao & Sokal's B2 balance"}}}
}

// Execute implements action.Action.
func (B2) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)

	scoped(sink, "B2 balance", func() {
		var answer float64
		for _, id := range t.Leaves() {
			h := nodeDepth(t, id)
			if h != 0 {
				answer += float64(h) / math.Pow(2, float64(h))
			}
		}
		sink.EmitRow([]string{"B2", ftoa(answer)})
	})
	return nil
}
