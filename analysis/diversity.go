// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/agapow-sim/mesasim/action"
)

// gosperLnFactorial approximates ln(n!) via Gosper's approximation,
// n! ≈ sqrt((2n + 1/3)·π) · n^n · e^-n, avoiding overflow for large
// abundances.
func gosperLnFactorial(n float64) float64 {
	if n <= 0 {
		return 0
	}
	return 0.5*math.Log((2*n+1.0/3.0)*math.Pi) + n*math.Log(n) - n
}

// diversityPreconditionErr reports "all taxa have zero abundance"
// when cont carries no positive abundances, mirroring every original
// diversity analysis's identical short-circuit.
func diversityPreconditionErr(total float64) string {
	if total == 0 {
		return "all taxa have zero abundance"
	}
	return ""
}

// GeneticDiversity reports the tree's genetic (allelic) diversity,
// 1 - prod(1 - edge_weight) over the edges spanning the living leaves
// (tree.Tree.GeneticDiversity).
type GeneticDiversity struct{ action.AnalysisLeaf }

// NewGeneticDiversity returns a GeneticDiversity analysis.
func NewGeneticDiversity() GeneticDiversity {
	return GeneticDiversity{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "genetic diversity"}}}
}

// Execute implements action.Action.
func (GeneticDiversity) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)
	scoped(sink, "genetic diversity", func() {
		if t == nil {
			sink.Emit(notApplicableKind(), "N/A: tree is empty")
			return
		}
		gd, ok := t.GeneticDiversity()
		switch {
		case !ok:
			sink.Emit(notApplicableKind(), "N/A: no distances in the tree")
		case gd == 1.0:
			sink.Emit(notApplicableKind(), "N/A: non-allelic distances in the tree")
		default:
			sink.EmitRow([]string{"genetic diversity", ftoa(gd)})
		}
	})
	return nil
}

// PhyloDiversity reports the tree's phylogenetic diversity: the sum
// of spanning edge weights connecting the living leaves.
type PhyloDiversity struct{ action.AnalysisLeaf }

// NewPhyloDiversity returns a PhyloDiversity analysis.
func NewPhyloDiversity() PhyloDiversity {
	return PhyloDiversity{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "phylogenetic diversity"}}}
}

// Execute implements action.Action.
func (PhyloDiversity) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)
	scoped(sink, "phylogenetic diversity", func() {
		if t == nil {
			sink.Emit(notApplicableKind(), "N/A: tree is empty")
			return
		}
		pd, ok := t.PhyloDiversity()
		if !ok || pd == 0.0 {
			sink.Emit(notApplicableKind(), "N/A: no distances in the tree")
			return
		}
		sink.EmitRow([]string{"phylogenetic diversity", ftoa(pd)})
	})
	return nil
}

// siteDiversityAnalysis is the shared skeleton of every abundance-
// based diversity index: gather per-species abundances summed over
// site columns, short-circuit to N/A if the total is zero, else hand
// the counts and total off to compute.
func siteDiversityAnalysis(env action.Env, prefix string, compute func(counts []float64, total float64) []report2) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	counts, total := speciesAbundances(ae.ContData())
	scoped(sink, prefix, func() {
		if msg := diversityPreconditionErr(total); msg != "" {
			sink.Emit(notApplicableKind(), "N/A: "+msg)
			return
		}
		for _, r := range compute(counts, total) {
			sink.EmitRow([]string{r.label, ftoa(r.value)})
		}
	})
	return nil
}

// report2 is a labelled scalar result row, local to this file's
// siteDiversityAnalysis helper.
type report2 struct {
	label string
	value float64
}

func sumSqProportions(counts []float64, total float64) float64 {
	var sum float64
	for _, c := range counts {
		p := c / total
		sum += p * p
	}
	return sum
}

// ShannonWeiner computes the Shannon-Weiner diversity index in log
// base 2, its theoretical maximum log2(S), and the resulting
// evenness H/log2(S).
type ShannonWeiner struct{ action.AnalysisLeaf }

// NewShannonWeiner returns a ShannonWeiner analysis.
func NewShannonWeiner() ShannonWeiner {
	return ShannonWeiner{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Shannon-Weiner diversity"}}}
}

// Execute implements action.Action.
func (ShannonWeiner) Execute(env action.Env) error {
	return siteDiversityAnalysis(env, "Shannon-Weiner diversity", func(counts []float64, total float64) []report2 {
		p := make([]float64, 0, len(counts))
		for _, c := range counts {
			if c <= 0 {
				continue
			}
			p = append(p, c/total)
		}
		// stat.Entropy works in nats; divide by ln(2) to get the
		// log2-based index the field conventionally reports.
		h := stat.Entropy(p) / math.Ln2
		s := float64(len(counts))
		max := math.Log2(s)
		evenness := 0.0
		if max != 0 {
			evenness = h / max
		}
		return []report2{
			{"index", h},
			{"maximum", max},
			{"evenness", evenness},
		}
	})
}

// Simpson computes Simpson's index of diversity, 1 - Σp².
type Simpson struct{ action.AnalysisLeaf }

// NewSimpson returns a Simpson analysis.
func NewSimpson() Simpson {
	return Simpson{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Simpson index of diversity"}}}
}

// Execute implements action.Action.
func (Simpson) Execute(env action.Env) error {
	return siteDiversityAnalysis(env, "Simpson index of diversity", func(counts []float64, total float64) []report2 {
		return []report2{{"Simpson index", 1.0 - sumSqProportions(counts, total)}}
	})
}

// Brillouin computes the Brillouin index of species diversity using
// Gosper's approximation of the factorial to avoid overflow.
type Brillouin struct{ action.AnalysisLeaf }

// NewBrillouin returns a Brillouin analysis.
func NewBrillouin() Brillouin {
	return Brillouin{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Brillouin index of species diversity"}}}
}

// Execute implements action.Action.
func (Brillouin) Execute(env action.Env) error {
	return siteDiversityAnalysis(env, "Brillouin index of species diversity", func(counts []float64, total float64) []report2 {
		var sumLnFact float64
		for _, c := range counts {
			sumLnFact += gosperLnFactorial(c)
		}
		answer := (gosperLnFactorial(total) - sumLnFact) / total
		return []report2{{"Brillouin index", answer}}
	})
}

// PIE computes the probability-of-interspecific-encounter index,
// (S/(S+1))·(1-Σp²).
type PIE struct{ action.AnalysisLeaf }

// NewPIE returns a PIE analysis.
func NewPIE() PIE {
	return PIE{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "PIE diversity index"}}}
}

// Execute implements action.Action.
func (PIE) Execute(env action.Env) error {
	return siteDiversityAnalysis(env, "PIE diversity index", func(counts []float64, total float64) []report2 {
		s := float64(len(counts))
		correction := s / (s + 1)
		return []report2{{"PIE index", correction * (1.0 - sumSqProportions(counts, total))}}
	})
}

// Macintosh computes Macintosh's diversity index, √Σp².
type Macintosh struct{ action.AnalysisLeaf }

// NewMacintosh returns a Macintosh analysis.
func NewMacintosh() Macintosh {
	return Macintosh{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Macintosh's index"}}}
}

// Execute implements action.Action.
func (Macintosh) Execute(env action.Env) error {
	return siteDiversityAnalysis(env, "Macintosh's index", func(counts []float64, total float64) []report2 {
		return []report2{{"Macintosh index", math.Sqrt(sumSqProportions(counts, total))}}
	})
}

// Margelef computes the Margelef diversity index, (S-1)/ln(N).
type Margelef struct{ action.AnalysisLeaf }

// NewMargelef returns a Margelef analysis.
func NewMargelef() Margelef {
	return Margelef{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Margelef diversity index"}}}
}

// Execute implements action.Action.
func (Margelef) Execute(env action.Env) error {
	return siteDiversityAnalysis(env, "Margelef diversity index", func(counts []float64, total float64) []report2 {
		s := float64(len(counts))
		return []report2{{"Margelef index", (s - 1) / math.Log(total)}}
	})
}

// Menhinick computes the Menhinick diversity index, S/√N.
type Menhinick struct{ action.AnalysisLeaf }

// NewMenhinick returns a Menhinick analysis.
func NewMenhinick() Menhinick {
	return Menhinick{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "Menhinick diversity index"}}}
}

// Execute implements action.Action.
func (Menhinick) Execute(env action.Env) error {
	return siteDiversityAnalysis(env, "Menhinick diversity index", func(counts []float64, total float64) []report2 {
		s := float64(len(counts))
		return []report2{{"Menhinick index", s / math.Sqrt(total)}}
	})
}
