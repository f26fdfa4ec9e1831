// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/traitmat"
	"github.com/agapow-sim/mesasim/tree"
)

// divFunc computes a diversity statistic over a tree, returning
// false if it is not applicable (e.g. no distances in the tree).
type divFunc func(*tree.Tree) (float64, bool)

func geneticDivFunc(t *tree.Tree) (float64, bool) { return t.GeneticDiversity() }
func phyloDivFunc(t *tree.Tree) (float64, bool)   { return t.PhyloDiversity() }

// prunedByAbundance clones t and removes every living leaf whose
// summed site abundance is zero, collapsing the singleton chain left
// at the root. It is the baseline every jackknife/bootstrap estimate
// starts from, mirroring the original's PruneByAbundanceAction
// pre-pass. Duplicated here rather than imported from sysaction,
// which analysis has no reason to depend on.
func prunedByAbundance(t *tree.Tree, cont *traitmat.ContMatrix) *tree.Tree {
	clone := t.Clone()
	var targets []int
	for _, id := range clone.Leaves() {
		if !clone.IsAlive(id) {
			continue
		}
		if cont.Abundance(clone.Node(id).Name) == 0 {
			targets = append(targets, id)
		}
	}
	for _, id := range targets {
		_ = clone.PruneBranch(id)
	}
	for clone.IsSingleton(clone.Root()) {
		if clone.CollapseNode(clone.Root()) != nil {
			break
		}
	}
	return clone
}

// siteObservation names one (taxon, site) cell with positive
// abundance, used to build a resampling population.
type siteObservation struct {
	taxon string
	site  string
	count float64
}

// collectObservations returns the (taxon, site, abundance) triples
// with positive abundance, and the grand total of observations.
func collectObservations(t *tree.Tree, cont *traitmat.ContMatrix) (obs []siteObservation, total float64) {
	sites := cont.ListSiteTraits()
	for _, id := range t.Leaves() {
		name := t.Node(id).Name
		for _, site := range sites {
			v, ok := cont.Get(name, site)
			if !ok || v <= 0 {
				continue
			}
			obs = append(obs, siteObservation{taxon: name, site: site, count: v})
			total += v
		}
	}
	return obs, total
}

// jackknifeDiversity implements the shared leave-one-out resampling
// used by both genetic and phylogenetic diversity jackknifes: a
// taxon is jackknifable only when it has exactly one individual
// across all sites and zero elsewhere.
func jackknifeDiversity(env action.Env, prefix, originalLabel string, div divFunc) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)
	cont := ae.ContData()

	scoped(sink, prefix, func() {
		if t == nil {
			sink.Emit(notApplicableKind(), "N/A: tree is empty")
			return
		}
		base := prunedByAbundance(t, cont)
		origDiv, ok := div(base)
		if !ok || origDiv == 0.0 {
			sink.Emit(notApplicableKind(), "N/A: no distances in tree")
			return
		}
		sink.EmitRow([]string{originalLabel, ftoa(origDiv)})

		sites := cont.ListSiteTraits()
		_, totalObs := collectObservations(t, cont)

		var replicates []float64
		var totalSqDiffs float64
		for _, id := range t.Leaves() {
			name := t.Node(id).Name
			jackSite, jackknifable := jackknifableSite(name, sites, cont)
			if !jackknifable {
				continue
			}
			_ = cont.Set(name, jackSite, 0)
			newDiv, _ := div(prunedByAbundance(t, cont))
			replicates = append(replicates, newDiv)
			_ = cont.Set(name, jackSite, 1)
			diff := origDiv - newDiv
			totalSqDiffs += diff * diff
		}

		if totalSqDiffs == 0.0 {
			sink.Emit(notApplicableKind(), "N/A: no appreciable jackknifed error")
			return
		}
		// The individuals a jackknifable leaf represents each get a
		// pseudo-replicate of their own; every other individual's
		// leave-one-out diversity is indistinguishable from the
		// original estimate, since pruning one of several co-located
		// individuals never changes presence/absence. stat.Mean over
		// that full population reproduces the weighted-average formula.
		samples := make([]float64, 0, int(totalObs))
		samples = append(samples, replicates...)
		for i := len(replicates); i < int(totalObs); i++ {
			samples = append(samples, origDiv)
		}
		mean := stat.Mean(samples, nil)
		sink.EmitRow([]string{"jackknife estimate of mean", ftoa(mean)})
		// This isn't stat.Variance: its deviations are measured from
		// origDiv, the original point estimate, not from the mean of
		// the replicates, and the (n-1)/n correction is applied before
		// the square root rather than as Bessel's correction on the
		// divisor. No gonum primitive matches that shape.
		sink.EmitRow([]string{"jackknife estimate of error",
			ftoa(math.Sqrt(totalSqDiffs * (totalObs - 1) / totalObs))})
		sink.EmitRow([]string{"number of samples", ftoa(totalObs)})
	})
	return nil
}

// jackknifableSite reports whether name has exactly one individual
// across sites (one site at 1, the rest at 0), and if so, which site.
func jackknifableSite(name string, sites []string, cont *traitmat.ContMatrix) (string, bool) {
	jackSite := ""
	zeros := 0
	for _, site := range sites {
		v, _ := cont.Get(name, site)
		switch {
		case v >= 2:
			return "", false
		case v == 1:
			if jackSite != "" {
				return "", false
			}
			jackSite = site
		case v == 0:
			zeros++
		}
	}
	if jackSite == "" || zeros+1 != len(sites) {
		return "", false
	}
	return jackSite, true
}

// bootstrapDiversity implements the shared bootstrap-with-replacement
// resampling used by both genetic and phylogenetic diversity
// bootstraps: each replicate redistributes NumSamples observations
// across the (taxon, site) population by cumulative-frequency
// sampling, then recomputes diversity on the pruned tree.
func bootstrapDiversity(env action.Env, prefix, originalLabel string, div divFunc, reps, numSamples int) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	_, t := activeTree(ae)
	cont := ae.ContData()

	scoped(sink, prefix, func() {
		if t == nil {
			sink.Emit(notApplicableKind(), "N/A: tree is empty")
			return
		}
		base := prunedByAbundance(t, cont)
		origDiv, ok := div(base)
		if !ok || origDiv == 0.0 {
			sink.Emit(notApplicableKind(), "N/A: no distances in tree")
			return
		}
		sink.EmitRow([]string{originalLabel, ftoa(origDiv)})

		obs, total := collectObservations(t, cont)
		if len(obs) == 0 || reps < 2 {
			sink.Emit(notApplicableKind(), "N/A: no observations to resample")
			return
		}
		n := numSamples
		if n <= 0 {
			n = int(total)
		}
		cumFreq := make([]float64, len(obs))
		var running float64
		for i, o := range obs {
			running += o.count
			cumFreq[i] = running / total
		}
		cumFreq[len(cumFreq)-1] = 1.0

		// snapshot every (taxon, site) cell touched so it can be restored.
		saved := make(map[[2]string]float64, len(obs))
		for _, o := range obs {
			saved[[2]string{o.taxon, o.site}] = o.count
		}

		draws := make([]float64, 0, reps)
		var totalSqDiffs float64
		for i := 0; i < reps; i++ {
			for key := range saved {
				_ = cont.Set(key[0], key[1], 0)
			}
			for s := 0; s < n; s++ {
				pick := sampleCumulative(cumFreq, uniform01(ae))
				o := obs[pick]
				cur, _ := cont.Get(o.taxon, o.site)
				_ = cont.Set(o.taxon, o.site, cur+1)
			}
			newDiv, _ := div(prunedByAbundance(t, cont))
			draws = append(draws, newDiv)
			diff := origDiv - newDiv
			totalSqDiffs += diff * diff
		}
		for key, v := range saved {
			_ = cont.Set(key[0], key[1], v)
		}

		mean := stat.Mean(draws, nil)
		sink.EmitRow([]string{"bootstrap estimate of mean", ftoa(mean)})
		// As in the jackknife estimator, this deviates from origDiv
		// rather than from mean, and divides the root sum of squares
		// rather than the sum of squares itself — not stat.Variance.
		sink.EmitRow([]string{"bootstrap estimate of std error",
			ftoa(math.Sqrt(totalSqDiffs) / float64(reps-1))})
	})
	return nil
}

// uniform01 draws a uniform [0,1) value from the env's RNG.
func uniform01(ae Env) float64 {
	return ae.RNG().Float64()
}

// sampleCumulative returns the first index whose cumulative
// frequency is >= choice.
func sampleCumulative(cumFreq []float64, choice float64) int {
	for i, f := range cumFreq {
		if choice <= f {
			return i
		}
	}
	return len(cumFreq) - 1
}

// JackknifeGeneticDiv estimates genetic diversity's sensitivity to
// single-individual taxa by leave-one-out resampling over sites.
type JackknifeGeneticDiv struct{ action.AnalysisLeaf }

// NewJackknifeGeneticDiv returns a JackknifeGeneticDiv analysis.
func NewJackknifeGeneticDiv() JackknifeGeneticDiv {
	return JackknifeGeneticDiv{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "jackknife estimate over sites of genetic diversity"}}}
}

// Execute implements action.Action.
func (JackknifeGeneticDiv) Execute(env action.Env) error {
	return jackknifeDiversity(env, "genetic diversity over sites", "GD", geneticDivFunc)
}

// JackknifePhyloDiv estimates phylogenetic diversity's sensitivity to
// single-individual taxa by leave-one-out resampling over sites.
type JackknifePhyloDiv struct{ action.AnalysisLeaf }

// NewJackknifePhyloDiv returns a JackknifePhyloDiv analysis.
func NewJackknifePhyloDiv() JackknifePhyloDiv {
	return JackknifePhyloDiv{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "jackknife estimate over sites of phylogenetic diversity"}}}
}

// Execute implements action.Action.
func (JackknifePhyloDiv) Execute(env action.Env) error {
	return jackknifeDiversity(env, "phylogenetic diversity over sites", "PD", phyloDivFunc)
}

// BootstrapGeneticDiv estimates the bootstrap mean and standard error
// of genetic diversity by resampling observations over sites.
type BootstrapGeneticDiv struct {
	action.AnalysisLeaf
	Reps, Samples int
}

// NewBootstrapGeneticDiv returns a BootstrapGeneticDiv analysis
// running reps replicates of samples draws each.
func NewBootstrapGeneticDiv(reps, samples int) BootstrapGeneticDiv {
	return BootstrapGeneticDiv{
		AnalysisLeaf: action.AnalysisLeaf{Leaf: action.Leaf{Desc: fmt.Sprintf("bootstrap estimate over sites of genetic diversity (%d reps)", reps)}},
		Reps:         reps,
		Samples:      samples,
	}
}

// Execute implements action.Action.
func (a BootstrapGeneticDiv) Execute(env action.Env) error {
	return bootstrapDiversity(env, "genetic diversity over sites", "GD", geneticDivFunc, a.Reps, a.Samples)
}

// BootstrapPhyloDiv estimates the bootstrap mean and standard error
// of phylogenetic diversity by resampling observations over sites.
type BootstrapPhyloDiv struct {
	action.AnalysisLeaf
	Reps, Samples int
}

// NewBootstrapPhyloDiv returns a BootstrapPhyloDiv analysis running
// reps replicates of samples draws each.
func NewBootstrapPhyloDiv(reps, samples int) BootstrapPhyloDiv {
	return BootstrapPhyloDiv{
		AnalysisLeaf: action.AnalysisLeaf{Leaf: action.Leaf{Desc: fmt.Sprintf("bootstrap estimate over sites of phylogenetic diversity (%d reps)", reps)}},
		Reps:         reps,
		Samples:      samples,
	}
}

// Execute implements action.Action.
func (a BootstrapPhyloDiv) Execute(env action.Env) error {
	return bootstrapDiversity(env, "phylogenetic diversity over sites", "PD", phyloDivFunc, a.Reps, a.Samples)
}

// SiteComplementarity reports the fraction of species that occur at
// exactly one site.
type SiteComplementarity struct{ action.AnalysisLeaf }

// NewSiteComplementarity returns a SiteComplementarity analysis.
func NewSiteComplementarity() SiteComplementarity {
	return SiteComplementarity{action.AnalysisLeaf{Leaf: action.Leaf{Desc: "site complementarity"}}}
}

// Execute implements action.Action.
func (SiteComplementarity) Execute(env action.Env) error {
	ae, err := envOf(env)
	if err != nil {
		return err
	}
	sink := ae.Sink()
	cont := ae.ContData()
	scoped(sink, "site complementarity", func() {
		sites := cont.ListSiteTraits()
		rows := cont.Rows()
		if len(rows) == 0 || len(sites) == 0 {
			sink.Emit(notApplicableKind(), "N/A: no species or sites recorded")
			return
		}
		var single, present int
		for _, row := range rows {
			occurs := 0
			for _, site := range sites {
				if v, ok := cont.Get(row, site); ok && v > 0 {
					occurs++
				}
			}
			if occurs == 0 {
				continue
			}
			present++
			if occurs == 1 {
				single++
			}
		}
		if present == 0 {
			sink.Emit(notApplicableKind(), "N/A: no species present at any site")
			return
		}
		sink.EmitRow([]string{"site complementarity", ftoa(float64(single) / float64(present))})
	})
	return nil
}
