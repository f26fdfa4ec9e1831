// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package analysis_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/agapow-sim/mesasim/analysis"
	"github.com/agapow-sim/mesasim/report"
	"github.com/agapow-sim/mesasim/traitmat"
	"github.com/agapow-sim/mesasim/tree"
)

// recordingSink captures every emitted row and comment for inspection.
type recordingSink struct {
	rows     [][]string
	comments []string
}

func (s *recordingSink) Emit(kind report.Kind, text string) {
	if kind == report.Comment {
		s.comments = append(s.comments, text)
	}
}
func (s *recordingSink) EmitRow(vals []string) { s.rows = append(s.rows, vals) }
func (s *recordingSink) Push(string)           {}
func (s *recordingSink) Pop()                  {}

func (s *recordingSink) hasRowWithLabel(label string) bool {
	for _, r := range s.rows {
		for _, v := range r {
			if v == label {
				return true
			}
		}
	}
	return false
}

func (s *recordingSink) joinedComments() string {
	return strings.Join(s.comments, "; ")
}

// fakeRNG is a deterministic analysis.Roller.
type fakeRNG struct{}

func (fakeRNG) Float64() float64                         { return 0.5 }
func (fakeRNG) IntN(n int) int                            { return 0 }
func (fakeRNG) Normal(mean, stddev float64) float64       { return mean }
func (fakeRNG) Shuffle(n int, swap func(i, j int))        {}

type fakeEnv struct {
	trees *tree.Store
	cont  *traitmat.ContMatrix
	disc  *traitmat.DiscMatrix
	sink  *recordingSink
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		trees: tree.NewStore(),
		cont:  traitmat.NewCont(),
		disc:  traitmat.NewDisc(),
		sink:  &recordingSink{},
	}
}

func (e *fakeEnv) Trees() *tree.Store            { return e.trees }
func (e *fakeEnv) Sink() report.Sink             { return e.sink }
func (e *fakeEnv) Snapshot() any                 { return nil }
func (e *fakeEnv) Restore(any)                   {}
func (e *fakeEnv) ContData() *traitmat.ContMatrix { return e.cont }
func (e *fakeEnv) DiscData() *traitmat.DiscMatrix { return e.disc }
func (e *fakeEnv) RNG() analysis.Roller           { return fakeRNG{} }

// wrongEnv satisfies only action.Env.
type wrongEnv struct{ trees *tree.Store }

func (w *wrongEnv) Trees() *tree.Store { return w.trees }
func (w *wrongEnv) Sink() report.Sink   { return report.Discard }
func (w *wrongEnv) Snapshot() any       { return nil }
func (w *wrongEnv) Restore(any)         {}

func TestAnalysisRejectsWrongEnv(t *testing.T) {
	env := &wrongEnv{trees: tree.NewStore()}
	if err := analysis.NewTreeInfo().Execute(env); !errors.Is(err, analysis.ErrWrongEnv) {
		t.Fatalf("execute with wrong env: got %v, want ErrWrongEnv", err)
	}
}

// balancedTree builds a symmetric 4-tip tree of unit edge weights.
func balancedTree(env *fakeEnv) *tree.Tree {
	tr := env.trees.Seed("t1", "root")
	a, b, _ := tr.Speciate(tr.Root())
	_ = tr.SetEdgeWeight(a, 1)
	_ = tr.SetEdgeWeight(b, 1)
	c1, c2, _ := tr.Speciate(a)
	c3, c4, _ := tr.Speciate(b)
	for _, id := range []int{c1, c2, c3, c4} {
		_ = tr.SetEdgeWeight(id, 1)
	}
	return tr
}

func TestTreeInfoReportsCounts(t *testing.T) {
	env := newFakeEnv()
	balancedTree(env)

	if err := analysis.NewTreeInfo().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !env.sink.hasRowWithLabel("total size") {
		t.Errorf("expected a total size row")
	}
	if !env.sink.hasRowWithLabel("neontological") {
		t.Errorf("expected neontological classification: comments=%q rows=%v", env.sink.joinedComments(), env.sink.rows)
	}
}

func TestTreeInfoEmptyTreeIsNotApplicable(t *testing.T) {
	env := newFakeEnv()
	if err := analysis.NewTreeInfo().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(env.sink.joinedComments(), "empty") {
		t.Errorf("expected an empty-tree N/A comment, got %q", env.sink.joinedComments())
	}
}

func TestNodeInfoSelectsTips(t *testing.T) {
	env := newFakeEnv()
	balancedTree(env)

	a := analysis.NewNodeInfo(analysis.SelectTips)
	if err := a.Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !env.sink.hasRowWithLabel("4") {
		t.Errorf("expected 4 tips selected: rows=%v", env.sink.rows)
	}
}

func TestSimpsonAndShannonDiversity(t *testing.T) {
	env := newFakeEnv()
	if err := env.cont.AddColumn("site1"); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := env.cont.MarkSiteTrait("site1"); err != nil {
		t.Fatalf("mark site: %v", err)
	}
	balancedTree(env)
	for _, name := range []string{"t1-2", "t1-3", "t1-4", "t1-5"} {
		if err := env.cont.AddRow(name); err != nil {
			t.Fatalf("add row %s: %v", name, err)
		}
		if err := env.cont.Set(name, "site1", 1); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}

	if err := analysis.NewSimpson().Execute(env); err != nil {
		t.Fatalf("execute simpson: %v", err)
	}
	if !env.sink.hasRowWithLabel("Simpson index") {
		t.Errorf("expected a Simpson index row: rows=%v", env.sink.rows)
	}

	env.sink = &recordingSink{}
	if err := analysis.NewShannonWeiner().Execute(env); err != nil {
		t.Fatalf("execute shannon: %v", err)
	}
	if !env.sink.hasRowWithLabel("evenness") {
		t.Errorf("expected an evenness row: rows=%v", env.sink.rows)
	}
}

func TestDiversityAllZeroAbundanceIsNotApplicable(t *testing.T) {
	env := newFakeEnv()
	if err := analysis.NewSimpson().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(env.sink.joinedComments(), "zero abundance") {
		t.Errorf("expected a zero-abundance N/A comment, got %q", env.sink.joinedComments())
	}
}

func TestCollessCBalancedTreeIsZero(t *testing.T) {
	env := newFakeEnv()
	balancedTree(env)
	if err := analysis.NewCollessC().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !env.sink.hasRowWithLabel("0") {
		t.Errorf("expected Colless' C of 0 for a balanced tree: rows=%v", env.sink.rows)
	}
}

func TestResolutionOfFullyResolvedTree(t *testing.T) {
	env := newFakeEnv()
	balancedTree(env)
	if err := analysis.NewResolution().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	// 3 internal nodes (root + 2 cherries), leaves = 4:
	// (3-1)/(4-2) = 1.0
	if !env.sink.hasRowWithLabel("1") {
		t.Errorf("expected resolution of 1 for a fully resolved tree: rows=%v", env.sink.rows)
	}
}

func TestUltrametricDetectsEqualTipDistances(t *testing.T) {
	env := newFakeEnv()
	balancedTree(env)
	if err := analysis.NewUltrametric().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !env.sink.hasRowWithLabel("true") {
		t.Errorf("expected the balanced tree to be ultrametric: rows=%v", env.sink.rows)
	}
}

func TestFuscoSkipsNodesUnderFourTips(t *testing.T) {
	env := newFakeEnv()
	balancedTree(env) // every bifurcation subtends < 4 tips until the root
	if err := analysis.NewFusco("", false, false).Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !env.sink.hasRowWithLabel("imbalance") {
		t.Errorf("expected the root (4 tips) to produce an imbalance row: rows=%v", env.sink.rows)
	}
}

func TestSiteComplementarity(t *testing.T) {
	env := newFakeEnv()
	if err := env.cont.AddColumn("siteA"); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := env.cont.AddColumn("siteB"); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := env.cont.MarkSiteTrait("siteA"); err != nil {
		t.Fatalf("mark site: %v", err)
	}
	if err := env.cont.MarkSiteTrait("siteB"); err != nil {
		t.Fatalf("mark site: %v", err)
	}
	if err := env.cont.AddRow("only-a"); err != nil {
		t.Fatalf("add row: %v", err)
	}
	if err := env.cont.Set("only-a", "siteA", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := env.cont.AddRow("both"); err != nil {
		t.Fatalf("add row: %v", err)
	}
	if err := env.cont.Set("both", "siteA", 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := env.cont.Set("both", "siteB", 1); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := analysis.NewSiteComplementarity().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !env.sink.hasRowWithLabel("0.5") {
		t.Errorf("expected complementarity of 0.5: rows=%v", env.sink.rows)
	}
}
