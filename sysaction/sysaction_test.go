// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sysaction_test

import (
	"errors"
	"testing"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/prefs"
	"github.com/agapow-sim/mesasim/report"
	"github.com/agapow-sim/mesasim/sysaction"
	"github.com/agapow-sim/mesasim/tree"
	"github.com/agapow-sim/mesasim/traitmat"
)

// fakeRoller is a deterministic sysaction.Roller for tests.
type fakeRoller struct {
	seq []float64
	i   int
}

func (f *fakeRoller) Float64() float64 {
	v := f.seq[f.i]
	if f.i < len(f.seq)-1 {
		f.i++
	}
	return v
}

func (f *fakeRoller) IntN(n int) int { return 0 }

func (f *fakeRoller) Normal(mean, stddev float64) float64 { return mean + stddev }

func (f *fakeRoller) Shuffle(n int, swap func(i, j int)) {}

// fakeEnv implements sysaction.Env (and, transitively, action.Env).
type fakeEnv struct {
	trees *tree.Store
	cont  *traitmat.ContMatrix
	disc  *traitmat.DiscMatrix
	pref  prefs.Prefs
	rng   sysaction.Roller
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		trees: tree.NewStore(),
		cont:  traitmat.NewCont(),
		disc:  traitmat.NewDisc(),
		pref:  prefs.Default(),
		rng:   &fakeRoller{seq: []float64{0.1}},
	}
}

func (e *fakeEnv) Trees() *tree.Store            { return e.trees }
func (e *fakeEnv) Sink() report.Sink             { return report.Discard }
func (e *fakeEnv) Snapshot() any                 { return nil }
func (e *fakeEnv) Restore(any)                   {}
func (e *fakeEnv) ContData() *traitmat.ContMatrix { return e.cont }
func (e *fakeEnv) DiscData() *traitmat.DiscMatrix { return e.disc }
func (e *fakeEnv) Prefs() *prefs.Prefs           { return &e.pref }
func (e *fakeEnv) RNG() sysaction.Roller         { return e.rng }

// wrongEnv satisfies only action.Env, not sysaction.Env.
type wrongEnv struct{ trees *tree.Store }

func (w *wrongEnv) Trees() *tree.Store { return w.trees }
func (w *wrongEnv) Sink() report.Sink   { return report.Discard }
func (w *wrongEnv) Snapshot() any       { return nil }
func (w *wrongEnv) Restore(any)         {}

func TestSysactionRejectsWrongEnv(t *testing.T) {
	env := &wrongEnv{trees: tree.NewStore()}
	if err := sysaction.NewDuplicateTree().Execute(env); !errors.Is(err, sysaction.ErrWrongEnv) {
		t.Fatalf("execute with wrong env: got %v, want ErrWrongEnv", err)
	}
}

func TestDuplicateTree(t *testing.T) {
	env := newFakeEnv()
	env.trees.Seed("t1", "root")
	if err := sysaction.NewDuplicateTree().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g, w := env.trees.Len(), 2; g != w {
		t.Errorf("tree count: got %d, want %d", g, w)
	}
}

func TestSetLabelsAndPreserveTaxa(t *testing.T) {
	env := newFakeEnv()
	if err := sysaction.NewSetLabels(prefs.LabelCAIC).Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g, w := env.pref.CladeLabels, prefs.LabelCAIC; g != w {
		t.Errorf("clade labels: got %v, want %v", g, w)
	}

	if err := sysaction.NewPreserveTaxa(prefs.PreserveRootChildren).Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g, w := env.pref.PreserveNodes, prefs.PreserveRootChildren; g != w {
		t.Errorf("preserve nodes: got %v, want %v", g, w)
	}
}

func TestSetTreeLengthRandomFixedFloorsAtZero(t *testing.T) {
	env := newFakeEnv()
	tr := env.trees.Seed("t1", "root")
	if _, _, err := tr.Speciate(tr.Root()); err != nil {
		t.Fatalf("speciate: %v", err)
	}

	// Normal(0, factor) under fakeRoller returns 0+factor = factor.
	a := sysaction.NewSetTreeLength(sysaction.LenRandomFixed, 3)
	if err := a.Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	for _, id := range tr.Leaves() {
		if g, w := tr.EdgeWeight(id), 3.0; g != w {
			t.Errorf("edge weight of leaf %d: got %g, want %g", id, g, w)
		}
	}
	if g, w := tr.EdgeWeight(tr.Root()), 0.0; g != w {
		t.Errorf("root edge weight should be untouched: got %g, want %g", g, w)
	}
}

func TestShuffleTraitsAll(t *testing.T) {
	env := newFakeEnv()
	if err := env.cont.AddRow("a"); err != nil {
		t.Fatalf("add row: %v", err)
	}
	if err := env.cont.AddColumn("x"); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := sysaction.NewShuffleAllTraits().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestDeleteDeadTaxaAndTraits(t *testing.T) {
	env := newFakeEnv()
	tr := env.trees.Seed("t1", "root")
	c1, c2, _ := tr.Speciate(tr.Root())
	if err := tr.KillLeaf(c1); err != nil {
		t.Fatalf("kill leaf: %v", err)
	}
	name1 := tr.Node(c1).Name
	name2 := tr.Node(c2).Name
	if err := env.disc.AddRow(name1); err != nil {
		t.Fatalf("add row: %v", err)
	}
	if err := env.disc.AddRow(name2); err != nil {
		t.Fatalf("add row: %v", err)
	}

	if err := sysaction.NewDeleteDeadTraits().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if env.disc.HasRow(name1) {
		t.Errorf("dead taxon's trait row should have been deleted")
	}
	if !env.disc.HasRow(name2) {
		t.Errorf("living taxon's trait row should remain")
	}

	if err := sysaction.NewDeleteDeadTaxa().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g, w := tr.CountLeaves(), 1; g != w {
		t.Errorf("leaves after delete dead taxa: got %d, want %d", g, w)
	}
}

func TestRazeSite(t *testing.T) {
	env := newFakeEnv()
	if err := env.cont.AddRow("a"); err != nil {
		t.Fatalf("add row: %v", err)
	}
	if err := env.cont.AddColumn("site1"); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := env.cont.MarkSiteTrait("site1"); err != nil {
		t.Fatalf("mark site trait: %v", err)
	}
	if err := env.cont.Set("a", "site1", 5); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := sysaction.NewRazeSite("site1").Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g, w := env.cont.Abundance("a"), 0.0; g != w {
		t.Errorf("abundance after raze: got %g, want %g", g, w)
	}
}

func TestPruneNKillsFixedCount(t *testing.T) {
	env := newFakeEnv()
	tr := env.trees.Seed("t1", "root")
	tr.Speciate(tr.Root())

	a := sysaction.NewPruneN(1, true)
	if err := a.Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g, w := tr.CountLeaves(), 1; g != w {
		t.Errorf("leaves after prune: got %d, want %d", g, w)
	}
}

func TestPruneByNamesRejectsUnknownTaxon(t *testing.T) {
	env := newFakeEnv()
	env.trees.Seed("t1", "root")
	a := sysaction.NewPruneByNames([]string{"nope"}, true)
	if err := a.Execute(env); err == nil {
		t.Fatalf("execute with unknown taxon should fail")
	}
}

func TestMakeNeontologicalComposesDeleteAndCollapse(t *testing.T) {
	env := newFakeEnv()
	tr := env.trees.Seed("t1", "root")
	c1, c2, _ := tr.Speciate(tr.Root())
	_ = c2
	if err := tr.KillLeaf(c1); err != nil {
		t.Fatalf("kill leaf: %v", err)
	}

	if err := sysaction.NewMakeNeontological().Execute(env); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g, w := tr.CountLeaves(), 1; g != w {
		t.Errorf("leaves after make neontological: got %d, want %d", g, w)
	}
	if tr.IsSingleton(tr.Root()) {
		t.Errorf("root should not remain a singleton")
	}
}
