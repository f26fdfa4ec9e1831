// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package engine_test

import (
	"strings"
	"testing"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/analysis"
	"github.com/agapow-sim/mesasim/engine"
	"github.com/agapow-sim/mesasim/prefs"
	"github.com/agapow-sim/mesasim/sysaction"
)

func newModel() *engine.Model {
	return engine.NewModel(prefs.Default(), nil)
}

// TestContextSatisfiesEveryEnv confirms a single *Context can run
// actions from every env-typed package through the same variable,
// which is the entire point of the RNG-alias unification: if any of
// these assignments failed to compile, the Context would not be a
// valid action.Env for one of the packages that draws randomness.
func TestContextSatisfiesEveryEnv(t *testing.T) {
	m := newModel()
	var _ action.Env = m.Context()
	var _ sysaction.Env = m.Context()
	var _ analysis.Env = m.Context()
}

func TestSeedAndSelectTree(t *testing.T) {
	m := newModel()
	m.SeedTree("tree one", "root")
	m.SeedTree("tree two", "root")

	if n := m.Context().Trees().Len(); n != 2 {
		t.Fatalf("tree count = %d, want 2", n)
	}
	if err := m.SelectTree(0); err != nil {
		t.Fatalf("select tree 0: %v", err)
	}
	if got := m.Context().Trees().Active().Name(); got != "tree one" {
		t.Fatalf("active tree = %q, want %q", got, "tree one")
	}
	if err := m.SelectTree(5); err == nil {
		t.Fatalf("select tree 5: want error, got nil")
	}
}

func TestDuplicateAndDeleteTree(t *testing.T) {
	m := newModel()
	m.SeedTree("t", "root")

	idx, err := m.DuplicateActiveTree()
	if err != nil {
		t.Fatalf("duplicate active tree: %v", err)
	}
	if idx != 1 {
		t.Fatalf("duplicate index = %d, want 1", idx)
	}
	if n := m.Context().Trees().Len(); n != 2 {
		t.Fatalf("tree count = %d, want 2", n)
	}
	if err := m.DeleteTree(1); err != nil {
		t.Fatalf("delete tree 1: %v", err)
	}
	if n := m.Context().Trees().Len(); n != 1 {
		t.Fatalf("tree count after delete = %d, want 1", n)
	}
}

func TestAddAndDeleteTraitColumns(t *testing.T) {
	m := newModel()
	if err := m.AddContColumn("mass"); err != nil {
		t.Fatalf("add cont column: %v", err)
	}
	if err := m.AddDiscColumn("habitat"); err != nil {
		t.Fatalf("add disc column: %v", err)
	}
	if err := m.SetContValue("sp1", "mass", 12.5); err != nil {
		t.Fatalf("set cont value: %v", err)
	}
	if err := m.SetDiscValue("sp1", "habitat", "forest"); err != nil {
		t.Fatalf("set disc value: %v", err)
	}

	if err := m.DeleteContColumn("mass"); err != nil {
		t.Fatalf("delete cont column: %v", err)
	}
	if err := m.DeleteDiscColumn("habitat"); err != nil {
		t.Fatalf("delete disc column: %v", err)
	}
	if len(m.Context().ContData().Columns()) != 0 {
		t.Fatalf("cont columns not empty after delete")
	}
	if len(m.Context().DiscData().Columns()) != 0 {
		t.Fatalf("disc columns not empty after delete")
	}
}

func TestImportDiscreteColumn(t *testing.T) {
	m := newModel()
	tsv := "taxon\ttrait\nAcer campbellii\ttemperate\nAcer campbellii\ttropical\nAcer saccharinum\ttemperate\n"

	if err := m.ImportDiscreteColumn(strings.NewReader(tsv), "climate"); err != nil {
		t.Fatalf("import discrete column: %v", err)
	}

	disc := m.Context().DiscData()
	if !disc.HasColumn("climate") {
		t.Fatalf("column climate not created")
	}
	got, ok := disc.Get("Acer campbellii", "climate")
	if !ok {
		t.Fatalf("no value for Acer campbellii")
	}
	if got != "temperate/tropical" {
		t.Fatalf("polymorphic value = %q, want %q", got, "temperate/tropical")
	}
	got2, ok := disc.Get("Acer saccharinum", "climate")
	if !ok || got2 != "temperate" {
		t.Fatalf("value for Acer saccharinum = %q, %v", got2, ok)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := newModel()
	m.SeedTree("t", "root")
	_ = m.AddContColumn("mass")
	_ = m.SetContValue("root", "mass", 1.0)

	snap := m.Snapshot()

	_, _, _ = m.Context().Trees().Active().Speciate(m.Context().Trees().Active().Root())
	_ = m.SetContValue("root", "mass", 99.0)

	m.Restore(snap)

	if n := m.Context().Trees().Active().CountNodes(); n != 1 {
		t.Fatalf("node count after restore = %d, want 1", n)
	}
	v, ok := m.Context().ContData().Get("root", "mass")
	if !ok || v != 1.0 {
		t.Fatalf("mass after restore = %v, %v, want 1.0, true", v, ok)
	}
}

func TestExecuteRunsAction(t *testing.T) {
	m := newModel()
	m.SeedTree("t", "root")

	if err := m.Execute(sysaction.NewDuplicateTree()); err != nil {
		t.Fatalf("execute duplicate tree: %v", err)
	}
	if n := m.Context().Trees().Len(); n != 2 {
		t.Fatalf("tree count = %d, want 2", n)
	}
}
