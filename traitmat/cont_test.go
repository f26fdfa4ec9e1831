// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package traitmat_test

import (
	"errors"
	"testing"

	"github.com/agapow-sim/mesasim/traitmat"
)

func TestContAbundance(t *testing.T) {
	m := traitmat.NewCont()
	m.AddRow("sp1")
	m.AddColumn("siteA")
	m.AddColumn("siteB")
	m.AddColumn("mass")
	m.Set("sp1", "siteA", 3)
	m.Set("sp1", "siteB", 4)
	m.Set("sp1", "mass", 100)

	if err := m.MarkSiteTrait("siteA"); err != nil {
		t.Fatalf("mark site trait: %v", err)
	}
	if err := m.MarkSiteTrait("siteB"); err != nil {
		t.Fatalf("mark site trait: %v", err)
	}

	if g, w := m.Abundance("sp1"), 7.0; g != w {
		t.Errorf("abundance: got %v, want %v", g, w)
	}
	if g, w := m.ListSiteTraits(), []string{"siteA", "siteB"}; len(g) != len(w) {
		t.Errorf("site traits: got %v, want %v", g, w)
	}
}

func TestContMarkUnknownColumn(t *testing.T) {
	m := traitmat.NewCont()
	if err := m.MarkSiteTrait("nope"); !errors.Is(err, traitmat.ErrNoSuchCol) {
		t.Errorf("mark unknown column: got %v, want ErrNoSuchCol", err)
	}
}

func TestContRazeSite(t *testing.T) {
	m := traitmat.NewCont()
	m.AddRow("sp1")
	m.AddRow("sp2")
	m.AddColumn("siteA")
	m.Set("sp1", "siteA", 5)
	m.Set("sp2", "siteA", 6)
	m.MarkSiteTrait("siteA")

	if err := m.RazeSite("siteA"); err != nil {
		t.Fatalf("raze site: %v", err)
	}
	if g, w := m.Abundance("sp1"), 0.0; g != w {
		t.Errorf("razed abundance sp1: got %v, want %v", g, w)
	}
	if g, w := m.Abundance("sp2"), 0.0; g != w {
		t.Errorf("razed abundance sp2: got %v, want %v", g, w)
	}
}

func TestContUnmarkSiteTrait(t *testing.T) {
	m := traitmat.NewCont()
	m.AddRow("sp1")
	m.AddColumn("siteA")
	m.MarkSiteTrait("siteA")
	m.UnmarkSiteTrait("siteA")

	if m.IsSiteTrait("siteA") {
		t.Errorf("unmarked column still reported as site trait")
	}
}
