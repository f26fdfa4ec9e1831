// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package traitmat_test

import (
	"errors"
	"testing"

	"github.com/agapow-sim/mesasim/traitmat"
)

func TestMatrixGetSet(t *testing.T) {
	m := traitmat.New[float64]()
	if err := m.AddRow("sp1"); err != nil {
		t.Fatalf("add row: %v", err)
	}
	if err := m.AddColumn("mass"); err != nil {
		t.Fatalf("add column: %v", err)
	}
	if err := m.Set("sp1", "mass", 4.2); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok := m.Get("sp1", "mass")
	if !ok || v != 4.2 {
		t.Errorf("get: got (%v, %v), want (4.2, true)", v, ok)
	}
}

func TestMatrixDuplicateRow(t *testing.T) {
	m := traitmat.New[float64]()
	if err := m.AddRow("sp1"); err != nil {
		t.Fatalf("add row: %v", err)
	}
	if err := m.AddRow("sp1"); !errors.Is(err, traitmat.ErrDuplicateRow) {
		t.Errorf("add duplicate row: got %v, want ErrDuplicateRow", err)
	}
}

func TestMatrixSetUnknown(t *testing.T) {
	m := traitmat.New[float64]()
	if err := m.AddRow("sp1"); err != nil {
		t.Fatalf("add row: %v", err)
	}
	if err := m.Set("sp1", "mass", 1); !errors.Is(err, traitmat.ErrNoSuchCol) {
		t.Errorf("set unknown column: got %v, want ErrNoSuchCol", err)
	}
	if err := m.Set("nope", "mass", 1); !errors.Is(err, traitmat.ErrNoSuchRow) {
		t.Errorf("set unknown row: got %v, want ErrNoSuchRow", err)
	}
}

func TestMatrixCloneRow(t *testing.T) {
	m := traitmat.New[float64]()
	m.AddRow("sp1")
	m.AddColumn("mass")
	m.Set("sp1", "mass", 9)

	if err := m.CloneRow("sp1", "sp2"); err != nil {
		t.Fatalf("clone row: %v", err)
	}
	v, ok := m.Get("sp2", "mass")
	if !ok || v != 9 {
		t.Errorf("cloned row: got (%v, %v), want (9, true)", v, ok)
	}
}

func TestMatrixDeleteRow(t *testing.T) {
	m := traitmat.New[float64]()
	m.AddRow("sp1")
	m.AddRow("sp2")
	m.AddColumn("mass")
	m.Set("sp1", "mass", 1)
	m.Set("sp2", "mass", 2)

	if err := m.DeleteRow("sp1"); err != nil {
		t.Fatalf("delete row: %v", err)
	}
	if m.HasRow("sp1") {
		t.Errorf("deleted row still present")
	}
	v, ok := m.Get("sp2", "mass")
	if !ok || v != 2 {
		t.Errorf("surviving row corrupted: got (%v, %v), want (2, true)", v, ok)
	}
}

type fakeShuffler struct{}

func (fakeShuffler) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, 0)
	}
}

func TestMatrixShuffleTrait(t *testing.T) {
	m := traitmat.New[float64]()
	m.AddRow("sp1")
	m.AddRow("sp2")
	m.AddRow("sp3")
	m.AddColumn("mass")
	m.Set("sp1", "mass", 1)
	m.Set("sp2", "mass", 2)
	m.Set("sp3", "mass", 3)

	if err := m.ShuffleTrait("mass", fakeShuffler{}); err != nil {
		t.Fatalf("shuffle trait: %v", err)
	}
	var sum float64
	for _, row := range m.Rows() {
		v, _ := m.Get(row, "mass")
		sum += v
	}
	if sum != 6 {
		t.Errorf("shuffle should preserve the multiset: got sum %v, want 6", sum)
	}
}
