// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package traitmat_test

import (
	"reflect"
	"testing"

	"github.com/agapow-sim/mesasim/traitmat"
)

func TestDiscSetTracksStates(t *testing.T) {
	m := traitmat.NewDisc()
	m.AddRow("sp1")
	m.AddRow("sp2")
	m.AddRow("sp3")
	if err := m.AddColumn("habitat"); err != nil {
		t.Fatalf("add column: %v", err)
	}

	m.Set("sp1", "habitat", "forest")
	m.Set("sp2", "habitat", "desert")
	m.Set("sp3", "habitat", "?")

	states := m.States("habitat")
	if states == nil {
		t.Fatalf("states for habitat should exist")
	}
	if g, w := states.States(), []string{"desert", "forest"}; !reflect.DeepEqual(g, w) {
		t.Errorf("observed states: got %v, want %v", g, w)
	}
}

func TestDiscRecompute(t *testing.T) {
	m := traitmat.NewDisc()
	m.AddRow("sp1")
	m.AddColumn("habitat")
	m.Set("sp1", "habitat", "forest")

	// bypass Set to desynchronize the state set, then resync.
	m.Matrix.Set("sp1", "habitat", "desert")
	if err := m.Recompute("habitat"); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if g, w := m.States("habitat").States(), []string{"desert"}; !reflect.DeepEqual(g, w) {
		t.Errorf("recomputed states: got %v, want %v", g, w)
	}
}
