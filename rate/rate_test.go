// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package rate_test

import (
	"math"
	"testing"

	"github.com/agapow-sim/mesasim/rate"
)

const grain = 1e-6

func TestConstant(t *testing.T) {
	c := rate.NewConstant(0.5, grain)
	if g, w := c.Rate(rate.Subject{}), 0.5; g != w {
		t.Errorf("constant rate: got %v, want %v", g, w)
	}
}

func TestConstantClampsNegative(t *testing.T) {
	c := rate.NewConstant(-1, grain)
	if g := c.Rate(rate.Subject{}); g != 0 {
		t.Errorf("negative constant rate should clamp to 0: got %v", g)
	}
}

func TestConstantClampsCeiling(t *testing.T) {
	c := rate.NewConstant(1e12, grain)
	if g, w := c.Rate(rate.Subject{}), 1/grain; g != w {
		t.Errorf("rate ceiling: got %v, want %v", g, w)
	}
}

func TestLinear(t *testing.T) {
	l := rate.NewLinear(2, 1, rate.AgeSinceOrigin, grain)
	s := rate.Subject{AgeSinceOrigin: 3}
	if g, w := l.Rate(s), 7.0; g != w {
		t.Errorf("linear rate: got %v, want %v", g, w)
	}
}

func TestTriParamUnitInput(t *testing.T) {
	p := rate.NewTriParam(2, 5, 1, rate.AgeSinceOrigin, grain)
	s := rate.Subject{AgeSinceOrigin: 1}
	if g, w := p.Rate(s), 3.0; g != w {
		t.Errorf("tri-param at x=1: got %v, want %v", g, w)
	}
}

func TestTriParamGeneral(t *testing.T) {
	p := rate.NewTriParam(2, 2, 1, rate.AgeSinceOrigin, grain)
	s := rate.Subject{AgeSinceOrigin: 3}
	if g, w := p.Rate(s), 19.0; g != w {
		t.Errorf("tri-param: got %v, want %v", g, w)
	}
}

func TestLogClampsBelowOne(t *testing.T) {
	l := rate.NewLog(2, rate.AgeSinceOrigin, grain)
	s := rate.Subject{AgeSinceOrigin: 0.1}
	if g, w := l.Rate(s), 0.0; g != w {
		t.Errorf("log rate below 1 should clamp input to 1: got %v, want %v", g, w)
	}
}

func TestLogBase2(t *testing.T) {
	l := rate.NewLog(2, rate.AgeSinceOrigin, grain)
	s := rate.Subject{AgeSinceOrigin: 8}
	if g, w := l.Rate(s), 3.0; math.Abs(g-w) > 1e-9 {
		t.Errorf("log2(8): got %v, want %v", g, w)
	}
}

func TestNormalPeakAtMean(t *testing.T) {
	n := rate.NewNormal(10, 1, 5, 2, rate.AgeSinceOrigin, grain)
	s := rate.Subject{AgeSinceOrigin: 5}
	if g, w := n.Rate(s), 10.0; math.Abs(g-w) > 1e-9 {
		t.Errorf("normal rate at peak: got %v, want %v", g, w)
	}
}

func TestNormalHalfHeightAtInflexion(t *testing.T) {
	n := rate.NewNormal(10, 2, 5, 2, rate.AgeSinceOrigin, grain)
	s := rate.Subject{AgeSinceOrigin: 7}
	want := 2 + (10-2)/2.0
	if g := n.Rate(s); math.Abs(g-want) > 1e-6 {
		t.Errorf("normal rate at inflexion: got %v, want %v", g, want)
	}
}

func TestDiscreteLookup(t *testing.T) {
	d := rate.NewDiscreteLookup(map[string]float64{"a": 0.1, "b": 0.9}, 0.5, grain)
	if g, w := d.Rate(rate.Subject{DiscTrait: "a"}), 0.1; g != w {
		t.Errorf("lookup a: got %v, want %v", g, w)
	}
	if g, w := d.Rate(rate.Subject{DiscTrait: "unseen"}), 0.5; g != w {
		t.Errorf("lookup default: got %v, want %v", g, w)
	}
}
