// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package rate implements the finite-rate functions that evolutionary
// rules draw on to compute waiting times: a flat rate, and a family
// of rates dependent on some per-node variable (age since origin, or
// a trait value).
package rate

import "math"

// constants used by the normal dependent rate; see Func docs below.
const (
	inflexionTrans = 1.177410023 // sqrt(-ln(1/4))
	rootTwoPi      = 2.506628275 // sqrt(2*pi)
)

// Subject is the evaluation context a Func is applied to: a node's
// age since origin, or one of its trait values, depending on the
// function's configured dependent variable.
type Subject struct {
	AgeSinceOrigin float64
	ContTrait      float64
	DiscTrait      string
}

// Func is a finite rate function. Given a subject it returns a
// non-negative rate, already clamped to [0, 1/timeGrain].
type Func interface {
	Rate(s Subject) float64
}

func clamp(r, timeGrain float64) float64 {
	if r <= 0 {
		return 0
	}
	max := 1 / timeGrain
	if r > max {
		return max
	}
	return r
}

// Constant is a flat, subject-independent rate.
type Constant struct {
	Value     float64
	TimeGrain float64
}

// NewConstant returns a flat rate function.
func NewConstant(value, timeGrain float64) Constant {
	return Constant{Value: value, TimeGrain: timeGrain}
}

// Rate implements Func.
func (c Constant) Rate(_ Subject) float64 {
	return clamp(c.Value, c.TimeGrain)
}

// dependent selects which field of a Subject feeds a dependent rate.
type dependent func(s Subject) float64

// AgeSinceOrigin selects the node's age since it arose.
func AgeSinceOrigin(s Subject) float64 { return s.AgeSinceOrigin }

// ContinuousTrait selects a continuous trait value.
func ContinuousTrait(s Subject) float64 { return s.ContTrait }

// Linear is rate = slope*x + intercept.
type Linear struct {
	Slope, Intercept float64
	Var              dependent
	TimeGrain        float64
}

// NewLinear returns a linear dependent rate function.
func NewLinear(slope, intercept float64, v dependent, timeGrain float64) Linear {
	return Linear{Slope: slope, Intercept: intercept, Var: v, TimeGrain: timeGrain}
}

// Rate implements Func.
func (l Linear) Rate(s Subject) float64 {
	x := l.Var(s)
	return clamp(l.Slope*x+l.Intercept, l.TimeGrain)
}

// TriParam is rate = a + c when x == 1, else a*x^b + c.
type TriParam struct {
	A, B, C   float64
	Var       dependent
	TimeGrain float64
}

// NewTriParam returns a tri-parameter dependent rate function.
func NewTriParam(a, b, c float64, v dependent, timeGrain float64) TriParam {
	return TriParam{A: a, B: b, C: c, Var: v, TimeGrain: timeGrain}
}

// Rate implements Func.
func (p TriParam) Rate(s Subject) float64 {
	x := p.Var(s)
	var r float64
	if x == 1.0 {
		r = p.A + p.C
	} else {
		r = p.A*math.Pow(x, p.B) + p.C
	}
	return clamp(r, p.TimeGrain)
}

// Log is rate = log_base(x), with x clamped to >= 1 before taking the
// logarithm (log of a number below 1 is undefined for this purpose).
type Log struct {
	Base      float64
	Var       dependent
	TimeGrain float64
}

// NewLog returns a log dependent rate function. Base must be > 1.
func NewLog(base float64, v dependent, timeGrain float64) Log {
	return Log{Base: base, Var: v, TimeGrain: timeGrain}
}

// Rate implements Func.
func (l Log) Rate(s Subject) float64 {
	x := l.Var(s)
	if x < 1.0 {
		x = 1.0
	}
	return clamp(math.Log(x)/math.Log(l.Base), l.TimeGrain)
}

// Normal is a bell-shaped dependent rate: height PeakRate at x=Mean,
// falling to half-height at x = Mean ± Inflexion, asymptoting to
// BgRate away from the peak.
type Normal struct {
	PeakRate, BgRate, Mean, Inflexion float64
	Var                               dependent
	TimeGrain                         float64

	stdDev  float64
	scaling float64
}

// NewNormal returns a normal dependent rate function.
func NewNormal(peak, bg, mean, inflexion float64, v dependent, timeGrain float64) Normal {
	stdDev := inflexion / inflexionTrans
	return Normal{
		PeakRate:  peak,
		BgRate:    bg,
		Mean:      mean,
		Inflexion: inflexion,
		Var:       v,
		TimeGrain: timeGrain,
		stdDev:    stdDev,
		scaling:   peak - bg,
	}
}

// Rate implements Func.
func (n Normal) Rate(s Subject) float64 {
	x := n.Var(s)
	r := math.Exp(-math.Pow((x-n.Mean)/n.stdDev, 2.0) / 2.0)
	r *= n.scaling
	r += n.BgRate
	return clamp(r, n.TimeGrain)
}

// DiscreteLookup maps a discrete trait state to a rate, falling back
// to Default when the state is unlisted.
type DiscreteLookup struct {
	Table     map[string]float64
	Default   float64
	TimeGrain float64
}

// NewDiscreteLookup returns a discrete-state lookup rate function.
func NewDiscreteLookup(table map[string]float64, def, timeGrain float64) DiscreteLookup {
	return DiscreteLookup{Table: table, Default: def, TimeGrain: timeGrain}
}

// Rate implements Func. The dependent variable is always the
// subject's discrete trait state.
func (d DiscreteLookup) Rate(s Subject) float64 {
	r, ok := d.Table[s.DiscTrait]
	if !ok {
		r = d.Default
	}
	return clamp(r, d.TimeGrain)
}
