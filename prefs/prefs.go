// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prefs holds the process-wide configuration options
// consulted by the simulation engine and its surrounding tooling.
package prefs

// Verbosity is the amount of chatter
// a console UI should print.
// It is consulted only outside the core.
type Verbosity string

// Valid verbosity levels.
const (
	Quiet  Verbosity = "quiet"
	Normal Verbosity = "normal"
	Loud   Verbosity = "loud"
)

// Logging toggles whether a UI writes a session log.
// It is consulted only outside the core.
type Logging string

// Valid logging settings.
const (
	LogEnabled  Logging = "enabled"
	LogDisabled Logging = "disabled"
)

// Case is an output-formatting preference for taxon names.
type Case string

// Valid case settings.
const (
	CaseUpper Case = "upper"
	CaseLower Case = "lower"
	CaseMixed Case = "mixed"
)

// AnalysisOut selects where analysis results are routed.
type AnalysisOut string

// Valid analysis-routing settings.
const (
	AnalysisAllScreen AnalysisOut = "all_screen"
	AnalysisAllFile   AnalysisOut = "all_file"
	AnalysisNormal    AnalysisOut = "normal"
)

// CladeLabels selects the node-labelling convention
// used by the tree store (see tree.Labeller).
type CladeLabels string

// Valid labelling conventions.
const (
	LabelPhylo  CladeLabels = "phylo"
	LabelCAIC   CladeLabels = "caic"
	LabelSeries CladeLabels = "series"
)

// PreserveNodes selects which nodes are immune
// to extinction commits.
type PreserveNodes string

// Valid node-preservation settings.
const (
	PreserveNone         PreserveNodes = "none"
	PreserveRoot         PreserveNodes = "root"
	PreserveRootChildren PreserveNodes = "root_children"
)

// Prefs is the configuration value threaded through the engine.
// It bundles every process-wide option named in the specification
// so that no package needs to reach for a hidden global.
type Prefs struct {
	Verbosity Verbosity
	Logging   Logging
	Case      Case

	// PadNumericOutput requests fixed-width padding
	// when pretty-printing trait matrices.
	PadNumericOutput bool

	AnalysisOut   AnalysisOut
	CladeLabels   CladeLabels
	PreserveNodes PreserveNodes

	// WriteTranslation requests a Newick translation table
	// be written alongside tree structure.
	WriteTranslation bool

	// WriteTaxaBlock requests a Nexus taxa block be written.
	WriteTaxaBlock bool

	// TimeGrain is the minimum representable inter-event time.
	// It floors every rule wait and is the reciprocal
	// of the maximum rate a rate.Func may report.
	TimeGrain float64

	// RNGSeed seeds the sole source of randomness in the engine.
	RNGSeed uint64
}

// Default returns the engine's default preferences.
func Default() Prefs {
	return Prefs{
		Verbosity:        Normal,
		Logging:          LogDisabled,
		Case:             CaseMixed,
		PadNumericOutput: true,
		AnalysisOut:      AnalysisNormal,
		CladeLabels:      LabelPhylo,
		PreserveNodes:    PreserveRoot,
		WriteTranslation: true,
		WriteTaxaBlock:   true,
		TimeGrain:        1e-6,
		RNGSeed:          1,
	}
}
