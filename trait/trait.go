// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package trait reads and holds the discrete-state taxon/trait
// observations an import file supplies, ahead of them being folded
// into a traitmat.DiscMatrix column by the engine package: a taxon
// may carry more than one observed state (a polymorphic or
// site-pooled character), so this is a set of states per taxon rather
// than the one-value-per-cell shape DiscMatrix itself stores.
package trait

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Data is the set of observed states per taxon read from an import
// file, before collapsing into a single DiscMatrix cell per taxon.
type Data struct {
	taxon map[string]map[string]bool
}

// New creates a new empty data set.
func New() *Data {
	return &Data{
		taxon: make(map[string]map[string]bool),
	}
}

// Add records state as observed for taxon.
func (d *Data) Add(taxon, state string) {
	taxon = canon(taxon)
	if taxon == "" {
		return
	}
	state = strings.Join(strings.Fields(strings.ToLower(state)), " ")
	if state == "" {
		return
	}

	obs, ok := d.taxon[taxon]
	if !ok {
		obs = make(map[string]bool)
		d.taxon[taxon] = obs
	}
	obs[state] = true
}

// HasTrait returns true if state is among the observed states of any
// taxon in the data set.
func (d *Data) HasTrait(state string) bool {
	state = strings.Join(strings.Fields(strings.ToLower(state)), " ")
	for _, obs := range d.taxon {
		if obs[state] {
			return true
		}
	}
	return false
}

// Obs returns the observed states for a taxon, sorted.
func (d *Data) Obs(taxon string) []string {
	taxon = canon(taxon)
	if taxon == "" {
		return nil
	}
	tx, ok := d.taxon[taxon]
	if !ok {
		return nil
	}
	obs := make([]string, 0, len(tx))
	for s := range tx {
		obs = append(obs, s)
	}
	slices.Sort(obs)
	return obs
}

// States returns every state observed anywhere in the data set,
// sorted.
func (d *Data) States() []string {
	st := make(map[string]bool)
	for _, obs := range d.taxon {
		for s := range obs {
			st[s] = true
		}
	}

	states := make([]string, 0, len(st))
	for s := range st {
		states = append(states, s)
	}
	slices.Sort(states)
	return states
}

// Taxa returns the taxa with at least one observed state, sorted.
func (d *Data) Taxa() []string {
	taxa := make([]string, 0, len(d.taxon))
	for tx := range d.taxon {
		taxa = append(taxa, tx)
	}
	slices.Sort(taxa)
	return taxa
}

// canon returns a taxon name in its canonical form: single-spaced and
// capitalised, so "acer  campbellii" and "Acer Campbellii" address
// the same row.
func canon(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	name = strings.ToLower(name)
	r, n := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[n:]
}
