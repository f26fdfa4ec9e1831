// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package engine

import (
	"fmt"
	"io"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/prefs"
	"github.com/agapow-sim/mesasim/report"
	"github.com/agapow-sim/mesasim/trait"
	"github.com/agapow-sim/mesasim/tree"
)

// Model is the façade a caller programs a run through: it owns the
// Context (the tree store, trait matrices, RNG, prefs, and sink an
// action needs) and exposes the small set of bulk operations that
// stand outside the action tree itself — seeding and selecting trees,
// shaping the trait matrices, and snapshotting the whole bundle —
// alongside a way to drive any action.Action or action.Queue against
// it.
type Model struct {
	ctx *Context
}

// NewModel returns a Model over a fresh, empty Context.
func NewModel(pr prefs.Prefs, sink report.Sink) *Model {
	return &Model{ctx: NewContext(pr, sink)}
}

// Context returns the underlying Context, for callers driving an
// action.Queue (whose RunOnce/RunN/RunAndRestore/RunTrees all take an
// action.Env) or constructing a RunEpoch action directly.
func (m *Model) Context() *Context { return m.ctx }

// SeedTree creates a one-node tree and appends it to the store,
// making it active.
func (m *Model) SeedTree(treeName, rootName string) *tree.Tree {
	return m.ctx.trees.Seed(treeName, rootName)
}

// SelectTree makes the tree at index i active.
func (m *Model) SelectTree(i int) error {
	if _, err := m.ctx.trees.At(i); err != nil {
		return err
	}
	m.ctx.trees.SetActive(i)
	return nil
}

// DuplicateActiveTree appends a deep copy of the active tree and
// returns its index, without changing which tree is active.
func (m *Model) DuplicateActiveTree() (int, error) {
	return m.ctx.trees.DuplicateActive()
}

// DeleteTree removes the tree at index i.
func (m *Model) DeleteTree(i int) error {
	return m.ctx.trees.Delete(i)
}

// AddContColumn adds a new continuous trait column.
func (m *Model) AddContColumn(name string) error {
	return m.ctx.cont.AddColumn(name)
}

// DeleteContColumn removes a continuous trait column.
func (m *Model) DeleteContColumn(name string) error {
	return m.ctx.cont.DeleteColumn(name)
}

// AddDiscColumn adds a new discrete trait column.
func (m *Model) AddDiscColumn(name string) error {
	return m.ctx.disc.AddColumn(name)
}

// DeleteDiscColumn removes a discrete trait column.
func (m *Model) DeleteDiscColumn(name string) error {
	return m.ctx.disc.DeleteColumn(name)
}

// ImportDiscreteColumn reads a taxon/trait TSV (the same shape the
// presence/absence importer of the surrounding toolchain produces)
// and writes it into a discrete trait column, creating the column and
// every taxon row it mentions that is not already present. A taxon
// observed with more than one state (e.g. a polymorphic or
// site-pooled character) gets its states joined with "/", since
// DiscMatrix stores one value per cell.
func (m *Model) ImportDiscreteColumn(r io.Reader, col string) error {
	data, err := trait.ReadTSV(r)
	if err != nil {
		return fmt.Errorf("import discrete column %q: %w", col, err)
	}
	if !m.ctx.disc.HasColumn(col) {
		if err := m.ctx.disc.AddColumn(col); err != nil {
			return err
		}
	}
	for _, taxon := range data.Taxa() {
		if !m.ctx.disc.HasRow(taxon) {
			if err := m.ctx.disc.AddRow(taxon); err != nil {
				return err
			}
		}
		obs := data.Obs(taxon)
		val := obs[0]
		for _, s := range obs[1:] {
			val += "/" + s
		}
		if err := m.ctx.disc.Set(taxon, col, val); err != nil {
			return err
		}
	}
	return nil
}

// SetContValue writes a single continuous trait cell, adding the row
// if the taxon is not yet present.
func (m *Model) SetContValue(taxon, col string, val float64) error {
	if !m.ctx.cont.HasRow(taxon) {
		if err := m.ctx.cont.AddRow(taxon); err != nil {
			return err
		}
	}
	return m.ctx.cont.Set(taxon, col, val)
}

// SetDiscValue writes a single discrete trait cell, adding the row if
// the taxon is not yet present.
func (m *Model) SetDiscValue(taxon, col, val string) error {
	if !m.ctx.disc.HasRow(taxon) {
		if err := m.ctx.disc.AddRow(taxon); err != nil {
			return err
		}
	}
	return m.ctx.disc.Set(taxon, col, val)
}

// Snapshot captures the tree store and both trait matrices.
func (m *Model) Snapshot() any { return m.ctx.Snapshot() }

// Restore rolls the tree store and both trait matrices back to a
// value returned by Snapshot.
func (m *Model) Restore(snap any) { m.ctx.Restore(snap) }

// Execute runs a single action against the model's context.
func (m *Model) Execute(a action.Action) error {
	return a.Execute(m.ctx)
}
