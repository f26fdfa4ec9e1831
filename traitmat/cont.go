// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package traitmat

import "fmt"

// ContMatrix is the continuous-valued trait matrix. A subset of its
// columns may be tagged as "site abundance" columns, consumed by the
// diversity analyses of §4.9.
type ContMatrix struct {
	*Matrix[float64]
	siteCols map[string]bool
}

// NewCont returns an empty continuous trait matrix.
func NewCont() *ContMatrix {
	return &ContMatrix{
		Matrix:   New[float64](),
		siteCols: make(map[string]bool),
	}
}

// MarkSiteTrait tags col as a site-abundance column.
// The column must already exist.
func (m *ContMatrix) MarkSiteTrait(col string) error {
	if !m.HasColumn(col) {
		return fmt.Errorf("mark site trait %q: %w", col, ErrNoSuchCol)
	}
	m.siteCols[col] = true
	return nil
}

// UnmarkSiteTrait removes the site-abundance tag from col.
func (m *ContMatrix) UnmarkSiteTrait(col string) {
	delete(m.siteCols, col)
}

// IsSiteTrait reports whether col is tagged as a site-abundance column.
func (m *ContMatrix) IsSiteTrait(col string) bool {
	return m.siteCols[col]
}

// ListSiteTraits returns the tagged site-abundance columns, sorted.
func (m *ContMatrix) ListSiteTraits() []string {
	names := make([]string, 0, len(m.siteCols))
	for c := range m.siteCols {
		names = append(names, c)
	}
	return sortedCopy(names)
}

// DeleteColumn removes the named column and its site-abundance tag.
func (m *ContMatrix) DeleteColumn(name string) error {
	if err := m.Matrix.DeleteColumn(name); err != nil {
		return err
	}
	delete(m.siteCols, name)
	return nil
}

// Abundance returns the total abundance of a taxon,
// summed over every site-abundance column.
func (m *ContMatrix) Abundance(taxon string) float64 {
	var sum float64
	for _, c := range m.ListSiteTraits() {
		if v, ok := m.Get(taxon, c); ok {
			sum += v
		}
	}
	return sum
}

// Clone returns a deep copy of the matrix, used by snapshot/restore.
func (m *ContMatrix) Clone() *ContMatrix {
	nm := &ContMatrix{
		Matrix:   m.Matrix.Clone(),
		siteCols: make(map[string]bool, len(m.siteCols)),
	}
	for k, v := range m.siteCols {
		nm.siteCols[k] = v
	}
	return nm
}

// RazeSite sets every abundance at the given site column to zero.
func (m *ContMatrix) RazeSite(site string) error {
	if !m.HasColumn(site) {
		return fmt.Errorf("raze site %q: %w", site, ErrNoSuchCol)
	}
	for _, row := range m.Rows() {
		if err := m.Set(row, site, 0); err != nil {
			return err
		}
	}
	return nil
}
