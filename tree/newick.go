// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Translator renames a leaf's taxon name to an alternate label
// (e.g. a short numeric code) when writing Newick structure.
// A nil Translator leaves names unchanged.
type Translator interface {
	Label(taxon string) string
}

// TranslationTable is a map-backed Translator, built once per tree
// and optionally written alongside the structure by a save action.
type TranslationTable map[string]string

// Label implements Translator.
func (tt TranslationTable) Label(taxon string) string {
	if l, ok := tt[taxon]; ok {
		return l
	}
	return taxon
}

// NewTranslationTable builds a translation table assigning every leaf
// of the tree a sequential numeric code, in ascending node-ID order.
func (t *Tree) NewTranslationTable() TranslationTable {
	tt := make(TranslationTable)
	for i, id := range t.Leaves() {
		n := t.nodes[id]
		if n.Name != "" {
			tt[n.Name] = strconv.Itoa(i + 1)
		}
	}
	return tt
}

// WriteNewick writes the tree's structure (topology and branch
// lengths) in Newick format, terminated by a semicolon and newline.
// If tr is non-nil, leaf names are rewritten through it.
func (t *Tree) WriteNewick(w io.Writer, tr Translator) error {
	var b strings.Builder
	t.writeNewickNode(&b, t.root, tr)
	b.WriteString(";\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (t *Tree) writeNewickNode(b *strings.Builder, id int, tr Translator) {
	n := t.nodes[id]
	if len(n.Children) > 0 {
		children := append([]int(nil), n.Children...)
		slices.Sort(children)
		b.WriteByte('(')
		for i, c := range children {
			if i > 0 {
				b.WriteByte(',')
			}
			t.writeNewickNode(b, c, tr)
		}
		b.WriteByte(')')
	}

	name := n.Name
	if tr != nil && name != "" {
		name = tr.Label(name)
	}
	b.WriteString(name)

	if id != t.root {
		fmt.Fprintf(b, ":%g", n.EdgeWeight)
	}
}
