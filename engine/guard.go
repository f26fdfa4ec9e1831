// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package engine

import (
	"github.com/agapow-sim/mesasim/prefs"
	"github.com/agapow-sim/mesasim/rule"
	"github.com/agapow-sim/mesasim/tree"
)

// protectedNodes returns the set of node IDs pref shields from a kill
// rule's commit. PreserveRootChildren implies PreserveRoot: a killed
// root would orphan its children's ancestry, so protecting the
// children without the root would not be sufficient.
func protectedNodes(t *tree.Tree, pref prefs.PreserveNodes) map[int]bool {
	switch pref {
	case prefs.PreserveRoot:
		return map[int]bool{t.Root(): true}
	case prefs.PreserveRootChildren:
		protected := map[int]bool{t.Root(): true}
		if root := t.Node(t.Root()); root != nil {
			for _, c := range root.Children {
				protected[c] = true
			}
		}
		return protected
	default:
		return nil
	}
}

// guardGlobal wraps a global rule so that any subject its Commit
// kills, but which pref marks protected, is revived before the
// subject list is reported onward to conditionals. Rules that never
// kill (Null, EndOfEpoch, speciation rules that happen to be global)
// pass through unchanged since none of their subjects end up dead.
type guardGlobal struct {
	rule.Global
	pref prefs.PreserveNodes
}

// Commit implements rule.Global.
func (g guardGlobal) Commit(r rule.Roller, t *tree.Tree) []int {
	subjects := g.Global.Commit(r, t)
	protected := protectedNodes(t, g.pref)
	if len(protected) == 0 {
		return subjects
	}
	for _, id := range subjects {
		if protected[id] && !t.IsAlive(id) {
			_ = t.Revive(id)
		}
	}
	return subjects
}

// guardLocal wraps a local rule so that, when its one candidate leaf
// is protected, Commit is skipped entirely and reports no subjects —
// the rule is treated as though it simply did not fire this tick,
// rather than firing and being undone.
type guardLocal struct {
	rule.Local
	pref prefs.PreserveNodes
}

// Commit implements rule.Local.
func (g guardLocal) Commit(t *tree.Tree, leaf int) []int {
	if protectedNodes(t, g.pref)[leaf] {
		return nil
	}
	return g.Local.Commit(t, leaf)
}
