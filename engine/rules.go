// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package engine

import (
	"github.com/agapow-sim/mesasim/prefs"
	"github.com/agapow-sim/mesasim/rule"
)

// GuardRules wraps every global and local rule in rs with the
// protected-node guard appropriate to pref, leaving conditional rules
// untouched. Callers should pass the result, not rs itself, to
// epoch.New whenever pref is anything other than prefs.PreserveNone.
func GuardRules(rs []rule.Rule, pref prefs.PreserveNodes) []rule.Rule {
	if pref == prefs.PreserveNone {
		out := make([]rule.Rule, len(rs))
		copy(out, rs)
		return out
	}
	out := make([]rule.Rule, len(rs))
	for i, r := range rs {
		switch r.Kind() {
		case rule.KindGlobal:
			out[i] = guardGlobal{Global: r.(rule.Global), pref: pref}
		case rule.KindLocal:
			out[i] = guardLocal{Local: r.(rule.Local), pref: pref}
		default:
			out[i] = r
		}
	}
	return out
}
