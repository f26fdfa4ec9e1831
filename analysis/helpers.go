// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package analysis

import (
	"strconv"

	"github.com/agapow-sim/mesasim/report"
	"github.com/agapow-sim/mesasim/tree"
)

// notApplicableKind is the report.Kind used for N/A short-circuits;
// they are reported as comments rather than analysis results, since
// they carry no measurement.
func notApplicableKind() report.Kind {
	return report.Comment
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// paleoClass classifies a tree as paleontological (contains at least
// one dead leaf), neontological (every leaf living), or other (no
// leaves at all).
func paleoClass(t *tree.Tree) string {
	leaves := t.CountLeaves()
	if leaves == 0 {
		return "other"
	}
	if t.CountLivingLeaves() == leaves {
		return "neontological"
	}
	return "paleontological"
}
