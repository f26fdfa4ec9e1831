// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package engine_test

import (
	"testing"

	"github.com/agapow-sim/mesasim/engine"
	"github.com/agapow-sim/mesasim/epoch"
	"github.com/agapow-sim/mesasim/report"
	"github.com/agapow-sim/mesasim/rule"
	"github.com/agapow-sim/mesasim/tree"
)

func TestRunEpochGrowsTreeToPopLimit(t *testing.T) {
	m := newModel()
	m.SeedTree("t", "root")

	rules := []rule.Rule{rule.MarkovSp{Rate: 100}}
	e, err := epoch.New(epoch.PopLimit{Limit: 5, Count: epoch.CountLivingLeaves}, 1e-6, false, rules)
	if err != nil {
		t.Fatalf("new epoch: %v", err)
	}

	if err := m.Execute(engine.NewRunEpoch(e)); err != nil {
		t.Fatalf("execute run epoch: %v", err)
	}

	n := m.Context().Trees().Active().CountLivingLeaves()
	if n < 5 {
		t.Fatalf("living leaves = %d, want >= 5", n)
	}
}

// bareEnv satisfies only action.Env, used to confirm RunEpoch rejects
// an env that cannot supply trait data, prefs, or an RNG.
type bareEnv struct{ trees *tree.Store }

func (b bareEnv) Trees() *tree.Store { return b.trees }
func (bareEnv) Sink() report.Sink    { return report.Discard }
func (bareEnv) Snapshot() any        { return nil }
func (bareEnv) Restore(any)          {}

func TestRunEpochRejectsWrongEnv(t *testing.T) {
	rules := []rule.Rule{rule.MarkovSp{Rate: 1}}
	e, err := epoch.New(epoch.PopLimit{Limit: 2, Count: epoch.CountLivingLeaves}, 1e-6, false, rules)
	if err != nil {
		t.Fatalf("new epoch: %v", err)
	}
	a := engine.NewRunEpoch(e)
	env := bareEnv{trees: tree.NewStore()}
	if err := a.Execute(env); err == nil {
		t.Fatalf("execute with bare env: want error, got nil")
	}
}
