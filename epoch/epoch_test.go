// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package epoch_test

import (
	"errors"
	"testing"

	"github.com/agapow-sim/mesasim/epoch"
	"github.com/agapow-sim/mesasim/rule"
	"github.com/agapow-sim/mesasim/tree"
)

// seqRoller deterministically replays a fixed Float64 sequence and
// never actually permutes on Shuffle, keeping scheduling outcomes
// predictable in tests.
type seqRoller struct {
	seq []float64
	i   int
}

func (s *seqRoller) Float64() float64 {
	v := s.seq[s.i%len(s.seq)]
	s.i++
	return v
}

func (s *seqRoller) IntN(n int) int { return 0 }

func (s *seqRoller) Shuffle(n int, swap func(i, j int)) {}

func TestNewRejectsEmptyRuleSet(t *testing.T) {
	if _, err := epoch.New(epoch.TimeLimit{Limit: 1}, 1e-6, false, nil); !errors.Is(err, epoch.ErrNoRules) {
		t.Errorf("new with no rules: got %v, want ErrNoRules", err)
	}
}

func TestNewRejectsOnlyConditionalRules(t *testing.T) {
	rules := []rule.Rule{rule.Gradual{Evolve: func(rule.Roller, int, float64) {}}}
	if _, err := epoch.New(epoch.TimeLimit{Limit: 1}, 1e-6, false, rules); !errors.Is(err, epoch.ErrNoNonConditionalRules) {
		t.Errorf("new with only conditionals: got %v, want ErrNoNonConditionalRules", err)
	}
}

func TestPopLimitTerminatesOnLivingLeafCount(t *testing.T) {
	tr := tree.NewSeed("t1", "root")
	tr.Speciate(tr.Root())

	term := epoch.PopLimit{Limit: 2, Count: epoch.CountLivingLeaves}
	if !term.IsAtEnd(tr) {
		t.Errorf("pop limit of 2 should be reached with 2 living leaves")
	}
}

func TestTimeLimitTerminatesOnTreeAge(t *testing.T) {
	// Tree age excludes the root's own edge, so split the seed before
	// aging its leaves.
	tr := tree.NewSeed("t1", "root")
	tr.Speciate(tr.Root())
	tr.AgeAllLeaves(5)

	term := epoch.TimeLimit{Limit: 5}
	if !term.IsAtEnd(tr) {
		t.Errorf("time limit of 5 should be reached at tree age 5")
	}
}

func TestExecuteGrowsTreeToPopLimit(t *testing.T) {
	tr := tree.NewSeed("t1", "root")

	rules := []rule.Rule{rule.MarkovSp{Rate: 1}}
	e, err := epoch.New(epoch.PopLimit{Limit: 4, Count: epoch.CountLivingLeaves}, 1e-6, false, rules)
	if err != nil {
		t.Fatalf("new epoch: %v", err)
	}

	r := &seqRoller{seq: []float64{0.3, 0.4, 0.5, 0.6, 0.2, 0.9}}
	if err := e.Execute(r, tr, nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if g, w := tr.CountLivingLeaves(), 4; g != w {
		t.Errorf("living leaves after execute: got %d, want %d", g, w)
	}
}

func TestExecuteFiresTerminalConditionalOnSpeciation(t *testing.T) {
	tr := tree.NewSeed("t1", "root")

	var fired int
	term := rule.Terminal{
		Evolve:       func(rule.Roller, int, float64) { fired++ },
		TimeToParent: func(node int) float64 { return tr.EdgeWeight(node) },
	}
	rules := []rule.Rule{rule.MarkovSp{Rate: 1}, term}
	e, err := epoch.New(epoch.PopLimit{Limit: 2, Count: epoch.CountLivingLeaves}, 1e-6, false, rules)
	if err != nil {
		t.Fatalf("new epoch: %v", err)
	}

	r := &seqRoller{seq: []float64{0.3, 0.4, 0.5}}
	if err := e.Execute(r, tr, nil); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if fired == 0 {
		t.Errorf("terminal conditional should have fired at least once")
	}
}
