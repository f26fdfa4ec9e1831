// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sysaction

import (
	"fmt"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/prefs"
)

// SetLabels changes the clade-labelling convention consulted by
// tree.Tree.Label.
type SetLabels struct {
	action.Leaf
	Convention prefs.CladeLabels
}

// NewSetLabels returns a SetLabels action.
func NewSetLabels(conv prefs.CladeLabels) SetLabels {
	return SetLabels{
		Leaf:       action.Leaf{Desc: fmt.Sprintf("set clade label format to %s", conv)},
		Convention: conv,
	}
}

// Execute implements action.Action.
func (s SetLabels) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	se.Prefs().CladeLabels = s.Convention
	return nil
}

// PreserveTaxa changes which nodes are immune to extinction commits.
type PreserveTaxa struct {
	action.Leaf
	Setting prefs.PreserveNodes
}

// NewPreserveTaxa returns a PreserveTaxa action.
func NewPreserveTaxa(setting prefs.PreserveNodes) PreserveTaxa {
	return PreserveTaxa{
		Leaf:    action.Leaf{Desc: fmt.Sprintf("set taxa preservation to %s", setting)},
		Setting: setting,
	}
}

// Execute implements action.Action.
func (p PreserveTaxa) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	se.Prefs().PreserveNodes = p.Setting
	return nil
}
