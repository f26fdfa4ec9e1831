// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sysaction

import (
	"fmt"
	"strings"

	"github.com/agapow-sim/mesasim/action"
)

// RazeSite sets every abundance at the given site column(s) to zero.
type RazeSite struct {
	action.Leaf
	Sites []string
}

// NewRazeSite returns a RazeSite action over one or more site columns.
func NewRazeSite(sites ...string) RazeSite {
	return RazeSite{
		Leaf:  action.Leaf{Desc: fmt.Sprintf("raze site(s) %s", strings.Join(sites, ", "))},
		Sites: sites,
	}
}

// Execute implements action.Action.
func (r RazeSite) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	for _, site := range r.Sites {
		if err := se.ContData().RazeSite(site); err != nil {
			return err
		}
	}
	return nil
}
