// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package engine

import (
	"errors"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/sysaction"
)

// ErrNoActiveTree is returned by an engine action that needs an
// active tree to run against and finds the store empty.
var ErrNoActiveTree = errors.New("engine: no active tree")

// Env is the richest env an engine-native action needs: everything
// sysaction.Env offers (which already extends action.Env with trait
// data, prefs, and an RNG). *Context satisfies it directly.
type Env = sysaction.Env

// envOf narrows env to Env, or reports that the caller supplied some
// action.Env implementation other than a *Context (or another type
// exposing the same surface).
func envOf(env action.Env) (Env, error) {
	e, ok := env.(Env)
	if !ok {
		return nil, sysaction.ErrWrongEnv
	}
	return e, nil
}
