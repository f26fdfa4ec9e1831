// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package action

import "fmt"

// RunOnce executes its children once, in order.
type RunOnce struct {
	*Container
}

// NewRunOnce returns an empty RunOnce container.
func NewRunOnce(desc string) *RunOnce {
	return &RunOnce{Container: &Container{Desc: desc}}
}

// Execute implements Action.
func (r *RunOnce) Execute(env Env) error {
	return scoped(env, "run once", func() error { return r.executeAll(env) })
}

// RunN executes its children Loops times, in order, pushing a
// "run i of k" prefix for each pass.
type RunN struct {
	*Container
	Loops int
}

// NewRunN returns an empty RunN container.
func NewRunN(desc string, loops int) *RunN {
	return &RunN{Container: &Container{Desc: desc}, Loops: loops}
}

// Execute implements Action.
func (r *RunN) Execute(env Env) error {
	for i := 1; i <= r.Loops; i++ {
		prefix := fmt.Sprintf("run %d of %d", i, r.Loops)
		if err := scoped(env, prefix, func() error { return r.executeAll(env) }); err != nil {
			return err
		}
	}
	return nil
}

// RunAndRestore snapshots the model once before its first pass, then
// executes its children Loops times, restoring that same snapshot
// after every pass — so each pass, not just the first, starts from
// the original state.
type RunAndRestore struct {
	*Container
	Loops int
}

// NewRunAndRestore returns an empty RunAndRestore container.
func NewRunAndRestore(desc string, loops int) *RunAndRestore {
	return &RunAndRestore{Container: &Container{Desc: desc}, Loops: loops}
}

// Execute implements Action.
func (r *RunAndRestore) Execute(env Env) error {
	saved := env.Snapshot()
	for i := 1; i <= r.Loops; i++ {
		prefix := fmt.Sprintf("run & restore %d of %d", i, r.Loops)
		err := scoped(env, prefix, func() error { return r.executeAll(env) })
		env.Restore(saved)
		if err != nil {
			return err
		}
	}
	return nil
}

// TreeMacro executes its children once per tree that exists in env's
// store at the start of the run, making each tree active in turn and
// restoring the original active index once done. It is robust to
// actions that duplicate trees mid-loop: only the trees present at
// the start are visited, since no action can delete a tree out from
// under it.
type TreeMacro struct {
	*Container
}

// NewTreeMacro returns an empty TreeMacro container.
func NewTreeMacro(desc string) *TreeMacro {
	return &TreeMacro{Container: &Container{Desc: desc}}
}

// Execute implements Action.
func (tm *TreeMacro) Execute(env Env) error {
	trees := env.Trees()
	n := trees.Len()
	old := trees.ActiveIndex()
	defer trees.SetActive(old)

	for i := 0; i < n; i++ {
		trees.SetActive(i)
		prefix := fmt.Sprintf("run over tree %d of %d", i+1, n)
		if err := scoped(env, prefix, func() error { return tm.executeAll(env) }); err != nil {
			return err
		}
	}
	return nil
}
