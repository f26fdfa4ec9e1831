// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package action

import "fmt"

// Queue is the top-level list of actions a user programs before
// running a model: it owns a flat sequence of actions and offers the
// four ways to run them (once, once per tree, N times, or N times
// with the model restored between passes), on top of the usual
// inspect/adopt/delete bookkeeping. Its own container node is never
// addressed directly: Size/Describe/Depth/DeleteElement all operate
// on the queue's children, numbered from 0, hiding the container that
// holds them.
type Queue struct {
	contents Container
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Adopt appends a to the end of the queue.
func (q *Queue) Adopt(a Action) { q.contents.Adopt(a) }

// Size returns the number of actions stored, recursively, not
// counting the queue's own storage container.
func (q *Queue) Size() int {
	n := 0
	for _, ch := range q.contents.children {
		n += ch.DeepSize()
	}
	return n
}

// IsEmpty reports whether the queue holds no actions.
func (q *Queue) IsEmpty() bool { return q.Size() == 0 }

// Describe returns the description of the queued action at index,
// numbered from 0 over the queue's own contents.
func (q *Queue) Describe(index int) string {
	return q.contents.Describe(index + 1)
}

// Depth returns the nesting depth of the queued action at index,
// relative to the queue's visible top level (which is depth 0).
func (q *Queue) Depth(index int) int {
	return q.contents.Depth(index+1) - 1
}

// DeleteElement removes the queued action at index.
func (q *Queue) DeleteElement(index int) error {
	return q.contents.DeleteElement(index + 1)
}

// Clear drops every queued action.
func (q *Queue) Clear() { q.contents.Clear() }

// ContainsAnalyses reports whether any queued action is an Analysis.
func (q *Queue) ContainsAnalyses() bool { return ContainsAnalyses(&q.contents) }

// Summary renders the one-line executive summary of the queue, in
// the register of the original tool's text reports.
func (q *Queue) Summary() string {
	switch n := q.Size(); n {
	case 0:
		return "There are no actions programmed in the queue."
	case 1:
		return "There is one action programmed in the queue."
	default:
		return fmt.Sprintf("There are %d actions programmed in the queue.", n)
	}
}

// RunOnce executes the queue's contents once, in order.
func (q *Queue) RunOnce(env Env) error {
	return scoped(env, "run once", func() error { return q.contents.executeAll(env) })
}

// RunTrees executes the queue's contents once for every tree present
// in env's store at the time of the call.
func (q *Queue) RunTrees(env Env) error {
	tm := TreeMacro{Container: &Container{children: q.contents.children}}
	return tm.Execute(env)
}

// RunN executes the queue's contents loops times, in order.
func (q *Queue) RunN(env Env, loops int) error {
	rn := RunN{Container: &Container{children: q.contents.children}, Loops: loops}
	return rn.Execute(env)
}

// RunAndRestore executes the queue's contents loops times, restoring
// env's model to its pre-run state after every pass.
func (q *Queue) RunAndRestore(env Env, loops int) error {
	rr := RunAndRestore{Container: &Container{children: q.contents.children}, Loops: loops}
	return rr.Execute(env)
}
