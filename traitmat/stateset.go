// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package traitmat

import "slices"

// MissingTokens are the discrete-state tokens excluded from the
// observed state set: unknown ("?") and inapplicable ("-").
var MissingTokens = map[string]bool{"?": true, "-": true}

// StateSet is an ordered, sorted sequence of discrete symbols,
// supporting membership and predecessor/successor lookups for
// ranked-Markov trait-evolution schemes.
type StateSet struct {
	states []string
}

// NewStateSet returns an empty state set.
func NewStateSet() *StateSet {
	return &StateSet{}
}

// Add records state as observed, ignoring missing-data tokens.
// The set stays sorted after every Add.
func (s *StateSet) Add(state string) {
	if MissingTokens[state] {
		return
	}
	if slices.Contains(s.states, state) {
		return
	}
	s.states = append(s.states, state)
	slices.Sort(s.states)
}

// Has reports whether state is a member of the set.
func (s *StateSet) Has(state string) bool {
	return slices.Contains(s.states, state)
}

// States returns the sorted states, in ascending order.
func (s *StateSet) States() []string {
	return append([]string(nil), s.states...)
}

// Len returns the number of observed states.
func (s *StateSet) Len() int {
	return len(s.states)
}

// Predecessor returns the state preceding the given state in sort
// order, and true, or ("", false) if state is the first state or is
// not a member.
func (s *StateSet) Predecessor(state string) (string, bool) {
	i := slices.Index(s.states, state)
	if i <= 0 {
		return "", false
	}
	return s.states[i-1], true
}

// Successor returns the state following the given state in sort
// order, and true, or ("", false) if state is the last state or is
// not a member.
func (s *StateSet) Successor(state string) (string, bool) {
	i := slices.Index(s.states, state)
	if i < 0 || i >= len(s.states)-1 {
		return "", false
	}
	return s.states[i+1], true
}

// Clone returns a deep copy of the state set.
func (s *StateSet) Clone() *StateSet {
	return &StateSet{states: append([]string(nil), s.states...)}
}

// IsBoundary reports whether state is the first or last state
// in sort order (a boundary of the ranked scale).
func (s *StateSet) IsBoundary(state string) bool {
	if len(s.states) == 0 {
		return false
	}
	return state == s.states[0] || state == s.states[len(s.states)-1]
}
