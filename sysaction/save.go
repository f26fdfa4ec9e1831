// Copyright © 2024 The mesasim authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package sysaction

import (
	"fmt"

	"github.com/agapow-sim/mesasim/action"
	"github.com/agapow-sim/mesasim/tree"
	"github.com/agapow-sim/mesasim/traitmat"
)

// SaveFormat selects the on-disk format a Save action writes.
type SaveFormat int

// Valid save formats.
const (
	SaveNexus SaveFormat = iota
	SaveCAIC
)

func (f SaveFormat) String() string {
	if f == SaveCAIC {
		return "caic"
	}
	return "nexus"
}

// Writer is the external collaborator that actually serialises the
// model — the core only ever builds and hands it the data to write,
// per the "writers are external collaborators" contract; the core's
// own serialisation surface is limited to tree.Tree.WriteNewick.
type Writer interface {
	Write(format SaveFormat, baseName string, rep int, trees *tree.Store, cont *traitmat.ContMatrix, disc *traitmat.DiscMatrix) error
}

// Save snapshots the current model to disk through Writer, under a
// file name built from BaseName and an internal repetition counter
// that increments on every execution.
type Save struct {
	action.Leaf
	BaseName string
	Format   SaveFormat
	Writer   Writer

	reps int
}

// NewSave returns a Save action targeting baseName in format, using w
// to perform the actual write.
func NewSave(baseName string, format SaveFormat, w Writer) *Save {
	return &Save{
		Leaf:     action.Leaf{Desc: fmt.Sprintf("save data as %s %q", format, baseName)},
		BaseName: baseName,
		Format:   format,
		Writer:   w,
	}
}

// Execute implements action.Action.
func (s *Save) Execute(env action.Env) error {
	se, err := envOf(env)
	if err != nil {
		return err
	}
	if s.Writer == nil {
		return fmt.Errorf("sysaction: save: no writer configured")
	}
	s.reps++
	return s.Writer.Write(s.Format, s.BaseName, s.reps, se.Trees(), se.ContData(), se.DiscData())
}
