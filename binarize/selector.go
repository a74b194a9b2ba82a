package binarize

import (
	"github.com/ulikunitz/gabac/ctxmodel"
)

// Selector provides the contexts for context-coded bins. The bin argument
// of Select is the position of the bin within the context range of the
// binarization; the family tells which part of the binarization codes the
// bin.
type Selector interface {
	Select(f ctxmodel.Family, bin int) *ctxmodel.State
	Sign() *ctxmodel.State
	Adaptive() bool
}

// FlatSelector selects contexts from a flat table. The context of a bin is
// found at Base plus the bin position, the sign flag uses SignIndex.
type FlatSelector struct {
	Table     *ctxmodel.Table
	Base      int
	SignIndex int
}

// Select returns the context at Base+bin or nil if the index is outside
// the table.
func (s *FlatSelector) Select(f ctxmodel.Family, bin int) *ctxmodel.State {
	return s.at(s.Base + bin)
}

// Sign returns the context of the sign flag.
func (s *FlatSelector) Sign() *ctxmodel.State {
	return s.at(s.SignIndex)
}

func (s *FlatSelector) at(i int) *ctxmodel.State {
	if !(0 <= i && i < s.Table.Len()) {
		return nil
	}
	return s.Table.At(i)
}

// Adaptive reports whether the table is adaptive.
func (s *FlatSelector) Adaptive() bool { return s.Table.Adaptive() }

// SetSelector selects contexts from a single context set of a builtin
// table. Bin positions beyond the set use the last context of the set.
type SetSelector struct {
	Table *ctxmodel.Table
	Set   int
}

// NewSetSelector returns a selector for the context set of the builtin
// table t.
func NewSetSelector(t *ctxmodel.Table, set int) (*SetSelector, error) {
	if _, err := t.Lookup(ctxmodel.Index{Set: set}); err != nil {
		return nil, err
	}
	return &SetSelector{Table: t, Set: set}, nil
}

func (s *SetSelector) lookup(f ctxmodel.Family, bin int) *ctxmodel.State {
	if bin >= ctxmodel.SetSize {
		bin = ctxmodel.SetSize - 1
	}
	st, err := s.Table.Lookup(ctxmodel.Index{Family: f, Set: s.Set, Bin: bin})
	if err != nil {
		panic(err)
	}
	return st
}

// Select returns the context of the family part of the set.
func (s *SetSelector) Select(f ctxmodel.Family, bin int) *ctxmodel.State {
	return s.lookup(f, bin)
}

// Sign returns the first binary context of the set.
func (s *SetSelector) Sign() *ctxmodel.State {
	return s.lookup(ctxmodel.Binary, 0)
}

// Adaptive reports whether the table is adaptive.
func (s *SetSelector) Adaptive() bool { return s.Table.Adaptive() }
