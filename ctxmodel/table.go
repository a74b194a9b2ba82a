package ctxmodel

import (
	"fmt"

	"github.com/ulikunitz/gabac/errs"
)

// Family identifies one of the three ranges of the builtin context table.
type Family uint8

// Context families in table order.
const (
	Unary Family = iota
	Golomb
	Binary

	numFamilies = 3
)

func (f Family) String() string {
	switch f {
	case Unary:
		return "unary"
	case Golomb:
		return "golomb"
	case Binary:
		return "binary"
	}
	return fmt.Sprintf("Family(%d)", uint8(f))
}

// SetSize is the number of contexts in a context set.
const SetSize = 32

// Index addresses a context of the builtin table.
type Index struct {
	Family Family
	Set    int
	Bin    int
}

// Layout describes the builtin table: every family provides Sets context
// sets of SetSize contexts each.
type Layout struct {
	Sets int
}

// Len returns the number of contexts of the layout.
func (l Layout) Len() int {
	return numFamilies * l.Sets * SetSize
}

// Resolve returns the flat offset of the index.
func (l Layout) Resolve(ix Index) (int, error) {
	if ix.Family >= numFamilies {
		return 0, errs.Range("ctxmodel: family %d", ix.Family)
	}
	if ix.Set < 0 || ix.Set >= l.Sets {
		return 0, errs.Range("ctxmodel: context set %d outside [0,%d)",
			ix.Set, l.Sets)
	}
	if ix.Bin < 0 || ix.Bin >= SetSize {
		return 0, errs.Range("ctxmodel: bin %d outside [0,%d)",
			ix.Bin, SetSize)
	}
	return (int(ix.Family)*l.Sets+ix.Set)*SetSize + ix.Bin, nil
}

// Table holds the context models of a coding session.
type Table struct {
	states   []State
	layout   Layout
	adaptive bool
}

// NewTable creates a flat table of n contexts. If seeds is empty all
// contexts use DefaultSeed, otherwise seeds must provide one 7-bit value per
// context. Contexts of a table that is not adaptive are never updated.
func NewTable(n int, seeds []uint8, adaptive bool) (*Table, error) {
	if n < 0 {
		return nil, errs.Range("ctxmodel: negative table size %d", n)
	}
	if len(seeds) != 0 && len(seeds) != n {
		return nil, errs.Config(
			"ctxmodel: %d initialization values for %d contexts",
			len(seeds), n)
	}
	t := &Table{states: make([]State, n), adaptive: adaptive}
	for i := range t.states {
		seed := uint8(DefaultSeed)
		if len(seeds) > 0 {
			seed = seeds[i]
			if seed > 127 {
				return nil, errs.Range(
					"ctxmodel: initialization value %d", seed)
			}
		}
		t.states[i] = NewState(seed)
	}
	return t, nil
}

// NewBuiltinTable creates the adaptive three-range table for the layout.
// All contexts start with DefaultSeed.
func NewBuiltinTable(l Layout) *Table {
	if l.Sets < 0 {
		panic("ctxmodel: negative number of context sets")
	}
	t := &Table{states: make([]State, l.Len()), layout: l, adaptive: true}
	s := NewState(DefaultSeed)
	for i := range t.states {
		t.states[i] = s
	}
	return t
}

// Len returns the number of contexts.
func (t *Table) Len() int { return len(t.states) }

// Adaptive reports whether coding updates the contexts.
func (t *Table) Adaptive() bool { return t.adaptive }

// Layout returns the layout of a builtin table. Flat tables return the zero
// layout.
func (t *Table) Layout() Layout { return t.layout }

// At returns the context at the flat offset i.
func (t *Table) At(i int) *State { return &t.states[i] }

// Lookup returns the context addressed by ix in a builtin table.
func (t *Table) Lookup(ix Index) (*State, error) {
	i, err := t.layout.Resolve(ix)
	if err != nil {
		return nil, err
	}
	return &t.states[i], nil
}

// Clone creates a deep copy of the table.
func (t *Table) Clone() *Table {
	c := *t
	c.states = make([]State, len(t.states))
	copy(c.states, t.states)
	return &c
}
