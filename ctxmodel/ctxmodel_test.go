package ctxmodel

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac/errs"
)

func TestNewState(t *testing.T) {
	tests := []struct {
		seed  uint8
		index int
		mps   uint32
	}{
		{64, 0, 1},
		{63, 0, 0},
		{127, 63, 1},
		{0, 63, 0},
		{90, 26, 1},
		{20, 43, 0},
	}
	for _, tc := range tests {
		s := NewState(tc.seed)
		if s.Index() != tc.index || s.MPS() != tc.mps {
			t.Errorf("NewState(%d) = (%d, %d); want (%d, %d)",
				tc.seed, s.Index(), s.MPS(), tc.index, tc.mps)
		}
	}
}

func TestStateTransitions(t *testing.T) {
	s := NewState(DefaultSeed)
	s.UpdateLPS()
	if s.Index() != 0 || s.MPS() != 0 {
		t.Fatalf("LPS at state 0: got (%d, %d); want (0, 0)",
			s.Index(), s.MPS())
	}
	for i := 0; i < 100; i++ {
		s.UpdateMPS()
	}
	if s.Index() != 62 || s.MPS() != 0 {
		t.Fatalf("saturated MPS: got (%d, %d); want (62, 0)",
			s.Index(), s.MPS())
	}
	s.UpdateLPS()
	if s.Index() != 38 || s.MPS() != 0 {
		t.Fatalf("LPS at 62: got (%d, %d); want (38, 0)",
			s.Index(), s.MPS())
	}
	if lps := s.LPS(3); lps != 33 {
		t.Fatalf("s.LPS(3) = %d; want 33", lps)
	}
}

func TestLayoutResolve(t *testing.T) {
	l := Layout{Sets: 4}
	if n := l.Len(); n != 3*4*32 {
		t.Fatalf("l.Len() = %d; want %d", n, 3*4*32)
	}
	seen := make(map[int]Index)
	for f := Unary; f <= Binary; f++ {
		for set := 0; set < l.Sets; set++ {
			for bin := 0; bin < SetSize; bin++ {
				ix := Index{f, set, bin}
				i, err := l.Resolve(ix)
				if err != nil {
					t.Fatalf("l.Resolve(%+v) error %s", ix, err)
				}
				if j, ok := seen[i]; ok {
					t.Fatalf("%+v and %+v resolve to %d",
						ix, j, i)
				}
				seen[i] = ix
			}
		}
	}
	if len(seen) != l.Len() {
		t.Fatalf("%d offsets; want %d", len(seen), l.Len())
	}
	i, _ := l.Resolve(Index{Golomb, 1, 2})
	if i != 4*32+32+2 {
		t.Fatalf("golomb set 1 bin 2 at %d; want %d", i, 4*32+32+2)
	}
	bad := []Index{
		{Family(3), 0, 0}, {Unary, 4, 0}, {Binary, -1, 0},
		{Golomb, 0, 32},
	}
	for _, ix := range bad {
		if _, err := l.Resolve(ix); !errors.Is(err, errs.ErrRange) {
			t.Errorf("l.Resolve(%+v) error %v; want range error",
				ix, err)
		}
	}
}

func TestBuiltinTable(t *testing.T) {
	tab := NewBuiltinTable(Layout{Sets: 2})
	if !tab.Adaptive() {
		t.Fatalf("builtin table not adaptive")
	}
	s, err := tab.Lookup(Index{Binary, 1, 31})
	if err != nil {
		t.Fatalf("tab.Lookup error %s", err)
	}
	if *s != NewState(DefaultSeed) {
		t.Fatalf("builtin state %#x; want %#x", *s, NewState(64))
	}
	s.UpdateMPS()
	if tab.At(tab.Len()-1) != s {
		t.Fatalf("Lookup and At disagree for the last context")
	}
}

func TestNewTable(t *testing.T) {
	tab, err := NewTable(3, []uint8{0, 64, 127}, false)
	if err != nil {
		t.Fatalf("NewTable error %s", err)
	}
	if tab.Adaptive() {
		t.Fatalf("table is adaptive")
	}
	if tab.At(2).Index() != 63 {
		t.Fatalf("context 2 index %d; want 63", tab.At(2).Index())
	}
	if _, err = NewTable(3, []uint8{1, 2}, true); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("NewTable with 2 seeds: error %v; want config error",
			err)
	}
	if _, err = NewTable(1, []uint8{128}, true); !errors.Is(err, errs.ErrRange) {
		t.Fatalf("NewTable with seed 128: error %v; want range error",
			err)
	}
}

func TestClone(t *testing.T) {
	tab, err := NewTable(2, nil, true)
	if err != nil {
		t.Fatalf("NewTable error %s", err)
	}
	c := tab.Clone()
	c.At(0).UpdateLPS()
	if *tab.At(0) == *c.At(0) {
		t.Fatalf("clone shares states with original")
	}
}
