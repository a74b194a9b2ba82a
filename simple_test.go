package gabac

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac/binarize"
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/internal/randseq"
	"github.com/ulikunitz/gabac/param"
)

type simpleTest struct {
	params  param.BinarizationParameters
	width   int
	symbols []uint64
}

func simpleTests() []simpleTest {
	return []simpleTest{
		{param.BinaryCoding{}, 3, randseq.Bases(rand.NewSource(1), 4000)},
		{param.TruncatedUnary{CMax: 4}, 3, randseq.Bases(rand.NewSource(2), 4000)},
		{param.ExpGolomb{}, 8, randseq.Qualities(rand.NewSource(3), 4000)},
		{param.TruncatedExpGolomb{CMaxTEG: 30}, 8, randseq.Qualities(rand.NewSource(4), 4000)},
		{param.SplitUnitTU{SplitUnitSize: 2}, 6, randseq.Qualities(rand.NewSource(5), 4000)},
		{param.DoubleTU{CMaxDTU: 3, SplitUnitSize: 2}, 6, randseq.Runs(rand.NewSource(6), 4000, 3, 40)},
		{param.SignedExpGolomb{}, 16, randseq.Signed(rand.NewSource(7), 4000, 1000)},
		{param.SignedTruncatedExpGolomb{CMaxTEG: 5}, 16, randseq.Signed(rand.NewSource(8), 4000, 200)},
		{param.SignedSplitUnitTU{SplitUnitSize: 4}, 12, randseq.Signed(rand.NewSource(9), 4000, 2000)},
	}
}

var selections = []ContextSelection{Bypass, Order0, Order1, Order2}

func TestSimpleRoundTrip(t *testing.T) {
	for _, tc := range simpleTests() {
		for _, sel := range selections {
			c := &SimpleConfig{Params: tc.params, Width: tc.width,
				Selection: sel}
			name := fmt.Sprintf("%s-%s", tc.params.ID(), sel)
			t.Run(name, func(t *testing.T) {
				p, err := EncodeSimple(c, tc.symbols)
				if err != nil {
					t.Fatalf("EncodeSimple error %s", err)
				}
				t.Logf("%d symbols -> %d bytes", len(tc.symbols),
					len(p))
				g, err := DecodeSimple(c, p, len(tc.symbols))
				if err != nil {
					t.Fatalf("DecodeSimple error %s", err)
				}
				if !equal(g, tc.symbols) {
					t.Fatalf("round trip differs")
				}
			})
		}
	}
}

func TestSimpleContextsHelp(t *testing.T) {
	symbols := randseq.Bases(rand.NewSource(10), 20000)
	size := func(sel ContextSelection) int {
		c := &SimpleConfig{Params: param.BinaryCoding{}, Width: 3,
			Selection: sel}
		p, err := EncodeSimple(c, symbols)
		if err != nil {
			t.Fatalf("EncodeSimple(%s) error %s", sel, err)
		}
		return len(p)
	}
	b, o1 := size(Bypass), size(Order1)
	if o1 >= b {
		t.Fatalf("order1 %d bytes; bypass %d bytes", o1, b)
	}
}

func TestSimpleSelectionString(t *testing.T) {
	if s := Order2.String(); s != "order2" {
		t.Fatalf("Order2.String() = %q", s)
	}
	if s := ContextSelection(9).String(); s != "ContextSelection(9)" {
		t.Fatalf("ContextSelection(9).String() = %q", s)
	}
}

func TestSimpleSetSelection(t *testing.T) {
	c := &SimpleConfig{Params: param.ExpGolomb{}, Width: 8,
		Selection: Order2}
	st := newSimpleState(c)
	st.update(7)
	st.update(1)
	if st.prev != [2]uint64{1, 7} {
		t.Fatalf("prev = %v; want [1 7]", st.prev)
	}
	sel, ok := st.selector().(*binarize.SetSelector)
	if !ok {
		t.Fatalf("selector isn't a set selector")
	}
	if sel.Set != 5+4*3+1 {
		t.Fatalf("set %d; want %d", sel.Set, 5+4*3+1)
	}
	c.Selection = Bypass
	if st.selector() != nil {
		t.Fatalf("bypass selector isn't nil")
	}
}

func TestSimpleErrors(t *testing.T) {
	if _, err := EncodeSimple(nil, []uint64{1}); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("nil configuration: got %v", err)
	}
	c := &SimpleConfig{Params: param.BinaryCoding{}, Width: 2,
		Selection: 7}
	if _, err := EncodeSimple(c, []uint64{1}); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("unknown selection: got %v", err)
	}
	c.Selection = Order0
	c.Width = 0
	if _, err := EncodeSimple(c, []uint64{1}); !errors.Is(err, errs.ErrRange) {
		t.Fatalf("width 0: got %v", err)
	}
	c.Width = 2
	if _, err := EncodeSimple(c, []uint64{1, 4}); !errors.Is(err, errs.ErrRange) {
		t.Fatalf("value 4 in 2 bits: got %v", err)
	}
	if _, err := DecodeSimple(c, nil, -1); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("negative count: got %v", err)
	}
	p, err := EncodeSimple(c, nil)
	if err != nil || p != nil {
		t.Fatalf("EncodeSimple(nil) = %v, %v", p, err)
	}
}

func FuzzSimple(f *testing.F) {
	f.Add([]byte{}, uint8(0))
	f.Add([]byte{1, 2, 3, 3, 3, 0, 255}, uint8(2))
	f.Add(bytes.Repeat([]byte{'A', 'C'}, 100), uint8(3))
	f.Fuzz(func(t *testing.T, data []byte, sel uint8) {
		c := &SimpleConfig{Params: param.ExpGolomb{}, Width: 8,
			Selection: ContextSelection(sel % 4)}
		symbols := make([]uint64, len(data))
		for i, b := range data {
			symbols[i] = uint64(b)
		}
		p, err := EncodeSimple(c, symbols)
		if err != nil {
			t.Fatalf("EncodeSimple error %s", err)
		}
		g, err := DecodeSimple(c, p, len(symbols))
		if err != nil {
			t.Fatalf("DecodeSimple error %s", err)
		}
		if !equal(g, symbols) {
			t.Fatalf("round trip differs")
		}
	})
}
