package cabac

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac/ctxmodel"
	"github.com/ulikunitz/gabac/errs"
)

type binKind int

const (
	ctxBin binKind = iota
	bypassBin
	bypassRun
	trmBin
)

type op struct {
	kind binKind
	ctx  int
	v    uint64
	n    int
}

const numTestContexts = 8

// randomOps creates n bins. Context bins are skewed so that MPS runs and
// LPS surprises both occur.
func randomOps(n int, seed int64) []op {
	r := rand.New(rand.NewSource(seed))
	ops := make([]op, 0, n)
	for len(ops) < n {
		switch k := r.Intn(16); {
		case k < 11:
			c := r.Intn(numTestContexts)
			var v uint64
			if r.Intn(8) < c {
				v = 1
			}
			ops = append(ops, op{kind: ctxBin, ctx: c, v: v})
		case k < 13:
			ops = append(ops, op{kind: bypassBin,
				v: uint64(r.Intn(2))})
		case k < 15:
			m := 1 + r.Intn(20)
			if m > n-len(ops) {
				m = n - len(ops)
			}
			ops = append(ops, op{kind: bypassRun,
				v: r.Uint64() & (1<<uint(m) - 1), n: m})
		default:
			ops = append(ops, op{kind: trmBin})
		}
	}
	return ops
}

func numBins(ops []op) int64 {
	var n int64
	for _, o := range ops {
		if o.kind == bypassRun {
			n += int64(o.n)
		} else {
			n++
		}
	}
	return n
}

func newTestTable(t *testing.T) *ctxmodel.Table {
	tab, err := ctxmodel.NewTable(numTestContexts,
		[]uint8{64, 64, 30, 90, 10, 120, 64, 63}, true)
	if err != nil {
		t.Fatalf("ctxmodel.NewTable error %s", err)
	}
	return tab
}

func encodeOps(t *testing.T, ops []op) []byte {
	tab := newTestTable(t)
	e := NewEncoder()
	for _, o := range ops {
		switch o.kind {
		case ctxBin:
			e.EncodeBin(uint32(o.v), tab.At(o.ctx), true)
		case bypassBin:
			e.EncodeBinEP(uint32(o.v))
		case bypassRun:
			e.EncodeBinsEP(o.v, o.n)
		case trmBin:
			e.EncodeBinTrm(0)
		}
		if e.nrange < 256 || e.nrange > 510 {
			t.Fatalf("range %d outside [256,510]", e.nrange)
		}
	}
	if e.Bins() != numBins(ops) {
		t.Fatalf("e.Bins() = %d; want %d", e.Bins(), numBins(ops))
	}
	return e.Flush()
}

func decodeOps(t *testing.T, p []byte, ops []op) {
	tab := newTestTable(t)
	d, err := NewDecoder(p)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	for i, o := range ops {
		var v uint64
		switch o.kind {
		case ctxBin:
			var b uint32
			b, err = d.DecodeBin(tab.At(o.ctx), true)
			v = uint64(b)
		case bypassBin:
			var b uint32
			b, err = d.DecodeBinEP()
			v = uint64(b)
		case bypassRun:
			v, err = d.DecodeBinsEP(o.n)
		case trmBin:
			var b uint32
			b, err = d.DecodeBinTrm()
			v = uint64(b)
		}
		if err != nil {
			t.Fatalf("op %d: decode error %s", i, err)
		}
		if v != o.v {
			t.Fatalf("op %d (kind %d): got %#x; want %#x",
				i, o.kind, v, o.v)
		}
		if d.nrange < 256 || d.nrange > 510 {
			t.Fatalf("op %d: range %d outside [256,510]",
				i, d.nrange)
		}
	}
	b, err := d.DecodeBinTrm()
	if err != nil {
		t.Fatalf("final DecodeBinTrm error %s", err)
	}
	if b != 1 {
		t.Fatalf("final terminating bin %d; want 1", b)
	}
	if d.Pos() > len(p) {
		t.Fatalf("decoder consumed %d of %d bytes", d.Pos(), len(p))
	}
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 64, 10000} {
		ops := randomOps(n, int64(n)+1)
		p := encodeOps(t, ops)
		t.Logf("%d bins -> %d bytes", n, len(p))
		decodeOps(t, p, ops)
	}
}

func TestCarryPropagation(t *testing.T) {
	// A long run of the least probable bin drives low into carries.
	ops := make([]op, 0, 10000)
	for i := 0; i < 10000; i++ {
		v := uint64(1)
		if i%97 == 0 {
			v = 0
		}
		ops = append(ops, op{kind: ctxBin, ctx: 4, v: v})
		if i%13 == 0 {
			ops = append(ops, op{kind: bypassRun,
				v: 0xff, n: 8})
		}
	}
	p := encodeOps(t, ops)
	decodeOps(t, p, ops)
}

func TestDeterminism(t *testing.T) {
	ops := randomOps(5000, 42)
	p1 := encodeOps(t, ops)
	p2 := encodeOps(t, ops)
	if !bytes.Equal(p1, p2) {
		t.Fatalf("two encodings of the same bins differ")
	}
}

func TestEmptyPayload(t *testing.T) {
	e := NewEncoder()
	p := e.Flush()
	if len(p) != 2 {
		t.Fatalf("flush of empty encoder: %d bytes; want 2", len(p))
	}
	if _, err := NewDecoder(p[:1]); !errors.Is(err, errs.ErrExhausted) {
		t.Fatalf("NewDecoder of 1 byte: error %v; want exhaustion",
			err)
	}
}

func TestExhaustion(t *testing.T) {
	ops := randomOps(10000, 7)
	p := encodeOps(t, ops)
	tab := newTestTable(t)
	d, err := NewDecoder(p[:len(p)/2])
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	for _, o := range ops {
		switch o.kind {
		case ctxBin:
			_, err = d.DecodeBin(tab.At(o.ctx), true)
		case bypassBin:
			_, err = d.DecodeBinEP()
		case bypassRun:
			_, err = d.DecodeBinsEP(o.n)
		case trmBin:
			_, err = d.DecodeBinTrm()
		}
		if err != nil {
			break
		}
	}
	if !errors.Is(err, errs.ErrExhausted) {
		t.Fatalf("decoding truncated payload: error %v; want exhaustion",
			err)
	}
}

func TestNonAdaptive(t *testing.T) {
	tab, err := ctxmodel.NewTable(1, []uint8{100}, false)
	if err != nil {
		t.Fatalf("ctxmodel.NewTable error %s", err)
	}
	s0 := *tab.At(0)
	e := NewEncoder()
	for i := 0; i < 100; i++ {
		e.EncodeBin(uint32(i&1), tab.At(0), tab.Adaptive())
	}
	if *tab.At(0) != s0 {
		t.Fatalf("non-adaptive context changed from %#x to %#x",
			s0, *tab.At(0))
	}
	p := e.Flush()
	d, err := NewDecoder(p)
	if err != nil {
		t.Fatalf("NewDecoder error %s", err)
	}
	for i := 0; i < 100; i++ {
		b, err := d.DecodeBin(tab.At(0), tab.Adaptive())
		if err != nil {
			t.Fatalf("DecodeBin error %s", err)
		}
		if b != uint32(i&1) {
			t.Fatalf("bin %d: got %d; want %d", i, b, i&1)
		}
	}
}

func TestDebugOutput(t *testing.T) {
	buf := new(bytes.Buffer)
	debugOn(buf)
	defer debugOff()
	e := NewEncoder()
	e.EncodeBinsEP(0xa5, 8)
	e.Flush()
	if buf.Len() == 0 {
		t.Fatalf("no debug output")
	}
}

func TestLen(t *testing.T) {
	e := NewEncoder()
	if n := e.Len(); n != 0 {
		t.Fatalf("new encoder: Len() = %d; want 0", n)
	}
	prev := 0
	for i := 0; i < 1000; i++ {
		e.EncodeBinsEP(uint64(i), 8)
		n := e.Len()
		if n < prev {
			t.Fatalf("Len() decreased from %d to %d", prev, n)
		}
		prev = n
	}
	if prev == 0 {
		t.Fatalf("Len() = 0 after 8000 bypass bins")
	}
	if p := e.Flush(); len(p) < prev {
		t.Fatalf("flushed %d bytes; Len() reported %d", len(p), prev)
	}
}
