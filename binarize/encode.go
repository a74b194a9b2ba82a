package binarize

import (
	"github.com/ulikunitz/gabac/cabac"
	"github.com/ulikunitz/gabac/ctxmodel"
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/param"
	"github.com/ulikunitz/gabac/xlog"
)

// binEncoder writes the bins of a single value.
type binEncoder struct {
	e      *cabac.Encoder
	sel    Selector
	bypass bool
}

func (c *binEncoder) bin(b uint32, f ctxmodel.Family, i int) {
	if c.bypass {
		c.e.EncodeBinEP(b)
		return
	}
	c.e.EncodeBin(b, c.sel.Select(f, i), c.sel.Adaptive())
}

// bi writes the n bits of v MSB first; context bins start at off.
func (c *binEncoder) bi(v uint64, n int, off int) {
	if c.bypass {
		c.e.EncodeBinsEP(v, n)
		return
	}
	for i := n - 1; i >= 0; i-- {
		c.bin(uint32(v>>uint(i))&1, ctxmodel.Binary, off+n-1-i)
	}
}

func (c *binEncoder) tu(v, cmax uint64, off int) {
	for i := uint64(0); i < v; i++ {
		c.bin(1, ctxmodel.Unary, off+int(i))
	}
	if v < cmax {
		c.bin(0, ctxmodel.Unary, off+int(v))
	}
}

func (c *binEncoder) eg(v uint64, off int) {
	k := egPrefix(v)
	for i := 0; i < k; i++ {
		c.bin(0, ctxmodel.Golomb, off+i)
	}
	c.bin(1, ctxmodel.Golomb, off+k)
	if k > 0 {
		c.e.EncodeBinsEP(v+1, k)
	}
}

func (c *binEncoder) teg(v, cmax uint64) {
	c.tu(min64(v, cmax), cmax, 0)
	if v >= cmax {
		c.eg(v-cmax, int(cmax))
	}
}

func (c *binEncoder) sutu(v uint64, width, split int, off int) {
	for _, u := range units(width, split) {
		cmax := uint64(1)<<uint(u.size) - 1
		c.tu(v>>uint(u.shift)&cmax, cmax, off)
		off += int(cmax)
	}
}

func (c *binEncoder) dtu(v, cmax uint64, width, split int) {
	c.tu(min64(v, cmax), cmax, 0)
	if v >= cmax {
		c.sutu(v-cmax, width, split, int(cmax))
	}
}

// Encode writes the magnitude v using the scheme. The selector may be nil
// for bypass schemes. Values outside the domain of the scheme return a
// range error without writing any bin.
func Encode(e *cabac.Encoder, s *Scheme, v uint64, sel Selector) error {
	if err := s.Verify(); err != nil {
		return err
	}
	if err := s.check(v); err != nil {
		return err
	}
	if !s.Bypass && sel == nil {
		return errs.Config("binarize: context-coded %s without selector",
			s.Params.ID())
	}
	c := binEncoder{e: e, sel: sel, bypass: s.Bypass}
	switch p := s.Params.(type) {
	case param.BinaryCoding:
		c.bi(v, s.Width, 0)
	case param.TruncatedUnary:
		c.tu(v, uint64(p.CMax), 0)
	case param.ExpGolomb, param.SignedExpGolomb:
		c.eg(v, 0)
	case param.TruncatedExpGolomb:
		c.teg(v, uint64(p.CMaxTEG))
	case param.SignedTruncatedExpGolomb:
		c.teg(v, uint64(p.CMaxTEG))
	case param.SplitUnitTU:
		c.sutu(v, s.Width, int(p.SplitUnitSize), 0)
	case param.SignedSplitUnitTU:
		c.sutu(v, s.Width, int(p.SplitUnitSize), 0)
	case param.DoubleTU:
		c.dtu(v, uint64(p.CMaxDTU), s.Width, int(p.SplitUnitSize))
	case param.SignedDoubleTU:
		c.dtu(v, uint64(p.CMaxDTU), s.Width, int(p.SplitUnitSize))
	default:
		return errs.Config("binarize: unsupported parameters %T",
			s.Params)
	}
	xlog.Printf(debug, "binarize: %s value %d", s.Params.ID(), v)
	return nil
}

// EncodeSign writes the sign flag; 1 for negative values.
func EncodeSign(e *cabac.Encoder, negative bool, bypass bool, sel Selector) {
	var b uint32
	if negative {
		b = 1
	}
	if bypass {
		e.EncodeBinEP(b)
		return
	}
	e.EncodeBin(b, sel.Sign(), sel.Adaptive())
}

// magnitude returns the absolute value of x.
func magnitude(x int64) uint64 {
	if x < 0 {
		return -uint64(x)
	}
	return uint64(x)
}

// EncodeSigned writes x with a signed scheme: the magnitude followed by
// the sign flag if x is not zero. Unsigned schemes return a configuration
// error.
func EncodeSigned(e *cabac.Encoder, s *Scheme, x int64, sel Selector) error {
	if s.Params == nil || !s.Params.ID().Signed() {
		return errs.Config("binarize: signed value with unsigned scheme")
	}
	if err := Encode(e, s, magnitude(x), sel); err != nil {
		return err
	}
	if x != 0 {
		EncodeSign(e, x < 0, s.Bypass, sel)
	}
	return nil
}

// lutSplit is the unit size of the split-unit code used for lookup table
// entries.
const lutSplit = 2

// EncodeLUTSymbol writes a lookup table entry of width bits. Entries are
// always context coded with split units of two bits starting at the first
// context of the selector.
func EncodeLUTSymbol(e *cabac.Encoder, v uint64, width int, sel Selector) error {
	if !fits(v, width) {
		return errs.Range("binarize: LUT symbol %d exceeds %d bits",
			v, width)
	}
	c := binEncoder{e: e, sel: sel}
	c.sutu(v, width, lutSplit, 0)
	return nil
}
