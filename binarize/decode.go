package binarize

import (
	"github.com/ulikunitz/gabac/cabac"
	"github.com/ulikunitz/gabac/ctxmodel"
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/param"
	"github.com/ulikunitz/gabac/xlog"
)

// binDecoder reads the bins of a single value.
type binDecoder struct {
	d      *cabac.Decoder
	sel    Selector
	bypass bool
	// largest exp-Golomb prefix
	maxPrefix int
}

func (c *binDecoder) bin(f ctxmodel.Family, i int) (uint32, error) {
	if c.bypass {
		return c.d.DecodeBinEP()
	}
	st := c.sel.Select(f, i)
	if st == nil {
		return 0, errs.Range("binarize: no context for %s bin %d", f, i)
	}
	return c.d.DecodeBin(st, c.sel.Adaptive())
}

func (c *binDecoder) bi(n int, off int) (v uint64, err error) {
	if c.bypass {
		return c.d.DecodeBinsEP(n)
	}
	for i := 0; i < n; i++ {
		b, err := c.bin(ctxmodel.Binary, off+i)
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint64(b)
	}
	return v, nil
}

func (c *binDecoder) tu(cmax uint64, off int) (v uint64, err error) {
	for v < cmax {
		b, err := c.bin(ctxmodel.Unary, off+int(v))
		if err != nil {
			return 0, err
		}
		if b == 0 {
			break
		}
		v++
	}
	return v, nil
}

// maxEGPrefix is the largest number of leading zeros of an exp-Golomb code
// of a 64-bit value.
const maxEGPrefix = 63

func (c *binDecoder) eg(off int) (v uint64, err error) {
	k := 0
	for {
		b, err := c.bin(ctxmodel.Golomb, off+k)
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		k++
		if k > c.maxPrefix {
			return 0, errs.Range("binarize: EG prefix exceeds %d bins",
				c.maxPrefix)
		}
	}
	if k == 0 {
		return 0, nil
	}
	s, err := c.d.DecodeBinsEP(k)
	if err != nil {
		return 0, err
	}
	return (uint64(1)<<uint(k) | s) - 1, nil
}

func (c *binDecoder) teg(cmax uint64) (v uint64, err error) {
	if v, err = c.tu(cmax, 0); err != nil {
		return 0, err
	}
	if v < cmax {
		return v, nil
	}
	w, err := c.eg(int(cmax))
	if err != nil {
		return 0, err
	}
	return cmax + w, nil
}

func (c *binDecoder) sutu(width, split int, off int) (v uint64, err error) {
	for _, u := range units(width, split) {
		cmax := uint64(1)<<uint(u.size) - 1
		w, err := c.tu(cmax, off)
		if err != nil {
			return 0, err
		}
		v |= w << uint(u.shift)
		off += int(cmax)
	}
	return v, nil
}

func (c *binDecoder) dtu(cmax uint64, width, split int) (v uint64, err error) {
	if v, err = c.tu(cmax, 0); err != nil {
		return 0, err
	}
	if v < cmax {
		return v, nil
	}
	w, err := c.sutu(width, split, int(cmax))
	if err != nil {
		return 0, err
	}
	return cmax + w, nil
}

// Decode reads a magnitude coded with the scheme.
func Decode(d *cabac.Decoder, s *Scheme, sel Selector) (v uint64, err error) {
	if err = s.Verify(); err != nil {
		return 0, err
	}
	if !s.Bypass && sel == nil {
		return 0, errs.Config("binarize: context-coded %s without selector",
			s.Params.ID())
	}
	c := binDecoder{d: d, sel: sel, bypass: s.Bypass,
		maxPrefix: s.prefixBound()}
	switch p := s.Params.(type) {
	case param.BinaryCoding:
		v, err = c.bi(s.Width, 0)
	case param.TruncatedUnary:
		v, err = c.tu(uint64(p.CMax), 0)
	case param.ExpGolomb, param.SignedExpGolomb:
		v, err = c.eg(0)
	case param.TruncatedExpGolomb:
		v, err = c.teg(uint64(p.CMaxTEG))
	case param.SignedTruncatedExpGolomb:
		v, err = c.teg(uint64(p.CMaxTEG))
	case param.SplitUnitTU:
		v, err = c.sutu(s.Width, int(p.SplitUnitSize), 0)
	case param.SignedSplitUnitTU:
		v, err = c.sutu(s.Width, int(p.SplitUnitSize), 0)
	case param.DoubleTU:
		v, err = c.dtu(uint64(p.CMaxDTU), s.Width, int(p.SplitUnitSize))
	case param.SignedDoubleTU:
		v, err = c.dtu(uint64(p.CMaxDTU), s.Width, int(p.SplitUnitSize))
	default:
		return 0, errs.Config("binarize: unsupported parameters %T",
			s.Params)
	}
	if err != nil {
		return 0, err
	}
	xlog.Printf(debug, "binarize: %s value %d", s.Params.ID(), v)
	return v, nil
}

// DecodeSign reads the sign flag and reports whether the value is
// negative.
func DecodeSign(d *cabac.Decoder, bypass bool, sel Selector) (negative bool, err error) {
	var b uint32
	if bypass {
		b, err = d.DecodeBinEP()
	} else {
		st := sel.Sign()
		if st == nil {
			return false, errs.Range("binarize: no context for the sign flag")
		}
		b, err = d.DecodeBin(st, sel.Adaptive())
	}
	return b == 1, err
}

// DecodeSigned reads a value written by EncodeSigned.
func DecodeSigned(d *cabac.Decoder, s *Scheme, sel Selector) (x int64, err error) {
	if s.Params == nil || !s.Params.ID().Signed() {
		return 0, errs.Config("binarize: signed value with unsigned scheme")
	}
	v, err := Decode(d, s, sel)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, nil
	}
	neg, err := DecodeSign(d, s.Bypass, sel)
	if err != nil {
		return 0, err
	}
	if neg {
		return int64(-v), nil
	}
	return int64(v), nil
}

// DecodeLUTSymbol reads a lookup table entry of width bits.
func DecodeLUTSymbol(d *cabac.Decoder, width int, sel Selector) (v uint64, err error) {
	c := binDecoder{d: d, sel: sel, maxPrefix: maxEGPrefix}
	return c.sutu(width, lutSplit, 0)
}
