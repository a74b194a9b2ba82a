// Package binarize maps integer values to and from the bins coded by the
// arithmetic coder. It supports the ten binarizations of the GABAC entropy
// coder, coded either with bypass bins or with context-modeled bins.
package binarize

import (
	"math"
	"math/bits"

	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/param"
)

// Scheme binds binarization parameters to the bit width of the coded
// values. Bypass schemes code every bin with probability 1/2 and don't need
// a selector.
type Scheme struct {
	Params param.BinarizationParameters
	// number of bits of a value, used by BI and the split-unit schemes
	Width  int
	Bypass bool
	// largest exp-Golomb prefix; zero allows the 63 zeros of 64-bit values
	MaxPrefix int
}

// Verify checks the scheme.
func (s *Scheme) Verify() error {
	if s.Params == nil {
		return errs.Config("binarize: parameters missing")
	}
	if !(1 <= s.Width && s.Width <= 64) {
		return errs.Range("binarize: width %d outside [1,64]", s.Width)
	}
	if !(0 <= s.MaxPrefix && s.MaxPrefix <= maxEGPrefix) {
		return errs.Range("binarize: EG prefix bound %d outside [0,%d]",
			s.MaxPrefix, maxEGPrefix)
	}
	return nil
}

// prefixBound returns the largest exp-Golomb prefix the scheme accepts.
func (s *Scheme) prefixBound() int {
	if s.MaxPrefix > 0 {
		return s.MaxPrefix
	}
	return maxEGPrefix
}

// checkEG verifies that the exp-Golomb part v stays within the prefix
// bound.
func (s *Scheme) checkEG(v uint64) error {
	if v == math.MaxUint64 {
		return errs.Range("binarize: EG value %d", v)
	}
	if k := egPrefix(v); k > s.prefixBound() {
		return errs.Range("binarize: EG value %d needs prefix %d > %d",
			v, k, s.prefixBound())
	}
	return nil
}

// fits reports whether v can be represented with n bits.
func fits(v uint64, n int) bool {
	return n >= 64 || v>>uint(n) == 0
}

// egPrefix returns the number of leading zeros of the exp-Golomb code of
// v.
func egPrefix(v uint64) int {
	return bits.Len64(v+1) - 1
}

// unit describes a split unit: its bit count and its shift in the value.
type unit struct {
	size  int
	shift int
}

// units splits width bits into units of split bits. The most significant
// unit receives the remainder.
func units(width, split int) []unit {
	var u []unit
	j := width
	for i := 0; i < width; i += split {
		n := split
		if i == 0 && width%split != 0 {
			n = width % split
		}
		j -= n
		u = append(u, unit{size: n, shift: j})
	}
	return u
}

// check verifies that v is in the domain of the scheme.
func (s *Scheme) check(v uint64) error {
	switch p := s.Params.(type) {
	case param.BinaryCoding:
		if !fits(v, s.Width) {
			return errs.Range("binarize: BI value %d exceeds %d bits",
				v, s.Width)
		}
	case param.TruncatedUnary:
		if v > uint64(p.CMax) {
			return errs.Range("binarize: TU value %d exceeds cmax %d",
				v, p.CMax)
		}
	case param.ExpGolomb, param.SignedExpGolomb:
		return s.checkEG(v)
	case param.TruncatedExpGolomb:
		if v >= uint64(p.CMaxTEG) {
			return s.checkEG(v - uint64(p.CMaxTEG))
		}
	case param.SignedTruncatedExpGolomb:
		if v >= uint64(p.CMaxTEG) {
			return s.checkEG(v - uint64(p.CMaxTEG))
		}
	case param.SplitUnitTU, param.SignedSplitUnitTU:
		if !fits(v, s.Width) {
			return errs.Range("binarize: SUTU value %d exceeds %d bits",
				v, s.Width)
		}
	case param.DoubleTU:
		return checkDTU(v, p.CMaxDTU, s.Width)
	case param.SignedDoubleTU:
		return checkDTU(v, p.CMaxDTU, s.Width)
	}
	return nil
}

func checkDTU(v uint64, cmax uint8, width int) error {
	if v >= uint64(cmax) && !fits(v-uint64(cmax), width) {
		return errs.Range("binarize: DTU value %d exceeds cmax_dtu %d plus %d bits",
			v, cmax, width)
	}
	return nil
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}

func tuBins(v uint64, cmax uint64) int {
	if v < cmax {
		return int(v) + 1
	}
	return int(cmax)
}

func egBins(v uint64) int { return 2*egPrefix(v) + 1 }

func sutuBins(v uint64, width, split int) int {
	n := 0
	for _, u := range units(width, split) {
		cmax := uint64(1)<<uint(u.size) - 1
		n += tuBins(v>>uint(u.shift)&cmax, cmax)
	}
	return n
}

// Bins returns the number of bins used for the magnitude v. The sign flag
// of the signed schemes isn't included.
func Bins(s *Scheme, v uint64) (n int, err error) {
	if err = s.Verify(); err != nil {
		return 0, err
	}
	if err = s.check(v); err != nil {
		return 0, err
	}
	switch p := s.Params.(type) {
	case param.BinaryCoding:
		return s.Width, nil
	case param.TruncatedUnary:
		return tuBins(v, uint64(p.CMax)), nil
	case param.ExpGolomb, param.SignedExpGolomb:
		return egBins(v), nil
	case param.TruncatedExpGolomb:
		return tegBins(v, uint64(p.CMaxTEG)), nil
	case param.SignedTruncatedExpGolomb:
		return tegBins(v, uint64(p.CMaxTEG)), nil
	case param.SplitUnitTU:
		return sutuBins(v, s.Width, int(p.SplitUnitSize)), nil
	case param.SignedSplitUnitTU:
		return sutuBins(v, s.Width, int(p.SplitUnitSize)), nil
	case param.DoubleTU:
		return dtuBins(v, uint64(p.CMaxDTU), s.Width,
			int(p.SplitUnitSize)), nil
	case param.SignedDoubleTU:
		return dtuBins(v, uint64(p.CMaxDTU), s.Width,
			int(p.SplitUnitSize)), nil
	}
	return 0, errs.Config("binarize: unsupported parameters %T", s.Params)
}

func tegBins(v, cmax uint64) int {
	n := tuBins(min64(v, cmax), cmax)
	if v >= cmax {
		n += egBins(v - cmax)
	}
	return n
}

func dtuBins(v, cmax uint64, width, split int) int {
	n := tuBins(min64(v, cmax), cmax)
	if v >= cmax {
		n += sutuBins(v-cmax, width, split)
	}
	return n
}
