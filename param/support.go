package param

import (
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/internal/bitio"
)

// Limits of the support values.
const (
	MaxOutputSymbolSize = 32
	MaxCodingOrder      = 2
)

// SupportValues control the split of symbols into sub-symbols and the
// number of previous sub-symbols used for context selection.
//
// The share flags exist only if CodingSubsymSize is less than
// OutputSymbolSize and CodingOrder is positive; ShareSubsymLUT additionally
// requires the LUT transform. A flag that doesn't exist must be false.
type SupportValues struct {
	OutputSymbolSize uint8
	CodingSubsymSize uint8
	CodingOrder      uint8
	ShareSubsymLUT   bool
	ShareSubsymPRV   bool
}

// hasShareFlags reports whether the share flags are present.
func (s *SupportValues) hasShareFlags() bool {
	return s.CodingSubsymSize < s.OutputSymbolSize && s.CodingOrder > 0
}

// NumSubsyms returns the number of sub-symbols of a symbol.
func (s *SupportValues) NumSubsyms() int {
	return int(s.OutputSymbolSize / s.CodingSubsymSize)
}

// verify checks the support values for a stream using the sub-symbol
// transform t.
func (s *SupportValues) verify(t SubsymTransformID) error {
	if !(1 <= s.OutputSymbolSize && s.OutputSymbolSize <= MaxOutputSymbolSize) {
		return errs.Range("output_symbol_size %d outside [1,%d]",
			s.OutputSymbolSize, MaxOutputSymbolSize)
	}
	if s.CodingSubsymSize == 0 || s.CodingSubsymSize > s.OutputSymbolSize {
		return errs.Range(
			"coding_subsym_size %d outside [1,output_symbol_size=%d]",
			s.CodingSubsymSize, s.OutputSymbolSize)
	}
	if s.OutputSymbolSize%s.CodingSubsymSize != 0 {
		return errs.Config(
			"coding_subsym_size %d doesn't divide output_symbol_size %d",
			s.CodingSubsymSize, s.OutputSymbolSize)
	}
	if s.CodingOrder > MaxCodingOrder {
		return errs.Range("coding_order %d exceeds %d",
			s.CodingOrder, MaxCodingOrder)
	}
	if s.ShareSubsymPRV && !s.hasShareFlags() {
		return errs.Config("share_subsym_prv_flag is absent")
	}
	if s.ShareSubsymLUT && !(s.hasShareFlags() && t == SubsymLUT) {
		return errs.Config("share_subsym_lut_flag is absent")
	}
	return nil
}

func (s *SupportValues) write(w *bitio.Writer, t SubsymTransformID) {
	w.WriteBits(uint64(s.OutputSymbolSize), 6)
	w.WriteBits(uint64(s.CodingSubsymSize), 6)
	w.WriteBits(uint64(s.CodingOrder), 2)
	if s.hasShareFlags() {
		if t == SubsymLUT {
			w.WriteFlag(s.ShareSubsymLUT)
		}
		w.WriteFlag(s.ShareSubsymPRV)
	}
}

func readSupportValues(r *bitio.Reader, t SubsymTransformID) (s SupportValues, err error) {
	v, err := r.ReadBits(14)
	if err != nil {
		return s, err
	}
	s.OutputSymbolSize = uint8(v >> 8)
	s.CodingSubsymSize = uint8(v>>2) & 0x3f
	s.CodingOrder = uint8(v) & 3
	if s.hasShareFlags() {
		if t == SubsymLUT {
			if s.ShareSubsymLUT, err = r.ReadFlag(); err != nil {
				return s, err
			}
		}
		if s.ShareSubsymPRV, err = r.ReadFlag(); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Clone returns a copy of the support values.
func (s *SupportValues) Clone() *SupportValues {
	c := *s
	return &c
}
