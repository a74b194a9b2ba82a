package param

import (
	"fmt"

	"github.com/AlekSi/pointer"

	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/internal/bitio"
)

// BinarizationID identifies a binarization scheme.
type BinarizationID uint8

// Binarization identifiers as written on the wire.
const (
	BI BinarizationID = iota
	TU
	EG
	SEG
	TEG
	STEG
	SUTU
	SSUTU
	DTU
	SDTU

	numBinarizations
)

var binarizationNames = [numBinarizations]string{
	"BI", "TU", "EG", "SEG", "TEG", "STEG", "SUTU", "SSUTU", "DTU", "SDTU",
}

func (id BinarizationID) String() string {
	if id < numBinarizations {
		return binarizationNames[id]
	}
	return fmt.Sprintf("BinarizationID(%d)", uint8(id))
}

// Signed reports whether the scheme codes a sign flag.
func (id BinarizationID) Signed() bool {
	switch id {
	case SEG, STEG, SSUTU, SDTU:
		return true
	}
	return false
}

// ParseBinarizationID converts the name of a binarization into its id.
func ParseBinarizationID(s string) (BinarizationID, error) {
	for i, name := range binarizationNames {
		if name == s {
			return BinarizationID(i), nil
		}
	}
	return 0, errs.Config("unknown binarization %q", s)
}

// BinarizationParameters are the parameters of a binarization. Every
// binarization id has its own variant, which holds exactly the parameters
// the id requires.
type BinarizationParameters interface {
	ID() BinarizationID
	verify() error
	write(w *bitio.Writer)
}

// BinaryCoding codes coding_subsym_size bits per value.
type BinaryCoding struct{}

// TruncatedUnary codes values in [0,CMax] as ones followed by a zero.
type TruncatedUnary struct{ CMax uint8 }

// ExpGolomb is the zero-order exponential Golomb code.
type ExpGolomb struct{}

// SignedExpGolomb codes the magnitude with ExpGolomb followed by a sign.
type SignedExpGolomb struct{}

// TruncatedExpGolomb codes values below CMaxTEG truncated unary and escapes
// larger values into ExpGolomb.
type TruncatedExpGolomb struct{ CMaxTEG uint8 }

// SignedTruncatedExpGolomb adds a sign to TruncatedExpGolomb.
type SignedTruncatedExpGolomb struct{ CMaxTEG uint8 }

// SplitUnitTU codes a value in units of SplitUnitSize bits, each unit
// truncated unary.
type SplitUnitTU struct{ SplitUnitSize uint8 }

// SignedSplitUnitTU adds a sign to SplitUnitTU.
type SignedSplitUnitTU struct{ SplitUnitSize uint8 }

// DoubleTU codes values below CMaxDTU truncated unary and the remainder
// with split units.
type DoubleTU struct {
	CMaxDTU       uint8
	SplitUnitSize uint8
}

// SignedDoubleTU adds a sign to DoubleTU.
type SignedDoubleTU struct {
	CMaxDTU       uint8
	SplitUnitSize uint8
}

func (BinaryCoding) ID() BinarizationID             { return BI }
func (TruncatedUnary) ID() BinarizationID           { return TU }
func (ExpGolomb) ID() BinarizationID                { return EG }
func (SignedExpGolomb) ID() BinarizationID          { return SEG }
func (TruncatedExpGolomb) ID() BinarizationID       { return TEG }
func (SignedTruncatedExpGolomb) ID() BinarizationID { return STEG }
func (SplitUnitTU) ID() BinarizationID              { return SUTU }
func (SignedSplitUnitTU) ID() BinarizationID        { return SSUTU }
func (DoubleTU) ID() BinarizationID                 { return DTU }
func (SignedDoubleTU) ID() BinarizationID           { return SDTU }

func verifySplitUnitSize(s uint8) error {
	if !(1 <= s && s <= 15) {
		return errs.Range("split_unit_size %d outside [1,15]", s)
	}
	return nil
}

func (BinaryCoding) verify() error { return nil }

func (p TruncatedUnary) verify() error {
	if p.CMax == 0 {
		return errs.Range("TU cmax must be positive")
	}
	return nil
}

func (ExpGolomb) verify() error                { return nil }
func (SignedExpGolomb) verify() error          { return nil }
func (TruncatedExpGolomb) verify() error       { return nil }
func (SignedTruncatedExpGolomb) verify() error { return nil }

func (p SplitUnitTU) verify() error {
	return verifySplitUnitSize(p.SplitUnitSize)
}

func (p SignedSplitUnitTU) verify() error {
	return verifySplitUnitSize(p.SplitUnitSize)
}

func (p DoubleTU) verify() error {
	return verifySplitUnitSize(p.SplitUnitSize)
}

func (p SignedDoubleTU) verify() error {
	return verifySplitUnitSize(p.SplitUnitSize)
}

func (BinaryCoding) write(w *bitio.Writer)    {}
func (ExpGolomb) write(w *bitio.Writer)       {}
func (SignedExpGolomb) write(w *bitio.Writer) {}

func (p TruncatedUnary) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.CMax), 8)
}

func (p SplitUnitTU) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.SplitUnitSize), 4)
}

func (p SignedSplitUnitTU) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.SplitUnitSize), 4)
}

func (p TruncatedExpGolomb) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.CMaxTEG), 8)
}

func (p SignedTruncatedExpGolomb) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.CMaxTEG), 8)
}

func (p DoubleTU) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.CMaxDTU), 8)
	w.WriteBits(uint64(p.SplitUnitSize), 4)
}

func (p SignedDoubleTU) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.CMaxDTU), 8)
	w.WriteBits(uint64(p.SplitUnitSize), 4)
}

// paramCount gives the number of parameters of each binarization.
var paramCount = [numBinarizations]int{
	BI: 0, TU: 1, EG: 0, SEG: 0, TEG: 1, STEG: 1,
	SUTU: 1, SSUTU: 1, DTU: 2, SDTU: 2,
}

// NewBinarizationParameters creates the parameter variant for id. The
// parameters are cmax for TU, cmax_teg for TEG and STEG, split_unit_size for
// SUTU and SSUTU and cmax_dtu followed by split_unit_size for DTU and SDTU.
// A wrong number of parameters is a configuration error.
func NewBinarizationParameters(id BinarizationID, params ...uint8) (BinarizationParameters, error) {
	if id >= numBinarizations {
		return nil, errs.Config("unknown binarization id %d", id)
	}
	if len(params) != paramCount[id] {
		return nil, errs.Config("%s requires %d parameters; got %d",
			id, paramCount[id], len(params))
	}
	var p BinarizationParameters
	switch id {
	case BI:
		p = BinaryCoding{}
	case TU:
		p = TruncatedUnary{CMax: params[0]}
	case EG:
		p = ExpGolomb{}
	case SEG:
		p = SignedExpGolomb{}
	case TEG:
		p = TruncatedExpGolomb{CMaxTEG: params[0]}
	case STEG:
		p = SignedTruncatedExpGolomb{CMaxTEG: params[0]}
	case SUTU:
		p = SplitUnitTU{SplitUnitSize: params[0]}
	case SSUTU:
		p = SignedSplitUnitTU{SplitUnitSize: params[0]}
	case DTU:
		p = DoubleTU{CMaxDTU: params[0], SplitUnitSize: params[1]}
	case SDTU:
		p = SignedDoubleTU{CMaxDTU: params[0], SplitUnitSize: params[1]}
	}
	if err := p.verify(); err != nil {
		return nil, err
	}
	return p, nil
}

// readBinarizationParameters reads the parameters of id.
func readBinarizationParameters(r *bitio.Reader, id BinarizationID) (BinarizationParameters, error) {
	if id >= numBinarizations {
		return nil, errs.Config("unknown binarization id %d", id)
	}
	var params []uint8
	switch id {
	case TU, TEG, STEG:
		v, err := r.ReadBits(8)
		if err != nil {
			return nil, err
		}
		params = append(params, uint8(v))
	case SUTU, SSUTU:
		v, err := r.ReadBits(4)
		if err != nil {
			return nil, err
		}
		params = append(params, uint8(v))
	case DTU, SDTU:
		c, err := r.ReadBits(8)
		if err != nil {
			return nil, err
		}
		s, err := r.ReadBits(4)
		if err != nil {
			return nil, err
		}
		params = append(params, uint8(c), uint8(s))
	}
	return NewBinarizationParameters(id, params...)
}

// Fields lists the parameters of a binarization as optional values. A nil
// pointer marks a parameter the binarization doesn't have.
type Fields struct {
	CMax          *uint8 `json:"cmax,omitempty" yaml:"cmax,omitempty"`
	CMaxTEG       *uint8 `json:"cmax_teg,omitempty" yaml:"cmax_teg,omitempty"`
	CMaxDTU       *uint8 `json:"cmax_dtu,omitempty" yaml:"cmax_dtu,omitempty"`
	SplitUnitSize *uint8 `json:"split_unit_size,omitempty" yaml:"split_unit_size,omitempty"`
}

// FieldsOf returns the populated fields of the binarization parameters.
func FieldsOf(p BinarizationParameters) Fields {
	switch p := p.(type) {
	case TruncatedUnary:
		return Fields{CMax: pointer.ToUint8(p.CMax)}
	case TruncatedExpGolomb:
		return Fields{CMaxTEG: pointer.ToUint8(p.CMaxTEG)}
	case SignedTruncatedExpGolomb:
		return Fields{CMaxTEG: pointer.ToUint8(p.CMaxTEG)}
	case SplitUnitTU:
		return Fields{SplitUnitSize: pointer.ToUint8(p.SplitUnitSize)}
	case SignedSplitUnitTU:
		return Fields{SplitUnitSize: pointer.ToUint8(p.SplitUnitSize)}
	case DoubleTU:
		return Fields{CMaxDTU: pointer.ToUint8(p.CMaxDTU),
			SplitUnitSize: pointer.ToUint8(p.SplitUnitSize)}
	case SignedDoubleTU:
		return Fields{CMaxDTU: pointer.ToUint8(p.CMaxDTU),
			SplitUnitSize: pointer.ToUint8(p.SplitUnitSize)}
	}
	return Fields{}
}

// Build creates the parameters for id from the fields. Missing fields
// required by id and fields id doesn't have are configuration errors.
func (f Fields) Build(id BinarizationID) (BinarizationParameters, error) {
	if id >= numBinarizations {
		return nil, errs.Config("unknown binarization id %d", id)
	}
	type field struct {
		name string
		v    *uint8
	}
	var want []field
	switch id {
	case TU:
		want = []field{{"cmax", f.CMax}}
	case TEG, STEG:
		want = []field{{"cmax_teg", f.CMaxTEG}}
	case SUTU, SSUTU:
		want = []field{{"split_unit_size", f.SplitUnitSize}}
	case DTU, SDTU:
		want = []field{{"cmax_dtu", f.CMaxDTU},
			{"split_unit_size", f.SplitUnitSize}}
	}
	n := 0
	for _, v := range []*uint8{f.CMax, f.CMaxTEG, f.CMaxDTU, f.SplitUnitSize} {
		if v != nil {
			n++
		}
	}
	params := make([]uint8, 0, len(want))
	for _, w := range want {
		if w.v == nil {
			return nil, errs.Config("%s requires %s", id, w.name)
		}
		params = append(params, *w.v)
	}
	if n != len(want) {
		return nil, errs.Config("%s has %d parameters; got %d",
			id, len(want), n)
	}
	return NewBinarizationParameters(id, params...)
}
