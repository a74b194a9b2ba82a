package param

import (
	"fmt"

	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/internal/bitio"
)

// TransformID identifies the transform of a subsequence.
type TransformID uint8

// Transform identifiers. Merge coding is part of the wire format but not
// supported.
const (
	NoTransformID TransformID = iota
	EqualityCodingID
	MatchCodingID
	RLECodingID
	MergeCodingID
)

func (id TransformID) String() string {
	switch id {
	case NoTransformID:
		return "no_transform"
	case EqualityCodingID:
		return "equality_coding"
	case MatchCodingID:
		return "match_coding"
	case RLECodingID:
		return "rle_coding"
	case MergeCodingID:
		return "merge_coding"
	}
	return fmt.Sprintf("TransformID(%d)", uint8(id))
}

// TransformParameters are the parameters of a subsequence transform. Each
// supported transform id has its own variant.
type TransformParameters interface {
	ID() TransformID
	// NumStreams returns the number of transformed streams.
	NumStreams() int
	verify() error
	write(w *bitio.Writer)
}

// NoTransform passes the subsequence through as a single stream.
type NoTransform struct{}

// EqualityCoding produces a flag stream and a stream of the unequal values.
type EqualityCoding struct{}

// MatchCoding produces pointer, length and raw value streams. BufferSize
// is the number of previous symbols searched for matches.
type MatchCoding struct{ BufferSize uint16 }

// RLECoding produces run length and value streams. Runs longer than Guard
// are split.
type RLECoding struct{ Guard uint8 }

func (NoTransform) ID() TransformID    { return NoTransformID }
func (EqualityCoding) ID() TransformID { return EqualityCodingID }
func (MatchCoding) ID() TransformID    { return MatchCodingID }
func (RLECoding) ID() TransformID      { return RLECodingID }

func (NoTransform) NumStreams() int    { return 1 }
func (EqualityCoding) NumStreams() int { return 2 }
func (MatchCoding) NumStreams() int    { return 3 }
func (RLECoding) NumStreams() int      { return 2 }

func (NoTransform) verify() error    { return nil }
func (EqualityCoding) verify() error { return nil }

func (p MatchCoding) verify() error {
	if p.BufferSize == 0 {
		return errs.Config("match coding buffer size must be positive")
	}
	return nil
}

func (p RLECoding) verify() error {
	if p.Guard == 0 {
		return errs.Config("rle guard must be positive")
	}
	return nil
}

func (p NoTransform) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.ID()), 8)
}

func (p EqualityCoding) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.ID()), 8)
}

func (p MatchCoding) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.ID()), 8)
	w.WriteBits(uint64(p.BufferSize), 16)
}

func (p RLECoding) write(w *bitio.Writer) {
	w.WriteBits(uint64(p.ID()), 8)
	w.WriteBits(uint64(p.Guard), 8)
}

// NewTransformParameters creates the transform variant for id. The match
// buffer size and the RLE guard are passed as param; the other transforms
// require a zero param. Merge coding is a configuration error.
func NewTransformParameters(id TransformID, param uint16) (TransformParameters, error) {
	var p TransformParameters
	switch id {
	case NoTransformID, EqualityCodingID:
		if param != 0 {
			return nil, errs.Config("%s takes no parameter; got %d",
				id, param)
		}
		p = NoTransform{}
		if id == EqualityCodingID {
			p = EqualityCoding{}
		}
	case MatchCodingID:
		p = MatchCoding{BufferSize: param}
	case RLECodingID:
		if param > 0xff {
			return nil, errs.Range("rle guard %d exceeds 255", param)
		}
		p = RLECoding{Guard: uint8(param)}
	case MergeCodingID:
		return nil, errs.Config("merge coding is not supported")
	default:
		return nil, errs.Config("unknown transform id %d", id)
	}
	if err := p.verify(); err != nil {
		return nil, err
	}
	return p, nil
}

func readTransformParameters(r *bitio.Reader) (TransformParameters, error) {
	v, err := r.ReadBits(8)
	if err != nil {
		return nil, err
	}
	id := TransformID(v)
	var param uint64
	switch id {
	case MatchCodingID:
		param, err = r.ReadBits(16)
	case RLECodingID:
		param, err = r.ReadBits(8)
	case MergeCodingID:
		var n uint64
		n, err = r.ReadBits(4)
		for i := uint64(0); i < n && err == nil; i++ {
			_, err = r.ReadBits(5)
		}
	}
	if err != nil {
		return nil, err
	}
	return NewTransformParameters(id, uint16(param))
}

// SubsymTransformID identifies the sub-symbol transform of a stream.
type SubsymTransformID uint8

// Sub-symbol transforms.
const (
	SubsymNone SubsymTransformID = iota
	SubsymLUT
	SubsymDiff
)

func (id SubsymTransformID) String() string {
	switch id {
	case SubsymNone:
		return "none"
	case SubsymLUT:
		return "lut"
	case SubsymDiff:
		return "diff"
	}
	return fmt.Sprintf("SubsymTransformID(%d)", uint8(id))
}
