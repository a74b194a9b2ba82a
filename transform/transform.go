// Package transform implements the subsequence transforms applied before
// binarization. A transform splits a subsequence of symbols into one to
// three streams; the inverse transform merges the streams back.
package transform

import (
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/param"
)

// Forward applies the transform described by p to the symbols and returns
// the transformed streams. The number of streams is p.NumStreams().
func Forward(p param.TransformParameters, symbols []uint64) ([][]uint64, error) {
	switch p := p.(type) {
	case param.NoTransform:
		return [][]uint64{symbols}, nil
	case param.EqualityCoding:
		flags, values := Equality(symbols)
		return [][]uint64{flags, values}, nil
	case param.RLECoding:
		if p.Guard == 0 {
			return nil, errs.Config("transform: rle guard must be positive")
		}
		lengths, values := RLE(symbols, p.Guard)
		return [][]uint64{lengths, values}, nil
	case param.MatchCoding:
		if p.BufferSize == 0 {
			return nil, errs.Config(
				"transform: match buffer size must be positive")
		}
		ptrs, lengths, raw := Match(symbols, int(p.BufferSize))
		return [][]uint64{ptrs, lengths, raw}, nil
	case nil:
		return nil, errs.Config("transform: parameters missing")
	}
	return nil, errs.Config("transform: %s is not supported", p.ID())
}

// Inverse merges the streams produced by Forward into the original
// subsequence. Streams expanding to more than limit symbols are a range
// error.
func Inverse(p param.TransformParameters, streams [][]uint64, limit int) ([]uint64, error) {
	if p == nil {
		return nil, errs.Config("transform: parameters missing")
	}
	if limit < 0 {
		return nil, errs.Config("transform: negative limit %d", limit)
	}
	if len(streams) != p.NumStreams() {
		return nil, errs.Config("transform: %s requires %d streams; got %d",
			p.ID(), p.NumStreams(), len(streams))
	}
	switch p := p.(type) {
	case param.NoTransform:
		if len(streams[0]) > limit {
			return nil, errs.Range("transform: %d symbols exceed %d",
				len(streams[0]), limit)
		}
		return streams[0], nil
	case param.EqualityCoding:
		return InverseEquality(streams[0], streams[1], limit)
	case param.RLECoding:
		return InverseRLE(streams[0], streams[1], p.Guard, limit)
	case param.MatchCoding:
		return InverseMatch(streams[0], streams[1], streams[2], limit)
	}
	return nil, errs.Config("transform: %s is not supported", p.ID())
}
