package gabac

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/param"
	"github.com/ulikunitz/gabac/transform"
	"github.com/ulikunitz/gabac/xlog"
)

// sizeLen is the length of the size and count fields of the payload.
const sizeLen = 4

// EncodeSubsequence transforms the symbols and codes the transformed
// streams.
//
// Every stream except the last one is prefixed by the size of its frame as
// 32-bit big-endian value. If the transform creates more than one stream, a
// non-empty frame starts with the number of symbols of the stream.
func EncodeSubsequence(cfg *param.Subsequence, symbols []uint64) ([]byte, error) {
	if cfg == nil {
		return nil, errs.Config("gabac: subsequence configuration missing")
	}
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if uint64(len(symbols)) > math.MaxUint32 {
		return nil, errs.Range("gabac: %d symbols exceed the 32-bit count",
			len(symbols))
	}
	streams, err := transform.Forward(cfg.Transform, symbols)
	if err != nil {
		return nil, err
	}
	multi := len(streams) > 1
	var out []byte
	for i, st := range streams {
		p, err := EncodeStream(&cfg.Streams[i], st)
		if err != nil {
			return nil, errors.Wrapf(err, "gabac: stream %d", i)
		}
		var frame []byte
		if multi && len(p) > 0 {
			frame = binary.BigEndian.AppendUint32(frame, uint32(len(st)))
		}
		frame = append(frame, p...)
		if i < len(streams)-1 {
			if uint64(len(frame)) > math.MaxUint32 {
				return nil, errs.Range(
					"gabac: stream %d of %d bytes too large",
					i, len(frame))
			}
			out = binary.BigEndian.AppendUint32(out, uint32(len(frame)))
		}
		out = append(out, frame...)
		xlog.Printf(debug, "gabac: subsequence %d stream %d: %d symbols, %d bytes",
			cfg.ID, i, len(st), len(frame))
	}
	return out, nil
}

// splitFrames splits the payload into the frames of k streams.
func splitFrames(payload []byte, k int) ([][]byte, error) {
	frames := make([][]byte, k)
	for i := 0; i < k-1; i++ {
		if len(payload) < sizeLen {
			return nil, errs.Exhausted(
				"gabac: size of stream %d missing", i)
		}
		n := binary.BigEndian.Uint32(payload)
		payload = payload[sizeLen:]
		if uint64(len(payload)) < uint64(n) {
			return nil, errs.Exhausted(
				"gabac: stream %d has %d of %d bytes",
				i, len(payload), n)
		}
		frames[i], payload = payload[:n], payload[n:]
	}
	frames[k-1] = payload
	return frames, nil
}

// DecodeSubsequence decodes a payload written by EncodeSubsequence. The
// argument n gives the number of symbols of the subsequence.
func DecodeSubsequence(cfg *param.Subsequence, payload []byte, n int) ([]uint64, error) {
	if cfg == nil {
		return nil, errs.Config("gabac: subsequence configuration missing")
	}
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errs.Config("gabac: negative symbol count %d", n)
	}
	k := cfg.Transform.NumStreams()
	frames, err := splitFrames(payload, k)
	if err != nil {
		return nil, err
	}
	streams := make([][]uint64, k)
	for i, frame := range frames {
		m := n
		if k > 1 {
			m = 0
			if len(frame) > 0 {
				if len(frame) < sizeLen {
					return nil, errs.Exhausted(
						"gabac: symbol count of stream %d missing",
						i)
				}
				m = int(binary.BigEndian.Uint32(frame))
				frame = frame[sizeLen:]
			}
			// every transformed stream symbol yields at least one
			// symbol of the subsequence
			if m > n {
				return nil, errs.Range(
					"gabac: stream %d count %d exceeds %d symbols",
					i, m, n)
			}
		}
		streams[i], err = DecodeStream(&cfg.Streams[i], frame, m)
		if err != nil {
			return nil, errors.Wrapf(err, "gabac: stream %d", i)
		}
	}
	symbols, err := transform.Inverse(cfg.Transform, streams, n)
	if err != nil {
		return nil, err
	}
	if len(symbols) != n {
		return nil, errs.Range("gabac: decoded %d symbols; want %d",
			len(symbols), n)
	}
	return symbols, nil
}
