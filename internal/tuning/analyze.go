package tuning

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac"
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/param"
	"github.com/ulikunitz/gabac/transform"
)

// Parameters of the match and RLE transforms tried by Analyze.
const (
	AnalyzeBufferSize = 255
	AnalyzeGuard      = 255
)

// Transforms returns the subsequence transforms tried by Analyze.
func Transforms() []param.TransformParameters {
	return []param.TransformParameters{
		param.NoTransform{},
		param.EqualityCoding{},
		param.MatchCoding{BufferSize: AnalyzeBufferSize},
		param.RLECoding{Guard: AnalyzeGuard},
	}
}

// Result describes the best configuration found by Analyze.
type Result struct {
	Config *param.Subsequence
	// size of the coded subsequence
	Size int
	// number of stream configurations coded
	Tried int
}

// symbolBits returns the number of bits required for the largest symbol;
// at least one.
func symbolBits(symbols []uint64) int {
	var m uint64
	for _, x := range symbols {
		m |= x
	}
	return max(bits.Len64(m), 1)
}

// binarizations returns the context-coded binarizations tried for
// sub-symbols of css bits.
func binarizations(css int) []param.BinarizationParameters {
	b := []param.BinarizationParameters{param.BinaryCoding{}}
	if css <= 8 {
		b = append(b, param.TruncatedUnary{CMax: uint8(1<<uint(css) - 1)})
	}
	return append(b, param.ExpGolomb{})
}

// Candidates returns the stream configurations tried for a stream of
// symbols of the given bit width. The output symbol size is split into one,
// two, four or eight sub-symbols; each split is tried with the coding
// orders 0 to 2, the LUT transform for orders above zero and diff coding
// for order 0. The list starts with a bypass coded BI configuration, which
// accepts every stream of the width.
func Candidates(width int) []param.TransformedSubseq {
	oss := uint8(width)
	c := []param.TransformedSubseq{{
		Support: param.SupportValues{OutputSymbolSize: oss,
			CodingSubsymSize: oss},
		Binarization: param.Binarization{Params: param.BinaryCoding{},
			Bypass: true},
	}}
	for _, ratio := range []int{1, 2, 4, 8} {
		if width%ratio != 0 {
			continue
		}
		css := width / ratio
		for order := 0; order <= param.MaxCodingOrder; order++ {
			// larger alphabets exceed the context table
			if (order == 1 && css > 16) || (order == 2 && css > 8) {
				continue
			}
			transforms := []param.SubsymTransformID{param.SubsymNone}
			switch {
			case order == 0:
				transforms = append(transforms, param.SubsymDiff)
			case css <= 8:
				transforms = append(transforms, param.SubsymLUT)
			}
			for _, st := range transforms {
				for _, b := range binarizations(css) {
					c = append(c, param.TransformedSubseq{
						SubsymTransform: st,
						Support: param.SupportValues{
							OutputSymbolSize: oss,
							CodingSubsymSize: uint8(css),
							CodingOrder:      uint8(order),
						},
						Binarization: param.Binarization{
							Params: b,
							Context: &param.ContextParameters{
								AdaptiveMode: true},
						},
					})
				}
			}
		}
	}
	return c
}

// bestStream returns the candidate coding the stream in the fewest bytes.
// Candidates failing verification or rejecting a symbol are skipped.
func bestStream(stream []uint64, tried *int) (best param.TransformedSubseq, size int, err error) {
	width := symbolBits(stream)
	if width > param.MaxOutputSymbolSize {
		return best, 0, errs.Range(
			"tuning: %d-bit symbols exceed output_symbol_size %d",
			width, param.MaxOutputSymbolSize)
	}
	size = -1
	for _, c := range Candidates(width) {
		if c.Verify() != nil {
			continue
		}
		p, err := gabac.EncodeStream(&c, stream)
		if err != nil {
			continue
		}
		*tried++
		if size < 0 || len(p) < size {
			best, size = c, len(p)
		}
	}
	if size < 0 {
		return best, 0, errs.Config("tuning: no stream configuration applies")
	}
	return best, size, nil
}

// Analyze searches for the configuration coding the symbols in the fewest
// bytes. Every transform of Transforms is applied and each transformed
// stream gets the best of its Candidates independently. The subsequence
// with the smallest payload, framing included, wins; ties keep the earlier
// transform.
func Analyze(id uint16, symbols []uint64) (*Result, error) {
	var best *Result
	tried := 0
	for _, t := range Transforms() {
		streams, err := transform.Forward(t, symbols)
		if err != nil {
			return nil, err
		}
		cfgs := make([]param.TransformedSubseq, len(streams))
		for i, st := range streams {
			if cfgs[i], _, err = bestStream(st, &tried); err != nil {
				break
			}
		}
		if err != nil {
			// the transform creates streams no configuration can code
			continue
		}
		cfg, err := param.NewSubsequence(id, t, cfgs...)
		if err != nil {
			return nil, errors.Wrapf(err, "tuning: %s", t.ID())
		}
		p, err := gabac.EncodeSubsequence(cfg, symbols)
		if err != nil {
			return nil, errors.Wrapf(err, "tuning: %s", t.ID())
		}
		if best == nil || len(p) < best.Size {
			best = &Result{Config: cfg, Size: len(p)}
		}
	}
	if best == nil {
		return nil, errs.Config("tuning: no transform applies")
	}
	best.Tried = tried
	return best, nil
}
