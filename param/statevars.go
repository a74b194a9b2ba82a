package param

import (
	"math/bits"

	"github.com/ulikunitz/gabac/errs"
)

// MaxContexts is the largest context table supported.
const MaxContexts = 1<<16 - 1

// StateVars are the variables derived from a stream configuration that
// drive context selection.
type StateVars struct {
	NumSubsyms     int
	NumAlphaSubsym uint64
	// contexts used by a single sub-symbol value
	NumCtxSubsym         int
	CodingOrderCtxOffset [MaxCodingOrder + 1]int
	CodingSizeCtxOffset  int
	NumCtxLUTs           int
	// size of the context table
	NumCtxTotal int
	NumLUTs     int
	NumPrvs     int
}

// floorLog2 returns floor(log2(v)) for positive v.
func floorLog2(v uint64) int { return bits.Len64(v) - 1 }

// sutuContexts returns the number of contexts of the split-unit TU
// binarization for width bits.
func sutuContexts(width, split int) int {
	return (width/split)*(1<<uint(split)-1) + (1<<uint(width%split) - 1)
}

// numCtxSubsym computes the number of contexts of a sub-symbol. The
// split-unit schemes count their units over oss bits.
func numCtxSubsym(p BinarizationParameters, css, oss int) int {
	eg := floorLog2(uint64(1)<<uint(css)+1) + 1
	switch p := p.(type) {
	case BinaryCoding:
		return css
	case TruncatedUnary:
		return int(p.CMax)
	case ExpGolomb:
		return eg
	case SignedExpGolomb:
		return eg + 1
	case TruncatedExpGolomb:
		return int(p.CMaxTEG) + eg
	case SignedTruncatedExpGolomb:
		return int(p.CMaxTEG) + eg + 1
	case SplitUnitTU:
		return sutuContexts(oss, int(p.SplitUnitSize))
	case SignedSplitUnitTU:
		return sutuContexts(oss, int(p.SplitUnitSize)) + 1
	case DoubleTU:
		return int(p.CMaxDTU) + sutuContexts(oss, int(p.SplitUnitSize))
	case SignedDoubleTU:
		return int(p.CMaxDTU) +
			sutuContexts(oss, int(p.SplitUnitSize)) + 1
	}
	panic("unexpected binarization parameters")
}

// BinarizationWidth returns the bit width a sub-symbol is binarized with.
// The split-unit and double-TU schemes split output_symbol_size bits into
// units, all others use coding_subsym_size bits.
func (c *TransformedSubseq) BinarizationWidth() int {
	switch c.Binarization.Params.(type) {
	case SplitUnitTU, SignedSplitUnitTU, DoubleTU, SignedDoubleTU:
		return int(c.Support.OutputSymbolSize)
	}
	return int(c.Support.CodingSubsymSize)
}

// satMul multiplies saturating at MaxContexts+1.
func satMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 || lo > MaxContexts {
		return MaxContexts + 1
	}
	return lo
}

// StateVars verifies the configuration and computes its state variables.
// Tables exceeding MaxContexts or smaller than a non-zero NumContexts
// requires are range errors.
func (c *TransformedSubseq) StateVars() (sv StateVars, err error) {
	if err = c.verify(); err != nil {
		return sv, err
	}
	s := &c.Support
	css := int(s.CodingSubsymSize)
	sv.NumSubsyms = s.NumSubsyms()
	sv.NumAlphaSubsym = uint64(1) << uint(css)
	sv.NumCtxSubsym = numCtxSubsym(c.Binarization.Params, css,
		int(s.OutputSymbolSize))

	if s.CodingOrder > 0 {
		sv.NumPrvs = sv.NumSubsyms
		if s.ShareSubsymPRV {
			sv.NumPrvs = 1
		}
	}
	if c.SubsymTransform == SubsymLUT {
		sv.NumLUTs = sv.NumSubsyms
		if s.ShareSubsymLUT {
			sv.NumLUTs = 1
		}
		sv.NumCtxLUTs = (css/2)*3 + (1<<uint(css%2) - 1)
	}
	if c.SubsymTransform == SubsymDiff {
		sv.NumPrvs = sv.NumSubsyms
	}

	ctx := c.Binarization.Context
	if ctx == nil {
		// bypass coding uses no contexts
		return sv, nil
	}

	// per sub-symbol context count
	perSubsym := uint64(sv.NumCtxSubsym)
	offset := uint64(sv.NumCtxSubsym)
	for i := 1; i <= int(s.CodingOrder); i++ {
		sv.CodingOrderCtxOffset[i] = int(offset)
		offset = satMul(offset, sv.NumAlphaSubsym)
		perSubsym = offset
	}
	if perSubsym > MaxContexts {
		return sv, errs.Range("%d contexts per sub-symbol exceed %d",
			perSubsym, MaxContexts)
	}
	if !ctx.ShareSubsymCtx {
		sv.CodingSizeCtxOffset = int(perSubsym)
	}
	n := uint64(1)
	if !ctx.ShareSubsymCtx {
		n = uint64(sv.NumSubsyms)
	}
	total := uint64(sv.NumCtxLUTs) + satMul(n, perSubsym)
	if total > MaxContexts {
		return sv, errs.Range("%d contexts exceed %d",
			total, MaxContexts)
	}
	sv.NumCtxTotal = int(total)
	if ctx.NumContexts != 0 {
		if int(ctx.NumContexts) < sv.NumCtxTotal {
			return sv, errs.Range(
				"num_contexts %d less than the %d required",
				ctx.NumContexts, sv.NumCtxTotal)
		}
		sv.NumCtxTotal = int(ctx.NumContexts)
	}
	return sv, nil
}
