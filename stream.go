package gabac

import (
	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac/binarize"
	"github.com/ulikunitz/gabac/cabac"
	"github.com/ulikunitz/gabac/ctxmodel"
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/param"
	"github.com/ulikunitz/gabac/xlog"
)

// streamCoder holds the state of a single transformed stream. Encoding and
// decoding evolve it identically.
type streamCoder struct {
	cfg    *param.TransformedSubseq
	sv     param.StateVars
	oss    int
	css    int
	mask   uint64
	order  int
	signed bool
	scheme binarize.Scheme
	table  *ctxmodel.Table
	sel    binarize.FlatSelector
	// previous sub-symbol values, most recent first
	prv  [][param.MaxCodingOrder]uint64
	luts []*lut
}

func newStreamCoder(cfg *param.TransformedSubseq) (*streamCoder, error) {
	if cfg == nil {
		return nil, errs.Config("gabac: stream configuration missing")
	}
	sv, err := cfg.StateVars()
	if err != nil {
		return nil, err
	}
	s := &cfg.Support
	b := &cfg.Binarization
	c := &streamCoder{
		cfg:    cfg,
		sv:     sv,
		oss:    int(s.OutputSymbolSize),
		css:    int(s.CodingSubsymSize),
		order:  int(s.CodingOrder),
		signed: b.Params.ID().Signed(),
		scheme: binarize.Scheme{
			Params: b.Params,
			Width:  cfg.BinarizationWidth(),
			Bypass: b.Bypass,
			// a sub-symbol of css bits has an EG prefix of css bins at
			// most
			MaxPrefix: min(int(s.CodingSubsymSize), 63),
		},
	}
	c.mask = uint64(1)<<uint(c.css) - 1
	n := sv.NumPrvs
	if n < 1 {
		n = 1
	}
	c.prv = make([][param.MaxCodingOrder]uint64, n)
	if !b.Bypass {
		ctx := b.Context
		c.table, err = ctxmodel.NewTable(sv.NumCtxTotal,
			ctx.InitValues, ctx.AdaptiveMode)
		if err != nil {
			return nil, err
		}
		c.sel = binarize.FlatSelector{
			Table:     c.table,
			SignIndex: sv.NumCtxTotal - 1,
		}
	}
	return c, nil
}

func (c *streamCoder) prvIndex(s int) int {
	if c.sv.NumPrvs > 1 {
		return s
	}
	return 0
}

func (c *streamCoder) reset() {
	for i := range c.prv {
		c.prv[i] = [param.MaxCodingOrder]uint64{}
	}
}

// subsym returns sub-symbol s of the magnitude; sub-symbol 0 holds the
// most significant bits.
func (c *streamCoder) subsym(mag uint64, s int) uint64 {
	return mag >> uint(c.oss-(s+1)*c.css) & c.mask
}

// selector returns the selector for sub-symbol s with the context base
// derived from the previous sub-symbol values. Bypass streams return nil.
func (c *streamCoder) selector(s int) binarize.Selector {
	if c.table == nil {
		return nil
	}
	p := &c.prv[c.prvIndex(s)]
	base := c.sv.NumCtxLUTs + s*c.sv.CodingSizeCtxOffset
	for i := 1; i <= c.order; i++ {
		base += int(p[i-1]) * c.sv.CodingOrderCtxOffset[i]
	}
	c.sel.Base = base
	return &c.sel
}

func (c *streamCoder) signSelector() binarize.Selector {
	if c.table == nil {
		return nil
	}
	return &c.sel
}

func (c *streamCoder) update(s int, sub uint64) {
	p := &c.prv[c.prvIndex(s)]
	switch c.order {
	case 2:
		p[1] = p[0]
		p[0] = sub
	case 1:
		p[0] = sub
	}
}

// magnitude returns the magnitude and sign of the symbol x. Symbols of
// signed binarizations are two's complement values.
func (c *streamCoder) magnitude(x uint64) (mag uint64, negative bool, err error) {
	mag = x
	if c.signed && int64(x) < 0 {
		mag, negative = -x, true
	}
	if mag>>uint(c.oss) != 0 {
		return 0, false, errs.Range(
			"gabac: symbol %d exceeds output_symbol_size %d",
			int64(x), c.oss)
	}
	return mag, negative, nil
}

func (c *streamCoder) isDiff() bool {
	return c.cfg.SubsymTransform == param.SubsymDiff
}

func (c *streamCoder) encodeSymbol(e *cabac.Encoder, mag uint64, negative bool) error {
	for s := 0; s < c.sv.NumSubsyms; s++ {
		sub := c.subsym(mag, s)
		v, sc := sub, &c.scheme
		switch {
		case c.luts != nil:
			t := c.luts[c.lutIndex(s)]
			r := c.row(s)
			v = t.rank[uint64(r)*c.sv.NumAlphaSubsym+sub]
			sc = c.lutScheme(t.rows[r])
		case c.isDiff():
			p := &c.prv[c.prvIndex(s)][0]
			if sub < *p {
				return errs.Range(
					"gabac: sub-symbol %d less than its predecessor %d",
					sub, *p)
			}
			v = sub - *p
			*p = sub
		}
		if err := binarize.Encode(e, sc, v, c.selector(s)); err != nil {
			return err
		}
		c.update(s, sub)
	}
	if c.signed && mag != 0 {
		binarize.EncodeSign(e, negative, c.scheme.Bypass,
			c.signSelector())
	}
	return nil
}

func (c *streamCoder) decodeSymbol(d *cabac.Decoder) (x uint64, err error) {
	var mag uint64
	for s := 0; s < c.sv.NumSubsyms; s++ {
		sc := &c.scheme
		var t *lut
		var r int
		if c.luts != nil {
			t = c.luts[c.lutIndex(s)]
			r = c.row(s)
			sc = c.lutScheme(t.rows[r])
		}
		v, err := binarize.Decode(d, sc, c.selector(s))
		if err != nil {
			return 0, err
		}
		sub := v
		switch {
		case t != nil:
			row := t.rows[r]
			if v >= uint64(len(row)) {
				return 0, errs.Range(
					"gabac: LUT index %d outside row of %d entries",
					v, len(row))
			}
			sub = row[v]
		case c.isDiff():
			p := &c.prv[c.prvIndex(s)][0]
			sub = *p + v
			if sub < v || sub > c.mask {
				return 0, errs.Range(
					"gabac: sub-symbol %d+%d exceeds %d bits",
					*p, v, c.css)
			}
			*p = sub
		default:
			if sub > c.mask {
				return 0, errs.Range(
					"gabac: sub-symbol %d exceeds %d bits",
					sub, c.css)
			}
		}
		c.update(s, sub)
		mag |= sub << uint(c.oss-(s+1)*c.css)
	}
	if c.signed && mag != 0 {
		negative, err := binarize.DecodeSign(d, c.scheme.Bypass,
			c.signSelector())
		if err != nil {
			return 0, err
		}
		if negative {
			return -mag, nil
		}
	}
	return mag, nil
}

// EncodeStream codes the symbols of a single transformed stream using the
// configuration cfg. Symbols of signed binarizations are interpreted as
// two's complement values; the magnitude of every symbol must fit into
// output_symbol_size bits. No symbols result in an empty payload.
func EncodeStream(cfg *param.TransformedSubseq, symbols []uint64) ([]byte, error) {
	c, err := newStreamCoder(cfg)
	if err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, nil
	}
	mags := make([]uint64, len(symbols))
	for i, x := range symbols {
		if mags[i], _, err = c.magnitude(x); err != nil {
			return nil, errors.Wrapf(err, "gabac: symbol %d", i)
		}
	}
	e := cabac.NewEncoder()
	if c.sv.NumLUTs > 0 {
		c.buildLUTs(mags)
		if err = c.writeLUTs(e); err != nil {
			return nil, err
		}
		xlog.Printf(debug, "gabac: lookup tables written; %d bytes, %d bins",
			e.Len(), e.Bins())
	}
	for i, x := range symbols {
		negative := c.signed && int64(x) < 0
		if err = c.encodeSymbol(e, mags[i], negative); err != nil {
			return nil, errors.Wrapf(err, "gabac: symbol %d", i)
		}
	}
	p := e.Flush()
	xlog.Printf(debug, "gabac: %s stream of %d symbols coded in %d bytes",
		cfg.Binarization.Params.ID(), len(symbols), len(p))
	return p, nil
}

// prealloc returns the number of symbols allocated upfront for a payload of
// size bytes.
func prealloc(size int) int {
	const maxPrealloc = 1 << 20
	return min(8*size+64, maxPrealloc)
}

// DecodeStream decodes n symbols from a payload produced by EncodeStream
// with the same configuration.
func DecodeStream(cfg *param.TransformedSubseq, payload []byte, n int) ([]uint64, error) {
	c, err := newStreamCoder(cfg)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errs.Config("gabac: negative symbol count %d", n)
	}
	if n == 0 {
		return nil, nil
	}
	d, err := cabac.NewDecoder(payload)
	if err != nil {
		return nil, err
	}
	if c.sv.NumLUTs > 0 {
		if err = c.readLUTs(d); err != nil {
			return nil, err
		}
	}
	// The count may come from untrusted input; the slice grows with the
	// symbols actually decoded.
	symbols := make([]uint64, 0, min(n, prealloc(len(payload))))
	for i := 0; i < n; i++ {
		x, err := c.decodeSymbol(d)
		if err != nil {
			return nil, errors.Wrapf(err, "gabac: symbol %d", i)
		}
		symbols = append(symbols, x)
	}
	b, err := d.DecodeBinTrm()
	if err != nil {
		return nil, err
	}
	if b != 1 {
		return nil, errs.Range("gabac: stream terminator missing")
	}
	xlog.Printf(debug, "gabac: %s stream of %d symbols decoded from %d bytes",
		cfg.Binarization.Params.ID(), n, d.Pos())
	return symbols, nil
}
