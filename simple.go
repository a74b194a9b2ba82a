package gabac

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac/binarize"
	"github.com/ulikunitz/gabac/cabac"
	"github.com/ulikunitz/gabac/ctxmodel"
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/param"
)

// ContextSelection defines how the simple mode selects context sets.
type ContextSelection uint8

// Context selections of the simple mode.
const (
	Bypass ContextSelection = iota
	Order0
	Order1
	Order2
)

func (s ContextSelection) String() string {
	switch s {
	case Bypass:
		return "bypass"
	case Order0:
		return "order0"
	case Order1:
		return "order1"
	case Order2:
		return "order2"
	}
	return fmt.Sprintf("ContextSelection(%d)", uint8(s))
}

// simpleLayout is the builtin table used by the simple mode: set 0 for
// order 0, sets 1 to 4 for order 1 and sets 5 to 20 for order 2.
var simpleLayout = ctxmodel.Layout{Sets: 21}

// SimpleConfig configures the simple mode.
type SimpleConfig struct {
	Params param.BinarizationParameters
	// bit width of the symbols
	Width     int
	Selection ContextSelection
}

// Verify checks the configuration.
func (c *SimpleConfig) Verify() error {
	if c == nil {
		return errs.Config("gabac: simple configuration missing")
	}
	if c.Selection > Order2 {
		return errs.Config("gabac: unknown context selection %d",
			c.Selection)
	}
	return c.scheme().Verify()
}

func (c *SimpleConfig) scheme() *binarize.Scheme {
	return &binarize.Scheme{
		Params: c.Params,
		Width:  c.Width,
		Bypass: c.Selection == Bypass,
	}
}

func (c *SimpleConfig) signed() bool {
	return c.Params.ID().Signed()
}

func clamp3(v uint64) int {
	if v > 3 {
		return 3
	}
	return int(v)
}

// simpleState tracks the previous magnitudes that select the context set.
type simpleState struct {
	cfg   *SimpleConfig
	table *ctxmodel.Table
	prev  [2]uint64
}

func newSimpleState(c *SimpleConfig) *simpleState {
	return &simpleState{cfg: c, table: ctxmodel.NewBuiltinTable(simpleLayout)}
}

func (st *simpleState) selector() binarize.Selector {
	var set int
	switch st.cfg.Selection {
	case Bypass:
		return nil
	case Order1:
		set = 1 + clamp3(st.prev[0])
	case Order2:
		set = 5 + 4*clamp3(st.prev[1]) + clamp3(st.prev[0])
	}
	return &binarize.SetSelector{Table: st.table, Set: set}
}

func (st *simpleState) update(x uint64) {
	mag := x
	if st.cfg.signed() && int64(x) < 0 {
		mag = -x
	}
	st.prev[1] = st.prev[0]
	st.prev[0] = mag
}

// EncodeSimple codes the symbols with the binarization of c. Symbols of
// signed binarizations are two's complement values.
func EncodeSimple(c *SimpleConfig, symbols []uint64) ([]byte, error) {
	if err := c.Verify(); err != nil {
		return nil, err
	}
	if len(symbols) == 0 {
		return nil, nil
	}
	st := newSimpleState(c)
	s := c.scheme()
	e := cabac.NewEncoder()
	for i, x := range symbols {
		var err error
		if c.signed() {
			err = binarize.EncodeSigned(e, s, int64(x), st.selector())
		} else {
			err = binarize.Encode(e, s, x, st.selector())
		}
		if err != nil {
			return nil, errors.Wrapf(err, "gabac: symbol %d", i)
		}
		st.update(x)
	}
	return e.Flush(), nil
}

// DecodeSimple decodes n symbols written by EncodeSimple.
func DecodeSimple(c *SimpleConfig, payload []byte, n int) ([]uint64, error) {
	if err := c.Verify(); err != nil {
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
	st := newSimpleState(c)
	s := c.scheme()
	symbols := make([]uint64, 0, min(n, prealloc(len(payload))))
	for i := 0; i < n; i++ {
		var x uint64
		if c.signed() {
			var v int64
			v, err = binarize.DecodeSigned(d, s, st.selector())
			x = uint64(v)
		} else {
			x, err = binarize.Decode(d, s, st.selector())
		}
		if err != nil {
			return nil, errors.Wrapf(err, "gabac: symbol %d", i)
		}
		symbols = append(symbols, x)
		st.update(x)
	}
	return symbols, nil
}
