package param

import (
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/internal/bitio"
)

// ContextParameters describe the context table of a context-coded stream.
// NumContexts zero selects the computed number of contexts, all starting in
// the equiprobable state. ShareSubsymCtx exists only if the coding sub-symbol
// size is less than the output symbol size.
type ContextParameters struct {
	AdaptiveMode   bool
	NumContexts    uint16
	InitValues     []uint8
	ShareSubsymCtx bool
}

func (c *ContextParameters) verify(s *SupportValues) error {
	if len(c.InitValues) != int(c.NumContexts) {
		return errs.Config("%d context initialization values for %d contexts",
			len(c.InitValues), c.NumContexts)
	}
	for i, v := range c.InitValues {
		if v > 127 {
			return errs.Range(
				"context_initialization_value[%d] = %d exceeds 127",
				i, v)
		}
	}
	if c.ShareSubsymCtx && !(s.CodingSubsymSize < s.OutputSymbolSize) {
		return errs.Config("share_subsym_ctx_flag is absent")
	}
	return nil
}

func (c *ContextParameters) write(w *bitio.Writer, s *SupportValues) {
	w.WriteFlag(c.AdaptiveMode)
	w.WriteBits(uint64(c.NumContexts), 16)
	for _, v := range c.InitValues {
		w.WriteBits(uint64(v), 7)
	}
	if s.CodingSubsymSize < s.OutputSymbolSize {
		w.WriteFlag(c.ShareSubsymCtx)
	}
}

func readContextParameters(r *bitio.Reader, s *SupportValues) (*ContextParameters, error) {
	c := new(ContextParameters)
	var err error
	if c.AdaptiveMode, err = r.ReadFlag(); err != nil {
		return nil, err
	}
	n, err := r.ReadBits(16)
	if err != nil {
		return nil, err
	}
	c.NumContexts = uint16(n)
	if n > 0 {
		c.InitValues = make([]uint8, n)
	}
	for i := range c.InitValues {
		v, err := r.ReadBits(7)
		if err != nil {
			return nil, err
		}
		c.InitValues[i] = uint8(v)
	}
	if s.CodingSubsymSize < s.OutputSymbolSize {
		if c.ShareSubsymCtx, err = r.ReadFlag(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Clone returns a deep copy of the context parameters.
func (c *ContextParameters) Clone() *ContextParameters {
	d := *c
	if c.InitValues != nil {
		d.InitValues = make([]uint8, len(c.InitValues))
		copy(d.InitValues, c.InitValues)
	}
	return &d
}

// Binarization selects the binarization of a stream. Context parameters are
// present exactly when the bins are not bypass coded.
type Binarization struct {
	Params  BinarizationParameters
	Bypass  bool
	Context *ContextParameters
}

func (b *Binarization) verify(s *SupportValues) error {
	if b.Params == nil {
		return errs.Config("binarization parameters missing")
	}
	if err := b.Params.verify(); err != nil {
		return err
	}
	switch {
	case b.Bypass && b.Context != nil:
		return errs.Config("context parameters for bypass binarization")
	case !b.Bypass && b.Context == nil:
		return errs.Config("context parameters missing")
	case b.Context != nil:
		return b.Context.verify(s)
	}
	return nil
}

func (b *Binarization) write(w *bitio.Writer, s *SupportValues) {
	w.WriteBits(uint64(b.Params.ID()), 5)
	w.WriteFlag(b.Bypass)
	b.Params.write(w)
	if !b.Bypass {
		b.Context.write(w, s)
	}
}

func readBinarization(r *bitio.Reader, s *SupportValues) (b Binarization, err error) {
	id, err := r.ReadBits(5)
	if err != nil {
		return b, err
	}
	if b.Bypass, err = r.ReadFlag(); err != nil {
		return b, err
	}
	if b.Params, err = readBinarizationParameters(r, BinarizationID(id)); err != nil {
		return b, err
	}
	if !b.Bypass {
		if b.Context, err = readContextParameters(r, s); err != nil {
			return b, err
		}
	}
	return b, nil
}

// Clone returns a deep copy. Absent context parameters stay absent.
func (b *Binarization) Clone() *Binarization {
	c := *b
	if b.Context != nil {
		c.Context = b.Context.Clone()
	}
	return &c
}
