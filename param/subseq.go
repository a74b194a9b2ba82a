package param

import (
	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/internal/bitio"
)

// maxLUTAlphabet is the largest sub-symbol alphabet supported by the LUT
// transform.
const maxLUTAlphabet = 256

// TransformedSubseq is the configuration of a single transformed stream.
type TransformedSubseq struct {
	SubsymTransform SubsymTransformID
	Support         SupportValues
	Binarization    Binarization
}

// Verify checks the configuration and its state variables.
func (c *TransformedSubseq) Verify() error {
	_, err := c.StateVars()
	return err
}

func (c *TransformedSubseq) verify() error {
	if c.SubsymTransform > SubsymDiff {
		return errs.Config("unknown sub-symbol transform %d",
			c.SubsymTransform)
	}
	s := &c.Support
	if err := s.verify(c.SubsymTransform); err != nil {
		return err
	}
	b := &c.Binarization
	if err := b.verify(s); err != nil {
		return err
	}
	if s.CodingOrder > 0 && b.Bypass {
		return errs.Config("coding_order %d requires context coding",
			s.CodingOrder)
	}
	switch c.SubsymTransform {
	case SubsymLUT:
		if s.CodingOrder == 0 {
			return errs.Config("LUT transform requires coding_order > 0")
		}
		switch b.Params.ID() {
		case SUTU, SSUTU, DTU, SDTU:
			return errs.Config("LUT transform with %s binarization",
				b.Params.ID())
		}
		if uint64(1)<<s.CodingSubsymSize > maxLUTAlphabet {
			return errs.Config(
				"LUT transform with coding_subsym_size %d",
				s.CodingSubsymSize)
		}
	case SubsymDiff:
		if s.CodingOrder > 0 {
			return errs.Config("diff coding requires coding_order 0")
		}
	}
	return nil
}

func (c *TransformedSubseq) write(w *bitio.Writer) {
	w.WriteBits(uint64(c.SubsymTransform), 3)
	c.Support.write(w, c.SubsymTransform)
	c.Binarization.write(w, &c.Support)
}

func readTransformedSubseq(r *bitio.Reader) (c TransformedSubseq, err error) {
	t, err := r.ReadBits(3)
	if err != nil {
		return c, err
	}
	c.SubsymTransform = SubsymTransformID(t)
	if c.SubsymTransform > SubsymDiff {
		return c, errs.Config("unknown sub-symbol transform %d", t)
	}
	if c.Support, err = readSupportValues(r, c.SubsymTransform); err != nil {
		return c, err
	}
	if c.Binarization, err = readBinarization(r, &c.Support); err != nil {
		return c, err
	}
	return c, nil
}

// Clone returns a deep copy of the stream configuration.
func (c *TransformedSubseq) Clone() *TransformedSubseq {
	d := *c
	d.Binarization = *c.Binarization.Clone()
	return &d
}

// Subsequence is the coding configuration of a descriptor subsequence.
// The ID isn't written for token type subsequences.
type Subsequence struct {
	ID        uint16
	TokenType bool
	Transform TransformParameters
	Streams   []TransformedSubseq
}

// MaxSubsequenceID is the largest descriptor subsequence id.
const MaxSubsequenceID = 1<<10 - 1

// NewSubsequence creates a verified configuration for a subsequence that
// is not a token type.
func NewSubsequence(id uint16, t TransformParameters, streams ...TransformedSubseq) (*Subsequence, error) {
	s := &Subsequence{ID: id, Transform: t, Streams: streams}
	if err := s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}

// Verify checks the whole configuration.
func (s *Subsequence) Verify() error {
	if !s.TokenType && s.ID > MaxSubsequenceID {
		return errs.Range("descriptor_subsequence_ID %d exceeds %d",
			s.ID, MaxSubsequenceID)
	}
	if s.Transform == nil {
		return errs.Config("transform parameters missing")
	}
	if err := s.Transform.verify(); err != nil {
		return err
	}
	if n := s.Transform.NumStreams(); len(s.Streams) != n {
		return errs.Config("%s requires %d stream configurations; got %d",
			s.Transform.ID(), n, len(s.Streams))
	}
	for i := range s.Streams {
		if err := s.Streams[i].Verify(); err != nil {
			return errors.Wrapf(err, "stream %d", i)
		}
	}
	return nil
}

func (s *Subsequence) write(w *bitio.Writer) {
	if !s.TokenType {
		w.WriteBits(uint64(s.ID), 10)
	}
	s.Transform.write(w)
	for i := range s.Streams {
		s.Streams[i].write(w)
	}
}

// AppendBinary verifies the configuration and appends its wire format,
// padded with zero bits to a byte boundary, to p.
func (s *Subsequence) AppendBinary(p []byte) ([]byte, error) {
	if err := s.Verify(); err != nil {
		return p, err
	}
	var w bitio.Writer
	s.write(&w)
	return append(p, w.Bytes()...), nil
}

func readSubsequence(r *bitio.Reader, tokenType bool) (*Subsequence, error) {
	s := &Subsequence{TokenType: tokenType}
	if !tokenType {
		id, err := r.ReadBits(10)
		if err != nil {
			return nil, err
		}
		s.ID = uint16(id)
	}
	var err error
	if s.Transform, err = readTransformParameters(r); err != nil {
		return nil, err
	}
	n := s.Transform.NumStreams()
	s.Streams = make([]TransformedSubseq, n)
	for i := range s.Streams {
		if s.Streams[i], err = readTransformedSubseq(r); err != nil {
			return nil, errors.Wrapf(err, "stream %d", i)
		}
	}
	if err = s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}

// ReadSubsequence reads a configuration from p and returns it together
// with the number of bytes consumed.
func ReadSubsequence(p []byte, tokenType bool) (s *Subsequence, n int, err error) {
	r := bitio.NewReader(p)
	if s, err = readSubsequence(r, tokenType); err != nil {
		return nil, 0, err
	}
	r.Align()
	return s, r.BytePos(), nil
}

// Clone returns a deep copy of the configuration.
func (s *Subsequence) Clone() *Subsequence {
	c := *s
	if s.Streams != nil {
		c.Streams = make([]TransformedSubseq, len(s.Streams))
		for i := range s.Streams {
			c.Streams[i] = *s.Streams[i].Clone()
		}
	}
	return &c
}
