package param

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/AlekSi/pointer"
	"github.com/DisposaBoy/JsonConfigReader"
	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v3"

	"github.com/ulikunitz/gabac/errs"
)

// SubsequenceJSON is the text form of a subsequence configuration used in
// configuration files. It mirrors the wire fields; optional wire fields are
// pointers.
type SubsequenceJSON struct {
	ID        uint16                  `json:"descriptor_subsequence_id" yaml:"descriptor_subsequence_id"`
	TokenType bool                    `json:"token_type,omitempty" yaml:"token_type,omitempty"`
	Transform TransformJSON           `json:"transform_subseq_parameters" yaml:"transform_subseq_parameters"`
	Streams   []TransformedSubseqJSON `json:"transform_subseq_cfgs" yaml:"transform_subseq_cfgs"`
}

// TransformJSON is the text form of the transform parameters.
type TransformJSON struct {
	ID         string  `json:"transform_id_subseq" yaml:"transform_id_subseq"`
	BufferSize *uint16 `json:"match_coding_buffer_size,omitempty" yaml:"match_coding_buffer_size,omitempty"`
	Guard      *uint8  `json:"rle_coding_guard,omitempty" yaml:"rle_coding_guard,omitempty"`
}

// TransformedSubseqJSON is the text form of a stream configuration.
type TransformedSubseqJSON struct {
	SubsymTransform string           `json:"transform_id_subsym" yaml:"transform_id_subsym"`
	Support         SupportJSON      `json:"support_values" yaml:"support_values"`
	Binarization    BinarizationJSON `json:"cabac_binarization" yaml:"cabac_binarization"`
}

// SupportJSON is the text form of the support values.
type SupportJSON struct {
	OutputSymbolSize uint8 `json:"output_symbol_size" yaml:"output_symbol_size"`
	CodingSubsymSize uint8 `json:"coding_subsym_size" yaml:"coding_subsym_size"`
	CodingOrder      uint8 `json:"coding_order" yaml:"coding_order"`
	ShareSubsymLUT   *bool `json:"share_subsym_lut_flag,omitempty" yaml:"share_subsym_lut_flag,omitempty"`
	ShareSubsymPRV   *bool `json:"share_subsym_prv_flag,omitempty" yaml:"share_subsym_prv_flag,omitempty"`
}

// BinarizationJSON is the text form of a binarization. The parameters are
// inlined.
type BinarizationJSON struct {
	Fields `yaml:",inline"`

	ID      string       `json:"binarization_id" yaml:"binarization_id"`
	Bypass  bool         `json:"bypass_flag" yaml:"bypass_flag"`
	Context *ContextJSON `json:"cabac_context_parameters,omitempty" yaml:"cabac_context_parameters,omitempty"`
}

// ContextJSON is the text form of the context parameters.
type ContextJSON struct {
	AdaptiveMode   bool   `json:"adaptive_mode_flag" yaml:"adaptive_mode_flag"`
	NumContexts    uint16 `json:"num_contexts" yaml:"num_contexts"`
	InitValues     []int  `json:"context_initialization_value,omitempty" yaml:"context_initialization_value,omitempty"`
	ShareSubsymCtx *bool  `json:"share_subsym_ctx_flag,omitempty" yaml:"share_subsym_ctx_flag,omitempty"`
}

// ParseTransformID converts a transform name into its id.
func ParseTransformID(s string) (TransformID, error) {
	for id := NoTransformID; id <= MergeCodingID; id++ {
		if id.String() == s {
			return id, nil
		}
	}
	return 0, errs.Config("unknown transform %q", s)
}

// ParseSubsymTransformID converts a sub-symbol transform name into its id.
// The empty string selects SubsymNone.
func ParseSubsymTransformID(s string) (SubsymTransformID, error) {
	if s == "" {
		return SubsymNone, nil
	}
	for id := SubsymNone; id <= SubsymDiff; id++ {
		if id.String() == s {
			return id, nil
		}
	}
	return 0, errs.Config("unknown sub-symbol transform %q", s)
}

func (t TransformJSON) build() (TransformParameters, error) {
	id, err := ParseTransformID(t.ID)
	if err != nil {
		return nil, err
	}
	var param uint16
	switch id {
	case MatchCodingID:
		if t.BufferSize == nil {
			return nil, errs.Config("match_coding_buffer_size missing")
		}
		param = *t.BufferSize
	case RLECodingID:
		if t.Guard == nil {
			return nil, errs.Config("rle_coding_guard missing")
		}
		param = uint16(*t.Guard)
	}
	if t.BufferSize != nil && id != MatchCodingID {
		return nil, errs.Config("match_coding_buffer_size for %s", id)
	}
	if t.Guard != nil && id != RLECodingID {
		return nil, errs.Config("rle_coding_guard for %s", id)
	}
	return NewTransformParameters(id, param)
}

func flag(p *bool) bool { return p != nil && *p }

func (c *ContextJSON) build() (*ContextParameters, error) {
	p := &ContextParameters{
		AdaptiveMode:   c.AdaptiveMode,
		NumContexts:    c.NumContexts,
		ShareSubsymCtx: flag(c.ShareSubsymCtx),
	}
	if len(c.InitValues) > 0 {
		p.InitValues = make([]uint8, len(c.InitValues))
	}
	for i, v := range c.InitValues {
		if !(0 <= v && v <= 127) {
			return nil, errs.Range(
				"context_initialization_value[%d] = %d outside [0,127]",
				i, v)
		}
		p.InitValues[i] = uint8(v)
	}
	return p, nil
}

func (t *TransformedSubseqJSON) build() (c TransformedSubseq, err error) {
	if c.SubsymTransform, err = ParseSubsymTransformID(t.SubsymTransform); err != nil {
		return c, err
	}
	c.Support = SupportValues{
		OutputSymbolSize: t.Support.OutputSymbolSize,
		CodingSubsymSize: t.Support.CodingSubsymSize,
		CodingOrder:      t.Support.CodingOrder,
		ShareSubsymLUT:   flag(t.Support.ShareSubsymLUT),
		ShareSubsymPRV:   flag(t.Support.ShareSubsymPRV),
	}
	b := &t.Binarization
	id, err := ParseBinarizationID(b.ID)
	if err != nil {
		return c, err
	}
	if c.Binarization.Params, err = b.Fields.Build(id); err != nil {
		return c, err
	}
	c.Binarization.Bypass = b.Bypass
	if b.Context != nil {
		if c.Binarization.Context, err = b.Context.build(); err != nil {
			return c, err
		}
	}
	return c, nil
}

// Build converts the text form into a verified configuration.
func (j *SubsequenceJSON) Build() (*Subsequence, error) {
	t, err := j.Transform.build()
	if err != nil {
		return nil, err
	}
	s := &Subsequence{ID: j.ID, TokenType: j.TokenType, Transform: t}
	for i := range j.Streams {
		c, err := j.Streams[i].build()
		if err != nil {
			return nil, errors.Wrapf(err, "stream %d", i)
		}
		s.Streams = append(s.Streams, c)
	}
	if err = s.Verify(); err != nil {
		return nil, err
	}
	return s, nil
}

// JSON returns the text form of the configuration. Fields absent from the
// wire format stay nil.
func (s *Subsequence) JSON() *SubsequenceJSON {
	j := &SubsequenceJSON{ID: s.ID, TokenType: s.TokenType}
	if s.Transform != nil {
		j.Transform.ID = s.Transform.ID().String()
		switch t := s.Transform.(type) {
		case MatchCoding:
			j.Transform.BufferSize = pointer.ToUint16(t.BufferSize)
		case RLECoding:
			j.Transform.Guard = pointer.ToUint8(t.Guard)
		}
	}
	for i := range s.Streams {
		j.Streams = append(j.Streams, s.Streams[i].toJSON())
	}
	return j
}

func (c *TransformedSubseq) toJSON() TransformedSubseqJSON {
	sv := &c.Support
	t := TransformedSubseqJSON{
		SubsymTransform: c.SubsymTransform.String(),
		Support: SupportJSON{
			OutputSymbolSize: sv.OutputSymbolSize,
			CodingSubsymSize: sv.CodingSubsymSize,
			CodingOrder:      sv.CodingOrder,
		},
	}
	if sv.hasShareFlags() {
		if c.SubsymTransform == SubsymLUT {
			t.Support.ShareSubsymLUT = pointer.ToBool(sv.ShareSubsymLUT)
		}
		t.Support.ShareSubsymPRV = pointer.ToBool(sv.ShareSubsymPRV)
	}
	b := &c.Binarization
	if b.Params != nil {
		t.Binarization.ID = b.Params.ID().String()
		t.Binarization.Fields = FieldsOf(b.Params)
	}
	t.Binarization.Bypass = b.Bypass
	if ctx := b.Context; ctx != nil {
		cj := &ContextJSON{
			AdaptiveMode: ctx.AdaptiveMode,
			NumContexts:  ctx.NumContexts,
		}
		for _, v := range ctx.InitValues {
			cj.InitValues = append(cj.InitValues, int(v))
		}
		if sv.CodingSubsymSize < sv.OutputSymbolSize {
			cj.ShareSubsymCtx = pointer.ToBool(ctx.ShareSubsymCtx)
		}
		t.Binarization.Context = cj
	}
	return t
}

// LoadConfig reads a configuration file. The file is either JSON, which
// may contain comments, or YAML.
func LoadConfig(r io.Reader) (*Subsequence, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var j SubsequenceJSON
	dec := json.NewDecoder(JsonConfigReader.New(bytes.NewReader(data)))
	dec.DisallowUnknownFields()
	if err = dec.Decode(&j); err != nil {
		j = SubsequenceJSON{}
		if err2 := yaml.Unmarshal(data, &j); err2 != nil {
			return nil, errs.Config("invalid yaml (%s) or json (%s)",
				err2, err)
		}
	}
	return j.Build()
}
