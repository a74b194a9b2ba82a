package main

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/param"
)

const yamlConfig = `
descriptor_subsequence_id: 12
transform_subseq_parameters:
  transform_id_subseq: equality_coding
transform_subseq_cfgs:
  - support_values: {output_symbol_size: 1, coding_subsym_size: 1, coding_order: 2}
    cabac_binarization:
      binarization_id: BI
      bypass_flag: false
      cabac_context_parameters: {adaptive_mode_flag: true, num_contexts: 0}
  - support_values: {output_symbol_size: 16, coding_subsym_size: 8, coding_order: 0}
    cabac_binarization:
      binarization_id: EG
      bypass_flag: false
      cabac_context_parameters: {adaptive_mode_flag: true, num_contexts: 0}
`

func TestCompressRoundTrip(t *testing.T) {
	cfg, err := param.LoadConfig(strings.NewReader(yamlConfig))
	if err != nil {
		t.Fatalf("LoadConfig error %s", err)
	}
	data := bytes.Repeat([]byte("\x00\x01\x00\x01\x00\x01\x07\x00"), 300)
	p, err := compress(cfg, data, 2)
	if err != nil {
		t.Fatalf("compress error %s", err)
	}
	h, err := readHeader(p)
	if err != nil {
		t.Fatalf("readHeader error %s", err)
	}
	if h.width != 2 || h.count != len(data)/2 || h.cfg.ID != 12 {
		t.Fatalf("header width %d count %d id %d", h.width, h.count,
			h.cfg.ID)
	}
	g, err := decompress(p)
	if err != nil {
		t.Fatalf("decompress error %s", err)
	}
	if !bytes.Equal(g, data) {
		t.Fatalf("decompressed data differs")
	}
}

func TestCompressErrors(t *testing.T) {
	cfg, err := param.LoadConfig(strings.NewReader(yamlConfig))
	if err != nil {
		t.Fatalf("LoadConfig error %s", err)
	}
	if _, err = compress(cfg, []byte{1, 2, 3}, 2); err == nil {
		t.Fatalf("odd length with width 2: no error")
	}
	if _, err = compress(cfg, []byte{1, 2, 3}, 3); err == nil {
		t.Fatalf("width 3: no error")
	}
	if _, err = decompress([]byte("GBC")); err == nil {
		t.Fatalf("short file: no error")
	}
	if _, err = decompress([]byte("xz\x00\x00\x00\x01")); err == nil {
		t.Fatalf("wrong magic: no error")
	}
}

func TestImplausibleCount(t *testing.T) {
	cfg, err := param.LoadConfig(strings.NewReader(yamlConfig))
	if err != nil {
		t.Fatalf("LoadConfig error %s", err)
	}
	p, err := compress(cfg, []byte{0, 1, 0, 1}, 2)
	if err != nil {
		t.Fatalf("compress error %s", err)
	}
	h, err := readHeader(p)
	if err != nil {
		t.Fatalf("readHeader error %s", err)
	}
	binary.BigEndian.PutUint32(p[h.size-4:], math.MaxUint32)
	_, err = decompress(p[:h.size])
	if !errors.Is(err, errs.ErrRange) {
		t.Fatalf("count %d without payload: got %v", uint32(math.MaxUint32),
			err)
	}
	// a plausible count that the payload can't satisfy
	binary.BigEndian.PutUint32(p[h.size-4:], 1000)
	if _, err = decompress(p); err == nil {
		t.Fatalf("count 1000 for 2 symbols: no error")
	}
}

func TestSymbols(t *testing.T) {
	s, err := symbols([]byte{1, 2, 3, 4}, 2)
	if err != nil {
		t.Fatalf("symbols error %s", err)
	}
	if len(s) != 2 || s[0] != 0x0102 || s[1] != 0x0304 {
		t.Fatalf("symbols = %#x", s)
	}
	p, err := appendSymbols(nil, s, 2)
	if err != nil {
		t.Fatalf("appendSymbols error %s", err)
	}
	if !bytes.Equal(p, []byte{1, 2, 3, 4}) {
		t.Fatalf("appendSymbols = %v", p)
	}
	if _, err = appendSymbols(nil, []uint64{256}, 1); err == nil {
		t.Fatalf("256 in one byte: no error")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		path string
		opts options
		want string
		fail bool
	}{
		{path: "a.bin", want: "a.bin.gbc"},
		{path: "a.gbc", fail: true},
		{path: "a.gbc", opts: options{decompress: true}, want: "a"},
		{path: ".gbc", opts: options{decompress: true}, fail: true},
		{path: "a", opts: options{stdout: true}, want: "-"},
		{path: "-", want: "-"},
		{path: "a", opts: options{output: "b"}, want: "b"},
	}
	for _, tc := range tests {
		opts := tc.opts
		got, err := outputPath(tc.path, &opts)
		if tc.fail {
			if err == nil {
				t.Errorf("outputPath(%q) = %q; want error",
					tc.path, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("outputPath(%q) = %q, %v; want %q", tc.path,
				got, err, tc.want)
		}
	}
}

func TestAnalyzeConfig(t *testing.T) {
	data := bytes.Repeat([]byte("ACGTTTTTGGCA"), 200)
	cfg, err := analyze(data, 1)
	if err != nil {
		t.Fatalf("analyze error %s", err)
	}
	p, err := compress(cfg, data, 1)
	if err != nil {
		t.Fatalf("compress error %s", err)
	}
	g, err := decompress(p)
	if err != nil {
		t.Fatalf("decompress error %s", err)
	}
	if !bytes.Equal(g, data) {
		t.Fatalf("decompressed data differs")
	}
	if _, err = analyze(data, 3); err == nil {
		t.Fatalf("width 3: no error")
	}
}
