package tuning

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac"
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/internal/randseq"
	"github.com/ulikunitz/gabac/param"
)

func TestCandidates(t *testing.T) {
	for width := 1; width <= param.MaxOutputSymbolSize; width++ {
		c := Candidates(width)
		if !c[0].Binarization.Bypass {
			t.Fatalf("width %d: first candidate isn't bypass coded", width)
		}
		if err := c[0].Verify(); err != nil {
			t.Fatalf("width %d: bypass candidate: %s", width, err)
		}
		valid := 0
		for i := range c {
			if int(c[i].Support.OutputSymbolSize) != width {
				t.Fatalf("width %d: candidate %d has %d bits", width,
					i, c[i].Support.OutputSymbolSize)
			}
			if c[i].Verify() == nil {
				valid++
			}
		}
		if valid < 2 {
			t.Fatalf("width %d: %d valid candidates", width, valid)
		}
	}
}

func TestAnalyze(t *testing.T) {
	symbols := randseq.Qualities(rand.NewSource(1), 5000)
	r, err := Analyze(7, symbols)
	if err != nil {
		t.Fatalf("Analyze error %s", err)
	}
	if r.Config.ID != 7 {
		t.Fatalf("subsequence id %d; want 7", r.Config.ID)
	}
	t.Logf("%s: %d symbols -> %d bytes after %d trials",
		r.Config.Transform.ID(), len(symbols), r.Size, r.Tried)
	p, err := gabac.EncodeSubsequence(r.Config, symbols)
	if err != nil {
		t.Fatalf("EncodeSubsequence error %s", err)
	}
	if len(p) != r.Size {
		t.Fatalf("payload has %d bytes; result reports %d", len(p), r.Size)
	}
	g, err := gabac.DecodeSubsequence(r.Config, p, len(symbols))
	if err != nil {
		t.Fatalf("DecodeSubsequence error %s", err)
	}
	for i := range g {
		if g[i] != symbols[i] {
			t.Fatalf("symbol %d is %d; want %d", i, g[i], symbols[i])
		}
	}

	// bypass coding without transform is one of the candidates
	c := Candidates(symbolBits(symbols))[0]
	cfg, err := param.NewSubsequence(7, param.NoTransform{}, c)
	if err != nil {
		t.Fatalf("NewSubsequence error %s", err)
	}
	b, err := gabac.EncodeSubsequence(cfg, symbols)
	if err != nil {
		t.Fatalf("EncodeSubsequence error %s", err)
	}
	if r.Size > len(b) {
		t.Fatalf("best size %d exceeds bypass size %d", r.Size, len(b))
	}
}

func TestAnalyzeRuns(t *testing.T) {
	symbols := randseq.Runs(rand.NewSource(2), 20000, 50, 4)
	r, err := Analyze(0, symbols)
	if err != nil {
		t.Fatalf("Analyze error %s", err)
	}
	if r.Size >= len(symbols)/8 {
		t.Fatalf("%d run symbols coded in %d bytes", len(symbols), r.Size)
	}
	g, err := gabac.DecodeSubsequence(r.Config,
		mustEncode(t, r.Config, symbols), len(symbols))
	if err != nil {
		t.Fatalf("DecodeSubsequence error %s", err)
	}
	if len(g) != len(symbols) {
		t.Fatalf("decoded %d symbols; want %d", len(g), len(symbols))
	}
}

func mustEncode(t *testing.T, cfg *param.Subsequence, symbols []uint64) []byte {
	p, err := gabac.EncodeSubsequence(cfg, symbols)
	if err != nil {
		t.Fatalf("EncodeSubsequence error %s", err)
	}
	return p
}

func TestAnalyzeWideSymbols(t *testing.T) {
	symbols := []uint64{1 << 40, 3, 1 << 40}
	if _, err := Analyze(0, symbols); !errors.Is(err, errs.ErrConfig) {
		t.Fatalf("40-bit symbols: got %v", err)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	r, err := Analyze(0, nil)
	if err != nil {
		t.Fatalf("Analyze(nil) error %s", err)
	}
	if r.Size != 0 {
		t.Fatalf("empty subsequence coded in %d bytes", r.Size)
	}
}
