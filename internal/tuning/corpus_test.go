package tuning

import (
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/zdata"

	"github.com/ulikunitz/gabac"
	"github.com/ulikunitz/gabac/param"
)

const fileLimit = 1 << 18

func TestSilesia(t *testing.T) {
	if testing.Short() {
		t.Skip("corpus test skipped in short mode")
	}
	configs := []struct {
		name string
		t    param.TransformParameters
	}{
		{"none", param.NoTransform{}},
		{"equality", param.EqualityCoding{}},
		{"rle", param.RLECoding{Guard: 255}},
		{"match", param.MatchCoding{BufferSize: 4096}},
	}

	files, err := Files(zdata.Silesia, fileLimit)
	if err != nil {
		t.Fatalf("Files(zdata.Silesia) error %s", err)
	}

	for _, c := range configs {
		c := c
		cfg, err := ByteConfig(c.t)
		if err != nil {
			t.Fatalf("ByteConfig(%s) error %s", c.name, err)
		}
		for _, f := range files {
			f := f
			t.Run(c.name+":"+f.Name, func(t *testing.T) {
				symbols := f.Symbols()
				p, err := gabac.EncodeSubsequence(cfg, symbols)
				if err != nil {
					t.Fatalf("%s: EncodeSubsequence error %s",
						f.Name, err)
				}
				g, err := gabac.DecodeSubsequence(cfg, p,
					len(symbols))
				if err != nil {
					t.Fatalf("%s: DecodeSubsequence error %s",
						f.Name, err)
				}
				if len(g) != len(symbols) {
					t.Fatalf("%s: decoded %d symbols; want %d",
						f.Name, len(g), len(symbols))
				}
				for i := range g {
					if g[i] != symbols[i] {
						t.Fatalf("%s: symbol %d is %d; want %d",
							f.Name, i, g[i], symbols[i])
					}
				}
			})
		}
	}
}

func TestCompressionRatio(t *testing.T) {
	if testing.Short() {
		t.Skip("corpus test skipped in short mode")
	}
	files, err := Files(zdata.Silesia, fileLimit)
	if err != nil {
		t.Fatalf("Files(zdata.Silesia) error %s", err)
	}
	cfg, err := ByteConfig(param.NoTransform{})
	if err != nil {
		t.Fatalf("ByteConfig error %s", err)
	}
	n := Size(files)
	g, err := GabacCompress(files, cfg)
	if err != nil {
		t.Fatalf("GabacCompress error %s", err)
	}
	z, err := ZstdCompress(files, zstd.SpeedDefault)
	if err != nil {
		t.Fatalf("ZstdCompress error %s", err)
	}
	t.Logf("%d bytes: gabac %d (%.3f), zstd %d (%.3f)", n,
		g, float64(g)/float64(n), z, float64(z)/float64(n))
	if g >= n {
		t.Errorf("gabac doesn't compress: %d >= %d", g, n)
	}
}
