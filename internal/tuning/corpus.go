// Package tuning searches configurations for the entropy coder and
// measures its compression on real corpora, comparing it with a general
// purpose compressor.
package tuning

import (
	"bytes"
	"io"
	"io/fs"

	"github.com/klauspost/compress/zstd"

	"github.com/ulikunitz/gabac"
	"github.com/ulikunitz/gabac/param"
)

type File struct {
	Name string
	Data []byte
}

// Files reads all regular files of the corpus. Files are truncated to
// limit bytes if limit is positive.
func Files(corpus fs.FS, limit int) (files []File, err error) {
	err = fs.WalkDir(corpus, ".",
		func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(corpus, path)
			if err != nil {
				return err
			}
			if limit > 0 && len(data) > limit {
				data = data[:limit]
			}
			files = append(files, File{Name: path, Data: data})
			return nil
		})
	return files, err
}

func Size(files []File) int64 {
	n := int64(0)
	for _, f := range files {
		n += int64(len(f.Data))
	}
	return n
}

// Symbols returns the bytes of the file as 8-bit symbols.
func (f File) Symbols() []uint64 {
	s := make([]uint64, len(f.Data))
	for i, b := range f.Data {
		s[i] = uint64(b)
	}
	return s
}

func stream(p param.BinarizationParameters, oss, css, order uint8) param.TransformedSubseq {
	return param.TransformedSubseq{
		Support: param.SupportValues{
			OutputSymbolSize: oss,
			CodingSubsymSize: css,
			CodingOrder:      order,
		},
		Binarization: param.Binarization{
			Params:  p,
			Context: &param.ContextParameters{AdaptiveMode: true},
		},
	}
}

// ByteConfig returns a subsequence configuration for 8-bit symbols using
// the transform t. Raw bytes are coded with order 1 contexts over 4-bit
// sub-symbols.
func ByteConfig(t param.TransformParameters) (*param.Subsequence, error) {
	raw := stream(param.BinaryCoding{}, 8, 4, 1)
	var streams []param.TransformedSubseq
	switch t.(type) {
	case param.NoTransform:
		streams = []param.TransformedSubseq{raw}
	case param.EqualityCoding:
		streams = []param.TransformedSubseq{
			stream(param.BinaryCoding{}, 1, 1, 2), raw}
	case param.RLECoding:
		streams = []param.TransformedSubseq{
			stream(param.ExpGolomb{}, 8, 8, 0), raw}
	case param.MatchCoding:
		streams = []param.TransformedSubseq{
			stream(param.ExpGolomb{}, 16, 16, 0),
			stream(param.ExpGolomb{}, 32, 32, 0),
			raw}
	}
	return param.NewSubsequence(0, t, streams...)
}

type countWriter struct {
	n int64
}

func (w *countWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	w.n += int64(n)
	return n, nil
}

// GabacCompress returns the size of the coded files.
func GabacCompress(files []File, cfg *param.Subsequence) (compressedSize int64, err error) {
	for _, f := range files {
		p, err := gabac.EncodeSubsequence(cfg, f.Symbols())
		if err != nil {
			return compressedSize, err
		}
		compressedSize += int64(len(p))
	}
	return compressedSize, nil
}

// ZstdCompress returns the size of the files compressed with zstd at the
// given level.
func ZstdCompress(files []File, level zstd.EncoderLevel) (compressedSize int64, err error) {
	for _, f := range files {
		cw := &countWriter{}
		w, err := zstd.NewWriter(cw, zstd.WithEncoderLevel(level))
		if err != nil {
			return compressedSize, err
		}
		_, err = io.Copy(w, bytes.NewReader(f.Data))
		if err != nil {
			w.Close()
			return compressedSize, err
		}
		if err = w.Close(); err != nil {
			return compressedSize, err
		}
		compressedSize += cw.n
	}
	return compressedSize, nil
}
