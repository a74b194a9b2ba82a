package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac"
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/param"
)

// File format:
//
//	magic    4 bytes "GBC\x01"
//	flags    1 byte; bit 0 is set for token type subsequences
//	width    1 byte; bytes per symbol in the uncompressed file
//	config   subsequence configuration, padded to a byte boundary
//	count    4 bytes, big-endian number of symbols
//	payload  coded subsequence
var magic = []byte{'G', 'B', 'C', 1}

const tokenTypeFlag = 1

const gabacSuffix = ".gbc"

// maxSymbolsPerByte limits the symbol count relative to the payload size.
// Files claiming more symbols are rejected before decoding.
const maxSymbolsPerByte = 1 << 24

// validWidth reports whether w bytes can form a symbol.
func validWidth(w int) bool {
	switch w {
	case 1, 2, 4, 8:
		return true
	}
	return false
}

// symbols splits data into big-endian symbols of width bytes.
func symbols(data []byte, width int) ([]uint64, error) {
	if len(data)%width != 0 {
		return nil, fmt.Errorf("file size %d isn't a multiple of width %d",
			len(data), width)
	}
	s := make([]uint64, len(data)/width)
	for i := range s {
		var x uint64
		for _, b := range data[i*width : (i+1)*width] {
			x = x<<8 | uint64(b)
		}
		s[i] = x
	}
	return s, nil
}

// appendSymbols appends the symbols as big-endian values of width bytes.
func appendSymbols(p []byte, s []uint64, width int) ([]byte, error) {
	for i, x := range s {
		if width < 8 && x>>(8*uint(width)) != 0 {
			return p, errs.Range("symbol %d value %d exceeds %d bytes",
				i, x, width)
		}
		for k := width - 1; k >= 0; k-- {
			p = append(p, byte(x>>(8*uint(k))))
		}
	}
	return p, nil
}

// compress codes the data, which consists of symbols of width bytes.
func compress(cfg *param.Subsequence, data []byte, width int) ([]byte, error) {
	if !validWidth(width) {
		return nil, fmt.Errorf("unsupported symbol width %d", width)
	}
	s, err := symbols(data, width)
	if err != nil {
		return nil, err
	}
	if uint64(len(s)) > math.MaxUint32 {
		return nil, errs.Range("%d symbols exceed the 32-bit count", len(s))
	}
	out := append([]byte{}, magic...)
	var flags byte
	if cfg.TokenType {
		flags |= tokenTypeFlag
	}
	out = append(out, flags, byte(width))
	if out, err = cfg.AppendBinary(out); err != nil {
		return nil, err
	}
	out = binary.BigEndian.AppendUint32(out, uint32(len(s)))
	payload, err := gabac.EncodeSubsequence(cfg, s)
	if err != nil {
		return nil, err
	}
	return append(out, payload...), nil
}

// header describes a compressed file.
type header struct {
	cfg   *param.Subsequence
	width int
	count int
	// length of the header in bytes
	size int
}

func readHeader(p []byte) (h header, err error) {
	const fixed = 6
	if len(p) < fixed || !bytes.Equal(p[:len(magic)], magic) {
		return h, errors.New("no gabacgo file")
	}
	flags := p[4]
	if flags&^tokenTypeFlag != 0 {
		return h, fmt.Errorf("unsupported flags %#02x", flags)
	}
	h.width = int(p[5])
	if !validWidth(h.width) {
		return h, fmt.Errorf("unsupported symbol width %d", h.width)
	}
	cfg, n, err := param.ReadSubsequence(p[fixed:], flags&tokenTypeFlag != 0)
	if err != nil {
		return h, errors.Wrap(err, "configuration")
	}
	h.cfg = cfg
	h.size = fixed + n
	if len(p) < h.size+4 {
		return h, errs.Exhausted("symbol count missing")
	}
	count := uint64(binary.BigEndian.Uint32(p[h.size:]))
	h.size += 4
	if limit := maxSymbolsPerByte * uint64(len(p)-h.size+1); count > limit {
		return h, errs.Range("symbol count %d exceeds %d for %d payload bytes",
			count, limit, len(p)-h.size)
	}
	h.count = int(count)
	return h, nil
}

// decompress decodes a file written by compress.
func decompress(p []byte) ([]byte, error) {
	h, err := readHeader(p)
	if err != nil {
		return nil, err
	}
	s, err := gabac.DecodeSubsequence(h.cfg, p[h.size:], h.count)
	if err != nil {
		return nil, err
	}
	return appendSymbols(make([]byte, 0, len(s)*h.width), s, h.width)
}

func signalHandler(tmpPath string) chan<- struct{} {
	quit := make(chan struct{})
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt)
	go func() {
		select {
		case <-quit:
			signal.Stop(sigch)
			return
		case <-sigch:
			if tmpPath != "-" {
				os.Remove(tmpPath)
			}
			os.Exit(7)
		}
	}()
	return quit
}

// writeFile writes data atomically to path by renaming a temporary file.
// The path "-" selects standard output.
func writeFile(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	tmp := path + ".tmp"
	quit := signalHandler(tmp)
	defer close(quit)
	if err := os.WriteFile(tmp, data, 0666); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
