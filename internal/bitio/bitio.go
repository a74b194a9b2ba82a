// Package bitio provides MSB-first bit writers and readers for the
// configuration wire format and the final bits of the arithmetic coder.
package bitio

import (
	"bytes"

	"github.com/ulikunitz/gabac/errs"
)

// Writer collects bits MSB first.
type Writer struct {
	buf bytes.Buffer
	acc byte
	// number of bits in acc
	n uint
}

// WriteBits writes the n least significant bits of v, the most significant
// one first. The argument n must be in the range [0,64].
func (w *Writer) WriteBits(v uint64, n int) {
	if n < 0 || n > 64 {
		panic("bitio: bit count out of range")
	}
	if w.n == 0 {
		for ; n >= 8; n -= 8 {
			w.buf.WriteByte(byte(v >> uint(n-8)))
		}
	}
	for i := n - 1; i >= 0; i-- {
		w.acc = w.acc<<1 | byte(v>>uint(i))&1
		w.n++
		if w.n == 8 {
			w.buf.WriteByte(w.acc)
			w.acc, w.n = 0, 0
		}
	}
}

// WriteByte writes the eight bits of c.
func (w *Writer) WriteByte(c byte) error {
	w.WriteBits(uint64(c), 8)
	return nil
}

// WriteFlag writes a single bit.
func (w *Writer) WriteFlag(f bool) {
	var b uint64
	if f {
		b = 1
	}
	w.WriteBits(b, 1)
}

// Align pads the current byte with zero bits.
func (w *Writer) Align() {
	if w.n > 0 {
		w.WriteBits(0, int(8-w.n))
	}
}

// Len returns the number of bits written.
func (w *Writer) Len() int {
	return 8*w.buf.Len() + int(w.n)
}

// Bytes aligns the writer and returns the bytes written so far.
func (w *Writer) Bytes() []byte {
	w.Align()
	return w.buf.Bytes()
}

// Reader reads bits MSB first from a byte slice.
type Reader struct {
	p []byte
	// bit position
	pos int
}

// NewReader creates a reader for p.
func NewReader(p []byte) *Reader {
	return &Reader{p: p}
}

// ReadBits reads n bits and returns them in the least significant bits of
// the result. Reading past the end of the slice returns an exhaustion error.
func (r *Reader) ReadBits(n int) (v uint64, err error) {
	if n < 0 || n > 64 {
		return 0, errs.Range("bitio: bit count %d", n)
	}
	if r.pos+n > 8*len(r.p) {
		return 0, errs.Exhausted(
			"bitio: %d bits requested at bit %d of %d",
			n, r.pos, 8*len(r.p))
	}
	for i := 0; i < n; i++ {
		b := r.p[r.pos>>3] >> uint(7-r.pos&7) & 1
		v = v<<1 | uint64(b)
		r.pos++
	}
	return v, nil
}

// ReadFlag reads a single bit.
func (r *Reader) ReadFlag() (bool, error) {
	b, err := r.ReadBits(1)
	return b == 1, err
}

// Align skips the rest of the current byte.
func (r *Reader) Align() {
	r.pos = (r.pos + 7) &^ 7
}

// BytePos returns the number of bytes touched so far.
func (r *Reader) BytePos() int {
	return (r.pos + 7) >> 3
}
