package bitio

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"

	"github.com/ulikunitz/gabac/errs"
)

func TestWriterBits(t *testing.T) {
	var w Writer
	w.WriteBits(0x5, 3)
	w.WriteFlag(true)
	w.WriteBits(0xabc, 12)
	w.WriteBits(1, 1)
	if n := w.Len(); n != 17 {
		t.Fatalf("w.Len() = %d; want %d", n, 17)
	}
	got := w.Bytes()
	want := []byte{0xba, 0xbc, 0x80}
	if !bytes.Equal(got, want) {
		t.Fatalf("w.Bytes() = % x; want % x", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	fields := []struct {
		v uint64
		n int
	}{
		{0, 1}, {1, 1}, {0x3ff, 10}, {7, 8}, {0xdeadbeef, 32},
		{0, 0}, {0x1f, 5}, {0x123456789abcdef0, 64}, {3, 2},
	}
	var w Writer
	for _, f := range fields {
		w.WriteBits(f.v, f.n)
	}
	r := NewReader(w.Bytes())
	for i, f := range fields {
		v, err := r.ReadBits(f.n)
		if err != nil {
			t.Fatalf("field %d: r.ReadBits(%d) error %s", i, f.n, err)
		}
		if v != f.v {
			t.Fatalf("field %d: got %#x; want %#x", i, v, f.v)
		}
	}
}

func TestReaderExhausted(t *testing.T) {
	r := NewReader([]byte{0xff})
	if _, err := r.ReadBits(6); err != nil {
		t.Fatalf("r.ReadBits(6) error %s", err)
	}
	_, err := r.ReadBits(3)
	if !errors.Is(err, errs.ErrExhausted) {
		t.Fatalf("r.ReadBits(3) error %v; want exhaustion", err)
	}
	r.Align()
	if n := r.BytePos(); n != 1 {
		t.Fatalf("r.BytePos() = %d; want 1", n)
	}
}
