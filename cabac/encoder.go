package cabac

import (
	"github.com/ulikunitz/gabac/ctxmodel"
	"github.com/ulikunitz/gabac/internal/bitio"
	"github.com/ulikunitz/gabac/xlog"
)

// renormTable gives the renormalization shift for the LPS range indexed by
// lps>>3.
var renormTable = [32]uint8{
	6, 5, 4, 4, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2, 2, 2,
	1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1,
}

// Encoder is a binary arithmetic encoder. The low value keeps up to 32 bits;
// pending 0xff bytes are counted in numBuffered until a carry into the
// buffered byte is resolved.
type Encoder struct {
	w            bitio.Writer
	low          uint32
	nrange       uint32
	bitsLeft     int
	numBuffered  int
	bufferedByte uint32
	bins         int64
	closed       bool
}

// NewEncoder creates an encoder in its start state.
func NewEncoder() *Encoder {
	return &Encoder{
		nrange:       510,
		bitsLeft:     23,
		bufferedByte: 0xff,
	}
}

// Bins returns the number of bins encoded.
func (e *Encoder) Bins() int64 { return e.bins }

// Len returns the number of bytes written so far. Bytes pending in the
// carry buffer are not counted.
func (e *Encoder) Len() int { return e.w.Len() / 8 }

func (e *Encoder) checkOpen() {
	if e.closed {
		panic("cabac: encoder used after Flush")
	}
}

// EncodeBin encodes the bin using the context s. The context is updated
// unless adaptive is false.
func (e *Encoder) EncodeBin(bin uint32, s *ctxmodel.State, adaptive bool) {
	e.checkOpen()
	e.bins++
	lps := s.LPS(e.nrange >> 6)
	e.nrange -= lps
	if bin&1 != s.MPS() {
		n := int(renormTable[lps>>3])
		e.low = (e.low + e.nrange) << uint(n)
		e.nrange = lps << uint(n)
		if adaptive {
			s.UpdateLPS()
		}
		e.bitsLeft -= n
	} else {
		if adaptive {
			s.UpdateMPS()
		}
		if e.nrange >= 256 {
			return
		}
		e.low <<= 1
		e.nrange <<= 1
		e.bitsLeft--
	}
	e.testAndWriteOut()
}

// EncodeBinEP encodes a bin with probability 1/2.
func (e *Encoder) EncodeBinEP(bin uint32) {
	e.checkOpen()
	e.bins++
	e.low <<= 1
	if bin&1 != 0 {
		e.low += e.nrange
	}
	e.bitsLeft--
	e.testAndWriteOut()
}

// EncodeBinsEP encodes the n least significant bits of v as bypass bins,
// the most significant bit first. The argument n must be in the range
// [0,64].
func (e *Encoder) EncodeBinsEP(v uint64, n int) {
	e.checkOpen()
	if n < 0 || n > 64 {
		panic("cabac: bypass bin count out of range")
	}
	e.bins += int64(n)
	if n < 64 {
		v &= 1<<uint(n) - 1
	}
	for n > 8 {
		n -= 8
		pattern := uint32(v>>uint(n)) & 0xff
		e.low <<= 8
		e.low += e.nrange * pattern
		e.bitsLeft -= 8
		e.testAndWriteOut()
	}
	e.low <<= uint(n)
	e.low += e.nrange * uint32(v&(1<<uint(n)-1))
	e.bitsLeft -= n
	e.testAndWriteOut()
}

// EncodeBinTrm encodes a terminating bin.
func (e *Encoder) EncodeBinTrm(bin uint32) {
	e.checkOpen()
	e.bins++
	e.nrange -= 2
	if bin&1 != 0 {
		e.low += e.nrange
		e.low <<= 7
		e.nrange = 2 << 7
		e.bitsLeft -= 7
	} else if e.nrange >= 256 {
		return
	} else {
		e.low <<= 1
		e.nrange <<= 1
		e.bitsLeft--
	}
	e.testAndWriteOut()
}

func (e *Encoder) testAndWriteOut() {
	if e.bitsLeft < 12 {
		e.writeOut()
	}
}

// writeOut moves the leading byte of low into the carry buffer.
func (e *Encoder) writeOut() {
	lead := e.low >> uint(24-e.bitsLeft)
	e.bitsLeft += 8
	e.low &= 0xffffffff >> uint(e.bitsLeft)
	if lead == 0xff {
		e.numBuffered++
		return
	}
	if e.numBuffered == 0 {
		e.numBuffered = 1
		e.bufferedByte = lead
		return
	}
	carry := lead >> 8
	c := e.bufferedByte + carry
	e.bufferedByte = lead & 0xff
	e.w.WriteBits(uint64(c), 8)
	c = (0xff + carry) & 0xff
	for ; e.numBuffered > 1; e.numBuffered-- {
		e.w.WriteBits(uint64(c), 8)
	}
}

// finish resolves the carry buffer and writes the remaining bits of low.
func (e *Encoder) finish() {
	if e.low>>uint(32-e.bitsLeft) != 0 {
		e.w.WriteBits(uint64(e.bufferedByte+1), 8)
		for ; e.numBuffered > 1; e.numBuffered-- {
			e.w.WriteBits(0x00, 8)
		}
		e.low -= 1 << uint(32-e.bitsLeft)
	} else {
		if e.numBuffered > 0 {
			e.w.WriteBits(uint64(e.bufferedByte), 8)
		}
		for ; e.numBuffered > 1; e.numBuffered-- {
			e.w.WriteBits(0xff, 8)
		}
	}
	e.w.WriteBits(uint64(e.low>>8), 24-e.bitsLeft)
}

// Flush terminates the arithmetic codeword, writes the stop bit, aligns the
// output and returns all bytes produced. The encoder cannot be used
// afterwards.
func (e *Encoder) Flush() []byte {
	e.EncodeBinTrm(1)
	e.finish()
	e.w.WriteFlag(true)
	e.closed = true
	p := e.w.Bytes()
	xlog.Printf(debug, "cabac: flushed %d bins into %d bytes",
		e.bins, len(p))
	return p
}
