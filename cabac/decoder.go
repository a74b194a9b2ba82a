package cabac

import (
	"github.com/ulikunitz/gabac/ctxmodel"
	"github.com/ulikunitz/gabac/errs"
)

// Decoder is a binary arithmetic decoder reading from a byte slice of known
// length. Reading beyond the slice is reported as exhaustion error.
type Decoder struct {
	p          []byte
	pos        int
	value      uint32
	nrange     uint32
	bitsNeeded int
	bins       int64
}

// NewDecoder creates a decoder for the payload p and loads its first two
// bytes.
func NewDecoder(p []byte) (d *Decoder, err error) {
	d = &Decoder{p: p, nrange: 510, bitsNeeded: -8}
	hi, err := d.readByte()
	if err != nil {
		return nil, err
	}
	lo, err := d.readByte()
	if err != nil {
		return nil, err
	}
	d.value = hi<<8 | lo
	return d, nil
}

func (d *Decoder) readByte() (uint32, error) {
	if d.pos >= len(d.p) {
		return 0, errs.Exhausted("cabac: payload of %d bytes exhausted",
			len(d.p))
	}
	c := d.p[d.pos]
	d.pos++
	return uint32(c), nil
}

// Bins returns the number of bins decoded.
func (d *Decoder) Bins() int64 { return d.bins }

// Pos returns the number of payload bytes consumed.
func (d *Decoder) Pos() int { return d.pos }

// DecodeBin decodes a bin using the context s. The context is updated
// unless adaptive is false.
func (d *Decoder) DecodeBin(s *ctxmodel.State, adaptive bool) (bin uint32, err error) {
	d.bins++
	lps := s.LPS(d.nrange >> 6)
	d.nrange -= lps
	scaled := d.nrange << 7
	if d.value < scaled {
		bin = s.MPS()
		if adaptive {
			s.UpdateMPS()
		}
		if scaled < 256<<7 {
			d.nrange = scaled >> 6
			d.value += d.value
			d.bitsNeeded++
			if d.bitsNeeded == 0 {
				d.bitsNeeded = -8
				c, err := d.readByte()
				if err != nil {
					return 0, err
				}
				d.value += c
			}
		}
		return bin, nil
	}
	n := int(renormTable[lps>>3])
	d.value = (d.value - scaled) << uint(n)
	d.nrange = lps << uint(n)
	bin = 1 - s.MPS()
	if adaptive {
		s.UpdateLPS()
	}
	d.bitsNeeded += n
	if d.bitsNeeded >= 0 {
		c, err := d.readByte()
		if err != nil {
			return 0, err
		}
		d.value += c << uint(d.bitsNeeded)
		d.bitsNeeded -= 8
	}
	return bin, nil
}

// DecodeBinEP decodes a bin with probability 1/2.
func (d *Decoder) DecodeBinEP() (bin uint32, err error) {
	d.bins++
	d.value += d.value
	d.bitsNeeded++
	if d.bitsNeeded >= 0 {
		d.bitsNeeded = -8
		c, err := d.readByte()
		if err != nil {
			return 0, err
		}
		d.value += c
	}
	scaled := d.nrange << 7
	if d.value >= scaled {
		d.value -= scaled
		return 1, nil
	}
	return 0, nil
}

// DecodeBinsEP decodes n bypass bins and returns them with the first bin at
// the most significant position. The argument n must be in the range
// [0,64].
func (d *Decoder) DecodeBinsEP(n int) (v uint64, err error) {
	if n < 0 || n > 64 {
		return 0, errs.Range("cabac: bypass bin count %d", n)
	}
	d.bins += int64(n)
	for n > 8 {
		c, err := d.readByte()
		if err != nil {
			return 0, err
		}
		d.value = d.value<<8 + c<<uint(8+d.bitsNeeded)
		scaled := d.nrange << 15
		for i := 0; i < 8; i++ {
			v += v
			scaled >>= 1
			if d.value >= scaled {
				v++
				d.value -= scaled
			}
		}
		n -= 8
	}
	d.bitsNeeded += n
	d.value <<= uint(n)
	if d.bitsNeeded >= 0 {
		c, err := d.readByte()
		if err != nil {
			return 0, err
		}
		d.value += c << uint(d.bitsNeeded)
		d.bitsNeeded -= 8
	}
	scaled := d.nrange << uint(n+7)
	for i := 0; i < n; i++ {
		v += v
		scaled >>= 1
		if d.value >= scaled {
			v++
			d.value -= scaled
		}
	}
	return v, nil
}

// DecodeBinTrm decodes a terminating bin.
func (d *Decoder) DecodeBinTrm() (bin uint32, err error) {
	d.bins++
	d.nrange -= 2
	scaled := d.nrange << 7
	if d.value >= scaled {
		return 1, nil
	}
	if scaled < 256<<7 {
		d.nrange = scaled >> 6
		d.value += d.value
		d.bitsNeeded++
		if d.bitsNeeded == 0 {
			d.bitsNeeded = -8
			c, err := d.readByte()
			if err != nil {
				return 0, err
			}
			d.value += c
		}
	}
	return 0, nil
}
