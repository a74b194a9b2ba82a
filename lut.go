package gabac

import (
	"sort"

	"github.com/ulikunitz/gabac/binarize"
	"github.com/ulikunitz/gabac/cabac"
	"github.com/ulikunitz/gabac/param"
)

// lut maps sub-symbol values to their frequency rank. It has one row for
// every combination of previous sub-symbol values; a row lists the values
// seen in that context, most frequent first.
type lut struct {
	rows [][]uint64
	// rank of row*alphabet+value; only filled by the encoder
	rank map[uint64]uint64
}

type lutEntry struct {
	value uint64
	freq  uint64
}

// newLUT builds a table of n rows from the counts of row*alpha+value keys.
// Values with equal frequency are ordered by ascending value.
func newLUT(counts map[uint64]uint64, alpha uint64, n int) *lut {
	entries := make([][]lutEntry, n)
	for key, f := range counts {
		r := key / alpha
		entries[r] = append(entries[r], lutEntry{value: key % alpha, freq: f})
	}
	t := &lut{
		rows: make([][]uint64, n),
		rank: make(map[uint64]uint64, len(counts)),
	}
	for r, e := range entries {
		sort.Slice(e, func(i, j int) bool {
			if e[i].freq != e[j].freq {
				return e[i].freq > e[j].freq
			}
			return e[i].value < e[j].value
		})
		row := make([]uint64, len(e))
		for k, x := range e {
			row[k] = x.value
			t.rank[uint64(r)*alpha+x.value] = uint64(k)
		}
		t.rows[r] = row
	}
	return t
}

// numMaxElems returns the largest rank of the row.
func numMaxElems(row []uint64) uint64 {
	if len(row) == 0 {
		return 0
	}
	return uint64(len(row) - 1)
}

func (c *streamCoder) lutIndex(s int) int {
	if c.sv.NumLUTs > 1 {
		return s
	}
	return 0
}

// numRows returns the number of rows of a table.
func (c *streamCoder) numRows() int {
	n := 1
	for i := 0; i < c.order; i++ {
		n *= int(c.sv.NumAlphaSubsym)
	}
	return n
}

// row returns the table row selected by the previous values of sub-symbol
// s.
func (c *streamCoder) row(s int) int {
	p := &c.prv[c.prvIndex(s)]
	if c.order == 2 {
		return int(p[1])*int(c.sv.NumAlphaSubsym) + int(p[0])
	}
	return int(p[0])
}

// lutScheme returns the scheme coding ranks of the row. Truncated unary
// codes limit cmax to the largest rank.
func (c *streamCoder) lutScheme(row []uint64) *binarize.Scheme {
	p, ok := c.scheme.Params.(param.TruncatedUnary)
	if !ok {
		return &c.scheme
	}
	m := numMaxElems(row)
	if m >= uint64(p.CMax) {
		return &c.scheme
	}
	sc := c.scheme
	sc.Params = param.TruncatedUnary{CMax: uint8(m)}
	return &sc
}

// buildLUTs counts the sub-symbol values in their contexts and creates the
// tables.
func (c *streamCoder) buildLUTs(mags []uint64) {
	alpha := c.sv.NumAlphaSubsym
	counts := make([]map[uint64]uint64, c.sv.NumLUTs)
	for i := range counts {
		counts[i] = make(map[uint64]uint64)
	}
	for _, m := range mags {
		for s := 0; s < c.sv.NumSubsyms; s++ {
			sub := c.subsym(m, s)
			counts[c.lutIndex(s)][uint64(c.row(s))*alpha+sub]++
			c.update(s, sub)
		}
	}
	c.reset()
	c.luts = make([]*lut, len(counts))
	for i, cnt := range counts {
		c.luts[i] = newLUT(cnt, alpha, c.numRows())
	}
}

// lutSelector addresses the LUT contexts at the start of the table.
func (c *streamCoder) lutSelector() binarize.Selector {
	return &binarize.FlatSelector{Table: c.table}
}

// writeLUTs writes every row as its largest rank followed by the values.
// Empty rows are written as a single zero value.
func (c *streamCoder) writeLUTs(e *cabac.Encoder) error {
	sel := c.lutSelector()
	empty := []uint64{0}
	for _, t := range c.luts {
		for _, row := range t.rows {
			if len(row) == 0 {
				row = empty
			}
			err := binarize.EncodeLUTSymbol(e, numMaxElems(row), c.css, sel)
			if err != nil {
				return err
			}
			for _, v := range row {
				err = binarize.EncodeLUTSymbol(e, v, c.css, sel)
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *streamCoder) readLUTs(d *cabac.Decoder) error {
	sel := c.lutSelector()
	n := c.numRows()
	c.luts = make([]*lut, c.sv.NumLUTs)
	for i := range c.luts {
		t := &lut{rows: make([][]uint64, n)}
		for r := range t.rows {
			m, err := binarize.DecodeLUTSymbol(d, c.css, sel)
			if err != nil {
				return err
			}
			row := make([]uint64, m+1)
			for k := range row {
				if row[k], err = binarize.DecodeLUTSymbol(d, c.css, sel); err != nil {
					return err
				}
			}
			t.rows[r] = row
		}
		c.luts[i] = t
	}
	return nil
}
