package transform

import "github.com/ulikunitz/gabac/errs"

// RLE splits the symbols into run lengths and run values. Every run of
// length c adds its value once and the lengths guard, while c exceeds the
// guard, followed by c-1.
func RLE(symbols []uint64, guard uint8) (lengths, values []uint64) {
	g := uint64(guard)
	for i := 0; i < len(symbols); {
		v := symbols[i]
		j := i + 1
		for j < len(symbols) && symbols[j] == v {
			j++
		}
		c := uint64(j - i)
		for c > g {
			lengths = append(lengths, g)
			c -= g
		}
		lengths = append(lengths, c-1)
		values = append(values, v)
		i = j
	}
	return lengths, values
}

// InverseRLE expands the runs described by the length and value streams.
// Runs expanding beyond limit symbols are a range error.
func InverseRLE(lengths, values []uint64, guard uint8, limit int) ([]uint64, error) {
	if guard == 0 {
		return nil, errs.Config("transform: rle guard must be positive")
	}
	g := uint64(guard)
	var symbols []uint64
	k := 0
	for _, v := range values {
		var c uint64
		for {
			if k >= len(lengths) {
				return nil, errs.Exhausted(
					"transform: rle lengths exhausted")
			}
			l := lengths[k]
			k++
			if l > g {
				return nil, errs.Range(
					"transform: rle length %d exceeds guard %d",
					l, g)
			}
			if l < g {
				c += l + 1
				break
			}
			c += g
			if c > uint64(limit-len(symbols)) {
				break
			}
		}
		if c > uint64(limit-len(symbols)) {
			return nil, errs.Range(
				"transform: rle runs expand beyond %d symbols", limit)
		}
		for ; c > 0; c-- {
			symbols = append(symbols, v)
		}
	}
	if k != len(lengths) {
		return nil, errs.Range("transform: %d unused rle lengths",
			len(lengths)-k)
	}
	return symbols, nil
}
