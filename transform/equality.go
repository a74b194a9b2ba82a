package transform

import "github.com/ulikunitz/gabac/errs"

// Equality splits the symbols into a flag stream and a value stream. A
// flag is 1 if the symbol equals its predecessor; the first symbol is
// compared with zero. The value stream holds the symbols with flag 0.
func Equality(symbols []uint64) (flags, values []uint64) {
	flags = make([]uint64, len(symbols))
	var prev uint64
	for i, s := range symbols {
		if s == prev {
			flags[i] = 1
			continue
		}
		values = append(values, s)
		prev = s
	}
	return flags, values
}

// InverseEquality reconstructs the symbols from the flag and value
// streams. More than limit symbols are a range error.
func InverseEquality(flags, values []uint64, limit int) ([]uint64, error) {
	if len(flags) > limit {
		return nil, errs.Range("transform: %d equality flags exceed %d symbols",
			len(flags), limit)
	}
	symbols := make([]uint64, len(flags))
	var prev uint64
	k := 0
	for i, f := range flags {
		switch f {
		case 1:
			symbols[i] = prev
		case 0:
			if k >= len(values) {
				return nil, errs.Exhausted(
					"transform: equality values exhausted at symbol %d",
					i)
			}
			prev = values[k]
			k++
			symbols[i] = prev
		default:
			return nil, errs.Range("transform: equality flag %d", f)
		}
	}
	if k != len(values) {
		return nil, errs.Range("transform: %d unused equality values",
			len(values)-k)
	}
	return symbols, nil
}
