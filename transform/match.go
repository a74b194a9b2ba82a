package transform

import (
	"github.com/ulikunitz/gabac/errs"
	"github.com/ulikunitz/gabac/hash"
)

// MinMatchLen is the minimum length of a match.
const MinMatchLen = 3

// Match searches each position for the longest match of at least
// MinMatchLen symbols starting at most window positions earlier. Matches
// may overlap the current position. Of matches with equal length the one
// with the smallest distance is used. A match adds its distance to ptrs and
// its length to lengths; a position without match adds zero to lengths and
// the symbol to raw.
func Match(symbols []uint64, window int) (ptrs, lengths, raw []uint64) {
	n := len(symbols)
	hashes := hash.ComputeHashes(hash.NewRabinKarp(MinMatchLen), symbols)
	chain := hash.NewChain(len(hashes))
	for i := 0; i < n; {
		for chain.Len() < i && chain.Len() < len(hashes) {
			chain.Put(hashes[chain.Len()])
		}
		bestLen, bestDist := 0, 0
		if i < len(hashes) {
			h := hashes[i]
			for j := chain.Last(h); j >= 0 && i-j <= window; j = chain.Prev(j) {
				l := 0
				for i+l < n && symbols[j+l] == symbols[i+l] {
					l++
				}
				if l > bestLen {
					bestLen, bestDist = l, i-j
				}
			}
		}
		if bestLen < MinMatchLen {
			lengths = append(lengths, 0)
			raw = append(raw, symbols[i])
			i++
			continue
		}
		ptrs = append(ptrs, uint64(bestDist))
		lengths = append(lengths, uint64(bestLen))
		i += bestLen
	}
	return ptrs, lengths, raw
}

// InverseMatch reconstructs the symbols from the pointer, length and raw
// value streams. The expansion stops with a range error as soon as it
// exceeds limit symbols.
func InverseMatch(ptrs, lengths, raw []uint64, limit int) ([]uint64, error) {
	var symbols []uint64
	ip, ir := 0, 0
	for _, l := range lengths {
		if uint64(limit-len(symbols)) < max(l, 1) {
			return nil, errs.Range(
				"transform: match expands beyond %d symbols", limit)
		}
		if l == 0 {
			if ir >= len(raw) {
				return nil, errs.Exhausted(
					"transform: match raw values exhausted")
			}
			symbols = append(symbols, raw[ir])
			ir++
			continue
		}
		if ip >= len(ptrs) {
			return nil, errs.Exhausted(
				"transform: match pointers exhausted")
		}
		d := ptrs[ip]
		ip++
		if d == 0 || d > uint64(len(symbols)) {
			return nil, errs.Range(
				"transform: match distance %d at position %d",
				d, len(symbols))
		}
		j := len(symbols) - int(d)
		for k := uint64(0); k < l; k++ {
			symbols = append(symbols, symbols[j])
			j++
		}
	}
	if ip != len(ptrs) || ir != len(raw) {
		return nil, errs.Range("transform: unused match pointers or values")
	}
	return symbols, nil
}
