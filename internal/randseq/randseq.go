// Package randseq generates synthetic descriptor subsequences resembling
// those of aligned sequencing data. The generators are deterministic for a
// given source.
package randseq

import (
	"math/rand"
	"sort"
)

// cdf is a cumulative distribution over the indexes of its weights.
type cdf []float64

func newCDF(weights ...float64) cdf {
	c := make(cdf, len(weights))
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	x := 0.0
	for i, w := range weights {
		x += w / sum
		if x > 1.0 {
			x = 1.0
		}
		c[i] = x
	}
	c[len(c)-1] = 1.0
	if !sort.Float64sAreSorted(c) {
		panic("cdf not sorted")
	}
	return c
}

func (c cdf) sample(r *rand.Rand) int {
	i := sort.SearchFloat64s(c, r.Float64())
	if i >= len(c) {
		i = len(c) - 1
	}
	return i
}

// Nucleotide symbols.
const (
	A = iota
	C
	G
	T
	N
)

// baseTransitions gives the distribution of the next base for every base.
var baseTransitions = [5]cdf{
	newCDF(34, 17, 24, 24, 1),
	newCDF(28, 30, 8, 33, 1),
	newCDF(24, 22, 30, 23, 1),
	newCDF(20, 22, 28, 29, 1),
	newCDF(10, 10, 10, 10, 60),
}

// Bases returns n nucleotide symbols produced by a first order Markov
// chain. N symbols tend to occur in runs.
func Bases(src rand.Source, n int) []uint64 {
	r := rand.New(src)
	s := make([]uint64, n)
	b := r.Intn(4)
	for i := range s {
		b = baseTransitions[b].sample(r)
		s[i] = uint64(b)
	}
	return s
}

// Positions returns n non-decreasing positions starting below maxGap.
// Consecutive positions differ by less than maxGap.
func Positions(src rand.Source, n int, maxGap int) []uint64 {
	r := rand.New(src)
	s := make([]uint64, n)
	var p uint64
	for i := range s {
		p += uint64(r.Intn(maxGap))
		s[i] = p
	}
	return s
}

// Runs returns n symbols below alphabet forming runs with a geometric
// length distribution of the given mean.
func Runs(src rand.Source, n int, mean float64, alphabet int) []uint64 {
	r := rand.New(src)
	s := make([]uint64, 0, n)
	for len(s) < n {
		v := uint64(r.Intn(alphabet))
		k := 1 + int(r.ExpFloat64()*mean)
		for ; k > 0 && len(s) < n; k-- {
			s = append(s, v)
		}
	}
	return s
}

// qualityStep is the distribution of the change between neighboring
// quality scores, from -3 to +3.
var qualityStep = newCDF(2, 5, 12, 62, 12, 5, 2)

// Qualities returns n quality scores in [2,41]. Neighboring scores are
// strongly correlated.
func Qualities(src rand.Source, n int) []uint64 {
	const lo, hi = 2, 41
	r := rand.New(src)
	s := make([]uint64, n)
	q := 37
	for i := range s {
		q += qualityStep.sample(r) - 3
		if q < lo {
			q = lo
		} else if q > hi {
			q = hi
		}
		s[i] = uint64(q)
	}
	return s
}

// Signed returns n two's complement values with magnitudes of at most
// maxAbs. Small magnitudes are more likely.
func Signed(src rand.Source, n int, maxAbs int64) []uint64 {
	r := rand.New(src)
	s := make([]uint64, n)
	for i := range s {
		m := int64(r.ExpFloat64() * float64(maxAbs) / 8)
		if m > maxAbs {
			m = maxAbs
		}
		if r.Intn(2) == 0 {
			m = -m
		}
		s[i] = uint64(m)
	}
	return s
}
