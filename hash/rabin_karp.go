package hash

// A is the default constant for the Rabin-Karp rolling hash. This is a
// random prime.
const A = 252097800623

// RabinKarp supports the computation of a rolling hash.
type RabinKarp struct {
	A uint64
	N int
	// a^{n-1}
	aOldest uint64
}

// NewRabinKarp creates a new RabinKarp value. The argument n defines the
// length of the symbol sequence to be hashed. The default constant will be
// used.
func NewRabinKarp(n int) *RabinKarp {
	return NewRabinKarpConst(n, A)
}

// NewRabinKarpConst creates a new RabinKarp value. The argument n defines
// the length of the symbol sequence to be hashed. The argument a provides
// the constant used to compute the hash.
func NewRabinKarpConst(n int, a uint64) *RabinKarp {
	if n <= 0 {
		panic("number of symbols n must be positive")
	}
	aOldest := uint64(1)
	for i := 0; i < n-1; i++ {
		aOldest *= a
	}
	return &RabinKarp{A: a, aOldest: aOldest, N: n}
}

// AddYoung adds a "young" symbol to the hash provided. The existing hash is
// multiplied accordingly.
func (r *RabinKarp) AddYoung(h uint64, s uint64) uint64 {
	h *= r.A
	h += s
	return h
}

// RemoveOldest removes the "oldest" symbol from the hash. The hash value is
// not multiplied.
func (r *RabinKarp) RemoveOldest(h uint64, s uint64) uint64 {
	h -= s * r.aOldest
	return h
}

// Len returns the length of the symbol sequence this hash supports.
func (r *RabinKarp) Len() int {
	return r.N
}
