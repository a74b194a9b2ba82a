package hash

// Chain indexes positions by hash value. Positions sharing a hash are
// linked from the most recent to the oldest one.
type Chain struct {
	head map[uint64]int
	prev []int
}

// NewChain creates an empty chain. The argument n is a capacity hint.
func NewChain(n int) *Chain {
	return &Chain{
		head: make(map[uint64]int, n),
		prev: make([]int, 0, n),
	}
}

// Put adds the next position with hash h and returns it. Positions are
// numbered from zero in the order they are added.
func (c *Chain) Put(h uint64) int {
	i := len(c.prev)
	p, ok := c.head[h]
	if !ok {
		p = -1
	}
	c.prev = append(c.prev, p)
	c.head[h] = i
	return i
}

// Len returns the number of positions added.
func (c *Chain) Len() int { return len(c.prev) }

// Last returns the most recent position with hash h or -1.
func (c *Chain) Last(h uint64) int {
	p, ok := c.head[h]
	if !ok {
		return -1
	}
	return p
}

// Prev returns the position before i with the same hash or -1.
func (c *Chain) Prev(i int) int { return c.prev[i] }
