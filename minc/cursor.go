package minc

// cursor walks a file in slabs. Matched dimensions are advanced by slab
// reads and unmatched ones by volume advances.
type cursor struct {
	sizes   []int
	forward []int
	nSlab   int
	indices []int

	// done is set when the current volume has been read completely,
	// exhausted when no volume is left in the file.
	done      bool
	exhausted bool
}

func newCursor(forward, sizes []int, nSlab int) *cursor {
	return &cursor{
		sizes:   sizes,
		forward: forward,
		nSlab:   nSlab,
		indices: make([]int, len(sizes)),
	}
}

// slabCounts returns the read window sizes: full length for the innermost
// nSlab matched dimensions and 1 everywhere else.
func (c *cursor) slabCounts() []int {
	count := make([]int, len(c.sizes))
	for d := range count {
		count[d] = 1
	}
	n := 0
	for d := len(c.sizes) - 1; d >= 0 && n < c.nSlab; d-- {
		if c.forward[d] >= 0 {
			count[d] = c.sizes[d]
			n++
		}
	}
	return count
}

// advance moves past the slab just read and returns the fraction of the
// volume read so far. The fraction is 1 exactly when the volume is done.
func (c *cursor) advance() float64 {
	increment := true
	n, total, nDone := 0, 1, 0

	for d := len(c.sizes) - 1; d >= 0; d-- {
		matched := c.forward[d] >= 0
		if n >= c.nSlab && matched {
			if increment {
				c.indices[d]++
				if c.indices[d] < c.sizes[d] {
					increment = false
				} else {
					c.indices[d] = 0
				}
			}
			nDone += total * c.indices[d]
			total *= c.sizes[d]
		}
		if matched {
			n++
		}
	}

	if increment {
		c.done = true
		return 1
	}
	return float64(nDone) / float64(total)
}

// advanceVolume moves to the next volume along the unmatched dimensions
// and rewinds the matched ones. It reports false once every volume has
// been visited; that state holds until reset.
func (c *cursor) advanceVolume() bool {
	if c.exhausted {
		return false
	}

	d := len(c.sizes) - 1
	for ; d >= 0; d-- {
		if c.forward[d] >= 0 {
			continue
		}
		c.indices[d]++
		if c.indices[d] < c.sizes[d] {
			break
		}
		c.indices[d] = 0
	}

	if d < 0 {
		c.done = true
		c.exhausted = true
		return false
	}

	c.done = false
	for f, v := range c.forward {
		if v >= 0 {
			c.indices[f] = 0
		}
	}
	return true
}

// reset rewinds to the first slab of the first volume.
func (c *cursor) reset() {
	for d := range c.indices {
		c.indices[d] = 0
	}
	c.done = false
	c.exhausted = false
}
