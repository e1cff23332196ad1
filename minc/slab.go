package minc

// Slab size bounds, in elements.
const (
	MinSlabSize = 10000
	MaxSlabSize = 400000
)

// planSlab returns how many of the innermost matched file dimensions are
// read together. Matched dimensions are taken from the innermost outwards
// until the slab holds at least MinSlabSize elements; the innermost
// dimension is always considered. A slab over MaxSlabSize gives back its
// outermost dimension when it has more than one.
func planSlab(forward, sizes []int) int {
	if len(sizes) == 0 {
		return 0
	}

	n, size := 0, 1
	for d := len(sizes) - 1; ; {
		if forward[d] >= 0 {
			n++
			size *= sizes[d]
		}
		d--
		if d < 0 || size >= MinSlabSize {
			break
		}
	}

	if size > MaxSlabSize && n > 1 {
		n--
	}
	return n
}
