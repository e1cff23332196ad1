package store

import (
	"fmt"
)

// Layout reads dataset elements from a storage layout.
type Layout interface {
	// ReadSlice reads the hyperslab at start with count elements per
	// dimension, returning raw elements in row-major order.
	ReadSlice(start, count []int) ([]byte, error)

	// Class returns the layout name.
	Class() string
}

// Contiguous stores all elements in one row-major block.
type Contiguous struct {
	dims     []int
	elemSize int
	data     []byte
}

// NewContiguous wraps raw row-major data.
func NewContiguous(dims []int, elemSize int, data []byte) (*Contiguous, error) {
	if want := elements(dims) * elemSize; len(data) != want {
		return nil, fmt.Errorf("contiguous data is %d bytes, expected %d", len(data), want)
	}
	return &Contiguous{dims: append([]int(nil), dims...), elemSize: elemSize, data: data}, nil
}

func (c *Contiguous) Class() string { return "contiguous" }

func (c *Contiguous) ReadSlice(start, count []int) ([]byte, error) {
	if err := checkWindow(c.dims, start, count); err != nil {
		return nil, err
	}
	if len(c.dims) == 0 {
		return append([]byte(nil), c.data...), nil
	}
	return extractHyperslab(c.data, c.dims, start, count, c.elemSize), nil
}

// checkWindow validates a hyperslab against dataset dimensions.
func checkWindow(dims, start, count []int) error {
	if len(start) != len(dims) || len(count) != len(dims) {
		return fmt.Errorf("%w: start and count must have %d dimensions, got %d and %d",
			ErrWindow, len(dims), len(start), len(count))
	}
	for d := range dims {
		if start[d] < 0 || count[d] < 0 || start[d]+count[d] > dims[d] {
			return fmt.Errorf("%w: dimension %d, start=%d, count=%d, size=%d",
				ErrWindow, d, start[d], count[d], dims[d])
		}
	}
	return nil
}

// extractHyperslab copies a rectangular region out of row-major data.
func extractHyperslab(data []byte, dims, start, count []int, elemSize int) []byte {
	ndims := len(dims)
	result := make([]byte, elements(count)*elemSize)
	if len(result) == 0 {
		return result
	}

	srcStrides := make([]int, ndims)
	dstStrides := make([]int, ndims)
	srcStrides[ndims-1] = elemSize
	dstStrides[ndims-1] = elemSize
	for d := ndims - 2; d >= 0; d-- {
		srcStrides[d] = srcStrides[d+1] * dims[d+1]
		dstStrides[d] = dstStrides[d+1] * count[d+1]
	}

	extractHyperslabRecursive(data, result, start, count, srcStrides, dstStrides, 0, 0, 0)
	return result
}

func extractHyperslabRecursive(
	src, dst []byte,
	start, count []int,
	srcStrides, dstStrides []int,
	srcOffset, dstOffset, dim int,
) {
	if dim == len(count)-1 {
		rowBytes := count[dim] * srcStrides[dim]
		s := srcOffset + start[dim]*srcStrides[dim]
		copy(dst[dstOffset:dstOffset+rowBytes], src[s:s+rowBytes])
		return
	}

	for i := 0; i < count[dim]; i++ {
		extractHyperslabRecursive(src, dst, start, count, srcStrides, dstStrides,
			srcOffset+(start[dim]+i)*srcStrides[dim], dstOffset+i*dstStrides[dim], dim+1)
	}
}
