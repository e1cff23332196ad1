package array

import (
	"fmt"

	"github.com/robert-malhotra/go-minc/internal/dtype"
)

// Array is a dense N-dimensional array of one datatype.
type Array struct {
	dt      dtype.Datatype
	sizes   []int
	strides []int
	data    []byte
}

// New allocates a zeroed array. Byte order is always little-endian.
func New(dt dtype.Datatype, sizes []int) (*Array, error) {
	if dt.Size() == 0 {
		return nil, fmt.Errorf("cannot allocate array of type %s", dt.Type)
	}
	n := 1
	for d, s := range sizes {
		if s < 0 {
			return nil, fmt.Errorf("negative size %d in dimension %d", s, d)
		}
		n *= s
	}

	dt.BigEndian = false
	a := &Array{
		dt:      dt,
		sizes:   append([]int(nil), sizes...),
		strides: Strides(sizes),
		data:    make([]byte, n*dt.Size()),
	}
	return a, nil
}

// Strides returns the row-major element strides of an array of the given
// sizes.
func Strides(sizes []int) []int {
	strides := make([]int, len(sizes))
	s := 1
	for d := len(sizes) - 1; d >= 0; d-- {
		strides[d] = s
		s *= sizes[d]
	}
	return strides
}

// Datatype returns the element datatype.
func (a *Array) Datatype() dtype.Datatype { return a.dt }

// Rank returns the number of dimensions.
func (a *Array) Rank() int { return len(a.sizes) }

// Sizes returns a copy of the dimension sizes.
func (a *Array) Sizes() []int { return append([]int(nil), a.sizes...) }

// Len returns the number of elements.
func (a *Array) Len() int {
	return len(a.data) / a.dt.Size()
}

// Bytes returns the backing storage.
func (a *Array) Bytes() []byte { return a.data }

// Offset returns the element offset of idx. Missing trailing indices are
// treated as zero.
func (a *Array) Offset(idx ...int) int {
	off := 0
	for d, i := range idx {
		off += i * a.strides[d]
	}
	return off
}

// Get returns the element at idx.
func (a *Array) Get(idx ...int) float64 {
	return a.dt.Decode(a.data[a.Offset(idx...)*a.dt.Size():])
}

// Set stores v at idx, saturating for integer types.
func (a *Array) Set(v float64, idx ...int) {
	a.dt.Encode(a.data[a.Offset(idx...)*a.dt.Size():], v)
}

// At returns the i-th element in storage order.
func (a *Array) At(i int) float64 {
	return a.dt.Decode(a.data[i*a.dt.Size():])
}
