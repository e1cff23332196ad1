// Package array provides the dense multi-dimensional array that backs a
// volume in memory.
//
// An [Array] stores its elements in row-major order as little-endian bytes
// of a single [dtype.Datatype]. The last dimension varies fastest. Storage
// is allocated eagerly by [New]; element access goes through float64 so
// callers do not need to switch on the element type.
//
// # Reordered Copies
//
// [CopyReordered] copies a row-major source block into a destination array
// whose dimensions are a permutation (and possibly a superset) of the
// source's. It is the primitive used to land a hyperslab read in file
// dimension order into a volume laid out in a different order:
//
//	// src is [x][y] in file order, dst is [y][x]
//	array.CopyReordered(elemSize, dst, []int{ny, nx}, 0,
//	    src, []int{nx, ny}, []int{nx, ny}, []int{1, 0})
//
// The innermost run is copied with a single copy() call whenever the last
// source dimension maps onto the last destination dimension.
package array
