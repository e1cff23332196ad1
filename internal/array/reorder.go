package array

// CopyReordered copies the leading counts block of a row-major source into
// dst. Source dimension i lands on destination dimension toDst[i]; a
// negative entry marks a source dimension that must have count 1. dstOffset
// is the element offset in dst where the block's origin lands.
func CopyReordered(
	elemSize int,
	dst []byte, dstSizes []int, dstOffset int,
	src []byte, srcSizes []int,
	counts []int, toDst []int,
) {
	n := len(srcSizes)
	if n == 0 {
		copy(dst[dstOffset*elemSize:], src[:elemSize])
		return
	}
	for _, c := range counts {
		if c == 0 {
			return
		}
	}

	srcStrides := Strides(srcSizes)
	dstStrides := Strides(dstSizes)

	// Destination stride for each source dimension.
	steps := make([]int, n)
	for i, d := range toDst {
		if d >= 0 {
			steps[i] = dstStrides[d]
		}
	}

	contiguous := steps[n-1] == 1
	copyReorderedRecursive(elemSize, dst, src, counts, srcStrides, steps,
		dstOffset, 0, 0, contiguous)
}

func copyReorderedRecursive(
	elemSize int,
	dst, src []byte,
	counts, srcStrides, dstSteps []int,
	dstIdx, srcIdx, dim int,
	contiguous bool,
) {
	last := len(counts) - 1
	if dim == last {
		if contiguous {
			rowBytes := counts[dim] * elemSize
			d := dstIdx * elemSize
			s := srcIdx * elemSize
			copy(dst[d:d+rowBytes], src[s:s+rowBytes])
			return
		}
		for i := 0; i < counts[dim]; i++ {
			d := (dstIdx + i*dstSteps[dim]) * elemSize
			s := (srcIdx + i*srcStrides[dim]) * elemSize
			copy(dst[d:d+elemSize], src[s:s+elemSize])
		}
		return
	}

	for i := 0; i < counts[dim]; i++ {
		copyReorderedRecursive(elemSize, dst, src, counts, srcStrides, dstSteps,
			dstIdx+i*dstSteps[dim], srcIdx+i*srcStrides[dim], dim+1, contiguous)
	}
}
