package minc

import (
	"fmt"

	"github.com/robert-malhotra/go-minc/internal/array"
	"github.com/robert-malhotra/go-minc/internal/dtype"
)

// hyperslabPlan says how one window of the file reaches the volume array.
type hyperslabPlan struct {
	// direct is set when the window is one contiguous run of the array in
	// the array's own order, so it can be read in place.
	direct bool

	// tmpSizes is the shape of the buffered read: the matched window
	// dimensions with a count above one, or a file length of one, in file
	// order. toDst gives the array dimension of each.
	tmpSizes []int
	toDst    []int
}

// planHyperslab decides between reading a window in place and reading it
// into a buffer that is then copied with reordering.
//
// Walking file dimensions innermost first, the window is direct when every
// matched dimension with a count above one lands on the next array
// dimension in reverse order, and no dimension outside a partially read
// one has a count above one.
func planHyperslab(forward, fileSizes, count []int, nArrayDims int) hyperslabPlan {
	plan := hyperslabPlan{direct: true}

	expected := nArrayDims - 1
	nonFull := false
	for f := len(forward) - 1; f >= 0; f-- {
		v := forward[f]
		if v < 0 {
			continue
		}

		if !nonFull && count[f] < fileSizes[f] {
			nonFull = true
		} else if nonFull && count[f] > 1 {
			plan.direct = false
		}
		if count[f] > 1 && v != expected {
			plan.direct = false
		}

		if count[f] != 1 || fileSizes[f] == 1 {
			plan.tmpSizes = append(plan.tmpSizes, count[f])
			plan.toDst = append(plan.toDst, v)
		}
		expected--
	}

	for i, j := 0, len(plan.tmpSizes)-1; i < j; i, j = i+1, j-1 {
		plan.tmpSizes[i], plan.tmpSizes[j] = plan.tmpSizes[j], plan.tmpSizes[i]
		plan.toDst[i], plan.toDst[j] = plan.toDst[j], plan.toDst[i]
	}
	return plan
}

func elements(sizes []int) int {
	n := 1
	for _, s := range sizes {
		n *= s
	}
	return n
}

// materialize reads the window at start with count elements per file
// dimension into the volume array.
func (in *Input) materialize(start, count []int) error {
	arr := in.vol.data
	elemSize := arr.Datatype().Size()

	volStart := make([]int, arr.Rank())
	for f, v := range in.forward {
		if v >= 0 {
			volStart[v] = start[f]
		}
	}
	offset := arr.Offset(volStart...)

	plan := planHyperslab(in.forward, in.fileSizes, count, arr.Rank())
	if plan.direct && !in.colour {
		return in.conv.ReadHyperslab(start, count, arr.Bytes()[offset*elemSize:])
	}

	buf := make([]byte, elements(plan.tmpSizes)*elemSize)
	if in.colour {
		if err := in.readColour(start, count, elements(plan.tmpSizes), buf); err != nil {
			return err
		}
	} else if err := in.conv.ReadHyperslab(start, count, buf); err != nil {
		return err
	}

	array.CopyReordered(elemSize, arr.Bytes(), arr.Sizes(), offset,
		buf, plan.tmpSizes, plan.tmpSizes, plan.toDst)
	return nil
}

// readColour reads n voxels of the window together with the whole vector
// dimension and packs each voxel's channels into dst.
func (in *Input) readColour(start, count []int, n int, dst []byte) error {
	ws := append(append([]int(nil), start...), 0)
	wc := append(append([]int(nil), count...), in.vectorLength)

	channels := dtype.Datatype{Type: dtype.Float}
	raw := make([]byte, n*in.vectorLength*channels.Size())
	if err := in.conv.ReadHyperslab(ws, wc, raw); err != nil {
		return err
	}

	packed := dtype.Datatype{Type: dtype.Int}
	if len(dst) < n*packed.Size() {
		return fmt.Errorf("colour buffer holds %d bytes, need %d", len(dst), n*packed.Size())
	}
	for e := 0; e < n; e++ {
		var rgba [4]float64
		for i, idx := range in.opts.ChannelIndices {
			switch {
			case idx >= 0:
				rgba[i] = channels.Decode(raw[(e*in.vectorLength+idx)*channels.Size():])
			case i == 3:
				rgba[i] = 1
			}
		}
		packed.Encode(dst[e*packed.Size():], float64(PackColour(rgba[0], rgba[1], rgba[2], rgba[3])))
	}
	return nil
}
