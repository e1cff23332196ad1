package minc

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/robert-malhotra/go-minc/internal/dtype"
	"github.com/robert-malhotra/go-minc/internal/store"
	"github.com/robert-malhotra/go-minc/internal/xform"
)

// Engine opens stored images. *store.Engine implements it.
type Engine interface {
	Open(path string) (store.Handle, error)
}

// Input is an open session reading one file into a volume.
type Input struct {
	path string
	h    store.Handle
	conv store.Converter
	vol  *Volume
	opts InputOptions

	// dims and fileSizes describe the file in storage order, without a
	// vector dimension consumed by scalar or colour conversion.
	dims      []Dimension
	fileSizes []int

	colour       bool
	vectorLength int

	forward []int
	inverse []int

	spatial      [3]int
	nVolumes     int
	xform        *xform.Transform
	sliceScaling bool

	cur    *cursor
	closed bool
}

// OpenInput opens path and prepares to read it into vol.
//
// The volume's dimension patterns are matched against the file, pattern
// dimensions taking the names they matched. The volume receives its sizes,
// separations, direction cosines, translation, voxel type and ranges. Its
// voxel array is released if the sizes or type changed and allocated on
// the first read. A failed open leaves vol unchanged.
func OpenInput(engine Engine, path string, vol *Volume, opts ...InputOption) (*Input, error) {
	o := DefaultInputOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("%w %q: invalid options: %w", ErrOpen, path, err)
	}

	h, err := engine.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrOpen, path, err)
	}

	in, err := newInput(h, path, vol, o)
	if err != nil {
		h.Close()
		return nil, err
	}
	return in, nil
}

// newInput leaves vol as it found it when it fails.
func newInput(h store.Handle, path string, vol *Volume, o InputOptions) (in *Input, err error) {
	prev := vol.state()
	defer func() {
		if err != nil {
			vol.restore(prev)
		}
	}()

	dims, fileType, err := queryDimensions(h)
	if err != nil {
		return nil, err
	}

	in = &Input{path: path, h: h, vol: vol, opts: o}

	average := false
	if n := len(dims); n > 0 && dims[n-1].Name == VectorDimension {
		vecLen := dims[n-1].Length
		switch {
		case o.ConvertVectorToColour && o.ColourDimensionSize == vecLen:
			for i, idx := range o.ChannelIndices {
				if idx >= o.ColourDimensionSize {
					return nil, fmt.Errorf("%w: channel %d has index %d, vector has %d components",
						ErrColourIndex, i, idx, o.ColourDimensionSize)
				}
			}
			vol.setType(dtype.Int, false)
			in.colour = true
			infof("%s: packing %d-component vector dimension into colours", path, vecLen)
			in.vectorLength = vecLen
			dims = dims[:n-1]
		case o.ConvertVectorToScalar:
			average = true
			in.vectorLength = vecLen
			dims = dims[:n-1]
		}
	}
	vol.rgba = in.colour
	in.dims = dims

	fileNames := make([]string, len(dims))
	in.fileSizes = make([]int, len(dims))
	for f, d := range dims {
		fileNames[f] = d.Name
		in.fileSizes[f] = d.Length
	}

	nv := vol.NDims()
	if len(dims) < nv {
		errorf("file %s has only %d dimensions, volume requires %d", path, len(dims), nv)
		return nil, newMismatchError(vol.names, fileNames,
			fmt.Sprintf("file has only %d dimensions, volume requires %d", len(dims), nv))
	}
	if len(dims) > MaxFileDimensions {
		return nil, fmt.Errorf("%w: file has %d, can only handle %d",
			ErrTooManyDimensions, len(dims), MaxFileDimensions)
	}

	in.forward, in.inverse, err = matchDimensions(vol.names, fileNames)
	if err != nil {
		errorf("%s: dimension names did not match: requested %v, in file %v", path, vol.Names(), fileNames)
		return nil, err
	}
	for v, f := range in.inverse {
		vol.resolve(v, fileNames[f])
	}

	in.placeVolume()

	conv := negotiate(h, vol, fileType, in.colour, average, o)
	in.conv, err = h.Configure(ImagePath, conv)
	if err != nil {
		return nil, fmt.Errorf("%w: configuring conversion: %w", ErrOpen, err)
	}
	if !in.colour {
		vol.SetRealRange(in.conv.NormRange())
	}

	if shape, err := h.Shape(ImageMaxPath); err == nil && len(shape) > 0 {
		in.sliceScaling = true
	}

	nSlab := planSlab(in.forward, in.fileSizes)
	in.cur = newCursor(in.forward, in.fileSizes, nSlab)
	debugf("%s: reading %s elements per slab over %d dimensions, %d volume(s) in file",
		path, humanize.Comma(int64(elements(in.cur.slabCounts()))), nSlab, in.nVolumes)

	if vol.IsAllocated() && (!sameSizes(prev.sizes, vol.sizes) ||
		prev.dt.Type != vol.dt.Type || prev.dt.Signed != vol.dt.Signed) {
		vol.Free()
	}
	return in, nil
}

// placeVolume copies the matched file geometry onto the volume: sizes,
// separations, spatial axes, direction cosines and the translation of
// voxel zero.
func (in *Input) placeVolume() {
	vol := in.vol
	vol.spatialAxes = [3]int{-1, -1, -1}
	in.nVolumes = 1

	for f, d := range in.dims {
		v := in.forward[f]
		if v < 0 {
			in.nVolumes *= d.Length
			continue
		}
		vol.sizes[v] = d.Length
		vol.separations[v] = d.Step
		if axis, ok := SpatialAxis(d.Name); ok {
			vol.spatialAxes[axis] = v
			vol.cosines[v] = d.NormalizedCosines()
		} else {
			vol.cosines[v] = [3]float64{}
		}
	}

	in.spatial, in.xform = fileTransform(in.dims)
	vol.translation = in.xform.Translation()
}

func sameSizes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Volume returns the destination volume.
func (in *Input) Volume() *Volume { return in.vol }

// Path returns the path the session was opened from.
func (in *Input) Path() string { return in.path }

// VolumeCount returns the number of volumes stacked in the file along
// dimensions the volume does not request.
func (in *Input) VolumeCount() int { return in.nVolumes }

// FileDimensions returns the file's dimensions in storage order, without a
// vector dimension consumed by scalar or colour conversion.
func (in *Input) FileDimensions() []Dimension {
	return append([]Dimension(nil), in.dims...)
}

// Mapping returns, for each file dimension, the volume dimension it fills
// or -1.
func (in *Input) Mapping() []int { return append([]int(nil), in.forward...) }

// FileVoxelToWorld returns the voxel-to-world map of the file in its own
// dimension order, indexed by world axis.
func (in *Input) FileVoxelToWorld() *xform.Transform { return in.xform }

// SlabDimensions returns how many matched dimensions each slab read spans.
func (in *Input) SlabDimensions() int { return in.cur.nSlab }

// HasSliceScaling reports whether the file scales voxels per slice rather
// than with one global real range.
func (in *Input) HasSliceScaling() bool { return in.sliceScaling }

// Position returns the current file indices.
func (in *Input) Position() []int { return append([]int(nil), in.cur.indices...) }

// ReadNextSlab reads the next slab of the current volume. It reports
// whether more slabs remain and the fraction of the volume read, which is
// exactly 1 on the call that completes the volume. Calling it again after
// that fails with ErrEndOfVolume until the session advances or resets.
// After a read error the session must be closed.
func (in *Input) ReadNextSlab() (more bool, fraction float64, err error) {
	if in.closed {
		return false, 0, ErrClosed
	}
	if in.cur.done {
		return false, 1, ErrEndOfVolume
	}

	if !in.vol.IsAllocated() {
		if err := in.vol.Alloc(); err != nil {
			return false, 0, err
		}
	}

	if in.vol.observer != nil {
		in.cur.done = true
		return false, 1, nil
	}

	start := append([]int(nil), in.cur.indices...)
	if err := in.materialize(start, in.cur.slabCounts()); err != nil {
		return false, 0, fmt.Errorf("%w at %v: %w", ErrRead, start, err)
	}

	fraction = in.cur.advance()
	return !in.cur.done, fraction, nil
}

// ReadVolume reads the remaining slabs of the current volume, calling
// progress after each one when it is not nil.
func (in *Input) ReadVolume(progress func(fraction float64)) error {
	for {
		more, fraction, err := in.ReadNextSlab()
		if err != nil {
			return err
		}
		if progress != nil {
			progress(fraction)
		}
		if !more {
			return nil
		}
	}
}

// AdvanceToNextVolume moves to the next stacked volume and reports whether
// there was one. The volume's translation follows the new position.
// Once every volume has been visited it keeps returning false until
// ResetToFirstVolume.
func (in *Input) AdvanceToNextVolume() bool {
	if in.closed || !in.cur.advanceVolume() {
		return false
	}
	in.vol.translation = worldAt(in.xform, in.spatial, in.cur.indices)
	in.vol.notify(in.cur.indices)
	debugf("%s: advanced to volume at %v", in.path, in.cur.indices)
	return true
}

// ResetToFirstVolume rewinds the session to the start of the first volume.
func (in *Input) ResetToFirstVolume() {
	if in.closed {
		return
	}
	in.cur.reset()
	in.vol.translation = worldAt(in.xform, in.spatial, in.cur.indices)
	in.vol.notify(in.cur.indices)
}

// Close releases the storage handle.
func (in *Input) Close() error {
	if in.closed {
		return ErrClosed
	}
	in.closed = true
	return in.h.Close()
}

// FileDimensionCount returns the rank of the image stored at path,
// including any vector dimension.
func FileDimensionCount(engine Engine, path string) (int, error) {
	h, err := engine.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrOpen, path, err)
	}
	defer h.Close()

	shape, err := h.Shape(ImagePath)
	if err != nil {
		return 0, fmt.Errorf("%w: no image variable: %w", ErrOpen, err)
	}
	return len(shape), nil
}
