package minc

import (
	"errors"
	"fmt"

	"github.com/robert-malhotra/go-minc/internal/array"
	"github.com/robert-malhotra/go-minc/internal/dtype"
	"github.com/robert-malhotra/go-minc/internal/xform"
)

// VoxelType is the storage class of volume voxels.
type VoxelType = dtype.Type

// Voxel types. TypeNone adopts the file's type on open.
const (
	TypeNone   = dtype.None
	TypeByte   = dtype.Byte
	TypeShort  = dtype.Short
	TypeInt    = dtype.Int
	TypeFloat  = dtype.Float
	TypeDouble = dtype.Double
)

// CursorObserver is notified of the file position of the volume being
// read. A volume with an observer is treated as cached: reading it
// completes in a single step and the observer is responsible for fetching
// voxels on demand.
type CursorObserver interface {
	SetFileOffset(indices []int)
}

// Volume is the in-memory destination of an input session.
type Volume struct {
	names []DimName
	dt    dtype.Datatype
	sizes []int

	voxelMin, voxelMax float64
	realMin, realMax   float64

	// spatialAxes maps world axes to volume dimensions, -1 when absent.
	spatialAxes [3]int
	separations []float64
	cosines     [][3]float64
	translation [3]float64

	rgba     bool
	data     *array.Array
	observer CursorObserver
}

// NewVolume creates an unallocated volume with the given dimension
// patterns in memory order. A type of dtype.None adopts the file's type
// when the volume is read.
func NewVolume(t dtype.Type, signed bool, names ...DimName) (*Volume, error) {
	if len(names) == 0 {
		return nil, errors.New("volume needs at least one dimension")
	}
	if len(names) > MaxVolumeDimensions {
		return nil, fmt.Errorf("%w: volume has %d, can only handle %d",
			ErrTooManyDimensions, len(names), MaxVolumeDimensions)
	}

	v := &Volume{
		names:       append([]DimName(nil), names...),
		sizes:       make([]int, len(names)),
		separations: make([]float64, len(names)),
		cosines:     make([][3]float64, len(names)),
		spatialAxes: [3]int{-1, -1, -1},
	}
	for d, n := range names {
		v.separations[d] = 1
		if name, ok := n.Exact(); ok {
			if axis, ok := SpatialAxis(name); ok {
				v.cosines[d][axis] = 1
				v.spatialAxes[axis] = d
			}
		}
	}
	v.SetType(t, signed)
	return v, nil
}

// NDims returns the number of volume dimensions.
func (v *Volume) NDims() int { return len(v.names) }

// DimNames returns the dimension patterns. Patterns bound by a successful
// open are replaced by the file's names.
func (v *Volume) DimNames() []DimName { return append([]DimName(nil), v.names...) }

// Names returns the dimension names as strings.
func (v *Volume) Names() []string {
	s := make([]string, len(v.names))
	for i, n := range v.names {
		s[i] = n.String()
	}
	return s
}

// resolve binds a pattern dimension to the file name it matched.
func (v *Volume) resolve(d int, name string) {
	if v.names[d].IsPattern() {
		v.names[d] = Named(name)
	}
}

// Datatype returns the voxel type. Its Type is dtype.None until one is set
// or adopted from a file.
func (v *Volume) Datatype() dtype.Datatype { return v.dt }

// SetType sets the voxel type and resets the voxel range to its natural
// range. A voxel array of another type is released.
func (v *Volume) SetType(t dtype.Type, signed bool) {
	if v.data != nil && (v.dt.Type != t || v.dt.Signed != signed) {
		v.Free()
	}
	v.setType(t, signed)
}

// setType is SetType without touching the voxel array.
func (v *Volume) setType(t dtype.Type, signed bool) {
	v.dt = dtype.Datatype{Type: t, Signed: signed}
	v.SetVoxelRange(0, 0)
	v.realMin, v.realMax = v.voxelMin, v.voxelMax
}

// volumeState is the part of a volume that opening an input rewrites.
type volumeState struct {
	names []DimName
	dt    dtype.Datatype
	sizes []int

	voxelMin, voxelMax float64
	realMin, realMax   float64

	spatialAxes [3]int
	separations []float64
	cosines     [][3]float64
	translation [3]float64
	rgba        bool
}

func (v *Volume) state() volumeState {
	return volumeState{
		names:       append([]DimName(nil), v.names...),
		dt:          v.dt,
		sizes:       append([]int(nil), v.sizes...),
		voxelMin:    v.voxelMin,
		voxelMax:    v.voxelMax,
		realMin:     v.realMin,
		realMax:     v.realMax,
		spatialAxes: v.spatialAxes,
		separations: append([]float64(nil), v.separations...),
		cosines:     append([][3]float64(nil), v.cosines...),
		translation: v.translation,
		rgba:        v.rgba,
	}
}

func (v *Volume) restore(s volumeState) {
	v.names = s.names
	v.dt = s.dt
	v.sizes = s.sizes
	v.voxelMin, v.voxelMax = s.voxelMin, s.voxelMax
	v.realMin, v.realMax = s.realMin, s.realMax
	v.spatialAxes = s.spatialAxes
	v.separations = s.separations
	v.cosines = s.cosines
	v.translation = s.translation
	v.rgba = s.rgba
}

// SetVoxelRange sets the valid voxel range. A range with min >= max
// selects the natural range of the voxel type.
func (v *Volume) SetVoxelRange(min, max float64) {
	if min >= max {
		min, max = dtype.NaturalRange(v.dt.Type, v.dt.Signed)
	}
	v.voxelMin, v.voxelMax = min, max
}

// VoxelRange returns the valid voxel range.
func (v *Volume) VoxelRange() (min, max float64) { return v.voxelMin, v.voxelMax }

// SetRealRange sets the real values that the voxel range maps onto.
// Floating-point volumes store real values, so their voxel range follows.
func (v *Volume) SetRealRange(min, max float64) {
	v.realMin, v.realMax = min, max
	if v.dt.Type.IsFloat() {
		v.voxelMin, v.voxelMax = min, max
	}
}

// RealRange returns the real value range.
func (v *Volume) RealRange() (min, max float64) { return v.realMin, v.realMax }

// ConvertVoxelToReal maps a voxel value to its real value. Colour and
// floating-point voxels are returned unchanged.
func (v *Volume) ConvertVoxelToReal(voxel float64) float64 {
	if v.rgba || v.dt.Type.IsFloat() {
		return voxel
	}
	if v.voxelMax <= v.voxelMin {
		return v.realMin
	}
	return v.realMin + (voxel-v.voxelMin)*(v.realMax-v.realMin)/(v.voxelMax-v.voxelMin)
}

// ConvertRealToVoxel maps a real value to its voxel value.
func (v *Volume) ConvertRealToVoxel(value float64) float64 {
	if v.rgba || v.dt.Type.IsFloat() {
		return value
	}
	if v.realMax <= v.realMin {
		return v.voxelMin
	}
	return v.voxelMin + (value-v.realMin)*(v.voxelMax-v.voxelMin)/(v.realMax-v.realMin)
}

// Sizes returns the dimension lengths set by the last open.
func (v *Volume) Sizes() []int { return append([]int(nil), v.sizes...) }

// SpatialAxes returns the volume dimension of each world axis, -1 when the
// volume lacks it.
func (v *Volume) SpatialAxes() [3]int { return v.spatialAxes }

// Separations returns the sample spacing of every dimension.
func (v *Volume) Separations() []float64 { return append([]float64(nil), v.separations...) }

// Cosines returns the world direction of dimension d.
func (v *Volume) Cosines(d int) [3]float64 { return v.cosines[d] }

// Translation returns the world position of voxel zero.
func (v *Volume) Translation() [3]float64 { return v.translation }

// IsRGBA reports whether voxels hold packed colours.
func (v *Volume) IsRGBA() bool { return v.rgba }

// SetCursorObserver marks the volume as cached and registers o for file
// position updates.
func (v *Volume) SetCursorObserver(o CursorObserver) { v.observer = o }

// CursorObserver returns the registered observer, or nil.
func (v *Volume) CursorObserver() CursorObserver { return v.observer }

func (v *Volume) notify(indices []int) {
	if v.observer != nil {
		v.observer.SetFileOffset(append([]int(nil), indices...))
	}
}

// Alloc allocates the voxel array for the current sizes and type.
func (v *Volume) Alloc() error {
	if v.dt.Size() == 0 {
		return errors.New("allocating volume: no voxel type")
	}
	a, err := array.New(v.dt, v.sizes)
	if err != nil {
		return fmt.Errorf("allocating volume: %w", err)
	}
	v.data = a
	return nil
}

// Free releases the voxel array.
func (v *Volume) Free() { v.data = nil }

// IsAllocated reports whether the voxel array exists.
func (v *Volume) IsAllocated() bool { return v.data != nil }

// Array returns the voxel array, or nil when unallocated.
func (v *Volume) Array() *array.Array { return v.data }

// Voxel returns the stored value at idx. The volume must be allocated.
func (v *Volume) Voxel(idx ...int) float64 { return v.data.Get(idx...) }

// Real returns the real value at idx. The volume must be allocated.
func (v *Volume) Real(idx ...int) float64 {
	return v.ConvertVoxelToReal(v.Voxel(idx...))
}

// VoxelToWorld returns the affine map from voxel coordinates, ordered by
// world axis, to world coordinates.
func (v *Volume) VoxelToWorld() *xform.Transform {
	var axes [3]xform.Axis
	for c, d := range v.spatialAxes {
		if d >= 0 {
			axes[c] = xform.Axis{Present: true, Step: v.separations[d], Cosine: v.cosines[d]}
		}
	}
	return xform.Compute(axes, [3]float64{}, v.translation)
}

// WorldPoint maps a voxel position given in volume dimension order to
// world coordinates.
func (v *Volume) WorldPoint(voxel ...float64) [3]float64 {
	var w [3]float64
	for c, d := range v.spatialAxes {
		if d >= 0 && d < len(voxel) {
			w[c] = voxel[d]
		}
	}
	return v.VoxelToWorld().Apply(w)
}
