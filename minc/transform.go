package minc

import "github.com/robert-malhotra/go-minc/internal/xform"

// fileTransform finds the file dimension of each world axis and builds the
// file's voxel-to-world map. The origin is the sum of each spatial axis
// direction scaled by its start.
func fileTransform(dims []Dimension) (spatial [3]int, t *xform.Transform) {
	spatial = [3]int{-1, -1, -1}
	for f, d := range dims {
		if axis, ok := SpatialAxis(d.Name); ok {
			spatial[axis] = f
		}
	}

	var axes [3]xform.Axis
	var origin [3]float64
	for c, f := range spatial {
		if f < 0 {
			continue
		}
		d := dims[f]
		axes[c] = xform.Axis{Present: true, Step: d.Step, Cosine: d.Cosines}
		dir := d.NormalizedCosines()
		for i := range origin {
			origin[i] += dir[i] * d.Start
		}
	}
	return spatial, xform.Compute(axes, [3]float64{}, origin)
}

// worldAt returns the world position of the file voxel at indices,
// ignoring non-spatial dimensions.
func worldAt(t *xform.Transform, spatial [3]int, indices []int) [3]float64 {
	var voxel [3]float64
	for c, f := range spatial {
		if f >= 0 {
			voxel[c] = float64(indices[f])
		}
	}
	return t.Apply(voxel)
}
