// Package xform builds the affine voxel-to-world transform of a volume.
//
// A transform is a 4x4 homogeneous matrix whose first three columns are
// the world-space step vectors of the three spatial axes (direction cosine
// times separation) and whose last column is the world position of voxel
// (0,0,0). Axes that a volume lacks are filled with a unit vector
// orthogonal to the axes it has, so every transform built by [Compute] is
// invertible as long as the present steps are nonzero and their cosines
// are linearly independent.
package xform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Axis describes one world axis of a volume.
type Axis struct {
	Present bool
	Step    float64
	Cosine  [3]float64
}

// Transform is an affine voxel-to-world map.
type Transform struct {
	m *mat.Dense
}

// Identity returns the identity transform.
func Identity() *Transform {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return &Transform{m: m}
}

// Compute builds the transform mapping voxel v (indexed by world axis) to
// origin + sum over c of (v[c]-zeroVoxel[c]) * step[c] * cosine[c].
func Compute(axes [3]Axis, zeroVoxel, origin [3]float64) *Transform {
	var dirs [3][3]float64
	var steps [3]float64

	for c, a := range axes {
		if !a.Present {
			continue
		}
		dirs[c] = Normalize(a.Cosine)
		steps[c] = a.Step
	}
	for c, a := range axes {
		if a.Present {
			continue
		}
		dirs[c] = orthogonalAxis(c, axes, dirs)
		steps[c] = 1
	}

	m := mat.NewDense(4, 4, nil)
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			m.Set(r, c, dirs[c][r]*steps[c])
		}
	}
	for r := 0; r < 3; r++ {
		t := origin[r]
		for c := 0; c < 3; c++ {
			t -= zeroVoxel[c] * m.At(r, c)
		}
		m.Set(r, 3, t)
	}
	m.Set(3, 3, 1)

	return &Transform{m: m}
}

// orthogonalAxis picks a unit vector for a missing axis: the standard basis
// vector of the axis, or failing that any other one, projected away from
// the directions already chosen.
func orthogonalAxis(c int, axes [3]Axis, dirs [3][3]float64) [3]float64 {
	for k := 0; k < 3; k++ {
		var v [3]float64
		v[(c+k)%3] = 1

		for o := 0; o < 3; o++ {
			if o == c || (!axes[o].Present && o > c) {
				continue
			}
			d := dirs[o]
			p := dot(v, d)
			for i := range v {
				v[i] -= p * d[i]
			}
		}
		if norm(v) > 1e-6 {
			return Normalize(v)
		}
	}
	var v [3]float64
	v[c] = 1
	return v
}

// Apply maps a voxel position to world coordinates.
func (t *Transform) Apply(v [3]float64) [3]float64 {
	var w [3]float64
	for r := 0; r < 3; r++ {
		w[r] = t.m.At(r, 0)*v[0] + t.m.At(r, 1)*v[1] + t.m.At(r, 2)*v[2] + t.m.At(r, 3)
	}
	return w
}

// Inverse returns the world-to-voxel transform.
func (t *Transform) Inverse() (*Transform, error) {
	var inv mat.Dense
	if err := inv.Inverse(t.m); err != nil {
		return nil, fmt.Errorf("inverting transform: %w", err)
	}
	return &Transform{m: &inv}, nil
}

// Matrix returns a copy of the homogeneous matrix.
func (t *Transform) Matrix() *mat.Dense {
	return mat.DenseCopyOf(t.m)
}

// Translation returns the world position of voxel (0,0,0).
func (t *Transform) Translation() [3]float64 {
	return [3]float64{t.m.At(0, 3), t.m.At(1, 3), t.m.At(2, 3)}
}

// Normalize returns v scaled to unit length, or v itself when it is zero.
func Normalize(v [3]float64) [3]float64 {
	n := norm(v)
	if n == 0 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm(v [3]float64) float64 {
	return math.Sqrt(dot(v, v))
}

func (t *Transform) String() string {
	return fmt.Sprintf("%v", mat.Formatted(t.m, mat.Squeeze()))
}
