package minc

import (
	"fmt"

	"github.com/robert-malhotra/go-minc/internal/xform"
)

// Names of the image variables and dimensions this package reads.
const (
	ImagePath      = "/minc-2.0/image/0/image"
	ImageMinPath   = "/minc-2.0/image/0/image-min"
	ImageMaxPath   = "/minc-2.0/image/0/image-max"
	DimensionsPath = "/minc-2.0/dimensions"

	XSpace          = "xspace"
	YSpace          = "yspace"
	ZSpace          = "zspace"
	Time            = "time"
	VectorDimension = "vector_dimension"
)

// SpatialAxis returns the world axis (0 for x, 1 for y, 2 for z) named by a
// dimension.
func SpatialAxis(name string) (int, bool) {
	switch name {
	case XSpace:
		return 0, true
	case YSpace:
		return 1, true
	case ZSpace:
		return 2, true
	}
	return -1, false
}

// DimClass is the kind of quantity a dimension samples.
type DimClass int

const (
	ClassOther DimClass = iota
	ClassSpatial
	ClassTime
)

func (c DimClass) String() string {
	switch c {
	case ClassSpatial:
		return "spatial"
	case ClassTime:
		return "time"
	default:
		return "other"
	}
}

// parseClass maps the numeric and text forms of the class attribute.
// Frequency, user and record classes have no counterpart and read as other.
func parseClass(s string) DimClass {
	switch s {
	case "1", "spatial":
		return ClassSpatial
	case "2", "time":
		return ClassTime
	default:
		return ClassOther
	}
}

// Sampling tells whether a dimension's samples are evenly spaced.
type Sampling int

const (
	Regular Sampling = iota
	Irregular
)

func (s Sampling) String() string {
	if s == Irregular {
		return "irregular"
	}
	return "regular"
}

// parseSampling maps the numeric and text forms of the attr attribute.
func parseSampling(s string) Sampling {
	switch s {
	case "2", "irregular":
		return Irregular
	default:
		return Regular
	}
}

// Dimension describes one axis of a stored image.
type Dimension struct {
	Name   string
	Class  DimClass
	Length int

	// Step is the sample spacing; never zero.
	Step float64

	// Start is the world position of the first sample along the axis.
	Start float64

	// Cosines is the axis direction in world space. Only spatial
	// dimensions carry one.
	Cosines [3]float64

	Sampling Sampling

	// Offsets and Widths hold the per-sample positions and extents of an
	// irregular dimension, each of length Length when present.
	Offsets []float64
	Widths  []float64
}

// defaultDimension returns the descriptor a dimension has when the file
// stores no attributes for it.
func defaultDimension(name string, length int) Dimension {
	d := Dimension{
		Name:   name,
		Class:  ClassSpatial,
		Length: length,
		Step:   1,
	}
	if name == Time {
		d.Class = ClassTime
	}
	if axis, ok := SpatialAxis(name); ok {
		d.Cosines[axis] = 1
	}
	return d
}

// NormalizedCosines returns the unit direction of the dimension.
func (d Dimension) NormalizedCosines() [3]float64 {
	return xform.Normalize(d.Cosines)
}

// IsSpatial reports whether the dimension is one of the three world axes.
func (d Dimension) IsSpatial() bool {
	_, ok := SpatialAxis(d.Name)
	return ok
}

func (d Dimension) String() string {
	s := fmt.Sprintf("%s: length=%d class=%s step=%g start=%g", d.Name, d.Length, d.Class, d.Step, d.Start)
	if d.IsSpatial() {
		s += fmt.Sprintf(" cosines=%v", d.Cosines)
	}
	if d.Sampling == Irregular {
		s += " irregular"
	}
	return s
}
