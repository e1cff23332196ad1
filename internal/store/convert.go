package store

import (
	"fmt"
	"math"

	"github.com/robert-malhotra/go-minc/internal/dtype"
)

// Real range assumed for floating-point data that carries neither a valid
// range nor image-min and image-max.
const (
	DefaultRealMin = 0.0
	DefaultRealMax = 1.0
)

// Conversion describes how a Converter delivers stored voxels.
type Conversion struct {
	// Type and Signed select the output element type.
	Type   dtype.Type
	Signed bool

	// ValidMin and ValidMax are the output voxel range that the real range
	// is mapped onto.
	ValidMin, ValidMax float64

	// RealValues makes floating-point outputs carry real values directly
	// instead of values rescaled into the output range.
	RealValues bool

	// Fill replaces stored values outside the file's valid range with
	// FillValue. Without it such values are clamped.
	Fill      bool
	FillValue float64

	// AverageVector averages the dataset's last dimension away. Hyperslab
	// windows then omit that dimension.
	AverageVector bool
}

// Converter reads hyperslabs of one dataset through a Conversion.
type Converter interface {
	// NormRange returns the real range of the dataset.
	NormRange() (min, max float64)

	// ReadHyperslab reads the window at start with count elements per
	// dimension into dst, encoded little-endian in the output type.
	ReadHyperslab(start, count []int, dst []byte) error
}

type converter struct {
	r    *Reader
	ds   *Dataset
	conv Conversion
	out  dtype.Datatype

	fileMin, fileMax float64
	vecLen           int

	// Real range per slice of the leading sliceRank dimensions; a single
	// entry when the range is global.
	sliceRank    int
	sliceStrides []int
	realMin      []float64
	realMax      []float64

	normMin, normMax float64
}

func newConverter(r *Reader, ds *Dataset, conv Conversion) (*converter, error) {
	out := dtype.Datatype{Type: conv.Type, Signed: conv.Signed}
	if out.Size() == 0 {
		return nil, fmt.Errorf("configuring %s: no output type", ds.path)
	}
	if ds.Rank() == 0 {
		return nil, fmt.Errorf("configuring %s: scalar dataset", ds.path)
	}
	if conv.AverageVector && ds.Rank() < 2 {
		return nil, fmt.Errorf("configuring %s: no vector dimension to average", ds.path)
	}

	c := &converter{r: r, ds: ds, conv: conv, out: out, vecLen: 1}
	if conv.AverageVector {
		c.vecLen = ds.dims[ds.Rank()-1]
	}

	c.fileMin, c.fileMax = ds.dt.Range()
	labelled := true
	if vr, ok := r.ReadAttr(ds.path, "valid_range", 2); ok {
		c.fileMin, c.fileMax = math.Min(vr[0], vr[1]), math.Max(vr[0], vr[1])
	} else {
		minOK, maxOK := false, false
		var v []float64
		if v, minOK = r.ReadAttr(ds.path, "valid_min", 1); minOK {
			c.fileMin = v[0]
		}
		if v, maxOK = r.ReadAttr(ds.path, "valid_max", 1); maxOK {
			c.fileMax = v[0]
		}
		labelled = minOK || maxOK
	}

	c.loadRealRange(r, labelled)

	c.normMin, c.normMax = c.realMin[0], c.realMax[0]
	for i := range c.realMin {
		c.normMin = math.Min(c.normMin, c.realMin[i])
		c.normMax = math.Max(c.normMax, c.realMax[i])
	}
	return c, nil
}

// loadRealRange reads the sibling image-min and image-max datasets. Their
// shape must be a prefix of the image shape; anything else is collapsed to
// a global range. Without them the real range is the valid range, or
// [DefaultRealMin, DefaultRealMax] for floating-point data with no valid
// range attributes.
func (c *converter) loadRealRange(r *Reader, labelled bool) {
	c.realMin = []float64{c.fileMin}
	c.realMax = []float64{c.fileMax}
	if c.ds.dt.Type.IsFloat() && !labelled {
		c.realMin = []float64{DefaultRealMin}
		c.realMax = []float64{DefaultRealMax}
	}

	dir, _ := parentPath(c.ds.path)
	minPath, maxPath := JoinPath(dir, "image-min"), JoinPath(dir, "image-max")

	mins, okMin := r.ReadValues(minPath)
	maxs, okMax := r.ReadValues(maxPath)
	if !okMin || !okMax || len(mins) == 0 || len(mins) != len(maxs) {
		return
	}

	shape, _ := r.Shape(maxPath)
	nd := c.ds.Rank() - boolToInt(c.conv.AverageVector)
	prefix := len(shape) > 0 && len(shape) <= nd
	for d := 0; prefix && d < len(shape); d++ {
		prefix = shape[d] == c.ds.dims[d]
	}
	if len(shape) > 0 && !prefix {
		r.log.Warningf("%s: shape %v does not match image %v; using global range", maxPath, shape, c.ds.dims)
	}

	if prefix {
		c.sliceRank = len(shape)
		c.sliceStrides = make([]int, len(shape))
		s := 1
		for d := len(shape) - 1; d >= 0; d-- {
			c.sliceStrides[d] = s
			s *= shape[d]
		}
		c.realMin, c.realMax = mins, maxs
		return
	}

	lo, hi := mins[0], maxs[0]
	for i := range mins {
		lo = math.Min(lo, mins[i])
		hi = math.Max(hi, maxs[i])
	}
	c.realMin, c.realMax = []float64{lo}, []float64{hi}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (c *converter) NormRange() (min, max float64) {
	return c.normMin, c.normMax
}

func (c *converter) ReadHyperslab(start, count []int, dst []byte) error {
	nd := c.ds.Rank() - boolToInt(c.conv.AverageVector)
	if len(start) != nd || len(count) != nd {
		return fmt.Errorf("%w: %s needs %d dimensions, got %d and %d",
			ErrWindow, c.ds.path, nd, len(start), len(count))
	}

	ws, wc := start, count
	if c.conv.AverageVector {
		ws = append(append([]int(nil), start...), 0)
		wc = append(append([]int(nil), count...), c.vecLen)
	}
	raw, err := c.r.readSlice(c.ds, ws, wc)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.ds.path, err)
	}

	n := elements(count)
	outSize := c.out.Size()
	if len(dst) < n*outSize {
		return fmt.Errorf("reading %s: destination holds %d bytes, need %d", c.ds.path, len(dst), n*outSize)
	}

	fsize := c.ds.dt.Size()
	idx := make([]int, nd)
	for e := 0; e < n; e++ {
		base := e * c.vecLen * fsize
		v := c.ds.dt.Decode(raw[base:])
		if c.vecLen > 1 {
			for j := 1; j < c.vecLen; j++ {
				v += c.ds.dt.Decode(raw[base+j*fsize:])
			}
			v /= float64(c.vecLen)
		}

		slice := 0
		if c.sliceRank > 0 {
			for d := 0; d < c.sliceRank; d++ {
				slice += (start[d] + idx[d]) * c.sliceStrides[d]
			}
			for d := nd - 1; d >= 0; d-- {
				idx[d]++
				if idx[d] < count[d] {
					break
				}
				idx[d] = 0
			}
		}

		c.out.Encode(dst[e*outSize:], c.convert(v, slice))
	}
	return nil
}

// convert maps one stored value to the output domain.
func (c *converter) convert(v float64, slice int) float64 {
	if math.IsNaN(v) || v < c.fileMin || v > c.fileMax {
		if c.conv.Fill {
			return c.conv.FillValue
		}
		switch {
		case math.IsNaN(v), v < c.fileMin:
			v = c.fileMin
		default:
			v = c.fileMax
		}
	}

	rv := v
	if !c.ds.dt.Type.IsFloat() {
		rmin, rmax := c.realMin[slice], c.realMax[slice]
		if c.fileMax > c.fileMin {
			rv = rmin + (v-c.fileMin)*(rmax-rmin)/(c.fileMax-c.fileMin)
		} else {
			rv = rmin
		}
	}

	if c.conv.RealValues && c.conv.Type.IsFloat() {
		return rv
	}
	if c.normMax == c.normMin {
		return c.conv.ValidMin
	}
	return c.conv.ValidMin + (rv-c.normMin)*(c.conv.ValidMax-c.conv.ValidMin)/(c.normMax-c.normMin)
}
