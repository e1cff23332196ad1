package minc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robert-malhotra/go-minc/internal/dtype"
	"github.com/robert-malhotra/go-minc/internal/store"
)

// queryDimensions reads the image's stored type and its dimensions in
// storage order. Missing dimension attributes take their defaults.
func queryDimensions(h store.Handle) ([]Dimension, dtype.Datatype, error) {
	shape, err := h.Shape(ImagePath)
	if err != nil {
		return nil, dtype.Datatype{}, fmt.Errorf("%w: no image variable: %w", ErrOpen, err)
	}
	dt, err := h.Datatype(ImagePath)
	if err != nil {
		return nil, dtype.Datatype{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	names := dimensionNames(h, len(shape))
	dims := make([]Dimension, len(shape))
	for i, length := range shape {
		dims[i] = readDimension(h, names[i], length)
	}
	return dims, dt, nil
}

// dimensionNames returns the names listed by the image's dimorder
// attribute, or dim0, dim1, ... when it is missing or does not fit.
func dimensionNames(h store.Handle, rank int) []string {
	if s, ok := h.ReadStringAttr(ImagePath, "dimorder"); ok {
		names := strings.Split(s, ",")
		for i := range names {
			names[i] = strings.TrimSpace(names[i])
		}
		if len(names) == rank {
			return names
		}
		warningf("dimorder %q names %d dimensions, image has %d", s, len(names), rank)
	}

	names := make([]string, rank)
	for i := range names {
		names[i] = fmt.Sprintf("dim%d", i)
	}
	return names
}

func readDimension(h store.Handle, name string, length int) Dimension {
	d := defaultDimension(name, length)
	path := store.JoinPath(DimensionsPath, name)

	if s, ok := attrString(h, path, "class"); ok {
		d.Class = parseClass(s)
	}
	if s, ok := attrString(h, path, "attr"); ok {
		d.Sampling = parseSampling(s)
	}
	if v, ok := h.ReadAttr(path, "step", 1); ok && v[0] != 0 {
		d.Step = v[0]
	}
	if v, ok := h.ReadAttr(path, "start", 1); ok {
		d.Start = v[0]
	}
	if d.IsSpatial() {
		if v, ok := h.ReadAttr(path, "direction_cosines", 3); ok {
			copy(d.Cosines[:], v)
		}
	}
	if v, ok := h.ReadAttr(path, "length", 1); ok && int(v[0]) != length {
		warningf("%s: length attribute %g disagrees with image size %d", path, v[0], length)
	}

	if d.Sampling == Irregular {
		if v, ok := h.ReadValues(path); ok && len(v) == length {
			d.Offsets = v
		}
		if v, ok := h.ReadValues(path + "-width"); ok && len(v) == length {
			d.Widths = v
		}
	}
	return d
}

// attrString reads an attribute stored either as text or as a number.
func attrString(h store.Handle, path, name string) (string, bool) {
	if s, ok := h.ReadStringAttr(path, name); ok {
		return strings.TrimSpace(s), true
	}
	if v, ok := h.ReadAttr(path, name, 1); ok {
		return strconv.FormatFloat(v[0], 'f', -1, 64), true
	}
	return "", false
}
