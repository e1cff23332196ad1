package store

import (
	"github.com/robert-malhotra/go-minc/internal/dtype"
)

// DatasetOption configures dataset creation.
type DatasetOption func(*datasetOptions)

type attrDef struct {
	name  string
	value interface{}
}

type datasetOptions struct {
	datatype       *dtype.Datatype
	bigEndian      bool
	chunks         []int
	compressionLvl int
	shuffle        bool
	fletcher32     bool
	attributes     []attrDef
}

func defaultDatasetOptions() *datasetOptions {
	return &datasetOptions{}
}

// WithDatatype stores the data as dt instead of the Go element type,
// converting with rounding and saturation.
func WithDatatype(dt dtype.Datatype) DatasetOption {
	return func(o *datasetOptions) {
		o.datatype = &dt
	}
}

// WithBigEndian stores elements in big-endian byte order.
func WithBigEndian() DatasetOption {
	return func(o *datasetOptions) {
		o.bigEndian = true
	}
}

// WithChunks sets the chunk dimensions, selecting the chunked layout.
func WithChunks(dims ...int) DatasetOption {
	return func(o *datasetOptions) {
		o.chunks = dims
	}
}

// WithCompression sets the deflate level (1-9, 0 = none). Requires chunks.
func WithCompression(level int) DatasetOption {
	return func(o *datasetOptions) {
		if level >= 0 && level <= 9 {
			o.compressionLvl = level
		}
	}
}

// WithShuffle enables the shuffle filter. Requires chunks.
func WithShuffle() DatasetOption {
	return func(o *datasetOptions) {
		o.shuffle = true
	}
}

// WithFletcher32 enables per-chunk checksums. Requires chunks.
func WithFletcher32() DatasetOption {
	return func(o *datasetOptions) {
		o.fletcher32 = true
	}
}

// WithAttribute adds an attribute to the dataset. The value can be a
// string, a numeric scalar or a numeric slice.
func WithAttribute(name string, value interface{}) DatasetOption {
	return func(o *datasetOptions) {
		o.attributes = append(o.attributes, attrDef{name: name, value: value})
	}
}
