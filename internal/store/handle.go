package store

import (
	"fmt"

	"github.com/coocood/freecache"

	"github.com/robert-malhotra/go-minc/internal/dtype"
)

// Handle is an open container.
type Handle interface {
	// Shape returns the dimensions of the dataset at path.
	Shape(path string) ([]int, error)

	// Datatype returns the stored element type of the dataset at path.
	Datatype(path string) (dtype.Datatype, error)

	// ReadAttr returns a numeric attribute of the object at path. When n
	// is positive the attribute must hold exactly n values. Absent,
	// non-numeric and wrongly sized attributes report false.
	ReadAttr(path, name string, n int) ([]float64, bool)

	// ReadStringAttr returns a text attribute of the object at path.
	ReadStringAttr(path, name string) (string, bool)

	// ReadValues returns every element of the dataset at path.
	ReadValues(path string) ([]float64, bool)

	// Configure binds a conversion to the dataset at path.
	Configure(path string, conv Conversion) (Converter, error)

	Close() error
}

// Reader is the Handle returned by Engine.Open.
type Reader struct {
	file   *File
	path   string
	cfg    Config
	log    Logger
	cache  *freecache.Cache
	closed bool
}

// File returns the underlying container.
func (r *Reader) File() *File { return r.file }

// Path returns the path the reader was opened from.
func (r *Reader) Path() string { return r.path }

func (r *Reader) dataset(path string) (*Dataset, error) {
	if r.closed {
		return nil, ErrClosed
	}
	return r.file.OpenDataset(path)
}

func (r *Reader) Shape(path string) ([]int, error) {
	ds, err := r.dataset(path)
	if err != nil {
		return nil, err
	}
	return ds.Shape(), nil
}

func (r *Reader) Datatype(path string) (dtype.Datatype, error) {
	ds, err := r.dataset(path)
	if err != nil {
		return dtype.Datatype{}, err
	}
	return ds.Datatype(), nil
}

func (r *Reader) attr(path, name string) *Attribute {
	if r.closed {
		return nil
	}
	s, err := r.file.attrs(path)
	if err != nil {
		if r.cfg.Verbose {
			r.log.Debugf("%s: %v", JoinAttrPath(path, name), err)
		}
		return nil
	}
	a := s.Attr(name)
	if a == nil && r.cfg.Verbose {
		r.log.Debugf("%s: attribute not found", JoinAttrPath(path, name))
	}
	return a
}

func (r *Reader) ReadAttr(path, name string, n int) ([]float64, bool) {
	a := r.attr(path, name)
	if a == nil {
		return nil, false
	}
	vals, ok := a.Float64s()
	if !ok || (n > 0 && len(vals) != n) {
		if r.cfg.Verbose {
			r.log.Debugf("%s: expected %d numeric values, found %s", JoinAttrPath(path, name), n, a)
		}
		return nil, false
	}
	return vals, true
}

func (r *Reader) ReadStringAttr(path, name string) (string, bool) {
	a := r.attr(path, name)
	if a == nil {
		return "", false
	}
	return a.Text()
}

func (r *Reader) ReadValues(path string) ([]float64, bool) {
	ds, err := r.dataset(path)
	if err != nil {
		return nil, false
	}
	raw, err := r.readSlice(ds, make([]int, ds.Rank()), ds.dims)
	if err == nil {
		var vals []float64
		if vals, err = ds.dt.DecodeSlice(raw, ds.NumElements(), nil); err == nil {
			return vals, true
		}
	}
	r.log.Warningf("%s: %v", path, err)
	return nil, false
}

// readSlice reads a hyperslab of ds, decoding chunks through the engine's
// cache. Entries are keyed by container and dataset, so readers of the
// same container share them.
func (r *Reader) readSlice(ds *Dataset, start, count []int) ([]byte, error) {
	c, ok := ds.layout.(*Chunked)
	if !ok {
		return ds.layout.ReadSlice(start, count)
	}
	return c.readSlice(start, count, chunkCache{
		cache:   r.cache,
		prefix:  fmt.Sprintf("%d:%s:", r.file.id, ds.path),
		workers: r.cfg.Workers,
	})
}

func (r *Reader) Configure(path string, conv Conversion) (Converter, error) {
	ds, err := r.dataset(path)
	if err != nil {
		return nil, err
	}
	return newConverter(r, ds, conv)
}

// Close marks the reader closed. Further calls fail with ErrClosed or
// report attributes as absent.
func (r *Reader) Close() error {
	if r.closed {
		return ErrClosed
	}
	r.closed = true
	return nil
}
