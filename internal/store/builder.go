package store

import (
	"fmt"

	"github.com/robert-malhotra/go-minc/internal/dtype"
	"github.com/robert-malhotra/go-minc/internal/filter"
)

// CreateGroup creates the group at path along with any missing parents.
// An existing group is returned as is.
func (f *File) CreateGroup(path string) (*Group, error) {
	g := f.root
	for _, name := range SplitPath(path) {
		if _, ok := g.datasets[name]; ok {
			return nil, fmt.Errorf("%w: %s is a dataset", ErrNotGroup, JoinPath(g.path, name))
		}
		child, ok := g.groups[name]
		if !ok {
			child = newGroup(JoinPath(g.path, name))
			g.groups[name] = child
		}
		g = child
	}
	return g, nil
}

// JoinPath appends name to a group path.
func JoinPath(parent, name string) string {
	if parent == "/" {
		return "/" + name
	}
	return parent + "/" + name
}

// CreateDataset stores data, a Go numeric slice, as a dataset of the given
// dimensions at path. Missing parent groups are created.
func (f *File) CreateDataset(path string, dims []int, data interface{}, opts ...DatasetOption) (*Dataset, error) {
	path = CleanPath(path)
	if path == "/" {
		return nil, fmt.Errorf("%w: dataset cannot be the root", ErrInvalidPath)
	}

	o := defaultDatasetOptions()
	for _, opt := range opts {
		opt(o)
	}

	dt, err := dtype.FromSlice(data)
	if err != nil {
		return nil, fmt.Errorf("creating dataset %s: %w", path, err)
	}
	if o.datatype != nil {
		dt = *o.datatype
	}
	dt.BigEndian = o.bigEndian

	raw, err := dtype.EncodeSlice(dt, data)
	if err != nil {
		return nil, fmt.Errorf("creating dataset %s: %w", path, err)
	}
	if n := elements(dims); len(raw) != n*dt.Size() {
		return nil, fmt.Errorf("creating dataset %s: %d elements for shape %v", path, len(raw)/dt.Size(), dims)
	}

	dir, name := parentPath(path)
	parent, err := f.CreateGroup(dir)
	if err != nil {
		return nil, err
	}
	if _, ok := parent.groups[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	}
	if _, ok := parent.datasets[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	}

	ds := &Dataset{path: path, dt: dt, dims: append([]int(nil), dims...)}

	if len(o.chunks) > 0 {
		if len(dims) == 0 {
			return nil, fmt.Errorf("creating dataset %s: scalar datasets cannot be chunked", path)
		}
		var specs []filter.Spec
		if o.shuffle {
			specs = append(specs, filter.Spec{ID: filter.IDShuffle, ClientData: []uint32{uint32(dt.Size())}})
		}
		if o.compressionLvl > 0 {
			specs = append(specs, filter.Spec{ID: filter.IDDeflate, ClientData: []uint32{uint32(o.compressionLvl)}})
		}
		if o.fletcher32 {
			specs = append(specs, filter.Spec{ID: filter.IDFletcher32})
		}
		ds.layout, err = buildChunked(dims, o.chunks, dt.Size(), specs, raw)
	} else {
		if o.shuffle || o.compressionLvl > 0 || o.fletcher32 {
			return nil, fmt.Errorf("creating dataset %s: filters require a chunked layout", path)
		}
		ds.layout, err = NewContiguous(dims, dt.Size(), raw)
	}
	if err != nil {
		return nil, fmt.Errorf("creating dataset %s: %w", path, err)
	}

	for _, a := range o.attributes {
		attr, err := NewAttribute(a.name, a.value)
		if err != nil {
			return nil, fmt.Errorf("creating dataset %s: %w", path, err)
		}
		ds.setAttr(attr)
	}

	parent.datasets[name] = ds
	return ds, nil
}

// SetAttr sets an attribute on the group or dataset at path. A missing
// object is created as a group.
func (f *File) SetAttr(path, name string, value interface{}) error {
	attr, err := NewAttribute(name, value)
	if err != nil {
		return err
	}

	obj, err := f.lookup(path)
	if err != nil {
		if obj, err = f.CreateGroup(path); err != nil {
			return err
		}
	}

	switch o := obj.(type) {
	case *Group:
		o.setAttr(attr)
	case *Dataset:
		o.setAttr(attr)
	}
	return nil
}
