package store

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/blang/semver"

	"github.com/robert-malhotra/go-minc/internal/dtype"
)

// File is an in-memory container of groups and datasets.
type File struct {
	root    *Group
	version semver.Version

	// id identifies the container in chunk cache keys.
	id uint64
}

var lastFileID uint64

// Group is a named collection of groups and datasets.
type Group struct {
	attrSet
	path     string
	groups   map[string]*Group
	datasets map[string]*Dataset
}

// Dataset is an N-dimensional array of one datatype.
type Dataset struct {
	attrSet
	path   string
	dt     dtype.Datatype
	dims   []int
	layout Layout
}

// NewFile returns an empty container at the current format version.
func NewFile() *File {
	return &File{
		root:    newGroup("/"),
		version: FormatVersion,
		id:      atomic.AddUint64(&lastFileID, 1),
	}
}

func newGroup(path string) *Group {
	return &Group{
		path:     path,
		groups:   make(map[string]*Group),
		datasets: make(map[string]*Dataset),
	}
}

// Root returns the root group.
func (f *File) Root() *Group { return f.root }

// Version returns the format version the container was written with.
func (f *File) Version() semver.Version { return f.version }

// lookup resolves path to a *Group or *Dataset.
func (f *File) lookup(path string) (interface{}, error) {
	g := f.root
	parts := SplitPath(path)
	for i, name := range parts {
		if child, ok := g.groups[name]; ok {
			g = child
			continue
		}
		if ds, ok := g.datasets[name]; ok && i == len(parts)-1 {
			return ds, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, CleanPath(path))
	}
	return g, nil
}

// OpenGroup returns the group at path.
func (f *File) OpenGroup(path string) (*Group, error) {
	obj, err := f.lookup(path)
	if err != nil {
		return nil, err
	}
	g, ok := obj.(*Group)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotGroup, CleanPath(path))
	}
	return g, nil
}

// OpenDataset returns the dataset at path.
func (f *File) OpenDataset(path string) (*Dataset, error) {
	obj, err := f.lookup(path)
	if err != nil {
		return nil, err
	}
	ds, ok := obj.(*Dataset)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotDataset, CleanPath(path))
	}
	return ds, nil
}

// attrs returns the attribute table of the object at path.
func (f *File) attrs(path string) (*attrSet, error) {
	obj, err := f.lookup(path)
	if err != nil {
		return nil, err
	}
	switch o := obj.(type) {
	case *Group:
		return &o.attrSet, nil
	case *Dataset:
		return &o.attrSet, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
}

// WalkFunc is called for each object during traversal. obj is either
// *Group or *Dataset. Returning an error stops the walk.
type WalkFunc func(path string, obj interface{}) error

// Walk visits every object below the root in lexical order, groups before
// their members.
func (f *File) Walk(fn WalkFunc) error {
	return walkGroup(f.root, fn)
}

func walkGroup(g *Group, fn WalkFunc) error {
	if err := fn(g.path, g); err != nil {
		return err
	}
	for _, name := range g.Members() {
		if child, ok := g.groups[name]; ok {
			if err := walkGroup(child, fn); err != nil {
				return err
			}
			continue
		}
		ds := g.datasets[name]
		if err := fn(ds.path, ds); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the group's absolute path.
func (g *Group) Path() string { return g.path }

// Name returns the last path component.
func (g *Group) Name() string {
	_, name := parentPath(g.path)
	return name
}

// Members returns the names of the group's children in sorted order.
func (g *Group) Members() []string {
	names := make([]string, 0, len(g.groups)+len(g.datasets))
	for name := range g.groups {
		names = append(names, name)
	}
	for name := range g.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the dataset's absolute path.
func (d *Dataset) Path() string { return d.path }

// Name returns the last path component.
func (d *Dataset) Name() string {
	return d.path[strings.LastIndex(d.path, "/")+1:]
}

// Shape returns a copy of the dataset dimensions.
func (d *Dataset) Shape() []int { return append([]int(nil), d.dims...) }

// Rank returns the number of dimensions.
func (d *Dataset) Rank() int { return len(d.dims) }

// NumElements returns the number of elements.
func (d *Dataset) NumElements() int { return elements(d.dims) }

// Datatype returns the stored element type.
func (d *Dataset) Datatype() dtype.Datatype { return d.dt }

// Layout returns the storage layout.
func (d *Dataset) Layout() Layout { return d.layout }

// ReadRaw returns every element in the stored datatype.
func (d *Dataset) ReadRaw() ([]byte, error) {
	return d.layout.ReadSlice(make([]int, len(d.dims)), d.dims)
}

// ReadFloat64 returns every element converted to float64.
func (d *Dataset) ReadFloat64() ([]float64, error) {
	raw, err := d.ReadRaw()
	if err != nil {
		return nil, err
	}
	return d.dt.DecodeSlice(raw, d.NumElements(), nil)
}

func elements(dims []int) int {
	n := 1
	for _, d := range dims {
		n *= d
	}
	return n
}
