package minc

import (
	"strings"
	"testing"

	"github.com/robert-malhotra/go-minc/internal/dtype"
	"github.com/robert-malhotra/go-minc/internal/store"
)

// dimSpec is one image dimension of a test file.
type dimSpec struct {
	name   string
	length int
	attrs  map[string]interface{}

	// values, when set, become the dimension dataset's contents.
	values []float64
}

// fixture lays out a MINC2 image in a store.File.
type fixture struct {
	dims  []dimSpec
	data  interface{}
	attrs map[string]interface{}
	opts  []store.DatasetOption

	// extra datasets keyed by path, stored as one-dimensional doubles.
	extra map[string][]float64

	noDimorder bool
	noSigntype bool
}

func (fx fixture) build(t *testing.T) *store.File {
	t.Helper()
	f := store.NewFile()

	shape := make([]int, len(fx.dims))
	names := make([]string, len(fx.dims))
	seen := make(map[string]bool)
	for i, d := range fx.dims {
		shape[i] = d.length
		names[i] = d.name
		if seen[d.name] {
			continue
		}
		seen[d.name] = true

		var opts []store.DatasetOption
		for k, v := range d.attrs {
			opts = append(opts, store.WithAttribute(k, v))
		}
		path := store.JoinPath(DimensionsPath, d.name)
		var err error
		if d.values != nil {
			_, err = f.CreateDataset(path, []int{len(d.values)}, d.values, opts...)
		} else {
			_, err = f.CreateDataset(path, nil, []int32{0}, opts...)
		}
		if err != nil {
			t.Fatalf("creating dimension %s: %v", d.name, err)
		}
	}

	opts := append([]store.DatasetOption(nil), fx.opts...)
	if !fx.noDimorder {
		opts = append(opts, store.WithAttribute("dimorder", strings.Join(names, ",")))
	}
	if _, ok := fx.attrs["signtype"]; !ok && !fx.noSigntype {
		dt, err := dtype.FromSlice(fx.data)
		if err != nil {
			t.Fatalf("image data: %v", err)
		}
		sign := "unsigned"
		if dt.Signed {
			sign = "signed__"
		}
		opts = append(opts, store.WithAttribute("signtype", sign))
	}
	for k, v := range fx.attrs {
		opts = append(opts, store.WithAttribute(k, v))
	}
	if _, err := f.CreateDataset(ImagePath, shape, fx.data, opts...); err != nil {
		t.Fatalf("creating image: %v", err)
	}

	for path, values := range fx.extra {
		dims := []int{len(values)}
		if len(values) == 1 {
			dims = nil
		}
		if _, err := f.CreateDataset(path, dims, values); err != nil {
			t.Fatalf("creating %s: %v", path, err)
		}
	}
	return f
}

// engine registers the fixture as "test.mnc".
func (fx fixture) engine(t *testing.T) *store.Engine {
	t.Helper()
	e := store.New(store.Config{CacheBytes: 1 << 20})
	e.Register("test.mnc", fx.build(t))
	return e
}

func openFixture(t *testing.T, fx fixture, vol *Volume, opts ...InputOption) *Input {
	t.Helper()
	in, err := OpenInput(fx.engine(t), "test.mnc", vol, opts...)
	if err != nil {
		t.Fatalf("OpenInput failed: %v", err)
	}
	t.Cleanup(func() { in.Close() })
	return in
}

func mustVolume(t *testing.T, typ dtype.Type, signed bool, names ...DimName) *Volume {
	t.Helper()
	vol, err := NewVolume(typ, signed, names...)
	if err != nil {
		t.Fatalf("NewVolume failed: %v", err)
	}
	return vol
}

func namedDims(names ...string) []DimName {
	d := make([]DimName, len(names))
	for i, n := range names {
		d[i] = Named(n)
	}
	return d
}

func dimList(specs ...interface{}) []dimSpec {
	var out []dimSpec
	for i := 0; i < len(specs); i += 2 {
		out = append(out, dimSpec{name: specs[i].(string), length: specs[i+1].(int)})
	}
	return out
}

// readAll drives ReadNextSlab to the end of the volume and returns the
// fractions reported.
func readAll(t *testing.T, in *Input) []float64 {
	t.Helper()
	var fractions []float64
	for {
		more, fraction, err := in.ReadNextSlab()
		if err != nil {
			t.Fatalf("ReadNextSlab failed: %v", err)
		}
		fractions = append(fractions, fraction)
		if !more {
			return fractions
		}
	}
}
