package store

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/robert-malhotra/go-minc/internal/dtype"
	"github.com/robert-malhotra/go-minc/internal/filter"
)

func ramp(n int) []uint16 {
	data := make([]uint16, n)
	for i := range data {
		data[i] = uint16(i)
	}
	return data
}

func TestCreateDataset(t *testing.T) {
	f := NewFile()
	ds, err := f.CreateDataset("/a/b/data", []int{2, 3}, []int16{1, 2, 3, 4, 5, 6},
		WithAttribute("units", "mm"),
		WithAttribute("step", 0.5))
	if err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}

	if ds.Path() != "/a/b/data" || ds.Name() != "data" {
		t.Errorf("unexpected path %q name %q", ds.Path(), ds.Name())
	}
	if ds.Rank() != 2 || ds.NumElements() != 6 {
		t.Errorf("unexpected rank %d elements %d", ds.Rank(), ds.NumElements())
	}
	if ds.Datatype() != (dtype.Datatype{Type: dtype.Short, Signed: true}) {
		t.Errorf("unexpected datatype %v", ds.Datatype())
	}

	if _, err := f.OpenGroup("/a/b"); err != nil {
		t.Errorf("parent group not created: %v", err)
	}
	if _, err := f.OpenDataset("/a/b"); !errors.Is(err, ErrNotDataset) {
		t.Errorf("expected ErrNotDataset, got %v", err)
	}
	if _, err := f.OpenGroup("/a/b/data"); !errors.Is(err, ErrNotGroup) {
		t.Errorf("expected ErrNotGroup, got %v", err)
	}
	if _, err := f.OpenDataset("/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if _, err := f.CreateDataset("/a/b/data", []int{1}, []int16{1}); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
	if _, err := f.CreateDataset("/bad", []int{4}, []int16{1, 2}); err == nil {
		t.Error("expected error for shape mismatch")
	}
	if _, err := f.CreateDataset("/nochunks", []int{2}, []int16{1, 2}, WithCompression(6)); err == nil {
		t.Error("expected error for filters without chunks")
	}

	if a := ds.Attr("units"); a == nil || !a.IsText() {
		t.Errorf("expected text attribute units, got %v", a)
	}
	if names := ds.Attrs(); len(names) != 2 || names[0] != "step" || names[1] != "units" {
		t.Errorf("unexpected attribute names %v", names)
	}
}

func TestReadSliceLayouts(t *testing.T) {
	dims := []int{5, 7, 6}
	data := ramp(5 * 7 * 6)

	tests := []struct {
		name string
		opts []DatasetOption
	}{
		{"contiguous", nil},
		{"chunked", []DatasetOption{WithChunks(2, 3, 4)}},
		{"chunked deflate", []DatasetOption{WithChunks(3, 3, 3), WithCompression(6)}},
		{"chunked shuffle fletcher", []DatasetOption{WithChunks(5, 2, 6), WithShuffle(), WithCompression(1), WithFletcher32()}},
		{"big endian", []DatasetOption{WithBigEndian(), WithChunks(4, 4, 4)}},
	}

	windows := []struct {
		start, count []int
	}{
		{[]int{0, 0, 0}, []int{5, 7, 6}},
		{[]int{1, 2, 3}, []int{3, 4, 2}},
		{[]int{4, 6, 5}, []int{1, 1, 1}},
		{[]int{0, 3, 0}, []int{5, 1, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFile()
			ds, err := f.CreateDataset("/data", dims, data, tt.opts...)
			if err != nil {
				t.Fatalf("CreateDataset failed: %v", err)
			}

			for _, w := range windows {
				raw, err := ds.Layout().ReadSlice(w.start, w.count)
				if err != nil {
					t.Fatalf("ReadSlice(%v, %v) failed: %v", w.start, w.count, err)
				}
				vals, err := ds.Datatype().DecodeSlice(raw, elements(w.count), nil)
				if err != nil {
					t.Fatalf("DecodeSlice failed: %v", err)
				}

				i := 0
				for a := 0; a < w.count[0]; a++ {
					for b := 0; b < w.count[1]; b++ {
						for c := 0; c < w.count[2]; c++ {
							want := float64(((w.start[0]+a)*7+(w.start[1]+b))*6 + w.start[2] + c)
							if vals[i] != want {
								t.Fatalf("window %v: element %d expected %g, got %g", w.start, i, want, vals[i])
							}
							i++
						}
					}
				}
			}

			if _, err := ds.Layout().ReadSlice([]int{4, 0, 0}, []int{2, 1, 1}); !errors.Is(err, ErrWindow) {
				t.Errorf("expected ErrWindow, got %v", err)
			}
		})
	}
}

func TestChunkedPadsEdges(t *testing.T) {
	f := NewFile()
	ds, err := f.CreateDataset("/data", []int{5}, []uint8{1, 2, 3, 4, 5}, WithChunks(4))
	if err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	c := ds.Layout().(*Chunked)
	if c.NumChunks() != 2 {
		t.Errorf("expected 2 chunks, got %d", c.NumChunks())
	}
	for _, ch := range c.chunks {
		if len(ch.data) != 4 {
			t.Errorf("chunk at %v: expected padded length 4, got %d", ch.offset, len(ch.data))
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	f := NewFile()
	if err := f.SetAttr("/", "history", "created by test"); err != nil {
		t.Fatalf("SetAttr failed: %v", err)
	}
	if _, err := f.CreateDataset("/img/plain", []int{3, 4}, ramp(12), WithAttribute("valid_range", []float64{0, 11})); err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	if _, err := f.CreateDataset("/img/packed", []int{3, 4}, ramp(12), WithChunks(2, 2), WithCompression(5), WithShuffle()); err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	if _, err := f.CreateDataset("/img/scalar", nil, []float64{42}); err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}

	for _, mode := range []struct {
		name     string
		compress Compression
		checksum Checksum
	}{
		{"snappy crc", Snappy, CRC32},
		{"raw", Uncompressed, NoChecksum},
	} {
		t.Run(mode.name, func(t *testing.T) {
			data, err := EncodeWith(f, mode.compress, mode.checksum)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			g, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if !g.Version().Equals(FormatVersion) {
				t.Errorf("expected version %s, got %s", FormatVersion, g.Version())
			}
			if s, ok := g.Root().Attr("history").Text(); !ok || s != "created by test" {
				t.Errorf("root attribute lost: %q", s)
			}
			for _, p := range []string{"/img/plain", "/img/packed"} {
				ds, err := g.OpenDataset(p)
				if err != nil {
					t.Fatalf("OpenDataset(%s) failed: %v", p, err)
				}
				vals, err := ds.ReadFloat64()
				if err != nil {
					t.Fatalf("ReadFloat64(%s) failed: %v", p, err)
				}
				for i, v := range vals {
					if v != float64(i) {
						t.Fatalf("%s element %d: expected %d, got %g", p, i, i, v)
					}
				}
			}
			ds, _ := g.OpenDataset("/img/scalar")
			if vals, err := ds.ReadFloat64(); err != nil || len(vals) != 1 || vals[0] != 42 {
				t.Errorf("scalar dataset: got %v, %v", vals, err)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	data, err := Encode(NewFile())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if _, err := Decode([]byte("HDF5....")); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for bad magic, got %v", err)
	}

	corrupt := append([]byte(nil), data...)
	corrupt[len(corrupt)-1] ^= 0xFF
	if _, err := Decode(corrupt); !errors.Is(err, ErrFormat) {
		t.Errorf("expected ErrFormat for bad checksum, got %v", err)
	}
}

func TestEngineSaveAndOpen(t *testing.T) {
	dir := t.TempDir()
	e := New(DefaultConfig())
	defer e.Close()

	f := NewFile()
	if _, err := f.CreateDataset("/data", []int{8, 8}, ramp(64), WithChunks(4, 4), WithCompression(6)); err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}

	paths := []string{
		filepath.Join(dir, "plain.gmnc"),
		"file://" + filepath.ToSlash(dir) + "/bucket.gmnc",
		"mem://scratch/vol.gmnc",
	}

	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			if err := e.Save(p, f); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			h, err := e.Open(p)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer h.Close()

			shape, err := h.Shape("/data")
			if err != nil {
				t.Fatalf("Shape failed: %v", err)
			}
			if len(shape) != 2 || shape[0] != 8 || shape[1] != 8 {
				t.Errorf("unexpected shape %v", shape)
			}
			vals, ok := h.ReadValues("/data")
			if !ok || vals[63] != 63 {
				t.Errorf("unexpected values, ok=%v", ok)
			}
		})
	}

	if _, err := e.Open(filepath.Join(dir, "missing.gmnc")); err == nil {
		t.Error("expected error opening missing file")
	}
}

func TestEngineChunkCache(t *testing.T) {
	e := New(Config{CacheBytes: 1 << 20, Workers: 2})
	f := NewFile()
	if _, err := f.CreateDataset("/data", []int{16, 16}, ramp(256), WithChunks(8, 8), WithCompression(6)); err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	e.Register("vol", f)

	h, err := e.Open("vol")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, ok := h.ReadValues("/data"); !ok {
			t.Fatal("ReadValues failed")
		}
	}

	hits, misses := e.CacheStats()
	if misses != 4 || hits != 4 {
		t.Errorf("expected 4 misses then 4 hits, got %d misses %d hits", misses, hits)
	}
}

func TestEngineChunkCacheSharedAcrossOpens(t *testing.T) {
	e := New(Config{CacheBytes: 1 << 20, Workers: 2})
	f := NewFile()
	if _, err := f.CreateDataset("/data", []int{16, 16}, ramp(256), WithChunks(8, 8), WithCompression(6)); err != nil {
		t.Fatalf("CreateDataset failed: %v", err)
	}
	e.Register("vol", f)

	var handles []Handle
	for i := 0; i < 2; i++ {
		h, err := e.Open("vol")
		if err != nil {
			t.Fatalf("Open %d failed: %v", i, err)
		}
		handles = append(handles, h)
	}

	if _, ok := handles[0].ReadValues("/data"); !ok {
		t.Fatal("ReadValues failed")
	}
	if hits, misses := e.CacheStats(); misses != 4 || hits != 0 {
		t.Fatalf("expected 4 misses and no hits after first read, got %d misses %d hits", misses, hits)
	}

	var wg sync.WaitGroup
	errs := make([]string, len(handles))
	for i, h := range handles {
		wg.Add(1)
		go func(i int, h Handle) {
			defer wg.Done()
			vals, ok := h.ReadValues("/data")
			switch {
			case !ok:
				errs[i] = "ReadValues failed"
			case vals[255] != 255:
				errs[i] = "wrong value at 255"
			}
		}(i, h)
	}
	wg.Wait()
	for i, msg := range errs {
		if msg != "" {
			t.Errorf("handle %d: %s", i, msg)
		}
	}

	if hits, misses := e.CacheStats(); misses != 4 || hits != 8 {
		t.Errorf("expected every later read to hit, got %d misses %d hits", misses, hits)
	}
}

func TestEngineStrict(t *testing.T) {
	f := NewFile()
	g, _ := f.CreateGroup("/")
	c := newChunked([]int{4}, []int{4}, 1, []filter.Spec{{ID: filter.IDSZIP}})
	g.datasets["data"] = &Dataset{path: "/data", dt: dtype.Datatype{Type: dtype.Byte}, dims: []int{4}, layout: c}

	strict := New(Config{Strict: true})
	strict.Register("vol", f)
	if _, err := strict.Open("vol"); err == nil {
		t.Error("expected strict open to fail")
	}

	lenient := New(Config{})
	lenient.Register("vol", f)
	h, err := lenient.Open("vol")
	if err != nil {
		t.Fatalf("lenient open failed: %v", err)
	}
	if _, ok := h.ReadValues("/data"); ok {
		t.Error("expected read to fail")
	}
}

func TestReaderAttributes(t *testing.T) {
	e := New(Config{Verbose: true})
	f := NewFile()
	f.CreateDataset("/img", []int{2}, []uint8{0, 1},
		WithAttribute("valid_range", []float64{0, 1}),
		WithAttribute("signtype", "unsigned"),
		WithAttribute("length", "12"))
	e.Register("vol", f)

	h, err := e.Open("vol")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if v, ok := h.ReadAttr("/img", "valid_range", 2); !ok || v[1] != 1 {
		t.Errorf("valid_range: got %v, %v", v, ok)
	}
	if _, ok := h.ReadAttr("/img", "valid_range", 3); ok {
		t.Error("expected wrong-length read to report absent")
	}
	if v, ok := h.ReadAttr("/img", "length", 1); !ok || v[0] != 12 {
		t.Errorf("numeric text attribute: got %v, %v", v, ok)
	}
	if _, ok := h.ReadAttr("/img", "signtype", 1); ok {
		t.Error("expected text attribute to be non-numeric")
	}
	if s, ok := h.ReadStringAttr("/img", "signtype"); !ok || s != "unsigned" {
		t.Errorf("signtype: got %q, %v", s, ok)
	}
	if _, ok := h.ReadAttr("/missing", "x", 1); ok {
		t.Error("expected absent attribute on missing object")
	}

	if err := h.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := h.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed on second close, got %v", err)
	}
	if _, err := h.Shape("/img"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func openTestImage(t *testing.T, f *File) Handle {
	t.Helper()
	e := New(Config{})
	e.Register("vol", f)
	h, err := e.Open("vol")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return h
}

func readAll(t *testing.T, conv Converter, dims []int, out dtype.Datatype) []float64 {
	t.Helper()
	dst := make([]byte, elements(dims)*out.Size())
	if err := conv.ReadHyperslab(make([]int, len(dims)), dims, dst); err != nil {
		t.Fatalf("ReadHyperslab failed: %v", err)
	}
	vals, err := out.DecodeSlice(dst, elements(dims), nil)
	if err != nil {
		t.Fatalf("DecodeSlice failed: %v", err)
	}
	return vals
}

func TestConverterIdentity(t *testing.T) {
	f := NewFile()
	f.CreateDataset("/img/image", []int{4}, []uint8{0, 10, 200, 255})
	h := openTestImage(t, f)

	conv, err := h.Configure("/img/image", Conversion{Type: dtype.Byte, ValidMin: 0, ValidMax: 255})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if lo, hi := conv.NormRange(); lo != 0 || hi != 255 {
		t.Errorf("expected norm range [0,255], got [%g,%g]", lo, hi)
	}

	got := readAll(t, conv, []int{4}, dtype.Datatype{Type: dtype.Byte})
	want := []float64{0, 10, 200, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("element %d: expected %g, got %g", i, want[i], got[i])
		}
	}
}

func TestConverterScaling(t *testing.T) {
	f := NewFile()
	f.CreateDataset("/img/image", []int{3}, []uint8{0, 100, 200},
		WithAttribute("valid_range", []float64{200, 0}))
	f.CreateDataset("/img/image-min", nil, []float64{-1})
	f.CreateDataset("/img/image-max", nil, []float64{1})
	h := openTestImage(t, f)

	tests := []struct {
		name string
		conv Conversion
		want []float64
	}{
		{"real floats", Conversion{Type: dtype.Float, RealValues: true}, []float64{-1, 0, 1}},
		{"rescaled shorts", Conversion{Type: dtype.Short, Signed: true, ValidMin: -100, ValidMax: 100}, []float64{-100, 0, 100}},
		{"unit floats", Conversion{Type: dtype.Float, ValidMin: 0, ValidMax: 1}, []float64{0, 0.5, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := h.Configure("/img/image", tt.conv)
			if err != nil {
				t.Fatalf("Configure failed: %v", err)
			}
			if lo, hi := conv.NormRange(); lo != -1 || hi != 1 {
				t.Errorf("expected norm range [-1,1], got [%g,%g]", lo, hi)
			}
			got := readAll(t, conv, []int{3}, dtype.Datatype{Type: tt.conv.Type, Signed: tt.conv.Signed})
			for i := range tt.want {
				if math.Abs(got[i]-tt.want[i]) > 1e-6 {
					t.Errorf("element %d: expected %g, got %g", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestConverterUnlabelledFloat(t *testing.T) {
	tests := []struct {
		name   string
		attrs  []DatasetOption
		lo, hi float64
		want   []float64
	}{
		{"default unit range", nil, 0, 1, []float64{0, 128, 255}},
		{"valid range", []DatasetOption{WithAttribute("valid_range", []float64{0, 2})}, 0, 2, []float64{0, 64, 128}},
		{"valid max only", []DatasetOption{WithAttribute("valid_max", 0.5)}, -math.MaxFloat32, 0.5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFile()
			if _, err := f.CreateDataset("/img/image", []int{3}, []float32{0, 0.5, 1}, tt.attrs...); err != nil {
				t.Fatalf("CreateDataset failed: %v", err)
			}
			h := openTestImage(t, f)

			conv, err := h.Configure("/img/image", Conversion{Type: dtype.Byte, ValidMin: 0, ValidMax: 255})
			if err != nil {
				t.Fatalf("Configure failed: %v", err)
			}
			if lo, hi := conv.NormRange(); lo != tt.lo || hi != tt.hi {
				t.Errorf("expected norm range [%g,%g], got [%g,%g]", tt.lo, tt.hi, lo, hi)
			}
			if tt.want == nil {
				return
			}
			got := readAll(t, conv, []int{3}, dtype.Datatype{Type: dtype.Byte})
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("element %d: expected %g, got %g", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestConverterFillAndClamp(t *testing.T) {
	f := NewFile()
	f.CreateDataset("/img/image", []int{4}, []uint8{5, 10, 20, 30},
		WithAttribute("valid_min", 10),
		WithAttribute("valid_max", 20))
	h := openTestImage(t, f)

	out := dtype.Datatype{Type: dtype.Byte}

	clamp, err := h.Configure("/img/image", Conversion{Type: dtype.Byte, ValidMin: 10, ValidMax: 20})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	got := readAll(t, clamp, []int{4}, out)
	for i, want := range []float64{10, 10, 20, 20} {
		if got[i] != want {
			t.Errorf("clamp element %d: expected %g, got %g", i, want, got[i])
		}
	}

	fill, err := h.Configure("/img/image", Conversion{Type: dtype.Byte, ValidMin: 10, ValidMax: 20, Fill: true, FillValue: 0})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	got = readAll(t, fill, []int{4}, out)
	for i, want := range []float64{0, 10, 20, 0} {
		if got[i] != want {
			t.Errorf("fill element %d: expected %g, got %g", i, want, got[i])
		}
	}
}

func TestConverterAverageVector(t *testing.T) {
	f := NewFile()
	f.CreateDataset("/img/image", []int{2, 3}, []uint8{0, 3, 6, 30, 60, 90})
	h := openTestImage(t, f)

	conv, err := h.Configure("/img/image", Conversion{Type: dtype.Byte, ValidMin: 0, ValidMax: 255, AverageVector: true})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	got := readAll(t, conv, []int{2}, dtype.Datatype{Type: dtype.Byte})
	if got[0] != 3 || got[1] != 60 {
		t.Errorf("expected [3 60], got %v", got)
	}

	if err := conv.ReadHyperslab([]int{0, 0}, []int{2, 3}, make([]byte, 6)); !errors.Is(err, ErrWindow) {
		t.Errorf("expected ErrWindow for full-rank window, got %v", err)
	}
}

func TestConverterSliceScaling(t *testing.T) {
	f := NewFile()
	f.CreateDataset("/img/image", []int{2, 2}, []uint8{0, 255, 0, 255})
	f.CreateDataset("/img/image-min", []int{2}, []float64{0, 10})
	f.CreateDataset("/img/image-max", []int{2}, []float64{1, 20})
	h := openTestImage(t, f)

	conv, err := h.Configure("/img/image", Conversion{Type: dtype.Double, RealValues: true})
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if lo, hi := conv.NormRange(); lo != 0 || hi != 20 {
		t.Errorf("expected norm range [0,20], got [%g,%g]", lo, hi)
	}

	got := readAll(t, conv, []int{2, 2}, dtype.Datatype{Type: dtype.Double})
	want := []float64{0, 1, 10, 20}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("element %d: expected %g, got %g", i, want[i], got[i])
		}
	}

	// A window starting in the second slice uses that slice's range.
	dst := make([]byte, 8)
	if err := conv.ReadHyperslab([]int{1, 1}, []int{1, 1}, dst); err != nil {
		t.Fatalf("ReadHyperslab failed: %v", err)
	}
	if v := (dtype.Datatype{Type: dtype.Double}).Decode(dst); v != 20 {
		t.Errorf("expected 20, got %g", v)
	}
}

func TestConfigureErrors(t *testing.T) {
	f := NewFile()
	f.CreateDataset("/img/image", []int{2}, []uint8{0, 1})
	f.CreateDataset("/img/scalar", nil, []uint8{0})
	h := openTestImage(t, f)

	tests := []struct {
		name string
		path string
		conv Conversion
	}{
		{"missing", "/img/none", Conversion{Type: dtype.Byte}},
		{"no type", "/img/image", Conversion{}},
		{"scalar", "/img/scalar", Conversion{Type: dtype.Byte}},
		{"vector of rank one", "/img/image", Conversion{Type: dtype.Byte, AverageVector: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := h.Configure(tt.path, tt.conv); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWalk(t *testing.T) {
	f := NewFile()
	f.CreateDataset("/b/data", []int{1}, []uint8{1})
	f.CreateGroup("/a")

	var paths []string
	err := f.Walk(func(path string, obj interface{}) error {
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk failed: %v", err)
	}

	want := []string{"/", "/a", "/b", "/b/data"}
	if len(paths) != len(want) {
		t.Fatalf("expected %v, got %v", want, paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("expected %v, got %v", want, paths)
			break
		}
	}

	var buf bytes.Buffer
	stop := errors.New("stop")
	if err := f.Walk(func(path string, obj interface{}) error {
		buf.WriteString(path)
		return stop
	}); err != stop {
		t.Errorf("expected stop error, got %v", err)
	}
	if buf.String() != "/" {
		t.Errorf("expected walk to stop at root, visited %q", buf.String())
	}
}
