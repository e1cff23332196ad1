package store

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"hash/crc32"
	"sort"

	"github.com/blang/semver"
	"github.com/golang/snappy"

	"github.com/robert-malhotra/go-minc/internal/dtype"
	"github.com/robert-malhotra/go-minc/internal/filter"
)

// FormatVersion is the container version written by Encode. Containers
// with a different major version are rejected.
var FormatVersion = semver.MustParse("2.0.0")

var magic = []byte("GMNC")

// Compression is the compression applied to a serialized container.
type Compression uint8

const (
	Uncompressed Compression = 0
	Snappy       Compression = 1
)

// Checksum is the checksum applied to a serialized container.
type Checksum uint8

const (
	NoChecksum Checksum = 0
	CRC32      Checksum = 1
)

// format packs compression into the top three bits and the checksum into
// the next two.
type format uint8

func encodeFormat(c Compression, cs Checksum) format {
	return format((uint8(c)&0x07)<<5 | (uint8(cs)&0x03)<<3)
}

func (f format) decode() (Compression, Checksum) {
	return Compression(uint8(f) >> 5), Checksum((uint8(f) >> 3) & 0x03)
}

type fileRecord struct {
	Version string
	Objects []objectRecord
}

type objectRecord struct {
	Path      string
	IsDataset bool
	Attrs     []attrRecord

	Type      int
	Signed    bool
	BigEndian bool
	Dims      []int

	Layout    string
	Data      []byte
	ChunkDims []int
	Filters   []filterRecord
	Chunks    []chunkRecord
}

type attrRecord struct {
	Name   string
	Values []float64
	Text   string
	IsText bool
}

type filterRecord struct {
	ID         uint16
	ClientData []uint32
	Optional   bool
}

type chunkRecord struct {
	Offset []int
	Data   []byte
	Mask   uint32
}

// Encode serializes a container with snappy compression and a CRC32.
func Encode(f *File) ([]byte, error) {
	return EncodeWith(f, Snappy, CRC32)
}

// EncodeWith serializes a container with the given compression and checksum.
func EncodeWith(f *File, compress Compression, checksum Checksum) ([]byte, error) {
	rec := fileRecord{Version: FormatVersion.String()}
	err := f.Walk(func(path string, obj interface{}) error {
		var or objectRecord
		switch o := obj.(type) {
		case *Group:
			or = objectRecord{Path: path, Attrs: attrRecords(&o.attrSet)}
		case *Dataset:
			r, err := datasetRecord(o)
			if err != nil {
				return err
			}
			or = r
		}
		rec.Objects = append(rec.Objects, or)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(&rec); err != nil {
		return nil, fmt.Errorf("encoding container: %w", err)
	}

	var payload []byte
	switch compress {
	case Uncompressed:
		payload = body.Bytes()
	case Snappy:
		payload = snappy.Encode(nil, body.Bytes())
	default:
		return nil, fmt.Errorf("illegal compression %d", compress)
	}

	var buf bytes.Buffer
	buf.Write(magic)
	buf.WriteByte(byte(encodeFormat(compress, checksum)))
	switch checksum {
	case NoChecksum:
	case CRC32:
		if err := binary.Write(&buf, binary.LittleEndian, crc32.ChecksumIEEE(payload)); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("illegal checksum %d", checksum)
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}

func attrRecords(s *attrSet) []attrRecord {
	var recs []attrRecord
	for _, name := range s.Attrs() {
		a := s.attrs[name]
		recs = append(recs, attrRecord{Name: a.name, Values: a.values, Text: a.text, IsText: a.isText})
	}
	return recs
}

func datasetRecord(ds *Dataset) (objectRecord, error) {
	rec := objectRecord{
		Path:      ds.path,
		IsDataset: true,
		Attrs:     attrRecords(&ds.attrSet),
		Type:      int(ds.dt.Type),
		Signed:    ds.dt.Signed,
		BigEndian: ds.dt.BigEndian,
		Dims:      ds.dims,
		Layout:    ds.layout.Class(),
	}

	switch l := ds.layout.(type) {
	case *Contiguous:
		rec.Data = l.data
	case *Chunked:
		rec.ChunkDims = l.chunkDims
		for _, s := range l.filters {
			rec.Filters = append(rec.Filters, filterRecord{ID: s.ID, ClientData: s.ClientData, Optional: s.Optional})
		}
		keys := make([]string, 0, len(l.chunks))
		for k := range l.chunks {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ch := l.chunks[k]
			rec.Chunks = append(rec.Chunks, chunkRecord{Offset: ch.offset, Data: ch.data, Mask: ch.mask})
		}
	default:
		return rec, fmt.Errorf("dataset %s: unknown layout %s", ds.path, ds.layout.Class())
	}
	return rec, nil
}

// Decode parses a serialized container.
func Decode(data []byte) (*File, error) {
	if len(data) < len(magic)+1 || !bytes.Equal(data[:len(magic)], magic) {
		return nil, ErrFormat
	}
	compress, checksum := format(data[len(magic)]).decode()
	rest := data[len(magic)+1:]

	switch checksum {
	case NoChecksum:
	case CRC32:
		if len(rest) < 4 {
			return nil, fmt.Errorf("%w: truncated checksum", ErrFormat)
		}
		stored := binary.LittleEndian.Uint32(rest)
		rest = rest[4:]
		if computed := crc32.ChecksumIEEE(rest); computed != stored {
			return nil, fmt.Errorf("%w: bad checksum, stored %x got %x", ErrFormat, stored, computed)
		}
	default:
		return nil, fmt.Errorf("%w: illegal checksum %d", ErrFormat, checksum)
	}

	var body []byte
	switch compress {
	case Uncompressed:
		body = rest
	case Snappy:
		var err error
		if body, err = snappy.Decode(nil, rest); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: illegal compression %d", ErrFormat, compress)
	}

	var rec fileRecord
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	version, err := semver.Make(rec.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVersion, err)
	}
	if version.Major != FormatVersion.Major {
		return nil, fmt.Errorf("%w: %s (reader is %s)", ErrVersion, version, FormatVersion)
	}

	f := NewFile()
	f.version = version
	for _, or := range rec.Objects {
		if err := f.restore(or); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *File) restore(or objectRecord) error {
	var attrs *attrSet
	if !or.IsDataset {
		g, err := f.CreateGroup(or.Path)
		if err != nil {
			return err
		}
		attrs = &g.attrSet
	} else {
		dir, name := parentPath(CleanPath(or.Path))
		parent, err := f.CreateGroup(dir)
		if err != nil {
			return err
		}

		dt := dtype.Datatype{Type: dtype.Type(or.Type), Signed: or.Signed, BigEndian: or.BigEndian}
		if dt.Size() == 0 {
			return fmt.Errorf("%w: dataset %s has no datatype", ErrFormat, or.Path)
		}
		ds := &Dataset{path: CleanPath(or.Path), dt: dt, dims: or.Dims}

		switch or.Layout {
		case "contiguous":
			if ds.layout, err = NewContiguous(or.Dims, dt.Size(), or.Data); err != nil {
				return fmt.Errorf("dataset %s: %w", or.Path, err)
			}
		case "chunked":
			specs := make([]filter.Spec, len(or.Filters))
			for i, fr := range or.Filters {
				specs[i] = filter.Spec{ID: fr.ID, ClientData: fr.ClientData, Optional: fr.Optional}
			}
			c := newChunked(or.Dims, or.ChunkDims, dt.Size(), specs)
			for _, cr := range or.Chunks {
				c.chunks[chunkKey(cr.Offset)] = &chunk{offset: cr.Offset, data: cr.Data, mask: cr.Mask}
			}
			ds.layout = c
		default:
			return fmt.Errorf("%w: dataset %s has unknown layout %q", ErrFormat, or.Path, or.Layout)
		}

		parent.datasets[name] = ds
		attrs = &ds.attrSet
	}

	for _, ar := range or.Attrs {
		attrs.setAttr(&Attribute{name: ar.Name, values: ar.Values, text: ar.Text, isText: ar.IsText})
	}
	return nil
}
