package dtype

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Type is a voxel storage class.
type Type int

const (
	// None means no explicit type was requested.
	None Type = iota
	Byte
	Short
	Int
	Float
	Double
)

var typeNames = map[Type]string{
	None:   "none",
	Byte:   "byte",
	Short:  "short",
	Int:    "int",
	Float:  "float",
	Double: "double",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType parses the name returned by Type.String.
func ParseType(s string) (Type, error) {
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return None, fmt.Errorf("unknown voxel type %q", s)
}

// Size returns the size of one element in bytes, or 0 for None.
func (t Type) Size() int {
	switch t {
	case Byte:
		return 1
	case Short:
		return 2
	case Int, Float:
		return 4
	case Double:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether t is a floating-point class.
func (t Type) IsFloat() bool {
	return t == Float || t == Double
}

// NaturalRange returns the representable range of t.
func NaturalRange(t Type, signed bool) (min, max float64) {
	switch t {
	case Byte:
		if signed {
			return math.MinInt8, math.MaxInt8
		}
		return 0, math.MaxUint8
	case Short:
		if signed {
			return math.MinInt16, math.MaxInt16
		}
		return 0, math.MaxUint16
	case Int:
		if signed {
			return math.MinInt32, math.MaxInt32
		}
		return 0, math.MaxUint32
	case Float:
		return -math.MaxFloat32, math.MaxFloat32
	case Double:
		return -math.MaxFloat64, math.MaxFloat64
	default:
		return 0, 1
	}
}

// Datatype is a voxel type with its sign and byte order.
type Datatype struct {
	Type      Type
	Signed    bool
	BigEndian bool
}

// Size returns the element size in bytes.
func (dt Datatype) Size() int {
	return dt.Type.Size()
}

// ByteOrder returns the binary.ByteOrder of the datatype.
func (dt Datatype) ByteOrder() binary.ByteOrder {
	if dt.BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// Range returns the natural range of the datatype.
func (dt Datatype) Range() (min, max float64) {
	return NaturalRange(dt.Type, dt.Signed)
}

func (dt Datatype) String() string {
	if dt.Type.IsFloat() {
		return dt.Type.String()
	}
	if dt.Signed {
		return "signed " + dt.Type.String()
	}
	return "unsigned " + dt.Type.String()
}

// Decode reads one element from the start of b.
func (dt Datatype) Decode(b []byte) float64 {
	order := dt.ByteOrder()

	switch dt.Type {
	case Byte:
		if dt.Signed {
			return float64(int8(b[0]))
		}
		return float64(b[0])
	case Short:
		v := order.Uint16(b)
		if dt.Signed {
			return float64(int16(v))
		}
		return float64(v)
	case Int:
		v := order.Uint32(b)
		if dt.Signed {
			return float64(int32(v))
		}
		return float64(v)
	case Float:
		return float64(math.Float32frombits(order.Uint32(b)))
	case Double:
		return math.Float64frombits(order.Uint64(b))
	default:
		return 0
	}
}

// Encode writes v to the start of b. Integer types round to nearest and
// saturate at the natural range.
func (dt Datatype) Encode(b []byte, v float64) {
	order := dt.ByteOrder()

	if !dt.Type.IsFloat() {
		lo, hi := dt.Range()
		switch {
		case math.IsNaN(v):
			v = lo
		case v < lo:
			v = lo
		case v > hi:
			v = hi
		default:
			v = math.Round(v)
		}
	}

	switch dt.Type {
	case Byte:
		if dt.Signed {
			b[0] = byte(int8(v))
		} else {
			b[0] = byte(v)
		}
	case Short:
		if dt.Signed {
			order.PutUint16(b, uint16(int16(v)))
		} else {
			order.PutUint16(b, uint16(v))
		}
	case Int:
		if dt.Signed {
			order.PutUint32(b, uint32(int32(v)))
		} else {
			order.PutUint32(b, uint32(v))
		}
	case Float:
		order.PutUint32(b, math.Float32bits(float32(v)))
	case Double:
		order.PutUint64(b, math.Float64bits(v))
	}
}

// DecodeSlice decodes n elements of data into dst, growing dst if needed.
func (dt Datatype) DecodeSlice(data []byte, n int, dst []float64) ([]float64, error) {
	size := dt.Size()
	if size == 0 {
		return nil, fmt.Errorf("cannot decode elements of type %s", dt.Type)
	}
	if len(data) < n*size {
		return nil, fmt.Errorf("short buffer: need %d bytes, have %d", n*size, len(data))
	}
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	for i := 0; i < n; i++ {
		dst[i] = dt.Decode(data[i*size:])
	}
	return dst, nil
}
