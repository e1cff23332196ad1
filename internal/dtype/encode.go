package dtype

import (
	"fmt"
	"reflect"
)

// FromSlice returns the little-endian datatype matching the element type
// of a Go slice.
func FromSlice(data interface{}) (Datatype, error) {
	t := reflect.TypeOf(data)
	if t == nil {
		return Datatype{}, fmt.Errorf("nil data")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() == reflect.Slice || t.Kind() == reflect.Array {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Int8:
		return Datatype{Type: Byte, Signed: true}, nil
	case reflect.Uint8:
		return Datatype{Type: Byte}, nil
	case reflect.Int16:
		return Datatype{Type: Short, Signed: true}, nil
	case reflect.Uint16:
		return Datatype{Type: Short}, nil
	case reflect.Int32:
		return Datatype{Type: Int, Signed: true}, nil
	case reflect.Uint32:
		return Datatype{Type: Int}, nil
	case reflect.Float32:
		return Datatype{Type: Float, Signed: true}, nil
	case reflect.Float64:
		return Datatype{Type: Double, Signed: true}, nil
	default:
		return Datatype{}, fmt.Errorf("unsupported Go type: %v", t)
	}
}

// EncodeSlice converts a Go numeric slice to raw bytes of datatype dt.
func EncodeSlice(dt Datatype, data interface{}) ([]byte, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected slice, got %v", v.Kind())
	}

	size := dt.Size()
	if size == 0 {
		return nil, fmt.Errorf("cannot encode elements of type %s", dt.Type)
	}

	n := v.Len()
	out := make([]byte, n*size)
	for i := 0; i < n; i++ {
		elem := v.Index(i)
		var f float64
		switch elem.Kind() {
		case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
			f = float64(elem.Int())
		case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
			f = float64(elem.Uint())
		case reflect.Float32, reflect.Float64:
			f = elem.Float()
		default:
			return nil, fmt.Errorf("cannot encode %v as %s", elem.Kind(), dt.Type)
		}
		dt.Encode(out[i*size:], f)
	}
	return out, nil
}
