package dtype

import (
	"math"
	"testing"
)

func TestSize(t *testing.T) {
	tests := []struct {
		typ  Type
		size int
	}{
		{None, 0},
		{Byte, 1},
		{Short, 2},
		{Int, 4},
		{Float, 4},
		{Double, 8},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.Size(); got != tt.size {
				t.Errorf("expected size %d, got %d", tt.size, got)
			}
		})
	}
}

func TestNaturalRange(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		signed   bool
		min, max float64
	}{
		{"ubyte", Byte, false, 0, 255},
		{"byte", Byte, true, -128, 127},
		{"ushort", Short, false, 0, 65535},
		{"short", Short, true, -32768, 32767},
		{"uint", Int, false, 0, 4294967295},
		{"int", Int, true, -2147483648, 2147483647},
		{"float", Float, true, -math.MaxFloat32, math.MaxFloat32},
		{"none", None, false, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := NaturalRange(tt.typ, tt.signed)
			if min != tt.min || max != tt.max {
				t.Errorf("expected [%g,%g], got [%g,%g]", tt.min, tt.max, min, max)
			}
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		dt   Datatype
		in   float64
		want float64
	}{
		{"ubyte", Datatype{Type: Byte}, 200, 200},
		{"ubyte saturates", Datatype{Type: Byte}, 300, 255},
		{"ubyte negative", Datatype{Type: Byte}, -4, 0},
		{"byte", Datatype{Type: Byte, Signed: true}, -100, -100},
		{"short rounds", Datatype{Type: Short, Signed: true}, 12.6, 13},
		{"ushort big endian", Datatype{Type: Short, BigEndian: true}, 0x1234, 0x1234},
		{"uint", Datatype{Type: Int}, 4000000000, 4000000000},
		{"int", Datatype{Type: Int, Signed: true}, -70000, -70000},
		{"float", Datatype{Type: Float}, 1.5, 1.5},
		{"double", Datatype{Type: Double}, math.Pi, math.Pi},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.dt.Size())
			tt.dt.Encode(buf, tt.in)
			if got := tt.dt.Decode(buf); got != tt.want {
				t.Errorf("expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestByteOrder(t *testing.T) {
	be := Datatype{Type: Short, BigEndian: true}
	buf := make([]byte, 2)
	be.Encode(buf, 0x0102)
	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Errorf("expected big-endian bytes [1 2], got %v", buf)
	}

	le := Datatype{Type: Short}
	le.Encode(buf, 0x0102)
	if buf[0] != 0x02 || buf[1] != 0x01 {
		t.Errorf("expected little-endian bytes [2 1], got %v", buf)
	}
}

func TestFromSlice(t *testing.T) {
	tests := []struct {
		name string
		data interface{}
		want Datatype
	}{
		{"uint8", []uint8{1}, Datatype{Type: Byte}},
		{"int8", []int8{1}, Datatype{Type: Byte, Signed: true}},
		{"int16", []int16{1}, Datatype{Type: Short, Signed: true}},
		{"uint16", []uint16{1}, Datatype{Type: Short}},
		{"uint32", []uint32{1}, Datatype{Type: Int}},
		{"float32", []float32{1}, Datatype{Type: Float, Signed: true}},
		{"float64", []float64{1}, Datatype{Type: Double, Signed: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromSlice(tt.data)
			if err != nil {
				t.Fatalf("FromSlice failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if _, err := FromSlice([]string{"x"}); err == nil {
		t.Error("expected error for string slice")
	}
}

func TestEncodeSliceRoundTrip(t *testing.T) {
	dt := Datatype{Type: Short, Signed: true}
	raw, err := EncodeSlice(dt, []int16{-3, 0, 7, 32000})
	if err != nil {
		t.Fatalf("EncodeSlice failed: %v", err)
	}

	vals, err := dt.DecodeSlice(raw, 4, nil)
	if err != nil {
		t.Fatalf("DecodeSlice failed: %v", err)
	}

	want := []float64{-3, 0, 7, 32000}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("element %d: expected %g, got %g", i, want[i], vals[i])
		}
	}

	if _, err := dt.DecodeSlice(raw, 5, nil); err == nil {
		t.Error("expected error for short buffer")
	}
}

func TestParseType(t *testing.T) {
	for _, typ := range []Type{None, Byte, Short, Int, Float, Double} {
		got, err := ParseType(typ.String())
		if err != nil {
			t.Fatalf("ParseType(%q) failed: %v", typ.String(), err)
		}
		if got != typ {
			t.Errorf("expected %v, got %v", typ, got)
		}
	}
	if _, err := ParseType("complex"); err == nil {
		t.Error("expected error for unknown type")
	}
}
