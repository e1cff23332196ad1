// Package dtype provides the numeric voxel types used by volumes and the
// storage engine, together with their natural ranges and byte codecs.
//
// A MINC voxel type is one of five storage classes combined with a sign
// flag. The sign flag is meaningless for the floating-point classes.
//
//	Type    | Size | Go (signed)  | Go (unsigned)
//	--------|------|--------------|--------------
//	Byte    | 1    | int8         | uint8
//	Short   | 2    | int16        | uint16
//	Int     | 4    | int32        | uint32
//	Float   | 4    | float32      | float32
//	Double  | 8    | float64      | float64
//
// # Natural Ranges
//
// [NaturalRange] returns the full representable range of a type. It is
// the default valid range whenever a file or a volume does not specify one.
//
// # Encoding and Decoding
//
// A [Datatype] pairs a type with its sign and byte order and converts single
// elements between raw bytes and float64:
//
//	dt := dtype.Datatype{Type: dtype.Short, Signed: true}
//	v := dt.Decode(raw[2*i:])
//	dt.Encode(out[2*i:], v)
//
// Encoding into an integer type rounds to nearest and saturates at the
// natural range; it never wraps.
//
// Use [FromSlice] and [EncodeSlice] to build raw buffers from Go slices.
package dtype
