// Package store implements the storage engine that MINC volumes are read
// from: a hierarchical container of groups, datasets and attributes, with
// on-the-fly numeric conversion for hyperslab reads.
//
// # Object Model
//
// A [File] is a tree rooted at "/". Groups hold child groups and datasets;
// both can carry attributes. Attributes are either numeric vectors or text.
// Paths use "/" separators, and attribute paths append "@name" to the
// owning object's path:
//
//	/minc-2.0/image/0/image@valid_range
//
// # Storage Layouts
//
// Dataset elements are kept in one of two layouts:
//
//   - Contiguous: a single row-major byte block.
//   - Chunked: the dataset is tiled into fixed-size chunks, each passed
//     through a filter pipeline (deflate, shuffle, fletcher32). Edge chunks
//     are padded to the full chunk shape. Chunks that overlap a hyperslab
//     are decoded concurrently with an errgroup, and decoded chunks are kept
//     in a freecache shared by every file opened through the same [Engine].
//
// # Opening Files
//
// An [Engine] resolves paths in three ways:
//
//   - Files registered in memory with [Engine.Register].
//   - Bucket URLs such as "file:///data/vol.gmnc" or "mem://b/vol.gmnc",
//     read through gocloud.dev/blob.
//   - Plain filesystem paths.
//
// The serialized form is a gob-encoded object list framed by a format byte,
// a CRC32 and snappy compression, tagged with a semantic format version.
//
// # Conversion
//
// [Handle.Configure] binds a [Conversion] to an image dataset and returns a
// [Converter]. Reads through the converter map the file's voxel values to
// real values using the dataset's valid range and the sibling "image-min"
// and "image-max" datasets (per slice when those datasets have rank one or
// more), then either emit real values directly or rescale them into the
// requested output range. Values outside the file's valid range are
// replaced by the fill value when one is configured, and clamped otherwise.
// A trailing vector dimension can be averaged away during the read.
package store
