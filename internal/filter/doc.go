// Package filter implements the chunk filter pipeline of the storage engine.
//
// Chunked datasets pass every chunk through a sequence of reversible
// filters. Writing applies the filters in order; reading applies them in
// reverse. Each chunk records a filter mask: if bit i is set, filter i was
// skipped for that chunk and is skipped again when decoding.
//
// # Supported Filters
//
//   - Deflate (ID 1): zlib compression via [Deflate], backed by
//     github.com/klauspost/compress/zlib.
//
//   - Shuffle (ID 2): byte shuffling via [Shuffle]. Groups byte i of every
//     element together, which usually helps the compressor that follows.
//
//   - Fletcher32 (ID 3): checksum via [Fletcher32Filter]. Appends a 32-bit
//     Fletcher checksum on encode and verifies it on decode.
//
// # Pipeline
//
//	p, err := filter.NewPipeline([]filter.Spec{
//	    {ID: filter.IDShuffle, ClientData: []uint32{2}},
//	    {ID: filter.IDDeflate, ClientData: []uint32{6}},
//	})
//	encoded, err := p.Encode(raw)
//	decoded, err := p.Decode(encoded, 0)
package filter
