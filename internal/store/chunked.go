package store

import (
	"fmt"
	"runtime"

	"github.com/coocood/freecache"
	"golang.org/x/sync/errgroup"

	"github.com/robert-malhotra/go-minc/internal/array"
	"github.com/robert-malhotra/go-minc/internal/filter"
)

// Chunked stores a dataset as fixed-size tiles passed through a filter
// pipeline.
type Chunked struct {
	dims      []int
	chunkDims []int
	elemSize  int
	filters   []filter.Spec
	pipeline  *filter.Pipeline
	chunks    map[string]*chunk

	// err is set when the filter pipeline cannot be built; reads fail with it.
	err error
}

// chunkCache is the decoded-chunk cache and decode concurrency of one
// read. Keys are prefixed with the container and dataset they belong to.
type chunkCache struct {
	cache   *freecache.Cache
	prefix  string
	workers int
}

type chunk struct {
	offset []int
	data   []byte
	mask   uint32
}

func chunkKey(offset []int) string {
	return fmt.Sprint(offset)
}

// newChunked creates an empty chunked layout. A pipeline construction
// failure is recorded rather than returned so that containers written with
// filters this build lacks can still be opened.
func newChunked(dims, chunkDims []int, elemSize int, filters []filter.Spec) *Chunked {
	c := &Chunked{
		dims:      append([]int(nil), dims...),
		chunkDims: append([]int(nil), chunkDims...),
		elemSize:  elemSize,
		filters:   filters,
		chunks:    make(map[string]*chunk),
	}
	c.pipeline, c.err = filter.NewPipeline(filters)
	return c
}

// buildChunked tiles raw row-major data into encoded chunks.
func buildChunked(dims, chunkDims []int, elemSize int, filters []filter.Spec, raw []byte) (*Chunked, error) {
	if len(chunkDims) != len(dims) {
		return nil, fmt.Errorf("chunk rank %d does not match dataset rank %d", len(chunkDims), len(dims))
	}
	for d, cd := range chunkDims {
		if cd <= 0 {
			return nil, fmt.Errorf("chunk dimension %d must be positive, got %d", d, cd)
		}
	}

	c := newChunked(dims, chunkDims, elemSize, filters)
	if c.err != nil {
		return nil, c.err
	}
	if elements(dims) == 0 {
		return c, nil
	}

	first := make([]int, len(dims))
	last := make([]int, len(dims))
	for d := range dims {
		last[d] = (dims[d] - 1) / chunkDims[d]
	}

	chunkBytes := elements(chunkDims) * elemSize
	err := forEachChunk(first, last, func(coord []int) error {
		offset := make([]int, len(dims))
		clip := make([]int, len(dims))
		for d := range dims {
			offset[d] = coord[d] * chunkDims[d]
			clip[d] = min(chunkDims[d], dims[d]-offset[d])
		}

		region := extractHyperslab(raw, dims, offset, clip, elemSize)
		padded := make([]byte, chunkBytes)
		array.CopyReordered(elemSize, padded, chunkDims, 0, region, clip, clip, identity(len(dims)))

		encoded, err := c.pipeline.Encode(padded)
		if err != nil {
			return fmt.Errorf("encoding chunk at offset %v: %w", offset, err)
		}
		c.chunks[chunkKey(offset)] = &chunk{offset: offset, data: encoded}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// forEachChunk calls fn for every grid coordinate between first and last
// inclusive, last dimension fastest.
func forEachChunk(first, last []int, fn func(coord []int) error) error {
	coord := append([]int(nil), first...)
	for {
		if err := fn(append([]int(nil), coord...)); err != nil {
			return err
		}
		d := len(coord) - 1
		for ; d >= 0; d-- {
			coord[d]++
			if coord[d] <= last[d] {
				break
			}
			coord[d] = first[d]
		}
		if d < 0 {
			return nil
		}
	}
}

func (c *Chunked) Class() string { return "chunked" }

// ChunkDims returns the chunk shape.
func (c *Chunked) ChunkDims() []int { return append([]int(nil), c.chunkDims...) }

// Filters returns the filter specs of the pipeline.
func (c *Chunked) Filters() []filter.Spec { return c.filters }

// NumChunks returns the number of stored chunks.
func (c *Chunked) NumChunks() int { return len(c.chunks) }

// Err returns the error that prevents the chunks from being decoded, or nil.
func (c *Chunked) Err() error { return c.err }

func (c *Chunked) ReadSlice(start, count []int) ([]byte, error) {
	return c.readSlice(start, count, chunkCache{})
}

// readSlice reads a hyperslab, decoding chunks through cc.
func (c *Chunked) readSlice(start, count []int, cc chunkCache) ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	if err := checkWindow(c.dims, start, count); err != nil {
		return nil, err
	}

	output := make([]byte, elements(count)*c.elemSize)
	if len(output) == 0 {
		return output, nil
	}

	ndims := len(c.dims)
	first := make([]int, ndims)
	last := make([]int, ndims)
	for d := 0; d < ndims; d++ {
		first[d] = start[d] / c.chunkDims[d]
		last[d] = (start[d] + count[d] - 1) / c.chunkDims[d]
	}

	workers := cc.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)

	err := forEachChunk(first, last, func(coord []int) error {
		offset := make([]int, ndims)
		for d := range coord {
			offset[d] = coord[d] * c.chunkDims[d]
		}
		ch, ok := c.chunks[chunkKey(offset)]
		if !ok {
			// Unwritten chunks read as zero.
			return nil
		}

		// Each chunk fills a disjoint region of output.
		g.Go(func() error {
			data, err := c.decode(ch, cc)
			if err != nil {
				return fmt.Errorf("decoding chunk at offset %v: %w", ch.offset, err)
			}
			c.copyChunkToSlice(output, data, ch.offset, start, count)
			return nil
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return output, nil
}

// decode returns the unfiltered chunk, consulting the cache first.
func (c *Chunked) decode(ch *chunk, cc chunkCache) ([]byte, error) {
	var key []byte
	if cc.cache != nil {
		key = []byte(cc.prefix + chunkKey(ch.offset))
		if data, err := cc.cache.Get(key); err == nil {
			return data, nil
		}
	}

	data, err := c.pipeline.Decode(ch.data, ch.mask)
	if err != nil {
		return nil, err
	}
	if want := elements(c.chunkDims) * c.elemSize; len(data) != want {
		return nil, fmt.Errorf("decoded chunk is %d bytes, expected %d", len(data), want)
	}

	if cc.cache != nil {
		if err := cc.cache.Set(key, data, 0); err != nil && err != freecache.ErrLargeEntry {
			return nil, fmt.Errorf("caching chunk: %w", err)
		}
	}
	return data, nil
}

// copyChunkToSlice copies the overlap of a chunk and the selection into
// output.
func (c *Chunked) copyChunkToSlice(output, chunkData []byte, chunkOffset, selStart, selCount []int) {
	ndims := len(c.dims)

	overlapStart := make([]int, ndims)
	overlapEnd := make([]int, ndims)
	for d := 0; d < ndims; d++ {
		overlapStart[d] = max(selStart[d], chunkOffset[d])
		chunkEnd := min(chunkOffset[d]+c.chunkDims[d], c.dims[d])
		overlapEnd[d] = min(selStart[d]+selCount[d], chunkEnd)
	}

	chunkStrides := make([]int, ndims)
	outputStrides := make([]int, ndims)
	chunkStrides[ndims-1] = c.elemSize
	outputStrides[ndims-1] = c.elemSize
	for d := ndims - 2; d >= 0; d-- {
		chunkStrides[d] = chunkStrides[d+1] * c.chunkDims[d+1]
		outputStrides[d] = outputStrides[d+1] * selCount[d+1]
	}

	c.copyOverlapRecursive(output, chunkData, overlapStart, overlapEnd, chunkOffset, selStart,
		chunkStrides, outputStrides, 0, 0, 0)
}

func (c *Chunked) copyOverlapRecursive(
	output, chunkData []byte,
	overlapStart, overlapEnd []int,
	chunkOffset, selStart []int,
	chunkStrides, outputStrides []int,
	chunkIdx, outputIdx, dim int,
) {
	if dim == len(c.dims)-1 {
		rowBytes := (overlapEnd[dim] - overlapStart[dim]) * c.elemSize
		src := chunkIdx + (overlapStart[dim]-chunkOffset[dim])*chunkStrides[dim]
		dst := outputIdx + (overlapStart[dim]-selStart[dim])*outputStrides[dim]
		copy(output[dst:dst+rowBytes], chunkData[src:src+rowBytes])
		return
	}

	for i := overlapStart[dim]; i < overlapEnd[dim]; i++ {
		c.copyOverlapRecursive(output, chunkData, overlapStart, overlapEnd, chunkOffset, selStart,
			chunkStrides, outputStrides,
			chunkIdx+(i-chunkOffset[dim])*chunkStrides[dim],
			outputIdx+(i-selStart[dim])*outputStrides[dim],
			dim+1)
	}
}
