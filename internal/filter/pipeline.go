package filter

import (
	"fmt"
)

// Pipeline is an ordered sequence of filters.
type Pipeline struct {
	filters []Filter
}

// NewPipeline creates a pipeline from filter specs.
func NewPipeline(specs []Spec) (*Pipeline, error) {
	p := &Pipeline{
		filters: make([]Filter, 0, len(specs)),
	}

	for _, spec := range specs {
		f, err := New(spec)
		if err != nil {
			return nil, fmt.Errorf("creating filter %d: %w", spec.ID, err)
		}
		if f != nil {
			p.filters = append(p.filters, f)
		}
	}

	return p, nil
}

// Encode applies the filters in order.
func (p *Pipeline) Encode(input []byte) ([]byte, error) {
	data := input
	for _, f := range p.filters {
		var err error
		data, err = f.Encode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %s encode: %w", Name(f.ID()), err)
		}
	}
	return data, nil
}

// Decode applies the filters in reverse order, skipping filter i when bit i
// of filterMask is set.
func (p *Pipeline) Decode(input []byte, filterMask uint32) ([]byte, error) {
	data := input
	for i := len(p.filters) - 1; i >= 0; i-- {
		if filterMask&(1<<uint(i)) != 0 {
			continue
		}

		var err error
		data, err = p.filters[i].Decode(data)
		if err != nil {
			return nil, fmt.Errorf("filter %s decode: %w", Name(p.filters[i].ID()), err)
		}
	}
	return data, nil
}

// Empty returns true if the pipeline has no filters.
func (p *Pipeline) Empty() bool {
	return len(p.filters) == 0
}

// Len returns the number of filters in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.filters)
}
