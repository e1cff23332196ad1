package filter

import (
	"fmt"
)

// Filter identifiers.
const (
	IDDeflate    uint16 = 1
	IDShuffle    uint16 = 2
	IDFletcher32 uint16 = 3
	IDSZIP       uint16 = 4
	IDNBit       uint16 = 5
	IDScaleOff   uint16 = 6
)

// Filter is a reversible chunk transformation.
type Filter interface {
	// ID returns the filter identifier.
	ID() uint16

	// Encode transforms raw data to its stored form.
	Encode(input []byte) ([]byte, error)

	// Decode transforms stored data back to raw form.
	Decode(input []byte) ([]byte, error)
}

// Spec names a filter and its parameters.
type Spec struct {
	ID         uint16
	ClientData []uint32
	Optional   bool
}

// Registry maps filter IDs to filter constructors.
var Registry = map[uint16]func([]uint32) Filter{
	IDDeflate:    func(cd []uint32) Filter { return NewDeflate(cd) },
	IDShuffle:    func(cd []uint32) Filter { return NewShuffle(cd) },
	IDFletcher32: func(cd []uint32) Filter { return NewFletcher32(cd) },
}

var filterNames = map[uint16]string{
	IDDeflate:    "deflate",
	IDShuffle:    "shuffle",
	IDFletcher32: "fletcher32",
	IDSZIP:       "szip",
	IDNBit:       "nbit",
	IDScaleOff:   "scale-offset",
}

// Name returns the name of a filter ID.
func Name(id uint16) string {
	if name, ok := filterNames[id]; ok {
		return name
	}
	return fmt.Sprintf("filter-%d", id)
}

// New creates a filter from its spec. An unavailable optional filter yields
// (nil, nil).
func New(spec Spec) (Filter, error) {
	constructor, ok := Registry[spec.ID]
	if !ok {
		if spec.Optional {
			return nil, nil
		}
		if name, known := filterNames[spec.ID]; known {
			return nil, fmt.Errorf("%s filter (ID %d) is not supported", name, spec.ID)
		}
		return nil, fmt.Errorf("unsupported filter ID: %d", spec.ID)
	}
	return constructor(spec.ClientData), nil
}
