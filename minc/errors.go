package minc

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors
var (
	ErrOpen              = errors.New("cannot open volume file")
	ErrDimensionMismatch = errors.New("dimension names did not match")
	ErrTooManyDimensions = errors.New("too many dimensions")
	ErrColourIndex       = errors.New("rgba index out of range")
	ErrEndOfVolume       = errors.New("end of volume")
	ErrClosed            = errors.New("input is closed")
	ErrRead              = errors.New("reading slab")
)

const (
	// MaxFileDimensions is the largest image rank a file may have.
	MaxFileDimensions = 32

	// MaxVolumeDimensions is the largest rank of an in-memory volume.
	MaxVolumeDimensions = 5
)

// MismatchError reports requested dimensions that the file cannot supply.
type MismatchError struct {
	Requested []string
	InFile    []string
	Reason    string
}

func (e *MismatchError) Error() string {
	var b strings.Builder
	b.WriteString(ErrDimensionMismatch.Error())
	if e.Reason != "" {
		fmt.Fprintf(&b, " (%s)", e.Reason)
	}
	fmt.Fprintf(&b, ": requested [%s], in file [%s]",
		strings.Join(e.Requested, ", "), strings.Join(e.InFile, ", "))
	return b.String()
}

// Is makes errors.Is(err, ErrDimensionMismatch) hold.
func (e *MismatchError) Is(target error) bool {
	return target == ErrDimensionMismatch
}
