package store

import "errors"

// Common errors
var (
	ErrNotFound    = errors.New("object not found")
	ErrNotDataset  = errors.New("object is not a dataset")
	ErrNotGroup    = errors.New("object is not a group")
	ErrExists      = errors.New("object already exists")
	ErrInvalidPath = errors.New("invalid path")
	ErrClosed      = errors.New("file is closed")
	ErrFormat      = errors.New("not a volume container")
	ErrVersion     = errors.New("unsupported container version")
	ErrWindow      = errors.New("hyperslab out of bounds")
)
