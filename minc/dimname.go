package minc

import "strconv"

// AnySpatialDimension is the legacy name of the AnySpatial pattern.
const AnySpatialDimension = "any_spatial_dimension"

type nameKind int

const (
	unconstrainedName nameKind = iota
	anySpatialName
	exactName
)

// DimName is a requested volume dimension: an exact name or a pattern
// resolved against the file during matching. The zero value is Any.
type DimName struct {
	kind nameKind
	name string
}

var (
	// AnySpatial matches any of xspace, yspace and zspace.
	AnySpatial = DimName{kind: anySpatialName}

	// Any matches any dimension.
	Any = DimName{kind: unconstrainedName}
)

// Named returns the pattern matching exactly name.
func Named(name string) DimName {
	return DimName{kind: exactName, name: name}
}

// ParseDimName maps the legacy spellings "any_spatial_dimension" and the
// empty string onto AnySpatial and Any.
func ParseDimName(s string) DimName {
	switch s {
	case AnySpatialDimension:
		return AnySpatial
	case "":
		return Any
	}
	return Named(s)
}

// Exact returns the name and true when n is not a pattern.
func (n DimName) Exact() (string, bool) {
	return n.name, n.kind == exactName
}

// IsPattern reports whether n is AnySpatial or Any.
func (n DimName) IsPattern() bool {
	return n.kind != exactName
}

// matches reports whether n binds fileName in the given matching pass:
// exact names in pass 0, AnySpatial in pass 1, Any in pass 2.
func (n DimName) matches(pass int, fileName string) bool {
	switch pass {
	case 0:
		return n.kind == exactName && n.name == fileName
	case 1:
		_, spatial := SpatialAxis(fileName)
		return n.kind == anySpatialName && spatial
	case 2:
		return n.kind == unconstrainedName
	}
	return false
}

func (n DimName) String() string {
	switch n.kind {
	case anySpatialName:
		return AnySpatialDimension
	case unconstrainedName:
		return strconv.Quote("")
	}
	return n.name
}
