package store

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Attribute is a named numeric vector or text value attached to a group or
// dataset.
type Attribute struct {
	name   string
	values []float64
	text   string
	isText bool
}

// NewAttribute builds an attribute from a string, a numeric scalar or a
// numeric slice.
func NewAttribute(name string, value interface{}) (*Attribute, error) {
	if s, ok := value.(string); ok {
		return &Attribute{name: name, text: s, isText: true}, nil
	}

	v := reflect.ValueOf(value)
	if !v.IsValid() {
		return nil, fmt.Errorf("attribute %q: nil value", name)
	}

	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		vals := make([]float64, v.Len())
		for i := range vals {
			f, err := toFloat(v.Index(i))
			if err != nil {
				return nil, fmt.Errorf("attribute %q: %w", name, err)
			}
			vals[i] = f
		}
		return &Attribute{name: name, values: vals}, nil
	}

	f, err := toFloat(v)
	if err != nil {
		return nil, fmt.Errorf("attribute %q: %w", name, err)
	}
	return &Attribute{name: name, values: []float64{f}}, nil
}

func toFloat(v reflect.Value) (float64, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	default:
		return 0, fmt.Errorf("unsupported attribute type %v", v.Kind())
	}
}

// Name returns the attribute name.
func (a *Attribute) Name() string { return a.name }

// IsText reports whether the attribute holds text.
func (a *Attribute) IsText() bool { return a.isText }

// Len returns the number of numeric values, or 1 for text.
func (a *Attribute) Len() int {
	if a.isText {
		return 1
	}
	return len(a.values)
}

// Float64s returns a copy of the numeric values. Text attributes that parse
// as a number yield that number.
func (a *Attribute) Float64s() ([]float64, bool) {
	if a.isText {
		f, err := strconv.ParseFloat(strings.TrimSpace(a.text), 64)
		if err != nil {
			return nil, false
		}
		return []float64{f}, true
	}
	return append([]float64(nil), a.values...), true
}

// Text returns the text value.
func (a *Attribute) Text() (string, bool) {
	return a.text, a.isText
}

func (a *Attribute) String() string {
	if a.isText {
		return strconv.Quote(a.text)
	}
	parts := make([]string, len(a.values))
	for i, v := range a.values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// attrSet is the attribute table shared by groups and datasets.
type attrSet struct {
	attrs map[string]*Attribute
}

// Attr returns the named attribute, or nil.
func (s *attrSet) Attr(name string) *Attribute {
	return s.attrs[name]
}

// HasAttr reports whether the named attribute exists.
func (s *attrSet) HasAttr(name string) bool {
	_, ok := s.attrs[name]
	return ok
}

// Attrs returns the attribute names in sorted order.
func (s *attrSet) Attrs() []string {
	names := make([]string, 0, len(s.attrs))
	for name := range s.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *attrSet) setAttr(a *Attribute) {
	if s.attrs == nil {
		s.attrs = make(map[string]*Attribute)
	}
	s.attrs[a.name] = a
}
