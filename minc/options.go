package minc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// InputOptions controls how a file is read into a volume.
type InputOptions struct {
	// PromoteInvalidToMin replaces values outside the valid range with the
	// volume's minimum voxel value. Without it they are clamped.
	PromoteInvalidToMin bool `yaml:"promote_invalid_to_min" toml:"promote_invalid_to_min"`

	// ConvertVectorToScalar averages a trailing vector_dimension away.
	ConvertVectorToScalar bool `yaml:"convert_vector_to_scalar" toml:"convert_vector_to_scalar"`

	// ConvertVectorToColour packs a trailing vector_dimension of length
	// ColourDimensionSize into one RGBA value per voxel.
	ConvertVectorToColour bool `yaml:"convert_vector_to_colour" toml:"convert_vector_to_colour"`
	ColourDimensionSize   int  `yaml:"colour_dimension_size" toml:"colour_dimension_size"`

	// ChannelIndices selects the vector components holding red, green,
	// blue and alpha. A negative index yields 0 for a colour channel and 1
	// for alpha.
	ChannelIndices [4]int `yaml:"channel_indices" toml:"channel_indices"`
}

// DefaultInputOptions returns the options used when none are given.
func DefaultInputOptions() InputOptions {
	return InputOptions{
		PromoteInvalidToMin:   true,
		ConvertVectorToScalar: true,
		ConvertVectorToColour: false,
		ColourDimensionSize:   3,
		ChannelIndices:        [4]int{0, 1, 2, -1},
	}
}

// InputOption configures an input session.
type InputOption func(*InputOptions)

// WithOptions replaces all options at once.
func WithOptions(o InputOptions) InputOption {
	return func(dst *InputOptions) {
		*dst = o
	}
}

// WithPromoteInvalidToMin sets fill-value promotion of invalid voxels.
func WithPromoteInvalidToMin(flag bool) InputOption {
	return func(o *InputOptions) {
		o.PromoteInvalidToMin = flag
	}
}

// WithVectorToScalar sets averaging of a trailing vector dimension.
func WithVectorToScalar(flag bool) InputOption {
	return func(o *InputOptions) {
		o.ConvertVectorToScalar = flag
	}
}

// WithVectorToColour sets packing of a trailing vector dimension into
// colours.
func WithVectorToColour(flag bool) InputOption {
	return func(o *InputOptions) {
		o.ConvertVectorToColour = flag
	}
}

// WithColourDimensionSize sets the vector length that colour files must
// have. Sizes below 1 are ignored.
func WithColourDimensionSize(size int) InputOption {
	return func(o *InputOptions) {
		if size > 0 {
			o.ColourDimensionSize = size
			return
		}
		warningf("illegal colour dimension size %d ignored", size)
	}
}

// WithChannelIndices sets the red, green, blue and alpha vector indices.
func WithChannelIndices(r, g, b, a int) InputOption {
	return func(o *InputOptions) {
		o.ChannelIndices = [4]int{r, g, b, a}
	}
}

// Validate reports options that can never be satisfied.
func (o InputOptions) Validate() error {
	if o.ColourDimensionSize <= 0 {
		return fmt.Errorf("colour dimension size must be positive, got %d", o.ColourDimensionSize)
	}
	return nil
}

// LoadInputOptions reads options from a YAML (.yaml, .yml) or TOML (.toml)
// file. Fields the file omits keep their defaults.
func LoadInputOptions(path string) (InputOptions, error) {
	o := DefaultInputOptions()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, &o); err != nil {
			return o, fmt.Errorf("decoding %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return o, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &o); err != nil {
			return o, fmt.Errorf("decoding %s: %w", path, err)
		}
	default:
		return o, fmt.Errorf("unknown options format %q", filepath.Ext(path))
	}

	if err := o.Validate(); err != nil {
		return o, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}
