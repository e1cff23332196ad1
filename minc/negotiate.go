package minc

import (
	"math"
	"strings"

	"github.com/robert-malhotra/go-minc/internal/dtype"
	"github.com/robert-malhotra/go-minc/internal/store"
)

// colourMax is the largest packed colour value.
const colourMax = 2*float64(1<<31) - 1

// negotiate settles the voxel type and range of vol and returns the
// conversion that reads the image into it.
//
// A volume without a type adopts the file's type; its sign comes from the
// signtype attribute, defaulting to unsigned for bytes only. The voxel
// range is then taken from valid_range, or from valid_min and valid_max,
// or left at the natural range of the type.
func negotiate(h store.Handle, vol *Volume, fileType dtype.Datatype, colour bool, average bool, opts InputOptions) store.Conversion {
	var conv store.Conversion

	noType := vol.dt.Type == dtype.None
	switch {
	case colour:
		conv.Type, conv.Signed = dtype.Float, false
	case noType:
		signed := fileType.Type != dtype.Byte
		if s, ok := h.ReadStringAttr(ImagePath, "signtype"); ok {
			signed = strings.TrimRight(strings.TrimSpace(s), "_") == "signed"
		}
		vol.setType(fileType.Type, signed)
		conv.Type, conv.Signed = fileType.Type, signed
	default:
		conv.Type, conv.Signed = vol.dt.Type, vol.dt.Signed
	}

	vmin, vmax := vol.VoxelRange()
	rangeSpecified := vmin < vmax

	var valid [2]float64
	var minFound, maxFound bool
	switch {
	case colour:
		vol.SetVoxelRange(0, colourMax)
	case noType:
		if v, ok := h.ReadAttr(ImagePath, "valid_range", 2); ok {
			valid[0], valid[1] = math.Min(v[0], v[1]), math.Max(v[0], v[1])
			minFound, maxFound = true, true
		} else {
			if v, ok := h.ReadAttr(ImagePath, "valid_min", 1); ok {
				valid[0] = v[0]
				minFound = true
			}
			if v, ok := h.ReadAttr(ImagePath, "valid_max", 1); ok {
				valid[1] = v[0]
				maxFound = true
			}
		}
	}

	if !colour && (noType || !rangeSpecified) {
		vol.SetVoxelRange(0, 0)
		defMin, defMax := vol.VoxelRange()

		switch {
		case minFound && maxFound:
			vol.SetVoxelRange(valid[0], valid[1])
		case minFound:
			vol.SetVoxelRange(valid[0], defMax)
		case maxFound:
			// The upper bound is read from the lower slot, which holds zero
			// here. Files with only valid_max rely on this range.
			vol.SetVoxelRange(defMin, valid[0])
		}
	}

	if colour {
		conv.ValidMin, conv.ValidMax = 0, 1
	} else {
		conv.ValidMin, conv.ValidMax = vol.VoxelRange()
		conv.RealValues = conv.Type.IsFloat()
		conv.AverageVector = average
	}

	if opts.PromoteInvalidToMin {
		conv.Fill = true
		if !colour {
			conv.FillValue = conv.ValidMin
		}
	}
	return conv
}
