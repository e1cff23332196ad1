package minc

import "math"

// PackColour packs red, green, blue and alpha intensities in [0,1] into
// one value, red in the lowest byte and alpha in the highest.
func PackColour(r, g, b, a float64) uint32 {
	return uint32(channelByte(r)) |
		uint32(channelByte(g))<<8 |
		uint32(channelByte(b))<<16 |
		uint32(channelByte(a))<<24
}

// UnpackColour returns the intensities packed by PackColour.
func UnpackColour(c uint32) (r, g, b, a float64) {
	return float64(c&0xff) / 255,
		float64(c>>8&0xff) / 255,
		float64(c>>16&0xff) / 255,
		float64(c>>24) / 255
}

func channelByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(math.Round(v * 255))
}
