// Package pixel holds the per-pixel color math: 8-bit packing and RGB<->HSV.
package pixel

import (
	"image/color"
	"math"
)

// Normalized is a color with each channel scaled to [0, 1].
// Values produced by arithmetic may drift outside that range; Pack clamps them.
type Normalized struct {
	R, G, B, A float64
}

// Unpack scales an 8-bit pixel to the normalized representation.
func Unpack(p color.NRGBA) Normalized {
	return Normalized{
		R: float64(p.R) / 255,
		G: float64(p.G) / 255,
		B: float64(p.B) / 255,
		A: float64(p.A) / 255,
	}
}

// Pack converts a normalized color back to 8 bits per channel.
// Channels are rounded to the nearest integer (ties to even) and clamped to [0, 255].
func Pack(c Normalized) color.NRGBA {
	return color.NRGBA{
		R: packChannel(c.R),
		G: packChannel(c.G),
		B: packChannel(c.B),
		A: packChannel(c.A),
	}
}

func packChannel(v float64) uint8 {
	x := math.RoundToEven(v * 255)
	// NaN fails both comparisons below, so it is caught here
	if !(x > 0) {
		return 0
	}
	if x > 255 {
		return 255
	}
	return uint8(x)
}
