package effect

import (
	"image/color"
	"math"

	"github.com/MeKo-Tech/colorfx/internal/pixel"
)

// Kernel maps one pixel to one pixel. Kernels must not touch any other pixel
// or any shared mutable state.
type Kernel func(color.NRGBA) color.NRGBA

// GrayscaleFixed desaturates a pixel with LumaWeights.
func GrayscaleFixed(p color.NRGBA) color.NRGBA {
	return GrayscaleWeighted(p, LumaWeights)
}

// GrayscaleWeighted replaces the color channels with their weighted sum.
// Alpha is unchanged.
func GrayscaleWeighted(p color.NRGBA, w Weights) color.NRGBA {
	n := pixel.Unpack(p)
	luma := w.R*n.R + w.G*n.G + w.B*n.B
	return pixel.Pack(pixel.Normalized{R: luma, G: luma, B: luma, A: n.A})
}

// HueRotate colorizes a pixel: saturation and value are kept, the source hue is
// discarded and replaced by the target hue.
func HueRotate(p color.NRGBA, params RotateParams) color.NRGBA {
	n := pixel.Unpack(p)
	mini, maxi := pixel.MinMax(n.R, n.G, n.B)

	return pixel.Pack(n.WithHSV(pixel.HSV{
		H: params.hue,
		S: pixel.Saturation(mini, maxi),
		V: maxi,
	}))
}

// HueShift turns the hue of a pixel around the color wheel by a fixed angle,
// keeping saturation and value. Achromatic pixels stay achromatic.
func HueShift(p color.NRGBA, params ShiftParams) color.NRGBA {
	n := pixel.Unpack(p)
	hsv := n.ToHSV()
	hsv.H = NormalizeHue(hsv.H + params.degrees)
	return pixel.Pack(n.WithHSV(hsv))
}

// HueKeep desaturates a pixel whose hue lies further than the tolerance from
// the kept hue. Kept pixels come back unchanged (up to rounding).
//
// Achromatic pixels have hue 0, so with a kept hue near red they count as
// inside the band. Their saturation is already 0, so the output is the same
// either way.
func HueKeep(p color.NRGBA, params KeepParams) color.NRGBA {
	n := pixel.Unpack(p)
	hsv := n.ToHSV()

	if HueDistance(hsv.H, params.hue) > params.tolerance {
		hsv.S = 0
	}

	return pixel.Pack(n.WithHSV(hsv))
}

// HueDistance is the circular distance in degrees between two hues in [0, 360).
func HueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}
