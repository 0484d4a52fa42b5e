package pixel

import "math"

// HSV is a color in the hue/saturation/value model.
// H is in degrees [0, 360), S and V are in [0, 1].
// H is 0 for achromatic colors (S == 0).
type HSV struct {
	H, S, V float64
}

// Indexes into the {C, X, 0} triple used by HSVToRGB.
const (
	chroma = iota
	second
	zero
)

// sectorTable maps a 60° hue sector to the (r, g, b) components before adding m.
var sectorTable = [6][3]int{
	{chroma, second, zero}, // 0: red -> yellow
	{second, chroma, zero}, // 1: yellow -> green
	{zero, chroma, second}, // 2: green -> cyan
	{zero, second, chroma}, // 3: cyan -> blue
	{second, zero, chroma}, // 4: blue -> magenta
	{chroma, zero, second}, // 5: magenta -> red
}

// MinMax returns the smallest and largest of three channel values.
func MinMax(r, g, b float64) (mini, maxi float64) {
	return math.Min(math.Min(r, g), b), math.Max(math.Max(r, g), b)
}

// Saturation returns the HSV saturation for the given channel extremes.
// Black (maxi == 0) has zero saturation.
func Saturation(mini, maxi float64) float64 {
	if maxi == 0 {
		return 0
	}
	return 1 - mini/maxi
}

// WrapDegrees reduces an angle into [0, period).
func WrapDegrees(a, period float64) float64 {
	a = math.Mod(a, period)
	if a < 0 {
		a += period
	}
	// -tiny + period can round up to period itself
	if a >= period {
		a = 0
	}
	return a
}

// RGBToHSV converts normalized RGB to HSV.
func RGBToHSV(r, g, b float64) HSV {
	mini, maxi := MinMax(r, g, b)

	var h float64
	if maxi != mini {
		delta := maxi - mini
		switch maxi {
		case r:
			h = 60*((g-b)/delta) + 360
		case g:
			h = 60*((b-r)/delta) + 120
		default:
			h = 60*((r-g)/delta) + 240
		}
		h = WrapDegrees(h, 360)
	}

	return HSV{H: h, S: Saturation(mini, maxi), V: maxi}
}

// HSVToRGB converts HSV back to normalized RGB.
// h may be any angle; it is wrapped into [0, 360) first.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	h = WrapDegrees(h, 360)
	hp := h / 60

	c := s * v
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	m := v - c

	// only NaN input lands outside 0..5; it gets the (0, 0, 0) triple
	sector := math.Floor(math.Mod(hp, 6))
	if !(sector >= 0 && sector < float64(len(sectorTable))) {
		return m, m, m
	}

	vals := [3]float64{c, x, 0}
	idx := sectorTable[int(sector)]
	return vals[idx[0]] + m, vals[idx[1]] + m, vals[idx[2]] + m
}

// ToHSV converts the color part of n to HSV. Alpha is not involved.
func (n Normalized) ToHSV() HSV {
	return RGBToHSV(n.R, n.G, n.B)
}

// WithHSV returns n with its color replaced by hsv and its alpha unchanged.
func (n Normalized) WithHSV(hsv HSV) Normalized {
	r, g, b := HSVToRGB(hsv.H, hsv.S, hsv.V)
	return Normalized{R: r, G: g, B: b, A: n.A}
}
