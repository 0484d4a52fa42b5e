// Package effect implements the per-pixel color transforms and their parameters.
//
// Parameters are normalized once, when they are constructed, and are read-only
// afterwards. Kernels receive them by value, so a kernel dispatched across many
// goroutines never writes shared state.
package effect

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/MeKo-Tech/colorfx/internal/pixel"
)

// Weights are the channel coefficients of a luma sum.
// They conceptually add up to 1; this is not enforced.
type Weights struct {
	R, G, B float64
}

// LumaWeights are the fixed weights of the built-in grayscale transform.
var LumaWeights = Weights{R: 0.30, G: 0.59, B: 0.11}

// NormalizeHue reduces a hue angle into [0, 360).
func NormalizeHue(angle float64) float64 {
	return pixel.WrapDegrees(angle, 360)
}

// NormalizeTolerance reduces a tolerance angle into [0, 180).
func NormalizeTolerance(angle float64) float64 {
	return pixel.WrapDegrees(angle, 180)
}

// RotateParams configures HueRotate.
type RotateParams struct {
	hue float64
}

// NewRotateParams normalizes the target hue.
func NewRotateParams(hue float64) RotateParams {
	return RotateParams{hue: NormalizeHue(hue)}
}

// Hue returns the normalized target hue.
func (p RotateParams) Hue() float64 { return p.hue }

// KeepParams configures HueKeep.
type KeepParams struct {
	hue       float64
	tolerance float64
}

// NewKeepParams normalizes the kept hue and the tolerance around it.
func NewKeepParams(hue, tolerance float64) KeepParams {
	return KeepParams{
		hue:       NormalizeHue(hue),
		tolerance: NormalizeTolerance(tolerance),
	}
}

// Hue returns the normalized kept hue.
func (p KeepParams) Hue() float64 { return p.hue }

// Tolerance returns the normalized tolerance.
func (p KeepParams) Tolerance() float64 { return p.tolerance }

// ShiftParams configures HueShift.
type ShiftParams struct {
	degrees float64
}

// NewShiftParams normalizes the shift angle; -90 becomes 270.
func NewShiftParams(degrees float64) ShiftParams {
	return ShiftParams{degrees: NormalizeHue(degrees)}
}

// Degrees returns the normalized shift.
func (p ShiftParams) Degrees() float64 { return p.degrees }

// HueFromHex returns the hue of a CSS hex color such as "#3366ff".
// Achromatic colors have hue 0.
func HueFromHex(s string) (float64, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	h, _, _ := c.Hsv()
	return NormalizeHue(h), nil
}
