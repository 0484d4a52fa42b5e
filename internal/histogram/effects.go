package histogram

import (
	"image"
	"image/color"

	"github.com/MeKo-Tech/colorfx/internal/effect"
	"github.com/MeKo-Tech/colorfx/internal/pixel"
)

// LUT maps an input level to an output level.
type LUT [Bins]uint8

// StretchLUT builds the linear dynamic extension table: the darkest used level
// maps to 0 and the brightest to 255. ok is false when the histogram is empty
// or uniform, in which case there is nothing to stretch.
func StretchLUT(h *Histogram) (lut LUT, ok bool) {
	lo, hi, nonEmpty := h.Bounds()
	if !nonEmpty || lo == hi {
		return identityLUT(), false
	}
	for i := range lut {
		lut[i] = uint8(clampLevel(255 * (i - lo) / (hi - lo)))
	}
	return lut, true
}

// EqualizeLUT builds the histogram flattening table from the cumulative counts.
func EqualizeLUT(h *Histogram) (lut LUT, ok bool) {
	total := h.Total()
	if total == 0 {
		return identityLUT(), false
	}
	cum := h.Cumulative()
	for i := range lut {
		lut[i] = uint8(clampLevel(cum[i] * 255 / total))
	}
	return lut, true
}

func identityLUT() LUT {
	var lut LUT
	for i := range lut {
		lut[i] = uint8(i)
	}
	return lut
}

// Kernel returns a kernel applying lut on the given channel.
//
// On Luminance the pixel keeps its hue and saturation and only its value is
// remapped. On Gray the pixel is desaturated to its remapped luma.
func (lut *LUT) Kernel(ch Channel) effect.Kernel {
	table := *lut
	if ch == Gray {
		return func(p color.NRGBA) color.NRGBA {
			l := table[Level(pixel.Unpack(p), Gray)]
			return color.NRGBA{R: l, G: l, B: l, A: p.A}
		}
	}
	return func(p color.NRGBA) color.NRGBA {
		n := pixel.Unpack(p)
		hsv := n.ToHSV()
		hsv.V = float64(table[Level(n, Luminance)]) / 255
		return pixel.Pack(n.WithHSV(hsv))
	}
}

// Stretch linearly expands the used brightness range to [0, 255].
type Stretch struct {
	Channel Channel
}

// Name returns "stretch".
func (Stretch) Name() string { return "stretch" }

// Prepare computes the histogram of src and returns the stretching kernel.
// A uniform image yields a kernel that returns pixels unchanged.
func (s Stretch) Prepare(src image.Image) (effect.Kernel, error) {
	h := Compute(src, s.Channel)
	lut, ok := StretchLUT(&h)
	if !ok {
		return unchanged, nil
	}
	return lut.Kernel(s.Channel), nil
}

// Equalize flattens the brightness histogram.
type Equalize struct {
	Channel Channel
}

// Name returns "equalize".
func (Equalize) Name() string { return "equalize" }

// Prepare computes the histogram of src and returns the equalizing kernel.
func (e Equalize) Prepare(src image.Image) (effect.Kernel, error) {
	h := Compute(src, e.Channel)
	lut, ok := EqualizeLUT(&h)
	if !ok {
		return unchanged, nil
	}
	return lut.Kernel(e.Channel), nil
}

func unchanged(p color.NRGBA) color.NRGBA { return p }
