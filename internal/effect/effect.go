package effect

import (
	"image"
	"image/color"
)

// Effect is a named transform that is applied to a whole image.
//
// Prepare runs once per image before any pixel is processed. It does all the
// parameter and image-wide setup and returns the kernel that the dispatcher
// then runs on every pixel.
type Effect interface {
	Name() string
	Prepare(src image.Image) (Kernel, error)
}

// Gray desaturates with the given weights.
// Weighted names it gray-weighted even when the weights are the luma ones.
type Gray struct {
	Weights  Weights
	Weighted bool
}

// Name returns "gray" for the plain luma transform and "gray-weighted" otherwise.
func (g Gray) Name() string {
	if g.Weights == LumaWeights && !g.Weighted {
		return "gray"
	}
	return "gray-weighted"
}

// Prepare returns a grayscale kernel.
func (g Gray) Prepare(image.Image) (Kernel, error) {
	w := g.Weights
	if w == LumaWeights {
		return GrayscaleFixed, nil
	}
	return func(p color.NRGBA) color.NRGBA {
		return GrayscaleWeighted(p, w)
	}, nil
}

// Rotate colorizes every pixel with a single hue.
type Rotate struct {
	Params RotateParams
}

// Name returns "hue".
func (Rotate) Name() string { return "hue" }

// Prepare returns a hue rotate kernel.
func (r Rotate) Prepare(image.Image) (Kernel, error) {
	params := r.Params
	return func(p color.NRGBA) color.NRGBA {
		return HueRotate(p, params)
	}, nil
}

// Shift turns every hue by the same angle.
type Shift struct {
	Params ShiftParams
}

// Name returns "hue-shift".
func (Shift) Name() string { return "hue-shift" }

// Prepare returns a hue shift kernel.
func (s Shift) Prepare(image.Image) (Kernel, error) {
	params := s.Params
	return func(p color.NRGBA) color.NRGBA {
		return HueShift(p, params)
	}, nil
}

// Keep keeps one band of hues and desaturates the rest.
type Keep struct {
	Params KeepParams
}

// Name returns "keep".
func (Keep) Name() string { return "keep" }

// Prepare returns a hue keep kernel.
func (k Keep) Prepare(image.Image) (Kernel, error) {
	params := k.Params
	return func(p color.NRGBA) color.NRGBA {
		return HueKeep(p, params)
	}, nil
}
