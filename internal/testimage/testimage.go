// Package testimage generates deterministic sample images for trying out the
// effects.
package testimage

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/aquilax/go-perlin"

	"github.com/MeKo-Tech/colorfx/internal/imageio"
	"github.com/MeKo-Tech/colorfx/internal/pixel"
)

const (
	// HueWheelFile is the file name Write uses for HueWheel.
	HueWheelFile = "hue-wheel.png"
	// LowContrastFile is the file name Write uses for LowContrast.
	LowContrastFile = "low-contrast.png"
)

// WriteResult reports which images were written or skipped.
type WriteResult struct {
	Written []string
	Skipped []string
}

// noiseField returns a sampler of Perlin noise in [0, 1].
func noiseField(size int, seed int64) func(x, y int) float64 {
	p := perlin.NewPerlin(2.0, 2.0, 3, seed)
	scale := math.Max(float64(size)/4, 1)
	return func(x, y int) float64 {
		v := (p.Noise2D(float64(x)/scale, float64(y)/scale) + 1) / 2
		return math.Max(0, math.Min(1, v))
	}
}

// HueWheel renders a size x size color wheel: hue follows the angle around
// the center and saturation the distance from it. Brightness is modulated by
// Perlin noise. Outside the disc the corners fade to transparent.
func HueWheel(size int, seed int64) *image.NRGBA {
	if size <= 0 {
		return image.NewNRGBA(image.Rectangle{})
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	noise := noiseField(size, seed)
	c := float64(size-1) / 2
	radius := math.Max(float64(size)/2, 1)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, c-float64(y)
			dist := math.Hypot(dx, dy) / radius
			hue := pixel.WrapDegrees(math.Atan2(dy, dx)*180/math.Pi, 360)

			n := pixel.Normalized{A: 1}
			if dist <= 1 {
				n.R, n.G, n.B = pixel.HSVToRGB(hue, dist, 0.7+0.3*noise(x, y))
			} else {
				n.R, n.G, n.B = pixel.HSVToRGB(hue, 1, 1)
				// fades from opaque at the disc edge to clear in the corner
				n.A = math.Max(0, 1-(dist-1)/(math.Sqrt2-1))
			}
			img.SetNRGBA(x, y, pixel.Pack(n))
		}
	}
	return img
}

// LowContrast renders a gray diagonal ramp squeezed into the middle of the
// range with a little Perlin noise, a good input for the histogram effects.
func LowContrast(size int, seed int64) *image.NRGBA {
	if size <= 0 {
		return image.NewNRGBA(image.Rectangle{})
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))

	noise := noiseField(size, seed)
	span := math.Max(float64(2*(size-1)), 1)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			ramp := float64(x+y) / span
			l := uint8(96 + math.Round(56*ramp+8*noise(x, y)))
			img.SetNRGBA(x, y, color.NRGBA{R: l, G: l, B: l, A: 255})
		}
	}
	return img
}

// Write renders the sample images into dir. Existing files are skipped
// unless force is set.
func Write(dir string, size int, seed int64, force bool) (WriteResult, error) {
	result := WriteResult{}
	if size <= 0 {
		return result, fmt.Errorf("size must be positive")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return result, fmt.Errorf("failed to create sample dir: %w", err)
	}

	samples := []struct {
		name   string
		render func(int, int64) *image.NRGBA
	}{
		{HueWheelFile, HueWheel},
		{LowContrastFile, LowContrast},
	}

	for i, s := range samples {
		path := filepath.Join(dir, s.name)
		if !force {
			if _, err := os.Stat(path); err == nil {
				result.Skipped = append(result.Skipped, path)
				continue
			}
		}

		img := s.render(size, seed+int64(i)*1000)
		if err := imageio.Save(path, img, png.BestCompression); err != nil {
			return result, err
		}
		result.Written = append(result.Written, path)
	}

	return result, nil
}
