package effect

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/MeKo-Tech/colorfx/internal/pixel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridPixels returns a coarse sweep of the RGB cube with varying alpha.
func gridPixels() []color.NRGBA {
	var out []color.NRGBA
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 17 {
				out = append(out, color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8((r + g + b) % 256)})
			}
		}
	}
	return out
}

func isGray(p color.NRGBA) bool {
	return p.R == p.G && p.G == p.B
}

func TestGrayscaleFixedRed(t *testing.T) {
	got := GrayscaleFixed(color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	assert.Equal(t, color.NRGBA{R: 76, G: 76, B: 76, A: 255}, got)
}

func TestGrayscaleFixedIdempotent(t *testing.T) {
	for _, p := range gridPixels() {
		once := GrayscaleFixed(p)
		twice := GrayscaleFixed(once)
		require.Equal(t, once, twice, "pixel %+v", p)
		require.True(t, isGray(once), "pixel %+v not gray: %+v", p, once)
	}
}

func TestGrayscaleWeighted(t *testing.T) {
	tests := []struct {
		name string
		in   color.NRGBA
		w    Weights
		want color.NRGBA
	}{
		{"red only", color.NRGBA{R: 10, G: 200, B: 30, A: 7}, Weights{R: 1}, color.NRGBA{R: 10, G: 10, B: 10, A: 7}},
		{"blue only", color.NRGBA{R: 10, G: 200, B: 30, A: 7}, Weights{B: 1}, color.NRGBA{R: 30, G: 30, B: 30, A: 7}},
		{"negative clamps", color.NRGBA{R: 200, G: 0, B: 0, A: 255}, Weights{R: -1}, color.NRGBA{A: 255}},
		{"overflow clamps", color.NRGBA{R: 200, G: 0, B: 0, A: 255}, Weights{R: 2}, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"average", color.NRGBA{R: 30, G: 60, B: 90, A: 0}, Weights{R: 1.0 / 3, G: 1.0 / 3, B: 1.0 / 3}, color.NRGBA{R: 60, G: 60, B: 60, A: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GrayscaleWeighted(tt.in, tt.w))
		})
	}
}

func TestHueRotateRedToGreen(t *testing.T) {
	got := HueRotate(color.NRGBA{R: 255, A: 255}, NewRotateParams(120))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, got)
}

func TestHueRotateDiscardsSourceHue(t *testing.T) {
	params := NewRotateParams(240)
	for _, p := range []color.NRGBA{
		{R: 255, A: 255},
		{G: 255, A: 255},
		{R: 200, G: 100, B: 50, A: 255},
	} {
		got := HueRotate(p, params)
		hsv := pixel.Unpack(got).ToHSV()
		assert.InDelta(t, 240, hsv.H, 1.5, "pixel %+v -> %+v", p, got)
	}
}

func TestHueRotateKeepsSaturationAndValue(t *testing.T) {
	params := NewRotateParams(75)
	for _, p := range gridPixels() {
		in := pixel.Unpack(p).ToHSV()
		out := pixel.Unpack(HueRotate(p, params)).ToHSV()
		require.InDelta(t, in.V, out.V, 1.0/255+1e-9, "value of %+v", p)
		if in.V > 0.2 {
			require.InDelta(t, in.S, out.S, 0.03, "saturation of %+v", p)
		}
	}
}

func TestHueRotateGrayStaysGray(t *testing.T) {
	got := HueRotate(color.NRGBA{R: 90, G: 90, B: 90, A: 10}, NewRotateParams(200))
	assert.Equal(t, color.NRGBA{R: 90, G: 90, B: 90, A: 10}, got)
}

func TestHueShift(t *testing.T) {
	tests := []struct {
		name    string
		in      color.NRGBA
		degrees float64
		want    color.NRGBA
	}{
		{"red to green", color.NRGBA{R: 255, A: 255}, 120, color.NRGBA{G: 255, A: 255}},
		{"green to blue", color.NRGBA{G: 255, A: 40}, 120, color.NRGBA{B: 255, A: 40}},
		{"negative wraps", color.NRGBA{R: 255, A: 255}, -120, color.NRGBA{B: 255, A: 255}},
		{"full turn", color.NRGBA{R: 200, G: 100, B: 50, A: 255}, 360, color.NRGBA{R: 200, G: 100, B: 50, A: 255}},
		{"gray stays gray", color.NRGBA{R: 90, G: 90, B: 90, A: 10}, 200, color.NRGBA{R: 90, G: 90, B: 90, A: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HueShift(tt.in, NewShiftParams(tt.degrees)))
		})
	}
}

func TestHueShiftKeepsRelativeHue(t *testing.T) {
	params := NewShiftParams(75)
	for _, p := range gridPixels() {
		in := pixel.Unpack(p).ToHSV()
		if in.S < 0.5 || in.V < 0.5 {
			continue
		}
		out := pixel.Unpack(HueShift(p, params)).ToHSV()
		require.InDelta(t, 0, HueDistance(out.H, NormalizeHue(in.H+75)), 2.5, "hue of %+v", p)
		require.InDelta(t, in.V, out.V, 1.0/255+1e-9, "value of %+v", p)
	}
}

func TestHueKeepBlue(t *testing.T) {
	blue := color.NRGBA{B: 255, A: 255}

	kept := HueKeep(blue, NewKeepParams(240, 10))
	assert.Equal(t, blue, kept)

	dropped := HueKeep(blue, NewKeepParams(0, 10))
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, dropped)
}

func TestHueKeepExactHuePreserved(t *testing.T) {
	for _, p := range gridPixels() {
		h := pixel.Unpack(p).ToHSV().H
		got := HueKeep(p, NewKeepParams(h, 0))
		require.InDelta(t, int(p.R), int(got.R), 1, "pixel %+v -> %+v", p, got)
		require.InDelta(t, int(p.G), int(got.G), 1, "pixel %+v -> %+v", p, got)
		require.InDelta(t, int(p.B), int(got.B), 1, "pixel %+v -> %+v", p, got)
		require.Equal(t, p.A, got.A)
	}
}

func TestHueKeepOppositeHueDesaturated(t *testing.T) {
	for _, p := range gridPixels() {
		hsv := pixel.Unpack(p).ToHSV()
		got := HueKeep(p, NewKeepParams(hsv.H+180, 179))
		require.True(t, isGray(got), "pixel %+v -> %+v", p, got)
	}
}

func TestHueKeepWrapsAroundZero(t *testing.T) {
	// hue 350 is 20° from 10 across the 0/360 boundary
	p := pixel.Pack(pixel.Normalized{A: 1}.WithHSV(pixel.HSV{H: 350, S: 1, V: 1}))

	assert.False(t, isGray(HueKeep(p, NewKeepParams(10, 25))))
	assert.True(t, isGray(HueKeep(p, NewKeepParams(10, 15))))
}

func TestHueKeepAchromaticUsesHueZero(t *testing.T) {
	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 200}

	// inside the band around red and outside the band around cyan: unchanged either way
	assert.Equal(t, gray, HueKeep(gray, NewKeepParams(0, 5)))
	assert.Equal(t, gray, HueKeep(gray, NewKeepParams(180, 5)))
}

func TestAlphaPreserved(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	rotate := NewRotateParams(33)
	keep := NewKeepParams(200, 40)
	w := Weights{R: 0.5, G: 0.7, B: -0.3}

	for i := 0; i < 2000; i++ {
		p := color.NRGBA{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256)), A: uint8(rng.Intn(256))}
		require.Equal(t, p.A, GrayscaleFixed(p).A)
		require.Equal(t, p.A, GrayscaleWeighted(p, w).A)
		require.Equal(t, p.A, HueRotate(p, rotate).A)
		require.Equal(t, p.A, HueKeep(p, keep).A)
	}
}

func TestHueDistance(t *testing.T) {
	assert.Equal(t, 0.0, HueDistance(120, 120))
	assert.Equal(t, 20.0, HueDistance(350, 10))
	assert.Equal(t, 180.0, HueDistance(0, 180))
	assert.Equal(t, 90.0, HueDistance(300, 30))
}
