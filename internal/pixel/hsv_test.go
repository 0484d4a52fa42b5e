package pixel

import (
	"math"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestRGBToHSVPrimaries(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    HSV
	}{
		{"red", 1, 0, 0, HSV{H: 0, S: 1, V: 1}},
		{"yellow", 1, 1, 0, HSV{H: 60, S: 1, V: 1}},
		{"green", 0, 1, 0, HSV{H: 120, S: 1, V: 1}},
		{"cyan", 0, 1, 1, HSV{H: 180, S: 1, V: 1}},
		{"blue", 0, 0, 1, HSV{H: 240, S: 1, V: 1}},
		{"magenta", 1, 0, 1, HSV{H: 300, S: 1, V: 1}},
		{"black", 0, 0, 0, HSV{H: 0, S: 0, V: 0}},
		{"white", 1, 1, 1, HSV{H: 0, S: 0, V: 1}},
		{"gray", 0.5, 0.5, 0.5, HSV{H: 0, S: 0, V: 0.5}},
		{"dark red", 0.5, 0, 0, HSV{H: 0, S: 1, V: 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToHSV(tt.r, tt.g, tt.b)
			assert.InDelta(t, tt.want.H, got.H, eps, "hue")
			assert.InDelta(t, tt.want.S, got.S, eps, "saturation")
			assert.InDelta(t, tt.want.V, got.V, eps, "value")
		})
	}
}

func TestRGBToHSVHueStaysBelow360(t *testing.T) {
	// red max with g < b lands just under 360; red with g == b must be 0, not 360
	for _, c := range [][3]float64{{1, 0, 0}, {1, 0.2, 0.2}, {1, 0, 1e-12}, {0.8, 0.1, 0.3}} {
		h := RGBToHSV(c[0], c[1], c[2]).H
		if h < 0 || h >= 360 {
			t.Fatalf("hue %v out of range for %v", h, c)
		}
	}
}

func TestRGBToHSVMatchesColorful(t *testing.T) {
	steps := 12
	for i := 0; i <= steps; i++ {
		for j := 0; j <= steps; j++ {
			for k := 0; k <= steps; k++ {
				r := float64(i) / float64(steps)
				g := float64(j) / float64(steps)
				b := float64(k) / float64(steps)

				got := RGBToHSV(r, g, b)
				wh, ws, wv := colorful.Color{R: r, G: g, B: b}.Hsv()

				require.InDelta(t, ws, got.S, eps, "saturation of (%v,%v,%v)", r, g, b)
				require.InDelta(t, wv, got.V, eps, "value of (%v,%v,%v)", r, g, b)
				if got.S > 0 {
					d := math.Abs(wh - got.H)
					require.Less(t, math.Min(d, 360-d), 1e-6, "hue of (%v,%v,%v)", r, g, b)
				}
			}
		}
	}
}

func TestHSVRoundTrip(t *testing.T) {
	steps := 17
	for i := 0; i <= steps; i++ {
		for j := 0; j <= steps; j++ {
			for k := 0; k <= steps; k++ {
				r := float64(i) / float64(steps)
				g := float64(j) / float64(steps)
				b := float64(k) / float64(steps)

				hsv := RGBToHSV(r, g, b)
				r2, g2, b2 := HSVToRGB(hsv.H, hsv.S, hsv.V)
				if math.Abs(r-r2) > eps || math.Abs(g-g2) > eps || math.Abs(b-b2) > eps {
					t.Fatalf("round trip (%v,%v,%v) -> %+v -> (%v,%v,%v)", r, g, b, hsv, r2, g2, b2)
				}
			}
		}
	}
}

func TestHSVToRGBWrapsHue(t *testing.T) {
	tests := []struct {
		name    string
		h       float64
		r, g, b float64
	}{
		{"negative wraps to blue", -120, 0, 0, 1},
		{"above 360 wraps to green", 480, 0, 1, 0},
		{"exactly 360 is red", 360, 1, 0, 0},
		{"tiny negative is red", -1e-18, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := HSVToRGB(tt.h, 1, 1)
			assert.InDelta(t, tt.r, r, eps)
			assert.InDelta(t, tt.g, g, eps)
			assert.InDelta(t, tt.b, b, eps)
		})
	}
}

func TestHSVToRGBAchromatic(t *testing.T) {
	for _, h := range []float64{0, 90, 200, 359} {
		r, g, b := HSVToRGB(h, 0, 0.4)
		assert.InDelta(t, 0.4, r, eps)
		assert.InDelta(t, 0.4, g, eps)
		assert.InDelta(t, 0.4, b, eps)
	}
}

func TestHSVToRGBNaNHueFallsBack(t *testing.T) {
	r, g, b := HSVToRGB(math.NaN(), 1, 0.5)
	assert.Equal(t, 0.0, r)
	assert.Equal(t, 0.0, g)
	assert.Equal(t, 0.0, b)
}

func TestWrapDegrees(t *testing.T) {
	assert.Equal(t, 10.0, WrapDegrees(370, 360))
	assert.Equal(t, 350.0, WrapDegrees(-10, 360))
	assert.Equal(t, 0.0, WrapDegrees(180, 180))
	assert.Equal(t, 170.0, WrapDegrees(-10, 180))
	assert.Equal(t, 0.0, WrapDegrees(-1e-18, 360))
}

func TestSaturationOfBlack(t *testing.T) {
	assert.Equal(t, 0.0, Saturation(0, 0))
	assert.InDelta(t, 0.75, Saturation(0.25, 1), eps)
}
