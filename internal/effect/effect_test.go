package effect

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamsNormalizedOnce(t *testing.T) {
	tests := []struct {
		name          string
		hue, tol      float64
		wantHue       float64
		wantTolerance float64
	}{
		{"in range", 240, 10, 240, 10},
		{"hue above 360", 480, 10, 120, 10},
		{"negative hue wraps", -30, 10, 330, 10},
		{"tolerance above 180", 0, 190, 0, 10},
		{"tolerance of exactly 180", 0, 180, 0, 0},
		{"negative tolerance wraps", 0, -10, 0, 170},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewKeepParams(tt.hue, tt.tol)
			assert.Equal(t, tt.wantHue, p.Hue())
			assert.Equal(t, tt.wantTolerance, p.Tolerance())
		})
	}

	assert.Equal(t, 120.0, NewRotateParams(480).Hue())
	assert.Equal(t, 270.0, NewShiftParams(-90).Degrees())
	assert.Equal(t, 0.0, NewShiftParams(720).Degrees())
	assert.Equal(t, 0.0, NewRotateParams(360).Hue())
}

func TestEffectNames(t *testing.T) {
	assert.Equal(t, "gray", Gray{Weights: LumaWeights}.Name())
	assert.Equal(t, "gray-weighted", Gray{Weights: Weights{R: 1}}.Name())
	assert.Equal(t, "gray-weighted", Gray{Weights: LumaWeights, Weighted: true}.Name())
	assert.Equal(t, "hue", Rotate{}.Name())
	assert.Equal(t, "hue-shift", Shift{}.Name())
	assert.Equal(t, "keep", Keep{}.Name())
}

func TestPreparedKernelsMatchDirectCalls(t *testing.T) {
	rotate := NewRotateParams(90)
	keep := NewKeepParams(120, 30)
	shift := NewShiftParams(45)
	w := Weights{R: 0.2, G: 0.2, B: 0.6}

	tests := []struct {
		name   string
		effect Effect
		direct Kernel
	}{
		{"gray", Gray{Weights: LumaWeights}, GrayscaleFixed},
		{"gray-weighted", Gray{Weights: w}, func(p color.NRGBA) color.NRGBA { return GrayscaleWeighted(p, w) }},
		{"hue", Rotate{Params: rotate}, func(p color.NRGBA) color.NRGBA { return HueRotate(p, rotate) }},
		{"keep", Keep{Params: keep}, func(p color.NRGBA) color.NRGBA { return HueKeep(p, keep) }},
		{"hue-shift", Shift{Params: shift}, func(p color.NRGBA) color.NRGBA { return HueShift(p, shift) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kernel, err := tt.effect.Prepare(nil)
			require.NoError(t, err)
			for _, p := range gridPixels() {
				require.Equal(t, tt.direct(p), kernel(p))
			}
		})
	}
}

func TestHueFromHex(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "#ff0000", want: 0},
		{in: "#00ff00", want: 120},
		{in: "#0000ff", want: 240},
		{in: "#f0f", want: 300},
		{in: "#808080", want: 0},
		{in: "blue", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := HueFromHex(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
