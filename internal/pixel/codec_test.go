package pixel

import (
	"image/color"
	"math"
	"testing"
)

func TestUnpackPackRoundTrip(t *testing.T) {
	for v := 0; v < 256; v++ {
		p := color.NRGBA{R: uint8(v), G: uint8(255 - v), B: uint8(v / 2), A: uint8(v)}
		got := Pack(Unpack(p))
		if got != p {
			t.Fatalf("round trip of %+v gave %+v", p, got)
		}
	}
}

func TestUnpackScales(t *testing.T) {
	n := Unpack(color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	if n.R != 1 || n.G != 0 || n.A != 1 {
		t.Fatalf("unexpected normalized color %+v", n)
	}
	if math.Abs(n.B-0.2) > 1e-12 {
		t.Fatalf("B = %v, want 0.2", n.B)
	}
}

func TestPackClampsAndRounds(t *testing.T) {
	tests := []struct {
		name string
		in   Normalized
		want color.NRGBA
	}{
		{
			name: "above one clamps to 255",
			in:   Normalized{R: 1.2, G: 1.0000001, B: 1, A: 1},
			want: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		},
		{
			name: "below zero clamps to 0",
			in:   Normalized{R: -0.1, G: -1e-9, B: 0, A: 1},
			want: color.NRGBA{R: 0, G: 0, B: 0, A: 255},
		},
		{
			name: "ties round to even",
			in:   Normalized{R: 0.3, G: 0.5, B: 0, A: 1},
			want: color.NRGBA{R: 76, G: 128, B: 0, A: 255},
		},
		{
			name: "NaN packs to zero",
			in:   Normalized{R: math.NaN(), G: math.Inf(1), B: math.Inf(-1), A: 1},
			want: color.NRGBA{R: 0, G: 255, B: 0, A: 255},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pack(tt.in); got != tt.want {
				t.Errorf("Pack(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}
