// Package histogram implements image-wide tone effects: linear stretching and
// equalization of a brightness histogram.
//
// Both effects follow the same two phases as the per-pixel transforms: the
// histogram and lookup table are built once in Prepare, and the returned
// kernel only reads them.
package histogram

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/MeKo-Tech/colorfx/internal/effect"
	"github.com/MeKo-Tech/colorfx/internal/pixel"
)

// Bins is the number of histogram bins, one per 8-bit level.
const Bins = 256

// ErrUnknownChannel is returned when a channel name is not recognized.
var ErrUnknownChannel = errors.New("unknown histogram channel")

// Channel selects which brightness measure a histogram is built over.
type Channel int

const (
	// Luminance is the HSV value (the largest of R, G and B).
	Luminance Channel = iota
	// Gray is the luma sum with effect.LumaWeights.
	Gray
)

// String returns the channel name.
func (c Channel) String() string {
	switch c {
	case Luminance:
		return "luminance"
	case Gray:
		return "gray"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// ParseChannel parses "luminance" (or "value") and "gray".
func ParseChannel(s string) (Channel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "luminance", "value", "":
		return Luminance, nil
	case "gray", "grey":
		return Gray, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

// Histogram counts pixels per 8-bit level.
type Histogram [Bins]int

// Total returns the number of counted pixels.
func (h *Histogram) Total() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Bounds returns the first and last non-empty levels.
// ok is false for an empty histogram.
func (h *Histogram) Bounds() (lo, hi int, ok bool) {
	lo, hi = -1, -1
	for i, c := range h {
		if c == 0 {
			continue
		}
		if lo < 0 {
			lo = i
		}
		hi = i
	}
	return lo, hi, lo >= 0
}

// Cumulative returns the running sum of the histogram.
func (h *Histogram) Cumulative() Histogram {
	var cum Histogram
	sum := 0
	for i, c := range h {
		sum += c
		cum[i] = sum
	}
	return cum
}

// Level returns the 8-bit level of a pixel on the given channel.
// Levels are truncated, not rounded.
func Level(n pixel.Normalized, ch Channel) int {
	var v float64
	switch ch {
	case Gray:
		w := effect.LumaWeights
		v = w.R*n.R + w.G*n.G + w.B*n.B
	default:
		_, v = pixel.MinMax(n.R, n.G, n.B)
	}
	// the epsilon keeps sums such as 40.99999999999999 on level 41
	return clampLevel(int(v*255 + levelEpsilon))
}

const levelEpsilon = 1e-9

// Compute builds the histogram of img on the given channel.
func Compute(img image.Image, ch Channel) Histogram {
	var h Histogram
	src := toNRGBA(img)
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			h[Level(pixel.Unpack(src.NRGBAAt(x, y)), ch)]++
		}
	}
	return h
}

func clampLevel(v int) int {
	if v < 0 {
		return 0
	}
	if v > Bins-1 {
		return Bins - 1
	}
	return v
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	return dst
}
