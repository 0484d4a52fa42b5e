package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checker(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: uint8(200 + (x+y)%2)})
		}
	}
	return img
}

func TestSaveLoadPNGRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	src := checker(8, 5)

	require.NoError(t, Save(path, src, png.BestSpeed))

	img, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), img.Bounds())

	for y := 0; y < 5; y++ {
		for x := 0; x < 8; x++ {
			got := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			assert.Equal(t, src.NRGBAAt(x, y), got, "pixel (%d,%d)", x, y)
		}
	}
}

func TestSaveJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.jpg")
	require.NoError(t, Save(path, checker(16, 16), png.DefaultCompression))

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	err := Save(filepath.Join(t.TempDir(), "out.xyz"), checker(1, 1), png.DefaultCompression)
	require.Error(t, err)

	err = Save(filepath.Join(t.TempDir(), "noext"), checker(1, 1), png.DefaultCompression)
	require.Error(t, err)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load("")
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.png"))
	assert.ErrorContains(t, err, "not found")

	_, err = Load(dir)
	assert.ErrorContains(t, err, "directory")

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = Load(garbage)
	assert.ErrorContains(t, err, "decode")
}

func TestDecodeFromReader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, checker(3, 2), FormatPNG, png.DefaultCompression))

	img, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
}

func TestIsSupported(t *testing.T) {
	for _, p := range []string{"a.png", "b.JPG", "c.jpeg", "d.webp", "e.tiff", "f.bmp", "g.gif"} {
		assert.True(t, IsSupported(p), p)
	}
	for _, p := range []string{"a.txt", "b", "c.png.bak"} {
		assert.False(t, IsSupported(p), p)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatPNG},
		{in: "PNG", want: FormatPNG},
		{in: "jpg", want: FormatJPEG},
		{in: "jpeg", want: FormatJPEG},
		{in: "gif", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "image/jpeg", FormatJPEG.ContentType())
	assert.Equal(t, "image/png", FormatPNG.ContentType())
}

func TestParsePNGCompression(t *testing.T) {
	for name, want := range map[string]png.CompressionLevel{
		"":        png.DefaultCompression,
		"default": png.DefaultCompression,
		"speed":   png.BestSpeed,
		"best":    png.BestCompression,
		"none":    png.NoCompression,
	} {
		got, err := ParsePNGCompression(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParsePNGCompression("fast")
	assert.Error(t, err)
}

func TestSampleSize(t *testing.T) {
	tests := []struct {
		name             string
		w, h, reqW, reqH int
		want             int
	}{
		{"no request", 4000, 3000, 0, 0, 1},
		{"already small", 100, 80, 200, 200, 1},
		{"halve", 400, 300, 300, 300, 2},
		{"quarter", 1000, 500, 301, 501, 4},
		{"equal size still halves", 200, 200, 200, 200, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SampleSize(tt.w, tt.h, tt.reqW, tt.reqH))
		})
	}
}

func TestDownscale(t *testing.T) {
	src := checker(40, 20)

	same := Downscale(src, 0, 0)
	assert.Same(t, src, same.(*image.NRGBA))

	fits := Downscale(src, 40, 20)
	assert.Same(t, src, fits.(*image.NRGBA))

	half := Downscale(src, 30, 0)
	assert.Equal(t, image.Rect(0, 0, 20, 10), half.Bounds())

	quarter := Downscale(src, 0, 5)
	assert.Equal(t, image.Rect(0, 0, 10, 5), quarter.Bounds())
}
