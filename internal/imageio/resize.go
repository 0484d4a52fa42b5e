package imageio

import (
	"image"

	"github.com/disintegration/gift"
)

// SampleSize returns the smallest power of two s such that the image divided
// by s is smaller than the requested size in both dimensions.
// A non-positive request returns 1.
func SampleSize(width, height, reqWidth, reqHeight int) int {
	if reqWidth <= 0 || reqHeight <= 0 {
		return 1
	}

	size := 1
	for height/size >= reqHeight || width/size >= reqWidth {
		size *= 2
	}
	return size
}

// Downscale shrinks img so that it fits within maxWidth x maxHeight.
// The scale factor is a power of two (see SampleSize). A zero limit means
// unbounded in that dimension; with no limits, or an image already within
// them, img is returned unchanged.
func Downscale(img image.Image, maxWidth, maxHeight int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxWidth <= 0 && maxHeight <= 0 {
		return img
	}
	if (maxWidth <= 0 || w <= maxWidth) && (maxHeight <= 0 || h <= maxHeight) {
		return img
	}

	// an unbounded dimension must never drive the factor
	reqW, reqH := maxWidth+1, maxHeight+1
	if maxWidth <= 0 {
		reqW = w + 1
	}
	if maxHeight <= 0 {
		reqH = h + 1
	}

	size := SampleSize(w, h, reqW, reqH)
	if size <= 1 {
		return img
	}

	g := gift.New(gift.Resize(max(w/size, 1), max(h/size, 1), gift.LanczosResampling))
	dst := image.NewNRGBA(g.Bounds(b))
	g.Draw(dst, img)
	return dst
}
