// Package pipeline wires image loading, effect dispatch and output writing
// into a single step.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/MeKo-Tech/colorfx/internal/archive"
	"github.com/MeKo-Tech/colorfx/internal/effect"
	"github.com/MeKo-Tech/colorfx/internal/imageio"
	"github.com/MeKo-Tech/colorfx/internal/registry"
	"github.com/MeKo-Tech/colorfx/internal/worker"
)

// ResultWriter receives encoded results, usually an *archive.Writer.
type ResultWriter interface {
	WriteResult(archive.Entry) error
}

// Options configures a Runner.
type Options struct {
	ResultWriter   ResultWriter
	Progress       worker.ProgressFunc // called after each band
	Pixels         func(n int)         // called with the pixel count of each finished band; must be goroutine safe
	Workers        int
	BandHeight     int
	MaxWidth       int // downscale limit applied by ProcessFile; 0 = unbounded
	MaxHeight      int
	PNGCompression png.CompressionLevel
}

// Runner applies effects to images using a band worker pool.
// It is safe for concurrent use.
type Runner struct {
	logger *slog.Logger
	opts   Options
}

// NewRunner creates a runner.
func NewRunner(opts Options, logger *slog.Logger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.BandHeight <= 0 {
		opts.BandHeight = worker.DefaultBandHeight
	}
	return &Runner{opts: opts, logger: logger}
}

// Apply runs eff over every pixel of src and returns the result.
//
// The effect is prepared once, then its kernel is dispatched over horizontal
// bands. Any band failure, including cancellation, fails the whole call.
func (r *Runner) Apply(ctx context.Context, src image.Image, eff effect.Effect) (*image.NRGBA, error) {
	in := toNRGBA(src)

	kernel, err := eff.Prepare(in)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare effect %s: %w", eff.Name(), err)
	}

	bounds := in.Bounds()
	out := image.NewNRGBA(bounds)

	pool := worker.New(worker.Config{
		Workers: r.opts.Workers,
		Processor: worker.ProcessorFunc(func(_ context.Context, band image.Rectangle) error {
			applyBand(in, out, band, kernel)
			if r.opts.Pixels != nil {
				r.opts.Pixels(band.Dx() * band.Dy())
			}
			return nil
		}),
		OnProgress: r.opts.Progress,
	})

	start := time.Now()
	tasks := worker.Bands(bounds, r.opts.BandHeight)
	results := pool.Run(ctx, tasks)
	if err := worker.FirstError(results); err != nil {
		return nil, fmt.Errorf("failed to apply effect %s: %w", eff.Name(), err)
	}

	r.log().Debug("Applied effect",
		"effect", eff.Name(),
		"size", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"bands", len(tasks),
		"ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// applyBand runs kernel over the pixels of in inside band, writing to out.
func applyBand(in, out *image.NRGBA, band image.Rectangle, kernel effect.Kernel) {
	for y := band.Min.Y; y < band.Max.Y; y++ {
		for x := band.Min.X; x < band.Max.X; x++ {
			out.SetNRGBA(x, y, kernel(in.NRGBAAt(x, y)))
		}
	}
}

// ProcessFile loads inPath, applies eff and writes the result.
//
// The result is saved to outPath when it is not empty (format picked from the
// extension) and handed to the configured ResultWriter as PNG. An existing
// outPath is left alone unless force is set; the ResultWriter still gets the
// result. Returns the output path.
func (r *Runner) ProcessFile(ctx context.Context, inPath, outPath string, eff effect.Effect, force bool) (string, error) {
	if outPath == "" && r.opts.ResultWriter == nil {
		return "", errors.New("no output: set an output path or a result writer")
	}

	writeFile := outPath != ""
	if writeFile && !force {
		if _, err := os.Stat(outPath); err == nil {
			r.log().Info("Output already exists; skipping", "input", inPath, "path", outPath)
			if r.opts.ResultWriter == nil {
				return outPath, nil
			}
			writeFile = false
		}
	}

	src, err := imageio.Load(inPath)
	if err != nil {
		return "", err
	}
	src = imageio.Downscale(src, r.opts.MaxWidth, r.opts.MaxHeight)

	r.log().Info("Applying effect", "input", inPath, "effect", eff.Name())
	result, err := r.Apply(ctx, src, eff)
	if err != nil {
		return "", err
	}

	if writeFile {
		if err := imageio.Save(outPath, result, r.opts.PNGCompression); err != nil {
			return "", err
		}
		r.log().Info("Wrote output", "path", outPath)
	}

	if r.opts.ResultWriter != nil {
		var buf bytes.Buffer
		if err := imageio.Encode(&buf, result, imageio.FormatPNG, r.opts.PNGCompression); err != nil {
			return "", fmt.Errorf("failed to encode result: %w", err)
		}
		entry := archive.Entry{
			Key: archive.Key{
				Source: filepath.Base(inPath),
				Effect: eff.Name(),
				Params: registry.ParamString(eff),
			},
			Format: string(imageio.FormatPNG),
			Data:   buf.Bytes(),
		}
		if err := r.opts.ResultWriter.WriteResult(entry); err != nil {
			return "", fmt.Errorf("failed to store result: %w", err)
		}
	}

	return outPath, nil
}

// CollectImages returns the supported image files directly inside dir, sorted.
func CollectImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input dir: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !imageio.IsSupported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
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

func (r *Runner) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return slog.Default()
}
