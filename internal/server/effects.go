// Package server exposes the effects over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/MeKo-Tech/colorfx/internal/effect"
	"github.com/MeKo-Tech/colorfx/internal/imageio"
	"github.com/MeKo-Tech/colorfx/internal/pipeline"
	"github.com/MeKo-Tech/colorfx/internal/registry"
)

// Config configures the effects server.
type Config struct {
	CacheControl   string
	MaxBodyBytes   int64
	MaxConcurrent  int
	Workers        int
	BandHeight     int
	Timeout        time.Duration
	PNGCompression png.CompressionLevel
}

// Server applies effects to uploaded images.
type Server struct {
	runner *pipeline.Runner
	logger *slog.Logger
	sem    chan struct{}
	cfg    Config

	active    atomic.Int32
	processed atomic.Int64
	failed    atomic.Int64
	rejected  atomic.Int64
}

// Status reports request counters.
type Status struct {
	Active        int   `json:"active"`
	Processed     int64 `json:"processed"`
	Failed        int64 `json:"failed"`
	Rejected      int64 `json:"rejected"`
	MaxConcurrent int   `json:"max_concurrent"`
}

// New creates a server. Zero config fields get defaults.
func New(cfg Config, logger *slog.Logger) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 32 << 20
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}

	return &Server{
		runner: pipeline.NewRunner(pipeline.Options{
			Workers:        cfg.Workers,
			BandHeight:     cfg.BandHeight,
			PNGCompression: cfg.PNGCompression,
		}, logger),
		logger: logger,
		sem:    make(chan struct{}, cfg.MaxConcurrent),
		cfg:    cfg,
	}
}

// Handler returns the routes of the server wrapped with CORS headers.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /v1/effects", s.listEffects)
	mux.HandleFunc("GET /v1/status", s.status)
	mux.HandleFunc("POST /v1/effects/{name}", s.applyEffect)
	return withCORS(mux)
}

// Status returns the current request counters.
func (s *Server) Status() Status {
	return Status{
		Active:        int(s.active.Load()),
		Processed:     s.processed.Load(),
		Failed:        s.failed.Load(),
		Rejected:      s.rejected.Load(),
		MaxConcurrent: s.cfg.MaxConcurrent,
	}
}

func (s *Server) listEffects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.log(), map[string][]string{"effects": registry.EffectNames()})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, s.log(), s.Status())
}

func (s *Server) applyEffect(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	req, err := parseRequest(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	eff, err := registry.NewEffect(name, req.options)
	if errors.Is(err, registry.ErrUnknownEffect) {
		http.Error(w, fmt.Sprintf("unknown effect: %s", name), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// the slot covers reading and decoding the upload as well as the effect
	select {
	case s.sem <- struct{}{}:
		defer func() { <-s.sem }()
	case <-r.Context().Done():
		s.rejected.Add(1)
		http.Error(w, "server busy", http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, fmt.Sprintf("image larger than %d bytes", s.cfg.MaxBodyBytes), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, fmt.Sprintf("failed to read body: %v", err), http.StatusBadRequest)
		return
	}

	src, err := imageio.Decode(bytes.NewReader(body))
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to decode image: %v", err), http.StatusBadRequest)
		return
	}
	src = imageio.Downscale(src, req.maxWidth, req.maxHeight)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Timeout)
	defer cancel()

	s.active.Add(1)
	start := time.Now()
	out, err := s.runner.Apply(ctx, src, eff)
	s.active.Add(-1)

	if err != nil {
		s.failed.Add(1)
		s.log().Error("failed to apply effect", "effect", name, "error", err)
		http.Error(w, fmt.Sprintf("failed to apply effect %s: %v", name, err), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, out, req.format, s.cfg.PNGCompression); err != nil {
		s.failed.Add(1)
		s.log().Error("failed to encode result", "effect", name, "error", err)
		http.Error(w, "failed to encode result", http.StatusInternalServerError)
		return
	}
	s.processed.Add(1)

	s.log().Info("effect applied",
		"effect", name,
		"params", registry.ParamString(eff),
		"size", fmt.Sprintf("%dx%d", out.Bounds().Dx(), out.Bounds().Dy()),
		"ms", time.Since(start).Milliseconds(),
	)

	w.Header().Set("Content-Type", req.format.ContentType())
	w.Header().Set("Cache-Control", s.cfg.CacheControl)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log().Error("failed to write response", "error", err)
	}
}

type effectRequest struct {
	format    imageio.Format
	options   registry.EffectOptions
	maxWidth  int
	maxHeight int
}

// parseRequest reads effect parameters from the query string.
// When any of r, g, b is given the missing weights are zero.
func parseRequest(q url.Values) (effectRequest, error) {
	var req effectRequest
	var err error

	if req.options.Hue, err = floatParam(q, "hue"); err != nil {
		return req, err
	}
	if req.options.Tolerance, err = floatParam(q, "tolerance"); err != nil {
		return req, err
	}
	req.options.HueColor = q.Get("hue-color")
	req.options.Channel = q.Get("channel")

	if q.Has("r") || q.Has("g") || q.Has("b") {
		var w effect.Weights
		if w.R, err = floatParam(q, "r"); err != nil {
			return req, err
		}
		if w.G, err = floatParam(q, "g"); err != nil {
			return req, err
		}
		if w.B, err = floatParam(q, "b"); err != nil {
			return req, err
		}
		req.options.Weights = w
	}

	if req.maxWidth, err = intParam(q, "max-width"); err != nil {
		return req, err
	}
	if req.maxHeight, err = intParam(q, "max-height"); err != nil {
		return req, err
	}

	if req.format, err = imageio.ParseFormat(q.Get("format")); err != nil {
		return req, err
	}

	return req, nil
}

func floatParam(q url.Values, key string) (float64, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return f, nil
}

func intParam(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, v)
	}
	return i, nil
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode json", "error", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
