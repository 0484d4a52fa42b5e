package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorfx/internal/imageio"
	"github.com/MeKo-Tech/colorfx/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the effects over HTTP",
	Long: `Serve the effects over HTTP.

POST an image to /v1/effects/{name} with the effect parameters in the query
string (hue, hue-color, tolerance, r, g, b, channel, max-width, max-height,
format) and receive the processed image.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().Int("max-concurrent", runtime.NumCPU(), "Max images processed at once")
	serveCmd.Flags().Int64("max-body-mb", 32, "Max upload size in megabytes")
	serveCmd.Flags().Duration("timeout", time.Minute, "Timeout per image")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for results")
	serveCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.max_concurrent", "max-concurrent")
	mustBind("serve.max_body_mb", "max-body-mb")
	mustBind("serve.timeout", "timeout")
	mustBind("serve.cache_control", "cache-control")
	mustBind("serve.png_compression", "png-compression")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	maxConc := viper.GetInt("serve.max_concurrent")
	maxBodyMB := viper.GetInt64("serve.max_body_mb")
	timeout := viper.GetDuration("serve.timeout")
	cacheControl := viper.GetString("serve.cache_control")

	compression, err := imageio.ParsePNGCompression(viper.GetString("serve.png_compression"))
	if err != nil {
		return err
	}
	if maxBodyMB <= 0 {
		return fmt.Errorf("max-body-mb must be positive")
	}

	s := server.New(server.Config{
		MaxBodyBytes:   maxBodyMB << 20,
		MaxConcurrent:  maxConc,
		Workers:        viper.GetInt("workers"),
		BandHeight:     viper.GetInt("band_height"),
		Timeout:        timeout,
		CacheControl:   cacheControl,
		PNGCompression: compression,
	}, logger)

	logger.Info("effects server listening",
		"addr", addr,
		"max_concurrent", maxConc,
		"max_body_mb", maxBodyMB,
		"workers", viper.GetInt("workers"),
	)

	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
