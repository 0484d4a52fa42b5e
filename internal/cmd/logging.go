package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"
)

var logger *slog.Logger

// initLogging builds the process logger from the verbose and log_format
// settings and installs it as the slog default.
func initLogging() {
	l, err := newLogger(os.Stderr, viper.GetString("log_format"), viper.GetBool("verbose"))
	if err != nil {
		l, _ = newLogger(os.Stderr, "text", viper.GetBool("verbose"))
		l.Warn("Falling back to text logs", "error", err)
	}
	logger = l
	slog.SetDefault(logger)
}

func newLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", format)
}
