package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorfx/internal/effect"
	"github.com/MeKo-Tech/colorfx/internal/imageio"
	"github.com/MeKo-Tech/colorfx/internal/pipeline"
	"github.com/MeKo-Tech/colorfx/internal/registry"
)

// addEffectFlags registers the effect selection and parameter flags on cmd
// and binds them under prefix.
func addEffectFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().StringP("effect", "e", "gray", "Effect: "+strings.Join(registry.EffectNames(), ", "))
	cmd.Flags().Float64("hue", 0, "Target hue in degrees (hue, keep), or the shift angle (hue-shift)")
	cmd.Flags().String("hue-color", "", "Target hue as a hex color such as #3366ff (overrides --hue)")
	cmd.Flags().Float64("tolerance", 30, "Hue tolerance in degrees (keep)")
	cmd.Flags().Float64("r", 0, "Red weight (gray-weighted; all weights 0 = luma)")
	cmd.Flags().Float64("g", 0, "Green weight (gray-weighted)")
	cmd.Flags().Float64("b", 0, "Blue weight (gray-weighted)")
	cmd.Flags().String("channel", "luminance", "Histogram channel: luminance or gray (stretch, equalize)")
	cmd.Flags().Int("max-width", 0, "Downscale inputs wider than this (0 = no limit)")
	cmd.Flags().Int("max-height", 0, "Downscale inputs taller than this (0 = no limit)")
	cmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{prefix + ".effect", "effect"},
		{prefix + ".hue", "hue"},
		{prefix + ".hue_color", "hue-color"},
		{prefix + ".tolerance", "tolerance"},
		{prefix + ".r", "r"},
		{prefix + ".g", "g"},
		{prefix + ".b", "b"},
		{prefix + ".channel", "channel"},
		{prefix + ".max_width", "max-width"},
		{prefix + ".max_height", "max-height"},
		{prefix + ".png_compression", "png-compression"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, cmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

// effectFromConfig builds the effect selected under prefix.
func effectFromConfig(prefix string) (effect.Effect, error) {
	return registry.NewEffect(viper.GetString(prefix+".effect"), registry.EffectOptions{
		Hue:       viper.GetFloat64(prefix + ".hue"),
		HueColor:  viper.GetString(prefix + ".hue_color"),
		Tolerance: viper.GetFloat64(prefix + ".tolerance"),
		Weights: effect.Weights{
			R: viper.GetFloat64(prefix + ".r"),
			G: viper.GetFloat64(prefix + ".g"),
			B: viper.GetFloat64(prefix + ".b"),
		},
		Channel: viper.GetString(prefix + ".channel"),
	})
}

// runnerFromConfig builds runner options from the global and prefix settings.
func runnerFromConfig(prefix string) (pipeline.Options, error) {
	compression, err := imageio.ParsePNGCompression(viper.GetString(prefix + ".png_compression"))
	if err != nil {
		return pipeline.Options{}, err
	}

	maxWidth := viper.GetInt(prefix + ".max_width")
	maxHeight := viper.GetInt(prefix + ".max_height")
	if maxWidth < 0 || maxHeight < 0 {
		return pipeline.Options{}, fmt.Errorf("max-width and max-height must not be negative")
	}

	return pipeline.Options{
		Workers:        viper.GetInt("workers"),
		BandHeight:     viper.GetInt("band_height"),
		MaxWidth:       maxWidth,
		MaxHeight:      maxHeight,
		PNGCompression: compression,
	}, nil
}

// outputPath names the output of applying effectName to in: the input base
// name with the effect appended, inside dir, with extension ext.
func outputPath(dir, in, effectName, ext string) string {
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "png"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", base, effectName, ext))
}
