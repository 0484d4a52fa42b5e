package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorfx/internal/testimage"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate sample images",
	Long:  "Generate a hue wheel and a low-contrast ramp for trying out the effects.",
	RunE:  runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().String("dir", "samples", "Output directory for generated images")
	sampleCmd.Flags().Int("size", 512, "Image size in pixels (square)")
	sampleCmd.Flags().Int64("seed", 1337, "Deterministic seed for the noise")
	sampleCmd.Flags().Bool("force", false, "Overwrite images that already exist")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"sample.dir", "dir"},
		{"sample.size", "size"},
		{"sample.seed", "seed"},
		{"sample.force", "force"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, sampleCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runSample(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	dir := viper.GetString("sample.dir")
	size := viper.GetInt("sample.size")
	seed := viper.GetInt64("sample.seed")
	force := viper.GetBool("sample.force")

	if size <= 0 {
		return fmt.Errorf("size must be positive")
	}

	result, err := testimage.Write(dir, size, seed, force)
	if err != nil {
		return err
	}

	logger.Info("Sample generation complete",
		"dir", dir,
		"written", len(result.Written),
		"skipped", len(result.Skipped),
	)
	return nil
}
