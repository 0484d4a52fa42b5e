package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorfx/internal/pipeline"
	"github.com/MeKo-Tech/colorfx/internal/registry"
	"github.com/MeKo-Tech/colorfx/internal/worker"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply an effect to one image",
	Long: `Apply a color effect to a single image file.

The output format is chosen from the output extension (.png, .jpg, .jpeg).`,
	Example: `  colorfx apply -i photo.jpg -o photo_red.png -e keep --hue 0 --tolerance 20
  colorfx apply -i photo.jpg -o sepia.png -e hue --hue-color "#704214"`,
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringP("input", "i", "", "Input image path (required)")
	applyCmd.Flags().StringP("output", "o", "", "Output image path (required)")
	applyCmd.Flags().Bool("force", false, "Overwrite the output if it exists")
	applyCmd.Flags().Bool("progress", false, "Show band progress")
	addEffectFlags(applyCmd, "apply")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"apply.input", "input"},
		{"apply.output", "output"},
		{"apply.force", "force"},
		{"apply.progress", "progress"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, applyCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runApply(cmd *cobra.Command, args []string) error {
	input := viper.GetString("apply.input")
	output := viper.GetString("apply.output")
	force := viper.GetBool("apply.force")
	showProgress := viper.GetBool("apply.progress")

	if logger == nil {
		initLogging()
	}

	if input == "" || output == "" {
		return fmt.Errorf("--input and --output are required")
	}

	eff, err := effectFromConfig("apply")
	if err != nil {
		return err
	}
	opts, err := runnerFromConfig("apply")
	if err != nil {
		return err
	}

	var progress *worker.Progress
	if showProgress {
		progress = worker.NewProgress(0, "bands", true)
		opts.Progress = progress.Callback()
		opts.Pixels = progress.AddPixels
	}

	logger.Info("Applying effect",
		"input", input,
		"output", output,
		"effect", eff.Name(),
		"params", registry.ParamString(eff),
		"workers", opts.Workers,
		"band_height", opts.BandHeight,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(opts, logger)
	path, err := runner.ProcessFile(ctx, input, output, eff, force)
	if progress != nil {
		progress.Done()
		logger.Debug(progress.Summary())
	}
	if err != nil {
		return fmt.Errorf("failed to apply %s: %w", eff.Name(), err)
	}

	logger.Info("Effect applied", "path", path)
	return nil
}
