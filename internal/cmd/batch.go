package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorfx/internal/archive"
	"github.com/MeKo-Tech/colorfx/internal/pipeline"
	"github.com/MeKo-Tech/colorfx/internal/registry"
	"github.com/MeKo-Tech/colorfx/internal/worker"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Apply an effect to every image in a directory",
	Long: `Apply a color effect to every supported image directly inside a directory.

Results go to an output folder ({name}_{effect}.{ext}) or, with
--format=sqlite, into a result archive database.`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("input-dir", ".", "Directory containing input images")
	batchCmd.Flags().String("output-dir", "./out", "Output directory for folder format")
	batchCmd.Flags().String("format", "folder", "Output format: folder or sqlite")
	batchCmd.Flags().String("output-file", "", "Archive path for sqlite format (e.g., results.db)")
	batchCmd.Flags().String("ext", "png", "Output extension for folder format: png or jpg")
	batchCmd.Flags().Bool("force", false, "Reprocess images whose output exists")
	batchCmd.Flags().Bool("progress", true, "Show progress bar")
	batchCmd.Flags().Bool("allow-failures", false, "Continue and exit successfully even if some images fail")
	addEffectFlags(batchCmd, "batch")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"batch.input_dir", "input-dir"},
		{"batch.output_dir", "output-dir"},
		{"batch.format", "format"},
		{"batch.output_file", "output-file"},
		{"batch.ext", "ext"},
		{"batch.force", "force"},
		{"batch.progress", "progress"},
		{"batch.allow_failures", "allow-failures"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, batchCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runBatch(cmd *cobra.Command, args []string) error {
	inputDir := viper.GetString("batch.input_dir")
	outputDir := viper.GetString("batch.output_dir")
	format := viper.GetString("batch.format")
	outputFile := viper.GetString("batch.output_file")
	ext := viper.GetString("batch.ext")
	force := viper.GetBool("batch.force")
	showProgress := viper.GetBool("batch.progress")
	allowFailures := viper.GetBool("batch.allow_failures")

	if logger == nil {
		initLogging()
	}

	if format != "folder" && format != "sqlite" {
		return fmt.Errorf("invalid format %q: must be 'folder' or 'sqlite'", format)
	}
	if format == "sqlite" && outputFile == "" {
		return fmt.Errorf("--output-file is required when using --format=sqlite")
	}

	eff, err := effectFromConfig("batch")
	if err != nil {
		return err
	}
	opts, err := runnerFromConfig("batch")
	if err != nil {
		return err
	}

	inputs, err := pipeline.CollectImages(inputDir)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		logger.Warn("No supported images found", "input_dir", inputDir)
		return nil
	}

	var archiveWriter *archive.Writer
	if format == "sqlite" {
		archiveWriter, err = archive.New(outputFile, archive.Metadata{
			Name:        "colorfx results",
			Description: fmt.Sprintf("%s applied to %s", eff.Name(), inputDir),
			Version:     "1.0",
			Generator:   "colorfx",
			Count:       len(inputs),
		})
		if err != nil {
			return fmt.Errorf("failed to create archive writer: %w", err)
		}
		defer archiveWriter.Close()
		opts.ResultWriter = archiveWriter
	}

	logger.Info("Starting batch",
		"input_dir", inputDir,
		"images", len(inputs),
		"effect", eff.Name(),
		"params", registry.ParamString(eff),
		"format", format,
		"workers", opts.Workers,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := worker.NewProgress(len(inputs), "images", showProgress)
	opts.Pixels = progress.AddPixels
	runner := pipeline.NewRunner(opts, logger)

	var failed int
	for i, in := range inputs {
		if ctx.Err() != nil {
			logger.Info("Interrupted, stopping batch")
			break
		}

		out := ""
		if format == "folder" {
			out = outputPath(outputDir, in, eff.Name(), ext)
		}

		if _, err := runner.ProcessFile(ctx, in, out, eff, force); err != nil {
			failed++
			logger.Error("Image failed", "input", in, "error", err)
		}
		progress.Update(i+1, len(inputs), failed)
	}
	progress.Done()
	logger.Info(progress.Summary())

	if archiveWriter != nil {
		logger.Info("Flushing archive...")
		if err := archiveWriter.Flush(); err != nil {
			return fmt.Errorf("failed to flush archive: %w", err)
		}
		logger.Info("Archive written", "path", outputFile)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	if failed > 0 {
		if allowFailures {
			logger.Warn("Some images failed, but continuing due to --allow-failures flag", "failed_count", failed)
			return nil
		}
		return fmt.Errorf("%d images failed", failed)
	}
	return nil
}
