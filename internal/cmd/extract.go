package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/colorfx/internal/archive"
	"github.com/MeKo-Tech/colorfx/internal/imageio"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "List or extract results from a result archive",
	Long:  `List the results stored in a result archive, or write them out as image files.`,
	RunE:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().String("input-file", "", "Archive path (required)")
	extractCmd.Flags().String("output-dir", "", "Directory to write results to (empty lists them)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"extract.input_file", "input-file"},
		{"extract.output_dir", "output-dir"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, extractCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputFile := viper.GetString("extract.input_file")
	outputDir := viper.GetString("extract.output_dir")

	if logger == nil {
		initLogging()
	}

	if inputFile == "" {
		return fmt.Errorf("--input-file is required")
	}

	reader, err := archive.OpenReader(inputFile)
	if err != nil {
		return err
	}
	defer reader.Close()

	meta, err := reader.Metadata()
	if err != nil {
		return err
	}
	keys, err := reader.List()
	if err != nil {
		return err
	}

	logger.Info("Opened archive",
		"path", inputFile,
		"name", meta.Name,
		"generator", meta.Generator,
		"results", len(keys),
	)

	if outputDir == "" {
		for _, k := range keys {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", k.Source, k.Effect, k.Params); err != nil {
				return err
			}
		}
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	for i, k := range keys {
		data, format, err := reader.ReadResult(k)
		if err != nil {
			return err
		}

		path := filepath.Join(outputDir, resultFileName(k, format))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		if (i+1)%100 == 0 {
			logger.Info("Progress", "extracted", i+1, "total", len(keys))
		}
	}

	logger.Info("Extraction complete", "output_dir", outputDir, "results", len(keys))
	return nil
}

// resultFileName names an extracted result after its key, for example
// "photo_keep_hue-330_tolerance-20.png".
func resultFileName(k archive.Key, format string) string {
	base := strings.TrimSuffix(k.Source, filepath.Ext(k.Source))
	name := base + "_" + k.Effect
	if k.Params != "" {
		slug := strings.NewReplacer(" ", "_", "=", "-", "/", "-").Replace(k.Params)
		name += "_" + slug
	}

	ext := "png"
	if f, err := imageio.ParseFormat(format); err == nil && f == imageio.FormatJPEG {
		ext = "jpg"
	}
	return name + "." + ext
}
