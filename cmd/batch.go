// cmd/batch.go - Batch processing command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"geojson-planet/internal/batch"
	"geojson-planet/internal/output"
	"geojson-planet/internal/source"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <path>...",
	Short: "Project many files concurrently",
	Long: `Project every input file found under the given paths. Directories are scanned
recursively for .geojson, .json, .mvt and .pbf files (optionally gzipped).

Each file is rendered onto its own globe. Results go either to one scene file
per input under --output-dir, or into a single combined document with --output.

Examples:
  # One scene per input file
  geojson-planet batch data/ --output-dir scenes/

  # A single combined GeoJSON document on stdout
  geojson-planet batch a.geojson b.geojson --format geojson

  # Stop at the first failing file
  geojson-planet batch tiles/ --output-dir out/ --fail-on-error`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().String("output-dir", "", "write one scene per input into this directory")
	batchCmd.Flags().StringP("output", "o", "", "write a combined document to this file (default: stdout)")
	batchCmd.Flags().Bool("fail-on-error", false, "stop processing on first error")

	batchCmd.MarkFlagsMutuallyExclusive("output-dir", "output")
}

func runBatch(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.logger.Sync() //nolint:errcheck

	cfg := env.config
	outputDir, _ := cmd.Flags().GetString("output-dir")
	outputFile, _ := cmd.Flags().GetString("output")
	if cmd.Flags().Changed("fail-on-error") {
		cfg.Batch.FailOnError, _ = cmd.Flags().GetBool("fail-on-error")
	}
	if outputDir == "" {
		outputDir = cfg.Output.Directory
	}
	writerConfig, err := env.writerConfig()
	if err != nil {
		return err
	}

	opts, err := cfg.GlobeOptions(env.logger)
	if err != nil {
		return fmt.Errorf("invalid style configuration: %w", err)
	}

	loader := source.NewLoader(env.fs, cfg.Input, cfg.ConversionOptions(), env.logger)
	files, err := loader.Discover(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no input files found")
	}

	reporter := batch.NewLogReporter(env.logger)
	processor := batch.NewProcessor(loader, opts, cfg.Substitutions(env.logger), cfg.Batch, reporter, env.logger)
	results, stats, err := processor.Process(cmd.Context(), files)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	destination, multiFile := outputFile, false
	if outputDir != "" {
		destination, multiFile = outputDir, true
	}

	writer, err := output.NewWriter(env.fs, writerConfig, destination, multiFile)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	if err := writer.WriteBatch(batch.Documents(results)); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	if stats.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", stats.Failed, stats.Files)
	}
	return nil
}
