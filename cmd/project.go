// cmd/project.go - Single file projection command
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geojson-planet/internal/batch"
	"geojson-planet/internal/output"
	"geojson-planet/internal/source"
)

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project <file>",
	Short: "Project a single GeoJSON or vector tile file onto the globe",
	Long: `Project a single GeoJSON document or Mapbox Vector Tile onto the tilted globe and
write the recorded scene.

Examples:
  # Project to stdout
  geojson-planet project world.geojson

  # Project with tessellation into a gzipped YAML file
  geojson-planet project world.geojson --d-min 1 --format yaml --output world.yaml --compression`,
	Args: cobra.ExactArgs(1),
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().StringP("output", "o", "", "output file path (default: stdout)")
}

func runProject(cmd *cobra.Command, args []string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	defer env.logger.Sync() //nolint:errcheck

	cfg := env.config
	outputPath, _ := cmd.Flags().GetString("output")
	writerConfig, err := env.writerConfig()
	if err != nil {
		return err
	}

	opts, err := cfg.GlobeOptions(env.logger)
	if err != nil {
		return fmt.Errorf("invalid style configuration: %w", err)
	}
	loader := source.NewLoader(env.fs, cfg.Input, cfg.ConversionOptions(), env.logger)
	processor := batch.NewProcessor(loader, opts, cfg.Substitutions(env.logger), cfg.Batch, nil, env.logger)

	doc, err := processor.ProcessFile(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to project %s: %w", args[0], err)
	}

	writer, err := output.NewWriter(env.fs, writerConfig, outputPath, false)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}

	if err := writer.Write(doc); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	env.logger.Info("projected file",
		zap.String("file", args[0]),
		zap.Int("features", doc.Stats.Features),
		zap.Int("skipped", doc.Stats.Skipped),
		zap.Int("points", doc.Stats.Points),
		zap.Int("polylines", doc.Stats.Polylines),
		zap.Int("vertices", doc.Stats.Vertices))
	return nil
}
