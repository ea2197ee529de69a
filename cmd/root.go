// cmd/root.go - Root command implementation
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"geojson-planet/internal/config"
	"geojson-planet/internal/logging"
	"geojson-planet/internal/output"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "geojson-planet",
	Short: "Project GeoJSON and vector tile data onto a tilted globe",
	Long: `geojson-planet projects geographic vector data onto an axis-tilted unit sphere
and records the resulting markers and polylines, with their resolved styles,
as a scene document ready for a 3D renderer.

Inputs:
- GeoJSON files (FeatureCollection, Feature or bare geometry), optionally gzipped
- Mapbox Vector Tiles stored as z/x/y.mvt, optionally gzipped

Features:
- Configurable axis tilt, globe radius and spin
- Adaptive tessellation of long segments with selectable distance metrics
- Layered styles: per-kind defaults, draw-call substitutions, per-feature overrides
- JSON, YAML and 3D GeoJSON scene output
- Concurrent batch processing of whole directories

Examples:
  # Project a file with a 23.5 degree axis tilt
  geojson-planet project world.geojson --axis-tilt 23.5 --output world.json

  # Tessellate segments longer than 2 degrees using the exact arc metric
  geojson-planet project routes.geojson --d-min 2 --distance-mode arc

  # Project a vector tile, keeping only the roads layer, as YAML
  geojson-planet project tiles/14/8362/5956.mvt --layers roads --format yaml

  # Batch process a directory into one scene per input
  geojson-planet batch data/ --output-dir scenes/ --concurrency 8

  # Compare the distance metrics between two points
  geojson-planet distance 0,0 10,5 --d-min 5`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()

	// Global flags
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.geojson-planet.yaml)")

	// Globe flags
	flags.Float64("axis-tilt", 0, "polar axis tilt in degrees")
	flags.Float64("radius", 1, "globe radius")
	flags.Float64("spin", 0, "rotation about the polar axis in degrees")

	// Tessellation flags
	flags.Float64("d-min", 0, "maximum segment length in degrees before tessellation (0 disables)")
	flags.String("distance-mode", "mixed", "distance metric (mixed, max, chord, arc)")

	// Style flags
	flags.String("style-property", "threeJSOpts", "feature property holding style overrides")

	// Input flags
	flags.String("input-format", "auto", "input format (auto, geojson, mvt)")
	flags.StringSlice("layers", nil, "vector tile layers to include (default all)")
	flags.String("tile", "", "tile coordinates z/x/y for tiles whose path does not carry them")
	flags.Float64("simplify", 0, "Douglas-Peucker threshold in degrees applied before projection (0 disables)")

	// Output flags
	flags.StringP("format", "f", "json", "output format (json, yaml, geojson)")
	flags.Bool("pretty", true, "pretty print output")
	flags.Bool("compression", false, "gzip output files")

	// Processing flags
	flags.Int("concurrency", 4, "number of files processed concurrently")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "text", "log format (text, json)")

	// Bind flags to viper
	bindings := map[string]string{
		"globe.axis_tilt":            "axis-tilt",
		"globe.radius":               "radius",
		"globe.spin":                 "spin",
		"tessellation.d_min":         "d-min",
		"tessellation.distance_mode": "distance-mode",
		"styles.property":            "style-property",
		"input.format":               "input-format",
		"input.layers":               "layers",
		"input.tile":                 "tile",
		"input.simplify":             "simplify",
		"output.format":              "format",
		"output.pretty":              "pretty",
		"output.compression":         "compression",
		"batch.concurrency":          "concurrency",
		"logging.level":              "log-level",
		"logging.format":             "log-format",
	}
	cobra.CheckErr(bindFlags(viper.GetViper(), flags, bindings))
}

// bindFlags binds each named flag to its configuration key
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("unknown flag %q for key %s", name, key)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".geojson-planet")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Failed to read config file:", err)
			os.Exit(1)
		}
	}
}

// environment bundles what every subcommand needs
type environment struct {
	config *config.Config
	logger *zap.Logger
	fs     afero.Fs
}

// setup loads configuration and builds the logger
func setup() (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("file", used))
	}

	return &environment{
		config: cfg,
		logger: logger,
		fs:     afero.NewOsFs(),
	}, nil
}

// writerConfig builds the output writer configuration, rejecting unknown
// formats before any input is read.
func (e *environment) writerConfig() (*output.WriterConfig, error) {
	format, err := output.ParseFormat(e.config.Output.Format)
	if err != nil {
		return nil, err
	}
	return &output.WriterConfig{
		Format:      format,
		Pretty:      e.config.Output.Pretty,
		Compression: e.config.Output.Compression,
	}, nil
}
