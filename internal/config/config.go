// internal/config/config.go - Configuration management
package config

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"geojson-planet/internal"
	"geojson-planet/pkg/mvt"
	"geojson-planet/pkg/planet"
	"geojson-planet/pkg/sphere"
	"geojson-planet/pkg/style"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "GEOJSON_PLANET"

// Config represents the complete application configuration
type Config struct {
	Globe        GlobeConfig        `mapstructure:"globe"`
	Tessellation TessellationConfig `mapstructure:"tessellation"`
	Styles       StylesConfig       `mapstructure:"styles"`
	Input        InputConfig        `mapstructure:"input"`
	Output       OutputConfig       `mapstructure:"output"`
	Batch        BatchConfig        `mapstructure:"batch"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// GlobeConfig describes the sphere everything is projected onto
type GlobeConfig struct {
	AxisTilt float64 `mapstructure:"axis_tilt"` // degrees
	Radius   float64 `mapstructure:"radius"`
	Spin     float64 `mapstructure:"spin"` // degrees
}

// TessellationConfig controls segment subdivision
type TessellationConfig struct {
	DMin         float64             `mapstructure:"d_min"` // degrees, 0 disables
	DistanceMode sphere.DistanceMode `mapstructure:"distance_mode"`
}

// StylesConfig holds the style layers that come from configuration. The maps
// stay loosely typed until Defaults and Substitutions validate them.
type StylesConfig struct {
	Defaults      map[string]any `mapstructure:"defaults"`
	Substitutions []any          `mapstructure:"substitutions"`
	Property      string         `mapstructure:"property"`
}

// InputConfig controls how input files are read
type InputConfig struct {
	Format     string   `mapstructure:"format"`
	Layers     []string `mapstructure:"layers"`
	Properties []string `mapstructure:"properties"`
	Tile       string   `mapstructure:"tile"` // z/x/y for tiles whose path does not carry it
	Simplify   float64  `mapstructure:"simplify"`
}

// OutputConfig contains output formatting configuration
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	File        string `mapstructure:"file"`
	Directory   string `mapstructure:"directory"`
	Compression bool   `mapstructure:"compression"`
	Pretty      bool   `mapstructure:"pretty"`
}

// BatchConfig contains batch processing configuration
type BatchConfig struct {
	Concurrency int  `mapstructure:"concurrency"`
	FailOnError bool `mapstructure:"fail_on_error"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load loads configuration from the global viper instance
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from v, filling in defaults first
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	err := v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		distanceModeHook(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, internal.NewError(internal.ErrorCodeConfig, "failed to unmarshal configuration", err)
	}

	if err := Validate(&config); err != nil {
		return nil, internal.NewError(internal.ErrorCodeValidation, "configuration validation failed", err)
	}

	return &config, nil
}

// distanceModeHook decodes mode names and the numeric selector into
// sphere.DistanceMode.
func distanceModeHook() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(sphere.DistanceMode(0))
	return func(_ reflect.Type, to reflect.Type, data any) (any, error) {
		if to != target {
			return data, nil
		}
		s, err := cast.ToStringE(data)
		if err != nil {
			return nil, fmt.Errorf("invalid distance_mode %v: %w", data, err)
		}
		return sphere.ParseDistanceMode(s)
	}
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Globe defaults
	v.SetDefault("globe.axis_tilt", 0.0)
	v.SetDefault("globe.radius", 1.0)
	v.SetDefault("globe.spin", 0.0)

	// Tessellation defaults
	v.SetDefault("tessellation.d_min", 0.0)
	v.SetDefault("tessellation.distance_mode", sphere.ModeMixed.String())

	// Style defaults
	v.SetDefault("styles.defaults", map[string]any{})
	v.SetDefault("styles.substitutions", []any{})
	v.SetDefault("styles.property", planet.DefaultStyleProperty)

	// Input defaults
	v.SetDefault("input.format", string(internal.InputFormatAuto))
	v.SetDefault("input.layers", []string{})
	v.SetDefault("input.properties", []string{})
	v.SetDefault("input.tile", "")
	v.SetDefault("input.simplify", 0.0)

	// Output defaults
	v.SetDefault("output.format", "json")
	v.SetDefault("output.file", "")
	v.SetDefault("output.directory", "")
	v.SetDefault("output.pretty", true)
	v.SetDefault("output.compression", false)

	// Batch defaults
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("batch.fail_on_error", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
}

// StyleDefaults returns the default style table with configured overrides
// applied over the built-in one.
func (c *Config) StyleDefaults() (style.Defaults, error) {
	return style.ParseDefaults(c.Styles.Defaults)
}

// Substitutions returns the validated draw-call substitution list. Malformed
// entries are logged and dropped.
func (c *Config) Substitutions(logger *zap.Logger) []style.Substitution {
	return style.ParseSubstitutions(c.Styles.Substitutions, logger)
}

// GlobeOptions builds the options for a planet.Globe
func (c *Config) GlobeOptions(logger *zap.Logger) (planet.Options, error) {
	defaults, err := c.StyleDefaults()
	if err != nil {
		return planet.Options{}, err
	}
	return planet.Options{
		AxisTilt:      c.Globe.AxisTilt,
		Radius:        c.Globe.Radius,
		Spin:          c.Globe.Spin,
		DMin:          c.Tessellation.DMin,
		DistanceMode:  c.Tessellation.DistanceMode,
		Defaults:      defaults,
		StyleProperty: c.Styles.Property,
		Logger:        logger,
	}, nil
}

// ConversionOptions builds the vector tile conversion options
func (c *Config) ConversionOptions() mvt.ConversionOptions {
	return mvt.ConversionOptions{
		LayerFilter:    c.Input.Layers,
		PropertyFilter: c.Input.Properties,
	}
}
