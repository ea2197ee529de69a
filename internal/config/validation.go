// internal/config/validation.go - Configuration validation
package config

import (
	"fmt"
	"math"
	"strings"

	"geojson-planet/internal"
	"geojson-planet/pkg/mvt"
	"geojson-planet/pkg/sphere"
	"geojson-planet/pkg/style"
)

// Validate validates the configuration structure and values
func Validate(config *Config) error {
	if err := validateGlobe(&config.Globe); err != nil {
		return fmt.Errorf("globe configuration invalid: %w", err)
	}

	if err := validateTessellation(&config.Tessellation); err != nil {
		return fmt.Errorf("tessellation configuration invalid: %w", err)
	}

	if err := validateStyles(&config.Styles); err != nil {
		return fmt.Errorf("styles configuration invalid: %w", err)
	}

	if err := validateInput(&config.Input); err != nil {
		return fmt.Errorf("input configuration invalid: %w", err)
	}

	if err := validateOutput(&config.Output); err != nil {
		return fmt.Errorf("output configuration invalid: %w", err)
	}

	if err := validateBatch(&config.Batch); err != nil {
		return fmt.Errorf("batch configuration invalid: %w", err)
	}

	if err := validateLogging(&config.Logging); err != nil {
		return fmt.Errorf("logging configuration invalid: %w", err)
	}

	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func validateGlobe(config *GlobeConfig) error {
	if !finite(config.AxisTilt) || math.Abs(config.AxisTilt) > 180 {
		return fmt.Errorf("axis_tilt must be between -180 and 180 degrees")
	}
	if !finite(config.Radius) || config.Radius <= 0 {
		return fmt.Errorf("radius must be positive")
	}
	if !finite(config.Spin) {
		return fmt.Errorf("spin must be finite")
	}
	return nil
}

func validateTessellation(config *TessellationConfig) error {
	if !finite(config.DMin) || config.DMin < 0 {
		return fmt.Errorf("d_min must be non-negative")
	}
	if config.DistanceMode < sphere.ModeMixed || config.DistanceMode > sphere.ModeExactArc {
		return fmt.Errorf("invalid distance_mode: %d", config.DistanceMode)
	}
	return nil
}

// validateStyles checks that the default table parses. Substitutions are
// checked entry by entry when they are used, bad entries only warn.
func validateStyles(config *StylesConfig) error {
	if _, err := style.ParseDefaults(config.Defaults); err != nil {
		return err
	}
	if strings.TrimSpace(config.Property) == "" {
		return fmt.Errorf("property cannot be empty")
	}
	return nil
}

func validateInput(config *InputConfig) error {
	validFormats := []string{
		string(internal.InputFormatAuto),
		string(internal.InputFormatGeoJSON),
		string(internal.InputFormatMVT),
	}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid format: %s, must be one of %v", config.Format, validFormats)
	}

	if !finite(config.Simplify) || config.Simplify < 0 {
		return fmt.Errorf("simplify must be non-negative")
	}

	if config.Tile != "" {
		if _, err := mvt.ParseTileID(config.Tile); err != nil {
			return fmt.Errorf("invalid tile: %w", err)
		}
	}
	return nil
}

func validateOutput(config *OutputConfig) error {
	validFormats := []string{"json", "yaml", "geojson"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid format: %s, must be one of %v", config.Format, validFormats)
	}
	return nil
}

// validateBatch validates batch processing configuration parameters
func validateBatch(config *BatchConfig) error {
	if config.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}

	if config.Concurrency > 1000 {
		return fmt.Errorf("concurrency must not exceed 1000")
	}

	return nil
}

// validateLogging validates logging configuration parameters
func validateLogging(config *LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, config.Level) {
		return fmt.Errorf("invalid log level: %s, must be one of %v", config.Level, validLevels)
	}

	validFormats := []string{"text", "json"}
	if !contains(validFormats, config.Format) {
		return fmt.Errorf("invalid log format: %s, must be one of %v", config.Format, validFormats)
	}

	validOutputs := []string{"stdout", "stderr"}
	if !contains(validOutputs, config.Output) {
		return fmt.Errorf("invalid log output: %s, must be one of %v", config.Output, validOutputs)
	}

	return nil
}

// contains checks if a string slice contains a specific string (case-insensitive)
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
