// internal/logging/logger.go - zap logger construction from configuration
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"geojson-planet/internal/config"
)

// encodings maps configured formats onto zap encoders
var encodings = map[string]string{
	"text": "console",
	"json": "json",
}

// NewConfig returns the zap configuration described by cfg
func NewConfig(cfg config.LoggingConfig) (zap.Config, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zap.Config{}, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encoding, ok := encodings[strings.ToLower(cfg.Format)]
	if !ok {
		return zap.Config{}, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	output := strings.ToLower(cfg.Output)
	if output == "" {
		output = "stderr"
	}

	return zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Encoding:          encoding,
		DisableStacktrace: level > zapcore.DebugLevel,
		OutputPaths:       []string{output},
		ErrorOutputPaths:  []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "msg",
			LevelKey:       "level",
			TimeKey:        "ts",
			NameKey:        "name",
			CallerKey:      "caller",
			StacktraceKey:  "stacktrace",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
	}, nil
}

// New builds a logger from cfg
func New(cfg config.LoggingConfig, opts ...zap.Option) (*zap.Logger, error) {
	zc, err := NewConfig(cfg)
	if err != nil {
		return nil, err
	}
	return zc.Build(opts...)
}
