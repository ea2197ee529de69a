// internal/batch/types.go - Batch processing types
package batch

import (
	"time"

	"go.uber.org/zap"

	"geojson-planet/internal"
	"geojson-planet/internal/output"
)

// Result is the outcome of rendering one input file
type Result struct {
	Path     string
	Document *output.Document
	Duration time.Duration
	Error    error
}

// Stats converts the result into run counters
func (r *Result) Stats() internal.RunStats {
	s := internal.RunStats{Files: 1}
	if r.Error != nil {
		s.Failed = 1
		return s
	}
	if r.Document != nil {
		s.Features = r.Document.Stats.Features
		s.Skipped = r.Document.Stats.Skipped
		s.Markers = r.Document.Stats.Markers
		s.Points = r.Document.Stats.Points
		s.Polylines = r.Document.Stats.Polylines
		s.Vertices = r.Document.Stats.Vertices
	}
	return s
}

// ProgressReporter receives a callback per finished file. Calls may come
// from several goroutines at once.
type ProgressReporter interface {
	ReportFileComplete(result *Result)
	ReportJobComplete(stats internal.RunStats)
}

// LogReporter reports progress through a zap logger
type LogReporter struct {
	logger *zap.Logger
}

// NewLogReporter creates a reporter that logs to logger
func NewLogReporter(logger *zap.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// ReportFileComplete logs one finished file
func (r *LogReporter) ReportFileComplete(result *Result) {
	if result.Error != nil {
		r.logger.Warn("failed to process file",
			zap.String("file", result.Path),
			zap.Error(result.Error))
		return
	}
	stats := result.Document.Stats
	r.logger.Info("processed file",
		zap.String("file", result.Path),
		zap.Int("features", stats.Features),
		zap.Int("skipped", stats.Skipped),
		zap.Int("points", stats.Points),
		zap.Int("polylines", stats.Polylines),
		zap.Int("vertices", stats.Vertices),
		zap.Duration("duration", result.Duration))
}

// ReportJobComplete logs the run totals
func (r *LogReporter) ReportJobComplete(stats internal.RunStats) {
	r.logger.Info("batch complete",
		zap.Int("files", stats.Files),
		zap.Int("failed", stats.Failed),
		zap.Int("features", stats.Features),
		zap.Int("skipped", stats.Skipped),
		zap.Int("markers", stats.Markers),
		zap.Int("points", stats.Points),
		zap.Int("polylines", stats.Polylines),
		zap.Int("vertices", stats.Vertices),
		zap.Duration("duration", stats.Duration()))
}
