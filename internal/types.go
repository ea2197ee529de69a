// internal/types.go - Common types for internal packages
package internal

import (
	"time"
)

// InputFormat names how an input file is decoded
type InputFormat string

const (
	InputFormatAuto    InputFormat = "auto"
	InputFormatGeoJSON InputFormat = "geojson"
	InputFormatMVT     InputFormat = "mvt"
)

// RunStats summarises one projection run
type RunStats struct {
	Files     int
	Failed    int
	Features  int
	Skipped   int
	Markers   int
	Points    int
	Polylines int
	Vertices  int
	StartTime time.Time
	EndTime   time.Time
}

// Add folds other into s. Time bounds widen to cover both.
func (s *RunStats) Add(other RunStats) {
	s.Files += other.Files
	s.Failed += other.Failed
	s.Features += other.Features
	s.Skipped += other.Skipped
	s.Markers += other.Markers
	s.Points += other.Points
	s.Polylines += other.Polylines
	s.Vertices += other.Vertices
	if s.StartTime.IsZero() || (!other.StartTime.IsZero() && other.StartTime.Before(s.StartTime)) {
		s.StartTime = other.StartTime
	}
	if other.EndTime.After(s.EndTime) {
		s.EndTime = other.EndTime
	}
}

// Duration returns the wall time covered by the stats
func (s *RunStats) Duration() time.Duration {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Error represents application-specific errors
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new application error
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode constants for common error types
const (
	ErrorCodeProcessing = "PROCESSING_ERROR"
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeConfig     = "CONFIG_ERROR"
	ErrorCodeNotFound   = "NOT_FOUND"
	ErrorCodeFileSystem = "FILESYSTEM_ERROR"
	ErrorCodeDecode     = "DECODE_ERROR"
)
