// internal/types_test.go - Unit tests for shared types
package internal

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapsCause(t *testing.T) {
	err := NewError(ErrorCodeNotFound, "input not found: a.geojson", fs.ErrNotExist)
	assert.Equal(t, "input not found: a.geojson: file does not exist", err.Error())
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	var appErr *Error
	assert.True(t, errors.As(error(err), &appErr))
	assert.Equal(t, ErrorCodeNotFound, appErr.Code)

	assert.Equal(t, "bad", NewError(ErrorCodeValidation, "bad", nil).Error())
}

func TestRunStatsAdd(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var total RunStats
	total.Add(RunStats{Files: 1, Features: 3, Markers: 1, Points: 2, Polylines: 4, StartTime: t0.Add(time.Second), EndTime: t0.Add(2 * time.Second)})
	total.Add(RunStats{Files: 1, Failed: 1, Polylines: 1, Vertices: 10, Skipped: 1, StartTime: t0, EndTime: t0.Add(time.Second)})

	assert.Equal(t, 2, total.Files)
	assert.Equal(t, 1, total.Failed)
	assert.Equal(t, 3, total.Features)
	assert.Equal(t, 1, total.Skipped)
	assert.Equal(t, 1, total.Markers)
	assert.Equal(t, 2, total.Points)
	assert.Equal(t, 5, total.Polylines)
	assert.Equal(t, 10, total.Vertices)
	assert.Equal(t, 2*time.Second, total.Duration())
}
