// internal/batch/processor_test.go - Unit tests for batch processing
package batch

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geojson-planet/internal"
	"geojson-planet/internal/config"
	"geojson-planet/internal/source"
	"geojson-planet/pkg/mvt"
	"geojson-planet/pkg/planet"
	"geojson-planet/pkg/style"
)

type recordingReporter struct {
	mu    sync.Mutex
	files []string
	total *internal.RunStats
}

func (r *recordingReporter) ReportFileComplete(result *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, result.Path)
}

func (r *recordingReporter) ReportJobComplete(stats internal.RunStats) {
	r.total = &stats
}

func featureFile(n int) []byte {
	return []byte(fmt.Sprintf(`{"type": "FeatureCollection", "features": [
		{"type": "Feature", "geometry": {"type": "LineString", "coordinates": [[0, 0], [%d, 0]]}},
		{"type": "Feature", "geometry": {"type": "Point", "coordinates": [%d, 10]}},
		{"type": "Feature", "geometry": {"type": "Point"}}
	]}`, n, n))
}

func newTestProcessor(t *testing.T, fsys afero.Fs, cfg config.BatchConfig, reporter ProgressReporter) *Processor {
	t.Helper()
	loader := source.NewLoader(fsys, config.InputConfig{Format: "auto"}, mvt.ConversionOptions{}, nil)
	subs := []style.Substitution{{style.KindLineString: {style.AttrColor: "0xff0000"}}}
	return NewProcessor(loader, planet.Options{AxisTilt: 10, DMin: 5}, subs, cfg, reporter, nil)
}

func TestProcessFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "a.geojson", featureFile(20), 0o644))
	p := newTestProcessor(t, fsys, config.BatchConfig{Concurrency: 1}, nil)

	doc, err := p.ProcessFile(context.Background(), "a.geojson")
	require.NoError(t, err)
	assert.Equal(t, "a.geojson", doc.Source)
	assert.Equal(t, 3, doc.Stats.Features)
	assert.Equal(t, 1, doc.Stats.Skipped)
	assert.Equal(t, 1, doc.Stats.Points)
	require.Len(t, doc.Scene.Polylines, 1)
	assert.Greater(t, doc.Stats.Vertices, 2)
	assert.Equal(t, uint32(0xff0000), doc.Scene.Polylines[0].Style[style.AttrColor])
}

func TestProcessFileCancelled(t *testing.T) {
	p := newTestProcessor(t, afero.NewMemMapFs(), config.BatchConfig{Concurrency: 1}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.ProcessFile(ctx, "a.geojson")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessKeepsOrderAndContinuesOnError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	var paths []string
	for i := 0; i < 8; i++ {
		path := fmt.Sprintf("in/%d.geojson", i)
		require.NoError(t, afero.WriteFile(fsys, path, featureFile(i+1), 0o644))
		paths = append(paths, path)
	}
	paths = append(paths, "in/missing.geojson")

	reporter := &recordingReporter{}
	p := newTestProcessor(t, fsys, config.BatchConfig{Concurrency: 3}, reporter)
	results, stats, err := p.Process(context.Background(), paths)
	require.NoError(t, err)

	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.Error(t, results[8].Error)
	assert.Len(t, Documents(results), 8)

	assert.Equal(t, 9, stats.Files)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 24, stats.Features)
	assert.Equal(t, 8, stats.Skipped)
	assert.Equal(t, 8, stats.Markers)
	assert.Equal(t, 8, stats.Points)
	assert.Equal(t, 8, stats.Polylines)

	assert.ElementsMatch(t, paths, reporter.files)
	require.NotNil(t, reporter.total)
	assert.Equal(t, 9, reporter.total.Files)
}

func TestProcessFailOnError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "ok.geojson", featureFile(1), 0o644))

	p := newTestProcessor(t, fsys, config.BatchConfig{Concurrency: 1, FailOnError: true}, nil)
	results, stats, err := p.Process(context.Background(), []string{"missing.geojson", "ok.geojson"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.geojson")
	require.Len(t, results, 2)
	assert.Error(t, results[0].Error)
	assert.GreaterOrEqual(t, stats.Failed, 1)
}
