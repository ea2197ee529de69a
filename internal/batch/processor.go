// internal/batch/processor.go - Concurrent projection of input files
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"geojson-planet/internal"
	"geojson-planet/internal/config"
	"geojson-planet/internal/output"
	"geojson-planet/internal/source"
	"geojson-planet/pkg/planet"
	"geojson-planet/pkg/sphere"
	"geojson-planet/pkg/style"
)

// Processor loads input files and renders each onto its own globe
type Processor struct {
	loader        *source.Loader
	options       planet.Options
	substitutions []style.Substitution
	config        config.BatchConfig
	reporter      ProgressReporter
	logger        *zap.Logger
}

// NewProcessor creates a processor. The reporter may be nil.
func NewProcessor(loader *source.Loader, options planet.Options, subs []style.Substitution,
	cfg config.BatchConfig, reporter ProgressReporter, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Processor{
		loader:        loader,
		options:       options,
		substitutions: subs,
		config:        cfg,
		reporter:      reporter,
		logger:        logger,
	}
}

// ProcessFile renders a single input file. Every call builds its own globe
// and recorder, so calls may run concurrently.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*output.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fc, err := p.loader.Load(path)
	if err != nil {
		return nil, err
	}

	opts := p.options
	opts.Logger = p.logger.With(zap.String("file", path))
	recorder := planet.NewRecorder(sphere.NewAxis(opts.AxisTilt), opts.Logger)
	globe := planet.NewGlobe(recorder, opts)
	globe.DrawFeatureCollection(fc, p.substitutions)

	return output.NewDocument(path, fc, recorder.Scene()), nil
}

// Process renders every path with at most Concurrency files in flight.
// Results keep the order of paths. Unless FailOnError is set a failing file
// is recorded in its Result and the others carry on; with FailOnError the
// first failure cancels the remaining work and is returned.
func (p *Processor) Process(ctx context.Context, paths []string) ([]*Result, internal.RunStats, error) {
	results := make([]*Result, len(paths))
	stats := internal.RunStats{StartTime: time.Now()}

	workers := pool.New().
		WithMaxGoroutines(p.config.Concurrency).
		WithContext(ctx)
	if p.config.FailOnError {
		workers = workers.WithCancelOnError().WithFirstError()
	}

	for i, path := range paths {
		workers.Go(func(ctx context.Context) error {
			start := time.Now()
			doc, err := p.ProcessFile(ctx, path)
			res := &Result{Path: path, Document: doc, Duration: time.Since(start), Error: err}
			results[i] = res
			if p.reporter != nil {
				p.reporter.ReportFileComplete(res)
			}
			if err != nil && p.config.FailOnError {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	err := workers.Wait()

	for i, res := range results {
		if res == nil {
			res = &Result{Path: paths[i], Error: context.Canceled}
			results[i] = res
		}
		stats.Add(res.Stats())
	}
	stats.EndTime = time.Now()

	if p.reporter != nil {
		p.reporter.ReportJobComplete(stats)
	}
	return results, stats, err
}

// Documents returns the documents of all successful results in order
func Documents(results []*Result) []*output.Document {
	docs := make([]*output.Document, 0, len(results))
	for _, r := range results {
		if r.Error == nil && r.Document != nil {
			docs = append(docs, r.Document)
		}
	}
	return docs
}
