// Package pipeline orchestrates the fetch-decode-accumulate-assemble run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"merra2-wind-etl/internal/adapter/archive"
	"merra2-wind-etl/internal/adapter/merra2"
	"merra2-wind-etl/internal/domain"
	"merra2-wind-etl/internal/manifest"
	"merra2-wind-etl/internal/observability"
)

// Fetcher retrieves one source's binary payload to a local path.
type Fetcher interface {
	Fetch(ctx context.Context, url, destPath string) error
}

// Decoder extracts an aligned sample series from an artifact on disk.
type Decoder interface {
	Decode(path string) (domain.Series, error)
}

// Sink persists the assembled rows to a destination.
type Sink interface {
	Write(rows []domain.Row) error
	Path() string
}

// Publisher mirrors the assembled rows downstream. Optional.
type Publisher interface {
	Publish(ctx context.Context, rows []domain.Row) error
}

// Pipeline runs the sequential source loop and the final assembly.
type Pipeline struct {
	fetcher   Fetcher
	decoder   Decoder
	sink      Sink
	publisher Publisher // nil disables downstream publish
	workDir   string
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Pipeline. Pass a nil publisher to disable downstream publish.
func New(f Fetcher, d Decoder, s Sink, pub Publisher, workDir string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:   f,
		decoder:   d,
		sink:      s,
		publisher: pub,
		workDir:   workDir,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one source has been decoded and
// accumulated, or an error describing why the run has made no progress yet.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no source has been decoded yet")
	}
	return nil
}

// Result summarizes one completed run.
type Result struct {
	Table         domain.Table
	OutputPath    string
	Sources       int
	FailedSources int
}

// Run processes every source in manifest order, assembles the accumulated
// series into the output table, and persists it. A failing source is logged
// and skipped without touching the accumulator; manifest-wide concerns
// (assembly validation, the sink write, downstream publish) are fatal and
// propagate.
func (p *Pipeline) Run(ctx context.Context, sources []manifest.Source) (Result, error) {
	p.logger.Info("pipeline started", "sources", len(sources), "work_dir", p.workDir)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var acc domain.Series
	failed := 0

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("run cancelled after %d sources: %w", acc.Len(), err)
		}

		series, err := p.processSource(ctx, src)
		if err != nil {
			p.logger.Warn("source failed, skipping", "source", src.ID, "error", err)
			p.metrics.SourceFailures.WithLabelValues(failureStage(err)).Inc()
			failed++
			continue
		}

		// Extend is atomic across all five sequences, so a bad series
		// contributes nothing rather than a partial row.
		if err := acc.Extend(series); err != nil {
			p.logger.Warn("source failed, skipping", "source", src.ID, "error", err)
			p.metrics.SourceFailures.WithLabelValues("accumulate").Inc()
			failed++
			continue
		}

		p.metrics.SourcesProcessed.Inc()
		p.metrics.SamplesAccumulated.Add(float64(series.Len()))
		p.ready.Store(true)
		p.logger.Info("source accumulated", "source", src.ID, "samples", series.Len(), "total_samples", acc.Len())
	}

	table, err := domain.BuildTable(acc)
	if err != nil {
		return Result{}, fmt.Errorf("assemble table: %w", err)
	}

	if err := p.sink.Write(table.Rows); err != nil {
		return Result{}, err
	}
	p.metrics.RowsWritten.Add(float64(len(table.Rows)))

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, table.Rows); err != nil {
			return Result{}, fmt.Errorf("publish rows: %w", err)
		}
	}

	return Result{
		Table:         table,
		OutputPath:    p.sink.Path(),
		Sources:       len(sources),
		FailedSources: failed,
	}, nil
}

// processSource fetches and decodes one source. The scratch artifact is
// removed after the decode attempt whether or not it succeeded, so no
// artifact outlives its source's processing.
func (p *Pipeline) processSource(ctx context.Context, src manifest.Source) (domain.Series, error) {
	dest := filepath.Join(p.workDir, src.Artifact)

	fetchStart := time.Now()
	if err := p.fetcher.Fetch(ctx, src.URL, dest); err != nil {
		return domain.Series{}, err
	}
	p.metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())

	defer func() {
		if err := os.Remove(dest); err != nil {
			p.logger.Warn("remove artifact failed", "source", src.ID, "artifact", dest, "error", err)
		}
	}()

	decodeStart := time.Now()
	series, err := p.decoder.Decode(dest)
	if err != nil {
		return domain.Series{}, err
	}
	p.metrics.DecodeDuration.Observe(time.Since(decodeStart).Seconds())

	return series, nil
}

// failureStage labels a per-source error for metrics.
func failureStage(err error) string {
	var fetchErr *archive.FetchError
	if errors.As(err, &fetchErr) {
		return "fetch"
	}
	var decodeErr *merra2.DecodeError
	if errors.As(err, &decodeErr) {
		return "decode"
	}
	return "other"
}
