package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/couchcryptid/covid-case-chart/internal/adapter/export"
	"github.com/couchcryptid/covid-case-chart/internal/adapter/plot"
	"github.com/couchcryptid/covid-case-chart/internal/domain"
	"github.com/couchcryptid/covid-case-chart/internal/observability"
)

// SourceFetcher returns the raw table rows in ascending date order.
type SourceFetcher interface {
	FetchRows(ctx context.Context) ([]domain.RawRow, error)
}

// ChartRenderer produces the run's image artifact.
type ChartRenderer interface {
	Render(ctx context.Context, in plot.Input) error
}

// Settings is the static data a run needs besides its collaborators.
type Settings struct {
	ReportYear  int
	Region      string
	Annotations []domain.Annotation
	Palette     []string
}

// Result describes a completed run.
type Result struct {
	RunID          string
	Series         *domain.Series
	Summary        domain.Summary
	Exports        []export.Outcome // best-effort; failures do not fail the run
	TotalDecreases []time.Time      // days whose cumulative count fell
}

// Pipeline runs fetch, normalize, enrich, export and render once, in order.
type Pipeline struct {
	fetcher  SourceFetcher
	formats  []export.Format
	renderer ChartRenderer
	settings Settings
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Pipeline. With no formats nothing is exported; with a nil
// renderer the render stage is skipped, so tests can run the core without
// touching the filesystem.
func New(f SourceFetcher, formats []export.Format, r ChartRenderer, settings Settings, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		fetcher:  f,
		formats:  formats,
		renderer: r,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run executes one pass. Any stage error except an export failure aborts the
// run and is returned; no later stage executes.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	logger := p.logger.With("run_id", res.RunID)
	logger.Info("pipeline started", "report_year", p.settings.ReportYear)

	if need := domain.IntervalCount(p.settings.Annotations); len(p.settings.Palette) < need {
		return nil, fmt.Errorf("%w: palette has %d colours for %d annotation intervals",
			domain.ErrConfig, len(p.settings.Palette), need)
	}

	var rows []domain.RawRow
	err := p.stage("fetch", func() error {
		var err error
		rows, err = p.fetcher.FetchRows(ctx)
		if err != nil && !errors.Is(err, domain.ErrFetch) {
			err = fmt.Errorf("%w: %w", domain.ErrFetch, err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	p.metrics.RowsFetched.Set(float64(len(rows)))
	logger.Info("source fetched", "rows", len(rows))

	err = p.stage("normalize", func() error {
		records, err := domain.NormalizeRows(rows, p.settings.ReportYear)
		if err != nil {
			return err
		}
		res.Series, err = domain.NewSeries(records)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	p.metrics.RowsNormalized.Set(float64(res.Series.Len()))

	res.TotalDecreases = res.Series.TotalDecreases()
	p.metrics.TotalDecreases.Set(float64(len(res.TotalDecreases)))
	for _, d := range res.TotalDecreases {
		logger.Warn("cumulative count decreased", "date", d.Format(time.DateOnly))
	}

	err = p.stage("enrich", func() error {
		if err := domain.EnrichFortnightAverage(res.Series); err != nil {
			return err
		}
		var err error
		res.Summary, err = domain.Summarize(res.Series)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("enrich: %w", err)
	}
	p.metrics.SeriesLastDate.Set(float64(res.Summary.Last.Unix()))
	p.metrics.MaxFortnightAvg.Set(res.Summary.MaxFortnightAverage)
	logger.Info("series enriched",
		"first", res.Summary.First.Format(time.DateOnly),
		"last", res.Summary.Last.Format(time.DateOnly),
		"max_net", res.Summary.MaxNetCases,
	)

	_ = p.stage("export", func() error {
		res.Exports = export.All(res.Series, p.formats...)
		return nil
	})
	for _, o := range res.Exports {
		if !o.OK() {
			p.metrics.ExportFailures.WithLabelValues(o.Format).Inc()
			logger.Warn("export failed, continuing", "format", o.Format, "path", o.Path, "error", o.Err)
			continue
		}
		logger.Info("series exported", "format", o.Format, "path", o.Path)
	}

	if p.renderer == nil {
		logger.Info("render skipped")
		return res, nil
	}

	err = p.stage("render", func() error {
		return p.renderer.Render(ctx, plot.Input{
			Series:    res.Series,
			Summary:   res.Summary,
			Intervals: domain.Intervals(p.settings.Annotations, p.settings.Palette),
			Now:       domain.Now(),
			Region:    p.settings.Region,
		})
	})
	if err != nil {
		if !errors.Is(err, domain.ErrRender) {
			err = fmt.Errorf("%w: %w", domain.ErrRender, err)
		}
		return nil, err
	}

	p.metrics.LastSuccess.Set(float64(domain.Now().Unix()))
	logger.Info("pipeline finished")
	return res, nil
}

// stage times fn under the given stage label.
func (p *Pipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	return err
}
