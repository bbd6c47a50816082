// Command casechart fetches Victoria's daily case table, derives the rolling
// fortnight average, exports the series and renders the annotated chart.
// It runs once and exits non-zero if the chart could not be produced.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/covid-case-chart/internal/adapter/covidlive"
	"github.com/couchcryptid/covid-case-chart/internal/adapter/export"
	"github.com/couchcryptid/covid-case-chart/internal/adapter/plot"
	"github.com/couchcryptid/covid-case-chart/internal/config"
	"github.com/couchcryptid/covid-case-chart/internal/observability"
	"github.com/couchcryptid/covid-case-chart/internal/pipeline"
	"github.com/couchcryptid/covid-case-chart/internal/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := covidlive.NewClient(covidlive.Options{
		URL: cfg.SourceURL,
		Selector: covidlive.Selector{
			TableIndex: cfg.SourceTableIndex,
			DateCol:    covidlive.DefaultSelector.DateCol,
			TotalCol:   covidlive.DefaultSelector.TotalCol,
			NetCol:     covidlive.DefaultSelector.NetCol,
		},
		NewestFirst: cfg.SourceNewestFirst,
		Timeout:     cfg.FetchTimeout,
		MaxRetries:  cfg.FetchMaxRetries,
	}, metrics, logger)

	formats := []export.Format{export.NewCSV(cfg.OutputCSV)}
	if cfg.OutputParquet != "" {
		formats = append(formats, export.NewParquet(cfg.OutputParquet))
	}
	if cfg.OutputXLSX != "" {
		formats = append(formats, export.NewXLSX(cfg.OutputXLSX))
	}

	renderer := plot.NewRenderer(cfg.OutputImage, logger)

	p := pipeline.New(fetcher, formats, renderer, pipeline.Settings{
		ReportYear:  cfg.ReportYear,
		Region:      cfg.Region,
		Annotations: cfg.Annotations,
		Palette:     cfg.Palette,
	}, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, runErr := p.Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile write failed", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if runErr != nil {
		logger.Error("pipeline failed", "error", runErr)
		stop()
		os.Exit(1)
	}

	if err := report.Print(os.Stdout, res.Series, res.Summary); err != nil {
		logger.Warn("summary print failed", "error", err)
	}
	logger.Info("chart written", "path", renderer.Path(), "run_id", res.RunID)
}
