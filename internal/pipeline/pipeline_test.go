package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-case-chart/internal/adapter/export"
	"github.com/couchcryptid/covid-case-chart/internal/adapter/plot"
	"github.com/couchcryptid/covid-case-chart/internal/config"
	"github.com/couchcryptid/covid-case-chart/internal/domain"
	"github.com/couchcryptid/covid-case-chart/internal/observability"
	"github.com/couchcryptid/covid-case-chart/internal/pipeline"
)

// --- mocks ---

type mockFetcher struct {
	rows  []domain.RawRow
	err   error
	calls int
}

func (m *mockFetcher) FetchRows(_ context.Context) ([]domain.RawRow, error) {
	m.calls++
	return m.rows, m.err
}

type mockRenderer struct {
	err    error
	inputs []plot.Input
}

func (m *mockRenderer) Render(_ context.Context, in plot.Input) error {
	m.inputs = append(m.inputs, in)
	return m.err
}

type failingFormat struct{}

func (failingFormat) Name() string                  { return "csv" }
func (failingFormat) Path() string                  { return "/nonexistent/exported_covid_data.csv" }
func (failingFormat) Write(_ []domain.Record) error { return os.ErrPermission }

var exampleRows = []domain.RawRow{
	{Date: "01 Jan", Total: "10", Net: "10"},
	{Date: "02 Jan", Total: "25", Net: "15"},
	{Date: "03 Jan", Total: "25", Net: "-"},
}

func testSettings() pipeline.Settings {
	cfg := config.Default()
	return pipeline.Settings{
		ReportYear:  cfg.ReportYear,
		Region:      cfg.Region,
		Annotations: cfg.Annotations,
		Palette:     cfg.Palette,
	}
}

func newPipeline(f pipeline.SourceFetcher, formats []export.Format, r pipeline.ChartRenderer) (*pipeline.Pipeline, *observability.Metrics) {
	metrics := observability.NewMetricsForTesting()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return pipeline.New(f, formats, r, testSettings(), logger, metrics), metrics
}

// --- tests ---

func TestPipeline_Run_EndToEnd(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2020, time.October, 19, 8, 0, 0, 0, time.UTC))
	domain.SetClock(fakeClock)
	t.Cleanup(func() { domain.SetClock(nil) })

	csvPath := filepath.Join(t.TempDir(), "exported_covid_data.csv")
	renderer := &mockRenderer{}
	p, metrics := newPipeline(&mockFetcher{rows: exampleRows}, []export.Format{export.NewCSV(csvPath)}, renderer)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	day := func(d int) time.Time { return time.Date(2020, time.January, d, 0, 0, 0, 0, time.UTC) }
	want := []domain.Record{
		{Date: day(1), TotalCases: 10, NetCases: 10, FortnightAverage: 0},
		{Date: day(2), TotalCases: 25, NetCases: 15, FortnightAverage: 10.0 / 14},
		{Date: day(3), TotalCases: 25, NetCases: 0, FortnightAverage: 25.0 / 14},
	}
	if diff := cmp.Diff(want, res.Series.Records()); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 2, res.Summary.DaysSpanned)
	assert.Equal(t, int64(15), res.Summary.MaxNetCases)
	require.Len(t, res.Exports, 1)
	assert.True(t, res.Exports[0].OK())
	assert.FileExists(t, csvPath)

	require.Len(t, renderer.inputs, 1)
	in := renderer.inputs[0]
	assert.Equal(t, fakeClock.Now(), in.Now)
	assert.Equal(t, "Victoria", in.Region)
	assert.Len(t, in.Intervals, 13)
	assert.Same(t, res.Series, in.Series)

	assert.InDelta(t, 3.0, testutil.ToFloat64(metrics.RowsNormalized), 0)
	assert.InDelta(t, float64(fakeClock.Now().Unix()), testutil.ToFloat64(metrics.LastSuccess), 0)
}

func TestPipeline_Run_FetchErrorAborts(t *testing.T) {
	renderer := &mockRenderer{}
	p, _ := newPipeline(&mockFetcher{err: errors.New("connection refused")}, nil, renderer)

	res, err := p.Run(context.Background())
	assert.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrFetch)
	assert.Empty(t, renderer.inputs)
}

func TestPipeline_Run_MalformedRowAborts(t *testing.T) {
	rows := append([]domain.RawRow{}, exampleRows...)
	rows[1].Net = "fifteen"

	csvPath := filepath.Join(t.TempDir(), "out.csv")
	renderer := &mockRenderer{}
	p, _ := newPipeline(&mockFetcher{rows: rows}, []export.Format{export.NewCSV(csvPath)}, renderer)

	res, err := p.Run(context.Background())
	assert.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrMalformedCount)
	assert.NoFileExists(t, csvPath)
	assert.Empty(t, renderer.inputs)
}

func TestPipeline_Run_OutOfOrderSourceAborts(t *testing.T) {
	rows := []domain.RawRow{exampleRows[1], exampleRows[0]}
	p, _ := newPipeline(&mockFetcher{rows: rows}, nil, &mockRenderer{})

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrSourceOrder)
}

func TestPipeline_Run_EmptySourceAborts(t *testing.T) {
	p, _ := newPipeline(&mockFetcher{}, nil, &mockRenderer{})

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrEmptySeries)
}

func TestPipeline_Run_ExportFailureStillRenders(t *testing.T) {
	renderer := &mockRenderer{}
	p, metrics := newPipeline(&mockFetcher{rows: exampleRows}, []export.Format{failingFormat{}}, renderer)

	res, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Exports, 1)
	assert.ErrorIs(t, res.Exports[0].Err, domain.ErrExport)
	assert.ErrorIs(t, res.Exports[0].Err, os.ErrPermission)
	assert.Len(t, renderer.inputs, 1)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ExportFailures.WithLabelValues("csv")), 0)
}

func TestPipeline_Run_RenderErrorIsFatal(t *testing.T) {
	p, metrics := newPipeline(&mockFetcher{rows: exampleRows}, nil, &mockRenderer{err: errors.New("disk full")})

	res, err := p.Run(context.Background())
	assert.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrRender)
	assert.Contains(t, err.Error(), "disk full")
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.LastSuccess), 0)
}

func TestPipeline_Run_NilRendererSkipsRender(t *testing.T) {
	p, _ := newPipeline(&mockFetcher{rows: exampleRows}, nil, nil)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Series.Len())
	assert.Empty(t, res.Exports)
}

func TestPipeline_Run_PaletteTooShort(t *testing.T) {
	settings := testSettings()
	settings.Palette = settings.Palette[:3]
	fetcher := &mockFetcher{rows: exampleRows}
	p := pipeline.New(fetcher, nil, &mockRenderer{}, settings,
		slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())

	_, err := p.Run(context.Background())
	require.ErrorIs(t, err, domain.ErrConfig)
	assert.Equal(t, 0, fetcher.calls)
}

func TestPipeline_Run_FlagsCumulativeDecrease(t *testing.T) {
	rows := []domain.RawRow{
		{Date: "01 Jan", Total: "10", Net: "10"},
		{Date: "02 Jan", Total: "8", Net: "-2"},
		{Date: "03 Jan", Total: "9", Net: "1"},
	}
	p, metrics := newPipeline(&mockFetcher{rows: rows}, nil, nil)

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []time.Time{time.Date(2020, time.January, 2, 0, 0, 0, 0, time.UTC)}, res.TotalDecreases)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.TotalDecreases), 0)
	assert.Equal(t, int64(-2), res.Series.At(1).NetCases)
}
