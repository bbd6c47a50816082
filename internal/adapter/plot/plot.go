// Package plot renders the enriched series as two stacked time-series panels
// with policy-interval bands, a marker for today and a title strip.
package plot

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
)

const (
	// DefaultWidth and DefaultHeight give an 18x12 inch figure at 100 dpi.
	DefaultWidth  = 1800
	DefaultHeight = 1200

	titleHeight = 56
	bandAlpha   = 191 // 0.75
	tickStep    = 50
	headroom    = 5
)

// Input is everything a chart needs. Now drives the today marker and the
// "last updated" line.
type Input struct {
	Series    *domain.Series
	Summary   domain.Summary
	Intervals []domain.Interval
	Now       time.Time
	Region    string
}

// Renderer writes the chart to a PNG file. It implements pipeline.ChartRenderer.
type Renderer struct {
	path   string
	width  int
	height int
	logger *slog.Logger
}

// NewRenderer creates a renderer writing to path at the default size.
func NewRenderer(path string, logger *slog.Logger) *Renderer {
	return &Renderer{path: path, width: DefaultWidth, height: DefaultHeight, logger: logger}
}

// Path returns the output file.
func (r *Renderer) Path() string { return r.path }

// Render draws the chart and writes it. Every failure wraps domain.ErrRender.
func (r *Renderer) Render(ctx context.Context, in Input) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrRender, err)
	}

	img, err := Draw(in, r.width, r.height)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("%w: encode png: %w", domain.ErrRender, err)
	}
	if err := os.WriteFile(r.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", domain.ErrRender, r.path, err)
	}

	r.logger.Debug("chart written", "path", r.path, "bytes", buf.Len())
	return nil
}

// Draw composes the title strip and both panels into one image.
func Draw(in Input, width, height int) (image.Image, error) {
	if in.Series == nil || in.Series.Len() < 2 {
		return nil, fmt.Errorf("%w: need at least two records to plot", domain.ErrRender)
	}

	records := in.Series.Records()
	dates := make([]time.Time, len(records))
	net := make([]float64, len(records))
	avg := make([]float64, len(records))
	for i, r := range records {
		dates[i] = r.Date
		net[i] = float64(r.NetCases)
		avg[i] = r.FortnightAverage
	}

	panelHeight := (height - titleHeight) / 2
	netMax := max(float64(in.Summary.MaxNetCases), 0) + headroom
	avgMax := max(in.Summary.MaxFortnightAverage, 0) + headroom

	top := panel{
		title:  "Daily Net Cases",
		yName:  "New Cases",
		yMax:   netMax,
		line:   chart.TimeSeries{Name: "Net cases", XValues: dates, YValues: net},
		legend: true,
	}
	bottom := panel{
		title: "Rolling 14 day average",
		yName: "14 day average",
		yMax:  avgMax,
		ticks: averageTicks(in.Summary.MaxFortnightAverage),
		line:  chart.TimeSeries{Name: "14 day average", XValues: dates, YValues: avg},
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	drawTitle(canvas, titleLines(in))

	for i, p := range []panel{top, bottom} {
		img, err := p.render(in, width, panelHeight)
		if err != nil {
			return nil, err
		}
		origin := image.Pt(0, titleHeight+i*panelHeight)
		draw.Draw(canvas, img.Bounds().Add(origin), img, img.Bounds().Min, draw.Over)
	}
	return canvas, nil
}

type panel struct {
	title  string
	yName  string
	yMax   float64
	ticks  []chart.Tick
	line   chart.TimeSeries
	legend bool
}

func (p panel) render(in Input, width, height int) (image.Image, error) {
	series := make([]chart.Series, 0, len(in.Intervals)+2)
	for _, iv := range in.Intervals {
		series = append(series, chart.TimeSeries{
			Name:    iv.Label,
			XValues: []time.Time{iv.Start, iv.End},
			YValues: []float64{p.yMax, p.yMax},
			Style:   bandStyle(iv),
		})
	}

	p.line.Style = chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 1.5}
	series = append(series, p.line, chart.TimeSeries{
		Name:    TodayLabel(in.Now),
		XValues: []time.Time{in.Now, in.Now},
		YValues: []float64{0, p.yMax},
		Style:   chart.Style{StrokeColor: drawing.ColorRed.WithAlpha(bandAlpha), StrokeWidth: 2},
	})

	ch := chart.Chart{
		Title:      p.title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: "Date", ValueFormatter: chart.TimeDateValueFormatter},
		YAxis: chart.YAxis{
			Name:  p.yName,
			Range: &chart.ContinuousRange{Min: 0, Max: p.yMax},
			Ticks: p.ticks,
		},
		Series: series,
	}
	if p.legend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("%w: %s panel: %w", domain.ErrRender, p.title, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s panel: %w", domain.ErrRender, p.title, err)
	}
	return img, nil
}

// bandStyle fills an interval with its palette colour; hatched intervals get
// a dashed outline instead of a solid one.
func bandStyle(iv domain.Interval) chart.Style {
	c := drawing.ColorFromHex(strings.TrimPrefix(iv.Color, "#"))
	st := chart.Style{
		StrokeColor: c,
		StrokeWidth: 1,
		FillColor:   c.WithAlpha(bandAlpha),
	}
	if iv.Hatched {
		st.StrokeColor = drawing.ColorBlack.WithAlpha(160)
		st.StrokeWidth = 2
		st.StrokeDashArray = []float64{6, 4}
	}
	return st
}

// averageTicks labels the average axis every 50 cases below the maximum. An
// empty result leaves tick placement to go-chart.
func averageTicks(maxAvg float64) []chart.Tick {
	limit := int(maxAvg)
	var ticks []chart.Tick
	for v := 0; v < limit; v += tickStep {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: fmt.Sprint(v)})
	}
	if len(ticks) < 2 {
		return nil
	}
	return ticks
}

// TodayLabel is the legend entry for the marker line, e.g. "Today (Oct 19)".
func TodayLabel(now time.Time) string {
	return fmt.Sprintf("Today (%s)", now.Format("Jan 02"))
}

func titleLines(in Input) []string {
	return []string{
		fmt.Sprintf("%s's COVID-19 over %d days", in.Region, in.Summary.DaysSpanned),
		fmt.Sprintf("Last updated %s", in.Now.Format("02/01/2006")),
	}
}

func drawTitle(dst *image.RGBA, lines []string) {
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: dst, Src: image.NewUniform(color.Black), Face: face}
	lineHeight := face.Metrics().Height.Ceil() + 6
	y := (titleHeight-lineHeight*len(lines))/2 + face.Metrics().Ascent.Ceil()
	for _, line := range lines {
		x := (dst.Bounds().Dx() - dr.MeasureString(line).Ceil()) / 2
		dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
		dr.DrawString(line)
		y += lineHeight
	}
}
