// Package export writes the enriched series to flat tabular files.
//
// Exports are best-effort: a failed write is reported in an Outcome and
// never aborts the run. Nothing else in the pipeline swallows errors.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
)

// Columns is the header shared by every format.
var Columns = []string{"date", "total_cases", "net_cases", "fortnight_average"}

// Format writes a series to one destination.
type Format interface {
	Name() string
	Path() string
	Write(records []domain.Record) error
}

// Outcome is the best-effort result of one export. A non-nil Err wraps
// domain.ErrExport and is informational only.
type Outcome struct {
	Format string
	Path   string
	Err    error
}

// OK reports whether the export succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// All writes the series with every format, in order, and returns one
// Outcome per format. It never returns an error.
func All(series *domain.Series, formats ...Format) []Outcome {
	records := series.Records()
	outcomes := make([]Outcome, 0, len(formats))
	for _, f := range formats {
		o := Outcome{Format: f.Name(), Path: f.Path()}
		if err := f.Write(records); err != nil {
			o.Err = fmt.Errorf("%w: %s to %s: %w", domain.ErrExport, f.Name(), f.Path(), err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}

func formatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// formatAverage renders the shortest decimal that round-trips, never in
// exponent form.
func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
