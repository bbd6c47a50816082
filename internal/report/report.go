// Package report prints a console summary of a finished run.
package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
)

// RecentDays is how many of the latest records the table shows.
const RecentDays = domain.FortnightDays

// Print writes the headline figures followed by a table of the most recent
// fortnight of records, newest last.
func Print(w io.Writer, series *domain.Series, summary domain.Summary) error {
	if series.Len() == 0 {
		return domain.ErrEmptySeries
	}

	fmt.Fprintf(w, "%d days from %s to %s, max net %d, max fortnight average %.2f\n",
		summary.DaysSpanned,
		summary.First.Format(time.DateOnly),
		summary.Last.Format(time.DateOnly),
		summary.MaxNetCases,
		summary.MaxFortnightAverage,
	)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Total", "Net", "14 Day Avg"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	start := max(series.Len()-RecentDays, 0)
	var data [][]string
	for i := start; i < series.Len(); i++ {
		r := series.At(i)
		data = append(data, []string{
			r.Date.Format(time.DateOnly),
			strconv.FormatInt(r.TotalCases, 10),
			strconv.FormatInt(r.NetCases, 10),
			strconv.FormatFloat(r.FortnightAverage, 'f', 2, 64),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
