package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
)

func TestPrint(t *testing.T) {
	start := time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC)
	records := make([]domain.Record, 20)
	for i := range records {
		records[i] = domain.Record{Date: start.AddDate(0, 0, i), TotalCases: int64(100 + i), NetCases: 1}
	}
	s, err := domain.NewSeries(records)
	require.NoError(t, err)
	require.NoError(t, domain.EnrichFortnightAverage(s))
	sum, err := domain.Summarize(s)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, s, sum))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "19 days from 2020-07-01 to 2020-07-20, max net 1, max fortnight average 0.93\n"))
	assert.Contains(t, out, "2020-07-20")
	assert.Contains(t, out, "2020-07-07")
	assert.NotContains(t, out, "2020-07-06", "only the last fortnight is listed")
	assert.Contains(t, out, "0.93")
}

func TestPrint_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := Print(&buf, &domain.Series{}, domain.Summary{})
	assert.ErrorIs(t, err, domain.ErrEmptySeries)
}
