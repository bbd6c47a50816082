package domain

import "time"

// FortnightDays is both the window length and the fixed divisor.
const FortnightDays = 14

// EnrichFortnightAverage sets FortnightAverage on every record of the series.
//
// The window for a record dated d is the open interval (d-14 days, d). The
// divisor is always 14, so the first fortnight of the series reads low.
// Dates are strictly ascending, which lets a two-pointer running sum replace
// the per-record range scan in NaiveFortnightAverage with identical output.
//
// Averages are computed into a scratch slice and committed only when every
// record has one; on error the series is left untouched.
func EnrichFortnightAverage(s *Series) error {
	if s.Len() == 0 {
		return ErrEmptySeries
	}
	if s.enriched {
		return nil
	}

	averages := make([]float64, len(s.records))
	var sum int64
	lo := 0
	for i, r := range s.records {
		boundary := windowStart(r.Date)
		for lo < i && !s.records[lo].Date.After(boundary) {
			sum -= s.records[lo].NetCases
			lo++
		}
		averages[i] = float64(sum) / FortnightDays
		sum += r.NetCases
	}

	for i := range s.records {
		s.records[i].FortnightAverage = averages[i]
	}
	s.enriched = true
	return nil
}

// NaiveFortnightAverage recomputes one record's average by scanning the
// series with Between. It is O(n) per record and serves as the reference
// definition.
func NaiveFortnightAverage(s *Series, date time.Time) float64 {
	var sum int64
	for _, r := range s.Between(windowStart(date), date) {
		sum += r.NetCases
	}
	return float64(sum) / FortnightDays
}

func windowStart(date time.Time) time.Time {
	return date.AddDate(0, 0, -FortnightDays)
}
