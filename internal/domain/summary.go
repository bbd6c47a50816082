package domain

import "time"

// Summary holds the headline figures drawn on the chart.
type Summary struct {
	First               time.Time
	Last                time.Time
	DaysSpanned         int // Last - First, in whole days
	MaxNetCases         int64
	MaxFortnightAverage float64
}

// Summarize computes headline figures for an enriched, non-empty series.
func Summarize(s *Series) (Summary, error) {
	if s.Len() == 0 {
		return Summary{}, ErrEmptySeries
	}

	first, last := s.First(), s.Last()
	sum := Summary{
		First:               first.Date,
		Last:                last.Date,
		DaysSpanned:         int(last.Date.Sub(first.Date).Hours() / 24),
		MaxNetCases:         first.NetCases,
		MaxFortnightAverage: first.FortnightAverage,
	}
	for _, r := range s.records {
		if r.NetCases > sum.MaxNetCases {
			sum.MaxNetCases = r.NetCases
		}
		if r.FortnightAverage > sum.MaxFortnightAverage {
			sum.MaxFortnightAverage = r.FortnightAverage
		}
	}
	return sum, nil
}
