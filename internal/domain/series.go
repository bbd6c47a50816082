package domain

import (
	"errors"
	"fmt"
	"time"
)

// Series is the ordered, date-indexed set of records for one run. It has a
// single writer: records are appended while building, averages are written
// once by EnrichFortnightAverage, and the series is read-only afterwards.
type Series struct {
	records  []Record
	enriched bool
}

// NewSeries builds a series from records that must already be in strictly
// ascending date order.
func NewSeries(records []Record) (*Series, error) {
	s := &Series{records: make([]Record, 0, len(records))}
	for _, r := range records {
		if err := s.Append(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Append adds a record to the end of the series. The store never re-sorts:
// a date that is not strictly after the current last date is rejected.
func (s *Series) Append(r Record) error {
	if s.enriched {
		return errors.New("append to enriched series")
	}
	if n := len(s.records); n > 0 {
		last := s.records[n-1].Date
		if !r.Date.After(last) {
			return fmt.Errorf("%w: %s follows %s", ErrSourceOrder,
				r.Date.Format(time.DateOnly), last.Format(time.DateOnly))
		}
	}
	s.records = append(s.records, r)
	return nil
}

// Len returns the number of records.
func (s *Series) Len() int { return len(s.records) }

// At returns the i-th record in date order.
func (s *Series) At(i int) Record { return s.records[i] }

// First returns the earliest record. It panics on an empty series.
func (s *Series) First() Record { return s.records[0] }

// Last returns the latest record. It panics on an empty series.
func (s *Series) Last() Record { return s.records[len(s.records)-1] }

// Records returns a copy of the records in date order.
func (s *Series) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Between returns the records dated strictly between from and to.
func (s *Series) Between(from, to time.Time) []Record {
	var out []Record
	for _, r := range s.records {
		if r.Date.After(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	return out
}

// Enriched reports whether fortnight averages have been computed.
func (s *Series) Enriched() bool { return s.enriched }

// TotalDecreases lists the dates whose cumulative count is lower than the
// previous day's. The cumulative column should never fall; callers surface
// these rather than correct them.
func (s *Series) TotalDecreases() []time.Time {
	var out []time.Time
	for i := 1; i < len(s.records); i++ {
		if s.records[i].TotalCases < s.records[i-1].TotalCases {
			out = append(out, s.records[i].Date)
		}
	}
	return out
}
