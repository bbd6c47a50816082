package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NoChangeMarker is the source's sentinel for a day with no net change.
const NoChangeMarker = "-"

const dateLayout = "2 Jan 2006"

// dayMonthRe matches the source's year-less dates, e.g. "2 Jan" or "19 Oct".
var dayMonthRe = regexp.MustCompile(`^\d{1,2}\s+[A-Za-z]{3}$`)

// NormalizeRow parses a raw table row into a Record. The source omits the
// year, so reportYear is appended before the date is parsed.
func NormalizeRow(raw RawRow, reportYear int) (Record, error) {
	date, err := parseDayMonth(raw.Date, reportYear)
	if err != nil {
		return Record{}, &RowError{Field: "date", Value: raw.Date, Err: err}
	}

	total, err := parseTotal(raw.Total)
	if err != nil {
		return Record{}, &RowError{Field: "total", Value: raw.Total, Err: err}
	}

	net, err := parseNet(raw.Net)
	if err != nil {
		return Record{}, &RowError{Field: "net", Value: raw.Net, Err: err}
	}

	return Record{Date: date, TotalCases: total, NetCases: net}, nil
}

// NormalizeRows normalizes every row or none: the first malformed row aborts
// and no partial slice is returned.
func NormalizeRows(rows []RawRow, reportYear int) ([]Record, error) {
	records := make([]Record, 0, len(rows))
	for i, raw := range rows {
		rec, err := NormalizeRow(raw, reportYear)
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				rowErr.Index = i
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseDayMonth(s string, year int) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	if !dayMonthRe.MatchString(s) {
		return time.Time{}, ErrMalformedDate
	}
	t, err := time.ParseInLocation(dateLayout, s+" "+strconv.Itoa(year), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedDate, err)
	}
	return t, nil
}

// parseTotal reads a cumulative count, which is never negative.
func parseTotal(s string) (int64, error) {
	v, err := parseCount(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative cumulative count", ErrMalformedCount)
	}
	return v, nil
}

// parseNet reads a signed net change; the no-change marker is 0.
func parseNet(s string) (int64, error) {
	if strings.TrimSpace(s) == NoChangeMarker {
		return 0, nil
	}
	return parseCount(s)
}

// parseCount strips thousands separators and parses a base-10 integer.
func parseCount(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, ErrMalformedCount
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedCount, err)
	}
	return v, nil
}
