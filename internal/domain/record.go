package domain

import "time"

// RawRow is one body row of the source table, cells as text.
type RawRow struct {
	Date  string // "<day> <month>", e.g. "02 Jan"
	Total string // cumulative cases
	Net   string // cases added that day, or "-" for no change
}

// Record is a normalized day of the series.
type Record struct {
	Date             time.Time // UTC midnight
	TotalCases       int64
	NetCases         int64
	FortnightAverage float64 // zero until the series is enriched
}
