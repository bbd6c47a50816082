// Package domain models the daily case series published by covidlive.com.au.
//
// # Data Source
//
// The daily-cases report page carries a table with one row per reporting day,
// newest first. The columns are DATE, CASES (cumulative), VAR (percentage
// change) and NET (cases added that day). The fetcher adapter turns the rows
// into [RawRow] values in ascending date order; this package does the rest.
//
// # Source Conventions
//
// Date format:
//
//	"<day> <abbreviated month>"  →  e.g. "19 Oct"
//	The page omits the year. The report year is supplied by configuration and
//	appended before parsing; it is never inferred.
//
// Count format:
//
//	Cumulative counts may carry thousands separators ("20,345").
//	Net counts are signed; source corrections produce negative values.
//	"-" is the sentinel for "no change" and is read as 0. Whether the source
//	also uses it for withheld data is unknown.
//
// # Fortnight Average
//
// For each record the fortnight average is the sum of net cases over the open
// interval (date − 14 days, date), divided by 14. Neither the record's own day
// nor the day exactly 14 days earlier contributes, and the divisor stays 14
// when fewer days of history exist. See [EnrichFortnightAverage].
package domain
