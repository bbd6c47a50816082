package config

import (
	"time"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
)

// DefaultReportYear disambiguates the source's year-less dates.
const DefaultReportYear = 2020

// DefaultRegion names the jurisdiction in the chart title.
const DefaultRegion = "Victoria"

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DefaultAnnotations lists Victoria's 2020 restriction stages in start order.
// The final entry only closes the interval before it.
func DefaultAnnotations() []domain.Annotation {
	return []domain.Annotation{
		{Label: "Stage 1", Start: date(2020, time.March, 23), Color: "#bad80a"},
		{Label: "Stage 2", Start: date(2020, time.March, 26), Color: "#009e49"},
		{Label: "Stage 3", Start: date(2020, time.March, 31), Color: "#00b294"},
		{Label: "Stage 2 (again)", Start: date(2020, time.June, 1), Color: "#00bcf2"},
		{Label: "Stage 3 (postcodes)", Start: date(2020, time.July, 2), Color: "#00188f", Hatched: true},
		{Label: "Stage 3 (again)", Start: date(2020, time.July, 8), Color: "#68217a"},
		{Label: "Masks", Start: date(2020, time.July, 23), Color: "#ec008c"},
		{Label: "Stage 4", Start: date(2020, time.August, 2), Color: "#e81123"},
		{Label: "Stage 4 Ends", Start: date(2020, time.September, 13), Color: "#ff8c00", Hatched: true},
		{Label: "First Step", Start: date(2020, time.September, 14), Color: "#ff8c00"},
		{Label: "Second Step", Start: date(2020, time.September, 28), Color: "#ff8c00"},
		{Label: "Third Step", Start: date(2020, time.October, 19), Color: "#ff8c00"},
		{Label: "Fourth Step", Start: date(2020, time.November, 9), Color: "#ff8c00"},
		{Label: "COVID Normal", Start: date(2020, time.November, 30), Color: "#ff8c00"},
	}
}

// DefaultPalette fills the annotation bands, lightest first. Generated with
// https://hihayk.github.io/scale/ and reversed.
func DefaultPalette() []string {
	return []string{
		"#F3F8F0",
		"#EBEFDE",
		"#E6E1CD",
		"#DDCABB",
		"#D4ABA9",
		"#CB97A8",
		"#C286B1",
		"#B274B9",
		"#8A62B0",
		"#5C51A6",
		"#3F579D",
		"#2D6F94",
		"#1C8B89",
		"#0A8251",
	}
}
