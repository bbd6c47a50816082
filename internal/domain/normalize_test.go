package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYear = 2020

func day(month time.Month, d int) time.Time {
	return time.Date(testYear, month, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizeRow(t *testing.T) {
	t.Run("plain row", func(t *testing.T) {
		rec, err := NormalizeRow(RawRow{Date: "02 Jan", Total: "25", Net: "15"}, testYear)
		require.NoError(t, err)
		assert.Equal(t, Record{Date: day(time.January, 2), TotalCases: 25, NetCases: 15}, rec)
	})

	t.Run("single digit day and lowercase month", func(t *testing.T) {
		rec, err := NormalizeRow(RawRow{Date: "7 oct", Total: "20,345", Net: "+12"}, testYear)
		require.NoError(t, err)
		assert.Equal(t, day(time.October, 7), rec.Date)
		assert.Equal(t, int64(20345), rec.TotalCases)
		assert.Equal(t, int64(12), rec.NetCases)
	})

	t.Run("no-change sentinel", func(t *testing.T) {
		rec, err := NormalizeRow(RawRow{Date: "03 Jan", Total: "25", Net: " - "}, testYear)
		require.NoError(t, err)
		assert.Equal(t, int64(0), rec.NetCases)
	})

	t.Run("negative net correction", func(t *testing.T) {
		rec, err := NormalizeRow(RawRow{Date: "10 Aug", Total: "1,000", Net: "-3"}, testYear)
		require.NoError(t, err)
		assert.Equal(t, int64(-3), rec.NetCases)
	})

	t.Run("report year is applied", func(t *testing.T) {
		rec, err := NormalizeRow(RawRow{Date: "29 Feb", Total: "1", Net: "1"}, 2020)
		require.NoError(t, err)
		assert.Equal(t, 2020, rec.Date.Year())

		_, err = NormalizeRow(RawRow{Date: "29 Feb", Total: "1", Net: "1"}, 2021)
		assert.ErrorIs(t, err, ErrMalformedDate)
	})
}

func TestNormalizeRow_Errors(t *testing.T) {
	tests := []struct {
		name  string
		raw   RawRow
		want  error
		field string
	}{
		{"date with year", RawRow{Date: "01 Jan 2020", Total: "1", Net: "1"}, ErrMalformedDate, "date"},
		{"iso date", RawRow{Date: "2020-01-01", Total: "1", Net: "1"}, ErrMalformedDate, "date"},
		{"unknown month", RawRow{Date: "01 Foo", Total: "1", Net: "1"}, ErrMalformedDate, "date"},
		{"day out of range", RawRow{Date: "32 Jan", Total: "1", Net: "1"}, ErrMalformedDate, "date"},
		{"empty date", RawRow{Date: "", Total: "1", Net: "1"}, ErrMalformedDate, "date"},
		{"non-numeric total", RawRow{Date: "01 Jan", Total: "ten", Net: "1"}, ErrMalformedCount, "total"},
		{"negative total", RawRow{Date: "01 Jan", Total: "-5", Net: "1"}, ErrMalformedCount, "total"},
		{"sentinel total", RawRow{Date: "01 Jan", Total: "-", Net: "1"}, ErrMalformedCount, "total"},
		{"empty net", RawRow{Date: "01 Jan", Total: "1", Net: ""}, ErrMalformedCount, "net"},
		{"decimal net", RawRow{Date: "01 Jan", Total: "1", Net: "1.5"}, ErrMalformedCount, "net"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeRow(tt.raw, testYear)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, tt.field, rowErr.Field)
		})
	}
}

func TestNormalizeRow_DistinctInputsStayDistinct(t *testing.T) {
	rows := []RawRow{
		{Date: "01 Jan", Total: "10", Net: "10"},
		{Date: "01 Jan", Total: "11", Net: "10"},
		{Date: "01 Jan", Total: "10", Net: "11"},
		{Date: "02 Jan", Total: "10", Net: "10"},
	}

	seen := make(map[Record]RawRow)
	for _, raw := range rows {
		rec, err := NormalizeRow(raw, testYear)
		require.NoError(t, err)
		prev, dup := seen[rec]
		assert.False(t, dup, "rows %+v and %+v collapsed", prev, raw)
		seen[rec] = raw
	}
}

func TestNormalizeRows(t *testing.T) {
	rows := []RawRow{
		{Date: "01 Jan", Total: "10", Net: "10"},
		{Date: "02 Jan", Total: "25", Net: "15"},
		{Date: "03 Jan", Total: "25", Net: "-"},
	}

	got, err := NormalizeRows(rows, testYear)
	require.NoError(t, err)

	want := []Record{
		{Date: day(time.January, 1), TotalCases: 10, NetCases: 10},
		{Date: day(time.January, 2), TotalCases: 25, NetCases: 15},
		{Date: day(time.January, 3), TotalCases: 25, NetCases: 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeRows_AbortsOnFirstBadRow(t *testing.T) {
	rows := []RawRow{
		{Date: "01 Jan", Total: "10", Net: "10"},
		{Date: "02 Jan", Total: "x", Net: "15"},
		{Date: "bad", Total: "25", Net: "-"},
	}

	got, err := NormalizeRows(rows, testYear)
	assert.Nil(t, got)
	require.ErrorIs(t, err, ErrMalformedCount)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, 1, rowErr.Index)
	assert.Contains(t, err.Error(), "row 1")
}
