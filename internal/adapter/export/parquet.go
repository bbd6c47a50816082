package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
)

// parquetRow maps a record onto the shared column names.
type parquetRow struct {
	Date             string  `parquet:"date,snappy"`
	TotalCases       int64   `parquet:"total_cases,snappy"`
	NetCases         int64   `parquet:"net_cases,snappy"`
	FortnightAverage float64 `parquet:"fortnight_average,snappy"`
}

// Parquet writes the series as a single Parquet row group.
type Parquet struct {
	path string
}

// NewParquet creates a Parquet export to path.
func NewParquet(path string) *Parquet { return &Parquet{path: path} }

func (p *Parquet) Name() string { return "parquet" }
func (p *Parquet) Path() string { return p.path }

func (p *Parquet) Write(records []domain.Record) error {
	file, err := os.Create(p.path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	rows := make([]parquetRow, len(records))
	for i, r := range records {
		rows[i] = parquetRow{
			Date:             formatDate(r.Date),
			TotalCases:       r.TotalCases,
			NetCases:         r.NetCases,
			FortnightAverage: r.FortnightAverage,
		}
	}

	writer := parquet.NewGenericWriter[parquetRow](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return file.Close()
}
