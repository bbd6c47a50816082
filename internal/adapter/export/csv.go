package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
)

// CSV writes the comma-separated export consumed downstream.
type CSV struct {
	path string
}

// NewCSV creates a CSV export to path. The file is overwritten on each run.
func NewCSV(path string) *CSV { return &CSV{path: path} }

func (c *CSV) Name() string { return "csv" }
func (c *CSV) Path() string { return c.path }

// Write encodes the whole file in memory first so a failed encode never
// leaves a truncated file behind.
func (c *CSV) Write(records []domain.Record) error {
	var buf bytes.Buffer
	if err := EncodeCSV(&buf, records); err != nil {
		return err
	}
	return os.WriteFile(c.path, buf.Bytes(), 0o644)
}

// EncodeCSV writes the header and one line per record in series order.
// Identical input always yields identical bytes.
func EncodeCSV(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			formatDate(r.Date),
			strconv.FormatInt(r.TotalCases, 10),
			strconv.FormatInt(r.NetCases, 10),
			formatAverage(r.FortnightAverage),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
