package covidlive

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
)

// Selector locates the daily-cases table on the report page and the cells
// within each body row.
//
// The covidlive page carries several tables; the daily figures are the second
// one, with columns DATE, CASES, VAR, NET. A layout change shows up as a
// missing table or short rows and is reported as domain.ErrFetch rather than
// as silently shifted data.
type Selector struct {
	TableIndex int // zero-based position among the page's <table> elements
	DateCol    int
	TotalCol   int
	NetCol     int
}

// DefaultSelector matches the covidlive daily-cases page.
var DefaultSelector = Selector{TableIndex: 1, DateCol: 0, TotalCol: 1, NetCol: 3}

func (s Selector) String() string {
	return fmt.Sprintf("table[%d] cols(date=%d,total=%d,net=%d)", s.TableIndex, s.DateCol, s.TotalCol, s.NetCol)
}

func (s Selector) width() int {
	return max(s.DateCol, s.TotalCol, s.NetCol) + 1
}

// ExtractRows parses an HTML document and returns the selected table's body
// rows in document order. Rows made only of header cells are skipped.
func ExtractRows(r io.Reader, sel Selector) ([]domain.RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", domain.ErrFetch, err)
	}

	tables := doc.Find("table")
	if sel.TableIndex >= tables.Length() {
		return nil, fmt.Errorf("%w: %s not found, page has %d tables", domain.ErrFetch, sel, tables.Length())
	}
	table := tables.Eq(sel.TableIndex)

	var (
		rows    []domain.RawRow
		rowErr  error
		minCols = sel.width()
	)
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return true
		}
		if cells.Length() < minCols {
			rowErr = fmt.Errorf("%w: %s row %d has %d cells, want at least %d",
				domain.ErrFetch, sel, i, cells.Length(), minCols)
			return false
		}
		rows = append(rows, domain.RawRow{
			Date:  cellText(cells, sel.DateCol),
			Total: cellText(cells, sel.TotalCol),
			Net:   cellText(cells, sel.NetCol),
		})
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", domain.ErrFetch, sel)
	}
	return rows, nil
}

func cellText(cells *goquery.Selection, i int) string {
	return strings.TrimSpace(cells.Eq(i).Text())
}
