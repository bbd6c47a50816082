package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for a pipeline run. Everything except ErrExport is fatal.
var (
	ErrFetch          = errors.New("fetch source table")
	ErrMalformedDate  = errors.New("malformed date")
	ErrMalformedCount = errors.New("malformed count")
	ErrSourceOrder    = errors.New("source rows out of order")
	ErrEmptySeries    = errors.New("empty series")
	ErrConfig         = errors.New("invalid configuration")
	ErrExport         = errors.New("export series")
	ErrRender         = errors.New("render chart")
)

// RowError locates a normalization failure within the raw table.
type RowError struct {
	Index int    // zero-based position in the raw row slice
	Field string // "date", "total" or "net"
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s %q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
