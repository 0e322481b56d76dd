package dataprocessing

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for the cleaning and aggregation engine. Callers match
// them with errors.Is; richer context is attached with fmt.Errorf("...: %w").
var (
	// ErrMalformedValue marks a single cell that could not be normalized.
	// The containing row is dropped and counted, never fatal to the upload.
	ErrMalformedValue = errors.New("malformed value")

	// ErrSchema marks a worksheet missing a required column. The sheet is
	// skipped and counted; other sheets may still succeed.
	ErrSchema = errors.New("sheet schema error")

	// ErrEmptyResult means an upload produced zero valid records after
	// cleaning. The upload fails and any previous record set stays current.
	ErrEmptyResult = errors.New("no valid attendance records in workbook")

	// ErrInvalidConfiguration marks bad formatter or engine parameters.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// SchemaError describes why a sheet failed schema validation.
type SchemaError struct {
	Sheet   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sheet %q missing required columns %v", e.Sheet, e.Missing)
}

// Unwrap lets errors.Is match ErrSchema.
func (e *SchemaError) Unwrap() error { return ErrSchema }
