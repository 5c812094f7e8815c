// Package parsererror defines the typed errors shared by the ingestion pipeline and the query engine.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrInvalidModelResponse is returned when the language model produced no usable output.
var ErrInvalidModelResponse = errors.New("invalid model response")

// ParseError represents an error during parsing of a single field
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NoTablesFoundError is returned by an extractor when a document contains no tabular data.
// It is not fatal: the document simply yields no transactions.
type NoTablesFoundError struct {
	FilePath string
}

func (e *NoTablesFoundError) Error() string {
	return fmt.Sprintf("no tables found in %s", e.FilePath)
}

// CategorizationError represents a classification failure. The classifier degrades
// to an empty mapping and logs it instead of returning it to callers.
type CategorizationError struct {
	Merchants int
	Stage     string
	Err       error
}

func (e *CategorizationError) Error() string {
	return fmt.Sprintf("classification of %d merchants failed at %s: %v",
		e.Merchants, e.Stage, e.Err)
}

func (e *CategorizationError) Unwrap() error {
	return e.Err
}

// UnknownCollectionError is returned when a logical collection name has no table mapping.
type UnknownCollectionError struct {
	Collection string
}

func (e *UnknownCollectionError) Error() string {
	return fmt.Sprintf("unknown collection %q", e.Collection)
}

// InvalidFormatError represents an input document the system cannot read.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// ValidationError represents a validation failure of an input file or argument
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}
