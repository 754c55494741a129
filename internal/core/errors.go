package core

import (
	"errors"
	"fmt"
	"strings"
)

// MissingColumnsMessage is the user-facing text for a file lacking required columns.
const MissingColumnsMessage = "Missing required columns from given file."

var (
	// ErrFileMissingColumn matches every *MissingColumnsError.
	ErrFileMissingColumn = errors.New(MissingColumnsMessage)
	ErrEmptyFile         = errors.New("empty file")
)

// ParseError reports a payload that is not well-formed comma-separated text.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse csv (line %d): %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse csv: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingColumnsError reports the required columns absent from a table.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return MissingColumnsMessage
}

// Detail lists the missing column names, for logs.
func (e *MissingColumnsError) Detail() string {
	return strings.Join(e.Missing, ", ")
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrFileMissingColumn
}

// DateParseError reports a timestamp cell that could not be read as a date.
type DateParseError struct {
	Row   int
	Value string
}

func (e *DateParseError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q", e.Row, ColTimestamp, e.Value)
}

// AmountParseError reports an amount cell that is not a decimal number.
type AmountParseError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *AmountParseError) Error() string {
	return fmt.Sprintf("row %d: invalid %s %q", e.Row, e.Column, e.Value)
}

func (e *AmountParseError) Unwrap() error { return e.Err }

// ProcessingError wraps an unexpected failure during composition. Kind is
// the Go type of the original error, kept for diagnostics.
type ProcessingError struct {
	Kind string
	Err  error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing error (%s): %v", e.Kind, e.Err)
}

func (e *ProcessingError) Unwrap() error { return e.Err }

// NewProcessingError wraps err, recording its type name.
func NewProcessingError(err error) *ProcessingError {
	return &ProcessingError{Kind: fmt.Sprintf("%T", err), Err: err}
}

// IsInputError reports whether err is one of the typed errors caused by the
// uploaded file itself (as opposed to an internal failure).
func IsInputError(err error) bool {
	var (
		pe *ParseError
		de *DateParseError
		ae *AmountParseError
	)
	return errors.Is(err, ErrFileMissingColumn) ||
		errors.As(err, &pe) ||
		errors.As(err, &de) ||
		errors.As(err, &ae)
}
