package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse indicates a notebook is not well-formed JSON or lacks a cells array.
	ErrParse = errors.New("parse error")

	// ErrResolution indicates a required capability could not be imported.
	// It is reported as a FAIL entry, never as a batch failure.
	ErrResolution = errors.New("capability not resolvable")

	// ErrProbe indicates the isolated import probe itself misbehaved:
	// it timed out, exited non-zero or produced unparseable output.
	ErrProbe = errors.New("import probe failed")

	// ErrIO indicates a file was missing or could not be written.
	ErrIO = errors.New("i/o error")

	// ErrAlreadyFinished indicates an execution log has already been finished.
	ErrAlreadyFinished = errors.New("execution already finished")

	// ErrUnsupportedFormat indicates a dataset file format that cannot be read.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidSetting indicates an unknown settings key or an unusable value.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrNoCredential indicates the environment variable holding a data source
	// credential is not set.
	ErrNoCredential = errors.New("credential not set")
)

// ParseError reports a notebook that could not be decoded.
type ParseError struct {
	// Name is the notebook file name, if known.
	Name string

	// Err is the underlying decode failure.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("parse notebook: %v", e.Err)
	}
	return fmt.Sprintf("parse notebook %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is reports ErrParse so callers can match any ParseError with errors.Is.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
