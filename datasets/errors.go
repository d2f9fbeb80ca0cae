package datasets

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidID signals an id field that is not a decimal integer.
	ErrInvalidID = errors.New("invalid data point id")
	// ErrMalformedRow signals a CSV row missing a required field.
	ErrMalformedRow = errors.New("malformed row")
	// ErrDirectoryNotFound signals a missing theme directory during a scan.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrInvalidEncoding signals invalid UTF-8 under the Strict decoding policy.
	ErrInvalidEncoding = errors.New("invalid text encoding")
)

// RowError reports a CSV row that could not be parsed.
type RowError struct {
	Path string
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// DirectoryError reports a theme directory that is missing from a dataset
// root.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("%v: %s", ErrDirectoryNotFound, e.Path)
}

func (e *DirectoryError) Unwrap() []error { return []error{ErrDirectoryNotFound, e.Err} }
