package storage

import (
	"errors"
	"fmt"
)

// ErrNoHost is returned when a page URL has no host component to name the
// saved file after.
var ErrNoHost = errors.New("url has no host")

// FileError records a failed filesystem operation on a saved artifact.
type FileError struct {
	// Op is the operation that failed ("save", "create", "write", "remove").
	Op string

	// Path is the file the operation was applied to.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}
