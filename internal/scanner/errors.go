package scanner

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyPath is wrapped by InvalidPathError when no root was given.
	ErrEmptyPath = errors.New("path cannot be empty")

	// ErrNotDirectory is wrapped by InvalidPathError when the root is a file.
	ErrNotDirectory = errors.New("not a directory")
)

// InvalidPathError reports a root that is missing or not a directory. It is
// raised before any traversal starts.
type InvalidPathError struct {
	Path string
	Err  error
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid directory %q: %v", e.Path, e.Err)
}

func (e *InvalidPathError) Unwrap() error { return e.Err }

// ScanError reports an I/O failure that aborted a scan.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to scan %q: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }
