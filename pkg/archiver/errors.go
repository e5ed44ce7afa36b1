package archiver

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned when the source directory is missing or is
	// not a directory. It is a soft outcome: nothing was archived and the caller
	// can simply retry once the build output exists.
	ErrSourceNotFound = errors.New("source directory not found")

	// ErrEmptyPath is returned when the source or archive path is empty.
	ErrEmptyPath = errors.New("source and archive paths must be non-empty")
)

// RemoveError reports a failure to delete a previous archive.
type RemoveError struct {
	Path string
	Err  error
}

func (e *RemoveError) Error() string {
	return fmt.Sprintf("failed to remove previous archive %s: %v", e.Path, e.Err)
}

func (e *RemoveError) Unwrap() error { return e.Err }

// IsSoft reports whether err is the expected missing-source outcome rather
// than a failure of the run.
func IsSoft(err error) bool {
	return errors.Is(err, ErrSourceNotFound)
}
