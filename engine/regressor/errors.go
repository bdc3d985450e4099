package regressor

import (
	"errors"
	"fmt"
)

var (
	// ErrTableNotFound reports a reference that does not resolve to a table.
	ErrTableNotFound = errors.New("regressor table not found")
	// ErrMalformedTable reports a table that exists but cannot be decoded.
	ErrMalformedTable = errors.New("malformed regressor table")
)

// DataLoadError is returned by every Source when a table cannot be loaded.
type DataLoadError struct {
	Ref string
	Err error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("failed to load regressor table %q: %v", e.Ref, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

func newLoadError(ref string, err error) error {
	var loadErr *DataLoadError
	if errors.As(err, &loadErr) {
		return err
	}
	return &DataLoadError{Ref: ref, Err: err}
}
