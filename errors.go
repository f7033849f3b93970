package funckeeper

import (
	"errors"
	"fmt"

	"github.com/roach88/funckeeper/internal/export"
	"github.com/roach88/funckeeper/internal/store"
)

// ErrNotFound is returned by record lookups for an unknown id.
var ErrNotFound = store.ErrNotFound

// ExportError reports an invalid export request: unknown export type or
// data whose shape does not match the requested type.
type ExportError = export.ExportError

// StorageError wraps a failure of the underlying record store. Lookups for
// a missing id return ErrNotFound, not a StorageError.
type StorageError struct {
	Op  string // the storage operation that failed
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("funckeeper: storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err signals a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsStorageError extracts a StorageError from err's chain.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	ok := errors.As(err, &se)
	return se, ok
}

// AsExportError extracts an ExportError from err's chain.
func AsExportError(err error) (*ExportError, bool) {
	var ee *ExportError
	ok := errors.As(err, &ee)
	return ee, ok
}

func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return &StorageError{Op: op, Err: err}
}
