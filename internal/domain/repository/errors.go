package repository

import (
	"errors"
	"fmt"
)

// ErrStorage is matched by every StorageError.
var ErrStorage = errors.New("storage error")

// StorageError reports a failed read or write of the entry store.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStorage) true for any StorageError.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}
