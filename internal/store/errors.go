package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by Load when no ledger has been saved.
	ErrNotFound = errors.New("no saved ledger")

	// ErrPersistence matches every *PersistenceError with errors.Is.
	ErrPersistence = errors.New("persistence failed")
)

// PersistenceError reports a failed read or write of the ledger image.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s ledger: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

func loadErr(err error) error {
	return &PersistenceError{Op: "load", Err: err}
}

func saveErr(err error) error {
	return &PersistenceError{Op: "save", Err: err}
}
