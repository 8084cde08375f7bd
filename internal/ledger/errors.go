package ledger

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError with errors.Is.
var ErrValidation = errors.New("validation failed")

// LedgerError is a custom error type for rejected ledger input.
type LedgerError string

// Error implements the error interface
func (e LedgerError) Error() string {
	return string(e)
}

const (
	ErrSamePlayer        LedgerError = "home and away player must differ"
	ErrSameTeam          LedgerError = "home and away team must differ"
	ErrUnknownPlayer     LedgerError = "player is not on the roster"
	ErrNegativeScore     LedgerError = "score cannot be negative"
	ErrEmptyTeam         LedgerError = "team name cannot be empty"
	ErrEmptyMatchID      LedgerError = "match id cannot be empty"
	ErrDuplicateMatchID  LedgerError = "match id is used more than once"
	ErrEmptyRoster       LedgerError = "roster cannot be empty"
	ErrEmptyPlayerName   LedgerError = "player name cannot be empty"
	ErrDuplicatePlayer   LedgerError = "player is listed more than once"
	ErrNilLedger         LedgerError = "ledger cannot be nil"
	ErrInconsistentStats LedgerError = "player statistics are inconsistent"
)

// ValidationError reports input that was rejected before any state changed.
type ValidationError struct {
	Field string
	Value string
	Err   LedgerError
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, value string, err LedgerError) *ValidationError {
	return &ValidationError{Field: field, Value: value, Err: err}
}
