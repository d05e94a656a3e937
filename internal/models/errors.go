package models

import (
	"errors"
	"fmt"
)

// ErrorKind groups domain errors by what the caller should do about them.
type ErrorKind string

const (
	// KindValidation means the input was wrong; fix it and retry.
	KindValidation ErrorKind = "validation"
	// KindState means the request is valid but the current state forbids it.
	KindState ErrorKind = "state"
	// KindImmutable means the expense is frozen by a finalized settlement.
	KindImmutable ErrorKind = "immutable"
	// KindNotFound means the referenced entity does not exist.
	KindNotFound ErrorKind = "not_found"
	// KindPermission means the caller is not allowed to act on the entity.
	KindPermission ErrorKind = "permission"
)

// DomainError is a typed, caller-visible failure.
// Two DomainErrors match under errors.Is when their codes are equal, so a
// sentinel with a specific message still compares equal to the sentinel.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches on Code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrapf returns a copy of e carrying a specific message.
func (e *DomainError) Wrapf(format string, args ...any) *DomainError {
	return &DomainError{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: fmt.Sprintf(format, args...),
	}
}

func newDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// Validation errors.
var (
	ErrNoParticipants = newDomainError(KindValidation, "NO_PARTICIPANTS", "at least one participant is required")
	ErrInvalidAmount  = newDomainError(KindValidation, "INVALID_AMOUNT", "amount must be a positive number of cents")
	ErrShareMismatch  = newDomainError(KindValidation, "SHARE_MISMATCH", "shares do not add up to the expense total")
	ErrInvalidShare   = newDomainError(KindValidation, "INVALID_SHARE", "every participant needs a non-negative share")
	ErrInvalidPolicy  = newDomainError(KindValidation, "INVALID_POLICY", "split policy must be EQUAL or FIXED")
	ErrInvalidInput   = newDomainError(KindValidation, "INVALID_INPUT", "invalid input")
)

// State errors.
var (
	ErrConflict        = newDomainError(KindState, "CONFLICT", "an open settlement already exists for this household")
	ErrInvalidState    = newDomainError(KindState, "INVALID_STATE", "settlement is not open")
	ErrNothingToSettle = newDomainError(KindState, "NOTHING_TO_SETTLE", "all balances are zero")
)

var (
	ErrImmutableExpense = newDomainError(KindImmutable, "IMMUTABLE_EXPENSE", "expense is part of a finalized settlement")
	ErrNotFound         = newDomainError(KindNotFound, "NOT_FOUND", "not found")
	ErrPermissionDenied = newDomainError(KindPermission, "PERMISSION_DENIED", "permission denied")
)

// AsDomainError extracts the DomainError from an error chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// KindOf returns the kind of a domain error, or "" for infrastructure errors.
func KindOf(err error) ErrorKind {
	if de, ok := AsDomainError(err); ok {
		return de.Kind
	}
	return ""
}
