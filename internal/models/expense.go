package models

import (
	"fmt"
	"strings"
	"time"
)

// SplitPolicy decides how an expense total is divided into shares.
type SplitPolicy string

const (
	// SplitEqual divides the total evenly; leftover cents go to the
	// participants with the lowest member IDs.
	SplitEqual SplitPolicy = "EQUAL"

	// SplitFixed uses caller-supplied amounts that must add up to the total.
	SplitFixed SplitPolicy = "FIXED"
)

// ParseSplitPolicy accepts the canonical upper-case name, case-insensitively.
func ParseSplitPolicy(s string) (SplitPolicy, error) {
	switch SplitPolicy(strings.ToUpper(strings.TrimSpace(s))) {
	case SplitEqual:
		return SplitEqual, nil
	case SplitFixed:
		return SplitFixed, nil
	}
	return "", ErrInvalidPolicy.Wrapf("unknown split policy %q", s)
}

// ExpenseStatus tracks soft deletion.
type ExpenseStatus string

const (
	ExpenseActive  ExpenseStatus = "ACTIVE"
	ExpenseDeleted ExpenseStatus = "DELETED"
)

// Expense is a single purchase paid by one member and shared by several.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// HouseholdID is the household the expense is recorded in.
	HouseholdID string

	// Description is free text, e.g. "Groceries".
	Description string

	// AmountCents is the total paid. Always positive.
	AmountCents int64

	// PayerID is the member who paid the full amount.
	PayerID string

	// Split is the policy the shares were computed with.
	Split SplitPolicy

	// Shares are ordered by member ID and sum to AmountCents.
	Shares []Share

	// Status is ACTIVE until the payer deletes the expense.
	Status ExpenseStatus

	// CreatedAt places the expense inside a settlement period.
	CreatedAt time.Time

	// UpdatedAt is the time of the last description or amount change.
	UpdatedAt time.Time
}

// Participants returns the member IDs the expense is shared with, in share order.
func (e *Expense) Participants() []string {
	ids := make([]string, len(e.Shares))
	for i, s := range e.Shares {
		ids[i] = s.MemberID
	}
	return ids
}

// Share is one member's portion of a single expense.
type Share struct {
	MemberID    string
	AmountCents int64
}

func (s Share) String() string {
	return fmt.Sprintf("%s:%d", s.MemberID, s.AmountCents)
}
