package models

import "time"

// SettlementStatus is the lifecycle state of a settlement.
// A settlement is created OPEN and can only move to FINALIZED.
type SettlementStatus string

const (
	SettlementOpen      SettlementStatus = "OPEN"
	SettlementFinalized SettlementStatus = "FINALIZED"
)

// Balance is one member's net position for a settlement period.
// Positive means the household owes the member; negative means the member
// owes the household.
type Balance struct {
	MemberID    string
	DisplayName string
	NetCents    int64
}

// Transfer is a directed payment that moves money from a debtor to a creditor.
type Transfer struct {
	FromMemberID string
	ToMemberID   string
	AmountCents  int64
}

// Settlement is a snapshot of balances and the transfers that zero them.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// HouseholdID is the household this settlement belongs to.
	HouseholdID string

	// Status is OPEN or FINALIZED.
	Status SettlementStatus

	// PeriodStart is the previous finalized settlement's PeriodEnd, or the
	// household creation time for the first settlement.
	PeriodStart time.Time

	// PeriodEnd is fixed when the settlement is opened. Expenses created
	// after it belong to the next period.
	PeriodEnd time.Time

	// Balances is the per-member snapshot, ordered by member ID.
	Balances []Balance

	// Transfers is the payment plan, in the order the reducer emitted it.
	Transfers []Transfer

	// CreatedAt is when the settlement was opened.
	CreatedAt time.Time

	// CreatedBy is the user who opened the settlement.
	CreatedBy string

	// FinalizedAt is set once, by the transition to FINALIZED.
	FinalizedAt *time.Time
}

// IsOpen reports whether the settlement can still be finalized.
func (s *Settlement) IsOpen() bool {
	return s.Status == SettlementOpen
}
