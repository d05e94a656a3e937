// Package api defines the wire schema of the hearth Connect services.
//
// Every message has exactly one shape. Amounts are integer cents, timestamps
// are RFC 3339 strings, and unknown fields are rejected by the codec in
// package apiconnect.
package api

import "time"

// User is a registered account.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Household owns members, expenses and settlements.
type Household struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code"`
	OwnerID    string    `json:"owner_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Member is a user inside one household.
type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Share is one member's portion of an expense.
type Share struct {
	MemberID    string `json:"member_id"`
	AmountCents int64  `json:"amount_cents"`
}

// Expense is a purchase paid by one member and shared by several.
type Expense struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	PayerID     string    `json:"payer_id"`
	SplitPolicy string    `json:"split_policy"`
	Shares      []Share   `json:"shares"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Balance is a member's net position. Positive means the household owes
// the member.
type Balance struct {
	MemberID    string `json:"member_id"`
	DisplayName string `json:"display_name"`
	NetCents    int64  `json:"net_cents"`
}

// Transfer is a payment from a debtor to a creditor.
type Transfer struct {
	FromMemberID string `json:"from_member_id"`
	ToMemberID   string `json:"to_member_id"`
	AmountCents  int64  `json:"amount_cents"`
}

// Settlement is a snapshot of balances and the transfers that zero them.
type Settlement struct {
	ID          string     `json:"id"`
	HouseholdID string     `json:"household_id"`
	Status      string     `json:"status"`
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	Balances    []Balance  `json:"balances"`
	Transfers   []Transfer `json:"transfers"`
	CreatedAt   time.Time  `json:"created_at"`
	CreatedBy   string     `json:"created_by"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
}
