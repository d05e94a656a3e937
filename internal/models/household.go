package models

import "time"

// Role is a member's role inside a household.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

// Household is the top-level grouping that owns members, expenses and
// settlements.
type Household struct {
	// ID is the unique identifier for the household (UUID format).
	ID string

	// Name is the display name (e.g., "Flat 3B").
	Name string

	// InviteCode is the 8 character upper-case code other users join with.
	InviteCode string

	// OwnerID is the user who created the household.
	OwnerID string

	// CreatedAt is the start of the first settlement period.
	CreatedAt time.Time
}

// Membership links a user to a household.
type Membership struct {
	HouseholdID string
	UserID      string
	Role        Role
	JoinedAt    time.Time
}
