// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/hearth/internal/models"
)

// ErrDuplicateEmail is returned by CreateUser when another account already
// uses the email.
var ErrDuplicateEmail = errors.New("email already in use")

// Store defines the interface for everything hearth persists.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger or service layers.
//
// Lookups of a single entity return an error matching models.ErrNotFound
// when the entity does not exist.
type Store interface {
	UserStore
	HouseholdStore
	ExpenseStore
	SettlementStore

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser fails with ErrDuplicateEmail when the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns nil and no error when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns nil and no error when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// HouseholdStore persists households and their memberships.
type HouseholdStore interface {
	// CreateHousehold persists a household and makes its owner the first member.
	// The household.ID, InviteCode and CreatedAt fields are populated when empty.
	CreateHousehold(ctx context.Context, household *models.Household) error

	GetHousehold(ctx context.Context, householdID string) (*models.Household, error)
	GetHouseholdByInviteCode(ctx context.Context, code string) (*models.Household, error)

	// AddMember is a no-op when the user is already a member.
	AddMember(ctx context.Context, m *models.Membership) error

	// ListMembers returns the household roster ordered by user ID.
	ListMembers(ctx context.Context, householdID string) ([]models.Member, error)

	IsMember(ctx context.Context, householdID, userID string) (bool, error)

	// ListHouseholdsForUser returns every household the user belongs to.
	ListHouseholdsForUser(ctx context.Context, userID string) ([]*models.Household, error)
}

// ExpenseStore persists expenses and their shares.
type ExpenseStore interface {
	// CreateExpense persists an expense with its shares in one transaction.
	// The expense.ID field will be populated by the store when empty.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces description, amount and shares of an expense.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense marks the expense DELETED.
	DeleteExpense(ctx context.Context, expenseID string, at time.Time) error

	// LoadExpensesSince returns active expenses with since < created_at <= until,
	// oldest first.
	LoadExpensesSince(ctx context.Context, householdID string, since, until time.Time) ([]models.Expense, error)

	// ListExpenses returns active expenses of a household, newest first.
	ListExpenses(ctx context.Context, householdID string) ([]models.Expense, error)

	// ListExpensesByPayer returns the active expenses a user paid in every
	// household they belong to, newest first.
	ListExpensesByPayer(ctx context.Context, payerID string) ([]models.Expense, error)
}

// SettlementStore persists settlement snapshots.
type SettlementStore interface {
	// CreateSettlement persists a settlement with its balances and transfers
	// in one transaction. It fails with models.ErrConflict if the household
	// already has an OPEN settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// GetOpenSettlement returns the household's OPEN settlement, if any.
	GetOpenSettlement(ctx context.Context, householdID string) (*models.Settlement, error)

	// LatestFinalizedSettlement returns nil and no error when the household
	// has never finalized a settlement.
	LatestFinalizedSettlement(ctx context.Context, householdID string) (*models.Settlement, error)

	// LatestSettlement returns the most recently opened settlement regardless
	// of status, or nil.
	LatestSettlement(ctx context.Context, householdID string) (*models.Settlement, error)

	// FinalizeSettlement moves an OPEN settlement to FINALIZED. It fails with
	// models.ErrInvalidState if the settlement is not OPEN.
	FinalizeSettlement(ctx context.Context, settlementID string, at time.Time) error

	// ListSettlements returns settlements newest first, at most limit of them.
	ListSettlements(ctx context.Context, householdID string, limit int) ([]*models.Settlement, error)
}
