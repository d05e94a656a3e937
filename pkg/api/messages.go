package api

import "time"

// SettlementService messages.

type GetBalancesRequest struct {
	HouseholdID string `json:"household_id"`
}

type GetBalancesResponse struct {
	HouseholdID string     `json:"household_id"`
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	Balances    []Balance  `json:"balances"`
	Transfers   []Transfer `json:"transfers"`
}

type OpenSettlementRequest struct {
	HouseholdID string `json:"household_id"`
}

type OpenSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type FinalizeSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type FinalizeSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type GetOpenSettlementRequest struct {
	HouseholdID string `json:"household_id"`
}

type GetOpenSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type GetSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type GetSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementHistoryRequest struct {
	HouseholdID string `json:"household_id"`
	// Limit defaults to the server's page size when zero.
	Limit int `json:"limit,omitempty"`
}

type ListSettlementHistoryResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

// ExpenseService messages.

type CreateExpenseRequest struct {
	HouseholdID  string   `json:"household_id"`
	Description  string   `json:"description"`
	AmountCents  int64    `json:"amount_cents"`
	SplitPolicy  string   `json:"split_policy"`
	Participants []string `json:"participants,omitempty"`
	// FixedShares is required for FIXED and rejected for EQUAL.
	FixedShares []Share `json:"fixed_shares,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	HouseholdID string `json:"household_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// ListMyExpensesRequest asks for the caller's own expenses in every household.
type ListMyExpensesRequest struct{}

type ListMyExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type UpdateExpenseRequest struct {
	ExpenseID   string  `json:"expense_id"`
	Description *string `json:"description,omitempty"`
	AmountCents *int64  `json:"amount_cents,omitempty"`
	FixedShares []Share `json:"fixed_shares,omitempty"`
}

type UpdateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}

// HouseholdService messages.

type CreateHouseholdRequest struct {
	Name string `json:"name"`
}

type CreateHouseholdResponse struct {
	Household *Household `json:"household"`
}

type JoinHouseholdRequest struct {
	InviteCode string `json:"invite_code"`
}

type JoinHouseholdResponse struct {
	Household *Household `json:"household"`
}

type ListHouseholdsRequest struct{}

type ListHouseholdsResponse struct {
	Households []*Household `json:"households"`
}

type ListMembersRequest struct {
	HouseholdID string `json:"household_id"`
}

type ListMembersResponse struct {
	Members []Member `json:"members"`
}

// AuthService messages.

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User *User `json:"user"`
}
