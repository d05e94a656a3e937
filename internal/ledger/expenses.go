package ledger

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/mmynk/hearth/internal/calculator"
	"github.com/mmynk/hearth/internal/models"
)

// NewExpense is the input of CreateExpense.
type NewExpense struct {
	HouseholdID string
	Description string
	AmountCents int64
	PayerID     string
	Split       models.SplitPolicy
	// Participants may be left empty for FIXED splits; the keys of
	// FixedShares are used instead.
	Participants []string
	FixedShares  map[string]int64
}

// ExpenseUpdate changes an expense. Nil fields are left as they are.
type ExpenseUpdate struct {
	Description *string
	AmountCents *int64
	// FixedShares replaces the amounts of a FIXED expense. Changing the
	// amount of a FIXED expense requires new shares.
	FixedShares map[string]int64
}

// CreateExpense validates and records a new expense paid by in.PayerID.
// The expense always lands in the household's next unsettled period.
func (l *Ledger) CreateExpense(ctx context.Context, in NewExpense) (*models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, models.ErrInvalidInput.Wrapf("description is required")
	}

	household, err := l.store.GetHousehold(ctx, in.HouseholdID)
	if err != nil {
		return nil, err
	}

	participants := in.Participants
	if len(participants) == 0 && in.Split == models.SplitFixed {
		for id := range in.FixedShares {
			participants = append(participants, id)
		}
		sort.Strings(participants)
	}
	shares, err := calculator.ComputeShares(in.AmountCents, in.Split, participants, in.FixedShares)
	if err != nil {
		return nil, err
	}

	unlock := l.locks.lock(household.ID)
	defer unlock()

	if err := l.checkMembers(ctx, household.ID, in.PayerID, shares); err != nil {
		return nil, err
	}

	createdAt, err := l.nextExpenseTime(ctx, household)
	if err != nil {
		return nil, err
	}

	expense := &models.Expense{
		HouseholdID: household.ID,
		Description: description,
		AmountCents: in.AmountCents,
		PayerID:     in.PayerID,
		Split:       in.Split,
		Shares:      shares,
		Status:      models.ExpenseActive,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	if err := l.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	l.recorder.ExpenseChanged("create")
	l.logger.Debug("expense created",
		"expense_id", expense.ID,
		"household_id", household.ID,
		"amount_cents", expense.AmountCents,
		"split", expense.Split,
	)
	return expense, nil
}

// UpdateExpense changes the description, amount or fixed shares of an
// expense. Only the payer may update it, and never once a finalized
// settlement covers it.
func (l *Ledger) UpdateExpense(ctx context.Context, expenseID, actorID string, upd ExpenseUpdate) (*models.Expense, error) {
	expense, err := l.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	unlock := l.locks.lock(expense.HouseholdID)
	defer unlock()

	// Re-read under the lock; the expense may have changed meanwhile.
	expense, err = l.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := l.checkMutable(ctx, expense, actorID); err != nil {
		return nil, err
	}

	if upd.Description != nil {
		description := strings.TrimSpace(*upd.Description)
		if description == "" {
			return nil, models.ErrInvalidInput.Wrapf("description cannot be empty")
		}
		expense.Description = description
	}

	amount := expense.AmountCents
	if upd.AmountCents != nil {
		amount = *upd.AmountCents
	}
	if amount != expense.AmountCents || upd.FixedShares != nil {
		shares, err := reshare(expense, amount, upd.FixedShares)
		if err != nil {
			return nil, err
		}
		if err := l.checkMembers(ctx, expense.HouseholdID, expense.PayerID, shares); err != nil {
			return nil, err
		}
		expense.AmountCents = amount
		expense.Shares = shares
	}

	expense.UpdatedAt = l.clock()
	if err := l.store.UpdateExpense(ctx, expense); err != nil {
		return nil, err
	}

	l.recorder.ExpenseChanged("update")
	l.logger.Debug("expense updated", "expense_id", expense.ID, "amount_cents", expense.AmountCents)
	return expense, nil
}

// reshare recomputes shares for a new amount. EQUAL expenses are split again
// among the same participants. FIXED expenses use the supplied amounts, or
// the current ones, which then must still add up.
func reshare(expense *models.Expense, amount int64, fixed map[string]int64) ([]models.Share, error) {
	switch expense.Split {
	case models.SplitEqual:
		if fixed != nil {
			return nil, models.ErrInvalidInput.Wrapf("fixed shares cannot be set on an EQUAL expense")
		}
		return calculator.ComputeShares(amount, models.SplitEqual, expense.Participants(), nil)
	case models.SplitFixed:
		if fixed == nil {
			fixed = make(map[string]int64, len(expense.Shares))
			for _, s := range expense.Shares {
				fixed[s.MemberID] = s.AmountCents
			}
		}
		participants := make([]string, 0, len(fixed))
		for id := range fixed {
			participants = append(participants, id)
		}
		return calculator.ComputeShares(amount, models.SplitFixed, participants, fixed)
	default:
		return nil, models.ErrInvalidPolicy.Wrapf("unknown split policy %q", expense.Split)
	}
}

// DeleteExpense soft-deletes an expense. Only the payer may delete it, and
// never once a finalized settlement covers it.
func (l *Ledger) DeleteExpense(ctx context.Context, expenseID, actorID string) error {
	expense, err := l.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}

	unlock := l.locks.lock(expense.HouseholdID)
	defer unlock()

	expense, err = l.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if err := l.checkMutable(ctx, expense, actorID); err != nil {
		return err
	}

	if err := l.store.DeleteExpense(ctx, expenseID, l.clock()); err != nil {
		return err
	}

	l.recorder.ExpenseChanged("delete")
	l.logger.Debug("expense deleted", "expense_id", expenseID, "household_id", expense.HouseholdID)
	return nil
}

// GetExpense returns an active expense. Deleted expenses are not found.
func (l *Ledger) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status == models.ExpenseDeleted {
		return nil, models.ErrNotFound.Wrapf("expense not found: %s", expenseID)
	}
	return expense, nil
}

// ListExpenses returns the household's active expenses, newest first.
func (l *Ledger) ListExpenses(ctx context.Context, householdID string) ([]models.Expense, error) {
	return l.store.ListExpenses(ctx, householdID)
}

// ListPayerExpenses returns the active expenses userID paid, across all of
// their households, newest first.
func (l *Ledger) ListPayerExpenses(ctx context.Context, userID string) ([]models.Expense, error) {
	return l.store.ListExpensesByPayer(ctx, userID)
}

// checkMutable enforces payer ownership and finalized-period immutability.
func (l *Ledger) checkMutable(ctx context.Context, expense *models.Expense, actorID string) error {
	if expense.PayerID != actorID {
		return models.ErrPermissionDenied.Wrapf("only the payer can change expense %s", expense.ID)
	}
	latest, err := l.store.LatestFinalizedSettlement(ctx, expense.HouseholdID)
	if err != nil {
		return err
	}
	if latest != nil && !expense.CreatedAt.After(latest.PeriodEnd) {
		return models.ErrImmutableExpense.Wrapf("expense %s is covered by settlement %s", expense.ID, latest.ID)
	}
	return nil
}

// checkMembers requires the payer and every share owner to belong to the household.
func (l *Ledger) checkMembers(ctx context.Context, householdID, payerID string, shares []models.Share) error {
	members, err := l.store.ListMembers(ctx, householdID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
	}
	if !known[payerID] {
		return models.ErrInvalidInput.Wrapf("payer %s is not a member of household %s", payerID, householdID)
	}
	for _, s := range shares {
		if !known[s.MemberID] {
			return models.ErrInvalidShare.Wrapf("%s is not a member of household %s", s.MemberID, householdID)
		}
	}
	return nil
}

// nextExpenseTime returns now, moved forward when needed so the expense is
// strictly after the household's creation and the latest settlement's period end.
func (l *Ledger) nextExpenseTime(ctx context.Context, household *models.Household) (time.Time, error) {
	at := l.clock()
	floor := household.CreatedAt

	latest, err := l.store.LatestSettlement(ctx, household.ID)
	if err != nil {
		return time.Time{}, err
	}
	if latest != nil && latest.PeriodEnd.After(floor) {
		floor = latest.PeriodEnd
	}
	if !at.After(floor) {
		at = floor.Add(time.Nanosecond)
	}
	return at, nil
}
