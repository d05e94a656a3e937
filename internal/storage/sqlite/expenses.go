package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/hearth/internal/models"
)

const expenseColumns = `id, household_id, payer_id, description, amount_cents, split_policy, status, created_at, updated_at`

// CreateExpense persists a new expense and its shares.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}
	if expense.UpdatedAt.IsZero() {
		expense.UpdatedAt = expense.CreatedAt
	}
	if expense.Status == "" {
		expense.Status = models.ExpenseActive
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.HouseholdID, expense.PayerID, expense.Description, expense.AmountCents,
		string(expense.Split), string(expense.Status), toNanos(expense.CreatedAt), toNanos(expense.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertShares(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for i, share := range expense.Shares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, member_id, position, amount_cents) VALUES (?, ?, ?, ?)",
			expense.ID, share.MemberID, i, share.AmountCents,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

// GetExpense retrieves an expense by ID, including deleted ones.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`,
		expenseID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound.Wrapf("expense not found: %s", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	shares, err := s.loadShares(ctx, "s.expense_id = ?", expenseID)
	if err != nil {
		return nil, err
	}
	expense.Shares = shares[expense.ID]
	return expense, nil
}

// UpdateExpense replaces the mutable fields and the shares of an expense.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.UpdatedAt.IsZero() {
		expense.UpdatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"UPDATE expenses SET description = ?, amount_cents = ?, updated_at = ? WHERE id = ? AND status = ?",
		expense.Description, expense.AmountCents, toNanos(expense.UpdatedAt), expense.ID, string(models.ExpenseActive),
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.ErrNotFound.Wrapf("expense not found: %s", expense.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_shares WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to delete old shares: %w", err)
	}
	if err := insertShares(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense soft-deletes an expense.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		string(models.ExpenseDeleted), toNanos(at), expenseID, string(models.ExpenseActive),
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.ErrNotFound.Wrapf("expense not found: %s", expenseID)
	}
	return nil
}

// LoadExpensesSince returns active expenses with since < created_at <= until, oldest first.
func (s *SQLiteStore) LoadExpensesSince(ctx context.Context, householdID string, since, until time.Time) ([]models.Expense, error) {
	return s.listExpenses(ctx,
		"e.household_id = ? AND e.status = ? AND e.created_at > ? AND e.created_at <= ?",
		"e.created_at ASC, e.id ASC",
		householdID, string(models.ExpenseActive), toNanos(since), toNanos(until),
	)
}

// ListExpenses returns all active expenses of a household, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, householdID string) ([]models.Expense, error) {
	return s.listExpenses(ctx,
		"e.household_id = ? AND e.status = ?",
		"e.created_at DESC, e.id ASC",
		householdID, string(models.ExpenseActive),
	)
}

// ListExpensesByPayer returns the user's active expenses across their households, newest first.
func (s *SQLiteStore) ListExpensesByPayer(ctx context.Context, payerID string) ([]models.Expense, error) {
	return s.listExpenses(ctx,
		`e.payer_id = ? AND e.status = ? AND e.household_id IN
		 (SELECT m.household_id FROM household_members m WHERE m.user_id = ?)`,
		"e.created_at DESC, e.id ASC",
		payerID, string(models.ExpenseActive), payerID,
	)
}

// listExpenses loads matching expenses, then their shares in a second query.
// The two queries run one after the other so that a single connection suffices.
func (s *SQLiteStore) listExpenses(ctx context.Context, where, orderBy string, args ...any) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.household_id, e.payer_id, e.description, e.amount_cents, e.split_policy, e.status, e.created_at, e.updated_at
		 FROM expenses e WHERE `+where+` ORDER BY `+orderBy,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	shares, err := s.loadShares(ctx,
		"s.expense_id IN (SELECT e.id FROM expenses e WHERE "+where+")", args...)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].Shares = shares[expenses[i].ID]
	}
	return expenses, nil
}

// loadShares returns shares grouped by expense ID, each group in position order.
func (s *SQLiteStore) loadShares(ctx context.Context, where string, args ...any) (map[string][]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.expense_id, s.member_id, s.amount_cents FROM expense_shares s
		 WHERE `+where+` ORDER BY s.expense_id, s.position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	shares := make(map[string][]models.Share)
	for rows.Next() {
		var expenseID string
		var share models.Share
		if err := rows.Scan(&expenseID, &share.MemberID, &share.AmountCents); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		shares[expenseID] = append(shares[expenseID], share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	e := &models.Expense{}
	var split, status string
	var createdAt, updatedAt int64
	if err := row.Scan(&e.ID, &e.HouseholdID, &e.PayerID, &e.Description, &e.AmountCents,
		&split, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	e.Split = models.SplitPolicy(split)
	e.Status = models.ExpenseStatus(status)
	e.CreatedAt = fromNanos(createdAt)
	e.UpdatedAt = fromNanos(updatedAt)
	return e, nil
}
