package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/hearth/internal/models"
)

const settlementColumns = `id, household_id, status, period_start, period_end, created_at, created_by, finalized_at`

// CreateSettlement persists a new settlement with its balances and transfers.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	// Generate ID if not set
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt.IsZero() {
		settlement.CreatedAt = time.Now().UTC()
	}
	if settlement.Status == "" {
		settlement.Status = models.SettlementOpen
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var finalizedAt any
	if settlement.FinalizedAt != nil {
		finalizedAt = toNanos(*settlement.FinalizedAt)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.HouseholdID, string(settlement.Status),
		toNanos(settlement.PeriodStart), toNanos(settlement.PeriodEnd),
		toNanos(settlement.CreatedAt), settlement.CreatedBy, finalizedAt,
	)
	if isUniqueViolation(err) {
		return models.ErrConflict.Wrapf("household %s already has an open settlement", settlement.HouseholdID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	for i, b := range settlement.Balances {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settlement_balances (settlement_id, position, member_id, display_name, net_cents)
			 VALUES (?, ?, ?, ?, ?)`,
			settlement.ID, i, b.MemberID, b.DisplayName, b.NetCents,
		)
		if err != nil {
			return fmt.Errorf("failed to insert balance: %w", err)
		}
	}

	for i, t := range settlement.Transfers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO settlement_transfers (settlement_id, position, from_member_id, to_member_id, amount_cents)
			 VALUES (?, ?, ?, ?, ?)`,
			settlement.ID, i, t.FromMemberID, t.ToMemberID, t.AmountCents,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transfer: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSettlement retrieves a settlement by ID with its balances and transfers.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := s.querySettlement(ctx, "id = ?", settlementID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, models.ErrNotFound.Wrapf("settlement not found: %s", settlementID)
	}
	return settlement, nil
}

// GetOpenSettlement returns the household's OPEN settlement.
func (s *SQLiteStore) GetOpenSettlement(ctx context.Context, householdID string) (*models.Settlement, error) {
	settlement, err := s.querySettlement(ctx,
		"household_id = ? AND status = ?", householdID, string(models.SettlementOpen))
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, models.ErrNotFound.Wrapf("no open settlement for household %s", householdID)
	}
	return settlement, nil
}

// LatestFinalizedSettlement returns the most recently finalized settlement, or nil.
func (s *SQLiteStore) LatestFinalizedSettlement(ctx context.Context, householdID string) (*models.Settlement, error) {
	return s.querySettlement(ctx,
		"household_id = ? AND status = ? ORDER BY period_end DESC, created_at DESC LIMIT 1",
		householdID, string(models.SettlementFinalized))
}

// LatestSettlement returns the most recently opened settlement, or nil.
func (s *SQLiteStore) LatestSettlement(ctx context.Context, householdID string) (*models.Settlement, error) {
	return s.querySettlement(ctx,
		"household_id = ? ORDER BY period_end DESC, created_at DESC LIMIT 1",
		householdID)
}

// FinalizeSettlement moves an OPEN settlement to FINALIZED.
func (s *SQLiteStore) FinalizeSettlement(ctx context.Context, settlementID string, at time.Time) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET status = ?, finalized_at = ? WHERE id = ? AND status = ?",
		string(models.SettlementFinalized), toNanos(at), settlementID, string(models.SettlementOpen),
	)
	if err != nil {
		return fmt.Errorf("failed to finalize settlement: %w", err)
	}
	if n, _ := result.RowsAffected(); n > 0 {
		return nil
	}

	// Nothing changed: either the settlement is missing or it is not OPEN.
	var status string
	err = s.db.QueryRowContext(ctx, "SELECT status FROM settlements WHERE id = ?", settlementID).Scan(&status)
	if err == sql.ErrNoRows {
		return models.ErrNotFound.Wrapf("settlement not found: %s", settlementID)
	}
	if err != nil {
		return fmt.Errorf("failed to check settlement status: %w", err)
	}
	return models.ErrInvalidState.Wrapf("settlement %s is %s", settlementID, status)
}

// ListSettlements returns settlements newest first, at most limit of them.
func (s *SQLiteStore) ListSettlements(ctx context.Context, householdID string, limit int) ([]*models.Settlement, error) {
	if limit <= 0 {
		return []*models.Settlement{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE household_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`,
		householdID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}

	settlements := []*models.Settlement{}
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	for _, settlement := range settlements {
		if err := s.loadSettlementDetails(ctx, settlement); err != nil {
			return nil, err
		}
	}
	return settlements, nil
}

// querySettlement loads the first settlement matching the clause, or nil.
func (s *SQLiteStore) querySettlement(ctx context.Context, clause string, args ...any) (*models.Settlement, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE `+clause,
		args...,
	)
	settlement, err := scanSettlement(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	if err := s.loadSettlementDetails(ctx, settlement); err != nil {
		return nil, err
	}
	return settlement, nil
}

// loadSettlementDetails attaches balances and transfers in position order.
func (s *SQLiteStore) loadSettlementDetails(ctx context.Context, settlement *models.Settlement) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member_id, display_name, net_cents FROM settlement_balances
		 WHERE settlement_id = ? ORDER BY position`,
		settlement.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get balances: %w", err)
	}
	settlement.Balances = []models.Balance{}
	for rows.Next() {
		var b models.Balance
		if err := rows.Scan(&b.MemberID, &b.DisplayName, &b.NetCents); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan balance: %w", err)
		}
		settlement.Balances = append(settlement.Balances, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate balances: %w", err)
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT from_member_id, to_member_id, amount_cents FROM settlement_transfers
		 WHERE settlement_id = ? ORDER BY position`,
		settlement.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get transfers: %w", err)
	}
	defer rows.Close()
	settlement.Transfers = []models.Transfer{}
	for rows.Next() {
		var t models.Transfer
		if err := rows.Scan(&t.FromMemberID, &t.ToMemberID, &t.AmountCents); err != nil {
			return fmt.Errorf("failed to scan transfer: %w", err)
		}
		settlement.Transfers = append(settlement.Transfers, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate transfers: %w", err)
	}
	return nil
}

func scanSettlement(row rowScanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var status string
	var periodStart, periodEnd, createdAt int64
	var finalizedAt sql.NullInt64
	if err := row.Scan(&settlement.ID, &settlement.HouseholdID, &status,
		&periodStart, &periodEnd, &createdAt, &settlement.CreatedBy, &finalizedAt); err != nil {
		return nil, err
	}
	settlement.Status = models.SettlementStatus(status)
	settlement.PeriodStart = fromNanos(periodStart)
	settlement.PeriodEnd = fromNanos(periodEnd)
	settlement.CreatedAt = fromNanos(createdAt)
	if finalizedAt.Valid {
		at := fromNanos(finalizedAt.Int64)
		settlement.FinalizedAt = &at
	}
	return settlement, nil
}
