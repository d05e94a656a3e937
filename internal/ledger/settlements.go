package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/hearth/internal/calculator"
	"github.com/mmynk/hearth/internal/models"
)

// Projection is a live, unsaved view of the current period.
type Projection struct {
	HouseholdID string
	PeriodStart time.Time
	PeriodEnd   time.Time
	Balances    []models.Balance
	Transfers   []models.Transfer
}

// Preview computes balances and transfers for the current period without
// persisting anything.
func (l *Ledger) Preview(ctx context.Context, householdID string) (*Projection, error) {
	household, err := l.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	return l.project(ctx, household)
}

func (l *Ledger) project(ctx context.Context, household *models.Household) (*Projection, error) {
	start, err := l.baseline(ctx, household)
	if err != nil {
		return nil, err
	}
	end := l.clock()
	if !end.After(start) {
		end = start.Add(time.Nanosecond)
	}

	members, err := l.store.ListMembers(ctx, household.ID)
	if err != nil {
		return nil, err
	}
	expenses, err := l.store.LoadExpensesSince(ctx, household.ID, start, end)
	if err != nil {
		return nil, err
	}

	balances, err := calculator.ComputeBalances(members, expenses)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balances for household %s: %w", household.ID, err)
	}

	return &Projection{
		HouseholdID: household.ID,
		PeriodStart: start,
		PeriodEnd:   end,
		Balances:    balances,
		Transfers:   calculator.ReduceToTransfers(balances),
	}, nil
}

// OpenSettlement snapshots the current period into a new OPEN settlement.
//
// It fails with models.ErrConflict when the household already has an OPEN
// settlement and with models.ErrNothingToSettle when every balance is zero.
func (l *Ledger) OpenSettlement(ctx context.Context, householdID, actorID string) (*models.Settlement, error) {
	household, err := l.store.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	unlock := l.locks.lock(householdID)
	defer unlock()

	open, err := l.store.GetOpenSettlement(ctx, householdID)
	switch {
	case err == nil:
		l.recorder.SettlementRejected("conflict")
		return nil, models.ErrConflict.Wrapf("settlement %s is still open", open.ID)
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}

	projection, err := l.project(ctx, household)
	if err != nil {
		return nil, err
	}
	if calculator.AllZero(projection.Balances) {
		l.recorder.SettlementRejected("nothing_to_settle")
		return nil, models.ErrNothingToSettle
	}

	settlement := &models.Settlement{
		HouseholdID: householdID,
		Status:      models.SettlementOpen,
		PeriodStart: projection.PeriodStart,
		PeriodEnd:   projection.PeriodEnd,
		Balances:    projection.Balances,
		Transfers:   projection.Transfers,
		CreatedAt:   projection.PeriodEnd,
		CreatedBy:   actorID,
	}
	if err := l.store.CreateSettlement(ctx, settlement); err != nil {
		if errors.Is(err, models.ErrConflict) {
			l.recorder.SettlementRejected("conflict")
		}
		return nil, err
	}

	l.recorder.SettlementOpened(householdID, len(settlement.Transfers))
	l.logger.Info("settlement opened",
		"settlement_id", settlement.ID,
		"household_id", householdID,
		"created_by", actorID,
		"transfers", len(settlement.Transfers),
	)
	return settlement, nil
}

// FinalizeSettlement freezes an OPEN settlement. Its period end becomes the
// household's new baseline. Finalizing twice fails with models.ErrInvalidState.
func (l *Ledger) FinalizeSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := l.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	unlock := l.locks.lock(settlement.HouseholdID)
	defer unlock()

	if err := l.store.FinalizeSettlement(ctx, settlementID, l.clock()); err != nil {
		if errors.Is(err, models.ErrInvalidState) {
			l.recorder.SettlementRejected("invalid_state")
		}
		return nil, err
	}

	finalized, err := l.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	l.recorder.SettlementFinalized(finalized.HouseholdID)
	l.logger.Info("settlement finalized",
		"settlement_id", settlementID,
		"household_id", finalized.HouseholdID,
		"period_end", finalized.PeriodEnd,
	)
	return finalized, nil
}

// OpenSettlementFor returns the household's OPEN settlement or models.ErrNotFound.
func (l *Ledger) OpenSettlementFor(ctx context.Context, householdID string) (*models.Settlement, error) {
	return l.store.GetOpenSettlement(ctx, householdID)
}

// GetSettlement returns a settlement by ID.
func (l *Ledger) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	return l.store.GetSettlement(ctx, settlementID)
}

// History returns the household's settlements, newest first. A non-positive
// limit selects the configured default.
func (l *Ledger) History(ctx context.Context, householdID string, limit int) ([]*models.Settlement, error) {
	if limit <= 0 {
		limit = l.historyLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return l.store.ListSettlements(ctx, householdID, limit)
}
