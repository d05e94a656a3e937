package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/internal/ledger"
	"github.com/mmynk/hearth/internal/models"
	"github.com/mmynk/hearth/pkg/api"
	"github.com/mmynk/hearth/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService. The caller is
// always the payer of the expenses they create.
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	ledger *ledger.Ledger
	guard  *Guard
	logger *slog.Logger
}

// NewExpenseService creates an ExpenseService backed by the ledger.
func NewExpenseService(l *ledger.Ledger, guard *Guard, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{ledger: l, guard: guard, logger: logger}
}

// CreateExpense records a new expense paid by the caller.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateExpense request received",
		"household_id", req.Msg.HouseholdID,
		"amount_cents", req.Msg.AmountCents,
		"split_policy", req.Msg.SplitPolicy,
		"participants_count", len(req.Msg.Participants),
	)

	if err := s.guard.Require(ctx, req.Msg.HouseholdID, userID); err != nil {
		return nil, connectError(err)
	}

	policy, err := models.ParseSplitPolicy(req.Msg.SplitPolicy)
	if err != nil {
		return nil, connectError(err)
	}
	fixed, err := fixedShareMap(req.Msg.FixedShares)
	if err != nil {
		return nil, connectError(err)
	}
	if policy == models.SplitEqual && fixed != nil {
		return nil, connectError(models.ErrInvalidInput.Wrapf("fixed_shares is only valid with FIXED splits"))
	}

	expense, err := s.ledger.CreateExpense(ctx, ledger.NewExpense{
		HouseholdID:  req.Msg.HouseholdID,
		Description:  req.Msg.Description,
		AmountCents:  req.Msg.AmountCents,
		PayerID:      userID,
		Split:        policy,
		Participants: req.Msg.Participants,
		FixedShares:  fixed,
	})
	if err != nil {
		s.logger.Warn("CreateExpense failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Expense created", "expense_id", expense.ID, "household_id", expense.HouseholdID)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// GetExpense returns one active expense.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.authorizeExpense(ctx, req.Msg.ExpenseID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// ListExpenses returns the household's active expenses, newest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(ctx, req.Msg.HouseholdID, userID); err != nil {
		return nil, connectError(err)
	}

	expenses, err := s.ledger.ListExpenses(ctx, req.Msg.HouseholdID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i := range expenses {
		out[i] = toAPIExpense(&expenses[i])
	}
	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// ListMyExpenses returns the active expenses the caller paid in any of
// their households, newest first.
func (s *ExpenseService) ListMyExpenses(ctx context.Context, _ *connect.Request[api.ListMyExpensesRequest]) (*connect.Response[api.ListMyExpensesResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.ledger.ListPayerExpenses(ctx, userID)
	if err != nil {
		s.logger.Error("ListMyExpenses failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Expense, len(expenses))
	for i := range expenses {
		out[i] = toAPIExpense(&expenses[i])
	}
	return connect.NewResponse(&api.ListMyExpensesResponse{Expenses: out}), nil
}

// UpdateExpense edits an expense the caller paid for.
func (s *ExpenseService) UpdateExpense(ctx context.Context, req *connect.Request[api.UpdateExpenseRequest]) (*connect.Response[api.UpdateExpenseResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("UpdateExpense request received", "expense_id", req.Msg.ExpenseID, "user_id", userID)

	if _, err := s.authorizeExpense(ctx, req.Msg.ExpenseID, userID); err != nil {
		return nil, connectError(err)
	}
	fixed, err := fixedShareMap(req.Msg.FixedShares)
	if err != nil {
		return nil, connectError(err)
	}

	expense, err := s.ledger.UpdateExpense(ctx, req.Msg.ExpenseID, userID, ledger.ExpenseUpdate{
		Description: req.Msg.Description,
		AmountCents: req.Msg.AmountCents,
		FixedShares: fixed,
	})
	if err != nil {
		s.logger.Warn("UpdateExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.UpdateExpenseResponse{Expense: toAPIExpense(expense)}), nil
}

// DeleteExpense removes an expense the caller paid for.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID, "user_id", userID)

	if _, err := s.authorizeExpense(ctx, req.Msg.ExpenseID, userID); err != nil {
		return nil, connectError(err)
	}
	if err := s.ledger.DeleteExpense(ctx, req.Msg.ExpenseID, userID); err != nil {
		s.logger.Warn("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

func (s *ExpenseService) authorizeExpense(ctx context.Context, expenseID, userID string) (*models.Expense, error) {
	if expenseID == "" {
		return nil, models.ErrInvalidInput.Wrapf("expense_id is required")
	}
	expense, err := s.ledger.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(ctx, expense.HouseholdID, userID); err != nil {
		return nil, err
	}
	return expense, nil
}
