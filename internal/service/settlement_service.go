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

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	ledger *ledger.Ledger
	guard  *Guard
	logger *slog.Logger
}

// NewSettlementService creates a SettlementService backed by the ledger.
func NewSettlementService(l *ledger.Ledger, guard *Guard, logger *slog.Logger) *SettlementService {
	return &SettlementService{ledger: l, guard: guard, logger: logger}
}

// GetBalances returns the live balances and suggested transfers of the
// household's unsettled period.
func (s *SettlementService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(ctx, req.Msg.HouseholdID, userID); err != nil {
		return nil, connectError(err)
	}

	p, err := s.ledger.Preview(ctx, req.Msg.HouseholdID)
	if err != nil {
		s.logger.Error("GetBalances failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetBalancesResponse{
		HouseholdID: p.HouseholdID,
		PeriodStart: p.PeriodStart,
		PeriodEnd:   p.PeriodEnd,
		Balances:    toAPIBalances(p.Balances),
		Transfers:   toAPITransfers(p.Transfers),
	}), nil
}

// OpenSettlement freezes the current period into an OPEN settlement.
func (s *SettlementService) OpenSettlement(ctx context.Context, req *connect.Request[api.OpenSettlementRequest]) (*connect.Response[api.OpenSettlementResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("OpenSettlement request received", "household_id", req.Msg.HouseholdID, "user_id", userID)

	if err := s.guard.Require(ctx, req.Msg.HouseholdID, userID); err != nil {
		return nil, connectError(err)
	}

	settlement, err := s.ledger.OpenSettlement(ctx, req.Msg.HouseholdID, userID)
	if err != nil {
		s.logger.Warn("OpenSettlement failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.OpenSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// FinalizeSettlement closes an OPEN settlement.
func (s *SettlementService) FinalizeSettlement(ctx context.Context, req *connect.Request[api.FinalizeSettlementRequest]) (*connect.Response[api.FinalizeSettlementResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("FinalizeSettlement request received", "settlement_id", req.Msg.SettlementID, "user_id", userID)

	if _, err := s.authorizeSettlement(ctx, req.Msg.SettlementID, userID); err != nil {
		return nil, connectError(err)
	}

	settlement, err := s.ledger.FinalizeSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		s.logger.Warn("FinalizeSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.FinalizeSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// GetOpenSettlement returns the household's OPEN settlement.
func (s *SettlementService) GetOpenSettlement(ctx context.Context, req *connect.Request[api.GetOpenSettlementRequest]) (*connect.Response[api.GetOpenSettlementResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(ctx, req.Msg.HouseholdID, userID); err != nil {
		return nil, connectError(err)
	}

	settlement, err := s.ledger.OpenSettlementFor(ctx, req.Msg.HouseholdID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetOpenSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// GetSettlement returns one settlement with its balances and transfers.
func (s *SettlementService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	settlement, err := s.authorizeSettlement(ctx, req.Msg.SettlementID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlementHistory returns the household's settlements, newest first.
func (s *SettlementService) ListSettlementHistory(ctx context.Context, req *connect.Request[api.ListSettlementHistoryRequest]) (*connect.Response[api.ListSettlementHistoryResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.Limit < 0 {
		return nil, connectError(models.ErrInvalidInput.Wrapf("limit must not be negative"))
	}
	if err := s.guard.Require(ctx, req.Msg.HouseholdID, userID); err != nil {
		return nil, connectError(err)
	}

	settlements, err := s.ledger.History(ctx, req.Msg.HouseholdID, req.Msg.Limit)
	if err != nil {
		s.logger.Error("ListSettlementHistory failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i, st := range settlements {
		out[i] = toAPISettlement(st)
	}
	return connect.NewResponse(&api.ListSettlementHistoryResponse{Settlements: out}), nil
}

// authorizeSettlement loads a settlement and checks that userID belongs to
// its household.
func (s *SettlementService) authorizeSettlement(ctx context.Context, settlementID, userID string) (*models.Settlement, error) {
	if settlementID == "" {
		return nil, models.ErrInvalidInput.Wrapf("settlement_id is required")
	}
	settlement, err := s.ledger.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(ctx, settlement.HouseholdID, userID); err != nil {
		return nil, err
	}
	return settlement, nil
}
