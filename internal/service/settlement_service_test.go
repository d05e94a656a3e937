package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/pkg/api"
)

// newHousehold creates a household owned by alice and joined by the others.
func (s *testServer) newHousehold(t *testing.T, others ...string) *api.Household {
	t.Helper()
	ctx := context.Background()

	resp, err := s.households.CreateHousehold(ctx, as("alice", &api.CreateHouseholdRequest{Name: "Flat 3B"}))
	if err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}
	household := resp.Msg.Household
	for _, id := range others {
		_, err := s.households.JoinHousehold(ctx, as(id, &api.JoinHouseholdRequest{InviteCode: household.InviteCode}))
		if err != nil {
			t.Fatalf("JoinHousehold(%s) failed: %v", id, err)
		}
	}
	return household
}

func (s *testServer) addEqual(t *testing.T, householdID, payer string, cents int64, participants ...string) *api.Expense {
	t.Helper()
	resp, err := s.expenses.CreateExpense(context.Background(), as(payer, &api.CreateExpenseRequest{
		HouseholdID:  householdID,
		Description:  "groceries",
		AmountCents:  cents,
		SplitPolicy:  "EQUAL",
		Participants: participants,
	}))
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}
	return resp.Msg.Expense
}

func netCents(balances []api.Balance) map[string]int64 {
	out := make(map[string]int64, len(balances))
	for _, b := range balances {
		out[b.MemberID] = b.NetCents
	}
	return out
}

func TestSettlementLifecycle(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	household := s.newHousehold(t, "bob", "carol")

	s.addEqual(t, household.ID, "alice", 9000, "alice", "bob", "carol")

	balances, err := s.settlements.GetBalances(ctx, as("bob", &api.GetBalancesRequest{HouseholdID: household.ID}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	net := netCents(balances.Msg.Balances)
	if net["alice"] != 6000 || net["bob"] != -3000 || net["carol"] != -3000 {
		t.Errorf("unexpected balances: %v", net)
	}
	if len(balances.Msg.Transfers) != 2 {
		t.Errorf("expected 2 suggested transfers, got %d", len(balances.Msg.Transfers))
	}

	opened, err := s.settlements.OpenSettlement(ctx, as("carol", &api.OpenSettlementRequest{HouseholdID: household.ID}))
	if err != nil {
		t.Fatalf("OpenSettlement failed: %v", err)
	}
	settlement := opened.Msg.Settlement
	if settlement.Status != "OPEN" {
		t.Errorf("status: expected OPEN, got %s", settlement.Status)
	}
	if settlement.CreatedBy != "carol" {
		t.Errorf("created_by: expected carol, got %s", settlement.CreatedBy)
	}
	for _, tr := range settlement.Transfers {
		if tr.ToMemberID != "alice" || tr.AmountCents != 3000 {
			t.Errorf("unexpected transfer: %+v", tr)
		}
	}

	t.Run("second open conflicts", func(t *testing.T) {
		_, err := s.settlements.OpenSettlement(ctx, as("alice", &api.OpenSettlementRequest{HouseholdID: household.ID}))
		expectError(t, err, connect.CodeAlreadyExists, "CONFLICT")
	})

	t.Run("open settlement is visible", func(t *testing.T) {
		resp, err := s.settlements.GetOpenSettlement(ctx, as("bob", &api.GetOpenSettlementRequest{HouseholdID: household.ID}))
		if err != nil {
			t.Fatalf("GetOpenSettlement failed: %v", err)
		}
		if resp.Msg.Settlement.ID != settlement.ID {
			t.Errorf("expected %s, got %s", settlement.ID, resp.Msg.Settlement.ID)
		}
	})

	finalized, err := s.settlements.FinalizeSettlement(ctx, as("bob", &api.FinalizeSettlementRequest{SettlementID: settlement.ID}))
	if err != nil {
		t.Fatalf("FinalizeSettlement failed: %v", err)
	}
	if finalized.Msg.Settlement.Status != "FINALIZED" || finalized.Msg.Settlement.FinalizedAt == nil {
		t.Errorf("expected finalized settlement, got %+v", finalized.Msg.Settlement)
	}

	t.Run("finalize twice", func(t *testing.T) {
		_, err := s.settlements.FinalizeSettlement(ctx, as("bob", &api.FinalizeSettlementRequest{SettlementID: settlement.ID}))
		expectError(t, err, connect.CodeFailedPrecondition, "INVALID_STATE")
	})

	t.Run("no open settlement left", func(t *testing.T) {
		_, err := s.settlements.GetOpenSettlement(ctx, as("bob", &api.GetOpenSettlementRequest{HouseholdID: household.ID}))
		expectError(t, err, connect.CodeNotFound, "NOT_FOUND")
	})

	t.Run("new period starts at zero", func(t *testing.T) {
		resp, err := s.settlements.GetBalances(ctx, as("alice", &api.GetBalancesRequest{HouseholdID: household.ID}))
		if err != nil {
			t.Fatalf("GetBalances failed: %v", err)
		}
		for _, b := range resp.Msg.Balances {
			if b.NetCents != 0 {
				t.Errorf("expected zero balance for %s, got %d", b.MemberID, b.NetCents)
			}
		}
		if !resp.Msg.PeriodStart.Equal(settlement.PeriodEnd) {
			t.Errorf("period_start: expected %v, got %v", settlement.PeriodEnd, resp.Msg.PeriodStart)
		}

		_, err = s.settlements.OpenSettlement(ctx, as("alice", &api.OpenSettlementRequest{HouseholdID: household.ID}))
		expectError(t, err, connect.CodeFailedPrecondition, "NOTHING_TO_SETTLE")
	})

	t.Run("history", func(t *testing.T) {
		resp, err := s.settlements.ListSettlementHistory(ctx, as("carol", &api.ListSettlementHistoryRequest{HouseholdID: household.ID}))
		if err != nil {
			t.Fatalf("ListSettlementHistory failed: %v", err)
		}
		if len(resp.Msg.Settlements) != 1 || resp.Msg.Settlements[0].ID != settlement.ID {
			t.Errorf("unexpected history: %+v", resp.Msg.Settlements)
		}

		got, err := s.settlements.GetSettlement(ctx, as("carol", &api.GetSettlementRequest{SettlementID: settlement.ID}))
		if err != nil {
			t.Fatalf("GetSettlement failed: %v", err)
		}
		if len(got.Msg.Settlement.Balances) != 3 {
			t.Errorf("expected 3 balances, got %d", len(got.Msg.Settlement.Balances))
		}
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := s.settlements.ListSettlementHistory(ctx, as("carol", &api.ListSettlementHistoryRequest{HouseholdID: household.ID, Limit: -1}))
		expectError(t, err, connect.CodeInvalidArgument, "INVALID_INPUT")
	})
}

func TestSettlementAccess(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	household := s.newHousehold(t, "bob")
	s.addEqual(t, household.ID, "alice", 1000, "alice", "bob")

	opened, err := s.settlements.OpenSettlement(ctx, as("alice", &api.OpenSettlementRequest{HouseholdID: household.ID}))
	if err != nil {
		t.Fatalf("OpenSettlement failed: %v", err)
	}

	tests := []struct {
		name   string
		call   func() error
		code   connect.Code
		detail string
	}{
		{
			name: "outsider reads balances",
			call: func() error {
				_, err := s.settlements.GetBalances(ctx, as("mallory", &api.GetBalancesRequest{HouseholdID: household.ID}))
				return err
			},
			code:   connect.CodePermissionDenied,
			detail: "PERMISSION_DENIED",
		},
		{
			name: "outsider finalizes",
			call: func() error {
				_, err := s.settlements.FinalizeSettlement(ctx, as("mallory", &api.FinalizeSettlementRequest{SettlementID: opened.Msg.Settlement.ID}))
				return err
			},
			code:   connect.CodePermissionDenied,
			detail: "PERMISSION_DENIED",
		},
		{
			name: "unknown household",
			call: func() error {
				_, err := s.settlements.GetBalances(ctx, as("alice", &api.GetBalancesRequest{HouseholdID: "nope"}))
				return err
			},
			code:   connect.CodeNotFound,
			detail: "NOT_FOUND",
		},
		{
			name: "unknown settlement",
			call: func() error {
				_, err := s.settlements.GetSettlement(ctx, as("alice", &api.GetSettlementRequest{SettlementID: "nope"}))
				return err
			},
			code:   connect.CodeNotFound,
			detail: "NOT_FOUND",
		},
		{
			name: "missing household id",
			call: func() error {
				_, err := s.settlements.OpenSettlement(ctx, as("alice", &api.OpenSettlementRequest{}))
				return err
			},
			code:   connect.CodeInvalidArgument,
			detail: "INVALID_INPUT",
		},
		{
			name: "anonymous caller",
			call: func() error {
				_, err := s.settlements.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{HouseholdID: household.ID}))
				return err
			},
			code: connect.CodeUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectError(t, tt.call(), tt.code, tt.detail)
		})
	}
}
