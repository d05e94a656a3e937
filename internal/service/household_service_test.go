package service

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/pkg/api"
)

func TestCreateHousehold(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	resp, err := s.households.CreateHousehold(ctx, as("alice", &api.CreateHouseholdRequest{Name: "  Flat 3B "}))
	if err != nil {
		t.Fatalf("CreateHousehold failed: %v", err)
	}
	household := resp.Msg.Household
	if household.ID == "" || household.InviteCode == "" {
		t.Errorf("expected id and invite code, got %+v", household)
	}
	if household.Name != "Flat 3B" {
		t.Errorf("name: expected 'Flat 3B', got %q", household.Name)
	}
	if household.OwnerID != "alice" {
		t.Errorf("owner: expected alice, got %s", household.OwnerID)
	}

	_, err = s.households.CreateHousehold(ctx, as("alice", &api.CreateHouseholdRequest{Name: " "}))
	expectError(t, err, connect.CodeInvalidArgument, "INVALID_INPUT")
}

func TestJoinHousehold(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	household := s.newHousehold(t, "bob")

	members := func(user string) []api.Member {
		t.Helper()
		resp, err := s.households.ListMembers(ctx, as(user, &api.ListMembersRequest{HouseholdID: household.ID}))
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		return resp.Msg.Members
	}

	if got := members("alice"); len(got) != 2 {
		t.Fatalf("expected 2 members, got %d", len(got))
	}

	t.Run("outsider cannot list members", func(t *testing.T) {
		_, err := s.households.ListMembers(ctx, as("carol", &api.ListMembersRequest{HouseholdID: household.ID}))
		expectError(t, err, connect.CodePermissionDenied, "PERMISSION_DENIED")
	})

	t.Run("invite code is case-insensitive", func(t *testing.T) {
		code := " " + strings.ToLower(household.InviteCode) + " "
		resp, err := s.households.JoinHousehold(ctx, as("carol", &api.JoinHouseholdRequest{InviteCode: code}))
		if err != nil {
			t.Fatalf("JoinHousehold failed: %v", err)
		}
		if resp.Msg.Household.ID != household.ID {
			t.Errorf("joined %s, want %s", resp.Msg.Household.ID, household.ID)
		}
	})

	t.Run("roster reflects the join", func(t *testing.T) {
		if got := members("alice"); len(got) != 3 {
			t.Errorf("expected 3 members after join, got %d", len(got))
		}
		if got := members("carol"); len(got) != 3 {
			t.Errorf("expected new member to see 3 members, got %d", len(got))
		}
	})

	t.Run("joining twice is a no-op", func(t *testing.T) {
		_, err := s.households.JoinHousehold(ctx, as("bob", &api.JoinHouseholdRequest{InviteCode: household.InviteCode}))
		if err != nil {
			t.Fatalf("JoinHousehold failed: %v", err)
		}
		if got := members("bob"); len(got) != 3 {
			t.Errorf("expected 3 members, got %d", len(got))
		}
	})

	t.Run("unknown invite code", func(t *testing.T) {
		_, err := s.households.JoinHousehold(ctx, as("mallory", &api.JoinHouseholdRequest{InviteCode: "ZZZZZZZZ"}))
		expectError(t, err, connect.CodeNotFound, "NOT_FOUND")
	})
}

func TestListHouseholds(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	s.newHousehold(t, "bob")
	s.newHousehold(t)

	tests := map[string]int{"alice": 2, "bob": 1, "mallory": 0}
	for user, want := range tests {
		resp, err := s.households.ListHouseholds(ctx, as(user, &api.ListHouseholdsRequest{}))
		if err != nil {
			t.Fatalf("ListHouseholds(%s) failed: %v", user, err)
		}
		if len(resp.Msg.Households) != want {
			t.Errorf("%s: expected %d households, got %d", user, want, len(resp.Msg.Households))
		}
	}
}
