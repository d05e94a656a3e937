package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/hearth/internal/models"
	"github.com/mmynk/hearth/internal/storage"
	"github.com/mmynk/hearth/pkg/api"
	"github.com/mmynk/hearth/pkg/api/apiconnect"
)

// HouseholdService implements the Connect HouseholdService.
type HouseholdService struct {
	apiconnect.UnimplementedHouseholdServiceHandler
	store  storage.HouseholdStore
	guard  *Guard
	logger *slog.Logger
}

// NewHouseholdService creates a HouseholdService with the given storage backend.
func NewHouseholdService(store storage.HouseholdStore, guard *Guard, logger *slog.Logger) *HouseholdService {
	return &HouseholdService{store: store, guard: guard, logger: logger}
}

// CreateHousehold creates a household owned by the caller.
func (s *HouseholdService) CreateHousehold(ctx context.Context, req *connect.Request[api.CreateHouseholdRequest]) (*connect.Response[api.CreateHouseholdResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("CreateHousehold request received", "name", req.Msg.Name, "user_id", userID)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connectError(models.ErrInvalidInput.Wrapf("name is required"))
	}

	household := &models.Household{Name: name, OwnerID: userID}
	if err := s.store.CreateHousehold(ctx, household); err != nil {
		s.logger.Error("CreateHousehold failed", "error", err)
		return nil, connectError(err)
	}
	s.guard.Joined(household.ID, userID)

	s.logger.Info("Household created", "household_id", household.ID)
	return connect.NewResponse(&api.CreateHouseholdResponse{Household: toAPIHousehold(household)}), nil
}

// JoinHousehold adds the caller to the household with the given invite code.
// Joining a household twice is a no-op.
func (s *HouseholdService) JoinHousehold(ctx context.Context, req *connect.Request[api.JoinHouseholdRequest]) (*connect.Response[api.JoinHouseholdResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Msg.InviteCode) == "" {
		return nil, connectError(models.ErrInvalidInput.Wrapf("invite_code is required"))
	}

	household, err := s.store.GetHouseholdByInviteCode(ctx, req.Msg.InviteCode)
	if err != nil {
		s.logger.Warn("JoinHousehold failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	err = s.store.AddMember(ctx, &models.Membership{
		HouseholdID: household.ID,
		UserID:      userID,
		Role:        models.RoleMember,
		JoinedAt:    time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error("AddMember failed", "household_id", household.ID, "user_id", userID, "error", err)
		return nil, connectError(err)
	}
	s.guard.Joined(household.ID, userID)

	s.logger.Info("Household joined", "household_id", household.ID, "user_id", userID)
	return connect.NewResponse(&api.JoinHouseholdResponse{Household: toAPIHousehold(household)}), nil
}

// ListHouseholds returns the households the caller belongs to.
func (s *HouseholdService) ListHouseholds(ctx context.Context, req *connect.Request[api.ListHouseholdsRequest]) (*connect.Response[api.ListHouseholdsResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	households, err := s.store.ListHouseholdsForUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListHouseholds failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Household, len(households))
	for i, h := range households {
		out[i] = toAPIHousehold(h)
	}
	return connect.NewResponse(&api.ListHouseholdsResponse{Households: out}), nil
}

// ListMembers returns the household's members.
func (s *HouseholdService) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.guard.Require(ctx, req.Msg.HouseholdID, userID); err != nil {
		return nil, connectError(err)
	}

	members, err := s.guard.Members(ctx, req.Msg.HouseholdID)
	if err != nil {
		s.logger.Error("ListMembers failed", "household_id", req.Msg.HouseholdID, "error", err)
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.ListMembersResponse{Members: toAPIMembers(members)}), nil
}
