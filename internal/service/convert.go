package service

import (
	"time"

	"github.com/mmynk/hearth/internal/models"
	"github.com/mmynk/hearth/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}

func toAPIHousehold(h *models.Household) *api.Household {
	return &api.Household{
		ID:         h.ID,
		Name:       h.Name,
		InviteCode: h.InviteCode,
		OwnerID:    h.OwnerID,
		CreatedAt:  h.CreatedAt,
	}
}

func toAPIMembers(members []models.Member) []api.Member {
	out := make([]api.Member, len(members))
	for i, m := range members {
		out[i] = api.Member{ID: m.ID, DisplayName: m.DisplayName}
	}
	return out
}

func toAPIExpense(e *models.Expense) *api.Expense {
	shares := make([]api.Share, len(e.Shares))
	for i, s := range e.Shares {
		shares[i] = api.Share{MemberID: s.MemberID, AmountCents: s.AmountCents}
	}
	return &api.Expense{
		ID:          e.ID,
		HouseholdID: e.HouseholdID,
		Description: e.Description,
		AmountCents: e.AmountCents,
		PayerID:     e.PayerID,
		SplitPolicy: string(e.Split),
		Shares:      shares,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toAPIBalances(balances []models.Balance) []api.Balance {
	out := make([]api.Balance, len(balances))
	for i, b := range balances {
		out[i] = api.Balance{MemberID: b.MemberID, DisplayName: b.DisplayName, NetCents: b.NetCents}
	}
	return out
}

func toAPITransfers(transfers []models.Transfer) []api.Transfer {
	out := make([]api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = api.Transfer{FromMemberID: t.FromMemberID, ToMemberID: t.ToMemberID, AmountCents: t.AmountCents}
	}
	return out
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:          s.ID,
		HouseholdID: s.HouseholdID,
		Status:      string(s.Status),
		PeriodStart: s.PeriodStart,
		PeriodEnd:   s.PeriodEnd,
		Balances:    toAPIBalances(s.Balances),
		Transfers:   toAPITransfers(s.Transfers),
		CreatedAt:   s.CreatedAt,
		CreatedBy:   s.CreatedBy,
		FinalizedAt: s.FinalizedAt,
	}
}

// fixedShareMap converts wire shares to the ledger's map, rejecting
// duplicate members. An empty list yields nil.
func fixedShareMap(shares []api.Share) (map[string]int64, error) {
	if len(shares) == 0 {
		return nil, nil
	}
	m := make(map[string]int64, len(shares))
	for _, s := range shares {
		if _, dup := m[s.MemberID]; dup {
			return nil, models.ErrInvalidShare.Wrapf("%s has more than one fixed share", s.MemberID)
		}
		m[s.MemberID] = s.AmountCents
	}
	return m, nil
}
