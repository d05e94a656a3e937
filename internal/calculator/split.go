package calculator

import (
	"fmt"
	"sort"

	"github.com/Rhymond/go-money"

	"github.com/mmynk/hearth/internal/models"
)

// ComputeShares splits totalCents among participants according to policy.
//
// EQUAL: every participant gets floor(total/n) cents and the remaining
// total mod n cents are handed out one at a time to the participants with
// the lowest member IDs. The result always sums to totalCents and no two
// shares differ by more than one cent.
//
// FIXED: fixed must hold a non-negative amount for every participant and
// nothing else; the amounts must add up to totalCents and are returned
// unchanged.
//
// Shares are returned ordered by member ID.
func ComputeShares(totalCents int64, policy models.SplitPolicy, participants []string, fixed map[string]int64) ([]models.Share, error) {
	if totalCents <= 0 {
		return nil, models.ErrInvalidAmount.Wrapf("amount must be positive, got %d cents", totalCents)
	}
	members, err := normalizeParticipants(participants)
	if err != nil {
		return nil, err
	}

	switch policy {
	case models.SplitEqual:
		return equalShares(totalCents, members)
	case models.SplitFixed:
		return fixedShares(totalCents, members, fixed)
	default:
		return nil, models.ErrInvalidPolicy.Wrapf("unknown split policy %q", policy)
	}
}

// normalizeParticipants sorts participants and rejects empty or duplicate IDs.
func normalizeParticipants(participants []string) ([]string, error) {
	if len(participants) == 0 {
		return nil, models.ErrNoParticipants
	}
	members := make([]string, len(participants))
	copy(members, participants)
	sort.Strings(members)
	for i, m := range members {
		if m == "" {
			return nil, models.ErrInvalidShare.Wrapf("participant id cannot be empty")
		}
		if i > 0 && members[i-1] == m {
			return nil, models.ErrInvalidShare.Wrapf("participant %s listed twice", m)
		}
	}
	return members, nil
}

func equalShares(totalCents int64, members []string) ([]models.Share, error) {
	parts, err := money.New(totalCents, DisplayCurrency).Split(len(members))
	if err != nil {
		return nil, fmt.Errorf("failed to split amount: %w", err)
	}
	shares := make([]models.Share, len(members))
	for i, m := range members {
		shares[i] = models.Share{MemberID: m, AmountCents: parts[i].Amount()}
	}
	return shares, nil
}

func fixedShares(totalCents int64, members []string, fixed map[string]int64) ([]models.Share, error) {
	if len(fixed) != len(members) {
		for id := range fixed {
			if !contains(members, id) {
				return nil, models.ErrInvalidShare.Wrapf("%s has a fixed amount but is not a participant", id)
			}
		}
	}

	shares := make([]models.Share, len(members))
	var sum int64
	for i, m := range members {
		amount, ok := fixed[m]
		if !ok {
			return nil, models.ErrInvalidShare.Wrapf("missing fixed amount for %s", m)
		}
		if amount < 0 {
			return nil, models.ErrInvalidShare.Wrapf("fixed amount for %s is negative (%d cents)", m, amount)
		}
		if amount > totalCents {
			return nil, models.ErrInvalidShare.Wrapf("fixed amount for %s (%s) exceeds the expense total %s",
				m, FormatCents(amount), FormatCents(totalCents))
		}
		if amount > totalCents-sum {
			return nil, models.ErrShareMismatch.Wrapf("fixed amounts add up to more than %s", FormatCents(totalCents))
		}
		sum += amount
		shares[i] = models.Share{MemberID: m, AmountCents: amount}
	}

	if sum != totalCents {
		return nil, models.ErrShareMismatch.Wrapf("fixed amounts add up to %s, expected %s",
			FormatCents(sum), FormatCents(totalCents))
	}
	return shares, nil
}

// VerifyShares checks that stored shares still add up to the expense total.
func VerifyShares(e *models.Expense) error {
	var sum int64
	for _, s := range e.Shares {
		if s.AmountCents < 0 {
			return models.ErrInvalidShare.Wrapf("expense %s: negative share for %s", e.ID, s.MemberID)
		}
		if s.AmountCents > e.AmountCents-sum {
			return models.ErrShareMismatch.Wrapf("expense %s: shares add up to more than %s",
				e.ID, FormatCents(e.AmountCents))
		}
		sum += s.AmountCents
	}
	if sum != e.AmountCents {
		return models.ErrShareMismatch.Wrapf("expense %s: shares add up to %s, expected %s",
			e.ID, FormatCents(sum), FormatCents(e.AmountCents))
	}
	return nil
}

func contains(ids []string, id string) bool {
	for _, m := range ids {
		if m == id {
			return true
		}
	}
	return false
}
