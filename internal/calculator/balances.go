package calculator

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mmynk/hearth/internal/models"
)

// ErrUnbalanced means balances did not sum to zero. It indicates corrupt
// input rather than a user error and is never returned for validated data.
var ErrUnbalanced = errors.New("balances do not sum to zero")

// ComputeBalances aggregates expenses into one net balance per member.
//
// Algorithm:
//   - every member starts at zero
//   - for each active expense the payer is credited the full amount and
//     every share owner is debited their share (the payer included, when
//     they are also a participant)
//   - people who appear on an expense but are no longer members are kept,
//     so the result still sums to zero
//
// The result contains every member, zero balances included, ordered by
// member ID.
func ComputeBalances(members []models.Member, expenses []models.Expense) ([]models.Balance, error) {
	names := make(map[string]string, len(members))
	totals := make(map[string]int64, len(members))
	for _, m := range members {
		names[m.ID] = m.DisplayName
		totals[m.ID] = 0
	}

	for i := range expenses {
		e := &expenses[i]
		if e.Status == models.ExpenseDeleted {
			continue
		}
		if err := VerifyShares(e); err != nil {
			return nil, err
		}

		var ok bool
		if totals[e.PayerID], ok = addCents(totals[e.PayerID], e.AmountCents); !ok {
			return nil, fmt.Errorf("%w: balance of %s overflows", ErrUnbalanced, e.PayerID)
		}
		for _, s := range e.Shares {
			if totals[s.MemberID], ok = addCents(totals[s.MemberID], -s.AmountCents); !ok {
				return nil, fmt.Errorf("%w: balance of %s overflows", ErrUnbalanced, s.MemberID)
			}
		}
	}

	balances := make([]models.Balance, 0, len(totals))
	var sum int64
	for id, net := range totals {
		balances = append(balances, models.Balance{
			MemberID:    id,
			DisplayName: names[id],
			NetCents:    net,
		})
		var ok bool
		if sum, ok = addCents(sum, net); !ok {
			return nil, fmt.Errorf("%w: total overflows", ErrUnbalanced)
		}
	}
	if sum != 0 {
		return nil, fmt.Errorf("%w: off by %d cents", ErrUnbalanced, sum)
	}

	sort.Slice(balances, func(i, j int) bool {
		return balances[i].MemberID < balances[j].MemberID
	})
	return balances, nil
}

// addCents returns a+b and false when the sum does not fit in an int64.
func addCents(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

// AllZero reports whether every balance is exactly zero.
func AllZero(balances []models.Balance) bool {
	for _, b := range balances {
		if b.NetCents != 0 {
			return false
		}
	}
	return true
}
