package calculator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/hearth/internal/models"
)

func members(ids ...string) []models.Member {
	out := make([]models.Member, len(ids))
	for i, id := range ids {
		out[i] = models.Member{ID: id, DisplayName: "Member " + id}
	}
	return out
}

func expense(t *testing.T, payer string, total int64, participants ...string) models.Expense {
	t.Helper()
	shares, err := ComputeShares(total, models.SplitEqual, participants, nil)
	require.NoError(t, err)
	return models.Expense{
		ID:          payer + "-expense",
		AmountCents: total,
		PayerID:     payer,
		Split:       models.SplitEqual,
		Shares:      shares,
		Status:      models.ExpenseActive,
	}
}

func netByMember(balances []models.Balance) map[string]int64 {
	out := make(map[string]int64, len(balances))
	for _, b := range balances {
		out[b.MemberID] = b.NetCents
	}
	return out
}

func TestComputeBalances_ThreeWayDinner(t *testing.T) {
	balances, err := ComputeBalances(members("A", "B", "C"), []models.Expense{
		expense(t, "A", 9000, "A", "B", "C"),
	})
	require.NoError(t, err)

	assert.Equal(t, []models.Balance{
		{MemberID: "A", DisplayName: "Member A", NetCents: 6000},
		{MemberID: "B", DisplayName: "Member B", NetCents: -3000},
		{MemberID: "C", DisplayName: "Member C", NetCents: -3000},
	}, balances)
}

func TestComputeBalances_IncludesZeroMembers(t *testing.T) {
	balances, err := ComputeBalances(members("A", "B", "D"), []models.Expense{
		expense(t, "A", 1000, "A", "B"),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"A": 500, "B": -500, "D": 0}, netByMember(balances))
}

func TestComputeBalances_NoExpenses(t *testing.T) {
	balances, err := ComputeBalances(members("A", "B"), nil)
	require.NoError(t, err)
	assert.Len(t, balances, 2)
	assert.True(t, AllZero(balances))
}

func TestComputeBalances_SkipsDeleted(t *testing.T) {
	deleted := expense(t, "B", 4000, "A", "B")
	deleted.Status = models.ExpenseDeleted

	balances, err := ComputeBalances(members("A", "B"), []models.Expense{
		expense(t, "A", 1000, "A", "B"),
		deleted,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"A": 500, "B": -500}, netByMember(balances))
}

func TestComputeBalances_FormerMemberStillCounted(t *testing.T) {
	balances, err := ComputeBalances(members("A"), []models.Expense{
		expense(t, "A", 1000, "A", "gone"),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"A": 500, "gone": -500}, netByMember(balances))
}

func TestComputeBalances_PayerNotParticipant(t *testing.T) {
	balances, err := ComputeBalances(members("A", "B", "C"), []models.Expense{
		expense(t, "A", 1000, "B", "C"),
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"A": 1000, "B": -500, "C": -500}, netByMember(balances))
}

func TestComputeBalances_RejectsCorruptShares(t *testing.T) {
	bad := models.Expense{
		ID:          "bad",
		AmountCents: 1000,
		PayerID:     "A",
		Shares:      []models.Share{{MemberID: "A", AmountCents: 300}},
		Status:      models.ExpenseActive,
	}
	_, err := ComputeBalances(members("A"), []models.Expense{bad})
	assert.ErrorIs(t, err, models.ErrShareMismatch)
}

func TestComputeBalances_Overflow(t *testing.T) {
	huge := func(id string) models.Expense {
		return models.Expense{
			ID:          id,
			AmountCents: math.MaxInt64,
			PayerID:     "A",
			Shares:      []models.Share{{MemberID: "B", AmountCents: math.MaxInt64}},
			Status:      models.ExpenseActive,
		}
	}
	_, err := ComputeBalances(members("A", "B"), []models.Expense{huge("e1"), huge("e2")})
	assert.ErrorIs(t, err, ErrUnbalanced)
}

func TestComputeBalances_SumIsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d", "e", "f"}
	for round := 0; round < 200; round++ {
		var expenses []models.Expense
		for i := 0; i < 1+rng.Intn(20); i++ {
			payer := ids[rng.Intn(len(ids))]
			perm := rng.Perm(len(ids))[:1+rng.Intn(len(ids))]
			participants := make([]string, len(perm))
			for j, p := range perm {
				participants[j] = ids[p]
			}
			expenses = append(expenses, expense(t, payer, 1+rng.Int63n(100_000), participants...))
		}

		balances, err := ComputeBalances(members(ids...), expenses)
		require.NoError(t, err)

		var sum int64
		for _, b := range balances {
			sum += b.NetCents
		}
		assert.Zero(t, sum)
	}
}
