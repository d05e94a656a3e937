package calculator

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/hearth/internal/models"
)

// applyTransfers returns the balances left after every transfer is paid.
func applyTransfers(balances []models.Balance, transfers []models.Transfer) []models.Balance {
	out := make([]models.Balance, len(balances))
	copy(out, balances)
	index := make(map[string]int, len(out))
	for i, b := range out {
		index[b.MemberID] = i
	}
	for _, t := range transfers {
		out[index[t.FromMemberID]].NetCents += t.AmountCents
		out[index[t.ToMemberID]].NetCents -= t.AmountCents
	}
	return out
}

func balancesOf(net map[string]int64) []models.Balance {
	out := make([]models.Balance, 0, len(net))
	for id, n := range net {
		out = append(out, models.Balance{MemberID: id, NetCents: n})
	}
	return out
}

func TestReduceToTransfers(t *testing.T) {
	tests := []struct {
		name     string
		balances []models.Balance
		want     []models.Transfer
	}{
		{
			name: "one creditor two debtors",
			balances: []models.Balance{
				{MemberID: "A", NetCents: 6000},
				{MemberID: "B", NetCents: -3000},
				{MemberID: "C", NetCents: -3000},
			},
			want: []models.Transfer{
				{FromMemberID: "B", ToMemberID: "A", AmountCents: 3000},
				{FromMemberID: "C", ToMemberID: "A", AmountCents: 3000},
			},
		},
		{
			name: "largest debtor pays largest creditor first",
			balances: []models.Balance{
				{MemberID: "A", NetCents: 500},
				{MemberID: "B", NetCents: 1500},
				{MemberID: "C", NetCents: -1200},
				{MemberID: "D", NetCents: -800},
			},
			want: []models.Transfer{
				{FromMemberID: "C", ToMemberID: "B", AmountCents: 1200},
				{FromMemberID: "D", ToMemberID: "A", AmountCents: 500},
				{FromMemberID: "D", ToMemberID: "B", AmountCents: 300},
			},
		},
		{
			name: "all zero",
			balances: []models.Balance{
				{MemberID: "A", NetCents: 0},
				{MemberID: "B", NetCents: 0},
			},
			want: []models.Transfer{},
		},
		{
			name:     "empty input",
			balances: nil,
			want:     []models.Transfer{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReduceToTransfers(tt.balances))
		})
	}
}

func TestReduceToTransfers_TieBreaksByMemberID(t *testing.T) {
	got := ReduceToTransfers(balancesOf(map[string]int64{
		"z": 100, "y": 100, "b": -100, "a": -100,
	}))
	assert.Equal(t, []models.Transfer{
		{FromMemberID: "a", ToMemberID: "y", AmountCents: 100},
		{FromMemberID: "b", ToMemberID: "z", AmountCents: 100},
	}, got)
}

func TestReduceToTransfers_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for round := 0; round < 500; round++ {
		n := 2 + rng.Intn(15)
		balances := make([]models.Balance, n)
		var sum int64
		for i := 0; i < n-1; i++ {
			net := rng.Int63n(20_001) - 10_000
			balances[i] = models.Balance{MemberID: fmt.Sprintf("m%02d", i), NetCents: net}
			sum += net
		}
		balances[n-1] = models.Balance{MemberID: fmt.Sprintf("m%02d", n-1), NetCents: -sum}

		nonZero := 0
		for _, b := range balances {
			if b.NetCents != 0 {
				nonZero++
			}
		}

		transfers := ReduceToTransfers(balances)
		require.True(t, AllZero(applyTransfers(balances, transfers)), "round %d", round)
		if nonZero > 0 {
			assert.LessOrEqual(t, len(transfers), nonZero-1)
		} else {
			assert.Empty(t, transfers)
		}
		for _, tr := range transfers {
			assert.Positive(t, tr.AmountCents)
			assert.NotEqual(t, tr.FromMemberID, tr.ToMemberID)
		}

		shuffled := make([]models.Balance, n)
		copy(shuffled, balances)
		rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, transfers, ReduceToTransfers(shuffled), "reduction must not depend on input order")
	}
}
