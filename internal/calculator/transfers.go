package calculator

import (
	"container/heap"

	"github.com/mmynk/hearth/internal/models"
)

// party is one side of the reduction with the cents still outstanding.
type party struct {
	memberID  string
	remaining int64
}

// partyHeap is a max-heap on remaining, ties broken by ascending member ID.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }
func (h partyHeap) Less(i, j int) bool {
	if h[i].remaining != h[j].remaining {
		return h[i].remaining > h[j].remaining
	}
	return h[i].memberID < h[j].memberID
}
func (h partyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *partyHeap) Push(x any)   { *h = append(*h, x.(party)) }
func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}

// ReduceToTransfers turns net balances into a short list of payments.
//
// Greedy debt simplification: repeatedly match the largest debtor with the
// largest creditor, transfer the smaller of the two outstanding amounts, and
// put back whichever party still has cents left. For n non-zero balances
// this emits at most n-1 transfers in O(n log n). It is not guaranteed to
// find the global minimum number of transfers.
//
// Paying every returned transfer drives all balances to zero. The result
// is deterministic for a given input and empty when all balances are zero.
func ReduceToTransfers(balances []models.Balance) []models.Transfer {
	creditors := &partyHeap{}
	debtors := &partyHeap{}
	for _, b := range balances {
		switch {
		case b.NetCents > 0:
			*creditors = append(*creditors, party{memberID: b.MemberID, remaining: b.NetCents})
		case b.NetCents < 0:
			*debtors = append(*debtors, party{memberID: b.MemberID, remaining: -b.NetCents})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	transfers := []models.Transfer{}
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(creditors).(party)
		debtor := heap.Pop(debtors).(party)

		amount := min(creditor.remaining, debtor.remaining)
		transfers = append(transfers, models.Transfer{
			FromMemberID: debtor.memberID,
			ToMemberID:   creditor.memberID,
			AmountCents:  amount,
		})

		creditor.remaining -= amount
		debtor.remaining -= amount
		if creditor.remaining > 0 {
			heap.Push(creditors, creditor)
		}
		if debtor.remaining > 0 {
			heap.Push(debtors, debtor)
		}
	}
	return transfers
}
