package domain

import "container/heap"

// Settlement is a single suggested payment from a debtor to a creditor.
type Settlement struct {
	FromID   string
	FromName string
	ToID     string
	ToName   string
	Amount   Money
}

type party struct {
	id     string
	name   string
	amount Money
}

// partyHeap is a max-heap on outstanding amount, ties broken by ascending id.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }
func (h partyHeap) Less(i, j int) bool {
	if h[i].amount != h[j].amount {
		return h[i].amount > h[j].amount
	}
	return h[i].id < h[j].id
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

// Settle suggests payments that clear the balances, matching the largest debtor with
// the largest creditor until everyone is within tolerance of zero.
//
// Balances within tolerance of zero are treated as settled. Every emitted amount is
// positive and at most len(balances)-1 payments are produced. The result is
// deterministic for a given input.
func Settle(balances map[string]Balance, tolerance Money) []Settlement {
	if tolerance < 0 {
		tolerance = 0
	}

	creditors := &partyHeap{}
	debtors := &partyHeap{}
	for _, b := range balances {
		switch {
		case b.Balance > tolerance:
			*creditors = append(*creditors, party{id: b.ParticipantID, name: b.Name, amount: b.Balance})
		case b.Balance < -tolerance:
			*debtors = append(*debtors, party{id: b.ParticipantID, name: b.Name, amount: -b.Balance})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	settlements := make([]Settlement, 0)
	for creditors.Len() > 0 && debtors.Len() > 0 {
		c := heap.Pop(creditors).(party)
		d := heap.Pop(debtors).(party)

		amount := min(c.amount, d.amount)
		settlements = append(settlements, Settlement{
			FromID:   d.id,
			FromName: d.name,
			ToID:     c.id,
			ToName:   c.name,
			Amount:   amount,
		})

		c.amount -= amount
		d.amount -= amount
		if c.amount > tolerance {
			heap.Push(creditors, c)
		}
		if d.amount > tolerance {
			heap.Push(debtors, d)
		}
	}

	return settlements
}

// SettleTrip computes balances and settlements for a trip in one pass.
func SettleTrip(t *Trip) (map[string]Balance, []Settlement, []IntegrityWarning) {
	balances, warnings := ComputeBalances(t.Participants, t.Expenses)
	return balances, Settle(balances, SettlementTolerance(t.Currency)), warnings
}
