package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Balance is one participant's position in a trip.
// Balance > 0 means the participant is owed money; < 0 means they owe.
type Balance struct {
	ParticipantID string
	Name          string
	TotalPaid     Money
	ShouldPay     Money
	Balance       Money
}

// Integrity warning kinds
const (
	WarningUnknownPayer    = "unknown_payer"
	WarningUnknownExcluded = "unknown_excluded"
)

// IntegrityWarning reports a dangling participant reference found while computing balances.
// It never aborts the computation.
type IntegrityWarning struct {
	Kind      string
	ExpenseID string
	Reference string
}

// ComputeBalances derives every participant's paid, owed and net amounts from the expenses.
//
// The payer of an expense is credited the full amount when known. A personal expense is
// charged entirely to its payer. Any other expense is shared equally among participants
// that are not excluded; the share is rounded half-up to whole minor units and the
// rounding residue is not redistributed. Expenses with no eligible participant charge
// nobody. Unknown payers and unknown excluded ids are reported as warnings.
func ComputeBalances(participants []Participant, expenses []Expense) (map[string]Balance, []IntegrityWarning) {
	balances := make(map[string]*Balance, len(participants))
	for _, p := range participants {
		balances[p.ID] = &Balance{ParticipantID: p.ID, Name: p.Name}
	}

	var warnings []IntegrityWarning

	for i := range expenses {
		e := &expenses[i]

		payer, payerKnown := balances[e.PaidBy]
		if payerKnown {
			payer.TotalPaid += e.Amount
		} else {
			warnings = append(warnings, IntegrityWarning{
				Kind:      WarningUnknownPayer,
				ExpenseID: e.ID,
				Reference: e.PaidBy,
			})
		}

		if e.SplitType == SplitPersonal {
			if payerKnown {
				payer.ShouldPay += e.Amount
			}
			continue
		}

		for _, ex := range e.Excluded {
			if _, ok := balances[ex]; !ok {
				warnings = append(warnings, IntegrityWarning{
					Kind:      WarningUnknownExcluded,
					ExpenseID: e.ID,
					Reference: ex,
				})
			}
		}

		eligible := make([]*Balance, 0, len(participants))
		for _, p := range participants {
			if !e.IsExcluded(p.ID) {
				eligible = append(eligible, balances[p.ID])
			}
		}

		share := equalShare(e.Amount, len(eligible))
		for _, b := range eligible {
			b.ShouldPay += share
		}
	}

	out := make(map[string]Balance, len(balances))
	for id, b := range balances {
		b.Balance = b.TotalPaid - b.ShouldPay
		out[id] = *b
	}

	return out, warnings
}

func equalShare(amount Money, count int) Money {
	if count < 1 {
		count = 1
	}
	share := decimal.NewFromInt(int64(amount)).DivRound(decimal.NewFromInt(int64(count)), 0)
	return Money(share.IntPart())
}

// RoundingBound is the largest |Σ balances| that equal-split rounding alone can produce.
// Each equal split over k participants leaves at most k/2 minor units of residue.
func RoundingBound(participants []Participant, expenses []Expense) Money {
	var bound Money
	for i := range expenses {
		if expenses[i].SplitType == SplitPersonal {
			continue
		}
		k := 0
		for _, p := range participants {
			if !expenses[i].IsExcluded(p.ID) {
				k++
			}
		}
		bound += Money(k / 2)
	}
	return bound
}

// SortBalances returns the balances ordered by Balance descending, then participant id.
func SortBalances(balances map[string]Balance) []Balance {
	out := make([]Balance, 0, len(balances))
	for _, b := range balances {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})
	return out
}
