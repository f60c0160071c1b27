package domain

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeFriends() []Participant {
	return []Participant{
		{ID: "a", Name: "Ada"},
		{ID: "b", Name: "Bola"},
		{ID: "c", Name: "Chidi"},
	}
}

func TestComputeBalances_EqualSplit(t *testing.T) {
	balances, warnings := ComputeBalances(threeFriends(), []Expense{
		{ID: "e1", Title: "Hotel", Amount: 9000, PaidBy: "a", SplitType: SplitEqual},
	})

	require.Empty(t, warnings)
	require.Len(t, balances, 3)

	assert.Equal(t, Money(9000), balances["a"].TotalPaid)
	assert.Equal(t, Money(3000), balances["a"].ShouldPay)
	assert.Equal(t, Money(6000), balances["a"].Balance)
	assert.Equal(t, Money(-3000), balances["b"].Balance)
	assert.Equal(t, Money(-3000), balances["c"].Balance)
	assert.Equal(t, "Bola", balances["b"].Name)
}

func TestComputeBalances_PersonalExpense(t *testing.T) {
	balances, warnings := ComputeBalances(threeFriends(), []Expense{
		{ID: "e1", Amount: 10000, PaidBy: "a", SplitType: SplitPersonal, Excluded: []string{"b"}},
	})

	require.Empty(t, warnings)
	assert.Equal(t, Money(10000), balances["a"].TotalPaid)
	assert.Equal(t, Money(10000), balances["a"].ShouldPay)
	for _, b := range balances {
		assert.Equal(t, Money(0), b.Balance, "participant %s", b.ParticipantID)
	}
}

func TestComputeBalances_Exclusion(t *testing.T) {
	balances, warnings := ComputeBalances(threeFriends(), []Expense{
		{ID: "e1", Amount: 1000, PaidBy: "a", SplitType: SplitEqual, Excluded: []string{"c"}},
	})

	require.Empty(t, warnings)
	assert.Equal(t, Money(500), balances["a"].Balance)
	assert.Equal(t, Money(-500), balances["b"].Balance)
	assert.Equal(t, Money(0), balances["c"].Balance)
	assert.Equal(t, Money(0), balances["c"].ShouldPay)
}

func TestComputeBalances_RoundsShareHalfUp(t *testing.T) {
	// 0.05 split two ways is 0.025 per person, rounded to 0.03.
	participants := []Participant{{ID: "a", Name: "Ada"}, {ID: "b", Name: "Bola"}}
	balances, _ := ComputeBalances(participants, []Expense{
		{ID: "e1", Amount: 5, PaidBy: "a", SplitType: SplitEqual},
	})

	assert.Equal(t, Money(3), balances["a"].ShouldPay)
	assert.Equal(t, Money(3), balances["b"].ShouldPay)
	assert.Equal(t, Money(2), balances["a"].Balance)
	assert.Equal(t, Money(-3), balances["b"].Balance)
}

func TestComputeBalances_EveryoneExcluded(t *testing.T) {
	balances, _ := ComputeBalances(threeFriends(), []Expense{
		{ID: "e1", Amount: 900, PaidBy: "a", Excluded: []string{"a", "b", "c"}},
	})

	assert.Equal(t, Money(900), balances["a"].Balance)
	assert.Equal(t, Money(0), balances["b"].ShouldPay)
	assert.Equal(t, Money(0), balances["c"].ShouldPay)
}

func TestComputeBalances_DanglingReferences(t *testing.T) {
	balances, warnings := ComputeBalances(threeFriends(), []Expense{
		{ID: "e1", Amount: 900, PaidBy: "ghost", SplitType: SplitEqual},
		{ID: "e2", Amount: 600, PaidBy: "a", SplitType: SplitEqual, Excluded: []string{"gone"}},
		{ID: "e3", Amount: 500, PaidBy: "ghost", SplitType: SplitPersonal},
	})

	require.Len(t, warnings, 3)
	assert.Equal(t, IntegrityWarning{Kind: WarningUnknownPayer, ExpenseID: "e1", Reference: "ghost"}, warnings[0])
	assert.Equal(t, IntegrityWarning{Kind: WarningUnknownExcluded, ExpenseID: "e2", Reference: "gone"}, warnings[1])
	assert.Equal(t, WarningUnknownPayer, warnings[2].Kind)

	// The orphaned payer is never credited but the equal split still charges everyone.
	assert.Equal(t, Money(600), balances["a"].TotalPaid)
	assert.Equal(t, Money(500), balances["a"].ShouldPay)
	assert.Equal(t, Money(-500), balances["b"].Balance)
}

func TestComputeBalances_UnknownSplitTypeIsEqual(t *testing.T) {
	balances, _ := ComputeBalances(threeFriends(), []Expense{
		{ID: "e1", Amount: 300, PaidBy: "b", SplitType: ParseSplitType("by-shares")},
	})

	assert.Equal(t, Money(200), balances["b"].Balance)
	assert.Equal(t, Money(-100), balances["a"].Balance)
}

func TestComputeBalances_Conservation(t *testing.T) {
	participants := threeFriends()
	expenses := []Expense{
		{ID: "e1", Amount: 10000, PaidBy: "a"},
		{ID: "e2", Amount: 2500, PaidBy: "b", Excluded: []string{"a"}},
		{ID: "e3", Amount: 777, PaidBy: "c", SplitType: SplitPersonal},
		{ID: "e4", Amount: 101, PaidBy: "c"},
	}

	balances, _ := ComputeBalances(participants, expenses)

	var sum Money
	for _, b := range balances {
		sum += b.Balance
	}

	// Each equal split leaves at most half a minor unit per participant of residue.
	var bound Money
	for _, e := range expenses {
		if e.SplitType != SplitPersonal {
			bound += Money(len(participants))
		}
	}
	assert.LessOrEqual(t, sum.Abs(), bound)
}

func TestComputeBalances_OrderIndependent(t *testing.T) {
	participants := threeFriends()
	expenses := []Expense{
		{ID: "e1", Amount: 9000, PaidBy: "a"},
		{ID: "e2", Amount: 1234, PaidBy: "b", Excluded: []string{"c"}},
		{ID: "e3", Amount: 4321, PaidBy: "c", SplitType: SplitPersonal},
		{ID: "e4", Amount: 55, PaidBy: "b"},
		{ID: "e5", Amount: 700, PaidBy: "c", Excluded: []string{"a"}},
	}

	want, _ := ComputeBalances(participants, expenses)

	rng := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 20; i++ {
		shuffled := append([]Expense{}, expenses...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		got, _ := ComputeBalances(participants, shuffled)
		require.Equal(t, want, got)
	}
}

func TestSortBalances(t *testing.T) {
	sorted := SortBalances(map[string]Balance{
		"a": {ParticipantID: "a", Balance: -100},
		"b": {ParticipantID: "b", Balance: 300},
		"c": {ParticipantID: "c", Balance: -100},
	})

	require.Len(t, sorted, 3)
	assert.Equal(t, "b", sorted[0].ParticipantID)
	assert.Equal(t, "a", sorted[1].ParticipantID)
	assert.Equal(t, "c", sorted[2].ParticipantID)
}
