package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-server/src/models"
)

func TestBalanceDelta(t *testing.T) {
	tests := []struct {
		name   string
		txType string
		amount float64
		want   float64
	}{
		{name: "income adds", txType: models.TransactionTypeIncome, amount: 500, want: 500},
		{name: "expense subtracts", txType: models.TransactionTypeExpense, amount: 100, want: -100},
		{name: "transfer is a no-op", txType: models.TransactionTypeTransfer, amount: 250, want: 0},
		{name: "unknown type is a no-op", txType: "REFUND", amount: 10, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BalanceDelta(tt.txType, tt.amount))
		})
	}
}

func TestAccrualFor(t *testing.T) {
	date := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	acc, ok := AccrualFor(models.TransactionTypeExpense, 100, 7, date)
	require.True(t, ok)
	assert.Equal(t, Accrual{CategoryID: 7, Month: 1, Year: 2025, Delta: 100}, acc)

	_, ok = AccrualFor(models.TransactionTypeIncome, 100, 7, date)
	assert.False(t, ok, "income must not accrue against budgets")

	_, ok = AccrualFor(models.TransactionTypeTransfer, 100, 7, date)
	assert.False(t, ok, "transfer must not accrue against budgets")
}

func TestAccrualFor_DecemberBucket(t *testing.T) {
	date := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	acc, ok := AccrualFor(models.TransactionTypeExpense, 42, 3, date)
	require.True(t, ok)
	assert.Equal(t, 12, acc.Month)
	assert.Equal(t, 2024, acc.Year)
}

func TestAccrualInverse(t *testing.T) {
	acc := Accrual{CategoryID: 7, Month: 6, Year: 2025, Delta: 80}
	inv := acc.Inverse()
	assert.Equal(t, -80.0, inv.Delta)
	assert.Equal(t, acc.CategoryID, inv.CategoryID)
	assert.Equal(t, acc.Month, inv.Month)
	assert.Equal(t, acc.Year, inv.Year)
	assert.Equal(t, 80.0, acc.Delta, "Inverse must not mutate the receiver")
}

// Replays the create/update/delete sequence from the balance bookkeeping
// rules: an account's balance is always the running sum of signed deltas of
// the transactions that currently exist.
func TestBalanceDelta_Sequence(t *testing.T) {
	balance := 0.0

	// create EXPENSE 100
	balance += BalanceDelta(models.TransactionTypeExpense, 100)
	assert.Equal(t, -100.0, balance)

	// create INCOME 500
	balance += BalanceDelta(models.TransactionTypeIncome, 500)
	assert.Equal(t, 400.0, balance)

	// update the expense from 100 to 150: undo old, apply new
	balance -= BalanceDelta(models.TransactionTypeExpense, 100)
	balance += BalanceDelta(models.TransactionTypeExpense, 150)
	assert.Equal(t, 350.0, balance)

	// delete the income
	balance -= BalanceDelta(models.TransactionTypeIncome, 500)
	assert.Equal(t, -150.0, balance)
}

// An update that changes nothing must leave balances and budgets untouched
// after the undo/redo pair.
func TestUndoRedo_NoChangeIsIdempotent(t *testing.T) {
	date := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	balance := 1000.0
	spent := 300.0

	balance -= BalanceDelta(models.TransactionTypeExpense, 75)
	if acc, ok := AccrualFor(models.TransactionTypeExpense, 75, 2, date); ok {
		spent += acc.Inverse().Delta
	}
	balance += BalanceDelta(models.TransactionTypeExpense, 75)
	if acc, ok := AccrualFor(models.TransactionTypeExpense, 75, 2, date); ok {
		spent += acc.Delta
	}

	assert.Equal(t, 1000.0, balance)
	assert.Equal(t, 300.0, spent)
}

// Moving an expense across a month boundary must shift its amount from the
// old month's budget bucket to the new one.
func TestAccrual_CrossMonthMove(t *testing.T) {
	oldDate := time.Date(2025, time.January, 28, 0, 0, 0, 0, time.UTC)
	newDate := time.Date(2025, time.February, 2, 0, 0, 0, 0, time.UTC)

	spentJan := 500.0
	spentFeb := 120.0

	oldAcc, ok := AccrualFor(models.TransactionTypeExpense, 200, 4, oldDate)
	require.True(t, ok)
	newAcc, ok := AccrualFor(models.TransactionTypeExpense, 200, 4, newDate)
	require.True(t, ok)

	require.NotEqual(t, oldAcc.Month, newAcc.Month)
	spentJan += oldAcc.Inverse().Delta
	spentFeb += newAcc.Delta

	assert.Equal(t, 300.0, spentJan)
	assert.Equal(t, 320.0, spentFeb)
}

// Changing an expense into an income must both remove the budget accrual and
// flip the sign of the balance effect.
func TestUndoRedo_TypeChange(t *testing.T) {
	date := time.Date(2025, time.July, 14, 0, 0, 0, 0, time.UTC)

	balance := 0.0
	spent := 90.0

	balance += BalanceDelta(models.TransactionTypeExpense, 90)
	require.Equal(t, -90.0, balance)

	// edit: EXPENSE -> INCOME, same amount
	balance -= BalanceDelta(models.TransactionTypeExpense, 90)
	if acc, ok := AccrualFor(models.TransactionTypeExpense, 90, 1, date); ok {
		spent += acc.Inverse().Delta
	}
	balance += BalanceDelta(models.TransactionTypeIncome, 90)
	if _, ok := AccrualFor(models.TransactionTypeIncome, 90, 1, date); ok {
		t.Fatal("income produced an accrual")
	}

	assert.Equal(t, 90.0, balance)
	assert.Equal(t, 0.0, spent)
}
