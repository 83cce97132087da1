// Package ledger holds the pure bookkeeping rules that keep account balances
// and budget spent totals consistent with the set of recorded transactions.
// The rules compute deltas only; applying them atomically is the job of the
// database layer.
package ledger

import (
	"time"

	"fintrack-server/src/models"
)

// BalanceDelta returns the signed change a transaction of the given type and
// amount makes to its account's balance. INCOME adds, EXPENSE subtracts.
// TRANSFER is recorded but does not move balances.
func BalanceDelta(txType string, amount float64) float64 {
	switch txType {
	case models.TransactionTypeIncome:
		return amount
	case models.TransactionTypeExpense:
		return -amount
	default:
		return 0
	}
}

// Accrual is an instruction to adjust the spent figure of every budget a user
// holds for one (category, month, year) bucket.
type Accrual struct {
	CategoryID int
	Month      int
	Year       int
	Delta      float64
}

// AccrualFor returns the budget accrual a transaction produces, bucketed by
// the transaction's calendar month. Only EXPENSE transactions accrue; ok is
// false for every other type. A missing budget for the bucket is not an
// error, so callers apply the accrual as a conditional bulk update.
func AccrualFor(txType string, amount float64, categoryID int, date time.Time) (Accrual, bool) {
	if txType != models.TransactionTypeExpense {
		return Accrual{}, false
	}
	return Accrual{
		CategoryID: categoryID,
		Month:      int(date.Month()),
		Year:       date.Year(),
		Delta:      amount,
	}, true
}

// Inverse returns the accrual that undoes a. Updating or deleting a
// transaction first applies the inverse of its original accrual before any
// new one is applied.
func (a Accrual) Inverse() Accrual {
	a.Delta = -a.Delta
	return a
}
