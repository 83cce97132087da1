package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-server/src/models"
)

func tx(txType string, amount float64, date time.Time, category, account string) models.Transaction {
	return models.Transaction{
		Amount:   amount,
		Type:     txType,
		Date:     date,
		Category: &models.Category{Name: category, Type: txType},
		Account:  &models.Account{Name: account, Type: models.AccountTypeBank},
	}
}

func TestMonthly(t *testing.T) {
	jan := func(day int) time.Time { return time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC) }
	transactions := []models.Transaction{
		tx(models.TransactionTypeIncome, 5000, jan(25), "Salary", "Bank Account"),
		tx(models.TransactionTypeExpense, 300, jan(20), "Food & Drinks", "Cash"),
		tx(models.TransactionTypeExpense, 700, jan(10), "Household", "Bank Account"),
		tx(models.TransactionTypeExpense, 200, jan(10), "Food & Drinks", "Cash"),
	}

	report := Monthly(transactions, 31)

	assert.Equal(t, 5000.0, report.Summary.Income)
	assert.Equal(t, 1200.0, report.Summary.Expense)
	assert.Equal(t, 3800.0, report.Summary.Balance)
	assert.Equal(t, 4, report.Summary.TransactionCount)
	assert.Equal(t, 5000.0, report.Summary.LargestTransaction)
	assert.InDelta(t, 76.0, report.Summary.SavingsRate, 0.001)
	assert.InDelta(t, 1200.0/31, report.Summary.AvgDailyExpense, 0.001)

	require.Len(t, report.TopCategories, 2)
	assert.Equal(t, CategoryTotal{Name: "Household", Total: 700}, report.TopCategories[0])
	assert.Equal(t, CategoryTotal{Name: "Food & Drinks", Total: 500}, report.TopCategories[1])

	require.Len(t, report.SpendingTrend, 2)
	assert.Equal(t, TrendPoint{Date: "2025-01-10", Amount: 900}, report.SpendingTrend[0])
	assert.Equal(t, TrendPoint{Date: "2025-01-20", Amount: 300}, report.SpendingTrend[1])
}

func TestMonthly_Empty(t *testing.T) {
	report := Monthly(nil, 30)
	assert.Equal(t, 0.0, report.Summary.Income)
	assert.Equal(t, 0.0, report.Summary.SavingsRate)
	assert.Equal(t, 0.0, report.Summary.AvgDailyExpense)
	assert.Empty(t, report.TopCategories)
	assert.Empty(t, report.SpendingTrend)
}

func TestMonthly_TransfersExcludedFromTotals(t *testing.T) {
	date := time.Date(2025, time.May, 2, 0, 0, 0, 0, time.UTC)
	report := Monthly([]models.Transaction{
		tx(models.TransactionTypeTransfer, 900, date, "Other Income", "Bank Account"),
		tx(models.TransactionTypeExpense, 50, date, "Shopping", "Cash"),
	}, 31)

	assert.Equal(t, 0.0, report.Summary.Income)
	assert.Equal(t, 50.0, report.Summary.Expense)
	assert.Equal(t, 900.0, report.Summary.LargestTransaction, "largest transaction counts every type")
}

func TestYearly(t *testing.T) {
	transactions := []models.Transaction{
		tx(models.TransactionTypeIncome, 1200, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC), "Salary", "Bank Account"),
		tx(models.TransactionTypeExpense, 200, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), "Shopping", "Cash"),
		tx(models.TransactionTypeExpense, 300, time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC), "Shopping", "Cash"),
		// outside the year: must not land in any bucket
		tx(models.TransactionTypeExpense, 999, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), "Shopping", "Cash"),
	}

	report := Yearly(transactions, 2025)

	require.Len(t, report.MonthlyBreakdown, 12)
	assert.Equal(t, MonthBreakdown{Month: "Mar", Income: 1200, Expense: 200, Balance: 1000}, report.MonthlyBreakdown[2])
	assert.Equal(t, MonthBreakdown{Month: "Nov", Income: 0, Expense: 300, Balance: -300}, report.MonthlyBreakdown[10])
	assert.Equal(t, MonthBreakdown{Month: "Jan", Income: 0, Expense: 0, Balance: 0}, report.MonthlyBreakdown[0])

	// totals include the stray 2024 row because the caller fetched it;
	// month buckets are the year-scoped view
	assert.Equal(t, 1200.0, report.Summary.TotalIncome)
	assert.Equal(t, 1499.0, report.Summary.TotalExpense)
	assert.InDelta(t, 1200.0/12, report.Summary.AvgMonthlyIncome, 0.001)
}

func TestCustom(t *testing.T) {
	day1 := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)
	transactions := []models.Transaction{
		tx(models.TransactionTypeIncome, 800, day1, "Salary", "Bank Account"),
		tx(models.TransactionTypeExpense, 100, day1, "Food & Drinks", "Cash"),
		tx(models.TransactionTypeExpense, 250, day2, "Shopping", "Cash"),
	}

	report := Custom(transactions)

	assert.Equal(t, 800.0, report.Income)
	assert.Equal(t, 350.0, report.Expense)
	assert.Equal(t, 450.0, report.Balance)
	assert.Equal(t, 3, report.TransactionCount)

	require.Len(t, report.CategoryBreakdown, 3)
	assert.Equal(t, "Shopping", report.CategoryBreakdown[0].Name, "sorted by expense, largest first")
	assert.Equal(t, 250.0, report.CategoryBreakdown[0].Expense)

	require.Len(t, report.AccountBreakdown, 2)
	assert.Equal(t, "Bank Account", report.AccountBreakdown[0].Name)
	assert.Equal(t, 800.0, report.AccountBreakdown[0].Income)
	assert.Equal(t, "Cash", report.AccountBreakdown[1].Name)
	assert.Equal(t, 350.0, report.AccountBreakdown[1].Expense)

	require.Len(t, report.DailyTotals, 2)
	assert.Equal(t, DailyTotal{Date: "2025-06-01", Income: 800, Expense: 100}, report.DailyTotals[0])
	assert.Equal(t, DailyTotal{Date: "2025-06-02", Income: 0, Expense: 250}, report.DailyTotals[1])
}

func TestExport(t *testing.T) {
	// newest first, matching the query order
	transactions := []models.Transaction{
		tx(models.TransactionTypeExpense, 60, time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC), "Food & Drinks", "Cash"),
		tx(models.TransactionTypeIncome, 400, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), "Salary", "Bank Account"),
	}

	m := Export(transactions)

	assert.Equal(t, 400.0, m.Income)
	assert.Equal(t, 60.0, m.Expense)
	assert.Equal(t, 340.0, m.Balance)
	assert.InDelta(t, 85.0, m.SavingsRate, 0.001)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), m.FirstDate)
	assert.Equal(t, time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC), m.LastDate)
	assert.InDelta(t, 6.0, m.AvgDailyExpense, 0.001)
}

func TestExport_Empty(t *testing.T) {
	m := Export(nil)
	assert.Equal(t, 0.0, m.Income)
	assert.Equal(t, 0.0, m.AvgDailyExpense)
}
