// Package reports aggregates transaction history into the figures the
// report and export endpoints return. Everything here is pure computation
// over rows already fetched; the database layer owns the queries.
package reports

import (
	"sort"
	"time"

	"fintrack-server/src/models"
)

type Summary struct {
	Income             float64 `json:"income"`
	Expense            float64 `json:"expense"`
	Balance            float64 `json:"balance"`
	AvgDailyExpense    float64 `json:"avg_daily_expense"`
	SavingsRate        float64 `json:"savings_rate"`
	LargestTransaction float64 `json:"largest_transaction"`
	TransactionCount   int     `json:"transaction_count"`
}

type CategoryTotal struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

type TrendPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

type MonthlyReport struct {
	Summary       Summary              `json:"summary"`
	TopCategories []CategoryTotal      `json:"top_categories"`
	SpendingTrend []TrendPoint         `json:"spending_trend"`
	Transactions  []models.Transaction `json:"transactions"`
}

// Monthly builds the monthly report from one month's transactions.
// daysInMonth is used for the average daily expense.
func Monthly(transactions []models.Transaction, daysInMonth int) MonthlyReport {
	income := sumByType(transactions, models.TransactionTypeIncome)
	expense := sumByType(transactions, models.TransactionTypeExpense)

	summary := Summary{
		Income:           income,
		Expense:          expense,
		Balance:          income - expense,
		TransactionCount: len(transactions),
	}
	if income > 0 {
		summary.SavingsRate = (income - expense) / income * 100
	}
	if expense > 0 && daysInMonth > 0 {
		summary.AvgDailyExpense = expense / float64(daysInMonth)
	}
	for _, t := range transactions {
		if t.Amount > summary.LargestTransaction {
			summary.LargestTransaction = t.Amount
		}
	}

	return MonthlyReport{
		Summary:       summary,
		TopCategories: topCategories(transactions, 5),
		SpendingTrend: spendingTrend(transactions),
		Transactions:  transactions,
	}
}

type MonthBreakdown struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type YearlySummary struct {
	TotalIncome       float64 `json:"total_income"`
	TotalExpense      float64 `json:"total_expense"`
	YearlyBalance     float64 `json:"yearly_balance"`
	AvgMonthlyIncome  float64 `json:"avg_monthly_income"`
	AvgMonthlyExpense float64 `json:"avg_monthly_expense"`
	SavingsRate       float64 `json:"savings_rate"`
	TransactionCount  int     `json:"transaction_count"`
}

type YearlyReport struct {
	Summary          YearlySummary    `json:"summary"`
	MonthlyBreakdown []MonthBreakdown `json:"monthly_breakdown"`
	TopCategories    []CategoryTotal  `json:"top_categories"`
}

// Yearly builds the yearly report: twelve month buckets plus totals and the
// top expense categories.
func Yearly(transactions []models.Transaction, year int) YearlyReport {
	breakdown := make([]MonthBreakdown, 0, 12)
	for month := time.January; month <= time.December; month++ {
		var income, expense float64
		for _, t := range transactions {
			if t.Date.Year() != year || t.Date.Month() != month {
				continue
			}
			switch t.Type {
			case models.TransactionTypeIncome:
				income += t.Amount
			case models.TransactionTypeExpense:
				expense += t.Amount
			}
		}
		breakdown = append(breakdown, MonthBreakdown{
			Month:   month.String()[:3],
			Income:  income,
			Expense: expense,
			Balance: income - expense,
		})
	}

	totalIncome := sumByType(transactions, models.TransactionTypeIncome)
	totalExpense := sumByType(transactions, models.TransactionTypeExpense)
	summary := YearlySummary{
		TotalIncome:       totalIncome,
		TotalExpense:      totalExpense,
		YearlyBalance:     totalIncome - totalExpense,
		AvgMonthlyIncome:  totalIncome / 12,
		AvgMonthlyExpense: totalExpense / 12,
		TransactionCount:  len(transactions),
	}
	if totalIncome > 0 {
		summary.SavingsRate = (totalIncome - totalExpense) / totalIncome * 100
	}

	return YearlyReport{
		Summary:          summary,
		MonthlyBreakdown: breakdown,
		TopCategories:    topCategories(transactions, 10),
	}
}

type CategorySplit struct {
	Name    string  `json:"name"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type AccountSplit struct {
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type DailyTotal struct {
	Date    string  `json:"date"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type CustomReport struct {
	Income            float64         `json:"income"`
	Expense           float64         `json:"expense"`
	Balance           float64         `json:"balance"`
	TransactionCount  int             `json:"transaction_count"`
	CategoryBreakdown []CategorySplit `json:"category_breakdown"`
	AccountBreakdown  []AccountSplit  `json:"account_breakdown"`
	DailyTotals       []DailyTotal    `json:"daily_totals"`
}

// Custom builds the free date-range report: totals plus per-category,
// per-account, and per-day splits.
func Custom(transactions []models.Transaction) CustomReport {
	income := sumByType(transactions, models.TransactionTypeIncome)
	expense := sumByType(transactions, models.TransactionTypeExpense)

	byCategory := make(map[string]*CategorySplit)
	byAccount := make(map[string]*AccountSplit)
	byDay := make(map[string]*DailyTotal)
	for _, t := range transactions {
		categoryName := "Uncategorized"
		if t.Category != nil {
			categoryName = t.Category.Name
		}
		cs, ok := byCategory[categoryName]
		if !ok {
			cs = &CategorySplit{Name: categoryName}
			byCategory[categoryName] = cs
		}

		accountName, accountType := "Unknown", ""
		if t.Account != nil {
			accountName, accountType = t.Account.Name, t.Account.Type
		}
		as, ok := byAccount[accountName]
		if !ok {
			as = &AccountSplit{Name: accountName, Type: accountType}
			byAccount[accountName] = as
		}

		day := t.Date.Format("2006-01-02")
		dt, ok := byDay[day]
		if !ok {
			dt = &DailyTotal{Date: day}
			byDay[day] = dt
		}

		switch t.Type {
		case models.TransactionTypeIncome:
			cs.Income += t.Amount
			as.Income += t.Amount
			dt.Income += t.Amount
		case models.TransactionTypeExpense:
			cs.Expense += t.Amount
			as.Expense += t.Amount
			dt.Expense += t.Amount
		}
	}

	categories := make([]CategorySplit, 0, len(byCategory))
	for _, cs := range byCategory {
		categories = append(categories, *cs)
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Expense != categories[j].Expense {
			return categories[i].Expense > categories[j].Expense
		}
		return categories[i].Name < categories[j].Name
	})

	accounts := make([]AccountSplit, 0, len(byAccount))
	for _, as := range byAccount {
		accounts = append(accounts, *as)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })

	days := make([]DailyTotal, 0, len(byDay))
	for _, dt := range byDay {
		days = append(days, *dt)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	return CustomReport{
		Income:            income,
		Expense:           expense,
		Balance:           income - expense,
		TransactionCount:  len(transactions),
		CategoryBreakdown: categories,
		AccountBreakdown:  accounts,
		DailyTotals:       days,
	}
}

// ExportMetrics are the headline figures printed on the PDF export.
type ExportMetrics struct {
	Income          float64
	Expense         float64
	Balance         float64
	SavingsRate     float64
	AvgDailyExpense float64
	FirstDate       time.Time
	LastDate        time.Time
}

// Export computes headline metrics over a full history (newest first).
func Export(transactions []models.Transaction) ExportMetrics {
	income := sumByType(transactions, models.TransactionTypeIncome)
	expense := sumByType(transactions, models.TransactionTypeExpense)

	m := ExportMetrics{
		Income:    income,
		Expense:   expense,
		Balance:   income - expense,
		FirstDate: time.Now(),
		LastDate:  time.Now(),
	}
	if income > 0 {
		m.SavingsRate = (income - expense) / income * 100
	}
	if len(transactions) > 0 {
		m.FirstDate = transactions[len(transactions)-1].Date
		m.LastDate = transactions[0].Date
	}
	days := m.LastDate.Sub(m.FirstDate).Hours() / 24
	if days < 1 {
		days = 1
	}
	m.AvgDailyExpense = expense / days
	return m
}

func sumByType(transactions []models.Transaction, txType string) float64 {
	var total float64
	for _, t := range transactions {
		if t.Type == txType {
			total += t.Amount
		}
	}
	return total
}

func topCategories(transactions []models.Transaction, limit int) []CategoryTotal {
	totals := make(map[string]float64)
	for _, t := range transactions {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		name := "Uncategorized"
		if t.Category != nil {
			name = t.Category.Name
		}
		totals[name] += t.Amount
	}

	result := make([]CategoryTotal, 0, len(totals))
	for name, total := range totals {
		result = append(result, CategoryTotal{Name: name, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Name < result[j].Name
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func spendingTrend(transactions []models.Transaction) []TrendPoint {
	daily := make(map[string]float64)
	for _, t := range transactions {
		if t.Type != models.TransactionTypeExpense {
			continue
		}
		daily[t.Date.Format("2006-01-02")] += t.Amount
	}

	trend := make([]TrendPoint, 0, len(daily))
	for date, amount := range daily {
		trend = append(trend, TrendPoint{Date: date, Amount: amount})
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })
	return trend
}
