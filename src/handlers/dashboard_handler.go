package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"fintrack-server/src/db"
	sqldb "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

type dashboardSummary struct {
	TotalBalance       float64              `json:"total_balance"`
	MonthlyIncome      float64              `json:"monthly_income"`
	MonthlyExpense     float64              `json:"monthly_expense"`
	IncomeChange       float64              `json:"income_change"`
	ExpenseChange      float64              `json:"expense_change"`
	RecentTransactions []models.Transaction `json:"recent_transactions"`
}

// GetDashboardSummary returns the headline numbers for the current month
// next to the previous month, cached per user until the next ledger write.
func GetDashboardSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		cacheKey := db.UserCacheKey(userID, "dashboard", "summary")
		if cached, found := db.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		now := time.Now()
		thisStart, thisEnd := util.MonthRange(now.Year(), int(now.Month()))
		prev := now.AddDate(0, -1, 0)
		prevStart, prevEnd := util.MonthRange(prev.Year(), int(prev.Month()))

		var summary dashboardSummary
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			total, err := sqldb.SumAccountBalances(ctx, pool, int(userID))
			summary.TotalBalance = total
			return err
		})
		g.Go(func() error {
			income, err := sqldb.SumTransactions(ctx, pool, int(userID), models.TransactionTypeIncome, thisStart, thisEnd)
			summary.MonthlyIncome = income
			return err
		})
		g.Go(func() error {
			expense, err := sqldb.SumTransactions(ctx, pool, int(userID), models.TransactionTypeExpense, thisStart, thisEnd)
			summary.MonthlyExpense = expense
			return err
		})
		var prevIncome, prevExpense float64
		g.Go(func() error {
			income, err := sqldb.SumTransactions(ctx, pool, int(userID), models.TransactionTypeIncome, prevStart, prevEnd)
			prevIncome = income
			return err
		})
		g.Go(func() error {
			expense, err := sqldb.SumTransactions(ctx, pool, int(userID), models.TransactionTypeExpense, prevStart, prevEnd)
			prevExpense = expense
			return err
		})
		g.Go(func() error {
			recent, err := sqldb.RecentTransactions(ctx, pool, int(userID), 5)
			summary.RecentTransactions = recent
			return err
		})
		if err := g.Wait(); err != nil {
			log.Printf("ERROR: Failed to build dashboard summary for user %d: %v", userID, err)
			http.Error(w, "failed to build dashboard summary", http.StatusInternalServerError)
			return
		}

		summary.IncomeChange = percentChange(prevIncome, summary.MonthlyIncome)
		summary.ExpenseChange = percentChange(prevExpense, summary.MonthlyExpense)
		if summary.RecentTransactions == nil {
			summary.RecentTransactions = []models.Transaction{}
		}

		db.SetDashboardCache(cacheKey, summary)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}

type monthPoint struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type budgetProgressEntry struct {
	CategoryName string  `json:"category_name"`
	Amount       float64 `json:"amount"`
	Spent        float64 `json:"spent"`
	Percentage   float64 `json:"percentage"`
}

type dashboardCharts struct {
	MonthlySeries      []monthPoint          `json:"monthly_series"`
	ExpensesByCategory []sqldb.CategorySpend `json:"expenses_by_category"`
	BudgetProgress     []budgetProgressEntry `json:"budget_progress"`
}

// GetDashboardCharts returns the income/expense series for the last six
// months, the current month's expense split, and budget progress.
func GetDashboardCharts(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		months := 6
		if v := r.URL.Query().Get("months"); v != "" {
			m, err := strconv.Atoi(v)
			if err != nil || m < 1 || m > 24 {
				http.Error(w, "invalid months", http.StatusBadRequest)
				return
			}
			months = m
		}

		cacheKey := db.UserCacheKey(userID, "dashboard", "charts", strconv.Itoa(months))
		if cached, found := db.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		now := time.Now()
		var charts dashboardCharts

		charts.MonthlySeries = make([]monthPoint, 0, months)
		for i := months - 1; i >= 0; i-- {
			ref := now.AddDate(0, -i, 0)
			start, end := util.MonthRange(ref.Year(), int(ref.Month()))

			income, err := sqldb.SumTransactions(r.Context(), pool, int(userID), models.TransactionTypeIncome, start, end)
			if err != nil {
				log.Printf("ERROR: Failed to sum income for user %d: %v", userID, err)
				http.Error(w, "failed to build dashboard charts", http.StatusInternalServerError)
				return
			}
			expense, err := sqldb.SumTransactions(r.Context(), pool, int(userID), models.TransactionTypeExpense, start, end)
			if err != nil {
				log.Printf("ERROR: Failed to sum expenses for user %d: %v", userID, err)
				http.Error(w, "failed to build dashboard charts", http.StatusInternalServerError)
				return
			}
			charts.MonthlySeries = append(charts.MonthlySeries, monthPoint{
				Month:   ref.Month().String()[:3],
				Income:  income,
				Expense: expense,
			})
		}

		thisStart, thisEnd := util.MonthRange(now.Year(), int(now.Month()))
		spends, err := sqldb.ExpensesByCategory(r.Context(), pool, int(userID), thisStart, thisEnd)
		if err != nil {
			log.Printf("ERROR: Failed to get expenses by category for user %d: %v", userID, err)
			http.Error(w, "failed to build dashboard charts", http.StatusInternalServerError)
			return
		}
		if spends == nil {
			spends = []sqldb.CategorySpend{}
		}
		charts.ExpensesByCategory = spends

		budgets, err := sqldb.GetBudgetProgress(r.Context(), pool, int(userID), int(now.Month()), now.Year())
		if err != nil {
			log.Printf("ERROR: Failed to get budget progress for user %d: %v", userID, err)
			http.Error(w, "failed to build dashboard charts", http.StatusInternalServerError)
			return
		}
		charts.BudgetProgress = make([]budgetProgressEntry, 0, len(budgets))
		for _, b := range budgets {
			entry := budgetProgressEntry{
				Amount: b.Amount,
				Spent:  b.Spent,
			}
			if b.Category != nil {
				entry.CategoryName = b.Category.Name
			}
			if b.Amount > 0 {
				entry.Percentage = b.Spent / b.Amount * 100
			}
			charts.BudgetProgress = append(charts.BudgetProgress, entry)
		}

		db.SetDashboardCache(cacheKey, charts)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(charts)
	}
}

// percentChange reports 100% growth from zero rather than dividing by it.
func percentChange(previous, current float64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	return (current - previous) / previous * 100
}
