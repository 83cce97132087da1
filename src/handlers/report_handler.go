package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"fintrack-server/src/db"
	sqldb "fintrack-server/src/db/sql"
	"fintrack-server/src/reports"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetMonthlyReport builds the report for one calendar month. Month and year
// default to the current one.
func GetMonthlyReport(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		q := r.URL.Query()

		now := time.Now()
		month, year := int(now.Month()), now.Year()
		if v := q.Get("month"); v != "" {
			m, err := strconv.Atoi(v)
			if err != nil || m < 1 || m > 12 {
				http.Error(w, "invalid month", http.StatusBadRequest)
				return
			}
			month = m
		}
		if v := q.Get("year"); v != "" {
			y, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid year", http.StatusBadRequest)
				return
			}
			year = y
		}

		cacheKey := db.UserCacheKey(userID, "report", "monthly", strconv.Itoa(year), strconv.Itoa(month))
		if cached, found := db.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		start, end := util.MonthRange(year, month)
		transactions, err := sqldb.ListTransactionsInRange(r.Context(), pool, int(userID), start, end.AddDate(0, 0, -1))
		if err != nil {
			log.Printf("ERROR: Failed to load transactions for monthly report, user %d: %v", userID, err)
			http.Error(w, "failed to build report", http.StatusInternalServerError)
			return
		}

		report := reports.Monthly(transactions, util.DaysInMonth(year, month))
		db.SetReportCache(cacheKey, report)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

// GetYearlyReport builds twelve month buckets plus totals for one year.
func GetYearlyReport(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		year := time.Now().Year()
		if v := r.URL.Query().Get("year"); v != "" {
			y, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid year", http.StatusBadRequest)
				return
			}
			year = y
		}

		cacheKey := db.UserCacheKey(userID, "report", "yearly", strconv.Itoa(year))
		if cached, found := db.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		transactions, err := sqldb.ListTransactionsInRange(r.Context(), pool, int(userID), start, end)
		if err != nil {
			log.Printf("ERROR: Failed to load transactions for yearly report, user %d: %v", userID, err)
			http.Error(w, "failed to build report", http.StatusInternalServerError)
			return
		}

		report := reports.Yearly(transactions, year)
		db.SetReportCache(cacheKey, report)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

// GetCustomReport builds the report for a caller-chosen date range.
func GetCustomReport(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req struct {
			StartDate string `json:"start_date"`
			EndDate   string `json:"end_date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode custom report request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.StartDate == "" || req.EndDate == "" {
			http.Error(w, "start_date and end_date are required", http.StatusBadRequest)
			return
		}
		start, err := util.ParseDate(req.StartDate)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}
		end, err := util.ParseDate(req.EndDate)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}
		if end.Before(start) {
			http.Error(w, "end_date must not be before start_date", http.StatusBadRequest)
			return
		}

		cacheKey := db.UserCacheKey(userID, "report", "custom", start.Format("2006-01-02"), end.Format("2006-01-02"))
		if cached, found := db.Cache.Get(cacheKey); found {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(cached)
			return
		}

		transactions, err := sqldb.ListTransactionsInRange(r.Context(), pool, int(userID), start, end)
		if err != nil {
			log.Printf("ERROR: Failed to load transactions for custom report, user %d: %v", userID, err)
			http.Error(w, "failed to build report", http.StatusInternalServerError)
			return
		}

		report := reports.Custom(transactions)
		db.SetReportCache(cacheKey, report)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}
