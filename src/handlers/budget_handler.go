package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UpsertBudget creates or updates the budget for one category month. Repeat
// calls for the same bucket only move the target amount.
func UpsertBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			CategoryID int     `json:"category_id"`
			Month      int     `json:"month"`
			Year       int     `json:"year"`
			Amount     float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}
		if req.Month < 1 || req.Month > 12 {
			http.Error(w, "month must be between 1 and 12", http.StatusBadRequest)
			return
		}
		if req.Year < 2000 || req.Year > 2200 {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}

		budget := &models.Budget{
			UserID:     int(userID),
			CategoryID: req.CategoryID,
			Month:      req.Month,
			Year:       req.Year,
			Amount:     req.Amount,
		}
		saved, err := db.UpsertBudget(r.Context(), pool, budget)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "category not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to upsert budget for user %d: %v", userID, err)
			http.Error(w, "failed to save budget", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Saved budget id %d for user %d, category %d, %d-%02d", saved.ID, userID, saved.CategoryID, saved.Year, saved.Month)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(saved)
	}
}

// GetBudgetsForUser lists one month's budgets. Month and year default to the
// current calendar month.
func GetBudgetsForUser(pool *pgxpool.Pool) http.HandlerFunc {
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

		var categoryID *int
		if v := q.Get("category_id"); v != "" {
			id, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "invalid category_id", http.StatusBadRequest)
				return
			}
			categoryID = &id
		}

		page, limit := 1, 20
		if v := q.Get("page"); v != "" {
			p, err := strconv.Atoi(v)
			if err != nil || p < 1 {
				http.Error(w, "invalid page", http.StatusBadRequest)
				return
			}
			page = p
		}
		if v := q.Get("limit"); v != "" {
			l, err := strconv.Atoi(v)
			if err != nil || l < 1 || l > 100 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = l
		}

		budgets, total, err := db.GetBudgetsForUser(r.Context(), pool, int(userID), month, year, categoryID, page, limit)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for user %d: %v", userID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		if budgets == nil {
			budgets = []models.Budget{}
		}

		totalPages := total / limit
		if total%limit != 0 {
			totalPages++
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": budgets,
			"pagination": models.Pagination{
				Page:       page,
				Limit:      limit,
				Total:      total,
				TotalPages: totalPages,
			},
		})
	}
}

func UpdateBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID, err := strconv.Atoi(chi.URLParam(r, "budget_id"))
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}

		var req struct {
			Amount float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update budget request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}

		updated, err := db.UpdateBudgetAmount(r.Context(), pool, int(userID), budgetID, req.Amount)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "budget not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update budget id %d for user %d: %v", budgetID, userID, err)
			http.Error(w, "failed to update budget", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Updated budget id %d for user %d", budgetID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		budgetID, err := strconv.Atoi(chi.URLParam(r, "budget_id"))
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteBudget(r.Context(), pool, int(userID), budgetID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "budget not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to delete budget id %d for user %d: %v", budgetID, userID, err)
			http.Error(w, "failed to delete budget", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Deleted budget id %d for user %d", budgetID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "budget deleted"})
	}
}
