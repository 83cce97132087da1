package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

// GetQuickDirectory resolves a user by email and returns the categories and
// accounts they can record against. Serves the quick-entry page, which runs
// without a login.
func GetQuickDirectory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("email")))
		if !util.ValidateEmail(email) {
			http.Error(w, "invalid email", http.StatusBadRequest)
			return
		}

		directory, err := db.GetQuickDirectoryByEmail(r.Context(), pool, email)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to build quick directory for %s: %v", email, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(directory)
	}
}

// CreateQuickTransaction records a transaction for the user identified by
// email. It goes through the same write path as authenticated creates, so
// the account balance and budget figures stay consistent.
func CreateQuickTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email       string  `json:"email"`
			AccountID   int     `json:"account_id"`
			CategoryID  int     `json:"category_id"`
			Amount      float64 `json:"amount"`
			Type        string  `json:"type"`
			Description *string `json:"description"`
			Date        string  `json:"date"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode quick transaction request body: %v", err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		if !util.ValidateEmail(req.Email) {
			http.Error(w, "invalid email", http.StatusBadRequest)
			return
		}
		if req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}
		if !util.ValidateTransactionType(req.Type) {
			http.Error(w, "invalid transaction type", http.StatusBadRequest)
			return
		}
		date, err := util.ParseDate(req.Date)
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		user, err := db.GetUserByEmail(r.Context(), pool, req.Email)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "user not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to resolve user for quick transaction, email %s: %v", req.Email, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		transaction := &models.Transaction{
			UserID:      user.ID,
			AccountID:   req.AccountID,
			CategoryID:  req.CategoryID,
			Amount:      req.Amount,
			Type:        req.Type,
			Description: req.Description,
			Date:        date,
		}
		created, err := db.CreateTransaction(r.Context(), pool, transaction)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "account or category not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to create quick transaction for user %d: %v", user.ID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Created quick transaction id %d for user %d", created.ID, user.ID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}
