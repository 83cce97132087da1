package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name      string  `json:"name"`
			Type      string  `json:"type"`
			Balance   float64 `json:"balance"`
			Color     *string `json:"color"`
			Icon      *string `json:"icon"`
			IsDefault bool    `json:"is_default"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if !util.ValidateAccountType(req.Type) {
			http.Error(w, "invalid account type", http.StatusBadRequest)
			return
		}
		if req.Color != nil && !util.ValidateHexColor(*req.Color) {
			http.Error(w, "invalid color", http.StatusBadRequest)
			return
		}

		account := &models.Account{
			UserID:    int(userID),
			Name:      req.Name,
			Type:      req.Type,
			Balance:   req.Balance,
			Color:     req.Color,
			Icon:      req.Icon,
			IsDefault: req.IsDefault,
		}
		created, err := db.CreateAccount(r.Context(), pool, account)
		if err != nil {
			log.Printf("ERROR: Failed to create account for user %d: %v", userID, err)
			http.Error(w, "failed to create account", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Created account id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAccountByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := strconv.Atoi(chi.URLParam(r, "account_id"))
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}
		account, err := db.GetAccountByID(r.Context(), pool, int(userID), accountID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "account not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to get account id %d for user %d: %v", accountID, userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(account)
	}
}

func GetAllAccountsForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accounts, err := db.GetAllAccountsForUser(r.Context(), pool, int(userID))
		if err != nil {
			log.Printf("ERROR: Failed to get accounts for user %d: %v", userID, err)
			http.Error(w, "failed to get accounts", http.StatusInternalServerError)
			return
		}
		if accounts == nil {
			accounts = []models.Account{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(accounts)
	}
}

func UpdateAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := strconv.Atoi(chi.URLParam(r, "account_id"))
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}
		var req models.UpdateAccountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update account request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Type != nil && !util.ValidateAccountType(*req.Type) {
			http.Error(w, "invalid account type", http.StatusBadRequest)
			return
		}
		if req.Color != nil && !util.ValidateHexColor(*req.Color) {
			http.Error(w, "invalid color", http.StatusBadRequest)
			return
		}

		updated, err := db.UpdateAccount(r.Context(), pool, int(userID), accountID, &req)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "account not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update account id %d for user %d: %v", accountID, userID, err)
			http.Error(w, "failed to update account", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Updated account id %d for user %d", accountID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteAccount(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		accountID, err := strconv.Atoi(chi.URLParam(r, "account_id"))
		if err != nil {
			http.Error(w, "invalid account id", http.StatusBadRequest)
			return
		}

		count, err := db.CountTransactionsForAccount(r.Context(), pool, accountID)
		if err != nil {
			log.Printf("ERROR: Failed to count transactions for account %d: %v", accountID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if count > 0 {
			http.Error(w, "cannot delete an account that has transactions", http.StatusBadRequest)
			return
		}

		if err := db.DeleteAccount(r.Context(), pool, int(userID), accountID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "account not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to delete account id %d for user %d: %v", accountID, userID, err)
			http.Error(w, "failed to delete account", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Deleted account id %d for user %d", accountID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "account deleted"})
	}
}
