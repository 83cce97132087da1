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

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			AccountID   int     `json:"account_id"`
			CategoryID  int     `json:"category_id"`
			Amount      float64 `json:"amount"`
			Type        string  `json:"type"`
			Description *string `json:"description"`
			Date        string  `json:"date"`
			Attachment  *string `json:"attachment"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
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

		transaction := &models.Transaction{
			UserID:      int(userID),
			AccountID:   req.AccountID,
			CategoryID:  req.CategoryID,
			Amount:      req.Amount,
			Type:        req.Type,
			Description: req.Description,
			Date:        date,
			Attachment:  req.Attachment,
		}
		created, err := db.CreateTransaction(r.Context(), pool, transaction)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "account or category not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Created transaction id %d for user %d, type %s, amount %.2f", created.ID, userID, created.Type, created.Amount)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetTransactionByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionID, err := strconv.Atoi(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		transaction, err := db.GetTransactionByID(r.Context(), pool, int(userID), transactionID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "transaction not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to get transaction id %d for user %d: %v", transactionID, userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(transaction)
	}
}

// ListTransactions returns a filtered page of the user's history. Filters
// arrive as query parameters and all of them are optional.
func ListTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		filter, err := parseTransactionFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		transactions, total, err := db.ListTransactions(r.Context(), pool, int(userID), filter)
		if err != nil {
			log.Printf("ERROR: Failed to list transactions for user %d: %v", userID, err)
			http.Error(w, "failed to list transactions", http.StatusInternalServerError)
			return
		}
		if transactions == nil {
			transactions = []models.Transaction{}
		}

		totalPages := total / filter.Limit
		if total%filter.Limit != 0 {
			totalPages++
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": transactions,
			"pagination": models.Pagination{
				Page:       filter.Page,
				Limit:      filter.Limit,
				Total:      total,
				TotalPages: totalPages,
			},
		})
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionID, err := strconv.Atoi(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		var req models.UpdateTransactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Amount != nil && *req.Amount <= 0 {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}
		if req.Type != nil && !util.ValidateTransactionType(*req.Type) {
			http.Error(w, "invalid transaction type", http.StatusBadRequest)
			return
		}
		if req.Date != nil {
			if _, err := util.ParseDate(*req.Date); err != nil {
				http.Error(w, "invalid date", http.StatusBadRequest)
				return
			}
		}

		updated, err := db.UpdateTransaction(r.Context(), pool, int(userID), transactionID, &req)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "transaction not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update transaction id %d for user %d: %v", transactionID, userID, err)
			http.Error(w, "failed to update transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Updated transaction id %d for user %d", transactionID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		transactionID, err := strconv.Atoi(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteTransaction(r.Context(), pool, int(userID), transactionID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "transaction not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to delete transaction id %d for user %d: %v", transactionID, userID, err)
			http.Error(w, "failed to delete transaction", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Deleted transaction id %d for user %d", transactionID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "transaction deleted"})
	}
}

func parseTransactionFilter(r *http.Request) (*models.TransactionFilter, error) {
	q := r.URL.Query()
	filter := &models.TransactionFilter{Page: 1, Limit: 20}

	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return nil, errors.New("invalid page")
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 || limit > 100 {
			return nil, errors.New("invalid limit")
		}
		filter.Limit = limit
	}
	if v := q.Get("start_date"); v != "" {
		start, err := util.ParseDate(v)
		if err != nil {
			return nil, errors.New("invalid start_date")
		}
		filter.StartDate = &start
	}
	if v := q.Get("end_date"); v != "" {
		end, err := util.ParseDate(v)
		if err != nil {
			return nil, errors.New("invalid end_date")
		}
		filter.EndDate = &end
	}
	if v := q.Get("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("invalid category_id")
		}
		filter.CategoryID = &id
	}
	if v := q.Get("account_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, errors.New("invalid account_id")
		}
		filter.AccountID = &id
	}
	if v := q.Get("type"); v != "" {
		if !util.ValidateTransactionType(v) {
			return nil, errors.New("invalid type")
		}
		filter.Type = &v
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}
	return filter, nil
}
