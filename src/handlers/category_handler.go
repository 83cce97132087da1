package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name  string  `json:"name"`
			Type  string  `json:"type"`
			Icon  *string `json:"icon"`
			Color *string `json:"color"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if !util.ValidateCategoryType(req.Type) {
			http.Error(w, "invalid category type", http.StatusBadRequest)
			return
		}
		if req.Color != nil && !util.ValidateHexColor(*req.Color) {
			http.Error(w, "invalid color", http.StatusBadRequest)
			return
		}

		uid := int(userID)
		category := &models.Category{
			UserID: &uid,
			Name:   req.Name,
			Type:   req.Type,
			Icon:   req.Icon,
			Color:  req.Color,
		}
		created, err := db.CreateCategory(r.Context(), pool, category)
		if err != nil {
			log.Printf("ERROR: Failed to create category for user %d: %v", userID, err)
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Created category id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetCategoriesForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var categoryType *string
		if t := r.URL.Query().Get("type"); t != "" {
			if !util.ValidateCategoryType(t) {
				http.Error(w, "invalid category type", http.StatusBadRequest)
				return
			}
			categoryType = &t
		}

		categories, err := db.GetCategoriesForUser(r.Context(), pool, int(userID), categoryType)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %d: %v", userID, err)
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		if categories == nil {
			categories = []models.Category{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(categories)
	}
}

func UpdateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryID, err := strconv.Atoi(chi.URLParam(r, "category_id"))
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		existing, err := db.GetCategoryByID(r.Context(), pool, int(userID), categoryID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "category not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to get category id %d for user %d: %v", categoryID, userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if existing.IsDefault {
			http.Error(w, "default categories cannot be modified", http.StatusForbidden)
			return
		}

		var req models.UpdateCategoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update category request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Color != nil && !util.ValidateHexColor(*req.Color) {
			http.Error(w, "invalid color", http.StatusBadRequest)
			return
		}

		updated, err := db.UpdateCategory(r.Context(), pool, int(userID), categoryID, &req)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "category not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update category id %d for user %d: %v", categoryID, userID, err)
			http.Error(w, "failed to update category", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Updated category id %d for user %d", categoryID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		categoryID, err := strconv.Atoi(chi.URLParam(r, "category_id"))
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}

		existing, err := db.GetCategoryByID(r.Context(), pool, int(userID), categoryID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "category not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to get category id %d for user %d: %v", categoryID, userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if existing.IsDefault {
			http.Error(w, "default categories cannot be deleted", http.StatusForbidden)
			return
		}

		count, err := db.CountTransactionsForCategory(r.Context(), pool, categoryID)
		if err != nil {
			log.Printf("ERROR: Failed to count transactions for category %d: %v", categoryID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if count > 0 {
			http.Error(w, "cannot delete a category that has transactions", http.StatusBadRequest)
			return
		}

		if err := db.DeleteCategory(r.Context(), pool, int(userID), categoryID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "category not found", http.StatusNotFound)
				return
			}
			if strings.Contains(err.Error(), "foreign key") {
				http.Error(w, "cannot delete a category that is still referenced", http.StatusBadRequest)
				return
			}
			log.Printf("ERROR: Failed to delete category id %d for user %d: %v", categoryID, userID, err)
			http.Error(w, "failed to delete category", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Deleted category id %d for user %d", categoryID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "category deleted"})
	}
}
