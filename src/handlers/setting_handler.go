package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	db "fintrack-server/src/db/sql"
	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GetSettings lists the user's preferences, optionally filtered by category
// or key. A user with no settings at all gets the default set seeded on
// first unfiltered read.
func GetSettings(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		q := r.URL.Query()

		var category, key *string
		if v := q.Get("category"); v != "" {
			if !util.ValidateSettingCategory(v) {
				http.Error(w, "invalid category", http.StatusBadRequest)
				return
			}
			category = &v
		}
		if v := q.Get("key"); v != "" {
			key = &v
		}

		settings, err := db.GetSettingsForUser(r.Context(), pool, int(userID), category, key)
		if err != nil {
			log.Printf("ERROR: Failed to get settings for user %d: %v", userID, err)
			http.Error(w, "failed to get settings", http.StatusInternalServerError)
			return
		}

		if len(settings) == 0 && category == nil && key == nil {
			if err := db.SeedDefaultSettings(r.Context(), pool, int(userID)); err != nil {
				log.Printf("ERROR: Failed to seed default settings for user %d: %v", userID, err)
				http.Error(w, "failed to get settings", http.StatusInternalServerError)
				return
			}
			settings, err = db.GetSettingsForUser(r.Context(), pool, int(userID), nil, nil)
			if err != nil {
				log.Printf("ERROR: Failed to reload settings for user %d: %v", userID, err)
				http.Error(w, "failed to get settings", http.StatusInternalServerError)
				return
			}
			log.Printf("INFO: Seeded default settings for user %d", userID)
		}

		if settings == nil {
			settings = []models.UserSetting{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(settings)
	}
}

// SaveSettings bulk-saves preferences. Listed keys are replaced wholesale;
// keys not listed stay untouched.
func SaveSettings(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var req []models.SaveSettingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode save settings request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if len(req) == 0 {
			http.Error(w, "at least one setting is required", http.StatusBadRequest)
			return
		}
		for i := range req {
			if req[i].Key == "" || len(req[i].Key) > 100 {
				http.Error(w, "setting key must be between 1 and 100 characters", http.StatusBadRequest)
				return
			}
			if req[i].Type == "" {
				req[i].Type = models.SettingTypeString
			}
			if !util.ValidateSettingType(req[i].Type) {
				http.Error(w, "invalid setting type", http.StatusBadRequest)
				return
			}
			if req[i].Category == "" {
				req[i].Category = models.SettingCategoryGeneral
			}
			if !util.ValidateSettingCategory(req[i].Category) {
				http.Error(w, "invalid setting category", http.StatusBadRequest)
				return
			}
		}

		if err := db.SaveSettings(r.Context(), pool, int(userID), req); err != nil {
			log.Printf("ERROR: Failed to save settings for user %d: %v", userID, err)
			http.Error(w, "failed to save settings", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Saved %d settings for user %d", len(req), userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"message": "settings saved"})
	}
}

// UpdateSettingValue changes one existing setting's value. Unknown keys are
// a 404, not an implicit create.
func UpdateSettingValue(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		key := chi.URLParam(r, "key")
		if key == "" {
			http.Error(w, "invalid setting key", http.StatusBadRequest)
			return
		}

		var req struct {
			Value string `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode setting value request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		updated, err := db.UpdateSettingValue(r.Context(), pool, int(userID), key, req.Value)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "setting not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update setting %s for user %d: %v", key, userID, err)
			http.Error(w, "failed to update setting", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Updated setting %s for user %d", key, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

// DeleteSettings removes settings by key, category, or both. One of the two
// filters is required so a bare call cannot wipe everything.
func DeleteSettings(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		q := r.URL.Query()

		var key, category *string
		if v := q.Get("key"); v != "" {
			key = &v
		}
		if v := q.Get("category"); v != "" {
			if !util.ValidateSettingCategory(v) {
				http.Error(w, "invalid category", http.StatusBadRequest)
				return
			}
			category = &v
		}
		if key == nil && category == nil {
			http.Error(w, "either key or category is required", http.StatusBadRequest)
			return
		}

		count, err := db.DeleteSettings(r.Context(), pool, int(userID), key, category)
		if err != nil {
			log.Printf("ERROR: Failed to delete settings for user %d: %v", userID, err)
			http.Error(w, "failed to delete settings", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Deleted %d settings for user %d", count, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"deleted_count": count})
	}
}
