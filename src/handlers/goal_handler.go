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

func CreateGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		var req struct {
			Name          string  `json:"name"`
			TargetAmount  float64 `json:"target_amount"`
			CurrentAmount float64 `json:"current_amount"`
			Deadline      *string `json:"deadline"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create goal request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		if req.TargetAmount <= 0 {
			http.Error(w, "target amount must be positive", http.StatusBadRequest)
			return
		}
		if req.CurrentAmount < 0 {
			http.Error(w, "current amount cannot be negative", http.StatusBadRequest)
			return
		}

		goal := &models.Goal{
			UserID:        int(userID),
			Name:          req.Name,
			TargetAmount:  req.TargetAmount,
			CurrentAmount: req.CurrentAmount,
			Status:        models.GoalStatusActive,
		}
		if req.Deadline != nil {
			deadline, err := util.ParseDate(*req.Deadline)
			if err != nil {
				http.Error(w, "invalid deadline", http.StatusBadRequest)
				return
			}
			goal.Deadline = &deadline
		}
		if goal.CurrentAmount >= goal.TargetAmount {
			goal.Status = models.GoalStatusCompleted
		}

		created, err := db.CreateGoal(r.Context(), pool, goal)
		if err != nil {
			log.Printf("ERROR: Failed to create goal for user %d: %v", userID, err)
			http.Error(w, "failed to create goal", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Created goal id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetGoalsForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)

		var status *string
		if v := r.URL.Query().Get("status"); v != "" {
			if !util.ValidateGoalStatus(v) {
				http.Error(w, "invalid status", http.StatusBadRequest)
				return
			}
			status = &v
		}

		goals, err := db.GetGoalsForUser(r.Context(), pool, int(userID), status)
		if err != nil {
			log.Printf("ERROR: Failed to get goals for user %d: %v", userID, err)
			http.Error(w, "failed to get goals", http.StatusInternalServerError)
			return
		}
		if goals == nil {
			goals = []models.Goal{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(goals)
	}
}

func UpdateGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		goalID, err := strconv.Atoi(chi.URLParam(r, "goal_id"))
		if err != nil {
			http.Error(w, "invalid goal id", http.StatusBadRequest)
			return
		}

		var req models.UpdateGoalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update goal request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.TargetAmount != nil && *req.TargetAmount <= 0 {
			http.Error(w, "target amount must be positive", http.StatusBadRequest)
			return
		}
		if req.Status != nil && !util.ValidateGoalStatus(*req.Status) {
			http.Error(w, "invalid status", http.StatusBadRequest)
			return
		}

		existing, err := db.GetGoalByID(r.Context(), pool, int(userID), goalID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "goal not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to get goal id %d for user %d: %v", goalID, userID, err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if req.Name != nil {
			existing.Name = *req.Name
		}
		if req.TargetAmount != nil {
			existing.TargetAmount = *req.TargetAmount
		}
		if req.CurrentAmount != nil {
			existing.CurrentAmount = *req.CurrentAmount
		}
		if req.Deadline != nil {
			deadline, err := util.ParseDate(*req.Deadline)
			if err != nil {
				http.Error(w, "invalid deadline", http.StatusBadRequest)
				return
			}
			existing.Deadline = &deadline
		}
		if req.Status != nil {
			existing.Status = *req.Status
		}

		updated, err := db.UpdateGoal(r.Context(), pool, existing)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "goal not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update goal id %d for user %d: %v", goalID, userID, err)
			http.Error(w, "failed to update goal", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Updated goal id %d for user %d", goalID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

// UpdateGoalProgress records a new saved amount. The goal flips to COMPLETED
// on its own once the target is reached.
func UpdateGoalProgress(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		goalID, err := strconv.Atoi(chi.URLParam(r, "goal_id"))
		if err != nil {
			http.Error(w, "invalid goal id", http.StatusBadRequest)
			return
		}

		var req struct {
			CurrentAmount float64 `json:"current_amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode goal progress request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.CurrentAmount < 0 {
			http.Error(w, "current amount cannot be negative", http.StatusBadRequest)
			return
		}

		updated, err := db.UpdateGoalProgress(r.Context(), pool, int(userID), goalID, req.CurrentAmount)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "goal not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to update progress for goal id %d, user %d: %v", goalID, userID, err)
			http.Error(w, "failed to update goal progress", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Updated progress for goal id %d, user %d, amount %.2f", goalID, userID, req.CurrentAmount)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteGoal(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value("user_id").(int64)
		goalID, err := strconv.Atoi(chi.URLParam(r, "goal_id"))
		if err != nil {
			http.Error(w, "invalid goal id", http.StatusBadRequest)
			return
		}

		if err := db.DeleteGoal(r.Context(), pool, int(userID), goalID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				http.Error(w, "goal not found", http.StatusNotFound)
				return
			}
			log.Printf("ERROR: Failed to delete goal id %d for user %d: %v", goalID, userID, err)
			http.Error(w, "failed to delete goal", http.StatusInternalServerError)
			return
		}

		log.Printf("INFO: Deleted goal id %d for user %d", goalID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "goal deleted"})
	}
}
