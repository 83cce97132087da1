package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/models"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, deadline, status, created_at, updated_at`

func scanGoal(row pgx.Row) (*models.Goal, error) {
	var g models.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func CreateGoal(ctx context.Context, pool *pgxpool.Pool, g *models.Goal) (*models.Goal, error) {
	query := `
		INSERT INTO goals (user_id, name, target_amount, current_amount, deadline, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + goalColumns
	created, err := scanGoal(pool.QueryRow(ctx, query, g.UserID, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Status))
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return created, nil
}

func GetGoalsForUser(ctx context.Context, pool *pgxpool.Pool, userID int, status *string) ([]models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = $1`
	args := []interface{}{userID}
	if status != nil {
		args = append(args, *status)
		query += ` AND status = $2`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func GetGoalByID(ctx context.Context, pool *pgxpool.Pool, userID, goalID int) (*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1 AND user_id = $2`
	g, err := scanGoal(pool.QueryRow(ctx, query, goalID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get goal: %w", err)
	}
	return g, nil
}

func UpdateGoal(ctx context.Context, pool *pgxpool.Pool, g *models.Goal) (*models.Goal, error) {
	query := `
		UPDATE goals
		SET name = $1, target_amount = $2, current_amount = $3, deadline = $4, status = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + goalColumns
	updated, err := scanGoal(pool.QueryRow(ctx, query, g.Name, g.TargetAmount, g.CurrentAmount, g.Deadline, g.Status, g.ID, g.UserID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return updated, nil
}

// UpdateGoalProgress sets the saved amount and flips the goal to COMPLETED
// once the target is reached. The ledger never touches goals; progress is an
// explicit user action.
func UpdateGoalProgress(ctx context.Context, pool *pgxpool.Pool, userID, goalID int, currentAmount float64) (*models.Goal, error) {
	existing, err := GetGoalByID(ctx, pool, userID, goalID)
	if err != nil {
		return nil, err
	}

	status := existing.Status
	if currentAmount >= existing.TargetAmount {
		status = models.GoalStatusCompleted
	}

	query := `
		UPDATE goals
		SET current_amount = $1, status = $2, updated_at = NOW()
		WHERE id = $3 AND user_id = $4
		RETURNING ` + goalColumns
	updated, err := scanGoal(pool.QueryRow(ctx, query, currentAmount, status, goalID, userID))
	if err != nil {
		return nil, fmt.Errorf("update goal progress: %w", err)
	}
	return updated, nil
}

func DeleteGoal(ctx context.Context, pool *pgxpool.Pool, userID, goalID int) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
