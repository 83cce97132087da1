package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/db"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

const budgetJoinColumns = `
	b.id, b.user_id, b.category_id, b.month, b.year, b.amount, b.spent, b.created_at, b.updated_at,
	c.id, c.name, c.type, c.icon, c.color, c.is_default`

func scanJoinedBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	var c models.Category
	err := row.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Month, &b.Year, &b.Amount, &b.Spent, &b.CreatedAt, &b.UpdatedAt,
		&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.IsDefault,
	)
	if err != nil {
		return nil, err
	}
	b.Category = &c
	return &b, nil
}

// UpsertBudget creates a budget for one (category, month, year) bucket or,
// when the bucket already exists, updates only its target amount. On insert
// the spent figure is seeded from the expense transactions already recorded
// for that bucket, so budgets created retroactively start out correct. An
// existing bucket's spent figure is never reseeded: the transaction write
// path has been maintaining it incrementally since creation.
func UpsertBudget(ctx context.Context, pool *pgxpool.Pool, b *models.Budget) (*models.Budget, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkCategoryVisible(ctx, tx, b.UserID, b.CategoryID); err != nil {
		return nil, err
	}

	start, end := util.MonthRange(b.Year, b.Month)

	var seed float64
	seedQuery := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND category_id = $2 AND type = 'EXPENSE' AND date >= $3 AND date < $4
	`
	if err := tx.QueryRow(ctx, seedQuery, b.UserID, b.CategoryID, start, end).Scan(&seed); err != nil {
		return nil, fmt.Errorf("seed spent: %w", err)
	}

	query := `
		INSERT INTO budgets (user_id, category_id, month, year, amount, spent)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, category_id, month, year)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		RETURNING id
	`
	if err := tx.QueryRow(ctx, query, b.UserID, b.CategoryID, b.Month, b.Year, b.Amount, seed).Scan(&b.ID); err != nil {
		return nil, fmt.Errorf("upsert budget: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	db.ClearUserCaches(int64(b.UserID))
	return GetBudgetByID(ctx, pool, b.UserID, b.ID)
}

func GetBudgetByID(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int) (*models.Budget, error) {
	query := `SELECT` + budgetJoinColumns + `
	FROM budgets b
	JOIN categories c ON c.id = b.category_id
	WHERE b.id = $1 AND b.user_id = $2`
	b, err := scanJoinedBudget(pool.QueryRow(ctx, query, budgetID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// GetBudgetsForUser returns one month's budgets joined with their category,
// optionally narrowed to a single category, newest first, plus the total
// match count for pagination.
func GetBudgetsForUser(ctx context.Context, pool *pgxpool.Pool, userID, month, year int, categoryID *int, page, limit int) ([]models.Budget, int, error) {
	where := `b.user_id = $1 AND b.month = $2 AND b.year = $3`
	args := []interface{}{userID, month, year}
	if categoryID != nil {
		args = append(args, *categoryID)
		where += fmt.Sprintf(" AND b.category_id = $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM budgets b WHERE ` + where
	if err := pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count budgets: %w", err)
	}

	args = append(args, limit, (page-1)*limit)
	query := `SELECT` + budgetJoinColumns + `
	FROM budgets b
	JOIN categories c ON c.id = b.category_id
	WHERE ` + where + fmt.Sprintf(`
	ORDER BY b.created_at DESC
	LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		b, err := scanJoinedBudget(rows)
		if err != nil {
			return nil, 0, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, total, rows.Err()
}

// UpdateBudgetAmount changes only the target amount. The spent figure stays
// under the control of the transaction write path.
func UpdateBudgetAmount(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int, amount float64) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET amount = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id
	`
	var id int
	err := pool.QueryRow(ctx, query, amount, budgetID, userID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update budget: %w", err)
	}
	db.ClearUserCaches(int64(userID))
	return GetBudgetByID(ctx, pool, userID, id)
}

func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	db.ClearUserCaches(int64(userID))
	return nil
}

// GetBudgetProgress returns one month's budgets with their category name for
// the dashboard progress chart.
func GetBudgetProgress(ctx context.Context, pool *pgxpool.Pool, userID, month, year int) ([]models.Budget, error) {
	query := `SELECT` + budgetJoinColumns + `
	FROM budgets b
	JOIN categories c ON c.id = b.category_id
	WHERE b.user_id = $1 AND b.month = $2 AND b.year = $3
	ORDER BY c.name`
	rows, err := pool.Query(ctx, query, userID, month, year)
	if err != nil {
		return nil, fmt.Errorf("budget progress: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		b, err := scanJoinedBudget(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, *b)
	}
	return budgets, rows.Err()
}
