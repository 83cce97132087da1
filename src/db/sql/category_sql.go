package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/models"
)

const categoryColumns = `id, user_id, name, type, icon, color, is_default, created_at`

func scanCategory(row pgx.Row) (*models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.IsDefault, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, c *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type, icon, color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns
	created, err := scanCategory(pool.QueryRow(ctx, query, c.UserID, c.Name, c.Type, c.Icon, c.Color))
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return created, nil
}

// GetCategoriesForUser returns the user's own categories plus the shared
// defaults, optionally narrowed to one type.
func GetCategoriesForUser(ctx context.Context, pool *pgxpool.Pool, userID int, categoryType *string) ([]models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE (user_id = $1 OR is_default = TRUE)`
	args := []interface{}{userID}
	if categoryType != nil {
		args = append(args, *categoryType)
		query += ` AND type = $2`
	}
	query += ` ORDER BY is_default DESC, name`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// GetCategoryByID resolves a category the user can see: their own or a
// shared default.
func GetCategoryByID(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND (user_id = $2 OR is_default = TRUE)`
	c, err := scanCategory(pool.QueryRow(ctx, query, categoryID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// UpdateCategory edits an owned, non-default category. The type is fixed at
// creation and cannot be changed here.
func UpdateCategory(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int, req *models.UpdateCategoryRequest) (*models.Category, error) {
	existing, err := GetCategoryByID(ctx, pool, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Icon != nil {
		existing.Icon = req.Icon
	}
	if req.Color != nil {
		existing.Color = req.Color
	}

	query := `
		UPDATE categories
		SET name = $1, icon = $2, color = $3
		WHERE id = $4 AND user_id = $5
		RETURNING ` + categoryColumns
	updated, err := scanCategory(pool.QueryRow(ctx, query, existing.Name, existing.Icon, existing.Color, categoryID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return updated, nil
}

func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, categoryID, userID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func CountTransactionsForCategory(ctx context.Context, pool *pgxpool.Pool, categoryID int) (int, error) {
	var count int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}
