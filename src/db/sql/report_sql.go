package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/models"
)

// SumTransactions returns the total amount of one transaction type in
// [start, end).
func SumTransactions(ctx context.Context, pool *pgxpool.Pool, userID int, txType string, start, end time.Time) (float64, error) {
	var total float64
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND type = $2 AND date >= $3 AND date < $4
	`
	err := pool.QueryRow(ctx, query, userID, txType, start, end).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}
	return total, nil
}

// RecentTransactions returns the newest transactions joined with category
// and account for the dashboard.
func RecentTransactions(ctx context.Context, pool *pgxpool.Pool, userID, limit int) ([]models.Transaction, error) {
	query := `SELECT` + transactionJoinColumns + transactionJoinFrom + `
	WHERE t.user_id = $1
	ORDER BY t.date DESC, t.id DESC
	LIMIT $2`
	rows, err := pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanJoinedTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, rows.Err()
}

// CategorySpend is one slice of the expenses-by-category chart.
type CategorySpend struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// ExpensesByCategory groups one period's expenses by category, largest
// first.
func ExpensesByCategory(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) ([]CategorySpend, error) {
	query := `
		SELECT c.name, SUM(t.amount), COALESCE(c.color, '#6B7280')
		FROM transactions t
		JOIN categories c ON c.id = t.category_id
		WHERE t.user_id = $1 AND t.type = 'EXPENSE' AND t.date >= $2 AND t.date < $3
		GROUP BY c.id, c.name, c.color
		ORDER BY SUM(t.amount) DESC
	`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("expenses by category: %w", err)
	}
	defer rows.Close()

	var spends []CategorySpend
	for rows.Next() {
		var s CategorySpend
		if err := rows.Scan(&s.Name, &s.Value, &s.Color); err != nil {
			return nil, err
		}
		spends = append(spends, s)
	}
	return spends, rows.Err()
}

// QuickDirectory is the public quick-entry lookup: the categories and
// accounts a user can record against, resolved by email.
type QuickDirectory struct {
	Email      string            `json:"email"`
	Name       string            `json:"name"`
	Categories []models.Category `json:"categories"`
	Accounts   []models.Account  `json:"accounts"`
}

func GetQuickDirectoryByEmail(ctx context.Context, pool *pgxpool.Pool, email string) (*QuickDirectory, error) {
	user, err := GetUserByEmail(ctx, pool, email)
	if err != nil {
		return nil, err
	}

	categories, err := GetCategoriesForUser(ctx, pool, user.ID, nil)
	if err != nil {
		return nil, err
	}
	accounts, err := GetAllAccountsForUser(ctx, pool, user.ID)
	if err != nil {
		return nil, err
	}

	return &QuickDirectory{
		Email:      user.Email,
		Name:       user.Name,
		Categories: categories,
		Accounts:   accounts,
	}, nil
}
