package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/db"
	"fintrack-server/src/models"
)

const accountColumns = `id, user_id, name, type, balance, color, icon, is_default, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.Balance, &a.Color, &a.Icon, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func CreateAccount(ctx context.Context, pool *pgxpool.Pool, a *models.Account) (*models.Account, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if a.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE accounts SET is_default = FALSE WHERE user_id = $1 AND is_default = TRUE`, a.UserID); err != nil {
			return nil, fmt.Errorf("clear default account: %w", err)
		}
	}

	query := `
		INSERT INTO accounts (user_id, name, type, balance, color, icon, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + accountColumns
	created, err := scanAccount(tx.QueryRow(ctx, query, a.UserID, a.Name, a.Type, a.Balance, a.Color, a.Icon, a.IsDefault))
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func GetAccountByID(ctx context.Context, pool *pgxpool.Pool, userID, accountID int) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND user_id = $2`
	a, err := scanAccount(pool.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func GetAllAccountsForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY created_at`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}

// UpdateAccount applies a partial edit. A balance sent here overwrites the
// running figure directly, rebasing the bookkeeping from that value onward.
func UpdateAccount(ctx context.Context, pool *pgxpool.Pool, userID, accountID int, req *models.UpdateAccountRequest) (*models.Account, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	existing, err := scanAccount(tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 AND user_id = $2 FOR UPDATE`, accountID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Type != nil {
		existing.Type = *req.Type
	}
	if req.Balance != nil {
		existing.Balance = *req.Balance
	}
	if req.Color != nil {
		existing.Color = req.Color
	}
	if req.Icon != nil {
		existing.Icon = req.Icon
	}
	if req.IsDefault != nil {
		existing.IsDefault = *req.IsDefault
		if *req.IsDefault {
			if _, err := tx.Exec(ctx, `UPDATE accounts SET is_default = FALSE WHERE user_id = $1 AND is_default = TRUE AND id <> $2`, userID, accountID); err != nil {
				return nil, fmt.Errorf("clear default account: %w", err)
			}
		}
	}

	query := `
		UPDATE accounts
		SET name = $1, type = $2, balance = $3, color = $4, icon = $5, is_default = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
		RETURNING ` + accountColumns
	updated, err := scanAccount(tx.QueryRow(ctx, query,
		existing.Name, existing.Type, existing.Balance, existing.Color, existing.Icon, existing.IsDefault,
		accountID, userID))
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	db.ClearUserCaches(int64(userID))
	return updated, nil
}

func DeleteAccount(ctx context.Context, pool *pgxpool.Pool, userID, accountID int) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1 AND user_id = $2`, accountID, userID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	db.ClearUserCaches(int64(userID))
	return nil
}

func CountTransactionsForAccount(ctx context.Context, pool *pgxpool.Pool, accountID int) (int, error) {
	var count int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

func SumAccountBalances(ctx context.Context, pool *pgxpool.Pool, userID int) (float64, error) {
	var total float64
	err := pool.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM accounts WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum balances: %w", err)
	}
	return total, nil
}
