package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack-server/src/db"
	"fintrack-server/src/ledger"
	"fintrack-server/src/models"
	"fintrack-server/src/util"
)

const transactionJoinColumns = `
	t.id, t.user_id, t.account_id, t.category_id, t.amount, t.type, t.description, t.date, t.attachment, t.created_at, t.updated_at,
	c.id, c.name, c.type, c.icon, c.color, c.is_default,
	a.id, a.name, a.type, a.balance, a.color, a.icon, a.is_default`

const transactionJoinFrom = `
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	JOIN accounts a ON a.id = t.account_id`

func scanJoinedTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	var c models.Category
	var a models.Account
	err := row.Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Amount, &t.Type, &t.Description, &t.Date, &t.Attachment, &t.CreatedAt, &t.UpdatedAt,
		&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.IsDefault,
		&a.ID, &a.Name, &a.Type, &a.Balance, &a.Color, &a.Icon, &a.IsDefault,
	)
	if err != nil {
		return nil, err
	}
	t.Category = &c
	t.Account = &a
	return &t, nil
}

// CreateTransaction inserts a transaction and applies its balance and budget
// effects in one database transaction. Ownership checks run first so nothing
// is mutated when the account or category cannot be resolved for the caller.
func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, t *models.Transaction) (*models.Transaction, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := checkAccountOwned(ctx, tx, t.UserID, t.AccountID); err != nil {
		return nil, err
	}
	if err := checkCategoryVisible(ctx, tx, t.UserID, t.CategoryID); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO transactions (user_id, account_id, category_id, amount, type, description, date, attachment)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRow(ctx, query,
		t.UserID, t.AccountID, t.CategoryID, t.Amount, t.Type, t.Description, t.Date, t.Attachment,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	if err := applyBalance(ctx, tx, t.AccountID, ledger.BalanceDelta(t.Type, t.Amount)); err != nil {
		return nil, err
	}
	if acc, ok := ledger.AccrualFor(t.Type, t.Amount, t.CategoryID, t.Date); ok {
		if err := applyAccrual(ctx, tx, t.UserID, acc); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	db.ClearUserCaches(int64(t.UserID))
	return GetTransactionByID(ctx, pool, t.UserID, t.ID)
}

// UpdateTransaction applies a partial edit. The old transaction's balance and
// budget effects are undone before the new ones are applied, because the
// amount, type, account, category, and date may all change in one call.
func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int, req *models.UpdateTransactionRequest) (*models.Transaction, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	existing, err := getTransactionForUpdate(ctx, tx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	// Undo the old effects.
	if err := applyBalance(ctx, tx, existing.AccountID, -ledger.BalanceDelta(existing.Type, existing.Amount)); err != nil {
		return nil, err
	}
	if acc, ok := ledger.AccrualFor(existing.Type, existing.Amount, existing.CategoryID, existing.Date); ok {
		if err := applyAccrual(ctx, tx, userID, acc.Inverse()); err != nil {
			return nil, err
		}
	}

	updated := *existing
	if req.AccountID != nil {
		if err := checkAccountOwned(ctx, tx, userID, *req.AccountID); err != nil {
			return nil, err
		}
		updated.AccountID = *req.AccountID
	}
	if req.CategoryID != nil {
		if err := checkCategoryVisible(ctx, tx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
		updated.CategoryID = *req.CategoryID
	}
	if req.Amount != nil {
		updated.Amount = *req.Amount
	}
	if req.Type != nil {
		updated.Type = *req.Type
	}
	if req.Description != nil {
		updated.Description = req.Description
	}
	if req.Date != nil {
		date, err := util.ParseDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		updated.Date = date
	}
	if req.Attachment != nil {
		updated.Attachment = req.Attachment
	}

	query := `
		UPDATE transactions
		SET account_id = $1, category_id = $2, amount = $3, type = $4, description = $5, date = $6, attachment = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
	`
	_, err = tx.Exec(ctx, query,
		updated.AccountID, updated.CategoryID, updated.Amount, updated.Type, updated.Description, updated.Date, updated.Attachment,
		transactionID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	// Apply the new effects.
	if err := applyBalance(ctx, tx, updated.AccountID, ledger.BalanceDelta(updated.Type, updated.Amount)); err != nil {
		return nil, err
	}
	if acc, ok := ledger.AccrualFor(updated.Type, updated.Amount, updated.CategoryID, updated.Date); ok {
		if err := applyAccrual(ctx, tx, userID, acc); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	db.ClearUserCaches(int64(userID))
	return GetTransactionByID(ctx, pool, userID, transactionID)
}

// DeleteTransaction removes a transaction after undoing its balance and
// budget effects, all inside one database transaction.
func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	existing, err := getTransactionForUpdate(ctx, tx, userID, transactionID)
	if err != nil {
		return err
	}

	if err := applyBalance(ctx, tx, existing.AccountID, -ledger.BalanceDelta(existing.Type, existing.Amount)); err != nil {
		return err
	}
	if acc, ok := ledger.AccrualFor(existing.Type, existing.Amount, existing.CategoryID, existing.Date); ok {
		if err := applyAccrual(ctx, tx, userID, acc.Inverse()); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, transactionID, userID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	db.ClearUserCaches(int64(userID))
	return nil
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int) (*models.Transaction, error) {
	query := `SELECT` + transactionJoinColumns + transactionJoinFrom + `
	WHERE t.id = $1 AND t.user_id = $2`
	t, err := scanJoinedTransaction(pool.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// ListTransactions returns a filtered, paginated page of the user's
// transactions joined with their category and account, newest first, plus
// the total match count.
func ListTransactions(ctx context.Context, pool *pgxpool.Pool, userID int, f *models.TransactionFilter) ([]models.Transaction, int, error) {
	where := []string{"t.user_id = $1"}
	args := []interface{}{userID}

	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where = append(where, fmt.Sprintf("t.date >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where = append(where, fmt.Sprintf("t.date <= $%d", len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("t.category_id = $%d", len(args)))
	}
	if f.AccountID != nil {
		args = append(args, *f.AccountID)
		where = append(where, fmt.Sprintf("t.account_id = $%d", len(args)))
	}
	if f.Type != nil {
		args = append(args, *f.Type)
		where = append(where, fmt.Sprintf("t.type = $%d", len(args)))
	}
	if f.Search != nil {
		args = append(args, "%"+*f.Search+"%")
		where = append(where, fmt.Sprintf("t.description ILIKE $%d", len(args)))
	}
	clause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM transactions t WHERE ` + clause
	if err := pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	query := `SELECT` + transactionJoinColumns + transactionJoinFrom + `
	WHERE ` + clause + fmt.Sprintf(`
	ORDER BY t.date DESC, t.id DESC
	LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		t, err := scanJoinedTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, *t)
	}
	return transactions, total, rows.Err()
}

// ListTransactionsInRange returns every transaction in [start, end] joined
// with category and account, newest first. Used by reports and the export.
func ListTransactionsInRange(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) ([]models.Transaction, error) {
	query := `SELECT` + transactionJoinColumns + transactionJoinFrom + `
	WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
	ORDER BY t.date DESC, t.id DESC`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", err)
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

// ListAllTransactionsForUser returns the user's full history joined with
// category and account, newest first.
func ListAllTransactionsForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Transaction, error) {
	query := `SELECT` + transactionJoinColumns + transactionJoinFrom + `
	WHERE t.user_id = $1
	ORDER BY t.date DESC, t.id DESC`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
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

func getTransactionForUpdate(ctx context.Context, tx pgx.Tx, userID, transactionID int) (*models.Transaction, error) {
	var t models.Transaction
	query := `
		SELECT id, user_id, account_id, category_id, amount, type, description, date, attachment
		FROM transactions
		WHERE id = $1 AND user_id = $2
		FOR UPDATE
	`
	err := tx.QueryRow(ctx, query, transactionID, userID).Scan(
		&t.ID, &t.UserID, &t.AccountID, &t.CategoryID, &t.Amount, &t.Type, &t.Description, &t.Date, &t.Attachment,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

func checkAccountOwned(ctx context.Context, tx pgx.Tx, userID, accountID int) error {
	var id int
	err := tx.QueryRow(ctx, `SELECT id FROM accounts WHERE id = $1 AND user_id = $2`, accountID, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	return nil
}

func checkCategoryVisible(ctx context.Context, tx pgx.Tx, userID, categoryID int) error {
	var id int
	query := `SELECT id FROM categories WHERE id = $1 AND (user_id = $2 OR is_default = TRUE)`
	err := tx.QueryRow(ctx, query, categoryID, userID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	return nil
}

func applyBalance(ctx context.Context, tx pgx.Tx, accountID int, delta float64) error {
	if delta == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE id = $2`, delta, accountID)
	if err != nil {
		return fmt.Errorf("apply balance: %w", err)
	}
	return nil
}

// applyAccrual adjusts the spent figure of every budget row matching the
// accrual bucket. Zero matching rows is fine, budgets are optional.
func applyAccrual(ctx context.Context, tx pgx.Tx, userID int, a ledger.Accrual) error {
	query := `
		UPDATE budgets
		SET spent = spent + $1, updated_at = NOW()
		WHERE user_id = $2 AND category_id = $3 AND month = $4 AND year = $5
	`
	_, err := tx.Exec(ctx, query, a.Delta, userID, a.CategoryID, a.Month, a.Year)
	if err != nil {
		return fmt.Errorf("apply accrual: %w", err)
	}
	return nil
}
