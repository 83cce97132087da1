package db

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack-server/src/db"
	"fintrack-server/src/models"
)

// testPool connects to the database named by TEST_DATABASE_URL and brings
// the schema up to date. Tests that need a live database skip without it.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	pool, err := db.Connect(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, db.RunMigrations(url))
	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) *models.User {
	t.Helper()
	ctx := context.Background()
	email := fmt.Sprintf("budget-test-%d@example.com", time.Now().UnixNano())
	user, err := CreateUser(ctx, pool, email, "Budget Tester", "not-a-real-hash")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = DeleteUser(context.Background(), pool, user.ID)
	})
	return user
}

func createTestExpense(t *testing.T, pool *pgxpool.Pool, userID, accountID, categoryID int, amount float64, date time.Time, txType string) {
	t.Helper()
	_, err := CreateTransaction(context.Background(), pool, &models.Transaction{
		UserID:     userID,
		AccountID:  accountID,
		CategoryID: categoryID,
		Amount:     amount,
		Type:       txType,
		Date:       date,
	})
	require.NoError(t, err)
}

// A budget created after transactions already exist must start with spent
// equal to the sum of that month's expenses in its category, and a repeat
// upsert for the same bucket must only move the target amount.
func TestUpsertBudget_SeedsSpentFromExistingExpenses(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := createTestUser(t, pool)

	account, err := CreateAccount(ctx, pool, &models.Account{
		UserID: user.ID, Name: "Checking", Type: models.AccountTypeBank, Balance: 1000,
	})
	require.NoError(t, err)
	category, err := CreateCategory(ctx, pool, &models.Category{
		UserID: &user.ID, Name: "Groceries", Type: models.CategoryTypeExpense,
	})
	require.NoError(t, err)
	otherCategory, err := CreateCategory(ctx, pool, &models.Category{
		UserID: &user.ID, Name: "Transport", Type: models.CategoryTypeExpense,
	})
	require.NoError(t, err)

	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)

	// Three January expenses in the budgeted category.
	createTestExpense(t, pool, user.ID, account.ID, category.ID, 100, jan, models.TransactionTypeExpense)
	createTestExpense(t, pool, user.ID, account.ID, category.ID, 200, jan, models.TransactionTypeExpense)
	createTestExpense(t, pool, user.ID, account.ID, category.ID, 50, jan, models.TransactionTypeExpense)

	// Noise the seed must ignore: another month, another category, income.
	createTestExpense(t, pool, user.ID, account.ID, category.ID, 40, feb, models.TransactionTypeExpense)
	createTestExpense(t, pool, user.ID, account.ID, otherCategory.ID, 70, jan, models.TransactionTypeExpense)
	createTestExpense(t, pool, user.ID, account.ID, category.ID, 999, jan, models.TransactionTypeIncome)

	budget, err := UpsertBudget(ctx, pool, &models.Budget{
		UserID: user.ID, CategoryID: category.ID, Month: 1, Year: 2025, Amount: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, 1000.0, budget.Amount)
	assert.Equal(t, 350.0, budget.Spent, "spent must be seeded from the month's existing expenses")

	// A later expense flows in through the accrual path, not reseeding.
	createTestExpense(t, pool, user.ID, account.ID, category.ID, 25, jan, models.TransactionTypeExpense)
	budget, err = GetBudgetByID(ctx, pool, user.ID, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, 375.0, budget.Spent)

	// Upserting the same bucket again changes only the target amount.
	again, err := UpsertBudget(ctx, pool, &models.Budget{
		UserID: user.ID, CategoryID: category.ID, Month: 1, Year: 2025, Amount: 2000,
	})
	require.NoError(t, err)
	assert.Equal(t, budget.ID, again.ID, "same bucket must hit the same row")
	assert.Equal(t, 2000.0, again.Amount)
	assert.Equal(t, 375.0, again.Spent, "a repeat upsert must not reseed spent")
}

func TestUpsertBudget_EmptyMonthSeedsZero(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	user := createTestUser(t, pool)

	category, err := CreateCategory(ctx, pool, &models.Category{
		UserID: &user.ID, Name: "Dining", Type: models.CategoryTypeExpense,
	})
	require.NoError(t, err)

	budget, err := UpsertBudget(ctx, pool, &models.Budget{
		UserID: user.ID, CategoryID: category.ID, Month: 6, Year: 2025, Amount: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, budget.Spent)
}
