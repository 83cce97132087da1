package models

import "time"

const (
	TransactionTypeIncome   = "INCOME"
	TransactionTypeExpense  = "EXPENSE"
	TransactionTypeTransfer = "TRANSFER"
)

type Transaction struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	AccountID   int       `json:"account_id"`
	CategoryID  int       `json:"category_id"`
	Amount      float64   `json:"amount"`
	Type        string    `json:"type"`
	Description *string   `json:"description"`
	Date        time.Time `json:"date"`
	Attachment  *string   `json:"attachment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined for display.
	Category *Category `json:"category,omitempty"`
	Account  *Account  `json:"account,omitempty"`
}

type TransactionFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CategoryID *int
	AccountID  *int
	Type       *string
	Search     *string
	Page       int
	Limit      int
}
