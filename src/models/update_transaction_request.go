package models

// UpdateTransactionRequest carries a partial transaction edit. Any of the
// fields may change in a single call, including the owning account and the
// month the transaction falls in.
type UpdateTransactionRequest struct {
	AccountID   *int     `json:"account_id"`
	CategoryID  *int     `json:"category_id"`
	Amount      *float64 `json:"amount"`
	Type        *string  `json:"type"`
	Description *string  `json:"description"`
	Date        *string  `json:"date"`
	Attachment  *string  `json:"attachment"`
}
