package models

import "time"

const (
	AccountTypeCash       = "CASH"
	AccountTypeBank       = "BANK"
	AccountTypeEwallet    = "EWALLET"
	AccountTypeCreditCard = "CREDIT_CARD"
)

type Account struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Balance   float64   `json:"balance"`
	Color     *string   `json:"color"`
	Icon      *string   `json:"icon"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UpdateAccountRequest struct {
	Name      *string  `json:"name"`
	Type      *string  `json:"type"`
	Balance   *float64 `json:"balance"`
	Color     *string  `json:"color"`
	Icon      *string  `json:"icon"`
	IsDefault *bool    `json:"is_default"`
}
