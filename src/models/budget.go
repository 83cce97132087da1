package models

import "time"

// Budget tracks a spending target for one category in one month. The spent
// column is derived: it is seeded from existing transactions when the budget
// is created and maintained by the transaction write path afterwards.
type Budget struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	CategoryID int       `json:"category_id"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Amount     float64   `json:"amount"`
	Spent      float64   `json:"spent"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Category *Category `json:"category,omitempty"`
}
