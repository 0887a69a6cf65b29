package models

import "time"

// Category classifies expenses. Spending limits are declared per category
// but not enforced on submission.
type Category struct {
	ID                  string    `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	Description         string    `db:"description" json:"description"`
	Icon                string    `db:"icon" json:"icon"`
	Color               string    `db:"color" json:"color"`
	Default             bool      `db:"is_default" json:"isDefault"`
	Active              bool      `db:"active" json:"isActive"`
	LimitPerTransaction *float64  `db:"limit_per_transaction" json:"limitPerTransaction,omitempty"`
	LimitDaily          *float64  `db:"limit_daily" json:"limitDaily,omitempty"`
	LimitMonthly        *float64  `db:"limit_monthly" json:"limitMonthly,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}
