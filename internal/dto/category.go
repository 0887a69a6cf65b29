package dto

// CategoryRequest creates or updates an expense category.
type CategoryRequest struct {
	Name                string   `json:"name" validate:"required"`
	Description         string   `json:"description"`
	Icon                string   `json:"icon"`
	Color               string   `json:"color"`
	Default             bool     `json:"isDefault"`
	Active              *bool    `json:"isActive"`
	LimitPerTransaction *float64 `json:"limitPerTransaction" validate:"omitempty,gt=0"`
	LimitDaily          *float64 `json:"limitDaily" validate:"omitempty,gt=0"`
	LimitMonthly        *float64 `json:"limitMonthly" validate:"omitempty,gt=0"`
}
