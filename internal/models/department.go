package models

import "time"

// Department groups employees under a manager with a spending budget.
type Department struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	ManagerID       string    `db:"manager_id" json:"managerId"`
	ManagerName     string    `db:"manager_name" json:"managerName"`
	Budget          float64   `db:"budget" json:"budget"`
	BudgetUsed      float64   `db:"budget_used" json:"budgetUsed"`
	BudgetRemaining float64   `db:"budget_remaining" json:"budgetRemaining"`
	EmployeeCount   int       `db:"employee_count" json:"employeeCount"`
	Description     string    `db:"description" json:"description"`
	Active          bool      `db:"active" json:"isActive"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
