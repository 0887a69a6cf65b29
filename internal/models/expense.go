package models

import (
	"time"

	"github.com/lib/pq"
)

// ExpenseStatus enumerates the expense lifecycle states.
type ExpenseStatus string

const (
	StatusPending  ExpenseStatus = "PENDING"
	StatusApproved ExpenseStatus = "APPROVED"
	StatusRejected ExpenseStatus = "REJECTED"
)

// ParseExpenseStatus validates a raw status string.
func ParseExpenseStatus(raw string) (ExpenseStatus, bool) {
	switch ExpenseStatus(raw) {
	case StatusPending, StatusApproved, StatusRejected:
		return ExpenseStatus(raw), true
	}
	return "", false
}

// Terminal reports whether the status permits no further transitions.
func (s ExpenseStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Expense is a single submitted spending claim. Department and category
// names are denormalised copies; renames do not flow back into rows.
type Expense struct {
	ID              string         `db:"id"`
	EmployeeID      string         `db:"employee_id"`
	EmployeeName    string         `db:"employee_name"`
	DepartmentID    string         `db:"department_id"`
	DepartmentName  string         `db:"department_name"`
	CategoryID      string         `db:"category_id"`
	CategoryName    string         `db:"category_name"`
	Amount          float64        `db:"amount"`
	Date            Date           `db:"date"`
	Description     string         `db:"description"`
	Status          ExpenseStatus  `db:"status"`
	ReceiptURL      string         `db:"receipt_url"`
	Attachments     pq.StringArray `db:"attachments"`
	SubmittedDate   Date           `db:"submitted_date"`
	ApprovedBy      string         `db:"approved_by"`
	ApprovedDate    *Date          `db:"approved_date"`
	RejectionReason string         `db:"rejection_reason"`
	Notes           string         `db:"notes"`
	Tags            pq.StringArray `db:"tags"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

// ExpenseFilter narrows expense list queries. StartDate and EndDate are
// honoured only when both are present.
type ExpenseFilter struct {
	Status    *ExpenseStatus
	StartDate *Date
	EndDate   *Date
}

// HasDateRange reports whether the filter carries a complete date range.
func (f ExpenseFilter) HasDateRange() bool {
	return f.StartDate != nil && f.EndDate != nil
}
