package dto

import (
	"github.com/zideo/fintrack-api/internal/models"
)

// ExpenseRecord is the wire representation of an expense. The same shape is
// accepted on create and update; server-owned fields (id, status, audit
// trail) are ignored on input.
type ExpenseRecord struct {
	ID              string       `json:"id,omitempty"`
	EmployeeID      string       `json:"employeeId" validate:"required"`
	EmployeeName    string       `json:"employeeName" validate:"required"`
	DepartmentID    string       `json:"departmentId" validate:"required"`
	DepartmentName  string       `json:"departmentName"`
	CategoryID      string       `json:"categoryId" validate:"required"`
	CategoryName    string       `json:"categoryName"`
	Amount          float64      `json:"amount" validate:"required,gt=0"`
	Date            models.Date  `json:"date" validate:"required"`
	Description     string       `json:"description"`
	Status          string       `json:"status,omitempty"`
	ReceiptURL      string       `json:"receiptUrl,omitempty"`
	Attachments     []string     `json:"attachments"`
	SubmittedDate   models.Date  `json:"submittedDate,omitempty"`
	ApprovedBy      string       `json:"approvedBy,omitempty"`
	ApprovedDate    *models.Date `json:"approvedDate,omitempty"`
	RejectionReason string       `json:"rejectionReason,omitempty"`
	Notes           string       `json:"notes,omitempty"`
	Tags            []string     `json:"tags"`
}

// ExpenseListQuery carries the optional list filters as received over HTTP.
type ExpenseListQuery struct {
	Status    string `form:"status"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// RejectExpenseRequest carries the rejection reason. The reason may be
// empty; it is recorded verbatim.
type RejectExpenseRequest struct {
	RejectionReason string `json:"rejectionReason" form:"rejectionReason"`
}
