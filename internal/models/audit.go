package models

import "time"

// Audit actions recorded by the service layer.
const (
	AuditActionLogin          = "auth.login"
	AuditActionLogout         = "auth.logout"
	AuditActionExpenseCreate  = "expense.create"
	AuditActionExpenseUpdate  = "expense.update"
	AuditActionExpenseDelete  = "expense.delete"
	AuditActionExpenseApprove = "expense.approve"
	AuditActionExpenseReject  = "expense.reject"
)

// AuditLog captures who changed what.
type AuditLog struct {
	ID         string    `db:"id"`
	UserID     *string   `db:"user_id"`
	Action     string    `db:"action"`
	Resource   string    `db:"resource"`
	ResourceID *string   `db:"resource_id"`
	OldValues  []byte    `db:"old_values"`
	NewValues  []byte    `db:"new_values"`
	IPAddress  string    `db:"ip_address"`
	UserAgent  string    `db:"user_agent"`
	CreatedAt  time.Time `db:"created_at"`
}
