package models

import "time"

// NotificationType enumerates notification categories.
type NotificationType string

const (
	NotificationExpenseSubmitted NotificationType = "EXPENSE_SUBMITTED"
	NotificationExpenseApproved  NotificationType = "EXPENSE_APPROVED"
	NotificationExpenseRejected  NotificationType = "EXPENSE_REJECTED"
	NotificationReminder         NotificationType = "REMINDER"
	NotificationSystem           NotificationType = "SYSTEM"
)

// ReferenceType names the entity a notification points at.
type ReferenceType string

const (
	ReferenceExpense    ReferenceType = "EXPENSE"
	ReferenceUser       ReferenceType = "USER"
	ReferenceDepartment ReferenceType = "DEPARTMENT"
)

// Notification is an in-app message addressed to a single user.
type Notification struct {
	ID            string           `db:"id" json:"id"`
	UserID        string           `db:"user_id" json:"userId"`
	Type          NotificationType `db:"type" json:"type"`
	Title         string           `db:"title" json:"title"`
	Message       string           `db:"message" json:"message"`
	ReferenceID   string           `db:"reference_id" json:"referenceId,omitempty"`
	ReferenceType ReferenceType    `db:"reference_type" json:"referenceType,omitempty"`
	Read          bool             `db:"read" json:"isRead"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
}
