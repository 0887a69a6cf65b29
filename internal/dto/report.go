package dto

import "github.com/zideo/fintrack-api/internal/models"

// ReportRequest creates or replaces a stored report definition.
type ReportRequest struct {
	Name              string       `json:"name" validate:"required"`
	Type              string       `json:"type" validate:"required,oneof=EXPENSE DEPARTMENT USER CATEGORY"`
	StartDate         *models.Date `json:"startDate,omitempty"`
	EndDate           *models.Date `json:"endDate,omitempty"`
	Departments       []string     `json:"departments"`
	Categories        []string     `json:"categories"`
	Statuses          []string     `json:"statuses" validate:"dive,oneof=PENDING APPROVED REJECTED"`
	Users             []string     `json:"users"`
	Format            string       `json:"format" validate:"required,oneof=PDF EXCEL CSV"`
	Scheduled         bool         `json:"isScheduled"`
	ScheduleFrequency string       `json:"scheduleFrequency" validate:"omitempty,oneof=DAILY WEEKLY MONTHLY QUARTERLY"`
}

// GeneratedReport is a rendered report document ready to stream.
type GeneratedReport struct {
	FileName    string
	ContentType string
	Content     []byte
}
