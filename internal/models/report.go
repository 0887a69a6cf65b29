package models

import (
	"time"

	"github.com/lib/pq"
)

// ReportType enumerates the supported report subjects.
type ReportType string

const (
	ReportExpense    ReportType = "EXPENSE"
	ReportDepartment ReportType = "DEPARTMENT"
	ReportUser       ReportType = "USER"
	ReportCategory   ReportType = "CATEGORY"
)

// ReportFormat enumerates output formats.
type ReportFormat string

const (
	FormatPDF   ReportFormat = "PDF"
	FormatExcel ReportFormat = "EXCEL"
	FormatCSV   ReportFormat = "CSV"
)

// ScheduleFrequency enumerates recurring schedules.
type ScheduleFrequency string

const (
	ScheduleDaily     ScheduleFrequency = "DAILY"
	ScheduleWeekly    ScheduleFrequency = "WEEKLY"
	ScheduleMonthly   ScheduleFrequency = "MONTHLY"
	ScheduleQuarterly ScheduleFrequency = "QUARTERLY"
)

// Report is a stored report definition: a named filter set plus an output
// format and optional schedule.
type Report struct {
	ID                string            `db:"id" json:"id"`
	Name              string            `db:"name" json:"name"`
	Type              ReportType        `db:"type" json:"type"`
	StartDate         *Date             `db:"start_date" json:"startDate,omitempty"`
	EndDate           *Date             `db:"end_date" json:"endDate,omitempty"`
	Departments       pq.StringArray    `db:"departments" json:"departments"`
	Categories        pq.StringArray    `db:"categories" json:"categories"`
	Statuses          pq.StringArray    `db:"statuses" json:"statuses"`
	Users             pq.StringArray    `db:"users" json:"users"`
	CreatedBy         string            `db:"created_by" json:"createdBy"`
	CreatedAt         time.Time         `db:"created_at" json:"createdAt"`
	LastGenerated     *time.Time        `db:"last_generated" json:"lastGenerated,omitempty"`
	Format            ReportFormat      `db:"format" json:"format"`
	Scheduled         bool              `db:"scheduled" json:"isScheduled"`
	ScheduleFrequency ScheduleFrequency `db:"schedule_frequency" json:"scheduleFrequency,omitempty"`
}
