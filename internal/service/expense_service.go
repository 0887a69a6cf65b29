package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/zideo/fintrack-api/internal/dto"
	"github.com/zideo/fintrack-api/internal/models"
	appErrors "github.com/zideo/fintrack-api/pkg/errors"
)

type expenseStore interface {
	List(ctx context.Context, filter models.ExpenseFilter) ([]models.Expense, error)
	FindByID(ctx context.Context, id string) (*models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
	Update(ctx context.Context, expense *models.Expense) error
	Delete(ctx context.Context, id string) (bool, error)
}

type notificationCreator interface {
	Create(ctx context.Context, notification *models.Notification) error
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

const expenseResource = "expense"

// ExpenseService implements the expense lifecycle: submission, editing
// while pending, approval or rejection, and filtered listing.
type ExpenseService struct {
	repo          expenseStore
	notifications notificationCreator
	audit         auditLogger
	validator     *validator.Validate
	logger        *zap.Logger
	today         func() models.Date
}

// NewExpenseService constructs an ExpenseService with sane defaults.
func NewExpenseService(repo expenseStore, notifications notificationCreator, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *ExpenseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpenseService{
		repo:          repo,
		notifications: notifications,
		audit:         audit,
		validator:     validate,
		logger:        logger,
		today:         models.Today,
	}
}

// List returns expenses narrowed by the optional status and date range
// filters. A partial date range (only one bound supplied) is treated as no
// date filter at all.
func (s *ExpenseService) List(ctx context.Context, query dto.ExpenseListQuery) ([]dto.ExpenseRecord, error) {
	var filter models.ExpenseFilter

	if query.Status != "" {
		status, ok := models.ParseExpenseStatus(query.Status)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("unknown expense status %q", query.Status))
		}
		filter.Status = &status
	}

	startDate, err := parseOptionalDate(query.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseOptionalDate(query.EndDate)
	if err != nil {
		return nil, err
	}
	if startDate != nil && endDate != nil {
		filter.StartDate = startDate
		filter.EndDate = endDate
	}

	expenses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expenses")
	}

	records := make([]dto.ExpenseRecord, 0, len(expenses))
	for i := range expenses {
		records = append(records, mapToRecord(&expenses[i]))
	}
	return records, nil
}

// Get returns a single expense by identifier.
func (s *ExpenseService) Get(ctx context.Context, id string) (*dto.ExpenseRecord, error) {
	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	record := mapToRecord(expense)
	return &record, nil
}

// Create persists a new expense. The submitted status and submission date
// are ignored: every expense starts PENDING, submitted today.
func (s *ExpenseService) Create(ctx context.Context, req dto.ExpenseRecord, actor *models.JWTClaims) (*dto.ExpenseRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid expense payload")
	}

	expense := mapToEntity(&req)
	expense.ID = ""
	expense.Status = models.StatusPending
	expense.SubmittedDate = s.today()
	expense.ApprovedBy = ""
	expense.ApprovedDate = nil
	expense.RejectionReason = ""

	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create expense")
	}

	s.notify(ctx, expense.EmployeeID, models.NotificationExpenseSubmitted, "Expense submitted",
		fmt.Sprintf("Your expense of %.2f was submitted for approval.", expense.Amount), expense.ID)
	s.emitAudit(ctx, actor, models.AuditActionExpenseCreate, expense.ID, nil, expense)

	record := mapToRecord(expense)
	return &record, nil
}

// Update edits a pending expense. Only submitter-owned fields are mutable;
// identity, status and the approval audit trail are never written.
func (s *ExpenseService) Update(ctx context.Context, id string, req dto.ExpenseRecord, actor *models.JWTClaims) (*dto.ExpenseRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid expense payload")
	}

	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.Status != models.StatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only pending expenses can be edited")
	}

	previous := *expense

	expense.EmployeeID = req.EmployeeID
	expense.EmployeeName = req.EmployeeName
	expense.DepartmentID = req.DepartmentID
	expense.DepartmentName = req.DepartmentName
	expense.CategoryID = req.CategoryID
	expense.CategoryName = req.CategoryName
	expense.Amount = req.Amount
	expense.Date = req.Date
	expense.Description = req.Description
	expense.ReceiptURL = req.ReceiptURL
	expense.Attachments = req.Attachments
	expense.Notes = req.Notes
	expense.Tags = req.Tags

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update expense")
	}

	s.emitAudit(ctx, actor, models.AuditActionExpenseUpdate, expense.ID, &previous, expense)

	record := mapToRecord(expense)
	return &record, nil
}

// Approve transitions a pending expense to APPROVED, stamping the approval
// date and the acting approver's identity.
func (s *ExpenseService) Approve(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ExpenseRecord, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}

	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.Status != models.StatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("expense is already %s", expense.Status))
	}

	previous := *expense
	approvedDate := s.today()
	expense.Status = models.StatusApproved
	expense.ApprovedDate = &approvedDate
	expense.ApprovedBy = approverIdentity(actor)

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve expense")
	}

	s.notify(ctx, expense.EmployeeID, models.NotificationExpenseApproved, "Expense approved",
		fmt.Sprintf("Your expense of %.2f was approved by %s.", expense.Amount, expense.ApprovedBy), expense.ID)
	s.emitAudit(ctx, actor, models.AuditActionExpenseApprove, expense.ID, &previous, expense)

	record := mapToRecord(expense)
	return &record, nil
}

// Reject transitions a pending expense to REJECTED, recording the supplied
// reason verbatim. An empty reason is accepted.
func (s *ExpenseService) Reject(ctx context.Context, id, rejectionReason string, actor *models.JWTClaims) (*dto.ExpenseRecord, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}

	expense, err := s.findExpense(ctx, id)
	if err != nil {
		return nil, err
	}
	if expense.Status != models.StatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("expense is already %s", expense.Status))
	}

	previous := *expense
	expense.Status = models.StatusRejected
	expense.RejectionReason = rejectionReason

	if err := s.repo.Update(ctx, expense); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject expense")
	}

	s.notify(ctx, expense.EmployeeID, models.NotificationExpenseRejected, "Expense rejected",
		fmt.Sprintf("Your expense of %.2f was rejected.", expense.Amount), expense.ID)
	s.emitAudit(ctx, actor, models.AuditActionExpenseReject, expense.ID, &previous, expense)

	record := mapToRecord(expense)
	return &record, nil
}

// Delete removes an expense by id.
func (s *ExpenseService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete expense")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "expense not found")
	}

	s.emitAudit(ctx, actor, models.AuditActionExpenseDelete, id, nil, nil)
	return nil
}

func (s *ExpenseService) findExpense(ctx context.Context, id string) (*models.Expense, error) {
	expense, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "expense not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load expense")
	}
	return expense, nil
}

func (s *ExpenseService) notify(ctx context.Context, userID string, kind models.NotificationType, title, message, expenseID string) {
	if s.notifications == nil || userID == "" {
		return
	}
	notification := &models.Notification{
		UserID:        userID,
		Type:          kind,
		Title:         title,
		Message:       message,
		ReferenceID:   expenseID,
		ReferenceType: models.ReferenceExpense,
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		s.logger.Warn("failed to create expense notification", zap.Error(err))
	}
}

func (s *ExpenseService) emitAudit(ctx context.Context, actor *models.JWTClaims, action, expenseID string, before, after *models.Expense) {
	if s.audit == nil {
		return
	}
	var oldValues, newValues []byte
	if before != nil {
		oldValues, _ = json.Marshal(mapToRecord(before))
	}
	if after != nil {
		newValues, _ = json.Marshal(mapToRecord(after))
	}
	var userID *string
	if actor != nil {
		userID = &actor.UserID
	}
	log := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   expenseResource,
		ResourceID: &expenseID,
		OldValues:  oldValues,
		NewValues:  newValues,
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record expense audit", zap.Error(err))
	}
}

func approverIdentity(actor *models.JWTClaims) string {
	if actor.Name != "" {
		return actor.Name
	}
	return actor.UserID
}

func parseOptionalDate(raw string) (*models.Date, error) {
	if raw == "" {
		return nil, nil
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("malformed date %q", raw))
	}
	return &date, nil
}

func mapToRecord(expense *models.Expense) dto.ExpenseRecord {
	return dto.ExpenseRecord{
		ID:              expense.ID,
		EmployeeID:      expense.EmployeeID,
		EmployeeName:    expense.EmployeeName,
		DepartmentID:    expense.DepartmentID,
		DepartmentName:  expense.DepartmentName,
		CategoryID:      expense.CategoryID,
		CategoryName:    expense.CategoryName,
		Amount:          expense.Amount,
		Date:            expense.Date,
		Description:     expense.Description,
		Status:          string(expense.Status),
		ReceiptURL:      expense.ReceiptURL,
		Attachments:     expense.Attachments,
		SubmittedDate:   expense.SubmittedDate,
		ApprovedBy:      expense.ApprovedBy,
		ApprovedDate:    expense.ApprovedDate,
		RejectionReason: expense.RejectionReason,
		Notes:           expense.Notes,
		Tags:            expense.Tags,
	}
}

func mapToEntity(record *dto.ExpenseRecord) *models.Expense {
	return &models.Expense{
		ID:              record.ID,
		EmployeeID:      record.EmployeeID,
		EmployeeName:    record.EmployeeName,
		DepartmentID:    record.DepartmentID,
		DepartmentName:  record.DepartmentName,
		CategoryID:      record.CategoryID,
		CategoryName:    record.CategoryName,
		Amount:          record.Amount,
		Date:            record.Date,
		Description:     record.Description,
		Status:          models.ExpenseStatus(record.Status),
		ReceiptURL:      record.ReceiptURL,
		Attachments:     record.Attachments,
		SubmittedDate:   record.SubmittedDate,
		ApprovedBy:      record.ApprovedBy,
		ApprovedDate:    record.ApprovedDate,
		RejectionReason: record.RejectionReason,
		Notes:           record.Notes,
		Tags:            record.Tags,
	}
}
