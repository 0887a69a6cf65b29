package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zideo/fintrack-api/internal/dto"
	"github.com/zideo/fintrack-api/internal/models"
	appErrors "github.com/zideo/fintrack-api/pkg/errors"
)

type fakeExpenseStore struct {
	expenses   map[string]*models.Expense
	lastFilter models.ExpenseFilter
	created    *models.Expense
	updated    *models.Expense
	deleteHit  bool
}

func newFakeExpenseStore(seed ...*models.Expense) *fakeExpenseStore {
	store := &fakeExpenseStore{expenses: map[string]*models.Expense{}}
	for _, e := range seed {
		store.expenses[e.ID] = e
	}
	return store
}

func (f *fakeExpenseStore) List(_ context.Context, filter models.ExpenseFilter) ([]models.Expense, error) {
	f.lastFilter = filter
	var result []models.Expense
	for _, e := range f.expenses {
		result = append(result, *e)
	}
	return result, nil
}

func (f *fakeExpenseStore) FindByID(_ context.Context, id string) (*models.Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (f *fakeExpenseStore) Create(_ context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = "generated-id"
	}
	f.created = expense
	f.expenses[expense.ID] = expense
	return nil
}

func (f *fakeExpenseStore) Update(_ context.Context, expense *models.Expense) error {
	f.updated = expense
	f.expenses[expense.ID] = expense
	return nil
}

func (f *fakeExpenseStore) Delete(_ context.Context, id string) (bool, error) {
	f.deleteHit = true
	if _, ok := f.expenses[id]; !ok {
		return false, nil
	}
	delete(f.expenses, id)
	return true, nil
}

type fakeNotifier struct {
	notifications []*models.Notification
}

func (f *fakeNotifier) Create(_ context.Context, n *models.Notification) error {
	f.notifications = append(f.notifications, n)
	return nil
}

type fakeAuditSink struct {
	logs []*models.AuditLog
}

func (f *fakeAuditSink) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func fixedToday() models.Date {
	return models.NewDate(2026, time.March, 15)
}

func newTestExpenseService(store *fakeExpenseStore) (*ExpenseService, *fakeNotifier, *fakeAuditSink) {
	notifier := &fakeNotifier{}
	audit := &fakeAuditSink{}
	svc := NewExpenseService(store, notifier, audit, nil, nil)
	svc.today = fixedToday
	return svc, notifier, audit
}

func pendingExpense(id string) *models.Expense {
	return &models.Expense{
		ID:             id,
		EmployeeID:     "emp-1",
		EmployeeName:   "Dana",
		DepartmentID:   "dep-1",
		DepartmentName: "Engineering",
		CategoryID:     "cat-1",
		CategoryName:   "Travel",
		Amount:         100,
		Date:           models.NewDate(2026, time.March, 10),
		Status:         models.StatusPending,
		SubmittedDate:  models.NewDate(2026, time.March, 11),
	}
}

func validRecord() dto.ExpenseRecord {
	return dto.ExpenseRecord{
		EmployeeID:   "emp-1",
		EmployeeName: "Dana",
		DepartmentID: "dep-1",
		CategoryID:   "cat-1",
		Amount:       42.50,
		Date:         models.NewDate(2026, time.March, 10),
	}
}

func managerClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "mgr-1", Role: models.RoleManager, Name: "Morgan Reed"}
}

func TestExpenseServiceCreateForcesPending(t *testing.T) {
	store := newFakeExpenseStore()
	svc, notifier, audit := newTestExpenseService(store)

	req := validRecord()
	req.ID = "client-chosen"
	req.Status = string(models.StatusApproved)
	req.SubmittedDate = models.NewDate(2020, time.January, 1)
	req.ApprovedBy = "someone"
	req.RejectionReason = "bogus"

	record, err := svc.Create(context.Background(), req, managerClaims())
	require.NoError(t, err)

	assert.NotEqual(t, "client-chosen", record.ID)
	assert.Equal(t, string(models.StatusPending), record.Status)
	assert.Equal(t, fixedToday(), record.SubmittedDate)
	assert.Empty(t, record.ApprovedBy)
	assert.Nil(t, record.ApprovedDate)
	assert.Empty(t, record.RejectionReason)

	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, models.NotificationExpenseSubmitted, notifier.notifications[0].Type)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionExpenseCreate, audit.logs[0].Action)
}

func TestExpenseServiceCreateRejectsInvalidPayload(t *testing.T) {
	svc, _, _ := newTestExpenseService(newFakeExpenseStore())

	req := validRecord()
	req.Amount = 0

	_, err := svc.Create(context.Background(), req, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceListUnknownStatus(t *testing.T) {
	svc, _, _ := newTestExpenseService(newFakeExpenseStore())

	_, err := svc.List(context.Background(), dto.ExpenseListQuery{Status: "IN_REVIEW"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceListPartialRangeIgnored(t *testing.T) {
	store := newFakeExpenseStore()
	svc, _, _ := newTestExpenseService(store)

	_, err := svc.List(context.Background(), dto.ExpenseListQuery{StartDate: "2026-03-01"})
	require.NoError(t, err)
	assert.Nil(t, store.lastFilter.StartDate)
	assert.Nil(t, store.lastFilter.EndDate)

	_, err = svc.List(context.Background(), dto.ExpenseListQuery{StartDate: "2026-03-01", EndDate: "2026-03-31"})
	require.NoError(t, err)
	require.NotNil(t, store.lastFilter.StartDate)
	require.NotNil(t, store.lastFilter.EndDate)
}

func TestExpenseServiceListMalformedDate(t *testing.T) {
	svc, _, _ := newTestExpenseService(newFakeExpenseStore())

	_, err := svc.List(context.Background(), dto.ExpenseListQuery{StartDate: "03/01/2026", EndDate: "2026-03-31"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceApprove(t *testing.T) {
	store := newFakeExpenseStore(pendingExpense("exp-1"))
	svc, notifier, _ := newTestExpenseService(store)

	record, err := svc.Approve(context.Background(), "exp-1", managerClaims())
	require.NoError(t, err)

	assert.Equal(t, string(models.StatusApproved), record.Status)
	assert.Equal(t, "Morgan Reed", record.ApprovedBy)
	require.NotNil(t, record.ApprovedDate)
	assert.Equal(t, fixedToday(), *record.ApprovedDate)
	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, models.NotificationExpenseApproved, notifier.notifications[0].Type)
}

func TestExpenseServiceApproveFallsBackToUserID(t *testing.T) {
	store := newFakeExpenseStore(pendingExpense("exp-1"))
	svc, _, _ := newTestExpenseService(store)

	record, err := svc.Approve(context.Background(), "exp-1", &models.JWTClaims{UserID: "mgr-1", Role: models.RoleManager})
	require.NoError(t, err)
	assert.Equal(t, "mgr-1", record.ApprovedBy)
}

func TestExpenseServiceApproveRequiresActor(t *testing.T) {
	store := newFakeExpenseStore(pendingExpense("exp-1"))
	svc, _, _ := newTestExpenseService(store)

	_, err := svc.Approve(context.Background(), "exp-1", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceApproveTerminalState(t *testing.T) {
	approved := pendingExpense("exp-1")
	approved.Status = models.StatusApproved
	store := newFakeExpenseStore(approved)
	svc, _, _ := newTestExpenseService(store)

	_, err := svc.Approve(context.Background(), "exp-1", managerClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceApproveNotFound(t *testing.T) {
	svc, _, _ := newTestExpenseService(newFakeExpenseStore())

	_, err := svc.Approve(context.Background(), "missing", managerClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceRejectRecordsReasonVerbatim(t *testing.T) {
	store := newFakeExpenseStore(pendingExpense("exp-1"))
	svc, _, _ := newTestExpenseService(store)

	record, err := svc.Reject(context.Background(), "exp-1", "  needs itemised receipt  ", managerClaims())
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusRejected), record.Status)
	assert.Equal(t, "  needs itemised receipt  ", record.RejectionReason)
}

func TestExpenseServiceRejectEmptyReason(t *testing.T) {
	store := newFakeExpenseStore(pendingExpense("exp-1"))
	svc, _, _ := newTestExpenseService(store)

	record, err := svc.Reject(context.Background(), "exp-1", "", managerClaims())
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusRejected), record.Status)
	assert.Empty(t, record.RejectionReason)
}

func TestExpenseServiceRejectTerminalState(t *testing.T) {
	rejected := pendingExpense("exp-1")
	rejected.Status = models.StatusRejected
	store := newFakeExpenseStore(rejected)
	svc, _, _ := newTestExpenseService(store)

	_, err := svc.Reject(context.Background(), "exp-1", "again", managerClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceUpdateOnlyWhilePending(t *testing.T) {
	approved := pendingExpense("exp-1")
	approved.Status = models.StatusApproved
	store := newFakeExpenseStore(approved)
	svc, _, _ := newTestExpenseService(store)

	_, err := svc.Update(context.Background(), "exp-1", validRecord(), managerClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceUpdateIgnoresServerOwnedFields(t *testing.T) {
	store := newFakeExpenseStore(pendingExpense("exp-1"))
	svc, _, _ := newTestExpenseService(store)

	req := validRecord()
	req.Amount = 77.25
	req.Status = string(models.StatusApproved)
	req.ApprovedBy = "intruder"
	req.SubmittedDate = models.NewDate(2020, time.January, 1)

	record, err := svc.Update(context.Background(), "exp-1", req, managerClaims())
	require.NoError(t, err)

	assert.Equal(t, 77.25, record.Amount)
	assert.Equal(t, string(models.StatusPending), record.Status)
	assert.Empty(t, record.ApprovedBy)
	assert.Equal(t, models.NewDate(2026, time.March, 11), record.SubmittedDate)
}

func TestExpenseServiceDeleteNotFound(t *testing.T) {
	svc, _, _ := newTestExpenseService(newFakeExpenseStore())

	err := svc.Delete(context.Background(), "missing", managerClaims())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExpenseServiceDelete(t *testing.T) {
	store := newFakeExpenseStore(pendingExpense("exp-1"))
	svc, _, audit := newTestExpenseService(store)

	require.NoError(t, svc.Delete(context.Background(), "exp-1", managerClaims()))
	assert.True(t, store.deleteHit)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionExpenseDelete, audit.logs[0].Action)
}

func TestExpenseServiceGetNotFound(t *testing.T) {
	svc, _, _ := newTestExpenseService(newFakeExpenseStore())

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
