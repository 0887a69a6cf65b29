package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zideo/fintrack-api/internal/dto"
	"github.com/zideo/fintrack-api/internal/middleware"
	"github.com/zideo/fintrack-api/internal/models"
	appErrors "github.com/zideo/fintrack-api/pkg/errors"
)

type fakeExpenseSrv struct {
	listResp   []dto.ExpenseRecord
	listErr    error
	lastQuery  dto.ExpenseListQuery
	record     *dto.ExpenseRecord
	err        error
	lastReason string
	lastActor  *models.JWTClaims
	deleteErr  error
}

func (f *fakeExpenseSrv) List(_ context.Context, query dto.ExpenseListQuery) ([]dto.ExpenseRecord, error) {
	f.lastQuery = query
	return f.listResp, f.listErr
}

func (f *fakeExpenseSrv) Get(context.Context, string) (*dto.ExpenseRecord, error) {
	return f.record, f.err
}

func (f *fakeExpenseSrv) Create(_ context.Context, _ dto.ExpenseRecord, actor *models.JWTClaims) (*dto.ExpenseRecord, error) {
	f.lastActor = actor
	return f.record, f.err
}

func (f *fakeExpenseSrv) Update(_ context.Context, _ string, _ dto.ExpenseRecord, actor *models.JWTClaims) (*dto.ExpenseRecord, error) {
	f.lastActor = actor
	return f.record, f.err
}

func (f *fakeExpenseSrv) Approve(_ context.Context, _ string, actor *models.JWTClaims) (*dto.ExpenseRecord, error) {
	f.lastActor = actor
	return f.record, f.err
}

func (f *fakeExpenseSrv) Reject(_ context.Context, _ string, reason string, actor *models.JWTClaims) (*dto.ExpenseRecord, error) {
	f.lastReason = reason
	f.lastActor = actor
	return f.record, f.err
}

func (f *fakeExpenseSrv) Delete(context.Context, string, *models.JWTClaims) error {
	return f.deleteErr
}

type fakeInvalidator struct {
	calls int
}

func (f *fakeInvalidator) Invalidate(context.Context) { f.calls++ }

func sampleRecord() *dto.ExpenseRecord {
	return &dto.ExpenseRecord{
		ID:     "exp-1",
		Status: string(models.StatusPending),
		Amount: 42.5,
		Date:   models.NewDate(2026, time.March, 10),
	}
}

func newExpenseTestContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	return c, rec
}

func TestExpenseHandlerListPassesFilters(t *testing.T) {
	srv := &fakeExpenseSrv{listResp: []dto.ExpenseRecord{*sampleRecord()}}
	handler := NewExpenseHandler(srv, nil)

	c, rec := newExpenseTestContext(t, http.MethodGet, "/expenses?status=PENDING&startDate=2026-03-01&endDate=2026-03-31", nil)
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "PENDING", srv.lastQuery.Status)
	assert.Equal(t, "2026-03-01", srv.lastQuery.StartDate)
	assert.Equal(t, "2026-03-31", srv.lastQuery.EndDate)
}

func TestExpenseHandlerListServiceError(t *testing.T) {
	srv := &fakeExpenseSrv{listErr: appErrors.Clone(appErrors.ErrInvalidStatus, "unknown expense status")}
	handler := NewExpenseHandler(srv, nil)

	c, rec := newExpenseTestContext(t, http.MethodGet, "/expenses?status=BOGUS", nil)
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrInvalidStatus.Code, envelope.Error.Code)
}

func TestExpenseHandlerCreate(t *testing.T) {
	srv := &fakeExpenseSrv{record: sampleRecord()}
	invalidator := &fakeInvalidator{}
	handler := NewExpenseHandler(srv, invalidator)

	payload, err := json.Marshal(sampleRecord())
	require.NoError(t, err)

	c, rec := newExpenseTestContext(t, http.MethodPost, "/expenses", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "emp-1"})
	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, srv.lastActor)
	assert.Equal(t, "emp-1", srv.lastActor.UserID)
	assert.Equal(t, 1, invalidator.calls)
}

func TestExpenseHandlerCreateMalformedBody(t *testing.T) {
	handler := NewExpenseHandler(&fakeExpenseSrv{}, nil)

	c, rec := newExpenseTestContext(t, http.MethodPost, "/expenses", []byte("{not json"))
	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExpenseHandlerRejectReasonFromQuery(t *testing.T) {
	srv := &fakeExpenseSrv{record: sampleRecord()}
	handler := NewExpenseHandler(srv, nil)

	c, rec := newExpenseTestContext(t, http.MethodPut, "/expenses/exp-1/reject?rejectionReason=missing+receipt", nil)
	c.Params = gin.Params{{Key: "id", Value: "exp-1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "mgr-1", Role: models.RoleManager})
	handler.Reject(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "missing receipt", srv.lastReason)
}

func TestExpenseHandlerRejectReasonFromBody(t *testing.T) {
	srv := &fakeExpenseSrv{record: sampleRecord()}
	handler := NewExpenseHandler(srv, nil)

	payload := []byte(`{"rejectionReason":"over category limit"}`)
	c, rec := newExpenseTestContext(t, http.MethodPut, "/expenses/exp-1/reject", payload)
	c.Params = gin.Params{{Key: "id", Value: "exp-1"}}
	handler.Reject(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "over category limit", srv.lastReason)
}

func TestExpenseHandlerRejectNoReason(t *testing.T) {
	srv := &fakeExpenseSrv{record: sampleRecord()}
	handler := NewExpenseHandler(srv, nil)

	c, rec := newExpenseTestContext(t, http.MethodPut, "/expenses/exp-1/reject", nil)
	c.Params = gin.Params{{Key: "id", Value: "exp-1"}}
	handler.Reject(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, srv.lastReason)
}

func TestExpenseHandlerApproveConflict(t *testing.T) {
	srv := &fakeExpenseSrv{err: appErrors.Clone(appErrors.ErrInvalidTransition, "expense is already APPROVED")}
	handler := NewExpenseHandler(srv, nil)

	c, rec := newExpenseTestContext(t, http.MethodPut, "/expenses/exp-1/approve", nil)
	c.Params = gin.Params{{Key: "id", Value: "exp-1"}}
	handler.Approve(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExpenseHandlerDelete(t *testing.T) {
	invalidator := &fakeInvalidator{}
	handler := NewExpenseHandler(&fakeExpenseSrv{}, invalidator)

	c, rec := newExpenseTestContext(t, http.MethodDelete, "/expenses/exp-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "exp-1"}}
	handler.Delete(c)
	// Gin defers status-only writes; flush so the recorder sees the 204.
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, invalidator.calls)
}

func TestExpenseHandlerDeleteNotFound(t *testing.T) {
	handler := NewExpenseHandler(&fakeExpenseSrv{deleteErr: appErrors.Clone(appErrors.ErrNotFound, "expense not found")}, nil)

	c, rec := newExpenseTestContext(t, http.MethodDelete, "/expenses/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Delete(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
