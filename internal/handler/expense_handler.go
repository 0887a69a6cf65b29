package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zideo/fintrack-api/internal/dto"
	"github.com/zideo/fintrack-api/internal/models"
	appErrors "github.com/zideo/fintrack-api/pkg/errors"
	"github.com/zideo/fintrack-api/pkg/response"
)

type expenseService interface {
	List(ctx context.Context, query dto.ExpenseListQuery) ([]dto.ExpenseRecord, error)
	Get(ctx context.Context, id string) (*dto.ExpenseRecord, error)
	Create(ctx context.Context, req dto.ExpenseRecord, actor *models.JWTClaims) (*dto.ExpenseRecord, error)
	Update(ctx context.Context, id string, req dto.ExpenseRecord, actor *models.JWTClaims) (*dto.ExpenseRecord, error)
	Approve(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ExpenseRecord, error)
	Reject(ctx context.Context, id, rejectionReason string, actor *models.JWTClaims) (*dto.ExpenseRecord, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
}

type dashboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// ExpenseHandler wires the expense service to HTTP endpoints.
type ExpenseHandler struct {
	service   expenseService
	dashboard dashboardInvalidator
}

// NewExpenseHandler constructs the handler.
func NewExpenseHandler(service expenseService, dashboard dashboardInvalidator) *ExpenseHandler {
	return &ExpenseHandler{service: service, dashboard: dashboard}
}

// List godoc
// @Summary List expenses
// @Tags Expenses
// @Produce json
// @Param status query string false "Status filter (PENDING, APPROVED, REJECTED)"
// @Param startDate query string false "Range start (YYYY-MM-DD)"
// @Param endDate query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	var query dto.ExpenseListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}

	expenses, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, expenses, nil)
}

// Get godoc
// @Summary Get an expense by id
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	expense, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, expense, nil)
}

// Create godoc
// @Summary Submit a new expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param expense body dto.ExpenseRecord true "Expense"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req dto.ExpenseRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid expense payload"))
		return
	}

	expense, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.Created(c, expense)
}

// Update godoc
// @Summary Edit a pending expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param expense body dto.ExpenseRecord true "Expense"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	var req dto.ExpenseRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid expense payload"))
		return
	}

	expense, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.JSON(c, http.StatusOK, expense, nil)
}

// Approve godoc
// @Summary Approve a pending expense
// @Tags Expenses
// @Produce json
// @Param id path string true "Expense ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /expenses/{id}/approve [put]
func (h *ExpenseHandler) Approve(c *gin.Context) {
	expense, err := h.service.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.JSON(c, http.StatusOK, expense, nil)
}

// Reject godoc
// @Summary Reject a pending expense
// @Tags Expenses
// @Accept json
// @Produce json
// @Param id path string true "Expense ID"
// @Param rejectionReason query string false "Reason shown to the submitter"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /expenses/{id}/reject [put]
func (h *ExpenseHandler) Reject(c *gin.Context) {
	// The reason may arrive as a query parameter or a JSON body; the query
	// parameter wins when both are present. An absent reason is accepted.
	reason := c.Query("rejectionReason")
	if reason == "" && c.Request.Body != nil && c.Request.ContentLength > 0 {
		var req dto.RejectExpenseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid rejection payload"))
			return
		}
		reason = req.RejectionReason
	}

	expense, err := h.service.Reject(c.Request.Context(), c.Param("id"), reason, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.JSON(c, http.StatusOK, expense, nil)
}

// Delete godoc
// @Summary Delete an expense
// @Tags Expenses
// @Param id path string true "Expense ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.NoContent(c)
}

func (h *ExpenseHandler) invalidateDashboard(c *gin.Context) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context())
	}
}
