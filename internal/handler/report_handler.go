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

type reportService interface {
	List(ctx context.Context) ([]models.Report, error)
	Get(ctx context.Context, id string) (*models.Report, error)
	Create(ctx context.Context, req dto.ReportRequest, createdBy string) (*models.Report, error)
	Delete(ctx context.Context, id string) error
	Generate(ctx context.Context, id string) (*dto.GeneratedReport, error)
}

// ReportHandler wires stored report definitions to HTTP endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// List godoc
// @Summary List stored report definitions
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// Get godoc
// @Summary Get a report definition by id
// @Tags Reports
// @Produce json
// @Param id path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Create godoc
// @Summary Create a report definition
// @Tags Reports
// @Accept json
// @Produce json
// @Param report body dto.ReportRequest true "Report"
// @Success 201 {object} response.Envelope
// @Router /reports [post]
func (h *ReportHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload"))
		return
	}

	report, err := h.service.Create(c.Request.Context(), req, claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, report)
}

// Delete godoc
// @Summary Delete a report definition
// @Tags Reports
// @Param id path string true "Report ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /reports/{id} [delete]
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Generate godoc
// @Summary Render a report in its configured format
// @Tags Reports
// @Produce application/pdf
// @Produce text/csv
// @Param id path string true "Report ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /reports/{id}/generate [post]
func (h *ReportHandler) Generate(c *gin.Context) {
	generated, err := h.service.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+generated.FileName+`"`)
	c.Data(http.StatusOK, generated.ContentType, generated.Content)
}
