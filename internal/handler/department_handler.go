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

type departmentService interface {
	List(ctx context.Context) ([]models.Department, error)
	Get(ctx context.Context, id string) (*models.Department, error)
	Create(ctx context.Context, req dto.DepartmentRequest) (*models.Department, error)
	Update(ctx context.Context, id string, req dto.DepartmentRequest) (*models.Department, error)
	Delete(ctx context.Context, id string) error
}

// DepartmentHandler wires department management to HTTP endpoints.
type DepartmentHandler struct {
	service departmentService
}

// NewDepartmentHandler constructs the handler.
func NewDepartmentHandler(service departmentService) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

// List godoc
// @Summary List departments
// @Tags Departments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	departments, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

// Get godoc
// @Summary Get a department by id
// @Tags Departments
// @Produce json
// @Param id path string true "Department ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /departments/{id} [get]
func (h *DepartmentHandler) Get(c *gin.Context) {
	department, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, department, nil)
}

// Create godoc
// @Summary Create a department
// @Tags Departments
// @Accept json
// @Produce json
// @Param department body dto.DepartmentRequest true "Department"
// @Success 201 {object} response.Envelope
// @Router /departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req dto.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload"))
		return
	}

	department, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, department)
}

// Update godoc
// @Summary Update a department
// @Tags Departments
// @Accept json
// @Produce json
// @Param id path string true "Department ID"
// @Param department body dto.DepartmentRequest true "Department"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /departments/{id} [put]
func (h *DepartmentHandler) Update(c *gin.Context) {
	var req dto.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload"))
		return
	}

	department, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, department, nil)
}

// Delete godoc
// @Summary Delete a department
// @Tags Departments
// @Param id path string true "Department ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
