package dto

import "github.com/zideo/fintrack-api/internal/models"

// CreateUserRequest registers a new account.
type CreateUserRequest struct {
	Name          string      `json:"name" validate:"required"`
	WorkID        string      `json:"workId" validate:"required"`
	Email         string      `json:"email" validate:"required,email"`
	Password      string      `json:"password" validate:"required,min=6"`
	Role          string      `json:"role" validate:"required,oneof=EMPLOYEE MANAGER ADMIN"`
	Department    string      `json:"department"`
	Position      string      `json:"position"`
	ContactNumber string      `json:"contactNumber"`
	DateJoined    models.Date `json:"dateJoined"`
}

// UpdateUserRequest changes mutable account fields.
type UpdateUserRequest struct {
	Name          string `json:"name" validate:"required"`
	Role          string `json:"role" validate:"required,oneof=EMPLOYEE MANAGER ADMIN"`
	Department    string `json:"department"`
	Position      string `json:"position"`
	ContactNumber string `json:"contactNumber"`
	Active        *bool  `json:"isActive"`
}
