package dto

// DepartmentRequest creates or updates a department.
type DepartmentRequest struct {
	Name        string  `json:"name" validate:"required"`
	ManagerID   string  `json:"managerId"`
	ManagerName string  `json:"managerName"`
	Budget      float64 `json:"budget" validate:"gte=0"`
	Description string  `json:"description"`
	Active      *bool   `json:"isActive"`
}
