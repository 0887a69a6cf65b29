package models

// Pagination describes page metadata attached to list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, pageSize, total int) *Pagination {
	if pageSize <= 0 {
		pageSize = 20
	}
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}
	return &Pagination{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}
