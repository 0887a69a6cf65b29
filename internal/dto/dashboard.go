package dto

// DashboardSummary aggregates expenses by status, time period, category and
// department for the overview screen.
type DashboardSummary struct {
	TotalExpenses    float64 `json:"totalExpenses"`
	PendingExpenses  float64 `json:"pendingExpenses"`
	ApprovedExpenses float64 `json:"approvedExpenses"`
	RejectedExpenses float64 `json:"rejectedExpenses"`

	ThisMonthTotal   float64 `json:"thisMonthTotal"`
	LastMonthTotal   float64 `json:"lastMonthTotal"`
	PercentageChange float64 `json:"percentageChange"`

	TopCategories    []CategoryTotal    `json:"topCategories"`
	TopDepartments   []DepartmentTotal  `json:"topDepartments"`
	MonthlyBreakdown []MonthlyBreakdown `json:"monthlyBreakdown"`
}

// CategoryTotal is a per-category aggregate share.
type CategoryTotal struct {
	CategoryName string  `json:"categoryName" db:"category_name"`
	Amount       float64 `json:"amount" db:"amount"`
	Percentage   float64 `json:"percentage" db:"-"`
}

// DepartmentTotal is a per-department aggregate share.
type DepartmentTotal struct {
	DepartmentName string  `json:"departmentName" db:"department_name"`
	Amount         float64 `json:"amount" db:"amount"`
	Percentage     float64 `json:"percentage" db:"-"`
}

// MonthlyBreakdown is a month bucket of spend against budget.
type MonthlyBreakdown struct {
	Month    string  `json:"month" db:"month"`
	Expenses float64 `json:"expenses" db:"expenses"`
	Budget   float64 `json:"budget" db:"budget"`
}

// StatusTotals carries summed amounts per lifecycle state.
type StatusTotals struct {
	Total    float64 `db:"total"`
	Pending  float64 `db:"pending"`
	Approved float64 `db:"approved"`
	Rejected float64 `db:"rejected"`
}
