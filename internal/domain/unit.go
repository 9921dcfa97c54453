package domain

import "time"

// Department represents a high-level organizational unit.
type Department struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Unit represents a sub-group optionally attached to a department.
type Unit struct {
	ID           int64
	Name         string
	DepartmentID *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReviewerScope selects one tier of the reviewer fallback chain.
type ReviewerScope string

const (
	ReviewerScopeUnit       ReviewerScope = "unit"
	ReviewerScopeDepartment ReviewerScope = "department"
	ReviewerScopeGlobal     ReviewerScope = "global"
)
