package models

import "time"

// UserRole represents the available account roles.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

// UserStatus represents the account lifecycle state.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// User represents an application account stored in the users table.
type User struct {
	ID             int64      `db:"id" json:"id"`
	PersonalInfoID *int64     `db:"personal_info_id" json:"personal_info_id,omitempty"`
	DepartmentID   *int64     `db:"department_id" json:"department_id,omitempty"`
	Username       string     `db:"username" json:"username"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	Role           UserRole   `db:"role" json:"role"`
	Status         UserStatus `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// UserDetail joins the account with its optional person and department rows.
type UserDetail struct {
	User
	FirstName      *string `db:"first_name" json:"first_name,omitempty"`
	MiddleName     *string `db:"middle_name" json:"middle_name,omitempty"`
	LastName       *string `db:"last_name" json:"last_name,omitempty"`
	Email          *string `db:"email" json:"email,omitempty"`
	DepartmentName *string `db:"department_name" json:"department_name,omitempty"`
}

// UserFilter captures filtering criteria for listing accounts.
type UserFilter struct {
	Role      *UserRole
	Status    *UserStatus
	Search    string
	Page      int
	PageSize  int
	SortOrder string
}

// StaffCounts aggregates account statistics for the dashboard.
type StaffCounts struct {
	TotalUsers    int `db:"total_users" json:"total_users"`
	TotalStaff    int `db:"total_staff" json:"total_staff"`
	ActiveStaff   int `db:"active_staff" json:"active_staff"`
	InactiveStaff int `db:"inactive_staff" json:"inactive_staff"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// NewPagination normalizes page parameters the same way the repositories do so
// metadata matches the rows actually returned.
func NewPagination(page, pageSize, total int) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
