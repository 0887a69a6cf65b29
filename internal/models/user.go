package models

import (
	"time"
)

// UserRole enumerates application roles.
type UserRole string

const (
	RoleEmployee UserRole = "EMPLOYEE"
	RoleManager  UserRole = "MANAGER"
	RoleAdmin    UserRole = "ADMIN"
)

// User is an application account. Employees submit expenses, managers and
// admins approve them.
type User struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	WorkID        string     `db:"work_id" json:"workId"`
	Email         string     `db:"email" json:"email"`
	PasswordHash  string     `db:"password_hash" json:"-"`
	Role          UserRole   `db:"role" json:"role"`
	Department    string     `db:"department" json:"department"`
	Position      string     `db:"position" json:"position"`
	ProfileImage  string     `db:"profile_image" json:"profileImage,omitempty"`
	ContactNumber string     `db:"contact_number" json:"contactNumber,omitempty"`
	DateJoined    Date       `db:"date_joined" json:"dateJoined"`
	Active        bool       `db:"active" json:"isActive"`
	LastLogin     *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// UserFilter narrows user list queries.
type UserFilter struct {
	Role       *UserRole
	Active     *bool
	Department string
	Search     string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// RefreshToken is a stored refresh token issued at login.
type RefreshToken struct {
	ID        string     `db:"id"`
	UserID    string     `db:"user_id"`
	Token     string     `db:"token"`
	ExpiresAt time.Time  `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
	Revoked   bool       `db:"revoked"`
	RevokedAt *time.Time `db:"revoked_at"`
	IPAddress string     `db:"ip_address"`
	UserAgent string     `db:"user_agent"`
}
