package models

import "time"

const (
	RoleManager   = "manager"
	RoleAttendant = "attendant"
)

// User is a staff identity. Inactive users cannot take assignments.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func ValidUserRole(role string) bool {
	return role == RoleManager || role == RoleAttendant
}
