package models

import "time"

const (
	RolePrimary   = "primary"
	RoleAssistant = "assistant"
)

// StaffAssignment binds a staff member to an order item.
type StaffAssignment struct {
	ID          int64     `json:"id"`
	OrderItemID int64     `json:"order_item_id"`
	StaffID     int64     `json:"staff_id"`
	Role        string    `json:"role"`
	AssignedAt  time.Time `json:"assigned_at"`

	StaffName string `json:"staff_name,omitempty"`
}

func ValidAssignmentRole(role string) bool {
	return role == RolePrimary || role == RoleAssistant
}
