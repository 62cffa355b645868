package models

import "time"

// Customer is keyed by phone number.
type Customer struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phone_number"`
	Name        string    `json:"name,omitempty"`
	Email       string    `json:"email,omitempty"`
	TotalVisits int       `json:"total_visits"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Derived by queries, not columns.
	TotalSpent   float64    `json:"total_spent"`
	LastVisitAt  *time.Time `json:"last_visit_date,omitempty"`
	VehicleCount int        `json:"vehicles_count"`
}

func (c Customer) IsReturning() bool {
	return c.TotalVisits > 1
}
