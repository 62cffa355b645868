package models

import (
	"strings"
	"time"
)

// Vehicle is keyed by registration plate.
type Vehicle struct {
	ID                 int64     `json:"id"`
	CustomerID         int64     `json:"customer_id"`
	RegistrationNumber string    `json:"registration_number"`
	Make               string    `json:"make,omitempty"`
	Model              string    `json:"model,omitempty"`
	Color              string    `json:"color,omitempty"`
	CreatedAt          time.Time `json:"created_at"`

	ServiceCount int        `json:"service_count"`
	TotalSpent   float64    `json:"total_spent"`
	LastService  *time.Time `json:"last_service_date,omitempty"`
}

// NormalizeRegistration standardizes plates: upper case, no spaces.
func NormalizeRegistration(reg string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(reg), " ", ""))
}

func ValidRegistration(reg string) bool {
	return len(strings.TrimSpace(reg)) >= 3
}

func (v Vehicle) DisplayName() string {
	parts := []string{}
	if v.Make != "" {
		parts = append(parts, v.Make)
	}
	if v.Model != "" {
		parts = append(parts, v.Model)
	}
	if v.Color != "" {
		parts = append(parts, "("+v.Color+")")
	}
	base := "Unknown Vehicle"
	if len(parts) > 0 {
		base = strings.Join(parts, " ")
	}
	return base + " - " + v.RegistrationNumber
}
