package models

import (
	"fmt"
	"math"
	"time"
)

// DefaultItemMinutes is assumed when a catalog service has no duration.
const DefaultItemMinutes = 60

// OrderItem is one service rendered within an order.
type OrderItem struct {
	ID              int64      `json:"id"`
	OrderID         int64      `json:"order_id"`
	ServiceID       int64      `json:"service_id"`
	AssignedStaffID *int64     `json:"assigned_staff_id,omitempty"`
	PriceCharged    float64    `json:"price_charged"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// Joined for display; not columns of order_items.
	ServiceName     string `json:"service_name,omitempty"`
	ExpectedMinutes int    `json:"expected_minutes,omitempty"`
}

// IsActive reports whether the item still blocks order completion.
func (it OrderItem) IsActive() bool {
	return it.Status == StatusPending || it.Status == StatusInProgress
}

func (it OrderItem) CanCancel() bool {
	return it.IsActive()
}

func (it OrderItem) DurationMinutes(now time.Time) *int {
	if it.StartedAt == nil {
		return nil
	}
	end := now
	if it.CompletedAt != nil {
		end = *it.CompletedAt
	}
	m := int(end.Sub(*it.StartedAt).Minutes())
	return &m
}

// IsOverdue reports whether a running item has exceeded its expected
// duration. expectedMinutes <= 0 falls back to DefaultItemMinutes.
func (it OrderItem) IsOverdue(now time.Time, expectedMinutes int) bool {
	if it.StartedAt == nil || it.CompletedAt != nil {
		return false
	}
	if expectedMinutes <= 0 {
		expectedMinutes = DefaultItemMinutes
	}
	return now.Sub(*it.StartedAt) > time.Duration(expectedMinutes)*time.Minute
}

// Efficiency scores a completed item: expected/actual*100 clamped to
// [0, 200]. Nil unless the item has both timestamps and a known expected
// duration. Instant completion scores 100.
func (it OrderItem) Efficiency(expectedMinutes int) *int {
	if it.StartedAt == nil || it.CompletedAt == nil || expectedMinutes <= 0 {
		return nil
	}
	actual := it.CompletedAt.Sub(*it.StartedAt).Minutes()
	score := 100.0
	if actual > 0 {
		score = float64(expectedMinutes) / actual * 100
	}
	score = math.Min(math.Max(score, 0), 200)
	n := int(math.Round(score))
	return &n
}

// AppendTimestampedNote adds one "[ts] note" line to an existing notes blob.
func AppendTimestampedNote(notes, note string, now time.Time) string {
	line := fmt.Sprintf("[%s] %s", now.UTC().Format("2006-01-02 15:04:05"), note)
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}
