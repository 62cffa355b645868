package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Order / line-item statuses share one vocabulary.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	PayUnpaid   = "unpaid"
	PayPartial  = "partial"
	PayPaid     = "paid"
	PayOverpaid = "overpaid"
)

// OrderOverdueHours is how long an in-progress order may run before it is
// flagged on the dashboard.
const OrderOverdueHours = 4

// ServiceOrder is one customer visit.
type ServiceOrder struct {
	ID            int64      `json:"id"`
	OrderNumber   string     `json:"order_number"`
	CustomerID    int64      `json:"customer_id"`
	VehicleID     int64      `json:"vehicle_id"`
	Status        string     `json:"status"`
	TotalAmount   float64    `json:"total_amount"`
	AmountPaid    float64    `json:"amount_paid"`
	PaymentStatus string     `json:"payment_status"`
	Notes         string     `json:"notes,omitempty"`
	CreatedBy     int64      `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// PaymentStatusFor derives payment status purely from amounts.
func PaymentStatusFor(amountPaid, totalAmount float64) string {
	switch {
	case amountPaid <= 0:
		return PayUnpaid
	case amountPaid < totalAmount:
		return PayPartial
	case amountPaid == totalAmount:
		return PayPaid
	default:
		return PayOverpaid
	}
}

func (o ServiceOrder) BalanceDue() float64 {
	return o.TotalAmount - o.AmountPaid
}

func (o ServiceOrder) IsTerminal() bool {
	return o.Status == StatusCompleted || o.Status == StatusCancelled
}

func (o ServiceOrder) CanStart() bool {
	return o.Status == StatusPending
}

// CanFinish covers both complete and cancel preconditions.
func (o ServiceOrder) CanFinish() bool {
	return o.Status == StatusPending || o.Status == StatusInProgress
}

// DurationMinutes is elapsed time since start, frozen at completion.
func (o ServiceOrder) DurationMinutes(now time.Time) *int {
	if o.StartedAt == nil {
		return nil
	}
	end := now
	if o.CompletedAt != nil {
		end = *o.CompletedAt
	}
	m := int(end.Sub(*o.StartedAt).Minutes())
	return &m
}

// IsOverdue flags in-progress orders running past OrderOverdueHours.
func (o ServiceOrder) IsOverdue(now time.Time) bool {
	if o.Status != StatusInProgress || o.StartedAt == nil {
		return false
	}
	return now.Sub(*o.StartedAt) > OrderOverdueHours*time.Hour
}

const orderNumberPrefix = "ORD"

// OrderNumberDayPrefix returns e.g. "ORD-20240101" for the given day.
func OrderNumberDayPrefix(t time.Time) string {
	return fmt.Sprintf("%s-%s", orderNumberPrefix, t.UTC().Format("20060102"))
}

// FormatOrderNumber builds "ORD-YYYYMMDD-NNN".
func FormatOrderNumber(t time.Time, seq int) string {
	return fmt.Sprintf("%s-%03d", OrderNumberDayPrefix(t), seq)
}

// ParseOrderSequence extracts the trailing sequence from an order number.
func ParseOrderSequence(orderNumber string) (int, bool) {
	parts := strings.Split(orderNumber, "-")
	if len(parts) < 3 {
		return 0, false
	}
	seq, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}
	return seq, true
}
