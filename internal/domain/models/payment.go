package models

import "time"

const (
	MethodCash   = "cash"
	MethodMpesa  = "mpesa"
	MethodAirtel = "airtel"
	MethodCard   = "card"
)

// Payment is an append-only record of money received against an order.
// Refunds annotate the record; they never delete it.
type Payment struct {
	ID             int64     `json:"id"`
	OrderID        int64     `json:"order_id"`
	Amount         float64   `json:"amount"`
	Method         string    `json:"payment_method"`
	TransactionRef string    `json:"transaction_reference,omitempty"`
	RecordedBy     int64     `json:"recorded_by"`
	CreatedAt      time.Time `json:"created_at"`
	Notes          string    `json:"notes,omitempty"`
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case MethodCash, MethodMpesa, MethodAirtel, MethodCard:
		return true
	}
	return false
}

// MethodDisplay returns the human name for a payment method.
func MethodDisplay(m string) string {
	switch m {
	case MethodCash:
		return "Cash"
	case MethodMpesa:
		return "M-Pesa"
	case MethodAirtel:
		return "Airtel Money"
	case MethodCard:
		return "Card"
	}
	return m
}
