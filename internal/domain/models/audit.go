package models

import (
	"encoding/json"
	"time"
)

// Audit event kinds written by the order engine.
const (
	EventOrderCancelled = "order_cancelled"
	EventItemCancelled  = "item_cancelled"
	EventPriceChanged   = "price_changed"
	EventRefunded       = "refunded"
)

// OrderEvent is one typed audit entry for an order. The engine writes these
// in the same transaction as the mutation they record, so refund and price
// history is queryable instead of being parsed out of note text.
type OrderEvent struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	Kind      string          `json:"kind"`
	ActorID   int64           `json:"actor_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
