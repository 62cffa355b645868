package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
	"washbay/internal/repositories"
	"washbay/internal/utils"
)

// OrderService is the order lifecycle engine. Every mutating operation runs
// its read-modify-write inside one transaction, takes the acting user as an
// explicit parameter, and re-derives the order's total and payment status
// before committing.
type OrderService struct {
	DB          *sql.DB
	RequestID   string
	Assignments AssignmentService
	Now         func() time.Time
}

func (s OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s OrderService) dbh() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

type CreateOrderItemInput struct {
	ServiceID int64    `json:"service_id"`
	Price     *float64 `json:"price,omitempty"`
	StaffID   *int64   `json:"staff_id,omitempty"`
}

type CreateOrderInput struct {
	CustomerID int64                  `json:"customer_id"`
	VehicleID  int64                  `json:"vehicle_id"`
	Notes      string                 `json:"notes,omitempty"`
	Items      []CreateOrderItemInput `json:"services"`
}

// ItemDetail is an order line item plus its derived fields.
type ItemDetail struct {
	models.OrderItem
	DurationMinutes *int                     `json:"duration_minutes,omitempty"`
	IsOverdue       bool                     `json:"is_overdue"`
	Efficiency      *int                     `json:"efficiency,omitempty"`
	Assignments     []models.StaffAssignment `json:"assignments,omitempty"`
}

// OrderDetail is the serializable snapshot handed to the API layer.
type OrderDetail struct {
	models.ServiceOrder
	BalanceDue      float64          `json:"balance_due"`
	DurationMinutes *int             `json:"duration_minutes,omitempty"`
	IsOverdue       bool             `json:"is_overdue"`
	Items           []ItemDetail     `json:"services"`
	Payments        []models.Payment `json:"payments,omitempty"`
	PaymentCount    int              `json:"payment_count"`
}

// Create opens an order with its line items. Each item's price defaults to
// the catalog base price; items carrying a staff id get a primary assignment,
// which also starts them.
func (s OrderService) Create(actorID int64, in CreateOrderInput) (OrderDetail, error) {
	if in.CustomerID <= 0 {
		return OrderDetail{}, domain.ValidationError{Field: "customer_id", Msg: "required"}
	}
	if in.VehicleID <= 0 {
		return OrderDetail{}, domain.ValidationError{Field: "vehicle_id", Msg: "required"}
	}
	if len(in.Items) == 0 {
		return OrderDetail{}, domain.ValidationError{Field: "services", Msg: "at least one service is required"}
	}

	var orderID int64
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		orders := repositories.OrderRepository{DB: tx}
		items := repositories.OrderItemRepository{DB: tx}
		catalog := repositories.ServiceRepository{DB: tx}
		customers := repositories.CustomerRepository{DB: tx}
		vehicles := repositories.VehicleRepository{DB: tx}

		if _, err := customers.GetByID(in.CustomerID); err != nil {
			return err
		}
		vehicle, err := vehicles.GetByID(in.VehicleID)
		if err != nil {
			return err
		}
		if vehicle.CustomerID != in.CustomerID {
			return domain.ValidationError{Field: "vehicle_id", Msg: "vehicle does not belong to this customer"}
		}

		now := s.now()
		number, err := s.nextOrderNumber(orders, now)
		if err != nil {
			return err
		}

		order := models.ServiceOrder{
			OrderNumber:   number,
			CustomerID:    in.CustomerID,
			VehicleID:     in.VehicleID,
			Status:        models.StatusPending,
			PaymentStatus: models.PayUnpaid,
			Notes:         utils.TrimOrEmpty(in.Notes),
			CreatedBy:     actorID,
			CreatedAt:     now,
		}
		if err := orders.Insert(&order); err != nil {
			return err
		}

		for _, itemIn := range in.Items {
			svc, err := catalog.GetByID(itemIn.ServiceID)
			if err != nil {
				return err
			}
			if !svc.IsActive {
				return domain.ValidationError{Field: "service_id", Msg: fmt.Sprintf("service %q is not active", svc.Name)}
			}
			price := svc.BasePrice
			if itemIn.Price != nil {
				if *itemIn.Price < 0 {
					return domain.ValidationError{Field: "price", Msg: "must not be negative"}
				}
				price = *itemIn.Price
			}
			item := models.OrderItem{
				OrderID:      order.ID,
				ServiceID:    svc.ID,
				PriceCharged: price,
				Status:       models.StatusPending,
				CreatedAt:    now,
			}
			if err := items.Insert(&item); err != nil {
				return err
			}
			if itemIn.StaffID != nil {
				if err := s.Assignments.AssignInTx(tx, actorID, item.ID, *itemIn.StaffID, models.RolePrimary); err != nil {
					return err
				}
			}
		}

		orderID = order.ID
		return s.recalcTotals(tx, order.ID)
	})
	if err != nil {
		return OrderDetail{}, err
	}

	utils.LogEvent(s.RequestID, "orders", "create", fmt.Sprintf("order_id=%d actor=%d", orderID, actorID))
	return s.Get(orderID)
}

func (s OrderService) nextOrderNumber(orders repositories.OrderRepository, now time.Time) (string, error) {
	last, err := orders.LastOrderNumberFor(now)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" {
		if n, ok := models.ParseOrderSequence(last); ok {
			seq = n + 1
		}
	}
	return models.FormatOrderNumber(now, seq), nil
}

// Get loads the full order snapshot with derived fields.
func (s OrderService) Get(orderID int64) (OrderDetail, error) {
	orders := repositories.OrderRepository{DB: s.dbh()}
	items := repositories.OrderItemRepository{DB: s.dbh()}
	payments := repositories.PaymentRepository{DB: s.dbh()}
	assignments := repositories.AssignmentRepository{DB: s.dbh()}

	order, err := orders.GetByID(orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	itemRows, err := items.ListByOrder(orderID)
	if err != nil {
		return OrderDetail{}, err
	}
	payRows, err := payments.ListByOrder(orderID)
	if err != nil {
		return OrderDetail{}, err
	}

	now := s.now()
	detail := OrderDetail{
		ServiceOrder:    order,
		BalanceDue:      order.BalanceDue(),
		DurationMinutes: order.DurationMinutes(now),
		IsOverdue:       order.IsOverdue(now),
		Payments:        payRows,
		PaymentCount:    len(payRows),
		Items:           make([]ItemDetail, 0, len(itemRows)),
	}
	for _, it := range itemRows {
		assigned, err := assignments.ListByItem(it.ID)
		if err != nil {
			return OrderDetail{}, err
		}
		detail.Items = append(detail.Items, ItemDetail{
			OrderItem:       it,
			DurationMinutes: it.DurationMinutes(now),
			IsOverdue:       it.IsOverdue(now, it.ExpectedMinutes),
			Efficiency:      it.Efficiency(it.ExpectedMinutes),
			Assignments:     assigned,
		})
	}
	return detail, nil
}

// Start moves a pending order to in_progress.
func (s OrderService) Start(actorID, orderID int64) error {
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		orders := repositories.OrderRepository{DB: tx}
		order, err := orders.GetByID(orderID)
		if err != nil {
			return err
		}
		if !order.CanStart() {
			return domain.ConflictError{Resource: "order", Msg: fmt.Sprintf("cannot start from status %q", order.Status)}
		}
		now := s.now()
		order.Status = models.StatusInProgress
		order.StartedAt = &now
		return orders.UpdateLifecycle(order)
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "orders", "start", fmt.Sprintf("order_id=%d actor=%d", orderID, actorID))
	}
	return err
}

// Complete finishes an order once every line item is terminal. Calling it on
// an already-completed order fails cleanly and never double-counts the
// customer's visit.
func (s OrderService) Complete(actorID, orderID int64) error {
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		orders := repositories.OrderRepository{DB: tx}
		order, err := orders.GetByID(orderID)
		if err != nil {
			return err
		}
		return s.completeOrderTx(tx, orders, order)
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "orders", "complete", fmt.Sprintf("order_id=%d actor=%d", orderID, actorID))
	}
	return err
}

func (s OrderService) completeOrderTx(tx *sql.Tx, orders repositories.OrderRepository, order models.ServiceOrder) error {
	if !order.CanFinish() {
		return domain.ConflictError{Resource: "order", Msg: fmt.Sprintf("cannot complete from status %q", order.Status)}
	}
	active, err := orders.CountActiveItems(order.ID)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ConflictError{Resource: "order", Msg: "order still has unfinished services"}
	}

	now := s.now()
	order.Status = models.StatusCompleted
	order.CompletedAt = &now
	if err := orders.UpdateLifecycle(order); err != nil {
		return err
	}

	customers := repositories.CustomerRepository{DB: tx}
	return customers.IncrementVisits(order.CustomerID)
}

// Cancel aborts a pending/in-progress order. Payments already collected are
// left untouched; money received is a historical fact.
func (s OrderService) Cancel(actorID, orderID int64, reason string) error {
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		orders := repositories.OrderRepository{DB: tx}
		order, err := orders.GetByID(orderID)
		if err != nil {
			return err
		}
		return s.cancelOrderTx(tx, orders, order, actorID, reason)
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "orders", "cancel", fmt.Sprintf("order_id=%d actor=%d", orderID, actorID))
	}
	return err
}

func (s OrderService) cancelOrderTx(tx *sql.Tx, orders repositories.OrderRepository, order models.ServiceOrder, actorID int64, reason string) error {
	if !order.CanFinish() {
		return domain.ConflictError{Resource: "order", Msg: fmt.Sprintf("cannot cancel from status %q", order.Status)}
	}

	now := s.now()
	order.Status = models.StatusCancelled
	note := "Cancelled"
	if reason != "" {
		note = "Cancelled: " + reason
	}
	order.Notes = models.AppendTimestampedNote(order.Notes, note, now)
	if err := orders.UpdateLifecycle(order); err != nil {
		return err
	}

	return s.writeEvent(tx, order.ID, models.EventOrderCancelled, actorID, map[string]any{"reason": reason}, now)
}

// CompleteItem finishes one line item and re-evaluates the parent order in
// the same transaction; completing the last outstanding item completes the
// order.
func (s OrderService) CompleteItem(actorID, itemID int64) error {
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		items := repositories.OrderItemRepository{DB: tx}
		orders := repositories.OrderRepository{DB: tx}

		item, err := items.GetByID(itemID)
		if err != nil {
			return err
		}
		if !item.IsActive() {
			return domain.ConflictError{Resource: "order item", Msg: fmt.Sprintf("cannot complete from status %q", item.Status)}
		}

		now := s.now()
		item.Status = models.StatusCompleted
		item.CompletedAt = &now
		if err := items.UpdateLifecycle(item); err != nil {
			return err
		}

		order, err := orders.GetByID(item.OrderID)
		if err != nil {
			return err
		}
		if !order.CanFinish() {
			return nil
		}
		active, err := orders.CountActiveItems(order.ID)
		if err != nil {
			return err
		}
		if active > 0 {
			return nil
		}
		return s.completeOrderTx(tx, orders, order)
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "orders", "complete_item", fmt.Sprintf("item_id=%d actor=%d", itemID, actorID))
	}
	return err
}

// CancelItem cancels one line item, re-derives the order total (cancelled
// items no longer count), and cascades to cancel the order when no active
// items remain.
func (s OrderService) CancelItem(actorID, itemID int64, reason string) error {
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		items := repositories.OrderItemRepository{DB: tx}
		orders := repositories.OrderRepository{DB: tx}

		item, err := items.GetByID(itemID)
		if err != nil {
			return err
		}
		if !item.CanCancel() {
			return domain.ConflictError{Resource: "order item", Msg: fmt.Sprintf("cannot cancel from status %q", item.Status)}
		}

		now := s.now()
		item.Status = models.StatusCancelled
		note := "Service cancelled"
		if reason != "" {
			note += ": " + reason
		}
		item.Notes = models.AppendTimestampedNote(item.Notes, note, now)
		if err := items.UpdateLifecycle(item); err != nil {
			return err
		}

		if err := s.writeEvent(tx, item.OrderID, models.EventItemCancelled, actorID,
			map[string]any{"order_item_id": item.ID, "reason": reason}, now); err != nil {
			return err
		}

		if err := s.recalcTotals(tx, item.OrderID); err != nil {
			return err
		}

		order, err := orders.GetByID(item.OrderID)
		if err != nil {
			return err
		}
		if !order.CanFinish() {
			return nil
		}
		active, err := orders.CountActiveItems(order.ID)
		if err != nil {
			return err
		}
		if active > 0 {
			return nil
		}
		return s.cancelOrderTx(tx, orders, order, actorID, "all services cancelled")
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "orders", "cancel_item", fmt.Sprintf("item_id=%d actor=%d", itemID, actorID))
	}
	return err
}

// UpdateItemPrice changes what one line item charges and re-derives the
// order total. The change is recorded as a typed audit event plus a
// human-readable note.
func (s OrderService) UpdateItemPrice(actorID, itemID int64, newPrice float64, reason string) error {
	if newPrice < 0 {
		return domain.ValidationError{Field: "price", Msg: "must not be negative"}
	}
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		items := repositories.OrderItemRepository{DB: tx}

		item, err := items.GetByID(itemID)
		if err != nil {
			return err
		}

		now := s.now()
		note := fmt.Sprintf("Price changed from %s to %s", utils.FormatKES(item.PriceCharged), utils.FormatKES(newPrice))
		if reason != "" {
			note += ": " + reason
		}
		notes := models.AppendTimestampedNote(item.Notes, note, now)
		if err := items.UpdatePrice(item.ID, newPrice, notes); err != nil {
			return err
		}

		if err := s.writeEvent(tx, item.OrderID, models.EventPriceChanged, actorID, map[string]any{
			"order_item_id": item.ID,
			"old_price":     item.PriceCharged,
			"new_price":     newPrice,
			"reason":        reason,
		}, now); err != nil {
			return err
		}

		return s.recalcTotals(tx, item.OrderID)
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "orders", "update_price", fmt.Sprintf("item_id=%d actor=%d", itemID, actorID))
	}
	return err
}

// recalcTotals restores the invariant total_amount == sum(price_charged of
// non-cancelled items) and re-derives payment status from the new total.
func (s OrderService) recalcTotals(tx *sql.Tx, orderID int64) error {
	orders := repositories.OrderRepository{DB: tx}
	total, err := orders.SumItemTotal(orderID)
	if err != nil {
		return err
	}
	order, err := orders.GetByID(orderID)
	if err != nil {
		return err
	}
	return orders.UpdateTotals(orderID, total, models.PaymentStatusFor(order.AmountPaid, total))
}

func (s OrderService) writeEvent(tx *sql.Tx, orderID int64, kind string, actorID int64, payload map[string]any, now time.Time) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	audit := repositories.AuditRepository{DB: tx}
	return audit.Insert(&models.OrderEvent{
		OrderID:   orderID,
		Kind:      kind,
		ActorID:   actorID,
		Payload:   raw,
		CreatedAt: now,
	})
}

// List returns order snapshots with derived fields for the list view.
func (s OrderService) List(status string, page, pageSize int) ([]OrderDetail, int, error) {
	orders := repositories.OrderRepository{DB: s.dbh()}
	rows, total, err := orders.List(status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	out := make([]OrderDetail, 0, len(rows))
	for _, o := range rows {
		out = append(out, OrderDetail{
			ServiceOrder:    o,
			BalanceDue:      o.BalanceDue(),
			DurationMinutes: o.DurationMinutes(now),
			IsOverdue:       o.IsOverdue(now),
		})
	}
	return out, total, nil
}

// Queue returns active orders oldest first for the wash floor.
func (s OrderService) Queue() ([]OrderDetail, error) {
	orders := repositories.OrderRepository{DB: s.dbh()}
	rows, err := orders.ActiveQueue()
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]OrderDetail, 0, len(rows))
	for _, o := range rows {
		out = append(out, OrderDetail{
			ServiceOrder:    o,
			BalanceDue:      o.BalanceDue(),
			DurationMinutes: o.DurationMinutes(now),
			IsOverdue:       o.IsOverdue(now),
		})
	}
	return out, nil
}
