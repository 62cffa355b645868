package repositories

import (
	"database/sql"
	"time"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
)

type OrderRepository struct {
	DB intdb.DBTX
}

func (r OrderRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const orderColumns = `
	id,
	order_number,
	customer_id,
	vehicle_id,
	status,
	total_amount,
	amount_paid,
	payment_status,
	COALESCE(notes,''),
	created_by,
	created_at,
	started_at,
	completed_at`

func scanOrder(row interface{ Scan(...any) error }) (models.ServiceOrder, error) {
	var (
		o         models.ServiceOrder
		started   sql.NullTime
		completed sql.NullTime
	)
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.VehicleID,
		&o.Status,
		&o.TotalAmount,
		&o.AmountPaid,
		&o.PaymentStatus,
		&o.Notes,
		&o.CreatedBy,
		&o.CreatedAt,
		&started,
		&completed,
	)
	if err != nil {
		return models.ServiceOrder{}, err
	}
	if started.Valid {
		o.StartedAt = &started.Time
	}
	if completed.Valid {
		o.CompletedAt = &completed.Time
	}
	return o, nil
}

func (r OrderRepository) GetByID(id int64) (models.ServiceOrder, error) {
	o, err := scanOrder(r.db().QueryRow(`
		SELECT `+orderColumns+`
		FROM service_orders
		WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return models.ServiceOrder{}, domain.NotFoundError{Resource: "order"}
	}
	return o, err
}

func (r OrderRepository) Insert(o *models.ServiceOrder) error {
	res, err := r.db().Exec(`
		INSERT INTO service_orders
			(order_number, customer_id, vehicle_id, status, total_amount,
			 amount_paid, payment_status, notes, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.OrderNumber, o.CustomerID, o.VehicleID, o.Status, o.TotalAmount,
		o.AmountPaid, o.PaymentStatus, intdb.NullIfEmpty(o.Notes), o.CreatedBy, o.CreatedAt,
	)
	if err != nil {
		return err
	}
	o.ID, err = res.LastInsertId()
	return err
}

// LastOrderNumberFor returns the most recent order number carrying the given
// day prefix, or "" when today has no orders yet.
func (r OrderRepository) LastOrderNumberFor(day time.Time) (string, error) {
	prefix := models.OrderNumberDayPrefix(day)
	var num string
	err := r.db().QueryRow(`
		SELECT order_number
		FROM service_orders
		WHERE order_number LIKE CONCAT(?, '%')
		ORDER BY id DESC
		LIMIT 1`, prefix).Scan(&num)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return num, err
}

// UpdateLifecycle persists status, timestamps and notes after a transition.
func (r OrderRepository) UpdateLifecycle(o models.ServiceOrder) error {
	_, err := r.db().Exec(`
		UPDATE service_orders
		SET status=?, started_at=?, completed_at=?, notes=?
		WHERE id=?`,
		o.Status, o.StartedAt, o.CompletedAt, intdb.NullIfEmpty(o.Notes), o.ID)
	return err
}

// UpdateTotals rewrites total_amount and the payment status derived from it.
func (r OrderRepository) UpdateTotals(id int64, total float64, paymentStatus string) error {
	_, err := r.db().Exec(`
		UPDATE service_orders
		SET total_amount=?, payment_status=?
		WHERE id=?`, total, paymentStatus, id)
	return err
}

// UpdatePaid rewrites amount_paid and payment_status.
func (r OrderRepository) UpdatePaid(id int64, amountPaid float64, paymentStatus string) error {
	_, err := r.db().Exec(`
		UPDATE service_orders
		SET amount_paid=?, payment_status=?
		WHERE id=?`, amountPaid, paymentStatus, id)
	return err
}

// SumItemTotal is the invariant source of truth: the sum of price_charged
// over non-cancelled line items.
func (r OrderRepository) SumItemTotal(orderID int64) (float64, error) {
	var total float64
	err := r.db().QueryRow(`
		SELECT COALESCE(SUM(price_charged), 0)
		FROM order_items
		WHERE order_id=? AND status <> ?`, orderID, models.StatusCancelled).Scan(&total)
	return total, err
}

// CountActiveItems counts children still pending or in progress.
func (r OrderRepository) CountActiveItems(orderID int64) (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*)
		FROM order_items
		WHERE order_id=? AND status IN (?, ?)`,
		orderID, models.StatusPending, models.StatusInProgress).Scan(&n)
	return n, err
}

// List returns orders, newest first, optionally filtered by status.
func (r OrderRepository) List(status string, page, pageSize int) ([]models.ServiceOrder, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	where := ""
	args := []any{}
	if status != "" {
		where = " WHERE status=?"
		args = append(args, status)
	}

	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM service_orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.db().Query(`
		SELECT `+orderColumns+`
		FROM service_orders`+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []models.ServiceOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, o)
	}
	return out, total, rows.Err()
}

// ActiveQueue returns pending/in-progress orders, oldest first.
func (r OrderRepository) ActiveQueue() ([]models.ServiceOrder, error) {
	rows, err := r.db().Query(`
		SELECT `+orderColumns+`
		FROM service_orders
		WHERE status IN (?, ?)
		ORDER BY created_at ASC`, models.StatusPending, models.StatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ServiceOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// SearchByNumber matches order numbers by substring for global search.
func (r OrderRepository) SearchByNumber(q string, limit int) ([]models.ServiceOrder, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db().Query(`
		SELECT `+orderColumns+`
		FROM service_orders
		WHERE order_number LIKE CONCAT('%', ?, '%')
		ORDER BY created_at DESC
		LIMIT ?`, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ServiceOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
