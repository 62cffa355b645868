package repositories

import (
	"database/sql"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
)

type OrderItemRepository struct {
	DB intdb.DBTX
}

func (r OrderItemRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const itemColumns = `
	oi.id,
	oi.order_id,
	oi.service_id,
	oi.assigned_staff_id,
	oi.price_charged,
	oi.status,
	COALESCE(oi.notes,''),
	oi.started_at,
	oi.completed_at,
	oi.created_at,
	COALESCE(s.name,''),
	COALESCE(s.duration_minutes,0)`

func scanItem(row interface{ Scan(...any) error }) (models.OrderItem, error) {
	var (
		it        models.OrderItem
		staff     sql.NullInt64
		started   sql.NullTime
		completed sql.NullTime
	)
	err := row.Scan(
		&it.ID,
		&it.OrderID,
		&it.ServiceID,
		&staff,
		&it.PriceCharged,
		&it.Status,
		&it.Notes,
		&started,
		&completed,
		&it.CreatedAt,
		&it.ServiceName,
		&it.ExpectedMinutes,
	)
	if err != nil {
		return models.OrderItem{}, err
	}
	if staff.Valid {
		it.AssignedStaffID = &staff.Int64
	}
	if started.Valid {
		it.StartedAt = &started.Time
	}
	if completed.Valid {
		it.CompletedAt = &completed.Time
	}
	return it, nil
}

func (r OrderItemRepository) GetByID(id int64) (models.OrderItem, error) {
	it, err := scanItem(r.db().QueryRow(`
		SELECT `+itemColumns+`
		FROM order_items oi
		LEFT JOIN services s ON s.id = oi.service_id
		WHERE oi.id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return models.OrderItem{}, domain.NotFoundError{Resource: "order item"}
	}
	return it, err
}

func (r OrderItemRepository) ListByOrder(orderID int64) ([]models.OrderItem, error) {
	rows, err := r.db().Query(`
		SELECT `+itemColumns+`
		FROM order_items oi
		LEFT JOIN services s ON s.id = oi.service_id
		WHERE oi.order_id=?
		ORDER BY oi.id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.OrderItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r OrderItemRepository) Insert(it *models.OrderItem) error {
	var staff any
	if it.AssignedStaffID != nil {
		staff = *it.AssignedStaffID
	}
	res, err := r.db().Exec(`
		INSERT INTO order_items
			(order_id, service_id, assigned_staff_id, price_charged, status, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		it.OrderID, it.ServiceID, staff, it.PriceCharged, it.Status,
		intdb.NullIfEmpty(it.Notes), it.CreatedAt,
	)
	if err != nil {
		return err
	}
	it.ID, err = res.LastInsertId()
	return err
}

// UpdateLifecycle persists status, timestamps and notes after a transition.
func (r OrderItemRepository) UpdateLifecycle(it models.OrderItem) error {
	_, err := r.db().Exec(`
		UPDATE order_items
		SET status=?, started_at=?, completed_at=?, notes=?
		WHERE id=?`,
		it.Status, it.StartedAt, it.CompletedAt, intdb.NullIfEmpty(it.Notes), it.ID)
	return err
}

func (r OrderItemRepository) UpdatePrice(id int64, price float64, notes string) error {
	_, err := r.db().Exec(`
		UPDATE order_items
		SET price_charged=?, notes=?
		WHERE id=?`, price, intdb.NullIfEmpty(notes), id)
	return err
}

// SetAssignedStaff updates the primary staff mirror column. nil clears it.
func (r OrderItemRepository) SetAssignedStaff(id int64, staffID *int64) error {
	var staff any
	if staffID != nil {
		staff = *staffID
	}
	_, err := r.db().Exec(`
		UPDATE order_items
		SET assigned_staff_id=?
		WHERE id=?`, staff, id)
	return err
}

// ActiveByStaff lists in-progress items for one staff member.
func (r OrderItemRepository) ActiveByStaff(staffID int64) ([]models.OrderItem, error) {
	rows, err := r.db().Query(`
		SELECT `+itemColumns+`
		FROM order_items oi
		LEFT JOIN services s ON s.id = oi.service_id
		WHERE oi.assigned_staff_id=? AND oi.status=?
		ORDER BY oi.started_at ASC`, staffID, models.StatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.OrderItem{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
