package repositories

import (
	"database/sql"
	"time"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
)

type PaymentRepository struct {
	DB intdb.DBTX
}

func (r PaymentRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const paymentColumns = `
	id,
	order_id,
	amount,
	payment_method,
	COALESCE(transaction_reference,''),
	recorded_by,
	created_at,
	COALESCE(notes,'')`

func scanPayment(row interface{ Scan(...any) error }) (models.Payment, error) {
	var p models.Payment
	err := row.Scan(
		&p.ID,
		&p.OrderID,
		&p.Amount,
		&p.Method,
		&p.TransactionRef,
		&p.RecordedBy,
		&p.CreatedAt,
		&p.Notes,
	)
	return p, err
}

func (r PaymentRepository) GetByID(id int64) (models.Payment, error) {
	p, err := scanPayment(r.db().QueryRow(`
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return models.Payment{}, domain.NotFoundError{Resource: "payment"}
	}
	return p, err
}

func (r PaymentRepository) ListByOrder(orderID int64) ([]models.Payment, error) {
	rows, err := r.db().Query(`
		SELECT `+paymentColumns+`
		FROM payments
		WHERE order_id=?
		ORDER BY created_at ASC, id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PaymentRepository) ListRecent(limit int) ([]models.Payment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db().Query(`
		SELECT `+paymentColumns+`
		FROM payments
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r PaymentRepository) Insert(p *models.Payment) error {
	res, err := r.db().Exec(`
		INSERT INTO payments
			(order_id, amount, payment_method, transaction_reference, recorded_by, created_at, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.OrderID, p.Amount, p.Method, intdb.NullIfEmpty(p.TransactionRef),
		p.RecordedBy, p.CreatedAt, intdb.NullIfEmpty(p.Notes),
	)
	if err != nil {
		return err
	}
	p.ID, err = res.LastInsertId()
	return err
}

// UpdateNotes rewrites the annotation blob; the payment row itself is never
// deleted or amended.
func (r PaymentRepository) UpdateNotes(id int64, notes string) error {
	_, err := r.db().Exec(`UPDATE payments SET notes=? WHERE id=?`, notes, id)
	return err
}

// MethodTotal is one row of a daily summary grouped by payment method.
type MethodTotal struct {
	Method string  `json:"method"`
	Count  int     `json:"count"`
	Total  float64 `json:"total"`
}

// DailySummary aggregates payments for one calendar day.
func (r PaymentRepository) DailySummary(day time.Time) ([]MethodTotal, error) {
	rows, err := r.db().Query(`
		SELECT payment_method, COUNT(id), COALESCE(SUM(amount), 0)
		FROM payments
		WHERE DATE(created_at) = ?
		GROUP BY payment_method`, day.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []MethodTotal{}
	for rows.Next() {
		var m MethodTotal
		if err := rows.Scan(&m.Method, &m.Count, &m.Total); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
