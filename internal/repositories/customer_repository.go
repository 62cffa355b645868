package repositories

import (
	"database/sql"
	"time"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
)

type CustomerRepository struct {
	DB intdb.DBTX
}

func (r CustomerRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const customerColumns = `
	c.id,
	c.phone_number,
	COALESCE(c.name,''),
	COALESCE(c.email,''),
	c.total_visits,
	c.created_at,
	c.updated_at,
	COALESCE((SELECT SUM(o.total_amount) FROM service_orders o
		WHERE o.customer_id = c.id AND o.status = 'completed'), 0),
	(SELECT MAX(o.completed_at) FROM service_orders o
		WHERE o.customer_id = c.id AND o.status = 'completed'),
	(SELECT COUNT(*) FROM vehicles v WHERE v.customer_id = c.id)`

func scanCustomer(row interface{ Scan(...any) error }) (models.Customer, error) {
	var (
		c         models.Customer
		lastVisit sql.NullTime
	)
	err := row.Scan(
		&c.ID,
		&c.PhoneNumber,
		&c.Name,
		&c.Email,
		&c.TotalVisits,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.TotalSpent,
		&lastVisit,
		&c.VehicleCount,
	)
	if err != nil {
		return models.Customer{}, err
	}
	if lastVisit.Valid {
		c.LastVisitAt = &lastVisit.Time
	}
	return c, nil
}

func (r CustomerRepository) GetByID(id int64) (models.Customer, error) {
	c, err := scanCustomer(r.db().QueryRow(`
		SELECT `+customerColumns+`
		FROM customers c
		WHERE c.id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return models.Customer{}, domain.NotFoundError{Resource: "customer"}
	}
	return c, err
}

func (r CustomerRepository) GetByPhone(phone string) (models.Customer, error) {
	c, err := scanCustomer(r.db().QueryRow(`
		SELECT `+customerColumns+`
		FROM customers c
		WHERE c.phone_number=? LIMIT 1`, phone))
	if err == sql.ErrNoRows {
		return models.Customer{}, domain.NotFoundError{Resource: "customer"}
	}
	return c, err
}

func (r CustomerRepository) Insert(c *models.Customer) error {
	res, err := r.db().Exec(`
		INSERT INTO customers (phone_number, name, email, total_visits, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)`,
		c.PhoneNumber, intdb.NullIfEmpty(c.Name), intdb.NullIfEmpty(c.Email),
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (r CustomerRepository) Update(c models.Customer) error {
	_, err := r.db().Exec(`
		UPDATE customers
		SET phone_number=?, name=?, email=?, updated_at=?
		WHERE id=?`,
		c.PhoneNumber, intdb.NullIfEmpty(c.Name), intdb.NullIfEmpty(c.Email),
		time.Now().UTC(), c.ID)
	return err
}

// IncrementVisits bumps the visit counter when an order completes.
func (r CustomerRepository) IncrementVisits(id int64) error {
	_, err := r.db().Exec(`
		UPDATE customers
		SET total_visits = total_visits + 1, updated_at=?
		WHERE id=?`, time.Now().UTC(), id)
	return err
}

// Search matches customers by phone or name substring.
func (r CustomerRepository) Search(q string, limit int) ([]models.Customer, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db().Query(`
		SELECT `+customerColumns+`
		FROM customers c
		WHERE c.phone_number LIKE CONCAT('%', ?, '%')
		   OR c.name LIKE CONCAT('%', ?, '%')
		ORDER BY c.updated_at DESC
		LIMIT ?`, q, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r CustomerRepository) List(limit int) ([]models.Customer, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db().Query(`
		SELECT `+customerColumns+`
		FROM customers c
		ORDER BY c.updated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
