package repositories

import (
	"database/sql"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
)

// ServiceRepository manages the service catalog (read-mostly reference data).
type ServiceRepository struct {
	DB intdb.DBTX
}

func (r ServiceRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const serviceColumns = `
	id,
	name,
	COALESCE(description,''),
	base_price,
	duration_minutes,
	COALESCE(category,''),
	is_active,
	display_order,
	created_at`

func scanService(row interface{ Scan(...any) error }) (models.Service, error) {
	var s models.Service
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.BasePrice,
		&s.DurationMinutes,
		&s.Category,
		&s.IsActive,
		&s.DisplayOrder,
		&s.CreatedAt,
	)
	return s, err
}

func (r ServiceRepository) GetByID(id int64) (models.Service, error) {
	s, err := scanService(r.db().QueryRow(`
		SELECT `+serviceColumns+`
		FROM services
		WHERE id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return models.Service{}, domain.NotFoundError{Resource: "service"}
	}
	return s, err
}

// List returns catalog entries by display order; activeOnly hides disabled
// services from the booking flow.
func (r ServiceRepository) List(activeOnly bool) ([]models.Service, error) {
	where := ""
	if activeOnly {
		where = " WHERE is_active = 1"
	}
	rows, err := r.db().Query(`
		SELECT ` + serviceColumns + `
		FROM services` + where + `
		ORDER BY display_order ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r ServiceRepository) Insert(s *models.Service) error {
	res, err := r.db().Exec(`
		INSERT INTO services
			(name, description, base_price, duration_minutes, category, is_active, display_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Name, intdb.NullIfEmpty(s.Description), s.BasePrice, s.DurationMinutes,
		intdb.NullIfEmpty(s.Category), s.IsActive, s.DisplayOrder, s.CreatedAt,
	)
	if err != nil {
		return err
	}
	s.ID, err = res.LastInsertId()
	return err
}

func (r ServiceRepository) Update(s models.Service) error {
	_, err := r.db().Exec(`
		UPDATE services
		SET name=?, description=?, base_price=?, duration_minutes=?, category=?, is_active=?, display_order=?
		WHERE id=?`,
		s.Name, intdb.NullIfEmpty(s.Description), s.BasePrice, s.DurationMinutes,
		intdb.NullIfEmpty(s.Category), s.IsActive, s.DisplayOrder, s.ID)
	return err
}
