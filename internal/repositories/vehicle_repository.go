package repositories

import (
	"database/sql"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
)

type VehicleRepository struct {
	DB intdb.DBTX
}

func (r VehicleRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const vehicleColumns = `
	v.id,
	v.customer_id,
	v.registration_number,
	COALESCE(v.make,''),
	COALESCE(v.model,''),
	COALESCE(v.color,''),
	v.created_at,
	(SELECT COUNT(*) FROM service_orders o
		WHERE o.vehicle_id = v.id AND o.status = 'completed'),
	COALESCE((SELECT SUM(o.total_amount) FROM service_orders o
		WHERE o.vehicle_id = v.id AND o.status = 'completed'), 0),
	(SELECT MAX(o.completed_at) FROM service_orders o
		WHERE o.vehicle_id = v.id AND o.status = 'completed')`

func scanVehicle(row interface{ Scan(...any) error }) (models.Vehicle, error) {
	var (
		v    models.Vehicle
		last sql.NullTime
	)
	err := row.Scan(
		&v.ID,
		&v.CustomerID,
		&v.RegistrationNumber,
		&v.Make,
		&v.Model,
		&v.Color,
		&v.CreatedAt,
		&v.ServiceCount,
		&v.TotalSpent,
		&last,
	)
	if err != nil {
		return models.Vehicle{}, err
	}
	if last.Valid {
		v.LastService = &last.Time
	}
	return v, nil
}

func (r VehicleRepository) GetByID(id int64) (models.Vehicle, error) {
	v, err := scanVehicle(r.db().QueryRow(`
		SELECT `+vehicleColumns+`
		FROM vehicles v
		WHERE v.id=? LIMIT 1`, id))
	if err == sql.ErrNoRows {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	return v, err
}

func (r VehicleRepository) GetByRegistration(reg string) (models.Vehicle, error) {
	v, err := scanVehicle(r.db().QueryRow(`
		SELECT `+vehicleColumns+`
		FROM vehicles v
		WHERE v.registration_number=? LIMIT 1`, reg))
	if err == sql.ErrNoRows {
		return models.Vehicle{}, domain.NotFoundError{Resource: "vehicle"}
	}
	return v, err
}

func (r VehicleRepository) Insert(v *models.Vehicle) error {
	res, err := r.db().Exec(`
		INSERT INTO vehicles (customer_id, registration_number, make, model, color, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.CustomerID, v.RegistrationNumber, intdb.NullIfEmpty(v.Make),
		intdb.NullIfEmpty(v.Model), intdb.NullIfEmpty(v.Color), v.CreatedAt,
	)
	if err != nil {
		return err
	}
	v.ID, err = res.LastInsertId()
	return err
}

func (r VehicleRepository) Update(v models.Vehicle) error {
	_, err := r.db().Exec(`
		UPDATE vehicles
		SET registration_number=?, make=?, model=?, color=?
		WHERE id=?`,
		v.RegistrationNumber, intdb.NullIfEmpty(v.Make), intdb.NullIfEmpty(v.Model),
		intdb.NullIfEmpty(v.Color), v.ID)
	return err
}

func (r VehicleRepository) ListByCustomer(customerID int64) ([]models.Vehicle, error) {
	rows, err := r.db().Query(`
		SELECT `+vehicleColumns+`
		FROM vehicles v
		WHERE v.customer_id=?
		ORDER BY v.id ASC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// SearchByRegistration matches plates by substring for global search.
func (r VehicleRepository) SearchByRegistration(q string, limit int) ([]models.Vehicle, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db().Query(`
		SELECT `+vehicleColumns+`
		FROM vehicles v
		WHERE v.registration_number LIKE CONCAT('%', ?, '%')
		ORDER BY v.created_at DESC
		LIMIT ?`, models.NormalizeRegistration(q), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
