package repositories

import (
	"database/sql"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
)

type AssignmentRepository struct {
	DB intdb.DBTX
}

func (r AssignmentRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const assignmentColumns = `
	a.id,
	a.order_item_id,
	a.staff_id,
	a.role,
	a.assigned_at,
	COALESCE(u.full_name,'')`

func scanAssignment(row interface{ Scan(...any) error }) (models.StaffAssignment, error) {
	var a models.StaffAssignment
	err := row.Scan(&a.ID, &a.OrderItemID, &a.StaffID, &a.Role, &a.AssignedAt, &a.StaffName)
	return a, err
}

// GetByItemAndStaff finds the assignment for one (item, staff) pair.
func (r AssignmentRepository) GetByItemAndStaff(itemID, staffID int64) (models.StaffAssignment, error) {
	a, err := scanAssignment(r.db().QueryRow(`
		SELECT `+assignmentColumns+`
		FROM staff_assignments a
		LEFT JOIN users u ON u.id = a.staff_id
		WHERE a.order_item_id=? AND a.staff_id=?
		LIMIT 1`, itemID, staffID))
	if err == sql.ErrNoRows {
		return models.StaffAssignment{}, domain.NotFoundError{Resource: "assignment"}
	}
	return a, err
}

// ListByItem returns assignments oldest first; creation order is the
// tie-break when promoting a new primary.
func (r AssignmentRepository) ListByItem(itemID int64) ([]models.StaffAssignment, error) {
	rows, err := r.db().Query(`
		SELECT `+assignmentColumns+`
		FROM staff_assignments a
		LEFT JOIN users u ON u.id = a.staff_id
		WHERE a.order_item_id=?
		ORDER BY a.id ASC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.StaffAssignment{}
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r AssignmentRepository) Insert(a *models.StaffAssignment) error {
	res, err := r.db().Exec(`
		INSERT INTO staff_assignments (order_item_id, staff_id, role, assigned_at)
		VALUES (?, ?, ?, ?)`,
		a.OrderItemID, a.StaffID, a.Role, a.AssignedAt)
	if err != nil {
		return err
	}
	a.ID, err = res.LastInsertId()
	return err
}

func (r AssignmentRepository) Delete(id int64) error {
	_, err := r.db().Exec(`DELETE FROM staff_assignments WHERE id=?`, id)
	return err
}

func (r AssignmentRepository) UpdateRole(id int64, role string) error {
	_, err := r.db().Exec(`UPDATE staff_assignments SET role=? WHERE id=?`, role, id)
	return err
}

// UpdateStaff swaps the staff on an existing assignment in place, preserving
// its identity and assigned_at.
func (r AssignmentRepository) UpdateStaff(id int64, staffID int64) error {
	_, err := r.db().Exec(`UPDATE staff_assignments SET staff_id=? WHERE id=?`, staffID, id)
	return err
}
