package services

import (
	"database/sql"
	"fmt"
	"time"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
	"washbay/internal/repositories"
	"washbay/internal/utils"
)

// AssignmentService binds staff to order line items. A primary assignment
// mirrors onto the item's assigned_staff_id and starts a pending item.
type AssignmentService struct {
	DB        *sql.DB
	RequestID string
	Now       func() time.Time
}

func (s AssignmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s AssignmentService) dbh() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

// Assign creates a new (item, staff) assignment.
func (s AssignmentService) Assign(actorID, itemID, staffID int64, role string) error {
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		return s.AssignInTx(tx, actorID, itemID, staffID, role)
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "assignments", "assign", fmt.Sprintf("item_id=%d staff_id=%d actor=%d", itemID, staffID, actorID))
	}
	return err
}

// AssignInTx is the transactional core of Assign, shared with order creation.
func (s AssignmentService) AssignInTx(tx *sql.Tx, actorID, itemID, staffID int64, role string) error {
	if role == "" {
		role = models.RolePrimary
	}
	if !models.ValidAssignmentRole(role) {
		return domain.ValidationError{Field: "role", Msg: "must be primary or assistant"}
	}

	users := repositories.UserRepository{DB: tx}
	items := repositories.OrderItemRepository{DB: tx}
	assignments := repositories.AssignmentRepository{DB: tx}

	if _, err := users.GetActiveStaff(staffID); err != nil {
		return err
	}
	item, err := items.GetByID(itemID)
	if err != nil {
		return err
	}

	if _, err := assignments.GetByItemAndStaff(itemID, staffID); err == nil {
		return domain.ConflictError{Resource: "assignment", Msg: "staff already assigned to this service"}
	} else if !domain.IsNotFound(err) {
		return err
	}

	now := s.now()
	assignment := models.StaffAssignment{
		OrderItemID: itemID,
		StaffID:     staffID,
		Role:        role,
		AssignedAt:  now,
	}
	if err := assignments.Insert(&assignment); err != nil {
		return err
	}

	if role != models.RolePrimary {
		return nil
	}
	if err := items.SetAssignedStaff(itemID, &staffID); err != nil {
		return err
	}
	// The first primary assignment puts a pending item to work.
	if item.Status == models.StatusPending {
		item.AssignedStaffID = &staffID
		item.Status = models.StatusInProgress
		item.StartedAt = &now
		return items.UpdateLifecycle(item)
	}
	return nil
}

// Remove drops an (item, staff) assignment. Removing the primary promotes
// the earliest remaining assignment; with nobody left the item's staff
// reference is cleared.
func (s AssignmentService) Remove(actorID, itemID, staffID int64) error {
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		items := repositories.OrderItemRepository{DB: tx}
		assignments := repositories.AssignmentRepository{DB: tx}

		assignment, err := assignments.GetByItemAndStaff(itemID, staffID)
		if err != nil {
			return err
		}

		if assignment.Role == models.RolePrimary {
			all, err := assignments.ListByItem(itemID)
			if err != nil {
				return err
			}
			var next *models.StaffAssignment
			for i := range all {
				if all[i].ID != assignment.ID {
					next = &all[i]
					break
				}
			}
			if next != nil {
				if err := assignments.UpdateRole(next.ID, models.RolePrimary); err != nil {
					return err
				}
				if err := items.SetAssignedStaff(itemID, &next.StaffID); err != nil {
					return err
				}
			} else {
				if err := items.SetAssignedStaff(itemID, nil); err != nil {
					return err
				}
			}
		}

		return assignments.Delete(assignment.ID)
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "assignments", "remove", fmt.Sprintf("item_id=%d staff_id=%d actor=%d", itemID, staffID, actorID))
	}
	return err
}

// Reassign swaps the staff on an existing assignment in place, preserving
// the assignment row and its assigned_at.
func (s AssignmentService) Reassign(actorID, itemID, oldStaffID, newStaffID int64) error {
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		users := repositories.UserRepository{DB: tx}
		items := repositories.OrderItemRepository{DB: tx}
		assignments := repositories.AssignmentRepository{DB: tx}

		if _, err := users.GetActiveStaff(newStaffID); err != nil {
			return err
		}

		assignment, err := assignments.GetByItemAndStaff(itemID, oldStaffID)
		if err != nil {
			return err
		}

		if _, err := assignments.GetByItemAndStaff(itemID, newStaffID); err == nil {
			return domain.ConflictError{Resource: "assignment", Msg: "new staff already assigned to this service"}
		} else if !domain.IsNotFound(err) {
			return err
		}

		if err := assignments.UpdateStaff(assignment.ID, newStaffID); err != nil {
			return err
		}
		if assignment.Role == models.RolePrimary {
			return items.SetAssignedStaff(itemID, &newStaffID)
		}
		return nil
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "assignments", "reassign", fmt.Sprintf("item_id=%d old=%d new=%d actor=%d", itemID, oldStaffID, newStaffID, actorID))
	}
	return err
}

// ListByItem returns the assignments for one line item.
func (s AssignmentService) ListByItem(itemID int64) ([]models.StaffAssignment, error) {
	assignments := repositories.AssignmentRepository{DB: s.dbh()}
	return assignments.ListByItem(itemID)
}
