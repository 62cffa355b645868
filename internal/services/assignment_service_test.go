package services

import (
	"testing"
	"time"

	"washbay/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

var userCols = []string{
	"id", "username", "full_name", "email", "phone", "role", "is_active", "created_at",
}

var assignmentCols = []string{
	"id", "order_item_id", "staff_id", "role", "assigned_at", "full_name",
}

func TestAssignDuplicateStaffConflicts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(7, "jkamau", "John Kamau", "", "", "attendant", true, now))
	mock.ExpectQuery("FROM order_items oi").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(5, 1, 9, nil, 500.0, "pending", "", nil, nil, now, "Full Wash", 60))
	mock.ExpectQuery(`a\.staff_id=\?\s+LIMIT 1`).WithArgs(int64(5), int64(7)).
		WillReturnRows(sqlmock.NewRows(assignmentCols).
			AddRow(1, 5, 7, "primary", now, "John Kamau"))
	mock.ExpectRollback()

	svc := AssignmentService{DB: db, Now: func() time.Time { return now }}
	if err := svc.Assign(1, 5, 7, "primary"); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignPrimaryStartsPendingItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(7, "jkamau", "John Kamau", "", "", "attendant", true, now))
	mock.ExpectQuery("FROM order_items oi").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(5, 1, 9, nil, 500.0, "pending", "", nil, nil, now, "Full Wash", 60))
	mock.ExpectQuery(`a\.staff_id=\?\s+LIMIT 1`).WithArgs(int64(5), int64(7)).
		WillReturnRows(sqlmock.NewRows(assignmentCols))
	mock.ExpectExec("INSERT INTO staff_assignments").WithArgs(int64(5), int64(7), "primary", now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("SET assigned_staff_id=").WithArgs(int64(7), int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE order_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := AssignmentService{DB: db, Now: func() time.Time { return now }}
	if err := svc.Assign(1, 5, 7, ""); err != nil {
		t.Fatalf("assign error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemovePrimaryPromotesNextAssignment(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`a\.staff_id=\?\s+LIMIT 1`).WithArgs(int64(5), int64(7)).
		WillReturnRows(sqlmock.NewRows(assignmentCols).
			AddRow(1, 5, 7, "primary", now, "John Kamau"))
	mock.ExpectQuery(`ORDER BY a\.id ASC`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(assignmentCols).
			AddRow(1, 5, 7, "primary", now, "John Kamau").
			AddRow(2, 5, 8, "assistant", now, "Mary Wanjiku"))
	mock.ExpectExec("UPDATE staff_assignments SET role=").WithArgs("primary", int64(2)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("SET assigned_staff_id=").WithArgs(int64(8), int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM staff_assignments").WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := AssignmentService{DB: db}
	if err := svc.Remove(1, 5, 7); err != nil {
		t.Fatalf("remove error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveLastAssignmentClearsStaff(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`a\.staff_id=\?\s+LIMIT 1`).WithArgs(int64(5), int64(7)).
		WillReturnRows(sqlmock.NewRows(assignmentCols).
			AddRow(1, 5, 7, "primary", now, "John Kamau"))
	mock.ExpectQuery(`ORDER BY a\.id ASC`).WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(assignmentCols).
			AddRow(1, 5, 7, "primary", now, "John Kamau"))
	mock.ExpectExec("SET assigned_staff_id=").WithArgs(nil, int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM staff_assignments").WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := AssignmentService{DB: db}
	if err := svc.Remove(1, 5, 7); err != nil {
		t.Fatalf("remove error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReassignSwapsStaffInPlace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM users").WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(8, "mwanjiku", "Mary Wanjiku", "", "", "attendant", true, now))
	mock.ExpectQuery(`a\.staff_id=\?\s+LIMIT 1`).WithArgs(int64(5), int64(7)).
		WillReturnRows(sqlmock.NewRows(assignmentCols).
			AddRow(1, 5, 7, "primary", now, "John Kamau"))
	mock.ExpectQuery(`a\.staff_id=\?\s+LIMIT 1`).WithArgs(int64(5), int64(8)).
		WillReturnRows(sqlmock.NewRows(assignmentCols))
	mock.ExpectExec("UPDATE staff_assignments SET staff_id=").WithArgs(int64(8), int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("SET assigned_staff_id=").WithArgs(int64(8), int64(5)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := AssignmentService{DB: db}
	if err := svc.Reassign(1, 5, 7, 8); err != nil {
		t.Fatalf("reassign error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAssignRejectsUnknownRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	svc := AssignmentService{DB: db}
	if err := svc.Assign(1, 5, 7, "supervisor"); !domain.IsValidation(err) {
		t.Fatalf("unknown role should be rejected, got %v", err)
	}
}
