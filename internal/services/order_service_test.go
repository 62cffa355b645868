package services

import (
	"testing"
	"time"

	"washbay/internal/domain"
	"washbay/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

var itemCols = []string{
	"id", "order_id", "service_id", "assigned_staff_id", "price_charged",
	"status", "notes", "started_at", "completed_at", "created_at",
	"service_name", "duration_minutes",
}

func TestCompleteOrderBlockedByUnfinishedServices(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	started := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM service_orders").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(1, "ORD-20240101-001", 2, 3, "in_progress", 1000.0, 0.0, "unpaid", "", 1, started, started, nil))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(1), "pending", "in_progress").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectRollback()

	svc := OrderService{DB: db}
	if err := svc.Complete(1, 1); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompleteOrderIncrementsCustomerVisits(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	started := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM service_orders").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(1, "ORD-20240101-001", 2, 3, "in_progress", 1000.0, 1000.0, "paid", "", 1, started, started, nil))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(1), "pending", "in_progress").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(`UPDATE service_orders\s+SET status=`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE customers").WithArgs(sqlmock.AnyArg(), int64(2)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := OrderService{DB: db, Now: func() time.Time { return started.Add(time.Hour) }}
	if err := svc.Complete(1, 1); err != nil {
		t.Fatalf("complete error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompleteOrderTwiceFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	started := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	done := started.Add(time.Hour)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM service_orders").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(1, "ORD-20240101-001", 2, 3, "completed", 1000.0, 1000.0, "paid", "", 1, started, started, done))
	mock.ExpectRollback()

	svc := OrderService{DB: db}
	if err := svc.Complete(1, 1); !domain.IsConflict(err) {
		t.Fatalf("second complete must conflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelLastItemCascadesToOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	started := now.Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM order_items oi").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(5, 1, 9, nil, 500.0, "in_progress", "", started, nil, started, "Full Wash", 60))
	mock.ExpectExec("UPDATE order_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	// One event for the item, one for the cascading order cancel.
	mock.ExpectExec("INSERT INTO order_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_events").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectQuery(`SUM\(price_charged\)`).WithArgs(int64(1), "cancelled").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0.0))
	mock.ExpectQuery("FROM service_orders").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(1, "ORD-20240101-001", 2, 3, "in_progress", 500.0, 0.0, "unpaid", "", 1, started, started, nil))
	mock.ExpectExec(`SET total_amount=`).WithArgs(0.0, "unpaid", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("FROM service_orders").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(1, "ORD-20240101-001", 2, 3, "in_progress", 0.0, 0.0, "unpaid", "", 1, started, started, nil))
	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(1), "pending", "in_progress").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec(`UPDATE service_orders\s+SET status=`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := OrderService{DB: db, Now: func() time.Time { return now }}
	if err := svc.CancelItem(1, 5, "customer changed mind"); err != nil {
		t.Fatalf("cancel item error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNextOrderNumberContinuesSequence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	day := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery("order_number LIKE").WithArgs("ORD-20240101").
		WillReturnRows(sqlmock.NewRows([]string{"order_number"}).AddRow("ORD-20240101-007"))

	svc := OrderService{DB: db}
	num, err := svc.nextOrderNumber(repositories.OrderRepository{DB: db}, day)
	if err != nil {
		t.Fatalf("nextOrderNumber error: %v", err)
	}
	if num != "ORD-20240101-008" {
		t.Fatalf("got %q, want ORD-20240101-008", num)
	}

	// First order of the day starts at 001.
	mock.ExpectQuery("order_number LIKE").WithArgs("ORD-20240101").
		WillReturnRows(sqlmock.NewRows([]string{"order_number"}))
	num, err = svc.nextOrderNumber(repositories.OrderRepository{DB: db}, day)
	if err != nil {
		t.Fatalf("nextOrderNumber error: %v", err)
	}
	if num != "ORD-20240101-001" {
		t.Fatalf("got %q, want ORD-20240101-001", num)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateItemPriceRejectsNegative(t *testing.T) {
	svc := OrderService{}
	if err := svc.UpdateItemPrice(1, 5, -10, ""); !domain.IsValidation(err) {
		t.Fatalf("negative price should be rejected, got %v", err)
	}
}
