package services

import (
	"testing"
	"time"

	"washbay/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

var orderCols = []string{
	"id", "order_number", "customer_id", "vehicle_id", "status",
	"total_amount", "amount_paid", "payment_status", "notes",
	"created_by", "created_at", "started_at", "completed_at",
}

var paymentCols = []string{
	"id", "order_id", "amount", "payment_method", "transaction_reference",
	"recorded_by", "created_at", "notes",
}

func TestRecordPaymentUpdatesOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	createdAt := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM service_orders").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(1, "ORD-20240101-001", 2, 3, "in_progress", 1000.0, 0.0, "unpaid", "", 1, createdAt, nil, nil))
	mock.ExpectExec("INSERT INTO payments").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("SET amount_paid=").WithArgs(400.0, "partial", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := PaymentService{DB: db, Now: func() time.Time { return createdAt }}
	payment, err := svc.Record(1, RecordPaymentInput{OrderID: 1, Amount: 400, Method: "mpesa", TransactionRef: "QWE123"})
	if err != nil {
		t.Fatalf("record error: %v", err)
	}
	if payment.ID != 10 || payment.Amount != 400 {
		t.Fatalf("unexpected payment: %+v", payment)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordPaymentOverpayRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	createdAt := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery("FROM service_orders").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(1, "ORD-20240101-001", 2, 3, "in_progress", 1000.0, 800.0, "partial", "", 1, createdAt, nil, nil))
	mock.ExpectRollback()

	svc := PaymentService{DB: db}
	// 800 paid + 800 new = 1600, past the 150% cap of 1500.
	_, err = svc.Record(1, RecordPaymentInput{OrderID: 1, Amount: 800, Method: "cash"})
	if !domain.IsPolicy(err) {
		t.Fatalf("expected policy error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordPaymentValidation(t *testing.T) {
	svc := PaymentService{}

	if _, err := svc.Record(1, RecordPaymentInput{OrderID: 1, Amount: 0, Method: "cash"}); !domain.IsValidation(err) {
		t.Fatalf("zero amount should be rejected, got %v", err)
	}
	if _, err := svc.Record(1, RecordPaymentInput{OrderID: 1, Amount: -10, Method: "cash"}); !domain.IsValidation(err) {
		t.Fatalf("negative amount should be rejected, got %v", err)
	}
	if _, err := svc.Record(1, RecordPaymentInput{OrderID: 1, Amount: 100, Method: "bitcoin"}); !domain.IsValidation(err) {
		t.Fatalf("unknown method should be rejected, got %v", err)
	}
	if _, err := svc.Record(1, RecordPaymentInput{OrderID: 0, Amount: 100, Method: "cash"}); !domain.IsValidation(err) {
		t.Fatalf("missing order id should be rejected, got %v", err)
	}
}

func TestRefundPartialAmount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	now := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	paidAt := now.Add(-time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(3, 1, 800.0, "cash", "", 1, paidAt, ""))
	mock.ExpectQuery("FROM service_orders").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(1, "ORD-20240101-001", 2, 3, "in_progress", 1000.0, 800.0, "partial", "", 1, paidAt, nil, nil))
	// 800 paid minus 300 refund leaves 500, still partial.
	mock.ExpectExec("SET amount_paid=").WithArgs(500.0, "partial", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE payments SET notes=").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := PaymentService{DB: db, Now: func() time.Time { return now }}
	amount := 300.0
	payment, err := svc.Refund(1, 3, &amount, "scratched bumper")
	if err != nil {
		t.Fatalf("refund error: %v", err)
	}
	if payment.Notes == "" {
		t.Fatalf("refund should annotate the payment notes")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRefundClampedToPaymentAmount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.MatchExpectationsInOrder(false)

	now := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM payments").WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(paymentCols).
			AddRow(3, 1, 800.0, "card", "", 1, now, ""))
	mock.ExpectQuery("FROM service_orders").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(1, "ORD-20240101-001", 2, 3, "completed", 1000.0, 800.0, "partial", "", 1, now, nil, nil))
	// Asking for 5000 back only reverses the original 800.
	mock.ExpectExec("SET amount_paid=").WithArgs(0.0, "unpaid", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE payments SET notes=").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_events").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	svc := PaymentService{DB: db, Now: func() time.Time { return now }}
	amount := 5000.0
	if _, err := svc.Refund(1, 3, &amount, ""); err != nil {
		t.Fatalf("refund error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
