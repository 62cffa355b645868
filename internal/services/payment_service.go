package services

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain"
	"washbay/internal/domain/models"
	"washbay/internal/repositories"
	"washbay/internal/utils"
)

// PaymentService reconciles money against orders. Payments are append-only;
// refunds annotate the original record and reduce the order's amount_paid.
type PaymentService struct {
	DB        *sql.DB
	RequestID string
	// OverpayLimitPct caps paid-so-far + new payment at this percentage of
	// the order total. Zero means the 150 default.
	OverpayLimitPct float64
	Now             func() time.Time
}

func (s PaymentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s PaymentService) dbh() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s PaymentService) overpayLimit() float64 {
	if s.OverpayLimitPct > 0 {
		return s.OverpayLimitPct
	}
	return 150
}

type RecordPaymentInput struct {
	OrderID        int64   `json:"order_id"`
	Amount         float64 `json:"amount"`
	Method         string  `json:"payment_method"`
	TransactionRef string  `json:"transaction_reference,omitempty"`
	Notes          string  `json:"notes,omitempty"`
}

// Record validates and appends a payment, then re-derives the order's
// payment status. Gross overpayment (beyond the configured percentage of the
// total) is rejected as a policy error; modest tips and rounding pass.
func (s PaymentService) Record(actorID int64, in RecordPaymentInput) (models.Payment, error) {
	if in.OrderID <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "order_id", Msg: "required"}
	}
	if in.Amount <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "amount", Msg: "must be greater than 0"}
	}
	if !models.ValidPaymentMethod(in.Method) {
		return models.Payment{}, domain.ValidationError{Field: "payment_method", Msg: "unknown payment method"}
	}

	var payment models.Payment
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		orders := repositories.OrderRepository{DB: tx}
		payments := repositories.PaymentRepository{DB: tx}

		order, err := orders.GetByID(in.OrderID)
		if err != nil {
			return err
		}

		if order.AmountPaid+in.Amount > order.TotalAmount*s.overpayLimit()/100 {
			return domain.PolicyError{Msg: "payment exceeds order total by too much"}
		}

		payment = models.Payment{
			OrderID:        order.ID,
			Amount:         in.Amount,
			Method:         in.Method,
			TransactionRef: utils.TrimOrEmpty(in.TransactionRef),
			RecordedBy:     actorID,
			CreatedAt:      s.now(),
			Notes:          utils.TrimOrEmpty(in.Notes),
		}
		if err := payments.Insert(&payment); err != nil {
			return err
		}

		paid := order.AmountPaid + in.Amount
		return orders.UpdatePaid(order.ID, paid, models.PaymentStatusFor(paid, order.TotalAmount))
	})
	if err != nil {
		return models.Payment{}, err
	}

	utils.LogEvent(s.RequestID, "payments", "record",
		fmt.Sprintf("order_id=%d payment_id=%d amount=%s actor=%d", in.OrderID, payment.ID, utils.FormatMoney(in.Amount), actorID))
	return payment, nil
}

// Refund reverses up to the original payment amount. The payment row stays;
// the refund is written as a note annotation plus a typed audit event, and
// the order's amount_paid is floored at zero.
func (s PaymentService) Refund(actorID, paymentID int64, amount *float64, reason string) (models.Payment, error) {
	var out models.Payment
	err := intdb.WithTx(s.dbh(), func(tx *sql.Tx) error {
		orders := repositories.OrderRepository{DB: tx}
		payments := repositories.PaymentRepository{DB: tx}
		audit := repositories.AuditRepository{DB: tx}

		payment, err := payments.GetByID(paymentID)
		if err != nil {
			return err
		}
		order, err := orders.GetByID(payment.OrderID)
		if err != nil {
			return err
		}

		refund := payment.Amount
		if amount != nil {
			if *amount <= 0 {
				return domain.ValidationError{Field: "amount", Msg: "must be greater than 0"}
			}
			if *amount < refund {
				refund = *amount
			}
		}

		paid := order.AmountPaid - refund
		if paid < 0 {
			paid = 0
		}
		if err := orders.UpdatePaid(order.ID, paid, models.PaymentStatusFor(paid, order.TotalAmount)); err != nil {
			return err
		}

		now := s.now()
		note := "Refunded " + utils.FormatKES(refund)
		if reason != "" {
			note += " - " + reason
		}
		payment.Notes = models.AppendTimestampedNote(payment.Notes, "REFUNDED "+note, now)
		if err := payments.UpdateNotes(payment.ID, payment.Notes); err != nil {
			return err
		}

		raw, err := json.Marshal(map[string]any{
			"payment_id": payment.ID,
			"amount":     refund,
			"reason":     reason,
		})
		if err != nil {
			return err
		}
		if err := audit.Insert(&models.OrderEvent{
			OrderID:   order.ID,
			Kind:      models.EventRefunded,
			ActorID:   actorID,
			Payload:   raw,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		out = payment
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}

	utils.LogEvent(s.RequestID, "payments", "refund", fmt.Sprintf("payment_id=%d actor=%d", paymentID, actorID))
	return out, nil
}

// DailySummary groups one day's payments by method.
type DailySummary struct {
	Date           string                     `json:"date"`
	TotalCollected float64                    `json:"total_collected"`
	PaymentCount   int                        `json:"payment_count"`
	ByMethod       []repositories.MethodTotal `json:"by_method"`
}

func (s PaymentService) Daily(day time.Time) (DailySummary, error) {
	payments := repositories.PaymentRepository{DB: s.dbh()}
	rows, err := payments.DailySummary(day)
	if err != nil {
		return DailySummary{}, err
	}
	out := DailySummary{
		Date:     utils.FormatDate(day),
		ByMethod: rows,
	}
	for _, m := range rows {
		out.TotalCollected += m.Total
		out.PaymentCount += m.Count
	}
	return out, nil
}
