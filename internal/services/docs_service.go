package services

import (
	"bytes"
	"database/sql"
	"fmt"
	"strings"

	intconfig "washbay/internal/config"
	"washbay/internal/domain/models"
	"washbay/internal/repositories"
	"washbay/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders payment receipts as PDF.
type DocsService struct {
	DB        *sql.DB
	RequestID string
	Loader    func(int64) (receiptData, error)
}

type receiptData struct {
	PaymentID      int64
	OrderNumber    string
	Amount         float64
	MethodDisplay  string
	TransactionRef string
	PaidAt         string
	RecordedBy     string
	CustomerName   string
	CustomerPhone  string
	VehicleReg     string
	VehicleInfo    string
	OrderTotal     float64
	BalanceDue     float64
	PaymentStatus  string
}

func (s DocsService) dbh() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DocsService) GenerateReceipt(paymentID int64) ([]byte, string, error) {
	data, err := s.loadReceiptData(paymentID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("payment_id=%d", paymentID))
	return buildReceiptPDF(data)
}

func (s DocsService) loadReceiptData(paymentID int64) (receiptData, error) {
	if s.Loader != nil {
		return s.Loader(paymentID)
	}

	payments := repositories.PaymentRepository{DB: s.dbh()}
	orders := repositories.OrderRepository{DB: s.dbh()}
	customers := repositories.CustomerRepository{DB: s.dbh()}
	vehicles := repositories.VehicleRepository{DB: s.dbh()}
	users := repositories.UserRepository{DB: s.dbh()}

	var out receiptData
	p, err := payments.GetByID(paymentID)
	if err != nil {
		return out, err
	}
	out.PaymentID = p.ID
	out.Amount = p.Amount
	out.MethodDisplay = models.MethodDisplay(p.Method)
	out.TransactionRef = p.TransactionRef
	out.PaidAt = utils.FormatDateTime(p.CreatedAt)

	if recorder, err := users.GetByID(p.RecordedBy); err == nil {
		out.RecordedBy = recorder.FullName
	}

	order, err := orders.GetByID(p.OrderID)
	if err != nil {
		return out, err
	}
	out.OrderNumber = order.OrderNumber
	out.OrderTotal = order.TotalAmount
	out.BalanceDue = order.BalanceDue()
	out.PaymentStatus = order.PaymentStatus

	out.CustomerName = "Walk-in Customer"
	if c, err := customers.GetByID(order.CustomerID); err == nil {
		if c.Name != "" {
			out.CustomerName = c.Name
		}
		out.CustomerPhone = c.PhoneNumber
	}
	if v, err := vehicles.GetByID(order.VehicleID); err == nil {
		out.VehicleReg = v.RegistrationNumber
		out.VehicleInfo = v.DisplayName()
	}
	return out, nil
}

func buildReceiptPDF(d receiptData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payment Receipt", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYMENT RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Receipt No     : RCT-%d", d.PaymentID),
		fmt.Sprintf("Order No       : %s", safe(d.OrderNumber, "-")),
		fmt.Sprintf("Customer       : %s", safe(d.CustomerName, "-")),
		fmt.Sprintf("Phone          : %s", safe(d.CustomerPhone, "-")),
		fmt.Sprintf("Vehicle        : %s", safe(d.VehicleInfo, "-")),
		fmt.Sprintf("Paid At        : %s", safe(d.PaidAt, "-")),
		fmt.Sprintf("Method         : %s", safe(d.MethodDisplay, "-")),
		fmt.Sprintf("Reference      : %s", safe(d.TransactionRef, "-")),
		fmt.Sprintf("Amount Paid    : %s", utils.FormatKES(d.Amount)),
		fmt.Sprintf("Order Total    : %s", utils.FormatKES(d.OrderTotal)),
		fmt.Sprintf("Balance Due    : %s", utils.FormatKES(d.BalanceDue)),
		fmt.Sprintf("Payment Status : %s", safe(d.PaymentStatus, "-")),
		fmt.Sprintf("Recorded By    : %s", safe(d.RecordedBy, "-")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Thank you for your business. Keep this receipt as proof of payment.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("RECEIPT_%d_%s.pdf", d.PaymentID, safeFilenamePart(d.OrderNumber))
	return buf.Bytes(), filename, nil
}

func safe(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-")
	out := replacer.Replace(s)
	if out == "" {
		return "doc"
	}
	return out
}
