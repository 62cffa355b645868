package handlers

import (
	"net/http"

	"washbay/internal/http/middleware"
	"washbay/internal/repositories"
	"washbay/internal/services"
	"washbay/internal/utils"

	"github.com/gin-gonic/gin"
)

func paymentService(c *gin.Context) services.PaymentService {
	return services.PaymentService{
		RequestID:       middleware.GetRequestID(c),
		OverpayLimitPct: overpayLimitPct,
	}
}

// GET /api/payments?order_id=
func GetPayments(c *gin.Context) {
	payments := repositories.PaymentRepository{}

	if c.Query("order_id") != "" {
		orderID, ok := queryID(c, "order_id")
		if !ok {
			return
		}
		out, err := payments.ListByOrder(orderID)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": out})
		return
	}

	out, err := payments.ListRecent(50)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": out})
}

// POST /api/payments
func RecordPayment(c *gin.Context) {
	var in services.RecordPaymentInput
	if !BindJSONOrError(c, &in) {
		return
	}
	svc := paymentService(c)
	payment, err := svc.Record(middleware.GetUserID(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

type refundRequest struct {
	Amount *float64 `json:"amount"`
	Reason string   `json:"reason"`
}

// POST /api/payments/:id/refund
func RefundPayment(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req refundRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}
	svc := paymentService(c)
	payment, err := svc.Refund(middleware.GetUserID(c), id, req.Amount, utils.TrimOrEmpty(req.Reason))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// GET /api/payments/:id/receipt
func PaymentReceipt(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	docs := services.DocsService{RequestID: middleware.GetRequestID(c)}
	pdfBytes, filename, err := docs.GenerateReceipt(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/payments/daily?date=YYYY-MM-DD
func DailyPayments(c *gin.Context) {
	day := utils.NowUTC()
	if q := utils.TrimOrEmpty(c.Query("date")); q != "" {
		parsed, err := utils.ParseDate(q)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
			return
		}
		day = parsed
	}
	svc := paymentService(c)
	summary, err := svc.Daily(day)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
