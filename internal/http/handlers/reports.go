package handlers

import (
	"net/http"

	"washbay/internal/http/middleware"
	"washbay/internal/services"
	"washbay/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/reports/daily?date=YYYY-MM-DD
func DailyReport(c *gin.Context) {
	day := utils.NowUTC()
	if q := utils.TrimOrEmpty(c.Query("date")); q != "" {
		parsed, err := utils.ParseDate(q)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
			return
		}
		day = parsed
	}

	svc := services.ReportService{RequestID: middleware.GetRequestID(c)}
	report, err := svc.Daily(day)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}
