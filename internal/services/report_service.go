package services

import (
	"database/sql"
	"time"

	intconfig "washbay/internal/config"
	"washbay/internal/repositories"
	"washbay/internal/utils"
)

// ReportService builds the daily operations report.
type ReportService struct {
	DB        *sql.DB
	RequestID string
}

func (s ReportService) dbh() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

type DailyReport struct {
	Date              string         `json:"date"`
	OrdersByStatus    map[string]int `json:"orders_by_status"`
	OrdersTotal       int            `json:"orders_total"`
	RevenueCollected  float64        `json:"revenue_collected"`
	ServicesCompleted int            `json:"services_completed"`
}

func (s ReportService) Daily(day time.Time) (DailyReport, error) {
	reports := repositories.ReportRepository{DB: s.dbh()}

	counts, err := reports.OrderCountsOn(day)
	if err != nil {
		return DailyReport{}, err
	}
	collected, err := reports.CollectedOn(day)
	if err != nil {
		return DailyReport{}, err
	}
	completed, err := reports.ItemsCompletedOn(day)
	if err != nil {
		return DailyReport{}, err
	}

	out := DailyReport{
		Date:              utils.FormatDate(day),
		OrdersByStatus:    counts,
		RevenueCollected:  collected,
		ServicesCompleted: completed,
	}
	for _, n := range counts {
		out.OrdersTotal += n
	}
	return out, nil
}
