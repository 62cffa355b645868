package repositories

import (
	"time"

	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
)

// ReportRepository serves the daily dashboard aggregates.
type ReportRepository struct {
	DB intdb.DBTX
}

func (r ReportRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// OrderCountsOn returns order counts by status for one day.
func (r ReportRepository) OrderCountsOn(day time.Time) (map[string]int, error) {
	rows, err := r.db().Query(`
		SELECT status, COUNT(*)
		FROM service_orders
		WHERE DATE(created_at) = ?
		GROUP BY status`, day.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	return out, rows.Err()
}

// CollectedOn sums payments received on one day.
func (r ReportRepository) CollectedOn(day time.Time) (float64, error) {
	var total float64
	err := r.db().QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE DATE(created_at) = ?`, day.UTC().Format("2006-01-02")).Scan(&total)
	return total, err
}

// ItemsCompletedOn counts line items finished on one day.
func (r ReportRepository) ItemsCompletedOn(day time.Time) (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*)
		FROM order_items
		WHERE status = 'completed' AND DATE(completed_at) = ?`,
		day.UTC().Format("2006-01-02")).Scan(&n)
	return n, err
}
