package repositories

import (
	intconfig "washbay/internal/config"
	intdb "washbay/internal/db"
	"washbay/internal/domain/models"
)

type AuditRepository struct {
	DB intdb.DBTX
}

func (r AuditRepository) db() intdb.DBTX {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r AuditRepository) Insert(ev *models.OrderEvent) error {
	res, err := r.db().Exec(`
		INSERT INTO order_events (order_id, kind, actor_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		ev.OrderID, ev.Kind, ev.ActorID, []byte(ev.Payload), ev.CreatedAt)
	if err != nil {
		return err
	}
	ev.ID, err = res.LastInsertId()
	return err
}

func (r AuditRepository) ListByOrder(orderID int64) ([]models.OrderEvent, error) {
	rows, err := r.db().Query(`
		SELECT id, order_id, kind, actor_id, COALESCE(payload,''), created_at
		FROM order_events
		WHERE order_id=?
		ORDER BY id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.OrderEvent{}
	for rows.Next() {
		var (
			ev  models.OrderEvent
			raw []byte
		)
		if err := rows.Scan(&ev.ID, &ev.OrderID, &ev.Kind, &ev.ActorID, &raw, &ev.CreatedAt); err != nil {
			return nil, err
		}
		ev.Payload = raw
		out = append(out, ev)
	}
	return out, rows.Err()
}
