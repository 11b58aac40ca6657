package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/offerdesk/pkg/models"
)

func (r *SQLiteRepo) RecordNotification(ctx context.Context, n *models.Notification) error {
	if n == nil {
		return fmt.Errorf("notification is nil")
	}
	created := now()
	if !n.Created.IsZero() {
		created = n.Created.UTC().UnixMilli()
	}
	if _, err := r.conn.Exec(ctx, `INSERT INTO notifications (id, offer_id, recipient, subject, priority, kind, status, error, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, nullString(n.OfferID), n.Recipient, n.Subject, n.Priority, n.Kind, n.Status, nullString(n.Error), created); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}

// ListNotifications returns the most recent dispatch history first.
func (r *SQLiteRepo) ListNotifications(ctx context.Context, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.conn.QueryRows(ctx, `SELECT id, offer_id, recipient, subject, priority, kind, status, error, created FROM notifications ORDER BY created DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		var (
			n             models.Notification
			offerID, nerr sql.NullString
			created       int64
		)
		if err := rows.Scan(&n.ID, &offerID, &n.Recipient, &n.Subject, &n.Priority, &n.Kind, &n.Status, &nerr, &created); err != nil {
			return nil, err
		}
		n.OfferID = offerID.String
		n.Error = nerr.String
		n.Created = fromMillis(created)
		out = append(out, n)
	}
	return out, rows.Err()
}
