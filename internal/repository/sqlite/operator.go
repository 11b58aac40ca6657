package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garnizeh/offerdesk/pkg/models"
)

func (r *SQLiteRepo) GetOperator(ctx context.Context, username string) (*models.Operator, error) {
	row := r.conn.QueryRow(ctx, `SELECT id, username, password_hash, role, updated FROM operators WHERE username = ?`, username)
	var op models.Operator
	if err := row.Scan(&op.ID, &op.Username, &op.PasswordHash, &op.Role, &op.Updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &op, nil
}

// UpsertOperator creates the operator or replaces its password and role.
func (r *SQLiteRepo) UpsertOperator(ctx context.Context, op *models.Operator) error {
	if op == nil {
		return fmt.Errorf("operator is nil")
	}
	if op.Username == "" || op.PasswordHash == "" {
		return fmt.Errorf("operator username and password hash are required")
	}
	switch op.Role {
	case models.OperatorHR, models.OperatorManager:
	default:
		return fmt.Errorf("unknown operator role %q", op.Role)
	}

	ts := now()
	if _, err := r.conn.Exec(ctx, `INSERT INTO operators (username, password_hash, role, updated) VALUES (?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash, role = excluded.role, updated = excluded.updated`,
		op.Username, op.PasswordHash, op.Role, ts); err != nil {
		return fmt.Errorf("upsert operator %q: %w", op.Username, err)
	}
	if err := r.conn.QueryRow(ctx, `SELECT id FROM operators WHERE username = ?`, op.Username).Scan(&op.ID); err != nil {
		return fmt.Errorf("read back operator %q: %w", op.Username, err)
	}
	op.Updated = ts
	return nil
}
