package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garnizeh/offerdesk/pkg/models"
)

func (r *SQLiteRepo) GetRole(ctx context.Context, name string) (*models.Role, error) {
	row := r.conn.QueryRow(ctx, `SELECT name, description, skills_required, onboarding_docs, training_modules, updated FROM roles WHERE name = ?`, name)
	role, err := scanRole(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return role, nil
}

func (r *SQLiteRepo) UpsertRole(ctx context.Context, role *models.Role) error {
	if role == nil {
		return fmt.Errorf("role is nil")
	}
	if role.Name == "" {
		return fmt.Errorf("role name is required")
	}
	skills, err := encodeList(role.SkillsRequired)
	if err != nil {
		return err
	}
	docs, err := encodeList(role.OnboardingDocs)
	if err != nil {
		return err
	}
	modules, err := encodeList(role.TrainingModules)
	if err != nil {
		return err
	}

	ts := now()
	if _, err := r.conn.Exec(ctx, `INSERT INTO roles (name, description, skills_required, onboarding_docs, training_modules, updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			skills_required = excluded.skills_required,
			onboarding_docs = excluded.onboarding_docs,
			training_modules = excluded.training_modules,
			updated = excluded.updated`,
		role.Name, role.Description, skills, docs, modules, ts); err != nil {
		return fmt.Errorf("upsert role %q: %w", role.Name, err)
	}
	role.Updated = fromMillis(ts)
	return nil
}

func (r *SQLiteRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT name, description, skills_required, onboarding_docs, training_modules, updated FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *role)
	}
	return out, rows.Err()
}

func scanRole(s rowScanner) (*models.Role, error) {
	var (
		role                  models.Role
		desc                  sql.NullString
		skills, docs, modules string
		updated               int64
	)
	if err := s.Scan(&role.Name, &desc, &skills, &docs, &modules, &updated); err != nil {
		return nil, err
	}
	role.Description = desc.String
	if err := json.Unmarshal([]byte(skills), &role.SkillsRequired); err != nil {
		return nil, fmt.Errorf("role %q skills_required: %w", role.Name, err)
	}
	if err := json.Unmarshal([]byte(docs), &role.OnboardingDocs); err != nil {
		return nil, fmt.Errorf("role %q onboarding_docs: %w", role.Name, err)
	}
	if err := json.Unmarshal([]byte(modules), &role.TrainingModules); err != nil {
		return nil, fmt.Errorf("role %q training_modules: %w", role.Name, err)
	}
	role.Updated = updatedTime(updated)
	return &role, nil
}

// seeded rows carry seconds, rows written by the repo carry milliseconds
func updatedTime(v int64) time.Time {
	if v < 1e11 {
		return time.Unix(v, 0).UTC()
	}
	return fromMillis(v)
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}
