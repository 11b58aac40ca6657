package db

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Migrate applies migrations and optional seed files found in the repository.
// It creates a `schema_migrations` table to track applied migrations and applies
// any SQL files in `db/migrations/` that have not yet been recorded. The role
// catalog seed is inserted with INSERT OR IGNORE so operator edits survive.
func Migrate(ctx context.Context, d *DB, migrationFS embed.FS, seedFS embed.FS) error {
	if _, err := d.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}
	migDir := "migrations"

	entries, err := fs.ReadDir(migrationFS, migDir)
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(strings.ToLower(name), ".sql") {
			files = append(files, name)
		}
	}
	sort.Strings(files)

	for _, fname := range files {
		version := strings.TrimSuffix(fname, path.Ext(fname))

		var count int
		row := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE version = ?`, version)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("scan migration applied count: %w", err)
		}
		if count > 0 {
			continue
		}

		b, err := fs.ReadFile(migrationFS, path.Join(migDir, fname))
		if err != nil {
			return fmt.Errorf("read migration %s: %w", fname, err)
		}
		if _, err := d.Exec(ctx, string(b)); err != nil {
			return fmt.Errorf("exec migration %s: %w", fname, err)
		}

		if _, err := d.Exec(ctx, `INSERT INTO schema_migrations (version, applied) VALUES (?, strftime('%s','now'))`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", fname, err)
		}
		d.logger.Info("migration applied", "version", version)
	}

	// optional seed; a missing file is not an error
	if b, err := fs.ReadFile(seedFS, path.Join("seed", "roles.yaml")); err == nil {
		n, err := seedRoles(ctx, d, b)
		if err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}
		if n > 0 {
			d.logger.Info("roles seeded", "count", n)
		}
	}

	return nil
}

type seedRole struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	SkillsRequired  []string `yaml:"skills_required"`
	OnboardingDocs  []string `yaml:"onboarding_docs"`
	TrainingModules []string `yaml:"training_modules"`
}

func seedRoles(ctx context.Context, d *DB, raw []byte) (int64, error) {
	var doc struct {
		Roles []seedRole `yaml:"roles"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("decode roles.yaml: %w", err)
	}

	var inserted int64
	for _, r := range doc.Roles {
		if r.Name == "" {
			return inserted, fmt.Errorf("role without name in seed")
		}
		skills, _ := json.Marshal(nonNil(r.SkillsRequired))
		docs, _ := json.Marshal(nonNil(r.OnboardingDocs))
		modules, _ := json.Marshal(nonNil(r.TrainingModules))
		res, err := d.Exec(ctx, `INSERT OR IGNORE INTO roles (name, description, skills_required, onboarding_docs, training_modules, updated) VALUES (?, ?, ?, ?, ?, strftime('%s','now'))`,
			r.Name, r.Description, string(skills), string(docs), string(modules))
		if err != nil {
			return inserted, fmt.Errorf("insert role %q: %w", r.Name, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}
	return inserted, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
