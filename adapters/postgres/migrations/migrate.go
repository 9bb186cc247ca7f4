// Package migrations applies the embedded SQL schema to PostgreSQL or SQLite.
package migrations

import (
	"context"
	"crypto/sha256"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var sqlFiles embed.FS

// Migrator handles database schema migrations
type Migrator struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *sqlx.DB, logger *zap.Logger) *Migrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Migrator{db: db, logger: logger}
}

// MigrationFile represents a migration file
type MigrationFile struct {
	Version  string
	Name     string
	Checksum string
	SQL      string
}

// Status is the applied state of one migration
type Status struct {
	Version string
	Name    string
	Applied bool
}

// Up executes all pending migrations. A previously applied migration whose
// content changed is an error.
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}
	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}
	files, err := findMigrationFiles()
	if err != nil {
		return fmt.Errorf("failed to find migration files: %w", err)
	}

	for _, file := range files {
		if sum, ok := applied[file.Version]; ok {
			if sum != file.Checksum {
				return fmt.Errorf("migration %s changed after it was applied", file.Version)
			}
			continue
		}
		if err := m.applyMigration(ctx, file); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file.Version, err)
		}
		m.logger.Info("applied migration", zap.String("version", file.Version), zap.String("name", file.Name))
	}
	return nil
}

// Status reports which migrations have been applied
func (m *Migrator) Status(ctx context.Context) ([]Status, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	files, err := findMigrationFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to find migration files: %w", err)
	}

	out := make([]Status, len(files))
	for i, file := range files {
		_, ok := applied[file.Version]
		out[i] = Status{Version: file.Version, Name: file.Name, Applied: ok}
	}
	return out, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			checksum TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// appliedMigrations maps applied versions to their checksums
func (m *Migrator) appliedMigrations(ctx context.Context) (map[string]string, error) {
	var rows []struct {
		Version  string `db:"version"`
		Checksum string `db:"checksum"`
	}
	if err := m.db.SelectContext(ctx, &rows, "SELECT version, checksum FROM schema_migrations"); err != nil {
		return nil, err
	}
	applied := make(map[string]string, len(rows))
	for _, r := range rows {
		applied[r.Version] = r.Checksum
	}
	return applied, nil
}

// findMigrationFiles lists embedded files named like 001_initial_schema.sql, by version
func findMigrationFiles() ([]MigrationFile, error) {
	entries, err := fs.ReadDir(sqlFiles, "sql")
	if err != nil {
		return nil, err
	}

	var files []MigrationFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		parts := strings.SplitN(strings.TrimSuffix(e.Name(), ".sql"), "_", 2)
		if len(parts) < 2 {
			continue
		}
		raw, err := sqlFiles.ReadFile(path.Join("sql", e.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, MigrationFile{
			Version:  parts[0],
			Name:     parts[1],
			Checksum: fmt.Sprintf("%x", sha256.Sum256(raw)),
			SQL:      string(raw),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Version < files[j].Version
	})
	return files, nil
}

// applyMigration executes a single migration in a transaction, one statement at a time
func (m *Migrator) applyMigration(ctx context.Context, file MigrationFile) error {
	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range statements(file.SQL) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration SQL: %w", err)
		}
	}

	insert := tx.Rebind("INSERT INTO schema_migrations (version, checksum) VALUES (?, ?)")
	if _, err := tx.ExecContext(ctx, insert, file.Version, file.Checksum); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}
	return tx.Commit()
}

// statements splits a migration on semicolons, dropping comment-only chunks
func statements(sql string) []string {
	var out []string
	for _, chunk := range strings.Split(sql, ";") {
		var lines []string
		for _, line := range strings.Split(chunk, "\n") {
			if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "--") {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}
