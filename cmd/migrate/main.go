// Command migrate applies the versioned SQL files in migrations/ to a
// postgres database, or rolls back the newest one with -rollback.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/lib/pq"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/log"
)

const rollbackSuffix = "_rollback.sql"

// migration is one VERSION_NAME.sql file and its optional rollback
type migration struct {
	Version  string
	Name     string
	Path     string
	Rollback string
}

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "migrations", "Directory holding the migration files")
	flag.Parse()

	ctx := context.Background()
	if err := run(ctx, *dir, *rollback); err != nil {
		log.Error(ctx, "migration failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dir string, rollback bool) error {
	dsn, err := databaseURL()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	migrations, err := loadMigrations(dir)
	if err != nil {
		return err
	}
	if err := ensureSchemaTable(ctx, db); err != nil {
		return err
	}

	if rollback {
		return rollbackLast(ctx, db, migrations)
	}
	return applyAll(ctx, db, migrations)
}

// databaseURL prefers DATABASE_URL and falls back to the DB_* settings
func databaseURL() (string, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn, nil
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.DBType != "postgres" {
		return "", fmt.Errorf("SQL migrations target postgres, DB_TYPE is %q", cfg.DBType)
	}
	if cfg.DBDSN != "" {
		return cfg.DBDSN, nil
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode), nil
}

// loadMigrations lists the forward migrations of dir in version order
func loadMigrations(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}

	var out []migration
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".sql" || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}
		version, _, ok := strings.Cut(name, "_")
		if !ok || version == "" {
			return nil, fmt.Errorf("migration %s: expected VERSION_NAME.sql", name)
		}
		m := migration{Version: version, Name: name, Path: filepath.Join(dir, name)}
		if rb := strings.TrimSuffix(name, ".sql") + rollbackSuffix; names[rb] {
			m.Rollback = filepath.Join(dir, rb)
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })

	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %s", out[i].Version)
		}
	}
	return out, nil
}

func ensureSchemaTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(32) PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}
	return nil
}

func applyAll(ctx context.Context, db *sql.DB, migrations []migration) error {
	for _, m := range migrations {
		var applied bool
		err := db.QueryRowContext(ctx,
			"SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", m.Version).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if applied {
			log.Info(ctx, "migration already applied", "name", m.Name)
			continue
		}

		err = execFile(ctx, db, m.Path, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.Version, m.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.Name, err)
		}
		log.Info(ctx, "applied migration", "name", m.Name)
	}
	log.Info(ctx, "all migrations applied")
	return nil
}

func rollbackLast(ctx context.Context, db *sql.DB, migrations []migration) error {
	var version string
	err := db.QueryRowContext(ctx,
		"SELECT version FROM schema_migrations ORDER BY version DESC LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("no migrations to rollback")
	}
	if err != nil {
		return fmt.Errorf("failed to get last migration: %w", err)
	}

	var target *migration
	for i := range migrations {
		if migrations[i].Version == version {
			target = &migrations[i]
		}
	}
	if target == nil || target.Rollback == "" {
		return fmt.Errorf("rollback file not found for version %s", version)
	}

	err = execFile(ctx, db, target.Rollback, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version = $1", version)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to roll back %s: %w", target.Name, err)
	}
	log.Info(ctx, "rolled back migration", "name", target.Name)
	return nil
}

// execFile runs one SQL file and the bookkeeping statement in a transaction
func execFile(ctx context.Context, db *sql.DB, path string, record func(*sql.Tx) error) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		tx.Rollback()
		return err
	}
	if err := record(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
