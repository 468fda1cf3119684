// Package migrate applies the embedded SQL migrations to a libsql
// database. Versions are tracked in a schema_migrations table with a
// dirty flag so a crashed migration is visible on the next run.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/solacehq/solace/migrations"
)

// Migration is a single versioned migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
	DownSQL string
}

// EnsureMigrationsTable creates the schema_migrations table if needed.
func EnsureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			dirty   INTEGER NOT NULL DEFAULT 0
		)
	`)
	return err
}

// GetCurrentVersion returns the applied migration version and whether
// the last run left the schema dirty.
func GetCurrentVersion(ctx context.Context, db *sql.DB) (int, bool, error) {
	var version, dirty int

	err := db.QueryRowContext(ctx, `SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).Scan(&version, &dirty)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return version, dirty == 1, nil
}

// SetVersion records the migration version and dirty state.
func SetVersion(ctx context.Context, db *sql.DB, version int, dirty bool) error {
	dirtyInt := 0
	if dirty {
		dirtyInt = 1
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM schema_migrations`); err != nil {
		return err
	}
	if version > 0 {
		_, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`, version, dirtyInt)
		return err
	}
	return nil
}

// LoadMigrations reads the embedded migration files sorted by version.
func LoadMigrations() ([]Migration, error) {
	var result []Migration

	upPattern := regexp.MustCompile(`^(\d+)_(.+)\.up\.sql$`)

	err := fs.WalkDir(migrations.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		matches := upPattern.FindStringSubmatch(filepath.Base(path))
		if matches == nil {
			return nil
		}

		version, _ := strconv.Atoi(matches[1])
		name := matches[2]

		upSQL, err := fs.ReadFile(migrations.FS, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		downPath := fmt.Sprintf("%04d_%s.down.sql", version, name)
		downSQL, err := fs.ReadFile(migrations.FS, downPath)
		if err != nil {
			downSQL = nil
		}

		result = append(result, Migration{
			Version: version,
			Name:    name,
			UpSQL:   string(upSQL),
			DownSQL: string(downSQL),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Version < result[j].Version })
	return result, nil
}

// RunMigration executes a single migration in the given direction.
func RunMigration(ctx context.Context, db *sql.DB, m Migration, up bool) error {
	sqlContent := m.UpSQL
	targetVersion := m.Version
	if !up {
		sqlContent = m.DownSQL
		targetVersion = m.Version - 1
	}

	if err := SetVersion(ctx, db, m.Version, true); err != nil {
		return fmt.Errorf("failed to set dirty flag: %w", err)
	}

	for _, stmt := range strings.Split(sqlContent, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d_%s failed: %w", m.Version, m.Name, err)
		}
	}

	if err := SetVersion(ctx, db, targetVersion, false); err != nil {
		return fmt.Errorf("failed to clear dirty flag: %w", err)
	}
	return nil
}

// RunAll applies every pending up migration.
func RunAll(ctx context.Context, db *sql.DB) error {
	if err := EnsureMigrationsTable(ctx, db); err != nil {
		return err
	}

	current, dirty, err := GetCurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("schema is dirty at version %d; resolve manually before migrating", current)
	}

	all, err := LoadMigrations()
	if err != nil {
		return err
	}

	for _, m := range all {
		if m.Version <= current {
			continue
		}
		if err := RunMigration(ctx, db, m, true); err != nil {
			return err
		}
	}
	return nil
}
