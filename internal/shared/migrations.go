package shared

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

//go:embed sql
var migrationFiles embed.FS

// Schema names a set of migrations under sql/<schema>.
type Schema string

const (
	// SessionSchema backs the client-side session store.
	SessionSchema Schema = "session"
	// SandboxSchema backs the local gateway used for development.
	SandboxSchema Schema = "sandbox"
)

var migrationName = regexp.MustCompile(`^(\d{4})_([a-z0-9_]+)_(up|down)\.sql$`)

// Migration represents a database migration with up and down SQL.
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// loadMigrations reads the migration files for schema and returns them sorted by version.
func loadMigrations(schema Schema) ([]Migration, error) {
	dir := path.Join("sql", string(schema))
	entries, err := fs.ReadDir(migrationFiles, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown schema %q", ErrInvalidArgument, schema)
	}

	byVersion := make(map[int]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		m := migrationName.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		version, _ := strconv.Atoi(m[1])
		content, err := migrationFiles.ReadFile(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		mig, ok := byVersion[version]
		if !ok {
			mig = &Migration{Version: version, Name: m[2]}
			byVersion[version] = mig
		}

		switch m[3] {
		case "up":
			mig.Up = string(content)
		case "down":
			mig.Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, mig := range byVersion {
		if mig.Up == "" || mig.Down == "" {
			return nil, fmt.Errorf("incomplete migration for %s version %d", schema, mig.Version)
		}
		migrations = append(migrations, *mig)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

// RunMigrations applies every pending migration of schema.
// Applied versions are tracked per schema in the schema_migrations table.
func RunMigrations(db *sql.DB, schema Schema) error {
	migrations, err := loadMigrations(schema)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if err := createMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, mig := range migrations {
		var exists bool
		err := db.QueryRow(
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE schema_name = ? AND version = ?)",
			string(schema), mig.Version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if exists {
			continue
		}

		if err := execMigration(db, schema, mig.Version, mig.Up, true); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", mig.Version, mig.Name, err)
		}
	}
	return nil
}

// RollbackMigration rolls back the most recently applied migration of schema.
func RollbackMigration(db *sql.DB, schema Schema) error {
	migrations, err := loadMigrations(schema)
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	var current sql.NullInt64
	err = db.QueryRow(
		"SELECT MAX(version) FROM schema_migrations WHERE schema_name = ?", string(schema),
	).Scan(&current)
	if err != nil {
		return fmt.Errorf("failed to check migrations: %w", err)
	}
	if !current.Valid {
		return fmt.Errorf("no %s migrations to rollback", schema)
	}

	for _, mig := range migrations {
		if mig.Version == int(current.Int64) {
			if err := execMigration(db, schema, mig.Version, mig.Down, false); err != nil {
				return fmt.Errorf("failed to rollback migration %d (%s): %w", mig.Version, mig.Name, err)
			}
			return nil
		}
	}
	return fmt.Errorf("migration version %d not found", current.Int64)
}

// AppliedVersions lists the applied migration versions of schema in order.
func AppliedVersions(db *sql.DB, schema Schema) ([]int, error) {
	rows, err := db.Query(
		"SELECT version FROM schema_migrations WHERE schema_name = ? ORDER BY version", string(schema),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func createMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			schema_name TEXT NOT NULL,
			version INTEGER NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (schema_name, version)
		)
	`)
	return err
}

// execMigration runs body statement by statement inside one transaction and records
// (up) or forgets (down) the version.
func execMigration(db *sql.DB, schema Schema, version int, body string, up bool) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(body) {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}

	record := "DELETE FROM schema_migrations WHERE schema_name = ? AND version = ?"
	if up {
		record = "INSERT INTO schema_migrations (schema_name, version) VALUES (?, ?)"
	}
	if _, err := tx.Exec(record, string(schema), version); err != nil {
		return err
	}
	return tx.Commit()
}

// splitStatements strips line comments and splits body on semicolons.
func splitStatements(body string) []string {
	var lines []string
	for line := range strings.SplitSeq(body, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	var stmts []string
	for stmt := range strings.SplitSeq(strings.Join(lines, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
