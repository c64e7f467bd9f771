package db

import (
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"gorm.io/gorm"

	embeddedmigrations "github.com/terraincognita07/freelancer-admin/migrations"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_[a-z0-9_]+\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(\S+)\s+ADD\s+COLUMN\s+(\S+)`)
)

const schemaMigrationsDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

type embeddedMigration struct {
	Version string
	Order   int
	Name    string
	SQL     string
}

// migrator applies numbered SQL files in order. Databases written by the
// earlier self-upgrading release already carry some of the added columns,
// so an ADD COLUMN for a column that exists is a no-op.
type migrator struct {
	database *gorm.DB
	files    fs.FS
}

func applyEmbeddedMigrations(database *gorm.DB) error {
	return migrator{database: database, files: embeddedmigrations.Files}.run()
}

func (m migrator) run() error {
	if err := m.database.Exec(schemaMigrationsDDL).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	pending, err := m.pending()
	if err != nil {
		return err
	}
	for _, migration := range pending {
		if err := m.database.Transaction(func(tx *gorm.DB) error {
			return applyMigration(tx, migration)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (m migrator) pending() ([]embeddedMigration, error) {
	all, err := loadEmbeddedMigrations(m.files)
	if err != nil {
		return nil, err
	}
	applied, err := loadAppliedMigrationVersions(m.database)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(migration embeddedMigration) bool {
		_, done := applied[migration.Version]
		return done
	}), nil
}

func loadEmbeddedMigrations(files fs.FS) ([]embeddedMigration, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list embedded migrations: %w", err)
	}

	byVersion := make(map[string]string, len(names))
	migrations := make([]embeddedMigration, 0, len(names))
	for _, name := range names {
		match := migrationNamePattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		version := match[1]
		if previous, ok := byVersion[version]; ok {
			return nil, fmt.Errorf("migration version %s used by both %s and %s", version, previous, name)
		}
		byVersion[version] = name

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		body, err := fs.ReadFile(files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, embeddedMigration{Version: version, Order: order, Name: name, SQL: string(body)})
	}

	slices.SortFunc(migrations, func(a, b embeddedMigration) int {
		return a.Order - b.Order
	})
	return migrations, nil
}

func loadAppliedMigrationVersions(database *gorm.DB) (map[string]struct{}, error) {
	var versions []string
	if err := database.Raw(`SELECT version FROM schema_migrations`).Scan(&versions).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}
	applied := make(map[string]struct{}, len(versions))
	for _, version := range versions {
		applied[version] = struct{}{}
	}
	return applied, nil
}

func applyMigration(tx *gorm.DB, migration embeddedMigration) error {
	statements := splitSQLStatements(migration.SQL)
	if len(statements) == 0 {
		return fmt.Errorf("migration %s is empty", migration.Name)
	}

	for _, statement := range statements {
		if table, column, ok := addedColumn(statement); ok {
			exists, err := tableColumnExists(tx, table, column)
			if err != nil {
				return fmt.Errorf("migration %s: %w", migration.Name, err)
			}
			if exists {
				continue
			}
		}
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("migration %s: exec %q: %w", migration.Name, statement, err)
		}
	}

	if err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`, migration.Version, migration.Name).Error; err != nil {
		return fmt.Errorf("record migration %s: %w", migration.Name, err)
	}
	return nil
}

func splitSQLStatements(sqlText string) []string {
	var statements []string
	for part := range strings.SplitSeq(sqlText, ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

func addedColumn(statement string) (table string, column string, ok bool) {
	match := addColumnPattern.FindStringSubmatch(statement)
	if match == nil {
		return "", "", false
	}
	return unquoteIdentifier(match[1]), unquoteIdentifier(match[2]), true
}

type tableColumn struct {
	Name string `gorm:"column:name"`
}

func tableColumnExists(database *gorm.DB, table string, column string) (bool, error) {
	var columns []tableColumn
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(table, `"`, `""`))
	if err := database.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("table_info %s: %w", table, err)
	}
	return slices.ContainsFunc(columns, func(c tableColumn) bool {
		return strings.EqualFold(c.Name, column)
	}), nil
}

func unquoteIdentifier(identifier string) string {
	return strings.Trim(strings.TrimSpace(identifier), "\"`[]")
}
