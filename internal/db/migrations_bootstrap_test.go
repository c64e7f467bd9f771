package db

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	embeddedmigrations "github.com/terraincognita07/freelancer-admin/migrations"
)

func TestOpenSQLiteAppliesEmbeddedMigrationsOnCleanDatabase(t *testing.T) {
	database := openSQLiteForMigrationBootstrapTest(t, filepath.Join(t.TempDir(), "clean.db"))

	assertTableHasColumns(t, database, "settings", "gcal_enabled", "gcal_calendar_id", "currency_code", "login_password_hash")
	assertTableHasColumns(t, database, "role", "rate_sek", "vat_percent", "active")
	assertTableHasColumns(t, database, "job", "start_dt", "end_dt", "gcal_event_id")
	assertTableHasColumns(t, database, "calendar_intents", "payload", "attempts", "last_error")
	assertAllEmbeddedMigrationsApplied(t, database)
}

func TestOpenSQLiteUpgradesLegacySchema(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "legacy.db")
	seedLegacySchema(t, databasePath)

	database := openSQLiteForMigrationBootstrapTest(t, databasePath)

	assertTableHasColumns(t, database, "settings", "gcal_enabled", "gcal_calendar_id", "favicon_url", "currency_code", "login_password_hash")
	assertTableHasColumns(t, database, "role", "vat_percent")
	assertTableHasColumns(t, database, "invoice_status", "invoice_number")
	assertAllEmbeddedMigrationsApplied(t, database)

	var role struct {
		Name       string `gorm:"column:name"`
		VATPercent int    `gorm:"column:vat_percent"`
	}
	if err := database.Table("role").Select("name", "vat_percent").Where("name = ?", "Legacy").First(&role).Error; err != nil {
		t.Fatalf("load legacy role: %v", err)
	}
	if role.VATPercent != 25 {
		t.Fatalf("expected legacy role vat_percent default 25, got %d", role.VATPercent)
	}

	repos := NewRepositories(database)
	settings, err := repos.Settings.Get()
	if err != nil {
		t.Fatalf("load legacy settings: %v", err)
	}
	if settings.NetRatePercent != 65 {
		t.Fatalf("expected legacy net rate 65 to survive, got %v", settings.NetRatePercent)
	}
	if settings.CurrencyCode != "SEK" {
		t.Fatalf("expected currency_code default SEK, got %q", settings.CurrencyCode)
	}
}

func TestOpenSQLiteMigrationBootstrapIsIdempotent(t *testing.T) {
	databasePath := filepath.Join(t.TempDir(), "idempotent.db")

	firstOpen, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("first open sqlite: %v", err)
	}
	firstRecords := loadMigrationRecords(t, firstOpen)

	firstSQLDB, err := firstOpen.DB()
	if err != nil {
		t.Fatalf("first open sql db: %v", err)
	}
	if err := firstSQLDB.Close(); err != nil {
		t.Fatalf("close first sql db: %v", err)
	}

	secondOpen := openSQLiteForMigrationBootstrapTest(t, databasePath)
	secondRecords := loadMigrationRecords(t, secondOpen)

	if !reflect.DeepEqual(firstRecords, secondRecords) {
		t.Fatalf("expected migration records to remain unchanged between boots, before=%v after=%v", firstRecords, secondRecords)
	}
}

func TestSplitSQLStatements(t *testing.T) {
	statements := splitSQLStatements("CREATE TABLE a (id INTEGER);\n\n  ;ALTER TABLE a ADD COLUMN b TEXT;")
	want := []string{"CREATE TABLE a (id INTEGER)", "ALTER TABLE a ADD COLUMN b TEXT"}
	if !reflect.DeepEqual(statements, want) {
		t.Fatalf("splitSQLStatements() = %#v, want %#v", statements, want)
	}
}

func openSQLiteForMigrationBootstrapTest(t *testing.T, databasePath string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(databasePath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open sql db: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database
}

// seedLegacySchema writes the table layout produced by the first release,
// before calendar sync, invoice numbers and per-role VAT existed.
func seedLegacySchema(t *testing.T, databasePath string) {
	t.Helper()

	dsn := sqliteDSN(databasePath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open legacy sqlite: %v", err)
	}

	statements := []string{
		`CREATE TABLE settings (id INTEGER PRIMARY KEY, company_logo_url VARCHAR(500), night_start_hour INTEGER, night_end_hour INTEGER, google_calendar_embed_url VARCHAR(800), net_rate_percent FLOAT, login_enabled BOOLEAN, login_password VARCHAR(200))`,
		`CREATE TABLE client (id INTEGER PRIMARY KEY, name VARCHAR(200) NOT NULL, default_vat_percent INTEGER, logo_url VARCHAR(500))`,
		`CREATE TABLE role (id INTEGER PRIMARY KEY, client_id INTEGER NOT NULL, name VARCHAR(200) NOT NULL, mode VARCHAR(20) NOT NULL, rate_sek FLOAT NOT NULL, active BOOLEAN)`,
		`CREATE TABLE job (id INTEGER PRIMARY KEY, client_id INTEGER NOT NULL, role_id INTEGER NOT NULL, start_dt DATETIME NOT NULL, end_dt DATETIME NOT NULL, vat_percent INTEGER, detail VARCHAR(200), gcal_event_id VARCHAR(256))`,
		`CREATE TABLE invoice_status (id INTEGER PRIMARY KEY, client_id INTEGER NOT NULL, year INTEGER NOT NULL, month INTEGER NOT NULL, sent BOOLEAN, paid BOOLEAN)`,
		`CREATE TABLE holiday (id INTEGER PRIMARY KEY, date DATE NOT NULL UNIQUE, name VARCHAR(120) NOT NULL, surcharge_text VARCHAR(120))`,
		`INSERT INTO settings (id, night_start_hour, night_end_hour, net_rate_percent, login_enabled) VALUES (1, 0, 8, 65.0, 0)`,
		`INSERT INTO client (id, name, default_vat_percent) VALUES (1, 'Legacy Client', 25)`,
		`INSERT INTO role (id, client_id, name, mode, rate_sek, active) VALUES (1, 1, 'Legacy', 'hourly', 500, 1)`,
	}
	for _, statement := range statements {
		if err := database.Exec(statement).Error; err != nil {
			t.Fatalf("seed legacy schema %q: %v", statement, err)
		}
	}

	if database.Migrator().HasTable("schema_migrations") {
		t.Fatal("expected legacy schema to not have schema_migrations table")
	}

	sqlDB, err := database.DB()
	if err != nil {
		t.Fatalf("open legacy sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("close legacy sql db: %v", err)
	}
}

func assertTableHasColumns(t *testing.T, database *gorm.DB, table string, columns ...string) {
	t.Helper()

	for _, column := range columns {
		exists, err := tableColumnExists(database, table, column)
		if err != nil {
			t.Fatalf("inspect %s.%s: %v", table, column, err)
		}
		if !exists {
			t.Fatalf("expected column %s.%s to exist", table, column)
		}
	}
}

func assertAllEmbeddedMigrationsApplied(t *testing.T, database *gorm.DB) {
	t.Helper()

	migrations, err := loadEmbeddedMigrations(embeddedmigrations.Files)
	if err != nil {
		t.Fatalf("load embedded migrations: %v", err)
	}
	applied, err := loadAppliedMigrationVersions(database)
	if err != nil {
		t.Fatalf("load applied versions: %v", err)
	}
	for _, migration := range migrations {
		if _, ok := applied[migration.Version]; !ok {
			t.Fatalf("expected migration %s to be applied", migration.Name)
		}
	}
}

type migrationRecord struct {
	Version string `gorm:"column:version"`
	Name    string `gorm:"column:name"`
}

func loadMigrationRecords(t *testing.T, database *gorm.DB) []migrationRecord {
	t.Helper()

	records := make([]migrationRecord, 0)
	if err := database.Raw(`SELECT version, name FROM schema_migrations ORDER BY version ASC`).Scan(&records).Error; err != nil {
		t.Fatalf("load migration records: %v", err)
	}
	return records
}
