package db

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/terraincognita07/freelancer-admin/internal/logging"
)

type openOptions struct {
	logger        logging.Logger
	slowThreshold time.Duration
}

type Option func(*openOptions)

// WithLogger sends gorm warnings (slow queries, SQL errors) to logger
// instead of dropping them.
func WithLogger(logger logging.Logger) Option {
	return func(options *openOptions) {
		options.logger = logger
	}
}

func WithSlowThreshold(threshold time.Duration) Option {
	return func(options *openOptions) {
		options.slowThreshold = threshold
	}
}

// OpenSQLite opens (creating if needed) the database file at dbPath and
// applies the embedded migrations.
func OpenSQLite(dbPath string, opts ...Option) (*gorm.DB, error) {
	options := openOptions{logger: logging.Discard(), slowThreshold: time.Second}
	for _, opt := range opts {
		opt(&options)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	database, err := gorm.Open(sqlite.Open(sqliteDSN(dbPath)), &gorm.Config{
		Logger: gormlogger.New(
			gormLogWriter{logger: options.logger.With("component", "gorm")},
			gormlogger.Config{
				SlowThreshold:             options.slowThreshold,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, fmt.Errorf("open sql db: %w", err)
	}
	// The request path and the calendar worker share one file; a single
	// connection serialises writers instead of surfacing SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := applyEmbeddedMigrations(database); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}

	return database, nil
}

func sqliteDSN(dbPath string) string {
	query := url.Values{}
	query.Add("_pragma", "foreign_keys(1)")
	query.Add("_pragma", "busy_timeout(5000)")
	return dbPath + "?" + query.Encode()
}

type gormLogWriter struct {
	logger logging.Logger
}

func (writer gormLogWriter) Printf(format string, args ...any) {
	writer.logger.Warn(context.Background(), fmt.Sprintf(format, args...))
}
