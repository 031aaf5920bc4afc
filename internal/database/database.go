package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"college/internal/config"
)

// Driver names reported by DB.Driver.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// ErrNotFound is returned when a record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// DB wraps the gorm connection with application-specific methods.
type DB struct {
	*gorm.DB
	driver string
}

// New opens the configured relational store.
// DATABASE_URL selects Postgres or MySQL; when it is empty the embedded SQLite file is used.
func New(cfg *config.DatabaseConfig, logger *zap.Logger) (*DB, error) {
	dialector, driver, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:  newGormLogger(logger),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sql db: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: gdb, driver: driver}, nil
}

// Wrap adapts an already opened gorm handle.
func Wrap(gdb *gorm.DB, driver string) *DB {
	return &DB{DB: gdb, driver: driver}
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, string, error) {
	raw := strings.TrimSpace(cfg.URL)

	switch {
	case raw == "":
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, "", fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		dsn := cfg.SQLitePath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_foreign_keys=true"
		return sqlite.Open(dsn), DriverSQLite, nil

	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return postgres.New(postgres.Config{
			DSN:                  raw,
			PreferSimpleProtocol: true,
		}), DriverPostgres, nil

	case strings.HasPrefix(raw, "mysql://"):
		dsn, err := MySQLDSN(raw)
		if err != nil {
			return nil, "", err
		}
		return mysql.New(mysql.Config{
			DSN:               dsn,
			DefaultStringSize: 191,
		}), DriverMySQL, nil
	}

	return nil, "", fmt.Errorf("unsupported DATABASE_URL scheme in %q", redact(raw))
}

// MySQLDSN converts a mysql:// URL into a go-sql-driver DSN.
func MySQLDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid mysql url: %w", err)
	}
	if u.Host == "" {
		return "", errors.New("invalid mysql url: missing host")
	}

	host := u.Host
	if u.Port() == "" {
		host += ":3306"
	}

	query := u.Query()
	if query.Get("parseTime") == "" {
		query.Set("parseTime", "true")
	}
	if query.Get("charset") == "" {
		query.Set("charset", "utf8mb4")
	}

	var creds string
	if u.User != nil {
		creds = u.User.Username()
		if pw, ok := u.User.Password(); ok {
			creds += ":" + pw
		}
		creds += "@"
	}

	return fmt.Sprintf("%stcp(%s)/%s?%s", creds, host, strings.TrimPrefix(u.Path, "/"), query.Encode()), nil
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

// Driver returns the name of the active SQL dialect.
func (db *DB) Driver() string {
	return db.driver
}

// IsEmbedded reports whether the process runs on the local SQLite fallback.
func (db *DB) IsEmbedded() bool {
	return db.driver == DriverSQLite
}

// StorageLabel describes the store for the admin dashboard.
func (db *DB) StorageLabel() string {
	switch db.driver {
	case DriverPostgres:
		return "PostgreSQL (permanent)"
	case DriverMySQL:
		return "MySQL (permanent)"
	default:
		return "SQLite (local file, set DATABASE_URL for permanent storage)"
	}
}

// Close closes the database connection.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Transaction runs fn as one unit of work. The transaction is rolled back when fn
// returns an error or panics, and committed otherwise.
func (db *DB) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// HealthCheck verifies the database is accessible.
func (db *DB) HealthCheck(ctx context.Context) error {
	var result int
	if err := db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
