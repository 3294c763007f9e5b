// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping (driver
// selection, SQLite PRAGMAs, pool tuning, bounded reconnect), table
// bootstrap, and the transaction helper every service call runs through.
package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/claims-backend/internal/config"
	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/observability"
)

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string, gcfg *gorm.Config) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	if gcfg == nil {
		gcfg = &gorm.Config{}
	}

	db, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	return db, nil
}

// Open builds a *gorm.DB for the configured driver, installs the tracing
// plugin and tunes the pool. It does not retry; see Connect.
func Open(cfg config.DBConfig) (*gorm.DB, error) {
	mode := logger.Silent
	if cfg.Debug {
		mode = logger.Info
	}
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(mode),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case DriverSQLite, "":
		db, err = OpenSQLite(cfg.Path, gcfg)
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(cfg.URL), gcfg)
	case DriverMySQL:
		db, err = gorm.Open(mysql.Open(cfg.URL), gcfg)
	default:
		return nil, errors.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.Driver)
	}

	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, errors.Wrap(err, "install tracing plugin")
	}

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		maxOpen := cfg.MaxOpenConns
		if maxOpen < 1 {
			maxOpen = 10
		}
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(maxOpen)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// Connect opens the database and pings it, retrying up to cfg.Retries times
// with a backoff that doubles after every failed attempt.
func Connect(ctx context.Context, cfg config.DBConfig) (*gorm.DB, error) {
	attempts := cfg.Retries
	if attempts < 1 {
		attempts = 1
	}
	wait := cfg.RetryBackoff

	var lastErr error
	for i := 1; i <= attempts; i++ {
		db, err := Open(cfg)
		if err == nil {
			if err = Ping(ctx, db); err == nil {
				return db, nil
			}
			Close(db)
		}
		lastErr = err
		if i == attempts {
			break
		}
		observability.DBRetries.WithLabelValues("connect").Inc()
		log.Warn().Err(err).Int("attempt", i).Dur("backoff", wait).Str("driver", cfg.Driver).Msg("db connect failed; retrying")
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
		wait *= 2
	}
	return nil, errors.Wrapf(lastErr, "connect %s after %d attempts", cfg.Driver, attempts)
}

// Ping checks that the underlying connection pool can reach the database.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool. Errors are logged, not returned.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Warn().Err(err).Msg("db close")
		}
	}
}

// AutoMigrate creates missing tables and indexes for every model.
func AutoMigrate(db *gorm.DB) error {
	models := []any{
		&domain.Claim{},
		&domain.ClaimDocuments{},
		&domain.User{},
		&domain.Idempotency{},
	}
	return db.AutoMigrate(append(models, domain.FormModels()...)...)
}

// RetryPolicy bounds how often Atomic retries acquiring a transaction.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetry is 3 attempts starting at 200ms.
var DefaultRetry = RetryPolicy{Attempts: 3, Backoff: 200 * time.Millisecond}

// Atomic runs fn inside one transaction. It commits when fn returns nil and
// rolls back on error or panic (the panic is re-raised). Only Begin is
// retried, and only on transient connection errors, so a statement is never
// executed twice.
func Atomic(ctx context.Context, db *gorm.DB, rp RetryPolicy, fn func(tx *gorm.DB) error) error {
	tx, err := begin(ctx, db, rp)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rerr := tx.Rollback().Error; rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			log.Error().Err(rerr).Msg("rollback failed")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "commit")
	}
	committed = true
	return nil
}

func begin(ctx context.Context, db *gorm.DB, rp RetryPolicy) (*gorm.DB, error) {
	attempts := rp.Attempts
	if attempts < 1 {
		attempts = 1
	}
	wait := rp.Backoff
	for i := 1; ; i++ {
		tx := db.WithContext(ctx).Begin()
		if tx.Error == nil {
			return tx, nil
		}
		if i >= attempts || !IsTransient(tx.Error) {
			return nil, errors.Wrap(tx.Error, "begin transaction")
		}
		observability.DBRetries.WithLabelValues("begin").Inc()
		log.Ctx(ctx).Warn().Err(tx.Error).Int("attempt", i).Msg("begin failed; retrying")
		if err := sleepCtx(ctx, wait); err != nil {
			return nil, err
		}
		wait *= 2
	}
}

// IsTransient reports whether err looks like a lost or refused connection.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	low := strings.ToLower(err.Error())
	for _, s := range []string{"connection reset", "connection refused", "broken pipe", "bad connection", "database is locked"} {
		if strings.Contains(low, s) {
			return true
		}
	}
	return false
}

// IsDuplicate reports whether err is a unique-constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key value") ||
		strings.Contains(low, "duplicate entry")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
