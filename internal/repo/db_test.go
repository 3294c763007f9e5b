package repo

import (
	"context"
	"database/sql/driver"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/tbourn/claims-backend/internal/config"
	"github.com/tbourn/claims-backend/internal/domain"
)

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	base := t.TempDir()
	bad := filepath.Join(base, "does-not-exist", "app.db")

	db, err := OpenSQLite(bad, nil)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}

	// Be tolerant across platforms/drivers:
	// - Windows: *os.PathError ("CreateFile: cannot find the file specified")
	// - SQLite:  "unable to open database file" / "out of memory (14)"
	// - Unix:    "no such file or directory"
	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "out of memory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestOpenSQLite_SetsPragmas(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.db")

	db, err := OpenSQLite(path, nil)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { Close(db) })

	var (
		journalMode string
		syncVal     int
		fkOn        int
		busyMS      int
	)
	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journalMode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if strings.ToLower(journalMode) != "wal" {
		t.Fatalf("expected journal_mode=wal, got %q", journalMode)
	}
	if err := db.Raw("PRAGMA synchronous;").Row().Scan(&syncVal); err != nil {
		t.Fatalf("PRAGMA synchronous: %v", err)
	}
	// NORMAL == 1
	if syncVal != 1 {
		t.Fatalf("expected synchronous=1 (NORMAL), got %d", syncVal)
	}
	if err := db.Raw("PRAGMA foreign_keys;").Row().Scan(&fkOn); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fkOn != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fkOn)
	}
	if err := db.Raw("PRAGMA busy_timeout;").Row().Scan(&busyMS); err != nil {
		t.Fatalf("PRAGMA busy_timeout: %v", err)
	}
	if busyMS != 5000 {
		t.Fatalf("expected busy_timeout=5000, got %d", busyMS)
	}
}

func TestOpen_SQLite_Pool_AndAutoMigrate(t *testing.T) {
	cfg := config.DBConfig{
		Driver:       DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "claims.db"),
		MaxOpenConns: 4,
	}
	db, err := Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { Close(db) })

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	if stats := sqlDB.Stats(); stats.MaxOpenConnections != 4 {
		t.Fatalf("expected MaxOpenConnections=4, got %d", stats.MaxOpenConnections)
	}

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	m := db.Migrator()
	tables := append([]any{&domain.Claim{}, &domain.ClaimDocuments{}, &domain.User{}, &domain.Idempotency{}}, domain.FormModels()...)
	for _, tbl := range tables {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open(config.DBConfig{Driver: "oracle"}); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported driver error, got %v", err)
	}
}

func TestConnect_GivesUpAfterRetries(t *testing.T) {
	cfg := config.DBConfig{
		Driver:       DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "missing-dir", "claims.db"),
		Retries:      2,
		RetryBackoff: time.Millisecond,
	}
	db, err := Connect(context.Background(), cfg)
	if err == nil || db != nil {
		t.Fatalf("expected failure, got db=%v err=%v", db, err)
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConnect_StopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := config.DBConfig{
		Driver:       DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "missing-dir", "claims.db"),
		Retries:      5,
		RetryBackoff: time.Hour,
	}
	if _, err := Connect(ctx, cfg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestConnect_Success(t *testing.T) {
	cfg := config.DBConfig{
		Driver:  DriverSQLite,
		Path:    filepath.Join(t.TempDir(), "claims.db"),
		Retries: 1,
	}
	db, err := Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer Close(db)
	if err := Ping(context.Background(), db); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func seedClaim(id string) *domain.Claim {
	return &domain.Claim{ClaimID: id, ClaimantName: "Ann", ClaimType: "accident"}
}

func TestAtomic_CommitsOnSuccess(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	err := Atomic(ctx, db, DefaultRetry, func(tx *gorm.DB) error {
		return CreateClaim(ctx, tx, seedClaim("c1"))
	})
	if err != nil {
		t.Fatalf("Atomic: %v", err)
	}
	if _, err := GetClaim(ctx, db, "c1"); err != nil {
		t.Fatalf("claim should be committed: %v", err)
	}
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := Atomic(ctx, db, DefaultRetry, func(tx *gorm.DB) error {
		if err := CreateClaim(ctx, tx, seedClaim("c1")); err != nil {
			return err
		}
		return boom
	})
	if err != boom {
		t.Fatalf("expected fn error to pass through, got %v", err)
	}
	if _, err := GetClaim(ctx, db, "c1"); err != ErrNotFound {
		t.Fatalf("claim should be rolled back, got %v", err)
	}
}

func TestAtomic_RollsBackOnPanic(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = Atomic(ctx, db, DefaultRetry, func(tx *gorm.DB) error {
			_ = CreateClaim(ctx, tx, seedClaim("c1"))
			panic("kaboom")
		})
	}()
	if _, err := GetClaim(ctx, db, "c1"); err != ErrNotFound {
		t.Fatalf("claim should be rolled back after panic, got %v", err)
	}
}

func TestAtomic_BeginFailsOnClosedDB(t *testing.T) {
	db := newRepoDB(t)
	Close(db)
	called := false
	err := Atomic(context.Background(), db, RetryPolicy{Attempts: 3, Backoff: time.Millisecond}, func(*gorm.DB) error {
		called = true
		return nil
	})
	if err == nil || called {
		t.Fatalf("expected begin failure without calling fn; err=%v called=%v", err, called)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{driver.ErrBadConn, true},
		{errors.Wrap(driver.ErrBadConn, "begin"), true},
		{&net.OpError{Op: "dial", Err: errors.New("x")}, true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("syntax error near SELECT"), false},
	}
	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Fatalf("IsTransient(%v)=%v want %v", tc.err, got, tc.want)
		}
	}
}

func TestIsDuplicate(t *testing.T) {
	for _, e := range []error{
		gorm.ErrDuplicatedKey,
		errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)"),
		errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_username"`),
		errors.New("Error 1062 (23000): Duplicate entry 'ann' for key 'users.idx_users_username'"),
	} {
		if !IsDuplicate(e) {
			t.Fatalf("IsDuplicate(%v) = false", e)
		}
	}
	if IsDuplicate(nil) || IsDuplicate(errors.New("no such table")) {
		t.Fatalf("false positive")
	}
}

// Compile-time guard to ensure signature stability.
var _ func(string, *gorm.Config) (*gorm.DB, error) = OpenSQLite
