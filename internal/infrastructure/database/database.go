package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"vibejobs-backend/internal/application/listings"
	"vibejobs-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrConfig marks a missing or malformed DATABASE_URL.
var ErrConfig = errors.New("database configuration error")

const sqlitePrefix = "sqlite://"

// Open opens a GORM DB from DSN without connecting. Postgres URLs go through the pgx driver with
// PreferSimpleProtocol, which avoids 42P05 ("prepared statement already
// exists") behind connection poolers (PgBouncer, Supabase, Render).
// "sqlite://<path>" opens a local SQLite file, "sqlite://:memory:" an
// in-memory database.
func Open(dsn string) (*gorm.DB, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("%w: DATABASE_URL is not set", ErrConfig)
	}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, sqlitePrefix):
		dialector = sqlite.Open(strings.TrimPrefix(dsn, sqlitePrefix))
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("%w: unsupported DATABASE_URL scheme", ErrConfig)
	}

	// Connectivity is checked by Ping, so a down server surfaces per request
	// as a connection error and not as a startup failure.
	db, err := gorm.Open(dialector, &gorm.Config{DisableAutomaticPing: true})
	if err != nil {
		if IsUnavailable(err) {
			return nil, fmt.Errorf("%w: %w", listings.ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return db, nil
}

// AutoMigrate runs migrations for the listing and run tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Listing{}, &domain.AggregationRun{})
}

// Ping checks that the underlying pool can reach the server.
func Ping(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("%w: no database handle", listings.ErrStoreUnavailable)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", listings.ErrStoreUnavailable, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", listings.ErrStoreUnavailable, err)
	}
	return nil
}

// IsUnavailable reports whether err means the server could not be reached,
// as opposed to a statement the server rejected.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, listings.ErrStoreUnavailable) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exception. 57P01..57P03: admin shutdown, crash, cannot connect now.
		return strings.HasPrefix(pgErr.Code, "08") || strings.HasPrefix(pgErr.Code, "57P0")
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	if IsUnavailable(err) && !errors.Is(err, listings.ErrStoreUnavailable) {
		return fmt.Errorf("%w: %w", listings.ErrStoreUnavailable, err)
	}
	return err
}
