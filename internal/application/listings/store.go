package listings

import (
	"context"
	"errors"
	"time"

	"vibejobs-backend/internal/domain"
)

// ErrStoreUnavailable marks infrastructure failures (connection refused, pool
// closed, server shutting down). Callers use errors.Is to tell them apart
// from per-row failures.
var ErrStoreUnavailable = errors.New("listing store unavailable")

// Store is the persistent table of listings.
type Store interface {
	// FindByURL returns nil, nil when no listing has this source URL.
	FindByURL(ctx context.Context, url string) (*domain.Listing, error)
	Insert(ctx context.Context, listing *domain.Listing) error
	// BulkDeactivateOlderThan flips is_active off for every active listing
	// posted before threshold and returns the number of rows changed.
	BulkDeactivateOlderThan(ctx context.Context, threshold time.Time) (int64, error)
	Query(ctx context.Context, filter Filter, page Page) ([]domain.Listing, int64, error)
	// ReplaceAll clears the table and inserts listings in one transaction.
	ReplaceAll(ctx context.Context, listings []domain.Listing) error
	Ping(ctx context.Context) error
}

// Filter holds the predicates of a listing query. Zero values mean "no
// constraint"; pointer fields distinguish false from unset.
type Filter struct {
	Active        *bool
	Category      domain.Category
	MinScore      *int
	Search        string
	LocationType  domain.LocationType
	Location      string
	JobType       domain.JobType
	Tags          []string
	RegionalOnly  *bool
	ImpactProgram *bool
}
