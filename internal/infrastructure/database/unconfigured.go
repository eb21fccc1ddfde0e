package database

import (
	"context"
	"fmt"
	"time"

	"vibejobs-backend/internal/application/listings"
	"vibejobs-backend/internal/domain"
)

// UnconfiguredStore stands in when DATABASE_URL is not set. Every call fails
// with ErrConfig so requests report a configuration error.
type UnconfiguredStore struct{}

var _ listings.Store = UnconfiguredStore{}

var errNotConfigured = fmt.Errorf("%w: DATABASE_URL is not set", ErrConfig)

func (UnconfiguredStore) FindByURL(context.Context, string) (*domain.Listing, error) {
	return nil, errNotConfigured
}

func (UnconfiguredStore) Insert(context.Context, *domain.Listing) error { return errNotConfigured }

func (UnconfiguredStore) BulkDeactivateOlderThan(context.Context, time.Time) (int64, error) {
	return 0, errNotConfigured
}

func (UnconfiguredStore) Query(context.Context, listings.Filter, listings.Page) ([]domain.Listing, int64, error) {
	return nil, 0, errNotConfigured
}

func (UnconfiguredStore) ReplaceAll(context.Context, []domain.Listing) error { return errNotConfigured }

func (UnconfiguredStore) Ping(context.Context) error { return errNotConfigured }

// Latest lets UnconfiguredStore stand in for the run store too.
func (UnconfiguredStore) Latest(context.Context) (*domain.AggregationRun, error) {
	return nil, errNotConfigured
}

func (UnconfiguredStore) Record(context.Context, *domain.AggregationRun) error {
	return errNotConfigured
}
