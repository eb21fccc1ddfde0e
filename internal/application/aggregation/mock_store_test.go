package aggregation

import (
	"context"
	"time"

	"vibejobs-backend/internal/application/listings"
	"vibejobs-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of listings.Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindByURL(ctx context.Context, url string) (*domain.Listing, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(*domain.Listing), args.Error(1)
}

func (m *MockStore) Insert(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockStore) BulkDeactivateOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Query(ctx context.Context, f listings.Filter, p listings.Page) ([]domain.Listing, int64, error) {
	args := m.Called(ctx, f, p)
	return args.Get(0).([]domain.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockStore) ReplaceAll(ctx context.Context, rows []domain.Listing) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type staticFetcher struct {
	name  string
	items []domain.RawListing
}

func (f *staticFetcher) Name() string { return f.name }

func (f *staticFetcher) Fetch(ctx context.Context) []domain.RawListing {
	return append([]domain.RawListing(nil), f.items...)
}

type memRecorder struct {
	runs []*domain.AggregationRun
}

func (r *memRecorder) Record(ctx context.Context, run *domain.AggregationRun) error {
	r.runs = append(r.runs, run)
	return nil
}
