package aggregation

import (
	"context"
	"fmt"
	"time"

	"vibejobs-backend/internal/application/listings"
)

// DefaultMaxAge is how long a listing stays active after its posting time.
const DefaultMaxAge = 60 * 24 * time.Hour

// Reconciler deactivates listings posted before now minus MaxAge. It is a
// single set-based update and safe to repeat.
type Reconciler struct {
	Store  listings.Store
	MaxAge time.Duration
}

// Reconcile returns how many listings were deactivated.
func (r *Reconciler) Reconcile(ctx context.Context, now time.Time) (int64, error) {
	maxAge := r.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	n, err := r.Store.BulkDeactivateOlderThan(ctx, now.Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("deactivate stale listings: %w", err)
	}
	return n, nil
}
