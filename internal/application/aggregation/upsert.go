package aggregation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vibejobs-backend/internal/application/classify"
	"vibejobs-backend/internal/application/listings"
	"vibejobs-backend/internal/domain"

	"gorm.io/datatypes"
)

const (
	maxTitleLen       = 200
	maxCompanyLen     = 200
	maxDescriptionLen = 5000
	maxTags           = 10
)

// Outcome is what the upsert engine did with one candidate.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeFailed   Outcome = "failed"
)

// ItemResult reports the handling of one raw listing.
type ItemResult struct {
	Source  string  `json:"source"`
	URL     string  `json:"url"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

// Upserter inserts raw listings not yet known by source URL. Known URLs are
// skipped and never refreshed.
type Upserter struct {
	Store listings.Store
}

// Upsert classifies raw and inserts it unless its URL already exists. The
// returned error is non-nil only when the outcome is failed.
func (u *Upserter) Upsert(ctx context.Context, raw domain.RawListing, now time.Time) (ItemResult, error) {
	res := ItemResult{Source: raw.Source, URL: raw.URL}

	existing, err := u.Store.FindByURL(ctx, raw.URL)
	if err != nil {
		return failed(res, fmt.Errorf("find by url: %w", err))
	}
	if existing != nil {
		res.Outcome = OutcomeSkipped
		return res, nil
	}

	listing := NewListing(raw, classify.Classify(raw, now), now)
	if err := u.Store.Insert(ctx, listing); err != nil {
		return failed(res, fmt.Errorf("insert: %w", err))
	}
	res.Outcome = OutcomeInserted
	return res, nil
}

func failed(res ItemResult, err error) (ItemResult, error) {
	res.Outcome = OutcomeFailed
	res.Reason = err.Error()
	return res, err
}

// NewListing builds the row persisted for a first-seen raw listing.
// Aggregated listings are never placed in the regional or impact audiences
// and never get the HYBRID location type.
func NewListing(raw domain.RawListing, cls classify.Result, now time.Time) *domain.Listing {
	locationType := domain.LocationOnsite
	if strings.Contains(strings.ToLower(raw.Location), "remote") {
		locationType = domain.LocationRemoteGlobal
	}

	postedAt := raw.PostedAt
	if postedAt.IsZero() {
		postedAt = now
	}

	tags := raw.Tags
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}

	var salary *string
	if s := strings.TrimSpace(raw.Salary); s != "" {
		salary = &s
	}

	return &domain.Listing{
		Title:            truncate(raw.Title, maxTitleLen),
		Company:          truncate(raw.Company, maxCompanyLen),
		Description:      truncate(raw.Description, maxDescriptionLen),
		Location:         raw.Location,
		LocationType:     locationType,
		JobType:          cls.JobType,
		Category:         cls.Category,
		SuitabilityScore: cls.Score,
		Salary:           salary,
		Source:           raw.Source,
		SourceURL:        raw.URL,
		Tags:             datatypes.JSONSlice[string](append([]string{}, tags...)),
		IsActive:         true,
		IsRegionalOnly:   false,
		IsImpactProgram:  false,
		PostedAt:         postedAt,
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// isInfrastructure reports whether err means the store itself is unusable,
// which ends the run instead of failing one item.
func isInfrastructure(err error) bool {
	return errors.Is(err, listings.ErrStoreUnavailable) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
