package database

import (
	"context"
	"strings"
	"time"

	"vibejobs-backend/internal/application/listings"
	"vibejobs-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListingStore is the gorm-backed listings.Store.
type ListingStore struct {
	DB *gorm.DB
}

var _ listings.Store = (*ListingStore)(nil)

func (s *ListingStore) FindByURL(ctx context.Context, url string) (*domain.Listing, error) {
	var found []domain.Listing
	if err := s.DB.WithContext(ctx).Where("source_url = ?", url).Limit(1).Find(&found).Error; err != nil {
		return nil, wrap(err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// Insert stores times in UTC so range comparisons behave the same on every
// dialect (SQLite compares them as text).
func (s *ListingStore) Insert(ctx context.Context, listing *domain.Listing) error {
	listing.PostedAt = listing.PostedAt.UTC()
	return wrap(s.DB.WithContext(ctx).Create(listing).Error)
}

func (s *ListingStore) BulkDeactivateOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Model(&domain.Listing{}).
		Where("is_active = ? AND posted_at < ?", true, threshold.UTC()).
		Update("is_active", false)
	if res.Error != nil {
		return 0, wrap(res.Error)
	}
	return res.RowsAffected, nil
}

func (s *ListingStore) Query(ctx context.Context, f listings.Filter, p listings.Page) ([]domain.Listing, int64, error) {
	base := func() *gorm.DB {
		return applyFilter(s.DB.WithContext(ctx).Model(&domain.Listing{}), f)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, wrap(err)
	}

	var items []domain.Listing
	err := base().
		Order("posted_at DESC").
		Order("id").
		Offset(p.Offset()).
		Limit(p.Size).
		Find(&items).Error
	if err != nil {
		return nil, 0, wrap(err)
	}
	return items, total, nil
}

func (s *ListingStore) ReplaceAll(ctx context.Context, rows []domain.Listing) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Listing{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].PostedAt = rows[i].PostedAt.UTC()
		}
		return tx.CreateInBatches(rows, 100).Error
	})
	return wrap(err)
}

func (s *ListingStore) Ping(ctx context.Context) error {
	return Ping(ctx, s.DB)
}

// applyFilter adds one predicate per set field. Text matching lowercases both
// sides so it is case-insensitive on Postgres and SQLite alike, and the user's
// text is matched literally.
func applyFilter(q *gorm.DB, f listings.Filter) *gorm.DB {
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	if f.RegionalOnly != nil {
		q = q.Where("is_regional_only = ?", *f.RegionalOnly)
	}
	if f.ImpactProgram != nil {
		q = q.Where("is_impact_program = ?", *f.ImpactProgram)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.LocationType != "" {
		q = q.Where("location_type = ?", f.LocationType)
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}
	if f.MinScore != nil {
		q = q.Where("suitability_score >= ?", *f.MinScore)
	}
	if f.Location != "" {
		q = q.Where(`LOWER(location) LIKE ? ESCAPE '\'`, contains(f.Location))
	}
	if f.Search != "" {
		term := contains(f.Search)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(company) LIKE ? ESCAPE '\')`, term, term, term)
	}
	for _, tag := range f.Tags {
		q = q.Where(datatypes.JSONArrayQuery("tags").Contains(tag))
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// contains builds a LIKE pattern matching s anywhere, with the LIKE
// metacharacters in s escaped by backslash.
func contains(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}
