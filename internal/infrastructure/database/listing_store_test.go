package database_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"vibejobs-backend/internal/application/listings"
	"vibejobs-backend/internal/domain"
	"vibejobs-backend/internal/infrastructure/database"
	"vibejobs-backend/internal/infrastructure/database/databasetest"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func setupStore(t *testing.T) *database.ListingStore {
	return &database.ListingStore{DB: databasetest.Open(t)}
}

func newListing(url string, postedAt time.Time) *domain.Listing {
	score := 70
	return &domain.Listing{
		Title:            "ML Engineer",
		Company:          "Acme",
		Description:      "Build models",
		Location:         "Remote (Global)",
		LocationType:     domain.LocationRemoteGlobal,
		JobType:          domain.JobFullTime,
		Category:         domain.CategoryAIMLEngineering,
		SuitabilityScore: &score,
		Source:           "test",
		SourceURL:        url,
		Tags:             datatypes.JSONSlice[string]{"Python"},
		IsActive:         true,
		PostedAt:         postedAt,
	}
}

func TestFindByURL_NotFound(t *testing.T) {
	s := setupStore(t)
	got, err := s.FindByURL(context.Background(), "https://example.com/missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestInsertAndFindByURL(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	l := newListing("https://example.com/1", time.Now())
	require.NoError(t, s.Insert(ctx, l))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", l.ID.String())

	got, err := s.FindByURL(ctx, "https://example.com/1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, l.ID, got.ID)
	assert.Equal(t, []string{"Python"}, []string(got.Tags))
	require.NotNil(t, got.SuitabilityScore)
	assert.Equal(t, 70, *got.SuitabilityScore)
}

func TestBulkDeactivateOlderThan(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	old := newListing("https://example.com/old", now.Add(-61*24*time.Hour))
	fresh := newListing("https://example.com/fresh", now.Add(-10*24*time.Hour))
	alreadyOff := newListing("https://example.com/off", now.Add(-90*24*time.Hour))
	alreadyOff.IsActive = false
	for _, l := range []*domain.Listing{old, fresh, alreadyOff} {
		require.NoError(t, s.Insert(ctx, l))
	}

	threshold := now.Add(-60 * 24 * time.Hour)
	n, err := s.BulkDeactivateOlderThan(ctx, threshold)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	again, err := s.BulkDeactivateOlderThan(ctx, threshold)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again)

	got, err := s.FindByURL(ctx, "https://example.com/old")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	got, err = s.FindByURL(ctx, "https://example.com/fresh")
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	got, err = s.FindByURL(ctx, "https://example.com/off")
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestQuery_FiltersAndOrdering(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	a := newListing("https://example.com/a", now.Add(-1*time.Hour))
	a.Title = "Prompt Engineer"
	a.Company = "OpenLabs"
	a.Category = domain.CategoryVibeCoding

	b := newListing("https://example.com/b", now.Add(-2*time.Hour))
	b.Description = "Work with LLM tooling"

	c := newListing("https://example.com/c", now.Add(-3*time.Hour))
	c.Tags = datatypes.JSONSlice[string]{"Climate", "AI"}
	c.JobType = domain.JobGrant
	c.SuitabilityScore = nil
	c.IsImpactProgram = true
	c.Location = "Sydney, NSW"
	c.LocationType = domain.LocationOnsite

	d := newListing("https://example.com/d", now.Add(-4*time.Hour))
	d.IsActive = false

	for _, l := range []*domain.Listing{a, b, c, d} {
		require.NoError(t, s.Insert(ctx, l))
	}
	active := true

	items, total, err := s.Query(ctx, listings.Filter{Active: &active}, listings.Page{Number: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	assert.Equal(t, "https://example.com/a", items[0].SourceURL)
	assert.Equal(t, "https://example.com/c", items[2].SourceURL)

	items, total, err = s.Query(ctx, listings.Filter{Active: &active, Search: "openlabs"}, listings.Page{Number: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "https://example.com/a", items[0].SourceURL)

	_, total, err = s.Query(ctx, listings.Filter{Active: &active, Search: "llm"}, listings.Page{Number: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	minScore := 50
	_, total, err = s.Query(ctx, listings.Filter{Active: &active, MinScore: &minScore}, listings.Page{Number: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total, "unscored listings never satisfy a score bound")

	items, total, err = s.Query(ctx, listings.Filter{Active: &active, Tags: []string{"Climate"}}, listings.Page{Number: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "https://example.com/c", items[0].SourceURL)

	_, total, err = s.Query(ctx, listings.Filter{Active: &active, Tags: []string{"Clim"}}, listings.Page{Number: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total, "tag membership matches whole elements")

	impact := true
	_, total, err = s.Query(ctx, listings.Filter{Active: &active, ImpactProgram: &impact, Location: "sydney"}, listings.Page{Number: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	items, total, err = s.Query(ctx, listings.Filter{Active: &active}, listings.Page{Number: 2, Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	assert.Equal(t, "https://example.com/c", items[0].SourceURL)
}

func TestQuery_SearchMatchesLiterally(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	plain := newListing("https://example.com/plain", now)
	plain.Location = "Sydney, NSW"
	pct := newListing("https://example.com/pct", now.Add(-time.Hour))
	pct.Title = "100% Remote_AI Lead"
	pct.Location = "Perth_WA"
	for _, l := range []*domain.Listing{plain, pct} {
		require.NoError(t, s.Insert(ctx, l))
	}

	cases := []struct {
		name   string
		filter listings.Filter
		want   int64
	}{
		{"percent", listings.Filter{Search: "%"}, 1},
		{"underscore", listings.Filter{Search: "_"}, 1},
		{"underscore is not a wildcard", listings.Filter{Search: "M_ Eng"}, 0},
		{"percent is not a wildcard", listings.Filter{Search: "ML%Engineer"}, 0},
		{"backslash", listings.Filter{Search: `\`}, 0},
		{"literal phrase", listings.Filter{Search: "100% remote_ai"}, 1},
		{"location underscore", listings.Filter{Location: "h_w"}, 1},
		{"location wildcard", listings.Filter{Location: "s_dney"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, total, err := s.Query(ctx, tc.filter, listings.Page{Number: 1, Size: 20})
			require.NoError(t, err)
			assert.Equal(t, tc.want, total)
		})
	}
}

func TestQuery_TagsExactMembership(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	py := newListing("https://example.com/py", now)
	rd := newListing("https://example.com/rd", now.Add(-time.Hour))
	rd.Tags = datatypes.JSONSlice[string]{"R&D", "50% Funded"}
	empty := newListing("https://example.com/empty", now.Add(-2*time.Hour))
	empty.Tags = datatypes.JSONSlice[string]{}
	for _, l := range []*domain.Listing{py, rd, empty} {
		require.NoError(t, s.Insert(ctx, l))
	}

	cases := []struct {
		tags []string
		want int64
	}{
		{[]string{"Python"}, 1},
		{[]string{"Pyth%"}, 0},
		{[]string{"%"}, 0},
		{[]string{"Pyth_n"}, 0},
		{[]string{"python"}, 0},
		{[]string{"R&D"}, 1},
		{[]string{"50% Funded"}, 1},
		{[]string{"R&D", "50% Funded"}, 1},
		{[]string{"R&D", "Python"}, 0},
	}
	for _, tc := range cases {
		_, total, err := s.Query(ctx, listings.Filter{Tags: tc.tags}, listings.Page{Number: 1, Size: 20})
		require.NoError(t, err)
		assert.Equal(t, tc.want, total, "tags %v", tc.tags)
	}
}

func TestReplaceAll(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	require.NoError(t, s.Insert(ctx, newListing("https://example.com/x", time.Now())))

	rows := []domain.Listing{
		*newListing("https://example.com/y", time.Now()),
		*newListing("https://example.com/z", time.Now()),
	}
	require.NoError(t, s.ReplaceAll(ctx, rows))

	_, total, err := s.Query(ctx, listings.Filter{}, listings.Page{Number: 1, Size: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	got, err := s.FindByURL(ctx, "https://example.com/x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPing(t *testing.T) {
	s := setupStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestIsUnavailable(t *testing.T) {
	assert.False(t, database.IsUnavailable(nil))
	assert.False(t, database.IsUnavailable(errors.New("value too long for type character varying(200)")))
	assert.False(t, database.IsUnavailable(&pgconn.PgError{Code: "22001"}))
	assert.True(t, database.IsUnavailable(&pgconn.PgError{Code: "08006"}))
	assert.True(t, database.IsUnavailable(&pgconn.PgError{Code: "57P01"}))
	assert.True(t, database.IsUnavailable(fmt.Errorf("dial: %w", &net.OpError{Op: "dial", Err: errors.New("connection refused")})))
	assert.True(t, database.IsUnavailable(fmt.Errorf("wrapped: %w", listings.ErrStoreUnavailable)))
}

func TestOpen_ConfigErrors(t *testing.T) {
	_, err := database.Open("")
	assert.ErrorIs(t, err, database.ErrConfig)

	_, err = database.Open("mysql://localhost/db")
	assert.ErrorIs(t, err, database.ErrConfig)
}

func TestOpen_SQLite(t *testing.T) {
	db, err := database.Open("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, database.Ping(context.Background(), db))
}
