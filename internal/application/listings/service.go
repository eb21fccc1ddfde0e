package listings

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"vibejobs-backend/internal/domain"
)

// Service translates view parameters into store queries. Every view only
// returns active listings.
type Service struct {
	Store Store
}

// Result is one page of listings.
type Result struct {
	Items []domain.Listing
	Total int64
	Page  int
	Pages int
}

// GlobalQuery are the parameters of the remote-global jobs view.
type GlobalQuery struct {
	Category string
	MinScore string
	Search   string
	Page     string
	Limit    string
}

// RegionalQuery are the parameters of the regional-only jobs view.
type RegionalQuery struct {
	LocationType string
	Category     string
	City         string
	Search       string
	Page         string
	Limit        string
}

// ImpactQuery are the parameters of the impact-program opportunities view.
type ImpactQuery struct {
	Type     string
	Region   string
	Industry string
	AIFocus  string
	Page     string
	Limit    string
}

// Global returns active REMOTE_GLOBAL listings.
func (s *Service) Global(ctx context.Context, q GlobalQuery) (*Result, error) {
	f := Filter{
		Active:       boolPtr(true),
		LocationType: domain.LocationRemoteGlobal,
		Category:     parseCategory(q.Category),
		MinScore:     parseScore(q.MinScore),
		Search:       strings.TrimSpace(q.Search),
	}
	return s.Search(ctx, f, ParsePage(q.Page, q.Limit))
}

// Regional returns active listings restricted to the regional audience.
func (s *Service) Regional(ctx context.Context, q RegionalQuery) (*Result, error) {
	f := Filter{
		Active:       boolPtr(true),
		RegionalOnly: boolPtr(true),
		LocationType: parseLocationType(q.LocationType),
		Category:     parseCategory(q.Category),
		Location:     strings.TrimSpace(q.City),
		Search:       strings.TrimSpace(q.Search),
	}
	return s.Search(ctx, f, ParsePage(q.Page, q.Limit))
}

// Impact returns active impact-program opportunities. Industry and AI focus
// are both tag membership predicates.
func (s *Service) Impact(ctx context.Context, q ImpactQuery) (*Result, error) {
	f := Filter{
		Active:        boolPtr(true),
		ImpactProgram: boolPtr(true),
		JobType:       parseJobType(q.Type),
		Location:      strings.TrimSpace(q.Region),
	}
	for _, tag := range []string{q.Industry, q.AIFocus} {
		if tag = strings.TrimSpace(tag); tag != "" {
			f.Tags = append(f.Tags, tag)
		}
	}
	return s.Search(ctx, f, ParsePage(q.Page, q.Limit))
}

// Search runs an arbitrary filter.
func (s *Service) Search(ctx context.Context, f Filter, p Page) (*Result, error) {
	items, total, err := s.Store.Query(ctx, f, p)
	if err != nil {
		return nil, fmt.Errorf("query listings: %w", err)
	}
	if items == nil {
		items = []domain.Listing{}
	}
	return &Result{
		Items: items,
		Total: total,
		Page:  p.Number,
		Pages: p.Pages(total),
	}, nil
}

// Unknown enum values are dropped rather than rejected.

func parseCategory(s string) domain.Category {
	c := domain.Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return ""
	}
	return c
}

func parseLocationType(s string) domain.LocationType {
	l := domain.LocationType(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return ""
	}
	return l
}

func parseJobType(s string) domain.JobType {
	j := domain.JobType(strings.ToUpper(strings.TrimSpace(s)))
	if !j.Valid() {
		return ""
	}
	return j
}

func parseScore(s string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &n
}

func boolPtr(b bool) *bool {
	return &b
}
