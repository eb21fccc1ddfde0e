// Package seed replaces the listing table with a curated sample set covering
// every audience: global remote jobs, regional-only jobs and impact-program
// tenders and grants.
package seed

import (
	"context"
	"fmt"
	"time"

	"vibejobs-backend/internal/application/listings"
	"vibejobs-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type sample struct {
	title, company, description, location string
	locationType                          domain.LocationType
	jobType                               domain.JobType
	category                              domain.Category
	score                                 int
	source, url                           string
	tags                                  []string
	regionalOnly, impact                  bool
	ageDays                               int
}

var samples = []sample{
	{
		title: "Senior AI/ML Engineer", company: "TechGlobal Inc",
		description:  "We are looking for an experienced AI/ML engineer to join our distributed team. Work on cutting-edge machine learning models and contribute to our AI platform. Flexible hours, remote-first culture.",
		location:     "Remote (Global)",
		locationType: domain.LocationRemoteGlobal, jobType: domain.JobFullTime, category: domain.CategoryAIMLEngineering,
		score: 85, source: "LinkedIn", url: "https://example.com/job1",
		tags: []string{"Python", "TensorFlow", "Remote"}, ageDays: 1,
	},
	{
		title: "Prompt Engineer", company: "AI Startup Labs",
		description:  "Join our innovative team building the next generation of AI-powered applications. You will design and optimize prompts for large language models. Creative, flexible, startup environment.",
		location:     "Remote (Global)",
		locationType: domain.LocationRemoteGlobal, jobType: domain.JobFullTime, category: domain.CategoryVibeCoding,
		score: 92, source: "Hacker News", url: "https://example.com/job2",
		tags: []string{"GPT", "LLM", "Prompt Engineering"}, ageDays: 2,
	},
	{
		title: "AI Training Specialist", company: "Enterprise Solutions Corp",
		description:  "Lead corporate AI training programs for Fortune 500 companies. Develop curriculum and deliver workshops on AI adoption and best practices.",
		location:     "Remote (Global)",
		locationType: domain.LocationRemoteGlobal, jobType: domain.JobContract, category: domain.CategoryAICorporateTraining,
		score: 70, source: "Indeed", url: "https://example.com/job3",
		tags: []string{"Training", "Workshop", "Enterprise"}, ageDays: 3,
	},
	{
		title: "Machine Learning Developer", company: "Sydney Tech Hub",
		description:  "Join our Sydney office to work on AI-powered fintech solutions. Hybrid role with flexible work arrangements.",
		location:     "Sydney, NSW",
		locationType: domain.LocationHybrid, jobType: domain.JobFullTime, category: domain.CategoryAIMLEngineering,
		score: 78, source: "Seek", url: "https://example.com/job4",
		tags: []string{"Machine Learning", "Fintech", "Hybrid"}, regionalOnly: true, ageDays: 4,
	},
	{
		title: "AI Solutions Architect", company: "Melbourne Innovations",
		description:  "On-site position in Melbourne CBD. Lead AI implementation projects for enterprise clients.",
		location:     "Melbourne, VIC",
		locationType: domain.LocationOnsite, jobType: domain.JobFullTime, category: domain.CategoryAIMLEngineering,
		score: 65, source: "Seek", url: "https://example.com/job5",
		tags: []string{"Architecture", "Enterprise", "On-site"}, regionalOnly: true, ageDays: 5,
	},
	{
		title: "AI Implementation Specialist - Regional", company: "Queensland AI Hub",
		description:  "Help regional businesses adopt AI technologies. Based in Townsville with travel to rural areas.",
		location:     "Townsville, QLD",
		locationType: domain.LocationHybrid, jobType: domain.JobFullTime, category: domain.CategoryAIImplementation,
		score: 88, source: "QLD AI Hub", url: "https://example.com/job6",
		tags: []string{"AI Implementation", "Regional", "AgriTech"}, regionalOnly: true, impact: true, ageDays: 6,
	},
	{
		title: "AI Staff Training Program Development", company: "Townsville Regional Council",
		description:  "Tender for developing and delivering AI training programs for council staff. Focus on AI adoption in local government services.",
		location:     "Townsville, QLD",
		locationType: domain.LocationHybrid, jobType: domain.JobTender, category: domain.CategoryAICorporateTraining,
		source: "AusTender", url: "https://example.com/tender1",
		tags: []string{"AI Training", "Government", "Tender"}, regionalOnly: true, impact: true, ageDays: 7,
	},
	{
		title: "Rural Health AI Integration Project", company: "Northern Territory Health",
		description:  "Contract opportunity to integrate AI solutions in rural health clinics across NT. Improve patient care through technology.",
		location:     "Alice Springs, NT",
		locationType: domain.LocationOnsite, jobType: domain.JobTender, category: domain.CategoryAIImplementation,
		source: "NT Gov Tenders", url: "https://example.com/tender2",
		tags: []string{"Rural Health", "AI Implementation", "Government"}, regionalOnly: true, impact: true, ageDays: 8,
	},
	{
		title: "Regional AI Innovation Grant", company: "Regional Development Australia",
		description:  "Funding available for AI research and implementation projects in regional areas. Up to $100,000.",
		location:     "Regional Australia",
		locationType: domain.LocationRemoteGlobal, jobType: domain.JobGrant, category: domain.CategoryAIImplementation,
		source: "RDA", url: "https://example.com/grant1",
		tags: []string{"Grant", "Research", "Regional Development"}, regionalOnly: true, impact: true, ageDays: 9,
	},
}

// Listings returns the sample set with posting times relative to now, so a
// fresh seed survives the reconciler. Tenders and grants carry no score.
func Listings(now time.Time) []domain.Listing {
	out := make([]domain.Listing, 0, len(samples))
	for _, s := range samples {
		l := domain.Listing{
			Title:           s.title,
			Company:         s.company,
			Description:     s.description,
			Location:        s.location,
			LocationType:    s.locationType,
			JobType:         s.jobType,
			Category:        s.category,
			Source:          s.source,
			SourceURL:       s.url,
			Tags:            datatypes.JSONSlice[string](append([]string{}, s.tags...)),
			IsActive:        true,
			IsRegionalOnly:  s.regionalOnly,
			IsImpactProgram: s.impact,
			PostedAt:        now.AddDate(0, 0, -s.ageDays),
		}
		if s.jobType.Scored() {
			score := s.score
			l.SuitabilityScore = &score
		}
		out = append(out, l)
	}
	return out
}

// Run clears every listing and inserts the sample set. It returns the number
// of listings created.
func Run(ctx context.Context, store listings.Store, now time.Time) (int, error) {
	rows := Listings(now)
	if err := store.ReplaceAll(ctx, rows); err != nil {
		return 0, fmt.Errorf("seed listings: %w", err)
	}
	log.Info().Int("count", len(rows)).Msg("seed: replaced job listings")
	return len(rows), nil
}
