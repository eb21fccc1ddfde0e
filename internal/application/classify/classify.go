// Package classify maps raw listings onto the listing taxonomy. Everything
// here is pure: no I/O, and the only clock is the one passed in.
package classify

import (
	"strings"
	"time"

	"vibejobs-backend/internal/domain"
)

// Rule assigns Category when any of Keywords is a substring of the
// lower-cased title and tags.
type Rule struct {
	Keywords []string
	Category domain.Category
}

// Matches reports whether text (already lower-cased) hits the rule.
func (r Rule) Matches(text string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// CategoryRules are evaluated in order and the first match wins. Reordering
// changes how existing feeds classify.
var CategoryRules = []Rule{
	{Keywords: []string{"ml", "machine learning", "ai engineer"}, Category: domain.CategoryAIMLEngineering},
	{Keywords: []string{"prompt", "llm"}, Category: domain.CategoryVibeCoding},
	{Keywords: []string{"training", "education"}, Category: domain.CategoryAICorporateTraining},
	{Keywords: []string{"data scientist", "analyst"}, Category: domain.CategoryAIMLEngineering},
	{Keywords: []string{"research"}, Category: domain.CategoryAIGovernance},
	{Keywords: []string{"product", "manager"}, Category: domain.CategoryAIImplementation},
}

// Result is the taxonomy assignment for one raw listing. Score is nil for
// job types that are not scored.
type Result struct {
	Category domain.Category
	JobType  domain.JobType
	Score    *int
}

// Classify runs every classifier against raw with now as the aggregation clock.
func Classify(raw domain.RawListing, now time.Time) Result {
	res := Result{
		Category: Category(raw),
		JobType:  JobType(raw.JobTypeHint),
	}
	if res.JobType.Scored() {
		score := Score(raw, now)
		res.Score = &score
	}
	return res
}

// Category returns the category of the first matching rule, or OTHER.
func Category(raw domain.RawListing) domain.Category {
	text := titleAndTags(raw)
	for _, r := range CategoryRules {
		if r.Matches(text) {
			return r.Category
		}
	}
	return domain.CategoryOther
}

// JobType maps a provider hint such as "full_time" or "Contract" onto the
// taxonomy. Freelance hints land on CONTRACT.
func JobType(hint string) domain.JobType {
	h := strings.ToLower(strings.TrimSpace(hint))
	switch {
	case h == "":
		return domain.JobFullTime
	case strings.Contains(h, "part"):
		return domain.JobPartTime
	case strings.Contains(h, "contract"), strings.Contains(h, "freelance"):
		return domain.JobContract
	default:
		return domain.JobFullTime
	}
}

func titleAndTags(raw domain.RawListing) string {
	parts := make([]string, 0, len(raw.Tags)+1)
	parts = append(parts, raw.Title)
	parts = append(parts, raw.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}
