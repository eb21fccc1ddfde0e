package classify

import (
	"strings"
	"time"

	"vibejobs-backend/internal/domain"
)

const (
	baseScore     = 50
	remoteBonus   = 20
	aiBonus       = 15
	salaryBonus   = 10
	recencyBonus  = 5
	recencyWindow = 7 * 24 * time.Hour
)

var aiKeywords = []string{"ai", "ml", "machine learning"}

// Score is a best-effort engagement heuristic in [0, 100]. It ranks listings
// for display and nothing depends on its exact value. A listing with no
// posting time gets no recency bonus.
func Score(raw domain.RawListing, now time.Time) int {
	score := baseScore
	if strings.Contains(strings.ToLower(raw.Location), "remote") {
		score += remoteBonus
	}
	text := titleAndTags(raw)
	for _, kw := range aiKeywords {
		if strings.Contains(text, kw) {
			score += aiBonus
			break
		}
	}
	if strings.TrimSpace(raw.Salary) != "" {
		score += salaryBonus
	}
	if !raw.PostedAt.IsZero() && now.Sub(raw.PostedAt) < recencyWindow {
		score += recencyBonus
	}
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
