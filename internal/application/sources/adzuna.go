package sources

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"vibejobs-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

const (
	adzunaDefaultURL     = "https://api.adzuna.com/v1/api/jobs"
	adzunaDefaultCountry = "us"
	adzunaQuery          = "machine learning OR artificial intelligence"
)

// Adzuna searches the Adzuna jobs API for AI/ML roles. Without credentials
// it does nothing.
type Adzuna struct {
	BaseURL string
	AppID   string
	APIKey  string
	Country string
	Client  *http.Client
}

type adzunaResponse struct {
	Results []adzunaJob `json:"results"`
}

type adzunaJob struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RedirectURL string `json:"redirect_url"`
	Created     string `json:"created"`
	Contract    string `json:"contract_type"`
	Company     struct {
		DisplayName string `json:"display_name"`
	} `json:"company"`
	Location struct {
		DisplayName string `json:"display_name"`
	} `json:"location"`
}

func (f *Adzuna) Name() string { return "adzuna" }

func (f *Adzuna) Fetch(ctx context.Context) []domain.RawListing {
	if f.AppID == "" || f.APIKey == "" {
		log.Info().Str("source", f.Name()).Msg("sources: Adzuna API credentials not set, skipping")
		return []domain.RawListing{}
	}
	var resp adzunaResponse
	if err := getJSON(ctx, f.Client, f.searchURL(), &resp); err != nil {
		return fail(f.Name(), err)
	}

	raws := make([]domain.RawListing, 0, len(resp.Results))
	for _, job := range resp.Results {
		raws = append(raws, domain.RawListing{
			Title:       job.Title,
			Company:     job.Company.DisplayName,
			Description: job.Description,
			Location:    job.Location.DisplayName,
			URL:         job.RedirectURL,
			Tags:        []string{"AI", "ML"},
			PostedAt:    parseTime(job.Created),
			JobTypeHint: job.Contract,
		})
	}
	return finalize(f.Name(), raws)
}

func (f *Adzuna) searchURL() string {
	base := strings.TrimRight(f.BaseURL, "/")
	if base == "" {
		base = adzunaDefaultURL
	}
	country := f.Country
	if country == "" {
		country = adzunaDefaultCountry
	}
	q := url.Values{}
	q.Set("app_id", f.AppID)
	q.Set("app_key", f.APIKey)
	q.Set("what", adzunaQuery)
	q.Set("content-type", "application/json")
	return base + "/" + url.PathEscape(country) + "/search/1?" + q.Encode()
}
