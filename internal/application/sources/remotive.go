package sources

import (
	"context"
	"net/http"

	"vibejobs-backend/internal/domain"
)

const remotiveDefaultURL = "https://remotive.com/api/remote-jobs"

// Remotive reads the remotive.com remote jobs feed.
type Remotive struct {
	BaseURL string
	Client  *http.Client
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

type remotiveJob struct {
	URL                       string   `json:"url"`
	Title                     string   `json:"title"`
	CompanyName               string   `json:"company_name"`
	Category                  string   `json:"category"`
	Tags                      []string `json:"tags"`
	JobType                   string   `json:"job_type"`
	PublicationDate           string   `json:"publication_date"`
	CandidateRequiredLocation string   `json:"candidate_required_location"`
	Salary                    string   `json:"salary"`
	Description               string   `json:"description"`
}

func (f *Remotive) Name() string { return "remotive" }

func (f *Remotive) Fetch(ctx context.Context) []domain.RawListing {
	url := f.BaseURL
	if url == "" {
		url = remotiveDefaultURL
	}
	var resp remotiveResponse
	if err := getJSON(ctx, f.Client, url, &resp); err != nil {
		return fail(f.Name(), err)
	}

	raws := make([]domain.RawListing, 0, len(resp.Jobs))
	for _, job := range resp.Jobs {
		tags := job.Tags
		if len(tags) == 0 && job.Category != "" {
			tags = []string{job.Category}
		}
		raws = append(raws, domain.RawListing{
			Title:       job.Title,
			Company:     job.CompanyName,
			Description: job.Description,
			Location:    job.CandidateRequiredLocation,
			URL:         job.URL,
			Tags:        tags,
			PostedAt:    parseTime(job.PublicationDate),
			JobTypeHint: job.JobType,
			Salary:      job.Salary,
		})
	}
	return finalize(f.Name(), raws)
}
