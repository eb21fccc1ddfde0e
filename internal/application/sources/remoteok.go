package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"vibejobs-backend/internal/domain"
)

const remoteOKDefaultURL = "https://remoteok.com/api"

// RemoteOK reads the public remoteok.com feed. The first array element is a
// legal notice, not a job.
type RemoteOK struct {
	BaseURL string
	Client  *http.Client
}

type remoteOKJob struct {
	Slug        string   `json:"slug"`
	URL         string   `json:"url"`
	Epoch       int64    `json:"epoch"`
	Date        string   `json:"date"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	SalaryMin   float64  `json:"salary_min"`
	SalaryMax   float64  `json:"salary_max"`
}

func (f *RemoteOK) Name() string { return "remoteok" }

func (f *RemoteOK) Fetch(ctx context.Context) []domain.RawListing {
	url := f.BaseURL
	if url == "" {
		url = remoteOKDefaultURL
	}
	var items []json.RawMessage
	if err := getJSON(ctx, f.Client, url, &items); err != nil {
		return fail(f.Name(), err)
	}
	if len(items) > 0 {
		items = items[1:]
	}

	raws := make([]domain.RawListing, 0, len(items))
	for _, item := range items {
		var job remoteOKJob
		if err := json.Unmarshal(item, &job); err != nil {
			continue
		}
		if job.Position == "" || job.Company == "" {
			continue
		}
		raws = append(raws, domain.RawListing{
			Title:       job.Position,
			Company:     job.Company,
			Description: job.Description,
			Location:    job.Location,
			URL:         job.listingURL(),
			Tags:        job.Tags,
			PostedAt:    job.postedAt(),
			JobTypeHint: string(domain.JobFullTime),
			Salary:      job.salary(),
		})
	}
	return finalize(f.Name(), raws)
}

func (j remoteOKJob) listingURL() string {
	if j.Slug != "" {
		return "https://remoteok.com/remote-jobs/" + j.Slug
	}
	return j.URL
}

func (j remoteOKJob) postedAt() time.Time {
	if j.Epoch > 0 {
		return time.Unix(j.Epoch, 0).UTC()
	}
	return parseTime(j.Date)
}

func (j remoteOKJob) salary() string {
	if j.SalaryMin <= 0 || j.SalaryMax <= 0 {
		return ""
	}
	return "$" + formatAmount(j.SalaryMin) + "-$" + formatAmount(j.SalaryMax)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
