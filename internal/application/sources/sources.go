// Package sources fetches raw listings from external job feeds. A fetcher
// never fails: provider errors are logged and yield an empty batch.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vibejobs-backend/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	// MaxPerSource caps how many listings one fetcher returns per run.
	MaxPerSource = 20
	// DefaultTimeout bounds each provider request.
	DefaultTimeout = 15 * time.Second

	defaultLocation = "Remote (Global)"
	userAgent       = "vibejobs-aggregator/1.0"
	maxBodyBytes    = 10 << 20
)

// Fetcher returns at most MaxPerSource raw listings from one provider.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) []domain.RawListing
}

// Config selects provider endpoints and credentials. Empty URLs fall back to
// the public endpoints.
type Config struct {
	RemoteOKURL   string
	RemotiveURL   string
	AdzunaURL     string
	AdzunaAppID   string
	AdzunaAPIKey  string
	AdzunaCountry string
	Timeout       time.Duration
}

// All returns the fetchers used by an aggregation run, in source order.
func All(cfg Config) []Fetcher {
	client := NewHTTPClient(cfg.Timeout)
	return []Fetcher{
		&RemoteOK{BaseURL: cfg.RemoteOKURL, Client: client},
		&Remotive{BaseURL: cfg.RemotiveURL, Client: client},
		&Adzuna{
			BaseURL: cfg.AdzunaURL,
			AppID:   cfg.AdzunaAppID,
			APIKey:  cfg.AdzunaAPIKey,
			Country: cfg.AdzunaCountry,
			Client:  client,
		},
	}
}

// NewHTTPClient returns a client with a bounded timeout. Zero means DefaultTimeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

var validate = validator.New()

// getJSON issues a GET and decodes a 200 response into out.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	if client == nil {
		client = NewHTTPClient(0)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// finalize applies defaults, drops items that fail validation and caps the
// batch at MaxPerSource.
func finalize(source string, items []domain.RawListing) []domain.RawListing {
	out := make([]domain.RawListing, 0, min(len(items), MaxPerSource))
	dropped := 0
	for _, raw := range items {
		if len(out) == MaxPerSource {
			break
		}
		raw.Source = source
		raw.Title = strings.TrimSpace(raw.Title)
		raw.Company = strings.TrimSpace(raw.Company)
		raw.URL = strings.TrimSpace(raw.URL)
		if err := validate.Struct(raw); err != nil {
			dropped++
			continue
		}
		raw.Description = htmlToText(raw.Description)
		if raw.Description == "" {
			raw.Description = raw.Title + " at " + raw.Company
		}
		if strings.TrimSpace(raw.Location) == "" {
			raw.Location = defaultLocation
		}
		if raw.Tags == nil {
			raw.Tags = []string{}
		}
		out = append(out, raw)
	}
	if dropped > 0 {
		log.Debug().Str("source", source).Int("dropped", dropped).Msg("sources: dropped invalid items")
	}
	return out
}

// htmlToText reduces an HTML fragment to its visible text with collapsed
// whitespace. Plain text passes through unchanged apart from whitespace.
func htmlToText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime returns the zero time when s is empty or not a known layout.
// Zone-less values are read as UTC.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func fail(source string, err error) []domain.RawListing {
	log.Warn().Str("source", source).Err(err).Msg("sources: fetch failed")
	return []domain.RawListing{}
}
