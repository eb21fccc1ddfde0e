// Package aggregation runs the ingest pipeline: fetch every source, classify,
// insert unseen listings, then deactivate stale ones.
package aggregation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vibejobs-backend/internal/application/listings"
	"vibejobs-backend/internal/application/sources"
	"vibejobs-backend/internal/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrRunInProgress is returned when Run is called while another run in the
// same process has not finished.
var ErrRunInProgress = errors.New("aggregation run already in progress")

// RunRecorder persists run outcomes. Optional.
type RunRecorder interface {
	Record(ctx context.Context, run *domain.AggregationRun) error
}

// SourceCount is the number of listings one fetcher returned.
type SourceCount struct {
	Source  string `json:"source"`
	Fetched int    `json:"fetched"`
}

// Summary describes one completed run.
type Summary struct {
	Fetched     int           `json:"fetched"`
	Inserted    int           `json:"inserted"`
	Skipped     int           `json:"skipped"`
	Failed      int           `json:"failed"`
	Deactivated int64         `json:"deactivated"`
	Sources     []SourceCount `json:"sources"`
	Failures    []ItemResult  `json:"failures"`
	StartedAt   time.Time     `json:"startedAt"`
	FinishedAt  time.Time     `json:"finishedAt"`
}

// Service orchestrates aggregation runs. Runs in one process are serialized;
// runs in different processes are not coordinated.
type Service struct {
	Store    listings.Store
	Fetchers []sources.Fetcher
	Recorder RunRecorder
	// MaxAge overrides DefaultMaxAge for the reconciler.
	MaxAge time.Duration
	// Now is the aggregation clock. Nil means time.Now.
	Now func() time.Time

	mu sync.Mutex
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run performs one aggregation run. Source and item failures are absorbed
// into the summary; an unreachable store fails the whole run.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()

	summary := &Summary{StartedAt: s.now(), Sources: []SourceCount{}, Failures: []ItemResult{}}
	log.Info().Int("sources", len(s.Fetchers)).Msg("aggregation: starting run")

	err := s.run(ctx, summary)
	summary.FinishedAt = s.now()
	s.record(ctx, summary, err)

	if err != nil {
		log.Error().Err(err).Int("inserted", summary.Inserted).Msg("aggregation: run failed")
		return nil, err
	}
	log.Info().
		Int("fetched", summary.Fetched).
		Int("inserted", summary.Inserted).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int64("deactivated", summary.Deactivated).
		Dur("took", summary.FinishedAt.Sub(summary.StartedAt)).
		Msg("aggregation: run complete")
	return summary, nil
}

func (s *Service) run(ctx context.Context, summary *Summary) error {
	if err := s.Store.Ping(ctx); err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}

	batches, err := s.fetchAll(ctx)
	if err != nil {
		return err
	}
	var all []domain.RawListing
	for i, batch := range batches {
		summary.Sources = append(summary.Sources, SourceCount{Source: s.Fetchers[i].Name(), Fetched: len(batch)})
		all = append(all, batch...)
	}
	summary.Fetched = len(all)

	// Sequential so a URL seen twice in one run is inserted once.
	upserter := &Upserter{Store: s.Store}
	for _, raw := range all {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := upserter.Upsert(ctx, raw, s.now())
		switch res.Outcome {
		case OutcomeInserted:
			summary.Inserted++
		case OutcomeSkipped:
			summary.Skipped++
		case OutcomeFailed:
			if isInfrastructure(err) {
				return fmt.Errorf("upsert %s: %w", raw.URL, err)
			}
			summary.Failed++
			summary.Failures = append(summary.Failures, res)
			log.Warn().Err(err).Str("source", raw.Source).Str("url", raw.URL).Msg("aggregation: item failed")
		}
	}

	reconciler := &Reconciler{Store: s.Store, MaxAge: s.MaxAge}
	n, err := reconciler.Reconcile(ctx, s.now())
	if err != nil {
		return err
	}
	summary.Deactivated = n
	return nil
}

// fetchAll runs every fetcher concurrently. Results keep fetcher order.
func (s *Service) fetchAll(ctx context.Context) ([][]domain.RawListing, error) {
	batches := make([][]domain.RawListing, len(s.Fetchers))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range s.Fetchers {
		g.Go(func() error {
			batches[i] = f.Fetch(gctx)
			log.Debug().Str("source", f.Name()).Int("count", len(batches[i])).Msg("aggregation: source fetched")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return batches, nil
}

func (s *Service) record(ctx context.Context, summary *Summary, runErr error) {
	if s.Recorder == nil {
		return
	}
	run := &domain.AggregationRun{
		StartedAt:   summary.StartedAt,
		FinishedAt:  summary.FinishedAt,
		Status:      domain.RunStatusSuccess,
		Fetched:     summary.Fetched,
		Inserted:    summary.Inserted,
		Skipped:     summary.Skipped,
		Failed:      summary.Failed,
		Deactivated: summary.Deactivated,
	}
	if runErr != nil {
		run.Status = domain.RunStatusFailure
		msg := runErr.Error()
		run.Error = &msg
	}
	// A cancelled request context must not lose the record.
	if err := s.Recorder.Record(context.WithoutCancel(ctx), run); err != nil {
		log.Warn().Err(err).Msg("aggregation: failed to record run")
	}
}
