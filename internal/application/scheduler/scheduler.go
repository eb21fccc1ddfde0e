// Package scheduler runs aggregation on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"

	"vibejobs-backend/internal/application/aggregation"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Runner is satisfied by *aggregation.Service.
type Runner interface {
	Run(ctx context.Context) (*aggregation.Summary, error)
}

// Scheduler wraps robfig/cron and fires one aggregation run per tick.
// Ticks that land while a run is still going are skipped.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	spec   string
}

// New validates spec (standard five-field cron or a descriptor such as
// "@every 6h") and returns a stopped scheduler.
func New(runner Runner, spec string) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid AGGREGATE_SCHEDULE %q: %w", spec, err)
	}
	logger := cronLogger{}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		runner: runner,
		spec:   spec,
	}, nil
}

// Start registers the job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.runOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("scheduler: cron started")
	return nil
}

// Stop stops scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Info().Msg("scheduler: cron stopped")
}

func (s *Scheduler) runOnce(ctx context.Context) {
	summary, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, aggregation.ErrRunInProgress):
		log.Info().Msg("scheduler: run already in progress, skipping tick")
	case err != nil:
		log.Error().Err(err).Msg("scheduler: aggregation failed")
	default:
		log.Info().Int("inserted", summary.Inserted).Int64("deactivated", summary.Deactivated).Msg("scheduler: aggregation done")
	}
}

// cronLogger sends robfig/cron logs through zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
