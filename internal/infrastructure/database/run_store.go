package database

import (
	"context"

	"vibejobs-backend/internal/domain"

	"gorm.io/gorm"
)

// RunStore persists aggregation run records.
type RunStore struct {
	DB *gorm.DB
}

func (s *RunStore) Record(ctx context.Context, run *domain.AggregationRun) error {
	run.StartedAt = run.StartedAt.UTC()
	run.FinishedAt = run.FinishedAt.UTC()
	return wrap(s.DB.WithContext(ctx).Create(run).Error)
}

// Latest returns the most recently started run, or nil when none exists.
func (s *RunStore) Latest(ctx context.Context) (*domain.AggregationRun, error) {
	var runs []domain.AggregationRun
	if err := s.DB.WithContext(ctx).Order("started_at DESC").Limit(1).Find(&runs).Error; err != nil {
		return nil, wrap(err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}
