package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RunStatusSuccess = "success"
	RunStatusFailure = "failure"
)

// AggregationRun records the outcome of one aggregation run.
type AggregationRun struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	StartedAt   time.Time `gorm:"column:started_at;not null;index" json:"startedAt"`
	FinishedAt  time.Time `gorm:"column:finished_at;not null" json:"finishedAt"`
	Status      string    `gorm:"column:status;type:varchar(20);not null" json:"status"`
	Fetched     int       `gorm:"column:fetched;not null" json:"fetched"`
	Inserted    int       `gorm:"column:inserted;not null" json:"inserted"`
	Skipped     int       `gorm:"column:skipped;not null" json:"skipped"`
	Failed      int       `gorm:"column:failed;not null" json:"failed"`
	Deactivated int64     `gorm:"column:deactivated;not null" json:"deactivated"`
	Error       *string   `gorm:"column:error" json:"error"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (AggregationRun) TableName() string {
	return "aggregation_runs"
}

func (r *AggregationRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
