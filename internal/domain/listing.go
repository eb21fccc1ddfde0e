package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LocationType is where the work happens. Exactly one per listing.
type LocationType string

const (
	LocationRemoteGlobal LocationType = "REMOTE_GLOBAL"
	LocationHybrid       LocationType = "HYBRID"
	LocationOnsite       LocationType = "ONSITE"
)

// JobType covers jobs as well as the non-job opportunity types (tenders, grants).
type JobType string

const (
	JobFullTime  JobType = "FULL_TIME"
	JobPartTime  JobType = "PART_TIME"
	JobContract  JobType = "CONTRACT"
	JobFreelance JobType = "FREELANCE"
	JobTender    JobType = "TENDER"
	JobGrant     JobType = "GRANT"
)

// Category is the fixed listing taxonomy.
type Category string

const (
	CategoryAIMLEngineering     Category = "AI_ML_ENGINEERING"
	CategoryVibeCoding          Category = "VIBE_CODING"
	CategoryAICorporateTraining Category = "AI_CORPORATE_TRAINING"
	CategoryAIGovernance        Category = "AI_GOVERNANCE"
	CategoryAIImplementation    Category = "AI_IMPLEMENTATION"
	CategoryOther               Category = "OTHER"
)

var (
	locationTypes = []LocationType{LocationRemoteGlobal, LocationHybrid, LocationOnsite}
	jobTypes      = []JobType{JobFullTime, JobPartTime, JobContract, JobFreelance, JobTender, JobGrant}
	categories    = []Category{
		CategoryAIMLEngineering, CategoryVibeCoding, CategoryAICorporateTraining,
		CategoryAIGovernance, CategoryAIImplementation, CategoryOther,
	}
)

// Valid reports whether l is one of the known location types.
func (l LocationType) Valid() bool {
	for _, v := range locationTypes {
		if v == l {
			return true
		}
	}
	return false
}

// Valid reports whether j is one of the known job types.
func (j JobType) Valid() bool {
	for _, v := range jobTypes {
		if v == j {
			return true
		}
	}
	return false
}

// Scored reports whether listings of this type carry a suitability score.
// Tenders and grants are opportunities, not jobs, and are never scored.
func (j JobType) Scored() bool {
	return j != JobTender && j != JobGrant
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, v := range categories {
		if v == c {
			return true
		}
	}
	return false
}

// RawListing is one unclassified record from an external source. A zero
// PostedAt means the provider sent no usable timestamp.
type RawListing struct {
	Source      string
	Title       string `validate:"required"`
	Company     string `validate:"required"`
	Description string
	Location    string
	URL         string `validate:"required,url"`
	Tags        []string
	PostedAt    time.Time
	JobTypeHint string
	Salary      string
}

// Listing is a persisted job, tender or grant.
type Listing struct {
	ID               uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title            string                      `gorm:"column:title;not null" json:"title"`
	Company          string                      `gorm:"column:company;not null" json:"company"`
	Description      string                      `gorm:"column:description;type:text;not null" json:"description"`
	Location         string                      `gorm:"column:location;not null" json:"location"`
	LocationType     LocationType                `gorm:"column:location_type;type:varchar(20);not null;index" json:"locationType"`
	JobType          JobType                     `gorm:"column:job_type;type:varchar(20);not null;index" json:"jobType"`
	Category         Category                    `gorm:"column:category;type:varchar(32);not null;index" json:"category"`
	SuitabilityScore *int                        `gorm:"column:suitability_score" json:"suitabilityScore"`
	Salary           *string                     `gorm:"column:salary" json:"salary"`
	Source           string                      `gorm:"column:source;not null" json:"source"`
	SourceURL        string                      `gorm:"column:source_url;not null;index" json:"sourceUrl"`
	Tags             datatypes.JSONSlice[string] `gorm:"column:tags" json:"tags"`
	IsActive         bool                        `gorm:"column:is_active;not null;index" json:"isActive"`
	IsRegionalOnly   bool                        `gorm:"column:is_regional_only;not null" json:"isRegionalOnly"`
	IsImpactProgram  bool                        `gorm:"column:is_impact_program;not null" json:"isImpactProgram"`
	PostedAt         time.Time                   `gorm:"column:posted_at;not null;index" json:"postedAt"`
	CreatedAt        time.Time                   `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt        time.Time                   `gorm:"column:updated_at" json:"updatedAt"`
}

func (Listing) TableName() string {
	return "job_listings"
}

// BeforeCreate sets the id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Tags == nil {
		l.Tags = datatypes.JSONSlice[string]{}
	}
	return nil
}
