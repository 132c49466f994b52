package ports

import (
	"context"

	"gouq/domain/core"
	"gouq/domain/study"
)

// StudyListing is a lightweight row for study overviews
type StudyListing struct {
	StudyID   core.StudyID   `json:"study_id" db:"study_id"`
	RunTitle  string         `json:"run_title" db:"run_title"`
	Successes int            `json:"successes" db:"successes"`
	Failures  int            `json:"failures" db:"failures"`
	CreatedAt core.Timestamp `json:"created_at" db:"created_at"`
}

// StudyRepository persists completed study summaries and their per-sample
// failure records
type StudyRepository interface {
	// SaveSummary stores a terminal StudySummary
	SaveSummary(ctx context.Context, summary *study.StudySummary) error

	// GetSummary retrieves a summary by study ID; core.ErrStudyNotFound
	// when absent
	GetSummary(ctx context.Context, id core.StudyID) (*study.StudySummary, error)

	// ListStudies returns the most recent studies, newest first
	ListStudies(ctx context.Context, limit int) ([]StudyListing, error)
}
