package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gouq/domain/core"
	"gouq/domain/study"
	"gouq/ports"

	"github.com/jmoiron/sqlx"
)

// StudyRepositoryImpl implements StudyRepository for PostgreSQL. The full
// summary is stored as a JSON document next to the queryable columns; the
// per-sample failures go to a child table for diagnosis queries.
type StudyRepositoryImpl struct {
	db *sqlx.DB
}

// NewStudyRepository creates a new PostgreSQL study repository
func NewStudyRepository(db *sqlx.DB) *StudyRepositoryImpl {
	return &StudyRepositoryImpl{db: db}
}

// Migrate creates the repository's tables if they do not exist
func (r *StudyRepositoryImpl) Migrate(ctx context.Context) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS studies (
			study_id   TEXT PRIMARY KEY,
			run_title  TEXT NOT NULL,
			seed       BIGINT NOT NULL,
			successes  INTEGER NOT NULL,
			failures   INTEGER NOT NULL,
			summary    JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS study_failures (
			study_id     TEXT NOT NULL REFERENCES studies(study_id) ON DELETE CASCADE,
			sample_index INTEGER NOT NULL,
			reason       TEXT NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate studies schema: %w", err)
		}
	}
	return nil
}

// SaveSummary stores a terminal StudySummary and its failure records
func (r *StudyRepositoryImpl) SaveSummary(ctx context.Context, summary *study.StudySummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal study summary: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO studies (study_id, run_title, seed, successes, failures, summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (study_id) DO UPDATE
		SET run_title = EXCLUDED.run_title, successes = EXCLUDED.successes,
		    failures = EXCLUDED.failures, summary = EXCLUDED.summary
	`, summary.StudyID, summary.RunTitle, summary.Seed, summary.Successes,
		summary.Failures, payload, summary.CreatedAt.Time())
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM study_failures WHERE study_id = $1`, summary.StudyID); err != nil {
		return err
	}
	for _, f := range summary.Failed {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO study_failures (study_id, sample_index, reason)
			VALUES ($1, $2, $3)
		`, summary.StudyID, f.Index, f.Reason)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetSummary retrieves a summary by study ID
func (r *StudyRepositoryImpl) GetSummary(ctx context.Context, id core.StudyID) (*study.StudySummary, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload,
		`SELECT summary FROM studies WHERE study_id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrStudyNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var summary study.StudySummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal study summary %s: %w", id, err)
	}
	return &summary, nil
}

// ListStudies returns the most recent studies, newest first
func (r *StudyRepositoryImpl) ListStudies(ctx context.Context, limit int) ([]ports.StudyListing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows := []ports.StudyListing{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT study_id, run_title, successes, failures, created_at
		FROM studies
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Ensure StudyRepositoryImpl implements the port
var _ ports.StudyRepository = (*StudyRepositoryImpl)(nil)
