// Package history keeps an audit log of report runs and the outcome of
// every project in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// OutcomeStatus is what happened to one project, or to the combined monthly
// report, during a run.
type OutcomeStatus string

const (
	OutcomeUploaded OutcomeStatus = "uploaded"
	OutcomeSkipped  OutcomeStatus = "skipped"
	OutcomeFailed   OutcomeStatus = "failed"
)

type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// ErrRunNotFound is returned when finishing a run that was never started.
var ErrRunNotFound = errors.New("run not found")

type Run struct {
	ID             int64
	Mode           string
	ReferenceMonth string
	Status         RunStatus
	StartedAt      time.Time
	FinishedAt     time.Time // zero while running
	Uploaded       int
	Skipped        int
	Failed         int
	Error          string
}

type Outcome struct {
	RunID       int64
	ProjectID   string
	ProjectName string
	Status      OutcomeStatus
	Location    string
	Rows        int
	Error       string
	RecordedAt  time.Time
}

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; the job is sequential anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// StartRun opens a run and returns its id.
func (r *SQLiteRepository) StartRun(ctx context.Context, mode, referenceMonth string, startedAt time.Time) (int64, error) {
	id, err := r.queries.CreateRun(ctx, createRunParams{
		Mode:           mode,
		ReferenceMonth: referenceMonth,
		Status:         string(RunRunning),
		StartedAt:      startedAt.UTC().Format(timeLayout),
	})
	if err != nil {
		return 0, fmt.Errorf("create run: %w", err)
	}
	return id, nil
}

// RecordOutcome appends the outcome of one project to run o.RunID.
func (r *SQLiteRepository) RecordOutcome(ctx context.Context, o Outcome) error {
	recordedAt := o.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	err := r.queries.InsertOutcome(ctx, outcomeRow{
		RunID:       o.RunID,
		ProjectID:   o.ProjectID,
		ProjectName: o.ProjectName,
		Status:      string(o.Status),
		Location:    o.Location,
		Rows:        int64(o.Rows),
		Error:       o.Error,
		RecordedAt:  recordedAt.UTC().Format(timeLayout),
	})
	if err != nil {
		return fmt.Errorf("insert outcome for run %d: %w", o.RunID, err)
	}
	return nil
}

// FinishRun closes a run and freezes its per-status counters. runErr is
// stored when the run as a whole failed.
func (r *SQLiteRepository) FinishRun(ctx context.Context, runID int64, status RunStatus, runErr error, finishedAt time.Time) error {
	var msg string
	if runErr != nil {
		msg = runErr.Error()
	}
	n, err := r.queries.FinishRun(ctx, finishRunParams{
		Status:     string(status),
		Error:      msg,
		FinishedAt: finishedAt.UTC().Format(timeLayout),
		ID:         runID,
	})
	if err != nil {
		return fmt.Errorf("finish run %d: %w", runID, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (r *SQLiteRepository) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.queries.ListRecentRuns(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs := make([]Run, 0, len(rows))
	for _, row := range rows {
		run := Run{
			ID:             row.ID,
			Mode:           row.Mode,
			ReferenceMonth: row.ReferenceMonth,
			Status:         RunStatus(row.Status),
			StartedAt:      parseTime(row.StartedAt),
			Uploaded:       int(row.Uploaded),
			Skipped:        int(row.Skipped),
			Failed:         int(row.Failed),
			Error:          row.Error,
		}
		if row.FinishedAt.Valid {
			run.FinishedAt = parseTime(row.FinishedAt.String)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// Outcomes returns the outcomes of a run in the order they were recorded.
func (r *SQLiteRepository) Outcomes(ctx context.Context, runID int64) ([]Outcome, error) {
	rows, err := r.queries.ListOutcomes(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("list outcomes of run %d: %w", runID, err)
	}

	outcomes := make([]Outcome, 0, len(rows))
	for _, row := range rows {
		outcomes = append(outcomes, Outcome{
			RunID:       row.RunID,
			ProjectID:   row.ProjectID,
			ProjectName: row.ProjectName,
			Status:      OutcomeStatus(row.Status),
			Location:    row.Location,
			Rows:        int(row.Rows),
			Error:       row.Error,
			RecordedAt:  parseTime(row.RecordedAt),
		})
	}
	return outcomes, nil
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
