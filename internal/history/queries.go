package history

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

type runRow struct {
	ID             int64
	Mode           string
	ReferenceMonth string
	Status         string
	StartedAt      string
	FinishedAt     sql.NullString
	Uploaded       int64
	Skipped        int64
	Failed         int64
	Error          string
}

type outcomeRow struct {
	ID          int64
	RunID       int64
	ProjectID   string
	ProjectName string
	Status      string
	Location    string
	Rows        int64
	Error       string
	RecordedAt  string
}

const createRun = `-- name: CreateRun :one
INSERT INTO runs (mode, reference_month, status, started_at)
VALUES (?, ?, ?, ?)
RETURNING id`

type createRunParams struct {
	Mode           string
	ReferenceMonth string
	Status         string
	StartedAt      string
}

func (q *Queries) CreateRun(ctx context.Context, arg createRunParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createRun, arg.Mode, arg.ReferenceMonth, arg.Status, arg.StartedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const insertOutcome = `-- name: InsertOutcome :exec
INSERT INTO outcomes (run_id, project_id, project_name, status, location, row_count, error, recorded_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertOutcome(ctx context.Context, arg outcomeRow) error {
	_, err := q.db.ExecContext(ctx, insertOutcome,
		arg.RunID, arg.ProjectID, arg.ProjectName, arg.Status,
		arg.Location, arg.Rows, arg.Error, arg.RecordedAt,
	)
	return err
}

const finishRun = `-- name: FinishRun :execrows
UPDATE runs SET
    status      = ?,
    error       = ?,
    finished_at = ?,
    uploaded    = (SELECT COUNT(*) FROM outcomes WHERE run_id = runs.id AND status = 'uploaded'),
    skipped     = (SELECT COUNT(*) FROM outcomes WHERE run_id = runs.id AND status = 'skipped'),
    failed      = (SELECT COUNT(*) FROM outcomes WHERE run_id = runs.id AND status = 'failed')
WHERE id = ?`

type finishRunParams struct {
	Status     string
	Error      string
	FinishedAt string
	ID         int64
}

func (q *Queries) FinishRun(ctx context.Context, arg finishRunParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, finishRun, arg.Status, arg.Error, arg.FinishedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listRecentRuns = `-- name: ListRecentRuns :many
SELECT id, mode, reference_month, status, started_at, finished_at, uploaded, skipped, failed, error
FROM runs
ORDER BY id DESC
LIMIT ?`

func (q *Queries) ListRecentRuns(ctx context.Context, limit int64) ([]runRow, error) {
	rows, err := q.db.QueryContext(ctx, listRecentRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []runRow
	for rows.Next() {
		var i runRow
		if err := rows.Scan(
			&i.ID,
			&i.Mode,
			&i.ReferenceMonth,
			&i.Status,
			&i.StartedAt,
			&i.FinishedAt,
			&i.Uploaded,
			&i.Skipped,
			&i.Failed,
			&i.Error,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listOutcomes = `-- name: ListOutcomes :many
SELECT id, run_id, project_id, project_name, status, location, row_count, error, recorded_at
FROM outcomes
WHERE run_id = ?
ORDER BY id`

func (q *Queries) ListOutcomes(ctx context.Context, runID int64) ([]outcomeRow, error) {
	rows, err := q.db.QueryContext(ctx, listOutcomes, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []outcomeRow
	for rows.Next() {
		var i outcomeRow
		if err := rows.Scan(
			&i.ID,
			&i.RunID,
			&i.ProjectID,
			&i.ProjectName,
			&i.Status,
			&i.Location,
			&i.Rows,
			&i.Error,
			&i.RecordedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
