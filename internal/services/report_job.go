// Package services orchestrates a report run: authenticate, fetch every
// project, flatten it and hand the table to storage and the optional
// mirror, notification and history adapters.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"obras/internal/amqp"
	"obras/internal/api"
	"obras/internal/core"
	"obras/internal/history"
	"obras/internal/log"
	"obras/internal/report"
	"obras/internal/sheets"
)

// ErrNothingUploaded is returned when every attempted upload failed.
var ErrNothingUploaded = errors.New("no report was uploaded")

// Ports consumed by the job.
type (
	ReportSource interface {
		FetchSession(ctx context.Context, creds api.Credentials) (*api.Session, error)
		FetchProjectReport(ctx context.Context, id, token string) (*api.ProjectPayload, error)
	}

	// TableUploader stores a table under name and returns its location.
	TableUploader interface {
		WriteAndUpload(ctx context.Context, t report.Table, name string) (string, error)
	}

	Publisher interface {
		PublishReport(ctx context.Context, msg *amqp.ReportPublishedMessage) error
	}

	RunRecorder interface {
		StartRun(ctx context.Context, mode, referenceMonth string, startedAt time.Time) (int64, error)
		RecordOutcome(ctx context.Context, o history.Outcome) error
		FinishRun(ctx context.Context, runID int64, status history.RunStatus, runErr error, finishedAt time.Time) error
	}
)

// ReportJobConfig holds the parameters of one run
type ReportJobConfig struct {
	Mode        report.Mode
	Reference   core.Month // single mode only
	Credentials api.Credentials
	// SheetPrefix is prepended to mirrored tab titles.
	SheetPrefix string
	// Now stamps file names; defaults to time.Now.
	Now func() time.Time
}

// ProjectResult is the outcome of one uploaded or skipped report.
type ProjectResult struct {
	ProjectID   string
	ProjectName string
	Location    string
	Rows        int
	Err         error
}

// RunSummary reports what a run did.
type RunSummary struct {
	RunID     int64
	Mode      report.Mode
	Projects  int
	Uploaded  []ProjectResult
	Skipped   []ProjectResult
	Failed    []ProjectResult
	StartedAt time.Time
	Duration  time.Duration
}

type ReportJob struct {
	source    ReportSource
	uploader  TableUploader
	mirror    sheets.TableWriter
	publisher Publisher
	recorder  RunRecorder
	config    ReportJobConfig
	logger    *log.Logger
}

// NewReportJob creates a job. Optional adapters are attached with the With
// methods.
func NewReportJob(source ReportSource, uploader TableUploader, config ReportJobConfig, logger *log.Logger) *ReportJob {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Mode == "" {
		config.Mode = report.ModeSingle
	}
	return &ReportJob{
		source:   source,
		uploader: uploader,
		config:   config,
		logger:   logger.WithComponent(log.ComponentJob),
	}
}

func (j *ReportJob) WithMirror(m sheets.TableWriter) *ReportJob {
	j.mirror = m
	return j
}

func (j *ReportJob) WithPublisher(p Publisher) *ReportJob {
	j.publisher = p
	return j
}

func (j *ReportJob) WithRecorder(r RunRecorder) *ReportJob {
	j.recorder = r
	return j
}

// Run processes every construction listed in the session. Authentication
// failures abort the run before anything is written. A project whose report
// is missing or invalid is skipped and the batch goes on.
func (j *ReportJob) Run(ctx context.Context) (*RunSummary, error) {
	if !j.config.Mode.IsValid() {
		return nil, fmt.Errorf("invalid report mode: %s", j.config.Mode)
	}
	summary := &RunSummary{Mode: j.config.Mode, StartedAt: j.config.Now()}
	summary.RunID = j.startRun(ctx, summary.StartedAt)

	err := j.run(ctx, summary)
	summary.Duration = j.config.Now().Sub(summary.StartedAt)
	j.finishRun(ctx, summary, err)

	if err != nil {
		j.logger.ErrorContext(ctx, "Report run failed", log.FieldError, err, log.FieldRunID, summary.RunID)
		return summary, err
	}
	j.logger.InfoContext(ctx, "Report run finished",
		log.FieldRunID, summary.RunID,
		log.FieldMode, summary.Mode.String(),
		"projects", summary.Projects,
		"uploaded", len(summary.Uploaded),
		"skipped", len(summary.Skipped),
		"failed", len(summary.Failed))
	return summary, nil
}

func (j *ReportJob) run(ctx context.Context, summary *RunSummary) error {
	session, err := j.source.FetchSession(ctx, j.config.Credentials)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	summary.Projects = len(session.Constructions)
	if summary.Projects == 0 {
		j.logger.WarnContext(ctx, "Session lists no constructions")
	}

	var monthly report.Table
	for _, c := range session.Constructions {
		if err := ctx.Err(); err != nil {
			return err
		}

		project, ok := j.fetchProject(ctx, summary, c, session.AccessToken)
		if !ok {
			continue
		}

		if j.config.Mode == report.ModeMonthly {
			t := report.MonthlyProject(project)
			if err := monthly.Append(t); err != nil {
				return fmt.Errorf("append %s: %w", project.Name, err)
			}
			j.logger.DebugContext(ctx, "Project flattened",
				log.FieldProjectID, project.ID, log.FieldProjectName, project.Name, log.FieldRows, t.Len())
			continue
		}

		t := report.Single(project, j.config.Reference)
		name := report.FileName(project, summary.StartedAt)
		j.deliver(ctx, summary, project.ID, project.Name, t, name)
	}

	if j.config.Mode == report.ModeMonthly {
		if monthly.Len() == 0 {
			j.logger.InfoContext(ctx, "No measurements found, nothing to upload", log.FieldMode, report.ModeMonthly.String())
			return nil
		}
		if !j.deliver(ctx, summary, "", "", monthly, report.MonthlyFileName(summary.StartedAt)) {
			return fmt.Errorf("monthly report: %w", summary.Failed[len(summary.Failed)-1].Err)
		}
		return nil
	}

	if len(summary.Failed) > 0 && len(summary.Uploaded) == 0 {
		return fmt.Errorf("%w: %d of %d projects failed", ErrNothingUploaded, len(summary.Failed), summary.Projects)
	}
	return nil
}

// fetchProject fetches and resolves one construction. Missing reports are
// recorded as skipped and invalid payloads as failed.
func (j *ReportJob) fetchProject(ctx context.Context, summary *RunSummary, c api.Construction, token string) (core.Project, bool) {
	id := c.ID.String()
	payload, err := j.source.FetchProjectReport(ctx, id, token)
	if err != nil {
		j.logger.WarnContext(ctx, "Skipping construction without report", log.NewFields().
			WithOperation(log.OpFetch).
			WithProject(id, c.Name).
			WithError(err, log.ErrorTypeNotFound).ToSlice()...)
		j.record(ctx, summary, history.OutcomeSkipped, ProjectResult{ProjectID: id, ProjectName: c.Name, Err: err})
		return core.Project{}, false
	}

	project, err := payload.Resolve()
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid construction report", log.NewFields().
			WithProject(id, c.Name).
			WithError(err, log.ErrorTypeInput).ToSlice()...)
		j.record(ctx, summary, history.OutcomeFailed, ProjectResult{ProjectID: id, ProjectName: c.Name, Err: err})
		return core.Project{}, false
	}
	if project.Name == "" {
		project.Name = c.Name
	}
	return project, true
}

// deliver uploads t and fans it out to the mirror and the publisher. It
// reports whether the upload succeeded.
func (j *ReportJob) deliver(ctx context.Context, summary *RunSummary, projectID, projectName string, t report.Table, name string) bool {
	result := ProjectResult{ProjectID: projectID, ProjectName: projectName, Rows: t.Len()}

	location, err := j.uploader.WriteAndUpload(ctx, t, name)
	if err != nil {
		result.Err = err
		j.logger.ErrorContext(ctx, "Report upload failed",
			log.FieldProjectID, projectID, log.FieldProjectName, projectName, log.FieldError, err)
		j.record(ctx, summary, history.OutcomeFailed, result)
		return false
	}
	result.Location = location
	j.record(ctx, summary, history.OutcomeUploaded, result)

	j.logger.InfoContext(ctx, "Report stored",
		log.FieldProjectID, projectID,
		log.FieldProjectName, projectName,
		log.FieldLocation, location,
		log.FieldRows, t.Len())

	if j.mirror != nil {
		title := sheets.TabTitle(j.config.SheetPrefix, name)
		if _, err := j.mirror.WriteTable(ctx, title, t); err != nil {
			j.logger.WarnContext(ctx, "Sheets mirror failed",
				log.FieldOperation, log.OpMirror, log.FieldLocation, location, log.FieldError, err)
		}
	}

	if j.publisher != nil {
		msg := amqp.NewReportPublishedMessage(location, projectID, projectName,
			j.config.Mode.String(), j.referenceKey(), t.Len())
		if err := j.publisher.PublishReport(ctx, msg); err != nil {
			j.logger.WarnContext(ctx, "Report notification failed",
				log.FieldOperation, log.OpPublish, log.FieldLocation, location, log.FieldError, err)
		}
	}
	return true
}

func (j *ReportJob) record(ctx context.Context, summary *RunSummary, status history.OutcomeStatus, result ProjectResult) {
	switch status {
	case history.OutcomeUploaded:
		summary.Uploaded = append(summary.Uploaded, result)
	case history.OutcomeSkipped:
		summary.Skipped = append(summary.Skipped, result)
	default:
		summary.Failed = append(summary.Failed, result)
	}

	if j.recorder == nil || summary.RunID == 0 {
		return
	}
	o := history.Outcome{
		RunID:       summary.RunID,
		ProjectID:   result.ProjectID,
		ProjectName: result.ProjectName,
		Status:      status,
		Location:    result.Location,
		Rows:        result.Rows,
		RecordedAt:  j.config.Now(),
	}
	if result.Err != nil {
		o.Error = result.Err.Error()
	}
	if err := j.recorder.RecordOutcome(ctx, o); err != nil {
		j.logger.WarnContext(ctx, "Failed to record outcome",
			log.FieldOperation, log.OpRecord, log.FieldRunID, summary.RunID, log.FieldError, err)
	}
}

func (j *ReportJob) startRun(ctx context.Context, startedAt time.Time) int64 {
	if j.recorder == nil {
		return 0
	}
	id, err := j.recorder.StartRun(ctx, j.config.Mode.String(), j.referenceKey(), startedAt)
	if err != nil {
		j.logger.WarnContext(ctx, "Failed to record run start, history disabled for this run",
			log.FieldOperation, log.OpRecord, log.FieldError, err)
		return 0
	}
	return id
}

func (j *ReportJob) finishRun(ctx context.Context, summary *RunSummary, runErr error) {
	if j.recorder == nil || summary.RunID == 0 {
		return
	}
	status := history.RunSucceeded
	if runErr != nil {
		status = history.RunFailed
	}
	// The run context may already be cancelled; the final row is still written.
	if err := j.recorder.FinishRun(context.WithoutCancel(ctx), summary.RunID, status, runErr, j.config.Now()); err != nil {
		j.logger.WarnContext(ctx, "Failed to record run end",
			log.FieldOperation, log.OpRecord, log.FieldRunID, summary.RunID, log.FieldError, err)
	}
}

func (j *ReportJob) referenceKey() string {
	if j.config.Mode != report.ModeSingle || j.config.Reference.IsZero() {
		return ""
	}
	return j.config.Reference.Key()
}

// MeasurementView fetches one construction and lays out field of its
// measurements as a service by month matrix.
func (j *ReportJob) MeasurementView(ctx context.Context, projectID string, field core.Field) (report.Table, error) {
	session, err := j.source.FetchSession(ctx, j.config.Credentials)
	if err != nil {
		return report.Table{}, fmt.Errorf("open session: %w", err)
	}
	payload, err := j.source.FetchProjectReport(ctx, projectID, session.AccessToken)
	if err != nil {
		return report.Table{}, fmt.Errorf("fetch construction %s: %w", projectID, err)
	}
	project, err := payload.Resolve()
	if err != nil {
		return report.Table{}, fmt.Errorf("resolve construction %s: %w", projectID, err)
	}
	return report.MeasurementMatrix(project, field), nil
}
