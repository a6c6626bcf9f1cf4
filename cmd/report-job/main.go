// Command report-job fetches every construction report from the platform,
// flattens it and stores the CSV in the configured object store. It runs
// once and exits.
//
// Exit codes: 0 success (skipped projects included), 1 configuration error,
// 2 authentication failure, 3 any other failure.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"obras/internal/api"
	"obras/internal/backend"
	"obras/internal/cli"
	"obras/internal/config"
	"obras/internal/core"
	"obras/internal/history"
	"obras/internal/log"
	"obras/internal/objectstore"
	"obras/internal/services"
)

const (
	exitOK      = 0
	exitConfig  = 1
	exitAuth    = 2
	exitFailure = 3
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	cli.LoadEnvFile()

	view := flag.String("view", "", "print the measurement matrix of one construction `id` instead of uploading")
	field := flag.String("field", "value", "measurement field shown by -view: value or percentage")
	historyN := flag.Int("history", 0, "print the last `N` runs recorded in SQLITE_DB_PATH and exit")
	outcomesOf := flag.Int64("outcomes", 0, "print the project outcomes of run `ID` and exit")
	flag.Parse()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Report job failed unexpectedly", "panic", fmt.Sprint(r))
			code = exitFailure
		}
	}()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		logger.Error("Configuration validation failed", log.NewFields().
			WithError(err, log.ErrorTypeConfiguration).ToSlice()...)
		return exitConfig
	}

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()
	ctx = log.NewContext(ctx, logger)

	switch {
	case *historyN > 0 || *outcomesOf > 0:
		return showHistory(ctx, cfg, *historyN, *outcomesOf, logger)
	case *view != "":
		return showMeasurements(ctx, cfg, *view, *field, logger)
	default:
		return runJob(ctx, cfg, logger)
	}
}

func runJob(ctx context.Context, cfg *config.Config, logger *log.Logger) int {
	ref, err := cfg.Reference(time.Now())
	if err != nil {
		logger.Error("Invalid reference month", log.FieldError, err)
		return exitConfig
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		return exitConfig
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err)
		return exitFailure
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Warn("Cleanup failed", log.FieldOperation, log.OpShutdown, log.FieldError, err)
		}
	}()

	logger.Info("Starting report job", log.NewFields().
		WithOperation(log.OpStartup).
		WithReport(cfg.ReportMode, ref.Key()).
		With("storage", cfg.StorageBackend).ToSlice()...)

	gateway := objectstore.NewGateway(result.Store, cfg.StorageFolder, cfg.WorkDir, logger)
	job := services.NewReportJob(
		api.NewClient(cfg.BaseURL, cfg.HTTPTimeout, logger),
		gateway,
		services.ReportJobConfig{
			Mode:        cfg.Mode(),
			Reference:   ref,
			Credentials: api.Credentials{Email: cfg.Email, Password: cfg.Password},
			SheetPrefix: cfg.GoogleSheetName,
		},
		logger,
	)
	// Interface fields must stay nil when an adapter is disabled.
	if result.Mirror != nil {
		job.WithMirror(result.Mirror)
	}
	if result.Publisher != nil {
		job.WithPublisher(result.Publisher)
	}
	if result.History != nil {
		job.WithRecorder(result.History)
	}

	summary, err := job.Run(ctx)
	if summary != nil {
		if perr := printSummary(os.Stdout, summary); perr != nil {
			logger.Warn("Failed to print summary", log.FieldError, perr)
		}
	}
	return exitCode(err)
}

func showMeasurements(ctx context.Context, cfg *config.Config, id, fieldName string, logger *log.Logger) int {
	f, err := core.ParseField(fieldName)
	if err != nil {
		logger.Error("Invalid -field", log.FieldError, err)
		return exitConfig
	}
	job := services.NewReportJob(
		api.NewClient(cfg.BaseURL, cfg.HTTPTimeout, logger),
		nil,
		services.ReportJobConfig{Credentials: api.Credentials{Email: cfg.Email, Password: cfg.Password}},
		logger,
	)
	t, err := job.MeasurementView(ctx, id, f)
	if err != nil {
		logger.Error("Failed to load measurements", log.FieldProjectID, id, log.FieldError, err)
		return exitCode(err)
	}
	if err := printTable(os.Stdout, t); err != nil {
		logger.Error("Failed to print measurements", log.FieldError, err)
		return exitFailure
	}
	return exitOK
}

func showHistory(ctx context.Context, cfg *config.Config, n int, runID int64, logger *log.Logger) int {
	if cfg.SQLiteDBPath == "" {
		logger.Error("Run history is disabled, set SQLITE_DB_PATH")
		return exitConfig
	}
	repo, err := history.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open run history", log.FieldError, err)
		return exitFailure
	}
	defer repo.Close()

	if runID > 0 {
		outcomes, err := repo.Outcomes(ctx, runID)
		if err != nil {
			logger.Error("Failed to list outcomes", log.FieldRunID, runID, log.FieldError, err)
			return exitFailure
		}
		if err := printOutcomes(os.Stdout, outcomes); err != nil {
			logger.Error("Failed to print outcomes", log.FieldError, err)
			return exitFailure
		}
		return exitOK
	}

	runs, err := repo.RecentRuns(ctx, n)
	if err != nil {
		logger.Error("Failed to list runs", log.FieldError, err)
		return exitFailure
	}
	if err := printHistory(os.Stdout, runs); err != nil {
		logger.Error("Failed to print runs", log.FieldError, err)
		return exitFailure
	}
	return exitOK
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, api.ErrUnauthorized):
		return exitAuth
	default:
		return exitFailure
	}
}
