// Command report-storage inspects and maintains the report object store.
//
// Usage:
//
//	report-storage check
//	report-storage list [prefix]
//	report-storage upload <file> [key]
//	report-storage download <key> <file>
//	report-storage delete <key>
//	report-storage download-all [prefix] [dir]
//	report-storage selftest
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"obras/internal/backend"
	"obras/internal/cli"
	"obras/internal/config"
	"obras/internal/log"
	"obras/internal/objectstore"
)

func main() {
	cli.LoadEnvFile()
	flag.Usage = usage
	flag.Parse()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	cfg := config.Load()
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid storage configuration", log.FieldError, err)
		os.Exit(1)
	}
	// Only the object store is needed here.
	backendCfg.SpreadsheetID = ""
	backendCfg.AMQPURL = ""
	backendCfg.SQLiteDBPath = ""

	ctx, stop := cli.GracefulShutdown(logger)
	defer stop()
	ctx = log.NewContext(ctx, logger)

	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize storage", log.FieldError, err)
		os.Exit(1)
	}
	defer result.Cleanup()

	tool := &tool{store: result.Store, folder: cfg.StorageFolder, out: os.Stdout}
	if err := tool.dispatch(ctx, flag.Args()); err != nil {
		logger.WithComponent(log.ComponentStorage).Error("Storage command failed", log.NewFields().
			WithOperation(operation(flag.Arg(0))).
			WithError(err, errorType(err)).ToSlice()...)
		stop()
		os.Exit(1)
	}
}

func operation(cmd string) string {
	switch cmd {
	case "upload":
		return log.OpUpload
	case "download", "download-all":
		return log.OpDownload
	case "list":
		return log.OpList
	case "delete":
		return log.OpDelete
	default:
		return cmd
	}
}

func errorType(err error) string {
	switch {
	case objectstore.IsNotFound(err):
		return log.ErrorTypeNotFound
	case errors.Is(err, errUsage):
		return log.ErrorTypeInput
	default:
		return log.ErrorTypeInternal
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage: report-storage <command> [args]

commands:
  check                       verify the bucket is reachable and writable
  list [prefix]               list objects, optionally under prefix
  upload <file> [key]         upload a local file (default key: <STORAGE_FOLDER>/<file name>)
  download <key> <file>       download one object
  delete <key>                delete one object
  download-all [prefix] [dir] download every object under prefix into dir (default "downloads")
  selftest                    upload, list, download and delete a probe file
`)
}
