// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/specialistvlad/qnexp/internal/app"
)

// Environment variables providing defaults for --app and --catalog.
const (
	EnvApp     = "QNEXP_APP"
	EnvCatalog = "QNEXP_CATALOG"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(msg string) *ExitError {
	return &ExitError{Code: 2, Message: msg}
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	if v == "" {
		return errors.New("value must not be empty")
	}
	*s = append(*s, v)
	return nil
}

const usageText = `
qnexp - validates quantum network experiments and composes their assets.

Usage:
  qnexp validate --app PATH --catalog FILE [options] EXPERIMENT_PATH...
  qnexp compose  --app PATH --catalog FILE [--out FILE] EXPERIMENT_PATH
  qnexp render   --app PATH --catalog FILE --out DIR [--fully-connected] EXPERIMENT_PATH
  qnexp create   --app PATH --catalog FILE --network SLUG --name NAME [--out FILE]
  qnexp derive   --app PATH --catalog FILE [--out FILE]
  qnexp networks --catalog FILE
  qnexp schema   --kind application|network|experiment|network-view

Arguments:
  EXPERIMENT_PATH
    Path to an experiment file, or a directory searched recursively for
    experiment.json and experiment.hcl files.

Environment:
  QNEXP_APP, QNEXP_CATALOG
    Defaults for --app and --catalog. A .env file in the working directory
    is read when present.

Options:
`

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using system environment variables.")
	}

	flagSet := flag.NewFlagSet("qnexp", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, usageText)
		flagSet.PrintDefaults()
	}

	if len(args) == 0 {
		slog.Debug("No command provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	command := ""
	if !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	appFlag := flagSet.String("app", os.Getenv(EnvApp), "Path to the application file or directory.")
	catalogFlag := flagSet.String("catalog", os.Getenv(EnvCatalog), "Path to the network catalog file.")
	outFlag := flagSet.String("out", "", "Output file (compose, create, derive) or directory (render). Defaults to stdout.")
	networkFlag := flagSet.String("network", "", "Catalog network slug for create.")
	nameFlag := flagSet.String("name", "", "Experiment name for create.")
	descriptionFlag := flagSet.String("description", "", "Experiment description for create.")
	roundsFlag := flagSet.Int("rounds", 1, "Number of rounds for create.")
	kindFlag := flagSet.String("kind", "", "Document kind for schema.")
	fullyConnectedFlag := flagSet.Bool("fully-connected", false, "Render one derived link per pair of bound nodes.")
	repairFlag := flagSet.Bool("repair", false, "Repair malformed JSON documents before parsing.")
	formatFlag := flagSet.String("format", "text", "Report output format. Options: 'text' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 4, "Number of experiments validated concurrently.")
	var scalable stringList
	flagSet.Var(&scalable, "scalable-unit", "Additional unit tag whose values may be scaled. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, usageError(err.Error())
	}
	slog.Debug("Arguments parsed successfully.", "command", command)

	if command == "" {
		flagSet.Usage()
		return nil, false, usageError("a command is required")
	}

	config, err := app.NewConfig(app.Config{
		Command:        command,
		AppPath:        *appFlag,
		CatalogPath:    *catalogFlag,
		Paths:          flagSet.Args(),
		OutPath:        *outFlag,
		Network:        *networkFlag,
		Name:           *nameFlag,
		Description:    *descriptionFlag,
		Rounds:         *roundsFlag,
		Kind:           *kindFlag,
		FullyConnected: *fullyConnectedFlag,
		Repair:         *repairFlag,
		ScalableUnits:  scalable,
		Format:         strings.ToLower(*formatFlag),
		LogFormat:      strings.ToLower(*logFormatFlag),
		LogLevel:       strings.ToLower(*logLevelFlag),
		WorkerCount:    *workersFlag,
	})
	if err != nil {
		return nil, false, usageError(err.Error())
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
