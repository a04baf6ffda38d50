// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/specialistvlad/qnexp/internal/ctxlog"
	"github.com/specialistvlad/qnexp/internal/document"
	"github.com/specialistvlad/qnexp/internal/engine"
	"github.com/specialistvlad/qnexp/internal/units"
)

// ErrValidationFailed is returned by Run when a document has error findings.
// The report itself has already been written to the output.
var ErrValidationFailed = errors.New("validation failed")

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	engine *engine.Engine
	runID  string
}

// NewApp is the constructor for the main application. Command output goes to
// outW and logs to logW. Each App gets its own logger and engine.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	runID, err := gonanoid.New()
	if err != nil {
		runID = "unknown"
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	reg := units.NewRegistry(cfg.ScalableUnits...)
	logger.Debug("Unit registry configured.", "scalable_units", reg.Units())

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
		engine: engine.New(reg),
		runID:  runID,
	}
}

// RunID identifies this App's log lines.
func (a *App) RunID() string {
	return a.runID
}

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "command", a.config.Command)

	cmd, ok := commands[a.config.Command]
	if !ok {
		return errUnknownCommand(a.config.Command)
	}
	err := cmd(a, ctx)

	a.logger.Debug("App.Run method finished.", "command", a.config.Command, "error", err)
	return err
}

func (a *App) options() document.Options {
	return document.Options{Repair: a.config.Repair}
}
