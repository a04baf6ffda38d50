// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/qnexp/internal/catalog"
	"github.com/specialistvlad/qnexp/internal/compose"
	"github.com/specialistvlad/qnexp/internal/ctxlog"
	"github.com/specialistvlad/qnexp/internal/document"
	"github.com/specialistvlad/qnexp/internal/engine"
	"github.com/specialistvlad/qnexp/internal/simconfig"
	"golang.org/x/sync/errgroup"
)

// validate checks every experiment found under the configured paths and
// writes one report per experiment.
func (a *App) validate(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	appDoc, err := a.loadApplication(ctx)
	if err != nil {
		return err
	}
	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	exps, err := a.loadExperiments(ctx)
	if err != nil {
		return err
	}

	logger.Info("🔎 Validating experiments...", "count", len(exps), "workers", a.config.WorkerCount)
	results, err := a.validateAll(ctx, appDoc, cat, exps)
	if err != nil {
		return fmt.Errorf("validation aborted: %w", err)
	}

	failed := 0
	for _, res := range results {
		if !res.Valid() {
			failed++
		}
	}
	if err := a.writeResults(exps, results); err != nil {
		return err
	}
	logger.Info("🏁 Validation finished.", "experiments", len(results), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d experiment(s) have errors", ErrValidationFailed, failed, len(results))
	}
	return nil
}

// validateAll validates the experiments concurrently, bounded by the worker
// count. Results keep the order of exps.
func (a *App) validateAll(ctx context.Context, appDoc *document.Document, cat *catalog.Catalog, exps []*document.Document) ([]*engine.Result, error) {
	results := make([]*engine.Result, len(exps))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.WorkerCount)
	for i, exp := range exps {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = a.engine.ValidateExperiment(gCtx, engine.Inputs{
				Application: appDoc,
				Catalog:     cat,
				Experiment:  exp,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// validateOne validates the single configured experiment. An invalid
// experiment has its report written and yields ErrValidationFailed.
func (a *App) validateOne(ctx context.Context) (*engine.Result, error) {
	logger := ctxlog.FromContext(ctx)

	appDoc, err := a.loadApplication(ctx)
	if err != nil {
		return nil, err
	}
	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	exps, err := a.loadExperiments(ctx)
	if err != nil {
		return nil, err
	}
	if len(exps) != 1 {
		return nil, fmt.Errorf("expected one experiment, found %d", len(exps))
	}

	res := a.engine.ValidateExperiment(ctx, engine.Inputs{Application: appDoc, Catalog: cat, Experiment: exps[0]})
	if !res.Valid() {
		if err := a.writeResults(exps, []*engine.Result{res}); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, exps[0].Name)
	}
	for _, f := range res.Report.Findings() {
		logger.Warn("Experiment has a warning.", "source", f.Source, "path", f.Path, "kind", f.Kind, "message", f.Message)
	}
	return res, nil
}

// compose writes the resolved asset of one experiment.
func (a *App) compose(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	res, err := a.validateOne(ctx)
	if err != nil {
		return err
	}
	data, err := compose.Marshal(res.Asset)
	if err != nil {
		return err
	}
	digest, err := compose.Digest(res.Asset)
	if err != nil {
		return err
	}
	logger.Info("Asset composed.", "network", res.Asset.Network.Slug, "digest", digest)
	return a.writeOutput(ctx, data)
}

// render writes the simulator input files of one experiment.
func (a *App) render(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	res, err := a.validateOne(ctx)
	if err != nil {
		return err
	}
	files, err := simconfig.Render(res.Asset, simconfig.Options{FullyConnected: a.config.FullyConnected})
	if err != nil {
		return fmt.Errorf("failed to render simulator input: %w", err)
	}
	if err := files.WriteDir(a.config.OutPath); err != nil {
		return err
	}
	for _, name := range files.Names() {
		fmt.Fprintln(a.outW, name)
	}
	logger.Info("Simulator input written.", "dir", a.config.OutPath, "files", len(files))
	return nil
}
