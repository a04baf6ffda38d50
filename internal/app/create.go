// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/qnexp/internal/ctxlog"
	"github.com/specialistvlad/qnexp/internal/engine"
	"github.com/specialistvlad/qnexp/internal/model"
)

// checkedApplication loads the application and stops with its report when
// it has errors.
func (a *App) checkedApplication(ctx context.Context) (*model.Application, error) {
	doc, err := a.loadApplication(ctx)
	if err != nil {
		return nil, err
	}
	r := a.engine.ValidateApplication(ctx, doc)
	if r.HasErrors() {
		if err := a.writeReport(doc.Name, r); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, doc.Name)
	}
	app, _ := a.engine.LoadApplication(doc)
	return app, nil
}

// create writes a new experiment for the application on a catalog network.
func (a *App) create(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	app, err := a.checkedApplication(ctx)
	if err != nil {
		return err
	}
	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	if cat.Findings().HasErrors() {
		logger.Warn("Network catalog has errors, broken networks are unavailable.", "errors", len(cat.Findings().Errors()))
	}

	exp, err := a.engine.NewExperiment(ctx, app, cat, engine.CreateRequest{
		Name:        a.config.Name,
		Description: a.config.Description,
		Network:     a.config.Network,
		Rounds:      a.config.Rounds,
	})
	if err != nil {
		return fmt.Errorf("failed to create experiment: %w", err)
	}
	logger.Info("Experiment created.", "name", exp.Meta.Name, "network", exp.Meta.Network)
	return a.writeJSON(ctx, exp)
}

// derive writes the list of networks the application can run on.
func (a *App) derive(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	app, err := a.checkedApplication(ctx)
	if err != nil {
		return err
	}
	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	view := engine.DeriveNetworkView(app, cat)
	logger.Info("Network view derived.", "networks", len(view.Networks), "roles", len(view.Roles))
	return a.writeJSON(ctx, view)
}
