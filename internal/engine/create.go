// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/qnexp/internal/binding"
	"github.com/specialistvlad/qnexp/internal/catalog"
	"github.com/specialistvlad/qnexp/internal/compose"
	"github.com/specialistvlad/qnexp/internal/ctxlog"
	"github.com/specialistvlad/qnexp/internal/model"
)

// ErrUnknownNetwork is returned by NewExperiment for a network slug the
// catalog does not have.
var ErrUnknownNetwork = errors.New("unknown network")

// Defaults for the experiment meta written by NewExperiment.
const (
	DefaultBackendType = "local_netsquid"
	DefaultRounds      = 1
)

// CreateRequest describes the experiment NewExperiment writes.
type CreateRequest struct {
	Name        string
	Description string
	// Application is the slug recorded in meta.application. It defaults to
	// the application's own name.
	Application string
	AppVersion  string
	Network     string
	Backend     model.Backend
	Rounds      int
}

// NewExperiment creates the initial experiment for app on a catalog network:
// the network is copied in, roles are assigned to nodes in slug order and
// every input gets its declared default. The application is expected to have
// passed ValidateApplication.
func (e *Engine) NewExperiment(ctx context.Context, app *model.Application, cat *catalog.Catalog, req CreateRequest) (*model.Experiment, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Creating experiment...", "name", req.Name, "network", req.Network)

	net, ok := cat.Network(req.Network)
	if !ok {
		return nil, fmt.Errorf("%w %q, available: %v", ErrUnknownNetwork, req.Network, cat.Slugs())
	}
	roles, err := binding.DefaultAssignment(app, net)
	if err != nil {
		return nil, err
	}
	rb, findings := e.resolver.Resolve(app, net, roles, nil)
	if rb == nil {
		return nil, fmt.Errorf("application inputs do not resolve: %w", findings.Err())
	}
	for _, f := range findings.Warnings() {
		logger.Warn("Default input value needs attention.", "path", f.Path, "message", f.Message)
	}

	asset, err := compose.Compose(net, rb)
	if err != nil {
		return nil, err
	}

	meta := model.Meta{
		Name:        req.Name,
		Description: req.Description,
		Application: model.ApplicationRef{
			Slug:       req.Application,
			AppVersion: req.AppVersion,
		},
		Network:        net.Slug(),
		Backend:        req.Backend,
		NumberOfRounds: req.Rounds,
	}
	if meta.Application.Slug == "" {
		meta.Application.Slug = app.Name
	}
	if meta.Backend.Location == "" {
		meta.Backend.Location = model.BackendLocal
	}
	if meta.Backend.Type == "" && meta.Backend.Location == model.BackendLocal {
		meta.Backend.Type = DefaultBackendType
	}
	if meta.NumberOfRounds < 1 {
		meta.NumberOfRounds = DefaultRounds
	}
	meta.Application.MultiRound = meta.NumberOfRounds > 1

	logger.Debug("Experiment created.", "name", req.Name, "network", net.Slug(), "roles", roles)
	return &model.Experiment{Meta: meta, Asset: *asset}, nil
}
