// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/qnexp/internal/catalog"
	"github.com/specialistvlad/qnexp/internal/ctxlog"
	"github.com/specialistvlad/qnexp/internal/document"
	"github.com/specialistvlad/qnexp/internal/fsutil"
)

// loadApplication reads the application document from a file or from a
// directory holding application.json or application.hcl.
func (a *App) loadApplication(ctx context.Context) (*document.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading application...", "app_path", a.config.AppPath)

	path, err := fsutil.ResolveDocument(a.config.AppPath, "application")
	if err != nil {
		return nil, fmt.Errorf("failed to locate application: %w", err)
	}
	doc, err := document.LoadFile(ctx, path, document.KindApplication, a.options())
	if err != nil {
		return nil, err
	}
	logger.Info("Application loaded.", "path", path)
	return doc, nil
}

// loadCatalog fetches the network catalog. Findings stay on the catalog and
// are reported by the engine with every validation.
func (a *App) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	src := catalog.FileSource{Path: a.config.CatalogPath, Options: a.options()}
	cat, findings, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Network catalog loaded.", "path", a.config.CatalogPath, "networks", len(cat.Slugs()), "findings", len(findings))
	return cat, nil
}

// loadExperiments resolves the experiment paths and reads every document.
func (a *App) loadExperiments(ctx context.Context) ([]*document.Document, error) {
	logger := ctxlog.FromContext(ctx)

	paths, err := fsutil.ResolveDocuments(ctx, "experiment", a.config.Paths...)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no experiment documents found in %v", a.config.Paths)
	}
	logger.Debug("Experiments found.", "count", len(paths))

	docs := make([]*document.Document, 0, len(paths))
	for _, path := range paths {
		doc, err := document.LoadFile(ctx, path, document.KindExperiment, a.options())
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
