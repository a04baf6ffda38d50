// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package engine

import (
	"context"
	"errors"
	"slices"

	"github.com/specialistvlad/qnexp/internal/binding"
	"github.com/specialistvlad/qnexp/internal/catalog"
	"github.com/specialistvlad/qnexp/internal/compose"
	"github.com/specialistvlad/qnexp/internal/ctxlog"
	"github.com/specialistvlad/qnexp/internal/document"
	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/specialistvlad/qnexp/internal/schema"
	"github.com/specialistvlad/qnexp/internal/topology"
	"github.com/specialistvlad/qnexp/internal/units"
)

// Engine runs validations. The zero value is not usable; call New.
type Engine struct {
	resolver *binding.Resolver
}

// New creates an engine that scales inputs using reg. A nil reg selects the
// built-in units.
func New(reg *units.Registry) *Engine {
	return &Engine{resolver: binding.New(reg)}
}

// Inputs are the documents of one experiment validation. The catalog is
// loaded once and shared between validations.
type Inputs struct {
	Application *document.Document
	Catalog     *catalog.Catalog
	Experiment  *document.Document
}

// Result is the outcome of validating one experiment. Asset and Binding are
// set only when the report has no errors.
type Result struct {
	Report     *report.Report
	Experiment *model.Experiment
	Binding    *binding.RoleBinding
	Asset      *model.Asset
}

// Valid reports whether the experiment can be run.
func (r *Result) Valid() bool {
	return r.Asset != nil && !r.Report.HasErrors()
}

// LoadApplication runs the schema pass on an application document and
// decodes it. The application is nil when the document could not be parsed.
func (e *Engine) LoadApplication(doc *document.Document) (*model.Application, report.Findings) {
	findings := append(report.Findings(nil), doc.Findings...)
	if !doc.Parsed() {
		return nil, findings
	}
	findings = append(findings, schema.Validate(doc.Value, document.KindApplication)...)
	return model.DecodeApplication(doc.Value), findings
}

// ValidateApplication checks an application document on its own. Beyond the
// schema pass it resolves every input with its declared defaults, so scaling
// and bounds problems show up before any experiment exists.
func (e *Engine) ValidateApplication(ctx context.Context, doc *document.Document) *report.Report {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Validating application...", "document", doc.Name)

	name := sourceName(doc, binding.SourceApplication)
	r := report.New()
	app, findings := e.LoadApplication(doc)
	r.Merge(name, findings)
	if app != nil && !hasStructural(findings) {
		_, fs := e.resolver.ResolveInputs(app, nil)
		r.Add(relabel(fs, name, "")...)
	}

	errs, warns := r.Counts()
	logger.Debug("Application validation finished.", "document", doc.Name, "errors", errs, "warnings", warns)
	return r
}

// ValidateCatalog checks a network catalog document.
func (e *Engine) ValidateCatalog(ctx context.Context, doc *document.Document) *report.Report {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Validating network catalog...", "document", doc.Name)

	r := report.New()
	cat, findings := catalog.Load(doc)
	r.Merge(cat.Name(), findings)

	errs, warns := r.Counts()
	logger.Debug("Catalog validation finished.", "document", doc.Name, "networks", len(cat.Slugs()), "errors", errs, "warnings", warns)
	return r
}

// ValidateExperiment validates an experiment against its application and the
// catalog and composes its asset when no error was found.
func (e *Engine) ValidateExperiment(ctx context.Context, in Inputs) *Result {
	ctx = ctxlog.With(ctx, "experiment", in.Experiment.Name)
	logger := ctxlog.FromContext(ctx)
	res := &Result{Report: report.New()}

	appName := sourceName(in.Application, binding.SourceApplication)
	expName := sourceName(in.Experiment, binding.SourceExperiment)

	app, appFindings := e.LoadApplication(in.Application)
	res.Report.Merge(appName, appFindings)

	catFindings := in.Catalog.Findings()
	res.Report.Merge(in.Catalog.Name(), catFindings)

	expFindings := append(report.Findings(nil), in.Experiment.Findings...)
	if in.Experiment.Parsed() {
		expFindings = append(expFindings, schema.Validate(in.Experiment.Value, document.KindExperiment)...)
	}
	res.Report.Merge(expName, expFindings)
	logger.Debug("Schema validation finished.", "findings", len(res.Report.Findings()))

	if app == nil || hasStructural(appFindings) || hasStructural(catFindings) {
		logger.Debug("Application or catalog is malformed, skipping binding.")
		return res
	}
	if !in.Experiment.Parsed() {
		return res
	}

	exp := model.DecodeExperiment(in.Experiment.Value)
	res.Experiment = exp
	copied := exp.Asset.Network.Network

	res.Report.Merge(expName, in.Catalog.CheckCopy(copied).WithPrefix("asset.network"))
	res.Report.Merge(expName, in.Catalog.CheckParameters(copied).WithPrefix("asset.network"))

	net, err := topology.Load(copied)
	if err != nil {
		var loadErr *topology.LoadError
		if errors.As(err, &loadErr) {
			res.Report.Merge(expName, loadErr.Findings.WithPrefix("asset.network"))
		}
		logger.Debug("Experiment network failed to load.", "error", err)
		return res
	}

	rb, fs := e.resolver.Resolve(app, net, exp.Asset.Network.Roles, exp.Asset.Application)
	res.Report.Add(relabel(fs, appName, expName)...)
	if res.Report.HasErrors() {
		errs, warns := res.Report.Counts()
		logger.Debug("Experiment is invalid.", "errors", errs, "warnings", warns)
		return res
	}

	asset, err := compose.Compose(net, rb)
	if err != nil {
		logger.Error("Failed to compose asset.", "error", err)
		return res
	}
	res.Binding = rb
	res.Asset = asset
	logger.Debug("Experiment is valid.", "network", net.Slug(), "roles", len(rb.Roles))
	return res
}

// DeriveNetworkView lists the catalog networks app can run on together with
// its roles.
func DeriveNetworkView(app *model.Application, cat *catalog.Catalog) model.NetworkView {
	roles := slices.Clone(app.Roles)
	if roles == nil {
		roles = []string{}
	}
	return model.NetworkView{Networks: cat.UsableFor(app), Roles: roles}
}

func sourceName(doc *document.Document, fallback string) string {
	if doc.Name != "" {
		return doc.Name
	}
	return fallback
}

func hasStructural(fs report.Findings) bool {
	for _, f := range fs {
		if errors.Is(f, report.ErrStructural) {
			return true
		}
	}
	return false
}

// relabel replaces the resolver's document labels with document names.
func relabel(fs report.Findings, application, experiment string) report.Findings {
	out := make(report.Findings, len(fs))
	for i, f := range fs {
		switch f.Source {
		case binding.SourceApplication:
			if application != "" {
				f.Source = application
			}
		case binding.SourceExperiment:
			if experiment != "" {
				f.Source = experiment
			}
		}
		out[i] = f
	}
	return out
}
