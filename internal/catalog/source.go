// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package catalog

import (
	"context"
	"fmt"

	"github.com/specialistvlad/qnexp/internal/ctxlog"
	"github.com/specialistvlad/qnexp/internal/document"
	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/specialistvlad/qnexp/internal/schema"
)

// Source supplies catalog content. The returned findings describe problems
// with the content itself; the error is reserved for failures to obtain it.
type Source interface {
	Fetch(ctx context.Context) (*Catalog, report.Findings, error)
}

// FileSource reads the catalog from a networks.json or networks.hcl file.
type FileSource struct {
	Path    string
	Options document.Options
}

// Fetch loads, validates and builds the catalog file.
func (s FileSource) Fetch(ctx context.Context) (*Catalog, report.Findings, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading network catalog...", "path", s.Path)

	doc, err := document.LoadFile(ctx, s.Path, document.KindNetwork, s.Options)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read network catalog: %w", err)
	}
	cat, findings := Load(doc)
	logger.Debug("Network catalog loaded.", "path", s.Path, "networks", len(cat.slugs), "findings", len(findings))
	return cat, findings, nil
}

// Load validates a catalog document and builds the catalog from it. The
// returned catalog is empty when the document could not be parsed. Findings
// cover parsing, the schema pass and the topology checks.
func Load(doc *document.Document) (*Catalog, report.Findings) {
	findings := append(report.Findings(nil), doc.Findings...)
	if !doc.Parsed() {
		cat, _ := New(&model.Catalog{})
		cat.name = doc.Name
		cat.findings = findings
		return cat, findings
	}
	findings = append(findings, schema.Validate(doc.Value, document.KindNetwork)...)

	m := model.DecodeCatalog(doc.Value)
	cat, built := New(m)
	findings = append(findings, built...)
	for _, slug := range cat.slugs {
		n := m.Networks[slug]
		findings = append(findings, cat.CheckParameters(n).WithPrefix(report.Join("networks", slug))...)
	}
	cat.name = doc.Name
	cat.findings = findings
	return cat, findings
}
