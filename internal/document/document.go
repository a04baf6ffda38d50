// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/qnexp/internal/ctxlog"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/zclconf/go-cty/cty"
)

// Document is one parsed input file.
type Document struct {
	Kind Kind
	// Name is the file path, or a label for in-memory documents.
	Name string
	// Value is cty.NilVal when the document could not be parsed.
	Value cty.Value
	// Findings holds load-time problems, such as malformed syntax.
	Findings report.Findings
}

// Parsed reports whether the document produced a value.
func (d *Document) Parsed() bool {
	return d != nil && !d.Value.IsNull()
}

// Options control document loading.
type Options struct {
	Repair bool
}

// LoaderFor returns the loader for a file name, chosen by extension. Files
// without a recognised extension are treated as JSON.
func LoaderFor(name string, opts Options) Loader {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".hcl":
		return HCLLoader{}
	default:
		return JSONLoader{Repair: opts.Repair}
	}
}

// Parse parses src as a document of the given kind. When kind is
// KindUnknown it is detected from the top-level keys.
func Parse(ctx context.Context, name string, src []byte, kind Kind, opts Options) *Document {
	logger := ctxlog.FromContext(ctx)
	v, findings := LoaderFor(name, opts).Parse(ctx, name, src)
	if kind == KindUnknown && !v.IsNull() {
		kind = DetectKind(v)
	}
	logger.Debug("Document parsed.", "document", name, "kind", kind, "findings", len(findings))
	return &Document{Kind: kind, Name: name, Value: v, Findings: findings}
}

// LoadFile reads and parses a document from disk. Only I/O failures are
// returned as errors.
func LoadFile(ctx context.Context, path string, kind Kind, opts Options) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s document: %w", kind, err)
	}
	return Parse(ctx, path, src, kind, opts), nil
}
