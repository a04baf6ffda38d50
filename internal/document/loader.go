// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/kaptinlin/jsonrepair"
	"github.com/specialistvlad/qnexp/internal/ctxlog"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Loader is the interface for a format-specific document parser. A loader
// never returns a Go error for bad input: malformed documents surface as
// MalformedDocument findings.
type Loader interface {
	Parse(ctx context.Context, name string, src []byte) (cty.Value, report.Findings)
}

// JSONLoader parses JSON documents.
type JSONLoader struct {
	// Repair retries malformed input through a JSON repairer and records a
	// warning when that succeeds.
	Repair bool
}

// Parse implements Loader.
func (l JSONLoader) Parse(ctx context.Context, name string, src []byte) (cty.Value, report.Findings) {
	logger := ctxlog.FromContext(ctx)

	v, err := parseJSON(src)
	if err == nil {
		return v, nil
	}
	malformed := report.Errorf(report.KindMalformedDocument, "", "%s is not valid JSON: %s", name, err)
	if !l.Repair {
		return cty.NilVal, report.Findings{malformed}
	}

	logger.Debug("Attempting JSON repair.", "document", name, "error", err)
	repaired, rerr := jsonrepair.JSONRepair(string(src))
	if rerr != nil {
		logger.Debug("JSON repair failed.", "document", name, "error", rerr)
		return cty.NilVal, report.Findings{malformed}
	}
	v, err = parseJSON([]byte(repaired))
	if err != nil {
		return cty.NilVal, report.Findings{malformed}
	}
	return v, report.Findings{report.Warnf(report.KindRepairedDocument, "",
		"%s was not valid JSON and was repaired before validation; fix the file to silence this warning", name)}
}

func parseJSON(src []byte) (cty.Value, error) {
	ty, err := ctyjson.ImpliedType(src)
	if err != nil {
		return cty.NilVal, err
	}
	if !ty.IsObjectType() {
		return cty.NilVal, fmt.Errorf("top level must be an object, got %s", ty.FriendlyName())
	}
	return ctyjson.Unmarshal(src, ty)
}

// HCLLoader parses HCL documents made of top-level attributes, e.g.
//
//	roles = ["Sender", "Receiver"]
//	inputs = [{ name = "phi", input_type = "number", default_value = 3.14 }]
//
// Expressions are evaluated without variables or functions.
type HCLLoader struct{}

// Parse implements Loader.
func (HCLLoader) Parse(ctx context.Context, name string, src []byte) (cty.Value, report.Findings) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return cty.NilVal, diagFindings(diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return cty.NilVal, diagFindings(diags)
	}

	names := make([]string, 0, len(attrs))
	for n := range attrs {
		names = append(names, n)
	}
	sort.Strings(names)

	values := make(map[string]cty.Value, len(attrs))
	var findings report.Findings
	for _, n := range names {
		v, d := attrs[n].Expr.Value(nil)
		if d.HasErrors() {
			findings = append(findings, diagFindings(d)...)
			continue
		}
		values[n] = v
	}
	if findings.HasErrors() {
		return cty.NilVal, findings
	}
	ctxlog.FromContext(ctx).Debug("HCL document parsed.", "document", name, "attributes", len(values))
	return cty.ObjectVal(values), nil
}

func diagFindings(diags hcl.Diagnostics) report.Findings {
	var out report.Findings
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		msg := d.Summary
		if d.Detail != "" {
			msg += ": " + d.Detail
		}
		if d.Subject != nil {
			msg = fmt.Sprintf("%s (line %d)", msg, d.Subject.Start.Line)
		}
		out = append(out, report.Errorf(report.KindMalformedDocument, "", "%s", msg))
	}
	return out
}
