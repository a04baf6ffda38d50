// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/specialistvlad/qnexp/internal/compose"
	"github.com/specialistvlad/qnexp/internal/ctxlog"
	"github.com/specialistvlad/qnexp/internal/document"
	"github.com/specialistvlad/qnexp/internal/engine"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/specialistvlad/qnexp/internal/schema"
)

type experimentResult struct {
	Experiment string         `json:"experiment"`
	Valid      bool           `json:"valid"`
	Digest     string         `json:"digest,omitempty"`
	Report     *report.Report `json:"report"`
}

// writeResults writes the report of every experiment in the configured format.
func (a *App) writeResults(exps []*document.Document, results []*engine.Result) error {
	if a.config.Format == "json" {
		out := make([]experimentResult, len(results))
		for i, res := range results {
			out[i] = experimentResult{Experiment: exps[i].Name, Valid: res.Valid(), Report: res.Report}
			if res.Valid() {
				out[i].Digest, _ = compose.Digest(res.Asset)
			}
		}
		return a.encode(out)
	}

	for i, res := range results {
		status := "valid"
		if !res.Valid() {
			status = "invalid"
		}
		fmt.Fprintf(a.outW, "%s: %s\n", exps[i].Name, status)
		if err := res.Report.WriteText(a.outW); err != nil {
			return err
		}
	}
	return nil
}

// writeReport writes a single document's report in the configured format.
func (a *App) writeReport(name string, r *report.Report) error {
	if a.config.Format == "json" {
		return r.WriteJSON(a.outW)
	}
	fmt.Fprintf(a.outW, "%s:\n", name)
	return r.WriteText(a.outW)
}

// writeJSON writes v as indented JSON to the output file or stream.
func (a *App) writeJSON(ctx context.Context, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return a.writeOutput(ctx, append(data, '\n'))
}

func (a *App) encode(v any) error {
	enc := json.NewEncoder(a.outW)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes data to --out, or to the output stream when no file
// was given.
func (a *App) writeOutput(ctx context.Context, data []byte) error {
	if a.config.OutPath == "" {
		_, err := a.outW.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(a.config.OutPath), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(a.config.OutPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Output written.", "path", a.config.OutPath, "bytes", len(data))
	return nil
}

// schema writes the JSON Schema of a document kind.
func (a *App) schema(ctx context.Context) error {
	kind, err := document.ParseKind(a.config.Kind)
	if err != nil {
		return err
	}
	s, err := schema.JSONSchema(kind)
	if err != nil {
		return err
	}
	return a.writeJSON(ctx, s)
}

type networkSummary struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Nodes    int    `json:"nodes"`
	Channels int    `json:"channels"`
}

// networks lists the usable networks of the catalog.
func (a *App) networks(ctx context.Context) error {
	cat, err := a.loadCatalog(ctx)
	if err != nil {
		return err
	}
	for _, f := range cat.Findings() {
		ctxlog.FromContext(ctx).Warn("Catalog finding.", "severity", f.Severity, "path", f.Path, "message", f.Message)
	}

	var out []networkSummary
	for _, slug := range cat.Slugs() {
		net, _ := cat.Network(slug)
		out = append(out, networkSummary{
			Slug:     slug,
			Name:     net.Name(),
			Nodes:    net.NodeCount(),
			Channels: len(net.Channels()),
		})
	}

	if a.config.Format == "json" {
		if out == nil {
			out = []networkSummary{}
		}
		return a.writeJSON(ctx, out)
	}
	w := tabwriter.NewWriter(a.outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLUG\tNAME\tNODES\tCHANNELS")
	for _, n := range out {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", n.Slug, n.Name, n.Nodes, n.Channels)
	}
	return w.Flush()
}
