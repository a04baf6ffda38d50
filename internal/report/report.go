// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package report

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/hashicorp/hcl/v2"
)

// Report accumulates the findings of one validation run. It is safe for
// concurrent use.
type Report struct {
	mu       sync.Mutex
	findings Findings
	seen     map[findingKey]struct{}
}

// findingKey identifies a problem. Two passes that detect the same problem
// at the same location add it once.
type findingKey struct {
	source  string
	path    string
	kind    Kind
	message string
}

// New returns an empty report.
func New() *Report {
	return &Report{seen: make(map[findingKey]struct{})}
}

// Add appends findings to the report. A finding whose source, path and kind
// match one recorded by an earlier call is dropped. Within one call only
// exact repeats are dropped, so a pass can report several problems at the
// same location.
func (r *Report) Add(fs ...Finding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen == nil {
		r.seen = make(map[findingKey]struct{})
	}
	added := make(map[findingKey]struct{}, len(fs))
	for _, f := range fs {
		k := findingKey{source: f.Source, path: f.Path, kind: f.Kind}
		if _, dup := r.seen[k]; dup {
			continue
		}
		k.message = f.Message
		if _, dup := added[k]; dup {
			continue
		}
		added[k] = struct{}{}
		r.findings = append(r.findings, f)
	}
	for k := range added {
		k.message = ""
		r.seen[k] = struct{}{}
	}
}

// Merge appends findings, tagging those without a source with source.
func (r *Report) Merge(source string, fs Findings) {
	r.Add(fs.WithSource(source)...)
}

// Findings returns the findings sorted by source, path and kind.
func (r *Report) Findings() Findings {
	r.mu.Lock()
	out := slices.Clone(r.findings)
	r.mu.Unlock()

	slices.SortStableFunc(out, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.Source, b.Source),
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.Severity, b.Severity),
			cmp.Compare(a.Message, b.Message),
		)
	})
	return out
}

// HasErrors reports whether any error-severity finding was recorded.
func (r *Report) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findings.HasErrors()
}

// Counts returns the number of errors and warnings.
func (r *Report) Counts() (errs, warns int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.findings {
		if f.IsError() {
			errs++
		} else {
			warns++
		}
	}
	return errs, warns
}

// Err returns the error findings joined into one error, or nil.
func (r *Report) Err() error {
	return r.Findings().Err()
}

// Diagnostics converts the findings into HCL diagnostics.
func (r *Report) Diagnostics() hcl.Diagnostics {
	findings := r.Findings()
	diags := make(hcl.Diagnostics, 0, len(findings))
	for _, f := range findings {
		severity := hcl.DiagError
		if f.Severity == SeverityWarning {
			severity = hcl.DiagWarning
		}
		location := f.Path
		if location == "" {
			location = "document root"
		}
		if f.Source != "" {
			location = f.Source + ": " + location
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: severity,
			Summary:  fmt.Sprintf("%s at %s", f.Kind, location),
			Detail:   f.Message,
		})
	}
	return diags
}

// WriteText renders the report as human-readable diagnostics followed by a
// one-line summary.
func (r *Report) WriteText(w io.Writer) error {
	diags := r.Diagnostics()
	if len(diags) > 0 {
		wr := hcl.NewDiagnosticTextWriter(w, nil, 0, false)
		if err := wr.WriteDiagnostics(diags); err != nil {
			return err
		}
	}
	errs, warns := r.Counts()
	_, err := fmt.Fprintf(w, "%d error(s), %d warning(s)\n", errs, warns)
	return err
}

type jsonReport struct {
	Valid    bool     `json:"valid"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Findings Findings `json:"findings"`
}

// MarshalJSON renders the report with its summary counts.
func (r *Report) MarshalJSON() ([]byte, error) {
	errs, warns := r.Counts()
	findings := r.Findings()
	if findings == nil {
		findings = Findings{}
	}
	return json.Marshal(jsonReport{
		Valid:    errs == 0,
		Errors:   errs,
		Warnings: warns,
		Findings: findings,
	})
}

// WriteJSON renders the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
