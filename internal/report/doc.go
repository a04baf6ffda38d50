// Package report defines validation findings and the Report that collects
// them. Findings are classified into structural, reference, constraint and
// advisory families; each error finding unwraps to its family's sentinel so
// callers can branch with errors.Is.
package report
