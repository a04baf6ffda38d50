// Package engine validates and resolves experiment documents.
//
// It ties the leaf packages together in a fixed order: schema pass on every
// document, catalog membership checks, topology load, role binding and
// finally composition. Every stage adds to one report. Structural problems in
// the application or catalog stop the run before binding, because roles and
// nodes read from a malformed document cannot be trusted; problems in the
// experiment itself are all collected.
//
// An Engine holds only immutable configuration and may be shared between
// goroutines validating different experiments.
package engine
