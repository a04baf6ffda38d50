// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go struct representation of the three documents
// an experiment author edits, and of the asset the engine produces from them.
//
// # Core Concepts
//
//   - Application: the roles an application declares and the inputs each role
//     consumes, with their defaults, bounds, units and scale factors.
//
//   - Catalog: the networks available to run on, keyed by slug, plus optional
//     parameter templates that constrain node and channel parameters.
//
//   - Experiment: descriptive metadata and an asset draft. The draft carries a
//     materialized copy of one catalog network, the role map, and per-input
//     overrides.
//
//   - Asset: the fully resolved configuration. Every input is expanded to the
//     roles it applies to and carries its scaled value per role.
//
// Why a separate model package?
//
// Documents arrive as dynamic cty values, from JSON or HCL. The schema
// validator works on those raw values; every later stage works on the typed
// model. Keeping the decoding here lets the topology, binding and composition
// stages share one vocabulary without knowing which file format the author
// used.
//
// Numbers stay cty.Number values all the way to the asset. They are parsed from
// decimal text at high precision, so scaling arithmetic does not accumulate
// binary floating point error before it is finally rendered.
package model
