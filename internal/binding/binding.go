// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package binding

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/specialistvlad/qnexp/internal/topology"
	"github.com/specialistvlad/qnexp/internal/units"
)

// Sources used on the findings the resolver produces.
const (
	SourceApplication = "application"
	SourceExperiment  = "experiment"
)

const rolesPath = "asset.network.roles"

// ErrInsufficientNodes is returned by DefaultAssignment when the network has
// fewer nodes than the application has roles.
var ErrInsufficientNodes = errors.New("insufficient nodes")

// RoleBinding is a complete, injective role assignment together with the
// resolved application inputs.
type RoleBinding struct {
	// Roles maps every declared role to a distinct node slug.
	Roles map[string]string
	// Inputs follows the application's input declaration order.
	Inputs []model.ResolvedInput
}

// Node returns the node bound to role.
func (rb *RoleBinding) Node(role string) (string, bool) {
	n, ok := rb.Roles[role]
	return n, ok
}

// Resolver binds application roles to network nodes and resolves input
// values. It holds no per-call state and is safe for concurrent use.
type Resolver struct {
	units *units.Registry
}

// New creates a resolver using reg for scaling decisions. A nil reg selects
// the default unit registry.
func New(reg *units.Registry) *Resolver {
	if reg == nil {
		reg = units.Default()
	}
	return &Resolver{units: reg}
}

// Resolve checks roles against app and net and resolves the application
// inputs, applying the experiment's overrides. It returns a binding only when
// no error-severity finding was produced; warnings are returned either way.
func (r *Resolver) Resolve(app *model.Application, net *topology.Network, roles map[string]string, overrides []model.ResolvedInput) (*RoleBinding, report.Findings) {
	if !net.Usable(len(app.Roles)) {
		return nil, report.Findings{insufficient(app, net)}
	}

	var findings report.Findings
	add := func(f report.Finding) {
		f.Source = SourceExperiment
		findings = append(findings, f)
	}

	for _, role := range app.Roles {
		if _, ok := roles[role]; !ok {
			add(report.Errorf(report.KindMissingBinding, report.Join(rolesPath, role),
				"role %q is not bound to a node", role))
		}
	}

	keys := slices.Sorted(maps.Keys(roles))
	claims := make(map[string][]string, len(roles))
	for _, role := range keys {
		node := roles[role]
		path := report.Join(rolesPath, role)
		if !app.HasRole(role) {
			add(report.Errorf(report.KindDanglingRoleReference, path,
				"role %q is not declared by the application", role))
		}
		if !net.HasNode(node) {
			add(report.Errorf(report.KindUnknownNode, path,
				"node %q is not part of network %q", node, net.Slug()))
			continue
		}
		claims[node] = append(claims[node], role)
	}

	for _, node := range slices.Sorted(maps.Keys(claims)) {
		// Located at the first role that repeats the node.
		if claimants := claims[node]; len(claimants) > 1 {
			add(report.Errorf(report.KindDuplicateNodeAssignment, report.Join(rolesPath, claimants[1]),
				"node %q is claimed by roles %s", node, quoteAll(claimants)))
		}
	}

	inputs, inputFindings := r.ResolveInputs(app, overrides)
	findings = append(findings, inputFindings...)

	if findings.HasErrors() {
		return nil, findings
	}

	bound := make(map[string]string, len(app.Roles))
	for _, role := range app.Roles {
		bound[role] = roles[role]
	}
	return &RoleBinding{Roles: bound, Inputs: inputs}, findings
}

func insufficient(app *model.Application, net *topology.Network) report.Finding {
	f := report.Errorf(report.KindInsufficientNodes, "asset.network.nodes",
		"network %q has %d nodes but the application declares %d roles", net.Slug(), net.NodeCount(), len(app.Roles))
	f.Source = SourceExperiment
	return f
}

// DefaultAssignment binds the application roles, in declaration order, to the
// network nodes in slug order.
func DefaultAssignment(app *model.Application, net *topology.Network) (map[string]string, error) {
	if !net.Usable(len(app.Roles)) {
		return nil, fmt.Errorf("%w: network %q has %d nodes, application needs %d",
			ErrInsufficientNodes, net.Slug(), net.NodeCount(), len(app.Roles))
	}
	nodes := net.Nodes()
	out := make(map[string]string, len(app.Roles))
	for i, role := range app.Roles {
		out[role] = nodes[i]
	}
	return out, nil
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(q, ", ")
}
