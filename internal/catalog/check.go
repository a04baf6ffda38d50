// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package catalog

import (
	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/specialistvlad/qnexp/internal/units"
)

// CheckCopy compares a materialized network against the catalog network it
// was copied from. It reports nodes and channels the catalog network does not
// have, channels whose endpoints differ, and copies with more nodes or
// channels than the original. Paths are relative to the copy.
func (c *Catalog) CheckCopy(copied model.Network) report.Findings {
	orig, ok := c.networks[copied.Slug]
	if !ok {
		return report.Findings{report.Warnf(report.KindUnknownNetwork, "slug",
			"network %q is not in the catalog; only its own structure is checked", copied.Slug)}
	}

	var findings report.Findings
	if len(copied.Nodes) > orig.NodeCount() {
		findings = append(findings, report.Errorf(report.KindTooManyNodes, "nodes",
			"network %q has %d nodes, at most %d can be used", copied.Slug, len(copied.Nodes), orig.NodeCount()))
	}
	if total := len(orig.Channels()); len(copied.Channels) > total {
		findings = append(findings, report.Errorf(report.KindTooManyChannels, "channels",
			"network %q has %d channels, at most %d can be used", copied.Slug, len(copied.Channels), total))
	}

	for i, node := range copied.Nodes {
		if !orig.HasNode(node.Slug) {
			findings = append(findings, report.Errorf(report.KindUnknownNode, report.Join("nodes", i, "slug"),
				"node %q does not belong to network %q", node.Slug, copied.Slug))
		}
	}
	for i, ch := range copied.Channels {
		base := report.Join("channels", i)
		want, ok := orig.Channel(ch.Slug)
		if !ok {
			findings = append(findings, report.Errorf(report.KindUnknownChannel, report.Join(base, "slug"),
				"channel %q does not belong to network %q", ch.Slug, copied.Slug))
			continue
		}
		if ch.Node1 != want.Node1 {
			findings = append(findings, report.Errorf(report.KindChannelEndpointMismatch, report.Join(base, "node1"),
				"channel %q connects %q, not %q", ch.Slug, want.Node1, ch.Node1))
		}
		if ch.Node2 != want.Node2 {
			findings = append(findings, report.Errorf(report.KindChannelEndpointMismatch, report.Join(base, "node2"),
				"channel %q connects %q, not %q", ch.Slug, want.Node2, ch.Node2))
		}
	}
	return findings
}

// CheckParameters checks every node, qubit and channel parameter of n
// against the catalog's templates. A catalog without templates accepts any
// parameter. Paths are relative to n.
func (c *Catalog) CheckParameters(n model.Network) report.Findings {
	if !c.HasTemplates() {
		return nil
	}
	var findings report.Findings
	for i, node := range n.Nodes {
		findings = append(findings, c.checkParams(node.Parameters, report.Join("nodes", i, "node_parameters"))...)
		findings = append(findings, c.checkParams(node.Qubits, report.Join("nodes", i, "qubits"))...)
	}
	for i, ch := range n.Channels {
		findings = append(findings, c.checkParams(ch.Parameters, report.Join("channels", i, "parameters"))...)
	}
	return findings
}

func (c *Catalog) checkParams(params []model.ParameterSpec, base string) report.Findings {
	var findings report.Findings
	for j, p := range params {
		path := report.Join(base, j)
		t, ok := c.templates[p.Name]
		if !ok {
			findings = append(findings, report.Errorf(report.KindUnknownParameter, report.Join(path, "name"),
				"parameter %q has no template", p.Name))
			continue
		}
		if !model.IsNumber(p.Value) {
			continue
		}
		if err := units.CheckBounds(p.Value, t.Minimum, t.Maximum); err != nil {
			findings = append(findings, report.Errorf(report.KindParameterOutOfRange, report.Join(path, "value"),
				"parameter %q: %v", p.Name, err))
		}
	}
	return findings
}
