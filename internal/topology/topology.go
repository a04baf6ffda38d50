// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package topology

import (
	"cmp"
	"slices"
	"strings"

	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/report"
)

// LoadError is returned by Load when a network breaks a structural rule. It
// carries one finding per problem, with paths relative to the network object.
type LoadError struct {
	Findings report.Findings
}

func (e *LoadError) Error() string {
	msgs := make([]string, 0, len(e.Findings))
	for _, f := range e.Findings {
		msgs = append(msgs, f.Error())
	}
	return "invalid network topology: " + strings.Join(msgs, "; ")
}

// Unwrap lets callers match the error with errors.Is(err, report.ErrStructural).
func (e *LoadError) Unwrap() error {
	return report.ErrStructural
}

// Edge is the adjacency view of a channel.
type Edge struct {
	Slug  string
	Node1 string
	Node2 string
}

// Other returns the endpoint opposite node.
func (e Edge) Other(node string) string {
	if e.Node1 == node {
		return e.Node2
	}
	return e.Node1
}

// Network is an immutable, validated network graph.
type Network struct {
	slug     string
	name     string
	nodes    []model.Node
	channels []model.Channel

	nodeIndex    map[string]int
	channelIndex map[string]int
	// adjacency maps a node slug to the indices of its incident channels.
	adjacency map[string][]int
}

// Load validates n and builds its topology. The input is copied; later
// changes to n do not affect the result.
func Load(n model.Network) (*Network, error) {
	var findings report.Findings

	if len(n.Nodes) == 0 {
		findings = append(findings, report.Errorf(report.KindEmptyTopology, "nodes", "network %q has no nodes", n.Slug))
	}

	nodeSeen := make(map[string]int, len(n.Nodes))
	for i, node := range n.Nodes {
		if first, dup := nodeSeen[node.Slug]; dup {
			findings = append(findings, report.Errorf(report.KindDuplicateName, report.Join("nodes", i, "slug"),
				"node slug %q is already used by nodes[%d]", node.Slug, first))
			continue
		}
		nodeSeen[node.Slug] = i
	}

	channelSeen := make(map[string]int, len(n.Channels))
	for i, ch := range n.Channels {
		base := report.Join("channels", i)
		if first, dup := channelSeen[ch.Slug]; dup {
			findings = append(findings, report.Errorf(report.KindDuplicateName, report.Join(base, "slug"),
				"channel slug %q is already used by channels[%d]", ch.Slug, first))
		} else {
			channelSeen[ch.Slug] = i
		}
		if _, ok := nodeSeen[ch.Node1]; !ok {
			findings = append(findings, report.Errorf(report.KindDanglingChannelEndpoint, report.Join(base, "node1"),
				"channel %q references unknown node %q", ch.Slug, ch.Node1))
		}
		if _, ok := nodeSeen[ch.Node2]; !ok {
			findings = append(findings, report.Errorf(report.KindDanglingChannelEndpoint, report.Join(base, "node2"),
				"channel %q references unknown node %q", ch.Slug, ch.Node2))
		}
		if ch.Node1 == ch.Node2 {
			findings = append(findings, report.Errorf(report.KindSelfLoop, base,
				"channel %q connects node %q to itself", ch.Slug, ch.Node1))
		}
	}

	if len(findings) > 0 {
		return nil, &LoadError{Findings: findings}
	}

	clone := n.Clone()
	slices.SortStableFunc(clone.Nodes, func(a, b model.Node) int { return cmp.Compare(a.Slug, b.Slug) })
	slices.SortStableFunc(clone.Channels, func(a, b model.Channel) int { return cmp.Compare(a.Slug, b.Slug) })

	net := &Network{
		slug:         clone.Slug,
		name:         clone.Name,
		nodes:        clone.Nodes,
		channels:     clone.Channels,
		nodeIndex:    make(map[string]int, len(clone.Nodes)),
		channelIndex: make(map[string]int, len(clone.Channels)),
		adjacency:    make(map[string][]int, len(clone.Nodes)),
	}
	for i, node := range net.nodes {
		net.nodeIndex[node.Slug] = i
	}
	for i, ch := range net.channels {
		net.channelIndex[ch.Slug] = i
		net.adjacency[ch.Node1] = append(net.adjacency[ch.Node1], i)
		net.adjacency[ch.Node2] = append(net.adjacency[ch.Node2], i)
	}
	return net, nil
}

// Slug returns the network slug.
func (n *Network) Slug() string { return n.slug }

// Name returns the display name.
func (n *Network) Name() string { return n.name }

// NodeCount returns the number of nodes.
func (n *Network) NodeCount() int { return len(n.nodes) }

// Nodes returns the node slugs in sorted order.
func (n *Network) Nodes() []string {
	out := make([]string, len(n.nodes))
	for i, node := range n.nodes {
		out[i] = node.Slug
	}
	return out
}

// Channels returns the channels sorted by slug.
func (n *Network) Channels() []Edge {
	out := make([]Edge, len(n.channels))
	for i, ch := range n.channels {
		out[i] = Edge{Slug: ch.Slug, Node1: ch.Node1, Node2: ch.Node2}
	}
	return out
}

// HasNode reports whether slug names a node.
func (n *Network) HasNode(slug string) bool {
	_, ok := n.nodeIndex[slug]
	return ok
}

// Node returns a copy of the node with the given slug.
func (n *Network) Node(slug string) (model.Node, bool) {
	i, ok := n.nodeIndex[slug]
	if !ok {
		return model.Node{}, false
	}
	return n.nodes[i].Clone(), true
}

// Channel returns a copy of the channel with the given slug.
func (n *Network) Channel(slug string) (model.Channel, bool) {
	i, ok := n.channelIndex[slug]
	if !ok {
		return model.Channel{}, false
	}
	return n.channels[i].Clone(), true
}

// Degree returns the number of channels incident to node. Parallel channels
// each count.
func (n *Network) Degree(node string) int {
	return len(n.adjacency[node])
}

// Neighbours returns the distinct nodes directly connected to node, sorted.
func (n *Network) Neighbours(node string) []string {
	var out []string
	for _, ci := range n.adjacency[node] {
		ch := n.channels[ci]
		other := ch.Node2
		if other == node {
			other = ch.Node1
		}
		out = append(out, other)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Usable reports whether the network has enough nodes to give every one of
// roleCount roles a distinct node.
func (n *Network) Usable(roleCount int) bool {
	return len(n.nodes) >= roleCount
}

// Model returns a deep copy of the network with nodes and channels sorted by
// slug.
func (n *Network) Model() model.Network {
	return model.Network{
		Slug:     n.slug,
		Name:     n.name,
		Nodes:    n.nodes,
		Channels: n.channels,
	}.Clone()
}
