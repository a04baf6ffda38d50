// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package topology

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Noise types ordered from worst to best.
const (
	NoiseDepolarise = "Depolarise"
	NoiseBitflip    = "Bitflip"
	NoiseNone       = "NoNoise"
)

// Channel parameter names read by FullyConnected.
const (
	ParamFidelity  = "fidelity"
	ParamNoiseType = "noise_type"
)

// MinUsableFidelity is the effective fidelity below which a derived link is
// reported with fidelity 0.
const MinUsableFidelity = 0.5

// ErrNotFullyConnected is returned when some pair of requested nodes has no
// path between them.
var ErrNotFullyConnected = errors.New("derived network is not fully connected")

// Link is a derived direct link between two nodes.
type Link struct {
	Name      string
	Node1     string
	Node2     string
	Fidelity  float64
	NoiseType string
	// Channels lists the physical channels the link is routed over.
	Channels []string
}

// CombinedFidelity is the effective fidelity of two links used in sequence.
func CombinedFidelity(f1, f2 float64) float64 {
	return f1*f2 + (1-f1)*(1-f2)/3
}

// FullyConnected derives one direct link for every pair of the given nodes,
// routed over the path of best effective fidelity. Links are returned for
// pairs in the order the nodes are given. A pair without any path is left
// out and ErrNotFullyConnected is returned together with the links found.
func (n *Network) FullyConnected(nodes []string) ([]Link, error) {
	for _, node := range nodes {
		if !n.HasNode(node) {
			return nil, fmt.Errorf("unknown node %q", node)
		}
	}

	var links []Link
	for i := 0; i < len(nodes)-1; i++ {
		paths := n.bestPaths(nodes[i])
		for j := i + 1; j < len(nodes); j++ {
			p := paths[nodes[j]]
			if p.fidelity <= 0 {
				continue
			}
			fidelity := 0.0
			if p.fidelity >= MinUsableFidelity {
				fidelity = math.Round(p.fidelity*10000) / 10000
			}
			links = append(links, Link{
				Name:      nodes[i] + "-" + nodes[j],
				Node1:     nodes[i],
				Node2:     nodes[j],
				Fidelity:  fidelity,
				NoiseType: n.worstNoise(p.channels),
				Channels:  p.channels,
			})
		}
	}

	if want := len(nodes) * (len(nodes) - 1) / 2; len(links) != want {
		return links, fmt.Errorf("%w: %d of %d node pairs are linked", ErrNotFullyConnected, len(links), want)
	}
	return links, nil
}

type path struct {
	fidelity float64
	channels []string
	final    bool
}

// bestPaths runs Dijkstra from start, maximising effective fidelity instead
// of minimising distance.
func (n *Network) bestPaths(start string) map[string]*path {
	paths := make(map[string]*path, len(n.nodes))
	for _, node := range n.nodes {
		paths[node.Slug] = &path{}
	}
	paths[start].fidelity = 1

	for {
		// Ties break on slug order, so results do not depend on map order.
		current := ""
		for _, node := range n.nodes {
			p := paths[node.Slug]
			if p.final {
				continue
			}
			if current == "" || p.fidelity > paths[current].fidelity {
				current = node.Slug
			}
		}
		if current == "" {
			return paths
		}
		cp := paths[current]
		cp.final = true
		if cp.fidelity <= 0 {
			continue
		}

		for _, ci := range n.adjacency[current] {
			ch := n.channels[ci]
			other := ch.Node2
			if other == current {
				other = ch.Node1
			}
			op := paths[other]
			if op.final {
				continue
			}
			alt := CombinedFidelity(cp.fidelity, channelFidelity(ch))
			if alt > op.fidelity {
				op.fidelity = alt
				op.channels = append(slices.Clone(cp.channels), ch.Slug)
			}
		}
	}
}

func channelFidelity(ch model.Channel) float64 {
	p, ok := ch.Parameter(ParamFidelity)
	if !ok {
		return 0
	}
	f, _ := model.Float(p.Value)
	return f
}

// worstNoise returns the worst noise type over the given channels. Channels
// without a noise_type parameter count as depolarising.
func (n *Network) worstNoise(channels []string) string {
	seen := map[string]bool{}
	for _, slug := range channels {
		ch := n.channels[n.channelIndex[slug]]
		noise := NoiseDepolarise
		if p, ok := ch.Parameter(ParamNoiseType); ok && model.IsSet(p.Value) && p.Value.Type() == cty.String {
			noise = p.Value.AsString()
		}
		seen[noise] = true
	}
	switch {
	case seen[NoiseDepolarise]:
		return NoiseDepolarise
	case seen[NoiseBitflip]:
		return NoiseBitflip
	default:
		return NoiseNone
	}
}
