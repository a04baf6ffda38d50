// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package simconfig

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/topology"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// File names written next to the per-role files.
const (
	NetworkFile = "network.yaml"
	RolesFile   = "roles.yaml"
)

// Options control rendering.
type Options struct {
	// FullyConnected replaces the physical channels with one derived link
	// per pair of bound nodes, and keeps only the bound nodes.
	FullyConnected bool
}

// Files maps a file name to its content.
type Files map[string][]byte

// Names returns the file names in sorted order.
func (f Files) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// WriteDir writes every file into dir, creating dir if needed.
func (f Files) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for _, name := range f.Names() {
		if err := os.WriteFile(filepath.Join(dir, name), f[name], 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// Render produces the simulator input files for asset.
func Render(asset *model.Asset, opts Options) (Files, error) {
	files := Files{}

	b := &builder{}
	var network *yaml.Node
	var err error
	if opts.FullyConnected {
		network, err = b.fullyConnected(asset)
	} else {
		network = b.physical(asset.Network.Network)
	}
	if err != nil {
		return nil, err
	}
	if b.err != nil {
		return nil, b.err
	}
	if files[NetworkFile], err = encode(network); err != nil {
		return nil, err
	}

	roles := mapping()
	for _, role := range sortedRoles(asset) {
		b.add(roles, strings.ToLower(role), strings.ToLower(asset.Network.Roles[role]))
	}
	if b.err != nil {
		return nil, b.err
	}
	if files[RolesFile], err = encode(roles); err != nil {
		return nil, err
	}

	for _, role := range sortedRoles(asset) {
		values := mapping()
		for _, in := range asset.Application {
			if v, ok := in.Values[role]; ok {
				b.add(values, in.Name, model.Plain(v))
			}
		}
		if b.err != nil {
			return nil, b.err
		}
		name := strings.ToLower(role) + ".yaml"
		if _, clash := files[name]; clash {
			return nil, fmt.Errorf("role %q renders to %s, which is already used", role, name)
		}
		if files[name], err = encode(values); err != nil {
			return nil, err
		}
	}
	return files, nil
}

// builder assembles yaml nodes and keeps the first encoding error.
type builder struct {
	err error
}

func (b *builder) physical(n model.Network) *yaml.Node {
	nodes := sequence()
	for _, node := range n.Nodes {
		nodes.Content = append(nodes.Content, b.nodeEntry(node))
	}
	links := sequence()
	for _, ch := range n.Channels {
		link := mapping()
		b.add(link, "name", ch.Slug)
		b.add(link, "node_name1", ch.Node1)
		b.add(link, "node_name2", ch.Node2)
		params := ch.Parameters
		if _, ok := ch.Parameter(topology.ParamNoiseType); !ok {
			params = append(slices.Clone(params), model.ParameterSpec{
				Name: topology.ParamNoiseType, Value: cty.StringVal(topology.NoiseDepolarise),
			})
		}
		b.addParams(link, params)
		links.Content = append(links.Content, link)
	}
	root := mapping()
	addNode(root, "nodes", nodes)
	addNode(root, "links", links)
	return root
}

func (b *builder) fullyConnected(asset *model.Asset) (*yaml.Node, error) {
	net, err := topology.Load(asset.Network.Network)
	if err != nil {
		return nil, err
	}
	bound := map[string]bool{}
	for _, node := range asset.Network.Roles {
		bound[node] = true
	}
	var slugs []string
	nodes := sequence()
	for _, node := range asset.Network.Nodes {
		if bound[node.Slug] {
			slugs = append(slugs, node.Slug)
			nodes.Content = append(nodes.Content, b.nodeEntry(node))
		}
	}
	derived, err := net.FullyConnected(slugs)
	if err != nil {
		return nil, err
	}
	links := sequence()
	for _, l := range derived {
		link := mapping()
		b.add(link, "name", l.Name)
		b.add(link, "node_name1", l.Node1)
		b.add(link, "node_name2", l.Node2)
		b.add(link, topology.ParamNoiseType, l.NoiseType)
		b.add(link, topology.ParamFidelity, l.Fidelity)
		links.Content = append(links.Content, link)
	}
	root := mapping()
	addNode(root, "nodes", nodes)
	addNode(root, "links", links)
	return root, nil
}

func (b *builder) nodeEntry(node model.Node) *yaml.Node {
	entry := mapping()
	b.add(entry, "name", node.Slug)
	b.addParams(entry, node.Parameters)
	qubits := sequence()
	for i, q := range node.Qubits {
		qubit := mapping()
		b.add(qubit, "id", i)
		b.add(qubit, q.Name, model.Plain(q.Value))
		qubits.Content = append(qubits.Content, qubit)
	}
	addNode(entry, "qubits", qubits)
	return entry
}

// addParams flattens parameters into name: value pairs. Values are written
// as authored; scale_value is not applied.
func (b *builder) addParams(m *yaml.Node, params []model.ParameterSpec) {
	for _, p := range params {
		b.add(m, p.Name, model.Plain(p.Value))
	}
}

func sortedRoles(asset *model.Asset) []string {
	roles := make([]string, 0, len(asset.Network.Roles))
	for role := range asset.Network.Roles {
		roles = append(roles, role)
	}
	slices.Sort(roles)
	return roles
}

func mapping() *yaml.Node  { return &yaml.Node{Kind: yaml.MappingNode} }
func sequence() *yaml.Node { return &yaml.Node{Kind: yaml.SequenceNode} }

func (b *builder) add(m *yaml.Node, key string, value any) {
	v := &yaml.Node{}
	if err := v.Encode(value); err != nil {
		if b.err == nil {
			b.err = fmt.Errorf("failed to encode %s: %w", key, err)
		}
		return
	}
	addNode(m, key, v)
}

func addNode(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}

func encode(n *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
