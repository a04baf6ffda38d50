// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"encoding/json"
	"slices"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// ParameterSpec is a named physical parameter of a node, qubit or channel.
type ParameterSpec struct {
	Name  string
	Value cty.Value
	Scale cty.Value
	Unit  string
}

// Coordinates locate a node on the map.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Node is a physical network node.
type Node struct {
	Slug        string
	Name        string
	Coordinates *Coordinates
	Parameters  []ParameterSpec
	// Qubits holds one parameter per qubit slot of the node.
	Qubits []ParameterSpec
}

// Channel is an undirected link between two nodes.
type Channel struct {
	Slug       string
	Node1      string
	Node2      string
	Parameters []ParameterSpec
}

// Network is a catalog network or its materialized copy in an experiment.
type Network struct {
	Slug     string
	Name     string
	Nodes    []Node
	Channels []Channel
}

// ParameterTemplate constrains the name and range of a network parameter.
type ParameterTemplate struct {
	Name        string
	Description string
	Minimum     cty.Value
	Maximum     cty.Value
	Unit        string
}

// Catalog is the typed form of networks.json.
type Catalog struct {
	Networks  map[string]Network
	Templates []ParameterTemplate
}

// Slugs returns the catalog's network slugs in sorted order.
func (c *Catalog) Slugs() []string {
	out := make([]string, 0, len(c.Networks))
	for slug := range c.Networks {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// DecodeCatalog builds a Catalog from a document value.
func DecodeCatalog(v cty.Value) *Catalog {
	c := &Catalog{Networks: map[string]Network{}}
	for key, nv := range entries(attr(v, "networks")) {
		n := DecodeNetwork(nv)
		if n.Slug == "" {
			n.Slug = key
		}
		c.Networks[key] = n
	}
	for _, tv := range attrList(v, "templates") {
		c.Templates = append(c.Templates, ParameterTemplate{
			Name:        attrString(tv, "name"),
			Description: attrString(tv, "description"),
			Minimum:     attrNumber(tv, "minimum_value", cty.NilVal),
			Maximum:     attrNumber(tv, "maximum_value", cty.NilVal),
			Unit:        attrString(tv, "unit"),
		})
	}
	return c
}

// DecodeNetwork builds a Network from a network object value.
func DecodeNetwork(v cty.Value) Network {
	n := Network{
		Slug: attrString(v, "slug"),
		Name: attrString(v, "name"),
	}
	for _, nv := range attrList(v, "nodes") {
		node := Node{
			Slug:       attrString(nv, "slug"),
			Name:       attrString(nv, "name"),
			Parameters: decodeParameters(attrList(nv, "node_parameters")),
			Qubits:     decodeParameters(attrList(nv, "qubits")),
		}
		if cv := attr(nv, "coordinates"); IsSet(cv) {
			lat, _ := Float(attr(cv, "latitude"))
			lon, _ := Float(attr(cv, "longitude"))
			node.Coordinates = &Coordinates{Latitude: lat, Longitude: lon}
		}
		n.Nodes = append(n.Nodes, node)
	}
	for _, cv := range attrList(v, "channels") {
		n.Channels = append(n.Channels, Channel{
			Slug:       attrString(cv, "slug"),
			Node1:      attrString(cv, "node1"),
			Node2:      attrString(cv, "node2"),
			Parameters: decodeParameters(attrList(cv, "parameters")),
		})
	}
	return n
}

func decodeParameters(vs []cty.Value) []ParameterSpec {
	var out []ParameterSpec
	for _, pv := range vs {
		out = append(out, ParameterSpec{
			Name:  attrString(pv, "name"),
			Value: attr(pv, "value"),
			Scale: attrNumber(pv, "scale_value", One),
			Unit:  attrString(pv, "unit"),
		})
	}
	return out
}

// Parameter returns the named parameter.
func (n Node) Parameter(name string) (ParameterSpec, bool) {
	return findParameter(n.Parameters, name)
}

// Parameter returns the named parameter.
func (c Channel) Parameter(name string) (ParameterSpec, bool) {
	return findParameter(c.Parameters, name)
}

func findParameter(ps []ParameterSpec, name string) (ParameterSpec, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterSpec{}, false
}

// Clone returns a copy that shares no slices with n.
func (n Node) Clone() Node {
	n.Parameters = slices.Clone(n.Parameters)
	n.Qubits = slices.Clone(n.Qubits)
	if n.Coordinates != nil {
		c := *n.Coordinates
		n.Coordinates = &c
	}
	return n
}

// Clone returns a copy that shares no slices with c.
func (c Channel) Clone() Channel {
	c.Parameters = slices.Clone(c.Parameters)
	return c
}

// Clone returns a deep copy of the network.
func (n Network) Clone() Network {
	out := Network{Slug: n.Slug, Name: n.Name}
	for _, node := range n.Nodes {
		out.Nodes = append(out.Nodes, node.Clone())
	}
	for _, ch := range n.Channels {
		out.Channels = append(out.Channels, ch.Clone())
	}
	return out
}

// MarshalJSON renders the parameter with plain JSON values.
func (p ParameterSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
		Scale any    `json:"scale_value"`
		Unit  string `json:"unit"`
	}{p.Name, Plain(p.Value), Plain(p.Scale), p.Unit})
}

// MarshalJSON renders the node in networks.json form.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Slug        string          `json:"slug"`
		Name        string          `json:"name"`
		Coordinates *Coordinates    `json:"coordinates,omitempty"`
		Parameters  []ParameterSpec `json:"node_parameters"`
		Qubits      []ParameterSpec `json:"qubits"`
	}{n.Slug, n.Name, n.Coordinates, nonNilParams(n.Parameters), nonNilParams(n.Qubits)})
}

// MarshalJSON renders the channel in networks.json form.
func (c Channel) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Slug       string          `json:"slug"`
		Node1      string          `json:"node1"`
		Node2      string          `json:"node2"`
		Parameters []ParameterSpec `json:"parameters"`
	}{c.Slug, c.Node1, c.Node2, nonNilParams(c.Parameters)})
}

// MarshalJSON renders the network in networks.json form.
func (n Network) MarshalJSON() ([]byte, error) {
	return json.Marshal(networkJSON(n))
}

type networkFields struct {
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	Nodes    []Node    `json:"nodes"`
	Channels []Channel `json:"channels"`
}

func networkJSON(n Network) networkFields {
	nodes, channels := n.Nodes, n.Channels
	if nodes == nil {
		nodes = []Node{}
	}
	if channels == nil {
		channels = []Channel{}
	}
	return networkFields{n.Slug, n.Name, nodes, channels}
}

func nonNilParams(ps []ParameterSpec) []ParameterSpec {
	if ps == nil {
		return []ParameterSpec{}
	}
	return ps
}
