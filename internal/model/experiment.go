// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// Backend locations accepted without a warning.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// ApplicationRef identifies the application an experiment runs.
type ApplicationRef struct {
	Slug       string `json:"slug"`
	AppVersion string `json:"app_version,omitempty"`
	MultiRound bool   `json:"multi_round"`
}

// Backend selects where the experiment runs.
type Backend struct {
	Location string `json:"location"`
	Type     string `json:"type,omitempty"`
}

// Meta is the descriptive half of an experiment.
type Meta struct {
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Application    ApplicationRef `json:"application"`
	Network        string         `json:"network,omitempty"`
	Backend        Backend        `json:"backend"`
	NumberOfRounds int            `json:"number_of_rounds"`
}

// AssetNetwork is a materialized network plus its role map.
type AssetNetwork struct {
	Network
	// Roles maps role name to node slug.
	Roles map[string]string
}

// ResolvedInput is one application input bound to concrete roles. In an
// authored experiment only Name, Value, Scale and Roles are read; Values is
// always recomputed.
type ResolvedInput struct {
	Name   string
	Type   InputType
	Roles  []string
	Unit   string
	Value  cty.Value
	Scale  cty.Value
	Values map[string]cty.Value
}

// Asset is the fully resolved configuration handed to a simulator runner.
type Asset struct {
	Network     AssetNetwork
	Application []ResolvedInput
}

// Experiment is the typed form of experiment.json.
type Experiment struct {
	Meta  Meta
	Asset Asset
}

// NetworkView is the derived network.json: the networks an application can
// run on and the roles it declares.
type NetworkView struct {
	Networks []string `json:"networks"`
	Roles    []string `json:"roles"`
}

// DecodeExperiment builds an Experiment from a document value.
func DecodeExperiment(v cty.Value) *Experiment {
	meta := attr(v, "meta")
	appRef := attr(meta, "application")
	backend := attr(meta, "backend")
	asset := attr(v, "asset")
	netv := attr(asset, "network")

	exp := &Experiment{
		Meta: Meta{
			Name:        attrString(meta, "name"),
			Description: attrString(meta, "description"),
			Application: ApplicationRef{
				Slug:       attrString(appRef, "slug"),
				AppVersion: attrString(appRef, "app_version"),
				MultiRound: attrBool(appRef, "multi_round"),
			},
			Network: attrString(meta, "network"),
			Backend: Backend{
				Location: attrString(backend, "location"),
				Type:     attrString(backend, "type"),
			},
			NumberOfRounds: attrInt(meta, "number_of_rounds"),
		},
		Asset: Asset{
			Network: AssetNetwork{
				Network: DecodeNetwork(netv),
				Roles:   map[string]string{},
			},
		},
	}
	for role, nv := range entries(attr(netv, "roles")) {
		if IsSet(nv) && nv.Type() == cty.String {
			exp.Asset.Network.Roles[role] = nv.AsString()
		}
	}
	for _, rv := range attrList(asset, "application") {
		ri := ResolvedInput{
			Name:   attrString(rv, "name"),
			Type:   InputType(attrString(rv, "input_type")),
			Roles:  attrStrings(rv, "roles"),
			Unit:   attrString(rv, "unit"),
			Value:  attr(rv, "value"),
			Scale:  attrNumber(rv, "scale_value", cty.NilVal),
			Values: entries(attr(rv, "values")),
		}
		exp.Asset.Application = append(exp.Asset.Application, ri)
	}
	return exp
}

// Clone returns a deep copy of the resolved input.
func (r ResolvedInput) Clone() ResolvedInput {
	r.Roles = slices.Clone(r.Roles)
	r.Values = maps.Clone(r.Values)
	return r
}

// MarshalJSON renders the input in asset form.
func (r ResolvedInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name   string         `json:"name"`
		Type   InputType      `json:"input_type"`
		Roles  []string       `json:"roles"`
		Unit   string         `json:"unit"`
		Value  any            `json:"value"`
		Scale  any            `json:"scale_value"`
		Values map[string]any `json:"values"`
	}{r.Name, r.Type, nonNil(r.Roles), r.Unit, Plain(r.Value), Plain(r.Scale), PlainMap(r.Values)})
}

// MarshalJSON renders the network flat, with roles next to nodes and channels.
func (n AssetNetwork) MarshalJSON() ([]byte, error) {
	roles := n.Roles
	if roles == nil {
		roles = map[string]string{}
	}
	return json.Marshal(struct {
		networkFields
		Roles map[string]string `json:"roles"`
	}{networkJSON(n.Network), roles})
}

// MarshalJSON renders the asset.
func (a *Asset) MarshalJSON() ([]byte, error) {
	app := a.Application
	if app == nil {
		app = []ResolvedInput{}
	}
	return json.Marshal(struct {
		Network     AssetNetwork    `json:"network"`
		Application []ResolvedInput `json:"application"`
	}{a.Network, app})
}

// MarshalJSON renders the experiment in experiment.json form.
func (e *Experiment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Meta  Meta   `json:"meta"`
		Asset *Asset `json:"asset"`
	}{e.Meta, &e.Asset})
}
