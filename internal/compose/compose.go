// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package compose builds the self-contained asset document from a validated
// topology and a role binding.
package compose

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/specialistvlad/qnexp/internal/binding"
	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/topology"
)

// Compose copies the network and the binding into a new asset. Nodes and
// channels are ordered by slug and inputs keep the application's order, so
// equal inputs always give an equal asset. Nothing in the result aliases net
// or rb.
func Compose(net *topology.Network, rb *binding.RoleBinding) (*model.Asset, error) {
	if net == nil || rb == nil {
		return nil, errors.New("compose: network and binding are required")
	}
	for role, node := range rb.Roles {
		if !net.HasNode(node) {
			return nil, fmt.Errorf("compose: role %q is bound to node %q outside network %q", role, node, net.Slug())
		}
	}

	asset := &model.Asset{
		Network: model.AssetNetwork{
			Network: net.Model(),
			Roles:   maps.Clone(rb.Roles),
		},
		Application: make([]model.ResolvedInput, len(rb.Inputs)),
	}
	for i, in := range rb.Inputs {
		asset.Application[i] = in.Clone()
	}
	return asset, nil
}

// Marshal returns the canonical encoding of the asset: indented JSON with
// object keys in a fixed order and a trailing newline.
func Marshal(asset *model.Asset) ([]byte, error) {
	b, err := json.MarshalIndent(asset, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode asset: %w", err)
	}
	return append(b, '\n'), nil
}

// Digest returns the hex SHA-256 of the canonical encoding.
func Digest(asset *model.Asset) (string, error) {
	b, err := Marshal(asset)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
