// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Kind identifies which of the document shapes a value has.
type Kind int

const (
	KindUnknown Kind = iota
	KindApplication
	KindNetwork
	KindExperiment
	KindNetworkView
)

var kindNames = map[Kind]string{
	KindApplication: "application",
	KindNetwork:     "network",
	KindExperiment:  "experiment",
	KindNetworkView: "network-view",
}

// Kinds lists every concrete document kind.
var Kinds = []Kind{KindApplication, KindNetwork, KindExperiment, KindNetworkView}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind accepts the names printed by Kind.String.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	if s == "catalog" || s == "networks" {
		return KindNetwork, nil
	}
	return KindUnknown, fmt.Errorf("unknown document kind %q", s)
}

// DetectKind infers the kind of a document from its top-level keys.
func DetectKind(v cty.Value) Kind {
	if v.IsNull() || !v.IsKnown() || !v.Type().IsObjectType() {
		return KindUnknown
	}
	has := v.Type().HasAttribute
	switch {
	case has("meta") && has("asset"):
		return KindExperiment
	case has("networks") && has("roles"):
		return KindNetworkView
	case has("networks"):
		return KindNetwork
	case has("roles") || has("inputs"):
		return KindApplication
	}
	return KindUnknown
}
