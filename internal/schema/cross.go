// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/zclconf/go-cty/cty"
)

// Cross-field constraints. They run after the table walk and only look at
// fields that already have the right type, so a single mistake is not
// reported twice.

func checkApplication(doc cty.Value) report.Findings {
	var findings report.Findings

	roles, ok := get(doc, "roles")
	if ok && isList(roles) {
		if roles.LengthInt() == 0 {
			findings = append(findings, report.Errorf(report.KindInvalidValue, "roles", "an application must declare at least one role"))
		}
		findings = append(findings, duplicateStrings(roles, "roles", "role")...)
	}

	inputs, _ := get(doc, "inputs")
	findings = append(findings, duplicateNames(inputs, "inputs", "input")...)
	for i, in := range list(inputs) {
		base := report.Join("inputs", i)
		minimum, hasMin := number(in, "minimum_value")
		maximum, hasMax := number(in, "maximum_value")
		inputType := str(in, "input_type")

		if hasMin && hasMax && minimum.GreaterThan(maximum).True() {
			findings = append(findings, report.Errorf(report.KindInvalidBounds, report.Join(base, "minimum_value"),
				"minimum_value %s is greater than maximum_value %s", numText(minimum), numText(maximum)))
		}
		switch model.InputType(inputType) {
		case model.InputNumber:
			if def, ok := get(in, "default_value"); ok && !def.IsNull() && def.Type() != cty.Number {
				findings = append(findings, report.Errorf(report.KindWrongType, report.Join(base, "default_value"),
					"number input %q requires a numeric default_value, got %s", str(in, "name"), friendly(def)))
			}
		case model.InputQubit:
			for _, name := range []string{"minimum_value", "maximum_value"} {
				if _, ok := number(in, name); ok {
					findings = append(findings, report.Warnf(report.KindIgnoredField, report.Join(base, name),
						"%s is ignored on qubit inputs", name))
				}
			}
		}
	}
	return findings
}

func checkCatalog(doc cty.Value) report.Findings {
	var findings report.Findings

	networks, _ := get(doc, "networks")
	for _, key := range attributeNames(networks) {
		n, _ := lookup(networks, key)
		if slug := str(n, "slug"); slug != "" && slug != key {
			findings = append(findings, report.Errorf(report.KindInvalidValue, report.Join("networks", key, "slug"),
				"network slug %q does not match its key %q", slug, key))
		}
	}

	templates, _ := get(doc, "templates")
	findings = append(findings, duplicateNames(templates, "templates", "template")...)
	for i, tpl := range list(templates) {
		minimum, hasMin := number(tpl, "minimum_value")
		maximum, hasMax := number(tpl, "maximum_value")
		if hasMin && hasMax && minimum.GreaterThan(maximum).True() {
			findings = append(findings, report.Errorf(report.KindInvalidBounds, report.Join("templates", i, "minimum_value"),
				"minimum_value %s is greater than maximum_value %s", numText(minimum), numText(maximum)))
		}
	}
	return findings
}

func checkExperiment(doc cty.Value) report.Findings {
	var findings report.Findings

	meta, _ := get(doc, "meta")
	if rounds, ok := number(meta, "number_of_rounds"); ok && rounds.AsBigFloat().IsInt() && rounds.LessThan(cty.NumberIntVal(1)).True() {
		findings = append(findings, report.Errorf(report.KindInvalidValue, "meta.number_of_rounds",
			"number_of_rounds must be at least 1, got %s", numText(rounds)))
	}

	backend, _ := get(meta, "backend")
	if loc := str(backend, "location"); loc != "" && loc != model.BackendLocal && loc != model.BackendRemote {
		findings = append(findings, report.Warnf(report.KindUnsupportedBackend, "meta.backend.location",
			"backend location %q is not %q or %q", loc, model.BackendLocal, model.BackendRemote))
	}

	asset, _ := get(doc, "asset")
	network, _ := get(asset, "network")
	if want, got := str(meta, "network"), str(network, "slug"); want != "" && got != "" && want != got {
		findings = append(findings, report.Errorf(report.KindNetworkMismatch, "meta.network",
			"meta.network %q does not match asset.network.slug %q", want, got))
	}

	application, _ := get(asset, "application")
	findings = append(findings, duplicateNames(application, "asset.application", "input")...)
	return findings
}

func get(v cty.Value, name string) (cty.Value, bool) {
	a, ok := lookup(v, name)
	if !ok || a.IsNull() {
		return cty.NilVal, false
	}
	return a, true
}

func str(v cty.Value, name string) string {
	a, ok := get(v, name)
	if !ok || a.Type() != cty.String {
		return ""
	}
	return a.AsString()
}

func number(v cty.Value, name string) (cty.Value, bool) {
	a, ok := get(v, name)
	if !ok || a.Type() != cty.Number {
		return cty.NilVal, false
	}
	return a, true
}

func isList(v cty.Value) bool {
	if v.IsNull() || !v.IsKnown() {
		return false
	}
	t := v.Type()
	return t.IsTupleType() || t.IsListType() || t.IsSetType()
}

func list(v cty.Value) []cty.Value {
	if !isList(v) {
		return nil
	}
	var out []cty.Value
	for it := v.ElementIterator(); it.Next(); {
		_, e := it.Element()
		out = append(out, e)
	}
	return out
}

// duplicateStrings reports repeated string elements of a list.
func duplicateStrings(v cty.Value, path, what string) report.Findings {
	var findings report.Findings
	seen := map[string]int{}
	for i, e := range list(v) {
		if e.IsNull() || e.Type() != cty.String {
			continue
		}
		s := e.AsString()
		if first, dup := seen[s]; dup {
			findings = append(findings, report.Errorf(report.KindDuplicateName, report.Join(path, i),
				"%s %q is already declared at %s", what, s, report.Join(path, first)))
			continue
		}
		seen[s] = i
	}
	return findings
}

// duplicateNames reports list elements sharing the same "name" attribute.
func duplicateNames(v cty.Value, path, what string) report.Findings {
	var findings report.Findings
	seen := map[string]int{}
	for i, e := range list(v) {
		name := str(e, "name")
		if name == "" {
			continue
		}
		if first, dup := seen[name]; dup {
			findings = append(findings, report.Errorf(report.KindDuplicateName, report.Join(path, i, "name"),
				"%s %q is already declared at %s", what, name, report.Join(path, first)))
			continue
		}
		seen[name] = i
	}
	return findings
}

func numText(v cty.Value) string {
	return v.AsBigFloat().Text('g', -1)
}
