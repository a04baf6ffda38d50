// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package binding

import (
	"errors"

	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/specialistvlad/qnexp/internal/units"
	"github.com/zclconf/go-cty/cty"
)

// located is a value together with where it was read from.
type located struct {
	value  cty.Value
	source string
	path   string
}

// ResolveInputs resolves every input the application declares, in
// declaration order. An override replaces the declared value and scale and
// may narrow the roles. The values block of an override is ignored and
// recomputed. An input with no roles applies to every declared role, and
// all of them share one resolved value.
func (r *Resolver) ResolveInputs(app *model.Application, overrides []model.ResolvedInput) ([]model.ResolvedInput, report.Findings) {
	var findings report.Findings
	add := func(source string, f report.Finding) {
		f.Source = source
		findings = append(findings, f)
	}

	// Overrides are matched by name; the first one for a name wins.
	byName := make(map[string]int, len(overrides))
	for i, o := range overrides {
		path := report.Join("asset.application", i, "name")
		if _, ok := app.Input(o.Name); !ok {
			add(SourceExperiment, report.Errorf(report.KindUnknownInput, path,
				"input %q is not declared by the application", o.Name))
			continue
		}
		if first, dup := byName[o.Name]; dup {
			add(SourceExperiment, report.Errorf(report.KindDuplicateName, path,
				"input %q is already set by asset.application[%d]", o.Name, first))
			continue
		}
		byName[o.Name] = i
	}

	out := make([]model.ResolvedInput, 0, len(app.Inputs))
	for i, spec := range app.Inputs {
		base := report.Join("inputs", i)

		declared := make(map[string]bool, len(spec.Roles))
		for j, role := range spec.Roles {
			if !app.HasRole(role) {
				add(SourceApplication, report.Errorf(report.KindDanglingRoleReference, report.Join(base, "roles", j),
					"input %q references undeclared role %q", spec.Name, role))
				continue
			}
			declared[role] = true
		}
		if len(spec.Roles) == 0 {
			for _, role := range app.Roles {
				declared[role] = true
			}
		}

		value := located{spec.Default, SourceApplication, report.Join(base, "default_value")}
		scale := located{spec.Scale, SourceApplication, report.Join(base, "scale_value")}
		selected := declared

		if k, ok := byName[spec.Name]; ok {
			o := overrides[k]
			obase := report.Join("asset.application", k)
			if model.IsSet(o.Value) {
				value = located{o.Value, SourceExperiment, report.Join(obase, "value")}
			}
			if model.IsSet(o.Scale) {
				scale = located{o.Scale, SourceExperiment, report.Join(obase, "scale_value")}
			}
			if len(o.Roles) > 0 {
				selected = make(map[string]bool, len(o.Roles))
				for j, role := range o.Roles {
					if !declared[role] {
						add(SourceExperiment, report.Errorf(report.KindDanglingRoleReference, report.Join(obase, "roles", j),
							"role %q is not one of the roles input %q applies to", role, spec.Name))
						continue
					}
					selected[role] = true
				}
			}
		}

		// Keep the application's role order.
		var roles []string
		for _, role := range app.Roles {
			if selected[role] {
				roles = append(roles, role)
			}
		}

		if spec.Type == model.InputNumber {
			if err := units.CheckBounds(value.value, spec.Minimum, spec.Maximum); err != nil {
				add(value.source, report.Warnf(report.KindOutOfBounds, value.path,
					"input %q: %v; the value is used as given", spec.Name, err))
			}
		}

		resolved := model.ResolvedInput{
			Name:   spec.Name,
			Type:   spec.Type,
			Roles:  roles,
			Unit:   spec.Unit,
			Value:  value.value,
			Scale:  scale.value,
			Values: make(map[string]cty.Value, len(roles)),
		}

		v, err := r.units.Resolve(value.value, scale.value, spec.Unit, spec.Type)
		switch {
		case err == nil:
			for _, role := range roles {
				resolved.Values[role] = v
			}
		case errors.Is(err, units.ErrScalingNotPermitted), errors.Is(err, units.ErrUnitNotScalable):
			add(scale.source, report.Errorf(report.KindScalingNotPermitted, scale.path, "input %q: %v", spec.Name, err))
		case errors.Is(err, units.ErrNotNumeric):
			add(value.source, report.Errorf(report.KindWrongType, value.path, "input %q: %v", spec.Name, err))
		default:
			add(SourceApplication, report.Errorf(report.KindInvalidEnum, report.Join(base, "input_type"),
				"input %q: %v", spec.Name, err))
		}

		out = append(out, resolved)
	}
	return out, findings
}
