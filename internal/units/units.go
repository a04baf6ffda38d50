// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package units resolves declared input values into the values the simulator
// consumes: it applies scale factors, refuses to scale qubit inputs, and
// refuses non-unity scale factors on units that are not physical quantities.
package units

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/zclconf/go-cty/cty"
)

var (
	// ErrScalingNotPermitted is returned when a qubit input has a scale
	// factor other than 1.
	ErrScalingNotPermitted = errors.New("scaling not permitted")
	// ErrUnitNotScalable is returned when a scale factor other than 1 is
	// applied to a unit outside the scalable set.
	ErrUnitNotScalable = errors.New("unit is not scalable")
	// ErrNotNumeric is returned when a number input or its scale is not a
	// number.
	ErrNotNumeric = errors.New("value is not numeric")
	// ErrOutOfBounds is returned by CheckBounds.
	ErrOutOfBounds = errors.New("value out of bounds")
)

// Family groups units that measure the same physical quantity.
type Family string

const (
	FamilyAngle       Family = "angle"
	FamilyTime        Family = "time"
	FamilyFrequency   Family = "frequency"
	FamilyLength      Family = "length"
	FamilyPower       Family = "power"
	FamilyTemperature Family = "temperature"
	FamilyRatio       Family = "ratio"
	FamilyCustom      Family = "custom"
)

var defaultUnits = map[string]Family{
	"rad": FamilyAngle, "mrad": FamilyAngle, "deg": FamilyAngle,
	"s": FamilyTime, "ms": FamilyTime, "us": FamilyTime, "µs": FamilyTime, "ns": FamilyTime, "ps": FamilyTime,
	"Hz": FamilyFrequency, "kHz": FamilyFrequency, "MHz": FamilyFrequency, "GHz": FamilyFrequency,
	"m": FamilyLength, "km": FamilyLength, "cm": FamilyLength, "mm": FamilyLength, "um": FamilyLength, "nm": FamilyLength,
	"W": FamilyPower, "mW": FamilyPower, "dB": FamilyPower, "dBm": FamilyPower,
	"K": FamilyTemperature, "mK": FamilyTemperature,
	"%": FamilyRatio,
}

// structural tags name counts and identities, never physical quantities.
var structural = map[string]bool{"": true, "qubit": true, "count": true, "index": true}

// Registry is the set of units a scale factor may be applied to. It is
// immutable once built and safe for concurrent use.
type Registry struct {
	units map[string]Family
}

// NewRegistry returns the default registry extended with extra units.
// Structural tags in extra are ignored.
func NewRegistry(extra ...string) *Registry {
	r := &Registry{units: make(map[string]Family, len(defaultUnits)+len(extra))}
	for u, f := range defaultUnits {
		r.units[u] = f
	}
	for _, u := range extra {
		u = strings.TrimSpace(u)
		if structural[u] {
			continue
		}
		if _, ok := r.units[u]; !ok {
			r.units[u] = FamilyCustom
		}
	}
	return r
}

var defaultRegistry = NewRegistry()

// Default returns the registry of built-in units.
func Default() *Registry { return defaultRegistry }

// Scalable reports whether unit accepts a scale factor other than 1.
func (r *Registry) Scalable(unit string) bool {
	_, ok := r.units[strings.TrimSpace(unit)]
	return ok
}

// Family returns the physical quantity unit measures.
func (r *Registry) Family(unit string) (Family, bool) {
	f, ok := r.units[strings.TrimSpace(unit)]
	return f, ok
}

// Units returns the registered units in sorted order.
func (r *Registry) Units() []string {
	out := make([]string, 0, len(r.units))
	for u := range r.units {
		out = append(out, u)
	}
	slices.Sort(out)
	return out
}

// Resolve returns the value the simulator receives for an input. Qubit
// values pass through unchanged and must not be scaled. Number values are
// multiplied by scale. The value is never clamped to bounds.
func (r *Registry) Resolve(value, scale cty.Value, unit string, t model.InputType) (cty.Value, error) {
	if !model.IsSet(scale) {
		scale = model.One
	}
	if !model.IsNumber(scale) {
		return cty.NilVal, fmt.Errorf("%w: scale_value must be a number, got %s", ErrNotNumeric, scale.Type().FriendlyName())
	}
	unity := scale.Equals(model.One).True()

	switch t {
	case model.InputQubit:
		if !unity {
			return cty.NilVal, fmt.Errorf("%w: qubit inputs must have scale_value 1, got %s", ErrScalingNotPermitted, format(scale))
		}
		return value, nil
	case model.InputNumber:
		if !model.IsNumber(value) {
			typeName := "null"
			if model.IsSet(value) {
				typeName = value.Type().FriendlyName()
			}
			return cty.NilVal, fmt.Errorf("%w: number input has a %s value", ErrNotNumeric, typeName)
		}
		if unity {
			return value, nil
		}
		if !r.Scalable(unit) {
			return cty.NilVal, fmt.Errorf("%w: unit %q cannot take scale_value %s", ErrUnitNotScalable, unit, format(scale))
		}
		return value.Multiply(scale), nil
	default:
		return cty.NilVal, fmt.Errorf("unknown input type %q", t)
	}
}

// Resolve applies the default registry.
func Resolve(value, scale cty.Value, unit string, t model.InputType) (cty.Value, error) {
	return defaultRegistry.Resolve(value, scale, unit, t)
}

// CheckBounds checks an unscaled value against optional inclusive bounds.
// Unset bounds and non-numeric values are not checked.
func CheckBounds(value, minimum, maximum cty.Value) error {
	if !model.IsNumber(value) {
		return nil
	}
	if model.IsNumber(minimum) && value.LessThan(minimum).True() {
		return fmt.Errorf("%w: %s is below minimum %s", ErrOutOfBounds, format(value), format(minimum))
	}
	if model.IsNumber(maximum) && value.GreaterThan(maximum).True() {
		return fmt.Errorf("%w: %s is above maximum %s", ErrOutOfBounds, format(value), format(maximum))
	}
	return nil
}

// Float64 renders a resolved number as the nearest float64.
func Float64(v cty.Value) (float64, bool) {
	return model.Float(v)
}

func format(v cty.Value) string {
	if !model.IsNumber(v) {
		return v.GoString()
	}
	return v.AsBigFloat().Text('g', -1)
}
