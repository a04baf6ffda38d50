// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the lenient accessors used to decode cty document values
// into the typed model, and the conversion of cty values back into plain Go
// values for JSON and YAML encoding.
//
// Why decode leniently?
//
// Decoding runs after the schema validator has already reported every shape
// problem. A field with the wrong type therefore decodes to its zero value
// instead of failing a second time, so later stages (topology, binding) can
// still run and report their own findings against the parts that are sound.
package model

import (
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// One is the default scale_value.
var One = cty.NumberIntVal(1)

// attr returns the named attribute of an object or map value, or cty.NilVal
// if v is not an object, the attribute is absent, or it is null.
func attr(v cty.Value, name string) cty.Value {
	if v.IsNull() || !v.IsKnown() {
		return cty.NilVal
	}
	t := v.Type()
	switch {
	case t.IsObjectType():
		if !t.HasAttribute(name) {
			return cty.NilVal
		}
		a := v.GetAttr(name)
		if a.IsNull() {
			return cty.NilVal
		}
		return a
	case t.IsMapType():
		key := cty.StringVal(name)
		if !v.HasIndex(key).True() {
			return cty.NilVal
		}
		a := v.Index(key)
		if a.IsNull() {
			return cty.NilVal
		}
		return a
	}
	return cty.NilVal
}

// IsSet reports whether v carries a non-null known value.
func IsSet(v cty.Value) bool {
	return !v.IsNull() && v.IsKnown()
}

// IsNumber reports whether v is a known, non-null number.
func IsNumber(v cty.Value) bool {
	return IsSet(v) && v.Type() == cty.Number
}

func attrString(v cty.Value, name string) string {
	a := attr(v, name)
	if a.IsNull() || a.Type() != cty.String {
		return ""
	}
	return a.AsString()
}

func attrBool(v cty.Value, name string) bool {
	a := attr(v, name)
	if a.IsNull() || a.Type() != cty.Bool {
		return false
	}
	return a.True()
}

// attrNumber returns the attribute when it is a number, otherwise def.
func attrNumber(v cty.Value, name string, def cty.Value) cty.Value {
	a := attr(v, name)
	if !IsNumber(a) {
		return def
	}
	return a
}

func attrInt(v cty.Value, name string) int {
	a := attr(v, name)
	if !IsNumber(a) {
		return 0
	}
	i, _ := a.AsBigFloat().Int64()
	return int(i)
}

// elements returns the elements of a tuple, list or set value.
func elements(v cty.Value) []cty.Value {
	if !IsSet(v) {
		return nil
	}
	t := v.Type()
	if !t.IsTupleType() && !t.IsListType() && !t.IsSetType() {
		return nil
	}
	out := make([]cty.Value, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, e := it.Element()
		out = append(out, e)
	}
	return out
}

func attrList(v cty.Value, name string) []cty.Value {
	return elements(attr(v, name))
}

func attrStrings(v cty.Value, name string) []string {
	var out []string
	for _, e := range attrList(v, name) {
		if IsSet(e) && e.Type() == cty.String {
			out = append(out, e.AsString())
		}
	}
	return out
}

// entries returns the key/value pairs of an object or map value.
func entries(v cty.Value) map[string]cty.Value {
	if !IsSet(v) {
		return nil
	}
	t := v.Type()
	if !t.IsObjectType() && !t.IsMapType() {
		return nil
	}
	out := make(map[string]cty.Value, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, e := it.Element()
		out[k.AsString()] = e
	}
	return out
}

// Plain converts a cty value into the Go value encoding/json and yaml.v3
// marshal naturally. Integral numbers become int64, other numbers float64.
func Plain(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString()
	case t == cty.Bool:
		return v.True()
	case t == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for _, e := range elements(v) {
			out = append(out, Plain(e))
		}
		return out
	case t.IsObjectType() || t.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for k, e := range entries(v) {
			out[k] = Plain(e)
		}
		return out
	}
	return nil
}

// Float returns v as a float64 when it is a number.
func Float(v cty.Value) (float64, bool) {
	if !IsNumber(v) {
		return 0, false
	}
	f, _ := v.AsBigFloat().Float64()
	return f, true
}

// PlainMap converts a map of cty values.
func PlainMap(m map[string]cty.Value) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Plain(v)
	}
	return out
}
