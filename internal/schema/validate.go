// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/specialistvlad/qnexp/internal/document"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/zclconf/go-cty/cty"
)

// Validate checks a document value against the table for its kind and then
// applies the kind's cross-field constraints. It never stops at the first
// problem.
func Validate(doc cty.Value, kind document.Kind) report.Findings {
	shape, ok := shapes[kind]
	if !ok {
		return report.Findings{report.Errorf(report.KindMalformedDocument, "", "cannot validate a document of kind %s", kind)}
	}
	if doc.IsNull() || !doc.IsKnown() {
		return report.Findings{report.Errorf(report.KindMalformedDocument, "", "%s document is empty", kind)}
	}
	if !isObject(doc) {
		return report.Findings{report.Errorf(report.KindMalformedDocument, "", "%s document must be an object, got %s", kind, doc.Type().FriendlyName())}
	}

	findings := checkObject(doc, shape, nil)
	switch kind {
	case document.KindApplication:
		findings = append(findings, checkApplication(doc)...)
	case document.KindNetwork:
		findings = append(findings, checkCatalog(doc)...)
	case document.KindExperiment:
		findings = append(findings, checkExperiment(doc)...)
	}
	return findings
}

func checkObject(v cty.Value, shape *Shape, path cty.Path) report.Findings {
	var findings report.Findings

	keys := attributeNames(v)
	for _, k := range keys {
		if _, ok := shape.field(k); !ok {
			findings = append(findings, report.Warnf(report.KindUnknownField, report.FormatPath(path.GetAttr(k)),
				"unknown field %q is ignored", k))
		}
	}

	for i := range shape.Fields {
		f := &shape.Fields[i]
		fp := path.GetAttr(f.Name)
		val, present := lookup(v, f.Name)
		if !present {
			if f.Required {
				findings = append(findings, report.Errorf(report.KindMissingField, report.FormatPath(fp),
					"required field %q is missing", f.Name))
			}
			continue
		}
		findings = append(findings, checkValue(f, val, fp)...)
	}
	return findings
}

func checkValue(f *Field, v cty.Value, path cty.Path) report.Findings {
	loc := report.FormatPath(path)
	if v.IsNull() {
		if f.Required {
			return report.Findings{report.Errorf(report.KindWrongType, loc, "expected %s, got null", f.Type)}
		}
		return nil
	}
	t := v.Type()

	switch f.Type {
	case TypeAny:
		return nil
	case TypeString:
		if t != cty.String {
			return wrongType(f, v, loc)
		}
		if len(f.Enum) > 0 && !slices.Contains(f.Enum, v.AsString()) {
			return report.Findings{report.Errorf(report.KindInvalidEnum, loc,
				"%q is not one of %s", v.AsString(), strings.Join(f.Enum, ", "))}
		}
	case TypeNumber:
		if t != cty.Number {
			return wrongType(f, v, loc)
		}
	case TypeInteger:
		if t != cty.Number || !v.AsBigFloat().IsInt() {
			return wrongType(f, v, loc)
		}
	case TypeBool:
		if t != cty.Bool {
			return wrongType(f, v, loc)
		}
	case TypeList:
		if !t.IsTupleType() && !t.IsListType() && !t.IsSetType() {
			return wrongType(f, v, loc)
		}
		if f.Elem == nil {
			return nil
		}
		var findings report.Findings
		i := 0
		for it := v.ElementIterator(); it.Next(); i++ {
			_, e := it.Element()
			findings = append(findings, checkElem(f.Elem, e, path.Index(cty.NumberIntVal(int64(i))))...)
		}
		return findings
	case TypeObject:
		if !isObject(v) {
			return wrongType(f, v, loc)
		}
		if f.Shape == nil {
			return nil
		}
		return checkObject(v, f.Shape, path)
	case TypeMap:
		if !isObject(v) {
			return wrongType(f, v, loc)
		}
		if f.Elem == nil {
			return nil
		}
		var findings report.Findings
		for _, k := range attributeNames(v) {
			e, _ := lookup(v, k)
			findings = append(findings, checkElem(f.Elem, e, path.Index(cty.StringVal(k)))...)
		}
		return findings
	}
	return nil
}

// checkElem validates a list or map element. Null elements are wrong types.
func checkElem(f *Field, v cty.Value, path cty.Path) report.Findings {
	if v.IsNull() && f.Type != TypeAny {
		return report.Findings{report.Errorf(report.KindWrongType, report.FormatPath(path), "expected %s, got null", f.Type)}
	}
	return checkValue(f, v, path)
}

func wrongType(f *Field, v cty.Value, loc string) report.Findings {
	return report.Findings{report.Errorf(report.KindWrongType, loc, "expected %s, got %s", f.Type, friendly(v))}
}

func friendly(v cty.Value) string {
	t := v.Type()
	switch {
	case t.IsTupleType() || t.IsListType():
		return "list"
	case t.IsObjectType() || t.IsMapType():
		return "object"
	case t == cty.Number && !v.AsBigFloat().IsInt():
		return fmt.Sprintf("number %s", v.AsBigFloat().Text('g', -1))
	}
	return t.FriendlyName()
}

func isObject(v cty.Value) bool {
	t := v.Type()
	return t.IsObjectType() || t.IsMapType()
}

// attributeNames returns the keys of an object or map value in sorted order.
func attributeNames(v cty.Value) []string {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	t := v.Type()
	var names []string
	switch {
	case t.IsObjectType():
		for k := range t.AttributeTypes() {
			names = append(names, k)
		}
	case t.IsMapType():
		for it := v.ElementIterator(); it.Next(); {
			k, _ := it.Element()
			names = append(names, k.AsString())
		}
	}
	sort.Strings(names)
	return names
}

// lookup returns the named attribute of an object or map value and whether
// it is present. A present attribute may be null.
func lookup(v cty.Value, name string) (cty.Value, bool) {
	if v.IsNull() || !v.IsKnown() {
		return cty.NilVal, false
	}
	t := v.Type()
	switch {
	case t.IsObjectType():
		if !t.HasAttribute(name) {
			return cty.NilVal, false
		}
		return v.GetAttr(name), true
	case t.IsMapType():
		key := cty.StringVal(name)
		if !v.HasIndex(key).True() {
			return cty.NilVal, false
		}
		return v.Index(key), true
	}
	return cty.NilVal, false
}
