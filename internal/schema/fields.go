// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file declares the field-and-type tables for every document kind.
//
// Why tables instead of Go structs with tags?
//
// The validator walks the raw document value, not a decoded struct. A table
// lets it report a missing field, a wrong type, or an unknown key at the exact
// path where it occurs, and keep going. The same tables drive the JSON Schema
// export, so editor validation and engine validation cannot drift apart.
package schema

import (
	"github.com/specialistvlad/qnexp/internal/document"
	"github.com/specialistvlad/qnexp/internal/model"
)

// Type is the expected type of a field value.
type Type int

const (
	TypeAny Type = iota
	TypeString
	TypeNumber
	TypeInteger
	TypeBool
	TypeList
	TypeObject
	TypeMap
)

func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeInteger:
		return "integer"
	case TypeBool:
		return "bool"
	case TypeList:
		return "list"
	case TypeObject:
		return "object"
	case TypeMap:
		return "map"
	default:
		return "any"
	}
}

// Field describes one attribute of an object, or the element of a list or
// map when used as Elem.
type Field struct {
	Name        string
	Type        Type
	Required    bool
	Description string
	Enum        []string
	// Elem describes list and map elements.
	Elem *Field
	// Shape describes the attributes of an object.
	Shape *Shape
}

// Shape is the set of attributes an object may carry.
type Shape struct {
	Fields []Field
}

func (s *Shape) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func listOf(elem Field) *Field { return &elem }

var stringElem = Field{Type: TypeString}

var parameterShape = &Shape{Fields: []Field{
	{Name: "name", Type: TypeString, Required: true},
	{Name: "value", Type: TypeAny, Required: true},
	{Name: "scale_value", Type: TypeNumber, Description: "Scale factor applied to value. Defaults to 1."},
	{Name: "unit", Type: TypeString},
}}

var nodeShape = &Shape{Fields: []Field{
	{Name: "slug", Type: TypeString, Required: true},
	{Name: "name", Type: TypeString},
	{Name: "coordinates", Type: TypeObject, Shape: &Shape{Fields: []Field{
		{Name: "latitude", Type: TypeNumber, Required: true},
		{Name: "longitude", Type: TypeNumber, Required: true},
	}}},
	{Name: "node_parameters", Type: TypeList, Elem: &Field{Type: TypeObject, Shape: parameterShape}},
	{Name: "qubits", Type: TypeList, Elem: &Field{Type: TypeObject, Shape: parameterShape}},
}}

var channelShape = &Shape{Fields: []Field{
	{Name: "slug", Type: TypeString, Required: true},
	{Name: "node1", Type: TypeString, Required: true},
	{Name: "node2", Type: TypeString, Required: true},
	{Name: "parameters", Type: TypeList, Elem: &Field{Type: TypeObject, Shape: parameterShape}},
}}

func networkFields() []Field {
	return []Field{
		{Name: "slug", Type: TypeString, Required: true},
		{Name: "name", Type: TypeString},
		{Name: "nodes", Type: TypeList, Required: true, Elem: &Field{Type: TypeObject, Shape: nodeShape}},
		{Name: "channels", Type: TypeList, Elem: &Field{Type: TypeObject, Shape: channelShape}},
	}
}

var networkShape = &Shape{Fields: networkFields()}

var assetNetworkShape = &Shape{Fields: append(networkFields(),
	Field{Name: "roles", Type: TypeMap, Required: true, Elem: listOf(stringElem), Description: "Role name to node slug."},
)}

var inputShape = &Shape{Fields: []Field{
	{Name: "name", Type: TypeString, Required: true},
	{Name: "title", Type: TypeString},
	{Name: "description", Type: TypeString},
	{Name: "input_type", Type: TypeString, Required: true, Enum: model.InputTypes},
	{Name: "default_value", Type: TypeAny, Required: true},
	{Name: "minimum_value", Type: TypeNumber},
	{Name: "maximum_value", Type: TypeNumber},
	{Name: "unit", Type: TypeString},
	{Name: "scale_value", Type: TypeNumber},
	{Name: "roles", Type: TypeList, Elem: listOf(stringElem), Description: "Roles the input applies to. Empty means every role."},
}}

var resolvedInputShape = &Shape{Fields: []Field{
	{Name: "name", Type: TypeString, Required: true},
	{Name: "input_type", Type: TypeString, Enum: model.InputTypes},
	{Name: "roles", Type: TypeList, Elem: listOf(stringElem)},
	{Name: "unit", Type: TypeString},
	{Name: "value", Type: TypeAny},
	{Name: "scale_value", Type: TypeNumber},
	{Name: "values", Type: TypeMap, Elem: &Field{Type: TypeAny}, Description: "Derived. Recomputed on every resolution."},
}}

var templateShape = &Shape{Fields: []Field{
	{Name: "name", Type: TypeString, Required: true},
	{Name: "description", Type: TypeString},
	{Name: "minimum_value", Type: TypeNumber},
	{Name: "maximum_value", Type: TypeNumber},
	{Name: "unit", Type: TypeString},
}}

var shapes = map[document.Kind]*Shape{
	document.KindApplication: {Fields: []Field{
		{Name: "name", Type: TypeString},
		{Name: "description", Type: TypeString},
		{Name: "roles", Type: TypeList, Required: true, Elem: listOf(stringElem)},
		{Name: "inputs", Type: TypeList, Elem: &Field{Type: TypeObject, Shape: inputShape}},
	}},
	document.KindNetwork: {Fields: []Field{
		{Name: "networks", Type: TypeMap, Required: true, Elem: &Field{Type: TypeObject, Shape: networkShape}},
		{Name: "templates", Type: TypeList, Elem: &Field{Type: TypeObject, Shape: templateShape}},
	}},
	document.KindExperiment: {Fields: []Field{
		{Name: "meta", Type: TypeObject, Required: true, Shape: &Shape{Fields: []Field{
			{Name: "name", Type: TypeString},
			{Name: "description", Type: TypeString},
			{Name: "application", Type: TypeObject, Required: true, Shape: &Shape{Fields: []Field{
				{Name: "slug", Type: TypeString, Required: true},
				{Name: "app_version", Type: TypeString},
				{Name: "multi_round", Type: TypeBool},
			}}},
			{Name: "network", Type: TypeString},
			{Name: "backend", Type: TypeObject, Required: true, Shape: &Shape{Fields: []Field{
				{Name: "location", Type: TypeString, Required: true},
				{Name: "type", Type: TypeString},
			}}},
			{Name: "number_of_rounds", Type: TypeInteger, Required: true},
		}}},
		{Name: "asset", Type: TypeObject, Required: true, Shape: &Shape{Fields: []Field{
			{Name: "network", Type: TypeObject, Required: true, Shape: assetNetworkShape},
			{Name: "application", Type: TypeList, Elem: &Field{Type: TypeObject, Shape: resolvedInputShape}},
		}}},
	}},
	document.KindNetworkView: {Fields: []Field{
		{Name: "networks", Type: TypeList, Required: true, Elem: listOf(stringElem)},
		{Name: "roles", Type: TypeList, Required: true, Elem: listOf(stringElem)},
	}},
}

// ShapeOf returns the top-level shape of a document kind.
func ShapeOf(kind document.Kind) (*Shape, bool) {
	s, ok := shapes[kind]
	return s, ok
}
