// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"encoding/json"

	"github.com/zclconf/go-cty/cty"
)

// InputType is the kind of value an application input carries.
type InputType string

const (
	InputNumber InputType = "number"
	InputQubit  InputType = "qubit"
)

// InputTypes lists the accepted input types.
var InputTypes = []string{string(InputNumber), string(InputQubit)}

// InputSpec declares one parameter of an application.
type InputSpec struct {
	Name        string
	Title       string
	Description string
	Type        InputType
	// Default, Minimum and Maximum are in authoring units. Minimum and
	// Maximum are cty.NilVal when the author did not declare them.
	Default cty.Value
	Minimum cty.Value
	Maximum cty.Value
	Unit    string
	// Scale defaults to 1.
	Scale cty.Value
	// Roles lists the roles the input applies to. Empty means every role.
	Roles []string
}

// Application is the typed form of application.json.
type Application struct {
	Name        string
	Description string
	Roles       []string
	Inputs      []InputSpec
}

// HasRole reports whether role is declared by the application.
func (a *Application) HasRole(role string) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Input returns the input spec with the given name.
func (a *Application) Input(name string) (InputSpec, bool) {
	for _, in := range a.Inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputSpec{}, false
}

// DecodeApplication builds an Application from a document value.
func DecodeApplication(v cty.Value) *Application {
	app := &Application{
		Name:        attrString(v, "name"),
		Description: attrString(v, "description"),
		Roles:       attrStrings(v, "roles"),
	}
	for _, iv := range attrList(v, "inputs") {
		app.Inputs = append(app.Inputs, decodeInputSpec(iv))
	}
	return app
}

func decodeInputSpec(v cty.Value) InputSpec {
	return InputSpec{
		Name:        attrString(v, "name"),
		Title:       attrString(v, "title"),
		Description: attrString(v, "description"),
		Type:        InputType(attrString(v, "input_type")),
		Default:     attr(v, "default_value"),
		Minimum:     attrNumber(v, "minimum_value", cty.NilVal),
		Maximum:     attrNumber(v, "maximum_value", cty.NilVal),
		Unit:        attrString(v, "unit"),
		Scale:       attrNumber(v, "scale_value", One),
		Roles:       attrStrings(v, "roles"),
	}
}

// MarshalJSON renders the spec in application.json form.
func (s InputSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string    `json:"name"`
		Title       string    `json:"title,omitempty"`
		Description string    `json:"description,omitempty"`
		Type        InputType `json:"input_type"`
		Default     any       `json:"default_value"`
		Minimum     any       `json:"minimum_value,omitempty"`
		Maximum     any       `json:"maximum_value,omitempty"`
		Unit        string    `json:"unit"`
		Scale       any       `json:"scale_value"`
		Roles       []string  `json:"roles"`
	}{s.Name, s.Title, s.Description, s.Type, Plain(s.Default), Plain(s.Minimum), Plain(s.Maximum), s.Unit, Plain(s.Scale), nonNil(s.Roles)})
}

// MarshalJSON renders the application in application.json form.
func (a *Application) MarshalJSON() ([]byte, error) {
	inputs := a.Inputs
	if inputs == nil {
		inputs = []InputSpec{}
	}
	return json.Marshal(struct {
		Name        string      `json:"name,omitempty"`
		Description string      `json:"description,omitempty"`
		Roles       []string    `json:"roles"`
		Inputs      []InputSpec `json:"inputs"`
	}{a.Name, a.Description, nonNil(a.Roles), inputs})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
