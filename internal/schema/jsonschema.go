// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/specialistvlad/qnexp/internal/document"
)

// JSONSchema exports the table of a document kind as a JSON Schema, for
// editors that validate files while they are being written. Unknown fields
// are allowed, matching the validator which only warns about them.
func JSONSchema(kind document.Kind) (*jsonschema.Schema, error) {
	shape, ok := shapes[kind]
	if !ok {
		return nil, fmt.Errorf("no schema for document kind %s", kind)
	}
	s := objectSchema(shape)
	s.Version = jsonschema.Version
	s.ID = jsonschema.ID(fmt.Sprintf("https://qnexp.dev/schemas/%s.json", kind))
	s.Title = fmt.Sprintf("qnexp %s document", kind)
	return s, nil
}

func objectSchema(shape *Shape) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}
	for i := range shape.Fields {
		f := &shape.Fields[i]
		s.Properties.Set(f.Name, fieldSchema(f))
		if f.Required {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

func fieldSchema(f *Field) *jsonschema.Schema {
	var s *jsonschema.Schema
	switch f.Type {
	case TypeString:
		s = &jsonschema.Schema{Type: "string"}
		for _, e := range f.Enum {
			s.Enum = append(s.Enum, e)
		}
	case TypeNumber:
		s = &jsonschema.Schema{Type: "number"}
	case TypeInteger:
		s = &jsonschema.Schema{Type: "integer"}
	case TypeBool:
		s = &jsonschema.Schema{Type: "boolean"}
	case TypeList:
		s = &jsonschema.Schema{Type: "array"}
		if f.Elem != nil {
			s.Items = fieldSchema(f.Elem)
		}
	case TypeObject:
		if f.Shape != nil {
			s = objectSchema(f.Shape)
		} else {
			s = &jsonschema.Schema{Type: "object"}
		}
	case TypeMap:
		s = &jsonschema.Schema{Type: "object"}
		if f.Elem != nil {
			s.AdditionalProperties = fieldSchema(f.Elem)
		}
	default:
		s = &jsonschema.Schema{}
	}
	s.Description = f.Description
	return s
}
