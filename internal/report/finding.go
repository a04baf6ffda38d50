// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the unit of validation feedback: a Finding.
//
// Every stage of the engine (schema, topology, binding, catalog checks) reports
// problems as Findings instead of returning on the first error. A single
// validation run therefore tells the author about every problem in their
// documents at once, each one anchored to a path inside the offending document.
package report

import (
	"errors"
	"fmt"
	"strings"
)

// Class groups finding kinds into the four error families.
type Class int

const (
	ClassStructural Class = iota
	ClassReference
	ClassConstraint
	ClassAdvisory
)

func (c Class) String() string {
	switch c {
	case ClassStructural:
		return "structural"
	case ClassReference:
		return "reference"
	case ClassConstraint:
		return "constraint"
	default:
		return "advisory"
	}
}

// Sentinels for errors.Is on a Finding or a Report error.
var (
	ErrStructural = errors.New("structural error")
	ErrReference  = errors.New("reference error")
	ErrConstraint = errors.New("constraint error")
	ErrAdvisory   = errors.New("advisory")
)

func (c Class) sentinel() error {
	switch c {
	case ClassStructural:
		return ErrStructural
	case ClassReference:
		return ErrReference
	case ClassConstraint:
		return ErrConstraint
	default:
		return ErrAdvisory
	}
}

// Severity says whether a finding blocks composition.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// MarshalText renders the severity as "error" or "warning".
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Kind identifies the specific problem a finding reports.
type Kind string

const (
	KindMalformedDocument       Kind = "MalformedDocument"
	KindRepairedDocument        Kind = "RepairedDocument"
	KindMissingField            Kind = "MissingField"
	KindWrongType               Kind = "WrongType"
	KindInvalidEnum             Kind = "InvalidEnum"
	KindUnknownField            Kind = "UnknownField"
	KindDuplicateName           Kind = "DuplicateName"
	KindEmptyTopology           Kind = "EmptyTopology"
	KindDanglingChannelEndpoint Kind = "DanglingChannelEndpoint"
	KindSelfLoop                Kind = "SelfLoop"
	KindMissingBinding          Kind = "MissingBinding"
	KindDuplicateNodeAssignment Kind = "DuplicateNodeAssignment"
	KindUnknownNode             Kind = "UnknownNode"
	KindUnknownChannel          Kind = "UnknownChannel"
	KindChannelEndpointMismatch Kind = "ChannelEndpointMismatch"
	KindDanglingRoleReference   Kind = "DanglingRoleReference"
	KindUnknownInput            Kind = "UnknownInput"
	KindUnknownParameter        Kind = "UnknownParameter"
	KindInsufficientNodes       Kind = "InsufficientNodes"
	KindTooManyNodes            Kind = "TooManyNodes"
	KindTooManyChannels         Kind = "TooManyChannels"
	KindScalingNotPermitted     Kind = "ScalingNotPermitted"
	KindInvalidBounds           Kind = "InvalidBounds"
	KindInvalidValue            Kind = "InvalidValue"
	KindNetworkMismatch         Kind = "NetworkMismatch"
	KindParameterOutOfRange     Kind = "ParameterOutOfRange"
	KindOutOfBounds             Kind = "OutOfBounds"
	KindUnknownNetwork          Kind = "UnknownNetwork"
	KindUnsupportedBackend      Kind = "UnsupportedBackend"
	KindIgnoredField            Kind = "IgnoredField"
)

var kindClasses = map[Kind]Class{
	KindMalformedDocument:       ClassStructural,
	KindMissingField:            ClassStructural,
	KindWrongType:               ClassStructural,
	KindInvalidEnum:             ClassStructural,
	KindEmptyTopology:           ClassStructural,
	KindDanglingChannelEndpoint: ClassStructural,
	KindSelfLoop:                ClassStructural,
	KindMissingBinding:          ClassReference,
	KindUnknownNode:             ClassReference,
	KindUnknownChannel:          ClassReference,
	KindDanglingRoleReference:   ClassReference,
	KindUnknownInput:            ClassReference,
	KindUnknownParameter:        ClassReference,
	KindDuplicateName:           ClassConstraint,
	KindDuplicateNodeAssignment: ClassConstraint,
	KindChannelEndpointMismatch: ClassConstraint,
	KindInsufficientNodes:       ClassConstraint,
	KindTooManyNodes:            ClassConstraint,
	KindTooManyChannels:         ClassConstraint,
	KindScalingNotPermitted:     ClassConstraint,
	KindInvalidBounds:           ClassConstraint,
	KindInvalidValue:            ClassConstraint,
	KindNetworkMismatch:         ClassConstraint,
	KindParameterOutOfRange:     ClassConstraint,
}

// Class returns the error family of the kind. Kinds that only ever appear
// as warnings belong to ClassAdvisory.
func (k Kind) Class() Class {
	if c, ok := kindClasses[k]; ok {
		return c
	}
	return ClassAdvisory
}

// Finding is one problem located inside one document.
type Finding struct {
	Severity Severity `json:"severity"`
	Kind     Kind     `json:"kind"`
	// Source names the document the path is relative to, e.g. "experiment"
	// or a file path.
	Source  string `json:"source,omitempty"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Errorf builds an error-severity finding.
func Errorf(kind Kind, path, format string, args ...any) Finding {
	return Finding{Severity: SeverityError, Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Warnf builds a warning-severity finding.
func Warnf(kind Kind, path, format string, args ...any) Finding {
	return Finding{Severity: SeverityWarning, Kind: kind, Path: path, Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether the finding blocks composition.
func (f Finding) IsError() bool { return f.Severity == SeverityError }

// Class returns the family of the finding. Warnings are always advisory.
func (f Finding) Class() Class {
	if f.Severity == SeverityWarning {
		return ClassAdvisory
	}
	return f.Kind.Class()
}

func (f Finding) Error() string {
	var b strings.Builder
	if f.Source != "" {
		b.WriteString(f.Source)
		b.WriteString(": ")
	}
	if f.Path != "" {
		b.WriteString(f.Path)
		b.WriteString(": ")
	}
	b.WriteString(f.Message)
	return b.String()
}

// Unwrap exposes the class sentinel so callers can use errors.Is.
func (f Finding) Unwrap() error {
	return f.Class().sentinel()
}

// Findings is an ordered collection of findings.
type Findings []Finding

// HasErrors reports whether any finding is an error.
func (fs Findings) HasErrors() bool {
	for _, f := range fs {
		if f.IsError() {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity findings.
func (fs Findings) Errors() Findings {
	return fs.filter(SeverityError)
}

// Warnings returns only the warning-severity findings.
func (fs Findings) Warnings() Findings {
	return fs.filter(SeverityWarning)
}

func (fs Findings) filter(s Severity) Findings {
	var out Findings
	for _, f := range fs {
		if f.Severity == s {
			out = append(out, f)
		}
	}
	return out
}

// OfKind returns the findings of the given kind.
func (fs Findings) OfKind(k Kind) Findings {
	var out Findings
	for _, f := range fs {
		if f.Kind == k {
			out = append(out, f)
		}
	}
	return out
}

// WithPrefix returns a copy whose paths are nested under prefix.
func (fs Findings) WithPrefix(prefix string) Findings {
	if prefix == "" {
		return fs
	}
	out := make(Findings, len(fs))
	for i, f := range fs {
		switch {
		case f.Path == "":
			f.Path = prefix
		case strings.HasPrefix(f.Path, "["):
			f.Path = prefix + f.Path
		default:
			f.Path = prefix + "." + f.Path
		}
		out[i] = f
	}
	return out
}

// WithSource returns a copy with Source set on every finding that has none.
func (fs Findings) WithSource(source string) Findings {
	out := make(Findings, len(fs))
	for i, f := range fs {
		if f.Source == "" {
			f.Source = source
		}
		out[i] = f
	}
	return out
}

// Err joins the error-severity findings into a single error, or returns nil.
func (fs Findings) Err() error {
	var errs []error
	for _, f := range fs {
		if f.IsError() {
			errs = append(errs, f)
		}
	}
	return errors.Join(errs...)
}
