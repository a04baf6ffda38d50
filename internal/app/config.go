// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator"
	"github.com/specialistvlad/qnexp/internal/document"
)

// Config holds all the necessary configuration for an App instance to run.
// The flag tags name the command-line flag a field comes from and are used
// in validation messages.
type Config struct {
	Command string `flag:"command" validate:"required"`

	AppPath     string   `flag:"app"`
	CatalogPath string   `flag:"catalog"`
	Paths       []string `flag:"EXPERIMENT_PATH"`
	OutPath     string   `flag:"out"`

	// create
	Network     string `flag:"network"`
	Name        string `flag:"name"`
	Description string `flag:"description"`
	Rounds      int    `flag:"rounds" validate:"min=0"`

	// schema
	Kind string `flag:"kind"`

	FullyConnected bool     `flag:"fully-connected"`
	Repair         bool     `flag:"repair"`
	ScalableUnits  []string `flag:"scalable-unit" validate:"dive,required"`

	Format      string `flag:"format" validate:"oneof=text json"`
	LogFormat   string `flag:"log-format" validate:"oneof=text json"`
	LogLevel    string `flag:"log-level" validate:"oneof=debug info warn error"`
	WorkerCount int    `flag:"workers" validate:"min=1"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" {
			return name
		}
		return fld.Name
	})
	v.RegisterStructValidation(validateCommand, Config{})
	return v
}

// validateCommand checks the fields each command depends on.
func validateCommand(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	required := func(value, name, field string) {
		if value == "" {
			sl.ReportError(value, name, field, "required", "")
		}
	}
	onePath := func() {
		if len(cfg.Paths) != 1 {
			sl.ReportError(cfg.Paths, "EXPERIMENT_PATH", "Paths", "len", "1")
		}
	}

	switch cfg.Command {
	case CommandValidate:
		required(cfg.AppPath, "app", "AppPath")
		required(cfg.CatalogPath, "catalog", "CatalogPath")
		if len(cfg.Paths) == 0 {
			sl.ReportError(cfg.Paths, "EXPERIMENT_PATH", "Paths", "required", "")
		}
	case CommandCompose:
		required(cfg.AppPath, "app", "AppPath")
		required(cfg.CatalogPath, "catalog", "CatalogPath")
		onePath()
	case CommandRender:
		required(cfg.AppPath, "app", "AppPath")
		required(cfg.CatalogPath, "catalog", "CatalogPath")
		required(cfg.OutPath, "out", "OutPath")
		onePath()
	case CommandCreate:
		required(cfg.AppPath, "app", "AppPath")
		required(cfg.CatalogPath, "catalog", "CatalogPath")
		required(cfg.Network, "network", "Network")
		required(cfg.Name, "name", "Name")
	case CommandDerive:
		required(cfg.AppPath, "app", "AppPath")
		required(cfg.CatalogPath, "catalog", "CatalogPath")
	case CommandNetworks:
		required(cfg.CatalogPath, "catalog", "CatalogPath")
	case CommandSchema:
		if _, err := document.ParseKind(cfg.Kind); err != nil {
			sl.ReportError(cfg.Kind, "kind", "Kind", "oneof", "application network experiment network-view")
		}
	case "":
	default:
		sl.ReportError(cfg.Command, "command", "Command", "oneof", strings.Join(Commands(), " "))
	}
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, configError(err)
	}
	return &cfg, nil
}

func configError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fmt.Sprint(fe.Value())))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "len":
			msgs = append(msgs, fmt.Sprintf("%s takes exactly %s value(s)", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed the %q check", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
