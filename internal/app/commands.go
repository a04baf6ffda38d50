// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"
	"maps"
	"slices"
)

// Command names.
const (
	CommandValidate = "validate"
	CommandCompose  = "compose"
	CommandCreate   = "create"
	CommandDerive   = "derive"
	CommandRender   = "render"
	CommandSchema   = "schema"
	CommandNetworks = "networks"
)

type command func(a *App, ctx context.Context) error

// commands is the definitive list of the commands the App can run.
var commands = map[string]command{
	CommandValidate: (*App).validate,
	CommandCompose:  (*App).compose,
	CommandCreate:   (*App).create,
	CommandDerive:   (*App).derive,
	CommandRender:   (*App).render,
	CommandSchema:   (*App).schema,
	CommandNetworks: (*App).networks,
}

// Commands returns the command names in sorted order.
func Commands() []string {
	return slices.Sorted(maps.Keys(commands))
}

func errUnknownCommand(name string) error {
	return fmt.Errorf("unknown command %q, available: %v", name, Commands())
}
