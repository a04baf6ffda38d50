// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package catalog

import (
	"errors"

	"github.com/specialistvlad/qnexp/internal/model"
	"github.com/specialistvlad/qnexp/internal/report"
	"github.com/specialistvlad/qnexp/internal/topology"
)

// Catalog is a loaded network catalog. Every network in it has passed the
// topology checks; networks that did not are left out and reported by New.
// A Catalog is never modified after New returns.
type Catalog struct {
	name      string
	networks  map[string]*topology.Network
	slugs     []string
	templates map[string]model.ParameterTemplate
	findings  report.Findings
}

// New builds a catalog from its typed form. Findings are located relative to
// the catalog document root.
func New(m *model.Catalog) (*Catalog, report.Findings) {
	c := &Catalog{
		networks:  make(map[string]*topology.Network, len(m.Networks)),
		templates: make(map[string]model.ParameterTemplate, len(m.Templates)),
	}

	for _, slug := range m.Slugs() {
		net, err := topology.Load(m.Networks[slug])
		if err != nil {
			var loadErr *topology.LoadError
			if !errors.As(err, &loadErr) {
				c.findings = append(c.findings, report.Errorf(report.KindMalformedDocument,
					report.Join("networks", slug), "%v", err))
				continue
			}
			c.findings = append(c.findings, loadErr.Findings.WithPrefix(report.Join("networks", slug))...)
			continue
		}
		c.networks[slug] = net
		c.slugs = append(c.slugs, slug)
	}

	// The first template of a name wins. Duplicates are reported by the
	// schema pass.
	for _, t := range m.Templates {
		if _, dup := c.templates[t.Name]; !dup {
			c.templates[t.Name] = t
		}
	}
	return c, c.findings
}

// Name identifies the catalog in findings: the file it was read from, or
// "catalog".
func (c *Catalog) Name() string {
	if c.name == "" {
		return "catalog"
	}
	return c.name
}

// Findings returns the problems found while building the catalog.
func (c *Catalog) Findings() report.Findings {
	return c.findings
}

// Network returns the topology of the network with the given slug.
func (c *Catalog) Network(slug string) (*topology.Network, bool) {
	n, ok := c.networks[slug]
	return n, ok
}

// Slugs returns the slugs of the loaded networks in sorted order.
func (c *Catalog) Slugs() []string {
	return append([]string(nil), c.slugs...)
}

// UsableFor returns, sorted, the networks with at least one node per role of
// app.
func (c *Catalog) UsableFor(app *model.Application) []string {
	out := []string{}
	for _, slug := range c.slugs {
		if c.networks[slug].Usable(len(app.Roles)) {
			out = append(out, slug)
		}
	}
	return out
}

// HasTemplates reports whether the catalog restricts parameter names.
func (c *Catalog) HasTemplates() bool {
	return len(c.templates) > 0
}

// Template returns the parameter template with the given name.
func (c *Catalog) Template(name string) (model.ParameterTemplate, bool) {
	t, ok := c.templates[name]
	return t, ok
}
