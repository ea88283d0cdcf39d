// Package module mounts the report endpoints on the api
package module

import (
	"net/http"
	"time"

	"usagereport/internal/modkit"
	"usagereport/internal/platform/metrics"
	phttp "usagereport/internal/platform/net/http"
	str "usagereport/internal/platform/strings"
	reportshttp "usagereport/internal/services/api/reports/http"
	"usagereport/internal/services/report/domain"
)

// Ports are what the module consumes, injected with modkit.WithPorts
type Ports struct {
	Reports  domain.ServicePort
	Location *time.Location
}

// Module implements module.Module for /reports
type Module struct {
	built modkit.Built
	ports Ports
}

// New builds the reports module; WithPorts(Ports{...}) is required
func New(_ modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("reports"),
		modkit.WithPrefix("/reports"),
		modkit.WithMiddlewares(metrics.Instrument("reports")),
	}, opts...)...)

	p, ok := b.Ports.(Ports)
	if !ok || p.Reports == nil {
		panic("reports module requires modkit.WithPorts(Ports{Reports: ...})")
	}

	external := b.Register
	b.Register = func(r phttp.Router) {
		reportshttp.Register(r, reportshttp.Deps{Reports: p.Reports, Location: p.Location})
		external(r)
	}
	return &Module{built: b, ports: p}
}

// MountRoutes mounts the module under its prefix
func (m *Module) MountRoutes(r phttp.Router) {
	m.built.Prefix = str.MustPrefix(m.built.Prefix)
	m.built.Mount(r)
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "reports module name") }

// Ports returns the consumed ports
func (m *Module) Ports() any { return m.ports }

// Middlewares returns the module middleware
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.built.Mw }
