// Package module mounts the meta endpoints
package module

import (
	"time"

	"usagereport/internal/modkit"
	"usagereport/internal/modkit/repokit"
	phttp "usagereport/internal/platform/net/http"
	str "usagereport/internal/platform/strings"
	metahttp "usagereport/internal/services/api/meta/http"
)

// ServiceName identifies the api in health and version payloads
const ServiceName = "usagereport-api"

// Module implements module.Module for /meta
type Module struct {
	built modkit.Built
}

// New builds the meta module; store may be nil
func New(store repokit.Guarder, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	started := time.Now()
	external := b.Register
	b.Register = func(r phttp.Router) {
		metahttp.Register(r, metahttp.Deps{ServiceName: ServiceName, StartedAt: started, Store: store})
		external(r)
	}
	return &Module{built: b}
}

// MountRoutes mounts the module under its prefix
func (m *Module) MountRoutes(r phttp.Router) {
	m.built.Prefix = str.MustPrefix(m.built.Prefix)
	m.built.Mount(r)
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.built.Name, "meta module name") }

// Ports returns nil; meta offers nothing to other modules
func (m *Module) Ports() any { return nil }
