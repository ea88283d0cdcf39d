// Package module wires the report service from shared deps
package module

import (
	"fmt"

	"usagereport/internal/modkit"
	"usagereport/internal/modkit/httpkit"
	"usagereport/internal/services/report/domain"
	"usagereport/internal/services/report/repo"
	"usagereport/internal/services/report/service"
)

// Ports defines the report module ports
type Ports struct {
	Reports domain.ServicePort
}

// Module implements the report module
type Module struct {
	deps  modkit.Deps
	opts  Options
	svc   *service.Svc
	ports Ports
}

// New constructs the report module from deps.Cfg
// the postgres backend binds a repo per run; the clickhouse backend reads deps.CH
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)
	if !repo.ValidTable(opts.Table) {
		panic(fmt.Sprintf("report: CORE_REPORT_TABLE %q is not a plain identifier", opts.Table))
	}

	cfg := service.Config{
		Months:   opts.Months,
		Weeks:    opts.Weeks,
		MaxCount: opts.MaxCount,
		Interval: opts.Interval,
		Location: opts.Location,
	}

	var svc *service.Svc
	switch opts.Backend {
	case BackendCH:
		if deps.CH == nil {
			panic("report: clickhouse backend selected but SERVICE_CLICKHOUSE_ENABLED is off")
		}
		svc = service.NewWithStore(repo.NewCH(deps.CH, opts.Table), cfg)
	default:
		svc = service.New(deps.PG, repo.NewPG(opts.Table), cfg)
	}

	return &Module{deps: deps, opts: opts, svc: svc, ports: Ports{Reports: svc}}
}

// MountRoutes mounts nothing; the api reports module serves this port
func (m *Module) MountRoutes(_ httpkit.Router) {}

// Name returns the module name
func (m *Module) Name() string { return "report" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Service returns the typed report port
func (m *Module) Service() domain.ServicePort { return m.ports.Reports }

// Options returns the options the module was built with
func (m *Module) Options() Options { return m.opts }
