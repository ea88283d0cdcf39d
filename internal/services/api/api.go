// Package api composes the http surface of usagereport
package api

import (
	"usagereport/internal/modkit"
	"usagereport/internal/modkit/httpkit"
	"usagereport/internal/modkit/module"
	"usagereport/internal/modkit/repokit"
	"usagereport/internal/platform/config"
	"usagereport/internal/platform/logger"
	"usagereport/internal/platform/metrics"
	phttp "usagereport/internal/platform/net/http"
	"usagereport/internal/platform/store"

	metamod "usagereport/internal/services/api/meta/module"
	reportsapi "usagereport/internal/services/api/reports/module"
	reportmod "usagereport/internal/services/report/module"
)

// Options are the api options
type Options struct {
	// Config is the root config; modules read their own prefixes from it
	Config config.Conf
	Store  *store.Store
}

// Mount builds the modules and mounts them under /api/v1, plus /metrics
func Mount(r phttp.Router, opt Options) {
	if opt.Store == nil {
		panic("api: nil store")
	}
	deps := modkit.Deps{
		Log: *logger.Named("api"),
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// the report service module owns the port the http module consumes
	report := reportmod.New(deps)
	reports := reportsapi.New(deps, modkit.WithPorts(reportsapi.Ports{
		Reports:  module.MustPortsOf[reportmod.Ports](report).Reports,
		Location: report.Options().Location,
	}))

	var guard repokit.Guarder = opt.Store
	mods := []module.Module{
		metamod.New(guard),
		reports,
	}

	r.Handle("/metrics", metrics.Handler())
	module.Register(report)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Config.Prefix("CORE_API_")), func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m)
			m.MountRoutes(api)
		}
	})
}
