// Command usagereport builds the weekly and monthly usage report of a site
// and bundles it with a database snapshot into a dated result directory
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"usagereport/internal/adapters/export/sitename"
	"usagereport/internal/core/version"
	"usagereport/internal/modkit"
	"usagereport/internal/platform/config"
	"usagereport/internal/platform/logger"
	"usagereport/internal/platform/metrics"
	"usagereport/internal/platform/store"
	"usagereport/internal/services/report/domain"
	"usagereport/internal/services/report/repo"

	exportmod "usagereport/internal/services/export/module"
	reportmod "usagereport/internal/services/report/module"
)

const appName = "usagereport"

func main() {
	os.Exit(run())
}

func run() int {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if o.version {
		fmt.Println(version.Info(appName))
		return 0
	}

	if err := config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "reading .env:", err)
		return 1
	}
	lopt := logger.FromEnv()
	if lopt.Service == "" {
		lopt.Service = appName
	}
	logger.Init(lopt)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	stCfg := store.FromConfig(root, appName, "cli")

	if o.migrate {
		if !stCfg.PG.Enabled {
			l.Error().Msg("-migrate needs SERVICE_PGSQL_ENABLED")
			return 1
		}
		v, err := repo.Migrate(stCfg.PG.URL)
		if err != nil {
			l.Error().Err(err).Msg("migration failed")
			return 1
		}
		l.Info().Uint("version", v).Msg("schema up to date")
	}

	st, err := store.Open(ctx, stCfg,
		store.WithLogger(*logger.Named("store")),
		store.WithQueryObserver(metrics.ObserveQuery),
	)
	if err != nil {
		l.Error().Err(err).Msg("sample store unavailable")
		return 1
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.Deps{Log: *l, Cfg: root, PG: st.PG, CH: st.CH}
	reports := reportmod.New(deps)
	loc := reports.Options().Location

	rep, err := reports.Service().Generate(ctx, domain.Request{
		Months:   o.months,
		Weeks:    o.weeks,
		MaxCount: o.maxCount,
		End:      o.endOf(loc),
	})
	if err != nil {
		l.Error().Err(err).Msg("report failed")
		return 1
	}
	if rep.Bounds.Empty() {
		l.Warn().Msg("no samples recorded; the report is empty")
	}

	eopts := exportmod.FromConfig(root)
	if o.storageDir != "" {
		eopts.StorageDir = o.storageDir
	}
	eopts.Scaled = eopts.Scaled || o.scaled
	pgURL := ""
	if stCfg.PG.Enabled {
		pgURL = stCfg.PG.URL
	}
	exp, err := exportmod.New(eopts, pgURL)
	if err != nil {
		l.Error().Err(err).Msg("export setup failed")
		return 1
	}

	if o.csvOnly != "" {
		if err := exp.CSV(rep, o.csvOnly); err != nil {
			l.Error().Err(err).Str("file", o.csvOnly).Msg("writing csv failed")
			return 1
		}
		fmt.Println(o.csvOnly)
		return 0
	}

	site := sitename.Resolve(o.site, eopts.OpenVPNConf)
	res, err := exp.Bundle(ctx, rep, site)
	if err != nil {
		l.Error().Err(err).Str("site", site).Msg("export failed")
		return 1
	}
	if n := rep.Failed(); n > 0 {
		l.Warn().Int("failed", n).Msg("some histograms are incomplete")
	}
	fmt.Println(res.Dir)
	return 0
}
