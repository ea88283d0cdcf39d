// Command usagereport-api serves usage reports over http
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"usagereport/internal/core/version"
	"usagereport/internal/modkit/repokit"
	"usagereport/internal/platform/config"
	"usagereport/internal/platform/logger"
	"usagereport/internal/platform/metrics"
	phttp "usagereport/internal/platform/net/http"
	"usagereport/internal/platform/store"
	"usagereport/internal/services/api"
	metamod "usagereport/internal/services/api/meta/module"
)

func main() {
	if err := config.Load(); err != nil {
		logger.Get().Fatal().Err(err).Msg("reading .env")
	}
	opt := logger.FromEnv()
	if opt.Service == "" {
		opt.Service = metamod.ServiceName
	}
	logger.Init(opt)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	st, err := store.Open(ctx,
		store.FromConfig(root, metamod.ServiceName, "api"),
		store.WithLogger(*logger.Named("store")),
		store.WithQueryObserver(metrics.ObserveQuery),
	)
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, metamod.ServiceName, st)

	// CORE_API_ADDR, CORE_API_TIMEOUT, CORE_API_CORS_ORIGINS
	srv := phttp.NewServer(root.Prefix("CORE_API_"))
	api.Mount(srv.Router(), api.Options{Config: root, Store: st})

	l.Info().Str("version", version.Version()).Msg("starting")
	if err := srv.Run(ctx); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
}
