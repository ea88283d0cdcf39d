package httpkit

import (
	"net/http"

	"usagereport/internal/platform/config"
	"usagereport/internal/platform/net/middleware"
)

// CommonStack is the middleware every api scope mounts
// CORE_API_CORS_ORIGINS and CORE_API_TIMEOUT tune it
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	mw := []func(http.Handler) http.Handler{
		middleware.StripSlashes(),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: cfg.MayCSV("CORS_ORIGINS", nil),
			MaxAge:         300,
		}),
	}
	return append(mw, middleware.Defaults(cfg.MayDuration("TIMEOUT", 0))...)
}
