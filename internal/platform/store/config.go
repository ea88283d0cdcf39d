package store

import (
	"time"

	"usagereport/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int
	// StatementTimeout bounds each aggregate server side, 0 leaves the server default
	StatementTimeout time.Duration
	// ReadOnly defaults every session to read only transactions
	ReadOnly bool

	// ConnectRetries bounds the boot ping loop, default 20
	ConnectRetries int
	// PingTimeout bounds each boot ping, default 3s
	PingTimeout time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	// Role is reported as client info, e.g. "cli" or "api"
	Role string
}

// FromConfig reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* from root
// postgres is on by default, clickhouse only when SERVICE_CLICKHOUSE_ENABLED is set
func FromConfig(root config.Conf, app, role string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")

	c := Config{AppName: app}
	if pg.MayBool("ENABLED", true) {
		c.PG = PGConfig{
			Enabled:     true,
			URL:         pg.MustString("DBURL"),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),

			StatementTimeout: pg.MayDuration("STATEMENT_TIMEOUT", 5*time.Minute),
			ReadOnly:         pg.MayBool("READ_ONLY", true),
		}
	}
	if ch.MayBool("ENABLED", false) {
		c.CH = CHConfig{Enabled: true, URL: ch.MustString("DBURL"), Role: role}
	}
	return c
}
