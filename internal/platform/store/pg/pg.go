// Package pg opens the pgxpool behind the sample store
package pg

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config describes one pool
type Config struct {
	URL      string
	MaxConns int32
	// SlowMs marks traced statements at or above it as slow, negative disables
	SlowMs int
	// AppName shows up as application_name in pg_stat_activity
	AppName string
	// StatementTimeout is sent as the session statement_timeout when > 0
	StatementTimeout time.Duration
	// ReadOnly makes every session default to read only transactions
	ReadOnly bool
}

// PG owns the pool and the tracer statements are reported to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies cfg and tune, then builds the pool
// the pool connects lazily; callers ping it themselves
func Open(ctx context.Context, cfg Config, tracer QueryTracer, tune func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	applyConfig(pcfg, cfg)
	if tune != nil {
		tune(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

func applyConfig(pcfg *pgxpool.Config, cfg Config) {
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	params := pcfg.ConnConfig.RuntimeParams
	if cfg.AppName != "" {
		params["application_name"] = cfg.AppName
	}
	if cfg.StatementTimeout > 0 {
		params["statement_timeout"] = strconv.FormatInt(cfg.StatementTimeout.Milliseconds(), 10)
	}
	if cfg.ReadOnly {
		params["default_transaction_read_only"] = "on"
	}
}

// Close closes the pool; nil receivers and nil pools are ignored
func (p *PG) Close() {
	if p == nil || p.Pool == nil {
		return
	}
	p.Pool.Close()
}
