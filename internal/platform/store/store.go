// Package store opens the sample store backends (postgres, clickhouse)
// behind small query seams repos bind to
package store

import (
	"context"
	"errors"
	"fmt"

	"usagereport/internal/platform/logger"
)

// Store holds whichever backends were enabled
// the zero value has none and is safe to Guard and Close
type Store struct {
	// Log is handed to backend clients; zero value is a no op logger
	Log logger.Logger

	// PG is nil unless postgres is enabled
	PG TxRunner

	// CH is nil unless clickhouse is enabled
	CH Clickhouse

	observe QueryObserver
}

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a forward only result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag summarizes an Exec
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos bind to
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also scope fn to one transaction
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar read seam
type Clickhouse interface {
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Ping(ctx context.Context) error
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Open applies opts and connects every backend cfg enables
// a backend that fails to open closes the ones opened before it
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Logger()

	if cfg.PG.Enabled {
		c, err := openPG(ctx, cfg, s)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		s.PG = c
	}
	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg, s)
		if err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("open clickhouse: %w", err)
		}
		s.CH = c
	}

	s.Log.Info().Strs("backends", s.Backends()).Msg("store opened")
	return s, nil
}

// Backends names the open backends in a stable order
func (s *Store) Backends() []string {
	out := []string{}
	if s == nil {
		return out
	}
	if s.PG != nil {
		out = append(out, "pg")
	}
	if s.CH != nil {
		out = append(out, "ch")
	}
	return out
}

// Guard pings every open backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	if p, ok := s.PG.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("pg: %w", err))
		}
	}
	if s.CH != nil {
		if err := s.CH.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("ch: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close releases every open backend and joins the failures
func (s *Store) Close(_ context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.CH != nil {
		if err := s.CH.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ch: %w", err))
		}
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("pg: %w", err))
		}
	}
	return errors.Join(errs...)
}
