package store

import (
	"usagereport/internal/platform/logger"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithQueryObserver registers a callback fed with every postgres statement's latency
func WithQueryObserver(fn QueryObserver) Option {
	return func(s *Store) error {
		s.observe = fn
		return nil
	}
}
