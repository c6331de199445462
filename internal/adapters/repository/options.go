package repository

import (
	"github.com/okian/contestcorr/pkg/logger"
	"github.com/okian/contestcorr/pkg/metrics"
)

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithLogger sets the logger used for query diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *MemoryStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics publishes the store size to m on construction.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *MemoryStore) {
		s.metrics = m
	}
}
