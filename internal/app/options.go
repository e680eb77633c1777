package service

import (
	"time"

	"github.com/okian/herocoach/internal/adapters/catalog"
	"github.com/okian/herocoach/internal/domain/semantic"
	"github.com/okian/herocoach/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog skips catalog file loading and uses c.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithClassifier replaces the configured classifier provider.
func WithClassifier(c Classifier) Option {
	return func(s *Service) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithEmbedding replaces the configured embedding provider.
func WithEmbedding(e semantic.Embedding) Option {
	return func(s *Service) {
		if e != nil {
			s.embedding = e
		}
	}
}

// WithRand sets the random source used for advice and quote picks.
func WithRand(r semantic.Rand) Option {
	return func(s *Service) {
		if r != nil {
			s.rnd = r
		}
	}
}

// WithClock sets the clock used for date resolution and goal drafts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
