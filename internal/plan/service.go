// AngelaMos | 2026
// service.go

package plan

import (
	"context"
	"log/slog"
	"time"
)

const listCacheKey = "packs:all"

// Cache is the subset of core.Redis the catalog needs.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type Service struct {
	repo   Repository
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewService builds the catalog. cache may be nil to always read through.
func NewService(repo Repository, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: logger.With("component", "plan"),
	}
}

// Seed inserts the default plans into an empty catalog. Safe to call on
// every boot.
func (s *Service) Seed(ctx context.Context) error {
	inserted, err := s.repo.Seed(ctx, Defaults)
	if err != nil {
		return err
	}

	if inserted > 0 {
		s.logger.Info("seeded plan catalog", "plans", inserted)
		s.invalidate(ctx)
	}

	return nil
}

// List returns every plan by ascending price. The first read of an empty
// catalog seeds it.
func (s *Service) List(ctx context.Context) ([]Plan, error) {
	var cached []Plan
	if s.cache != nil {
		hit, err := s.cache.GetJSON(ctx, listCacheKey, &cached)
		if err != nil {
			s.logger.Warn("plan cache read failed", "error", err)
		}
		if hit {
			return cached, nil
		}
	}

	plans, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if len(plans) == 0 {
		if err := s.Seed(ctx); err != nil {
			return nil, err
		}
		if plans, err = s.repo.List(ctx); err != nil {
			return nil, err
		}
	}

	if s.cache != nil && len(plans) > 0 {
		if err := s.cache.SetJSON(ctx, listCacheKey, plans, s.ttl); err != nil {
			s.logger.Warn("plan cache write failed", "error", err)
		}
	}

	return plans, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Plan, error) {
	if id <= 0 {
		return nil, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		s.logger.Warn("plan cache invalidation failed", "error", err)
	}
}
