// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"
	"time"

	"github.com/fd1az/defi-agents/business/pricing/domain"
	"github.com/fd1az/defi-agents/internal/cache"
	"github.com/fd1az/defi-agents/internal/logger"
)

// PricingService coordinates price fetching with a short-lived cache so
// repeated scans inside the TTL don't hammer the upstream API.
type PricingService struct {
	source   Source
	cache    *cache.Cache[string, *domain.PriceObservation]
	cacheTTL time.Duration
	logger   logger.LoggerInterface
}

// NewPricingService creates a new PricingService around the given source.
func NewPricingService(source Source, cacheTTL time.Duration, log logger.LoggerInterface) *PricingService {
	return &PricingService{
		source:   source,
		cache:    cache.New[string, *domain.PriceObservation](cacheTTL),
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// FetchPrices returns an observation for the pair, served from cache
// when a recent one exists.
func (s *PricingService) FetchPrices(ctx context.Context, pair domain.Pair) (*domain.PriceObservation, error) {
	key := pair.String()
	if obs, ok := s.cache.Get(ctx, key); ok {
		return obs, nil
	}

	obs, err := s.source.FetchPrices(ctx, pair)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, obs, s.cacheTTL)
	return obs, nil
}

// ScanPairs fetches observations for all pairs, skipping those that
// fail. onProgress, if non-nil, is invoked after each pair with the
// number of pairs handled so far.
func (s *PricingService) ScanPairs(ctx context.Context, pairs []domain.Pair, onProgress func(done, total int)) []*domain.PriceObservation {
	observations := make([]*domain.PriceObservation, 0, len(pairs))
	for i, pair := range pairs {
		if ctx.Err() != nil {
			break
		}

		obs, err := s.FetchPrices(ctx, pair)
		if err != nil {
			s.logger.Warn(ctx, "price fetch failed, skipping pair", "pair", pair.String(), "error", err)
		} else if obs.IsUsable() {
			observations = append(observations, obs)
		}

		if onProgress != nil {
			onProgress(i+1, len(pairs))
		}
	}
	return observations
}

// Source exposes the underlying provider name for health checks.
func (s *PricingService) Source() string {
	return s.source.Name()
}

// Close releases the observation cache.
func (s *PricingService) Close() {
	s.cache.Close()
}
