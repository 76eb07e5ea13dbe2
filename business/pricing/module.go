// Package pricing implements the pricing bounded context: fetching and
// caching token USD prices from external sources.
package pricing

import (
	"context"

	"github.com/fd1az/defi-agents/business/pricing/app"
	pricingDI "github.com/fd1az/defi-agents/business/pricing/di"
	"github.com/fd1az/defi-agents/business/pricing/infra/coingecko"
	"github.com/fd1az/defi-agents/business/pricing/infra/mock"
	"github.com/fd1az/defi-agents/internal/config"
	"github.com/fd1az/defi-agents/internal/di"
	"github.com/fd1az/defi-agents/internal/logger"
	"github.com/fd1az/defi-agents/internal/monolith"
)

// Module implements the pricing bounded context.
type Module struct {
	// UseMockSource swaps the live HTTP source for the deterministic
	// generator; used by CLI dry runs and tests.
	UseMockSource bool
	MockSeed      int64
}

// RegisterServices registers all pricing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register price source (CoinGecko or mock) - private dependency
	di.RegisterToken(c, pricingDI.PriceSource, func(sr di.ServiceRegistry) app.Source {
		if m.UseMockSource {
			return mock.NewProvider(m.MockSeed)
		}

		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		providerCfg := coingecko.ProviderConfig{
			BaseURL:        cfg.Pricing.CoinGeckoURL,
			FallbackURL:    cfg.Pricing.DexScreenerURL,
			RequestTimeout: cfg.Pricing.RequestTimeout,
			RatePerSecond:  cfg.Pricing.RatePerSecond,
		}

		provider, err := coingecko.NewProvider(providerCfg, log)
		if err != nil {
			panic("failed to create coingecko provider: " + err.Error())
		}
		return provider
	})

	// Register PricingService (public - exposed to other modules)
	di.RegisterToken(c, pricingDI.PricingService, func(sr di.ServiceRegistry) *app.PricingService {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		source := pricingDI.GetPriceSource(sr)
		return app.NewPricingService(source, cfg.Pricing.CacheTTL, log)
	})

	return nil
}

// Startup initializes the pricing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	// Force construction so configuration problems surface at startup
	pricingDI.GetPricingService(mono.Services())

	mono.Logger().Info(ctx, "pricing module started", "mock", m.UseMockSource)
	return nil
}
