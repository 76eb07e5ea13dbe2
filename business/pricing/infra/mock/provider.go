// Package mock implements a deterministic price Source for development
// and tests. Prices wander around fixed base values so the detector
// occasionally finds spreads without any network access.
package mock

import (
	"context"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/business/pricing/domain"
)

const sourceName = "mock"

// basePrices are the anchor USD prices per symbol. Unknown symbols
// default to 1.0.
var basePrices = map[string]float64{
	"ETH":  3400,
	"WETH": 3400,
	"WBTC": 64000,
	"USDC": 1,
	"USDT": 1,
	"DAI":  1,
}

// Provider generates synthetic observations from a seeded RNG.
type Provider struct {
	mu  sync.Mutex
	rng *rand.Rand

	// maxJitter bounds the relative deviation from the base price.
	maxJitter float64
}

// NewProvider creates a mock source. The same seed yields the same
// price sequence.
func NewProvider(seed int64) *Provider {
	return &Provider{
		rng:       rand.New(rand.NewSource(seed)),
		maxJitter: 0.03,
	}
}

// Name implements app.Source.
func (p *Provider) Name() string { return sourceName }

// FetchPrices implements app.Source. It never fails.
func (p *Provider) FetchPrices(_ context.Context, pair domain.Pair) (*domain.PriceObservation, error) {
	p.mu.Lock()
	priceA := p.jittered(basePrices[pair.TokenA.Symbol()])
	priceB := p.jittered(basePrices[pair.TokenB.Symbol()])
	p.mu.Unlock()

	return domain.NewPriceObservation(pair, priceA, priceB, sourceName), nil
}

func (p *Provider) jittered(base float64) decimal.Decimal {
	if base <= 0 {
		base = 1
	}
	jitter := (p.rng.Float64()*2 - 1) * p.maxJitter
	return decimal.NewFromFloat(base * (1 + jitter))
}
