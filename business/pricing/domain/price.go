// Package domain contains the core domain types for the pricing context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/internal/token"
)

// Pair represents a token pair being scanned for opportunities.
type Pair struct {
	TokenA *token.Token // bought leg
	TokenB *token.Token // sold leg
}

// NewPair creates a new token pair.
func NewPair(tokenA, tokenB *token.Token) Pair {
	if tokenA == nil || tokenB == nil {
		panic("pricing: nil token in pair")
	}
	return Pair{TokenA: tokenA, TokenB: tokenB}
}

// String returns the pair symbol (e.g., "WETH-USDC").
func (p Pair) String() string {
	return p.TokenA.Symbol() + "-" + p.TokenB.Symbol()
}

// PriceObservation is a point-in-time view of both legs of a pair.
// Observations are immutable; each scan supersedes the previous one.
type PriceObservation struct {
	Pair         Pair
	PriceA       decimal.Decimal // USD price of TokenA
	PriceB       decimal.Decimal // USD price of TokenB
	ExchangeRate decimal.Decimal // PriceA / PriceB
	Timestamp    time.Time
	Source       string // "coingecko", "dexscreener", "mock"
}

// NewPriceObservation builds an observation, deriving the exchange rate
// from the two USD prices. A non-positive PriceB yields a zero rate.
func NewPriceObservation(pair Pair, priceA, priceB decimal.Decimal, source string) *PriceObservation {
	rate := decimal.Zero
	if priceB.IsPositive() {
		rate = priceA.Div(priceB)
	}
	return &PriceObservation{
		Pair:         pair,
		PriceA:       priceA,
		PriceB:       priceB,
		ExchangeRate: rate,
		Timestamp:    time.Now(),
		Source:       source,
	}
}

// IsUsable reports whether the observation can feed the detector.
func (o *PriceObservation) IsUsable() bool {
	return o != nil && o.PriceA.IsPositive() && o.PriceB.IsPositive()
}

// Age returns how long ago the observation was taken.
func (o *PriceObservation) Age() time.Duration {
	return time.Since(o.Timestamp)
}
