package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/internal/token"
)

func TestNewPriceObservationDerivesRate(t *testing.T) {
	pair := NewPair(token.WETH, token.USDC)

	obs := NewPriceObservation(pair, decimal.NewFromInt(3400), decimal.NewFromInt(1), "test")
	if !obs.ExchangeRate.Equal(decimal.NewFromInt(3400)) {
		t.Errorf("ExchangeRate = %s, want 3400", obs.ExchangeRate)
	}
	if !obs.IsUsable() {
		t.Error("observation should be usable")
	}
}

func TestNewPriceObservationZeroPriceB(t *testing.T) {
	pair := NewPair(token.WETH, token.USDC)

	obs := NewPriceObservation(pair, decimal.NewFromInt(3400), decimal.Zero, "test")
	if !obs.ExchangeRate.IsZero() {
		t.Errorf("ExchangeRate = %s, want 0 when priceB is 0", obs.ExchangeRate)
	}
	if obs.IsUsable() {
		t.Error("observation with zero price should not be usable")
	}
}

func TestPriceObservationNilNotUsable(t *testing.T) {
	var obs *PriceObservation
	if obs.IsUsable() {
		t.Error("nil observation reported usable")
	}
}

func TestPairString(t *testing.T) {
	pair := NewPair(token.WETH, token.USDC)
	if pair.String() != "WETH-USDC" {
		t.Errorf("String() = %s, want WETH-USDC", pair.String())
	}
}

func TestNewPairNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on nil token")
		}
	}()
	NewPair(nil, token.USDC)
}
