package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/business/pricing/domain"
	"github.com/fd1az/defi-agents/internal/token"
)

func testPair() domain.Pair {
	return domain.NewPair(token.WETH, token.USDC)
}

func obs(priceA, priceB string) *domain.PriceObservation {
	return domain.NewPriceObservation(
		testPair(),
		decimal.RequireFromString(priceA),
		decimal.RequireFromString(priceB),
		"mock",
	)
}

func TestDetectOpportunities(t *testing.T) {
	threshold := decimal.RequireFromString("0.02")

	tests := []struct {
		name          string
		observations  []*domain.PriceObservation
		wantDetected  int
		wantProfitSig int // sign of PotentialProfit for the single expected hit
	}{
		{
			name:         "no_observations",
			observations: nil,
			wantDetected: 0,
		},
		{
			// Hand-built observations: a derived rate of priceA/priceB
			// always yields a zero spread, by construction.
			name: "spread_above_threshold",
			observations: []*domain.PriceObservation{
				{
					Pair:         testPair(),
					PriceA:       decimal.RequireFromString("100"),
					PriceB:       decimal.RequireFromString("1"),
					ExchangeRate: decimal.RequireFromString("106"),
				},
			},
			wantDetected:  1,
			wantProfitSig: 1,
		},
		{
			name: "spread_below_threshold",
			observations: []*domain.PriceObservation{
				{
					Pair:         testPair(),
					PriceA:       decimal.RequireFromString("100"),
					PriceB:       decimal.RequireFromString("1"),
					ExchangeRate: decimal.RequireFromString("101"),
				},
			},
			wantDetected: 0,
		},
		{
			name: "spread_exactly_at_threshold_excluded",
			observations: []*domain.PriceObservation{
				{
					Pair:         testPair(),
					PriceA:       decimal.RequireFromString("100"),
					PriceB:       decimal.RequireFromString("1"),
					ExchangeRate: decimal.RequireFromString("102"),
				},
			},
			wantDetected: 0,
		},
		{
			name: "negative_spread_detected_by_magnitude",
			observations: []*domain.PriceObservation{
				{
					Pair:         testPair(),
					PriceA:       decimal.RequireFromString("100"),
					PriceB:       decimal.RequireFromString("1"),
					ExchangeRate: decimal.RequireFromString("90"),
				},
			},
			wantDetected:  1,
			wantProfitSig: -1,
		},
		{
			name: "zero_buy_price_skipped",
			observations: []*domain.PriceObservation{
				{
					Pair:         testPair(),
					PriceA:       decimal.Zero,
					PriceB:       decimal.RequireFromString("1"),
					ExchangeRate: decimal.RequireFromString("106"),
				},
			},
			wantDetected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectOpportunities(tt.observations, threshold)
			if len(got) != tt.wantDetected {
				t.Fatalf("detected %d opportunities, want %d", len(got), tt.wantDetected)
			}
			if tt.wantDetected == 1 {
				if got[0].PotentialProfit.Sign() != tt.wantProfitSig {
					t.Errorf("PotentialProfit sign = %d, want %d", got[0].PotentialProfit.Sign(), tt.wantProfitSig)
				}
				if got[0].Status != "detected" {
					t.Errorf("new opportunity status = %s, want detected", got[0].Status)
				}
			}
		})
	}
}

func TestDetectOpportunitiesDoesNotMutateInput(t *testing.T) {
	o := obs("100", "1")
	o.ExchangeRate = decimal.RequireFromString("106")
	before := *o

	DetectOpportunities([]*domain.PriceObservation{o}, decimal.RequireFromString("0.02"))

	if !o.PriceA.Equal(before.PriceA) || !o.PriceB.Equal(before.PriceB) || !o.ExchangeRate.Equal(before.ExchangeRate) {
		t.Error("detector mutated its input observation")
	}
}
