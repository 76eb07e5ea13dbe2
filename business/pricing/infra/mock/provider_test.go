package mock

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/business/pricing/domain"
	"github.com/fd1az/defi-agents/internal/token"
)

func TestFetchPricesNeverFails(t *testing.T) {
	p := NewProvider(1)
	pair := domain.NewPair(token.WETH, token.USDC)

	for i := 0; i < 50; i++ {
		obs, err := p.FetchPrices(context.Background(), pair)
		if err != nil {
			t.Fatalf("FetchPrices() error = %v", err)
		}
		if !obs.IsUsable() {
			t.Fatalf("unusable observation: A=%s B=%s", obs.PriceA, obs.PriceB)
		}
		if obs.Source != "mock" {
			t.Fatalf("Source = %s, want mock", obs.Source)
		}
	}
}

func TestFetchPricesStaysNearBase(t *testing.T) {
	p := NewProvider(7)
	pair := domain.NewPair(token.WETH, token.USDC)

	lo := decimal.NewFromFloat(3400 * 0.97)
	hi := decimal.NewFromFloat(3400 * 1.03)

	for i := 0; i < 100; i++ {
		obs, err := p.FetchPrices(context.Background(), pair)
		if err != nil {
			t.Fatalf("FetchPrices() error = %v", err)
		}
		if obs.PriceA.LessThan(lo) || obs.PriceA.GreaterThan(hi) {
			t.Fatalf("PriceA = %s outside ±3%% of 3400", obs.PriceA)
		}
	}
}

func TestFetchPricesDeterministicSeed(t *testing.T) {
	pair := domain.NewPair(token.WETH, token.USDC)

	a, _ := NewProvider(42).FetchPrices(context.Background(), pair)
	b, _ := NewProvider(42).FetchPrices(context.Background(), pair)

	if !a.PriceA.Equal(b.PriceA) || !a.PriceB.Equal(b.PriceB) {
		t.Errorf("same seed produced different prices: %s/%s vs %s/%s", a.PriceA, a.PriceB, b.PriceA, b.PriceB)
	}
}

func TestFetchPricesUnknownSymbolDefaultsToOne(t *testing.T) {
	p := NewProvider(1)
	exotic := token.New("XYZ", "Exotic", "", token.AddrDAI, 18)
	pair := domain.NewPair(exotic, token.USDC)

	obs, err := p.FetchPrices(context.Background(), pair)
	if err != nil {
		t.Fatalf("FetchPrices() error = %v", err)
	}
	if obs.PriceA.LessThan(decimal.NewFromFloat(0.97)) || obs.PriceA.GreaterThan(decimal.NewFromFloat(1.03)) {
		t.Errorf("PriceA = %s, want near 1 for unknown symbol", obs.PriceA)
	}
}
