package app

import (
	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/business/arbitrage/domain"
	pricingDomain "github.com/fd1az/defi-agents/business/pricing/domain"
)

// DetectOpportunities turns a batch of price observations into
// candidate opportunities whose absolute potential profit exceeds
// minProfitThreshold (relative, e.g. 0.02 = 2%).
//
// For each observation: buyPrice = PriceA, sellPrice = PriceB ×
// ExchangeRate, potentialProfit = (sell − buy) / buy. Observations
// with a non-positive buy price are skipped, not errors. Pure: no side
// effects beyond the returned slice.
func DetectOpportunities(observations []*pricingDomain.PriceObservation, minProfitThreshold decimal.Decimal) []*domain.Opportunity {
	var opportunities []*domain.Opportunity
	for _, obs := range observations {
		buyPrice := obs.PriceA
		if !buyPrice.IsPositive() {
			continue
		}
		sellPrice := obs.PriceB.Mul(obs.ExchangeRate)

		potentialProfit := sellPrice.Sub(buyPrice).Div(buyPrice)
		if potentialProfit.Abs().LessThanOrEqual(minProfitThreshold) {
			continue
		}

		opportunities = append(opportunities, domain.NewOpportunity(obs.Pair, buyPrice, sellPrice, obs.ExchangeRate))
	}
	return opportunities
}
