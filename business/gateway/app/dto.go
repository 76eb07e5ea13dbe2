// Package app contains the HTTP server and wire representations for
// the gateway context.
package app

import (
	"github.com/shopspring/decimal"

	arbitrageDomain "github.com/fd1az/defi-agents/business/arbitrage/domain"
	"github.com/fd1az/defi-agents/internal/token"
)

// TokenView is the wire form of a token.
type TokenView struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

// PairView is the wire form of a trading pair.
type PairView struct {
	TokenA TokenView `json:"tokenA"`
	TokenB TokenView `json:"tokenB"`
}

// AssessmentView is the wire form of a risk assessment.
type AssessmentView struct {
	Approved     bool            `json:"approved"`
	RiskLevel    string          `json:"riskLevel"`
	GasCostUSD   decimal.Decimal `json:"gasCostUSD"`
	Slippage     decimal.Decimal `json:"slippage"`
	NetProfit    decimal.Decimal `json:"netProfit"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`
	Reason       string          `json:"reason"`
}

// OpportunityView is the wire form of an opportunity.
type OpportunityView struct {
	ID              string          `json:"id"`
	TokenPair       PairView        `json:"tokenPair"`
	BuyPrice        decimal.Decimal `json:"buyPrice"`
	SellPrice       decimal.Decimal `json:"sellPrice"`
	ExchangeRate    decimal.Decimal `json:"exchangeRate"`
	PriceDifference decimal.Decimal `json:"priceDifference"`
	PotentialProfit decimal.Decimal `json:"potentialProfit"`
	Timestamp       int64           `json:"timestamp"` // unix millis
	Status          string          `json:"status"`
	Assessment      *AssessmentView `json:"assessment,omitempty"`
}

// NewTokenView converts a registry token.
func NewTokenView(t *token.Token) TokenView {
	return TokenView{
		Symbol:   t.Symbol(),
		Name:     t.Name(),
		Address:  t.Address().Hex(),
		Decimals: t.Decimals(),
	}
}

// NewOpportunityView converts a domain opportunity.
func NewOpportunityView(opp *arbitrageDomain.Opportunity) OpportunityView {
	view := OpportunityView{
		ID: opp.ID,
		TokenPair: PairView{
			TokenA: NewTokenView(opp.Pair.TokenA),
			TokenB: NewTokenView(opp.Pair.TokenB),
		},
		BuyPrice:        opp.BuyPrice,
		SellPrice:       opp.SellPrice,
		ExchangeRate:    opp.ExchangeRate,
		PriceDifference: opp.PriceDifference,
		PotentialProfit: opp.PotentialProfit,
		Timestamp:       opp.Timestamp.UnixMilli(),
		Status:          string(opp.Status),
	}
	if a := opp.Assessment; a != nil {
		view.Assessment = &AssessmentView{
			Approved:     a.Approved,
			RiskLevel:    string(a.RiskLevel),
			GasCostUSD:   a.GasCostUSD,
			Slippage:     a.Slippage,
			NetProfit:    a.NetProfit,
			ProfitMargin: a.ProfitMargin,
			Reason:       a.Reason,
		}
	}
	return view
}
