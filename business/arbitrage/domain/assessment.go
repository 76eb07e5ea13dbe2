package domain

import "github.com/shopspring/decimal"

// RiskLevel is a discrete classification of an opportunity's risk.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskThresholds holds the classification boundaries. They are
// configuration rather than constants so the model can be tuned
// without code changes.
type RiskThresholds struct {
	HighMarginBelow     decimal.Decimal // margin under this forces high
	HighSlippageAbove   decimal.Decimal // slippage over this forces high
	HighPriceDiffBelow  decimal.Decimal // thin spreads are high risk
	MediumMarginBelow   decimal.Decimal
	MediumSlippageAbove decimal.Decimal
}

// DefaultRiskThresholds returns the standard 1%/2%/3% boundaries.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		HighMarginBelow:     decimal.NewFromFloat(0.01),
		HighSlippageAbove:   decimal.NewFromFloat(0.02),
		HighPriceDiffBelow:  decimal.NewFromFloat(0.02),
		MediumMarginBelow:   decimal.NewFromFloat(0.03),
		MediumSlippageAbove: decimal.NewFromFloat(0.01),
	}
}

// Classify returns the risk level for a margin/slippage/priceDiff
// combination. High takes precedence over medium over low.
func (t RiskThresholds) Classify(profitMargin, slippage, priceDifference decimal.Decimal) RiskLevel {
	switch {
	case profitMargin.LessThan(t.HighMarginBelow) ||
		slippage.GreaterThan(t.HighSlippageAbove) ||
		priceDifference.LessThan(t.HighPriceDiffBelow):
		return RiskHigh
	case profitMargin.LessThan(t.MediumMarginBelow) ||
		slippage.GreaterThan(t.MediumSlippageAbove):
		return RiskMedium
	default:
		return RiskLow
	}
}

// RiskAssessment is the evaluator's verdict on an opportunity.
// Immutable once produced.
type RiskAssessment struct {
	Approved     bool
	EstimatedGas int64           // gas units
	GasPrice     decimal.Decimal
	GasCostUSD   decimal.Decimal
	Slippage     decimal.Decimal // relative
	NetProfit    decimal.Decimal // USD
	ProfitMargin decimal.Decimal // relative = NetProfit / tradeAmountUSD
	RiskLevel    RiskLevel
	Reason       string
}
