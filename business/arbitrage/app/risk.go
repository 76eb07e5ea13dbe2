package app

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/business/arbitrage/domain"
	"github.com/fd1az/defi-agents/internal/apperror"
)

var (
	microUnit      = decimal.NewFromInt(1_000_000)
	slippageBase   = decimal.NewFromFloat(0.001)
	slippageCap    = decimal.NewFromFloat(0.005)
	liquidityScale = decimal.NewFromInt(100_000)
)

// EvaluatorConfig holds the inputs the evaluator treats as fixed.
type EvaluatorConfig struct {
	GasUnits            int64           // transfer-class estimate, e.g. 75000
	GasPrice            decimal.Decimal // micro-native units per gas
	NativeTokenPriceUSD decimal.Decimal
	MaxSlippage         decimal.Decimal // relative, [0, 1]
	MinProfitThreshold  decimal.Decimal // relative
	Thresholds          domain.RiskThresholds
}

// Validate rejects malformed configuration before any assessment runs.
func (c EvaluatorConfig) Validate() error {
	if c.GasUnits <= 0 || !c.GasPrice.IsPositive() {
		return apperror.Validation(apperror.CodeInvalidInput, "gas parameters must be positive")
	}
	if c.MaxSlippage.IsNegative() || c.MaxSlippage.GreaterThan(decimal.NewFromInt(1)) {
		return apperror.Validation(apperror.CodeInvalidInput, "maxSlippage must be within [0, 1]")
	}
	if c.MinProfitThreshold.IsNegative() {
		return apperror.Validation(apperror.CodeInvalidInput, "minProfitThreshold cannot be negative")
	}
	return nil
}

// Evaluator produces risk assessments. It is a pure function of the
// opportunity and trade size given its configuration.
type Evaluator struct {
	config EvaluatorConfig
}

// NewEvaluator creates an evaluator after validating its config.
func NewEvaluator(cfg EvaluatorConfig) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{config: cfg}, nil
}

// Config returns the evaluator's configuration.
func (e *Evaluator) Config() EvaluatorConfig {
	return e.config
}

// GasCostUSD computes the fixed gas estimate in USD: gas units ×
// gas price (micro-native per unit), scaled to whole native tokens,
// at the configured native token price.
func (e *Evaluator) GasCostUSD() decimal.Decimal {
	costMicro := e.config.GasPrice.Mul(decimal.NewFromInt(e.config.GasUnits))
	return costMicro.Div(microUnit).Mul(e.config.NativeTokenPriceUSD)
}

// CalculateSlippage estimates slippage for a trade size: a 0.1% base
// plus a liquidity term growing linearly with size, capped at 0.5%.
// Monotonically non-decreasing in tradeAmountUSD.
func CalculateSlippage(tradeAmountUSD decimal.Decimal) decimal.Decimal {
	liquidityFactor := tradeAmountUSD.Div(liquidityScale)
	if liquidityFactor.GreaterThan(slippageCap) {
		liquidityFactor = slippageCap
	}
	return slippageBase.Add(liquidityFactor)
}

// Evaluate assesses one opportunity for a trade of tradeAmountUSD.
// Every well-formed input produces a normal assessment; only malformed
// trade amounts fail.
func (e *Evaluator) Evaluate(opp *domain.Opportunity, tradeAmountUSD decimal.Decimal) (*domain.RiskAssessment, error) {
	if !tradeAmountUSD.IsPositive() {
		return nil, apperror.Validation(apperror.CodeInvalidTradeSize,
			fmt.Sprintf("trade amount must be positive, got %s", tradeAmountUSD))
	}

	gasCostUSD := e.GasCostUSD()
	slippage := CalculateSlippage(tradeAmountUSD)

	// Excess slippage rejects before any profit computation.
	if slippage.GreaterThan(e.config.MaxSlippage) {
		return &domain.RiskAssessment{
			Approved:     false,
			EstimatedGas: e.config.GasUnits,
			GasPrice:     e.config.GasPrice,
			GasCostUSD:   gasCostUSD,
			Slippage:     slippage,
			NetProfit:    decimal.Zero,
			ProfitMargin: decimal.Zero,
			RiskLevel:    domain.RiskHigh,
			Reason: fmt.Sprintf("Slippage (%s%%) exceeds maximum (%s%%)",
				asPercent(slippage), asPercent(e.config.MaxSlippage)),
		}, nil
	}

	grossProfitUSD := tradeAmountUSD.Mul(opp.PotentialProfit)
	slippageCostUSD := tradeAmountUSD.Mul(slippage)
	netProfitUSD := grossProfitUSD.Sub(gasCostUSD).Sub(slippageCostUSD)
	profitMargin := netProfitUSD.Div(tradeAmountUSD)

	riskLevel := e.config.Thresholds.Classify(profitMargin, slippage, opp.PriceDifference)

	approved := profitMargin.GreaterThanOrEqual(e.config.MinProfitThreshold) && netProfitUSD.IsPositive()

	var reason string
	switch {
	case approved:
		reason = fmt.Sprintf("Profitable: Net profit $%s (%s%%)",
			netProfitUSD.StringFixed(2), asPercent(profitMargin))
	case profitMargin.LessThan(e.config.MinProfitThreshold):
		reason = fmt.Sprintf("Profit margin (%s%%) below threshold (%s%%)",
			asPercent(profitMargin), asPercent(e.config.MinProfitThreshold))
	default:
		reason = "Net profit is negative after costs"
	}

	return &domain.RiskAssessment{
		Approved:     approved,
		EstimatedGas: e.config.GasUnits,
		GasPrice:     e.config.GasPrice,
		GasCostUSD:   gasCostUSD,
		Slippage:     slippage,
		NetProfit:    netProfitUSD,
		ProfitMargin: profitMargin,
		RiskLevel:    riskLevel,
		Reason:       reason,
	}, nil
}

func asPercent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).StringFixed(2)
}
