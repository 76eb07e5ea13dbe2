package app

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/business/arbitrage/domain"
	"github.com/fd1az/defi-agents/internal/apperror"
)

// tradeDeadline bounds how long submitted trade parameters stay valid.
const tradeDeadline = 1200 * time.Second

// BuildTradeParams derives concrete trade inputs from an approved
// opportunity: amountIn = tradeAmountUSD / buyPrice in units of the
// bought token, minAmountOut = amountIn × exchangeRate × (1 −
// maxSlippage), deadline = now + 20 minutes. Amounts are rendered as
// fixed 18-fractional-digit strings. Pure; never mutates the
// opportunity.
func BuildTradeParams(opp *domain.Opportunity, tradeAmountUSD, maxSlippage decimal.Decimal, now time.Time) (*domain.TradeParams, error) {
	if !opp.BuyPrice.IsPositive() {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "opportunity buy price must be positive")
	}
	if !tradeAmountUSD.IsPositive() {
		return nil, apperror.Validation(apperror.CodeInvalidTradeSize, "trade amount must be positive")
	}

	amountIn := tradeAmountUSD.Div(opp.BuyPrice)
	idealOutput := amountIn.Mul(opp.ExchangeRate)
	minAmountOut := idealOutput.Mul(decimal.NewFromInt(1).Sub(maxSlippage))

	return &domain.TradeParams{
		FromToken:         opp.Pair.TokenA,
		ToToken:           opp.Pair.TokenB,
		AmountIn:          amountIn.StringFixed(domain.AmountPrecision),
		MinAmountOut:      minAmountOut.StringFixed(domain.AmountPrecision),
		Deadline:          now.Add(tradeDeadline).Unix(),
		SlippageTolerance: maxSlippage,
	}, nil
}
