package domain

import (
	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/internal/token"
)

// AmountPrecision is the number of fractional digits used when
// rendering trade amounts. Amounts cross the execution boundary as
// fixed-precision strings to avoid floating-point drift.
const AmountPrecision = 18

// TradeParams carries the concrete inputs for one execution attempt.
// Derived deterministically from an approved opportunity; discarded
// after execution.
type TradeParams struct {
	FromToken         *token.Token
	ToToken           *token.Token
	AmountIn          string // decimal string, AmountPrecision fractional digits
	MinAmountOut      string
	Deadline          int64 // unix seconds
	SlippageTolerance decimal.Decimal
}
