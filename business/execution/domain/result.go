// Package domain contains the core domain types for the execution context.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExecutionResult records the outcome of one execution attempt.
// Created once per attempt; immutable. A failed execution is terminal
// for its opportunity; retry policy belongs to the caller.
type ExecutionResult struct {
	Success      bool
	TxHash       string // empty on failure before submission
	AmountIn     string
	AmountOut    string
	GasUsed      int64
	ActualProfit *decimal.Decimal // USD, set only on success
	Error        string           // transport error verbatim, or failure reason
	Timestamp    time.Time        // completion time
	Simulated    bool             // mock vs. real settlement
}

// Failure builds a failed result with the given reason.
func Failure(reason string, amountIn string, simulated bool) *ExecutionResult {
	return &ExecutionResult{
		Success:   false,
		AmountIn:  amountIn,
		Error:     reason,
		Timestamp: time.Now(),
		Simulated: simulated,
	}
}
