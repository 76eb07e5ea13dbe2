package app

import (
	"context"
	"math/big"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	arbitrageDomain "github.com/fd1az/defi-agents/business/arbitrage/domain"
	"github.com/fd1az/defi-agents/business/execution/domain"
	"github.com/fd1az/defi-agents/internal/logger"
)

const tracerName = "execution.executor"

// simulatedGasUsed is the typical gas for a native transfer.
const simulatedGasUsed = 75000

// ExecutorConfig holds configuration for the trade executor.
type ExecutorConfig struct {
	Simulate    bool
	SettleDelay time.Duration // simulated settlement latency
	TransferWei *big.Int      // native amount moved per live settlement
	Seed        int64         // 0 seeds from the clock
}

// DefaultExecutorConfig returns simulation-mode defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		Simulate:    true,
		SettleDelay: 2 * time.Second,
		TransferWei: big.NewInt(1_000_000_000_000_000), // 0.001 ETH
	}
}

// TradeExecutor settles approved trades. In simulation mode it mimics
// settlement latency and fills with a small random slip around the
// expected profit; in live mode it moves a fixed native amount through
// the configured wallet. Every failure mode is reported inside the
// result so callers never retry.
type TradeExecutor struct {
	config ExecutorConfig
	wallet Wallet
	logger logger.LoggerInterface
	tracer trace.Tracer

	mu  sync.Mutex
	rng *rand.Rand
}

// NewTradeExecutor creates a trade executor. The wallet may be nil; the
// executor then falls back to simulation regardless of config.
func NewTradeExecutor(cfg ExecutorConfig, wallet Wallet, log logger.LoggerInterface) *TradeExecutor {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = 2 * time.Second
	}
	if cfg.TransferWei == nil {
		cfg.TransferWei = big.NewInt(1_000_000_000_000_000)
	}

	return &TradeExecutor{
		config: cfg,
		wallet: wallet,
		logger: log,
		tracer: otel.Tracer(tracerName),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Execute settles one trade and reports the outcome. The error field of
// the returned result carries transport errors verbatim.
func (e *TradeExecutor) Execute(ctx context.Context, params *arbitrageDomain.TradeParams, expectedProfit decimal.Decimal) *domain.ExecutionResult {
	ctx, span := e.tracer.Start(ctx, "execution.execute",
		trace.WithAttributes(
			attribute.String("from", params.FromToken.Symbol()),
			attribute.String("to", params.ToToken.Symbol()),
			attribute.String("expected_profit", expectedProfit.String()),
		),
	)
	defer span.End()

	var result *domain.ExecutionResult
	if e.config.Simulate || e.wallet == nil {
		result = e.simulate(ctx, params, expectedProfit)
	} else {
		result = e.settle(ctx, params, expectedProfit)
	}

	if result.Success {
		span.SetAttributes(attribute.String("tx_hash", result.TxHash))
		span.SetStatus(codes.Ok, "settled")
		e.logger.Info(ctx, "trade executed",
			"tx_hash", result.TxHash,
			"amount_out", result.AmountOut,
			"actual_profit", result.ActualProfit.StringFixed(2),
			"simulated", result.Simulated)
	} else {
		span.SetStatus(codes.Error, result.Error)
		e.logger.Warn(ctx, "trade execution failed",
			"error", result.Error,
			"simulated", result.Simulated)
	}

	return result
}

// simulate mimics a settlement: wait out the latency, then fill at
// 95-105% of the expected profit. Simulated settlements never fail on
// their own; only caller cancellation aborts them.
func (e *TradeExecutor) simulate(ctx context.Context, params *arbitrageDomain.TradeParams, expectedProfit decimal.Decimal) *domain.ExecutionResult {
	timer := time.NewTimer(e.config.SettleDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return domain.Failure(ctx.Err().Error(), params.AmountIn, true)
	case <-timer.C:
	}

	amountIn, err := decimal.NewFromString(params.AmountIn)
	if err != nil {
		return domain.Failure("invalid trade amount: "+err.Error(), params.AmountIn, true)
	}

	e.mu.Lock()
	txHash := e.simTxHash()
	e.mu.Unlock()

	actualProfit := e.fillProfit(expectedProfit)
	amountOut := amountIn.Mul(decimal.NewFromFloat(1.02))

	return &domain.ExecutionResult{
		Success:      true,
		TxHash:       txHash,
		AmountIn:     params.AmountIn,
		AmountOut:    amountOut.StringFixed(arbitrageDomain.AmountPrecision),
		GasUsed:      simulatedGasUsed,
		ActualProfit: &actualProfit,
		Timestamp:    time.Now(),
		Simulated:    true,
	}
}

// settle moves a fixed native amount through the wallet as the
// settlement leg. Balance is checked before anything is submitted.
func (e *TradeExecutor) settle(ctx context.Context, params *arbitrageDomain.TradeParams, expectedProfit decimal.Decimal) *domain.ExecutionResult {
	balance, err := e.wallet.Balance(ctx)
	if err != nil {
		return domain.Failure(err.Error(), params.AmountIn, false)
	}

	if balance.Cmp(e.config.TransferWei) < 0 {
		return domain.Failure("Insufficient balance", params.AmountIn, false)
	}

	txHash, gasUsed, err := e.wallet.SendTransfer(ctx, e.wallet.Address(), e.config.TransferWei)
	if err != nil {
		return domain.Failure(err.Error(), params.AmountIn, false)
	}

	actualProfit := e.fillProfit(expectedProfit)

	return &domain.ExecutionResult{
		Success:      true,
		TxHash:       txHash,
		AmountIn:     params.AmountIn,
		AmountOut:    params.MinAmountOut,
		GasUsed:      gasUsed,
		ActualProfit: &actualProfit,
		Timestamp:    time.Now(),
		Simulated:    false,
	}
}

// fillProfit realizes the expected profit at 95-105%, the fill model
// both settlement paths share.
func (e *TradeExecutor) fillProfit(expected decimal.Decimal) decimal.Decimal {
	e.mu.Lock()
	ratio := decimal.NewFromFloat(0.95 + e.rng.Float64()*0.1)
	e.mu.Unlock()
	return expected.Mul(ratio)
}

const base36Upper = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// simTxHash builds a SIM-prefixed pseudo hash. Callers hold e.mu.
func (e *TradeExecutor) simTxHash() string {
	var b strings.Builder
	b.WriteString("SIM")
	b.WriteString(strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36)))
	for i := 0; i < 6; i++ {
		b.WriteByte(base36Upper[e.rng.Intn(len(base36Upper))])
	}
	return b.String()
}
