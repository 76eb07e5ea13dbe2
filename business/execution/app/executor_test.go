package app

import (
	"context"
	"errors"
	"io"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	arbitrageDomain "github.com/fd1az/defi-agents/business/arbitrage/domain"
	"github.com/fd1az/defi-agents/internal/logger"
	"github.com/fd1az/defi-agents/internal/token"
)

type fakeWallet struct {
	balance    *big.Int
	balanceErr error
	sendHash   string
	sendGas    int64
	sendErr    error
	sendCalls  int
}

func (f *fakeWallet) Address() common.Address { return common.HexToAddress("0x1") }

func (f *fakeWallet) Balance(ctx context.Context) (*big.Int, error) {
	return f.balance, f.balanceErr
}

func (f *fakeWallet) SendTransfer(ctx context.Context, to common.Address, amountWei *big.Int) (string, int64, error) {
	f.sendCalls++
	return f.sendHash, f.sendGas, f.sendErr
}

func testParams() *arbitrageDomain.TradeParams {
	return &arbitrageDomain.TradeParams{
		FromToken:         token.WETH,
		ToToken:           token.USDC,
		AmountIn:          "0.500000000000000000",
		MinAmountOut:      "990.000000000000000000",
		Deadline:          time.Now().Add(20 * time.Minute).Unix(),
		SlippageTolerance: decimal.RequireFromString("0.01"),
	}
}

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelError, "test", nil)
}

func simulatedExecutor(t *testing.T) *TradeExecutor {
	t.Helper()
	return NewTradeExecutor(ExecutorConfig{
		Simulate:    true,
		SettleDelay: time.Millisecond,
		Seed:        42,
	}, nil, testLogger())
}

func TestExecuteSimulated(t *testing.T) {
	e := simulatedExecutor(t)
	expected := decimal.NewFromInt(50)

	result := e.Execute(context.Background(), testParams(), expected)

	if !result.Success {
		t.Fatalf("simulated execution failed: %s", result.Error)
	}
	if !result.Simulated {
		t.Error("result not marked simulated")
	}
	if !strings.HasPrefix(result.TxHash, "SIM") {
		t.Errorf("TxHash = %s, want SIM prefix", result.TxHash)
	}
	if result.GasUsed != 75000 {
		t.Errorf("GasUsed = %d, want 75000", result.GasUsed)
	}

	// amountOut = amountIn × 1.02
	wantOut := "0.510000000000000000"
	if result.AmountOut != wantOut {
		t.Errorf("AmountOut = %s, want %s", result.AmountOut, wantOut)
	}

	// Fill lands within 95-105% of the expectation.
	if result.ActualProfit == nil {
		t.Fatal("ActualProfit not set")
	}
	lo := decimal.RequireFromString("47.5")
	hi := decimal.RequireFromString("52.5")
	if result.ActualProfit.LessThan(lo) || result.ActualProfit.GreaterThan(hi) {
		t.Errorf("ActualProfit = %s, want within [%s, %s]", result.ActualProfit, lo, hi)
	}
}

func TestExecuteSimulatedDeterministicSeed(t *testing.T) {
	a := simulatedExecutor(t).Execute(context.Background(), testParams(), decimal.NewFromInt(50))
	b := simulatedExecutor(t).Execute(context.Background(), testParams(), decimal.NewFromInt(50))

	if !a.ActualProfit.Equal(*b.ActualProfit) {
		t.Errorf("same seed produced different fills: %s vs %s", a.ActualProfit, b.ActualProfit)
	}
}

func TestExecuteSimulatedCancelled(t *testing.T) {
	e := NewTradeExecutor(ExecutorConfig{
		Simulate:    true,
		SettleDelay: time.Minute,
		Seed:        1,
	}, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := e.Execute(ctx, testParams(), decimal.NewFromInt(50))
	if result.Success {
		t.Fatal("cancelled execution reported success")
	}
	if result.Error != context.Canceled.Error() {
		t.Errorf("Error = %q, want %q", result.Error, context.Canceled.Error())
	}
}

func TestExecuteNilWalletFallsBackToSimulation(t *testing.T) {
	e := NewTradeExecutor(ExecutorConfig{
		Simulate:    false,
		SettleDelay: time.Millisecond,
		Seed:        1,
	}, nil, testLogger())

	result := e.Execute(context.Background(), testParams(), decimal.NewFromInt(10))
	if !result.Success || !result.Simulated {
		t.Errorf("result = success %v, simulated %v; want simulated success", result.Success, result.Simulated)
	}
}

func TestExecuteLiveInsufficientBalance(t *testing.T) {
	wallet := &fakeWallet{balance: big.NewInt(1)} // far below the transfer amount
	e := NewTradeExecutor(ExecutorConfig{
		Simulate:    false,
		SettleDelay: time.Millisecond,
		Seed:        1,
	}, wallet, testLogger())

	result := e.Execute(context.Background(), testParams(), decimal.NewFromInt(10))

	if result.Success {
		t.Fatal("execution succeeded with insufficient balance")
	}
	if result.Error != "Insufficient balance" {
		t.Errorf("Error = %q, want %q", result.Error, "Insufficient balance")
	}
	if wallet.sendCalls != 0 {
		t.Error("transfer submitted despite failed balance check")
	}
	if result.Simulated {
		t.Error("live failure marked simulated")
	}
}

func TestExecuteLiveBalanceError(t *testing.T) {
	wallet := &fakeWallet{balanceErr: errors.New("rpc: connection refused")}
	e := NewTradeExecutor(ExecutorConfig{
		Simulate: false,
		Seed:     1,
	}, wallet, testLogger())

	result := e.Execute(context.Background(), testParams(), decimal.NewFromInt(10))
	if result.Success {
		t.Fatal("execution succeeded with failing balance check")
	}
	if !strings.Contains(result.Error, "connection refused") {
		t.Errorf("Error = %q, want transport error carried verbatim", result.Error)
	}
}

func TestExecuteLiveSuccess(t *testing.T) {
	wallet := &fakeWallet{
		balance:  big.NewInt(2_000_000_000_000_000), // 0.002 ETH
		sendHash: "0xabc123",
		sendGas:  21000,
	}
	e := NewTradeExecutor(ExecutorConfig{
		Simulate: false,
		Seed:     1,
	}, wallet, testLogger())

	expected := decimal.RequireFromString("12.34")
	result := e.Execute(context.Background(), testParams(), expected)

	if !result.Success {
		t.Fatalf("live execution failed: %s", result.Error)
	}
	if result.TxHash != "0xabc123" {
		t.Errorf("TxHash = %s, want 0xabc123", result.TxHash)
	}
	if result.GasUsed != 21000 {
		t.Errorf("GasUsed = %d, want 21000", result.GasUsed)
	}
	// Live settlements realize the expected profit at 95-105% too.
	if result.ActualProfit == nil {
		t.Fatal("ActualProfit not set")
	}
	lo := expected.Mul(decimal.RequireFromString("0.95"))
	hi := expected.Mul(decimal.RequireFromString("1.05"))
	if result.ActualProfit.LessThan(lo) || result.ActualProfit.GreaterThan(hi) {
		t.Errorf("ActualProfit = %s, want within [%s, %s]", result.ActualProfit, lo, hi)
	}
	if result.Simulated {
		t.Error("live settlement marked simulated")
	}
	if wallet.sendCalls != 1 {
		t.Errorf("sendCalls = %d, want 1", wallet.sendCalls)
	}
}
