package app

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/business/arbitrage/domain"
)

// testEvaluatorConfig yields a $1 gas cost: 100000 units × 1 micro-native
// per unit = 0.1 native, at $10 per native token.
func testEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		GasUnits:            100_000,
		GasPrice:            decimal.NewFromInt(1),
		NativeTokenPriceUSD: decimal.NewFromInt(10),
		MaxSlippage:         decimal.RequireFromString("0.01"),
		MinProfitThreshold:  decimal.RequireFromString("0.02"),
		Thresholds:          domain.DefaultRiskThresholds(),
	}
}

func oppWithProfit(t *testing.T, profitRate string) *domain.Opportunity {
	t.Helper()
	buy := decimal.NewFromInt(100)
	sell := buy.Mul(decimal.NewFromInt(1).Add(decimal.RequireFromString(profitRate)))
	return domain.NewOpportunity(testPair(), buy, sell, decimal.NewFromInt(1))
}

func TestEvaluatorConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*EvaluatorConfig)
		wantErr bool
	}{
		{"valid", func(*EvaluatorConfig) {}, false},
		{"zero_gas_units", func(c *EvaluatorConfig) { c.GasUnits = 0 }, true},
		{"negative_gas_price", func(c *EvaluatorConfig) { c.GasPrice = decimal.NewFromInt(-1) }, true},
		{"slippage_above_one", func(c *EvaluatorConfig) { c.MaxSlippage = decimal.RequireFromString("1.5") }, true},
		{"negative_slippage", func(c *EvaluatorConfig) { c.MaxSlippage = decimal.NewFromInt(-1) }, true},
		{"negative_threshold", func(c *EvaluatorConfig) { c.MinProfitThreshold = decimal.NewFromInt(-1) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testEvaluatorConfig()
			tt.mutate(&cfg)
			_, err := NewEvaluator(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewEvaluator() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCalculateSlippage(t *testing.T) {
	tests := []struct {
		name           string
		tradeAmountUSD string
		want           string
	}{
		{"zero_trade", "0", "0.001"},
		{"small_trade_100", "100", "0.002"},
		{"cap_boundary_500", "500", "0.006"},
		{"capped_1000", "1000", "0.006"},
		{"capped_one_million", "1000000", "0.006"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateSlippage(decimal.RequireFromString(tt.tradeAmountUSD))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("CalculateSlippage(%s) = %s, want %s", tt.tradeAmountUSD, got, tt.want)
			}
		})
	}
}

func TestCalculateSlippageMonotonic(t *testing.T) {
	prev := decimal.Zero
	for _, amount := range []int64{0, 10, 100, 250, 499, 500, 1000, 100_000} {
		s := CalculateSlippage(decimal.NewFromInt(amount))
		if s.LessThan(prev) {
			t.Fatalf("slippage decreased at trade amount %d: %s < %s", amount, s, prev)
		}
		prev = s
	}
}

func TestEvaluatorGasCostUSD(t *testing.T) {
	ev, err := NewEvaluator(EvaluatorConfig{
		GasUnits:            75_000,
		GasPrice:            decimal.NewFromInt(2),
		NativeTokenPriceUSD: decimal.NewFromInt(3400),
		MaxSlippage:         decimal.RequireFromString("0.01"),
		MinProfitThreshold:  decimal.Zero,
		Thresholds:          domain.DefaultRiskThresholds(),
	})
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}
	// 75000 × 2 micro-native = 0.15 native × $3400 = $510
	if got := ev.GasCostUSD(); !got.Equal(decimal.NewFromInt(510)) {
		t.Errorf("GasCostUSD() = %s, want 510", got)
	}
}

func TestEvaluateProfitable(t *testing.T) {
	ev, err := NewEvaluator(testEvaluatorConfig())
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}

	// 6% spread on a $1000 trade: gross $60, gas $1, slippage cost
	// $1000 × 0.006 = $6, net $53, margin 5.3%.
	assessment, err := ev.Evaluate(oppWithProfit(t, "0.06"), decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if !assessment.Approved {
		t.Fatalf("assessment not approved: %s", assessment.Reason)
	}
	if !assessment.NetProfit.Equal(decimal.NewFromInt(53)) {
		t.Errorf("NetProfit = %s, want 53", assessment.NetProfit)
	}
	if !assessment.ProfitMargin.Equal(decimal.RequireFromString("0.053")) {
		t.Errorf("ProfitMargin = %s, want 0.053", assessment.ProfitMargin)
	}
	if !assessment.GasCostUSD.Equal(decimal.NewFromInt(1)) {
		t.Errorf("GasCostUSD = %s, want 1", assessment.GasCostUSD)
	}
	if assessment.RiskLevel != domain.RiskLow {
		t.Errorf("RiskLevel = %s, want low", assessment.RiskLevel)
	}
	if !strings.HasPrefix(assessment.Reason, "Profitable:") {
		t.Errorf("Reason = %q, want Profitable prefix", assessment.Reason)
	}
}

func TestEvaluateSlippageExceedsMaximum(t *testing.T) {
	cfg := testEvaluatorConfig()
	cfg.MaxSlippage = decimal.RequireFromString("0.005")
	ev, err := NewEvaluator(cfg)
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}

	// $1000 trade carries 0.6% slippage, over the 0.5% cap.
	assessment, err := ev.Evaluate(oppWithProfit(t, "0.06"), decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if assessment.Approved {
		t.Fatal("assessment approved despite excess slippage")
	}
	if assessment.RiskLevel != domain.RiskHigh {
		t.Errorf("RiskLevel = %s, want high", assessment.RiskLevel)
	}
	if !assessment.NetProfit.IsZero() {
		t.Errorf("NetProfit = %s, want 0 (profit never computed)", assessment.NetProfit)
	}
	want := "Slippage (0.60%) exceeds maximum (0.50%)"
	if assessment.Reason != want {
		t.Errorf("Reason = %q, want %q", assessment.Reason, want)
	}
}

func TestEvaluateMarginBelowThreshold(t *testing.T) {
	cfg := testEvaluatorConfig()
	cfg.MinProfitThreshold = decimal.RequireFromString("0.03")
	ev, err := NewEvaluator(cfg)
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}

	// 3% spread on $1000: gross $30, net $23, margin 2.3%, under 3%.
	assessment, err := ev.Evaluate(oppWithProfit(t, "0.03"), decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if assessment.Approved {
		t.Fatal("assessment approved below margin threshold")
	}
	want := "Profit margin (2.30%) below threshold (3.00%)"
	if assessment.Reason != want {
		t.Errorf("Reason = %q, want %q", assessment.Reason, want)
	}
	if assessment.RiskLevel != domain.RiskMedium {
		t.Errorf("RiskLevel = %s, want medium", assessment.RiskLevel)
	}
}

func TestEvaluateZeroNetNotApproved(t *testing.T) {
	cfg := testEvaluatorConfig()
	cfg.MinProfitThreshold = decimal.Zero
	ev, err := NewEvaluator(cfg)
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}

	// 0.7% spread on $1000: gross $7 exactly covers $1 gas + $6
	// slippage. Margin meets a zero threshold but net is not positive.
	assessment, err := ev.Evaluate(oppWithProfit(t, "0.007"), decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if assessment.Approved {
		t.Fatal("assessment approved with zero net profit")
	}
	if assessment.Reason != "Net profit is negative after costs" {
		t.Errorf("Reason = %q", assessment.Reason)
	}
}

func TestEvaluateInvalidTradeAmount(t *testing.T) {
	ev, err := NewEvaluator(testEvaluatorConfig())
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}

	for _, amount := range []string{"0", "-100"} {
		if _, err := ev.Evaluate(oppWithProfit(t, "0.06"), decimal.RequireFromString(amount)); err == nil {
			t.Errorf("Evaluate() with trade amount %s: expected error", amount)
		}
	}
}

func TestEvaluateDoesNotMutateOpportunity(t *testing.T) {
	ev, err := NewEvaluator(testEvaluatorConfig())
	if err != nil {
		t.Fatalf("NewEvaluator() error = %v", err)
	}

	opp := oppWithProfit(t, "0.06")
	status := opp.Status
	profit := opp.PotentialProfit

	if _, err := ev.Evaluate(opp, decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if opp.Status != status || !opp.PotentialProfit.Equal(profit) || opp.Assessment != nil {
		t.Error("evaluator mutated the opportunity")
	}
}
