package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "defi-agents", Environment: "test", LogLevel: "info"},
		Scanner: ScannerConfig{
			Pairs:          []string{"WETH-USDC"},
			ScanInterval:   30 * time.Second,
			TradeAmountUSD: 1000,
		},
		Risk: RiskConfig{
			MinProfitUSD:   10,
			MaxSlippagePct: 0.5,
		},
		Execution: ExecutionConfig{Simulate: true, GasUnits: 75000, GasPriceGwei: 0.1},
		Server:    ServerConfig{Port: 3000, HealthPort: 8081},
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"no_pairs", func(c *Config) { c.Scanner.Pairs = nil }, true},
		{"interval_too_short", func(c *Config) { c.Scanner.ScanInterval = 4 * time.Second }, true},
		{"interval_too_long", func(c *Config) { c.Scanner.ScanInterval = 301 * time.Second }, true},
		{"interval_lower_boundary", func(c *Config) { c.Scanner.ScanInterval = 5 * time.Second }, false},
		{"interval_upper_boundary", func(c *Config) { c.Scanner.ScanInterval = 300 * time.Second }, false},
		{"zero_trade_amount", func(c *Config) { c.Scanner.TradeAmountUSD = 0 }, true},
		{"negative_min_profit", func(c *Config) { c.Risk.MinProfitUSD = -1 }, true},
		{"zero_min_profit_ok", func(c *Config) { c.Risk.MinProfitUSD = 0 }, false},
		{"zero_slippage", func(c *Config) { c.Risk.MaxSlippagePct = 0 }, true},
		{"slippage_above_ten", func(c *Config) { c.Risk.MaxSlippagePct = 10.5 }, true},
		{"live_mode_without_rpc", func(c *Config) { c.Execution.Simulate = false }, true},
		{"live_mode_with_rpc", func(c *Config) {
			c.Execution.Simulate = false
			c.Execution.RPCURL = "http://localhost:8545"
		}, false},
		{"invalid_port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port_out_of_range", func(c *Config) { c.Server.Port = 70000 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Name != "defi-agents" {
		t.Errorf("App.Name = %s, want defi-agents", cfg.App.Name)
	}
	if cfg.Scanner.ScanInterval != 30*time.Second {
		t.Errorf("ScanInterval = %s, want 30s", cfg.Scanner.ScanInterval)
	}
	if len(cfg.Scanner.Pairs) != 3 {
		t.Errorf("Pairs = %v, want 3 default pairs", cfg.Scanner.Pairs)
	}
	if !cfg.Execution.Simulate {
		t.Error("Execution.Simulate = false, want simulation by default")
	}
	if !cfg.Risk.RequireApproval {
		t.Error("Risk.RequireApproval = false, want manual approval by default")
	}
	if cfg.Risk.ApprovalTimeout != 0 {
		t.Errorf("ApprovalTimeout = %s, want 0 (wait forever)", cfg.Risk.ApprovalTimeout)
	}
	if cfg.Server.Port != 3000 || cfg.Server.HealthPort != 8081 {
		t.Errorf("server ports = %d/%d, want 3000/8081", cfg.Server.Port, cfg.Server.HealthPort)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AGENTS_MIN_PROFIT_USD", "25")
	t.Setenv("AGENTS_MAX_SLIPPAGE_PCT", "1.5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Risk.MinProfitUSD != 25 {
		t.Errorf("MinProfitUSD = %v, want 25", cfg.Risk.MinProfitUSD)
	}
	if cfg.Risk.MaxSlippagePct != 1.5 {
		t.Errorf("MaxSlippagePct = %v, want 1.5", cfg.Risk.MaxSlippagePct)
	}
}

func TestRiskConfigConversions(t *testing.T) {
	r := RiskConfig{MinProfitUSD: 2, MaxSlippagePct: 0.5}

	if !r.MinProfitThreshold().Equal(decimal.RequireFromString("0.02")) {
		t.Errorf("MinProfitThreshold() = %s, want 0.02", r.MinProfitThreshold())
	}
	if !r.MaxSlippage().Equal(decimal.RequireFromString("0.005")) {
		t.Errorf("MaxSlippage() = %s, want 0.005", r.MaxSlippage())
	}
}
