// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Scanner   ScannerConfig   `mapstructure:"scanner"`
	Risk      RiskConfig      `mapstructure:"risk"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Execution ExecutionConfig `mapstructure:"execution"`
	Server    ServerConfig    `mapstructure:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// ScannerConfig holds opportunity scanner configuration.
type ScannerConfig struct {
	Pairs          []string      `mapstructure:"pairs"` // e.g. "WETH-USDC"
	ScanInterval   time.Duration `mapstructure:"scan_interval"`
	TradeAmountUSD float64       `mapstructure:"trade_amount_usd"`
	TUIMode        bool          `mapstructure:"-"` // Set at runtime, not from config file
}

// TradeAmountDecimal returns the trade amount as decimal.Decimal.
func (c *ScannerConfig) TradeAmountDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.TradeAmountUSD)
}

// RiskConfig holds risk evaluation configuration.
type RiskConfig struct {
	MinProfitUSD    float64       `mapstructure:"min_profit_usd"`
	MaxSlippagePct  float64       `mapstructure:"max_slippage_pct"`
	RequireApproval bool          `mapstructure:"require_approval"`
	ApprovalTimeout time.Duration `mapstructure:"approval_timeout"` // 0 waits forever
}

// MinProfitThreshold returns the minimum profit margin as a fraction
// (min_profit_usd is expressed in dollars per $100 traded).
func (c *RiskConfig) MinProfitThreshold() decimal.Decimal {
	return decimal.NewFromFloat(c.MinProfitUSD).Div(decimal.NewFromInt(100))
}

// MaxSlippage returns the slippage ceiling as a fraction.
func (c *RiskConfig) MaxSlippage() decimal.Decimal {
	return decimal.NewFromFloat(c.MaxSlippagePct).Div(decimal.NewFromInt(100))
}

// PricingConfig holds price source configuration.
type PricingConfig struct {
	CoinGeckoURL   string        `mapstructure:"coingecko_url"`
	DexScreenerURL string        `mapstructure:"dexscreener_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	RatePerSecond  float64       `mapstructure:"rate_per_second"`
}

// ExecutionConfig holds trade execution configuration.
type ExecutionConfig struct {
	Simulate          bool    `mapstructure:"simulate"`
	RPCURL            string  `mapstructure:"rpc_url"`
	PrivateKey        string  `mapstructure:"private_key"`
	GasUnits          int64   `mapstructure:"gas_units"`
	GasPriceGwei      float64 `mapstructure:"gas_price_gwei"`
	DeadlineSeconds   int64   `mapstructure:"deadline_seconds"`
	NativeTokenSymbol string  `mapstructure:"native_token_symbol"`
}

// ServerConfig holds the HTTP gateway configuration.
type ServerConfig struct {
	Port       int `mapstructure:"port"`
	HealthPort int `mapstructure:"health_port"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("AGENTS")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "AGENTS_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "AGENTS_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "AGENTS_LOG_LEVEL", "LOG_LEVEL")

	// Scanner
	v.BindEnv("scanner.pairs", "AGENTS_SCAN_PAIRS")
	v.BindEnv("scanner.scan_interval", "AGENTS_SCAN_INTERVAL")
	v.BindEnv("scanner.trade_amount_usd", "AGENTS_TRADE_AMOUNT_USD")

	// Risk
	v.BindEnv("risk.min_profit_usd", "AGENTS_MIN_PROFIT_USD", "MIN_PROFIT_USD")
	v.BindEnv("risk.max_slippage_pct", "AGENTS_MAX_SLIPPAGE_PCT", "MAX_SLIPPAGE_PCT")
	v.BindEnv("risk.require_approval", "AGENTS_REQUIRE_APPROVAL", "REQUIRE_APPROVAL")

	// Pricing
	v.BindEnv("pricing.coingecko_url", "AGENTS_COINGECKO_URL")
	v.BindEnv("pricing.dexscreener_url", "AGENTS_DEXSCREENER_URL")

	// Execution
	v.BindEnv("execution.simulate", "AGENTS_SIMULATE", "SIMULATION_MODE")
	v.BindEnv("execution.rpc_url", "AGENTS_RPC_URL", "RPC_URL")
	v.BindEnv("execution.private_key", "AGENTS_PRIVATE_KEY", "PRIVATE_KEY")
	v.BindEnv("execution.gas_price_gwei", "AGENTS_GAS_PRICE_GWEI", "GAS_PRICE_GWEI")

	// Server
	v.BindEnv("server.port", "AGENTS_PORT", "PORT")

	// Telemetry
	v.BindEnv("telemetry.enabled", "AGENTS_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "AGENTS_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "AGENTS_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "defi-agents")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Scanner defaults
	v.SetDefault("scanner.pairs", []string{"WETH-USDC", "ETH-USDT", "WBTC-DAI"})
	v.SetDefault("scanner.scan_interval", "30s")
	v.SetDefault("scanner.trade_amount_usd", 1000)

	// Risk defaults
	v.SetDefault("risk.min_profit_usd", 10)
	v.SetDefault("risk.max_slippage_pct", 0.5)
	v.SetDefault("risk.require_approval", true)
	v.SetDefault("risk.approval_timeout", "0s")

	// Pricing defaults
	v.SetDefault("pricing.coingecko_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("pricing.dexscreener_url", "https://api.dexscreener.com/latest/dex")
	v.SetDefault("pricing.request_timeout", "10s")
	v.SetDefault("pricing.cache_ttl", "30s")
	v.SetDefault("pricing.rate_per_second", 2)

	// Execution defaults
	v.SetDefault("execution.simulate", true)
	v.SetDefault("execution.gas_units", 75000)
	v.SetDefault("execution.gas_price_gwei", 0.1)
	v.SetDefault("execution.deadline_seconds", 1200)
	v.SetDefault("execution.native_token_symbol", "ETH")

	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.health_port", 8081)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "defi-agents")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Scanner.Pairs) == 0 {
		return fmt.Errorf("scanner.pairs cannot be empty")
	}
	if c.Scanner.ScanInterval < 5*time.Second || c.Scanner.ScanInterval > 300*time.Second {
		return fmt.Errorf("scanner.scan_interval must be between 5s and 300s, got %s", c.Scanner.ScanInterval)
	}
	if c.Scanner.TradeAmountUSD <= 0 {
		return fmt.Errorf("scanner.trade_amount_usd must be positive")
	}
	if c.Risk.MinProfitUSD < 0 {
		return fmt.Errorf("risk.min_profit_usd cannot be negative")
	}
	if c.Risk.MaxSlippagePct <= 0 || c.Risk.MaxSlippagePct > 10 {
		return fmt.Errorf("risk.max_slippage_pct must be in (0, 10], got %v", c.Risk.MaxSlippagePct)
	}
	if !c.Execution.Simulate && c.Execution.RPCURL == "" {
		return fmt.Errorf("execution.rpc_url is required when simulation is disabled")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port: %d", c.Server.Port)
	}
	return nil
}
