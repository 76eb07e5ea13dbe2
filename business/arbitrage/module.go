// Package arbitrage implements the arbitrage bounded context: the
// opportunity lifecycle controller and its detection/risk pipeline.
package arbitrage

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fd1az/defi-agents/business/arbitrage/app"
	arbitrageDI "github.com/fd1az/defi-agents/business/arbitrage/di"
	"github.com/fd1az/defi-agents/business/arbitrage/domain"
	executionDI "github.com/fd1az/defi-agents/business/execution/di"
	pricingDI "github.com/fd1az/defi-agents/business/pricing/di"
	pricingDomain "github.com/fd1az/defi-agents/business/pricing/domain"
	"github.com/fd1az/defi-agents/internal/config"
	"github.com/fd1az/defi-agents/internal/di"
	"github.com/fd1az/defi-agents/internal/logger"
	"github.com/fd1az/defi-agents/internal/monolith"
	"github.com/fd1az/defi-agents/internal/token"
)

// Module implements the arbitrage bounded context.
type Module struct{}

// RegisterServices registers all arbitrage services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, arbitrageDI.Controller, func(sr di.ServiceRegistry) *app.Controller {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		registry := sr.Get("tokenRegistry").(*token.Registry)

		pairs, err := parsePairs(cfg.Scanner.Pairs, registry)
		if err != nil {
			panic("invalid scanner pairs: " + err.Error())
		}

		sink := sr.Get("eventSink").(app.EventSink)

		controllerCfg := app.ControllerConfig{
			Pairs: pairs,
			Settings: app.Settings{
				ScanInterval:    cfg.Scanner.ScanInterval,
				TradeAmountUSD:  cfg.Scanner.TradeAmountDecimal(),
				MinProfitUSD:    decimal.NewFromFloat(cfg.Risk.MinProfitUSD),
				MaxSlippage:     cfg.Risk.MaxSlippage(),
				RequireApproval: cfg.Risk.RequireApproval,
				ApprovalTimeout: cfg.Risk.ApprovalTimeout,
			},
			GasUnits:            cfg.Execution.GasUnits,
			GasPrice:            decimal.NewFromFloat(cfg.Execution.GasPriceGwei),
			NativeTokenPriceUSD: nativeTokenPrice(cfg, registry),
			Thresholds:          domain.DefaultRiskThresholds(),
			AssessmentDelay:     2 * time.Second,
			ExecutionDelay:      time.Second,
		}

		return app.NewController(
			controllerCfg,
			pricingDI.GetPricingService(sr),
			executionDI.GetExecutor(sr),
			sink,
			log,
		)
	})

	return nil
}

// Startup launches the controller's command loop. The loop lives for
// the whole process so results of in-flight executions are applied
// even after scanning stops.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	controller := arbitrageDI.GetController(mono.Services())
	go controller.Run(ctx)

	mono.Logger().Info(ctx, "arbitrage module started")
	return nil
}

// parsePairs resolves "WETH-USDC" style specs against the registry.
func parsePairs(specs []string, registry *token.Registry) ([]pricingDomain.Pair, error) {
	pairs := make([]pricingDomain.Pair, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, "-", 2)
		if len(parts) != 2 {
			return nil, &pairSpecError{spec}
		}
		tokenA, okA := registry.Get(parts[0])
		tokenB, okB := registry.Get(parts[1])
		if !okA || !okB {
			return nil, &pairSpecError{spec}
		}
		pairs = append(pairs, pricingDomain.NewPair(tokenA, tokenB))
	}
	return pairs, nil
}

type pairSpecError struct{ spec string }

func (e *pairSpecError) Error() string {
	return "unrecognized pair spec " + e.spec
}

// nativeTokenPrice resolves a static USD anchor for gas conversion.
// The risk model needs a representative figure, not a live feed.
func nativeTokenPrice(cfg *config.Config, registry *token.Registry) decimal.Decimal {
	if _, ok := registry.Get(cfg.Execution.NativeTokenSymbol); ok {
		switch strings.ToUpper(cfg.Execution.NativeTokenSymbol) {
		case "ETH", "WETH":
			return decimal.NewFromInt(3400)
		case "WBTC":
			return decimal.NewFromInt(64000)
		}
	}
	return decimal.NewFromInt(1)
}
