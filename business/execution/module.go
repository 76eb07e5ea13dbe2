// Package execution implements the execution bounded context: settling
// approved trades, simulated or live.
package execution

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/defi-agents/business/execution/app"
	executionDI "github.com/fd1az/defi-agents/business/execution/di"
	"github.com/fd1az/defi-agents/business/execution/infra/ethereum"
	"github.com/fd1az/defi-agents/internal/config"
	"github.com/fd1az/defi-agents/internal/di"
	"github.com/fd1az/defi-agents/internal/logger"
	"github.com/fd1az/defi-agents/internal/monolith"
)

// Module implements the execution bounded context.
type Module struct{}

// RegisterServices registers all execution services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, executionDI.Executor, func(sr di.ServiceRegistry) *app.TradeExecutor {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		executorCfg := app.DefaultExecutorConfig()
		executorCfg.Simulate = cfg.Execution.Simulate

		var wallet app.Wallet
		if !cfg.Execution.Simulate {
			client := sr.Get("ethClient").(*ethclient.Client)
			w, err := ethereum.NewWallet(client, ethereum.WalletConfig{
				PrivateKey: cfg.Execution.PrivateKey,
			}, log)
			if err != nil {
				panic("failed to create execution wallet: " + err.Error())
			}
			wallet = w
		}

		return app.NewTradeExecutor(executorCfg, wallet, log)
	})

	return nil
}

// Startup initializes the execution module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	executionDI.GetExecutor(mono.Services())

	mono.Logger().Info(ctx, "execution module started",
		"simulate", mono.Config().Execution.Simulate)
	return nil
}
