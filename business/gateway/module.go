// Package gateway implements the gateway bounded context: the REST API
// and WebSocket feed that expose the pipeline to dashboards.
package gateway

import (
	"context"

	arbitrageDI "github.com/fd1az/defi-agents/business/arbitrage/di"
	"github.com/fd1az/defi-agents/business/gateway/app"
	gatewayDI "github.com/fd1az/defi-agents/business/gateway/di"
	"github.com/fd1az/defi-agents/business/gateway/infra/ws"
	"github.com/fd1az/defi-agents/internal/config"
	"github.com/fd1az/defi-agents/internal/di"
	"github.com/fd1az/defi-agents/internal/logger"
	"github.com/fd1az/defi-agents/internal/monolith"
)

// Module implements the gateway bounded context.
type Module struct {
	// Version is reported by the health endpoint.
	Version string
}

// RegisterServices registers all gateway services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, gatewayDI.Hub, func(sr di.ServiceRegistry) *ws.Hub {
		log := sr.Get("logger").(logger.LoggerInterface)
		return ws.NewHub(log)
	})

	di.RegisterToken(c, gatewayDI.Server, func(sr di.ServiceRegistry) *app.Server {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		return app.NewServer(app.ServerConfig{
			Port:    cfg.Server.Port,
			Version: m.Version,
		}, arbitrageDI.GetController(sr), gatewayDI.GetHub(sr), log)
	})

	return nil
}

// Startup starts the HTTP server.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	server := gatewayDI.GetServer(mono.Services())
	if err := server.Start(); err != nil {
		return err
	}

	mono.Logger().Info(ctx, "gateway module started", "port", mono.Config().Server.Port)
	return nil
}
