// Package di provides dependency injection tokens for the gateway context.
package di

import (
	"github.com/fd1az/defi-agents/business/gateway/app"
	"github.com/fd1az/defi-agents/business/gateway/infra/ws"
	"github.com/fd1az/defi-agents/internal/di"
)

// Public tokens - accessible by other contexts
var (
	Server = di.NewToken[*app.Server]("gateway.Server")
	Hub    = di.NewToken[*ws.Hub]("gateway.Hub")
)

// GetServer retrieves the gateway HTTP server from the registry.
func GetServer(sr di.ServiceRegistry) *app.Server {
	return di.GetToken(sr, Server)
}

// GetHub retrieves the WebSocket hub from the registry.
func GetHub(sr di.ServiceRegistry) *ws.Hub {
	return di.GetToken(sr, Hub)
}
