// Package di contains dependency injection tokens for the arbitrage context.
package di

import (
	"github.com/fd1az/defi-agents/business/arbitrage/app"
	"github.com/fd1az/defi-agents/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Controller = di.NewToken[*app.Controller]("arbitrage.Controller")
)

// Helper functions for type-safe access
func GetController(c di.ServiceRegistry) *app.Controller {
	return di.GetToken(c, Controller)
}
