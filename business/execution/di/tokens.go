// Package di provides dependency injection tokens for the execution context.
package di

import (
	"github.com/fd1az/defi-agents/business/execution/app"
	"github.com/fd1az/defi-agents/internal/di"
)

// Public tokens - accessible by other contexts
var (
	Executor = di.NewToken[*app.TradeExecutor]("execution.Executor")
)

// GetExecutor retrieves the trade executor from the registry.
func GetExecutor(sr di.ServiceRegistry) *app.TradeExecutor {
	return di.GetToken(sr, Executor)
}
