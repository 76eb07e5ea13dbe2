// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"

	"github.com/fd1az/defi-agents/business/pricing/domain"
)

// Source defines the interface for price providers. Implementations
// return an error when a pair cannot be priced; callers treat that as
// a soft failure and continue with the remaining pairs.
type Source interface {
	// FetchPrices returns a fresh observation for the pair.
	FetchPrices(ctx context.Context, pair domain.Pair) (*domain.PriceObservation, error)

	// Name identifies the source in logs and observation tags.
	Name() string
}
