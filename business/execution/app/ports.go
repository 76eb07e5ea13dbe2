// Package app contains the trade executor and its port definitions.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Wallet abstracts the on-chain account used to settle trades. A nil
// wallet means the executor runs in pure simulation.
type Wallet interface {
	Address() common.Address
	Balance(ctx context.Context) (*big.Int, error)
	// SendTransfer submits a signed native transfer and waits for it
	// to be mined. Returns the transaction hash and gas used.
	SendTransfer(ctx context.Context, to common.Address, amountWei *big.Int) (string, int64, error)
}
