// Package ethereum implements the execution wallet on top of go-ethereum.
package ethereum

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/defi-agents/internal/apperror"
	"github.com/fd1az/defi-agents/internal/circuitbreaker"
	"github.com/fd1az/defi-agents/internal/logger"
)

const tracerName = "execution.wallet"

// WalletConfig holds configuration for the signing wallet.
type WalletConfig struct {
	PrivateKey string // hex, no 0x prefix
	GasLimit   uint64 // gas limit for native transfers
}

// Wallet signs and submits native transfers through an Ethereum node.
type Wallet struct {
	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	address common.Address
	config  WalletConfig
	logger  logger.LoggerInterface

	chainOnce sync.Once
	chainID   *big.Int
	chainErr  error

	cb     *circuitbreaker.CircuitBreaker[*big.Int]
	tracer trace.Tracer
}

// NewWallet derives the account from the configured private key.
func NewWallet(client *ethclient.Client, cfg WalletConfig, log logger.LoggerInterface) (*Wallet, error) {
	if cfg.PrivateKey == "" {
		return nil, apperror.New(apperror.CodeWalletNotConfigured,
			apperror.WithContext("private key is required for live execution"))
	}
	if cfg.GasLimit == 0 {
		cfg.GasLimit = 21000
	}

	key, err := crypto.HexToECDSA(cfg.PrivateKey)
	if err != nil {
		return nil, apperror.New(apperror.CodeWalletNotConfigured,
			apperror.WithCause(err),
			apperror.WithContext("invalid private key"))
	}

	return &Wallet{
		client:  client,
		key:     key,
		address: crypto.PubkeyToAddress(key.PublicKey),
		config:  cfg,
		logger:  log,
		cb:      circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("execution-wallet")),
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Address returns the wallet's account address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// Balance returns the native balance at the latest block.
func (w *Wallet) Balance(ctx context.Context) (*big.Int, error) {
	ctx, span := w.tracer.Start(ctx, "wallet.balance")
	defer span.End()

	balance, err := w.cb.Execute(func() (*big.Int, error) {
		return w.client.BalanceAt(ctx, w.address, nil)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "balance fetch failed")
		return nil, apperror.New(apperror.CodeExternalServiceError,
			apperror.WithCause(err),
			apperror.WithContext("failed to fetch wallet balance"))
	}

	span.SetStatus(codes.Ok, "fetched")
	return balance, nil
}

// SendTransfer signs a legacy native transfer, submits it, and waits
// for it to be mined.
func (w *Wallet) SendTransfer(ctx context.Context, to common.Address, amountWei *big.Int) (string, int64, error) {
	ctx, span := w.tracer.Start(ctx, "wallet.send_transfer",
		trace.WithAttributes(
			attribute.String("to", to.Hex()),
			attribute.String("wei", amountWei.String()),
		),
	)
	defer span.End()

	chainID, err := w.resolveChainID(ctx)
	if err != nil {
		return "", 0, err
	}

	nonce, err := w.client.PendingNonceAt(ctx, w.address)
	if err != nil {
		return "", 0, w.txError(span, err, "failed to fetch nonce")
	}

	gasPrice, err := w.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", 0, w.txError(span, err, "failed to fetch gas price")
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    amountWei,
		Gas:      w.config.GasLimit,
		GasPrice: gasPrice,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), w.key)
	if err != nil {
		return "", 0, w.txError(span, err, "failed to sign transaction")
	}

	if err := w.client.SendTransaction(ctx, signed); err != nil {
		return "", 0, w.txError(span, err, "failed to submit transaction")
	}

	w.logger.Info(ctx, "transfer submitted", "tx_hash", signed.Hash().Hex(), "nonce", nonce)

	receipt, err := bind.WaitMined(ctx, w.client, signed)
	if err != nil {
		return "", 0, w.txError(span, err, "failed waiting for receipt")
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		err := apperror.New(apperror.CodeTransactionFailed,
			apperror.WithContext(fmt.Sprintf("transaction %s reverted", signed.Hash().Hex())))
		span.RecordError(err)
		span.SetStatus(codes.Error, "reverted")
		return "", 0, err
	}

	span.SetAttributes(attribute.String("tx_hash", signed.Hash().Hex()))
	span.SetStatus(codes.Ok, "mined")

	return signed.Hash().Hex(), int64(receipt.GasUsed), nil
}

func (w *Wallet) resolveChainID(ctx context.Context) (*big.Int, error) {
	w.chainOnce.Do(func() {
		w.chainID, w.chainErr = w.client.ChainID(ctx)
	})
	if w.chainErr != nil {
		return nil, apperror.New(apperror.CodeExternalServiceError,
			apperror.WithCause(w.chainErr),
			apperror.WithContext("failed to resolve chain id"))
	}
	return w.chainID, nil
}

func (w *Wallet) txError(span trace.Span, cause error, context string) error {
	err := apperror.New(apperror.CodeTransactionFailed,
		apperror.WithCause(cause),
		apperror.WithContext(context))
	span.RecordError(err)
	span.SetStatus(codes.Error, context)
	return err
}
