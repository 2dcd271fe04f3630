package evm

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ObservedBackend records metrics for every JSON-RPC call of the wrapped backend.
type ObservedBackend struct {
	backend Backend
	metrics BackendMetrics
}

// NewObservedBackend wraps backend so every call is observed by metrics.
func NewObservedBackend(backend Backend, metrics BackendMetrics) *ObservedBackend {
	return &ObservedBackend{
		backend: backend,
		metrics: metrics,
	}
}

func (b *ObservedBackend) ChainID(ctx context.Context) (id *big.Int, err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("chain_id", err, started)
	}()
	return b.backend.ChainID(ctx)
}

func (b *ObservedBackend) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) (out []byte, err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("call_contract", err, started)
	}()
	return b.backend.CallContract(ctx, call, blockNumber)
}

func (b *ObservedBackend) PendingNonceAt(ctx context.Context, account common.Address) (nonce uint64, err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("pending_nonce_at", err, started)
	}()
	return b.backend.PendingNonceAt(ctx, account)
}

func (b *ObservedBackend) SuggestGasPrice(ctx context.Context) (price *big.Int, err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("suggest_gas_price", err, started)
	}()
	return b.backend.SuggestGasPrice(ctx)
}

func (b *ObservedBackend) EstimateGas(ctx context.Context, call ethereum.CallMsg) (gas uint64, err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("estimate_gas", err, started)
	}()
	return b.backend.EstimateGas(ctx, call)
}

func (b *ObservedBackend) SendTransaction(ctx context.Context, tx *types.Transaction) (err error) {
	started := time.Now()
	defer func() {
		b.metrics.Observe("send_transaction", err, started)
	}()
	return b.backend.SendTransaction(ctx, tx)
}

func (b *ObservedBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (receipt *types.Receipt, err error) {
	started := time.Now()
	defer func() {
		observed := err
		if errors.Is(err, ethereum.NotFound) {
			observed = nil
		}
		b.metrics.Observe("transaction_receipt", observed, started)
	}()
	return b.backend.TransactionReceipt(ctx, txHash)
}
