// Package evm talks to the token and subname mapper contracts over JSON-RPC.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/clock"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/goodnatureofminers/subnameclaim-backend/pkg/safe"
	"go.uber.org/zap"
)

const (
	defaultReceiptPollInterval = 2 * time.Second
	defaultMaxReceiptErrors    = 5
)

// Config binds a Client to one network and its contract deployments.
type Config struct {
	Network             model.Network
	TokenAddress        common.Address
	MapperAddress       common.Address
	ReceiptPollInterval time.Duration
	MaxReceiptErrors    int
}

// Client reads and writes the claim contracts on a single configured network.
// Every call first checks that the backend serves that network.
type Client struct {
	backend          Backend
	signer           Signer
	network          model.Network
	token            common.Address
	mapper           common.Address
	tokenABI         abi.ABI
	mapperABI        abi.ABI
	pollInterval     time.Duration
	maxReceiptErrors int
	sleep            func(context.Context, time.Duration) error
	logger           *zap.Logger

	chainMu       sync.Mutex
	chainVerified bool
}

// NewClient builds a Client. signer may be nil for read-only use.
func NewClient(backend Backend, signer Signer, cfg Config, logger *zap.Logger) (*Client, error) {
	if backend == nil {
		return nil, errors.New("chain backend is required")
	}
	if cfg.Network.ChainID == 0 {
		return nil, errors.New("network chain id is required")
	}
	if cfg.TokenAddress == (common.Address{}) || cfg.MapperAddress == (common.Address{}) {
		return nil, errors.New("token and mapper addresses are required")
	}

	tokenContract, err := abi.JSON(strings.NewReader(tokenABI))
	if err != nil {
		return nil, fmt.Errorf("parse token abi: %w", err)
	}
	mapperContract, err := abi.JSON(strings.NewReader(mapperABI))
	if err != nil {
		return nil, fmt.Errorf("parse mapper abi: %w", err)
	}

	if cfg.ReceiptPollInterval <= 0 {
		cfg.ReceiptPollInterval = defaultReceiptPollInterval
	}
	if cfg.MaxReceiptErrors <= 0 {
		cfg.MaxReceiptErrors = defaultMaxReceiptErrors
	}

	return &Client{
		backend:          backend,
		signer:           signer,
		network:          cfg.Network,
		token:            cfg.TokenAddress,
		mapper:           cfg.MapperAddress,
		tokenABI:         tokenContract,
		mapperABI:        mapperContract,
		pollInterval:     cfg.ReceiptPollInterval,
		maxReceiptErrors: cfg.MaxReceiptErrors,
		sleep:            clock.SleepWithContext,
		logger: logger.With(
			zap.String("network", cfg.Network.Name),
			zap.String("mapper", cfg.MapperAddress.Hex()),
		),
	}, nil
}

// Network returns the network the client is bound to.
func (c *Client) Network() model.Network {
	return c.network
}

// SignerAddress returns the address transactions are sent from.
func (c *Client) SignerAddress() (common.Address, bool) {
	if c.signer == nil {
		return common.Address{}, false
	}
	return c.signer.Address(), true
}

// ReadOwnedCount returns the collection balance of owner.
func (c *Client) ReadOwnedCount(ctx context.Context, owner common.Address) (uint64, error) {
	out, err := c.call(ctx, c.token, c.tokenABI, "balanceOf", owner)
	if err != nil {
		return 0, err
	}
	return bigResult(out)
}

// ReadTokenAt returns the owner's token at index.
func (c *Client) ReadTokenAt(ctx context.Context, owner common.Address, index uint64) (model.TokenID, error) {
	out, err := c.call(ctx, c.token, c.tokenABI, "tokenOfOwnerByIndex", owner, safe.BigFromUint64(index))
	if err != nil {
		return 0, err
	}
	id, err := bigResult(out)
	if err != nil {
		return 0, err
	}
	return model.TokenID(id), nil
}

// TokenURI returns the metadata URI of a token.
func (c *Client) TokenURI(ctx context.Context, id model.TokenID) (string, error) {
	out, err := c.call(ctx, c.token, c.tokenABI, "tokenURI", safe.BigFromUint64(uint64(id)))
	if err != nil {
		return "", err
	}
	return stringResult(out)
}

// NameOf returns the subname bound to a token, or "".
func (c *Client) NameOf(ctx context.Context, id model.TokenID) (string, error) {
	out, err := c.call(ctx, c.mapper, c.mapperABI, "ensNameOf", safe.BigFromUint64(uint64(id)))
	if err != nil {
		return "", err
	}
	return stringResult(out)
}

// NodeOf returns the ENS node bound to a token.
func (c *Client) NodeOf(ctx context.Context, id model.TokenID) (common.Hash, error) {
	out, err := c.call(ctx, c.mapper, c.mapperABI, "ensNodeOf", safe.BigFromUint64(uint64(id)))
	if err != nil {
		return common.Hash{}, err
	}
	return hashResult(out)
}

// IsLegacyNode reports whether node was created before the mapper took over.
func (c *Client) IsLegacyNode(ctx context.Context, node common.Hash) (bool, error) {
	out, err := c.call(ctx, c.mapper, c.mapperABI, "isLegacyNode", [32]byte(node))
	if err != nil {
		return false, err
	}
	if len(out) != 1 {
		return false, fmt.Errorf("unexpected isLegacyNode result length %d", len(out))
	}
	v, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected isLegacyNode result type %T", out[0])
	}
	return v, nil
}

// RootNode returns the parent ENS node of all subnames.
func (c *Client) RootNode(ctx context.Context) (common.Hash, error) {
	out, err := c.call(ctx, c.mapper, c.mapperABI, "rootNode")
	if err != nil {
		return common.Hash{}, err
	}
	return hashResult(out)
}

// RootLabel returns the label of the parent domain.
func (c *Client) RootLabel(ctx context.Context) (string, error) {
	out, err := c.call(ctx, c.mapper, c.mapperABI, "rootLabel")
	if err != nil {
		return "", err
	}
	return stringResult(out)
}

// NameOfNode returns the decoded name of an ENS node.
func (c *Client) NameOfNode(ctx context.Context, node common.Hash) (string, error) {
	out, err := c.call(ctx, c.mapper, c.mapperABI, "name", [32]byte(node))
	if err != nil {
		return "", err
	}
	return stringResult(out)
}

// Simulate executes call as from without sending a transaction.
// A rejected call returns a *model.RevertError.
func (c *Client) Simulate(ctx context.Context, from common.Address, call model.ContractCall) error {
	if err := c.ensureNetwork(ctx); err != nil {
		return err
	}
	data, err := c.packCall(call)
	if err != nil {
		return err
	}
	_, err = c.backend.CallContract(ctx, ethereum.CallMsg{From: from, To: &c.mapper, Data: data}, nil)
	if err != nil {
		return decodeRevert(err, c.mapperABI)
	}
	return nil
}

// Submit signs and broadcasts call from the configured signer.
func (c *Client) Submit(ctx context.Context, call model.ContractCall) (model.TxRef, error) {
	if c.signer == nil {
		return "", model.ErrNoSigner
	}
	if err := c.ensureNetwork(ctx); err != nil {
		return "", err
	}
	data, err := c.packCall(call)
	if err != nil {
		return "", err
	}

	from := c.signer.Address()
	nonce, err := c.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return "", fmt.Errorf("get nonce: %w", err)
	}
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("suggest gas price: %w", err)
	}
	gas, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &c.mapper, Data: data})
	if err != nil {
		return "", fmt.Errorf("estimate gas: %w", decodeRevert(err, c.mapperABI))
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.mapper,
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := c.signer.SignTx(tx, safe.BigFromUint64(c.network.ChainID))
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}
	if err = c.backend.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	ref := model.TxRef(signed.Hash().Hex())
	c.logger.Info("transaction sent",
		zap.String("kind", string(call.Kind)),
		zap.String("tx", string(ref)),
		zap.Uint64("nonce", nonce),
		zap.Uint64("gas", gas),
	)
	return ref, nil
}

// AwaitReceipt polls until the transaction is mined, the context ends, or
// too many consecutive lookups fail.
func (c *Client) AwaitReceipt(ctx context.Context, ref model.TxRef) (model.Receipt, error) {
	hash := common.HexToHash(string(ref))
	failures := 0
	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		switch {
		case err == nil:
			out := model.Receipt{TxRef: ref, Succeeded: receipt.Status == types.ReceiptStatusSuccessful}
			if receipt.BlockNumber != nil {
				out.BlockNumber = receipt.BlockNumber.Uint64()
			}
			return out, nil
		case errors.Is(err, ethereum.NotFound):
			failures = 0
		default:
			failures++
			c.logger.Warn("receipt lookup failed", zap.String("tx", string(ref)), zap.Int("failures", failures), zap.Error(err))
			if failures >= c.maxReceiptErrors {
				return model.Receipt{}, fmt.Errorf("await receipt %s: %w", ref, err)
			}
		}

		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return model.Receipt{}, fmt.Errorf("await receipt %s: %w", ref, err)
		}
	}
}

func (c *Client) packCall(call model.ContractCall) ([]byte, error) {
	id := safe.BigFromUint64(uint64(call.TokenID))
	var (
		data []byte
		err  error
	)
	switch call.Kind {
	case model.ActionClaim:
		data, err = c.mapperABI.Pack("claimSubname", call.Label, id)
	case model.ActionMigrate:
		data, err = c.mapperABI.Pack("migrateLegacySubname", id)
	case model.ActionRelease:
		data, err = c.mapperABI.Pack("releaseLegacySubname", id)
	case model.ActionRelinquish:
		data, err = c.mapperABI.Pack("relinquishSubname", id)
	default:
		return nil, fmt.Errorf("unsupported action %q", call.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("pack %s call: %w", call.Kind, err)
	}
	return data, nil
}

func (c *Client) call(ctx context.Context, to common.Address, contract abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if err := c.ensureNetwork(ctx); err != nil {
		return nil, err
	}
	data, err := contract.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	raw, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, decodeRevert(err, contract))
	}
	out, err := contract.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return out, nil
}

func (c *Client) ensureNetwork(ctx context.Context) error {
	c.chainMu.Lock()
	defer c.chainMu.Unlock()
	if c.chainVerified {
		return nil
	}

	id, err := c.backend.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	if !id.IsUint64() || id.Uint64() != c.network.ChainID {
		return fmt.Errorf("%w: node serves chain %s, expected %d", model.ErrWrongNetwork, id, c.network.ChainID)
	}
	c.chainVerified = true
	return nil
}

func bigResult(out []interface{}) (uint64, error) {
	if len(out) != 1 {
		return 0, fmt.Errorf("unexpected result length %d", len(out))
	}
	v, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("unexpected result type %T", out[0])
	}
	return safe.BigUint64(v)
}

func stringResult(out []interface{}) (string, error) {
	if len(out) != 1 {
		return "", fmt.Errorf("unexpected result length %d", len(out))
	}
	v, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("unexpected result type %T", out[0])
	}
	return v, nil
}

func hashResult(out []interface{}) (common.Hash, error) {
	if len(out) != 1 {
		return common.Hash{}, fmt.Errorf("unexpected result length %d", len(out))
	}
	v, ok := out[0].([32]byte)
	if !ok {
		return common.Hash{}, fmt.Errorf("unexpected result type %T", out[0])
	}
	return common.Hash(v), nil
}
