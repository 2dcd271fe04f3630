package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/action"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/availability"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/chain/evm"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/metrics"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/notify"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/ownership"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/rootname"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/workflow"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	RPCURL        string        `long:"rpc-url" env:"CLAIM_RPC_URL" description:"Ethereum JSON-RPC URL" required:"true"`
	ChainID       uint64        `long:"chain-id" env:"CLAIM_CHAIN_ID" description:"chain id of the deployment"`
	Network       string        `long:"network" env:"CLAIM_NETWORK" description:"network name used when chain id is unset"`
	TokenAddress  string        `long:"token-address" env:"CLAIM_TOKEN_ADDRESS" description:"qualifying token contract" required:"true"`
	MapperAddress string        `long:"mapper-address" env:"CLAIM_MAPPER_ADDRESS" description:"ENS mapper contract" required:"true"`
	PrivateKey    string        `long:"private-key" env:"CLAIM_PRIVATE_KEY" description:"hex private key of the claiming wallet" required:"true"`
	RootName      string        `long:"root-name" env:"CLAIM_ROOT_NAME" description:"parent ENS name; read from the mapper when empty"`
	Label         string        `long:"label" description:"subname label to claim" required:"true"`
	TokenID       string        `long:"token-id" description:"token to claim with when the wallet holds several"`
	Timeout       time.Duration `long:"timeout" description:"give up waiting for the transaction after this long" default:"10m"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := claim(ctx, cfg, logger); err != nil {
		logger.Error("claim failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func claim(ctx context.Context, cfg config, logger *zap.Logger) error {
	network, _, err := model.ResolveNetwork(cfg.ChainID, cfg.Network)
	if err != nil {
		return err
	}
	var tokenID *model.TokenID
	if cfg.TokenID != "" {
		id, err := model.ParseTokenID(cfg.TokenID)
		if err != nil {
			return err
		}
		tokenID = &id
	}

	eth, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("dial rpc: %w", err)
	}
	defer eth.Close()

	wallet, err := evm.NewWallet(cfg.PrivateKey)
	if err != nil {
		return err
	}
	client, err := evm.NewClient(
		evm.NewObservedBackend(eth, metrics.NewChainClient(network.Name)),
		wallet,
		evm.Config{
			Network:       network,
			TokenAddress:  common.HexToAddress(cfg.TokenAddress),
			MapperAddress: common.HexToAddress(cfg.MapperAddress),
		},
		logger,
	)
	if err != nil {
		return err
	}

	root := cfg.RootName
	if root == "" {
		root = rootname.Resolve(ctx, client)
	}

	resolver, err := ownership.NewResolver(client, nil, metrics.NewOwnership(network.Name), logger)
	if err != nil {
		return err
	}
	checker, err := availability.NewPrechecker(client, metrics.NewAvailability(), logger)
	if err != nil {
		return err
	}
	controller, err := action.NewController(client, notify.NewLogger(logger), metrics.NewAttempts(), logger)
	if err != nil {
		return err
	}
	defer controller.Wait()

	engine, err := workflow.NewEngine(resolver, checker, controller, workflow.Config{Network: network, RootName: root}, logger)
	if err != nil {
		return err
	}
	defer engine.Close()

	engine.SetAccount(model.Account{Address: wallet.Address(), Connected: true, ChainID: network.ChainID})
	engine.SetLabel(cfg.Label)
	if msg := engine.BlurLabel(); msg != "" {
		return fmt.Errorf("label %q: %s", cfg.Label, msg)
	}
	if tokenID != nil {
		// the token must be selected before the verdict is computed for it
		engine.Wait()
		if _, err := engine.SelectToken(*tokenID); err != nil {
			return err
		}
	}
	engine.Wait()

	state := engine.State()
	logger.Info("claim checked",
		zap.String("name", state.FullName),
		zap.Uint64("owned", state.Ownership.Snapshot.OwnedCount),
		zap.String("availability", string(state.Availability.Kind)),
		zap.String("message", state.Availability.Message),
	)

	result := engine.Submit()
	switch result.Outcome {
	case workflow.OutcomeSubmitted:
	case workflow.OutcomeSelectionRequired:
		for _, c := range state.Ownership.Snapshot.Candidates {
			logger.Info("candidate token", zap.Stringer("id", c.ID), zap.String("name", c.Display.Name))
		}
		return errors.New("wallet holds several tokens, pass --token-id")
	default:
		return fmt.Errorf("claim not submitted: %s", result.Message)
	}

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	return awaitSettled(waitCtx, engine, network, logger)
}

func awaitSettled(ctx context.Context, engine *workflow.Engine, network model.Network, logger *zap.Logger) error {
	for {
		state := engine.State()
		if a := state.Attempt; a != nil && a.Status.Terminal() {
			if a.Status == model.AttemptFailed {
				return fmt.Errorf("transaction failed: %s", a.Error)
			}
			logger.Info("subname claimed", zap.String("name", state.FullName), zap.String("tx", network.TxURL(a.TxRef)))
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-engine.Changes():
		}
	}
}
