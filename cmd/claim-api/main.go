package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/action"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/availability"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/chain/evm"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/journal"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/metadata"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/metrics"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/notify"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/ownership"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/repository/clickhouse"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/rootname"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/subnames"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/transport"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/workflow"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	Addr          string        `long:"addr" env:"CLAIM_ADDR" description:"HTTP API address" default:":8080"`
	RPCURL        string        `long:"rpc-url" env:"CLAIM_RPC_URL" description:"Ethereum JSON-RPC URL" required:"true"`
	ChainID       uint64        `long:"chain-id" env:"CLAIM_CHAIN_ID" description:"chain id of the deployment"`
	Network       string        `long:"network" env:"CLAIM_NETWORK" description:"network name (ethereum, mainnet, sepolia) used when chain id is unset"`
	TokenAddress  string        `long:"token-address" env:"CLAIM_TOKEN_ADDRESS" description:"qualifying token contract" required:"true"`
	MapperAddress string        `long:"mapper-address" env:"CLAIM_MAPPER_ADDRESS" description:"ENS mapper contract" required:"true"`
	PrivateKey    string        `long:"private-key" env:"CLAIM_PRIVATE_KEY" description:"hex private key of the signing wallet" required:"true"`
	RootName      string        `long:"root-name" env:"CLAIM_ROOT_NAME" description:"parent ENS name; read from the mapper when empty"`
	ClickhouseDSN string        `long:"clickhouse-dsn" env:"CLAIM_CLICKHOUSE_DSN" description:"ClickHouse DSN for the attempt journal; disabled when empty"`
	NatsURL       string        `long:"nats-url" env:"CLAIM_NATS_URL" description:"NATS URL for notifications; disabled when empty"`
	NatsSubject   string        `long:"nats-subject" env:"CLAIM_NATS_SUBJECT" description:"NATS subject prefix" default:"subnameclaim.notification"`
	SubgraphURL   string        `long:"subgraph-url" env:"CLAIM_SUBGRAPH_URL" description:"token subgraph GraphQL endpoint"`
	IPFSGateway   string        `long:"ipfs-gateway" env:"CLAIM_IPFS_GATEWAY" description:"gateway for ipfs:// token metadata" default:"https://cloudflare-ipfs.com/ipfs/"`
	MetadataRPS   int           `long:"metadata-rps" env:"CLAIM_METADATA_RPS" description:"max token metadata fetches per second, 0 for unlimited" default:"10"`
	SessionTTL    time.Duration `long:"session-ttl" env:"CLAIM_SESSION_TTL" description:"idle time before a session is closed" default:"30m"`
	CORSOrigins   []string      `long:"cors-origin" env:"CLAIM_CORS_ORIGINS" env-delim:"," description:"allowed CORS origins; any origin when empty"`
	LogJSON       bool          `long:"log-json" env:"CLAIM_LOG_JSON" description:"log in JSON"`
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

	logger, err := newLogger(cfg.LogJSON)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("claim api failed", zap.Error(err))
	}
}

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	network, defaulted, err := model.ResolveNetwork(cfg.ChainID, cfg.Network)
	if err != nil {
		return err
	}
	if defaulted {
		logger.Warn("no network configured, using default", zap.Stringer("network", network))
	}
	for name, addr := range map[string]string{"token": cfg.TokenAddress, "mapper": cfg.MapperAddress} {
		if !common.IsHexAddress(addr) {
			return fmt.Errorf("invalid %s address %q", name, addr)
		}
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
		return fmt.Errorf("init chain client: %w", err)
	}

	root := cfg.RootName
	if root == "" {
		root = rootname.Resolve(ctx, client)
	}
	logger.Info("claim api configured",
		zap.Stringer("network", network),
		zap.String("root", root),
		zap.String("signer", wallet.Address().Hex()),
	)

	sources, err := metadataSources(client, cfg, logger)
	if err != nil {
		return err
	}

	var ownershipEnricher ownership.Enricher
	var subnamesEnricher subnames.Enricher
	if len(sources) > 0 {
		ownershipEnricher = sources
		subnamesEnricher = sources
	}

	resolver, err := ownership.NewResolver(client, ownershipEnricher, metrics.NewOwnership(network.Name), logger)
	if err != nil {
		return err
	}
	checker, err := availability.NewPrechecker(client, metrics.NewAvailability(), logger)
	if err != nil {
		return err
	}

	notifier := notify.Multi{notify.NewLogger(logger)}
	if cfg.NatsURL != "" {
		conn, err := notify.Connect(cfg.NatsURL, "claim-api", logger)
		if err != nil {
			return err
		}
		defer conn.Close()
		publisher, err := notify.NewPublisher(conn, cfg.NatsSubject)
		if err != nil {
			return err
		}
		notifier = append(notifier, publisher)
	}

	controller, err := action.NewController(client, notifier, metrics.NewAttempts(), logger)
	if err != nil {
		return err
	}
	unsubscribe := controller.Subscribe(func(a model.Attempt) {
		if a.Status == model.AttemptConfirmed {
			checker.Forget(a.Call)
		}
	})
	defer unsubscribe()

	deps := transport.Deps{
		Attempts: controller,
		Metrics:  metrics.NewHTTP(),
	}

	if cfg.ClickhouseDSN != "" {
		repo, err := clickhouse.NewRepository(cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
		if err != nil {
			return fmt.Errorf("init attempt journal repository: %w", err)
		}
		defer func() {
			if err := repo.Close(); err != nil {
				logger.Warn("close clickhouse", zap.Error(err))
			}
		}()
		j, err := journal.NewJournal(repo, metrics.NewJournal(), journal.Config{
			Account: wallet.Address(),
			ChainID: network.ChainID,
		}, logger)
		if err != nil {
			return err
		}
		j.Start(ctx, controller)
		defer j.Stop()

		deps.Events = repo
		deps.Health = append(deps.Health, repo)
	}

	// in-flight attempts settle before the journal drains
	defer controller.Wait()

	lister, err := subnames.NewLister(client, subnamesEnricher, controller, logger)
	if err != nil {
		return err
	}
	deps.Subnames = lister

	engineCfg := workflow.Config{Network: network, RootName: root}
	sessions, err := transport.NewSessions(func(account model.Account) (transport.Workflow, error) {
		// the engine simulates from the account, the controller signs with the wallet
		if account.Address != wallet.Address() {
			return nil, model.ErrSignerMismatch
		}
		engine, err := workflow.NewEngine(resolver, checker, controller, engineCfg, logger)
		if err != nil {
			return nil, err
		}
		engine.SetAccount(account)
		return engine, nil
	}, cfg.SessionTTL, logger)
	if err != nil {
		return err
	}
	go sessions.Run(ctx, time.Minute)
	deps.Sessions = sessions

	handler, err := transport.NewHandler(deps, transport.Config{
		Signer:         wallet.Address(),
		AllowedOrigins: cfg.CORSOrigins,
	}, logger)
	if err != nil {
		return err
	}

	return serve(ctx, cfg.Addr, handler.Router(), logger)
}

func metadataSources(client *evm.Client, cfg config, logger *zap.Logger) (metadata.Chain, error) {
	var sources metadata.Chain
	if cfg.SubgraphURL != "" {
		sg, err := metadata.NewSubgraph(cfg.SubgraphURL, 0, logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, sg)
	}
	fetcher, err := metadata.NewTokenURIFetcher(client, metadata.TokenURIConfig{
		Gateway: cfg.IPFSGateway,
		RPS:     cfg.MetadataRPS,
	}, logger)
	if err != nil {
		return nil, err
	}
	return append(sources, fetcher), nil
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("starting http server", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}
