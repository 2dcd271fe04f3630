package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	_ "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/clickhouse"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
)

type config struct {
	ClickhouseDSN string `long:"clickhouse-dsn" env:"CLAIM_CLICKHOUSE_DSN" default:"clickhouse://localhost:9000/default?x-multi-statement=true" description:"ClickHouse DSN of the attempt journal"`
	Dir           string `long:"dir" env:"CLAIM_MIGRATIONS_DIR" default:"migrations/clickhouse" description:"directory with the journal migrations"`
	Down          int    `long:"down" description:"roll back this many migrations instead of applying all pending ones"`
}

func main() {
	cfg := config{}
	if _, err := flags.Parse(&cfg); err != nil {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrateJournal(ctx, cfg, logger); err != nil {
		logger.Fatal("journal migration failed", zap.Error(err))
	}
}

func migrateJournal(ctx context.Context, cfg config, logger *zap.Logger) error {
	dir, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}
	if info, err := os.Stat(dir); err != nil {
		return fmt.Errorf("stat migrations dir: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), cfg.ClickhouseDSN)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("close migrate", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		m.GracefulStop <- true
	}()

	if cfg.Down > 0 {
		err = m.Steps(-cfg.Down)
	} else {
		err = m.Up()
	}
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("journal schema is up to date")
	case err != nil:
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("journal schema migrated", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
