// Package clickhouse stores the claim attempt journal.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

const (
	defaultDialTimeout  = 10 * time.Second
	defaultMaxOpenConns = 4
)

// Repository reads and appends claim_attempt_events rows. Every call is observed.
type Repository struct {
	conn    Conn
	metrics Metrics
}

// NewRepository opens a connection pool for dsn. The connection is established lazily.
func NewRepository(dsn string, metrics Metrics) (*Repository, error) {
	if dsn == "" {
		return nil, errors.New("clickhouse dsn is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}

	options, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	if options.DialTimeout == 0 {
		options.DialTimeout = defaultDialTimeout
	}
	// journal writes are small and periodic
	options.MaxOpenConns = defaultMaxOpenConns
	if options.Compression == nil {
		options.Compression = &clickhouse.Compression{Method: clickhouse.CompressionLZ4}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open journal connection: %w", err)
	}

	return &Repository{conn: conn, metrics: metrics}, nil
}

// Ping checks the connection.
func (r *Repository) Ping(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("ping", err, start)
	}()

	if err = r.conn.Ping(ctx); err != nil {
		return fmt.Errorf("ping clickhouse: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.conn.Close()
}
