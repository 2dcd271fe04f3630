// Package journal appends every attempt transition to the attempt event store.
package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/goodnatureofminers/subnameclaim-backend/pkg/batcher"
	"go.uber.org/zap"
)

// Config identifies the signer and sizes the write batches.
type Config struct {
	Account common.Address
	ChainID uint64
	Batch   batcher.Config
}

// DefaultBatch flushes every second or every 100 events.
var DefaultBatch = batcher.Config{Size: 100, Interval: time.Second, RPS: 10}

// Journal records attempts without ever blocking the emitter. Events that do not fit
// the queue are dropped and counted.
type Journal struct {
	store   Store
	metrics Metrics
	logger  *zap.Logger
	cfg     Config
	batcher *batcher.Batcher[model.AttemptEvent]

	mu          sync.Mutex
	unsubscribe func()
}

// NewJournal creates a Journal writing to store. Start must be called before events are recorded.
func NewJournal(store Store, metrics Metrics, cfg Config, logger *zap.Logger) (*Journal, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Batch.Size == 0 {
		cfg.Batch = DefaultBatch
	}

	j := &Journal{
		store:   store,
		metrics: metrics,
		logger:  logger.Named("journal"),
		cfg:     cfg,
	}
	b, err := batcher.New(j.logger, j.flush, cfg.Batch)
	if err != nil {
		return nil, fmt.Errorf("attempt journal batcher: %w", err)
	}
	j.batcher = b
	return j, nil
}

// Start subscribes to src and begins flushing.
func (j *Journal) Start(ctx context.Context, src Source) {
	j.batcher.Start(ctx)

	j.mu.Lock()
	defer j.mu.Unlock()
	if src != nil && j.unsubscribe == nil {
		j.unsubscribe = src.Subscribe(j.Record)
	}
}

// Stop unsubscribes and flushes what is still queued.
func (j *Journal) Stop() {
	j.mu.Lock()
	if j.unsubscribe != nil {
		j.unsubscribe()
		j.unsubscribe = nil
	}
	j.mu.Unlock()

	j.batcher.Stop()
}

// Record queues one transition.
func (j *Journal) Record(a model.Attempt) {
	if j.batcher.TryAdd(j.event(a)) {
		return
	}
	j.metrics.ObserveDropped()
	j.logger.Warn("attempt event dropped",
		zap.String("attempt", a.ID.String()),
		zap.String("status", string(a.Status)),
	)
}

func (j *Journal) event(a model.Attempt) model.AttemptEvent {
	at := a.UpdatedAt
	if at.IsZero() {
		at = time.Now()
	}
	return model.AttemptEvent{
		AttemptID:  a.ID.String(),
		Account:    j.cfg.Account.Hex(),
		ChainID:    j.cfg.ChainID,
		Kind:       a.Call.Kind,
		Label:      a.Call.Label,
		TokenID:    a.Call.TokenID,
		Status:     a.Status,
		TxRef:      a.TxRef,
		Error:      a.Error,
		OccurredAt: at,
	}
}

func (j *Journal) flush(ctx context.Context, events []model.AttemptEvent) error {
	err := j.store.InsertAttemptEvents(ctx, events)
	j.metrics.ObserveFlush(err, len(events))
	if err != nil {
		return fmt.Errorf("insert %d attempt events: %w", len(events), err)
	}
	return nil
}
