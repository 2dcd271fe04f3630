// Package action submits mapper contract writes and tracks them to a terminal state.
package action

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultConfirmTimeout = 10 * time.Minute
	maxSettledAttempts    = 1024
)

var errAlreadyRunning = errors.New("attempt already running")

type record struct {
	attempt model.Attempt
	running bool
	// announced is the one-shot latch of this attempt; it flips once on the
	// first terminal transition and is never reset.
	announced bool
}

type outcome struct {
	receipt   model.Receipt
	submitErr error
	waitErr   error
}

// Controller owns every Attempt it creates. Each attempt carries its own
// notification latch so a retry always gets a fresh announcement.
type Controller struct {
	chain          Chain
	notifier       Notifier
	metrics        Metrics
	logger         *zap.Logger
	confirmTimeout time.Duration
	now            func() time.Time
	newID          func() uuid.UUID

	mu           sync.Mutex
	attempts     map[uuid.UUID]*record
	observers    map[int]func(model.Attempt)
	nextObserver int

	wg sync.WaitGroup
}

// NewController creates a Controller submitting through chain.
func NewController(chain Chain, notifier Notifier, metrics Metrics, logger *zap.Logger) (*Controller, error) {
	if chain == nil {
		return nil, errors.New("action chain is required")
	}
	if notifier == nil {
		return nil, errors.New("action notifier is required")
	}
	if metrics == nil {
		return nil, errors.New("action metrics is required")
	}
	return &Controller{
		chain:          chain,
		notifier:       notifier,
		metrics:        metrics,
		logger:         logger.Named("action"),
		confirmTimeout: defaultConfirmTimeout,
		now:            time.Now,
		newID:          uuid.New,
		attempts:       make(map[uuid.UUID]*record),
		observers:      make(map[int]func(model.Attempt)),
	}, nil
}

// Submit starts a fresh attempt for call and tracks it in the background.
func (c *Controller) Submit(ctx context.Context, call model.ContractCall) uuid.UUID {
	id := c.Begin(call)
	c.Start(ctx, id)
	return id
}

// Begin records a new attempt in WalletPending without sending anything.
func (c *Controller) Begin(call model.ContractCall) uuid.UUID {
	now := c.now()
	rec := &record{attempt: model.Attempt{
		ID:        c.newID(),
		Call:      call,
		Status:    model.AttemptWalletPending,
		CreatedAt: now,
		UpdatedAt: now,
	}}

	c.mu.Lock()
	c.prune()
	c.attempts[rec.attempt.ID] = rec
	snapshot := rec.attempt
	c.mu.Unlock()

	c.logger.Info("attempt started",
		zap.Stringer("attempt", snapshot.ID),
		zap.String("kind", string(call.Kind)),
		zap.String("label", call.Label),
		zap.Stringer("token", call.TokenID),
	)
	c.emit(snapshot)
	return snapshot.ID
}

// Start runs the attempt in a tracked goroutine. The run outlives ctx
// cancellation and is bounded by the confirmation timeout instead.
func (c *Controller) Start(ctx context.Context, id uuid.UUID) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.Run(ctx, id); err != nil {
			c.logger.Warn("attempt not run", zap.Stringer("attempt", id), zap.Error(err))
		}
	}()
}

// Run sends the attempt's call and waits for its receipt.
func (c *Controller) Run(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	rec, ok := c.attempts[id]
	if !ok {
		c.mu.Unlock()
		return model.ErrAttemptNotFound
	}
	if rec.running || rec.attempt.Status != model.AttemptWalletPending {
		c.mu.Unlock()
		return errAlreadyRunning
	}
	rec.running = true
	call := rec.attempt.Call
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.confirmTimeout)
	defer cancel()

	ref, err := c.chain.Submit(ctx, call)
	if err != nil {
		c.settle(ctx, id, outcome{submitErr: err})
		return nil
	}
	c.broadcast(id, ref)

	receipt, err := c.chain.AwaitReceipt(ctx, ref)
	c.settle(ctx, id, outcome{receipt: receipt, waitErr: err})
	return nil
}

// Attempt returns a copy of the attempt.
func (c *Controller) Attempt(id uuid.UUID) (model.Attempt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.attempts[id]
	if !ok {
		return model.Attempt{}, false
	}
	return rec.attempt, true
}

// Attempts returns every tracked attempt, newest first.
func (c *Controller) Attempts() []model.Attempt {
	c.mu.Lock()
	out := make([]model.Attempt, 0, len(c.attempts))
	for _, rec := range c.attempts {
		out = append(out, rec.attempt)
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Subscribe registers fn for every attempt transition. fn runs outside the
// controller lock and must not block.
func (c *Controller) Subscribe(fn func(model.Attempt)) (unsubscribe func()) {
	c.mu.Lock()
	key := c.nextObserver
	c.nextObserver++
	c.observers[key] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, key)
		c.mu.Unlock()
	}
}

// Wait blocks until every started attempt has settled.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) broadcast(id uuid.UUID, ref model.TxRef) {
	c.mu.Lock()
	rec, ok := c.attempts[id]
	if !ok || rec.attempt.Status != model.AttemptWalletPending {
		c.mu.Unlock()
		return
	}
	rec.attempt.Status = model.AttemptChainPending
	rec.attempt.TxRef = ref
	rec.attempt.UpdatedAt = c.now()
	snapshot := rec.attempt
	c.mu.Unlock()

	c.logger.Info("attempt broadcast", zap.Stringer("attempt", id), zap.String("tx", string(ref)))
	c.emit(snapshot)
}

// settle moves the attempt to its terminal state. Only the first call per
// attempt has any effect; later deliveries are dropped.
func (c *Controller) settle(ctx context.Context, id uuid.UUID, out outcome) {
	c.mu.Lock()
	rec, ok := c.attempts[id]
	if !ok || rec.announced {
		c.mu.Unlock()
		return
	}
	rec.announced = true

	var notification model.Notification
	switch {
	case out.submitErr != nil:
		rec.attempt.Status = model.AttemptFailed
		rec.attempt.Error = fmt.Sprintf("submit: %v", out.submitErr)
		notification = submitFailedNotification()
	case out.waitErr != nil:
		rec.attempt.Status = model.AttemptFailed
		rec.attempt.Error = fmt.Sprintf("await receipt: %v", out.waitErr)
		notification = receiptFailedNotification()
	case !out.receipt.Succeeded:
		rec.attempt.Status = model.AttemptFailed
		rec.attempt.Error = "transaction reverted"
		notification = receiptFailedNotification()
	default:
		rec.attempt.Status = model.AttemptConfirmed
		notification = successNotification(rec.attempt.Call.Kind)
	}
	if rec.attempt.TxRef == "" {
		rec.attempt.TxRef = out.receipt.TxRef
	}
	rec.attempt.UpdatedAt = c.now()
	snapshot := rec.attempt
	c.mu.Unlock()

	c.metrics.ObserveAttempt(snapshot.Call.Kind, snapshot.Status, snapshot.CreatedAt)
	c.logger.Info("attempt settled",
		zap.Stringer("attempt", id),
		zap.String("status", string(snapshot.Status)),
		zap.String("tx", string(snapshot.TxRef)),
		zap.String("error", snapshot.Error),
	)
	if err := c.notifier.Notify(ctx, notification); err != nil {
		c.logger.Warn("notification not delivered", zap.Stringer("attempt", id), zap.Error(err))
	}
	c.emit(snapshot)
}

func (c *Controller) emit(a model.Attempt) {
	c.mu.Lock()
	observers := make([]func(model.Attempt), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(a)
	}
}

// prune drops the oldest settled attempts once too many are retained. Callers hold c.mu.
func (c *Controller) prune() {
	if len(c.attempts) < maxSettledAttempts {
		return
	}
	settled := make([]*record, 0, len(c.attempts))
	for _, rec := range c.attempts {
		if rec.attempt.Status.Terminal() {
			settled = append(settled, rec)
		}
	}
	sort.Slice(settled, func(i, j int) bool {
		return settled[i].attempt.UpdatedAt.Before(settled[j].attempt.UpdatedAt)
	})
	for i := 0; i < len(settled) && len(c.attempts) >= maxSettledAttempts; i++ {
		delete(c.attempts, settled[i].attempt.ID)
	}
}
