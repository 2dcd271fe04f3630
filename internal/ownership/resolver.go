// Package ownership resolves which qualifying tokens an account holds.
package ownership

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/goodnatureofminers/subnameclaim-backend/pkg/workerpool"
	"go.uber.org/zap"
)

const (
	defaultWorkerCount   = 8
	defaultEnrichTimeout = 3 * time.Second
	defaultEnrichBudget  = 5 * time.Second
	defaultMaxTokens     = 1000
)

// ErrTooManyTokens is returned when the balance exceeds what a resolve pass reads.
var ErrTooManyTokens = errors.New("owned token count above limit")

// Resolver builds OwnershipSnapshots from on-chain reads.
// The on-chain balance is the only source of the owned count; the enricher
// only decorates candidates for display.
type Resolver struct {
	chain         ChainReader
	enricher      Enricher
	metrics       Metrics
	logger        *zap.Logger
	workerCount   int
	enrichTimeout time.Duration
	// enrichBudget bounds the whole enrichment pass; tokens not decorated by then keep placeholders.
	enrichBudget time.Duration
	maxTokens    uint64
}

// NewResolver constructs a Resolver. enricher may be nil.
func NewResolver(chain ChainReader, enricher Enricher, metrics Metrics, logger *zap.Logger) (*Resolver, error) {
	if chain == nil {
		return nil, errors.New("ownership chain reader is required")
	}
	if metrics == nil {
		return nil, errors.New("ownership metrics is required")
	}
	return &Resolver{
		chain:         chain,
		enricher:      enricher,
		metrics:       metrics,
		logger:        logger.Named("ownership"),
		workerCount:   defaultWorkerCount,
		enrichTimeout: defaultEnrichTimeout,
		enrichBudget:  defaultEnrichBudget,
		maxTokens:     defaultMaxTokens,
	}, nil
}

// Resolve reads the owner's balance and the token ids behind it.
func (r *Resolver) Resolve(ctx context.Context, owner common.Address) (snapshot model.OwnershipSnapshot, err error) {
	started := time.Now()
	defer func() {
		r.metrics.ObserveResolve(err, snapshot.OwnedCount, started)
	}()

	count, err := r.chain.ReadOwnedCount(ctx, owner)
	if err != nil {
		return model.OwnershipSnapshot{}, fmt.Errorf("read owned count: %w", err)
	}

	switch count {
	case 0:
		return model.OwnershipSnapshot{}, nil
	case 1:
		id, err := r.chain.ReadTokenAt(ctx, owner, 0)
		if err != nil {
			return model.OwnershipSnapshot{}, fmt.Errorf("read token at 0: %w", err)
		}
		return model.OwnershipSnapshot{OwnedCount: 1, SingleTokenID: &id}, nil
	}
	if count > r.maxTokens {
		return model.OwnershipSnapshot{}, fmt.Errorf("%w: %d > %d", ErrTooManyTokens, count, r.maxTokens)
	}

	ids, err := r.readTokenIDs(ctx, owner, count)
	if err != nil {
		return model.OwnershipSnapshot{}, err
	}

	return model.OwnershipSnapshot{
		OwnedCount: count,
		Candidates: r.enrich(ctx, owner, ids),
	}, nil
}

func (r *Resolver) readTokenIDs(ctx context.Context, owner common.Address, count uint64) ([]model.TokenID, error) {
	indices := make([]uint64, count)
	for i := range indices {
		indices[i] = uint64(i)
	}

	return workerpool.Map(ctx, r.workerCount, indices, func(ctx context.Context, index uint64) (model.TokenID, error) {
		id, err := r.chain.ReadTokenAt(ctx, owner, index)
		if err != nil {
			return 0, fmt.Errorf("read token at %d: %w", index, err)
		}
		return id, nil
	})
}

// enrich never fails: a token whose display cannot be fetched in time gets a placeholder.
// The pass returns once every fetch settled or enrichBudget elapsed, whichever is first.
func (r *Resolver) enrich(ctx context.Context, owner common.Address, ids []model.TokenID) []model.CandidateToken {
	candidates := make([]model.CandidateToken, len(ids))
	indices := make([]int, len(ids))
	for i, id := range ids {
		candidates[i] = model.CandidateToken{ID: id, Display: model.PlaceholderDisplay(id)}
		indices[i] = i
	}
	if r.enricher == nil {
		return candidates
	}

	passCtx, cancel := context.WithTimeout(ctx, r.enrichBudget)
	defer cancel()

	var mu sync.Mutex
	displays := make(map[int]model.TokenDisplay, len(ids))
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = workerpool.Map(passCtx, r.workerCount, indices, func(ctx context.Context, i int) (struct{}, error) {
			fetchCtx, cancel := context.WithTimeout(ctx, r.enrichTimeout)
			defer cancel()

			started := time.Now()
			display, err := r.enricher.FetchDisplay(fetchCtx, owner, ids[i])
			r.metrics.ObserveEnrich(err, started)
			if err != nil {
				r.logger.Debug("token enrichment failed", zap.Stringer("token", ids[i]), zap.Error(err))
				return struct{}{}, nil
			}
			mu.Lock()
			displays[i] = fillDisplay(display, ids[i])
			mu.Unlock()
			return struct{}{}, nil
		})
	}()

	select {
	case <-done:
	case <-passCtx.Done():
		r.logger.Debug("token enrichment cut short", zap.Int("tokens", len(ids)), zap.Error(passCtx.Err()))
	}

	mu.Lock()
	defer mu.Unlock()
	for i, d := range displays {
		candidates[i].Display = d
	}
	return candidates
}

func fillDisplay(d model.TokenDisplay, id model.TokenID) model.TokenDisplay {
	placeholder := model.PlaceholderDisplay(id)
	if d.Name == "" {
		d.Name = placeholder.Name
	}
	if d.Image == "" {
		d.Image = placeholder.Image
		d.Placeholder = true
	}
	return d
}
