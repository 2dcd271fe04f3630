// Package availability checks whether a subname can be claimed by simulating the claim call.
package availability

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"go.uber.org/zap"
)

const (
	defaultTTL        = 15 * time.Second
	maxCachedVerdicts = 4096
)

type cacheKey struct {
	from    common.Address
	label   string
	tokenID model.TokenID
}

type cacheEntry struct {
	verdict model.AvailabilityVerdict
	expires time.Time
}

// Prechecker simulates claims and caches definitive verdicts for a short time.
// Simulation errors are never cached so a retry reaches the node again.
type Prechecker struct {
	simulator Simulator
	metrics   Metrics
	logger    *zap.Logger
	ttl       time.Duration
	now       func() time.Time

	mu    sync.Mutex
	cache map[cacheKey]cacheEntry
}

// NewPrechecker creates a Prechecker with an empty verdict cache.
func NewPrechecker(simulator Simulator, metrics Metrics, logger *zap.Logger) (*Prechecker, error) {
	if simulator == nil {
		return nil, errors.New("availability simulator is required")
	}
	if metrics == nil {
		return nil, errors.New("availability metrics is required")
	}
	return &Prechecker{
		simulator: simulator,
		metrics:   metrics,
		logger:    logger.Named("availability"),
		ttl:       defaultTTL,
		now:       time.Now,
		cache:     make(map[cacheKey]cacheEntry),
	}, nil
}

// Check simulates claiming label with tokenID as from.
func (p *Prechecker) Check(ctx context.Context, from common.Address, label string, tokenID model.TokenID) model.AvailabilityVerdict {
	started := time.Now()
	key := cacheKey{from: from, label: label, tokenID: tokenID}

	if verdict, ok := p.cached(key); ok {
		p.metrics.ObserveCheck(verdict, true, started)
		return verdict
	}

	err := p.simulator.Simulate(ctx, from, model.ClaimCall(label, tokenID))
	verdict := Classify(err)
	if verdict.Kind == model.VerdictSimulationError {
		p.logger.Warn("claim simulation failed", zap.String("label", label), zap.Stringer("token", tokenID), zap.Error(err))
	} else {
		p.store(key, verdict)
	}

	p.metrics.ObserveCheck(verdict, false, started)
	return verdict
}

// Forget drops cached verdicts that a confirmed call invalidates: any verdict for
// its token, and for a claim any verdict for its label.
func (p *Prechecker) Forget(call model.ContractCall) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k := range p.cache {
		if k.tokenID == call.TokenID || (call.Label != "" && k.label == call.Label) {
			delete(p.cache, k)
		}
	}
}

func (p *Prechecker) cached(key cacheKey) (model.AvailabilityVerdict, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.cache[key]
	if !ok {
		return model.AvailabilityVerdict{}, false
	}
	if !p.now().Before(entry.expires) {
		delete(p.cache, key)
		return model.AvailabilityVerdict{}, false
	}
	return entry.verdict, true
}

func (p *Prechecker) store(key cacheKey, verdict model.AvailabilityVerdict) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if len(p.cache) >= maxCachedVerdicts {
		for k, e := range p.cache {
			if !now.Before(e.expires) {
				delete(p.cache, k)
			}
		}
	}
	if len(p.cache) >= maxCachedVerdicts {
		return
	}
	p.cache[key] = cacheEntry{verdict: verdict, expires: now.Add(p.ttl)}
}
