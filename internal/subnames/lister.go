// Package subnames lists the subnames bound to an owner's tokens and starts
// the follow-up mapper actions on them.
package subnames

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/goodnatureofminers/subnameclaim-backend/pkg/workerpool"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultWorkers       = 4
	defaultEnrichTimeout = 3 * time.Second
)

type Lister struct {
	chain      ChainReader
	enricher   Enricher
	controller Controller
	logger     *zap.Logger
	workers    int
}

// NewLister constructs a Lister. enricher may be nil.
func NewLister(chain ChainReader, enricher Enricher, controller Controller, logger *zap.Logger) (*Lister, error) {
	if chain == nil {
		return nil, errors.New("subnames chain reader is required")
	}
	if controller == nil {
		return nil, errors.New("subnames action controller is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Lister{
		chain:      chain,
		enricher:   enricher,
		controller: controller,
		logger:     logger.Named("subnames"),
		workers:    defaultWorkers,
	}, nil
}

// List returns one record per token the owner holds, in wallet index order.
func (l *Lister) List(ctx context.Context, owner common.Address) ([]model.OwnedSubname, error) {
	count, err := l.chain.ReadOwnedCount(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("read owned count: %w", err)
	}
	if count == 0 {
		return []model.OwnedSubname{}, nil
	}

	indices := make([]uint64, count)
	for i := range indices {
		indices[i] = uint64(i)
	}
	return workerpool.Map(ctx, l.workers, indices, func(ctx context.Context, index uint64) (model.OwnedSubname, error) {
		id, err := l.chain.ReadTokenAt(ctx, owner, index)
		if err != nil {
			return model.OwnedSubname{}, fmt.Errorf("read token at %d: %w", index, err)
		}
		return l.describe(ctx, owner, id)
	})
}

// Act starts a migrate, release or relinquish action on a token the owner holds.
func (l *Lister) Act(ctx context.Context, owner common.Address, id model.TokenID, kind model.ActionKind) (uuid.UUID, error) {
	if kind == model.ActionClaim {
		return uuid.Nil, fmt.Errorf("%w: claims go through the claim workflow", model.ErrActionNotAllowed)
	}

	owned, err := l.List(ctx, owner)
	if err != nil {
		return uuid.Nil, err
	}
	idx := slices.IndexFunc(owned, func(s model.OwnedSubname) bool { return s.TokenID == id })
	if idx < 0 {
		return uuid.Nil, model.ErrUnknownToken
	}
	if !slices.Contains(owned[idx].Actions, kind) {
		return uuid.Nil, fmt.Errorf("%w: %s on token %s", model.ErrActionNotAllowed, kind, id)
	}

	attemptID := l.controller.Submit(ctx, model.ContractCall{Kind: kind, TokenID: id})
	l.logger.Info("subname action submitted",
		zap.String("attempt", attemptID.String()),
		zap.String("action", string(kind)),
		zap.Stringer("token", id),
	)
	return attemptID, nil
}

func (l *Lister) describe(ctx context.Context, owner common.Address, id model.TokenID) (model.OwnedSubname, error) {
	name, err := l.chain.NameOf(ctx, id)
	if err != nil {
		return model.OwnedSubname{}, fmt.Errorf("read name of token %s: %w", id, err)
	}
	s := model.OwnedSubname{
		TokenID: id,
		Name:    strings.TrimSpace(name),
		Display: l.display(ctx, owner, id),
		Actions: []model.ActionKind{},
	}
	if s.Name == "" {
		return s, nil
	}

	node, err := l.chain.NodeOf(ctx, id)
	if err != nil {
		return model.OwnedSubname{}, fmt.Errorf("read node of token %s: %w", id, err)
	}
	legacy, err := l.chain.IsLegacyNode(ctx, node)
	if err != nil {
		return model.OwnedSubname{}, fmt.Errorf("read legacy flag of token %s: %w", id, err)
	}
	s.Node = node
	s.Legacy = legacy
	if legacy {
		s.Actions = []model.ActionKind{model.ActionMigrate, model.ActionRelease}
	} else {
		s.Actions = []model.ActionKind{model.ActionRelinquish}
	}
	return s, nil
}

func (l *Lister) display(ctx context.Context, owner common.Address, id model.TokenID) model.TokenDisplay {
	if l.enricher == nil {
		return model.PlaceholderDisplay(id)
	}
	ctx, cancel := context.WithTimeout(ctx, defaultEnrichTimeout)
	defer cancel()

	d, err := l.enricher.FetchDisplay(ctx, owner, id)
	if err != nil {
		l.logger.Debug("token enrichment failed", zap.Stringer("token", id), zap.Error(err))
		return model.PlaceholderDisplay(id)
	}
	return d
}
