package subnames

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/google/uuid"
)

type (
	ChainReader interface {
		ReadOwnedCount(ctx context.Context, owner common.Address) (uint64, error)
		ReadTokenAt(ctx context.Context, owner common.Address, index uint64) (model.TokenID, error)
		NameOf(ctx context.Context, id model.TokenID) (string, error)
		NodeOf(ctx context.Context, id model.TokenID) (common.Hash, error)
		IsLegacyNode(ctx context.Context, node common.Hash) (bool, error)
	}
	Enricher interface {
		FetchDisplay(ctx context.Context, owner common.Address, id model.TokenID) (model.TokenDisplay, error)
	}
	Controller interface {
		Submit(ctx context.Context, call model.ContractCall) uuid.UUID
	}
)
