package ownership

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ChainReader interface {
		ReadOwnedCount(ctx context.Context, owner common.Address) (uint64, error)
		ReadTokenAt(ctx context.Context, owner common.Address, index uint64) (model.TokenID, error)
	}
	Enricher interface {
		FetchDisplay(ctx context.Context, owner common.Address, id model.TokenID) (model.TokenDisplay, error)
	}
	Metrics interface {
		ObserveResolve(err error, owned uint64, started time.Time)
		ObserveEnrich(err error, started time.Time)
	}
)
