package metadata

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	URIReader interface {
		TokenURI(ctx context.Context, id model.TokenID) (string, error)
	}
	Source interface {
		FetchDisplay(ctx context.Context, owner common.Address, id model.TokenID) (model.TokenDisplay, error)
	}
)
