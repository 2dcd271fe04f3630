package rootname

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

type (
	Reader interface {
		RootNode(ctx context.Context) (common.Hash, error)
		NameOfNode(ctx context.Context, node common.Hash) (string, error)
		RootLabel(ctx context.Context) (string, error)
	}
)
