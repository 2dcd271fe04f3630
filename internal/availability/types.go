package availability

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Simulator interface {
		Simulate(ctx context.Context, from common.Address, call model.ContractCall) error
	}
	Metrics interface {
		ObserveCheck(verdict model.AvailabilityVerdict, cached bool, started time.Time)
	}
)
