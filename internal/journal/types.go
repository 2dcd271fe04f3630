package journal

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"

	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
)

type (
	Store interface {
		InsertAttemptEvents(ctx context.Context, events []model.AttemptEvent) error
	}
	Source interface {
		Subscribe(fn func(model.Attempt)) (unsubscribe func())
	}
	Metrics interface {
		ObserveFlush(err error, events int)
		ObserveDropped()
	}
)
