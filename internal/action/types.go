package action

import (
	"context"
	"time"

	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Chain interface {
		Submit(ctx context.Context, call model.ContractCall) (model.TxRef, error)
		AwaitReceipt(ctx context.Context, ref model.TxRef) (model.Receipt, error)
	}
	Notifier interface {
		Notify(ctx context.Context, n model.Notification) error
	}
	Metrics interface {
		ObserveAttempt(kind model.ActionKind, status model.AttemptStatus, started time.Time)
	}
)
