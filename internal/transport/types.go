package transport

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/workflow"
	"github.com/google/uuid"
)

type (
	// Workflow is one claim session.
	Workflow interface {
		SetLabel(text string)
		BlurLabel() string
		Submit() workflow.SubmitResult
		SelectToken(id model.TokenID) (workflow.SubmitResult, error)
		Refetch()
		State() model.WorkflowState
		Changes() <-chan struct{}
		Close()
	}
	Subnames interface {
		List(ctx context.Context, owner common.Address) ([]model.OwnedSubname, error)
		Act(ctx context.Context, owner common.Address, id model.TokenID, kind model.ActionKind) (uuid.UUID, error)
	}
	Attempts interface {
		Attempts() []model.Attempt
	}
	EventStore interface {
		AttemptEvents(ctx context.Context, account string, limit int) ([]model.AttemptEvent, error)
	}
	Pinger interface {
		Ping(ctx context.Context) error
	}
	Metrics interface {
		ObserveRequest(route, method string, code int, started time.Time)
	}
)

// WorkflowFactory starts a session for a connected account.
type WorkflowFactory func(account model.Account) (Workflow, error)
