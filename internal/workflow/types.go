package workflow

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/google/uuid"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Resolver interface {
		Resolve(ctx context.Context, owner common.Address) (model.OwnershipSnapshot, error)
	}
	Checker interface {
		Check(ctx context.Context, from common.Address, label string, tokenID model.TokenID) model.AvailabilityVerdict
	}
	Controller interface {
		Begin(call model.ContractCall) uuid.UUID
		Start(ctx context.Context, id uuid.UUID)
		Attempt(id uuid.UUID) (model.Attempt, bool)
		Subscribe(fn func(model.Attempt)) (unsubscribe func())
	}
)

// Outcome tells what a submit or selection request did.
type Outcome string

var (
	OutcomeSubmitted         Outcome = "submitted"
	OutcomeSelectionRequired Outcome = "selection_required"
	OutcomeSelected          Outcome = "selected"
	OutcomeInvalidLabel      Outcome = "invalid_label"
	OutcomeIgnored           Outcome = "ignored"
)

// SubmitResult is returned by Submit and SelectToken.
type SubmitResult struct {
	Outcome   Outcome   `json:"outcome"`
	Message   string    `json:"message,omitempty"`
	AttemptID uuid.UUID `json:"attemptId,omitempty"`
}
