package model

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind names a mapper contract write.
type ActionKind string

var (
	ActionClaim      ActionKind = "claim"
	ActionMigrate    ActionKind = "migrate"
	ActionRelease    ActionKind = "release"
	ActionRelinquish ActionKind = "relinquish"
)

// ParseActionKind maps a string to a known action.
func ParseActionKind(s string) (ActionKind, bool) {
	switch ActionKind(s) {
	case ActionClaim, ActionMigrate, ActionRelease, ActionRelinquish:
		return ActionKind(s), true
	default:
		return "", false
	}
}

// ContractCall is one write against the mapper contract. Label is used by claims only.
type ContractCall struct {
	Kind    ActionKind `json:"kind"`
	Label   string     `json:"label,omitempty"`
	TokenID TokenID    `json:"tokenId"`
}

// ClaimCall builds the claim call for label and token.
func ClaimCall(label string, id TokenID) ContractCall {
	return ContractCall{Kind: ActionClaim, Label: label, TokenID: id}
}

// TxRef is a transaction hash in 0x-prefixed hex.
type TxRef string

// Receipt is the mined outcome of a transaction.
type Receipt struct {
	TxRef       TxRef
	Succeeded   bool
	BlockNumber uint64
}

// AttemptStatus is the lifecycle state of a contract action attempt.
type AttemptStatus string

var (
	AttemptNotStarted    AttemptStatus = "not_started"
	AttemptWalletPending AttemptStatus = "wallet_pending"
	AttemptChainPending  AttemptStatus = "chain_pending"
	AttemptConfirmed     AttemptStatus = "confirmed"
	AttemptFailed        AttemptStatus = "failed"
)

// Pending reports whether the attempt still waits on the wallet or the chain.
func (s AttemptStatus) Pending() bool {
	return s == AttemptWalletPending || s == AttemptChainPending
}

// Terminal reports whether the attempt has settled.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptConfirmed || s == AttemptFailed
}

// Attempt is a single submission of a ContractCall.
type Attempt struct {
	ID        uuid.UUID     `json:"id"`
	Call      ContractCall  `json:"call"`
	TxRef     TxRef         `json:"txRef,omitempty"`
	Status    AttemptStatus `json:"status"`
	Error     string        `json:"error,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
