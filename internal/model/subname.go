package model

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// OwnedSubname is the mapper record of one owned token.
type OwnedSubname struct {
	TokenID TokenID      `json:"tokenId"`
	Name    string       `json:"name,omitempty"`
	Node    common.Hash  `json:"node"`
	Legacy  bool         `json:"legacy"`
	Display TokenDisplay `json:"display"`
	Actions []ActionKind `json:"actions"`
}

// Claimed reports whether the token carries a subname.
func (s OwnedSubname) Claimed() bool {
	return s.Name != "" || s.Node != (common.Hash{})
}

// AttemptEvent is one journaled transition of an attempt.
type AttemptEvent struct {
	AttemptID  string        `json:"attemptId"`
	Account    string        `json:"account"`
	ChainID    uint64        `json:"chainId"`
	Kind       ActionKind    `json:"kind"`
	Label      string        `json:"label,omitempty"`
	TokenID    TokenID       `json:"tokenId"`
	Status     AttemptStatus `json:"status"`
	TxRef      TxRef         `json:"txRef,omitempty"`
	Error      string        `json:"error,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}
