package model

// OwnershipSnapshot is the result of one ownership resolution.
type OwnershipSnapshot struct {
	OwnedCount    uint64           `json:"ownedCount"`
	SingleTokenID *TokenID         `json:"singleTokenId,omitempty"`
	Candidates    []CandidateToken `json:"candidates,omitempty"`
}

// Valid reports whether exactly one of the three shapes holds and agrees with OwnedCount.
func (s OwnershipSnapshot) Valid() bool {
	switch {
	case s.OwnedCount == 0:
		return s.SingleTokenID == nil && len(s.Candidates) == 0
	case s.OwnedCount == 1:
		return s.SingleTokenID != nil && len(s.Candidates) == 0
	default:
		return s.SingleTokenID == nil && uint64(len(s.Candidates)) == s.OwnedCount
	}
}

// HasCandidate reports whether id is one of the selectable tokens.
func (s OwnershipSnapshot) HasCandidate(id TokenID) bool {
	if s.SingleTokenID != nil {
		return *s.SingleTokenID == id
	}
	for _, c := range s.Candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}

// TokenIDs returns every token id of the snapshot in order.
func (s OwnershipSnapshot) TokenIDs() []TokenID {
	if s.SingleTokenID != nil {
		return []TokenID{*s.SingleTokenID}
	}
	ids := make([]TokenID, 0, len(s.Candidates))
	for _, c := range s.Candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

// OwnershipStatus tells loading, errored and settled states apart.
type OwnershipStatus string

var (
	OwnershipIdle    OwnershipStatus = "idle"
	OwnershipLoading OwnershipStatus = "loading"
	OwnershipReady   OwnershipStatus = "ready"
	OwnershipErrored OwnershipStatus = "errored"
)

// OwnershipState wraps the latest snapshot with its load status.
// Loaded is false until the first successful resolve for the current account.
type OwnershipState struct {
	Snapshot OwnershipSnapshot `json:"snapshot"`
	Status   OwnershipStatus   `json:"status"`
	Loaded   bool              `json:"loaded"`
	Err      error             `json:"-"`
}

// DefinitelyZero is true only when a successful read returned no tokens.
func (s OwnershipState) DefinitelyZero() bool {
	return s.Loaded && s.Status != OwnershipErrored && s.Snapshot.OwnedCount == 0
}
