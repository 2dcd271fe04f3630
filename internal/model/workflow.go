package model

// BlockCode identifies why submission is currently not permitted.
type BlockCode string

var (
	BlockNone             BlockCode = ""
	BlockNotConnected     BlockCode = "not_connected"
	BlockWrongNetwork     BlockCode = "wrong_network"
	BlockOwnershipErrored BlockCode = "ownership_errored"
	BlockOwnershipLoading BlockCode = "ownership_loading"
	BlockNoTokens         BlockCode = "no_tokens"
	BlockSelectionPending BlockCode = "selection_pending"
	BlockInProgress       BlockCode = "in_progress"
	BlockConfirmed        BlockCode = "confirmed"
	BlockUnavailable      BlockCode = "unavailable"
)

// BlockReason pairs a BlockCode with its user-facing text.
type BlockReason struct {
	Code    BlockCode `json:"code,omitempty"`
	Message string    `json:"message,omitempty"`
}

// WorkflowState is the externally observed state of a claim session.
type WorkflowState struct {
	Label            string              `json:"label"`
	FullName         string              `json:"fullName,omitempty"`
	LabelError       string              `json:"labelError,omitempty"`
	Account          Account             `json:"account"`
	CanSubmit        bool                `json:"canSubmit"`
	BlockReason      BlockReason         `json:"blockReason"`
	SelectionPending bool                `json:"selectionPending"`
	SelectionOpen    bool                `json:"selectionOpen"`
	SelectedToken    *TokenID            `json:"selectedToken,omitempty"`
	Ownership        OwnershipState      `json:"ownership"`
	Availability     AvailabilityVerdict `json:"availability"`
	Attempt          *Attempt            `json:"attempt,omitempty"`
}

// AttemptStatus returns the status of the current attempt or NotStarted.
func (s WorkflowState) AttemptStatus() AttemptStatus {
	if s.Attempt == nil {
		return AttemptNotStarted
	}
	return s.Attempt.Status
}
