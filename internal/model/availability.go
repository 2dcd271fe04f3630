package model

// VerdictKind is the tag of an availability verdict.
type VerdictKind string

var (
	VerdictUnknown         VerdictKind = "unknown"
	VerdictChecking        VerdictKind = "checking"
	VerdictAvailable       VerdictKind = "available"
	VerdictBlocked         VerdictKind = "blocked"
	VerdictSimulationError VerdictKind = "simulation_error"
)

// BlockedReason is the category of a rejected claim simulation.
type BlockedReason string

var (
	ReasonAlreadyClaimed   BlockedReason = "already_claimed"
	ReasonInvalidLabel     BlockedReason = "invalid_label"
	ReasonNameCollision    BlockedReason = "name_collision"
	ReasonNotAuthorized    BlockedReason = "not_authorized"
	ReasonRootUnregistered BlockedReason = "root_unregistered"
	ReasonOther            BlockedReason = "other"
)

// AvailabilityVerdict is the advisory outcome of a claim simulation.
type AvailabilityVerdict struct {
	Kind    VerdictKind   `json:"kind"`
	Reason  BlockedReason `json:"reason,omitempty"`
	Message string        `json:"message,omitempty"`
}

// BlocksSubmit reports whether the verdict disables submission.
func (v AvailabilityVerdict) BlocksSubmit() bool {
	return v.Kind == VerdictBlocked
}

// UnknownVerdict is the verdict of a pair that is not being checked.
func UnknownVerdict() AvailabilityVerdict {
	return AvailabilityVerdict{Kind: VerdictUnknown}
}

// CheckingVerdict is shown while a simulation is in flight.
func CheckingVerdict() AvailabilityVerdict {
	return AvailabilityVerdict{Kind: VerdictChecking, Message: "Checking availability…"}
}
