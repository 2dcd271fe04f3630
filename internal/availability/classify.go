package availability

import "github.com/goodnatureofminers/subnameclaim-backend/internal/model"

const (
	msgAvailable        = "Available"
	msgAlreadyClaimed   = "That subname is already claimed. Try another."
	msgInvalidLabel     = "Invalid subname. Use a–z, 0–9, hyphen; 3–63 chars."
	msgNameCollision    = "This label collides with an existing ENS record."
	msgNotAuthorized    = "You must claim with the owner of the selected token."
	msgRootUnregistered = "The root ENS node is not registered yet."
	msgOther            = "Cannot claim this subname. Please try another or retry."
	msgSimulationError  = "Could not check availability. Please retry."
)

var revertReasons = map[string]model.BlockedReason{
	"AlreadyClaimed":       model.ReasonAlreadyClaimed,
	"InvalidLabel":         model.ReasonInvalidLabel,
	"PreexistingENSRecord": model.ReasonNameCollision,
	"NotTokenOwner":        model.ReasonNotAuthorized,
	"NotAuthorised":        model.ReasonNotAuthorized,
	"UnregisteredNode":     model.ReasonRootUnregistered,
}

var reasonMessages = map[model.BlockedReason]string{
	model.ReasonAlreadyClaimed:   msgAlreadyClaimed,
	model.ReasonInvalidLabel:     msgInvalidLabel,
	model.ReasonNameCollision:    msgNameCollision,
	model.ReasonNotAuthorized:    msgNotAuthorized,
	model.ReasonRootUnregistered: msgRootUnregistered,
	model.ReasonOther:            msgOther,
}

// Classify maps a simulation outcome to a verdict. Raw error text never
// reaches the verdict message.
func Classify(err error) model.AvailabilityVerdict {
	if err == nil {
		return model.AvailabilityVerdict{Kind: model.VerdictAvailable, Message: msgAvailable}
	}

	rev, ok := model.AsRevert(err)
	if !ok {
		return model.AvailabilityVerdict{Kind: model.VerdictSimulationError, Message: msgSimulationError}
	}

	reason, known := revertReasons[rev.Name]
	if !known {
		reason = model.ReasonOther
	}
	return model.AvailabilityVerdict{
		Kind:    model.VerdictBlocked,
		Reason:  reason,
		Message: reasonMessages[reason],
	}
}
