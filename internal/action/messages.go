package action

import "github.com/goodnatureofminers/subnameclaim-backend/internal/model"

var successDescriptions = map[model.ActionKind]string{
	model.ActionClaim:      "Subname claimed successfully!",
	model.ActionMigrate:    "Subname migrated successfully!",
	model.ActionRelease:    "Legacy subname released.",
	model.ActionRelinquish: "Subname relinquished.",
}

func successNotification(kind model.ActionKind) model.Notification {
	description, ok := successDescriptions[kind]
	if !ok {
		description = "Transaction confirmed."
	}
	return model.Notification{Title: "Success", Description: description, Severity: model.SeverityInfo}
}

func submitFailedNotification() model.Notification {
	return model.Notification{
		Title:       "Transaction error",
		Description: "Could not submit transaction.",
		Severity:    model.SeverityError,
	}
}

func receiptFailedNotification() model.Notification {
	return model.Notification{
		Title:       "Transaction failed",
		Description: "Please check your wallet or try again.",
		Severity:    model.SeverityError,
	}
}
