package model

// Severity of a user notification.
type Severity string

var (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// Notification is a titled message surfaced to the user.
type Notification struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}
