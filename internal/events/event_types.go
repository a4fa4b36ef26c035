package events

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventSessionChanged fires on login, logout, restore, and any
	// server-confirmed profile mutation.
	EventSessionChanged EventType = "session_changed"
	// EventListUpdated fires when a list controller applies a fetch
	// result or records a fetch failure.
	EventListUpdated EventType = "list_updated"
	// EventSummaryUpdated fires when a dashboard summary refresh
	// completes, successfully or not.
	EventSummaryUpdated EventType = "summary_updated"
)

// Event represents a state-change notification published to the UI.
type Event struct {
	Type EventType
	// Source names the publishing component ("tickets", "materials",
	// "session", "dashboard") so a subscriber can tell list views apart.
	Source  string
	Payload any
}
