package leadscout

// EventType identifies a progress event.
type EventType string

// Progress event types.
const (
	EventStarting  EventType = "starting"
	EventProgress  EventType = "progress"
	EventCompleted EventType = "completed"
	EventError     EventType = "error"
)

// Event reports harvest progress.
type Event struct {
	Type      EventType
	Message   string
	Page      int
	Collected int
	Leads     []Lead // set on EventCompleted
}
