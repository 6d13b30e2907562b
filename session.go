package leadscout

import "context"

// SessionState is the lifecycle state of a harvest session.
type SessionState string

// Session states.
const (
	SessionIdle               SessionState = "idle"
	SessionAwaitingManualAuth SessionState = "awaiting_manual_auth"
	SessionAuthenticated      SessionState = "authenticated"
	SessionHarvesting         SessionState = "harvesting"
	SessionStopped            SessionState = "stopped"
)

// SessionStatus is a snapshot of the live session.
type SessionStatus struct {
	State         SessionState `json:"state"`
	Authenticated bool         `json:"isLoggedIn"`
	Harvesting    bool         `json:"isScrapingActive"`
	CurrentPage   int          `json:"currentPage"`
	Collected     int          `json:"collected"`
}

// AuthResult is returned when a manual login has been set up.
type AuthResult struct {
	Message    string `json:"message"`
	ManualMode bool   `json:"manualMode"`
}

// SessionService represents the single harvesting session of a process.
type SessionService interface {
	// BeginManualAuth opens the service's landing page in the session browser
	// so a human can log in. It does not wait for the login.
	// Returns EUNAVAILABLE if the browser cannot be started.
	BeginManualAuth(ctx context.Context) (*AuthResult, error)

	// Harvest collects at most filter.MaxLeads leads. Progress events are
	// sent to events, which may be nil; sends never block.
	// Returns ECONFLICT if a harvest is running and EUNAUTHORIZED if the
	// browser is not logged in.
	Harvest(ctx context.Context, filter Filter, events chan<- Event) ([]Lead, error)

	// CheckAuthenticated reports whether the session browser is logged in.
	// Any failure resolves to false.
	CheckAuthenticated(ctx context.Context) bool

	// Stop ends the session and releases its browser. Stop is idempotent.
	Stop() error

	// Status returns a snapshot of the session flags.
	Status() SessionStatus
}
