package leadscout

import (
	"context"
	"time"
)

// RunStatus is the outcome of an archived harvest.
type RunStatus string

// Run outcomes.
const (
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is the archived outcome of one harvest.
type Run struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"sessionId"`
	Filter     Filter    `json:"filter"`
	Status     RunStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	Leads      []Lead    `json:"leads,omitempty"`
	LeadCount  int       `json:"leadCount"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Status != RunCompleted && r.Status != RunFailed {
		return Errorf(EINVALID, "invalid run status %q", r.Status)
	}
	return r.Filter.Validate()
}

// RunService represents a service for archiving harvest runs.
type RunService interface {
	// CreateRun archives a run and its leads. It assigns the run ID.
	CreateRun(ctx context.Context, run *Run) error

	// FindRunByID retrieves a run and its leads.
	// Returns ENOTFOUND if the run does not exist.
	FindRunByID(ctx context.Context, id string) (*Run, error)

	// FindRuns retrieves runs matching the filter, newest first.
	// Leads are not loaded.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// ContactArchive reads the contact details kept by archived runs.
type ContactArchive interface {
	// FindContactByProfileURL returns the contact of the newest archived
	// lead with this profile that has an email or a phone.
	// Returns ENOTFOUND if no archived lead has one.
	FindContactByProfileURL(ctx context.Context, profileURL string) (Contact, error)

	// ProfileURLs returns the distinct profile URLs of all archived leads.
	ProfileURLs(ctx context.Context) ([]string, error)
}

// ContactLookup reports contact details already collected for a profile.
type ContactLookup interface {
	// LookupContact returns the known contact for profileURL and whether
	// one was found.
	LookupContact(ctx context.Context, profileURL string) (Contact, bool, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	SessionID  *string `json:"sessionId"`
	ProfileURL *string `json:"profileUrl"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// LeadExporter writes leads to an external format.
type LeadExporter interface {
	Export(ctx context.Context, leads []Lead) error
}

// NewRun returns the archive record of a finished harvest. A non-nil
// harvestErr marks the run failed; the leads collected before the failure
// are kept.
func NewRun(sessionID string, filter Filter, leads []Lead, harvestErr error, started, finished time.Time) *Run {
	run := &Run{
		SessionID:  sessionID,
		Filter:     filter,
		Status:     RunCompleted,
		Leads:      leads,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if harvestErr != nil {
		run.Status = RunFailed
		run.Error = ErrorMessage(harvestErr)
		if ErrorCode(harvestErr) == EINTERNAL {
			run.Error = harvestErr.Error()
		}
	}
	return run
}
