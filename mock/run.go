package mock

import (
	"context"

	"github.com/fwojciec/leadscout"
)

var (
	_ leadscout.RunService     = (*RunService)(nil)
	_ leadscout.LeadExporter   = (*LeadExporter)(nil)
	_ leadscout.ContactArchive = (*ContactArchive)(nil)
	_ leadscout.ContactLookup  = (*ContactLookup)(nil)
)

// RunService is a mock implementation of leadscout.RunService.
type RunService struct {
	CreateRunFn   func(ctx context.Context, run *leadscout.Run) error
	FindRunByIDFn func(ctx context.Context, id string) (*leadscout.Run, error)
	FindRunsFn    func(ctx context.Context, filter leadscout.RunFilter) ([]*leadscout.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *leadscout.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRunByID(ctx context.Context, id string) (*leadscout.Run, error) {
	return s.FindRunByIDFn(ctx, id)
}

func (s *RunService) FindRuns(ctx context.Context, filter leadscout.RunFilter) ([]*leadscout.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

// LeadExporter is a mock implementation of leadscout.LeadExporter.
type LeadExporter struct {
	ExportFn func(ctx context.Context, leads []leadscout.Lead) error
}

func (e *LeadExporter) Export(ctx context.Context, leads []leadscout.Lead) error {
	return e.ExportFn(ctx, leads)
}

// ContactArchive is a mock implementation of leadscout.ContactArchive.
type ContactArchive struct {
	FindContactByProfileURLFn func(ctx context.Context, profileURL string) (leadscout.Contact, error)
	ProfileURLsFn             func(ctx context.Context) ([]string, error)
}

func (a *ContactArchive) FindContactByProfileURL(ctx context.Context, profileURL string) (leadscout.Contact, error) {
	return a.FindContactByProfileURLFn(ctx, profileURL)
}

func (a *ContactArchive) ProfileURLs(ctx context.Context) ([]string, error) {
	return a.ProfileURLsFn(ctx)
}

// ContactLookup is a mock implementation of leadscout.ContactLookup.
type ContactLookup struct {
	LookupContactFn func(ctx context.Context, profileURL string) (leadscout.Contact, bool, error)
}

func (l *ContactLookup) LookupContact(ctx context.Context, profileURL string) (leadscout.Contact, bool, error) {
	return l.LookupContactFn(ctx, profileURL)
}
