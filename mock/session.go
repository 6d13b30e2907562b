package mock

import (
	"context"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.SessionService = (*SessionService)(nil)

// SessionService is a mock implementation of leadscout.SessionService.
type SessionService struct {
	BeginManualAuthFn    func(ctx context.Context) (*leadscout.AuthResult, error)
	HarvestFn            func(ctx context.Context, filter leadscout.Filter, events chan<- leadscout.Event) ([]leadscout.Lead, error)
	CheckAuthenticatedFn func(ctx context.Context) bool
	StopFn               func() error
	StatusFn             func() leadscout.SessionStatus
}

func (s *SessionService) BeginManualAuth(ctx context.Context) (*leadscout.AuthResult, error) {
	return s.BeginManualAuthFn(ctx)
}

func (s *SessionService) Harvest(ctx context.Context, filter leadscout.Filter, events chan<- leadscout.Event) ([]leadscout.Lead, error) {
	return s.HarvestFn(ctx, filter, events)
}

func (s *SessionService) CheckAuthenticated(ctx context.Context) bool {
	return s.CheckAuthenticatedFn(ctx)
}

func (s *SessionService) Stop() error {
	return s.StopFn()
}

func (s *SessionService) Status() leadscout.SessionStatus {
	return s.StatusFn()
}
