package mock

import (
	"context"

	"github.com/fwojciec/leadscout"
)

var (
	_ leadscout.LeadExtractor    = (*LeadExtractor)(nil)
	_ leadscout.ContactExtractor = (*ContactExtractor)(nil)
	_ leadscout.LoginDetector    = (*LoginDetector)(nil)
	_ leadscout.LocationResolver = (*LocationResolver)(nil)
	_ leadscout.DomainLimiter    = (*DomainLimiter)(nil)
)

// LeadExtractor is a mock implementation of leadscout.LeadExtractor.
type LeadExtractor struct {
	ExtractLeadsFn func(html string, fallbackLocation string) ([]leadscout.RawLead, error)
}

func (e *LeadExtractor) ExtractLeads(html string, fallbackLocation string) ([]leadscout.RawLead, error) {
	return e.ExtractLeadsFn(html, fallbackLocation)
}

// ContactExtractor is a mock implementation of leadscout.ContactExtractor.
type ContactExtractor struct {
	ExtractContactFn func(html string) (leadscout.Contact, error)
}

func (e *ContactExtractor) ExtractContact(html string) (leadscout.Contact, error) {
	return e.ExtractContactFn(html)
}

// LoginDetector is a mock implementation of leadscout.LoginDetector.
type LoginDetector struct {
	HasLoginFormFn func(html string) (bool, error)
}

func (d *LoginDetector) HasLoginForm(html string) (bool, error) {
	return d.HasLoginFormFn(html)
}

// LocationResolver is a mock implementation of leadscout.LocationResolver.
type LocationResolver struct {
	ResolveFn func(text string) string
}

func (r *LocationResolver) Resolve(text string) string {
	return r.ResolveFn(text)
}

// DomainLimiter is a mock implementation of leadscout.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
