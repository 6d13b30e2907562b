package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/leadscout"
)

// Enricher visits each lead's profile page and merges the contact details
// found there into the lead. Visits are strictly sequential because the
// browser is a single tab.
type Enricher struct {
	Contacts leadscout.ContactExtractor
	Limiter  leadscout.DomainLimiter
	Logger   *slog.Logger

	// Known answers profiles harvested by earlier runs. Their archived
	// contact is reused and the profile is not visited again.
	Known leadscout.ContactLookup
	Sleep    SleepFunc

	NavigateTimeout     time.Duration
	SettleAfterNavigate time.Duration
	ScrollStep          int
	SettleAfterScroll   time.Duration
	SettleAfterReturn   time.Duration
}

// NewEnricher returns an Enricher with the default pacing.
func NewEnricher(contacts leadscout.ContactExtractor, limiter leadscout.DomainLimiter) *Enricher {
	return &Enricher{
		Contacts:            contacts,
		Limiter:             limiter,
		Sleep:               Sleep,
		NavigateTimeout:     15 * time.Second,
		SettleAfterNavigate: 3 * time.Second,
		ScrollStep:          300,
		SettleAfterScroll:   1 * time.Second,
		SettleAfterReturn:   2 * time.Second,
	}
}

// Enrich returns a copy of leads with contact details merged in. Output
// order and length equal the input. A lead whose visit fails is returned
// unchanged; failures never abort the batch. Leads left unvisited when ctx
// ends are also returned unchanged.
func (e *Enricher) Enrich(ctx context.Context, b leadscout.Browser, leads []leadscout.RawLead) []leadscout.RawLead {
	out := make([]leadscout.RawLead, len(leads))
	copy(out, leads)

	logger := e.logger()
	for i := range out {
		if ctx.Err() != nil {
			break
		}
		if !out[i].HasProfile() {
			continue
		}
		if e.reuse(ctx, &out[i]) {
			continue
		}

		c, err := e.visit(ctx, b, out[i].ProfileURL)
		if err != nil {
			logger.Warn("enrichment failed", "name", out[i].Name, "url", out[i].ProfileURL, "err", err)
			continue
		}
		merge(&out[i], c)
	}
	return out
}

// reuse merges the archived contact of lead and reports whether one was
// found. Lookup failures are logged and fall back to a visit.
func (e *Enricher) reuse(ctx context.Context, lead *leadscout.RawLead) bool {
	if e.Known == nil {
		return false
	}
	c, ok, err := e.Known.LookupContact(ctx, lead.ProfileURL)
	if err != nil {
		e.logger().Warn("archived contact lookup failed", "url", lead.ProfileURL, "err", err)
		return false
	}
	if !ok {
		return false
	}
	e.logger().Debug("reusing archived contact", "url", lead.ProfileURL)
	merge(lead, c)
	return true
}

func (e *Enricher) visit(ctx context.Context, b leadscout.Browser, profile string) (leadscout.Contact, error) {
	prior, err := b.URL(ctx)
	if err != nil {
		return leadscout.Contact{}, fmt.Errorf("reading current URL: %w", err)
	}
	defer e.returnTo(ctx, b, prior)

	if e.Limiter != nil {
		host := profile
		if u, err := url.Parse(profile); err == nil && u.Host != "" {
			host = u.Hostname()
		}
		if err := e.Limiter.Wait(ctx, host); err != nil {
			return leadscout.Contact{}, err
		}
	}

	if err := b.Navigate(ctx, profile, leadscout.WaitDOMContentLoaded, e.NavigateTimeout); err != nil {
		return leadscout.Contact{}, fmt.Errorf("navigating to profile: %w", err)
	}
	if err := e.sleep(ctx, e.SettleAfterNavigate); err != nil {
		return leadscout.Contact{}, err
	}
	if err := b.ScrollBy(ctx, e.ScrollStep); err != nil {
		return leadscout.Contact{}, fmt.Errorf("scrolling profile: %w", err)
	}
	if err := e.sleep(ctx, e.SettleAfterScroll); err != nil {
		return leadscout.Contact{}, err
	}

	html, err := b.HTML(ctx)
	if err != nil {
		return leadscout.Contact{}, fmt.Errorf("reading profile: %w", err)
	}
	return e.Contacts.ExtractContact(html)
}

// returnTo brings the tab back to prior if a visit moved it away.
func (e *Enricher) returnTo(ctx context.Context, b leadscout.Browser, prior string) {
	if ctx.Err() != nil {
		return
	}
	if current, err := b.URL(ctx); err == nil && current == prior {
		return
	}

	logger := e.logger()
	if err := b.Back(ctx); err != nil {
		logger.Warn("history back failed, reloading", "url", prior, "err", err)
		if err := b.Navigate(ctx, prior, leadscout.WaitDOMContentLoaded, e.NavigateTimeout); err != nil {
			logger.Warn("returning to results failed", "url", prior, "err", err)
		}
	}
	_ = e.sleep(ctx, e.SettleAfterReturn)
}

func (e *Enricher) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep == nil {
		return Sleep(ctx, d)
	}
	return e.Sleep(ctx, d)
}

func (e *Enricher) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// merge copies found contact fields over unavailable ones only.
func merge(lead *leadscout.RawLead, c leadscout.Contact) {
	if lead.Email == leadscout.Unavailable && c.Email != "" && c.Email != leadscout.Unavailable {
		lead.Email = c.Email
	}
	if lead.Phone == leadscout.Unavailable && c.Phone != "" && c.Phone != leadscout.Unavailable {
		lead.Phone = c.Phone
	}
}
