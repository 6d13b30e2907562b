// Package harvest drives a logged-in browser session through paginated
// people-search results, enriching and normalizing the leads it finds.
package harvest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/leadscout"
)

var _ leadscout.SessionService = (*Controller)(nil)

// Config holds the navigation targets and pacing of a harvest.
type Config struct {
	LandingURL       string
	SearchURL        string
	ResultsContainer string
	NextButton       string
	MaxPages         int

	NavigateTimeout    time.Duration
	ContainerTimeout   time.Duration
	SettleAfterSearch  time.Duration
	SettleAfterScroll  time.Duration
	SettleAfterAdvance time.Duration
	RetryDelays        []time.Duration
}

// PageLimit is the most result pages one harvest visits.
const PageLimit = 5

// DefaultConfig returns the configuration for LinkedIn people search.
func DefaultConfig() Config {
	return Config{
		LandingURL:         "https://www.linkedin.com",
		SearchURL:          "https://www.linkedin.com/search/results/people/",
		ResultsContainer:   `[data-sdui-screen="com.linkedin.sdui.flagshipnav.search.SearchResultsPeople"]`,
		NextButton:         `button[aria-label="Next"]`,
		MaxPages:           PageLimit,
		NavigateTimeout:    30 * time.Second,
		ContainerTimeout:   10 * time.Second,
		SettleAfterSearch:  5 * time.Second,
		SettleAfterScroll:  3 * time.Second,
		SettleAfterAdvance: 3 * time.Second,
		RetryDelays:        DefaultRetryDelays(),
	}
}

// ManualAuthMessage is returned by BeginManualAuth.
const ManualAuthMessage = `Log in to LinkedIn in the opened browser window, then start the harvest.`

// Controller owns the single session of a process and its browser.
type Controller struct {
	Launcher  leadscout.Launcher
	Extractor leadscout.LeadExtractor
	Login     leadscout.LoginDetector
	Locations leadscout.LocationResolver
	Enricher  *Enricher
	Logger    *slog.Logger
	Sleep     SleepFunc
	Config    Config

	mu      sync.Mutex
	session *session
}

// session is the live harvesting context. Fields are guarded by
// Controller.mu; the browser itself is only used by the operation that
// holds busy.
type session struct {
	browser       leadscout.Browser
	state         leadscout.SessionState
	authenticated bool
	busy          bool
	harvesting    bool
	stopped       bool
	page          int
	collected     []leadscout.Lead
}

// NewController returns a Controller with the default configuration.
func NewController(launcher leadscout.Launcher, extractor leadscout.LeadExtractor, login leadscout.LoginDetector, locations leadscout.LocationResolver, enricher *Enricher) *Controller {
	return &Controller{
		Launcher:  launcher,
		Extractor: extractor,
		Login:     login,
		Locations: locations,
		Enricher:  enricher,
		Sleep:     Sleep,
		Config:    DefaultConfig(),
	}
}

// BeginManualAuth launches the browser if needed and opens the landing page
// for a human to log in. It does not wait for the login.
func (c *Controller) BeginManualAuth(ctx context.Context) (*leadscout.AuthResult, error) {
	s, err := c.acquire(false)
	if err != nil {
		return nil, err
	}
	defer c.release(s)

	b, err := c.ensureBrowser(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := b.Navigate(ctx, c.Config.LandingURL, leadscout.WaitNetworkIdle, c.Config.NavigateTimeout); err != nil {
		return nil, fmt.Errorf("opening landing page: %w", err)
	}

	c.mu.Lock()
	if !s.stopped {
		s.state = leadscout.SessionAwaitingManualAuth
	}
	c.mu.Unlock()

	c.logger().Info("manual login requested", "url", c.Config.LandingURL)
	return &leadscout.AuthResult{Message: ManualAuthMessage, ManualMode: true}, nil
}

// CheckAuthenticated reports whether the browser shows a logged-in page.
// While a harvest holds the browser it answers from the cached flag.
func (c *Controller) CheckAuthenticated(ctx context.Context) bool {
	c.mu.Lock()
	if c.session == nil || c.session.browser == nil {
		c.mu.Unlock()
		return false
	}
	if c.session.busy {
		ok := c.session.authenticated
		c.mu.Unlock()
		return ok
	}
	c.mu.Unlock()

	s, err := c.acquire(false)
	if err != nil {
		return false
	}
	defer c.release(s)

	ok := c.checkAuthenticated(ctx, s.browser)
	c.mu.Lock()
	s.authenticated = ok
	if ok && s.state == leadscout.SessionAwaitingManualAuth {
		s.state = leadscout.SessionAuthenticated
	}
	c.mu.Unlock()
	return ok
}

// Harvest collects at most filter.MaxLeads normalized leads. It returns the
// leads collected so far together with ctx.Err() if ctx ends mid-run.
func (c *Controller) Harvest(ctx context.Context, filter leadscout.Filter, events chan<- leadscout.Event) ([]leadscout.Lead, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	s, err := c.acquire(true)
	if err != nil {
		return nil, err
	}
	defer c.release(s)

	emit(events, leadscout.Event{
		Type:    leadscout.EventStarting,
		Message: fmt.Sprintf("Starting harvest: %s in %s", filter.JobTitle, filter.Location),
	})

	leads, err := c.harvest(ctx, s, filter, events)
	if err != nil {
		c.logger().Error("harvest failed", "err", err)
		emit(events, leadscout.Event{
			Type:      leadscout.EventError,
			Message:   fmt.Sprintf("Harvest failed: %s", describe(err)),
			Collected: len(leads),
			Leads:     leads,
		})
		return leads, err
	}

	emit(events, leadscout.Event{
		Type:      leadscout.EventCompleted,
		Message:   fmt.Sprintf("Harvest completed! Found %d leads.", len(leads)),
		Collected: len(leads),
		Leads:     leads,
	})
	return leads, nil
}

func (c *Controller) harvest(ctx context.Context, s *session, filter leadscout.Filter, events chan<- leadscout.Event) ([]leadscout.Lead, error) {
	logger := c.logger()
	cfg := c.Config

	b, err := c.ensureBrowser(ctx, s)
	if err != nil {
		return nil, err
	}

	authenticated := c.checkAuthenticated(ctx, b)
	c.mu.Lock()
	s.authenticated = authenticated
	if authenticated && !s.stopped {
		s.state = leadscout.SessionHarvesting
	}
	c.mu.Unlock()
	if !authenticated {
		return nil, leadscout.Errorf(leadscout.EUNAUTHORIZED, "Please log in to LinkedIn in the session browser first.")
	}

	target := SearchURL(cfg.SearchURL, filter.JobTitle, c.Locations.Resolve(filter.Location))
	logger.Info("starting harvest", "url", target, "maxLeads", filter.MaxLeads)

	if err := retry(ctx, cfg.RetryDelays, c.sleep, logger, "search", func(ctx context.Context) error {
		return b.Navigate(ctx, target, leadscout.WaitDOMContentLoaded, cfg.NavigateTimeout)
	}); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("navigating to search results: %w", err)
	}
	if err := c.sleep(ctx, cfg.SettleAfterSearch); err != nil {
		return nil, err
	}
	if err := b.WaitVisible(ctx, cfg.ResultsContainer, cfg.ContainerTimeout); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("results container not found, continuing", "err", err)
	}

	seen := make(map[string]struct{}, seenHint(filter.MaxLeads, cfg.MaxPages))
	var collected []leadscout.RawLead

	// finish normalizes what has been collected and publishes it to the session.
	finish := func() []leadscout.Lead {
		leads := leadscout.NormalizeLeads(collected)
		c.mu.Lock()
		s.collected = leads
		c.mu.Unlock()
		return leads
	}

	for page := 1; page <= cfg.MaxPages && len(collected) < filter.MaxLeads; page++ {
		if c.stopRequested(s) {
			logger.Info("harvest stopped", "page", page, "collected", len(collected))
			break
		}
		c.mu.Lock()
		s.page = page
		c.mu.Unlock()

		if err := c.processPage(ctx, s, b, filter, page, seen, &collected, events); err != nil {
			return finish(), err
		}
		if len(collected) >= filter.MaxLeads {
			logger.Info("reached lead target", "maxLeads", filter.MaxLeads)
			break
		}
		if page == cfg.MaxPages {
			break
		}

		advanced, err := b.Click(ctx, cfg.NextButton)
		if err != nil {
			if ctx.Err() != nil {
				return finish(), ctx.Err()
			}
			logger.Warn("pagination failed", "page", page, "err", err)
			advanced = false
		}
		if !advanced {
			logger.Info("no more pages", "page", page)
			break
		}
		if err := c.sleep(ctx, cfg.SettleAfterAdvance); err != nil {
			return finish(), err
		}
	}

	leads := finish()
	logger.Info("harvest completed", "leads", len(leads))
	return leads, nil
}

// resultsPerPage is the most results one search page shows.
const resultsPerPage = 10

// seenHint sizes the per-run profile set. maxLeads is caller input and may
// be far larger than a harvest can ever reach.
func seenHint(maxLeads, maxPages int) int {
	return max(0, min(maxLeads, maxPages*resultsPerPage))
}

// processPage extracts, deduplicates, caps and enriches one results page.
// Page-level failures are logged and leave the page empty; only context
// errors are returned.
func (c *Controller) processPage(ctx context.Context, s *session, b leadscout.Browser, filter leadscout.Filter, page int, seen map[string]struct{}, collected *[]leadscout.RawLead, events chan<- leadscout.Event) error {
	logger := c.logger().With("page", page)

	if err := b.ScrollToBottom(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("scroll failed", "err", err)
	}
	if err := c.sleep(ctx, c.Config.SettleAfterScroll); err != nil {
		return err
	}

	html, err := b.HTML(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn("reading results page failed", "err", err)
		return nil
	}
	raw, err := c.Extractor.ExtractLeads(html, filter.Location)
	if err != nil {
		logger.Warn("extraction failed", "err", err)
		return nil
	}

	fresh := make([]leadscout.RawLead, 0, len(raw))
	for _, lead := range raw {
		if lead.HasProfile() {
			if _, ok := seen[lead.ProfileURL]; ok {
				continue
			}
			seen[lead.ProfileURL] = struct{}{}
		}
		fresh = append(fresh, lead)
	}
	if remaining := filter.MaxLeads - len(*collected); len(fresh) > remaining {
		fresh = fresh[:remaining]
	}
	if len(fresh) == 0 {
		logger.Info("no leads found on page")
		return nil
	}
	logger.Info("found leads", "count", len(fresh))

	if c.Enricher != nil {
		fresh = c.Enricher.Enrich(ctx, b, fresh)
	}
	*collected = append(*collected, fresh...)

	c.mu.Lock()
	s.collected = leadscout.NormalizeLeads(*collected)
	c.mu.Unlock()

	emit(events, leadscout.Event{
		Type:      leadscout.EventProgress,
		Message:   fmt.Sprintf("Found %d leads on page %d", len(fresh), page),
		Page:      page,
		Collected: len(*collected),
	})
	return ctx.Err()
}

// Stop ends the session. If an operation holds the browser, the browser is
// released when that operation returns; otherwise it is released now.
func (c *Controller) Stop() error {
	c.mu.Lock()
	s := c.session
	if s == nil {
		c.mu.Unlock()
		return nil
	}
	s.stopped = true
	s.state = leadscout.SessionStopped
	if s.busy {
		c.mu.Unlock()
		c.logger().Info("stop requested, waiting for harvest to yield")
		return nil
	}
	c.session = nil
	c.mu.Unlock()

	return c.close(s)
}

// Status returns a snapshot of the session flags.
func (c *Controller) Status() leadscout.SessionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.session
	if s == nil {
		return leadscout.SessionStatus{State: leadscout.SessionIdle}
	}
	return leadscout.SessionStatus{
		State:         s.state,
		Authenticated: s.authenticated,
		Harvesting:    s.harvesting,
		CurrentPage:   s.page,
		Collected:     len(s.collected),
	}
}

// Collected returns the normalized leads of the current or last harvest of
// the live session.
func (c *Controller) Collected() []leadscout.Lead {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return append([]leadscout.Lead(nil), c.session.collected...)
}

// acquire marks the session busy, creating it if needed.
func (c *Controller) acquire(harvest bool) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s := c.session; s != nil && s.busy {
		if s.harvesting {
			return nil, leadscout.Errorf(leadscout.ECONFLICT, "Harvest already in progress.")
		}
		return nil, leadscout.Errorf(leadscout.ECONFLICT, "Session browser is busy.")
	}
	if c.session == nil {
		c.session = &session{state: leadscout.SessionIdle}
	}
	s := c.session
	s.busy = true
	if harvest {
		s.harvesting = true
		s.page = 0
		s.collected = nil
	}
	return s, nil
}

// release clears the busy mark and finishes a stop requested meanwhile.
func (c *Controller) release(s *session) {
	c.mu.Lock()
	s.busy = false
	s.harvesting = false
	if s.state == leadscout.SessionHarvesting {
		s.state = leadscout.SessionAuthenticated
	}
	stopped := s.stopped
	if stopped && c.session == s {
		c.session = nil
	}
	c.mu.Unlock()

	if stopped {
		if err := c.close(s); err != nil {
			c.logger().Warn("closing browser failed", "err", err)
		}
	}
}

func (c *Controller) ensureBrowser(ctx context.Context, s *session) (leadscout.Browser, error) {
	if s.browser != nil {
		return s.browser, nil
	}
	b, err := c.Launcher.Launch(ctx)
	if err != nil {
		return nil, leadscout.Errorf(leadscout.EUNAVAILABLE, "Failed to start browser: %v", err)
	}
	c.mu.Lock()
	s.browser = b
	c.mu.Unlock()
	return b, nil
}

func (c *Controller) close(s *session) error {
	c.mu.Lock()
	b := s.browser
	s.browser = nil
	c.mu.Unlock()
	if b == nil {
		return nil
	}
	return b.Close()
}

func (c *Controller) checkAuthenticated(ctx context.Context, b leadscout.Browser) bool {
	current, err := b.URL(ctx)
	if err != nil {
		return false
	}
	if !strings.Contains(current, "/feed") && !strings.Contains(current, "/search") && strings.Contains(current, "login") {
		return false
	}
	html, err := b.HTML(ctx)
	if err != nil {
		return false
	}
	hasForm, err := c.Login.HasLoginForm(html)
	if err != nil {
		return false
	}
	return !hasForm
}

func (c *Controller) stopRequested(s *session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return s.stopped
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	if c.Sleep == nil {
		return Sleep(ctx, d)
	}
	return c.Sleep(ctx, d)
}

func (c *Controller) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// SearchURL builds the people-search address for a job title and geo code.
func SearchURL(base, jobTitle, geoCode string) string {
	keywords := strings.ReplaceAll(url.QueryEscape(jobTitle), "+", "%20")
	return fmt.Sprintf("%s?keywords=%s&origin=FACETED_SEARCH&geoUrn=%%5B%%22%s%%22%%5D", base, keywords, url.QueryEscape(geoCode))
}

// emit sends e without blocking. Events are dropped when the channel is full.
func emit(events chan<- leadscout.Event, e leadscout.Event) {
	if events == nil {
		return
	}
	select {
	case events <- e:
	default:
	}
}

func describe(err error) string {
	if code := leadscout.ErrorCode(err); code != leadscout.EINTERNAL {
		return leadscout.ErrorMessage(err)
	}
	return err.Error()
}
