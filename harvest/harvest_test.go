package harvest_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/harvest"
	"github.com/fwojciec/leadscout/mock"
)

const feedURL = "https://www.linkedin.com/feed/"

// fakeSite simulates a logged-in browser tab over paginated search results
// and profile pages.
type fakeSite struct {
	mu sync.Mutex

	url     string
	history []string
	page    int

	pages        [][]leadscout.RawLead
	contacts     map[string]leadscout.Contact
	failNavigate map[string]int // url -> remaining failures
	loginForm    bool

	navigations []string
	closed      int
}

func newFakeSite(pages ...[]leadscout.RawLead) *fakeSite {
	return &fakeSite{
		url:          feedURL,
		pages:        pages,
		contacts:     make(map[string]leadscout.Contact),
		failNavigate: make(map[string]int),
	}
}

func (f *fakeSite) browser() *mock.Browser {
	return &mock.Browser{
		NavigateFn: func(ctx context.Context, url string, wait leadscout.WaitCondition, timeout time.Duration) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.navigations = append(f.navigations, url)
			if n := f.failNavigate[url]; n != 0 {
				if n > 0 {
					f.failNavigate[url] = n - 1
				}
				return errors.New("navigation timeout")
			}
			f.history = append(f.history, f.url)
			f.url = url
			if strings.Contains(url, "/search/") {
				f.page = 0
			}
			return nil
		},
		WaitVisibleFn: func(ctx context.Context, selector string, timeout time.Duration) error {
			return nil
		},
		URLFn: func(ctx context.Context) (string, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.url, nil
		},
		HTMLFn: func(ctx context.Context) (string, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if strings.Contains(f.url, "/search/") {
				return "results:" + strconv.Itoa(f.page), nil
			}
			if f.loginForm {
				return "login-form", nil
			}
			return "profile:" + f.url, nil
		},
		ScrollByFn:       func(ctx context.Context, dy int) error { return nil },
		ScrollToBottomFn: func(ctx context.Context) error { return nil },
		BackFn: func(ctx context.Context) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			if len(f.history) == 0 {
				return errors.New("no history")
			}
			f.url = f.history[len(f.history)-1]
			f.history = f.history[:len(f.history)-1]
			return nil
		},
		ClickFn: func(ctx context.Context, selector string) (bool, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.page+1 >= len(f.pages) {
				return false, nil
			}
			f.page++
			return true, nil
		},
		CloseFn: func() error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.closed++
			return nil
		},
	}
}

func (f *fakeSite) extractor() *mock.LeadExtractor {
	return &mock.LeadExtractor{
		ExtractLeadsFn: func(html string, fallbackLocation string) ([]leadscout.RawLead, error) {
			n, ok := strings.CutPrefix(html, "results:")
			if !ok {
				return nil, nil
			}
			i, _ := strconv.Atoi(n)
			f.mu.Lock()
			defer f.mu.Unlock()
			if i >= len(f.pages) {
				return nil, nil
			}
			return append([]leadscout.RawLead(nil), f.pages[i]...), nil
		},
	}
}

func (f *fakeSite) contactExtractor() *mock.ContactExtractor {
	return &mock.ContactExtractor{
		ExtractContactFn: func(html string) (leadscout.Contact, error) {
			profile, _ := strings.CutPrefix(html, "profile:")
			f.mu.Lock()
			defer f.mu.Unlock()
			if c, ok := f.contacts[profile]; ok {
				return c, nil
			}
			return leadscout.Contact{Email: leadscout.Unavailable, Phone: leadscout.Unavailable}, nil
		},
	}
}

func (f *fakeSite) loginDetector() *mock.LoginDetector {
	return &mock.LoginDetector{
		HasLoginFormFn: func(html string) (bool, error) {
			return html == "login-form", nil
		},
	}
}

func (f *fakeSite) profileVisits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.navigations {
		if strings.Contains(u, "/in/") {
			n++
		}
	}
	return n
}

func (f *fakeSite) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func rawLead(name string) leadscout.RawLead {
	l := leadscout.NewRawLead()
	l.Name = name
	l.Title = "Engineer"
	l.ProfileURL = "https://www.linkedin.com/in/" + strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return l
}

func rawLeads(prefix string, n int) []leadscout.RawLead {
	leads := make([]leadscout.RawLead, n)
	for i := range leads {
		leads[i] = rawLead(fmt.Sprintf("%s Person%d", prefix, i))
	}
	return leads
}

func noSleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

// newController wires a Controller to site with instant settle delays.
func newController(site *fakeSite) (*harvest.Controller, *mock.Launcher) {
	launcher := &mock.Launcher{
		LaunchFn: func(ctx context.Context) (leadscout.Browser, error) {
			return site.browser(), nil
		},
	}
	enricher := harvest.NewEnricher(site.contactExtractor(), nil)
	enricher.Sleep = noSleep

	c := harvest.NewController(
		launcher,
		site.extractor(),
		site.loginDetector(),
		&mock.LocationResolver{ResolveFn: func(text string) string { return "103644278" }},
		enricher,
	)
	c.Sleep = noSleep
	return c, launcher
}

func drain(events chan leadscout.Event) []leadscout.Event {
	var out []leadscout.Event
	for {
		select {
		case e := <-events:
			out = append(out, e)
		default:
			return out
		}
	}
}
