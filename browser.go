package leadscout

import (
	"context"
	"time"
)

// WaitCondition selects the page lifecycle point Navigate waits for.
type WaitCondition int

// Wait conditions for Navigate.
const (
	WaitLoad WaitCondition = iota
	WaitDOMContentLoaded
	WaitNetworkIdle
)

// Browser is the rendering capability a session drives: a single browser tab.
// A Browser is single-occupancy; callers must not issue overlapping calls.
type Browser interface {
	// Navigate loads url and waits for the given condition, up to timeout.
	Navigate(ctx context.Context, url string, wait WaitCondition, timeout time.Duration) error

	// WaitVisible waits up to timeout for selector to match a visible element.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error

	// URL returns the address of the current page.
	URL(ctx context.Context) (string, error)

	// HTML returns the rendered HTML of the current page.
	HTML(ctx context.Context) (string, error)

	// ScrollBy scrolls the page vertically by dy pixels.
	ScrollBy(ctx context.Context, dy int) error

	// ScrollToBottom scrolls to the end of the document.
	ScrollToBottom(ctx context.Context) error

	// Back navigates one step back in history.
	Back(ctx context.Context) error

	// Click clicks the first element matching selector if it exists and is
	// enabled. It reports whether a click happened.
	Click(ctx context.Context, selector string) (bool, error)

	// Close releases browser resources. Close is safe to call multiple times.
	Close() error
}

// Launcher creates Browsers.
type Launcher interface {
	// Launch starts a browser and returns a handle to its single tab.
	Launch(ctx context.Context) (Browser, error)
}
