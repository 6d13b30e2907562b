package rod

import (
	"context"
	"fmt"

	"github.com/fwojciec/leadscout"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Launcher implements leadscout.Launcher at compile time.
var _ leadscout.Launcher = (*Launcher)(nil)

// DefaultUserAgent is sent by every page unless overridden.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Launcher starts Chrome and opens the single tab a session drives.
type Launcher struct {
	// Headless hides the browser window. Manual login needs a visible window.
	Headless bool

	// UserDataDir keeps cookies between launches so a manual login survives
	// restarts. Empty uses a temporary profile.
	UserDataDir string

	// UserAgent overrides DefaultUserAgent when set.
	UserAgent string

	// Width and Height set the viewport. Zero means 1280x720.
	Width  int
	Height int
}

// Launch starts a browser and returns a handle to its tab.
// Returns an error if Chrome/Chromium cannot be found or launched.
// The browser outlives ctx; only Close releases it.
func (l *Launcher) Launch(ctx context.Context) (leadscout.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-accelerated-2d-canvas").
		Set("disable-gpu").
		Set("no-first-run").
		NoSandbox(true).
		Leakless(true).
		Headless(l.Headless)
	if l.UserDataDir != "" {
		lnchr = lnchr.UserDataDir(l.UserDataDir)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		lnchr.Kill()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	b := &Browser{browser: browser, launcher: lnchr, page: page}
	width, height := l.Viewport()
	if err := b.configure(l.userAgent(), width, height); err != nil {
		_ = b.Close()
		return nil, err
	}
	return b, nil
}

func (l *Launcher) userAgent() string {
	if l.UserAgent != "" {
		return l.UserAgent
	}
	return DefaultUserAgent
}

// Viewport returns the configured viewport size, 1280x720 when unset.
func (l *Launcher) Viewport() (int, int) {
	if l.Width <= 0 || l.Height <= 0 {
		return 1280, 720
	}
	return l.Width, l.Height
}
