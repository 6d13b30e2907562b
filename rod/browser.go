// Package rod implements the session browser with Chrome browser automation.
package rod

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/fwojciec/leadscout"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Browser implements leadscout.Browser at compile time.
var _ leadscout.Browser = (*Browser)(nil)

// networkIdle is how long the network must stay quiet for WaitNetworkIdle.
const networkIdle = 500 * time.Millisecond

const clickScript = `(sel) => {
	const el = document.querySelector(sel);
	if (el && !el.disabled) {
		el.click();
		return true;
	}
	return false;
}`

// Browser is a single Chrome tab. It is not safe for concurrent use; the
// session that owns it serializes all calls.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	closed   atomic.Bool
}

func (b *Browser) configure(userAgent string, width, height int) error {
	if err := b.page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: userAgent}); err != nil {
		return fmt.Errorf("setting user agent: %w", err)
	}
	if err := b.page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return fmt.Errorf("setting viewport: %w", err)
	}
	return nil
}

// Navigate loads url and waits for the given lifecycle point, up to timeout.
func (b *Browser) Navigate(ctx context.Context, url string, wait leadscout.WaitCondition, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p := b.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	switch wait {
	case leadscout.WaitDOMContentLoaded:
		waitDOM := p.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
		if err := p.Navigate(url); err != nil {
			return fmt.Errorf("navigating to %s: %w", url, err)
		}
		waitDOM()
	case leadscout.WaitNetworkIdle:
		waitIdle := p.WaitRequestIdle(networkIdle, nil, nil, nil)
		if err := p.Navigate(url); err != nil {
			return fmt.Errorf("navigating to %s: %w", url, err)
		}
		waitIdle()
	default:
		if err := p.Navigate(url); err != nil {
			return fmt.Errorf("navigating to %s: %w", url, err)
		}
		if err := p.WaitLoad(); err != nil {
			return fmt.Errorf("waiting for %s: %w", url, err)
		}
	}
	return ctx.Err()
}

// WaitVisible waits up to timeout for selector to match a visible element.
func (b *Browser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	p := b.page.Context(ctx).Timeout(timeout)
	defer p.CancelTimeout()

	el, err := p.Element(selector)
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", selector, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fmt.Errorf("waiting for %s to be visible: %w", selector, err)
	}
	return nil
}

// URL returns the address of the current page.
func (b *Browser) URL(ctx context.Context) (string, error) {
	info, err := b.page.Context(ctx).Info()
	if err != nil {
		return "", fmt.Errorf("reading page info: %w", err)
	}
	return info.URL, nil
}

// HTML returns the rendered HTML of the current page.
func (b *Browser) HTML(ctx context.Context) (string, error) {
	html, err := b.page.Context(ctx).HTML()
	if err != nil {
		return "", fmt.Errorf("reading page HTML: %w", err)
	}
	return html, nil
}

// ScrollBy scrolls the page vertically by dy pixels.
func (b *Browser) ScrollBy(ctx context.Context, dy int) error {
	if _, err := b.page.Context(ctx).Eval(`(dy) => window.scrollBy(0, dy)`, dy); err != nil {
		return fmt.Errorf("scrolling: %w", err)
	}
	return nil
}

// ScrollToBottom scrolls to the end of the document.
func (b *Browser) ScrollToBottom(ctx context.Context) error {
	if _, err := b.page.Context(ctx).Eval(`() => window.scrollTo(0, document.body.scrollHeight)`); err != nil {
		return fmt.Errorf("scrolling to bottom: %w", err)
	}
	return nil
}

// Back navigates one step back in history and waits for the page to load.
func (b *Browser) Back(ctx context.Context) error {
	p := b.page.Context(ctx)
	if err := p.NavigateBack(); err != nil {
		return fmt.Errorf("navigating back: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("waiting after back: %w", err)
	}
	return nil
}

// Click clicks the first element matching selector unless it is missing or
// disabled. It reports whether a click happened.
func (b *Browser) Click(ctx context.Context, selector string) (bool, error) {
	res, err := b.page.Context(ctx).Eval(clickScript, selector)
	if err != nil {
		return false, fmt.Errorf("clicking %s: %w", selector, err)
	}
	return res.Value.Bool(), nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (b *Browser) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := b.browser.Close()
	b.launcher.Kill()
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (b *Browser) LauncherPID() int {
	return b.launcher.PID()
}
