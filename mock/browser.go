package mock

import (
	"context"
	"time"

	"github.com/fwojciec/leadscout"
)

var (
	_ leadscout.Browser  = (*Browser)(nil)
	_ leadscout.Launcher = (*Launcher)(nil)
)

// Browser is a mock implementation of leadscout.Browser.
type Browser struct {
	NavigateFn       func(ctx context.Context, url string, wait leadscout.WaitCondition, timeout time.Duration) error
	WaitVisibleFn    func(ctx context.Context, selector string, timeout time.Duration) error
	URLFn            func(ctx context.Context) (string, error)
	HTMLFn           func(ctx context.Context) (string, error)
	ScrollByFn       func(ctx context.Context, dy int) error
	ScrollToBottomFn func(ctx context.Context) error
	BackFn           func(ctx context.Context) error
	ClickFn          func(ctx context.Context, selector string) (bool, error)
	CloseFn          func() error
}

func (b *Browser) Navigate(ctx context.Context, url string, wait leadscout.WaitCondition, timeout time.Duration) error {
	return b.NavigateFn(ctx, url, wait, timeout)
}

func (b *Browser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return b.WaitVisibleFn(ctx, selector, timeout)
}

func (b *Browser) URL(ctx context.Context) (string, error) {
	return b.URLFn(ctx)
}

func (b *Browser) HTML(ctx context.Context) (string, error) {
	return b.HTMLFn(ctx)
}

func (b *Browser) ScrollBy(ctx context.Context, dy int) error {
	return b.ScrollByFn(ctx, dy)
}

func (b *Browser) ScrollToBottom(ctx context.Context) error {
	return b.ScrollToBottomFn(ctx)
}

func (b *Browser) Back(ctx context.Context) error {
	return b.BackFn(ctx)
}

func (b *Browser) Click(ctx context.Context, selector string) (bool, error) {
	return b.ClickFn(ctx, selector)
}

func (b *Browser) Close() error {
	return b.CloseFn()
}

// Launcher is a mock implementation of leadscout.Launcher.
type Launcher struct {
	LaunchFn func(ctx context.Context) (leadscout.Browser, error)
}

func (l *Launcher) Launch(ctx context.Context) (leadscout.Browser, error) {
	return l.LaunchFn(ctx)
}
