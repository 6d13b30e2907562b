package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/leadscout"
)

var (
	_ leadscout.Browser  = (*LoggingBrowser)(nil)
	_ leadscout.Launcher = (*LoggingLauncher)(nil)
)

// LoggingLauncher wraps a Launcher so every Browser it creates is logged.
type LoggingLauncher struct {
	next   leadscout.Launcher
	logger *slog.Logger
}

// NewLoggingLauncher creates a new LoggingLauncher.
func NewLoggingLauncher(next leadscout.Launcher, logger *slog.Logger) *LoggingLauncher {
	return &LoggingLauncher{next: next, logger: logger}
}

// Launch logs the launch and wraps the returned Browser.
func (l *LoggingLauncher) Launch(ctx context.Context) (b leadscout.Browser, err error) {
	defer func(begin time.Time) {
		l.logger.Info("launch",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	b, err = l.next.Launch(ctx)
	if err != nil {
		return nil, err
	}
	return NewLoggingBrowser(b, l.logger), nil
}

// LoggingBrowser wraps a Browser with debug logging of navigation calls.
// Reads (URL, HTML) are logged at debug level.
type LoggingBrowser struct {
	next   leadscout.Browser
	logger *slog.Logger
}

// NewLoggingBrowser creates a new LoggingBrowser.
func NewLoggingBrowser(next leadscout.Browser, logger *slog.Logger) *LoggingBrowser {
	return &LoggingBrowser{next: next, logger: logger}
}

func (b *LoggingBrowser) Navigate(ctx context.Context, url string, wait leadscout.WaitCondition, timeout time.Duration) (err error) {
	defer func(begin time.Time) {
		b.logger.Info("navigate",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Navigate(ctx, url, wait, timeout)
}

func (b *LoggingBrowser) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (err error) {
	defer func(begin time.Time) {
		b.logger.Info("wait visible",
			"selector", selector,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.WaitVisible(ctx, selector, timeout)
}

func (b *LoggingBrowser) URL(ctx context.Context) (url string, err error) {
	defer func() {
		b.logger.Debug("url", "url", url, "err", err)
	}()
	return b.next.URL(ctx)
}

func (b *LoggingBrowser) HTML(ctx context.Context) (html string, err error) {
	defer func(begin time.Time) {
		b.logger.Debug("html",
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.HTML(ctx)
}

func (b *LoggingBrowser) ScrollBy(ctx context.Context, dy int) error {
	return b.next.ScrollBy(ctx, dy)
}

func (b *LoggingBrowser) ScrollToBottom(ctx context.Context) error {
	return b.next.ScrollToBottom(ctx)
}

func (b *LoggingBrowser) Back(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		b.logger.Info("back",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Back(ctx)
}

func (b *LoggingBrowser) Click(ctx context.Context, selector string) (clicked bool, err error) {
	defer func() {
		b.logger.Info("click",
			"selector", selector,
			"clicked", clicked,
			"err", err,
		)
	}()
	return b.next.Click(ctx, selector)
}

func (b *LoggingBrowser) Close() (err error) {
	defer func() {
		b.logger.Info("close browser", "err", err)
	}()
	return b.next.Close()
}
