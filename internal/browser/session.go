// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser owns the headless Chrome session used for rendered-page
// snapshots and mirror lookups. One Session serves a whole run; every call
// works on a fresh page that is closed before the call returns.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"go.uber.org/zap"

	"github.com/pdiddy/reference-archive/pkg/types"
)

// Session is a connected Chrome instance.
type Session struct {
	cfg      types.BrowserConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
	logger   *zap.Logger
}

// Launch starts Chrome and connects to it. The caller must Close the
// returned Session.
func Launch(ctx context.Context, cfg types.BrowserConfig, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := types.DefaultArchiveConfig().Browser
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = defaults.NavigationTimeout
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaults.IdleTimeout
	}

	l := launcher.New().Context(ctx).Headless(cfg.Headless)
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	logger.Debug("browser started",
		zap.String("control_url", controlURL),
		zap.Bool("headless", cfg.Headless),
		zap.Bool("stealth", cfg.Stealth))

	return &Session{
		cfg:      cfg,
		launcher: l,
		browser:  b,
		logger:   logger,
	}, nil
}

// Close shuts Chrome down and removes its profile directory.
func (s *Session) Close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	s.launcher.Cleanup()
	if err != nil {
		return fmt.Errorf("close chrome: %w", err)
	}
	return nil
}

// CaptureSnapshot loads url, waits for network activity to settle plus the
// configured grace period, and returns an MHTML snapshot of the page.
func (s *Session) CaptureSnapshot(ctx context.Context, url string) (string, error) {
	page, err := s.newPage()
	if err != nil {
		return "", err
	}
	defer s.closePage(page)

	p := page.Context(ctx)

	idlePage := p.Timeout(s.cfg.IdleTimeout)
	defer idlePage.CancelTimeout()
	navPage := p.Timeout(s.cfg.NavigationTimeout)
	defer navPage.CancelTimeout()

	// Subscribe before navigating so the idle event cannot be missed.
	idle := idlePage.WaitNavigation(proto.PageLifecycleEventNameNetworkIdle)
	if err := navPage.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}
	idle()
	// idle returns quietly when its deadline passes.
	if err := idlePage.GetContext().Err(); err != nil {
		return "", fmt.Errorf("wait for network idle on %s: %w", url, err)
	}

	// Some pages fade content in with an animation after the network settles.
	if err := sleep(ctx, s.cfg.SettleGrace); err != nil {
		return "", err
	}

	res, err := proto.PageCaptureSnapshot{Format: proto.PageCaptureSnapshotFormatMhtml}.Call(p)
	if err != nil {
		return "", fmt.Errorf("capture snapshot of %s: %w", url, err)
	}
	s.logger.Debug("snapshot captured", zap.String("url", url), zap.Int("bytes", len(res.Data)))
	return res.Data, nil
}

// RenderHTML loads url, waits for the load event, and returns the page's
// serialized DOM. It does not wait for network idle because some sites keep
// background connections open indefinitely.
func (s *Session) RenderHTML(ctx context.Context, url string) (string, error) {
	page, err := s.newPage()
	if err != nil {
		return "", err
	}
	defer s.closePage(page)

	p := page.Context(ctx).Timeout(s.cfg.NavigationTimeout)
	defer p.CancelTimeout()
	if err := p.Navigate(url); err != nil {
		return "", fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return "", fmt.Errorf("wait load %s: %w", url, err)
	}
	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("read html of %s: %w", url, err)
	}
	return html, nil
}

func (s *Session) newPage() (*rod.Page, error) {
	var (
		page *rod.Page
		err  error
	)
	if s.cfg.Stealth {
		page, err = stealth.Page(s.browser)
	} else {
		page, err = s.browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return page, nil
}

func (s *Session) closePage(page *rod.Page) {
	if err := page.Close(); err != nil {
		s.logger.Debug("closing page", zap.Error(err))
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
