// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package browser drives a real browser session against the X web
// interface and exposes rendered timelines as observation sources for the
// collector. All extraction is best effort per field: a post that cannot be
// read is simply absent from the batch.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"github.com/pdiddy/feedpulse/pkg/types"
)

// Session owns one launched browser and its single page. A persistent
// user-data directory keeps the login alive between runs.
type Session struct {
	cfg      types.BrowserConfig
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	log      zerolog.Logger
}

// NewSession launches a browser and opens a blank page. Call Close when
// done; a failed launch cleans up after itself.
func NewSession(cfg types.BrowserConfig, log zerolog.Logger) (*Session, error) {
	l := launcher.New().Headless(cfg.Headless)
	if cfg.UserDataDir != "" {
		l = l.UserDataDir(cfg.UserDataDir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if cfg.SlowMo > 0 {
		b = b.SlowMotion(cfg.SlowMo)
	}
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		l.Kill()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	log.Info().Bool("headless", cfg.Headless).Msg("browser started")

	return &Session{
		cfg:      cfg,
		launcher: l,
		browser:  b,
		page:     page,
		log:      log,
	}, nil
}

// Close shuts down the browser and its launcher.
func (s *Session) Close() error {
	err := s.browser.Close()
	s.launcher.Kill()
	return err
}

// EnsureLoggedIn navigates to the home timeline and waits until the page
// shows a logged-in account. With a visible browser this gives the operator
// time to log in by hand; headless sessions rely on the persistent profile.
func (s *Session) EnsureLoggedIn(ctx context.Context) error {
	if err := s.navigate(homeURL); err != nil {
		return err
	}

	deadline := time.Now().Add(s.cfg.LoginTimeout)
	warned := false
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}

		loggedIn, _, err := s.page.Has(selAccountSwitcher)
		if err == nil && loggedIn {
			s.log.Info().Msg("login verified")
			return nil
		}

		if !warned {
			if loggedOut, _, err := s.page.Has(selLoginButton); err == nil && loggedOut {
				s.log.Warn().
					Dur("timeout", s.cfg.LoginTimeout).
					Msg("not logged in, waiting for manual login")
				warned = true
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	return fmt.Errorf("login not established within %s", s.cfg.LoginTimeout)
}

// navigate loads url and waits for the document to finish loading, both
// bounded by the configured navigation timeout.
func (s *Session) navigate(url string) error {
	page := s.page.Timeout(s.cfg.NavTimeout)
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("waiting for %s to load: %w", url, err)
	}
	return nil
}

// currentURL reports the page's URL, empty on error.
func (s *Session) currentURL() string {
	info, err := s.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}
