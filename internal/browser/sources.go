// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/pdiddy/feedpulse/pkg/types"
)

// Following navigates to the home timeline, switches to the Following tab
// if needed, and returns it as an observation source.
func (s *Session) Following(cfg types.CollectorConfig) (*Timeline, error) {
	if err := s.navigate(homeURL); err != nil {
		return nil, err
	}
	s.ensureFollowingTab()
	return s.timeline("following", cfg), nil
}

// Notifications navigates to the notifications page and returns it as an
// observation source.
func (s *Session) Notifications(cfg types.CollectorConfig) (*Timeline, error) {
	if err := s.navigate(notificationsURL); err != nil {
		return nil, err
	}
	return s.timeline("notifications", cfg), nil
}

// NotificationsGroup drills into the first "New post" notification group at
// the top of the notifications page and returns the expanded view as a
// mini-timeline. Returns (nil, nil) when no such group exists; repeated
// sightings inside a group are what frequency promotion keys on.
//
// Call this while the notifications page is open.
func (s *Session) NotificationsGroup(cfg types.CollectorConfig) (*Timeline, error) {
	cells, err := s.page.Elements(selNotificationCell)
	if err != nil {
		return nil, fmt.Errorf("querying notification cells: %w", err)
	}

	for _, cell := range cells {
		text, err := cell.Text()
		if err != nil {
			continue
		}
		lower := strings.ToLower(text)
		if !strings.Contains(lower, "new post") &&
			!strings.Contains(lower, "post notification") &&
			!strings.Contains(lower, "posted") {
			continue
		}

		// A cell that already holds a status link is an expanded tweet, not
		// a collapsed group.
		if hasLink, _, err := cell.Has(selStatusLink); err != nil || hasLink {
			continue
		}

		s.log.Info().Str("cell", truncate(text, 60)).Msg("drilling into notification group")

		before := s.currentURL()
		if err := cell.Click(proto.InputMouseButtonLeft, 1); err != nil {
			return nil, fmt.Errorf("clicking notification group: %w", err)
		}
		time.Sleep(2 * time.Second)

		if s.currentURL() == before {
			s.log.Warn().Msg("notification group click did not navigate")
			return nil, nil
		}

		return s.timeline("notifications_group", cfg), nil
	}

	s.log.Info().Msg("no collapsed notification group found")
	return nil, nil
}

// ensureFollowingTab clicks the Following tab when the home timeline opened
// on For You. Best effort: the home timeline is still usable without it.
func (s *Session) ensureFollowingTab() {
	has, tab, err := s.page.Has(selFollowingTab)
	if err != nil || !has {
		return
	}
	selected, err := tab.Attribute("aria-selected")
	if err == nil && selected != nil && *selected == "true" {
		return
	}
	if err := tab.Click(proto.InputMouseButtonLeft, 1); err != nil {
		s.log.Warn().Err(err).Msg("could not switch to Following tab")
		return
	}
	time.Sleep(time.Second)
	s.log.Info().Msg("switched to Following tab")
}

func (s *Session) timeline(name string, cfg types.CollectorConfig) *Timeline {
	return &Timeline{
		session:      s,
		name:         name,
		scrollPixels: cfg.ScrollPixels,
		scrollDelay:  cfg.ScrollDelay,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
