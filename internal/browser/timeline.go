// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package browser

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/pdiddy/feedpulse/internal/views"
	"github.com/pdiddy/feedpulse/pkg/types"
)

// metricTokens matches count-looking tokens inside the engagement metrics
// group, the fallback when no analytics link carries the view count.
var metricTokens = regexp.MustCompile(`(?i)[\d,.]+[KMB]?`)

// Timeline exposes one rendered timeline page as an observation source.
type Timeline struct {
	session      *Session
	name         string
	scrollPixels int
	scrollDelay  time.Duration
}

// Name identifies the timeline in stats and logs.
func (t *Timeline) Name() string { return t.name }

// Observations extracts a best-effort tuple from every post currently in
// the DOM. A post whose status link cannot be read is dropped from the
// batch; all other fields degrade to their zero values.
func (t *Timeline) Observations() ([]types.Observation, error) {
	posts, err := t.session.page.Elements(selPost)
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}

	obs := make([]types.Observation, 0, len(posts))
	for _, post := range posts {
		o, ok := extractPost(post)
		if !ok {
			continue
		}
		obs = append(obs, o)
	}
	return obs, nil
}

// Advance scrolls the timeline forward and waits for new content to render.
func (t *Timeline) Advance(ctx context.Context) error {
	var opts rod.EvalOptions
	opts.JS = fmt.Sprintf("() => window.scrollBy(0, %d)", t.scrollPixels)
	if _, err := t.session.page.Timeout(3 * time.Second).Evaluate(&opts); err != nil {
		return fmt.Errorf("scrolling: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(t.scrollDelay):
		return nil
	}
}

// extractPost reads one article element into an observation. The status
// link is the only required field.
func extractPost(post *rod.Element) (types.Observation, bool) {
	var o types.Observation

	hasLink, link, err := post.Has(selStatusLink)
	if err != nil || !hasLink {
		return o, false
	}
	href, err := link.Attribute("href")
	if err != nil || href == nil {
		return o, false
	}
	o.URL = *href

	o.RepostMarker = extractRepostMarker(post)
	o.NestedPost, _, _ = post.Has(selNestedPost)
	o.QuoteCard, o.QuotedURL = extractQuoteCard(post)
	o.Timestamp = extractTimestamp(post)
	o.Views = extractViews(post)
	o.Username = extractUsername(post)
	o.Content = extractContent(post)

	return o, true
}

// extractRepostMarker reports whether the post carries a social context
// announcing a repost. The Korean UI label is matched as well.
func extractRepostMarker(post *rod.Element) bool {
	has, ctxEl, err := post.Has(selSocialContext)
	if err != nil || !has {
		return false
	}
	text, err := ctxEl.Text()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(text), "reposted") ||
		strings.Contains(text, "님이 리포스트")
}

// extractQuoteCard detects a card-style quote (a clickable preview holding
// a status link) and returns the quoted post's href when present.
func extractQuoteCard(post *rod.Element) (bool, string) {
	has, card, err := post.Has(selQuoteCard)
	if err != nil || !has {
		return false, ""
	}
	hasLink, link, err := card.Has(selStatusLink)
	if err != nil || !hasLink {
		return false, ""
	}
	href, err := link.Attribute("href")
	if err != nil || href == nil {
		return true, ""
	}
	return true, *href
}

func extractTimestamp(post *rod.Element) string {
	has, timeEl, err := post.Has(selTimestamp)
	if err != nil || !has {
		return ""
	}
	text, err := timeEl.Text()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// extractViews prefers the analytics link text; when absent it scans the
// engagement metrics group for the first count-looking token above 100,
// since small tokens there are replies or reposts rather than views.
func extractViews(post *rod.Element) string {
	if has, link, err := post.Has(selAnalyticsLink); err == nil && has {
		if text, err := link.Text(); err == nil {
			if _, ok := views.Parse(text); ok {
				return strings.TrimSpace(text)
			}
		}
	}

	has, group, err := post.Has(selMetricsGroup)
	if err != nil || !has {
		return ""
	}
	text, err := group.Text()
	if err != nil {
		return ""
	}
	for _, token := range metricTokens.FindAllString(text, -1) {
		if n, ok := views.Parse(token); ok && n > 100 {
			return token
		}
	}
	return ""
}

// extractUsername derives the handle from the first profile link in the
// user-name block.
func extractUsername(post *rod.Element) string {
	has, nameEl, err := post.Has(selUserName)
	if err != nil || !has {
		return ""
	}
	hasLink, link, err := nameEl.Has(selHandleLink)
	if err != nil || !hasLink {
		return ""
	}
	href, err := link.Attribute("href")
	if err != nil || href == nil {
		return ""
	}
	handle := strings.Trim(*href, "/")
	if i := strings.IndexByte(handle, '/'); i >= 0 {
		handle = handle[:i]
	}
	return handle
}

func extractContent(post *rod.Element) string {
	if has, textEl, err := post.Has(selTweetText); err == nil && has {
		if text, err := textEl.Text(); err == nil && text != "" {
			return strings.TrimSpace(text)
		}
	}
	// Posts without the tweetText testid still carry a language-tagged body.
	if has, langEl, err := post.Has(selLangDiv); err == nil && has {
		if text, err := langEl.Text(); err == nil {
			return strings.TrimSpace(text)
		}
	}
	return ""
}
