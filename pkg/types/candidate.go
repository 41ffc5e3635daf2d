// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the feedpulse pipeline:
// raw post observations, collection candidates, run results, and per-stage
// configuration.
package types

import "time"

// EventType classifies the relationship of an observed timeline item to its
// underlying post.
type EventType string

const (
	EventOriginal EventType = "original"
	EventRepost   EventType = "repost"
	EventQuote    EventType = "quote"
)

// ViewCount is an engagement figure attached to a candidate. A nil
// *ViewCount means the count was not observed on the page. Synthetic counts
// are assigned by frequency promotion for ranking purposes only and must
// never be reported as real engagement data.
type ViewCount struct {
	// Count is the number of views.
	Count int `json:"count" yaml:"count"`

	// Synthetic is true when the count was fabricated by frequency
	// promotion rather than parsed from the page.
	Synthetic bool `json:"synthetic,omitempty" yaml:"synthetic,omitempty"`
}

// Observed wraps a parsed view count.
func Observed(n int) *ViewCount {
	return &ViewCount{Count: n}
}

// ValueOrZero returns the count, or 0 when no count was observed.
func (v *ViewCount) ValueOrZero() int {
	if v == nil {
		return 0
	}
	return v.Count
}

// Observation is one raw per-post tuple produced by the extraction layer.
// Every field is best effort: the aggregator treats absence as a first-class
// outcome, not a fault.
type Observation struct {
	// URL is the href of the post's status link, possibly relative and
	// possibly carrying query parameters. Empty when extraction failed.
	URL string

	// RepostMarker is true when the post carries a social-context repost
	// indicator.
	RepostMarker bool

	// NestedPost is true when the post embeds another post element.
	NestedPost bool

	// QuoteCard is true when the post contains a card-style quote preview
	// with a status link.
	QuoteCard bool

	// QuotedURL is the best-effort URL of the quoted post, when the item
	// looks like a quote. Empty when not resolvable.
	QuotedURL string

	// Timestamp is the displayed time string (e.g. "5h", "Jan 24"), possibly
	// empty.
	Timestamp string

	// Views is the displayed view-count string (e.g. "1.2K"), possibly empty.
	Views string

	// Username is the posting account's handle without the leading "@".
	Username string

	// Content is the post's text content, used for keyword matching only.
	Content string
}

// Candidate is one deduplicated observed post eligible for ranking.
type Candidate struct {
	// OriginalURL is the canonical URL of the authored post. It is the
	// identity key for deduplication and ranking.
	OriginalURL string `json:"original_url" yaml:"original_url"`

	// EventURL is the URL of the event that surfaced the post. It equals
	// OriginalURL except for quote events, where it is the quoting post.
	EventURL string `json:"event_url" yaml:"event_url"`

	// TweetID is the numeric identifier parsed from OriginalURL.
	TweetID string `json:"tweet_id" yaml:"tweet_id"`

	// Views is the observed (or synthetic) view count; nil when not observed.
	Views *ViewCount `json:"views,omitempty" yaml:"views,omitempty"`

	// EventType classifies the event as original, repost, or quote.
	EventType EventType `json:"event_type" yaml:"event_type"`

	// EventTimeRaw is the displayed time string the event carried.
	EventTimeRaw string `json:"event_time_raw" yaml:"event_time_raw"`

	// EventTime is the resolved absolute instant; zero when parsing failed.
	EventTime time.Time `json:"event_time,omitempty" yaml:"event_time,omitempty"`

	// Username is the posting account's handle.
	Username string `json:"username" yaml:"username"`

	// Content is the post text, used for keyword matching only.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// HighPriority marks candidates promoted by cross-pass frequency.
	HighPriority bool `json:"high_priority,omitempty" yaml:"high_priority,omitempty"`

	// FrequencyCount is the number of times the URL was observed across
	// scroll passes. Always at least 1.
	FrequencyCount int `json:"frequency_count" yaml:"frequency_count"`

	// IsPriorityAccount marks posts from trusted accounts that bypass
	// keyword filtering.
	IsPriorityAccount bool `json:"is_priority_account,omitempty" yaml:"is_priority_account,omitempty"`
}
