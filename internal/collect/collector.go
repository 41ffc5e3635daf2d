// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect drives the scroll/observe loop against a timeline source,
// aggregates raw post observations into unique candidates within the active
// time window, and promotes frequently sighted URLs to priority status.
package collect

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/feedpulse/internal/timeparse"
	"github.com/pdiddy/feedpulse/internal/views"
	"github.com/pdiddy/feedpulse/pkg/types"
)

// Source supplies raw post observations from a rendered timeline. The
// extraction layer owns navigation and DOM access; the collector only ever
// asks for the currently visible batch and for one scroll forward.
type Source interface {
	// Name identifies the source in stats and logs (e.g. "following").
	Name() string

	// Observations returns a best-effort tuple for every currently visible
	// post. Individual posts that fail extraction are simply absent.
	Observations() ([]types.Observation, error)

	// Advance scrolls the timeline forward and waits for the next batch to
	// render.
	Advance(ctx context.Context) error
}

// Collector runs scroll/observe cycles for one collection run. It owns the
// seen-id set for the duration of the run; create a fresh Collector per run.
type Collector struct {
	cfg  types.CollectorConfig
	ref  time.Time
	seen map[string]struct{}
	log  zerolog.Logger
}

// NewCollector returns a collector that resolves timestamps against ref.
func NewCollector(cfg types.CollectorConfig, ref time.Time, log zerolog.Logger) *Collector {
	return &Collector{
		cfg:  cfg,
		ref:  ref,
		seen: make(map[string]struct{}),
		log:  log,
	}
}

// Run scrolls through src until a budget is exhausted or the consecutive-old
// heuristic fires, and returns the collected result. With trackFrequency set
// every sighting of an original URL is counted across passes and frequent
// URLs are promoted to high priority after the loop.
//
// Budgets are checked at the top of each iteration, so cancellation and
// timeouts take effect between iterations, never mid-batch. The scroll
// action is issued only when the loop continues: a run that stops on the
// old-streak, time, or count budget never wastes a trailing scroll.
func (c *Collector) Run(ctx context.Context, src Source, trackFrequency bool) (*types.CollectionResult, error) {
	result := types.NewCollectionResult(src.Name())

	if trackFrequency {
		c.log.Info().Str("source", src.Name()).Msg("frequency tracking enabled")
	}

	consecutiveOld := 0
	start := time.Now()

	for scroll := 0; scroll < c.cfg.MaxScrolls; scroll++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if elapsed := time.Since(start); elapsed > c.cfg.Timeout {
			c.log.Info().Dur("elapsed", elapsed).Msg("time budget reached")
			break
		}
		if len(result.Candidates) >= c.cfg.MaxCandidates {
			c.log.Info().Int("max", c.cfg.MaxCandidates).Msg("candidate budget reached")
			break
		}

		obs, err := src.Observations()
		if err != nil {
			// A failed batch read is recoverable: nothing was added, so it
			// counts toward the old streak like any other empty pass.
			c.log.Warn().Err(err).Str("source", src.Name()).Msg("observation batch failed")
			obs = nil
		}
		result.Stats.Scrolls = scroll + 1

		newInWindow := 0
		for _, o := range obs {
			if c.aggregate(o, result, trackFrequency) {
				newInWindow++
			}
		}

		if newInWindow == 0 {
			consecutiveOld++
		} else {
			consecutiveOld = 0
		}
		if consecutiveOld >= c.cfg.ConsecutiveOldThreshold {
			c.log.Info().
				Int("streak", consecutiveOld).
				Msg("stopping early: no new posts in window")
			break
		}

		if err := src.Advance(ctx); err != nil {
			c.log.Warn().Err(err).Msg("scroll failed")
			break
		}

		if (scroll+1)%10 == 0 {
			c.log.Info().
				Int("scroll", scroll+1).
				Int("candidates", len(result.Candidates)).
				Str("source", src.Name()).
				Msg("collection progress")
		}
	}

	if trackFrequency {
		Promote(result, c.log)
	}

	c.log.Info().
		Str("source", src.Name()).
		Int("scrolls", result.Stats.Scrolls).
		Int("checked", result.Stats.PostsChecked).
		Int("within_window", result.Stats.WithinWindow).
		Int("candidates", len(result.Candidates)).
		Msg("source finished")

	return result, nil
}

// aggregate folds one raw observation into the result. It reports whether a
// new in-window candidate was appended, which feeds the consecutive-old
// early-stop heuristic.
func (c *Collector) aggregate(o types.Observation, result *types.CollectionResult, trackFrequency bool) bool {
	cand, ok := c.buildCandidate(o)
	if !ok {
		result.Stats.Skipped++
		return false
	}
	result.Stats.PostsChecked++

	// Frequency counts every sighting, before the seen-id dedup.
	if trackFrequency {
		result.URLFrequency[cand.OriginalURL]++
	}

	if _, dup := c.seen[cand.TweetID]; dup {
		return false
	}
	c.seen[cand.TweetID] = struct{}{}

	if cand.EventTime.IsZero() || !timeparse.WithinWindow(cand.EventTimeRaw, c.cfg.WindowHours, c.ref) {
		result.Stats.OutsideWindow++
		return false
	}
	result.Stats.WithinWindow++

	if cand.Views != nil {
		result.Stats.ViewsFound++
	} else {
		result.Stats.ViewsMissing++
	}

	// In-window quotes are recorded against the quoted original rather than
	// ranked on their own.
	if cand.EventType == types.EventQuote {
		result.QuotesMapping[cand.OriginalURL] = append(result.QuotesMapping[cand.OriginalURL], cand.EventURL)
		return false
	}

	result.Candidates = append(result.Candidates, cand)
	return true
}

// buildCandidate normalizes one observation into a Candidate. Observations
// with no resolvable post URL or numeric id fail closed.
func (c *Collector) buildCandidate(o types.Observation) (*types.Candidate, bool) {
	postURL, ok := CanonicalPostURL(o.URL)
	if !ok {
		return nil, false
	}
	id, ok := TweetID(postURL)
	if !ok {
		return nil, false
	}

	eventType := classify(o)

	originalURL := postURL
	eventURL := postURL
	if eventType == types.EventQuote {
		// The quoted post is the one we keep; the quoting post is the event.
		if quoted, ok := CanonicalPostURL(o.QuotedURL); ok {
			originalURL = quoted
		}
	}
	if quotedID, ok := TweetID(originalURL); ok {
		id = quotedID
	}

	var eventTime time.Time
	if resolved, ok := timeparse.Resolve(o.Timestamp, c.ref); ok {
		eventTime = resolved
	}

	var viewCount *types.ViewCount
	if n, ok := views.Parse(o.Views); ok {
		viewCount = types.Observed(n)
	}

	return &types.Candidate{
		OriginalURL:    originalURL,
		EventURL:       eventURL,
		TweetID:        id,
		Views:          viewCount,
		EventType:      eventType,
		EventTimeRaw:   strings.TrimSpace(o.Timestamp),
		EventTime:      eventTime,
		Username:       o.Username,
		Content:        o.Content,
		FrequencyCount: 1,
	}, true
}

// classify maps the extraction layer's structural hints to an event type.
func classify(o types.Observation) types.EventType {
	switch {
	case o.RepostMarker:
		return types.EventRepost
	case o.NestedPost || o.QuoteCard:
		return types.EventQuote
	default:
		return types.EventOriginal
	}
}
