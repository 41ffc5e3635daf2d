// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/feedpulse/internal/timeparse"
	"github.com/pdiddy/feedpulse/pkg/types"
)

var testRef = time.Date(2026, time.June, 15, 12, 0, 0, 0, timeparse.KST)

func testConfig() types.CollectorConfig {
	cfg := types.DefaultCollectorConfig()
	cfg.ScrollDelay = 0
	return cfg
}

// fakeSource replays scripted observation batches. Once the script is
// exhausted it keeps returning the last batch, like a page that stopped
// loading new content.
type fakeSource struct {
	batches      [][]types.Observation
	observeCalls int
	advanceCalls int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Observations() ([]types.Observation, error) {
	i := f.observeCalls
	f.observeCalls++
	if len(f.batches) == 0 {
		return nil, nil
	}
	if i >= len(f.batches) {
		i = len(f.batches) - 1
	}
	return f.batches[i], nil
}

func (f *fakeSource) Advance(ctx context.Context) error {
	f.advanceCalls++
	return nil
}

func post(id, ts, views string) types.Observation {
	return types.Observation{
		URL:       "/user/status/" + id,
		Timestamp: ts,
		Views:     views,
		Username:  "user",
		Content:   "content " + id,
	}
}

func TestCanonicalPostURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/alice/status/123", "https://x.com/alice/status/123", true},
		{"https://x.com/alice/status/123?s=20", "https://x.com/alice/status/123", true},
		{"/alice/status/123#reply", "https://x.com/alice/status/123", true},
		{"/alice/status/123/photo/1", "https://x.com/alice/status/123/photo/1", true},
		{"/alice", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := CanonicalPostURL(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("CanonicalPostURL(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTweetID(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"https://x.com/alice/status/123456", "123456", true},
		{"https://x.com/alice/status/123/photo/1", "123", true},
		{"https://x.com/alice/status/12x34", "", false},
		{"https://x.com/alice", "", false},
		{"https://x.com/alice/status/", "", false},
	}
	for _, tt := range tests {
		got, ok := TweetID(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("TweetID(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRunCollectsInWindowPosts(t *testing.T) {
	src := &fakeSource{batches: [][]types.Observation{
		{
			post("1", "2h", "1.2K"),
			post("2", "Jan 1, 2020", "500"), // far outside the window
			post("3", "5m", ""),             // no views observed
			{URL: "", Timestamp: "1h"},      // extraction gap
		},
	}}
	cfg := testConfig()
	cfg.MaxScrolls = 1

	result, err := NewCollector(cfg, testRef, zerolog.Nop()).Run(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(result.Candidates))
	}
	first := result.Candidates[0]
	if first.OriginalURL != "https://x.com/user/status/1" {
		t.Errorf("OriginalURL = %q", first.OriginalURL)
	}
	if first.TweetID != "1" {
		t.Errorf("TweetID = %q", first.TweetID)
	}
	if first.Views.ValueOrZero() != 1200 {
		t.Errorf("views = %d, want 1200", first.Views.ValueOrZero())
	}
	if first.EventType != types.EventOriginal {
		t.Errorf("event type = %q", first.EventType)
	}
	if result.Candidates[1].Views != nil {
		t.Error("missing views should stay nil")
	}

	s := result.Stats
	if s.PostsChecked != 3 || s.Skipped != 1 || s.WithinWindow != 2 || s.OutsideWindow != 1 {
		t.Errorf("stats = %+v", s)
	}
	if s.ViewsFound != 1 || s.ViewsMissing != 1 {
		t.Errorf("view stats = %+v", s)
	}
}

func TestRunDeduplicatesByTweetID(t *testing.T) {
	// The same post stays visible across scroll passes.
	batch := []types.Observation{post("42", "1h", "900")}
	src := &fakeSource{batches: [][]types.Observation{batch, batch, batch}}
	cfg := testConfig()
	cfg.MaxScrolls = 3

	result, err := NewCollector(cfg, testRef, zerolog.Nop()).Run(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) != 1 {
		t.Errorf("candidates = %d, want 1", len(result.Candidates))
	}
}

func TestRunStopsOnConsecutiveOldStreak(t *testing.T) {
	// Three all-old batches scripted, but with threshold 2 the loop must
	// stop after the second observe call without a third.
	old := []types.Observation{post("9", "Jan 1, 2020", "100")}
	src := &fakeSource{batches: [][]types.Observation{old, old, old}}
	cfg := testConfig()
	cfg.ConsecutiveOldThreshold = 2

	result, err := NewCollector(cfg, testRef, zerolog.Nop()).Run(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}
	if src.observeCalls != 2 {
		t.Errorf("observe calls = %d, want 2", src.observeCalls)
	}
	if src.advanceCalls != 1 {
		t.Errorf("advance calls = %d, want 1 (no scroll on the terminating iteration)", src.advanceCalls)
	}
	if result.Stats.Scrolls != 2 {
		t.Errorf("stats.Scrolls = %d, want 2", result.Stats.Scrolls)
	}
}

func TestRunStopsOnCandidateBudget(t *testing.T) {
	batches := make([][]types.Observation, 10)
	for i := range batches {
		batches[i] = []types.Observation{post(strconv.Itoa(i+100), "1h", "50")}
	}
	src := &fakeSource{batches: batches}
	cfg := testConfig()
	cfg.MaxCandidates = 3

	result, err := NewCollector(cfg, testRef, zerolog.Nop()).Run(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) != 3 {
		t.Errorf("candidates = %d, want 3", len(result.Candidates))
	}
	// Budget is checked at the top of the iteration: three observes fill the
	// budget, the fourth iteration stops before observing.
	if src.observeCalls != 3 {
		t.Errorf("observe calls = %d, want 3", src.observeCalls)
	}
}

func TestRunStopsOnScrollBudget(t *testing.T) {
	src := &fakeSource{batches: [][]types.Observation{{post("7", "1h", "10")}}}
	cfg := testConfig()
	cfg.MaxScrolls = 5
	cfg.ConsecutiveOldThreshold = 100

	result, err := NewCollector(cfg, testRef, zerolog.Nop()).Run(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}
	if src.observeCalls != 5 {
		t.Errorf("observe calls = %d, want 5", src.observeCalls)
	}
	if result.Stats.Scrolls != 5 {
		t.Errorf("scrolls = %d, want 5", result.Stats.Scrolls)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &fakeSource{batches: [][]types.Observation{{post("7", "1h", "10")}}}

	_, err := NewCollector(testConfig(), testRef, zerolog.Nop()).Run(ctx, src, false)
	if err == nil {
		t.Fatal("expected context error")
	}
	if src.observeCalls != 0 {
		t.Errorf("observe calls = %d, want 0", src.observeCalls)
	}
}

func TestQuoteEventsGoToMapping(t *testing.T) {
	quote := types.Observation{
		URL:       "/bob/status/200",
		QuoteCard: true,
		QuotedURL: "/alice/status/100",
		Timestamp: "3h",
		Views:     "5K",
		Username:  "bob",
	}
	src := &fakeSource{batches: [][]types.Observation{{quote}}}
	cfg := testConfig()
	cfg.MaxScrolls = 1

	result, err := NewCollector(cfg, testRef, zerolog.Nop()).Run(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Candidates) != 0 {
		t.Errorf("quotes must not enter the candidate list, got %d", len(result.Candidates))
	}
	quotes := result.QuotesMapping["https://x.com/alice/status/100"]
	if len(quotes) != 1 || quotes[0] != "https://x.com/bob/status/200" {
		t.Errorf("quotes mapping = %v", result.QuotesMapping)
	}
}

func TestQuoteFallsBackToOwnURL(t *testing.T) {
	quote := types.Observation{
		URL:        "/bob/status/200",
		NestedPost: true,
		Timestamp:  "3h",
	}
	src := &fakeSource{batches: [][]types.Observation{{quote}}}
	cfg := testConfig()
	cfg.MaxScrolls = 1

	result, err := NewCollector(cfg, testRef, zerolog.Nop()).Run(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.QuotesMapping["https://x.com/bob/status/200"]) != 1 {
		t.Errorf("quotes mapping = %v", result.QuotesMapping)
	}
}

func TestRepostClassification(t *testing.T) {
	repost := post("55", "1h", "2K")
	repost.RepostMarker = true
	src := &fakeSource{batches: [][]types.Observation{{repost}}}
	cfg := testConfig()
	cfg.MaxScrolls = 1

	result, err := NewCollector(cfg, testRef, zerolog.Nop()).Run(context.Background(), src, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Candidates) != 1 || result.Candidates[0].EventType != types.EventRepost {
		t.Fatalf("reposts should be ranked as candidates: %+v", result.Candidates)
	}
}

func TestFrequencyCountsEverySighting(t *testing.T) {
	// The same URL stays on screen for three passes: the seen-id dedup keeps
	// one candidate, but frequency counts all three sightings.
	batch := []types.Observation{post("77", "30m", "")}
	src := &fakeSource{batches: [][]types.Observation{batch, batch, batch}}
	cfg := testConfig()
	cfg.MaxScrolls = 3

	result, err := NewCollector(cfg, testRef, zerolog.Nop()).Run(context.Background(), src, true)
	if err != nil {
		t.Fatal(err)
	}

	url := "https://x.com/user/status/77"
	if result.URLFrequency[url] != 3 {
		t.Errorf("frequency = %d, want 3", result.URLFrequency[url])
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("candidates = %d, want 1", len(result.Candidates))
	}

	// Three sightings reach the promotion threshold.
	cand := result.Candidates[0]
	if !cand.HighPriority {
		t.Error("candidate should be high priority")
	}
	if cand.FrequencyCount != 3 {
		t.Errorf("frequency count = %d, want 3", cand.FrequencyCount)
	}
	if cand.Views == nil || !cand.Views.Synthetic || cand.Views.Count != SyntheticPriorityViews {
		t.Errorf("views = %+v, want synthetic %d", cand.Views, SyntheticPriorityViews)
	}
}

func TestPromoteKeepsObservedViews(t *testing.T) {
	result := types.NewCollectionResult("test")
	result.URLFrequency["u"] = 4
	result.Candidates = []*types.Candidate{
		{OriginalURL: "u", Views: types.Observed(1234), FrequencyCount: 1},
	}

	Promote(result, zerolog.Nop())

	cand := result.Candidates[0]
	if !cand.HighPriority || cand.FrequencyCount != 4 {
		t.Errorf("candidate = %+v", cand)
	}
	if cand.Views.Synthetic || cand.Views.Count != 1234 {
		t.Errorf("observed views must not be replaced: %+v", cand.Views)
	}
}

func TestPromoteBelowThreshold(t *testing.T) {
	result := types.NewCollectionResult("test")
	result.URLFrequency["u"] = 2
	result.Candidates = []*types.Candidate{{OriginalURL: "u", FrequencyCount: 1}}

	Promote(result, zerolog.Nop())

	if result.Candidates[0].HighPriority {
		t.Error("two sightings must not promote")
	}
	if result.Candidates[0].Views != nil {
		t.Error("no synthetic views below threshold")
	}
}
