// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/feedpulse/pkg/types"
)

func cand(url string, views int, opts ...func(*types.Candidate)) *types.Candidate {
	c := &types.Candidate{
		OriginalURL: url,
		EventURL:    url,
		Username:    "someone",
		Content:     "hyperliquid update",
	}
	if views >= 0 {
		c.Views = types.Observed(views)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func highPriority(freq int) func(*types.Candidate) {
	return func(c *types.Candidate) {
		c.HighPriority = true
		c.FrequencyCount = freq
		if c.Views == nil {
			c.Views = &types.ViewCount{Count: 500_000, Synthetic: true}
		}
	}
}

func TestRankAndFilterDeduplicatesByViews(t *testing.T) {
	in := []*types.Candidate{
		cand("a", 5_000),
		cand("a", 9_000), // repost of the same original with a larger count
		cand("b", 100),
	}

	out := RankAndFilter(in, 0, true, nil, zerolog.Nop())

	if len(out) != 2 {
		t.Fatalf("got %d candidates, want 2", len(out))
	}
	if out[0].OriginalURL != "a" || out[0].Views.Count != 9_000 {
		t.Errorf("first = %s/%d, want a/9000", out[0].OriginalURL, out[0].Views.Count)
	}
	if out[1].OriginalURL != "b" {
		t.Errorf("second = %s, want b", out[1].OriginalURL)
	}
}

func TestRankAndFilterPropagatesPriorityThroughDedup(t *testing.T) {
	// The promoted sighting has fewer views than a later regular one; the
	// winner must still carry the promotion forward.
	in := []*types.Candidate{
		cand("a", 5_000, highPriority(4)),
		cand("a", 9_000),
	}

	out := RankAndFilter(in, 0, true, nil, zerolog.Nop())

	if len(out) != 1 {
		t.Fatalf("got %d candidates, want 1", len(out))
	}
	got := out[0]
	if got.Views.Count != 9_000 {
		t.Errorf("views = %d, want 9000", got.Views.Count)
	}
	if !got.HighPriority || got.FrequencyCount != 4 {
		t.Errorf("priority not propagated: %+v", got)
	}
}

func TestRankAndFilterPrefersHighPriorityOverViews(t *testing.T) {
	in := []*types.Candidate{
		cand("a", 9_000),
		cand("a", -1, highPriority(3)), // synthetic 500k replaces the observed entry
	}

	out := RankAndFilter(in, 0, true, nil, zerolog.Nop())

	if len(out) != 1 || !out[0].HighPriority {
		t.Fatalf("high-priority duplicate should win: %+v", out)
	}
}

func TestRankAndFilterDropsHistorical(t *testing.T) {
	historical := map[string]struct{}{"a": {}}
	in := []*types.Candidate{cand("a", 9_000), cand("b", 100)}

	out := RankAndFilter(in, 0, true, historical, zerolog.Nop())

	if len(out) != 1 || out[0].OriginalURL != "b" {
		t.Fatalf("historical URL not excluded: %+v", out)
	}
	if len(historical) != 1 {
		t.Error("historical set must not be modified")
	}
}

func TestRankAndFilterRequireViews(t *testing.T) {
	in := []*types.Candidate{
		cand("a", 100),
		cand("b", -1),                  // no views observed
		cand("c", -1, highPriority(3)), // bypasses the requirement
	}

	out := RankAndFilter(in, 0, true, nil, zerolog.Nop())

	if len(out) != 2 {
		t.Fatalf("got %d candidates, want 2", len(out))
	}
	for _, c := range out {
		if c.OriginalURL == "b" {
			t.Error("view-less candidate should be dropped")
		}
	}

	out = RankAndFilter(in, 0, false, nil, zerolog.Nop())
	if len(out) != 3 {
		t.Errorf("with requireViews off, got %d candidates, want 3", len(out))
	}
}

func TestRankAndFilterSortsAndTruncates(t *testing.T) {
	in := []*types.Candidate{
		cand("a", 100),
		cand("b", 9_000),
		cand("c", 1_200),
		cand("d", 500),
	}

	out := RankAndFilter(in, 3, true, nil, zerolog.Nop())

	want := []string{"b", "c", "d"}
	if len(out) != len(want) {
		t.Fatalf("got %d candidates, want %d", len(out), len(want))
	}
	for i, url := range want {
		if out[i].OriginalURL != url {
			t.Errorf("out[%d] = %s, want %s", i, out[i].OriginalURL, url)
		}
	}
}

func TestSelectByTopicPriorityAccounts(t *testing.T) {
	topic := Topic{
		Keywords:         []string{"hyperliquid"},
		PriorityAccounts: []string{"HyperliquidNews"},
	}
	in := []*types.Candidate{
		{OriginalURL: "a", Username: "hyperliquidnews", Content: "completely unrelated", Views: types.Observed(10)},
		{OriginalURL: "b", Username: "rando", Content: "no match here", Views: types.Observed(9_000)},
	}

	out := SelectByTopic(in, topic, 30, zerolog.Nop())

	if len(out) != 1 {
		t.Fatalf("got %d posts, want 1", len(out))
	}
	if out[0].OriginalURL != "a" || !out[0].IsPriorityAccount {
		t.Errorf("priority-account post not kept and flagged: %+v", out[0])
	}
}

func TestSelectByTopicKeywordMatch(t *testing.T) {
	topic := Topic{Keywords: []string{"orderbook", "perp"}}
	in := []*types.Candidate{
		{OriginalURL: "a", Username: "x", Content: "fully onchain OrderBook design", Views: types.Observed(100)},
		{OriginalURL: "b", Username: "y", Content: "lunch photos", Views: types.Observed(200)},
		{OriginalURL: "c", Username: "z", Content: "PERP funding turned negative", Views: types.Observed(50)},
	}

	out := SelectByTopic(in, topic, 30, zerolog.Nop())

	if len(out) != 2 {
		t.Fatalf("got %d posts, want 2", len(out))
	}
	if out[0].OriginalURL != "a" || out[1].OriginalURL != "c" {
		t.Errorf("order = %s, %s; want a, c", out[0].OriginalURL, out[1].OriginalURL)
	}
}

func TestSelectByTopicFillsPriorityFirst(t *testing.T) {
	topic := Topic{
		Keywords:         []string{"perp"},
		PriorityAccounts: []string{"vip"},
	}
	// Ranked order in, as RankAndFilter produces.
	in := []*types.Candidate{
		{OriginalURL: "k1", Username: "x", Content: "perp", Views: types.Observed(9_000)},
		{OriginalURL: "p1", Username: "vip", Content: "whatever", Views: types.Observed(500)},
		{OriginalURL: "k2", Username: "y", Content: "perp", Views: types.Observed(100)},
	}

	out := SelectByTopic(in, topic, 2, zerolog.Nop())

	if len(out) != 2 {
		t.Fatalf("got %d posts, want 2", len(out))
	}
	// The priority post takes a slot ahead of the lower keyword match and
	// sorts first despite fewer views.
	if out[0].OriginalURL != "p1" || out[1].OriginalURL != "k1" {
		t.Errorf("order = %s, %s; want p1, k1", out[0].OriginalURL, out[1].OriginalURL)
	}
}

func TestLoadTopicOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topic.yaml")
	data := "keywords:\n  - solana\npriority_accounts:\n  - someaccount\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	topic, err := LoadTopic(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(topic.Keywords) != 1 || topic.Keywords[0] != "solana" {
		t.Errorf("keywords = %v", topic.Keywords)
	}
	if len(topic.PriorityAccounts) != 1 || topic.PriorityAccounts[0] != "someaccount" {
		t.Errorf("accounts = %v", topic.PriorityAccounts)
	}
}

func TestLoadTopicMissingFile(t *testing.T) {
	if _, err := LoadTopic(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestDefaultTopicNonEmpty(t *testing.T) {
	topic := DefaultTopic()
	if len(topic.Keywords) == 0 || len(topic.PriorityAccounts) == 0 {
		t.Fatal("built-in topic must ship keywords and priority accounts")
	}
}
