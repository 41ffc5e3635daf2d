// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Stats holds observability counters for one collection run. They feed
// logging and the run report; apart from the configured budgets they never
// drive control flow.
type Stats struct {
	// Source names the timeline the counters belong to. Merged results join
	// the source names with "+".
	Source string `json:"source" yaml:"source"`

	// Scrolls is the number of observe/advance iterations performed.
	Scrolls int `json:"scrolls" yaml:"scrolls"`

	// PostsChecked counts observations that yielded a usable URL and id.
	PostsChecked int `json:"posts_checked" yaml:"posts_checked"`

	// Skipped counts observations discarded for lacking a URL or tweet id.
	Skipped int `json:"skipped" yaml:"skipped"`

	// WithinWindow and OutsideWindow count first sightings relative to the
	// collection time window.
	WithinWindow  int `json:"within_window" yaml:"within_window"`
	OutsideWindow int `json:"outside_window" yaml:"outside_window"`

	// ViewsFound and ViewsMissing count in-window sightings with and without
	// a parseable view count.
	ViewsFound   int `json:"views_found" yaml:"views_found"`
	ViewsMissing int `json:"views_missing" yaml:"views_missing"`

	// HighPriority counts candidates promoted by frequency.
	HighPriority int `json:"high_priority" yaml:"high_priority"`
}

// CollectionResult is the aggregate output of one collection run. A result
// exclusively owns its candidate list and mappings until merged; after
// merging, the merged result is the sole owner.
type CollectionResult struct {
	// Candidates holds in-window non-quote candidates in observation order.
	Candidates []*Candidate `json:"candidates" yaml:"candidates"`

	// QuotesMapping maps an original post URL to the quote-event URLs that
	// referenced it within the window.
	QuotesMapping map[string][]string `json:"quotes_mapping" yaml:"quotes_mapping"`

	// URLFrequency maps an original URL to the number of sightings across
	// scroll passes. Populated only when frequency tracking was enabled.
	URLFrequency map[string]int `json:"url_frequency" yaml:"url_frequency"`

	// Stats holds the run counters.
	Stats Stats `json:"stats" yaml:"stats"`
}

// NewCollectionResult returns an empty result for the named source.
func NewCollectionResult(source string) *CollectionResult {
	return &CollectionResult{
		QuotesMapping: make(map[string][]string),
		URLFrequency:  make(map[string]int),
		Stats:         Stats{Source: source},
	}
}

// Merge combines collection results from multiple sources: candidate lists
// concatenate, quote mappings concatenate per key, frequency counts sum per
// key, and stats counters sum. Merging does not mutate its inputs.
func Merge(results ...*CollectionResult) *CollectionResult {
	merged := NewCollectionResult("")

	for _, r := range results {
		if r == nil {
			continue
		}
		merged.Candidates = append(merged.Candidates, r.Candidates...)

		for url, quotes := range r.QuotesMapping {
			merged.QuotesMapping[url] = append(merged.QuotesMapping[url], quotes...)
		}
		for url, count := range r.URLFrequency {
			merged.URLFrequency[url] += count
		}

		if r.Stats.Source != "" {
			if merged.Stats.Source != "" {
				merged.Stats.Source += "+"
			}
			merged.Stats.Source += r.Stats.Source
		}
		merged.Stats.Scrolls += r.Stats.Scrolls
		merged.Stats.PostsChecked += r.Stats.PostsChecked
		merged.Stats.Skipped += r.Stats.Skipped
		merged.Stats.WithinWindow += r.Stats.WithinWindow
		merged.Stats.OutsideWindow += r.Stats.OutsideWindow
		merged.Stats.ViewsFound += r.Stats.ViewsFound
		merged.Stats.ViewsMissing += r.Stats.ViewsMissing
		merged.Stats.HighPriority += r.Stats.HighPriority
	}

	return merged
}
