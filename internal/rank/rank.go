// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank turns merged collection results into the final shortlist:
// cross-day deduplication against history, per-URL deduplication, view
// ranking, and topic selection by keyword and priority account.
package rank

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/feedpulse/pkg/types"
)

// RankAndFilter deduplicates candidates by original URL, drops URLs already
// recorded in history, optionally drops candidates with no observed views,
// and returns the top topN sorted by views descending.
//
// When duplicates collide, a high-priority candidate wins over a regular
// one; otherwise the larger view count wins, and the loser's HighPriority
// and FrequencyCount carry forward so promotion survives the dedup.
// High-priority candidates bypass the requireViews filter. The historical
// set is never modified.
func RankAndFilter(candidates []*types.Candidate, topN int, requireViews bool, historical map[string]struct{}, log zerolog.Logger) []*types.Candidate {
	byURL := make(map[string]*types.Candidate)
	var order []string
	historicalExcluded := 0

	for _, cand := range candidates {
		if _, ok := historical[cand.OriginalURL]; ok {
			historicalExcluded++
			continue
		}

		existing, ok := byURL[cand.OriginalURL]
		if !ok {
			byURL[cand.OriginalURL] = cand
			order = append(order, cand.OriginalURL)
			continue
		}

		switch {
		case cand.HighPriority && !existing.HighPriority:
			byURL[cand.OriginalURL] = cand
		case cand.Views != nil && (existing.Views == nil || cand.Views.Count > existing.Views.Count):
			if existing.HighPriority {
				cand.HighPriority = true
				if existing.FrequencyCount > cand.FrequencyCount {
					cand.FrequencyCount = existing.FrequencyCount
				}
			}
			byURL[cand.OriginalURL] = cand
		}
	}

	if historicalExcluded > 0 {
		log.Info().Int("excluded", historicalExcluded).Msg("dropped URLs already in history")
	}

	deduped := make([]*types.Candidate, 0, len(order))
	for _, url := range order {
		cand := byURL[url]
		if requireViews && cand.Views == nil && !cand.HighPriority {
			continue
		}
		deduped = append(deduped, cand)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Views.ValueOrZero() > deduped[j].Views.ValueOrZero()
	})

	if topN > 0 && len(deduped) > topN {
		deduped = deduped[:topN]
	}
	return deduped
}

// SelectByTopic keeps candidates posted by a priority account or whose
// content matches at least one topic keyword. Priority-account posts are
// flagged IsPriorityAccount, fill the result first, and sort ahead of
// keyword matches; within each group views descending decides.
//
// Candidates are expected in ranked order from RankAndFilter, so the
// priority-first fill keeps the best of each group when finalCount is
// smaller than the match set.
func SelectByTopic(candidates []*types.Candidate, topic Topic, finalCount int, log zerolog.Logger) []*types.Candidate {
	accounts := topic.accountSet()
	keywords := topic.loweredKeywords()

	var priority, matched []*types.Candidate
	for _, cand := range candidates {
		if _, ok := accounts[strings.ToLower(cand.Username)]; ok {
			cand.IsPriorityAccount = true
			priority = append(priority, cand)
			continue
		}
		content := strings.ToLower(cand.Content)
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				matched = append(matched, cand)
				break
			}
		}
	}

	combined := make([]*types.Candidate, 0, finalCount)
	for _, cand := range priority {
		if finalCount > 0 && len(combined) >= finalCount {
			break
		}
		combined = append(combined, cand)
	}
	for _, cand := range matched {
		if finalCount > 0 && len(combined) >= finalCount {
			break
		}
		combined = append(combined, cand)
	}

	sort.SliceStable(combined, func(i, j int) bool {
		a, b := combined[i], combined[j]
		if a.IsPriorityAccount != b.IsPriorityAccount {
			return a.IsPriorityAccount
		}
		return a.Views.ValueOrZero() > b.Views.ValueOrZero()
	})

	log.Info().
		Int("priority", len(priority)).
		Int("keyword_matched", len(matched)).
		Int("final", len(combined)).
		Msg("topic selection finished")

	return combined
}
