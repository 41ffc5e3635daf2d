// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"github.com/rs/zerolog"

	"github.com/pdiddy/feedpulse/pkg/types"
)

// FrequencyThreshold is the number of sightings across scroll passes at
// which a URL is promoted to high priority.
const FrequencyThreshold = 3

// SyntheticPriorityViews is the view value assigned to promoted candidates
// that carry no observed count. It exists purely so they rank competitively
// against real counts; the value is tagged Synthetic and must never surface
// as genuine engagement data.
const SyntheticPriorityViews = 500_000

// Promote upgrades every candidate whose original URL was sighted at least
// FrequencyThreshold times: HighPriority is set, FrequencyCount records the
// sighting count, and candidates still missing views receive the synthetic
// ranking value. Runs once per frequency-tracked source, after its loop.
func Promote(result *types.CollectionResult, log zerolog.Logger) {
	promoted := make(map[string]int)
	for url, count := range result.URLFrequency {
		if count >= FrequencyThreshold {
			promoted[url] = count
		}
	}
	if len(promoted) == 0 {
		log.Info().Msg("no high-priority URLs detected")
		return
	}

	log.Info().
		Int("urls", len(promoted)).
		Int("threshold", FrequencyThreshold).
		Msg("promoting frequently sighted URLs")

	for _, cand := range result.Candidates {
		count, ok := promoted[cand.OriginalURL]
		if !ok {
			continue
		}
		cand.HighPriority = true
		cand.FrequencyCount = count
		if cand.Views == nil {
			cand.Views = &types.ViewCount{Count: SyntheticPriorityViews, Synthetic: true}
		}
		result.Stats.HighPriority++
	}

	log.Info().Int("candidates", result.Stats.HighPriority).Msg("marked high priority")
}
