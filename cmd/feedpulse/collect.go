// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/feedpulse/internal/archive"
	"github.com/pdiddy/feedpulse/internal/browser"
	"github.com/pdiddy/feedpulse/internal/collect"
	"github.com/pdiddy/feedpulse/internal/history"
	"github.com/pdiddy/feedpulse/internal/logging"
	"github.com/pdiddy/feedpulse/internal/output"
	"github.com/pdiddy/feedpulse/internal/rank"
	"github.com/pdiddy/feedpulse/internal/timeparse"
	"github.com/pdiddy/feedpulse/pkg/types"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the full collection pipeline and save today's shortlist",
	Long: `Collect opens a browser session on the home timeline and notifications,
gathers post candidates from the configured time window, deduplicates and
ranks them by views, applies topic selection, and writes the day's result
files (URL list, quote mapping, run report). Saved URLs are recorded so
later days never repeat them.`,
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().Bool("headless", true, "run the browser without a window")
	collectCmd.Flags().String("user-data-dir", "", "browser profile directory for persistent login")
	collectCmd.Flags().Int("window-hours", 0, "override the collection window in hours")
	collectCmd.Flags().String("topic-file", "", "YAML file overriding the built-in topic keywords")
	collectCmd.Flags().String("output-dir", "", "override the output base directory")
	collectCmd.Flags().Bool("archive", false, "archive result files to the configured git repository")

	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	log := logging.New(os.Stderr, verbose)

	cfg := pipelineConfig()
	applyCollectFlags(cmd, &cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	now := timeparse.Now()
	day := now.Format("2006-01-02")
	dataDir := filepath.Join(cfg.Storage.OutputDir, cfg.Storage.DataSubdir)

	store, err := history.NewStore(dataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	historical, err := store.LoadHistorical(ctx, day)
	if err != nil {
		return err
	}
	if len(historical) > 0 {
		log.Info().Int("urls", len(historical)).Msg("loaded history for cross-day dedup")
	}

	session, err := browser.NewSession(cfg.Browser, log)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.EnsureLoggedIn(ctx); err != nil {
		return err
	}

	merged, err := collectAllSources(ctx, session, cfg.Collector, now, log)
	if err != nil {
		return err
	}

	topic := rank.DefaultTopic()
	if cfg.Rank.TopicFile != "" {
		topic, err = rank.LoadTopic(cfg.Rank.TopicFile)
		if err != nil {
			return err
		}
	}

	ranked := rank.RankAndFilter(merged.Candidates, cfg.Rank.TopN, cfg.Rank.RequireViews, historical, log)
	top := rank.SelectByTopic(ranked, topic, cfg.Rank.FinalCount, log)

	printResults(os.Stdout, top, merged)

	writer, err := output.NewWriter(dataDir)
	if err != nil {
		return err
	}
	if err := writer.SaveURLs(day, top); err != nil {
		return err
	}
	if err := writer.SaveQuotes(day, cfg.Collector.WindowHours, merged.QuotesMapping); err != nil {
		return err
	}
	if err := writer.SaveReport(day, merged.Stats, top); err != nil {
		return err
	}
	log.Info().Str("dir", dataDir).Str("day", day).Msg("results saved")

	if err := store.SaveRun(ctx, day, top); err != nil {
		return err
	}

	if cfg.Archive.Enabled {
		archiveResults(ctx, cfg.Archive, writer, day, log)
	}

	return nil
}

func applyCollectFlags(cmd *cobra.Command, cfg *types.PipelineConfig) {
	if cmd.Flags().Changed("headless") {
		cfg.Browser.Headless, _ = cmd.Flags().GetBool("headless")
	}
	if cmd.Flags().Changed("user-data-dir") {
		cfg.Browser.UserDataDir, _ = cmd.Flags().GetString("user-data-dir")
	}
	if cmd.Flags().Changed("window-hours") {
		cfg.Collector.WindowHours, _ = cmd.Flags().GetInt("window-hours")
	}
	if cmd.Flags().Changed("topic-file") {
		cfg.Rank.TopicFile, _ = cmd.Flags().GetString("topic-file")
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Storage.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}
	if cmd.Flags().Changed("archive") {
		cfg.Archive.Enabled, _ = cmd.Flags().GetBool("archive")
	}
}

// collectAllSources runs the scroll loop over the following timeline, the
// notifications page, and the first notification group. One collector is
// shared so the seen-id dedup spans all sources; a source that fails to
// open is skipped, it never aborts the run.
func collectAllSources(ctx context.Context, session *browser.Session, cfg types.CollectorConfig, now time.Time, log zerolog.Logger) (*types.CollectionResult, error) {
	collector := collect.NewCollector(cfg, now, log)
	var results []*types.CollectionResult

	if src, err := session.Following(cfg); err != nil {
		log.Warn().Err(err).Msg("following timeline unavailable")
	} else {
		res, err := collector.Run(ctx, src, false)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	if src, err := session.Notifications(cfg); err != nil {
		log.Warn().Err(err).Msg("notifications unavailable")
	} else {
		// The collapsed "New post" group only sits at the top of a fresh
		// notifications page, so the drill-down runs before the main pass.
		// Frequency tracking is on inside the group: repeat sightings there
		// are the promotion signal.
		group, err := session.NotificationsGroup(cfg)
		if err != nil {
			log.Warn().Err(err).Msg("notification group drill-down failed")
		} else if group != nil {
			res, err := collector.Run(ctx, group, true)
			if err != nil {
				return nil, err
			}
			results = append(results, res)

			// The drill-down navigated away; reopen notifications for the
			// main pass.
			src, err = session.Notifications(cfg)
			if err != nil {
				log.Warn().Err(err).Msg("notifications unavailable after drill-down")
				src = nil
			}
		}

		if src != nil {
			res, err := collector.Run(ctx, src, false)
			if err != nil {
				return nil, err
			}
			results = append(results, res)
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no source could be collected")
	}
	return types.Merge(results...), nil
}

// printResults writes the run summary, the ranked shortlist, and a bare URL
// list for copying.
func printResults(w io.Writer, top []*types.Candidate, merged *types.CollectionResult) {
	s := merged.Stats

	fmt.Fprintf(w, "\nCollection Summary (%s)\n", s.Source)
	fmt.Fprintf(w, "  Scrolls: %d\n", s.Scrolls)
	fmt.Fprintf(w, "  Posts checked: %d\n", s.PostsChecked)
	fmt.Fprintf(w, "  Within window: %d (outside: %d)\n", s.WithinWindow, s.OutsideWindow)
	fmt.Fprintf(w, "  Views found: %d (missing: %d)\n", s.ViewsFound, s.ViewsMissing)
	if s.HighPriority > 0 {
		fmt.Fprintf(w, "  High-priority (freq>=%d): %d\n", collect.FrequencyThreshold, s.HighPriority)
	}

	quoteCount := 0
	for _, quotes := range merged.QuotesMapping {
		quoteCount += len(quotes)
	}
	if quoteCount > 0 {
		fmt.Fprintf(w, "\nQuote Mapping:\n")
		fmt.Fprintf(w, "  Originals with quotes: %d\n", len(merged.QuotesMapping))
		fmt.Fprintf(w, "  Total quotes: %d\n", quoteCount)
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(w, "Top %d Posts by Views\n", len(top))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	for i, post := range top {
		var markers []string
		if post.IsPriorityAccount {
			markers = append(markers, "*PRIORITY*")
		}
		if post.HighPriority {
			markers = append(markers, "*HP*")
		}
		markerStr := ""
		if len(markers) > 0 {
			markerStr = " " + strings.Join(markers, " ")
		}

		fmt.Fprintf(w, "\n%2d. [%8s] [%-8s] @%s%s\n",
			i+1, output.ViewsLabel(post), post.EventType, post.Username, markerStr)
		fmt.Fprintf(w, "    %s\n", post.OriginalURL)
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintln(w, "URLs Only (for copying)")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	for _, post := range top {
		fmt.Fprintln(w, post.OriginalURL)
	}
}

// archiveResults commits the day's files to the archive repository. Errors
// are logged only: the results are already on disk.
func archiveResults(ctx context.Context, cfg types.ArchiveConfig, writer *output.Writer, day string, log zerolog.Logger) {
	archiver, err := archive.NewArchiver(cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("archive skipped")
		return
	}
	files := []string{writer.URLsPath(day), writer.QuotesPath(day), writer.ReportPath(day)}
	if err := archiver.ArchiveFiles(ctx, day, files); err != nil {
		log.Warn().Err(err).Msg("archive failed")
	}
}
