// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the feedpulse CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/feedpulse/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the feedpulse CLI.
var rootCmd = &cobra.Command{
	Use:   "feedpulse",
	Short: "Collect, rank, and select timeline posts into a daily shortlist",
	Long: `feedpulse drives a logged-in browser session over timeline and
notification pages, collects post candidates from a rolling time window,
deduplicates and ranks them by views, selects topic-relevant posts, and
writes date-stamped result files.

The collect subcommand runs the full pipeline; history inspects the URLs
saved on previous days.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional .env for local overrides; absence is fine.
		if err := godotenv.Load(); err == nil {
			fmt.Fprintln(os.Stderr, "Loaded .env")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./feedpulse.yaml or ~/.config/feedpulse/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("feedpulse")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "feedpulse"))
		}
	}

	viper.SetEnvPrefix("FEEDPULSE")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setDefaults() {
	collector := types.DefaultCollectorConfig()

	viper.SetDefault("browser.headless", true)
	viper.SetDefault("browser.user_data_dir", "")
	viper.SetDefault("browser.slow_mo", time.Duration(0))
	viper.SetDefault("browser.nav_timeout", 30*time.Second)
	viper.SetDefault("browser.login_timeout", 2*time.Minute)

	viper.SetDefault("collector.max_scrolls", collector.MaxScrolls)
	viper.SetDefault("collector.max_candidates", collector.MaxCandidates)
	viper.SetDefault("collector.timeout", collector.Timeout)
	viper.SetDefault("collector.window_hours", collector.WindowHours)
	viper.SetDefault("collector.scroll_delay", collector.ScrollDelay)
	viper.SetDefault("collector.scroll_pixels", collector.ScrollPixels)
	viper.SetDefault("collector.consecutive_old_threshold", collector.ConsecutiveOldThreshold)

	viper.SetDefault("rank.top_n", 100)
	viper.SetDefault("rank.final_count", 30)
	viper.SetDefault("rank.require_views", true)
	viper.SetDefault("rank.topic_file", "")

	viper.SetDefault("storage.output_dir", ".")
	viper.SetDefault("storage.data_subdir", "data/news")

	viper.SetDefault("archive.enabled", false)
	viper.SetDefault("archive.repo_dir", "")
	viper.SetDefault("archive.repo_subdir", "data/news")
	viper.SetDefault("archive.push", false)
}

// pipelineConfig materializes the full configuration from viper.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Browser: types.BrowserConfig{
			Headless:     viper.GetBool("browser.headless"),
			UserDataDir:  viper.GetString("browser.user_data_dir"),
			SlowMo:       viper.GetDuration("browser.slow_mo"),
			NavTimeout:   viper.GetDuration("browser.nav_timeout"),
			LoginTimeout: viper.GetDuration("browser.login_timeout"),
		},
		Collector: types.CollectorConfig{
			MaxScrolls:              viper.GetInt("collector.max_scrolls"),
			MaxCandidates:           viper.GetInt("collector.max_candidates"),
			Timeout:                 viper.GetDuration("collector.timeout"),
			WindowHours:             viper.GetInt("collector.window_hours"),
			ScrollDelay:             viper.GetDuration("collector.scroll_delay"),
			ScrollPixels:            viper.GetInt("collector.scroll_pixels"),
			ConsecutiveOldThreshold: viper.GetInt("collector.consecutive_old_threshold"),
		},
		Rank: types.RankConfig{
			TopN:         viper.GetInt("rank.top_n"),
			FinalCount:   viper.GetInt("rank.final_count"),
			RequireViews: viper.GetBool("rank.require_views"),
			TopicFile:    viper.GetString("rank.topic_file"),
		},
		Storage: types.StorageConfig{
			OutputDir:  viper.GetString("storage.output_dir"),
			DataSubdir: viper.GetString("storage.data_subdir"),
		},
		Archive: types.ArchiveConfig{
			Enabled:    viper.GetBool("archive.enabled"),
			RepoDir:    viper.GetString("archive.repo_dir"),
			RepoSubdir: viper.GetString("archive.repo_subdir"),
			Push:       viper.GetBool("archive.push"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
