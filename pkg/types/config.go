package types

import "time"

// BrowserConfig holds settings for the browser session that renders the
// timeline.
type BrowserConfig struct {
	// Headless runs the browser without a visible window.
	Headless bool `json:"headless" yaml:"headless"`

	// UserDataDir is the browser profile directory used for persistent
	// login. Empty means a throwaway profile.
	UserDataDir string `json:"user_data_dir" yaml:"user_data_dir"`

	// SlowMo delays each browser action, for debugging.
	SlowMo time.Duration `json:"slow_mo" yaml:"slow_mo"`

	// NavTimeout bounds a single page navigation.
	NavTimeout time.Duration `json:"nav_timeout" yaml:"nav_timeout"`

	// LoginTimeout is how long to wait for a manual login before giving up.
	LoginTimeout time.Duration `json:"login_timeout" yaml:"login_timeout"`
}

// CollectorConfig holds the budgets and thresholds for one collection run.
type CollectorConfig struct {
	// MaxScrolls caps observe/advance iterations per source (default 40).
	MaxScrolls int `json:"max_scrolls" yaml:"max_scrolls"`

	// MaxCandidates caps the number of collected candidates per source
	// (default 400).
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`

	// Timeout caps the wall-clock time of one source's scroll loop
	// (default 180s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// WindowHours is the trailing eligibility window (default 24).
	WindowHours int `json:"window_hours" yaml:"window_hours"`

	// ScrollDelay is the render wait after each scroll (default 1.5s).
	ScrollDelay time.Duration `json:"scroll_delay" yaml:"scroll_delay"`

	// ScrollPixels is the per-iteration scroll distance (default 800).
	ScrollPixels int `json:"scroll_pixels" yaml:"scroll_pixels"`

	// ConsecutiveOldThreshold stops the loop after this many consecutive
	// iterations that added no in-window candidates. Kept high (default 20)
	// so runs of filtered ads do not end collection early.
	ConsecutiveOldThreshold int `json:"consecutive_old_threshold" yaml:"consecutive_old_threshold"`
}

// DefaultCollectorConfig returns the standard collection budgets.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{
		MaxScrolls:              40,
		MaxCandidates:           400,
		Timeout:                 180 * time.Second,
		WindowHours:             24,
		ScrollDelay:             1500 * time.Millisecond,
		ScrollPixels:            800,
		ConsecutiveOldThreshold: 20,
	}
}

// RankConfig holds settings for the ranking and topic-selection stage.
type RankConfig struct {
	// TopN is the number of posts kept after view ranking, before topic
	// selection (default 100).
	TopN int `json:"top_n" yaml:"top_n"`

	// FinalCount is the number of posts kept after topic selection
	// (default 30).
	FinalCount int `json:"final_count" yaml:"final_count"`

	// RequireViews drops candidates with no observed views, except
	// high-priority ones (default true).
	RequireViews bool `json:"require_views" yaml:"require_views"`

	// TopicFile optionally overrides the built-in keyword and
	// priority-account lists with a YAML file.
	TopicFile string `json:"topic_file,omitempty" yaml:"topic_file,omitempty"`
}

// StorageConfig holds settings for result files and the history database.
type StorageConfig struct {
	// OutputDir is the base directory for all run artifacts.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// DataSubdir is the subdirectory for date-stamped result files
	// (default "data/news").
	DataSubdir string `json:"data_subdir" yaml:"data_subdir"`
}

// ArchiveConfig holds settings for optional git archiving of result files.
type ArchiveConfig struct {
	// Enabled turns archiving on.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// RepoDir is the git repository to archive into.
	RepoDir string `json:"repo_dir" yaml:"repo_dir"`

	// RepoSubdir is the path inside the repository for result files
	// (default "data/news/").
	RepoSubdir string `json:"repo_subdir" yaml:"repo_subdir"`

	// Push pushes the archive commit to the remote.
	Push bool `json:"push" yaml:"push"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Browser   BrowserConfig   `json:"browser" yaml:"browser"`
	Collector CollectorConfig `json:"collector" yaml:"collector"`
	Rank      RankConfig      `json:"rank" yaml:"rank"`
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
	Archive   ArchiveConfig   `json:"archive" yaml:"archive"`
}
