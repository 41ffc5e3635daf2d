// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes the date-stamped result files for a run: the URL
// list, the quote mapping, and the run report. All writes go through a
// temp-file-and-rename so a crashed run never leaves a half-written file.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/feedpulse/internal/views"
	"github.com/pdiddy/feedpulse/pkg/types"
)

// Writer saves run artifacts into a single directory, named by run day.
type Writer struct {
	dir string
}

// NewWriter returns a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// URLsPath returns the path of the URL list for day.
func (w *Writer) URLsPath(day string) string {
	return filepath.Join(w.dir, day+".txt")
}

// QuotesPath returns the path of the quote mapping for day.
func (w *Writer) QuotesPath(day string) string {
	return filepath.Join(w.dir, day+".quotes.json")
}

// ReportPath returns the path of the run report for day.
func (w *Writer) ReportPath(day string) string {
	return filepath.Join(w.dir, day+".report.yaml")
}

// SaveURLs writes one original URL per line, in ranked order.
func (w *Writer) SaveURLs(day string, candidates []*types.Candidate) error {
	var b strings.Builder
	for _, cand := range candidates {
		b.WriteString(cand.OriginalURL)
		b.WriteByte('\n')
	}
	return atomicWrite(w.URLsPath(day), []byte(b.String()))
}

type quotesFile struct {
	GeneratedAt string              `json:"generated_at"`
	WindowHours int                 `json:"window_hours"`
	Mapping     map[string][]string `json:"mapping"`
}

// SaveQuotes writes the quoted-original to quoting-posts mapping. An empty
// mapping still produces a file, so downstream consumers can rely on its
// presence.
func (w *Writer) SaveQuotes(day string, windowHours int, mapping map[string][]string) error {
	if mapping == nil {
		mapping = map[string][]string{}
	}
	data, err := json.MarshalIndent(quotesFile{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		WindowHours: windowHours,
		Mapping:     mapping,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding quotes: %w", err)
	}
	return atomicWrite(w.QuotesPath(day), append(data, '\n'))
}

// ReportEntry is one ranked post in the run report.
type ReportEntry struct {
	URL             string `yaml:"url"`
	Views           string `yaml:"views"`
	Username        string `yaml:"username"`
	EventType       string `yaml:"event_type"`
	HighPriority    bool   `yaml:"high_priority,omitempty"`
	PriorityAccount bool   `yaml:"priority_account,omitempty"`
}

// Report is the full YAML run report.
type Report struct {
	Day         string        `yaml:"day"`
	GeneratedAt string        `yaml:"generated_at"`
	Stats       types.Stats   `yaml:"stats"`
	Posts       []ReportEntry `yaml:"posts"`
}

// SaveReport writes the run report: stats plus the ranked shortlist with
// display-formatted views.
func (w *Writer) SaveReport(day string, stats types.Stats, candidates []*types.Candidate) error {
	report := Report{
		Day:         day,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Stats:       stats,
		Posts:       make([]ReportEntry, 0, len(candidates)),
	}
	for _, cand := range candidates {
		report.Posts = append(report.Posts, ReportEntry{
			URL:             cand.OriginalURL,
			Views:           ViewsLabel(cand),
			Username:        cand.Username,
			EventType:       string(cand.EventType),
			HighPriority:    cand.HighPriority,
			PriorityAccount: cand.IsPriorityAccount,
		})
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return atomicWrite(w.ReportPath(day), data)
}

// ViewsLabel renders a candidate's views for display. Synthetic values are
// never shown as counts; they render as FREQ:N from the sighting frequency.
func ViewsLabel(cand *types.Candidate) string {
	switch {
	case cand.Views == nil:
		return "N/A"
	case cand.Views.Synthetic:
		return fmt.Sprintf("FREQ:%d", cand.FrequencyCount)
	default:
		return views.Format(cand.Views.Count)
	}
}

func atomicWrite(destPath string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".output-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, writeErr := tmpFile.Write(data)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filepath.Base(destPath), writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
