// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive copies run artifacts into a git repository and commits
// them. Archiving is an optional tail step: failures are reported to the
// caller but must never abort a run that already produced its files.
package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pdiddy/feedpulse/pkg/types"
)

// Archiver commits result files into a git repository subdirectory.
type Archiver struct {
	cfg types.ArchiveConfig
	log zerolog.Logger
}

// NewArchiver validates that cfg.RepoDir is a git repository.
func NewArchiver(cfg types.ArchiveConfig, log zerolog.Logger) (*Archiver, error) {
	if _, err := os.Stat(filepath.Join(cfg.RepoDir, ".git")); err != nil {
		return nil, fmt.Errorf("%s is not a git repository: %w", cfg.RepoDir, err)
	}
	return &Archiver{cfg: cfg, log: log}, nil
}

// ArchiveFiles copies files into the repository subdirectory, stages them,
// and commits with a day-stamped message. A clean tree after staging means
// the files did not change, which is not an error. Pushing happens only
// when configured.
func (a *Archiver) ArchiveFiles(ctx context.Context, day string, files []string) error {
	targetDir := filepath.Join(a.cfg.RepoDir, a.cfg.RepoSubdir)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	var relPaths []string
	for _, src := range files {
		dest := filepath.Join(targetDir, filepath.Base(src))
		if err := copyFile(src, dest); err != nil {
			return fmt.Errorf("copying %s: %w", filepath.Base(src), err)
		}
		rel, err := filepath.Rel(a.cfg.RepoDir, dest)
		if err != nil {
			return fmt.Errorf("resolving archive path: %w", err)
		}
		relPaths = append(relPaths, rel)
	}
	if len(relPaths) == 0 {
		return nil
	}

	if _, err := a.git(ctx, append([]string{"add"}, relPaths...)...); err != nil {
		return err
	}

	status, err := a.git(ctx, "status", "--porcelain")
	if err != nil {
		return err
	}
	if strings.TrimSpace(status) == "" {
		a.log.Info().Msg("archive unchanged, nothing to commit")
		return nil
	}

	message := fmt.Sprintf("news: %s", day)
	if _, err := a.git(ctx, "commit", "-m", message); err != nil {
		return err
	}
	a.log.Info().Str("message", message).Int("files", len(relPaths)).Msg("archived results")

	if a.cfg.Push {
		if _, err := a.git(ctx, "push"); err != nil {
			return err
		}
		a.log.Info().Msg("pushed archive commit")
	}
	return nil
}

// git runs one git command in the repository and returns its combined
// output.
func (a *Archiver) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = a.cfg.RepoDir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}
