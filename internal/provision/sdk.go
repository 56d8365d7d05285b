// Package provision implements the side-effecting setup steps: assembling
// the SDK directory tree, installing the native toolchain, and preparing a
// Wine environment on non-Windows hosts. Each provisioner is a small struct
// whose external collaborators (git, HTTP, archive extraction, process
// execution) are injected as narrow seams so tests can script them.
package provision

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"duststorm-setup/internal/config"
	"duststorm-setup/internal/logger"
	"duststorm-setup/internal/vcs"
)

// gitClient is the slice of vcs.Client the SDK provisioner uses.
type gitClient interface {
	ProbeAccess(ctx context.Context, url string) (vcs.Access, error)
	Clone(ctx context.Context, url, dest string) error
}

// SDK assembles the development kit under an install directory: the
// workspace repository at the root, API and level-template repositories in
// their subdirectories, and the unpacked game build under Game/.
type SDK struct {
	Manifest config.Manifest
	Git      gitClient
	Download func(ctx context.Context, url, dest string) error
	Extract  func(src, dest string) error
}

// NewSDK returns an SDK provisioner wired to the real collaborators.
func NewSDK(m config.Manifest) *SDK {
	return &SDK{
		Manifest: m,
		Git:      vcs.NewClient(),
		Download: DownloadFile,
		Extract:  ExtractArchive,
	}
}

// Run provisions the full SDK into installDir. Every step is fatal on
// failure; whatever was already created stays in place.
func (s *SDK) Run(ctx context.Context, installDir string) error {
	base, err := s.selectBaseURL(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(installDir, 0755); err != nil {
		return fmt.Errorf("failed to create install directory %s: %w", installDir, err)
	}

	logger.Info("[INFO] Cloning workspace repository into %s...\n", installDir)
	if err := s.Git.Clone(ctx, s.Manifest.RepoURL(base, s.Manifest.Workspace), installDir); err != nil {
		return err
	}

	if err := s.cloneGroup(ctx, base, filepath.Join(installDir, "API"), s.Manifest.APIRepos, "API"); err != nil {
		return err
	}
	if err := s.cloneGroup(ctx, base, filepath.Join(installDir, "Levels"), s.Manifest.LevelRepos, "level template"); err != nil {
		return err
	}

	return s.fetchGame(ctx, filepath.Join(installDir, "Game"))
}

// selectBaseURL runs the permission probe against the writable workspace
// URL and picks the base every clone will use. Falling back to the public
// mirror is an expected outcome, not an error.
func (s *SDK) selectBaseURL(ctx context.Context) (string, error) {
	access, err := s.Git.ProbeAccess(ctx, s.Manifest.RepoURL(s.Manifest.WritableBase, s.Manifest.Workspace))
	if err != nil {
		return "", err
	}
	if access == vcs.AccessWritable {
		logger.Info("[INFO] Write access confirmed, cloning from the writable remotes.\n")
		return s.Manifest.WritableBase, nil
	}
	logger.Warn("[WARN] No write access to the SDK remotes, falling back to the public mirrors.\n")
	return s.Manifest.ReadOnlyBase, nil
}

// cloneGroup clones every repository of a group into its own subdirectory
// of dir.
func (s *SDK) cloneGroup(ctx context.Context, base, dir string, repos []string, kind string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for _, repo := range repos {
		logger.Info("[INFO] Cloning %s repository %s...\n", kind, repo)
		if err := s.Git.Clone(ctx, s.Manifest.RepoURL(base, repo), filepath.Join(dir, repo)); err != nil {
			return err
		}
	}
	return nil
}

// fetchGame downloads the game archive into gameDir, unpacks it there and
// removes the archive file.
func (s *SDK) fetchGame(ctx context.Context, gameDir string) error {
	if err := os.MkdirAll(gameDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", gameDir, err)
	}

	archive := filepath.Join(gameDir, archiveFileName(s.Manifest.GameArchiveURL))
	logger.Info("[INFO] Downloading the game archive...\n")
	if err := s.Download(ctx, s.Manifest.GameArchiveURL, archive); err != nil {
		return err
	}

	logger.Info("[INFO] Extracting the game archive...\n")
	if err := s.Extract(archive, gameDir); err != nil {
		return fmt.Errorf("failed to extract game archive: %w", err)
	}
	if err := os.Remove(archive); err != nil {
		return fmt.Errorf("failed to remove game archive: %w", err)
	}
	logger.Info("[INFO] Game files are in place.\n")
	return nil
}

// archiveFileName derives a local filename from a download URL, ignoring
// any query string.
func archiveFileName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	return path.Base(rawURL)
}
