package provision

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"duststorm-setup/internal/config"
	"duststorm-setup/internal/logger"
)

// requiredWineTools are the external programs the compatibility layer
// depends on. Both must be on PATH before anything is touched.
var requiredWineTools = []string{"wine", "winetricks"}

// Wine prepares a 32-bit Wine prefix able to run the Windows compiler
// toolchain on a non-Windows host: a fresh prefix, the runtime components
// from the manifest, and the compiler redistributables unpacked into the
// prefix's emulated C: drive.
type Wine struct {
	Manifest config.Manifest
	LookPath func(name string) (string, error)
	RunCmd   func(ctx context.Context, env []string, name string, args ...string) error
	Download func(ctx context.Context, url, dest string) error
	Extract  func(src, dest string) error
}

// NewWine returns a Wine provisioner wired to the real collaborators.
func NewWine(m config.Manifest) *Wine {
	return &Wine{
		Manifest: m,
		LookPath: exec.LookPath,
		RunCmd:   runWithEnv,
		Download: DownloadFile,
		Extract:  ExtractArchive,
	}
}

func runWithEnv(ctx context.Context, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}

// CheckTools verifies wine and winetricks are installed, returning a
// specific per-tool message rather than a generic lookup failure. A missing
// tool is an expected, explainable condition.
func (w *Wine) CheckTools() error {
	for _, tool := range requiredWineTools {
		if _, err := w.LookPath(tool); err != nil {
			return fmt.Errorf("%s is not installed", tool)
		}
	}
	return nil
}

// Run provisions the compatibility layer into the prefix directory.
func (w *Wine) Run(ctx context.Context, prefix string) error {
	if err := w.CheckTools(); err != nil {
		return err
	}

	// Everything wine-related below is scoped to this prefix with a 32-bit
	// architecture, which is what the toolchain installers expect.
	env := append(os.Environ(), "WINEPREFIX="+prefix, "WINEARCH=win32")

	logger.Info("[INFO] Initializing a fresh 32-bit Wine prefix at %s...\n", prefix)
	if err := w.RunCmd(ctx, env, "wineboot", "--init"); err != nil {
		return err
	}

	logger.Info("[INFO] Installing runtime components (%d)...\n", len(w.Manifest.WineComponents))
	args := append([]string{"-q"}, w.Manifest.WineComponents...)
	if err := w.RunCmd(ctx, env, "winetricks", args...); err != nil {
		return err
	}

	return w.installRedistributables(ctx, prefix)
}

// installRedistributables downloads the compiler redistributables archive
// into the prefix's drive_c, unpacks it in place and removes the archive.
func (w *Wine) installRedistributables(ctx context.Context, prefix string) error {
	driveC := filepath.Join(prefix, "drive_c")
	if err := os.MkdirAll(driveC, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", driveC, err)
	}

	archive := filepath.Join(driveC, archiveFileName(w.Manifest.RedistArchiveURL))
	logger.Info("[INFO] Downloading the compiler redistributables...\n")
	if err := w.Download(ctx, w.Manifest.RedistArchiveURL, archive); err != nil {
		return err
	}

	logger.Info("[INFO] Extracting redistributables into the prefix...\n")
	if err := w.Extract(archive, driveC); err != nil {
		return fmt.Errorf("failed to extract redistributables: %w", err)
	}
	if err := os.Remove(archive); err != nil {
		return fmt.Errorf("failed to remove redistributables archive: %w", err)
	}
	logger.Info("[INFO] Wine environment is ready.\n")
	return nil
}
