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

// installerFileName is the fixed temporary name the vendor bootstrapper is
// downloaded under. Using a fixed name keeps the cleanup guarantee simple:
// there is exactly one file to remove, on every exit path.
const installerFileName = "duststorm-vs-installer.exe"

// Toolchain installs the native Windows compiler toolchain by downloading
// the Visual Studio bootstrapper and running it unattended. It blocks until
// the installer process exits.
type Toolchain struct {
	Manifest     config.Manifest
	TempDir      string
	Download     func(ctx context.Context, url, dest string) error
	RunInstaller func(ctx context.Context, path string, args []string) error
}

// NewToolchain returns a Toolchain provisioner wired to the real
// collaborators.
func NewToolchain(m config.Manifest) *Toolchain {
	return &Toolchain{
		Manifest:     m,
		TempDir:      os.TempDir(),
		Download:     DownloadFile,
		RunInstaller: runInstaller,
	}
}

func runInstaller(ctx context.Context, path string, args []string) error {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("installer %s failed: %w", filepath.Base(path), err)
	}
	return nil
}

// Run downloads and executes the chosen bootstrapper: the standalone build
// tools when buildToolsOnly is set, the full Visual Studio otherwise. The
// downloaded bootstrapper is removed afterwards whether or not the install
// succeeded; a failed removal is not worth failing the run over.
func (t *Toolchain) Run(ctx context.Context, buildToolsOnly bool) error {
	installer := t.Manifest.VisualStudio
	if buildToolsOnly {
		installer = t.Manifest.BuildTools
		logger.Info("[INFO] Installing the Visual Studio Build Tools...\n")
	} else {
		logger.Info("[INFO] Installing Visual Studio with the C++ workload...\n")
	}

	tmp := filepath.Join(t.TempDir, installerFileName)
	defer os.Remove(tmp)

	logger.Info("[INFO] Downloading the installer...\n")
	if err := t.Download(ctx, installer.URL, tmp); err != nil {
		return err
	}

	logger.Info("[INFO] Running the installer, this can take a while...\n")
	return t.RunInstaller(ctx, tmp, installer.Args)
}
