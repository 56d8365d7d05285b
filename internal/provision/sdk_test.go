package provision

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"duststorm-setup/internal/config"
	"duststorm-setup/internal/vcs"
)

// fakeGit records clone calls and answers the permission probe with a
// scripted outcome.
type fakeGit struct {
	access   vcs.Access
	probeErr error
	probed   []string
	cloned   [][2]string // url, dest pairs
	cloneErr error
}

func (f *fakeGit) ProbeAccess(_ context.Context, url string) (vcs.Access, error) {
	f.probed = append(f.probed, url)
	return f.access, f.probeErr
}

func (f *fakeGit) Clone(_ context.Context, url, dest string) error {
	f.cloned = append(f.cloned, [2]string{url, dest})
	if f.cloneErr != nil {
		return f.cloneErr
	}
	return os.MkdirAll(dest, 0o755)
}

func testManifest() config.Manifest {
	m := config.DefaultManifest()
	m.WritableBase = "git@internal:%s.git"
	m.ReadOnlyBase = "https://public/%s.git"
	m.Workspace = "Workspace"
	m.APIRepos = []string{"CoreAPI", "RenderAPI"}
	m.LevelRepos = []string{"LevelDunes"}
	m.GameArchiveURL = "https://files/Duststorm-1.4.zip"
	return m
}

// fakeDownload pretends the game archive URL serves a zip with the given
// files.
func fakeDownload(t *testing.T, files map[string]string) func(context.Context, string, string) error {
	return func(_ context.Context, _ string, dest string) error {
		writeZip(t, dest, files)
		return nil
	}
}

func TestSDKRunWritableAccess(t *testing.T) {
	git := &fakeGit{access: vcs.AccessWritable}
	s := &SDK{
		Manifest: testManifest(),
		Git:      git,
		Download: fakeDownload(t, map[string]string{"Bin/Duststorm.exe": "binary"}),
		Extract:  ExtractArchive,
	}

	installDir := filepath.Join(t.TempDir(), "sdk")
	if err := s.Run(context.Background(), installDir); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The probe targets the writable workspace URL.
	if len(git.probed) != 1 || git.probed[0] != "git@internal:Workspace.git" {
		t.Errorf("probed = %v, want the writable workspace URL", git.probed)
	}

	// Every clone uses the writable base and lands in the right place.
	wantClones := [][2]string{
		{"git@internal:Workspace.git", installDir},
		{"git@internal:CoreAPI.git", filepath.Join(installDir, "API", "CoreAPI")},
		{"git@internal:RenderAPI.git", filepath.Join(installDir, "API", "RenderAPI")},
		{"git@internal:LevelDunes.git", filepath.Join(installDir, "Levels", "LevelDunes")},
	}
	if len(git.cloned) != len(wantClones) {
		t.Fatalf("clones = %v, want %v", git.cloned, wantClones)
	}
	for i, want := range wantClones {
		if git.cloned[i] != want {
			t.Errorf("clone %d = %v, want %v", i, git.cloned[i], want)
		}
	}

	// The game archive was unpacked and the archive file removed.
	if _, err := os.Stat(filepath.Join(installDir, "Game", "Bin", "Duststorm.exe")); err != nil {
		t.Errorf("game files missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(installDir, "Game", "Duststorm-1.4.zip")); !os.IsNotExist(err) {
		t.Error("downloaded archive was not removed")
	}
}

func TestSDKRunReadOnlyFallback(t *testing.T) {
	git := &fakeGit{access: vcs.AccessReadOnly}
	s := &SDK{
		Manifest: testManifest(),
		Git:      git,
		Download: fakeDownload(t, map[string]string{"data.pak": "pak"}),
		Extract:  ExtractArchive,
	}

	if err := s.Run(context.Background(), filepath.Join(t.TempDir(), "sdk")); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, clone := range git.cloned {
		if !strings.HasPrefix(clone[0], "https://public/") {
			t.Errorf("clone %v does not use the public base URL", clone)
		}
	}
}

func TestSDKRunFatalProbe(t *testing.T) {
	git := &fakeGit{probeErr: errors.New("probing failed with exit code 1")}
	s := &SDK{
		Manifest: testManifest(),
		Git:      git,
		Download: func(context.Context, string, string) error { t.Error("download must not run"); return nil },
		Extract:  ExtractArchive,
	}

	if err := s.Run(context.Background(), filepath.Join(t.TempDir(), "sdk")); err == nil {
		t.Fatal("expected the probe failure to abort the run")
	}
	if len(git.cloned) != 0 {
		t.Errorf("no clone may happen after a fatal probe, got %v", git.cloned)
	}
}

func TestSDKRunCloneFailureAborts(t *testing.T) {
	git := &fakeGit{access: vcs.AccessWritable, cloneErr: errors.New("cloning failed")}
	downloads := 0
	s := &SDK{
		Manifest: testManifest(),
		Git:      git,
		Download: func(context.Context, string, string) error { downloads++; return nil },
		Extract:  ExtractArchive,
	}

	if err := s.Run(context.Background(), filepath.Join(t.TempDir(), "sdk")); err == nil {
		t.Fatal("expected the clone failure to abort the run")
	}
	if len(git.cloned) != 1 {
		t.Errorf("expected the run to stop at the first clone, got %v", git.cloned)
	}
	if downloads != 0 {
		t.Error("game download must not run after a failed clone")
	}
}

func TestArchiveFileName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://files/Duststorm-1.4.zip", "Duststorm-1.4.zip"},
		{"https://files/pack.tar.gz?token=abc", "pack.tar.gz"},
	}
	for _, tt := range tests {
		if got := archiveFileName(tt.url); got != tt.want {
			t.Errorf("archiveFileName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
