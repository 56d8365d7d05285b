package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	if !PathExists(dir) {
		t.Error("existing directory reported as missing")
	}
	if PathExists(filepath.Join(dir, "nope")) {
		t.Error("missing path reported as existing")
	}
}

func TestCanonicalPathExisting(t *testing.T) {
	dir := t.TempDir()
	got, err := CanonicalPath(dir)
	if err != nil {
		t.Fatalf("CanonicalPath(%q) failed: %v", dir, err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("CanonicalPath(%q) = %q, not absolute", dir, got)
	}
}

func TestCanonicalPathMissingTail(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "not", "yet", "created")
	got, err := CanonicalPath(missing)
	if err != nil {
		t.Fatalf("CanonicalPath(%q) failed: %v", missing, err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("result %q is not absolute", got)
	}
	if filepath.Base(got) != "created" {
		t.Errorf("result %q lost the missing tail", got)
	}
}

func TestCanonicalPathResolvesSymlinkedAncestor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	dir := t.TempDir()
	real := filepath.Join(dir, "real")
	if err := os.Mkdir(real, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Fatal(err)
	}

	got, err := CanonicalPath(filepath.Join(link, "sdk"))
	if err != nil {
		t.Fatalf("CanonicalPath failed: %v", err)
	}
	want, err := CanonicalPath(filepath.Join(real, "sdk"))
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("symlinked ancestor not resolved: got %q, want %q", got, want)
	}
}

func TestCanonicalPathRelative(t *testing.T) {
	got, err := CanonicalPath("some/relative/dir")
	if err != nil {
		t.Fatalf("CanonicalPath failed: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("relative input must resolve to an absolute path, got %q", got)
	}
}
