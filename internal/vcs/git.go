// Package vcs wraps the git command line client for the two operations the
// setup tool needs: cloning repositories and probing whether the writable
// remote is reachable at all.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"duststorm-setup/internal/logger"
)

// Access is the outcome of the permission probe against the writable base
// URL. It decides which base URL template every subsequent clone uses.
type Access int

const (
	AccessUnknown Access = iota
	AccessWritable
	AccessReadOnly
)

// accessDeniedExit is git's exit code for "repository not found or access
// denied" on remote operations. The probe treats it as the expected
// "no push access" answer, not as a failure.
const accessDeniedExit = 128

// gitExecFunc runs git with the given arguments, returning the combined
// output, the process exit code, and any execution error. The indirection
// exists so tests can script git's behavior.
type gitExecFunc func(ctx context.Context, dir string, args ...string) ([]byte, int, error)

// Client runs git operations.
type Client struct {
	run gitExecFunc
}

// NewClient returns a Client backed by the real git binary.
func NewClient() *Client {
	return &Client{run: runGit}
}

func runGit(ctx context.Context, dir string, args ...string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, exitErr.ExitCode(), err
		}
		// git itself could not be started (not installed, context cancelled).
		return out, -1, err
	}
	return out, 0, nil
}

// ProbeAccess checks whether the writable remote accepts us by listing a
// single ref, with all output suppressed. Exit 0 confirms write access,
// git's access-denied code means "use the public mirror", and anything else
// is an unexpected failure the caller must treat as fatal.
func (c *Client) ProbeAccess(ctx context.Context, url string) (Access, error) {
	logger.Debug("[DEBUG] Probing remote access: %s\n", url)
	out, code, err := c.run(ctx, "", "ls-remote", url, "HEAD")
	switch {
	case code == 0:
		return AccessWritable, nil
	case code == accessDeniedExit:
		return AccessReadOnly, nil
	case err != nil:
		return AccessUnknown, fmt.Errorf("probing %s failed: %w\n%s", url, err, strings.TrimSpace(string(out)))
	default:
		return AccessUnknown, fmt.Errorf("probing %s failed with exit code %d\n%s", url, code, strings.TrimSpace(string(out)))
	}
}

// Clone clones url into dest. Any failure is returned with git's own output
// attached, since that is where the actionable detail lives.
func (c *Client) Clone(ctx context.Context, url, dest string) error {
	logger.Debug("[DEBUG] Cloning %s into %s\n", url, dest)
	out, _, err := c.run(ctx, "", "clone", url, dest)
	if err != nil {
		return fmt.Errorf("cloning %s failed: %w\n%s", url, err, strings.TrimSpace(string(out)))
	}
	return nil
}
