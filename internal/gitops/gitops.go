package gitops

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Committer records snapshots of a data directory in git.
type Committer struct {
	Dir         string
	AuthorName  string
	AuthorEmail string
}

// Init initializes a new git repository at dir.
func Init(dir string) error {
	cmd := exec.Command("git", "init", "--quiet")
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("git init: %s: %w", out, err)
	}
	return nil
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// EnsureRepo initializes dir as a repository unless it already is one.
func (c *Committer) EnsureRepo() error {
	if IsRepo(c.Dir) {
		return nil
	}
	return Init(c.Dir)
}

// Commit stages everything in the directory and commits it. Returns the short
// hash, or "" when there was nothing to commit.
func (c *Committer) Commit(message string) (string, error) {
	add := c.git("add", "-A")
	if out, err := add.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git add: %s: %w", out, err)
	}

	status := c.git("status", "--porcelain")
	out, err := status.Output()
	if err != nil {
		return "", fmt.Errorf("git status: %w", err)
	}
	if len(bytes.TrimSpace(out)) == 0 {
		return "", nil
	}

	author := fmt.Sprintf("%s <%s>", c.AuthorName, c.AuthorEmail)
	commit := c.git("commit", "--quiet", "-m", message, "--author", author)
	if out, err := commit.CombinedOutput(); err != nil {
		return "", fmt.Errorf("git commit: %s: %w", out, err)
	}

	rev := c.git("rev-parse", "--short", "HEAD")
	out, err = rev.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// git builds a command running in the data directory. The committer identity
// doubles as the committer so commits succeed without a global git config.
func (c *Committer) git(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.Dir
	cmd.Env = append(os.Environ(),
		"GIT_COMMITTER_NAME="+c.AuthorName,
		"GIT_COMMITTER_EMAIL="+c.AuthorEmail,
	)
	return cmd
}
