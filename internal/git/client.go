package git

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrPushRejected marks a push that the remote refused (protected
// branch, concurrent update). Callers distinguish it from transport
// failures with errors.Is.
var ErrPushRejected = errors.New("push rejected by remote")

// Client provides git operations for a repository
type Client struct {
	gitRoot string
}

// NewClient creates a new git client for the current directory
func NewClient() (*Client, error) {
	return NewClientAt(".")
}

// NewClientAt creates a git client rooted at the repository containing dir
func NewClientAt(dir string) (*Client, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("not in a git repository: %w", err)
	}
	return &Client{gitRoot: strings.TrimSpace(string(output))}, nil
}

// GitRoot returns the root directory of the git repository
func (c *Client) GitRoot() string {
	return c.gitRoot
}

func (c *Client) git(args ...string) *exec.Cmd {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.gitRoot
	return cmd
}

// CurrentBranch returns the name of the current git branch
func (c *Client) CurrentBranch() (string, error) {
	output, err := c.git("rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CommitHash returns the commit hash for a given ref
func (c *Client) CommitHash(ref string) (string, error) {
	output, err := c.git("rev-parse", ref).Output()
	if err != nil {
		return "", fmt.Errorf("failed to get commit hash for %s: %w", ref, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// UpstreamBranch returns the upstream tracking branch for the given
// branch (e.g. "origin/main"), or "" if none is configured.
func (c *Client) UpstreamBranch(branch string) string {
	output, err := c.git("rev-parse", "--abbrev-ref", branch+"@{upstream}").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}

// RemoteName returns the default remote name (usually "origin")
func (c *Client) RemoteName() (string, error) {
	output, err := c.git("remote").Output()
	if err != nil {
		return "", fmt.Errorf("failed to list remotes: %w", err)
	}
	remotes := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(remotes) == 0 || remotes[0] == "" {
		return "", fmt.Errorf("no git remote configured")
	}
	return remotes[0], nil
}

// RemoteURL returns the fetch URL of the given remote
func (c *Client) RemoteURL(remote string) (string, error) {
	output, err := c.git("remote", "get-url", remote).Output()
	if err != nil {
		return "", fmt.Errorf("failed to get URL for remote %s: %w", remote, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Fetch fetches from the given remote
func (c *Client) Fetch(remote string) error {
	if output, err := c.git("fetch", "--quiet", remote).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to fetch %s: %w\nOutput: %s", remote, err, string(output))
	}
	return nil
}

// HasUncommittedChanges checks if there are any uncommitted or
// untracked changes in the working directory
func (c *Client) HasUncommittedChanges() (bool, error) {
	output, err := c.git("status", "--porcelain").Output()
	if err != nil {
		return false, fmt.Errorf("failed to check git status: %w", err)
	}
	return len(strings.TrimSpace(string(output))) > 0, nil
}

// StashPush stashes the working directory, including untracked files
func (c *Client) StashPush(message string) error {
	if output, err := c.git("stash", "push", "--include-untracked", "--quiet", "--message", message).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to stash working tree: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// StashPop restores the most recent stash entry
func (c *Client) StashPop() error {
	if output, err := c.git("stash", "pop", "--quiet").CombinedOutput(); err != nil {
		return fmt.Errorf("failed to unstash working tree: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// PushCommit force-pushes a commit to the named branch on the remote
// using an explicit refspec, so no local branch is needed. Returns an
// error wrapping ErrPushRejected when the remote refuses the update.
func (c *Client) PushCommit(remote string, commitHash string, branch string) error {
	refspec := fmt.Sprintf("%s:refs/heads/%s", commitHash, branch)
	output, err := c.git("push", "--force", remote, refspec).CombinedOutput()
	if err != nil {
		if isRejection(string(output)) {
			return fmt.Errorf("push of %s to %s: %w", branch, remote, ErrPushRejected)
		}
		return fmt.Errorf("failed to push branch %s to %s: %w\nOutput: %s", branch, remote, err, string(output))
	}
	return nil
}

// DeleteRemoteBranch deletes a branch on the remote
func (c *Client) DeleteRemoteBranch(remote string, branch string) error {
	if output, err := c.git("push", "--quiet", remote, ":refs/heads/"+branch).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to delete remote branch %s: %w\nOutput: %s", branch, err, string(output))
	}
	return nil
}

// CommitTree creates a commit from a tree with a specific message and parent
func (c *Client) CommitTree(treeHash string, parentHash string, message string) (string, error) {
	output, err := c.git("commit-tree", treeHash, "-p", parentHash, "-m", message).Output()
	if err != nil {
		return "", fmt.Errorf("failed to commit tree: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// CommitTreeOf returns the tree hash for a commit
func (c *Client) CommitTreeOf(commitHash string) (string, error) {
	output, err := c.git("rev-parse", commitHash+"^{tree}").Output()
	if err != nil {
		return "", fmt.Errorf("failed to get tree for %s: %w", commitHash, err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ResetHard resets the current branch, index, and working tree to ref
func (c *Client) ResetHard(ref string) error {
	if err := c.git("reset", "--hard", "--quiet", ref).Run(); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", ref, err)
	}
	return nil
}

// UpdateRef updates a branch reference to point to a specific commit
// without checking it out
func (c *Client) UpdateRef(branchName string, commitHash string) error {
	if err := c.git("update-ref", "refs/heads/"+branchName, commitHash).Run(); err != nil {
		return fmt.Errorf("failed to update ref %s to %s: %w", branchName, commitHash, err)
	}
	return nil
}

// isRejection reports whether push output indicates the remote refused
// the ref update, as opposed to a transport or authentication failure.
func isRejection(output string) bool {
	return strings.Contains(output, "[rejected]") ||
		strings.Contains(output, "[remote rejected]") ||
		strings.Contains(output, "protected branch")
}
