package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jspahr/publish/internal/git"
)

// NewTestRepo creates a git repository in a temporary directory with an
// initial commit on main and returns a client for it.
func NewTestRepo(t *testing.T) *git.Client {
	t.Helper()
	tempDir := t.TempDir()

	run(t, tempDir, "init", "--initial-branch=main")
	run(t, tempDir, "config", "user.email", "test@example.com")
	run(t, tempDir, "config", "user.name", "Test User")

	gitClient, err := git.NewClientAt(tempDir)
	require.NoError(t, err)

	Commit(t, gitClient, "Initial commit", "")

	return gitClient
}

// Commit writes a file named after the title and commits it with the
// given message, returning the commit hash.
func Commit(t *testing.T, gitClient *git.Client, title string, body string) string {
	t.Helper()

	message := title
	if body != "" {
		message = fmt.Sprintf("%s\n\n%s", title, body)
	}
	return CommitRaw(t, gitClient, title, message)
}

// CommitRaw commits a file change with an exact commit message.
func CommitRaw(t *testing.T, gitClient *git.Client, fileStamp string, message string) string {
	t.Helper()
	root := gitClient.GitRoot()

	name := strings.Map(func(r rune) rune {
		if r == '/' || r == ' ' {
			return '-'
		}
		return r
	}, fileStamp)
	testFile := filepath.Join(root, fmt.Sprintf("file-%s.txt", name))
	require.NoError(t, os.WriteFile(testFile, []byte(message+"\n"), 0644))

	run(t, root, "add", ".")
	runEnv(t, root, []string{
		"GIT_AUTHOR_DATE=2024-01-01T00:00:00Z",
		"GIT_COMMITTER_DATE=2024-01-01T00:00:00Z",
	}, "commit", "-m", message)

	hash, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)
	return hash
}

func run(t *testing.T, dir string, args ...string) string {
	t.Helper()
	return runEnv(t, dir, nil, args...)
}

func runEnv(t *testing.T, dir string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = append(os.Environ(), env...)
	}
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s failed: %s", strings.Join(args, " "), string(output))
	return strings.TrimSpace(string(output))
}
