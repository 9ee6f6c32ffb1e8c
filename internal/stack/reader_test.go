package stack

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jspahr/publish/internal/changeid"
	"github.com/jspahr/publish/internal/git"
	"github.com/jspahr/publish/internal/testutil"
)

func newTestReader(t *testing.T, gitClient *git.Client) *Reader {
	t.Helper()
	repo, err := git.OpenRepo(gitClient.GitRoot())
	require.NoError(t, err)
	return NewReader(repo, changeid.DefaultTrailerPrefix)
}

func gitRun(t *testing.T, gitClient *git.Client, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = gitClient.GitRoot()
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
}

func TestReaderLinearStack(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	base, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)

	h1 := testutil.CommitRaw(t, gitClient, "one", "First change\n\nChange-Id: alice/aaaa0000aaaa0000\n")
	h2 := testutil.CommitRaw(t, gitClient, "two", "Second change\n\nBody text.\n\nChange-Id: alice/bbbb0000bbbb0000\n")
	h3 := testutil.CommitRaw(t, gitClient, "three", "Third change, untagged\n")

	reader := newTestReader(t, gitClient)
	stk, err := reader.Read("main", base, "HEAD")
	require.NoError(t, err)

	assert.Equal(t, "main", stk.Base)
	assert.Equal(t, base, stk.BaseHash)
	assert.Equal(t, h3, stk.TipHash)

	require.Len(t, stk.Entries, 3)
	assert.Equal(t, h1, stk.Entries[0].CommitHash)
	assert.Equal(t, h2, stk.Entries[1].CommitHash)
	assert.Equal(t, h3, stk.Entries[2].CommitHash)

	assert.Equal(t, changeid.ID("alice/aaaa0000aaaa0000"), stk.Entries[0].ID)
	assert.Equal(t, changeid.ID("alice/bbbb0000bbbb0000"), stk.Entries[1].ID)
	assert.Equal(t, changeid.ID(""), stk.Entries[2].ID)
	assert.True(t, stk.NeedsTagging())

	assert.Equal(t, 0, stk.Entries[0].Position)
	assert.Equal(t, "Second change", stk.Entries[1].Message.Title)
	assert.Equal(t, "Body text.", stk.Entries[1].Message.Body)
}

func TestReaderEmptyStack(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	reader := newTestReader(t, gitClient)

	_, err := reader.Read("main", "HEAD", "HEAD")
	assert.ErrorIs(t, err, ErrEmptyStack)
}

func TestReaderMergeCommit(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	base, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)

	gitRun(t, gitClient, "checkout", "-b", "feature")
	testutil.Commit(t, gitClient, "Feature work", "")
	gitRun(t, gitClient, "checkout", "main")
	testutil.Commit(t, gitClient, "Main work", "")
	gitRun(t, gitClient, "merge", "--no-ff", "-m", "Merge feature", "feature")

	reader := newTestReader(t, gitClient)
	_, err = reader.Read("main", base, "HEAD")
	assert.ErrorIs(t, err, ErrNonLinearStack)
}

func TestReaderDivergedBase(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)

	gitRun(t, gitClient, "checkout", "-b", "feature")
	testutil.Commit(t, gitClient, "Feature work", "")
	gitRun(t, gitClient, "checkout", "main")
	testutil.Commit(t, gitClient, "Main moved on", "")
	base, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)
	gitRun(t, gitClient, "checkout", "feature")

	reader := newTestReader(t, gitClient)
	_, err = reader.Read("main", base, "HEAD")
	assert.ErrorIs(t, err, ErrNotAStack)
}
