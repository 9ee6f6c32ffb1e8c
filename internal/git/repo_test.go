package git_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jspahr/publish/internal/git"
	"github.com/jspahr/publish/internal/testutil"
)

func TestRepoResolveAndCommit(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	parent, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)
	hash := testutil.CommitRaw(t, gitClient, "one", "Fix login bug\n\nSome body.\n\nChange-Id: alice/aaaa0000aaaa0000\n")

	repo, err := git.OpenRepo(gitClient.GitRoot())
	require.NoError(t, err)

	resolved, err := repo.ResolveRevision("HEAD")
	require.NoError(t, err)
	assert.Equal(t, hash, resolved)

	commit, err := repo.Commit(hash)
	require.NoError(t, err)
	assert.Equal(t, hash, commit.Hash)
	require.Len(t, commit.Parents, 1)
	assert.Equal(t, parent, commit.Parents[0])
	assert.Equal(t, "Fix login bug", commit.Message.Title)
	assert.Equal(t, "Some body.", commit.Message.Body)
	assert.Equal(t, "alice/aaaa0000aaaa0000", commit.Message.Trailers["Change-Id"])
}

func TestRepoOpenFromSubdirectory(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	sub := filepath.Join(gitClient.GitRoot(), "pkg", "deep")
	require.NoError(t, os.MkdirAll(sub, 0755))

	repo, err := git.OpenRepo(sub)
	require.NoError(t, err)

	_, err = repo.ResolveRevision("HEAD")
	assert.NoError(t, err)
}

func TestRepoIsDirty(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	repo, err := git.OpenRepo(gitClient.GitRoot())
	require.NoError(t, err)

	dirty, err := repo.IsDirty()
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(gitClient.GitRoot(), "wip.txt"), []byte("wip\n"), 0644))
	dirty, err = repo.IsDirty()
	require.NoError(t, err)
	assert.True(t, dirty)
}
