package stack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jspahr/publish/internal/changeid"
	"github.com/jspahr/publish/internal/testutil"
)

func TestTaggerNoOpWhenFullyTagged(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	base, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)
	testutil.CommitRaw(t, gitClient, "one", "First change\n\nChange-Id: alice/aaaa0000aaaa0000\n")

	reader := newTestReader(t, gitClient)
	stk, err := reader.Read("main", base, "HEAD")
	require.NoError(t, err)

	tipBefore, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)

	tagger := NewTagger(gitClient, changeid.DefaultTrailerPrefix, "alice")
	rewritten, err := tagger.Tag(stk, stk.IDs())
	require.NoError(t, err)
	assert.False(t, rewritten)

	tipAfter, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)
	assert.Equal(t, tipBefore, tipAfter)
}

func TestTaggerTagsUntaggedCommits(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	base, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)

	testutil.CommitRaw(t, gitClient, "one", "First change\n\nChange-Id: alice/aaaa0000aaaa0000\n")
	testutil.CommitRaw(t, gitClient, "two", "Second change\n")
	testutil.CommitRaw(t, gitClient, "three", "Third change\n\nWith a body.\n")

	reader := newTestReader(t, gitClient)
	stk, err := reader.Read("main", base, "HEAD")
	require.NoError(t, err)
	require.True(t, stk.NeedsTagging())

	firstHash := stk.Entries[0].CommitHash

	tagger := NewTagger(gitClient, changeid.DefaultTrailerPrefix, "alice")
	rewritten, err := tagger.Tag(stk, stk.IDs())
	require.NoError(t, err)
	assert.True(t, rewritten)

	// Re-read: every entry now has an id, the already-tagged commit is
	// untouched, and positions are preserved.
	stk, err = reader.Read("main", base, "HEAD")
	require.NoError(t, err)
	require.Len(t, stk.Entries, 3)
	assert.False(t, stk.NeedsTagging())

	assert.Equal(t, changeid.ID("alice/aaaa0000aaaa0000"), stk.Entries[0].ID)
	assert.Equal(t, firstHash, stk.Entries[0].CommitHash)

	assert.NotEmpty(t, stk.Entries[1].ID)
	assert.NotEmpty(t, stk.Entries[2].ID)
	assert.NotEqual(t, stk.Entries[1].ID, stk.Entries[2].ID)

	// Titles and bodies survive the rewrite
	assert.Equal(t, "Second change", stk.Entries[1].Message.Title)
	assert.Equal(t, "Third change", stk.Entries[2].Message.Title)
	assert.Equal(t, "With a body.", stk.Entries[2].Message.Body)

	// The rewrite only touched commit metadata
	tree1, err := gitClient.CommitTreeOf(stk.Entries[2].CommitHash)
	require.NoError(t, err)
	assert.NotEmpty(t, tree1)
}

func TestTaggerRewritesDescendantsOfFirstTagged(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	base, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)

	testutil.CommitRaw(t, gitClient, "one", "First change\n")
	h2 := testutil.CommitRaw(t, gitClient, "two", "Second change\n\nChange-Id: alice/bbbb0000bbbb0000\n")

	reader := newTestReader(t, gitClient)
	stk, err := reader.Read("main", base, "HEAD")
	require.NoError(t, err)

	tagger := NewTagger(gitClient, changeid.DefaultTrailerPrefix, "alice")
	rewritten, err := tagger.Tag(stk, stk.IDs())
	require.NoError(t, err)
	require.True(t, rewritten)

	stk, err = reader.Read("main", base, "HEAD")
	require.NoError(t, err)
	require.Len(t, stk.Entries, 2)

	// The second commit keeps its id but gets a new hash, because its
	// parent was rewritten under it.
	assert.Equal(t, changeid.ID("alice/bbbb0000bbbb0000"), stk.Entries[1].ID)
	assert.NotEqual(t, h2, stk.Entries[1].CommitHash)
}

func TestTaggerAvoidsTakenIDs(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	base, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)
	testutil.CommitRaw(t, gitClient, "one", "First change\n")

	reader := newTestReader(t, gitClient)
	stk, err := reader.Read("main", base, "HEAD")
	require.NoError(t, err)

	taken := map[changeid.ID]bool{"alice/remote00remote00": true}
	tagger := NewTagger(gitClient, changeid.DefaultTrailerPrefix, "alice")
	_, err = tagger.Tag(stk, taken)
	require.NoError(t, err)

	stk, err = reader.Read("main", base, "HEAD")
	require.NoError(t, err)
	assert.NotEqual(t, changeid.ID("alice/remote00remote00"), stk.Entries[0].ID)
}

func TestTaggerDirtyTree(t *testing.T) {
	gitClient := testutil.NewTestRepo(t)
	base, err := gitClient.CommitHash("HEAD")
	require.NoError(t, err)
	testutil.CommitRaw(t, gitClient, "one", "First change\n")

	reader := newTestReader(t, gitClient)
	stk, err := reader.Read("main", base, "HEAD")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(gitClient.GitRoot(), "dirty.txt"), []byte("wip\n"), 0644))

	tagger := NewTagger(gitClient, changeid.DefaultTrailerPrefix, "alice")
	_, err = tagger.Tag(stk, stk.IDs())
	assert.ErrorIs(t, err, ErrDirtyTree)
}
