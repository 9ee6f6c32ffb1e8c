package hook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jspahr/publish/internal/changeid"
	"github.com/jspahr/publish/internal/config"
)

func runCommitMsgHook(t *testing.T, message string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "COMMIT_EDITMSG")
	require.NoError(t, os.WriteFile(file, []byte(message), 0644))

	cmd := &CommitMsgCommand{
		parent: &Command{Config: &config.Config{
			BranchPrefix:  "alice",
			TrailerPrefix: changeid.DefaultTrailerPrefix,
		}},
		MessageFile: file,
	}
	require.NoError(t, cmd.Run())

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	return string(content)
}

func TestCommitMsgAddsTrailer(t *testing.T) {
	got := runCommitMsgHook(t, "Fix login bug\n")

	id, ok := changeid.Parse(got, changeid.DefaultTrailerPrefix)
	require.True(t, ok, "message should carry a Change-Id trailer: %q", got)
	_, valid := changeid.FromBranch(id.BranchName(), "alice")
	assert.True(t, valid)
}

func TestCommitMsgKeepsExistingTrailer(t *testing.T) {
	msg := "Fix login bug\n\nChange-Id: alice/aaaa0000aaaa0000\n"
	got := runCommitMsgHook(t, msg)
	assert.Equal(t, msg, got)
}

func TestCommitMsgIgnoresCommentOnlyMessage(t *testing.T) {
	msg := "# Please enter the commit message.\n# Lines starting with '#' are ignored.\n"
	got := runCommitMsgHook(t, msg)
	assert.Equal(t, msg, got)
}

func TestCommitMsgIgnoresFixup(t *testing.T) {
	msg := "fixup! Fix login bug\n"
	got := runCommitMsgHook(t, msg)
	assert.Equal(t, msg, got)
}

func TestCommitMsgDetectsTrailerBehindComments(t *testing.T) {
	msg := "Fix login bug\n\nChange-Id: alice/aaaa0000aaaa0000\n# some comment\n"
	got := runCommitMsgHook(t, msg)
	assert.Equal(t, msg, got)
}
