package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GITPUBLISH_BRANCH_PREFIX", "alice")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "alice", cfg.BranchPrefix)
	assert.Equal(t, "Change-Id:", cfg.TrailerPrefix)
	assert.Equal(t, []string{"main", "master", "development", "develop"}, cfg.BaseBranches)
	assert.Empty(t, cfg.Remote)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	content := `branch_prefix: bob
change_id_prefix: "Review-Id:"
base_branches:
  - trunk
remote: upstream
gitlab_url: https://gitlab.internal.acme.com
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "bob", cfg.BranchPrefix)
	assert.Equal(t, "Review-Id:", cfg.TrailerPrefix)
	assert.Equal(t, []string{"trunk"}, cfg.BaseBranches)
	assert.Equal(t, "upstream", cfg.Remote)
	assert.Equal(t, "https://gitlab.internal.acme.com", cfg.GitLabURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	content := "branch_prefix: bob\nremote: upstream\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0644))

	t.Setenv("GITPUBLISH_BRANCH_PREFIX", "carol")
	t.Setenv("GITPUBLISH_BASE_BRANCHES", "main, release/1.0")
	t.Setenv("GITPUBLISH_REMOTE", "fork")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "carol", cfg.BranchPrefix)
	assert.Equal(t, []string{"main", "release/1.0"}, cfg.BaseBranches)
	assert.Equal(t, "fork", cfg.Remote)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("branch_prefix: [unclosed\n"), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestIsBaseBranch(t *testing.T) {
	cfg := &Config{BaseBranches: []string{"main", "develop"}}
	assert.True(t, cfg.IsBaseBranch("main"))
	assert.True(t, cfg.IsBaseBranch("develop"))
	assert.False(t, cfg.IsBaseBranch("feature"))
	assert.False(t, cfg.IsBaseBranch("master"))
}
