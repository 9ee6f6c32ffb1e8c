package hosting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveGitHubTokenFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_from_env")
	t.Setenv("GH_TOKEN", "ghp_other")

	token, err := ResolveGitHubToken()
	require.NoError(t, err)
	assert.Equal(t, "ghp_from_env", token)
}

func TestResolveGitHubTokenPrefersGithubToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "ghp_gh_token")

	token, err := ResolveGitHubToken()
	require.NoError(t, err)
	assert.Equal(t, "ghp_gh_token", token)
}

func TestResolveGitLabToken(t *testing.T) {
	t.Setenv("GITLAB_TOKEN", "glpat_from_env")

	token, err := ResolveGitLabToken()
	require.NoError(t, err)
	assert.Equal(t, "glpat_from_env", token)
}

func TestResolveGitLabTokenMissing(t *testing.T) {
	t.Setenv("GITLAB_TOKEN", "")

	_, err := ResolveGitLabToken()
	var credErr *CredentialError
	require.True(t, errors.As(err, &credErr))
	assert.Equal(t, PlatformGitLab, credErr.Platform)
}
