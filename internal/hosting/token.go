package hosting

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// CredentialError reports a missing credential for a platform. It is
// fatal and raised before any remote call is attempted.
type CredentialError struct {
	Platform Platform
	Hint     string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("no %s credential found: %s", e.Platform, e.Hint)
}

// ResolveGitHubToken resolves a GitHub token in precedence order:
// GITHUB_TOKEN / GH_TOKEN environment variables, then the gh CLI, then
// the git credential helper.
func ResolveGitHubToken() (string, error) {
	if token := firstEnv("GITHUB_TOKEN", "GH_TOKEN"); token != "" {
		return token, nil
	}

	if path, err := exec.LookPath("gh"); err == nil {
		if output, err := exec.Command(path, "auth", "token").Output(); err == nil {
			if token := strings.TrimSpace(string(output)); token != "" {
				return token, nil
			}
		}
	}

	if token := gitCredentialToken("github.com"); token != "" {
		return token, nil
	}

	return "", &CredentialError{
		Platform: PlatformGitHub,
		Hint:     "set GITHUB_TOKEN (or GH_TOKEN), or run 'gh auth login'",
	}
}

// ResolveGitLabToken resolves a GitLab token from GITLAB_TOKEN.
func ResolveGitLabToken() (string, error) {
	if token := firstEnv("GITLAB_TOKEN"); token != "" {
		return token, nil
	}
	return "", &CredentialError{
		Platform: PlatformGitLab,
		Hint:     "set GITLAB_TOKEN",
	}
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
}

// gitCredentialToken asks the configured git credential helper for a
// password for the given host. Best effort; helpers may not be
// configured in containers.
func gitCredentialToken(host string) string {
	cmd := exec.Command("git", "credential", "fill")
	cmd.Stdin = strings.NewReader(fmt.Sprintf("protocol=https\nhost=%s\n\n", host))
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(output), "\n") {
		if password, ok := strings.CutPrefix(line, "password="); ok {
			return strings.TrimSpace(password)
		}
	}
	return ""
}
