package hosting

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jspahr/publish/internal/git"
)

// Platform identifies a supported review host.
type Platform string

const (
	PlatformGitHub Platform = "github"
	PlatformGitLab Platform = "gitlab"
)

// RemoteInfo is what the adapter needs to know about the git remote:
// which platform it is and the project namespace ("owner/repo").
type RemoteInfo struct {
	Platform  Platform
	Hostname  string
	Namespace string
}

// ParseRemoteURL classifies a git remote URL by platform and extracts
// the project namespace. Supports https, ssh, and scp-like syntax
// ("git@host:owner/repo.git").
func ParseRemoteURL(remoteURL string) (*RemoteInfo, error) {
	hostname, path, err := splitRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	namespace := strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	if namespace == "" || !strings.Contains(namespace, "/") {
		return nil, fmt.Errorf("cannot determine project namespace from remote URL %q", remoteURL)
	}

	var platform Platform
	switch {
	case strings.Contains(hostname, "github"):
		platform = PlatformGitHub
	case strings.Contains(hostname, "gitlab"):
		platform = PlatformGitLab
	default:
		return nil, fmt.Errorf("unsupported review host %q (expected a GitHub or GitLab remote)", hostname)
	}

	return &RemoteInfo{Platform: platform, Hostname: hostname, Namespace: namespace}, nil
}

func splitRemoteURL(remoteURL string) (hostname string, path string, err error) {
	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return "", "", fmt.Errorf("invalid remote URL %q: %w", remoteURL, err)
		}
		return u.Hostname(), u.Path, nil
	}

	// scp-like syntax: [user@]host:path
	host, rest, ok := strings.Cut(remoteURL, ":")
	if !ok {
		return "", "", fmt.Errorf("invalid remote URL %q", remoteURL)
	}
	if _, after, ok := strings.Cut(host, "@"); ok {
		host = after
	}
	return host, rest, nil
}

// NewHost builds the review host adapter for the repository's remote.
// The git client is shared with the executor so branch pushes ride the
// normal git transport.
func NewHost(gitClient *git.Client, remote string, remoteURL string, gitlabURL string) (Host, error) {
	info, err := ParseRemoteURL(remoteURL)
	if err != nil {
		return nil, err
	}

	switch info.Platform {
	case PlatformGitHub:
		token, err := ResolveGitHubToken()
		if err != nil {
			return nil, err
		}
		return NewGitHub(gitClient, remote, info.Namespace, token)
	case PlatformGitLab:
		token, err := ResolveGitLabToken()
		if err != nil {
			return nil, err
		}
		baseURL := gitlabURL
		if baseURL == "" {
			baseURL = "https://" + info.Hostname
		}
		return NewGitLab(gitClient, remote, info.Namespace, token, baseURL)
	}
	return nil, fmt.Errorf("unsupported platform %q", info.Platform)
}
