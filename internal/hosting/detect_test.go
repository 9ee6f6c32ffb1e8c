package hosting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		wantPlatform  Platform
		wantHostname  string
		wantNamespace string
	}{
		{
			name:          "github https",
			url:           "https://github.com/acme/widgets.git",
			wantPlatform:  PlatformGitHub,
			wantHostname:  "github.com",
			wantNamespace: "acme/widgets",
		},
		{
			name:          "github https without .git",
			url:           "https://github.com/acme/widgets",
			wantPlatform:  PlatformGitHub,
			wantHostname:  "github.com",
			wantNamespace: "acme/widgets",
		},
		{
			name:          "github scp-like",
			url:           "git@github.com:acme/widgets.git",
			wantPlatform:  PlatformGitHub,
			wantHostname:  "github.com",
			wantNamespace: "acme/widgets",
		},
		{
			name:          "github ssh",
			url:           "ssh://git@github.com/acme/widgets.git",
			wantPlatform:  PlatformGitHub,
			wantHostname:  "github.com",
			wantNamespace: "acme/widgets",
		},
		{
			name:          "gitlab https",
			url:           "https://gitlab.com/acme/widgets.git",
			wantPlatform:  PlatformGitLab,
			wantHostname:  "gitlab.com",
			wantNamespace: "acme/widgets",
		},
		{
			name:          "self-hosted gitlab",
			url:           "git@gitlab.internal.acme.com:platform/widgets.git",
			wantPlatform:  PlatformGitLab,
			wantHostname:  "gitlab.internal.acme.com",
			wantNamespace: "platform/widgets",
		},
		{
			name:          "gitlab subgroup",
			url:           "https://gitlab.com/acme/platform/widgets.git",
			wantPlatform:  PlatformGitLab,
			wantHostname:  "gitlab.com",
			wantNamespace: "acme/platform/widgets",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseRemoteURL(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPlatform, info.Platform)
			assert.Equal(t, tt.wantHostname, info.Hostname)
			assert.Equal(t, tt.wantNamespace, info.Namespace)
		})
	}
}

func TestParseRemoteURLErrors(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"unsupported host", "https://bitbucket.org/acme/widgets.git"},
		{"no namespace", "https://github.com/"},
		{"bare host", "github.com"},
		{"local path", "/srv/git/widgets.git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRemoteURL(tt.url)
			assert.Error(t, err)
		})
	}
}
