// Package config resolves runtime configuration from defaults, an
// optional .publish.yaml at the repository root, and GITPUBLISH_*
// environment variables, in that precedence order. A .env file in the
// working directory is loaded first so tokens and overrides can live
// beside the checkout.
package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jspahr/publish/internal/changeid"
)

// ConfigFile is the name of the optional per-repository config file.
const ConfigFile = ".publish.yaml"

// DefaultBaseBranches are the branches a stack may be published from
// when no allowlist is configured.
var DefaultBaseBranches = []string{"main", "master", "development", "develop"}

// Config holds the resolved runtime configuration.
type Config struct {
	// BranchPrefix namespaces change ids and remote branches,
	// usually the developer's username.
	BranchPrefix string `yaml:"branch_prefix"`

	// TrailerPrefix is the commit message trailer key, e.g. "Change-Id:".
	TrailerPrefix string `yaml:"change_id_prefix"`

	// BaseBranches lists the branches publishing is allowed from.
	BaseBranches []string `yaml:"base_branches"`

	// Remote names the git remote to publish to. Empty means the
	// repository's first remote.
	Remote string `yaml:"remote"`

	// GitLabURL overrides the GitLab instance URL for self-hosted setups.
	GitLabURL string `yaml:"gitlab_url"`
}

// Load resolves configuration for the repository rooted at gitRoot.
func Load(gitRoot string) (*Config, error) {
	// Missing .env is the normal case
	_ = godotenv.Load()

	cfg := &Config{
		TrailerPrefix: changeid.DefaultTrailerPrefix,
		BaseBranches:  DefaultBaseBranches,
	}

	if err := cfg.loadFile(filepath.Join(gitRoot, ConfigFile)); err != nil {
		return nil, err
	}
	cfg.loadEnv()

	if cfg.BranchPrefix == "" {
		u, err := user.Current()
		if err != nil {
			return nil, fmt.Errorf("no branch prefix configured and failed to get current user: %w", err)
		}
		cfg.BranchPrefix = u.Username
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv("GITPUBLISH_CHANGE_ID_PREFIX"); v != "" {
		c.TrailerPrefix = v
	}
	if v := os.Getenv("GITPUBLISH_BRANCH_PREFIX"); v != "" {
		c.BranchPrefix = v
	}
	if v := os.Getenv("GITPUBLISH_BASE_BRANCHES"); v != "" {
		branches := []string{}
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				branches = append(branches, b)
			}
		}
		if len(branches) > 0 {
			c.BaseBranches = branches
		}
	}
	if v := os.Getenv("GITPUBLISH_REMOTE"); v != "" {
		c.Remote = v
	}
	if v := os.Getenv("GITLAB_URL"); v != "" {
		c.GitLabURL = v
	}
}

// IsBaseBranch reports whether branch is in the configured allowlist.
func (c *Config) IsBaseBranch(branch string) bool {
	for _, b := range c.BaseBranches {
		if b == branch {
			return true
		}
	}
	return false
}
