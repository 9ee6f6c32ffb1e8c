// Package hooks installs the commit-msg hook that stamps a change-id
// trailer onto every new commit, so commits are tagged at creation time
// instead of by a history rewrite at publish time.
package hooks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const hookName = "commit-msg"

// hookScript is the commit-msg hook body; it delegates to the publish
// binary so the hook logic can change without reinstalling.
const hookScript = `#!/bin/sh
# Git hook: commit-msg
# Installed by publish - delegates to the publish binary
exec publish hook commit-msg "$1"
`

// Install writes the commit-msg hook. A hook we already installed is
// overwritten (idempotent); a foreign commit-msg hook is left alone and
// reported, since silently replacing it would break the user's setup.
func Install(gitRoot string) error {
	hooksDir := filepath.Join(gitRoot, ".git", "hooks")

	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}

	hookPath := filepath.Join(hooksDir, hookName)
	content, err := os.ReadFile(hookPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read existing %s hook: %w", hookName, err)
	}
	if err == nil && !IsOurs(string(content)) {
		return fmt.Errorf("a foreign %s hook exists at %s; remove it first", hookName, hookPath)
	}

	if err := os.WriteFile(hookPath, []byte(hookScript), 0755); err != nil {
		return fmt.Errorf("failed to write %s hook: %w", hookName, err)
	}

	return nil
}

// Uninstall removes the commit-msg hook if we installed it.
func Uninstall(gitRoot string) error {
	hookPath := filepath.Join(gitRoot, ".git", "hooks", hookName)

	content, err := os.ReadFile(hookPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read %s hook: %w", hookName, err)
	}
	if !IsOurs(string(content)) {
		return nil
	}

	if err := os.Remove(hookPath); err != nil {
		return fmt.Errorf("failed to remove %s hook: %w", hookName, err)
	}
	return nil
}

// IsInstalled reports whether our commit-msg hook is in place.
func IsInstalled(gitRoot string) bool {
	content, err := os.ReadFile(filepath.Join(gitRoot, ".git", "hooks", hookName))
	return err == nil && IsOurs(string(content))
}

// IsOurs checks whether hook content was written by publish.
func IsOurs(content string) bool {
	return strings.Contains(content, "Installed by publish") ||
		strings.Contains(content, "publish hook")
}
