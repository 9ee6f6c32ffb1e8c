// Package install implements git hook installation.
package install

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jspahr/publish/internal/git"
	"github.com/jspahr/publish/internal/hooks"
	"github.com/jspahr/publish/internal/ui"
)

type Command struct {
	// Flags
	Remove bool

	Git *git.Client
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "install",
		Short: "Install the commit-msg hook",
		Long: `Install the commit-msg git hook into the current repository.

The hook adds a Change-Id trailer to every new commit, so commits keep
their identity across amends and rebases. Running 'publish' installs the
hook automatically; this command exists to install or remove it by hand.

This command is idempotent and can be run multiple times safely.

Example:
  publish install
  publish install --remove`,
		Args: cobra.NoArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Git, err = git.NewClient()
			if err != nil {
				return fmt.Errorf("not inside a git repository: %w", err)
			}
			return nil
		},
		RunE: c.Run,
	}

	command.Flags().BoolVar(&c.Remove, "remove", false, "Remove the hook instead of installing it")

	parent.AddCommand(command)
}

func (c *Command) Run(cmd *cobra.Command, args []string) error {
	if c.Remove {
		if err := hooks.Uninstall(c.Git.GitRoot()); err != nil {
			return fmt.Errorf("failed to remove commit-msg hook: %w", err)
		}
		ui.Success("commit-msg hook removed")
		return nil
	}

	if hooks.IsInstalled(c.Git.GitRoot()) {
		ui.Info("commit-msg hook already installed, reinstalling...")
	}
	if err := hooks.Install(c.Git.GitRoot()); err != nil {
		return fmt.Errorf("failed to install commit-msg hook: %w", err)
	}
	ui.Success("commit-msg hook installed")
	ui.Print("")
	ui.Print("New commits will carry a Change-Id trailer. Publish the stack with:")
	ui.Print("  " + ui.Bold("publish sync"))

	return nil
}
