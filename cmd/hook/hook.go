// Package hook implements the git hook entry points.
package hook

import (
	"github.com/spf13/cobra"

	"github.com/jspahr/publish/internal/config"
	"github.com/jspahr/publish/internal/git"
)

// Command is the parent command for all hook subcommands
type Command struct {
	Git    *git.Client
	Config *config.Config
}

// Register registers the hook command and all subcommands
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:    "hook",
		Short:  "Git hook commands (internal use)",
		Long:   `Hook commands are called by git hooks and should not be run directly by users.`,
		Hidden: true,
		PersistentPreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Git, err = git.NewClient()
			if err != nil {
				return err
			}
			c.Config, err = config.Load(c.Git.GitRoot())
			return err
		},
	}

	commitMsg := &CommitMsgCommand{parent: c}
	commitMsg.Register(cmd)

	parent.AddCommand(cmd)
}
