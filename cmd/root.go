package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/jspahr/publish/cmd/hook"
	"github.com/jspahr/publish/cmd/install"
	"github.com/jspahr/publish/cmd/open"
	syncmd "github.com/jspahr/publish/cmd/sync"
	"github.com/jspahr/publish/internal/hooks"
	"github.com/jspahr/publish/internal/ui"
)

var syncCommand = &syncmd.Command{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a stack of commits as chained reviews",
	Long: `Publish turns the linear stack of commits on your branch into a chain
of reviews, one per commit, each targeting the branch of the commit
below it.

Running 'publish' with no arguments installs the commit-msg hook if
needed and synchronizes the stack, which is the everyday workflow.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := syncCommand.Init(); err != nil {
			return err
		}
		if !hooks.IsInstalled(syncCommand.Git.GitRoot()) {
			if err := hooks.Install(syncCommand.Git.GitRoot()); err != nil {
				return err
			}
			ui.Success("commit-msg hook installed")
		}
		return syncCommand.Run(cmd.Context())
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		ui.Errorf("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&syncCommand.DryRun, "dry-run", false, "Show what would happen without doing it")

	commands := []Command{
		syncCommand,
		&open.Command{},
		&install.Command{},
		&hook.Command{},
	}

	for _, cmd := range commands {
		cmd.Register(rootCmd)
	}
}
