// Package open implements browsing the stack's published reviews.
package open

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jspahr/publish/internal/config"
	"github.com/jspahr/publish/internal/git"
	"github.com/jspahr/publish/internal/hosting"
	"github.com/jspahr/publish/internal/stack"
	"github.com/jspahr/publish/internal/ui"
)

// Command opens a published review in the browser
type Command struct {
	// Flags
	All bool

	Git    *git.Client
	Config *config.Config
}

func (c *Command) Register(parent *cobra.Command) {
	command := &cobra.Command{
		Use:   "open",
		Short: "Open a published review in the browser",
		Long: `Open one of the stack's published reviews in the browser.

Presents an interactive fuzzy finder over the reviews published under
your branch prefix. Use --all to open every review instead.

Examples:
  publish open         # Pick a review interactively
  publish open --all   # Open every review in the stack`,
		Args: cobra.NoArgs,
		PreRunE: func(cobraCmd *cobra.Command, args []string) error {
			var err error
			c.Git, err = git.NewClient()
			if err != nil {
				return fmt.Errorf("not inside a git repository: %w", err)
			}
			c.Config, err = config.Load(c.Git.GitRoot())
			return err
		},
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return c.Run(cobraCmd.Context())
		},
		SilenceUsage: true,
	}

	command.Flags().BoolVarP(&c.All, "all", "a", false, "Open all reviews in the stack")

	parent.AddCommand(command)
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	remote := c.Config.Remote
	if remote == "" {
		var err error
		remote, err = c.Git.RemoteName()
		if err != nil {
			return err
		}
	}
	remoteURL, err := c.Git.RemoteURL(remote)
	if err != nil {
		return err
	}
	host, err := hosting.NewHost(c.Git, remote, remoteURL, c.Config.GitLabURL)
	if err != nil {
		return err
	}

	resolver := stack.NewResolver(host)
	remoteState, err := resolver.Resolve(ctx, c.Config.BranchPrefix)
	if err != nil {
		return fmt.Errorf("failed to resolve remote state: %w", err)
	}
	for _, w := range remoteState.Warnings {
		ui.Warning(w)
	}

	items := reviewItems(remoteState)
	if len(items) == 0 {
		return fmt.Errorf("no published reviews under %s/: run 'publish sync' first", c.Config.BranchPrefix)
	}

	if c.All {
		for _, item := range items {
			if err := openURL(item.URL); err != nil {
				ui.Warningf("Failed to open %s: %v", item.URL, err)
				continue
			}
			ui.Successf("Opening %s", item.Title)
		}
		return nil
	}

	selected, err := ui.SelectReview(items)
	if err != nil {
		return err
	}
	if selected == nil {
		return nil
	}

	if err := openURL(selected.URL); err != nil {
		return fmt.Errorf("failed to open review in browser: %w", err)
	}
	ui.Successf("Opening %s", selected.Title)
	return nil
}

func reviewItems(remoteState *stack.RemoteState) []ui.ReviewItem {
	items := make([]ui.ReviewItem, 0, len(remoteState.Entries))
	for _, re := range remoteState.Entries {
		if re.Review == nil {
			continue
		}
		items = append(items, ui.ReviewItem{
			ChangeID: re.ID.Token(),
			Title:    re.Review.Title,
			Target:   re.Review.Target,
			URL:      re.Review.URL,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Target < items[j].Target
	})
	return items
}

func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
