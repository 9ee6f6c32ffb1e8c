// Package sync implements the main publish operation: reading the local
// stack, reconciling it against the remote reviews, and applying the
// resulting plan.
package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jspahr/publish/internal/changeid"
	"github.com/jspahr/publish/internal/config"
	"github.com/jspahr/publish/internal/git"
	"github.com/jspahr/publish/internal/hosting"
	"github.com/jspahr/publish/internal/stack"
	"github.com/jspahr/publish/internal/ui"
)

// Command synchronizes the local stack with its remote reviews
type Command struct {
	// Flags
	DryRun bool // Show the plan without touching the remote

	Git    *git.Client
	Repo   *git.Repo
	Config *config.Config
}

// Register registers the command with cobra
func (c *Command) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Publish the commit stack as chained reviews",
		Long: `Publish every commit between the base branch and HEAD as a chain of
reviews, one per commit, each targeting the branch of the commit below it.

Commits are matched to existing reviews by their Change-Id trailer, so
amending, rebasing or reordering commits updates the right reviews, and
removing a commit closes its review. Commits without a trailer are tagged
first (this rewrites local history).

Running sync again with nothing changed does nothing.

Example:
  publish sync             # Reconcile and apply
  publish sync --dry-run   # Show the plan without applying it`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Run(cmd.Context())
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(&c.DryRun, "dry-run", false, "Show what would happen without doing it")

	parent.AddCommand(cmd)
}

// Init resolves the git clients and configuration. Separate from Run so
// the root command can share one initialized instance.
func (c *Command) Init() error {
	if c.Git != nil {
		return nil
	}

	gitClient, err := git.NewClient()
	if err != nil {
		return fmt.Errorf("not inside a git repository: %w", err)
	}
	repo, err := git.OpenRepo(gitClient.GitRoot())
	if err != nil {
		return err
	}
	cfg, err := config.Load(gitClient.GitRoot())
	if err != nil {
		return err
	}

	c.Git = gitClient
	c.Repo = repo
	c.Config = cfg
	return nil
}

// Run executes the command
func (c *Command) Run(ctx context.Context) error {
	if err := c.Init(); err != nil {
		return err
	}

	remote, baseBranch, err := c.resolveBase()
	if err != nil {
		return err
	}

	ui.Infof("Fetching %s...", remote)
	if err := c.Git.Fetch(remote); err != nil {
		return err
	}

	reader := stack.NewReader(c.Repo, c.Config.TrailerPrefix)
	stk, err := c.readStack(reader, remote, baseBranch)
	if err != nil {
		return err
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

	fresh := make(map[changeid.ID]bool)
	if stk.NeedsTagging() {
		taken := stk.IDs()
		for id := range remoteState.Entries {
			taken[id] = true
		}

		if c.DryRun {
			// Assign ids in memory only, so the plan below is complete.
			ui.Info("Some commits are missing Change-Id trailers and would be rewritten.")
			for i := range stk.Entries {
				if stk.Entries[i].ID == "" {
					id := changeid.Generate(c.Config.BranchPrefix, taken)
					taken[id] = true
					fresh[id] = true
					stk.Entries[i].ID = id
				}
			}
		} else {
			tagger := stack.NewTagger(c.Git, c.Config.TrailerPrefix, c.Config.BranchPrefix)
			rewritten, err := tagger.Tag(stk, taken)
			if err != nil {
				return err
			}
			if rewritten {
				ui.Info("Added Change-Id trailers (local history rewritten).")
				stk, err = c.readStack(reader, remote, baseBranch)
				if err != nil {
					return err
				}
			}
		}
	}

	plan, err := stack.BuildPlan(stk, remoteState)
	if err != nil {
		return err
	}

	if c.DryRun {
		ui.Header(fmt.Sprintf("Plan for %d change(s) onto %s", len(stk.Entries), baseBranch))
		ui.Print(ui.RenderSummary(planRows(plan, fresh)))
		return nil
	}

	if plan.AllNoOp() {
		ui.Successf("All %d change(s) up to date, nothing to do.", len(stk.Entries))
		return nil
	}

	executor := stack.NewExecutor(c.Git, host)
	var results []stack.Result
	err = executor.WithRestoredTree(func() error {
		var applyErr error
		results, applyErr = executor.Apply(ctx, plan)
		return applyErr
	})

	if len(results) > 0 {
		ui.Print(ui.RenderSummary(resultRows(plan, results)))
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d operation(s) did not complete", failed)
	}

	ui.Successf("Published %d change(s) onto %s.", len(stk.Entries), baseBranch)
	return nil
}

// resolveBase picks the remote and base branch from the current branch's
// upstream. Publishing is only allowed from a branch tracking one of the
// configured base branches.
func (c *Command) resolveBase() (remote string, baseBranch string, err error) {
	current, err := c.Git.CurrentBranch()
	if err != nil {
		return "", "", err
	}

	upstream := c.Git.UpstreamBranch(current)
	if upstream == "" {
		return "", "", fmt.Errorf(
			"branch %s has no upstream. Set one with 'git branch --set-upstream-to=<remote>/<branch>'",
			current)
	}

	remote, baseBranch, ok := strings.Cut(upstream, "/")
	if !ok {
		return "", "", fmt.Errorf("upstream %s is not a remote-tracking branch", upstream)
	}
	if c.Config.Remote != "" {
		remote = c.Config.Remote
	}

	if !c.Config.IsBaseBranch(baseBranch) {
		return "", "", fmt.Errorf(
			"upstream branch %s is not a configured base branch (%s)",
			baseBranch, strings.Join(c.Config.BaseBranches, ", "))
	}

	return remote, baseBranch, nil
}

func (c *Command) readStack(reader *stack.Reader, remote, baseBranch string) (*stack.Stack, error) {
	stk, err := reader.Read(baseBranch, remote+"/"+baseBranch, "HEAD")
	if err != nil {
		switch {
		case errors.Is(err, stack.ErrEmptyStack):
			return nil, fmt.Errorf("no commits between %s/%s and HEAD, nothing to publish", remote, baseBranch)
		case errors.Is(err, stack.ErrNotAStack):
			return nil, fmt.Errorf("HEAD does not build on %s/%s: %w", remote, baseBranch, err)
		case errors.Is(err, stack.ErrNonLinearStack):
			return nil, fmt.Errorf("the commit range contains merges; publish requires a linear history: %w", err)
		}
		return nil, err
	}
	return stk, nil
}

// planRows renders a dry-run plan, top of stack last. Ids in fresh were
// assigned in memory for this preview and will differ in a real run.
func planRows(plan *stack.Plan, fresh map[changeid.ID]bool) []ui.SummaryRow {
	rows := make([]ui.SummaryRow, 0, len(plan.Ops))
	for _, op := range plan.Ops {
		row := ui.SummaryRow{Operation: string(op.Kind)}
		if op.Kind == stack.OpCloseDelete {
			row.ChangeID = op.Remote.ID.Token()
			row.Outcome = "would close and delete " + op.Remote.Branch
			if op.Remote.Review != nil {
				row.URL = op.Remote.Review.URL
			}
		} else {
			row.ChangeID = op.Entry.ID.Token()
			if fresh[op.Entry.ID] {
				row.ChangeID = "(new)"
			}
			row.Title = op.Entry.Message.Title
			if op.Kind == stack.OpNoOp {
				row.Outcome = "up to date"
			} else {
				row.Outcome = "would " + string(op.Kind) + " onto " + op.Target
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func resultRows(plan *stack.Plan, results []stack.Result) []ui.SummaryRow {
	titles := make(map[string]string, len(plan.Ops))
	for _, op := range plan.Ops {
		if op.Entry != nil {
			titles[op.Entry.ID.BranchName()] = op.Entry.Message.Title
		}
	}

	rows := make([]ui.SummaryRow, 0, len(results))
	for _, r := range results {
		row := ui.SummaryRow{
			ChangeID:  r.ID.Token(),
			Title:     titles[r.ID.BranchName()],
			Operation: string(r.Op),
			Outcome:   string(r.Outcome),
			URL:       r.URL,
		}
		if r.Err != nil {
			row.Outcome = fmt.Sprintf("%s: %v", r.Outcome, r.Err)
		}
		rows = append(rows, row)
	}
	return rows
}
