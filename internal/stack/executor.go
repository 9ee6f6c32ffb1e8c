package stack

import (
	"context"
	"fmt"

	"github.com/jspahr/publish/internal/changeid"
	"github.com/jspahr/publish/internal/git"
	"github.com/jspahr/publish/internal/hosting"
)

// Outcome is the per-operation result of a run.
type Outcome string

const (
	OutcomeCreated    Outcome = "created"
	OutcomeUpdated    Outcome = "updated"
	OutcomeRetargeted Outcome = "retargeted"
	OutcomeClosed     Outcome = "closed"
	OutcomeNoOp       Outcome = "no-op"
	OutcomeFailed     Outcome = "failed"
	OutcomeSkipped    Outcome = "skipped"
)

// Result records what happened to one change during plan execution.
type Result struct {
	ID      changeid.ID
	Op      OpKind
	Outcome Outcome
	URL     string
	Err     error
}

// Failed reports whether the result is a failure (skips count: the
// operation was wanted and did not happen).
func (r Result) Failed() bool {
	return r.Outcome == OutcomeFailed || r.Outcome == OutcomeSkipped
}

// Executor applies a plan against git and the review host. A failed
// operation does not abort the run: independent operations continue and
// the failure is reported in the results. Close-and-delete operations
// run only when every create/update/retarget succeeded, so a branch a
// retarget may still need is never destroyed under it.
type Executor struct {
	git  *git.Client
	host hosting.Host
}

// NewExecutor creates an executor.
func NewExecutor(gitClient *git.Client, host hosting.Host) *Executor {
	return &Executor{git: gitClient, host: host}
}

// WithRestoredTree stashes any uncommitted changes, runs fn, and
// restores the stash on every exit path, including error returns and
// cancellation. The working tree is exclusively ours between stash and
// unstash.
func (e *Executor) WithRestoredTree(fn func() error) (err error) {
	dirty, err := e.git.HasUncommittedChanges()
	if err != nil {
		return err
	}

	if dirty {
		if err := e.git.StashPush("publish: temporary stash"); err != nil {
			return err
		}
		defer func() {
			if unstashErr := e.git.StashPop(); unstashErr != nil && err == nil {
				err = unstashErr
			}
		}()
	}

	return fn()
}

// Apply executes the plan in its fixed order and returns one result per
// operation. The returned error is non-nil only when the run itself was
// cut short (cancellation); per-operation failures live in the results.
func (e *Executor) Apply(ctx context.Context, plan *Plan) ([]Result, error) {
	results := make([]Result, 0, len(plan.Ops))

	// Branches whose create failed; anything targeting them is skipped
	unavailable := make(map[string]bool)

	for _, op := range plan.Ops {
		if op.Kind == OpCloseDelete {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, e.applyEntry(ctx, op, unavailable))
	}

	anyFailed := false
	for _, r := range results {
		if r.Failed() {
			anyFailed = true
			break
		}
	}

	for _, op := range plan.Ops {
		if op.Kind != OpCloseDelete {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if anyFailed {
			results = append(results, Result{
				ID: op.Remote.ID, Op: op.Kind, Outcome: OutcomeSkipped,
				Err: fmt.Errorf("skipped: earlier operations failed, keeping %s as an anchor", op.Remote.Branch),
			})
			continue
		}
		results = append(results, e.applyCloseDelete(ctx, op))
	}

	return results, nil
}

func (e *Executor) applyEntry(ctx context.Context, op Operation, unavailable map[string]bool) Result {
	entry := op.Entry
	branch := entry.ID.BranchName()
	res := Result{ID: entry.ID, Op: op.Kind}
	if op.Remote != nil && op.Remote.Review != nil {
		res.URL = op.Remote.Review.URL
	}

	if unavailable[op.Target] {
		res.Outcome = OutcomeSkipped
		res.Err = fmt.Errorf("skipped: target branch %s was not created", op.Target)
		if op.Kind == OpCreate {
			unavailable[branch] = true
		}
		return res
	}

	switch op.Kind {
	case OpCreate:
		if err := e.host.PushBranch(ctx, branch, entry.CommitHash); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			unavailable[branch] = true
			return res
		}
		review, err := e.host.CreateReview(ctx, branch, op.Target, entry.Message.Title, entry.Message.Body)
		if err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			return res
		}
		res.Outcome = OutcomeCreated
		res.URL = review.URL

	case OpUpdate:
		if err := e.host.PushBranch(ctx, branch, entry.CommitHash); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			return res
		}
		// Review target moves with the content when both changed. A
		// forced update has no trusted review state, so it is left alone.
		if !op.Forced && op.Remote.Review != nil && op.Remote.Review.Target != op.Target {
			if err := e.host.UpdateReviewTarget(ctx, op.Remote.Review.ID, op.Target); err != nil {
				res.Outcome = OutcomeFailed
				res.Err = err
				return res
			}
		}
		res.Outcome = OutcomeUpdated

	case OpRetarget:
		if err := e.host.UpdateReviewTarget(ctx, op.Remote.Review.ID, op.Target); err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
			return res
		}
		res.Outcome = OutcomeRetargeted

	case OpNoOp:
		res.Outcome = OutcomeNoOp
	}

	return res
}

func (e *Executor) applyCloseDelete(ctx context.Context, op Operation) Result {
	re := op.Remote
	res := Result{ID: re.ID, Op: op.Kind}

	if re.Unknown {
		// No trusted review state; deleting the branch could orphan an
		// open review, so leave it for a later run to resolve.
		res.Outcome = OutcomeSkipped
		res.Err = fmt.Errorf("skipped: review state for %s is unknown", re.Branch)
		return res
	}

	if re.Review != nil {
		res.URL = re.Review.URL
		if re.Review.State == "open" {
			if err := e.host.CloseReview(ctx, re.Review.ID); err != nil {
				// Never delete a branch under a review we failed to close
				res.Outcome = OutcomeFailed
				res.Err = err
				return res
			}
		}
	}

	if err := e.host.DeleteBranch(ctx, re.Branch); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	res.Outcome = OutcomeClosed
	return res
}
