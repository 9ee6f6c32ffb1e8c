package stack

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"github.com/jspahr/publish/internal/changeid"
	"github.com/jspahr/publish/internal/hosting"
)

// readRetries bounds retries for idempotent remote reads.
// Mutations are never retried here: an ambiguous failure followed by a
// blind retry could double-create a review.
const readRetries = 3

// Resolver queries the review host for the branches and reviews this
// tool owns and builds the per-run remote mapping.
type Resolver struct {
	host hosting.Host
}

// NewResolver creates a remote state resolver.
func NewResolver(host hosting.Host) *Resolver {
	return &Resolver{host: host}
}

// Resolve lists all remote branches under the tool's naming convention
// and looks up the review for each, keyed by change id. A failed review
// lookup degrades that entry to Unknown with a warning instead of
// aborting the run; treating it as absent could trigger a destructive
// re-create.
func (r *Resolver) Resolve(ctx context.Context, branchPrefix string) (*RemoteState, error) {
	branches, err := retryRead(ctx, func() ([]hosting.BranchRef, error) {
		return r.host.FindBranches(ctx, branchPrefix)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}

	state := &RemoteState{Entries: make(map[changeid.ID]*RemoteEntry, len(branches))}

	for _, branch := range branches {
		id, ok := changeid.FromBranch(branch.Name, branchPrefix)
		if !ok {
			// Not one of ours
			continue
		}

		entry := &RemoteEntry{
			ID:     id,
			Branch: branch.Name,
			Commit: branch.Commit,
		}

		review, err := retryRead(ctx, func() (*hosting.Review, error) {
			return r.host.FindReview(ctx, branch.Name)
		})
		if err != nil {
			entry.Unknown = true
			state.Warnings = append(state.Warnings,
				fmt.Sprintf("review lookup for %s failed, treating conservatively: %v", branch.Name, err))
		} else {
			entry.Review = review
		}

		state.Entries[id] = entry
	}

	return state, nil
}

// retryRead retries an idempotent read with bounded exponential backoff.
func retryRead[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), readRetries), ctx)
	return backoff.RetryWithData(fn, b)
}
