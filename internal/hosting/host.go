// Package hosting abstracts the review host (GitHub or GitLab) behind
// a single capability interface. The reconciliation core is polymorphic
// over Host and contains no platform branching; the concrete adapter is
// picked at startup from the repository's remote URL.
package hosting

import (
	"context"
)

// BranchRef is a remote branch and its tip commit.
type BranchRef struct {
	Name   string
	Commit string
}

// Review is the platform-neutral view of a pull/merge request.
type Review struct {
	// ID is the platform review identifier (PR number, MR IID).
	ID int
	// Title is the review's title.
	Title string
	// Target is the branch the review merges into.
	Target string
	// State is "open" or "closed".
	State string
	// URL is the review's web URL.
	URL string
}

// Host is the review-host capability consumed by the remote state
// resolver and the executor.
type Host interface {
	// FindBranches lists remote branches under the "<prefix>/" namespace.
	FindBranches(ctx context.Context, prefix string) ([]BranchRef, error)

	// FindReview returns the open review whose source branch is
	// branchName, or nil if none exists.
	FindReview(ctx context.Context, branchName string) (*Review, error)

	// PushBranch force-updates branchName to commitHash, creating the
	// branch if needed.
	PushBranch(ctx context.Context, branchName string, commitHash string) error

	// DeleteBranch removes the remote branch.
	DeleteBranch(ctx context.Context, branchName string) error

	// CreateReview opens a review from sourceBranch into targetBranch.
	CreateReview(ctx context.Context, sourceBranch, targetBranch, title, body string) (*Review, error)

	// UpdateReviewTarget changes only the review's target branch.
	UpdateReviewTarget(ctx context.Context, reviewID int, targetBranch string) error

	// CloseReview closes the review without merging.
	CloseReview(ctx context.Context, reviewID int) error
}
