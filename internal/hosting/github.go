package hosting

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/jspahr/publish/internal/git"
)

// GitHub implements Host against the GitHub REST API. Branch pushes go
// through the shared git remote; everything else is API calls.
type GitHub struct {
	client *github.Client
	git    *git.Client
	remote string
	owner  string
	repo   string
}

// NewGitHub creates a GitHub host adapter for the given project
// namespace ("owner/repo").
func NewGitHub(gitClient *git.Client, remote string, namespace string, token string) (*GitHub, error) {
	owner, repo, ok := strings.Cut(namespace, "/")
	if !ok {
		return nil, fmt.Errorf("invalid GitHub namespace %q", namespace)
	}
	return &GitHub{
		client: github.NewClient(nil).WithAuthToken(token),
		git:    gitClient,
		remote: remote,
		owner:  owner,
		repo:   repo,
	}, nil
}

// FindBranches lists remote branches under "<prefix>/".
func (h *GitHub) FindBranches(ctx context.Context, prefix string) ([]BranchRef, error) {
	opts := &github.ReferenceListOptions{
		Ref:         "heads/" + prefix + "/",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var branches []BranchRef
	for {
		refs, resp, err := h.client.Git.ListMatchingRefs(ctx, h.owner, h.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list branches under %s/: %w", prefix, err)
		}
		for _, ref := range refs {
			name := strings.TrimPrefix(ref.GetRef(), "refs/heads/")
			branches = append(branches, BranchRef{
				Name:   name,
				Commit: ref.GetObject().GetSHA(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return branches, nil
}

// FindReview returns the open PR whose head is branchName, or nil.
func (h *GitHub) FindReview(ctx context.Context, branchName string) (*Review, error) {
	prs, _, err := h.client.PullRequests.List(ctx, h.owner, h.repo, &github.PullRequestListOptions{
		Head:  h.owner + ":" + branchName,
		State: "open",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list PRs for %s: %w", branchName, err)
	}
	if len(prs) == 0 {
		return nil, nil
	}

	pr := prs[0]
	return &Review{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		Target: pr.GetBase().GetRef(),
		State:  strings.ToLower(pr.GetState()),
		URL:    pr.GetHTMLURL(),
	}, nil
}

// PushBranch force-updates the branch over the git transport.
func (h *GitHub) PushBranch(ctx context.Context, branchName string, commitHash string) error {
	return h.git.PushCommit(h.remote, commitHash, branchName)
}

// DeleteBranch removes the remote branch.
func (h *GitHub) DeleteBranch(ctx context.Context, branchName string) error {
	if _, err := h.client.Git.DeleteRef(ctx, h.owner, h.repo, "heads/"+branchName); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// CreateReview opens a PR from sourceBranch into targetBranch.
func (h *GitHub) CreateReview(ctx context.Context, sourceBranch, targetBranch, title, body string) (*Review, error) {
	pr, _, err := h.client.PullRequests.Create(ctx, h.owner, h.repo, &github.NewPullRequest{
		Title: github.String(title),
		Body:  github.String(body),
		Head:  github.String(sourceBranch),
		Base:  github.String(targetBranch),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create PR for %s: %w", sourceBranch, err)
	}
	return &Review{
		ID:     pr.GetNumber(),
		Title:  pr.GetTitle(),
		Target: pr.GetBase().GetRef(),
		State:  strings.ToLower(pr.GetState()),
		URL:    pr.GetHTMLURL(),
	}, nil
}

// UpdateReviewTarget changes the PR's base branch.
func (h *GitHub) UpdateReviewTarget(ctx context.Context, reviewID int, targetBranch string) error {
	_, _, err := h.client.PullRequests.Edit(ctx, h.owner, h.repo, reviewID, &github.PullRequest{
		Base: &github.PullRequestBranch{Ref: github.String(targetBranch)},
	})
	if err != nil {
		return fmt.Errorf("failed to retarget PR #%d to %s: %w", reviewID, targetBranch, err)
	}
	return nil
}

// CloseReview closes the PR without merging.
func (h *GitHub) CloseReview(ctx context.Context, reviewID int) error {
	_, _, err := h.client.PullRequests.Edit(ctx, h.owner, h.repo, reviewID, &github.PullRequest{
		State: github.String("closed"),
	})
	if err != nil {
		return fmt.Errorf("failed to close PR #%d: %w", reviewID, err)
	}
	return nil
}
