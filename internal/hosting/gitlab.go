package hosting

import (
	"context"
	"fmt"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/jspahr/publish/internal/git"
)

// GitLab implements Host against the GitLab REST API.
type GitLab struct {
	client  *gitlab.Client
	git     *git.Client
	remote  string
	project string
}

// NewGitLab creates a GitLab host adapter for the given project
// namespace ("group/project").
func NewGitLab(gitClient *git.Client, remote string, namespace string, token string, baseURL string) (*GitLab, error) {
	client, err := gitlab.NewClient(token, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}
	return &GitLab{
		client:  client,
		git:     gitClient,
		remote:  remote,
		project: namespace,
	}, nil
}

// FindBranches lists remote branches under "<prefix>/".
func (h *GitLab) FindBranches(ctx context.Context, prefix string) ([]BranchRef, error) {
	opts := &gitlab.ListBranchesOptions{
		Search:      gitlab.Ptr("^" + prefix + "/"),
		ListOptions: gitlab.ListOptions{PerPage: 100},
	}

	var branches []BranchRef
	for {
		page, resp, err := h.client.Branches.ListBranches(h.project, opts, gitlab.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to list branches under %s/: %w", prefix, err)
		}
		for _, b := range page {
			// Search is a substring match server-side, so filter exactly
			if !strings.HasPrefix(b.Name, prefix+"/") {
				continue
			}
			branches = append(branches, BranchRef{Name: b.Name, Commit: b.Commit.ID})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return branches, nil
}

// FindReview returns the open MR whose source branch is branchName, or nil.
func (h *GitLab) FindReview(ctx context.Context, branchName string) (*Review, error) {
	mrs, _, err := h.client.MergeRequests.ListProjectMergeRequests(h.project, &gitlab.ListProjectMergeRequestsOptions{
		SourceBranch: gitlab.Ptr(branchName),
		State:        gitlab.Ptr("opened"),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to list MRs for %s: %w", branchName, err)
	}
	if len(mrs) == 0 {
		return nil, nil
	}

	mr := mrs[0]
	return &Review{
		ID:     mr.IID,
		Title:  mr.Title,
		Target: mr.TargetBranch,
		State:  normalizeMRState(mr.State),
		URL:    mr.WebURL,
	}, nil
}

// PushBranch force-updates the branch over the git transport.
func (h *GitLab) PushBranch(ctx context.Context, branchName string, commitHash string) error {
	return h.git.PushCommit(h.remote, commitHash, branchName)
}

// DeleteBranch removes the remote branch.
func (h *GitLab) DeleteBranch(ctx context.Context, branchName string) error {
	if _, err := h.client.Branches.DeleteBranch(h.project, branchName, gitlab.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// CreateReview opens an MR from sourceBranch into targetBranch.
func (h *GitLab) CreateReview(ctx context.Context, sourceBranch, targetBranch, title, body string) (*Review, error) {
	mr, _, err := h.client.MergeRequests.CreateMergeRequest(h.project, &gitlab.CreateMergeRequestOptions{
		Title:              gitlab.Ptr(title),
		Description:        gitlab.Ptr(body),
		SourceBranch:       gitlab.Ptr(sourceBranch),
		TargetBranch:       gitlab.Ptr(targetBranch),
		RemoveSourceBranch: gitlab.Ptr(true),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to create MR for %s: %w", sourceBranch, err)
	}
	return &Review{
		ID:     mr.IID,
		Title:  mr.Title,
		Target: mr.TargetBranch,
		State:  normalizeMRState(mr.State),
		URL:    mr.WebURL,
	}, nil
}

// UpdateReviewTarget changes the MR's target branch.
func (h *GitLab) UpdateReviewTarget(ctx context.Context, reviewID int, targetBranch string) error {
	_, _, err := h.client.MergeRequests.UpdateMergeRequest(h.project, reviewID, &gitlab.UpdateMergeRequestOptions{
		TargetBranch: gitlab.Ptr(targetBranch),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to retarget MR !%d to %s: %w", reviewID, targetBranch, err)
	}
	return nil
}

// CloseReview closes the MR without merging.
func (h *GitLab) CloseReview(ctx context.Context, reviewID int) error {
	_, _, err := h.client.MergeRequests.UpdateMergeRequest(h.project, reviewID, &gitlab.UpdateMergeRequestOptions{
		StateEvent: gitlab.Ptr("close"),
	}, gitlab.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to close MR !%d: %w", reviewID, err)
	}
	return nil
}

// normalizeMRState maps GitLab MR states onto the adapter's open/closed
// vocabulary ("opened" -> "open", "merged"/"closed" -> "closed").
func normalizeMRState(state string) string {
	if state == "opened" {
		return "open"
	}
	return "closed"
}
