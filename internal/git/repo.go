package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Commit is a commit as seen by the read side
type Commit struct {
	Hash    string
	Parents []string
	Message CommitMessage
}

// Repo provides read-only repository access via go-git. Mutations go
// through Client; keeping the read path in-process avoids a subprocess
// per commit when walking a range.
type Repo struct {
	repo *gogit.Repository
}

// OpenRepo opens the repository containing dir
func OpenRepo(dir string) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not in a git repository: %w", err)
	}
	return &Repo{repo: r}, nil
}

// ResolveRevision resolves a revision (branch, tag, hash expression)
// to a commit hash
func (r *Repo) ResolveRevision(rev string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	return hash.String(), nil
}

// Commit loads a commit by hash
func (r *Repo) Commit(hash string) (Commit, error) {
	obj, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return Commit{}, fmt.Errorf("failed to load commit %s: %w", hash, err)
	}

	parents := make([]string, 0, obj.NumParents())
	for _, p := range obj.ParentHashes {
		parents = append(parents, p.String())
	}

	return Commit{
		Hash:    obj.Hash.String(),
		Parents: parents,
		Message: ParseCommitMessage(obj.Message),
	}, nil
}

// IsDirty reports whether the working tree has uncommitted changes,
// staged or not
func (r *Repo) IsDirty() (bool, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("failed to open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("failed to get worktree status: %w", err)
	}
	return !status.IsClean(), nil
}

// RemoteURL returns the first fetch URL configured for the named remote
func (r *Repo) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("failed to look up remote %s: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no URL configured", name)
	}
	return urls[0], nil
}
