package stack

import (
	"fmt"

	"github.com/jspahr/publish/internal/changeid"
	"github.com/jspahr/publish/internal/git"
)

// maxStackDepth bounds the walk from tip to base. A linear stack deeper
// than this is almost certainly a diverged branch, not a stack.
const maxStackDepth = 1000

// Reader walks the local commit range between a base and a tip and
// produces the ordered stack for this run.
type Reader struct {
	repo          *git.Repo
	trailerPrefix string
}

// NewReader creates a stack reader.
func NewReader(repo *git.Repo, trailerPrefix string) *Reader {
	return &Reader{repo: repo, trailerPrefix: trailerPrefix}
}

// Read returns the ordered stack from base-adjacent to tip. baseBranch
// is the branch name reviews will target; baseRef is the ref the range
// starts after (usually the upstream of the current branch).
//
// The tip must be a strict descendant of the base along a linear
// first-parent chain: a merge commit fails with ErrNonLinearStack,
// identical base and tip with ErrEmptyStack, and a base that is not an
// ancestor with ErrNotAStack.
func (r *Reader) Read(baseBranch string, baseRef string, tipRef string) (*Stack, error) {
	baseHash, err := r.repo.ResolveRevision(baseRef)
	if err != nil {
		return nil, err
	}
	tipHash, err := r.repo.ResolveRevision(tipRef)
	if err != nil {
		return nil, err
	}

	if baseHash == tipHash {
		return nil, fmt.Errorf("%s and %s are identical: %w", tipRef, baseRef, ErrEmptyStack)
	}

	// Walk tip -> base collecting commits, then reverse into stack order
	var commits []git.Commit
	hash := tipHash
	for hash != baseHash {
		if len(commits) >= maxStackDepth {
			return nil, fmt.Errorf("%s not reached within %d commits of %s: %w", baseRef, maxStackDepth, tipRef, ErrNotAStack)
		}

		commit, err := r.repo.Commit(hash)
		if err != nil {
			return nil, err
		}
		if len(commit.Parents) > 1 {
			return nil, fmt.Errorf("merge commit %s in range: %w", shortHash(hash), ErrNonLinearStack)
		}
		if len(commit.Parents) == 0 {
			return nil, fmt.Errorf("%s is not an ancestor of %s: %w", baseRef, tipRef, ErrNotAStack)
		}

		commits = append(commits, commit)
		hash = commit.Parents[0]
	}

	entries := make([]LocalEntry, len(commits))
	for i, commit := range commits {
		position := len(commits) - 1 - i
		id, _ := changeid.Parse(commit.Message.Raw, r.trailerPrefix)
		entries[position] = LocalEntry{
			ID:         id,
			CommitHash: commit.Hash,
			Position:   position,
			Message:    commit.Message,
		}
	}

	return &Stack{
		Base:     baseBranch,
		BaseHash: baseHash,
		TipHash:  tipHash,
		Entries:  entries,
	}, nil
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
