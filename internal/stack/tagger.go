package stack

import (
	"fmt"

	"github.com/jspahr/publish/internal/changeid"
	"github.com/jspahr/publish/internal/git"
)

// Tagger ensures every commit in the stack carries a change-id trailer.
// Tagging a commit changes its hash, so every later commit in the range
// is rebuilt on the new parent; callers must re-read the stack after a
// rewrite and never hold entries across a Tag call.
type Tagger struct {
	git           *git.Client
	trailerPrefix string
	branchPrefix  string
}

// NewTagger creates a tagger.
func NewTagger(gitClient *git.Client, trailerPrefix string, branchPrefix string) *Tagger {
	return &Tagger{git: gitClient, trailerPrefix: trailerPrefix, branchPrefix: branchPrefix}
}

// Tag assigns change ids to entries that lack one, rewriting the
// checked-out branch in place. taken holds every id already visible
// locally or remotely; new ids are generated outside it. Returns true
// if history was rewritten.
//
// The rewrite is all-or-nothing: commits are rebuilt as loose objects
// first and the branch only moves once the whole chain exists, so a
// failure mid-way leaves the branch untouched. A dirty working tree
// fails with ErrDirtyTree before anything is written.
func (t *Tagger) Tag(stk *Stack, taken map[changeid.ID]bool) (bool, error) {
	if !stk.NeedsTagging() {
		return false, nil
	}

	dirty, err := t.git.HasUncommittedChanges()
	if err != nil {
		return false, err
	}
	if dirty {
		return false, fmt.Errorf("cannot rewrite commits to add change ids: %w", ErrDirtyTree)
	}

	newParent := stk.BaseHash
	rewriting := false

	for i := range stk.Entries {
		entry := &stk.Entries[i]

		message := entry.Message.Raw
		if entry.ID == "" {
			id := changeid.Generate(t.branchPrefix, taken)
			taken[id] = true
			message = changeid.Append(message, t.trailerPrefix, id)
			rewriting = true
		}

		if !rewriting {
			newParent = entry.CommitHash
			continue
		}

		// Re-parent (and possibly re-message) the commit
		tree, err := t.git.CommitTreeOf(entry.CommitHash)
		if err != nil {
			return false, err
		}
		newHash, err := t.git.CommitTree(tree, newParent, message)
		if err != nil {
			return false, fmt.Errorf("failed to rewrite commit %s: %w", shortHash(entry.CommitHash), err)
		}
		newParent = newHash
	}

	// The whole chain exists now; move the branch in one step. The tree
	// at the tip is unchanged, so this only rewrites commit metadata.
	if err := t.git.ResetHard(newParent); err != nil {
		return false, err
	}

	return true, nil
}
