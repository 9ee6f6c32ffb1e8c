package stack

import (
	"errors"
	"fmt"

	"github.com/jspahr/publish/internal/changeid"
)

// Precondition errors. All of these abort a run before any mutation.
var (
	// ErrEmptyStack means base and tip are the same commit.
	ErrEmptyStack = errors.New("nothing to publish")

	// ErrNotAStack means the base branch is not an ancestor of the tip
	// (history has diverged).
	ErrNotAStack = errors.New("branch has diverged from its base")

	// ErrNonLinearStack means the commit range contains a merge commit.
	ErrNonLinearStack = errors.New("commit range is not linear")

	// ErrDirtyTree means uncommitted changes block a history rewrite.
	ErrDirtyTree = errors.New("uncommitted changes in working tree")
)

// DuplicateIDError reports a change id that appears on more than one
// commit in the local range. The reconciler never guesses which
// occurrence is authoritative.
type DuplicateIDError struct {
	ID changeid.ID
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("change id %s appears on more than one commit in the range", e.ID)
}
