// Package stack implements the reconciliation core: reading the local
// commit stack, tagging commits with stable change ids, resolving the
// remote branch/review state, diffing the two into an ordered plan,
// and applying that plan.
package stack

import (
	"github.com/jspahr/publish/internal/changeid"
	"github.com/jspahr/publish/internal/git"
	"github.com/jspahr/publish/internal/hosting"
)

// LocalEntry is one logical change in the local stack: a commit plus
// its stable identity. Position 0 is nearest to the base.
type LocalEntry struct {
	// ID is empty until the commit carries a change-id trailer.
	ID         changeid.ID
	CommitHash string
	Position   int
	Message    git.CommitMessage
}

// Stack is the ordered local stack for one run. It is rebuilt from the
// live commit range on every run and never persisted; the remote is the
// only state that survives between runs.
type Stack struct {
	// Base is the branch name reviews at position 0 target (e.g. "main").
	Base string
	// BaseHash is the commit the range starts after.
	BaseHash string
	// TipHash is the commit at the top of the range.
	TipHash string
	Entries  []LocalEntry
}

// IDs returns the set of change ids currently assigned in the stack.
func (s *Stack) IDs() map[changeid.ID]bool {
	ids := make(map[changeid.ID]bool, len(s.Entries))
	for _, e := range s.Entries {
		if e.ID != "" {
			ids[e.ID] = true
		}
	}
	return ids
}

// NeedsTagging reports whether any entry is missing a change id.
func (s *Stack) NeedsTagging() bool {
	for _, e := range s.Entries {
		if e.ID == "" {
			return true
		}
	}
	return false
}

// RemoteEntry is what the review host currently believes about one
// change: its branch, the branch tip, and the associated review.
type RemoteEntry struct {
	ID     changeid.ID
	Branch string
	// Commit is the remote branch tip.
	Commit string
	// Review is nil when the branch has no open review, or when the
	// lookup failed (see Unknown).
	Review *hosting.Review
	// Unknown marks an entry whose review lookup failed. Unknown is
	// never treated as absent: creating over it could fork review
	// history.
	Unknown bool
}

// RemoteState is the resolved remote mapping for one run, plus any
// degraded-lookup warnings. It goes stale the moment the executor
// mutates the remote, so a run never re-resolves after mutation.
type RemoteState struct {
	Entries  map[changeid.ID]*RemoteEntry
	Warnings []string
}
