package stack

import (
	"fmt"
	"sort"

	"github.com/jspahr/publish/internal/changeid"
)

// BuildPlan diffs the ordered local stack against the remote mapping
// and returns the minimal ordered operation sequence that brings the
// remote into agreement with the stack.
//
// Per position i, the expected review target is the base branch for
// i = 0 and the branch of entry i-1 otherwise, using planned branch
// names so a brand-new multi-commit stack is created in one pass.
// Remote entries whose id no longer appears in the stack are closed and
// deleted at the end.
func BuildPlan(stk *Stack, remote *RemoteState) (*Plan, error) {
	seen := make(map[changeid.ID]bool, len(stk.Entries))
	for _, entry := range stk.Entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("commit %s has no change id; run tagging first", shortHash(entry.CommitHash))
		}
		if seen[entry.ID] {
			return nil, &DuplicateIDError{ID: entry.ID}
		}
		seen[entry.ID] = true
	}

	plan := &Plan{Ops: make([]Operation, 0, len(stk.Entries))}

	target := stk.Base
	for i := range stk.Entries {
		entry := &stk.Entries[i]
		plan.Ops = append(plan.Ops, planEntry(entry, remote.Entries[entry.ID], target))
		target = entry.ID.BranchName()
	}

	// Orphans, in a deterministic order
	var orphans []*RemoteEntry
	for id, re := range remote.Entries {
		if !seen[id] {
			orphans = append(orphans, re)
		}
	}
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Branch < orphans[j].Branch })
	for _, re := range orphans {
		plan.Ops = append(plan.Ops, Operation{Kind: OpCloseDelete, Remote: re})
	}

	return plan, nil
}

func planEntry(entry *LocalEntry, re *RemoteEntry, target string) Operation {
	op := Operation{Entry: entry, Remote: re, Target: target}

	switch {
	case re == nil:
		op.Kind = OpCreate
	case re.Unknown:
		// The review may well exist; creating would fork its history.
		// Force a content push and leave the review alone.
		op.Kind = OpUpdate
		op.Forced = true
	case re.Commit != entry.CommitHash:
		op.Kind = OpUpdate
	case re.Review == nil:
		// Branch is current but its review is gone (closed by hand).
		// Re-create so the chain stays reviewable.
		op.Kind = OpCreate
	case re.Review.Target != target:
		op.Kind = OpRetarget
	default:
		op.Kind = OpNoOp
	}

	return op
}
