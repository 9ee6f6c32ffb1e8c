package stack

// OpKind names a planned remote operation.
type OpKind string

const (
	OpCreate      OpKind = "create"
	OpUpdate      OpKind = "update"
	OpRetarget    OpKind = "retarget"
	OpNoOp        OpKind = "noop"
	OpCloseDelete OpKind = "close"
)

// Operation is one step of a plan.
type Operation struct {
	Kind OpKind

	// Entry is the local change, nil for OpCloseDelete.
	Entry *LocalEntry

	// Remote is the pre-run remote view, nil for OpCreate.
	Remote *RemoteEntry

	// Target is the branch this change's review should merge into:
	// the base branch at position 0, otherwise the branch of the entry
	// below. Empty for OpCloseDelete.
	Target string

	// Forced marks an update pushed despite an unknown review lookup.
	Forced bool
}

// Plan is the ordered operation sequence for one run. Create, update,
// and retarget operations appear in stack order (base to tip) so a
// retarget always points at a branch that already exists or was just
// updated; close-and-delete operations come last.
type Plan struct {
	Ops []Operation
}

// AllNoOp reports whether the plan would change nothing. A clean re-run
// over unchanged state produces an all-noop plan.
func (p *Plan) AllNoOp() bool {
	for _, op := range p.Ops {
		if op.Kind != OpNoOp {
			return false
		}
	}
	return true
}

// Count returns the number of operations of the given kind.
func (p *Plan) Count(kind OpKind) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
