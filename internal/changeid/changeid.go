// Package changeid assigns stable identities to commits so they can be
// matched to remote review branches across amends, rebases and reorders.
package changeid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/jspahr/publish/internal/git"
)

// DefaultTrailerPrefix is the trailer key commits carry their id under.
const DefaultTrailerPrefix = "Change-Id:"

// tokenLength is the number of hex characters kept from a generated uuid.
const tokenLength = 16

var tokenRegex = regexp.MustCompile(`^[a-f0-9]{4,32}$`)

// ID is a change identity of the form "<prefix>/<token>". The string is
// also the name of the remote branch that hosts the change's review, so
// it round-trips between trailer and branch without translation.
type ID string

// BranchName returns the remote branch name for this change.
func (id ID) BranchName() string {
	return string(id)
}

// Token returns the random part of the id, without the prefix.
func (id ID) Token() string {
	idx := strings.LastIndex(string(id), "/")
	if idx < 0 {
		return string(id)
	}
	return string(id)[idx+1:]
}

// New generates a fresh id under prefix.
func New(prefix string) ID {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")[:tokenLength]
	return ID(fmt.Sprintf("%s/%s", prefix, token))
}

// Generate returns a fresh id under prefix that does not collide with
// any id in taken.
func Generate(prefix string, taken map[ID]bool) ID {
	for {
		id := New(prefix)
		if !taken[id] {
			return id
		}
	}
}

// FromBranch parses a remote branch name of the form "<prefix>/<token>"
// back into an id. Branches under other prefixes, or with tokens that do
// not look like generated ones, are not ours.
func FromBranch(branch string, prefix string) (ID, bool) {
	rest, ok := strings.CutPrefix(branch, prefix+"/")
	if !ok {
		return "", false
	}
	if !tokenRegex.MatchString(rest) {
		return "", false
	}
	return ID(branch), true
}

// Parse extracts the change id from a commit message's trailer block.
// Returns false if the message carries no id trailer.
func Parse(message string, trailerPrefix string) (ID, bool) {
	commit := git.ParseCommitMessage(message)
	key := strings.TrimSuffix(trailerPrefix, ":")
	value, ok := commit.Trailers[key]
	if !ok || value == "" {
		return "", false
	}
	return ID(strings.TrimSpace(value)), true
}

// Append adds an id trailer to a commit message, preserving any existing
// trailer block. The message is returned unchanged if it already carries
// an id under trailerPrefix.
func Append(message string, trailerPrefix string, id ID) string {
	if _, ok := Parse(message, trailerPrefix); ok {
		return message
	}

	key := strings.TrimSuffix(trailerPrefix, ":")
	commit := git.ParseCommitMessage(message)

	trimmed := strings.TrimRight(message, "\n")
	if len(commit.Trailers) > 0 {
		// Existing trailer block: join it.
		return fmt.Sprintf("%s\n%s %s\n", trimmed, key+":", id)
	}
	return fmt.Sprintf("%s\n\n%s %s\n", trimmed, key+":", id)
}

// Strip removes the id trailer from a commit message, if present.
func Strip(message string, trailerPrefix string) string {
	key := strings.TrimSuffix(trailerPrefix, ":")
	lines := strings.Split(message, "\n")
	kept := lines[:0]
	for _, line := range lines {
		name, _, found := strings.Cut(line, ":")
		if found && strings.EqualFold(strings.TrimSpace(name), key) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimRight(strings.Join(kept, "\n"), "\n") + "\n"
}
