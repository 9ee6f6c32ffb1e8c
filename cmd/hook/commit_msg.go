package hook

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jspahr/publish/internal/changeid"
)

// CommitMsgCommand implements the commit-msg hook: it appends a
// Change-Id trailer to the message unless one is already present.
type CommitMsgCommand struct {
	parent *Command

	MessageFile string
}

// Register registers the commit-msg command
func (c *CommitMsgCommand) Register(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "commit-msg <file>",
		Short: "commit-msg git hook",
		Long:  `Called by git after the commit message is written, adds the Change-Id trailer.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.MessageFile = args[0]
			return c.Run()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	parent.AddCommand(cmd)
}

// Run executes the commit-msg hook
func (c *CommitMsgCommand) Run() error {
	content, err := os.ReadFile(c.MessageFile)
	if err != nil {
		return err
	}
	message := string(content)

	stripped := stripComments(message)
	if skipMessage(stripped) {
		return nil
	}
	if _, ok := changeid.Parse(stripped, c.parent.Config.TrailerPrefix); ok {
		return nil
	}

	id := changeid.New(c.parent.Config.BranchPrefix)
	tagged := changeid.Append(message, c.parent.Config.TrailerPrefix, id)
	return os.WriteFile(c.MessageFile, []byte(tagged), 0644)
}

// skipMessage reports whether the message should stay untagged: empty
// messages abort the commit anyway, and fixup/squash commits vanish
// during the rebase that folds them in.
func skipMessage(message string) bool {
	title := strings.TrimSpace(strings.SplitN(message, "\n", 2)[0])
	if title == "" {
		return true
	}
	return strings.HasPrefix(title, "fixup!") || strings.HasPrefix(title, "squash!")
}

func stripComments(message string) string {
	lines := strings.Split(message, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
