package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/ktr0731/go-fuzzyfinder"
)

func init() {
	// Force lipgloss to initialize and detect terminal before the fuzzy
	// finder starts, so ANSI sequences don't leak into the finder input
	_ = lipgloss.NewStyle().Render("")
	_ = lipgloss.HasDarkBackground()
}

// ReviewItem is a selectable review in the fuzzy finder.
type ReviewItem struct {
	ChangeID string
	Title    string
	Target   string
	URL      string
}

// SelectReview presents a fuzzy finder to pick one review from the
// stack. Returns nil if the user cancelled.
func SelectReview(items []ReviewItem) (*ReviewItem, error) {
	os.Stdout.Sync()
	os.Stderr.Sync()

	idx, err := fuzzyfinder.Find(
		items,
		func(i int) string {
			return fmt.Sprintf("%s  %s", items[i].ChangeID, items[i].Title)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			return fmt.Sprintf("%s\n\nchange:  %s\ntarget:  %s\nreview:  %s",
				items[i].Title, items[i].ChangeID, items[i].Target, items[i].URL)
		}),
	)
	if err != nil {
		// User cancelled (Ctrl+C or ESC)
		return nil, nil
	}

	return &items[idx], nil
}
