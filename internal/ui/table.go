package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// SummaryRow is one line of the run summary: what was attempted for a
// change and how it went.
type SummaryRow struct {
	ChangeID  string
	Title     string
	Operation string
	Outcome   string
	URL       string
}

// RenderSummary renders the per-change run summary as a table sized to
// the terminal.
func RenderSummary(rows []SummaryRow) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Width(GetTerminalWidth()).
		StyleFunc(summaryStyleFunc(rows)).
		Headers("CHANGE", "TITLE", "OPERATION", "OUTCOME", "LINK")

	for _, row := range rows {
		t.Row(row.ChangeID, row.Title, row.Operation, row.Outcome, row.URL)
	}

	return t.Render()
}

func summaryStyleFunc(rows []SummaryRow) func(row, col int) lipgloss.Style {
	return func(row, col int) lipgloss.Style {
		if row == table.HeaderRow {
			return BoldStyle.Padding(0, 1)
		}
		if col == 2 && row >= 0 && row < len(rows) {
			return OperationStyle(rows[row].Operation).Padding(0, 1)
		}
		if col == 3 && row >= 0 && row < len(rows) && rows[row].Outcome == "failed" {
			return ErrorStyle.Padding(0, 1)
		}
		return lipgloss.NewStyle().Padding(0, 1)
	}
}
