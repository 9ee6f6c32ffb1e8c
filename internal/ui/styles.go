package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorWarning = lipgloss.Color("#F59E0B") // Amber
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorInfo    = lipgloss.Color("#3B82F6") // Blue

	// Operation colors for the summary table
	ColorCreate   = lipgloss.Color("#10B981") // Green
	ColorUpdate   = lipgloss.Color("#3B82F6") // Blue
	ColorRetarget = lipgloss.Color("#F59E0B") // Amber
	ColorClose    = lipgloss.Color("#8B5CF6") // Purple
	ColorNoOp     = lipgloss.Color("#6B7280") // Gray

	ColorTextMuted = lipgloss.Color("#9CA3AF") // Gray
	ColorBorder    = lipgloss.Color("#374151") // Medium gray
)

// Message styles
var (
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	InfoStyle    = lipgloss.NewStyle().Foreground(ColorInfo)

	DimStyle  = lipgloss.NewStyle().Foreground(ColorTextMuted)
	BoldStyle = lipgloss.NewStyle().Bold(true)

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorInfo)
)

// OperationStyle returns the style for an operation name in the
// summary table
func OperationStyle(op string) lipgloss.Style {
	switch op {
	case "create":
		return lipgloss.NewStyle().Foreground(ColorCreate)
	case "update":
		return lipgloss.NewStyle().Foreground(ColorUpdate)
	case "retarget":
		return lipgloss.NewStyle().Foreground(ColorRetarget)
	case "close":
		return lipgloss.NewStyle().Foreground(ColorClose)
	default:
		return lipgloss.NewStyle().Foreground(ColorNoOp)
	}
}
