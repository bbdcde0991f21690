package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

// Style definitions.
var (
	CriticalColor = lipgloss.Color("#FF0000")
	HighColor     = lipgloss.Color("#FFA500")
	MediumColor   = lipgloss.Color("#FFFF00")
	LowColor      = lipgloss.Color("#0000FF")
	InfoColor     = lipgloss.Color("#808080")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			MarginBottom(1)

	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#00FFFF")).
				Bold(true)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))
)

// SeverityColor returns the theme color for a severity.
func SeverityColor(severity models.Severity) lipgloss.Color {
	switch severity {
	case models.SeverityCritical:
		return CriticalColor
	case models.SeverityHigh:
		return HighColor
	case models.SeverityMedium:
		return MediumColor
	case models.SeverityLow:
		return LowColor
	default:
		return InfoColor
	}
}

// SeverityStyle returns a bold style colored for a severity.
func SeverityStyle(severity models.Severity) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(SeverityColor(severity)).Bold(true)
}
