// Package ui provides a terminal browser for triage results.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

// page identifies the browser's current view.
type page int

const (
	listPage page = iota
	detailPage
)

// Browser is a terminal browser over a triage result.
type Browser struct {
	result      *models.TriageResult
	currentPage page
	cursor      int
	width       int
	height      int
}

// NewBrowser creates a browser for a triage result.
func NewBrowser(result *models.TriageResult) *Browser {
	return &Browser{result: result}
}

// Run starts the browser in an alternate screen.
func (b *Browser) Run() error {
	p := tea.NewProgram(b, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update handles key and resize events.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return b, tea.Quit

		case "j", "down":
			if b.currentPage == listPage && b.cursor < len(b.result.Vulnerabilities)-1 {
				b.cursor++
			}
		case "k", "up":
			if b.currentPage == listPage && b.cursor > 0 {
				b.cursor--
			}
		case "g":
			if b.currentPage == listPage {
				b.cursor = 0
			}
		case "G":
			if b.currentPage == listPage && len(b.result.Vulnerabilities) > 0 {
				b.cursor = len(b.result.Vulnerabilities) - 1
			}
		case "enter":
			if b.currentPage == listPage && b.cursor < len(b.result.Vulnerabilities) {
				b.currentPage = detailPage
			}
		case "esc":
			if b.currentPage == detailPage {
				b.currentPage = listPage
			} else {
				return b, tea.Quit
			}
		}
	}
	return b, nil
}

// View renders the current page.
func (b *Browser) View() string {
	if b.currentPage == detailPage {
		return b.detailView()
	}
	return b.listView()
}

func (b *Browser) listView() string {
	var sb strings.Builder

	title := TitleStyle.Render("Triage Results")
	sb.WriteString(lipgloss.PlaceHorizontal(b.width, lipgloss.Center, title))
	sb.WriteString("\n\n")

	summary := fmt.Sprintf(
		"Total: %d | Threats: %d | False positives: %d | Critical: %s | High: %s | Medium: %s | Low: %s",
		b.result.Total,
		b.result.RealThreats,
		b.result.FalsePositives,
		b.countCell(models.SeverityCritical, b.result.Critical),
		b.countCell(models.SeverityHigh, b.result.High),
		b.countCell(models.SeverityMedium, b.result.Medium),
		b.countCell(models.SeverityLow, b.result.Low),
	)
	summaryStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(0, 2)
	sb.WriteString(summaryStyle.Render(summary))
	sb.WriteString("\n\n")

	if len(b.result.Vulnerabilities) == 0 {
		sb.WriteString(lipgloss.PlaceHorizontal(b.width, lipgloss.Center, "No findings to display"))
	} else {
		headerStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

		headers := []string{
			padRight("Priority", 10),
			padRight("Severity", 16),
			padRight("Name", 44),
			padRight("File", 36),
		}
		sb.WriteString("  ")
		sb.WriteString(headerStyle.Render(strings.Join(headers, " ")))
		sb.WriteString("\n")

		for i, vuln := range b.result.Vulnerabilities {
			cursor := "  "
			style := NormalItemStyle
			if b.cursor == i {
				cursor = "▸ "
				style = SelectedItemStyle
			}

			severity := SeverityStyle(vuln.FinalSeverity).Render(padRight(string(vuln.FinalSeverity), 16))
			row := fmt.Sprintf("%s%s %s %s %s",
				cursor,
				padRight(fmt.Sprintf("%d", vuln.Priority), 10),
				severity,
				padRight(vuln.Name, 44),
				padRight(b.location(vuln), 36),
			)

			sb.WriteString(style.Render(row))
			sb.WriteString("\n")

			if b.height > 0 && i > b.height-14 {
				remaining := len(b.result.Vulnerabilities) - i - 1
				sb.WriteString(HelpStyle.Render(fmt.Sprintf("  ... and %d more findings", remaining)))
				break
			}
		}
	}

	sb.WriteString("\n\n")
	help := HelpStyle.Render("Navigate: j/k • Top/bottom: g/G • Details: Enter • Quit: q")
	sb.WriteString(lipgloss.PlaceHorizontal(b.width, lipgloss.Center, help))

	return sb.String()
}

func (b *Browser) detailView() string {
	if b.cursor >= len(b.result.Vulnerabilities) {
		return "No finding selected"
	}
	vuln := b.result.Vulnerabilities[b.cursor]

	var sb strings.Builder

	title := TitleStyle.Render("Finding Details")
	sb.WriteString(lipgloss.PlaceHorizontal(b.width, lipgloss.Center, title))
	sb.WriteString("\n\n")

	writeField := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(LabelStyle.Render(padRight(label+":", 16)))
		sb.WriteString(value)
		sb.WriteString("\n")
	}

	writeField("Name", vuln.Name)
	writeField("Severity", SeverityStyle(vuln.FinalSeverity).Render(string(vuln.FinalSeverity)))
	writeField("Priority", fmt.Sprintf("%d", vuln.Priority))
	writeField("Reported as", string(vuln.Severity))
	writeField("CVE", vuln.CVE)
	writeField("CWE", vuln.CWE)
	writeField("Location", b.location(vuln))
	writeField("Rule", vuln.Rule)

	sb.WriteString("\n")
	cvssLabel := fmt.Sprintf("%.1f (%s", vuln.CVSS.BaseScore, vuln.CVSS.Severity)
	if vuln.CVSS.Estimated() {
		cvssLabel += ", estimated"
	}
	cvssLabel += ")"
	writeField("CVSS", cvssLabel)
	writeField("Vector", vuln.CVSS.Vector)

	verdict := "real threat"
	if !vuln.Prediction.IsRealThreat {
		verdict = "likely false positive"
	}
	writeField("ML verdict", fmt.Sprintf("%s (%.0f%% confidence)", verdict, vuln.Prediction.Confidence*100))
	writeField("Investigate", fmt.Sprintf("%t", vuln.ShouldInvestigate))

	if vuln.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(LabelStyle.Render("Description"))
		sb.WriteString("\n")
		sb.WriteString(vuln.Description)
		sb.WriteString("\n")
	}

	if vuln.TriageReasoning != "" {
		sb.WriteString("\n")
		sb.WriteString(LabelStyle.Render("Reasoning"))
		sb.WriteString("\n")
		sb.WriteString(vuln.TriageReasoning)
		sb.WriteString("\n")
	}
	if vuln.Prediction.Reasoning != "" {
		sb.WriteString(vuln.Prediction.Reasoning)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	help := HelpStyle.Render("Back: Esc • Quit: q")
	sb.WriteString(lipgloss.PlaceHorizontal(b.width, lipgloss.Center, help))

	return sb.String()
}

func (b *Browser) countCell(severity models.Severity, count int) string {
	return lipgloss.NewStyle().Foreground(SeverityColor(severity)).Render(fmt.Sprintf("%d", count))
}

func (b *Browser) location(vuln models.TriagedVulnerability) string {
	if vuln.File == "" {
		return ""
	}
	if vuln.Line > 0 {
		return fmt.Sprintf("%s:%d", vuln.File, vuln.Line)
	}
	return vuln.File
}

// padRight pads a string with spaces, truncating with an ellipsis if too long.
func padRight(str string, length int) string {
	if len(str) >= length {
		return str[:length-1] + "…"
	}
	return str + strings.Repeat(" ", length-len(str))
}
