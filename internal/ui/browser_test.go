package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrieldeoliveira72/MVPMoral/internal/models"
)

func browserFixture() *Browser {
	result := &models.TriageResult{
		Total:       3,
		RealThreats: 2,
		Critical:    1,
		High:        1,
		Low:         1,
		Vulnerabilities: []models.TriagedVulnerability{
			{
				Vulnerability: models.Vulnerability{
					ID:       "vuln-1",
					Name:     "SQL Injection in login",
					File:     "handlers/login.go",
					Line:     42,
					CVE:      "CVE-2023-1234",
					Severity: models.SeverityHigh,
				},
				CVSS:              models.CVSSScore{BaseScore: 9.1, Severity: models.SeverityCritical, Version: models.CVSSVersion31},
				Prediction:        models.ThreatPrediction{IsRealThreat: true, Confidence: 0.95},
				FinalSeverity:     models.SeverityCritical,
				Priority:          97,
				ShouldInvestigate: true,
				TriageReasoning:   "CVSS base score 9.1 maps to critical priority.",
			},
			{
				Vulnerability: models.Vulnerability{
					ID:       "vuln-2",
					Name:     "Weak hash algorithm",
					File:     "crypto/hash.go",
					Severity: models.SeverityMedium,
				},
				CVSS:          models.CVSSScore{BaseScore: 7.4, Severity: models.SeverityHigh, Version: models.CVSSVersionEstimate},
				Prediction:    models.ThreatPrediction{IsRealThreat: true, Confidence: 0.8},
				FinalSeverity: models.SeverityHigh,
				Priority:      74,
			},
			{
				Vulnerability: models.Vulnerability{
					ID:       "vuln-3",
					Name:     "Verbose logging",
					Severity: models.SeverityLow,
				},
				Prediction:    models.ThreatPrediction{IsRealThreat: false, Confidence: 0.9},
				FinalSeverity: models.SeverityFalsePositive,
			},
		},
	}
	return NewBrowser(result)
}

func keyPress(key string) tea.KeyMsg {
	if len(key) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{}
}

func TestBrowserNavigation(t *testing.T) {
	b := browserFixture()

	assert.Equal(t, 0, b.cursor)

	b.Update(keyPress("j"))
	assert.Equal(t, 1, b.cursor)

	b.Update(keyPress("j"))
	b.Update(keyPress("j"))
	assert.Equal(t, 2, b.cursor, "cursor stops at the last finding")

	b.Update(keyPress("k"))
	assert.Equal(t, 1, b.cursor)

	b.Update(keyPress("g"))
	assert.Equal(t, 0, b.cursor)

	b.Update(keyPress("k"))
	assert.Equal(t, 0, b.cursor, "cursor stops at the first finding")

	b.Update(keyPress("G"))
	assert.Equal(t, 2, b.cursor)
}

func TestBrowserDetailPage(t *testing.T) {
	b := browserFixture()

	b.Update(keyPress("enter"))
	assert.Equal(t, detailPage, b.currentPage)

	view := b.View()
	assert.Contains(t, view, "SQL Injection in login")
	assert.Contains(t, view, "CVE-2023-1234")
	assert.Contains(t, view, "handlers/login.go:42")
	assert.Contains(t, view, "9.1")

	b.Update(keyPress("j"))
	assert.Equal(t, 0, b.cursor, "list navigation is inert on the detail page")

	b.Update(keyPress("esc"))
	assert.Equal(t, listPage, b.currentPage)
}

func TestBrowserDetailShowsEstimatedScore(t *testing.T) {
	b := browserFixture()
	b.cursor = 1

	b.Update(keyPress("enter"))
	assert.Contains(t, b.View(), "estimated")
}

func TestBrowserListView(t *testing.T) {
	b := browserFixture()
	b.Update(tea.WindowSizeMsg{Width: 160, Height: 48})

	view := b.View()
	assert.Contains(t, view, "Triage Results")
	assert.Contains(t, view, "SQL Injection in login")
	assert.Contains(t, view, "Weak hash algorithm")
	assert.Contains(t, view, "FALSE_POSITIVE")
}

func TestBrowserEmptyResult(t *testing.T) {
	b := NewBrowser(&models.TriageResult{Vulnerabilities: []models.TriagedVulnerability{}})

	b.Update(keyPress("G"))
	b.Update(keyPress("enter"))
	assert.Equal(t, listPage, b.currentPage, "enter on an empty list stays put")

	assert.Contains(t, b.View(), "No findings to display")
}

func TestBrowserQuit(t *testing.T) {
	b := browserFixture()

	_, cmd := b.Update(keyPress("q"))
	require.NotNil(t, cmd)

	_, cmd = b.Update(keyPress("esc"))
	require.NotNil(t, cmd, "esc on the list page quits")
}
